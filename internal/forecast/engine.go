// Package forecast projects an account balance over a horizon, groups spending
// into categories and produces cash coach advice. Every function is pure.
package forecast

import (
	"time"

	"github.com/Dan9191/cash-coach/internal/models"
)

// DefaultHorizonDays is the projection length when none is configured
const DefaultHorizonDays = 30

// Options selects the variant of the forecast
type Options struct {
	HorizonDays int
	Start       time.Time // zero means today
	DailyDrift  float64
	Clamp       bool
	Taxonomy    Taxonomy
	Now         func() time.Time
}

// DefaultOptions returns an unclamped 30 day forecast over the full taxonomy
func DefaultOptions() Options {
	return Options{
		HorizonDays: DefaultHorizonDays,
		Taxonomy:    FullTaxonomy,
		Now:         time.Now,
	}
}

// Engine runs complete forecasts with fixed options
type Engine struct {
	opts Options
}

// NewEngine fills missing options with defaults
func NewEngine(opts Options) *Engine {
	if opts.HorizonDays < 0 {
		opts.HorizonDays = 0
	}
	if len(opts.Taxonomy.Rules) == 0 {
		opts.Taxonomy = FullTaxonomy
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Engine{opts: opts}
}

// Options returns the engine configuration
func (e *Engine) Options() Options {
	return e.opts
}

// StartDate is the first day of the horizon
func (e *Engine) StartDate() time.Time {
	if !e.opts.Start.IsZero() {
		return truncateDay(e.opts.Start)
	}
	return truncateDay(e.opts.Now())
}

// Run computes projection, categories, risk, summary and tips for one account
func (e *Engine) Run(startBalance float64, events []models.CashFlowEvent) models.ForecastResult {
	return e.RunWithDrift(startBalance, events, e.opts.DailyDrift)
}

// RunWithDrift is Run with an explicit daily drift
func (e *Engine) RunWithDrift(startBalance float64, events []models.CashFlowEvent, drift float64) models.ForecastResult {
	start := e.StartDate()
	projection := Project(startBalance, events, ProjectOptions{
		Start:       start,
		HorizonDays: e.opts.HorizonDays,
		DailyDrift:  drift,
		Clamp:       e.opts.Clamp,
	})

	expenses := make([]models.CashFlowEvent, 0, len(events))
	for _, ev := range events {
		if !ev.IsIncome() {
			expenses = append(expenses, ev)
		}
	}

	summary := Summarize(events, startBalance, projection)
	return models.ForecastResult{
		Projection:    projection,
		Categories:    Rollup(TagEvents(e.opts.Taxonomy, expenses)),
		Risk:          DetectRisk(projection),
		Summary:       summary,
		Tips:          Advise(projection, events, summary),
		UpcomingBills: UpcomingBills(events, start.Format(models.DateLayout)),
		Outlook:       Outlook(summary),
	}
}
