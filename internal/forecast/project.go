package forecast

import (
	"time"

	"github.com/Dan9191/cash-coach/internal/models"
	"github.com/shopspring/decimal"
)

// ProjectOptions controls a balance projection
type ProjectOptions struct {
	Start       time.Time // zero means today
	HorizonDays int
	DailyDrift  float64 // flat spend subtracted every day
	Clamp       bool    // floor the running balance at zero
}

// netByDay sums signed amounts per calendar day. Events with a malformed
// date or amount are left out.
func netByDay(events []models.CashFlowEvent) map[string]decimal.Decimal {
	net := make(map[string]decimal.Decimal)
	for _, e := range events {
		if !validAmount(e.Amount) {
			continue
		}
		day, ok := parseDay(e.Date)
		if !ok {
			continue
		}
		key := day.Format(models.DateLayout)
		net[key] = net[key].Add(decimal.NewFromFloat(e.SignedAmount()))
	}
	return net
}

// Project walks HorizonDays consecutive days from Start and returns the
// running balance for each day, rounded to cents.
func Project(startBalance float64, events []models.CashFlowEvent, opts ProjectOptions) []models.ProjectionPoint {
	if opts.HorizonDays <= 0 {
		return []models.ProjectionPoint{}
	}
	start := opts.Start
	if start.IsZero() {
		start = time.Now()
	}
	start = truncateDay(start)

	net := netByDay(events)
	drift := decimal.NewFromFloat(opts.DailyDrift)
	balance := decimal.NewFromFloat(startBalance)

	points := make([]models.ProjectionPoint, 0, opts.HorizonDays)
	for i := 0; i < opts.HorizonDays; i++ {
		date := start.AddDate(0, 0, i).Format(models.DateLayout)
		balance = balance.Sub(drift).Add(net[date])
		if opts.Clamp && balance.IsNegative() {
			balance = decimal.Zero
		}
		points = append(points, models.ProjectionPoint{
			Date:    date,
			Balance: balance.Round(2).InexactFloat64(),
		})
	}
	return points
}
