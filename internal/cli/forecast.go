package cli

import (
	"fmt"

	"github.com/Dan9191/cash-coach/internal/config"
	"github.com/Dan9191/cash-coach/internal/forecast"
	"github.com/spf13/cobra"
)

type forecastCmd struct {
	eventsPath  string
	profilePath string
	balance     float64
	horizon     int
	start       string
	drift       float64
	maxDrift    float64
	clamp       bool
	taxonomy    string
}

// NewForecastCmd runs a complete forecast over an events file
func NewForecastCmd() *cobra.Command {
	fc := &forecastCmd{}
	cmd := &cobra.Command{
		Use:   "forecast",
		Short: "Project the balance and print the forecast as JSON",
		RunE:  fc.run,
	}

	cmd.Flags().StringVar(&fc.eventsPath, "events", "", "JSON file of cash-flow events, - for stdin")
	cmd.Flags().StringVar(&fc.profilePath, "profile", "", "Forecast profile file (yaml, json or toml)")
	cmd.Flags().Float64Var(&fc.balance, "balance", 1000, "Starting balance")
	cmd.Flags().IntVar(&fc.horizon, "horizon", forecast.DefaultHorizonDays, "Horizon in days")
	cmd.Flags().StringVar(&fc.start, "start", "", "First projected day, YYYY-MM-DD (default today)")
	cmd.Flags().Float64Var(&fc.drift, "drift", 0, "Fixed daily spend; estimated from undated expenses when 0 and no event is dated")
	cmd.Flags().Float64Var(&fc.maxDrift, "max-drift", 250, "Upper bound for the estimated daily spend")
	cmd.Flags().BoolVar(&fc.clamp, "clamp", false, "Never let the projected balance go below zero")
	cmd.Flags().StringVar(&fc.taxonomy, "taxonomy", "full", "Category taxonomy: full or lite")

	_ = cmd.MarkFlagRequired("events")

	return cmd
}

// profile merges the profile file with flags set on the command line
func (fc *forecastCmd) profile(cmd *cobra.Command) (config.Profile, error) {
	p := config.DefaultProfile()
	if fc.profilePath != "" {
		var err error
		if p, err = config.LoadProfile(fc.profilePath, p); err != nil {
			return p, err
		}
	}
	flags := cmd.Flags()
	if flags.Changed("horizon") || fc.profilePath == "" {
		p.HorizonDays = fc.horizon
	}
	if flags.Changed("start") {
		p.StartDate = fc.start
	}
	if flags.Changed("drift") {
		p.DailyDrift = fc.drift
	}
	if flags.Changed("clamp") {
		p.Clamp = fc.clamp
	}
	if flags.Changed("taxonomy") {
		p.Taxonomy = fc.taxonomy
	}
	return p, p.Validate()
}

func (fc *forecastCmd) run(cmd *cobra.Command, _ []string) error {
	p, err := fc.profile(cmd)
	if err != nil {
		return fmt.Errorf("invalid forecast settings: %w", err)
	}
	opts, err := p.Options()
	if err != nil {
		return err
	}
	events, err := readEvents(cmd, fc.eventsPath)
	if err != nil {
		return err
	}

	drift := opts.DailyDrift
	if drift == 0 && !forecast.HasDatedEvents(events) {
		drift = forecast.EstimateDailyDrift(events, opts.HorizonDays, fc.maxDrift)
	}
	return printJSON(cmd, forecast.NewEngine(opts).RunWithDrift(fc.balance, events, drift))
}
