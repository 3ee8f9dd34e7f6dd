package config

import (
	"fmt"
	"time"

	"github.com/Dan9191/cash-coach/internal/forecast"
	"github.com/spf13/viper"
)

// Profile holds the tunable parts of a forecast run
type Profile struct {
	HorizonDays int     `mapstructure:"horizon_days"`
	Taxonomy    string  `mapstructure:"taxonomy"`
	Clamp       bool    `mapstructure:"clamp"`
	DailyDrift  float64 `mapstructure:"daily_drift"`
	StartDate   string  `mapstructure:"start_date"`
}

// DefaultProfile is an unclamped 30 day forecast over the full taxonomy
func DefaultProfile() Profile {
	return Profile{
		HorizonDays: forecast.DefaultHorizonDays,
		Taxonomy:    forecast.FullTaxonomy.Name,
	}
}

// LoadProfile reads a YAML, JSON or TOML profile. Keys absent from the file keep
// the values of base.
func LoadProfile(path string, base Profile) (Profile, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetDefault("horizon_days", base.HorizonDays)
	v.SetDefault("taxonomy", base.Taxonomy)
	v.SetDefault("clamp", base.Clamp)
	v.SetDefault("daily_drift", base.DailyDrift)
	v.SetDefault("start_date", base.StartDate)

	if err := v.ReadInConfig(); err != nil {
		return Profile{}, fmt.Errorf("failed to read forecast profile: %w", err)
	}

	var p Profile
	if err := v.Unmarshal(&p); err != nil {
		return Profile{}, fmt.Errorf("failed to parse forecast profile: %w", err)
	}
	if err := p.Validate(); err != nil {
		return Profile{}, err
	}
	return p, nil
}

// Validate checks ranges and names
func (p Profile) Validate() error {
	if p.HorizonDays < 0 {
		return fmt.Errorf("horizon_days must not be negative, got %d", p.HorizonDays)
	}
	if p.DailyDrift < 0 {
		return fmt.Errorf("daily_drift must not be negative, got %v", p.DailyDrift)
	}
	if _, err := forecast.TaxonomyByName(p.Taxonomy); err != nil {
		return err
	}
	if p.StartDate != "" {
		if _, err := time.Parse("2006-01-02", p.StartDate); err != nil {
			return fmt.Errorf("invalid start_date: %w", err)
		}
	}
	return nil
}

// Options converts the profile into forecast engine options
func (p Profile) Options() (forecast.Options, error) {
	if err := p.Validate(); err != nil {
		return forecast.Options{}, err
	}
	tax, _ := forecast.TaxonomyByName(p.Taxonomy)
	opts := forecast.DefaultOptions()
	opts.HorizonDays = p.HorizonDays
	opts.Taxonomy = tax
	opts.Clamp = p.Clamp
	opts.DailyDrift = p.DailyDrift
	if p.StartDate != "" {
		opts.Start, _ = time.Parse("2006-01-02", p.StartDate)
	}
	return opts, nil
}
