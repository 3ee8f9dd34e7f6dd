package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Providers that can supply accounts and cash-flow events
const (
	ProviderPostgres  = "postgres"
	ProviderNessie    = "nessie"
	ProviderStatement = "statement"
)

// Config holds application configuration
type Config struct {
	Port      string
	DBConn    string
	LogLevel  string
	JWTSecret string

	Provider         string
	NessieBase       string
	NessieKey        string
	NessieMode       string
	NessieCustomerID string
	StatementPath    string

	DefaultStartBalance float64
	MaxDailyDrift       float64
	Forecast            Profile
	ForecastProfile     string

	AlertSchedule string
	SMTPHost      string
	SMTPPort      string
	SMTPUsername  string
	SMTPPassword  string
	SenderEmail   string
}

// NewConfig loads configuration from environment variables
func NewConfig() (*Config, error) {
	cfg := &Config{
		Port:             getEnv("PORT", "8080"),
		DBConn:           getEnv("DB_CONN", "host=localhost port=5436 user=test password=test dbname=bank sslmode=disable"),
		LogLevel:         getEnv("LOG_LEVEL", "INFO"),
		JWTSecret:        getEnv("JWT_SECRET", "secret"),
		Provider:         strings.ToLower(getEnv("PROVIDER", ProviderPostgres)),
		NessieBase:       getEnv("NESSIE_BASE", "http://api.nessieisreal.com"),
		NessieKey:        getEnv("NESSIE_KEY", ""),
		NessieMode:       strings.ToLower(getEnv("NESSIE_MODE", "customer")),
		NessieCustomerID: getEnv("NESSIE_CUSTOMER_ID", ""),
		StatementPath:    getEnv("STATEMENT_PATH", ""),
		ForecastProfile:  getEnv("FORECAST_PROFILE", ""),
		AlertSchedule:    getEnv("ALERT_SCHEDULE", ""),
		SMTPHost:         getEnv("SMTP_HOST", "localhost"),
		SMTPPort:         getEnv("SMTP_PORT", "25"),
		SMTPUsername:     getEnv("SMTP_USERNAME", ""),
		SMTPPassword:     getEnv("SMTP_PASSWORD", ""),
		SenderEmail:      getEnv("SENDER_EMAIL", "coach@bank.local"),
	}

	var err error
	if cfg.DefaultStartBalance, err = getFloat("DEFAULT_START_BALANCE", 1000); err != nil {
		return nil, err
	}
	if cfg.MaxDailyDrift, err = getFloat("MAX_DAILY_DRIFT", 250); err != nil {
		return nil, err
	}

	cfg.Forecast = DefaultProfile()
	if cfg.Forecast.HorizonDays, err = getInt("HORIZON_DAYS", cfg.Forecast.HorizonDays); err != nil {
		return nil, err
	}
	if cfg.Forecast.Clamp, err = getBool("CLAMP_BALANCE", cfg.Forecast.Clamp); err != nil {
		return nil, err
	}
	cfg.Forecast.Taxonomy = getEnv("TAXONOMY", cfg.Forecast.Taxonomy)
	if cfg.ForecastProfile != "" {
		if cfg.Forecast, err = LoadProfile(cfg.ForecastProfile, cfg.Forecast); err != nil {
			return nil, err
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.DBConn == "" {
		return fmt.Errorf("DB_CONN is required")
	}
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	switch c.Provider {
	case ProviderPostgres:
	case ProviderNessie:
		if c.NessieBase == "" || c.NessieKey == "" {
			return fmt.Errorf("NESSIE_BASE and NESSIE_KEY are required for the nessie provider")
		}
		if c.NessieMode != "customer" && c.NessieMode != "enterprise" {
			return fmt.Errorf("NESSIE_MODE must be customer or enterprise, got %q", c.NessieMode)
		}
	case ProviderStatement:
		if c.StatementPath == "" {
			return fmt.Errorf("STATEMENT_PATH is required for the statement provider")
		}
	default:
		return fmt.Errorf("unknown PROVIDER %q", c.Provider)
	}
	if c.DefaultStartBalance < 0 {
		return fmt.Errorf("DEFAULT_START_BALANCE must not be negative")
	}
	return c.Forecast.Validate()
}

func getEnv(key, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultVal
}

func getFloat(key string, defaultVal float64) (float64, error) {
	raw, exists := os.LookupEnv(key)
	if !exists || raw == "" {
		return defaultVal, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return v, nil
}

func getInt(key string, defaultVal int) (int, error) {
	raw, exists := os.LookupEnv(key)
	if !exists || raw == "" {
		return defaultVal, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return v, nil
}

func getBool(key string, defaultVal bool) (bool, error) {
	raw, exists := os.LookupEnv(key)
	if !exists || raw == "" {
		return defaultVal, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("invalid %s: %w", key, err)
	}
	return v, nil
}
