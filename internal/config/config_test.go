package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfig_Defaults(t *testing.T) {
	t.Setenv("PROVIDER", "")
	os.Unsetenv("PROVIDER")

	cfg, err := NewConfig()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, ProviderPostgres, cfg.Provider)
	assert.Equal(t, 1000.0, cfg.DefaultStartBalance)
	assert.Equal(t, 30, cfg.Forecast.HorizonDays)
	assert.Equal(t, "full", cfg.Forecast.Taxonomy)
	assert.False(t, cfg.Forecast.Clamp)
}

func TestNewConfig_ForecastOverrides(t *testing.T) {
	t.Setenv("HORIZON_DAYS", "45")
	t.Setenv("CLAMP_BALANCE", "true")
	t.Setenv("TAXONOMY", "lite")
	t.Setenv("DEFAULT_START_BALANCE", "250.5")

	cfg, err := NewConfig()
	require.NoError(t, err)

	assert.Equal(t, 45, cfg.Forecast.HorizonDays)
	assert.True(t, cfg.Forecast.Clamp)
	assert.Equal(t, "lite", cfg.Forecast.Taxonomy)
	assert.Equal(t, 250.5, cfg.DefaultStartBalance)
}

func TestNewConfig_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{name: "bad horizon", env: map[string]string{"HORIZON_DAYS": "soon"}},
		{name: "negative horizon", env: map[string]string{"HORIZON_DAYS": "-1"}},
		{name: "unknown provider", env: map[string]string{"PROVIDER": "plaid"}},
		{name: "nessie without key", env: map[string]string{"PROVIDER": "nessie", "NESSIE_KEY": ""}},
		{name: "nessie bad mode", env: map[string]string{"PROVIDER": "nessie", "NESSIE_KEY": "k", "NESSIE_MODE": "admin"}},
		{name: "statement without path", env: map[string]string{"PROVIDER": "statement", "STATEMENT_PATH": ""}},
		{name: "unknown taxonomy", env: map[string]string{"TAXONOMY": "detailed"}},
		{name: "empty jwt secret", env: map[string]string{"JWT_SECRET": ""}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			for k, v := range tc.env {
				t.Setenv(k, v)
			}
			_, err := NewConfig()
			assert.Error(t, err)
		})
	}
}

func TestLoadProfile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profile.yaml")
	require.NoError(t, os.WriteFile(path, []byte("horizon_days: 14\nclamp: true\nstart_date: \"2024-01-01\"\n"), 0o600))

	p, err := LoadProfile(path, Profile{HorizonDays: 30, Taxonomy: "lite", DailyDrift: 3})
	require.NoError(t, err)

	assert.Equal(t, Profile{HorizonDays: 14, Taxonomy: "lite", Clamp: true, DailyDrift: 3, StartDate: "2024-01-01"}, p)

	opts, err := p.Options()
	require.NoError(t, err)
	assert.Equal(t, 14, opts.HorizonDays)
	assert.Equal(t, "lite", opts.Taxonomy.Name)
	assert.Equal(t, "2024-01-01", opts.Start.Format("2006-01-02"))
}

func TestLoadProfile_Errors(t *testing.T) {
	_, err := LoadProfile(filepath.Join(t.TempDir(), "missing.yaml"), DefaultProfile())
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"taxonomy": "detailed"}`), 0o600))
	_, err = LoadProfile(path, DefaultProfile())
	assert.Error(t, err)
}
