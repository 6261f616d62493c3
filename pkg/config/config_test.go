package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "10000", cfg.Port)
	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, "output", cfg.OutputDir)
	assert.Equal(t, "config/strategy.yaml", cfg.StrategyFile)
	assert.Equal(t, "https://query1.finance.yahoo.com", cfg.Provider.BaseURL)
	assert.Equal(t, 15*time.Second, cfg.Provider.Timeout)
	assert.Equal(t, 4.0, cfg.Provider.RatePerSec)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("PORT", "8080")
	t.Setenv("ENV", "production")
	t.Setenv("OUTPUT_DIR", "/var/lib/signalrunner")
	t.Setenv("PROVIDER_RATE_PER_SEC", "2.5")
	t.Setenv("WEBHOOK_TIMEOUT", "3s")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "production", cfg.Env)
	assert.Equal(t, "/var/lib/signalrunner", cfg.OutputDir)
	assert.Equal(t, 2.5, cfg.Provider.RatePerSec)
	assert.Equal(t, 3*time.Second, cfg.Webhook.Timeout)
}

func TestLoad_RejectsUnknownEnv(t *testing.T) {
	t.Setenv("ENV", "testing")

	_, err := Load()
	assert.Error(t, err)
}

func TestGetEnvAsInt_BadValueFallsBack(t *testing.T) {
	t.Setenv("PROVIDER_MAX_RETRIES", "lots")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.Provider.MaxRetries)
}
