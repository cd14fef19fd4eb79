package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.App.Port)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "https://api.exchangerate-api.com/v4/latest", cfg.Rates.BaseURL)
	assert.Equal(t, 10*time.Second, cfg.Rates.Timeout)
	assert.Equal(t, time.Hour, cfg.Rates.CacheTTL)
	assert.Equal(t, []string{"USD"}, cfg.Rates.WarmBases)
	assert.Equal(t, "@every 1h", cfg.Rates.RefreshSpec)
	assert.False(t, cfg.Postgres.Enabled)
}

func TestLoadConfig_File(t *testing.T) {
	dir := t.TempDir()
	yaml := `
app:
  port: "9090"
rates:
  cache_ttl: 30m
  timeout: 5s
  warm_bases: [EUR, GBP]
postgres:
  enabled: true
  host: db
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0o600))

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.App.Port)
	assert.Equal(t, 30*time.Minute, cfg.Rates.CacheTTL)
	assert.Equal(t, 5*time.Second, cfg.Rates.Timeout)
	assert.Equal(t, []string{"EUR", "GBP"}, cfg.Rates.WarmBases)
	assert.True(t, cfg.Postgres.Enabled)
	assert.Equal(t, "db", cfg.Postgres.Host)
	assert.Equal(t, "5432", cfg.Postgres.Port)
}

func TestLoadConfig_EnvOverride(t *testing.T) {
	t.Setenv("APP_PORT", "7070")
	t.Setenv("RATES_CACHE_TTL", "2h")

	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "7070", cfg.App.Port)
	assert.Equal(t, 2*time.Hour, cfg.Rates.CacheTTL)
}

func TestLoadConfig_BrokenFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("app: [unclosed"), 0o600))

	_, err := LoadConfig(dir)
	assert.Error(t, err)
}
