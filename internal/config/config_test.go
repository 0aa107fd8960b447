package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jshop/jshop/internal/config"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.HTTP.Port)
	assert.Equal(t, 15*time.Second, cfg.HTTP.ShutdownGrace)
	assert.True(t, cfg.Database.AutoMigrate)
	assert.Equal(t, "migrations", cfg.Database.MigrationsPath)
	assert.True(t, cfg.Scheduler.Enabled)
	assert.Equal(t, 24*time.Hour, cfg.Scheduler.Interval)
	assert.Equal(t, "info", cfg.Telemetry.LogLevel)
	assert.Equal(t, "jshop-api", cfg.Service.Name)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("API_HTTP_PORT", "9090")
	t.Setenv("API_SHUTDOWN_GRACE", "5s")
	t.Setenv("DB_URL", "postgres://test:test@db:5432/test")
	t.Setenv("SCHEDULER_INTERVAL", "1h")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.HTTP.Port)
	assert.Equal(t, 5*time.Second, cfg.HTTP.ShutdownGrace)
	assert.Equal(t, "postgres://test:test@db:5432/test", cfg.Database.URL)
	assert.Equal(t, time.Hour, cfg.Scheduler.Interval)
	assert.Equal(t, "debug", cfg.Telemetry.LogLevel)
}

func TestLoad_InvalidValue(t *testing.T) {
	t.Setenv("API_HTTP_PORT", "not-a-number")

	_, err := config.Load()
	require.Error(t, err)
}
