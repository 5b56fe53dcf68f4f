package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewReadsEnvironment(t *testing.T) {
	t.Setenv("LISTEN_ADDR", "127.0.0.1:9999")
	t.Setenv("DATABASE_PATH", "/tmp/league.db")
	t.Setenv("QUARTER_MINUTES", "10")
	t.Setenv("AUTOSAVE_INTERVAL", "1m")
	t.Setenv("DEV_MODE", "true")

	cfg, err := New()
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:9999", cfg.ListenAddr)
	assert.Equal(t, "/tmp/league.db", cfg.DatabasePath)
	assert.Equal(t, 10, cfg.QuarterMinutes)
	assert.Equal(t, time.Minute, cfg.AutosaveInterval)
	assert.True(t, cfg.DevMode)
}

func TestNewRejectsNonPositiveQuarterMinutes(t *testing.T) {
	t.Setenv("QUARTER_MINUTES", "0")

	_, err := New()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "QUARTER_MINUTES")
}

func TestNewRejectsNegativeAutosaveInterval(t *testing.T) {
	t.Setenv("AUTOSAVE_INTERVAL", "-5s")

	_, err := New()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "AUTOSAVE_INTERVAL")
}

func TestNewRejectsMalformedValues(t *testing.T) {
	t.Setenv("QUARTER_MINUTES", "twelve")

	_, err := New()
	assert.Error(t, err)
}

func TestAutosaveCanBeDisabled(t *testing.T) {
	t.Setenv("AUTOSAVE_INTERVAL", "0s")

	cfg, err := New()
	require.NoError(t, err)
	assert.Equal(t, time.Duration(0), cfg.AutosaveInterval)
}
