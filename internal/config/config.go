// Package config loads server configuration from the environment.
package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	// ListenAddr is the HTTP bind address.
	ListenAddr string `envconfig:"LISTEN_ADDR" default:":8080"`

	// DatabasePath is the SQLite file backing league snapshots. Empty
	// with DevMode set keeps everything in memory.
	DatabasePath string `envconfig:"DATABASE_PATH" default:"./data/scorekeeper.db"`

	// QuarterMinutes is the default quarter length for new scoring
	// sessions.
	QuarterMinutes int `envconfig:"QUARTER_MINUTES" default:"12"`

	// AutosaveInterval is how often open sessions are checkpointed.
	// Zero disables the autosave job.
	AutosaveInterval time.Duration `envconfig:"AUTOSAVE_INTERVAL" default:"30s"`

	// DevMode enables the in-memory store when DatabasePath is empty
	// and turns on debug logging.
	DevMode bool `envconfig:"DEV_MODE" default:"false"`
}

func New() (*Config, error) {
	var c Config
	if err := envconfig.Process("", &c); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}
	if c.QuarterMinutes <= 0 {
		return nil, fmt.Errorf("QUARTER_MINUTES must be positive, got %d", c.QuarterMinutes)
	}
	if c.AutosaveInterval < 0 {
		return nil, fmt.Errorf("AUTOSAVE_INTERVAL must not be negative, got %s", c.AutosaveInterval)
	}
	return &c, nil
}
