package uploads

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config controls upload naming and retention. A zero Retention keeps
// uploads forever.
type Config struct {
	PreserveFilenames bool   `toml:"preserve_filenames"`
	Retention         string `toml:"retention"`
	PruneInterval     string `toml:"prune_interval"`
}

// Env maps config fields to environment variable names for override injection.
type Env struct {
	PreserveFilenames string
	Retention         string
	PruneInterval     string
}

// RetentionDuration returns Retention as a time.Duration.
func (c *Config) RetentionDuration() time.Duration {
	d, _ := time.ParseDuration(c.Retention)
	return d
}

// PruneIntervalDuration returns PruneInterval as a time.Duration.
func (c *Config) PruneIntervalDuration() time.Duration {
	d, _ := time.ParseDuration(c.PruneInterval)
	return d
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *Config) Finalize(env *Env) error {
	c.loadDefaults()
	if env != nil {
		c.loadEnv(env)
	}
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *Config) Merge(overlay *Config) {
	if overlay.PreserveFilenames {
		c.PreserveFilenames = true
	}
	if overlay.Retention != "" {
		c.Retention = overlay.Retention
	}
	if overlay.PruneInterval != "" {
		c.PruneInterval = overlay.PruneInterval
	}
}

func (c *Config) loadDefaults() {
	if c.Retention == "" {
		c.Retention = "0s"
	}
	if c.PruneInterval == "" {
		c.PruneInterval = "1h"
	}
}

func (c *Config) loadEnv(env *Env) {
	if env.PreserveFilenames != "" {
		if b, err := strconv.ParseBool(os.Getenv(env.PreserveFilenames)); err == nil {
			c.PreserveFilenames = b
		}
	}
	if env.Retention != "" {
		if v := os.Getenv(env.Retention); v != "" {
			c.Retention = v
		}
	}
	if env.PruneInterval != "" {
		if v := os.Getenv(env.PruneInterval); v != "" {
			c.PruneInterval = v
		}
	}
}

func (c *Config) validate() error {
	retention, err := time.ParseDuration(c.Retention)
	if err != nil {
		return fmt.Errorf("invalid retention: %w", err)
	}
	if retention < 0 {
		return fmt.Errorf("retention must not be negative")
	}
	interval, err := time.ParseDuration(c.PruneInterval)
	if err != nil {
		return fmt.Errorf("invalid prune_interval: %w", err)
	}
	if retention > 0 && interval <= 0 {
		return fmt.Errorf("prune_interval must be positive when retention is set")
	}
	return nil
}
