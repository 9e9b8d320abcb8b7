package cache

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds Redis connection parameters. The cache is optional: when
// Enabled is false the remaining fields are not validated.
type Config struct {
	Enabled  bool   `toml:"enabled"`
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
	TTL      string `toml:"ttl"`
}

// Env maps config fields to environment variable names for override injection.
type Env struct {
	Enabled  string
	Addr     string
	Password string
	DB       string
	TTL      string
}

// TTLDuration returns TTL as a time.Duration.
func (c *Config) TTLDuration() time.Duration {
	d, _ := time.ParseDuration(c.TTL)
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
	if overlay.Enabled {
		c.Enabled = true
	}
	if overlay.Addr != "" {
		c.Addr = overlay.Addr
	}
	if overlay.Password != "" {
		c.Password = overlay.Password
	}
	if overlay.DB != 0 {
		c.DB = overlay.DB
	}
	if overlay.TTL != "" {
		c.TTL = overlay.TTL
	}
}

func (c *Config) loadDefaults() {
	if c.Addr == "" {
		c.Addr = "localhost:6379"
	}
	if c.TTL == "" {
		c.TTL = "24h"
	}
}

func (c *Config) loadEnv(env *Env) {
	if env.Enabled != "" {
		if b, err := strconv.ParseBool(os.Getenv(env.Enabled)); err == nil {
			c.Enabled = b
		}
	}
	if env.Addr != "" {
		if v := os.Getenv(env.Addr); v != "" {
			c.Addr = v
		}
	}
	if env.Password != "" {
		if v := os.Getenv(env.Password); v != "" {
			c.Password = v
		}
	}
	if env.DB != "" {
		if n, err := strconv.Atoi(os.Getenv(env.DB)); err == nil {
			c.DB = n
		}
	}
	if env.TTL != "" {
		if v := os.Getenv(env.TTL); v != "" {
			c.TTL = v
		}
	}
}

func (c *Config) validate() error {
	if !c.Enabled {
		return nil
	}
	if c.Addr == "" {
		return fmt.Errorf("addr required")
	}
	if c.DB < 0 {
		return fmt.Errorf("db must be non-negative")
	}
	d, err := time.ParseDuration(c.TTL)
	if err != nil {
		return fmt.Errorf("invalid ttl: %w", err)
	}
	if d <= 0 {
		return fmt.Errorf("ttl must be positive")
	}
	return nil
}
