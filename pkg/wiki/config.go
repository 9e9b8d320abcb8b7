package wiki

import (
	"fmt"
	"os"
	"time"
)

// Config points the client at a MediaWiki action API.
type Config struct {
	Endpoint  string `toml:"endpoint"`
	UserAgent string `toml:"user_agent"`
	Timeout   string `toml:"timeout"`
}

// Env maps config fields to environment variable names for override injection.
type Env struct {
	Endpoint  string
	UserAgent string
	Timeout   string
}

// TimeoutDuration returns Timeout as a time.Duration.
func (c *Config) TimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.Timeout)
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
	if overlay.Endpoint != "" {
		c.Endpoint = overlay.Endpoint
	}
	if overlay.UserAgent != "" {
		c.UserAgent = overlay.UserAgent
	}
	if overlay.Timeout != "" {
		c.Timeout = overlay.Timeout
	}
}

func (c *Config) loadDefaults() {
	if c.Endpoint == "" {
		c.Endpoint = "https://en.wikipedia.org/w/api.php"
	}
	if c.UserAgent == "" {
		c.UserAgent = "signpost/1.0 (traffic sign lookup)"
	}
	if c.Timeout == "" {
		c.Timeout = "5s"
	}
}

func (c *Config) loadEnv(env *Env) {
	if env.Endpoint != "" {
		if v := os.Getenv(env.Endpoint); v != "" {
			c.Endpoint = v
		}
	}
	if env.UserAgent != "" {
		if v := os.Getenv(env.UserAgent); v != "" {
			c.UserAgent = v
		}
	}
	if env.Timeout != "" {
		if v := os.Getenv(env.Timeout); v != "" {
			c.Timeout = v
		}
	}
}

func (c *Config) validate() error {
	if c.Endpoint == "" {
		return fmt.Errorf("endpoint required")
	}
	if _, err := time.ParseDuration(c.Timeout); err != nil {
		return fmt.Errorf("invalid timeout: %w", err)
	}
	return nil
}
