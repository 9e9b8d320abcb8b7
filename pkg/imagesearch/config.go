package imagesearch

import (
	"fmt"
	"os"
	"time"
)

// Config holds Custom Search JSON API credentials.
type Config struct {
	APIKey   string `toml:"api_key"`
	EngineID string `toml:"engine_id"`
	Endpoint string `toml:"endpoint"`
	Timeout  string `toml:"timeout"`
}

// Env maps config fields to environment variable names for override injection.
type Env struct {
	APIKey   string
	EngineID string
	Endpoint string
	Timeout  string
}

// Configured reports whether credentials are present.
func (c *Config) Configured() bool {
	return c.APIKey != "" && c.EngineID != ""
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
	if overlay.APIKey != "" {
		c.APIKey = overlay.APIKey
	}
	if overlay.EngineID != "" {
		c.EngineID = overlay.EngineID
	}
	if overlay.Endpoint != "" {
		c.Endpoint = overlay.Endpoint
	}
	if overlay.Timeout != "" {
		c.Timeout = overlay.Timeout
	}
}

func (c *Config) loadDefaults() {
	if c.Endpoint == "" {
		c.Endpoint = "https://customsearch.googleapis.com/"
	}
	if c.Timeout == "" {
		c.Timeout = "5s"
	}
}

func (c *Config) loadEnv(env *Env) {
	for name, dst := range map[string]*string{
		env.APIKey:   &c.APIKey,
		env.EngineID: &c.EngineID,
		env.Endpoint: &c.Endpoint,
		env.Timeout:  &c.Timeout,
	} {
		if name == "" {
			continue
		}
		if v := os.Getenv(name); v != "" {
			*dst = v
		}
	}
}

func (c *Config) validate() error {
	if _, err := time.ParseDuration(c.Timeout); err != nil {
		return fmt.Errorf("invalid timeout: %w", err)
	}
	return nil
}
