package translate

import (
	"fmt"
	"os"
	"time"
)

const (
	ProviderWeb   = "web"
	ProviderCloud = "cloud"
	ProviderNone  = "none"
)

// Config selects a translation provider and the target language.
type Config struct {
	Provider string `toml:"provider"`
	Target   string `toml:"target"`
	APIKey   string `toml:"api_key"`
	Endpoint string `toml:"endpoint"`
	Timeout  string `toml:"timeout"`
}

// Env maps config fields to environment variable names for override injection.
type Env struct {
	Provider string
	Target   string
	APIKey   string
	Endpoint string
	Timeout  string
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
	c.defaultEndpoint()
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *Config) Merge(overlay *Config) {
	if overlay.Provider != "" {
		c.Provider = overlay.Provider
	}
	if overlay.Target != "" {
		c.Target = overlay.Target
	}
	if overlay.APIKey != "" {
		c.APIKey = overlay.APIKey
	}
	if overlay.Endpoint != "" {
		c.Endpoint = overlay.Endpoint
	}
	if overlay.Timeout != "" {
		c.Timeout = overlay.Timeout
	}
}

func (c *Config) loadDefaults() {
	if c.Provider == "" {
		c.Provider = ProviderWeb
	}
	if c.Target == "" {
		c.Target = "en"
	}
	if c.Timeout == "" {
		c.Timeout = "5s"
	}
}

func (c *Config) defaultEndpoint() {
	if c.Endpoint != "" {
		return
	}
	switch c.Provider {
	case ProviderWeb:
		c.Endpoint = "https://translate.googleapis.com/translate_a/single"
	case ProviderCloud:
		c.Endpoint = "https://translation.googleapis.com/language/translate/"
	}
}

func (c *Config) loadEnv(env *Env) {
	for name, dst := range map[string]*string{
		env.Provider: &c.Provider,
		env.Target:   &c.Target,
		env.APIKey:   &c.APIKey,
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
	switch c.Provider {
	case ProviderWeb, ProviderNone:
	case ProviderCloud:
		if c.APIKey == "" {
			return fmt.Errorf("api_key required for cloud provider")
		}
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedProvider, c.Provider)
	}
	if _, err := time.ParseDuration(c.Timeout); err != nil {
		return fmt.Errorf("invalid timeout: %w", err)
	}
	return nil
}
