package storage

import (
	"fmt"
	"os"
)

const (
	ProviderLocal = "local"
	ProviderAzure = "azure"
)

// LocalConfig configures the filesystem provider.
type LocalConfig struct {
	Root string `toml:"root"`
}

// Config selects a storage provider and holds its connection parameters.
// The azure provider authenticates with ConnectionString when set, otherwise
// with AccountURL and the default Azure credential chain.
type Config struct {
	Provider         string      `toml:"provider"`
	Local            LocalConfig `toml:"local"`
	ContainerName    string      `toml:"container_name"`
	ConnectionString string      `toml:"connection_string"`
	AccountURL       string      `toml:"account_url"`
}

// Env maps config fields to environment variable names for override injection.
type Env struct {
	Provider         string
	LocalRoot        string
	ContainerName    string
	ConnectionString string
	AccountURL       string
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
	if overlay.Provider != "" {
		c.Provider = overlay.Provider
	}
	if overlay.Local.Root != "" {
		c.Local.Root = overlay.Local.Root
	}
	if overlay.ContainerName != "" {
		c.ContainerName = overlay.ContainerName
	}
	if overlay.ConnectionString != "" {
		c.ConnectionString = overlay.ConnectionString
	}
	if overlay.AccountURL != "" {
		c.AccountURL = overlay.AccountURL
	}
}

func (c *Config) loadDefaults() {
	if c.Provider == "" {
		c.Provider = ProviderLocal
	}
	if c.Local.Root == "" {
		c.Local.Root = "static/uploads"
	}
	if c.ContainerName == "" {
		c.ContainerName = "uploads"
	}
}

func (c *Config) loadEnv(env *Env) {
	set := func(name string, dst *string) {
		if name == "" {
			return
		}
		if v := os.Getenv(name); v != "" {
			*dst = v
		}
	}
	set(env.Provider, &c.Provider)
	set(env.LocalRoot, &c.Local.Root)
	set(env.ContainerName, &c.ContainerName)
	set(env.ConnectionString, &c.ConnectionString)
	set(env.AccountURL, &c.AccountURL)
}

func (c *Config) validate() error {
	switch c.Provider {
	case ProviderLocal:
		if c.Local.Root == "" {
			return fmt.Errorf("local.root required")
		}
	case ProviderAzure:
		if c.ContainerName == "" {
			return fmt.Errorf("container_name required")
		}
		if c.ConnectionString == "" && c.AccountURL == "" {
			return fmt.Errorf("connection_string or account_url required")
		}
	default:
		return fmt.Errorf("unsupported storage provider: %s", c.Provider)
	}
	return nil
}
