package inference

import (
	"fmt"
	"os"
)

// Config locates the model file, its optional metadata, and the ONNX
// Runtime shared library.
type Config struct {
	Path           string `toml:"path"`
	MetadataPath   string `toml:"metadata_path"`
	RuntimeLibrary string `toml:"runtime_library"`
}

// Env maps config fields to environment variable names for override injection.
type Env struct {
	Path           string
	MetadataPath   string
	RuntimeLibrary string
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
	if overlay.Path != "" {
		c.Path = overlay.Path
	}
	if overlay.MetadataPath != "" {
		c.MetadataPath = overlay.MetadataPath
	}
	if overlay.RuntimeLibrary != "" {
		c.RuntimeLibrary = overlay.RuntimeLibrary
	}
}

func (c *Config) loadDefaults() {
	if c.Path == "" {
		c.Path = "models/traffic_classifier.onnx"
	}
	if c.MetadataPath == "" {
		c.MetadataPath = "models/traffic_classifier.json"
	}
}

func (c *Config) loadEnv(env *Env) {
	if env.Path != "" {
		if v := os.Getenv(env.Path); v != "" {
			c.Path = v
		}
	}
	if env.MetadataPath != "" {
		if v := os.Getenv(env.MetadataPath); v != "" {
			c.MetadataPath = v
		}
	}
	if env.RuntimeLibrary != "" {
		if v := os.Getenv(env.RuntimeLibrary); v != "" {
			c.RuntimeLibrary = v
		}
	}
}

func (c *Config) validate() error {
	if c.Path == "" {
		return fmt.Errorf("path required")
	}
	return nil
}
