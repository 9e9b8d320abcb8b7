// Package config loads service configuration from TOML files and
// SIGNPOST_* environment variables.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"

	"github.com/JaimeStill/signpost/internal/enrich"
	"github.com/JaimeStill/signpost/internal/uploads"
	"github.com/JaimeStill/signpost/pkg/cache"
	"github.com/JaimeStill/signpost/pkg/database"
	"github.com/JaimeStill/signpost/pkg/inference"
	"github.com/JaimeStill/signpost/pkg/storage"
)

const (
	DotEnvFile           = ".env"
	BaseConfigFile       = "config.toml"
	OverlayConfigPattern = "config.%s.toml"

	EnvSignpostEnv             = "SIGNPOST_ENV"
	EnvSignpostShutdownTimeout = "SIGNPOST_SHUTDOWN_TIMEOUT"
	EnvSignpostVersion         = "SIGNPOST_VERSION"
)

// Config is the root configuration for the Signpost service.
type Config struct {
	Server          ServerConfig     `toml:"server"`
	Log             LogConfig        `toml:"log"`
	Model           inference.Config `toml:"model"`
	Storage         storage.Config   `toml:"storage"`
	Database        database.Config  `toml:"database"`
	Cache           cache.Config     `toml:"cache"`
	Enrich          enrich.Config    `toml:"enrich"`
	Uploads         uploads.Config   `toml:"uploads"`
	API             APIConfig        `toml:"api"`
	ShutdownTimeout string           `toml:"shutdown_timeout"`
	Version         string           `toml:"version"`
}

// Env returns the SIGNPOST_ENV value, defaulting to "local".
func (c *Config) Env() string {
	if env := os.Getenv(EnvSignpostEnv); env != "" {
		return env
	}
	return "local"
}

// ShutdownTimeoutDuration returns ShutdownTimeout as a time.Duration.
func (c *Config) ShutdownTimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.ShutdownTimeout)
	return d
}

// Load reads the base config (if present), applies any environment overlay,
// and finalizes all values. Precedence, lowest first: defaults, config.toml,
// config.<SIGNPOST_ENV>.toml, environment variables. A .env file in the
// working directory fills in variables that are not already set.
func Load() (*Config, error) {
	if err := godotenv.Load(DotEnvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load %s: %w", DotEnvFile, err)
	}

	cfg := &Config{}

	if _, err := os.Stat(BaseConfigFile); err == nil {
		loaded, err := load(BaseConfigFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if path := overlayPath(); path != "" {
		overlay, err := load(path)
		if err != nil {
			return nil, fmt.Errorf("load overlay %s: %w", path, err)
		}
		cfg.Merge(overlay)
	}

	if err := cfg.finalize(); err != nil {
		return nil, fmt.Errorf("finalize config: %w", err)
	}

	return cfg, nil
}

// Merge overwrites non-zero fields from overlay across all sub-configs.
func (c *Config) Merge(overlay *Config) {
	if overlay.ShutdownTimeout != "" {
		c.ShutdownTimeout = overlay.ShutdownTimeout
	}
	if overlay.Version != "" {
		c.Version = overlay.Version
	}
	c.Server.Merge(&overlay.Server)
	c.Log.Merge(&overlay.Log)
	c.Model.Merge(&overlay.Model)
	c.Storage.Merge(&overlay.Storage)
	c.Database.Merge(&overlay.Database)
	c.Cache.Merge(&overlay.Cache)
	c.Enrich.Merge(&overlay.Enrich)
	c.Uploads.Merge(&overlay.Uploads)
	c.API.Merge(&overlay.API)
}

func (c *Config) finalize() error {
	c.loadDefaults()
	c.loadEnv()

	if err := c.validate(); err != nil {
		return err
	}
	if err := c.Server.Finalize(); err != nil {
		return fmt.Errorf("server: %w", err)
	}
	if err := c.Log.Finalize(); err != nil {
		return fmt.Errorf("log: %w", err)
	}
	if err := c.Model.Finalize(modelEnv); err != nil {
		return fmt.Errorf("model: %w", err)
	}
	if err := c.Storage.Finalize(storageEnv); err != nil {
		return fmt.Errorf("storage: %w", err)
	}
	if err := c.Database.Finalize(databaseEnv); err != nil {
		return fmt.Errorf("database: %w", err)
	}
	if err := c.Cache.Finalize(cacheEnv); err != nil {
		return fmt.Errorf("cache: %w", err)
	}
	if err := c.Enrich.Finalize(enrichEnv); err != nil {
		return fmt.Errorf("enrich: %w", err)
	}
	if err := c.Uploads.Finalize(uploadsEnv); err != nil {
		return fmt.Errorf("uploads: %w", err)
	}
	if err := c.API.Finalize(); err != nil {
		return fmt.Errorf("api: %w", err)
	}
	return nil
}

func (c *Config) loadDefaults() {
	if c.ShutdownTimeout == "" {
		c.ShutdownTimeout = "30s"
	}
	if c.Version == "" {
		c.Version = "0.1.0"
	}
}

func (c *Config) loadEnv() {
	if v := os.Getenv(EnvSignpostShutdownTimeout); v != "" {
		c.ShutdownTimeout = v
	}
	if v := os.Getenv(EnvSignpostVersion); v != "" {
		c.Version = v
	}
}

func (c *Config) validate() error {
	if _, err := time.ParseDuration(c.ShutdownTimeout); err != nil {
		return fmt.Errorf("invalid shutdown_timeout: %w", err)
	}
	return nil
}

func load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	return &cfg, nil
}

func overlayPath() string {
	if env := os.Getenv(EnvSignpostEnv); env != "" {
		path := fmt.Sprintf(OverlayConfigPattern, env)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}
