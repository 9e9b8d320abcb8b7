package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
)

const (
	EnvLogLevel  = "SIGNPOST_LOG_LEVEL"
	EnvLogFormat = "SIGNPOST_LOG_FORMAT"

	LogFormatText = "text"
	LogFormatJSON = "json"
)

// LogConfig selects the root logger's level and output format.
type LogConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// SlogLevel returns Level as a slog.Level.
func (c *LogConfig) SlogLevel() slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(c.Level)); err != nil {
		return slog.LevelInfo
	}
	return l
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *LogConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *LogConfig) Merge(overlay *LogConfig) {
	if overlay.Level != "" {
		c.Level = overlay.Level
	}
	if overlay.Format != "" {
		c.Format = overlay.Format
	}
}

func (c *LogConfig) loadDefaults() {
	if c.Level == "" {
		c.Level = "info"
	}
	if c.Format == "" {
		c.Format = LogFormatText
	}
}

func (c *LogConfig) loadEnv() {
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.Level = v
	}
	if v := os.Getenv(EnvLogFormat); v != "" {
		c.Format = v
	}
}

func (c *LogConfig) validate() error {
	var l slog.Level
	if err := l.UnmarshalText([]byte(c.Level)); err != nil {
		return fmt.Errorf("invalid level %q", c.Level)
	}
	c.Format = strings.ToLower(c.Format)
	switch c.Format {
	case LogFormatText, LogFormatJSON:
	default:
		return fmt.Errorf("invalid format %q: want text or json", c.Format)
	}
	return nil
}
