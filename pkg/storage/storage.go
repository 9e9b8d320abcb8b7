// Package storage provides object storage with local filesystem and
// Azure Blob Storage implementations.
package storage

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/JaimeStill/signpost/pkg/lifecycle"
)

// Object describes a stored object.
type Object struct {
	Key     string    `json:"key"`
	Size    int64     `json:"size"`
	ModTime time.Time `json:"mod_time"`
}

// System manages object storage operations and lifecycle coordination.
type System interface {
	// Start registers a startup hook that prepares the backing container or directory.
	Start(lc *lifecycle.Coordinator) error
	// Upload streams data to the object at key, replacing any existing object.
	Upload(ctx context.Context, key string, reader io.Reader, contentType string) error
	// Download returns a stream for the object at key. The caller must close the reader.
	// Returns ErrNotFound if the object does not exist.
	Download(ctx context.Context, key string) (io.ReadCloser, error)
	// Delete removes the object at key. Returns ErrNotFound if the object does not exist.
	Delete(ctx context.Context, key string) error
	// Exists reports whether an object exists at key.
	Exists(ctx context.Context, key string) (bool, error)
	// List returns every object whose key starts with prefix.
	List(ctx context.Context, prefix string) ([]Object, error)
}

// New creates the storage system selected by cfg.Provider. No I/O happens
// until Start is called.
func New(cfg *Config, logger *slog.Logger) (System, error) {
	logger = logger.With("system", "storage", "provider", cfg.Provider)

	switch cfg.Provider {
	case ProviderLocal:
		return newLocal(cfg.Local.Root, logger), nil
	case ProviderAzure:
		return newAzure(cfg, logger)
	default:
		return nil, fmt.Errorf("unsupported storage provider: %s", cfg.Provider)
	}
}

func validateKey(key string) error {
	if key == "" {
		return ErrEmptyKey
	}
	if strings.Contains(key, "..") {
		return ErrInvalidKey
	}
	return nil
}
