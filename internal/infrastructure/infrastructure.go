// Package infrastructure provides core service initialization for application startup.
// It assembles common dependencies (logging, model, storage, database, cache) and
// the domain systems built on top of them.
package infrastructure

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/JaimeStill/signpost/internal/classify"
	"github.com/JaimeStill/signpost/internal/config"
	"github.com/JaimeStill/signpost/internal/enrich"
	"github.com/JaimeStill/signpost/internal/uploads"
	"github.com/JaimeStill/signpost/pkg/cache"
	"github.com/JaimeStill/signpost/pkg/database"
	"github.com/JaimeStill/signpost/pkg/imagesearch"
	"github.com/JaimeStill/signpost/pkg/inference"
	"github.com/JaimeStill/signpost/pkg/lifecycle"
	"github.com/JaimeStill/signpost/pkg/storage"
	"github.com/JaimeStill/signpost/pkg/translate"
	"github.com/JaimeStill/signpost/pkg/wiki"
)

// Infrastructure holds the core systems required by all modules.
// Database and Cache are nil when disabled in configuration.
type Infrastructure struct {
	Lifecycle *lifecycle.Coordinator
	Logger    *slog.Logger
	Model     inference.Model
	Storage   storage.System
	Database  database.System
	Cache     cache.System

	Classify classify.System
	Enrich   enrich.System
	Uploads  uploads.System
}

// New creates an Infrastructure from the application configuration.
// It initializes all systems but does not start them; call Start separately.
// When a step fails, everything opened before it is closed.
func New(cfg *config.Config) (*Infrastructure, error) {
	lc := lifecycle.New()
	logger := NewLogger(&cfg.Log, os.Stderr)

	model, err := inference.New(&cfg.Model, logger)
	if err != nil {
		return nil, fmt.Errorf("model init failed: %w", err)
	}

	return build(cfg, lc, logger, model)
}

func build(
	cfg *config.Config,
	lc *lifecycle.Coordinator,
	logger *slog.Logger,
	model inference.Model,
) (*Infrastructure, error) {
	infra := &Infrastructure{
		Lifecycle: lc,
		Logger:    logger,
		Model:     model,
	}

	if err := infra.assemble(cfg); err != nil {
		if closeErr := infra.Close(); closeErr != nil {
			logger.Error("release after init failure", "error", closeErr)
		}
		return nil, err
	}

	return infra, nil
}

func (i *Infrastructure) assemble(cfg *config.Config) error {
	store, err := storage.New(&cfg.Storage, i.Logger)
	if err != nil {
		return fmt.Errorf("storage init failed: %w", err)
	}
	i.Storage = store

	if cfg.Database.Enabled {
		db, err := database.New(&cfg.Database, i.Logger)
		if err != nil {
			return fmt.Errorf("database init failed: %w", err)
		}
		i.Database = db
	}

	if cfg.Cache.Enabled {
		i.Cache = cache.New(&cfg.Cache, i.Logger)
	}

	enricher, err := newEnricher(i.Lifecycle.Context(), &cfg.Enrich, i.Cache, i.Logger)
	if err != nil {
		return err
	}

	i.Classify = classify.New(i.Model, i.Logger)
	i.Enrich = enricher
	i.Uploads = uploads.New(
		i.Connection(),
		store,
		&cfg.Uploads,
		cfg.API.Pagination,
		i.Logger,
	)

	return nil
}

// Close releases the model, the database pool, and the cache client,
// skipping any that were never opened. It is meant for a failed New;
// a started Infrastructure releases them through lifecycle shutdown.
func (i *Infrastructure) Close() error {
	var errs []error

	if i.Model != nil {
		errs = append(errs, i.Model.Close())
	}
	if i.Database != nil {
		errs = append(errs, i.Database.Connection().Close())
	}
	if i.Cache != nil {
		errs = append(errs, i.Cache.Close())
	}

	return errors.Join(errs...)
}

// NewLogger builds the service logger in the configured format and level.
func NewLogger(cfg *config.LogConfig, w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.SlogLevel()}

	if cfg.Format == config.LogFormatJSON {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func newEnricher(
	ctx context.Context,
	cfg *enrich.Config,
	kv cache.System,
	logger *slog.Logger,
) (enrich.System, error) {
	search, err := imagesearch.New(ctx, &cfg.Search, logger)
	if err != nil {
		return nil, fmt.Errorf("image search init failed: %w", err)
	}

	translator, err := translate.New(ctx, &cfg.Translate, logger)
	if err != nil {
		return nil, fmt.Errorf("translate init failed: %w", err)
	}

	return enrich.New(
		cfg,
		search,
		wiki.New(&cfg.Summary, logger),
		translator,
		kv,
		logger,
	), nil
}

// Connection returns the database pool, or nil when the registry is disabled.
func (i *Infrastructure) Connection() *sql.DB {
	if i.Database == nil {
		return nil
	}
	return i.Database.Connection()
}

// Ready reports whether startup completed and the registry database, when
// enabled, answered its ping. The cache is optional and never gates readiness.
func (i *Infrastructure) Ready() bool {
	if !i.Lifecycle.Ready() {
		return false
	}
	return i.Database == nil || i.Database.Ready()
}

// Start registers all infrastructure systems with the lifecycle coordinator.
func (i *Infrastructure) Start() error {
	if err := i.Storage.Start(i.Lifecycle); err != nil {
		return fmt.Errorf("storage start failed: %w", err)
	}
	if i.Database != nil {
		if err := i.Database.Start(i.Lifecycle); err != nil {
			return fmt.Errorf("database start failed: %w", err)
		}
	}
	if i.Cache != nil {
		if err := i.Cache.Start(i.Lifecycle); err != nil {
			return fmt.Errorf("cache start failed: %w", err)
		}
	}
	if err := i.Uploads.Start(i.Lifecycle); err != nil {
		return fmt.Errorf("uploads start failed: %w", err)
	}

	i.Lifecycle.OnShutdown(func() {
		<-i.Lifecycle.Context().Done()
		if err := i.Model.Close(); err != nil {
			i.Logger.Error("model close failed", "error", err)
		}
	})

	return nil
}
