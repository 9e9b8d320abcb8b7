// Package cache stores JSON values in Redis with a fixed TTL.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/JaimeStill/signpost/pkg/lifecycle"
)

// System reads and writes JSON-encoded values.
type System interface {
	// Get decodes the value stored under key into dst. It reports false
	// when the key is absent.
	Get(ctx context.Context, key string, dst any) (bool, error)
	// Set stores value under key for the configured TTL.
	Set(ctx context.Context, key string, value any) error
	// Start registers startup and shutdown hooks with the lifecycle coordinator.
	Start(lc *lifecycle.Coordinator) error
	// Ready reports whether the startup ping succeeded.
	Ready() bool
	// Close releases the client. Start registers it as a shutdown hook.
	Close() error
}

type cache struct {
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
	ready  atomic.Bool
}

// New creates a Redis-backed cache. No connection is made until first use.
func New(cfg *Config, logger *slog.Logger) System {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	return &cache{
		client: client,
		ttl:    cfg.TTLDuration(),
		logger: logger.With("system", "cache"),
	}
}

func (c *cache) Get(ctx context.Context, key string, dst any) (bool, error) {
	data, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("cache get %s: %w", key, err)
	}

	if err := json.Unmarshal(data, dst); err != nil {
		return false, fmt.Errorf("cache decode %s: %w", key, err)
	}
	return true, nil
}

func (c *cache) Set(ctx context.Context, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache encode %s: %w", key, err)
	}

	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("cache set %s: %w", key, err)
	}
	return nil
}

func (c *cache) Ready() bool {
	return c.ready.Load()
}

func (c *cache) Close() error {
	c.ready.Store(false)
	return c.client.Close()
}

func (c *cache) Start(lc *lifecycle.Coordinator) error {
	c.logger.Info("starting cache client")

	lc.OnStartup(func() {
		ctx, cancel := context.WithTimeout(lc.Context(), 5*time.Second)
		defer cancel()

		if err := c.client.Ping(ctx).Err(); err != nil {
			c.logger.Error("cache ping failed", "error", err)
			return
		}

		c.ready.Store(true)
		c.logger.Info("cache connection established")
	})

	lc.OnShutdown(func() {
		<-lc.Context().Done()
		c.ready.Store(false)

		if err := c.Close(); err != nil {
			c.logger.Error("cache close failed", "error", err)
			return
		}

		c.logger.Info("cache connection closed")
	})

	return nil
}
