// Package imagesearch finds images on the web through the Google Custom Search JSON API.
package imagesearch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"google.golang.org/api/customsearch/v1"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

// ErrNotConfigured indicates search credentials are missing.
var ErrNotConfigured = errors.New("image search not configured")

// Image is a single search hit.
type Image struct {
	URL          string `json:"url"`
	Title        string `json:"title"`
	ThumbnailURL string `json:"thumbnail_url,omitempty"`
}

// Client searches for images.
type Client interface {
	// Search returns at most n images matching query.
	Search(ctx context.Context, query string, n int) ([]Image, error)
}

type google struct {
	svc      *customsearch.Service
	apiKey   string
	engineID string
	logger   *slog.Logger
}

type unconfigured struct{}

func (unconfigured) Search(context.Context, string, int) ([]Image, error) {
	return nil, ErrNotConfigured
}

// New creates a Custom Search client. Without credentials it returns a
// Client whose Search always fails with ErrNotConfigured.
func New(ctx context.Context, cfg *Config, logger *slog.Logger) (Client, error) {
	logger = logger.With("system", "imagesearch")

	if !cfg.Configured() {
		logger.Warn("image search credentials missing; searches disabled")
		return unconfigured{}, nil
	}

	svc, err := customsearch.NewService(ctx,
		option.WithHTTPClient(&http.Client{Timeout: cfg.TimeoutDuration()}),
		option.WithEndpoint(cfg.Endpoint),
	)
	if err != nil {
		return nil, fmt.Errorf("create customsearch service: %w", err)
	}

	return &google{
		svc:      svc,
		apiKey:   cfg.APIKey,
		engineID: cfg.EngineID,
		logger:   logger,
	}, nil
}

func (g *google) Search(ctx context.Context, query string, n int) ([]Image, error) {
	start := time.Now()

	// option.WithAPIKey is ignored alongside option.WithHTTPClient.
	res, err := g.svc.Cse.List().
		Q(query).
		Cx(g.engineID).
		SearchType("image").
		Num(int64(n)).
		Context(ctx).
		Do(googleapi.QueryParameter("key", g.apiKey))
	if err != nil {
		return nil, fmt.Errorf("search %q: %w", query, err)
	}

	images := make([]Image, 0, len(res.Items))
	for _, item := range res.Items {
		if item == nil || item.Link == "" {
			continue
		}
		img := Image{URL: item.Link, Title: item.Title}
		if item.Image != nil {
			img.ThumbnailURL = item.Image.ThumbnailLink
		}
		images = append(images, img)
		if len(images) == n {
			break
		}
	}

	g.logger.Debug("image search complete",
		"query", query,
		"results", len(images),
		"duration", time.Since(start),
	)
	return images, nil
}
