// Package enrich turns a sign name into example images and a short
// encyclopedic description.
package enrich

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/JaimeStill/signpost/pkg/cache"
	"github.com/JaimeStill/signpost/pkg/imagesearch"
	"github.com/JaimeStill/signpost/pkg/translate"
	"github.com/JaimeStill/signpost/pkg/wiki"
)

const (
	DefaultImageTitle   = "Traffic Sign"
	NoDescription       = "No detailed description found."
	SearchUnavailable   = "Image search is unavailable right now."
	SearchNotConfigured = "Image search is not configured."
)

// Image is a search hit shown beside the description.
type Image struct {
	URL   string `json:"url"`
	Title string `json:"title"`
}

// Result is the assembled enrichment for a query. Error carries a
// user-facing notice when image search failed; the rest of the result is
// still usable.
type Result struct {
	Query        string  `json:"query"`
	Images       []Image `json:"images"`
	ShortSummary string  `json:"short_summary"`
	FullSummary  string  `json:"full_summary"`
	Error        string  `json:"error,omitempty"`
}

// Empty reports whether no lookup was performed.
func (r *Result) Empty() bool {
	return r.Query == ""
}

// System enriches sign names.
type System interface {
	// Enrich never fails. Collaborator failures become fallbacks in the
	// returned Result.
	Enrich(ctx context.Context, query string, fullInfo bool) *Result
}

type enricher struct {
	cfg        *Config
	search     imagesearch.Client
	summaries  wiki.Client
	translator translate.Translator
	cache      cache.System
	logger     *slog.Logger
}

// New creates an enrichment system. store may be nil to disable caching.
func New(
	cfg *Config,
	search imagesearch.Client,
	summaries wiki.Client,
	translator translate.Translator,
	store cache.System,
	logger *slog.Logger,
) System {
	return &enricher{
		cfg:        cfg,
		search:     search,
		summaries:  summaries,
		translator: translator,
		cache:      store,
		logger:     logger.With("system", "enrich"),
	}
}

func (e *enricher) Enrich(ctx context.Context, query string, fullInfo bool) *Result {
	query = strings.TrimSpace(query)
	if query == "" {
		return &Result{Images: []Image{}}
	}

	key := e.cacheKey(query, fullInfo)
	if cached, ok := e.cached(ctx, key); ok {
		return cached
	}

	start := time.Now()
	result := &Result{Query: query, Images: []Image{}}
	lookup := query + e.cfg.Suffix

	var (
		g          errgroup.Group
		described  bool
		translated bool
	)

	g.Go(func() error {
		result.Images, result.Error = e.images(ctx, lookup)
		return nil
	})

	g.Go(func() error {
		result.ShortSummary, result.FullSummary, described = e.describe(ctx, lookup, fullInfo)
		result.ShortSummary, translated = e.translate(ctx, result.ShortSummary)
		return nil
	})

	g.Wait()

	e.logger.Info(
		"query enriched",
		"query", query,
		"images", len(result.Images),
		"full_info", fullInfo,
		"duration", time.Since(start),
	)

	// fallbacks stay out of the cache so the next request retries
	if result.Error == "" && described && translated {
		e.store(ctx, key, result)
	}
	return result
}

func (e *enricher) images(ctx context.Context, lookup string) ([]Image, string) {
	hits, err := e.search.Search(ctx, lookup, e.cfg.MaxResults)
	if errors.Is(err, imagesearch.ErrNotConfigured) {
		return []Image{}, SearchNotConfigured
	}
	if err != nil {
		e.logger.Warn("image search failed", "query", lookup, "error", err)
		return []Image{}, SearchUnavailable
	}

	images := make([]Image, 0, len(hits))
	for _, h := range hits {
		title := h.Title
		if title == "" {
			title = DefaultImageTitle
		}
		images = append(images, Image{URL: h.URL, Title: title})
	}
	return images, ""
}

// describe returns the short and full descriptions. A failed lookup
// yields NoDescription for the short text; the full text is kept only
// when its own lookup succeeded. ok is false when either lookup failed.
func (e *enricher) describe(ctx context.Context, lookup string, fullInfo bool) (short, full string, ok bool) {
	full, err := e.summaries.Summary(ctx, lookup, e.cfg.FullSentences)
	if err != nil {
		e.logger.Warn("summary lookup failed", "query", lookup, "error", err)
		return NoDescription, "", false
	}

	if fullInfo {
		return full, full, true
	}

	short, err = e.summaries.Summary(ctx, lookup, e.cfg.ShortSentences)
	if err != nil {
		e.logger.Warn("short summary lookup failed", "query", lookup, "error", err)
		return NoDescription, full, false
	}
	return short, full, true
}

// translate returns text unchanged and false when translation fails.
func (e *enricher) translate(ctx context.Context, text string) (string, bool) {
	out, err := e.translator.Translate(ctx, text, e.cfg.Translate.Target)
	if err != nil {
		e.logger.Warn("translation failed", "target", e.cfg.Translate.Target, "error", err)
		return text, false
	}
	return out, true
}

func (e *enricher) cacheKey(query string, fullInfo bool) string {
	length := "short"
	if fullInfo {
		length = "full"
	}
	return fmt.Sprintf("signpost:enrich:%s:%s:%s", e.cfg.Translate.Target, length, strings.ToLower(query))
}

func (e *enricher) cached(ctx context.Context, key string) (*Result, bool) {
	if e.cache == nil {
		return nil, false
	}

	var result Result
	ok, err := e.cache.Get(ctx, key, &result)
	if err != nil {
		e.logger.Warn("cache read failed", "key", key, "error", err)
		return nil, false
	}
	if !ok {
		return nil, false
	}

	e.logger.Debug("enrichment cache hit", "key", key)
	return &result, true
}

func (e *enricher) store(ctx context.Context, key string, result *Result) {
	if e.cache == nil {
		return
	}
	if err := e.cache.Set(ctx, key, result); err != nil {
		e.logger.Warn("cache write failed", "key", key, "error", err)
	}
}
