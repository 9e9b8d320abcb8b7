// Package wiki fetches plain-text article summaries from a MediaWiki action API.
package wiki

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

var (
	// ErrPageNotFound indicates no article matched the query.
	ErrPageNotFound = errors.New("page not found")
	// ErrDisambiguation indicates the best match is a disambiguation page.
	ErrDisambiguation = errors.New("query matches a disambiguation page")
)

// Client looks up article summaries.
type Client interface {
	// Summary returns the first sentences of the article that best matches query.
	Summary(ctx context.Context, query string, sentences int) (string, error)
}

type mediaWiki struct {
	endpoint  string
	userAgent string
	http      *http.Client
	logger    *slog.Logger
}

// New creates a MediaWiki client.
func New(cfg *Config, logger *slog.Logger) Client {
	return &mediaWiki{
		endpoint:  cfg.Endpoint,
		userAgent: cfg.UserAgent,
		http:      &http.Client{Timeout: cfg.TimeoutDuration()},
		logger:    logger.With("system", "wiki"),
	}
}

type searchResponse struct {
	Query struct {
		Search []struct {
			Title string `json:"title"`
		} `json:"search"`
	} `json:"query"`
}

type extractResponse struct {
	Query struct {
		Pages []struct {
			Title     string            `json:"title"`
			Missing   bool              `json:"missing"`
			Extract   string            `json:"extract"`
			PageProps map[string]string `json:"pageprops"`
		} `json:"pages"`
	} `json:"query"`
}

func (m *mediaWiki) Summary(ctx context.Context, query string, sentences int) (string, error) {
	start := time.Now()

	title, err := m.search(ctx, query)
	if err != nil {
		return "", err
	}

	var res extractResponse
	err = m.get(ctx, url.Values{
		"action":        {"query"},
		"prop":          {"extracts|pageprops"},
		"ppprop":        {"disambiguation"},
		"explaintext":   {"1"},
		"exsentences":   {strconv.Itoa(sentences)},
		"redirects":     {"1"},
		"titles":        {title},
		"format":        {"json"},
		"formatversion": {"2"},
	}, &res)
	if err != nil {
		return "", err
	}

	if len(res.Query.Pages) == 0 || res.Query.Pages[0].Missing {
		return "", fmt.Errorf("%w: %s", ErrPageNotFound, title)
	}

	page := res.Query.Pages[0]
	if _, ok := page.PageProps["disambiguation"]; ok {
		return "", fmt.Errorf("%w: %s", ErrDisambiguation, page.Title)
	}

	extract := strings.TrimSpace(page.Extract)
	if extract == "" {
		return "", fmt.Errorf("%w: %s has no extract", ErrPageNotFound, page.Title)
	}

	m.logger.Debug("summary fetched",
		"query", query,
		"title", page.Title,
		"sentences", sentences,
		"duration", time.Since(start),
	)
	return extract, nil
}

func (m *mediaWiki) search(ctx context.Context, query string) (string, error) {
	var res searchResponse
	err := m.get(ctx, url.Values{
		"action":        {"query"},
		"list":          {"search"},
		"srsearch":      {query},
		"srlimit":       {"1"},
		"format":        {"json"},
		"formatversion": {"2"},
	}, &res)
	if err != nil {
		return "", err
	}

	if len(res.Query.Search) == 0 {
		return "", fmt.Errorf("%w: %s", ErrPageNotFound, query)
	}
	return res.Query.Search[0].Title, nil
}

func (m *mediaWiki) get(ctx context.Context, params url.Values, dst any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, m.endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", m.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := m.http.Do(req)
	if err != nil {
		return fmt.Errorf("wiki request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("wiki request: unexpected status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		return fmt.Errorf("decode wiki response: %w", err)
	}
	return nil
}
