package translate

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// web calls the keyless translate_a/single endpoint used by browser widgets.
type web struct {
	endpoint string
	http     *http.Client
	logger   *slog.Logger
}

func newWeb(cfg *Config, logger *slog.Logger) *web {
	return &web{
		endpoint: cfg.Endpoint,
		http:     &http.Client{Timeout: cfg.TimeoutDuration()},
		logger:   logger,
	}
}

func (t *web) Translate(ctx context.Context, text, target string) (string, error) {
	start := time.Now()

	params := url.Values{
		"client": {"gtx"},
		"sl":     {"auto"},
		"tl":     {target},
		"dt":     {"t"},
		"q":      {text},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, t.endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}

	resp, err := t.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("translate request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("translate request: unexpected status %d", resp.StatusCode)
	}

	// [[["translated","source",...],...],null,"detected-lang",...]
	var raw []json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return "", fmt.Errorf("decode translation: %w", err)
	}
	if len(raw) == 0 {
		return "", ErrEmptyTranslation
	}

	var segments [][]any
	if err := json.Unmarshal(raw[0], &segments); err != nil {
		return "", fmt.Errorf("decode translation segments: %w", err)
	}

	var sb strings.Builder
	for _, seg := range segments {
		if len(seg) == 0 {
			continue
		}
		if s, ok := seg[0].(string); ok {
			sb.WriteString(s)
		}
	}

	out := sb.String()
	if strings.TrimSpace(out) == "" {
		return "", ErrEmptyTranslation
	}

	t.logger.Debug("text translated", "target", target, "chars", len(text), "duration", time.Since(start))
	return out, nil
}
