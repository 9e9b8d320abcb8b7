package translate

import (
	"context"
	"fmt"
	"html"
	"log/slog"
	"net/http"
	"time"

	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	translatev2 "google.golang.org/api/translate/v2"
)

// cloud calls Cloud Translation v2 with an API key.
type cloud struct {
	svc    *translatev2.Service
	apiKey string
	logger *slog.Logger
}

func newCloud(ctx context.Context, cfg *Config, logger *slog.Logger) (*cloud, error) {
	svc, err := translatev2.NewService(ctx,
		option.WithHTTPClient(&http.Client{Timeout: cfg.TimeoutDuration()}),
		option.WithEndpoint(cfg.Endpoint),
	)
	if err != nil {
		return nil, fmt.Errorf("create translate service: %w", err)
	}

	return &cloud{
		svc:    svc,
		apiKey: cfg.APIKey,
		logger: logger,
	}, nil
}

func (t *cloud) Translate(ctx context.Context, text, target string) (string, error) {
	start := time.Now()

	res, err := t.svc.Translations.
		List([]string{text}, target).
		Format("text").
		Context(ctx).
		Do(googleapi.QueryParameter("key", t.apiKey))
	if err != nil {
		return "", fmt.Errorf("translate: %w", err)
	}

	if len(res.Translations) == 0 || res.Translations[0].TranslatedText == "" {
		return "", ErrEmptyTranslation
	}

	t.logger.Debug("text translated", "target", target, "chars", len(text), "duration", time.Since(start))
	return html.UnescapeString(res.Translations[0].TranslatedText), nil
}
