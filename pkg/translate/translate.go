// Package translate renders text into a target language through Google
// translation services.
package translate

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
)

var (
	// ErrEmptyTranslation indicates the provider returned no text.
	ErrEmptyTranslation = errors.New("empty translation")
	// ErrUnsupportedProvider indicates an unknown provider name.
	ErrUnsupportedProvider = errors.New("unsupported translation provider")
)

// Translator translates text.
type Translator interface {
	// Translate returns text rendered in the target language (an ISO-639 code).
	Translate(ctx context.Context, text, target string) (string, error)
}

// New creates the Translator selected by cfg.Provider.
func New(ctx context.Context, cfg *Config, logger *slog.Logger) (Translator, error) {
	logger = logger.With("system", "translate", "provider", cfg.Provider)

	switch cfg.Provider {
	case ProviderWeb:
		return newWeb(cfg, logger), nil
	case ProviderCloud:
		return newCloud(ctx, cfg, logger)
	case ProviderNone:
		return passthrough{}, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedProvider, cfg.Provider)
	}
}

type passthrough struct{}

func (passthrough) Translate(_ context.Context, text, _ string) (string, error) {
	return text, nil
}
