// Package api assembles the JSON API module with all domain handlers and route registration.
package api

import (
	"net/http"

	"github.com/JaimeStill/signpost/internal/config"
	"github.com/JaimeStill/signpost/internal/infrastructure"
	"github.com/JaimeStill/signpost/pkg/middleware"
	"github.com/JaimeStill/signpost/pkg/module"
)

// NewModule creates the API module with all domain handlers and middleware.
func NewModule(cfg *config.Config, infra *infrastructure.Infrastructure) (*module.Module, error) {
	runtime := NewRuntime(cfg, infra)
	domain := NewDomain(runtime)

	mux := http.NewServeMux()
	if err := registerRoutes(mux, domain, cfg); err != nil {
		return nil, err
	}

	m := module.New(cfg.API.BasePath, mux)
	m.Use(middleware.CORS(&cfg.API.CORS))
	m.Use(middleware.Logger(runtime.Logger))

	return m, nil
}
