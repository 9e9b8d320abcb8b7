package main

import (
	"encoding/json"
	"net/http"

	"github.com/JaimeStill/signpost/internal/api"
	"github.com/JaimeStill/signpost/internal/config"
	"github.com/JaimeStill/signpost/internal/infrastructure"
	"github.com/JaimeStill/signpost/internal/pages"
	"github.com/JaimeStill/signpost/pkg/middleware"
	"github.com/JaimeStill/signpost/pkg/module"
	"github.com/JaimeStill/signpost/pkg/web"
	"github.com/JaimeStill/signpost/web/app"
	"github.com/JaimeStill/signpost/web/scalar"
)

type Modules struct {
	API    *module.Module
	Scalar *module.Module
}

func NewModules(infra *infrastructure.Infrastructure, cfg *config.Config) (*Modules, error) {
	apiModule, err := api.NewModule(cfg, infra)
	if err != nil {
		return nil, err
	}
	apiModule.Use(middleware.Recover(infra.Logger))

	scalarModule, err := scalar.NewModule(
		"/scalar",
		cfg.API.OpenAPI.Title,
		cfg.API.BasePath+"/openapi.json",
	)
	if err != nil {
		return nil, err
	}
	scalarModule.Use(middleware.Logger(infra.Logger))

	return &Modules{
		API:    apiModule,
		Scalar: scalarModule,
	}, nil
}

func (m *Modules) Mount(router *module.Router) {
	router.Mount(m.API)
	router.Mount(m.Scalar)
}

// buildRouter registers the HTML pages, stored images, static assets, and
// health probes on the router's fallback mux.
func buildRouter(infra *infrastructure.Infrastructure, cfg *config.Config) (*module.Router, error) {
	router := module.NewRouter()
	router.UseNative(middleware.Recover(infra.Logger))
	router.UseNative(middleware.Logger(infra.Logger))

	pagesHandler, err := pages.NewHandler(
		app.FS,
		"",
		infra.Classify,
		infra.Enrich,
		infra.Uploads,
		cfg.API.MaxUploadSizeBytes(),
		infra.Logger,
	)
	if err != nil {
		return nil, err
	}
	router.RegisterNative(pagesHandler.Routes())

	static, err := web.DistServer(app.FS, "static", "/static/")
	if err != nil {
		return nil, err
	}
	router.HandleNative("GET /static/", static)
	router.HandleNativeFunc("GET /uploads/{key...}", infra.Uploads.Handler().Serve)

	router.HandleNativeFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	})

	router.HandleNativeFunc("GET /readyz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if !infra.Ready() {
			w.WriteHeader(http.StatusServiceUnavailable)
			json.NewEncoder(w).Encode(map[string]string{"status": "not ready"})
			return
		}
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]string{"status": "ready"})
	})

	return router, nil
}
