package main

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/JaimeStill/signpost/internal/classify"
	"github.com/JaimeStill/signpost/internal/config"
	"github.com/JaimeStill/signpost/internal/enrich"
	"github.com/JaimeStill/signpost/internal/infrastructure"
	"github.com/JaimeStill/signpost/internal/signs"
	"github.com/JaimeStill/signpost/internal/uploads"
	"github.com/JaimeStill/signpost/pkg/inference"
	"github.com/JaimeStill/signpost/pkg/lifecycle"
	"github.com/JaimeStill/signpost/pkg/module"
	"github.com/JaimeStill/signpost/pkg/storage"
)

type stubModel struct{}

func (stubModel) Predict(context.Context, []float32) ([]float32, error) {
	return make([]float32, signs.Count), nil
}

func (stubModel) Metadata() inference.Metadata { return inference.DefaultMetadata() }
func (stubModel) Close() error                 { return nil }

type stubEnricher struct{}

func (stubEnricher) Enrich(_ context.Context, query string, _ bool) *enrich.Result {
	return &enrich.Result{Query: query}
}

func newTestRouter(t *testing.T) (*module.Router, *infrastructure.Infrastructure, string) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	cfg := &config.Config{Version: "test"}
	if err := cfg.API.Finalize(); err != nil {
		t.Fatalf("api config: %v", err)
	}

	root := filepath.Join(t.TempDir(), "uploads")
	store, err := storage.New(&storage.Config{
		Provider: storage.ProviderLocal,
		Local:    storage.LocalConfig{Root: root},
	}, logger)
	if err != nil {
		t.Fatalf("storage: %v", err)
	}

	lc := lifecycle.New()
	if err := store.Start(lc); err != nil {
		t.Fatalf("storage start: %v", err)
	}

	upCfg := uploads.Config{}
	if err := upCfg.Finalize(nil); err != nil {
		t.Fatalf("uploads config: %v", err)
	}

	infra := &infrastructure.Infrastructure{
		Lifecycle: lc,
		Logger:    logger,
		Storage:   store,
		Classify:  classify.New(stubModel{}, logger),
		Enrich:    stubEnricher{},
		Uploads:   uploads.New(nil, store, &upCfg, cfg.API.Pagination, logger),
	}

	modules, err := NewModules(infra, cfg)
	if err != nil {
		t.Fatalf("modules: %v", err)
	}
	router, err := buildRouter(infra, cfg)
	if err != nil {
		t.Fatalf("router: %v", err)
	}
	modules.Mount(router)

	return router, infra, root
}

func TestRouterEndpoints(t *testing.T) {
	router, _, root := newTestRouter(t)

	if err := os.WriteFile(filepath.Join(root, "kept.png"), []byte("\x89PNG\r\n\x1a\n"), 0o644); err != nil {
		t.Fatalf("seed upload: %v", err)
	}

	tests := []struct {
		name       string
		path       string
		wantStatus int
		wantBody   string
	}{
		{"landing", "/", http.StatusOK, "Stop"},
		{"index", "/index", http.StatusOK, "sign_name"},
		{"stylesheet", "/static/app.css", http.StatusOK, ""},
		{"stored upload", "/uploads/kept.png", http.StatusOK, "PNG"},
		{"missing upload", "/uploads/gone.png", http.StatusNotFound, ""},
		{"api signs", "/api/signs", http.StatusOK, "Yield"},
		{"openapi", "/api/openapi.json", http.StatusOK, "/api/classify"},
		{"scalar", "/scalar/", http.StatusOK, "/api/openapi.json"},
		{"healthz", "/healthz", http.StatusOK, "ok"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest("GET", tt.path, nil))

			if rec.Code != tt.wantStatus {
				t.Fatalf("status: got %d, want %d", rec.Code, tt.wantStatus)
			}
			if tt.wantBody != "" && !strings.Contains(rec.Body.String(), tt.wantBody) {
				t.Errorf("body missing %q", tt.wantBody)
			}
		})
	}
}

func TestReadyz(t *testing.T) {
	router, infra, _ := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("GET", "/readyz", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("before startup: got %d, want 503", rec.Code)
	}

	infra.Lifecycle.WaitForStartup()

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("GET", "/readyz", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("after startup: got %d, want 200", rec.Code)
	}
}
