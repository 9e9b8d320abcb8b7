// Package scalar serves the Scalar API reference for the generated OpenAPI document.
package scalar

import (
	"bytes"
	"embed"
	"html/template"
	"net/http"

	"github.com/JaimeStill/signpost/pkg/module"
)

//go:embed index.html
var staticFS embed.FS

// NewModule creates a module that serves the Scalar API reference UI at
// basePath, reading the OpenAPI document from specURL.
func NewModule(basePath, title, specURL string) (*module.Module, error) {
	router, err := buildRouter(title, specURL)
	if err != nil {
		return nil, err
	}
	return module.New(basePath, router), nil
}

func buildRouter(title, specURL string) (http.Handler, error) {
	tmpl, err := template.ParseFS(staticFS, "index.html")
	if err != nil {
		return nil, err
	}

	var page bytes.Buffer
	if err := tmpl.Execute(&page, map[string]string{
		"Title":   title,
		"SpecURL": specURL,
	}); err != nil {
		return nil, err
	}
	body := page.Bytes()

	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write(body)
	})

	return mux, nil
}
