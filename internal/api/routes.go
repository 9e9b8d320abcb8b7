package api

import (
	"fmt"
	"net/http"

	"github.com/JaimeStill/signpost/internal/config"
	"github.com/JaimeStill/signpost/internal/enrich"
	"github.com/JaimeStill/signpost/internal/uploads"
	"github.com/JaimeStill/signpost/pkg/openapi"
	"github.com/JaimeStill/signpost/pkg/routes"
)

func registerRoutes(
	mux *http.ServeMux,
	domain *Domain,
	cfg *config.Config,
) error {
	groups := []routes.Group{
		domain.Classify.routes(),
		domain.Enrich.Routes(),
		domain.Signs.routes(),
		domain.Uploads.Routes(),
	}

	routes.Register(mux, groups...)

	spec, err := buildSpec(cfg, groups...)
	if err != nil {
		return err
	}
	mux.HandleFunc("GET /openapi.json", openapi.ServeSpec(spec))

	return nil
}

// buildSpec documents groups as mounted under the API base path and
// serializes the result once at startup.
func buildSpec(cfg *config.Config, groups ...routes.Group) ([]byte, error) {
	version := cfg.Version
	if version == "" {
		version = "dev"
	}

	spec := openapi.NewSpec(cfg.API.OpenAPI.Title, version)
	spec.SetDescription(cfg.API.OpenAPI.Description)
	spec.Components.AddSchemas(Spec.Schemas())
	spec.Components.AddSchemas(enrich.Spec.Schemas())
	spec.Components.AddSchemas(uploads.Spec.Schemas())

	routes.Document(spec, cfg.API.BasePath, groups...)

	data, err := openapi.MarshalJSON(spec)
	if err != nil {
		return nil, fmt.Errorf("marshal openapi spec: %w", err)
	}
	return data, nil
}
