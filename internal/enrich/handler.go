package enrich

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/JaimeStill/signpost/pkg/handlers"
	"github.com/JaimeStill/signpost/pkg/routes"
)

// Handler provides the HTTP endpoint for enrichment lookups.
type Handler struct {
	sys    System
	logger *slog.Logger
}

// NewHandler creates a Handler over sys.
func NewHandler(sys System, logger *slog.Logger) *Handler {
	return &Handler{
		sys:    sys,
		logger: logger.With("handler", "enrich"),
	}
}

// Routes returns the API route group for enrichment.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/enrich",
		Tags:   []string{"Enrichment"},
		Routes: []routes.Route{
			{Method: "GET", Pattern: "", Handler: h.Lookup, OpenAPI: Spec.Lookup},
		},
	}
}

// Lookup enriches the q query parameter. A blank q yields an empty result.
func (h *Handler) Lookup(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	result := h.sys.Enrich(r.Context(), q, ParseFullInfo(r.URL.Query().Get("full_info")))
	handlers.RespondJSON(w, http.StatusOK, result)
}

// ParseFullInfo reads the full_info checkbox or query flag. Any value other
// than empty, false, 0, or off selects the long summary.
func ParseFullInfo(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "", "false", "0", "off":
		return false
	default:
		return true
	}
}
