package uploads

import (
	"io"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/JaimeStill/signpost/pkg/handlers"
	"github.com/JaimeStill/signpost/pkg/pagination"
	"github.com/JaimeStill/signpost/pkg/routes"
)

// Handler provides HTTP endpoints for stored uploads.
type Handler struct {
	sys        System
	logger     *slog.Logger
	pagination pagination.Config
}

// NewHandler creates a Handler with the given system, logger, and pagination config.
func NewHandler(sys System, logger *slog.Logger, pagination pagination.Config) *Handler {
	return &Handler{
		sys:        sys,
		logger:     logger.With("handler", "uploads"),
		pagination: pagination,
	}
}

// Routes returns the API route group for the upload registry.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/uploads",
		Tags:   []string{"Uploads"},
		Routes: []routes.Route{
			{Method: "GET", Pattern: "", Handler: h.List, OpenAPI: Spec.List},
			{Method: "GET", Pattern: "/{id}", Handler: h.Find, OpenAPI: Spec.Find},
		},
	}
}

// List returns a page of registered uploads.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	page := pagination.PageRequestFromQuery(r.URL.Query(), h.pagination)
	filters := FiltersFromQuery(r.URL.Query())

	result, err := h.sys.List(r.Context(), page, filters)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// Find returns the registered upload for the {id} path value.
func (h *Handler) Find(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidID)
		return
	}

	u, err := h.sys.Find(r.Context(), id)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, u)
}

// Serve streams the image stored under the {key...} path value.
func (h *Handler) Serve(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("key")

	rc, contentType, err := h.sys.Open(r.Context(), key)
	if err != nil {
		status := MapHTTPStatus(err)
		if status >= http.StatusInternalServerError {
			h.logger.Error("upload open failed", "key", key, "error", err)
		}
		http.Error(w, http.StatusText(status), status)
		return
	}
	defer rc.Close()

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Cache-Control", "public, max-age=3600")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(http.StatusOK)

	if _, err := io.Copy(w, rc); err != nil {
		h.logger.Warn("upload stream interrupted", "key", key, "error", err)
	}
}
