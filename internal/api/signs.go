package api

import (
	"net/http"

	"github.com/JaimeStill/signpost/internal/signs"
	"github.com/JaimeStill/signpost/pkg/handlers"
	"github.com/JaimeStill/signpost/pkg/routes"
)

type signsHandler struct {
	table []signs.Sign
}

func newSignsHandler() *signsHandler {
	return &signsHandler{table: signs.All()}
}

func (h *signsHandler) routes() routes.Group {
	return routes.Group{
		Prefix: "/signs",
		Tags:   []string{"Signs"},
		Routes: []routes.Route{
			{Method: "GET", Pattern: "", Handler: h.list, OpenAPI: Spec.Signs},
		},
	}
}

func (h *signsHandler) list(w http.ResponseWriter, r *http.Request) {
	handlers.RespondJSON(w, http.StatusOK, h.table)
}
