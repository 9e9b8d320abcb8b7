package api

import (
	"github.com/JaimeStill/signpost/internal/enrich"
	"github.com/JaimeStill/signpost/internal/uploads"
)

// Domain holds the handlers that comprise the API.
type Domain struct {
	Classify *classifyHandler
	Enrich   *enrich.Handler
	Signs    *signsHandler
	Uploads  *uploads.Handler
}

// NewDomain creates all domain handlers from the API runtime.
func NewDomain(runtime *Runtime) *Domain {
	return &Domain{
		Classify: newClassifyHandler(
			runtime.Classify,
			runtime.Uploads,
			runtime.Logger,
			runtime.MaxUploadSize,
		),
		Enrich:  enrich.NewHandler(runtime.Enrich, runtime.Logger),
		Signs:   newSignsHandler(),
		Uploads: uploads.NewHandler(runtime.Uploads, runtime.Logger, runtime.Pagination),
	}
}
