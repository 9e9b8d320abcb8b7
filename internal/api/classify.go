package api

import (
	"bytes"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/JaimeStill/signpost/internal/classify"
	"github.com/JaimeStill/signpost/internal/uploads"
	"github.com/JaimeStill/signpost/pkg/handlers"
	"github.com/JaimeStill/signpost/pkg/routes"
)

// ErrFileTooLarge indicates the request body exceeded the upload limit.
var ErrFileTooLarge = errors.New("file exceeds the upload size limit")

type classifyResponse struct {
	Upload         *uploads.Upload  `json:"upload"`
	Classification *classify.Result `json:"classification"`
}

type classifyHandler struct {
	classifier    classify.System
	uploads       uploads.System
	logger        *slog.Logger
	maxUploadSize int64
}

func newClassifyHandler(
	classifier classify.System,
	store uploads.System,
	logger *slog.Logger,
	maxUploadSize int64,
) *classifyHandler {
	return &classifyHandler{
		classifier:    classifier,
		uploads:       store,
		logger:        logger.With("handler", "classify"),
		maxUploadSize: maxUploadSize,
	}
}

func (h *classifyHandler) routes() routes.Group {
	return routes.Group{
		Prefix: "/classify",
		Tags:   []string{"Classification"},
		Routes: []routes.Route{
			{Method: "POST", Pattern: "", Handler: h.classify, OpenAPI: Spec.Classify},
		},
	}
}

// classify decodes and classifies the multipart file field. Only images that
// decode are stored and registered.
func (h *classifyHandler) classify(w http.ResponseWriter, r *http.Request) {
	if r.ContentLength > h.maxUploadSize {
		handlers.RespondError(w, h.logger, http.StatusRequestEntityTooLarge, ErrFileTooLarge)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)
	if err := r.ParseMultipartForm(h.maxUploadSize); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			handlers.RespondError(w, h.logger, http.StatusRequestEntityTooLarge, ErrFileTooLarge)
			return
		}
		handlers.RespondError(w, h.logger, http.StatusBadRequest, classify.ErrNoImage)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, classify.ErrNoImage)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil || len(data) == 0 {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, classify.ErrNoImage)
		return
	}

	ctx := r.Context()

	result, err := h.classifier.Classify(ctx, bytes.NewReader(data))
	if err != nil {
		handlers.RespondError(w, h.logger, classify.MapHTTPStatus(err), err)
		return
	}

	upload, err := h.uploads.Store(ctx, uploads.StoreCommand{
		Data:        data,
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
	})
	if err != nil {
		handlers.RespondError(w, h.logger, uploads.MapHTTPStatus(err), err)
		return
	}

	if err := h.uploads.Record(ctx, upload, result); err != nil {
		h.logger.Warn("upload record failed", "key", upload.StorageKey, "error", err)
	}

	handlers.RespondJSON(w, http.StatusOK, classifyResponse{
		Upload:         upload,
		Classification: result,
	})
}
