// Package pages serves the HTML form that classifies uploads and looks up
// sign descriptions.
package pages

import (
	"bytes"
	"context"
	"errors"
	"html/template"
	"io"
	"io/fs"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/JaimeStill/signpost/internal/classify"
	"github.com/JaimeStill/signpost/internal/enrich"
	"github.com/JaimeStill/signpost/internal/signs"
	"github.com/JaimeStill/signpost/internal/uploads"
	"github.com/JaimeStill/signpost/pkg/formatting"
	"github.com/JaimeStill/signpost/pkg/routes"
	"github.com/JaimeStill/signpost/pkg/web"
)

const layout = "app"

// User-facing messages rendered above the form.
const (
	MsgSelectImage   = "Please select an image."
	MsgEnterSignName = "Please enter a sign name."
	MsgUnknownMode   = "Unknown mode."
	MsgTooLarge      = "The uploaded file is too large."
	MsgSaveFailed    = "The image could not be saved."
)

var indexView = web.ViewDef{
	Route:    "/index",
	Template: "index.html",
	Title:    "Traffic Sign Recognition",
}

// Classification is the prediction shown on the page, either fresh from an
// upload or carried over from the previous submission.
type Classification struct {
	Label      string
	Confidence float32
	Image      string
	Filename   string
	Size       int64
}

// View is the data rendered by the index template.
type View struct {
	Message        string
	SignName       string
	FullInfo       bool
	Classification *Classification
	Enrichment     *enrich.Result
	Signs          []signs.Sign
}

// Handler renders the index page and dispatches form submissions.
type Handler struct {
	classifier    classify.System
	enricher      enrich.System
	uploads       uploads.System
	templates     *web.TemplateSet
	maxUploadSize int64
	logger        *slog.Logger
}

// NewHandler parses the page templates from fsys and returns a Handler.
func NewHandler(
	fsys fs.FS,
	basePath string,
	classifier classify.System,
	enricher enrich.System,
	store uploads.System,
	maxUploadSize int64,
	logger *slog.Logger,
) (*Handler, error) {
	funcs := template.FuncMap{
		"percent":     formatting.Percent,
		"formatBytes": formatting.FormatBytes,
	}

	ts, err := web.NewTemplateSet(fsys, "templates/layouts/*.html", "templates/views", basePath, []web.ViewDef{indexView}, funcs)
	if err != nil {
		return nil, err
	}

	return &Handler{
		classifier:    classifier,
		enricher:      enricher,
		uploads:       store,
		templates:     ts,
		maxUploadSize: maxUploadSize,
		logger:        logger.With("handler", "pages"),
	}, nil
}

// Routes returns the page routes.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Routes: []routes.Route{
			{Method: "GET", Pattern: "/{$}", Handler: h.Landing},
			{Method: "GET", Pattern: "/index", Handler: h.Index},
			{Method: "POST", Pattern: "/index", Handler: h.Submit},
		},
	}
}

// Landing renders the form and the table of recognized signs.
func (h *Handler) Landing(w http.ResponseWriter, r *http.Request) {
	h.render(w, &View{Signs: signs.All()})
}

// Index renders the empty form.
func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	h.render(w, &View{})
}

// Submit handles the unified form. The mode field selects classification
// or sign lookup; validation failures are reported in the page body.
func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	if r.ContentLength > h.maxUploadSize {
		h.render(w, &View{Message: MsgTooLarge})
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)

	if err := r.ParseMultipartForm(h.maxUploadSize); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.render(w, &View{Message: MsgTooLarge})
			return
		}
		h.logger.Warn("form parse failed", "error", err)
		h.render(w, &View{Message: MsgSelectImage})
		return
	}

	ctx := r.Context()
	signName := strings.TrimSpace(r.FormValue("sign_name"))

	view := &View{
		SignName:       signName,
		FullInfo:       enrich.ParseFullInfo(r.FormValue("full_info")),
		Classification: previous(r),
	}

	switch mode := r.FormValue("mode"); mode {
	case "", "classify":
		if !h.classifyUpload(ctx, r, view) {
			view.Message = MsgSelectImage
		}
		if signName != "" {
			view.Enrichment = h.enricher.Enrich(ctx, signName, view.FullInfo)
		}
	case "search":
		h.classifyUpload(ctx, r, view)
		if signName == "" {
			view.Message = MsgEnterSignName
			break
		}
		view.Enrichment = h.enricher.Enrich(ctx, signName, view.FullInfo)
	default:
		h.logger.Warn("unknown form mode", "mode", mode)
		view.Message = MsgUnknownMode
	}

	h.render(w, view)
}

// classifyUpload stores and classifies the submitted file. It reports
// false when no file was attached.
func (h *Handler) classifyUpload(ctx context.Context, r *http.Request, view *View) bool {
	file, header, err := r.FormFile("file")
	if err != nil {
		return false
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil || len(data) == 0 {
		return false
	}

	upload, err := h.uploads.Store(ctx, uploads.StoreCommand{
		Data:        data,
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
	})
	if err != nil {
		h.logger.Error("upload store failed", "filename", header.Filename, "error", err)
		view.Message = MsgSaveFailed
		return true
	}

	result, err := h.classifier.Classify(ctx, bytes.NewReader(data))
	if err != nil {
		h.logger.Warn("classification failed", "key", upload.StorageKey, "error", err)
		view.Message = classify.UserMessage(err)
		view.Classification = nil
	} else {
		view.Classification = &Classification{
			Label:      result.Label,
			Confidence: result.Confidence,
			Image:      upload.URL,
			Filename:   upload.Filename,
			Size:       upload.SizeBytes,
		}
	}

	if err := h.uploads.Record(ctx, upload, result); err != nil {
		h.logger.Warn("upload record failed", "key", upload.StorageKey, "error", err)
	}
	return true
}

func (h *Handler) render(w http.ResponseWriter, view *View) {
	if err := h.templates.Render(w, http.StatusOK, layout, indexView, view); err != nil {
		h.logger.Error("render failed", "template", indexView.Template, "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}

// previous restores the classification carried in the prev_* hidden fields.
// Image paths outside the upload prefix are dropped.
func previous(r *http.Request) *Classification {
	label := r.FormValue("prev_label")
	if label == "" {
		return nil
	}

	c := &Classification{Label: label}

	if v, err := strconv.ParseFloat(r.FormValue("prev_confidence"), 32); err == nil && v >= 0 && v <= 1 {
		c.Confidence = float32(v)
	}

	if img := r.FormValue("prev_image"); strings.HasPrefix(img, uploads.URLPrefix) && !strings.Contains(img, "..") {
		c.Image = img
	}

	return c
}
