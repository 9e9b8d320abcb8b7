// Package classify turns uploaded images into traffic sign predictions.
package classify

import (
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"log/slog"
	"math"
	"time"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/JaimeStill/signpost/internal/signs"
	"github.com/JaimeStill/signpost/pkg/inference"
)

// Result is a single prediction.
type Result struct {
	ClassIndex int     `json:"class_index"`
	Label      string  `json:"label"`
	Confidence float32 `json:"confidence"`
}

// System classifies traffic sign images.
type System interface {
	// Classify decodes r as JPEG, PNG, GIF, BMP, TIFF, or WebP and classifies it.
	Classify(ctx context.Context, r io.Reader) (*Result, error)
	// ClassifyImage classifies an already decoded image.
	ClassifyImage(ctx context.Context, img image.Image) (*Result, error)
}

type classifier struct {
	model  inference.Model
	logger *slog.Logger
}

// New creates a classification system backed by model.
func New(model inference.Model, logger *slog.Logger) System {
	return &classifier{
		model:  model,
		logger: logger.With("system", "classify"),
	}
}

func (c *classifier) Classify(ctx context.Context, r io.Reader) (*Result, error) {
	if r == nil {
		return nil, ErrNoImage
	}

	img, format, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrImageDecode, err)
	}

	c.logger.Debug("image decoded", "format", format, "bounds", img.Bounds().String())
	return c.ClassifyImage(ctx, img)
}

func (c *classifier) ClassifyImage(ctx context.Context, img image.Image) (*Result, error) {
	if img == nil {
		return nil, ErrNoImage
	}

	meta := c.model.Metadata()
	start := time.Now()

	scores, err := c.model.Predict(ctx, tensor(img, meta))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInference, err)
	}
	if len(scores) != signs.Count {
		return nil, fmt.Errorf("%w: got %d scores, want %d", ErrOutputShape, len(scores), signs.Count)
	}

	if meta.ApplySoftmax || !inference.IsDistribution(scores) {
		scores = inference.Softmax(scores)
	}

	best := 0
	for i, s := range scores {
		if math.IsNaN(float64(s)) {
			return nil, fmt.Errorf("%w: score %d is NaN", ErrInference, i)
		}
		if s > scores[best] {
			best = i
		}
	}

	result := &Result{
		ClassIndex: best,
		Label:      signs.Label(best),
		Confidence: min(max(scores[best], 0), 1),
	}

	c.logger.Info("image classified",
		"label", result.Label,
		"confidence", result.Confidence,
		"duration", time.Since(start),
	)

	return result, nil
}
