package inference

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
)

const (
	LayoutNHWC = "NHWC"
	LayoutNCHW = "NCHW"
)

// Metadata describes the tensors a model exchanges and how pixels are
// prepared for it.
type Metadata struct {
	InputName    string  `json:"input_name"`
	OutputName   string  `json:"output_name"`
	InputShape   []int64 `json:"input_shape"`
	OutputShape  []int64 `json:"output_shape"`
	Layout       string  `json:"layout"`
	PixelScale   float32 `json:"pixel_scale"`
	ApplySoftmax bool    `json:"apply_softmax"`
}

// DefaultMetadata matches a 30x30 RGB classifier with 43 outputs fed raw
// 0..255 pixel values.
func DefaultMetadata() Metadata {
	return Metadata{
		InputName:   "input",
		OutputName:  "output",
		InputShape:  []int64{1, 30, 30, 3},
		OutputShape: []int64{1, 43},
		Layout:      LayoutNHWC,
		PixelScale:  1.0,
	}
}

// LoadMetadata reads path over the defaults. An empty path or a missing
// file yields DefaultMetadata.
func LoadMetadata(path string) (Metadata, error) {
	md := DefaultMetadata()
	if path == "" {
		return md, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return md, nil
		}
		return md, fmt.Errorf("read metadata: %w", err)
	}

	if err := json.Unmarshal(data, &md); err != nil {
		return md, fmt.Errorf("parse metadata: %w", err)
	}

	return md, md.validate()
}

// InputSize is the number of elements in the input tensor.
func (m Metadata) InputSize() int {
	return volume(m.InputShape)
}

// OutputSize is the number of elements in the output tensor.
func (m Metadata) OutputSize() int {
	return volume(m.OutputShape)
}

// ImageSize returns the spatial height and width of the input tensor.
func (m Metadata) ImageSize() (height, width int) {
	if len(m.InputShape) != 4 {
		return 0, 0
	}
	if m.Layout == LayoutNCHW {
		return int(m.InputShape[2]), int(m.InputShape[3])
	}
	return int(m.InputShape[1]), int(m.InputShape[2])
}

func (m Metadata) validate() error {
	if m.Layout != LayoutNHWC && m.Layout != LayoutNCHW {
		return fmt.Errorf("unsupported layout: %s", m.Layout)
	}
	if len(m.InputShape) != 4 {
		return fmt.Errorf("input_shape must have 4 dimensions, got %v", m.InputShape)
	}
	if m.InputSize() <= 0 || m.OutputSize() <= 0 {
		return fmt.Errorf("tensor shapes must be positive: %v -> %v", m.InputShape, m.OutputShape)
	}
	if m.PixelScale <= 0 {
		return fmt.Errorf("pixel_scale must be positive")
	}
	return nil
}

func volume(shape []int64) int {
	if len(shape) == 0 {
		return 0
	}
	n := int64(1)
	for _, d := range shape {
		n *= d
	}
	return int(n)
}
