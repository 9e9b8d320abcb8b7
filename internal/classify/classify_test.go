package classify_test

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"io"
	"log/slog"
	"math"
	"net/http"
	"strings"
	"testing"

	"github.com/JaimeStill/signpost/internal/classify"
	"github.com/JaimeStill/signpost/internal/signs"
	"github.com/JaimeStill/signpost/pkg/inference"
)

type fakeModel struct {
	meta   inference.Metadata
	scores []float32
	err    error
	inputs [][]float32
}

func (f *fakeModel) Predict(ctx context.Context, input []float32) ([]float32, error) {
	f.inputs = append(f.inputs, append([]float32(nil), input...))
	if f.err != nil {
		return nil, f.err
	}
	return append([]float32(nil), f.scores...), nil
}

func (f *fakeModel) Metadata() inference.Metadata { return f.meta }
func (f *fakeModel) Close() error                 { return nil }

func oneHot(index int, value float32) []float32 {
	scores := make([]float32, signs.Count)
	for i := range scores {
		scores[i] = (1 - value) / float32(signs.Count-1)
	}
	scores[index] = value
	return scores
}

func solid(c color.NRGBA, size int) image.Image {
	img := image.NewNRGBA(image.Rect(0, 0, size, size))
	for y := range size {
		for x := range size {
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

func pngBytes(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func newSystem(model inference.Model) classify.System {
	return classify.New(model, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestClassify(t *testing.T) {
	model := &fakeModel{meta: inference.DefaultMetadata(), scores: oneHot(14, 0.9)}
	sys := newSystem(model)

	data := pngBytes(t, solid(color.NRGBA{R: 200, A: 255}, 64))
	result, err := sys.Classify(context.Background(), bytes.NewReader(data))
	if err != nil {
		t.Fatalf("Classify() error = %v", err)
	}

	if result.ClassIndex != 14 || result.Label != "Stop" {
		t.Errorf("result = %+v, want Stop", result)
	}
	if result.Confidence < 0.89 || result.Confidence > 0.91 {
		t.Errorf("confidence = %v, want 0.9", result.Confidence)
	}
	if len(model.inputs) != 1 || len(model.inputs[0]) != 30*30*3 {
		t.Fatalf("model input length = %d, want 2700", len(model.inputs[0]))
	}
}

func TestClassifyDeterministic(t *testing.T) {
	model := &fakeModel{meta: inference.DefaultMetadata(), scores: oneHot(13, 0.7)}
	sys := newSystem(model)
	img := solid(color.NRGBA{R: 10, G: 120, B: 240, A: 255}, 48)

	first, err := sys.ClassifyImage(context.Background(), img)
	if err != nil {
		t.Fatal(err)
	}
	second, err := sys.ClassifyImage(context.Background(), img)
	if err != nil {
		t.Fatal(err)
	}

	if *first != *second {
		t.Errorf("results differ: %+v vs %+v", first, second)
	}
	for i := range model.inputs[0] {
		if model.inputs[0][i] != model.inputs[1][i] {
			t.Fatalf("input tensors differ at %d", i)
		}
	}
}

func TestPreprocessLayout(t *testing.T) {
	red := solid(color.NRGBA{R: 255, A: 128}, 40)

	tests := []struct {
		name   string
		layout string
		red    func(i int) bool
	}{
		{"nhwc", inference.LayoutNHWC, func(i int) bool { return i%3 == 0 }},
		{"nchw", inference.LayoutNCHW, func(i int) bool { return i < 900 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			meta := inference.DefaultMetadata()
			meta.Layout = tt.layout
			if tt.layout == inference.LayoutNCHW {
				meta.InputShape = []int64{1, 3, 30, 30}
			}
			model := &fakeModel{meta: meta, scores: oneHot(0, 0.5)}

			if _, err := newSystem(model).ClassifyImage(context.Background(), red); err != nil {
				t.Fatal(err)
			}

			for i, v := range model.inputs[0] {
				if tt.red(i) && v < 250 {
					t.Fatalf("input[%d] = %v, want red channel near 255", i, v)
				}
				if !tt.red(i) && v > 5 {
					t.Fatalf("input[%d] = %v, want near 0", i, v)
				}
			}
		})
	}
}

func TestPixelScale(t *testing.T) {
	meta := inference.DefaultMetadata()
	meta.PixelScale = 1.0 / 255
	model := &fakeModel{meta: meta, scores: oneHot(0, 0.5)}

	white := solid(color.NRGBA{R: 255, G: 255, B: 255, A: 255}, 30)
	if _, err := newSystem(model).ClassifyImage(context.Background(), white); err != nil {
		t.Fatal(err)
	}

	for i, v := range model.inputs[0] {
		if v < 0.98 || v > 1.0001 {
			t.Fatalf("input[%d] = %v, want ~1", i, v)
		}
	}
}

func TestSoftmaxGuard(t *testing.T) {
	logits := make([]float32, signs.Count)
	logits[25] = 8
	logits[3] = -4

	model := &fakeModel{meta: inference.DefaultMetadata(), scores: logits}
	result, err := newSystem(model).ClassifyImage(context.Background(), solid(color.NRGBA{A: 255}, 30))
	if err != nil {
		t.Fatal(err)
	}

	if result.Label != "Road work" {
		t.Errorf("label = %s, want Road work", result.Label)
	}
	if result.Confidence <= 0 || result.Confidence > 1 {
		t.Errorf("confidence = %v, want in (0,1]", result.Confidence)
	}
}

func nanScores() []float32 {
	scores := oneHot(3, 0.5)
	scores[7] = float32(math.NaN())
	return scores
}

func TestClassifyErrors(t *testing.T) {
	img := pngBytes(t, solid(color.NRGBA{A: 255}, 30))

	tests := []struct {
		name       string
		model      *fakeModel
		input      io.Reader
		want       error
		wantStatus int
	}{
		{"nil reader", &fakeModel{meta: inference.DefaultMetadata()}, nil, classify.ErrNoImage, http.StatusBadRequest},
		{"not an image", &fakeModel{meta: inference.DefaultMetadata()}, strings.NewReader("hello"), classify.ErrImageDecode, http.StatusBadRequest},
		{"model failure", &fakeModel{meta: inference.DefaultMetadata(), err: errors.New("boom")}, bytes.NewReader(img), classify.ErrInference, http.StatusBadGateway},
		{"short output", &fakeModel{meta: inference.DefaultMetadata(), scores: []float32{1}}, bytes.NewReader(img), classify.ErrOutputShape, http.StatusBadGateway},
		{"nan scores", &fakeModel{meta: inference.DefaultMetadata(), scores: nanScores()}, bytes.NewReader(img), classify.ErrInference, http.StatusBadGateway},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := newSystem(tt.model).Classify(context.Background(), tt.input)
			if !errors.Is(err, tt.want) {
				t.Fatalf("error = %v, want %v", err, tt.want)
			}
			if got := classify.MapHTTPStatus(err); got != tt.wantStatus {
				t.Errorf("MapHTTPStatus() = %d, want %d", got, tt.wantStatus)
			}
			if classify.UserMessage(err) == "" {
				t.Error("UserMessage() empty")
			}
		})
	}
}
