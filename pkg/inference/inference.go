// Package inference runs a pre-trained image classifier through ONNX Runtime.
package inference

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	ort "github.com/yalue/onnxruntime_go"
	"golang.org/x/sync/semaphore"
)

// Model produces class scores for a preprocessed input tensor.
type Model interface {
	// Predict runs one inference. input must have Metadata().InputSize() elements.
	// The returned slice is owned by the caller.
	Predict(ctx context.Context, input []float32) ([]float32, error)
	Metadata() Metadata
	Close() error
}

type onnx struct {
	session *ort.AdvancedSession
	input   *ort.Tensor[float32]
	output  *ort.Tensor[float32]
	meta    Metadata
	logger  *slog.Logger

	// the session is bound to a single pair of tensors
	sem       *semaphore.Weighted
	closed    atomic.Bool
	closeOnce sync.Once
}

// New initializes the ONNX Runtime environment and loads the model described
// by cfg. The returned Model must be closed to release native resources.
func New(cfg *Config, logger *slog.Logger) (Model, error) {
	logger = logger.With("system", "inference")

	meta, err := LoadMetadata(cfg.MetadataPath)
	if err != nil {
		return nil, err
	}

	if cfg.RuntimeLibrary != "" {
		ort.SetSharedLibraryPath(cfg.RuntimeLibrary)
	}
	if err := ort.InitializeEnvironment(); err != nil {
		return nil, fmt.Errorf("initialize onnx environment: %w", err)
	}

	input, err := ort.NewEmptyTensor[float32](ort.NewShape(meta.InputShape...))
	if err != nil {
		ort.DestroyEnvironment()
		return nil, fmt.Errorf("create input tensor: %w", err)
	}

	output, err := ort.NewEmptyTensor[float32](ort.NewShape(meta.OutputShape...))
	if err != nil {
		input.Destroy()
		ort.DestroyEnvironment()
		return nil, fmt.Errorf("create output tensor: %w", err)
	}

	session, err := ort.NewAdvancedSession(cfg.Path,
		[]string{meta.InputName}, []string{meta.OutputName},
		[]ort.ArbitraryTensor{input}, []ort.ArbitraryTensor{output},
		nil)
	if err != nil {
		input.Destroy()
		output.Destroy()
		ort.DestroyEnvironment()
		return nil, fmt.Errorf("create onnx session: %w", err)
	}

	logger.Info("model loaded",
		"path", cfg.Path,
		"input_shape", meta.InputShape,
		"output_shape", meta.OutputShape,
		"layout", meta.Layout,
	)

	return &onnx{
		session: session,
		input:   input,
		output:  output,
		meta:    meta,
		logger:  logger,
		sem:     semaphore.NewWeighted(1),
	}, nil
}

func (m *onnx) Metadata() Metadata {
	return m.meta
}

func (m *onnx) Predict(ctx context.Context, input []float32) ([]float32, error) {
	if len(input) != m.meta.InputSize() {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrInputSize, len(input), m.meta.InputSize())
	}

	if err := m.sem.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	defer m.sem.Release(1)

	if m.closed.Load() {
		return nil, ErrNotInitialized
	}

	start := time.Now()
	copy(m.input.GetData(), input)

	if err := m.session.Run(); err != nil {
		return nil, fmt.Errorf("run session: %w", err)
	}

	scores := make([]float32, len(m.output.GetData()))
	copy(scores, m.output.GetData())

	m.logger.Debug("inference complete", "duration", time.Since(start))
	return scores, nil
}

// Close waits for an in-flight Predict, then releases the session, tensors,
// and runtime environment.
func (m *onnx) Close() error {
	var err error
	m.closeOnce.Do(func() {
		if acqErr := m.sem.Acquire(context.Background(), 1); acqErr != nil {
			err = acqErr
			return
		}
		defer m.sem.Release(1)

		m.closed.Store(true)
		if e := m.session.Destroy(); e != nil {
			err = fmt.Errorf("destroy session: %w", e)
		}
		m.input.Destroy()
		m.output.Destroy()
		if e := ort.DestroyEnvironment(); e != nil && err == nil {
			err = fmt.Errorf("destroy environment: %w", e)
		}
		m.logger.Info("model closed")
	})
	return err
}
