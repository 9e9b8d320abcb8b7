package inference

import "errors"

var (
	// ErrInputSize indicates the input vector does not match the model input shape.
	ErrInputSize = errors.New("input size does not match model input shape")
	// ErrNotInitialized indicates Predict was called on a closed model.
	ErrNotInitialized = errors.New("model not initialized")
)
