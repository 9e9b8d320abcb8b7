package classify

import (
	"errors"
	"net/http"
)

var (
	// ErrNoImage indicates no image was supplied.
	ErrNoImage = errors.New("no image provided")
	// ErrImageDecode indicates the upload is not a supported image.
	ErrImageDecode = errors.New("image could not be decoded")
	// ErrInference indicates the model failed to run.
	ErrInference = errors.New("inference failed")
	// ErrOutputShape indicates the model returned an unexpected number of scores.
	ErrOutputShape = errors.New("unexpected model output shape")
)

// MapHTTPStatus maps classification errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrNoImage), errors.Is(err, ErrImageDecode):
		return http.StatusBadRequest
	case errors.Is(err, ErrInference), errors.Is(err, ErrOutputShape):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// UserMessage returns a message suitable for showing on the page.
func UserMessage(err error) string {
	switch {
	case errors.Is(err, ErrNoImage):
		return "Please select an image."
	case errors.Is(err, ErrImageDecode):
		return "The uploaded file is not a supported image."
	default:
		return "Classification is unavailable right now."
	}
}
