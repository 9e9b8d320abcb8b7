package uploads

import (
	"errors"
	"net/http"
)

var (
	ErrEmptyFile        = errors.New("uploaded file is empty")
	ErrNotFound         = errors.New("upload not found")
	ErrRegistryDisabled = errors.New("upload registry is disabled")
	ErrDuplicate        = errors.New("upload already recorded")
	ErrInvalidID        = errors.New("invalid upload id")
)

// MapHTTPStatus maps upload errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrEmptyFile), errors.Is(err, ErrInvalidID):
		return http.StatusBadRequest
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrRegistryDisabled):
		return http.StatusNotFound
	case errors.Is(err, ErrDuplicate):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
