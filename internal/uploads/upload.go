// Package uploads stores user-submitted sign images and keeps an optional
// registry of what each image was classified as.
package uploads

import (
	"time"

	"github.com/google/uuid"
)

// URLPrefix is the path under which stored images are served.
const URLPrefix = "/uploads/"

// Upload describes a stored image. The classification fields are set only
// when the registry recorded a result for it.
type Upload struct {
	ID          uuid.UUID `json:"id"`
	StorageKey  string    `json:"storage_key"`
	Filename    string    `json:"filename"`
	ContentType string    `json:"content_type"`
	SizeBytes   int64     `json:"size_bytes"`
	URL         string    `json:"url"`
	ClassIndex  *int      `json:"class_index,omitempty"`
	Label       *string   `json:"label,omitempty"`
	Confidence  *float64  `json:"confidence,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// StoreCommand carries a submitted file.
type StoreCommand struct {
	Data        []byte
	Filename    string
	ContentType string
}
