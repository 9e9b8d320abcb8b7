package uploads

import (
	"net/url"
	"strconv"

	"github.com/JaimeStill/signpost/pkg/query"
	"github.com/JaimeStill/signpost/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "uploads", "u").
	Project("id", "ID").
	Project("storage_key", "StorageKey").
	Project("filename", "Filename").
	Project("content_type", "ContentType").
	Project("size_bytes", "SizeBytes").
	Project("class_index", "ClassIndex").
	Project("label", "Label").
	Project("confidence", "Confidence").
	Project("created_at", "CreatedAt")

var defaultSort = query.SortField{
	Field:      "CreatedAt",
	Descending: true,
}

// Filters narrows a registry listing. Nil fields are ignored. ClassIndex
// matches exactly; Filename matches case-insensitively anywhere in the name.
type Filters struct {
	ClassIndex *int    `json:"class_index,omitempty"`
	Filename   *string `json:"filename,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	return b.
		WhereEquals("ClassIndex", f.ClassIndex).
		WhereContains("Filename", f.Filename)
}

// FiltersFromQuery extracts filter values from URL query parameters.
// A class_index that is not an integer is ignored.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters

	if v := values.Get("class_index"); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			f.ClassIndex = &i
		}
	}

	if v := values.Get("filename"); v != "" {
		f.Filename = &v
	}

	return f
}

func scanUpload(s repository.Scanner) (Upload, error) {
	var u Upload
	err := s.Scan(
		&u.ID,
		&u.StorageKey,
		&u.Filename,
		&u.ContentType,
		&u.SizeBytes,
		&u.ClassIndex,
		&u.Label,
		&u.Confidence,
		&u.CreatedAt,
	)
	if err != nil {
		return u, err
	}
	u.URL = urlFor(u.StorageKey)
	return u, nil
}

var sortable = map[string]string{
	"created_at": "CreatedAt",
	"filename":   "Filename",
	"label":      "Label",
	"confidence": "Confidence",
	"size_bytes": "SizeBytes",
}

// sortFields translates API column names to projected view names,
// dropping unknown fields.
func sortFields(fields []query.SortField) []query.SortField {
	out := make([]query.SortField, 0, len(fields))
	for _, f := range fields {
		if view, ok := sortable[f.Field]; ok {
			out = append(out, query.SortField{Field: view, Descending: f.Descending})
		}
	}
	return out
}
