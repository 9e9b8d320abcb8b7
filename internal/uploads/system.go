package uploads

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/signpost/internal/classify"
	"github.com/JaimeStill/signpost/pkg/lifecycle"
	"github.com/JaimeStill/signpost/pkg/pagination"
	"github.com/JaimeStill/signpost/pkg/query"
	"github.com/JaimeStill/signpost/pkg/repository"
	"github.com/JaimeStill/signpost/pkg/storage"
)

// System defines the upload store operations.
type System interface {
	Handler() *Handler

	// Store writes the file to object storage under a generated key.
	Store(ctx context.Context, cmd StoreCommand) (*Upload, error)
	// Record registers the upload and its classification. result may be nil.
	// It is a no-op when the registry is disabled.
	Record(ctx context.Context, upload *Upload, result *classify.Result) error
	// List pages through registered uploads, newest first.
	List(ctx context.Context, page pagination.PageRequest, filters Filters) (*pagination.PageResult[Upload], error)
	// Find returns the registered upload with id.
	Find(ctx context.Context, id uuid.UUID) (*Upload, error)
	// Open streams a stored image. The caller must close the reader.
	Open(ctx context.Context, key string) (io.ReadCloser, string, error)
	// Prune removes stored images last modified before cutoff and their
	// registry rows, returning how many objects were removed.
	Prune(ctx context.Context, cutoff time.Time) (int, error)
	// Start schedules the retention janitor when retention is configured.
	Start(lc *lifecycle.Coordinator) error
}

type repo struct {
	db         *sql.DB
	storage    storage.System
	cfg        *Config
	pagination pagination.Config
	logger     *slog.Logger
}

// New creates the upload store. db may be nil, which disables the registry.
func New(
	db *sql.DB,
	store storage.System,
	cfg *Config,
	pagination pagination.Config,
	logger *slog.Logger,
) System {
	return &repo{
		db:         db,
		storage:    store,
		cfg:        cfg,
		pagination: pagination,
		logger:     logger.With("system", "uploads"),
	}
}

func (r *repo) Handler() *Handler {
	return NewHandler(r, r.logger, r.pagination)
}

func (r *repo) Store(ctx context.Context, cmd StoreCommand) (*Upload, error) {
	if len(cmd.Data) == 0 {
		return nil, ErrEmptyFile
	}

	id := uuid.New()
	filename := baseFilename(cmd.Filename)
	sniffed := http.DetectContentType(cmd.Data)
	ext := imageExt(filename, sniffed)
	key := r.storageKey(id, filename, ext)
	contentType := detectContentType(cmd.ContentType, sniffed, ext)

	if err := r.storage.Upload(ctx, key, bytes.NewReader(cmd.Data), contentType); err != nil {
		return nil, fmt.Errorf("store upload: %w", err)
	}

	r.logger.Info("upload stored", "key", key, "filename", filename, "size", len(cmd.Data))

	return &Upload{
		ID:          id,
		StorageKey:  key,
		Filename:    filename,
		ContentType: contentType,
		SizeBytes:   int64(len(cmd.Data)),
		URL:         urlFor(key),
		CreatedAt:   time.Now().UTC(),
	}, nil
}

func (r *repo) Record(ctx context.Context, upload *Upload, result *classify.Result) error {
	if r.db == nil {
		return nil
	}

	if result != nil {
		index := result.ClassIndex
		label := result.Label
		confidence := float64(result.Confidence)
		upload.ClassIndex = &index
		upload.Label = &label
		upload.Confidence = &confidence
	}

	q := `
		INSERT INTO uploads(id, storage_key, filename, content_type, size_bytes, class_index, label, confidence)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at`

	err := r.db.QueryRowContext(ctx, q,
		upload.ID,
		upload.StorageKey,
		upload.Filename,
		upload.ContentType,
		upload.SizeBytes,
		upload.ClassIndex,
		upload.Label,
		upload.Confidence,
	).Scan(&upload.CreatedAt)
	if err != nil {
		return repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("upload recorded", "id", upload.ID, "key", upload.StorageKey)
	return nil
}

func (r *repo) List(ctx context.Context, page pagination.PageRequest, filters Filters) (*pagination.PageResult[Upload], error) {
	if r.db == nil {
		return nil, ErrRegistryDisabled
	}

	page.Normalize(r.pagination)

	qb := filters.
		Apply(query.NewBuilder(projection, defaultSort).WhereSearch(page.Search, "Filename", "Label")).
		OrderByFields(sortFields(page.Sort))

	countSQL, countArgs := qb.BuildCount()
	total, err := repository.Count(ctx, r.db, countSQL, countArgs)
	if err != nil {
		return nil, fmt.Errorf("count uploads: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	items, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanUpload)
	if err != nil {
		return nil, fmt.Errorf("query uploads: %w", err)
	}

	result := pagination.NewPageResult(items, total, page.Page, page.PageSize)
	return &result, nil
}

func (r *repo) Find(ctx context.Context, id uuid.UUID) (*Upload, error) {
	if r.db == nil {
		return nil, ErrRegistryDisabled
	}

	q, args := query.NewBuilder(projection).BuildSingle("ID", id)

	u, err := repository.QueryOne(ctx, r.db, q, args, scanUpload)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &u, nil
}

func (r *repo) Open(ctx context.Context, key string) (io.ReadCloser, string, error) {
	contentType, ok := imageTypes[strings.ToLower(path.Ext(key))]
	if !ok {
		return nil, "", fmt.Errorf("%w: %s", ErrNotFound, key)
	}

	rc, err := r.storage.Download(ctx, key)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) ||
			errors.Is(err, storage.ErrInvalidKey) ||
			errors.Is(err, storage.ErrEmptyKey) {
			return nil, "", fmt.Errorf("%w: %s", ErrNotFound, key)
		}
		return nil, "", fmt.Errorf("open upload: %w", err)
	}

	return rc, contentType, nil
}

func (r *repo) Prune(ctx context.Context, cutoff time.Time) (int, error) {
	objects, err := r.storage.List(ctx, "")
	if err != nil {
		return 0, fmt.Errorf("list uploads: %w", err)
	}

	removed := 0
	for _, obj := range objects {
		if !obj.ModTime.Before(cutoff) {
			continue
		}

		if err := r.storage.Delete(ctx, obj.Key); err != nil && !errors.Is(err, storage.ErrNotFound) {
			r.logger.Warn("prune delete failed", "key", obj.Key, "error", err)
			continue
		}
		removed++

		if r.db != nil {
			err := repository.ExecExpectOne(ctx, r.db, "DELETE FROM uploads WHERE storage_key = $1", obj.Key)
			if err := repository.MapError(err, ErrNotFound, ErrDuplicate); err != nil && !errors.Is(err, ErrNotFound) {
				r.logger.Warn("prune registry delete failed", "key", obj.Key, "error", err)
			}
		}
	}

	if removed > 0 {
		r.logger.Info("uploads pruned", "removed", removed, "cutoff", cutoff)
	}
	return removed, nil
}

func (r *repo) Start(lc *lifecycle.Coordinator) error {
	retention := r.cfg.RetentionDuration()
	if retention <= 0 {
		return nil
	}

	interval := r.cfg.PruneIntervalDuration()
	r.logger.Info("starting upload janitor", "retention", retention, "interval", interval)

	lc.Every(interval, func(ctx context.Context) {
		if _, err := r.Prune(ctx, time.Now().Add(-retention)); err != nil {
			r.logger.Error("upload prune failed", "error", err)
		}
	})
	return nil
}

// imageTypes lists the extensions that upload keys may carry and the
// content type each is served with. Keys with any other extension are
// never served.
var imageTypes = map[string]string{
	".bmp":  "image/bmp",
	".gif":  "image/gif",
	".jpeg": "image/jpeg",
	".jpg":  "image/jpeg",
	".png":  "image/png",
	".tif":  "image/tiff",
	".tiff": "image/tiff",
	".webp": "image/webp",
}

// sniffedExts maps sniffed image content types to a key extension.
var sniffedExts = map[string]string{
	"image/bmp":  ".bmp",
	"image/gif":  ".gif",
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

// storageKey derives the object key. Keys only ever end in an image
// extension, or in none at all.
func (r *repo) storageKey(id uuid.UUID, filename, ext string) string {
	if r.cfg.PreserveFilenames {
		stem := strings.TrimSuffix(filename, filepath.Ext(filename))
		if stem == "" {
			stem = "upload"
		}
		return stem + ext
	}
	return id.String() + ext
}

func baseFilename(name string) string {
	name = filepath.Base(strings.ReplaceAll(name, `\`, "/"))
	if name == "." || name == ".." || name == "/" || name == "" {
		return "upload"
	}
	return name
}

// imageExt keeps the client's extension when it names an image format and
// otherwise falls back to the sniffed format.
func imageExt(filename, sniffed string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	if _, ok := imageTypes[ext]; ok {
		return ext
	}
	return sniffedExts[sniffed]
}

func detectContentType(header, sniffed, ext string) string {
	if strings.HasPrefix(sniffed, "image/") {
		return sniffed
	}
	if t, ok := imageTypes[ext]; ok {
		return t
	}
	if header = strings.TrimSpace(header); header != "" {
		return header
	}
	return sniffed
}

func urlFor(key string) string {
	return URLPrefix + url.PathEscape(key)
}
