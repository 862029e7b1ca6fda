package media

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"path"
	"time"

	"github.com/showcase-api/internal/domain"
)

// keyPrefix is the object-store namespace for uploaded media. The same
// prefix is the public URL path the files are served back under.
const keyPrefix = "uploads/"

// ObjectStore is the storage surface the service needs.
type ObjectStore interface {
	Upload(ctx context.Context, key string, r io.Reader, contentType string) error
	Download(ctx context.Context, key string) (io.ReadCloser, string, error)
}

type Service interface {
	// Store persists one uploaded file and returns the generated filename.
	Store(ctx context.Context, file multipart.File, header *multipart.FileHeader) (string, error)
	// Open streams back a previously stored file by its generated filename.
	Open(ctx context.Context, filename string) (io.ReadCloser, string, error)
}

type service struct {
	store ObjectStore
	// now is swappable in tests.
	now func() time.Time
}

func NewService(store ObjectStore) Service {
	return &service{store: store, now: time.Now}
}

// Store writes the upload under "<unix-millis>-<original-name>". The
// millisecond prefix keeps near-simultaneous uploads of identically named
// files from colliding. Files are never cleaned up when the records that
// reference them go away.
func (s *service) Store(ctx context.Context, file multipart.File, header *multipart.FileHeader) (string, error) {
	filename := fmt.Sprintf("%d-%s", s.now().UnixMilli(), path.Base(header.Filename))
	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	if err := s.store.Upload(ctx, keyPrefix+filename, file, contentType); err != nil {
		return "", fmt.Errorf("store upload: %v: %w", err, domain.ErrStore)
	}
	return filename, nil
}

func (s *service) Open(ctx context.Context, filename string) (io.ReadCloser, string, error) {
	// path.Base strips any traversal components from caller-supplied names.
	rc, contentType, err := s.store.Download(ctx, keyPrefix+path.Base(filename))
	if err != nil {
		return nil, "", fmt.Errorf("open %s: %w", filename, domain.ErrNotFound)
	}
	return rc, contentType, nil
}
