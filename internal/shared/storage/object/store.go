package object

import (
	"context"
	"io"
)

// ObjectStore persists claim photos. The pipeline never reads photo bytes; it
// only hands the resulting URL to model services.
type ObjectStore interface {
	Save(ctx context.Context, userID string, fileName string, r io.Reader) (storageKey string, sizeBytes int64, mimeType string, err error)
	Open(ctx context.Context, storageKey string) (io.ReadCloser, error)
	URL(storageKey string) string
}
