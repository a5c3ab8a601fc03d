package imagestore

import (
	"context"
	"errors"
	"io"
)

// ErrNotFound is returned when a storage key has no image behind it.
var ErrNotFound = errors.New("image not found")

// ImageStore persists uploaded images so the detector can read them by path.
type ImageStore interface {
	// Save writes r under a key derived from fileID and the sanitized filename.
	Save(ctx context.Context, fileID, filename string, r io.Reader) (storageKey string, err error)
	// Path resolves a storage key to a local file path.
	Path(storageKey string) (string, error)
	Delete(ctx context.Context, storageKey string) error
}
