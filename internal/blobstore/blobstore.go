// Package blobstore stores the raw bytes of uploaded images on the server
// side, keyed by an opaque storage key recorded on the image row.
package blobstore

import (
	"context"
	"io"
)

type BlobStore interface {
	Save(ctx context.Context, prefix, mimeType string, r io.Reader) (storageKey string, err error)
	Get(ctx context.Context, storageKey string) (io.ReadCloser, string, error)
	Delete(ctx context.Context, storageKey string) error
}
