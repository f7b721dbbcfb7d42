// Package gateway defines the remote API contract the admin console depends
// on, the error taxonomy for failed calls, and an HTTP client implementing
// the contract. Everything crossing this boundary is normalized into domain
// values; no other package talks to the network.
package gateway

import (
	"context"

	"github.com/parishweb/parishadmin/internal/domain"
)

// ImagePart is one file of an upload payload: raw bytes, detected content
// type, and per-file metadata. Parts are index-aligned with the files the
// user selected; the server assigns ids on return.
type ImagePart struct {
	Data     []byte
	MimeType string
	Title    string
	Caption  string
}

// Gateway is the operation set the sync controller drives. Implementations
// must either complete an operation on the server or return a classified
// error; partial results are never surfaced.
type Gateway interface {
	ListAlbums(ctx context.Context) ([]domain.Album, error)
	CreateAlbum(ctx context.Context, title, description string) (domain.Album, error)
	UpdateAlbum(ctx context.Context, id, title, description string) (domain.Album, error)
	DeleteAlbum(ctx context.Context, id string) error

	// UploadImages returns the album with its complete, updated image list,
	// not just the delta.
	UploadImages(ctx context.Context, albumID string, parts []ImagePart) (domain.Album, error)
	DeleteImage(ctx context.Context, albumID, imageID string) error
	UpdateImage(ctx context.Context, imageID, caption string) (domain.Image, error)
}
