// Package syncer orchestrates gateway calls against the entity store. Every
// gallery mutation is confirmed-write: the server call happens first and the
// store is touched only after it succeeds, so the store never reflects a
// state the server has not at least initiated. A failed call always leaves
// the store in its pre-call state.
package syncer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/parishweb/parishadmin/internal/caption"
	"github.com/parishweb/parishadmin/internal/domain"
	"github.com/parishweb/parishadmin/internal/gateway"
	"github.com/parishweb/parishadmin/internal/store"
	"github.com/parishweb/parishadmin/internal/upload"
)

// ErrAborted is returned when the user declines a delete confirmation.
// Nothing has been sent to the server and nothing has changed locally.
var ErrAborted = errors.New("syncer: operation aborted by user")

// ConfirmFunc gates destructive operations. It may block (modal dialog,
// terminal prompt); returning false aborts the operation.
type ConfirmFunc func(prompt string) bool

// Controller is the only component allowed to call the gateway. Its mutex
// serializes operations, so each one is atomic from the store's perspective;
// preventing re-entrant triggers (double-clicked buttons) remains the UI
// layer's job.
type Controller struct {
	mu        sync.Mutex
	store     *store.Store
	gw        gateway.Gateway
	confirm   ConfirmFunc
	notify    Notifier
	suggester caption.Suggester
	logger    *slog.Logger
}

// NewController wires the controller. confirm may be nil (every confirmation
// passes), notify may be nil (notifications discarded), suggester may be nil
// (captions are left as typed).
func NewController(
	st *store.Store,
	gw gateway.Gateway,
	confirm ConfirmFunc,
	notify Notifier,
	suggester caption.Suggester,
	logger *slog.Logger,
) *Controller {
	if confirm == nil {
		confirm = func(string) bool { return true }
	}
	if notify == nil {
		notify = NopNotifier{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Controller{
		store:     st,
		gw:        gw,
		confirm:   confirm,
		notify:    notify,
		suggester: suggester,
		logger:    logger,
	}
}

// Store exposes the session store for projections. Callers must treat
// everything it returns as a read-only snapshot.
func (c *Controller) Store() *store.Store {
	return c.store
}

// Refresh bulk-loads the full album list from the server.
func (c *Controller) Refresh(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	albums, err := c.gw.ListAlbums(ctx)
	if err != nil {
		return c.fail("refresh albums", err)
	}
	c.store.ReplaceAll(albums)
	c.logger.Debug("album list refreshed", "count", len(albums))
	return nil
}

// CreateAlbum validates locally, creates on the server, then inserts the
// server-returned entity at the head of the list.
func (c *Controller) CreateAlbum(ctx context.Context, title, description string) (a domain.Album, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if strings.TrimSpace(title) == "" {
		return a, c.fail("create album", &gateway.ValidationError{Msg: "album title must not be empty"})
	}

	album, err := c.gw.CreateAlbum(ctx, title, description)
	if err != nil {
		return a, c.fail("create album", err)
	}
	if err := c.store.InsertAlbum(album); err != nil {
		return a, c.fault("create album", err)
	}
	c.notify.Success(fmt.Sprintf("album %q created", album.Title))
	return album, nil
}

// UpdateAlbum updates title/description on the server and applies the
// server's returned representation, not the submitted values.
func (c *Controller) UpdateAlbum(ctx context.Context, id, title, description string) (a domain.Album, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if strings.TrimSpace(title) == "" {
		return a, c.fail("update album", &gateway.ValidationError{Msg: "album title must not be empty"})
	}

	album, err := c.gw.UpdateAlbum(ctx, id, title, description)
	if err != nil {
		return a, c.fail("update album", err)
	}
	if err := c.store.UpdateAlbum(id, store.AlbumPatch{Title: &album.Title, Description: &album.Description}); err != nil {
		return a, c.fault("update album", err)
	}
	c.notify.Success(fmt.Sprintf("album %q updated", album.Title))
	return album, nil
}

// DeleteAlbum asks for confirmation, deletes on the server, then removes the
// album and its images from the store. If the deleted album was the active
// one, the store clears the selection in the same transition.
func (c *Controller) DeleteAlbum(ctx context.Context, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.confirm("Delete this album and all of its images?") {
		return ErrAborted
	}

	if err := c.gw.DeleteAlbum(ctx, id); err != nil {
		return c.fail("delete album", err)
	}
	if err := c.store.RemoveAlbum(id); err != nil {
		return c.fault("delete album", err)
	}
	c.notify.Success("album deleted")
	return nil
}

// UploadImages builds the multipart payload, optionally fills empty captions
// from the caption suggester, uploads, and replaces the album's image
// sequence with the complete authoritative list the server returns. Total
// replacement avoids ever merging local entries with server-assigned ones.
func (c *Controller) UploadImages(ctx context.Context, albumID string, files []upload.File, meta upload.Metadata) (a domain.Album, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	parts, err := upload.BuildParts(files, meta)
	if err != nil {
		return a, c.fail("upload images", err)
	}
	parts = upload.SuggestCaptions(ctx, c.suggester, parts, c.logger)

	album, err := c.gw.UploadImages(ctx, albumID, parts)
	if err != nil {
		return a, c.fail("upload images", err)
	}
	if err := c.store.SetAlbumImages(albumID, album.Images); err != nil {
		return a, c.fault("upload images", err)
	}
	c.notify.Success(fmt.Sprintf("%d image(s) uploaded", len(parts)))
	return album, nil
}

// DeleteImage asks for confirmation, deletes on the server, then removes the
// image locally.
func (c *Controller) DeleteImage(ctx context.Context, albumID, imageID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.confirm("Delete this image?") {
		return ErrAborted
	}

	if err := c.gw.DeleteImage(ctx, albumID, imageID); err != nil {
		return c.fail("delete image", err)
	}
	if err := c.store.RemoveImage(albumID, imageID); err != nil {
		return c.fault("delete image", err)
	}
	c.notify.Success("image deleted")
	return nil
}

// UpdateImageCaption updates one image's caption and applies the server's
// returned representation, guarding against server-side normalization
// differing from what was typed.
func (c *Controller) UpdateImageCaption(ctx context.Context, albumID, imageID, captionText string) (i domain.Image, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	img, err := c.gw.UpdateImage(ctx, imageID, captionText)
	if err != nil {
		return i, c.fail("update caption", err)
	}
	patch := store.ImagePatch{Title: &img.Title, Caption: &img.Caption, Binary: &img.Binary}
	if err := c.store.UpdateImage(albumID, imageID, patch); err != nil {
		return i, c.fault("update caption", err)
	}
	c.notify.Success("caption updated")
	return img, nil
}

// OpenAlbum marks an album as the active detail selection. Local only.
func (c *Controller) OpenAlbum(id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.store.SetActive(id)
}

// CloseAlbum clears the active selection. Local only.
func (c *Controller) CloseAlbum() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.store.ClearActive()
}

// fail classifies a user-facing failure: notify, log, pass through.
func (c *Controller) fail(op string, err error) error {
	c.notify.Failure(gateway.UserMessage(err))
	c.logger.Error(op+" failed", "error", err)
	return err
}

// fault reports a store contract violation after a successful server call.
// These are internal faults, never shown to the user as such.
func (c *Controller) fault(op string, err error) error {
	c.logger.Error(op+": store fault after confirmed server call", "error", err)
	return fmt.Errorf("%s: %w", op, err)
}
