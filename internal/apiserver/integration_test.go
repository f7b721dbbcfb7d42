package apiserver

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parishweb/parishadmin/internal/gateway"
	"github.com/parishweb/parishadmin/internal/store"
	"github.com/parishweb/parishadmin/internal/syncer"
	"github.com/parishweb/parishadmin/internal/upload"
	"github.com/parishweb/parishadmin/internal/view"
)

// These tests run the whole stack: the console controller drives the real
// HTTP client against an in-process server backed by sqlite and a temp-dir
// blob store.

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newIntegrationController(t *testing.T) *syncer.Controller {
	t.Helper()
	ts := newTestServer(t)
	client := gateway.NewClient(ts.URL, nil, discardLogger())
	return syncer.NewController(store.New(), client, nil, nil, nil, discardLogger())
}

func TestGalleryLifecycleOverHTTP(t *testing.T) {
	c := newIntegrationController(t)
	ctx := context.Background()

	require.NoError(t, c.Refresh(ctx))
	assert.Empty(t, view.AlbumSummaries(c.Store()))

	album, err := c.CreateAlbum(ctx, "Lent 2026", "Photos from the season")
	require.NoError(t, err)
	require.NotEmpty(t, album.ID)
	assert.Empty(t, album.Images)

	uploaded, err := c.UploadImages(ctx, album.ID, []upload.File{
		{Name: "procession.jpg", Data: minimalJPEG, Title: "Procession"},
		{Name: "choir.jpg", Data: minimalJPEG, Title: "Choir", Caption: "Evening rehearsal"},
	}, upload.Metadata{Caption: "Lent 2026"})
	require.NoError(t, err)
	require.Len(t, uploaded.Images, 2)

	assert.Equal(t, "Procession", uploaded.Images[0].Title)
	assert.Equal(t, "Lent 2026", uploaded.Images[0].Caption)
	assert.Equal(t, "Evening rehearsal", uploaded.Images[1].Caption)
	for _, img := range uploaded.Images {
		assert.Equal(t, album.ID, img.AlbumID)
		assert.Equal(t, "image/jpeg", img.Binary.MimeType)
		assert.NotEmpty(t, img.Binary.Data)
	}

	require.NoError(t, c.OpenAlbum(album.ID))
	detail, err := view.ActiveAlbumDetail(c.Store(), c.Store().ActiveID())
	require.NoError(t, err)
	assert.Len(t, detail.Images, 2)

	img, err := c.UpdateImageCaption(ctx, album.ID, uploaded.Images[0].ID, "Palm Sunday procession")
	require.NoError(t, err)
	assert.Equal(t, "Palm Sunday procession", img.Caption)

	require.NoError(t, c.DeleteImage(ctx, album.ID, uploaded.Images[1].ID))
	detail, err = view.ActiveAlbumDetail(c.Store(), c.Store().ActiveID())
	require.NoError(t, err)
	require.Len(t, detail.Images, 1)
	assert.Equal(t, uploaded.Images[0].ID, detail.Images[0].ID)

	require.NoError(t, c.DeleteAlbum(ctx, album.ID))
	assert.Empty(t, c.Store().ActiveID())
	assert.Empty(t, view.AlbumSummaries(c.Store()))

	// A fresh console sees the same empty state.
	require.NoError(t, c.Refresh(ctx))
	assert.Empty(t, view.AlbumSummaries(c.Store()))
}

func TestRefreshPicksUpExistingAlbums(t *testing.T) {
	ts := newTestServer(t)
	client := gateway.NewClient(ts.URL, nil, discardLogger())
	ctx := context.Background()

	seed := syncer.NewController(store.New(), client, nil, nil, nil, discardLogger())
	_, err := seed.CreateAlbum(ctx, "Parish picnic", "")
	require.NoError(t, err)
	_, err = seed.CreateAlbum(ctx, "Confirmation", "")
	require.NoError(t, err)

	fresh := syncer.NewController(store.New(), client, nil, nil, nil, discardLogger())
	require.NoError(t, fresh.Refresh(ctx))

	summaries := view.AlbumSummaries(fresh.Store())
	require.Len(t, summaries, 2)
	assert.Equal(t, "Confirmation", summaries[0].Title)
	assert.Equal(t, "Parish picnic", summaries[1].Title)
}

func TestServerRejectionIsClassified(t *testing.T) {
	ts := newTestServer(t)
	client := gateway.NewClient(ts.URL, nil, discardLogger())

	_, err := client.CreateAlbum(context.Background(), "  ", "")
	require.Error(t, err)

	var serr *gateway.ServerError
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, http.StatusUnprocessableEntity, serr.Status)
	assert.Equal(t, "title is required", serr.Fields["title"])
}

func TestUnreachableServerIsNetworkError(t *testing.T) {
	ts := newTestServer(t)
	url := ts.URL
	ts.Close()

	client := gateway.NewClient(url, nil, discardLogger())
	_, err := client.ListAlbums(context.Background())
	require.Error(t, err)

	var nerr *gateway.NetworkError
	assert.ErrorAs(t, err, &nerr)
}
