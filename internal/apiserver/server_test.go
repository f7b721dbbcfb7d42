package apiserver

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parishweb/parishadmin/internal/blobstore/local"
	"github.com/parishweb/parishadmin/internal/db"
	"github.com/parishweb/parishadmin/internal/sqlstore"
)

var minimalJPEG = func() []byte {
	b := make([]byte, 512)
	b[0] = 0xFF
	b[1] = 0xD8
	b[2] = 0xFF
	return b
}()

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	d, err := db.OpenForTesting()
	require.NoError(t, err)
	t.Cleanup(func() { assert.NoError(t, d.Close()) })

	blobs, err := local.NewLocalBlobStore(t.TempDir())
	require.NoError(t, err)

	srv := NewServer(Stores{
		Albums:        sqlstore.NewAlbumStore(d),
		Images:        sqlstore.NewImageStore(d),
		Announcements: sqlstore.NewAnnouncementStore(d),
		News:          sqlstore.NewNewsStore(d),
		Events:        sqlstore.NewEventStore(d),
	}, blobs, slog.New(slog.NewTextHandler(io.Discard, nil)))

	ts := httptest.NewServer(srv)
	t.Cleanup(ts.Close)
	return ts
}

func doReq(t *testing.T, method, url string, body any) *http.Response {
	t.Helper()

	var payload io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		payload = bytes.NewReader(b)
	}
	req, err := http.NewRequest(method, url, payload)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { assert.NoError(t, resp.Body.Close()) })
	return resp
}

func decodeBody[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func TestCreateAlbumRejectsEmptyTitle(t *testing.T) {
	ts := newTestServer(t)

	resp := doReq(t, http.MethodPost, ts.URL+"/api/albums", map[string]string{"title": "   "})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	body := decodeBody[errorBody](t, resp)
	assert.Equal(t, "invalid album", body.Error.Message)
	assert.Equal(t, "title is required", body.Error.Fields["title"])
}

func TestUpdateMissingAlbumReturnsNotFound(t *testing.T) {
	ts := newTestServer(t)

	resp := doReq(t, http.MethodPut, ts.URL+"/api/albums/nope", map[string]string{"title": "x"})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	body := decodeBody[errorBody](t, resp)
	assert.Equal(t, "album not found", body.Error.Message)
}

func TestUploadRejectsNonImageData(t *testing.T) {
	ts := newTestServer(t)

	resp := doReq(t, http.MethodPost, ts.URL+"/api/albums", map[string]string{"title": "Easter"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	album := decodeBody[map[string]any](t, resp)
	albumID := album["id"].(string)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("files", "notes.txt")
	require.NoError(t, err)
	_, err = fw.Write([]byte("just some text"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req, err := http.NewRequest(http.MethodPost, ts.URL+"/api/albums/"+albumID+"/images", &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	uresp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer uresp.Body.Close()

	assert.Equal(t, http.StatusUnprocessableEntity, uresp.StatusCode)
	body := decodeBody[errorBody](t, uresp)
	assert.Contains(t, body.Error.Message, "notes.txt")
}

func TestDeleteImageChecksAlbumOwnership(t *testing.T) {
	ts := newTestServer(t)

	resp := doReq(t, http.MethodPost, ts.URL+"/api/albums", map[string]string{"title": "A"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	albumA := decodeBody[map[string]any](t, resp)["id"].(string)

	resp = doReq(t, http.MethodPost, ts.URL+"/api/albums", map[string]string{"title": "B"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	albumB := decodeBody[map[string]any](t, resp)["id"].(string)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("files", "photo.jpg")
	require.NoError(t, err)
	_, err = fw.Write(minimalJPEG)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req, err := http.NewRequest(http.MethodPost, ts.URL+"/api/albums/"+albumA+"/images", &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	uresp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer uresp.Body.Close()
	require.Equal(t, http.StatusCreated, uresp.StatusCode)

	uploaded := decodeBody[struct {
		Images []struct {
			ID string `json:"id"`
		} `json:"images"`
	}](t, uresp)
	require.Len(t, uploaded.Images, 1)
	imageID := uploaded.Images[0].ID

	// Deleting through the wrong album must not touch the image.
	dresp := doReq(t, http.MethodDelete,
		fmt.Sprintf("%s/api/albums/%s/images/%s", ts.URL, albumB, imageID), nil)
	assert.Equal(t, http.StatusNotFound, dresp.StatusCode)

	dresp = doReq(t, http.MethodDelete,
		fmt.Sprintf("%s/api/albums/%s/images/%s", ts.URL, albumA, imageID), nil)
	assert.Equal(t, http.StatusNoContent, dresp.StatusCode)
}

func TestSecurityHeadersPresent(t *testing.T) {
	ts := newTestServer(t)

	resp := doReq(t, http.MethodGet, ts.URL+"/api/albums", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "nosniff", resp.Header.Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", resp.Header.Get("X-Frame-Options"))
}

func TestAnnouncementCRUD(t *testing.T) {
	ts := newTestServer(t)

	resp := doReq(t, http.MethodPost, ts.URL+"/api/announcements",
		map[string]string{"title": "Food drive", "body": "Canned goods welcome."})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	created := decodeBody[contentResponse](t, resp)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "Food drive", created.Title)
	assert.Empty(t, created.Location)
	assert.Nil(t, created.StartsAt)

	resp = doReq(t, http.MethodPut, ts.URL+"/api/announcements/"+created.ID,
		map[string]string{"title": "Food drive", "body": "Extended one week."})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	updated := decodeBody[contentResponse](t, resp)
	assert.Equal(t, "Extended one week.", updated.Body)

	resp = doReq(t, http.MethodGet, ts.URL+"/api/announcements", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	list := decodeBody[[]contentResponse](t, resp)
	require.Len(t, list, 1)
	assert.Equal(t, created.ID, list[0].ID)

	resp = doReq(t, http.MethodDelete, ts.URL+"/api/announcements/"+created.ID, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = doReq(t, http.MethodGet, ts.URL+"/api/announcements/"+created.ID, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestEventKeepsScheduleFields(t *testing.T) {
	ts := newTestServer(t)

	resp := doReq(t, http.MethodPost, ts.URL+"/api/events", map[string]any{
		"title":    "Stations of the Cross",
		"body":     "Every Friday in Lent.",
		"location": "Main church",
		"startsAt": "2026-02-20T19:00:00Z",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	created := decodeBody[contentResponse](t, resp)
	assert.Equal(t, "Main church", created.Location)
	require.NotNil(t, created.StartsAt)
	assert.Equal(t, 2026, created.StartsAt.Year())
}
