package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strings"

	"github.com/parishweb/parishadmin/internal/domain"
)

// Client talks JSON to the content-management REST API. It is the single
// normalization point: every response is decoded through one path and every
// failure is classified before it leaves this package.
type Client struct {
	baseURL string
	client  *http.Client
	logger  *slog.Logger
}

// NewClient wraps baseURL (scheme://host[:port], no trailing slash needed).
// httpClient may be nil, in which case http.DefaultClient settings apply.
func NewClient(baseURL string, httpClient *http.Client, logger *slog.Logger) *Client {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  httpClient,
		logger:  logger,
	}
}

func (c *Client) ListAlbums(ctx context.Context) ([]domain.Album, error) {
	var albums []domain.Album
	if err := c.doJSON(ctx, http.MethodGet, "/api/albums", nil, &albums); err != nil {
		return nil, err
	}
	for i := range albums {
		albums[i] = normalizeAlbum(albums[i])
	}
	return albums, nil
}

func (c *Client) CreateAlbum(ctx context.Context, title, description string) (domain.Album, error) {
	body := map[string]string{"title": title, "description": description}
	var album domain.Album
	if err := c.doJSON(ctx, http.MethodPost, "/api/albums", body, &album); err != nil {
		return domain.Album{}, err
	}
	return normalizeAlbum(album), nil
}

func (c *Client) UpdateAlbum(ctx context.Context, id, title, description string) (domain.Album, error) {
	body := map[string]string{"title": title, "description": description}
	var album domain.Album
	if err := c.doJSON(ctx, http.MethodPut, "/api/albums/"+url.PathEscape(id), body, &album); err != nil {
		return domain.Album{}, err
	}
	return normalizeAlbum(album), nil
}

func (c *Client) DeleteAlbum(ctx context.Context, id string) error {
	return c.doJSON(ctx, http.MethodDelete, "/api/albums/"+url.PathEscape(id), nil, nil)
}

func (c *Client) UploadImages(ctx context.Context, albumID string, parts []ImagePart) (domain.Album, error) {
	path := "/api/albums/" + url.PathEscape(albumID) + "/images"

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for i, part := range parts {
		fw, err := createFilePart(mw, fmt.Sprintf("upload-%d", i), part.MimeType)
		if err != nil {
			return domain.Album{}, fmt.Errorf("build upload payload: %w", err)
		}
		if _, err := fw.Write(part.Data); err != nil {
			return domain.Album{}, fmt.Errorf("build upload payload: %w", err)
		}
		if err := mw.WriteField("titles", part.Title); err != nil {
			return domain.Album{}, fmt.Errorf("build upload payload: %w", err)
		}
		if err := mw.WriteField("captions", part.Caption); err != nil {
			return domain.Album{}, fmt.Errorf("build upload payload: %w", err)
		}
	}
	if err := mw.Close(); err != nil {
		return domain.Album{}, fmt.Errorf("build upload payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, &buf)
	if err != nil {
		return domain.Album{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	var album domain.Album
	if err := c.send(req, "POST "+path, &album); err != nil {
		return domain.Album{}, err
	}
	return normalizeAlbum(album), nil
}

func (c *Client) DeleteImage(ctx context.Context, albumID, imageID string) error {
	path := "/api/albums/" + url.PathEscape(albumID) + "/images/" + url.PathEscape(imageID)
	return c.doJSON(ctx, http.MethodDelete, path, nil, nil)
}

func (c *Client) UpdateImage(ctx context.Context, imageID, caption string) (domain.Image, error) {
	body := map[string]string{"caption": caption}
	var img domain.Image
	if err := c.doJSON(ctx, http.MethodPut, "/api/images/"+url.PathEscape(imageID), body, &img); err != nil {
		return domain.Image{}, err
	}
	return img, nil
}

// doJSON issues one request with an optional JSON body and decodes the
// response into out when out is non-nil.
func (c *Client) doJSON(ctx context.Context, method, path string, body, out any) error {
	var payload io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		payload = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, payload)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return c.send(req, method+" "+path, out)
}

// send executes the request and classifies the outcome: transport failures
// become NetworkError, non-2xx statuses become ServerError.
func (c *Client) send(req *http.Request, op string, out any) error {
	resp, err := c.client.Do(req)
	if err != nil {
		return &NetworkError{Op: op, Err: err}
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			c.logger.Error("failed to close response body", "op", op, "error", err)
		}
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeServerError(resp)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &NetworkError{Op: op, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}

// errorEnvelope is the wire shape of every failure response.
type errorEnvelope struct {
	Error struct {
		Message string            `json:"message"`
		Fields  map[string]string `json:"fields"`
	} `json:"error"`
}

func decodeServerError(resp *http.Response) error {
	serr := &ServerError{Status: resp.StatusCode, Message: "request failed"}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
	if err != nil {
		return serr
	}
	var envelope errorEnvelope
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Error.Message != "" {
		serr.Message = envelope.Error.Message
		serr.Fields = envelope.Error.Fields
	}
	return serr
}

// createFilePart adds a file part carrying its own content type, which
// multipart.Writer.CreateFormFile cannot set.
func createFilePart(mw *multipart.Writer, filename, mimeType string) (io.Writer, error) {
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="files"; filename="%s"`, filename))
	h.Set("Content-Type", mimeType)
	return mw.CreatePart(h)
}

// normalizeAlbum pins every image to its owning album and guarantees a
// non-nil image slice, so downstream code only ever sees one shape.
func normalizeAlbum(a domain.Album) domain.Album {
	if a.Images == nil {
		a.Images = []domain.Image{}
	}
	for i := range a.Images {
		a.Images[i].AlbumID = a.ID
	}
	return a
}
