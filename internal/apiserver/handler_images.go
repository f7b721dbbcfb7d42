package apiserver

import (
	"bytes"
	"database/sql"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/parishweb/parishadmin/internal/domain"
	"github.com/parishweb/parishadmin/internal/sqlstore"
	"github.com/parishweb/parishadmin/internal/upload"
)

const maxUploadSize = 50 * 1024 * 1024 // 50 MB

// handleUploadImages accepts a multipart form with one or more "files" parts
// plus parallel "titles" and "captions" fields, appends the images to the
// album, and responds with the album's complete image list.
func (s *Server) handleUploadImages(w http.ResponseWriter, r *http.Request) {
	albumID := r.PathValue("id")

	album, err := s.albums.GetByID(r.Context(), albumID)
	if err != nil {
		s.internalError(w, "get album failed", err, "album_id", albumID)
		return
	}
	if album == nil {
		s.writeError(w, http.StatusNotFound, "album not found", nil)
		return
	}

	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		s.writeError(w, http.StatusBadRequest, "failed to parse form", nil)
		return
	}

	files := r.MultipartForm.File["files"]
	if len(files) == 0 {
		s.writeError(w, http.StatusUnprocessableEntity, "at least one image file is required", nil)
		return
	}
	titles := r.MultipartForm.Value["titles"]
	captions := r.MultipartForm.Value["captions"]

	for i, fh := range files {
		f, err := fh.Open()
		if err != nil {
			s.internalError(w, "open upload part failed", err, "album_id", albumID)
			return
		}

		data, err := io.ReadAll(f)
		closeWithLog(f, "upload part", s.logger)
		if err != nil {
			s.internalError(w, "read upload part failed", err, "album_id", albumID)
			return
		}

		mimeType, ok := upload.DetectMIME(data)
		if !ok {
			s.writeError(w, http.StatusUnprocessableEntity,
				fmt.Sprintf("%s: unsupported image format", fh.Filename), nil)
			return
		}

		key, err := s.blobs.Save(r.Context(), "album_"+albumID, mimeType, bytes.NewReader(data))
		if err != nil {
			s.internalError(w, "save blob failed", err, "album_id", albumID)
			return
		}
		if _, err := s.images.Create(r.Context(), albumID, key, mimeType, indexed(titles, i), indexed(captions, i)); err != nil {
			if derr := s.blobs.Delete(r.Context(), key); derr != nil {
				s.logger.Error("failed to delete orphaned blob", "storage_key", key, "error", derr)
			}
			s.internalError(w, "create image failed", err, "album_id", albumID)
			return
		}
	}

	composed, err := s.composeAlbum(r, album)
	if err != nil {
		s.internalError(w, "compose album failed", err, "album_id", albumID)
		return
	}
	s.writeJSON(w, http.StatusCreated, composed)
}

func (s *Server) handleDeleteImage(w http.ResponseWriter, r *http.Request) {
	albumID := r.PathValue("albumID")
	imageID := r.PathValue("imageID")

	rec, err := s.images.GetByID(r.Context(), imageID)
	if err != nil {
		s.internalError(w, "get image failed", err, "image_id", imageID)
		return
	}
	if rec == nil || rec.AlbumID != albumID {
		s.writeError(w, http.StatusNotFound, "image not found", nil)
		return
	}

	if err := s.images.Delete(r.Context(), imageID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			s.writeError(w, http.StatusNotFound, "image not found", nil)
			return
		}
		s.internalError(w, "delete image failed", err, "image_id", imageID)
		return
	}
	if err := s.blobs.Delete(r.Context(), rec.StorageKey); err != nil {
		s.logger.Error("failed to delete blob", "storage_key", rec.StorageKey, "error", err)
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleUpdateImage(w http.ResponseWriter, r *http.Request) {
	imageID := r.PathValue("id")

	var req struct {
		Caption string `json:"caption"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}

	if err := s.images.UpdateCaption(r.Context(), imageID, req.Caption); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			s.writeError(w, http.StatusNotFound, "image not found", nil)
			return
		}
		s.internalError(w, "update image failed", err, "image_id", imageID)
		return
	}

	rec, err := s.images.GetByID(r.Context(), imageID)
	if err != nil || rec == nil {
		s.internalError(w, "reload image failed", err, "image_id", imageID)
		return
	}
	img, err := s.loadImage(r, rec)
	if err != nil {
		s.internalError(w, "load image failed", err, "image_id", imageID)
		return
	}
	s.writeJSON(w, http.StatusOK, img)
}

// loadImage turns an image row into its API representation with the binary
// content inlined as base64.
func (s *Server) loadImage(r *http.Request, rec *sqlstore.ImageRec) (domain.Image, error) {
	reader, mimeType, err := s.blobs.Get(r.Context(), rec.StorageKey)
	if err != nil {
		return domain.Image{}, fmt.Errorf("get blob %s: %w", rec.StorageKey, err)
	}
	data, err := io.ReadAll(reader)
	closeWithLog(reader, "blob reader", s.logger)
	if err != nil {
		return domain.Image{}, fmt.Errorf("read blob %s: %w", rec.StorageKey, err)
	}

	return domain.Image{
		ID:      rec.ID,
		AlbumID: rec.AlbumID,
		Title:   rec.Title,
		Caption: rec.Caption,
		Binary: domain.BinaryRef{
			Data:     base64.StdEncoding.EncodeToString(data),
			MimeType: mimeType,
		},
	}, nil
}

// indexed returns vals[i] or "" when the form carried fewer values than files.
func indexed(vals []string, i int) string {
	if i < len(vals) {
		return vals[i]
	}
	return ""
}

// closeWithLog closes c and logs any error, using label to identify the resource.
func closeWithLog(c io.Closer, label string, logger *slog.Logger) {
	if err := c.Close(); err != nil {
		logger.Error("failed to close resource", "label", label, "error", err)
	}
}
