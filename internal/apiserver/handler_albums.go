package apiserver

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/parishweb/parishadmin/internal/domain"
)

const maxTitleLen = 200

type albumRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// validateAlbum returns per-field messages, empty when the request is fine.
func validateAlbum(req albumRequest) map[string]string {
	fields := map[string]string{}
	if strings.TrimSpace(req.Title) == "" {
		fields["title"] = "title is required"
	} else if len(req.Title) > maxTitleLen {
		fields["title"] = "title is too long"
	}
	if len(fields) == 0 {
		return nil
	}
	return fields
}

func (s *Server) handleListAlbums(w http.ResponseWriter, r *http.Request) {
	albums, err := s.albums.List(r.Context())
	if err != nil {
		s.internalError(w, "list albums failed", err)
		return
	}

	out := make([]domain.Album, 0, len(albums))
	for _, album := range albums {
		composed, err := s.composeAlbum(r, album)
		if err != nil {
			s.internalError(w, "compose album failed", err, "album_id", album.ID)
			return
		}
		out = append(out, composed)
	}
	s.writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCreateAlbum(w http.ResponseWriter, r *http.Request) {
	var req albumRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	if fields := validateAlbum(req); fields != nil {
		s.writeError(w, http.StatusUnprocessableEntity, "invalid album", fields)
		return
	}

	album, err := s.albums.Create(r.Context(), strings.TrimSpace(req.Title), req.Description)
	if err != nil {
		s.internalError(w, "create album failed", err)
		return
	}

	album.Images = []domain.Image{}
	s.writeJSON(w, http.StatusCreated, album)
}

func (s *Server) handleUpdateAlbum(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var req albumRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	if fields := validateAlbum(req); fields != nil {
		s.writeError(w, http.StatusUnprocessableEntity, "invalid album", fields)
		return
	}

	err := s.albums.Update(r.Context(), id, strings.TrimSpace(req.Title), req.Description)
	if errors.Is(err, sql.ErrNoRows) {
		s.writeError(w, http.StatusNotFound, "album not found", nil)
		return
	}
	if err != nil {
		s.internalError(w, "update album failed", err, "album_id", id)
		return
	}

	album, err := s.albums.GetByID(r.Context(), id)
	if err != nil || album == nil {
		s.internalError(w, "reload album failed", err, "album_id", id)
		return
	}
	composed, err := s.composeAlbum(r, album)
	if err != nil {
		s.internalError(w, "compose album failed", err, "album_id", id)
		return
	}
	s.writeJSON(w, http.StatusOK, composed)
}

func (s *Server) handleDeleteAlbum(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	album, err := s.albums.GetByID(r.Context(), id)
	if err != nil {
		s.internalError(w, "get album failed", err, "album_id", id)
		return
	}
	if album == nil {
		s.writeError(w, http.StatusNotFound, "album not found", nil)
		return
	}

	// Image rows go first so a crash mid-delete leaves no rows pointing at a
	// missing album. Blob removal failures are logged, not surfaced: the
	// album is already gone from the client's point of view.
	keys, err := s.images.DeleteByAlbumID(r.Context(), id)
	if err != nil {
		s.internalError(w, "delete album images failed", err, "album_id", id)
		return
	}
	if err := s.albums.Delete(r.Context(), id); err != nil && !errors.Is(err, sql.ErrNoRows) {
		s.internalError(w, "delete album failed", err, "album_id", id)
		return
	}
	for _, key := range keys {
		if err := s.blobs.Delete(r.Context(), key); err != nil {
			s.logger.Error("failed to delete blob", "storage_key", key, "error", err)
		}
	}

	w.WriteHeader(http.StatusNoContent)
}

// composeAlbum fills in the album's image list with binary content inlined
// from the blob store.
func (s *Server) composeAlbum(r *http.Request, album *domain.Album) (domain.Album, error) {
	recs, err := s.images.ListByAlbumID(r.Context(), album.ID)
	if err != nil {
		return domain.Album{}, err
	}

	out := *album
	out.Images = make([]domain.Image, 0, len(recs))
	for _, rec := range recs {
		img, err := s.loadImage(r, rec)
		if err != nil {
			return domain.Album{}, err
		}
		out.Images = append(out.Images, img)
	}
	return out, nil
}
