package apiserver

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/parishweb/parishadmin/internal/sqlstore"
)

// contentRequest is the request body shared by the flat content resources.
// Location and StartsAt only apply to events and are ignored elsewhere.
type contentRequest struct {
	Title    string    `json:"title"`
	Body     string    `json:"body"`
	Location string    `json:"location"`
	StartsAt time.Time `json:"startsAt"`
}

// contentResponse is the wire shape of one flat content row. The event-only
// fields are omitted when empty so announcements and news stay lean.
type contentResponse struct {
	ID        string     `json:"id"`
	Title     string     `json:"title"`
	Body      string     `json:"body"`
	Location  string     `json:"location,omitempty"`
	StartsAt  *time.Time `json:"startsAt,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

func toContentResponse(rec *sqlstore.ContentRec) contentResponse {
	resp := contentResponse{
		ID:        rec.ID,
		Title:     rec.Title,
		Body:      rec.Body,
		Location:  rec.Location,
		CreatedAt: rec.CreatedAt,
		UpdatedAt: rec.UpdatedAt,
	}
	if !rec.StartsAt.IsZero() {
		t := rec.StartsAt
		resp.StartsAt = &t
	}
	return resp
}

// registerContent wires the shared CRUD handlers for one flat content
// resource under /api/<name>.
func (s *Server) registerContent(name string, store *sqlstore.ContentStore) {
	base := "/api/" + name
	s.mux.HandleFunc("GET "+base, func(w http.ResponseWriter, r *http.Request) {
		s.handleListContent(w, r, store)
	})
	s.mux.HandleFunc("POST "+base, func(w http.ResponseWriter, r *http.Request) {
		s.handleCreateContent(w, r, store)
	})
	s.mux.HandleFunc("GET "+base+"/{id}", func(w http.ResponseWriter, r *http.Request) {
		s.handleGetContent(w, r, store)
	})
	s.mux.HandleFunc("PUT "+base+"/{id}", func(w http.ResponseWriter, r *http.Request) {
		s.handleUpdateContent(w, r, store)
	})
	s.mux.HandleFunc("DELETE "+base+"/{id}", func(w http.ResponseWriter, r *http.Request) {
		s.handleDeleteContent(w, r, store)
	})
}

func (s *Server) handleListContent(w http.ResponseWriter, r *http.Request, store *sqlstore.ContentStore) {
	recs, err := store.List(r.Context())
	if err != nil {
		s.internalError(w, "list content failed", err)
		return
	}
	out := make([]contentResponse, 0, len(recs))
	for _, rec := range recs {
		out = append(out, toContentResponse(rec))
	}
	s.writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCreateContent(w http.ResponseWriter, r *http.Request, store *sqlstore.ContentStore) {
	var req contentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	if strings.TrimSpace(req.Title) == "" {
		s.writeError(w, http.StatusUnprocessableEntity, "invalid content",
			map[string]string{"title": "title is required"})
		return
	}

	rec, err := store.Create(r.Context(), sqlstore.ContentRec{
		Title:    strings.TrimSpace(req.Title),
		Body:     req.Body,
		Location: req.Location,
		StartsAt: req.StartsAt,
	})
	if err != nil {
		s.internalError(w, "create content failed", err)
		return
	}
	s.writeJSON(w, http.StatusCreated, toContentResponse(rec))
}

func (s *Server) handleGetContent(w http.ResponseWriter, r *http.Request, store *sqlstore.ContentStore) {
	rec, err := store.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		s.internalError(w, "get content failed", err)
		return
	}
	if rec == nil {
		s.writeError(w, http.StatusNotFound, "not found", nil)
		return
	}
	s.writeJSON(w, http.StatusOK, toContentResponse(rec))
}

func (s *Server) handleUpdateContent(w http.ResponseWriter, r *http.Request, store *sqlstore.ContentStore) {
	id := r.PathValue("id")

	var req contentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	if strings.TrimSpace(req.Title) == "" {
		s.writeError(w, http.StatusUnprocessableEntity, "invalid content",
			map[string]string{"title": "title is required"})
		return
	}

	err := store.Update(r.Context(), sqlstore.ContentRec{
		ID:       id,
		Title:    strings.TrimSpace(req.Title),
		Body:     req.Body,
		Location: req.Location,
		StartsAt: req.StartsAt,
	})
	if errors.Is(err, sql.ErrNoRows) {
		s.writeError(w, http.StatusNotFound, "not found", nil)
		return
	}
	if err != nil {
		s.internalError(w, "update content failed", err)
		return
	}

	rec, err := store.GetByID(r.Context(), id)
	if err != nil || rec == nil {
		s.internalError(w, "reload content failed", err)
		return
	}
	s.writeJSON(w, http.StatusOK, toContentResponse(rec))
}

func (s *Server) handleDeleteContent(w http.ResponseWriter, r *http.Request, store *sqlstore.ContentStore) {
	err := store.Delete(r.Context(), r.PathValue("id"))
	if errors.Is(err, sql.ErrNoRows) {
		s.writeError(w, http.StatusNotFound, "not found", nil)
		return
	}
	if err != nil {
		s.internalError(w, "delete content failed", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
