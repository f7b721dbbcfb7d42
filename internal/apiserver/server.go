// Package apiserver implements the content-management REST API consumed by
// the admin console. Every failure response carries one JSON envelope shape
// so clients have a single decode path.
package apiserver

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/parishweb/parishadmin/internal/blobstore"
	"github.com/parishweb/parishadmin/internal/sqlstore"
)

type Server struct {
	albums        *sqlstore.AlbumStore
	images        *sqlstore.ImageStore
	announcements *sqlstore.ContentStore
	news          *sqlstore.ContentStore
	events        *sqlstore.ContentStore
	blobs         blobstore.BlobStore
	mux           *http.ServeMux
	logger        *slog.Logger
}

type Stores struct {
	Albums        *sqlstore.AlbumStore
	Images        *sqlstore.ImageStore
	Announcements *sqlstore.ContentStore
	News          *sqlstore.ContentStore
	Events        *sqlstore.ContentStore
}

func NewServer(st Stores, blobs blobstore.BlobStore, logger *slog.Logger) *Server {
	s := &Server{
		albums:        st.Albums,
		images:        st.Images,
		announcements: st.Announcements,
		news:          st.News,
		events:        st.Events,
		blobs:         blobs,
		mux:           http.NewServeMux(),
		logger:        logger,
	}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.mux.HandleFunc("GET /api/albums", s.handleListAlbums)
	s.mux.HandleFunc("POST /api/albums", s.handleCreateAlbum)
	s.mux.HandleFunc("PUT /api/albums/{id}", s.handleUpdateAlbum)
	s.mux.HandleFunc("DELETE /api/albums/{id}", s.handleDeleteAlbum)
	s.mux.HandleFunc("POST /api/albums/{id}/images", s.handleUploadImages)
	s.mux.HandleFunc("DELETE /api/albums/{albumID}/images/{imageID}", s.handleDeleteImage)
	s.mux.HandleFunc("PUT /api/images/{id}", s.handleUpdateImage)

	s.registerContent("announcements", s.announcements)
	s.registerContent("news", s.news)
	s.registerContent("events", s.events)
}

// securityHeaders adds defensive HTTP response headers to every response.
func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		next.ServeHTTP(w, r)
	})
}

// statusRecorder wraps http.ResponseWriter to capture the written status code.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func requestLogger(logger *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	requestLogger(s.logger, securityHeaders(s.mux)).ServeHTTP(w, r)
}

func (s *Server) ListenAndServe(addr string) error {
	s.logger.Info("starting server", "addr", addr)
	srv := &http.Server{
		Addr:         addr,
		Handler:      s,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
	return srv.ListenAndServe()
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("failed to write response", "error", err)
	}
}

// errorBody is the wire shape of every failure response.
type errorBody struct {
	Error struct {
		Message string            `json:"message"`
		Fields  map[string]string `json:"fields,omitempty"`
	} `json:"error"`
}

func (s *Server) writeError(w http.ResponseWriter, status int, message string, fields map[string]string) {
	var body errorBody
	body.Error.Message = message
	body.Error.Fields = fields
	s.writeJSON(w, status, body)
}

func (s *Server) internalError(w http.ResponseWriter, label string, err error, attrs ...any) {
	s.logger.Error(label, append(attrs, "error", err)...)
	s.writeError(w, http.StatusInternalServerError, "internal server error", nil)
}
