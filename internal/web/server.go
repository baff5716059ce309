// Package web provides the HTTP server and handlers for the campsite web UI and API.
package web

import (
	"bytes"
	"database/sql"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/evcraddock/campsite-finder/internal/campsite"
	"github.com/evcraddock/campsite-finder/internal/comment"
	"github.com/evcraddock/campsite-finder/internal/form"
	"github.com/evcraddock/campsite-finder/internal/logging"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// Server is the web UI HTTP server.
type Server struct {
	campsites *campsite.Repository
	comments  *comment.Repository
	forms     *formStore
	limiter   *ipLimiter
	templates *template.Template
	mux       *http.ServeMux
	handler   http.Handler
}

// NewServer creates a web server with the given database.
func NewServer(db *sql.DB, cfg Config) (*Server, error) {
	funcMap := template.FuncMap{
		"stars":      tmplStars,
		"fieldError": tmplFieldError,
	}

	tmpl, err := template.New("").Funcs(funcMap).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parsing templates: %w", err)
	}

	s := &Server{
		campsites: campsite.NewRepository(db),
		comments:  comment.NewRepository(db),
		forms:     newFormStore(),
		limiter:   newIPLimiter(cfg.CommentRate, cfg.CommentBurst),
		templates: tmpl,
		mux:       http.NewServeMux(),
	}

	staticContent, err := fs.Sub(staticFS, "static")
	if err != nil {
		return nil, fmt.Errorf("creating static sub-fs: %w", err)
	}

	s.mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.FS(staticContent))))
	s.mux.HandleFunc("GET /health", s.handleHealth)
	s.mux.HandleFunc("GET /{$}", s.handleHome)
	s.mux.HandleFunc("GET /directory", s.handleDirectory)

	s.mux.HandleFunc("GET /campsite/{id}", s.handleCampsitePage)
	s.mux.HandleFunc("GET /campsite/{id}/detail", s.handleDetail)
	s.mux.HandleFunc("POST /campsite/{id}/comment/open", s.handleCommentOpen)
	s.mux.HandleFunc("POST /campsite/{id}/comment/cancel", s.handleCommentCancel)
	s.mux.HandleFunc("POST /campsite/{id}/comment/validate", s.handleCommentValidate)
	s.mux.HandleFunc("POST /campsite/{id}/comment", s.handleCommentPost)

	s.mux.HandleFunc("GET /api/campsites", s.apiListCampsites)
	s.mux.HandleFunc("GET /api/campsites/{id}", s.apiGetCampsite)
	s.mux.HandleFunc("GET /api/campsites/{id}/comments", s.apiListComments)
	s.mux.HandleFunc("POST /api/campsites/{id}/comments", s.apiAddComment)

	s.handler = logging.RequestLogger(s.mux)

	return s, nil
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

// ListenAndServe starts the HTTP server.
func (s *Server) ListenAndServe(port int) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}
	slog.Info("starting web UI", "url", fmt.Sprintf("http://localhost:%d", port))
	return srv.ListenAndServe()
}

// handleHealth reports liveness for load balancers.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if _, err := w.Write([]byte(`{"status":"ok"}`)); err != nil {
		slog.Warn("writing health response", "error", err)
	}
}

// render executes a full page template and writes it with the given status.
func (s *Server) render(w http.ResponseWriter, status int, name string, data interface{}) {
	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, name, data); err != nil {
		http.Error(w, fmt.Sprintf("Error rendering template: %v", err), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		slog.Warn("writing response", "template", name, "error", err)
	}
}

// renderPartial executes a named template block (no layout). htmx only swaps
// 2xx responses, so partials are always written with 200.
func (s *Server) renderPartial(w http.ResponseWriter, name string, data interface{}) {
	s.render(w, http.StatusOK, name, data)
}

// isHTMX reports whether the request came from htmx.
func isHTMX(r *http.Request) bool {
	return r.Header.Get("HX-Request") == "true"
}

// parseCampsiteID reads the {id} path value.
func parseCampsiteID(r *http.Request) (int64, error) {
	return strconv.ParseInt(r.PathValue("id"), 10, 64)
}

func detailURL(id int64) string {
	return fmt.Sprintf("/campsite/%d/detail", id)
}

// Template helper functions

func tmplStars(rating int) string {
	if rating < 0 {
		rating = 0
	}
	if rating > 5 {
		rating = 5
	}
	return strings.Repeat("★", rating) + strings.Repeat("☆", 5-rating)
}

func tmplFieldError(errs map[form.Field]string, name string) string {
	return errs[form.Field(name)]
}
