package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/evcraddock/campsite-finder/internal/campsite"
	"github.com/evcraddock/campsite-finder/internal/comment"
	"github.com/evcraddock/campsite-finder/internal/form"
)

// apiError writes a JSON error response.
func apiError(w http.ResponseWriter, msg string, code int) {
	apiJSON(w, map[string]string{"error": msg}, code)
}

// apiJSON writes a JSON response with the given status code.
func apiJSON(w http.ResponseWriter, data interface{}, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Warn("encoding JSON response", "error", err)
	}
}

// validationResponse is returned when a submitted comment fails the form rules.
type validationResponse struct {
	Error  string                `json:"error"`
	Fields map[form.Field]string `json:"fields"`
}

// commentRequest is the POST body for adding a comment. Rating accepts a JSON
// number or a string; either way it goes through the form rules as text.
type commentRequest struct {
	Rating json.RawMessage `json:"rating"`
	Author string          `json:"author"`
	Text   string          `json:"text"`
}

// rating returns the raw rating as form input.
func (req commentRequest) rating() string {
	if len(req.Rating) == 0 || string(req.Rating) == "null" {
		return ""
	}
	var s string
	if err := json.Unmarshal(req.Rating, &s); err == nil {
		return s
	}
	return string(req.Rating)
}

// apiListCampsites returns all campsites as JSON.
func (s *Server) apiListCampsites(w http.ResponseWriter, r *http.Request) {
	opts := campsite.ListOptions{FeaturedOnly: r.URL.Query().Get("featured") == "true"}
	campsites, err := s.campsites.List(opts)
	if err != nil {
		apiError(w, fmt.Sprintf("listing campsites: %v", err), http.StatusInternalServerError)
		return
	}
	if campsites == nil {
		campsites = []*campsite.Campsite{}
	}
	apiJSON(w, campsites, http.StatusOK)
}

// apiGetCampsite returns one campsite with its comments.
func (s *Server) apiGetCampsite(w http.ResponseWriter, r *http.Request) {
	c, ok := s.apiCampsite(w, r)
	if !ok {
		return
	}

	comments, err := s.comments.ListByCampsiteID(c.ID)
	if err != nil {
		apiError(w, fmt.Sprintf("listing comments: %v", err), http.StatusInternalServerError)
		return
	}
	c.Comments = comments
	if c.Comments == nil {
		c.Comments = []*comment.Comment{}
	}

	apiJSON(w, c, http.StatusOK)
}

// apiListComments returns a campsite's comments in the order they were added.
func (s *Server) apiListComments(w http.ResponseWriter, r *http.Request) {
	c, ok := s.apiCampsite(w, r)
	if !ok {
		return
	}

	comments, err := s.comments.ListByCampsiteID(c.ID)
	if err != nil {
		apiError(w, fmt.Sprintf("listing comments: %v", err), http.StatusInternalServerError)
		return
	}
	if comments == nil {
		comments = []*comment.Comment{}
	}
	apiJSON(w, comments, http.StatusOK)
}

// apiAddComment runs the posted values through the comment form and stores the result.
func (s *Server) apiAddComment(w http.ResponseWriter, r *http.Request) {
	c, ok := s.apiCampsite(w, r)
	if !ok {
		return
	}

	var req commentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apiError(w, "invalid JSON body", http.StatusBadRequest)
		return
	}

	f := form.Form{}.Open().
		Change(form.FieldRating, req.rating()).
		Change(form.FieldAuthor, req.Author).
		Change(form.FieldText, req.Text)

	if f.Valid() && !s.limiter.allow(clientIP(r)) {
		apiError(w, "too many comments, please wait a moment", http.StatusTooManyRequests)
		return
	}

	var created *comment.Comment
	app := form.AppenderFunc(func(cmd form.AppendComment) error {
		var err error
		created, err = s.comments.Add(comment.NewComment{
			CampsiteID: cmd.CampsiteID,
			Rating:     cmd.Rating,
			Author:     cmd.Author,
			Text:       cmd.Text,
		})
		return err
	})

	f, submitted, err := f.Submit(c.ID, app)
	if !submitted {
		apiJSON(w, validationResponse{Error: "validation failed", Fields: f.VisibleErrors()}, http.StatusUnprocessableEntity)
		return
	}
	if err != nil {
		apiError(w, fmt.Sprintf("adding comment: %v", err), http.StatusInternalServerError)
		return
	}

	apiJSON(w, created, http.StatusCreated)
}

// apiCampsite loads the campsite named in the path, writing a JSON error when it can't.
func (s *Server) apiCampsite(w http.ResponseWriter, r *http.Request) (*campsite.Campsite, bool) {
	id, err := parseCampsiteID(r)
	if err != nil {
		apiError(w, "invalid campsite ID", http.StatusBadRequest)
		return nil, false
	}

	c, err := s.campsites.GetByID(id)
	if errors.Is(err, campsite.ErrNotFound) {
		apiError(w, err.Error(), http.StatusNotFound)
		return nil, false
	}
	if err != nil {
		apiError(w, fmt.Sprintf("loading campsite: %v", err), http.StatusInternalServerError)
		return nil, false
	}
	return c, true
}
