package web

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/evcraddock/campsite-finder/internal/campsite"
	"github.com/evcraddock/campsite-finder/internal/comment"
	"github.com/evcraddock/campsite-finder/internal/form"
	"github.com/evcraddock/campsite-finder/internal/view"
)

type pageData struct {
	Title     string
	Campsites []*campsite.Campsite
	Detail    view.Detail
	DetailURL string
}

// handleHome sends visitors to the directory.
func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/directory", http.StatusSeeOther)
}

// handleDirectory renders the campsite list page.
func (s *Server) handleDirectory(w http.ResponseWriter, r *http.Request) {
	opts := campsite.ListOptions{FeaturedOnly: r.URL.Query().Get("featured") == "true"}
	campsites, err := s.campsites.List(opts)
	if err != nil {
		http.Error(w, fmt.Sprintf("Error loading campsites: %v", err), http.StatusInternalServerError)
		return
	}

	s.render(w, http.StatusOK, "list.html", pageData{Title: "Directory", Campsites: campsites})
}

// handleCampsitePage renders the page shell in its loading state; htmx then
// fetches the detail partial.
func (s *Server) handleCampsitePage(w http.ResponseWriter, r *http.Request) {
	id, err := parseCampsiteID(r)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	s.render(w, http.StatusOK, "detail.html", pageData{
		Title:     "Campsite",
		Detail:    view.Render(view.Props{IsLoading: true}),
		DetailURL: detailURL(id),
	})
}

// handleDetail renders the campsite detail, as a partial for htmx or a full page otherwise.
func (s *Server) handleDetail(w http.ResponseWriter, r *http.Request) {
	id, err := parseCampsiteID(r)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	props, status := s.loadProps(id)
	props.Form = s.forms.get(s.formKey(w, r, id))
	s.writeDetail(w, r, status, id, props)
}

// loadProps fetches a campsite and its comments. A missing campsite yields
// empty props; storage failures are reported through ErrMess.
func (s *Server) loadProps(id int64) (view.Props, int) {
	c, err := s.campsites.GetByID(id)
	if errors.Is(err, campsite.ErrNotFound) {
		return view.Props{}, http.StatusNotFound
	}
	if err != nil {
		slog.Error("loading campsite", "id", id, "error", err)
		return view.Props{ErrMess: fmt.Sprintf("Error loading campsite: %v", err)}, http.StatusInternalServerError
	}

	comments, err := s.comments.ListByCampsiteID(id)
	if err != nil {
		slog.Error("loading comments", "id", id, "error", err)
		return view.Props{ErrMess: fmt.Sprintf("Error loading comments: %v", err)}, http.StatusInternalServerError
	}
	if comments == nil {
		comments = []*comment.Comment{}
	}

	return view.Props{Campsite: c, Comments: comments, AddComment: s.comments}, http.StatusOK
}

func (s *Server) writeDetail(w http.ResponseWriter, r *http.Request, status int, id int64, props view.Props) {
	data := pageData{Title: "Campsite", Detail: view.Render(props), DetailURL: detailURL(id)}
	if props.Campsite != nil {
		data.Title = props.Campsite.Name
	}

	if isHTMX(r) {
		s.renderPartial(w, "detail-partial", data)
		return
	}
	s.render(w, status, "detail.html", data)
}

// formKey returns the form store key for this visitor and campsite.
func (s *Server) formKey(w http.ResponseWriter, r *http.Request, id int64) formKey {
	return formKey{session: formSession(w, r), campsiteID: id}
}

// requireCampsite loads the campsite named in the path, writing an error
// response and returning nil when it can't.
func (s *Server) requireCampsite(w http.ResponseWriter, r *http.Request) *campsite.Campsite {
	id, err := parseCampsiteID(r)
	if err != nil {
		http.NotFound(w, r)
		return nil
	}

	c, err := s.campsites.GetByID(id)
	if errors.Is(err, campsite.ErrNotFound) {
		http.NotFound(w, r)
		return nil
	}
	if err != nil {
		http.Error(w, fmt.Sprintf("Error loading campsite: %v", err), http.StatusInternalServerError)
		return nil
	}
	return c
}

// handleCommentOpen shows the comment modal with an empty draft.
func (s *Server) handleCommentOpen(w http.ResponseWriter, r *http.Request) {
	s.updateForm(w, r, func(f form.Form) form.Form { return f.Open() })
}

// handleCommentCancel hides the comment modal and discards the draft.
func (s *Server) handleCommentCancel(w http.ResponseWriter, r *http.Request) {
	s.updateForm(w, r, func(f form.Form) form.Form { return f.Close() })
}

// handleCommentValidate records one field edit and re-renders the form so the
// field's message appears once it has been touched.
func (s *Server) handleCommentValidate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad request", http.StatusBadRequest)
		return
	}

	name := r.Header.Get("HX-Trigger-Name")
	if name == "" {
		name = r.FormValue("field")
	}
	field, ok := form.ParseField(name)
	if !ok {
		http.Error(w, fmt.Sprintf("Unknown field %q", name), http.StatusBadRequest)
		return
	}

	value := r.FormValue(string(field))
	s.updateForm(w, r, func(f form.Form) form.Form { return f.Change(field, value) })
}

// updateForm applies a transition to the visitor's form and responds with the
// form partial (htmx) or a redirect back to the detail page.
func (s *Server) updateForm(w http.ResponseWriter, r *http.Request, transition func(form.Form) form.Form) {
	c := s.requireCampsite(w, r)
	if c == nil {
		return
	}

	key := s.formKey(w, r, c.ID)
	f := transition(s.forms.get(key))
	s.forms.put(key, f)

	if isHTMX(r) {
		d := view.Render(view.Props{Campsite: c, AddComment: s.comments, Form: f})
		s.renderPartial(w, "comment-form-partial", d.CommentForm)
		return
	}

	http.Redirect(w, r, detailURL(c.ID), http.StatusSeeOther)
}

// handleCommentPost submits the comment form.
func (s *Server) handleCommentPost(w http.ResponseWriter, r *http.Request) {
	c := s.requireCampsite(w, r)
	if c == nil {
		return
	}

	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad request", http.StatusBadRequest)
		return
	}

	key := s.formKey(w, r, c.ID)
	f := s.forms.get(key).Open()
	for _, field := range form.Fields {
		f = f.Change(field, r.FormValue(string(field)))
	}

	if f.Valid() && !s.limiter.allow(clientIP(r)) {
		http.Error(w, "Too many comments, please wait a moment", http.StatusTooManyRequests)
		return
	}

	f, submitted, err := f.Submit(c.ID, s.comments)
	s.forms.put(key, f)

	if !submitted {
		if isHTMX(r) {
			w.Header().Set("HX-Retarget", "#comment-form")
			w.Header().Set("HX-Reswap", "outerHTML")
			d := view.Render(view.Props{Campsite: c, AddComment: s.comments, Form: f})
			s.renderPartial(w, "comment-form-partial", d.CommentForm)
			return
		}
		props, status := s.loadProps(c.ID)
		if status == http.StatusOK {
			status = http.StatusUnprocessableEntity
		}
		props.Form = f
		s.writeDetail(w, r, status, c.ID, props)
		return
	}

	if err != nil {
		slog.Error("adding comment", "campsite_id", c.ID, "error", err)
		http.Error(w, fmt.Sprintf("Error adding comment: %v", err), http.StatusInternalServerError)
		return
	}
	slog.Info("comment added", "campsite_id", c.ID)

	if isHTMX(r) {
		props, status := s.loadProps(c.ID)
		s.writeDetail(w, r, status, c.ID, props)
		return
	}

	http.Redirect(w, r, detailURL(c.ID), http.StatusSeeOther)
}
