package web

import (
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/evcraddock/campsite-finder/internal/form"
)

const (
	formCookieName = "cf_form"
	formTTL        = time.Hour
)

// formKey identifies one visitor's comment form on one campsite.
type formKey struct {
	session    string
	campsiteID int64
}

type formEntry struct {
	form form.Form
	seen time.Time
}

// formStore keeps open comment forms between requests. Closed forms are not
// stored; a missing entry is the zero (closed) form.
type formStore struct {
	mu      sync.Mutex
	entries map[formKey]formEntry
	now     func() time.Time
}

func newFormStore() *formStore {
	return &formStore{
		entries: make(map[formKey]formEntry),
		now:     time.Now,
	}
}

// get returns the stored form, or a closed form when none is stored or it expired.
func (s *formStore) get(key formKey) form.Form {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[key]
	if !ok || s.now().Sub(e.seen) > formTTL {
		delete(s.entries, key)
		return form.Form{}
	}
	return e.form
}

// put saves f for key. Closed forms remove the entry.
func (s *formStore) put(key formKey, f form.Form) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.pruneLocked()
	if !f.IsOpen() {
		delete(s.entries, key)
		return
	}
	s.entries[key] = formEntry{form: f, seen: s.now()}
}

func (s *formStore) pruneLocked() {
	now := s.now()
	for k, e := range s.entries {
		if now.Sub(e.seen) > formTTL {
			delete(s.entries, k)
		}
	}
}

// formSession returns the visitor's form session ID, issuing a cookie on first use.
func formSession(w http.ResponseWriter, r *http.Request) string {
	if c, err := r.Cookie(formCookieName); err == nil {
		if _, err := uuid.Parse(c.Value); err == nil {
			return c.Value
		}
	}

	id := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     formCookieName,
		Value:    id,
		Path:     "/",
		MaxAge:   int(formTTL.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	// Later reads in this request see the same ID.
	r.AddCookie(&http.Cookie{Name: formCookieName, Value: id})
	return id
}
