package web

import (
	"database/sql"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"

	"github.com/evcraddock/campsite-finder/internal/campsite"
	"github.com/evcraddock/campsite-finder/internal/comment"
	"github.com/evcraddock/campsite-finder/internal/db"
	"github.com/evcraddock/campsite-finder/internal/form"
)

func testServer(t *testing.T) *Server {
	t.Helper()
	srv, _ := testServerWithDB(t)
	return srv
}

func testServerWithDB(t *testing.T) (*Server, *sql.DB) {
	t.Helper()
	return testServerWithConfig(t, DefaultConfig())
}

func testServerWithConfig(t *testing.T, cfg Config) (*Server, *sql.DB) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	d, err := db.Open(path)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() {
		if cerr := d.Close(); cerr != nil {
			t.Errorf("close db: %v", cerr)
		}
	})

	srv, err := NewServer(d, cfg)
	if err != nil {
		t.Fatalf("new server: %v", err)
	}
	return srv, d
}

func insertTestCampsite(t *testing.T, d *sql.DB, name string) *campsite.Campsite {
	t.Helper()
	c, err := campsite.NewRepository(d).Insert(&campsite.Campsite{
		Name:        name,
		Description: "A quiet spot with **great** views.",
		Image:       "images/react-lake.svg",
		Elevation:   1233,
	})
	if err != nil {
		t.Fatalf("insert campsite: %v", err)
	}
	return c
}

func insertTestComment(t *testing.T, d *sql.DB, campsiteID int64, author, text string) {
	t.Helper()
	_, err := comment.NewRepository(d).Add(comment.NewComment{
		CampsiteID: campsiteID,
		Rating:     4,
		Author:     author,
		Text:       text,
	})
	if err != nil {
		t.Fatalf("insert comment: %v", err)
	}
}

// do sends a request through the server, carrying the form session cookie
// when one is given.
func do(t *testing.T, srv *Server, method, target string, values url.Values, htmx bool, cookie *http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	var r *http.Request
	if values != nil {
		r = httptest.NewRequest(method, target, strings.NewReader(values.Encode()))
		r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		r = httptest.NewRequest(method, target, nil)
	}
	if htmx {
		r.Header.Set("HX-Request", "true")
	}
	if cookie != nil {
		r.AddCookie(cookie)
	}
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, r)
	return w
}

func formCookie(t *testing.T, w *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range w.Result().Cookies() {
		if c.Name == formCookieName {
			return c
		}
	}
	t.Fatal("expected form session cookie")
	return nil
}

func TestHealthEndpoint(t *testing.T) {
	srv := testServer(t)

	w := do(t, srv, "GET", "/health", nil, false, nil)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", w.Code, http.StatusOK)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("content-type = %q, want application/json", ct)
	}
	if !strings.Contains(w.Body.String(), `"status":"ok"`) {
		t.Errorf("body = %q, want status ok", w.Body.String())
	}
}

func TestHomeRedirectsToDirectory(t *testing.T) {
	srv := testServer(t)

	w := do(t, srv, "GET", "/", nil, false, nil)

	if w.Code != http.StatusSeeOther {
		t.Errorf("status = %d, want %d", w.Code, http.StatusSeeOther)
	}
	if loc := w.Header().Get("Location"); loc != "/directory" {
		t.Errorf("location = %q, want /directory", loc)
	}
}

func TestHandleDirectoryEmpty(t *testing.T) {
	srv := testServer(t)

	w := do(t, srv, "GET", "/directory", nil, false, nil)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", w.Code, http.StatusOK)
	}
	if !strings.Contains(w.Body.String(), "No campsites yet") {
		t.Error("expected empty directory message")
	}
}

func TestHandleDirectoryWithCampsites(t *testing.T) {
	srv, d := testServerWithDB(t)
	insertTestCampsite(t, d, "React Lake Campground")
	insertTestCampsite(t, d, "Chrome River Campground")

	w := do(t, srv, "GET", "/directory", nil, false, nil)

	body := w.Body.String()
	if !strings.Contains(body, "React Lake Campground") || !strings.Contains(body, "Chrome River Campground") {
		t.Error("expected both campsite names in directory")
	}
	if !strings.Contains(body, `href="/campsite/1"`) {
		t.Error("expected link to campsite page")
	}
}

func TestCampsitePageStartsLoading(t *testing.T) {
	srv, d := testServerWithDB(t)
	insertTestCampsite(t, d, "React Lake Campground")

	w := do(t, srv, "GET", "/campsite/1", nil, false, nil)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", w.Code, http.StatusOK)
	}
	body := w.Body.String()
	if !strings.Contains(body, "Loading...") {
		t.Error("expected loading indicator")
	}
	if !strings.Contains(body, `hx-get="/campsite/1/detail"`) {
		t.Error("expected lazy load of detail partial")
	}
	if strings.Contains(body, "React Lake Campground") {
		t.Error("loading shell should not render the campsite")
	}
}

func TestHandleDetailFullPage(t *testing.T) {
	srv, d := testServerWithDB(t)
	c := insertTestCampsite(t, d, "React Lake Campground")
	insertTestComment(t, d, c.ID, "Ha Wu", "What a magical place!")

	w := do(t, srv, "GET", "/campsite/1/detail", nil, false, nil)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", w.Code, http.StatusOK)
	}
	body := w.Body.String()
	for _, want := range []string{
		"<html",
		"React Lake Campground",
		"<strong>great</strong>",
		"What a magical place!",
		"Ha Wu -- ",
		"Submit Comment",
		`href="/directory"`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("expected %q in response", want)
		}
	}
	if strings.Contains(body, `role="dialog"`) {
		t.Error("comment modal should start closed")
	}
}

func TestHandleDetailPartial(t *testing.T) {
	srv, d := testServerWithDB(t)
	insertTestCampsite(t, d, "React Lake Campground")

	w := do(t, srv, "GET", "/campsite/1/detail", nil, true, nil)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", w.Code, http.StatusOK)
	}
	body := w.Body.String()
	if strings.Contains(body, "<html") {
		t.Error("partial should not include the layout")
	}
	if !strings.Contains(body, `id="campsite-detail"`) {
		t.Error("expected detail container")
	}
	if !strings.Contains(body, "No comments yet.") {
		t.Error("expected empty comment list")
	}
}

func TestHandleDetailNotFound(t *testing.T) {
	srv := testServer(t)

	w := do(t, srv, "GET", "/campsite/9999/detail", nil, false, nil)

	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", w.Code, http.StatusNotFound)
	}
	if !strings.Contains(w.Body.String(), `<div id="campsite-detail"></div>`) {
		t.Error("expected empty detail container")
	}
}

func TestHandleDetailInvalidID(t *testing.T) {
	srv := testServer(t)

	w := do(t, srv, "GET", "/campsite/abc/detail", nil, false, nil)

	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", w.Code, http.StatusNotFound)
	}
}

func TestCommentOpenAndCancel(t *testing.T) {
	srv, d := testServerWithDB(t)
	insertTestCampsite(t, d, "React Lake Campground")

	w := do(t, srv, "POST", "/campsite/1/comment/open", url.Values{}, true, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("open status = %d, want %d", w.Code, http.StatusOK)
	}
	if !strings.Contains(w.Body.String(), `role="dialog"`) {
		t.Error("expected modal after open")
	}
	if strings.Contains(w.Body.String(), "text-danger") {
		t.Error("freshly opened form should show no errors")
	}
	cookie := formCookie(t, w)

	// The open form survives a reload of the detail.
	w = do(t, srv, "GET", "/campsite/1/detail", nil, true, cookie)
	if !strings.Contains(w.Body.String(), `role="dialog"`) {
		t.Error("expected modal to stay open for the same visitor")
	}

	w = do(t, srv, "POST", "/campsite/1/comment/validate",
		url.Values{"field": {"author"}, "author": {"Bob"}}, true, cookie)
	if !strings.Contains(w.Body.String(), `value="Bob"`) {
		t.Error("expected draft author in form")
	}

	w = do(t, srv, "POST", "/campsite/1/comment/cancel", url.Values{}, true, cookie)
	if strings.Contains(w.Body.String(), `role="dialog"`) {
		t.Error("expected modal closed after cancel")
	}

	w = do(t, srv, "POST", "/campsite/1/comment/open", url.Values{}, true, cookie)
	if strings.Contains(w.Body.String(), "Bob") {
		t.Error("reopened form should have an empty draft")
	}
}

func TestCommentOpenWithoutHTMXRedirects(t *testing.T) {
	srv, d := testServerWithDB(t)
	insertTestCampsite(t, d, "React Lake Campground")

	w := do(t, srv, "POST", "/campsite/1/comment/open", url.Values{}, false, nil)

	if w.Code != http.StatusSeeOther {
		t.Errorf("status = %d, want %d", w.Code, http.StatusSeeOther)
	}
	if loc := w.Header().Get("Location"); loc != "/campsite/1/detail" {
		t.Errorf("location = %q, want /campsite/1/detail", loc)
	}
}

func TestCommentOpenUnknownCampsite(t *testing.T) {
	srv := testServer(t)

	w := do(t, srv, "POST", "/campsite/42/comment/open", url.Values{}, true, nil)

	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", w.Code, http.StatusNotFound)
	}
}

func TestCommentValidateShowsTouchedFieldOnly(t *testing.T) {
	srv, d := testServerWithDB(t)
	insertTestCampsite(t, d, "React Lake Campground")

	w := do(t, srv, "POST", "/campsite/1/comment/open", url.Values{}, true, nil)
	cookie := formCookie(t, w)

	w = do(t, srv, "POST", "/campsite/1/comment/validate",
		url.Values{"field": {"author"}, "author": {"A"}, "rating": {""}}, true, cookie)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}
	body := w.Body.String()
	if !strings.Contains(body, form.MsgAuthorTooShort) {
		t.Errorf("expected %q after author blur", form.MsgAuthorTooShort)
	}
	if strings.Contains(body, form.MsgRatingRequired) {
		t.Error("untouched rating should not show its message")
	}
}

func TestCommentValidateUsesTriggerName(t *testing.T) {
	srv, d := testServerWithDB(t)
	insertTestCampsite(t, d, "React Lake Campground")

	w := do(t, srv, "POST", "/campsite/1/comment/open", url.Values{}, true, nil)
	cookie := formCookie(t, w)

	r := httptest.NewRequest("POST", "/campsite/1/comment/validate",
		strings.NewReader(url.Values{"rating": {""}}.Encode()))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	r.Header.Set("HX-Request", "true")
	r.Header.Set("HX-Trigger-Name", "rating")
	r.AddCookie(cookie)
	w = httptest.NewRecorder()
	srv.ServeHTTP(w, r)

	if !strings.Contains(w.Body.String(), form.MsgRatingRequired) {
		t.Errorf("expected %q after rating blur", form.MsgRatingRequired)
	}
}

func TestCommentValidateUnknownField(t *testing.T) {
	srv, d := testServerWithDB(t)
	insertTestCampsite(t, d, "React Lake Campground")

	w := do(t, srv, "POST", "/campsite/1/comment/validate", url.Values{"field": {"email"}}, true, nil)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}
}

func TestHandleCommentPost(t *testing.T) {
	srv, d := testServerWithDB(t)
	insertTestCampsite(t, d, "React Lake Campground")

	values := url.Values{"rating": {"3"}, "author": {"Al"}, "text": {"Nice spot"}}
	w := do(t, srv, "POST", "/campsite/1/comment", values, false, nil)

	if w.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusSeeOther)
	}
	if loc := w.Header().Get("Location"); loc != "/campsite/1/detail" {
		t.Errorf("location = %q, want /campsite/1/detail", loc)
	}

	comments, err := comment.NewRepository(d).ListByCampsiteID(1)
	if err != nil {
		t.Fatalf("list comments: %v", err)
	}
	if len(comments) != 1 {
		t.Fatalf("got %d comments, want 1", len(comments))
	}
	got := comments[0]
	if got.Rating != 3 || got.Author != "Al" || got.Text != "Nice spot" {
		t.Errorf("comment = %+v, want rating 3 by Al", got)
	}
}

func TestHandleCommentPostHTMX(t *testing.T) {
	srv, d := testServerWithDB(t)
	insertTestCampsite(t, d, "React Lake Campground")

	w := do(t, srv, "POST", "/campsite/1/comment/open", url.Values{}, true, nil)
	cookie := formCookie(t, w)

	values := url.Values{"rating": {"5"}, "author": {"Ha Wu"}, "text": {"Magical"}}
	w = do(t, srv, "POST", "/campsite/1/comment", values, true, cookie)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}
	body := w.Body.String()
	if !strings.Contains(body, "Magical") {
		t.Error("expected new comment in refreshed detail")
	}
	if strings.Contains(body, `role="dialog"`) {
		t.Error("expected modal closed after submit")
	}

	// The draft is discarded.
	w = do(t, srv, "POST", "/campsite/1/comment/open", url.Values{}, true, cookie)
	if strings.Contains(w.Body.String(), "Ha Wu") {
		t.Error("reopened form should not carry the submitted draft")
	}
}

func TestHandleCommentPostInvalid(t *testing.T) {
	srv, d := testServerWithDB(t)
	insertTestCampsite(t, d, "React Lake Campground")

	values := url.Values{"rating": {"3"}, "author": {"A"}, "text": {""}}
	w := do(t, srv, "POST", "/campsite/1/comment", values, false, nil)

	if w.Code != http.StatusUnprocessableEntity {
		t.Errorf("status = %d, want %d", w.Code, http.StatusUnprocessableEntity)
	}
	body := w.Body.String()
	if !strings.Contains(body, form.MsgAuthorTooShort) {
		t.Errorf("expected %q", form.MsgAuthorTooShort)
	}
	if !strings.Contains(body, `role="dialog"`) {
		t.Error("expected modal to stay open")
	}
	if !strings.Contains(body, `value="A"`) {
		t.Error("expected draft author preserved")
	}

	comments, err := comment.NewRepository(d).ListByCampsiteID(1)
	if err != nil {
		t.Fatalf("list comments: %v", err)
	}
	if len(comments) != 0 {
		t.Errorf("got %d comments, want 0", len(comments))
	}
}

func TestHandleCommentPostInvalidHTMXRetargets(t *testing.T) {
	srv, d := testServerWithDB(t)
	insertTestCampsite(t, d, "React Lake Campground")

	values := url.Values{"rating": {""}, "author": {"Al"}, "text": {""}}
	w := do(t, srv, "POST", "/campsite/1/comment", values, true, nil)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", w.Code, http.StatusOK)
	}
	if got := w.Header().Get("HX-Retarget"); got != "#comment-form" {
		t.Errorf("HX-Retarget = %q, want #comment-form", got)
	}
	if !strings.Contains(w.Body.String(), form.MsgRatingRequired) {
		t.Errorf("expected %q", form.MsgRatingRequired)
	}
}

func TestHandleCommentPostUnknownCampsite(t *testing.T) {
	srv := testServer(t)

	values := url.Values{"rating": {"3"}, "author": {"Al"}, "text": {"Nice"}}
	w := do(t, srv, "POST", "/campsite/77/comment", values, false, nil)

	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", w.Code, http.StatusNotFound)
	}
}

func TestHandleCommentGetNotAllowed(t *testing.T) {
	srv, d := testServerWithDB(t)
	insertTestCampsite(t, d, "React Lake Campground")

	w := do(t, srv, "GET", "/campsite/1/comment", nil, false, nil)

	if w.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want %d", w.Code, http.StatusMethodNotAllowed)
	}
}

func TestHandleCommentPostRateLimited(t *testing.T) {
	srv, d := testServerWithConfig(t, Config{Port: 8080, CommentRate: 1, CommentBurst: 1})
	insertTestCampsite(t, d, "React Lake Campground")

	values := url.Values{"rating": {"4"}, "author": {"Al"}, "text": {"One"}}
	w := do(t, srv, "POST", "/campsite/1/comment", values, false, nil)
	if w.Code != http.StatusSeeOther {
		t.Fatalf("first status = %d, want %d", w.Code, http.StatusSeeOther)
	}

	// Invalid drafts never spend a token.
	invalid := url.Values{"rating": {""}, "author": {"Al"}}
	w = do(t, srv, "POST", "/campsite/1/comment", invalid, false, nil)
	if w.Code != http.StatusUnprocessableEntity {
		t.Errorf("invalid status = %d, want %d", w.Code, http.StatusUnprocessableEntity)
	}

	w = do(t, srv, "POST", "/campsite/1/comment", values, false, nil)
	if w.Code != http.StatusTooManyRequests {
		t.Errorf("second status = %d, want %d", w.Code, http.StatusTooManyRequests)
	}
}

func TestStaticFiles(t *testing.T) {
	srv := testServer(t)

	w := do(t, srv, "GET", "/static/style.css", nil, false, nil)
	if w.Code != http.StatusOK {
		t.Errorf("css status = %d, want %d", w.Code, http.StatusOK)
	}

	w = do(t, srv, "GET", "/static/images/react-lake.svg", nil, false, nil)
	if w.Code != http.StatusOK {
		t.Errorf("image status = %d, want %d", w.Code, http.StatusOK)
	}
}

func TestTmplStars(t *testing.T) {
	tests := []struct {
		rating int
		want   string
	}{
		{0, "☆☆☆☆☆"},
		{3, "★★★☆☆"},
		{5, "★★★★★"},
		{9, "★★★★★"},
		{-1, "☆☆☆☆☆"},
	}
	for _, tt := range tests {
		if got := tmplStars(tt.rating); got != tt.want {
			t.Errorf("tmplStars(%d) = %q, want %q", tt.rating, got, tt.want)
		}
	}
}
