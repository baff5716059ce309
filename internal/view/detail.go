// Package view turns campsite data into the render tree for the detail page.
//
// Render is a pure projection: it never mutates its inputs and never invokes
// the AddComment appender, which is passed through to the comment form node
// unchanged.
package view

import (
	"bytes"
	"fmt"
	"html"
	"html/template"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"

	"github.com/evcraddock/campsite-finder/internal/campsite"
	"github.com/evcraddock/campsite-finder/internal/comment"
	"github.com/evcraddock/campsite-finder/internal/form"
)

// Props is everything the detail view is rendered from.
type Props struct {
	Campsite  *campsite.Campsite
	Comments  []*comment.Comment // nil falls back to Campsite.Comments
	IsLoading bool
	ErrMess   string

	AddComment form.Appender
	Form       form.Form
}

// Kind is the branch the detail view rendered.
type Kind int

const (
	KindEmpty Kind = iota
	KindLoading
	KindError
	KindDetail
)

func (k Kind) String() string {
	switch k {
	case KindLoading:
		return "loading"
	case KindError:
		return "error"
	case KindDetail:
		return "detail"
	default:
		return "empty"
	}
}

// Breadcrumb is one step of the navigation trail.
type Breadcrumb struct {
	Label  string
	Href   string
	Active bool
}

// Card is the campsite summary block.
type Card struct {
	ID          int64
	Name        string
	Description template.HTML
	Image       string
	Elevation   int64
}

// CommentLine is one rendered comment.
type CommentLine struct {
	Text   string
	Author string
	Date   string
	Rating int
}

// String formats the line as "<text> / <author> -- <date>".
func (l CommentLine) String() string {
	return fmt.Sprintf("%s / %s -- %s", l.Text, l.Author, l.Date)
}

// CommentForm is the submit-comment control.
type CommentForm struct {
	CampsiteID    int64
	State         form.Snapshot
	RatingOptions []string
	AddComment    form.Appender
}

// Detail is the render tree. Only the fields for Kind are populated.
type Detail struct {
	Kind        Kind
	ErrMess     string
	Breadcrumbs []Breadcrumb
	Card        Card
	Comments    []CommentLine
	CommentForm CommentForm
}

var (
	markdown  = goldmark.New()
	sanitizer = bluemonday.UGCPolicy()
)

// Render projects props into a Detail. Loading wins over an error message,
// an error message wins over a campsite, and with none of them the view is empty.
func Render(p Props) Detail {
	switch {
	case p.IsLoading:
		return Detail{Kind: KindLoading}
	case p.ErrMess != "":
		return Detail{Kind: KindError, ErrMess: p.ErrMess}
	case p.Campsite == nil:
		return Detail{Kind: KindEmpty}
	}

	c := p.Campsite
	comments := p.Comments
	if comments == nil {
		comments = c.Comments
	}

	return Detail{
		Kind: KindDetail,
		Breadcrumbs: []Breadcrumb{
			{Label: "Home", Href: "/"},
			{Label: "Directory", Href: "/directory"},
			{Label: c.Name, Active: true},
		},
		Card: Card{
			ID:          c.ID,
			Name:        c.Name,
			Description: renderMarkdown(c.Description),
			Image:       c.Image,
			Elevation:   c.Elevation,
		},
		Comments: commentLines(comments),
		CommentForm: CommentForm{
			CampsiteID:    c.ID,
			State:         p.Form.Snapshot(),
			RatingOptions: form.RatingOptions,
			AddComment:    p.AddComment,
		},
	}
}

// commentLines maps comments to display lines in the order given.
func commentLines(comments []*comment.Comment) []CommentLine {
	lines := make([]CommentLine, 0, len(comments))
	for _, c := range comments {
		lines = append(lines, CommentLine{
			Text:   c.Text,
			Author: c.Author,
			Date:   FormatDate(c.Date),
			Rating: c.Rating,
		})
	}
	return lines
}

// renderMarkdown converts a markdown description to sanitized HTML.
func renderMarkdown(src string) template.HTML {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(src), &buf); err != nil {
		return template.HTML(html.EscapeString(src))
	}
	return template.HTML(sanitizer.SanitizeBytes(buf.Bytes()))
}
