// Package form implements the comment submission form: modal visibility, the
// draft being edited, field validation and the append command emitted on a
// valid submit.
//
// Form is a plain value. Every transition returns a new Form and leaves the
// receiver untouched, so callers can hold, copy or serialize form state freely.
package form

import (
	"fmt"
	"strconv"
)

// Field names a form input.
type Field string

const (
	FieldRating Field = "rating"
	FieldAuthor Field = "author"
	FieldText   Field = "text"
)

// Fields lists the form inputs in display order.
var Fields = []Field{FieldRating, FieldAuthor, FieldText}

// RatingOptions are the selectable rating values.
var RatingOptions = []string{"1", "2", "3", "4", "5"}

// ParseField returns the Field named s.
func ParseField(s string) (Field, bool) {
	for _, f := range Fields {
		if string(f) == s {
			return f, true
		}
	}
	return "", false
}

// Draft is the untrusted, in-progress comment input.
type Draft struct {
	Rating string `json:"rating"`
	Author string `json:"author"`
	Text   string `json:"text"`
}

// Get returns the raw value of a field.
func (d Draft) Get(f Field) string {
	switch f {
	case FieldRating:
		return d.Rating
	case FieldAuthor:
		return d.Author
	case FieldText:
		return d.Text
	}
	return ""
}

func (d Draft) with(f Field, v string) Draft {
	switch f {
	case FieldRating:
		d.Rating = v
	case FieldAuthor:
		d.Author = v
	case FieldText:
		d.Text = v
	}
	return d
}

// Status is the modal visibility.
type Status int

const (
	StatusClosed Status = iota
	StatusOpen
)

func (s Status) String() string {
	if s == StatusOpen {
		return "open"
	}
	return "closed"
}

// MarshalText implements encoding.TextMarshaler.
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Status) UnmarshalText(b []byte) error {
	switch string(b) {
	case "open":
		*s = StatusOpen
	case "closed", "":
		*s = StatusClosed
	default:
		return fmt.Errorf("unknown form status %q", b)
	}
	return nil
}

// Form is the comment form state: Closed, or Open with a draft and the set of
// fields the user has touched. The zero value is Closed.
type Form struct {
	Status  Status         `json:"status"`
	Draft   Draft          `json:"draft"`
	Touched map[Field]bool `json:"touched,omitempty"`
}

// IsOpen reports whether the modal is shown.
func (f Form) IsOpen() bool {
	return f.Status == StatusOpen
}

// Open shows the modal with an empty draft. An open form is returned unchanged.
func (f Form) Open() Form {
	if f.IsOpen() {
		return f
	}
	return Form{Status: StatusOpen}
}

// Close hides the modal and discards the draft.
func (f Form) Close() Form {
	return Form{}
}

// Change sets a field value and marks the field touched.
// Changes to a closed form are ignored.
func (f Form) Change(field Field, value string) Form {
	if !f.IsOpen() {
		return f
	}
	f.Draft = f.Draft.with(field, value)
	return f.touch(field)
}

// Blur marks a field touched.
func (f Form) Blur(field Field) Form {
	if !f.IsOpen() {
		return f
	}
	return f.touch(field)
}

func (f Form) touch(fields ...Field) Form {
	touched := make(map[Field]bool, len(f.Touched)+len(fields))
	for k, v := range f.Touched {
		touched[k] = v
	}
	for _, field := range fields {
		touched[field] = true
	}
	f.Touched = touched
	return f
}

// Valid reports whether the current draft passes every rule, regardless of
// which fields are touched.
func (f Form) Valid() bool {
	return len(Validate(f.Draft)) == 0
}

// VisibleErrors returns validation messages for touched fields only.
func (f Form) VisibleErrors() map[Field]string {
	visible := make(map[Field]string)
	if !f.IsOpen() {
		return visible
	}
	for field, msg := range Validate(f.Draft) {
		if f.Touched[field] {
			visible[field] = msg
		}
	}
	return visible
}

// Submit attempts to submit the draft for a campsite.
//
// An invalid draft keeps the form open, marks every field touched so all
// messages become visible, and never reaches the appender. A valid draft closes
// the form, hands exactly one AppendComment to app and discards the draft. The
// appender's error is returned as is; the form is closed either way.
func (f Form) Submit(campsiteID int64, app Appender) (Form, bool, error) {
	if !f.IsOpen() {
		return f, false, nil
	}
	if !f.Valid() {
		return f.touch(Fields...), false, nil
	}

	cmd := f.Draft.command(campsiteID)
	closed := f.Close()
	err := app.AppendComment(cmd)
	return closed, true, err
}

// Snapshot is the render-ready view of a form.
type Snapshot struct {
	Open   bool
	Values Draft
	Errors map[Field]string
}

// Snapshot returns what a renderer needs to draw the form.
func (f Form) Snapshot() Snapshot {
	return Snapshot{
		Open:   f.IsOpen(),
		Values: f.Draft,
		Errors: f.VisibleErrors(),
	}
}

// AppendComment is the command emitted by a valid submit.
type AppendComment struct {
	CampsiteID int64  `json:"campsite_id"`
	Rating     int    `json:"rating"`
	Author     string `json:"author"`
	Text       string `json:"text"`
}

// Appender receives AppendComment commands. Implementations decide how the
// comment is stored or transmitted.
type Appender interface {
	AppendComment(cmd AppendComment) error
}

// AppenderFunc adapts a function to the Appender interface.
type AppenderFunc func(cmd AppendComment) error

// AppendComment calls fn(cmd).
func (fn AppenderFunc) AppendComment(cmd AppendComment) error {
	return fn(cmd)
}

// command builds the append command from a draft that already passed validation.
func (d Draft) command(campsiteID int64) AppendComment {
	rating, _ := strconv.Atoi(normalize(d.Rating))
	return AppendComment{
		CampsiteID: campsiteID,
		Rating:     rating,
		Author:     normalize(d.Author),
		Text:       normalize(d.Text),
	}
}
