package form

import (
	"strconv"
	"strings"
	"unicode/utf8"
)

// Validation messages shown next to a touched field.
const (
	MsgRatingRequired = "Please provide a rating."
	MsgRatingRange    = "Rating must be between 1 and 5."
	MsgAuthorRequired = "Please provide your name."
	MsgAuthorTooShort = "Please provide at least 2 characters."
	MsgAuthorTooLong  = "Please provide no more than 15 characters."
)

// Author length bounds, counted in characters after trimming.
const (
	AuthorMinLength = 2
	AuthorMaxLength = 15
)

// Rule is a single predicate over a field value and the message shown when it fails.
type Rule struct {
	Check   func(value string) bool
	Message string
}

// Rules is the validation table. Rules for a field are evaluated in order and the
// first failing rule decides the field's message. Fields without rules always pass.
var Rules = map[Field][]Rule{
	FieldRating: {
		required(MsgRatingRequired),
		intBetween(1, 5, MsgRatingRange),
	},
	FieldAuthor: {
		required(MsgAuthorRequired),
		minLength(AuthorMinLength, MsgAuthorTooShort),
		maxLength(AuthorMaxLength, MsgAuthorTooLong),
	},
	FieldText: nil,
}

func required(msg string) Rule {
	return Rule{Check: func(v string) bool { return v != "" }, Message: msg}
}

func minLength(n int, msg string) Rule {
	return Rule{Check: func(v string) bool { return utf8.RuneCountInString(v) >= n }, Message: msg}
}

func maxLength(n int, msg string) Rule {
	return Rule{Check: func(v string) bool { return utf8.RuneCountInString(v) <= n }, Message: msg}
}

func intBetween(lo, hi int, msg string) Rule {
	return Rule{
		Check: func(v string) bool {
			n, err := strconv.Atoi(v)
			return err == nil && n >= lo && n <= hi
		},
		Message: msg,
	}
}

// normalize trims surrounding whitespace from raw input.
func normalize(v string) string {
	return strings.TrimSpace(v)
}

// ValidateField runs the rule table for one field and returns the first failing
// message, or "" when the value passes.
func ValidateField(f Field, value string) string {
	v := normalize(value)
	for _, r := range Rules[f] {
		if !r.Check(v) {
			return r.Message
		}
	}
	return ""
}

// Validate checks every field of a draft and returns messages for the failing ones.
// An empty map means the draft can be submitted.
func Validate(d Draft) map[Field]string {
	errs := make(map[Field]string)
	for _, f := range Fields {
		if msg := ValidateField(f, d.Get(f)); msg != "" {
			errs[f] = msg
		}
	}
	return errs
}
