package cli

import (
	"encoding/json"
	"fmt"
	"html"
	"io"
	"strings"
	"text/tabwriter"
	"unicode/utf8"

	"github.com/microcosm-cc/bluemonday"

	"github.com/evcraddock/campsite-finder/internal/campsite"
	"github.com/evcraddock/campsite-finder/internal/comment"
	"github.com/evcraddock/campsite-finder/internal/view"
)

var plainText = bluemonday.StrictPolicy()

// printJSON marshals v as indented JSON and writes it to w.
func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// printCampsiteTable prints a list of campsites as a formatted table.
func printCampsiteTable(out io.Writer, campsites []*campsite.Campsite) error {
	if len(campsites) == 0 {
		fmt.Fprintln(out, "No campsites found.")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	if _, err := fmt.Fprintln(w, "ID\tNAME\tELEVATION\tFEATURED"); err != nil {
		return fmt.Errorf("writing table header: %w", err)
	}
	if _, err := fmt.Fprintln(w, "--\t----\t---------\t--------"); err != nil {
		return fmt.Errorf("writing table separator: %w", err)
	}

	for _, c := range campsites {
		elevation := "-"
		if c.Elevation > 0 {
			elevation = fmt.Sprintf("%d ft", c.Elevation)
		}
		featured := ""
		if c.Featured {
			featured = "yes"
		}
		if _, err := fmt.Fprintf(w, "%d\t%s\t%s\t%s\n",
			c.ID, truncate(c.Name, 40), elevation, featured); err != nil {
			return fmt.Errorf("writing table row: %w", err)
		}
	}

	if err := w.Flush(); err != nil {
		return fmt.Errorf("flushing table: %w", err)
	}

	fmt.Fprintf(out, "\nTotal: %d campsites\n", len(campsites))
	return nil
}

// printDetail prints a rendered campsite detail in text format.
func printDetail(out io.Writer, d view.Detail) {
	switch d.Kind {
	case view.KindLoading:
		fmt.Fprintln(out, "Loading...")
		return
	case view.KindError:
		fmt.Fprintln(out, d.ErrMess)
		return
	case view.KindEmpty:
		return
	}

	labels := make([]string, 0, len(d.Breadcrumbs))
	for _, b := range d.Breadcrumbs {
		labels = append(labels, b.Label)
	}
	fmt.Fprintln(out, strings.Join(labels, " > "))
	fmt.Fprintln(out)

	fmt.Fprintf(out, "%s (#%d)\n", d.Card.Name, d.Card.ID)
	if d.Card.Elevation > 0 {
		fmt.Fprintf(out, "  Elevation: %d ft\n", d.Card.Elevation)
	}
	if desc := stripHTML(string(d.Card.Description)); desc != "" {
		fmt.Fprintf(out, "  %s\n", desc)
	}
	fmt.Fprintln(out)

	if len(d.Comments) == 0 {
		fmt.Fprintln(out, "No comments.")
		return
	}
	fmt.Fprintf(out, "Comments (%d):\n", len(d.Comments))
	for _, l := range d.Comments {
		fmt.Fprintf(out, "  %s  %s\n", formatRating(l.Rating), l)
	}
}

// printCommentList prints comments in text format.
func printCommentList(out io.Writer, comments []*comment.Comment) {
	if len(comments) == 0 {
		fmt.Fprintln(out, "No comments.")
		return
	}

	for _, c := range comments {
		fmt.Fprintf(out, "[%s] #%d %s (%s)\n  %s\n\n",
			view.FormatDate(c.Date), c.ID, formatRating(c.Rating), c.Author, c.Text)
	}
}

// printCommentSingle prints a single comment in text format.
func printCommentSingle(out io.Writer, c *comment.Comment) {
	fmt.Fprintf(out, "Comment #%d added.\n  %s %s -- %s\n", c.ID, formatRating(c.Rating), c.Author, c.Text)
}

// formatRating returns a star representation of a rating (1-5).
func formatRating(rating int) string {
	if rating < 1 {
		rating = 1
	}
	if rating > 5 {
		rating = 5
	}
	return strings.Repeat("★", rating) + strings.Repeat("☆", 5-rating)
}

// stripHTML reduces rendered markup to a single line of plain text.
func stripHTML(s string) string {
	text := html.UnescapeString(plainText.Sanitize(s))
	return strings.Join(strings.Fields(text), " ")
}

// truncate shortens a string to maxLen runes, adding "..." if truncated.
func truncate(s string, maxLen int) string {
	if utf8.RuneCountInString(s) <= maxLen {
		return s
	}
	return string([]rune(s)[:maxLen-3]) + "..."
}
