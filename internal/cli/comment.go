package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/evcraddock/campsite-finder/internal/client"
	"github.com/evcraddock/campsite-finder/internal/comment"
	"github.com/evcraddock/campsite-finder/internal/form"
)

// isTerminal reports whether stdin is interactive. Replaced in tests.
var isTerminal = func() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// promptComment fills in the draft interactively. Replaced in tests.
var promptComment = runCommentPrompt

func newCommentCmd() *cobra.Command {
	var (
		rating int
		author string
		text   string
	)

	cmd := &cobra.Command{
		Use:   "comment <id>",
		Short: "Add a comment to a campsite",
		Long: `Add a rated comment to a campsite.

Values come from --rating, --author and --text. When any value is missing or
invalid and stdin is a terminal, a form prompts for the rest.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			f := form.Form{}.Open()
			if cmd.Flags().Changed("rating") {
				f = f.Change(form.FieldRating, strconv.Itoa(rating))
			}
			if cmd.Flags().Changed("author") {
				f = f.Change(form.FieldAuthor, author)
			}
			if cmd.Flags().Changed("text") {
				f = f.Change(form.FieldText, text)
			}

			return runComment(cmd.OutOrStdout(), id, f, newAPIClient())
		},
	}

	cmd.Flags().IntVar(&rating, "rating", 0, "rating from 1 to 5")
	cmd.Flags().StringVar(&author, "author", "", "your name (2-15 characters)")
	cmd.Flags().StringVar(&text, "text", "", "comment text")

	return cmd
}

// commentAdder is the part of the API client the comment command needs.
type commentAdder interface {
	AddComment(id int64, rating int, author, text string) (*comment.Comment, error)
}

func runComment(out io.Writer, id int64, f form.Form, c commentAdder) error {
	if !f.Valid() && isTerminal() {
		prompted, err := promptComment(f)
		if errors.Is(err, huh.ErrUserAborted) {
			fmt.Fprintln(out, "Cancelled.")
			return nil
		}
		if err != nil {
			return fmt.Errorf("form: %w", err)
		}
		f = prompted
	}

	var created *comment.Comment
	app := form.AppenderFunc(func(cmd form.AppendComment) error {
		var err error
		created, err = c.AddComment(cmd.CampsiteID, cmd.Rating, cmd.Author, cmd.Text)
		return err
	})

	f, submitted, err := f.Submit(id, app)
	if !submitted {
		return &client.ValidationError{Fields: f.VisibleErrors()}
	}
	if err != nil {
		return err
	}

	if isJSON() {
		return printJSON(out, created)
	}
	printCommentSingle(out, created)
	return nil
}

// runCommentPrompt shows the comment form in the terminal. Each field is
// checked with the same rules the web form uses.
func runCommentPrompt(f form.Form) (form.Form, error) {
	rating := f.Draft.Rating
	author := f.Draft.Author
	text := f.Draft.Text

	err := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Rating").
				Options(huh.NewOptions(form.RatingOptions...)...).
				Validate(fieldValidator(form.FieldRating)).
				Value(&rating),
			huh.NewInput().
				Title("Your Name").
				Validate(fieldValidator(form.FieldAuthor)).
				Value(&author),
			huh.NewText().
				Title("Comment").
				Value(&text),
		),
	).Run()
	if err != nil {
		return f, err
	}

	return f.Change(form.FieldRating, rating).
		Change(form.FieldAuthor, author).
		Change(form.FieldText, text), nil
}

func fieldValidator(field form.Field) func(string) error {
	return func(v string) error {
		if msg := form.ValidateField(field, v); msg != "" {
			return errors.New(msg)
		}
		return nil
	}
}
