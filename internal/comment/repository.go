package comment

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/evcraddock/campsite-finder/internal/form"
)

// Repository provides append and list operations for comments.
type Repository struct {
	db       *sql.DB
	validate *validator.Validate
	now      func() time.Time
}

// NewRepository creates a comment repository.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{
		db:       db,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		now:      time.Now,
	}
}

// Add stores a new comment and returns it with its assigned ID and date.
func (r *Repository) Add(nc NewComment) (*Comment, error) {
	if err := r.validate.Struct(nc); err != nil {
		return nil, fmt.Errorf("invalid comment: %w", err)
	}

	date := r.now().UTC().Format(time.RFC3339)
	result, err := r.db.Exec(
		"INSERT INTO comments (campsite_id, rating, author, text, date) VALUES (?, ?, ?, ?, ?)",
		nc.CampsiteID, nc.Rating, nc.Author, nc.Text, date,
	)
	if err != nil {
		return nil, fmt.Errorf("inserting comment: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting insert id: %w", err)
	}

	var c Comment
	err = r.db.QueryRow(
		"SELECT id, campsite_id, rating, author, text, date FROM comments WHERE id = ?", id,
	).Scan(&c.ID, &c.CampsiteID, &c.Rating, &c.Author, &c.Text, &c.Date)
	if err != nil {
		return nil, fmt.Errorf("reading back comment: %w", err)
	}

	return &c, nil
}

// AppendComment stores the command emitted by a submitted comment form.
func (r *Repository) AppendComment(cmd form.AppendComment) error {
	_, err := r.Add(NewComment{
		CampsiteID: cmd.CampsiteID,
		Rating:     cmd.Rating,
		Author:     cmd.Author,
		Text:       cmd.Text,
	})
	return err
}

// ListByCampsiteID returns all comments for a campsite in the order they were added.
func (r *Repository) ListByCampsiteID(campsiteID int64) (comments []*Comment, err error) {
	rows, err := r.db.Query(
		"SELECT id, campsite_id, rating, author, text, date FROM comments WHERE campsite_id = ? ORDER BY id ASC",
		campsiteID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing comments: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("closing rows: %w", closeErr)
		}
	}()

	for rows.Next() {
		var c Comment
		if err := rows.Scan(&c.ID, &c.CampsiteID, &c.Rating, &c.Author, &c.Text, &c.Date); err != nil {
			return nil, fmt.Errorf("scanning comment: %w", err)
		}
		comments = append(comments, &c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating comments: %w", err)
	}

	return comments, nil
}
