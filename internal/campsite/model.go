// Package campsite provides the campsite domain model and data access.
package campsite

import (
	"errors"
	"time"

	"github.com/evcraddock/campsite-finder/internal/comment"
)

// ErrNotFound is returned when a campsite ID has no row.
var ErrNotFound = errors.New("campsite not found")

// Campsite is a reviewed location in the directory.
type Campsite struct {
	ID          int64              `json:"id"`
	Name        string             `json:"name"`
	Description string             `json:"description"` // markdown
	Image       string             `json:"image"`
	Elevation   int64              `json:"elevation"`
	Featured    bool               `json:"featured"`
	Comments    []*comment.Comment `json:"comments,omitempty"`
	CreatedAt   time.Time          `json:"created_at"`
}

// scanCampsite scans a campsite from a database row.
func scanCampsite(row interface{ Scan(...interface{}) error }) (*Campsite, error) {
	var c Campsite
	err := row.Scan(&c.ID, &c.Name, &c.Description, &c.Image, &c.Elevation, &c.Featured, &c.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}
