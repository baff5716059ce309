package campsite

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

// Repository provides read and insert operations for campsites.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a campsite repository.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

const selectColumns = `id, name, description, image, elevation, featured, created_at`

// Insert adds a new campsite and returns it with its generated ID.
func (r *Repository) Insert(c *Campsite) (*Campsite, error) {
	if strings.TrimSpace(c.Name) == "" {
		return nil, fmt.Errorf("campsite name is required")
	}

	result, err := r.db.Exec(
		"INSERT INTO campsites (name, description, image, elevation, featured) VALUES (?, ?, ?, ?, ?)",
		c.Name, c.Description, c.Image, c.Elevation, c.Featured,
	)
	if err != nil {
		return nil, fmt.Errorf("inserting campsite: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting insert id: %w", err)
	}

	return r.GetByID(id)
}

// GetByID returns a campsite by its ID. Missing rows wrap ErrNotFound.
func (r *Repository) GetByID(id int64) (*Campsite, error) {
	query := fmt.Sprintf("SELECT %s FROM campsites WHERE id = ?", selectColumns)
	c, err := scanCampsite(r.db.QueryRow(query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("campsite %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("querying campsite %d: %w", id, err)
	}

	return c, nil
}

// ListOptions controls filtering for List.
type ListOptions struct {
	FeaturedOnly bool
}

// List returns campsites ordered by name.
func (r *Repository) List(opts ListOptions) (campsites []*Campsite, err error) {
	query := fmt.Sprintf("SELECT %s FROM campsites", selectColumns)
	if opts.FeaturedOnly {
		query += " WHERE featured = 1"
	}
	query += " ORDER BY name ASC"

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("listing campsites: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("closing rows: %w", closeErr)
		}
	}()

	for rows.Next() {
		c, err := scanCampsite(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning campsite: %w", err)
		}
		campsites = append(campsites, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating campsites: %w", err)
	}

	return campsites, nil
}
