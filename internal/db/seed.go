package db

import (
	"database/sql"
	"fmt"
	"log/slog"
)

type seedComment struct {
	rating int
	author string
	text   string
	date   string
}

type seedCampsite struct {
	name        string
	description string
	image       string
	elevation   int
	featured    bool
	comments    []seedComment
}

// stockCampsites is the directory loaded into an empty database.
var stockCampsites = []seedCampsite{
	{
		name:        "React Lake Campground",
		description: "Nestled in the foothills of the Chrome River, this small campground is the perfect place to unwind on the **lakeshore**.",
		image:       "images/react-lake.svg",
		elevation:   1233,
		comments: []seedComment{
			{5, "Ha Wu", "What a magical place! I can't wait to go back!", "2018-10-25T16:30Z"},
			{4, "Diana Roy", "Lots of mosquitoes in June, bring spray.", "2019-06-11T09:12Z"},
			{5, "Mo Hansen", "Sunrise over the lake is worth the drive.", "2020-08-02T06:45Z"},
		},
	},
	{
		name:        "Chrome River Campground",
		description: "Spread out on the banks of the Chrome River. Great for *fishing* and river tubing in the summer.",
		image:       "images/chrome-river.svg",
		elevation:   877,
		comments: []seedComment{
			{4, "Jo Lima", "Tubing was a blast. Sites near the bend fill up fast.", "2021-07-17T14:05Z"},
			{3, "Sam Ortiz", "Nice river, noisy neighbors.", "2021-08-03T20:30Z"},
		},
	},
	{
		name:        "Breadcrumb Trail Campground",
		description: "Let the NuCamp experts guide you along the Breadcrumb Trail to a hike-in campsite with sweeping views.",
		image:       "images/breadcrumb-trail.svg",
		elevation:   2901,
		featured:    true,
		comments: []seedComment{
			{5, "Lee Park", "Steep last mile but the views made up for it.", "2022-05-21T11:00Z"},
		},
	},
	{
		name:        "Redux Woods Campground",
		description: "You'll never want to leave this hidden gem, deep within the lush Redux Woods.",
		image:       "images/redux-woods.svg",
		elevation:   42,
	},
}

// Seed loads the stock campsite directory when the campsites table is empty.
// It reports whether anything was inserted.
func Seed(db *sql.DB) (bool, error) {
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM campsites").Scan(&count); err != nil {
		return false, fmt.Errorf("counting campsites: %w", err)
	}
	if count > 0 {
		return false, nil
	}

	tx, err := db.Begin()
	if err != nil {
		return false, fmt.Errorf("beginning seed: %w", err)
	}

	if err := seedTx(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return false, fmt.Errorf("%w (also failed to roll back: %v)", err, rbErr)
		}
		return false, err
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("committing seed: %w", err)
	}

	slog.Info("seeded campsites", "count", len(stockCampsites))
	return true, nil
}

func seedTx(tx *sql.Tx) error {
	for _, c := range stockCampsites {
		res, err := tx.Exec(
			"INSERT INTO campsites (name, description, image, elevation, featured) VALUES (?, ?, ?, ?, ?)",
			c.name, c.description, c.image, c.elevation, c.featured,
		)
		if err != nil {
			return fmt.Errorf("inserting campsite %q: %w", c.name, err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return fmt.Errorf("getting insert id: %w", err)
		}

		for _, cm := range c.comments {
			if _, err := tx.Exec(
				"INSERT INTO comments (campsite_id, rating, author, text, date) VALUES (?, ?, ?, ?, ?)",
				id, cm.rating, cm.author, cm.text, cm.date,
			); err != nil {
				return fmt.Errorf("inserting comment for %q: %w", c.name, err)
			}
		}
	}
	return nil
}
