// Package comment provides the campsite comment model and data access.
// Comments are append-only: they can be added and listed, never edited.
package comment

// Comment is a visitor review attached to a campsite.
type Comment struct {
	ID         int64  `json:"id"`
	CampsiteID int64  `json:"campsite_id"`
	Rating     int    `json:"rating"`
	Author     string `json:"author"`
	Text       string `json:"text"`
	Date       string `json:"date"` // ISO-8601
}

// NewComment is the input for Repository.Add. The repository assigns ID and Date.
type NewComment struct {
	CampsiteID int64  `json:"campsite_id" validate:"gt=0"`
	Rating     int    `json:"rating" validate:"min=1,max=5"`
	Author     string `json:"author" validate:"required,min=2,max=15"`
	Text       string `json:"text"`
}
