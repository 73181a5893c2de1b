package model

import "time"

// Review is a principal's rating and comment about a company, with up to a
// handful of attached media references kept in upload order.
// AuthorName is a snapshot of the principal's display name at write time.
type Review struct {
	ID         string    `json:"id"`
	CompanyID  string    `json:"company_id"`
	AuthorID   string    `json:"author_id"`
	AuthorName string    `json:"author_name"`
	Comment    string    `json:"comment"`
	Rating     int       `json:"rating"`
	ImageRefs  []string  `json:"image_refs"`
	CreatedAt  time.Time `json:"created_at"`
}

// Rating bounds, inclusive.
const (
	MinRating = 1
	MaxRating = 5
)
