package model

// CompanyRating is the aggregate rating shown on a company page.
type CompanyRating struct {
	Rating      float64 `json:"rating"`
	ReviewCount int     `json:"review_count"`
	Message     string  `json:"message,omitempty"`
}

// RatingStats are the raw figures a CompanyRating is computed from.
type RatingStats struct {
	Sum   int64
	Count int64
}
