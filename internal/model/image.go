package model

import "time"

// Image is a company gallery entry. It is independent of reviews and owns
// exactly one media reference.
type Image struct {
	ID         string    `json:"id"`
	CompanyID  string    `json:"company_id"`
	UploaderID string    `json:"uploader_id"`
	MediaRef   string    `json:"media_ref"`
	CreatedAt  time.Time `json:"created_at"`
}
