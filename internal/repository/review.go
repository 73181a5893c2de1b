package repository

import (
	"context"

	"reviewapi/internal/model"
)

// ReviewRepository defines data access for reviews using SQL queries only.
// A review and its full image reference list are always written in one statement.
type ReviewRepository interface {
	// Create inserts a new review and returns the stored record.
	Create(ctx context.Context, review *model.Review) (*model.Review, error)

	// FindByID returns a review by its ID, or sql.ErrNoRows.
	FindByID(ctx context.Context, id string) (*model.Review, error)

	// Update overwrites the mutable fields of a review (company, comment, rating, image refs).
	// It returns sql.ErrNoRows if the review no longer exists.
	Update(ctx context.Context, review *model.Review) (*model.Review, error)

	// Delete removes a review by ID. It returns nil if the row was deleted or did not exist.
	Delete(ctx context.Context, id string) error

	// ListByCompany returns every review of a company, newest first.
	ListByCompany(ctx context.Context, companyID string) ([]model.Review, error)

	// ListByAuthor returns every review written by a principal, newest first.
	ListByAuthor(ctx context.Context, authorID string) ([]model.Review, error)

	// RatingStats returns the rating sum and review count of a company.
	RatingStats(ctx context.Context, companyID string) (model.RatingStats, error)
}
