package repository

import (
	"context"

	"reviewapi/internal/model"
)

// ImageRepository defines data access for company gallery images.
type ImageRepository interface {
	Create(ctx context.Context, img *model.Image) (*model.Image, error)

	// FindByID returns an image by its ID, or sql.ErrNoRows.
	FindByID(ctx context.Context, id string) (*model.Image, error)

	// Delete removes an image by ID. It returns nil if the row did not exist.
	Delete(ctx context.Context, id string) error

	// ListByCompany returns the gallery of a company, newest first.
	ListByCompany(ctx context.Context, companyID string) ([]model.Image, error)

	// CountByCompany returns how many images a company has.
	CountByCompany(ctx context.Context, companyID string) (int, error)
}
