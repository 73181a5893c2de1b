package postgres

import (
	"context"
	"database/sql"

	"reviewapi/internal/model"
	"reviewapi/internal/repository"
)

// ImagePostgres is a PostgreSQL implementation of repository.ImageRepository.
type ImagePostgres struct {
	db *sql.DB
}

// NewImagePostgres creates a new ImagePostgres repository.
func NewImagePostgres(db *sql.DB) *ImagePostgres {
	return &ImagePostgres{db: db}
}

var _ repository.ImageRepository = (*ImagePostgres)(nil)

const imageColumns = `id, company_id, uploader_id, media_ref, created_at`

func scanImage(s rowScanner) (*model.Image, error) {
	var img model.Image
	if err := s.Scan(
		&img.ID,
		&img.CompanyID,
		&img.UploaderID,
		&img.MediaRef,
		&img.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &img, nil
}

// Create inserts a new image row and returns the stored record.
func (r *ImagePostgres) Create(ctx context.Context, img *model.Image) (*model.Image, error) {
	const q = `
		INSERT INTO images (id, company_id, uploader_id, media_ref, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + imageColumns
	row := r.db.QueryRowContext(ctx, q,
		img.ID,
		img.CompanyID,
		img.UploaderID,
		img.MediaRef,
		img.CreatedAt,
	)
	return scanImage(row)
}

// FindByID fetches a single image by its ID.
func (r *ImagePostgres) FindByID(ctx context.Context, id string) (*model.Image, error) {
	const q = `SELECT ` + imageColumns + ` FROM images WHERE id = $1`
	return scanImage(r.db.QueryRowContext(ctx, q, id))
}

// Delete removes an image by ID. It does not return an error if the row does not exist.
func (r *ImagePostgres) Delete(ctx context.Context, id string) error {
	const q = `DELETE FROM images WHERE id = $1`
	_, err := r.db.ExecContext(ctx, q, id)
	return err
}

// ListByCompany returns the gallery of a company, newest first.
func (r *ImagePostgres) ListByCompany(ctx context.Context, companyID string) ([]model.Image, error) {
	const q = `SELECT ` + imageColumns + ` FROM images WHERE company_id = $1 ORDER BY created_at DESC, id DESC`
	rows, err := r.db.QueryContext(ctx, q, companyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Image, 0)
	for rows.Next() {
		img, err := scanImage(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *img)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// CountByCompany returns the number of gallery images of a company.
func (r *ImagePostgres) CountByCompany(ctx context.Context, companyID string) (int, error) {
	const q = `SELECT COUNT(*) FROM images WHERE company_id = $1`
	var n int
	if err := r.db.QueryRowContext(ctx, q, companyID).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}
