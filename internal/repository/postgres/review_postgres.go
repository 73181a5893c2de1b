package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"reviewapi/internal/model"
	"reviewapi/internal/repository"
)

// ReviewPostgres is a PostgreSQL implementation of repository.ReviewRepository.
// Image references are stored as a JSONB array on the review row, so a review and
// its references are committed together by a single statement.
type ReviewPostgres struct {
	db *sql.DB
}

// NewReviewPostgres creates a new ReviewPostgres repository.
func NewReviewPostgres(db *sql.DB) *ReviewPostgres {
	return &ReviewPostgres{db: db}
}

var _ repository.ReviewRepository = (*ReviewPostgres)(nil)

const reviewColumns = `id, company_id, author_id, author_name, comment, rating, image_refs, created_at`

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanReview(s rowScanner) (*model.Review, error) {
	var (
		r    model.Review
		refs []byte
	)
	if err := s.Scan(
		&r.ID,
		&r.CompanyID,
		&r.AuthorID,
		&r.AuthorName,
		&r.Comment,
		&r.Rating,
		&refs,
		&r.CreatedAt,
	); err != nil {
		return nil, err
	}
	r.ImageRefs = []string{}
	if len(refs) > 0 {
		if err := json.Unmarshal(refs, &r.ImageRefs); err != nil {
			return nil, fmt.Errorf("decode image_refs of review %s: %w", r.ID, err)
		}
	}
	return &r, nil
}

func encodeRefs(refs []string) (string, error) {
	if refs == nil {
		refs = []string{}
	}
	b, err := json.Marshal(refs)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Create inserts a new review row and returns the stored record.
func (r *ReviewPostgres) Create(ctx context.Context, review *model.Review) (*model.Review, error) {
	refs, err := encodeRefs(review.ImageRefs)
	if err != nil {
		return nil, err
	}
	const q = `
		INSERT INTO reviews (id, company_id, author_id, author_name, comment, rating, image_refs, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING ` + reviewColumns
	row := r.db.QueryRowContext(ctx, q,
		review.ID,
		review.CompanyID,
		review.AuthorID,
		review.AuthorName,
		review.Comment,
		review.Rating,
		refs,
		review.CreatedAt,
	)
	return scanReview(row)
}

// FindByID fetches a single review by its ID.
func (r *ReviewPostgres) FindByID(ctx context.Context, id string) (*model.Review, error) {
	const q = `SELECT ` + reviewColumns + ` FROM reviews WHERE id = $1`
	return scanReview(r.db.QueryRowContext(ctx, q, id))
}

// Update rewrites the mutable columns of a review. Author and creation time never change.
func (r *ReviewPostgres) Update(ctx context.Context, review *model.Review) (*model.Review, error) {
	refs, err := encodeRefs(review.ImageRefs)
	if err != nil {
		return nil, err
	}
	const q = `
		UPDATE reviews
		SET company_id = $2, comment = $3, rating = $4, image_refs = $5
		WHERE id = $1
		RETURNING ` + reviewColumns
	row := r.db.QueryRowContext(ctx, q,
		review.ID,
		review.CompanyID,
		review.Comment,
		review.Rating,
		refs,
	)
	return scanReview(row)
}

// Delete removes a review by ID. It does not return an error if the row does not exist.
func (r *ReviewPostgres) Delete(ctx context.Context, id string) error {
	const q = `DELETE FROM reviews WHERE id = $1`
	_, err := r.db.ExecContext(ctx, q, id)
	return err
}

// ListByCompany returns the reviews of a company, newest first.
func (r *ReviewPostgres) ListByCompany(ctx context.Context, companyID string) ([]model.Review, error) {
	const q = `SELECT ` + reviewColumns + ` FROM reviews WHERE company_id = $1 ORDER BY created_at DESC, id DESC`
	return r.list(ctx, q, companyID)
}

// ListByAuthor returns the reviews written by a principal, newest first.
func (r *ReviewPostgres) ListByAuthor(ctx context.Context, authorID string) ([]model.Review, error) {
	const q = `SELECT ` + reviewColumns + ` FROM reviews WHERE author_id = $1 ORDER BY created_at DESC, id DESC`
	return r.list(ctx, q, authorID)
}

func (r *ReviewPostgres) list(ctx context.Context, q string, arg string) ([]model.Review, error) {
	rows, err := r.db.QueryContext(ctx, q, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Review, 0)
	for rows.Next() {
		review, err := scanReview(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *review)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// RatingStats aggregates the ratings of a company in the database.
func (r *ReviewPostgres) RatingStats(ctx context.Context, companyID string) (model.RatingStats, error) {
	const q = `SELECT COALESCE(SUM(rating), 0), COUNT(*) FROM reviews WHERE company_id = $1`
	var st model.RatingStats
	if err := r.db.QueryRowContext(ctx, q, companyID).Scan(&st.Sum, &st.Count); err != nil {
		return model.RatingStats{}, err
	}
	return st, nil
}
