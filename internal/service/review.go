package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"

	"reviewapi/internal/cache"
	"reviewapi/internal/model"
	"reviewapi/internal/policy"
	"reviewapi/internal/repository"
	"reviewapi/internal/storage"
)

// ReviewInput carries the client-editable fields of a review.
type ReviewInput struct {
	CompanyID string
	Comment   string
	Rating    int
}

// ReviewService defines the review lifecycle.
type ReviewService interface {
	// CreateReview uploads images in order and persists the review authored by p.
	// A failed upload is skipped; the review is still created with the remaining refs.
	CreateReview(ctx context.Context, p model.Principal, in ReviewInput, images []model.Upload) (*model.Review, error)

	// UpdateReview overwrites a review owned by p. When images replaces the
	// attachments, every existing ref is released first and the new files are
	// uploaded best-effort; otherwise the refs are left as they are.
	UpdateReview(ctx context.Context, p model.Principal, id string, in ReviewInput, images model.ImageUpdate) (*model.Review, error)

	// DeleteReview releases every attached ref and removes the review owned by p.
	// The record is removed even when releases fail.
	DeleteReview(ctx context.Context, p model.Principal, id string) error

	GetReviewsByCompany(ctx context.Context, companyID string) ([]model.Review, error)
	GetReviewsByUser(ctx context.Context, p model.Principal) ([]model.Review, error)
}

type reviewService struct {
	repo      repository.ReviewRepository
	gw        storage.Gateway
	cache     cache.Cache
	maxImages int
	log       zerolog.Logger
	now       func() time.Time
}

// NewReviewService constructs a ReviewService. maxImages is the per-review
// attachment limit.
func NewReviewService(repo repository.ReviewRepository, gw storage.Gateway, c cache.Cache, maxImages int, log zerolog.Logger) ReviewService {
	return &reviewService{
		repo:      repo,
		gw:        gw,
		cache:     c,
		maxImages: maxImages,
		log:       log.With().Str("component", "review_service").Logger(),
		now:       time.Now,
	}
}

func (s *reviewService) validate(in ReviewInput, images int) error {
	if strings.TrimSpace(in.CompanyID) == "" {
		return fmt.Errorf("%w: company id is required", ErrInvalidArgument)
	}
	if strings.TrimSpace(in.Comment) == "" {
		return fmt.Errorf("%w: comment is required", ErrInvalidArgument)
	}
	if in.Rating < model.MinRating || in.Rating > model.MaxRating {
		return fmt.Errorf("%w: rating must be between %d and %d", ErrInvalidArgument, model.MinRating, model.MaxRating)
	}
	if images > s.maxImages {
		return fmt.Errorf("%w: at most %d images per review", ErrInvalidArgument, s.maxImages)
	}
	return nil
}

func (s *reviewService) CreateReview(ctx context.Context, p model.Principal, in ReviewInput, images []model.Upload) (_ *model.Review, err error) {
	ctx, span := tracer.Start(ctx, "ReviewService.CreateReview")
	defer endSpan(span, &err)
	span.SetAttributes(attribute.String("company.id", in.CompanyID), attribute.Int("images", len(images)))

	if err := s.validate(in, len(images)); err != nil {
		return nil, err
	}
	if !p.Authenticated() {
		return nil, ErrUnauthenticated
	}

	uploads := uploadAll(ctx, s.gw, images)
	logFailures(s.log.With().Str("company_id", in.CompanyID).Logger(), "review_image_upload", uploads)
	refs := uploadedRefs(uploads)

	review := &model.Review{
		ID:         uuid.NewString(),
		CompanyID:  in.CompanyID,
		AuthorID:   p.ID,
		AuthorName: p.Name(),
		Comment:    in.Comment,
		Rating:     in.Rating,
		ImageRefs:  refs,
		CreatedAt:  s.now().UTC(),
	}

	stored, err := s.repo.Create(ctx, review)
	if err != nil {
		s.rollback(ctx, review.ID, refs)
		return nil, fmt.Errorf("save review: %w", err)
	}

	invalidateRatings(ctx, s.cache, s.log, stored.CompanyID)
	return stored, nil
}

func (s *reviewService) UpdateReview(ctx context.Context, p model.Principal, id string, in ReviewInput, images model.ImageUpdate) (_ *model.Review, err error) {
	ctx, span := tracer.Start(ctx, "ReviewService.UpdateReview")
	defer endSpan(span, &err)
	span.SetAttributes(attribute.String("review.id", id), attribute.Bool("images.replace", images.Replaces()))

	if err := s.validate(in, len(images.Files())); err != nil {
		return nil, err
	}
	if !p.Authenticated() {
		return nil, ErrUnauthenticated
	}

	existing, err := s.owned(ctx, p, id)
	if err != nil {
		return nil, err
	}

	updated := *existing
	updated.CompanyID = in.CompanyID
	updated.Comment = in.Comment
	updated.Rating = in.Rating

	var fresh []string
	if images.Replaces() {
		log := s.log.With().Str("review_id", id).Logger()
		logFailures(log, "review_image_release", releaseAll(ctx, s.gw, existing.ImageRefs))

		uploads := uploadAll(ctx, s.gw, images.Files())
		logFailures(log, "review_image_upload", uploads)
		fresh = uploadedRefs(uploads)
		updated.ImageRefs = fresh
	}

	stored, err := s.repo.Update(ctx, &updated)
	if err != nil {
		s.rollback(ctx, id, fresh)
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: review %s", ErrNotFound, id)
		}
		return nil, fmt.Errorf("update review: %w", err)
	}

	invalidateRatings(ctx, s.cache, s.log, existing.CompanyID, stored.CompanyID)
	return stored, nil
}

func (s *reviewService) DeleteReview(ctx context.Context, p model.Principal, id string) (err error) {
	ctx, span := tracer.Start(ctx, "ReviewService.DeleteReview")
	defer endSpan(span, &err)
	span.SetAttributes(attribute.String("review.id", id))

	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("%w: review id is required", ErrInvalidArgument)
	}
	if !p.Authenticated() {
		return ErrUnauthenticated
	}

	existing, err := s.owned(ctx, p, id)
	if err != nil {
		return err
	}

	releases := releaseAll(ctx, s.gw, existing.ImageRefs)
	if n := logFailures(s.log.With().Str("review_id", id).Logger(), "review_image_release", releases); n > 0 {
		span.SetAttributes(attribute.Int("images.release_failed", n))
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete review: %w", err)
	}

	invalidateRatings(ctx, s.cache, s.log, existing.CompanyID)
	return nil
}

func (s *reviewService) GetReviewsByCompany(ctx context.Context, companyID string) ([]model.Review, error) {
	if strings.TrimSpace(companyID) == "" {
		return nil, fmt.Errorf("%w: company id is required", ErrInvalidArgument)
	}
	reviews, err := s.repo.ListByCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}
	if reviews == nil {
		reviews = []model.Review{}
	}
	return reviews, nil
}

func (s *reviewService) GetReviewsByUser(ctx context.Context, p model.Principal) ([]model.Review, error) {
	if !p.Authenticated() {
		return nil, ErrUnauthenticated
	}
	reviews, err := s.repo.ListByAuthor(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	if reviews == nil {
		reviews = []model.Review{}
	}
	return reviews, nil
}

// owned loads review id and checks that p authored it.
func (s *reviewService) owned(ctx context.Context, p model.Principal, id string) (*model.Review, error) {
	review, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: review %s", ErrNotFound, id)
		}
		return nil, err
	}
	if !policy.IsReviewOwner(p, review) {
		return nil, fmt.Errorf("%w: review %s belongs to another user", ErrPermissionDenied, id)
	}
	return review, nil
}

// rollback releases refs uploaded for a write that failed to persist.
func (s *reviewService) rollback(ctx context.Context, reviewID string, refs []string) {
	if len(refs) == 0 {
		return
	}
	logFailures(s.log.With().Str("review_id", reviewID).Logger(), "review_image_rollback", releaseAll(ctx, s.gw, refs))
}
