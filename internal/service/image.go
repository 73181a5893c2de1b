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

	"reviewapi/internal/model"
	"reviewapi/internal/policy"
	"reviewapi/internal/repository"
	"reviewapi/internal/storage"
)

// ImageService manages the company gallery.
type ImageService interface {
	// UploadCompanyImage stores file as a new gallery image of companyID.
	// The company quota is checked before anything is uploaded, and an upload
	// failure fails the whole operation.
	UploadCompanyImage(ctx context.Context, p model.Principal, companyID string, file model.Upload) (*model.Image, error)

	// DeleteCompanyImage releases the image's media ref and removes the record.
	// A release failure does not block the removal.
	DeleteCompanyImage(ctx context.Context, p model.Principal, id string) error

	GetCompanyImages(ctx context.Context, companyID string) ([]model.Image, error)
}

type imageService struct {
	repo      repository.ImageRepository
	gw        storage.Gateway
	maxImages int
	canDelete policy.ImageDeletePolicy
	log       zerolog.Logger
	now       func() time.Time
}

// NewImageService constructs an ImageService. maxImages is the per-company
// gallery limit and canDelete gates DeleteCompanyImage.
func NewImageService(repo repository.ImageRepository, gw storage.Gateway, maxImages int, canDelete policy.ImageDeletePolicy, log zerolog.Logger) ImageService {
	if canDelete == nil {
		canDelete = policy.AnyAuthenticated
	}
	return &imageService{
		repo:      repo,
		gw:        gw,
		maxImages: maxImages,
		canDelete: canDelete,
		log:       log.With().Str("component", "image_service").Logger(),
		now:       time.Now,
	}
}

func (s *imageService) UploadCompanyImage(ctx context.Context, p model.Principal, companyID string, file model.Upload) (_ *model.Image, err error) {
	ctx, span := tracer.Start(ctx, "ImageService.UploadCompanyImage")
	defer endSpan(span, &err)
	span.SetAttributes(attribute.String("company.id", companyID))

	if strings.TrimSpace(companyID) == "" {
		return nil, fmt.Errorf("%w: company id is required", ErrInvalidArgument)
	}
	if file.Empty() {
		return nil, fmt.Errorf("%w: image is required", ErrInvalidArgument)
	}
	if !p.Authenticated() {
		return nil, ErrUnauthenticated
	}

	count, err := s.repo.CountByCompany(ctx, companyID)
	if err != nil {
		return nil, fmt.Errorf("count company images: %w", err)
	}
	if count >= s.maxImages {
		return nil, fmt.Errorf("%w: company %s already has %d images", ErrResourceExhausted, companyID, count)
	}

	ref, err := s.gw.Upload(ctx, file)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	if ref == "" {
		return nil, fmt.Errorf("%w: %v", ErrUpstream, errEmptyRef)
	}

	img := &model.Image{
		ID:         uuid.NewString(),
		CompanyID:  companyID,
		UploaderID: p.ID,
		MediaRef:   ref,
		CreatedAt:  s.now().UTC(),
	}
	stored, err := s.repo.Create(ctx, img)
	if err != nil {
		if relErr := s.gw.Release(ctx, ref); relErr != nil {
			return nil, fmt.Errorf("save image failed: %v; rollback release failed: %v", err, relErr)
		}
		return nil, fmt.Errorf("save image failed: %w", err)
	}
	return stored, nil
}

func (s *imageService) DeleteCompanyImage(ctx context.Context, p model.Principal, id string) (err error) {
	ctx, span := tracer.Start(ctx, "ImageService.DeleteCompanyImage")
	defer endSpan(span, &err)
	span.SetAttributes(attribute.String("image.id", id))

	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("%w: image id is required", ErrInvalidArgument)
	}
	if !p.Authenticated() {
		return ErrUnauthenticated
	}

	img, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("%w: image %s", ErrNotFound, id)
		}
		return err
	}
	if !s.canDelete(p, img) {
		return fmt.Errorf("%w: image %s was uploaded by another user", ErrPermissionDenied, id)
	}

	if err := s.gw.Release(ctx, img.MediaRef); err != nil {
		s.log.Warn().Err(err).
			Str("event", "company_image_release_failed").
			Str("image_id", id).
			Str("media_ref", img.MediaRef).
			Msg("media release failed, removing record anyway")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete image: %w", err)
	}
	return nil
}

func (s *imageService) GetCompanyImages(ctx context.Context, companyID string) ([]model.Image, error) {
	if strings.TrimSpace(companyID) == "" {
		return nil, fmt.Errorf("%w: company id is required", ErrInvalidArgument)
	}
	images, err := s.repo.ListByCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}
	if images == nil {
		images = []model.Image{}
	}
	return images, nil
}
