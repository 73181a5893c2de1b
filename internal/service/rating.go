package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"

	"reviewapi/internal/cache"
	"reviewapi/internal/model"
	"reviewapi/internal/repository"
)

// NoReviewsMessage accompanies the rating of a company nobody has reviewed.
const NoReviewsMessage = "no reviews for this company yet"

// RatingService computes the aggregate rating of a company.
type RatingService interface {
	// GetCompanyRating returns the mean rating, rounded to one decimal place
	// half to even, and the review count. A company without reviews yields
	// a zero rating, not an error.
	GetCompanyRating(ctx context.Context, companyID string) (*model.CompanyRating, error)
}

type ratingService struct {
	repo  repository.ReviewRepository
	cache cache.Cache
	ttl   time.Duration
	log   zerolog.Logger
}

// NewRatingService constructs a RatingService reading through c.
func NewRatingService(repo repository.ReviewRepository, c cache.Cache, ttl time.Duration, log zerolog.Logger) RatingService {
	return &ratingService{
		repo:  repo,
		cache: c,
		ttl:   ttl,
		log:   log.With().Str("component", "rating_service").Logger(),
	}
}

// RatingVersionKey holds the generation of a company's cached rating. Every
// committed review write for the company bumps it.
func RatingVersionKey(companyID string) string {
	return "rating:" + companyID + ":version"
}

// RatingCacheKey is the cache key of a company's rating at a given generation.
func RatingCacheKey(companyID string, version int64) string {
	return "rating:" + companyID + ":v" + strconv.FormatInt(version, 10)
}

func (s *ratingService) GetCompanyRating(ctx context.Context, companyID string) (_ *model.CompanyRating, err error) {
	ctx, span := tracer.Start(ctx, "RatingService.GetCompanyRating")
	defer endSpan(span, &err)
	span.SetAttributes(attribute.String("company.id", companyID))

	if strings.TrimSpace(companyID) == "" {
		return nil, fmt.Errorf("%w: company id is required", ErrInvalidArgument)
	}

	// The generation is read before the stats. A write committing during the
	// load bumps it, so this fill is stored under a key nobody reads again.
	version, verr := s.cache.Version(ctx, RatingVersionKey(companyID))
	if verr != nil {
		s.log.Warn().Err(verr).Str("company_id", companyID).Msg("rating cache version read failed")
	}
	key := RatingCacheKey(companyID, version)

	if verr == nil {
		var cached model.CompanyRating
		if found, cerr := s.cache.Get(ctx, key, &cached); cerr != nil {
			s.log.Warn().Err(cerr).Str("cache_key", key).Msg("rating cache read failed")
		} else if found {
			return &cached, nil
		}
	}

	stats, err := s.repo.RatingStats(ctx, companyID)
	if err != nil {
		return nil, fmt.Errorf("load rating stats: %w", err)
	}

	rating := &model.CompanyRating{
		Rating:      RoundedMean(stats),
		ReviewCount: int(stats.Count),
	}
	if stats.Count == 0 {
		rating.Message = NoReviewsMessage
	}

	if verr == nil {
		if cerr := s.cache.Set(ctx, key, rating, s.ttl); cerr != nil {
			s.log.Warn().Err(cerr).Str("cache_key", key).Msg("rating cache write failed")
		}
	}
	return rating, nil
}

// RoundedMean returns Sum/Count rounded to one decimal place, ties to even.
// It works on integers so that means such as 4.25 and 4.75 round exactly.
func RoundedMean(s model.RatingStats) float64 {
	if s.Count <= 0 {
		return 0
	}
	n := s.Sum * 10
	q, r := n/s.Count, n%s.Count
	switch {
	case 2*r > s.Count:
		q++
	case 2*r == s.Count && q%2 != 0:
		q++
	}
	return float64(q) / 10
}

// invalidateRatings moves the given companies to a new rating generation.
// It must run after the write is committed. Failures are logged, never returned.
func invalidateRatings(ctx context.Context, c cache.Cache, log zerolog.Logger, companyIDs ...string) {
	keys := make([]string, 0, len(companyIDs))
	seen := make(map[string]struct{}, len(companyIDs))
	for _, id := range companyIDs {
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		keys = append(keys, RatingVersionKey(id))
	}
	if len(keys) == 0 {
		return
	}
	if err := c.Bump(ctx, keys...); err != nil {
		log.Warn().Err(err).Strs("cache_keys", keys).Msg("rating cache invalidation failed")
	}
}
