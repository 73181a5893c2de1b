package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"reviewapi/internal/cache"
	"reviewapi/internal/model"
	repoMocks "reviewapi/internal/repository/mocks"
)

func TestRoundedMean(t *testing.T) {
	tests := []struct {
		name    string
		ratings []int64
		want    float64
	}{
		{name: "no reviews", want: 0},
		{name: "single", ratings: []int64{5}, want: 5},
		{name: "4 5 3", ratings: []int64{4, 5, 3}, want: 4.0},
		{name: "repeating decimal rounds down", ratings: []int64{4, 4, 5}, want: 4.3},
		{name: "repeating decimal rounds up", ratings: []int64{4, 5, 5}, want: 4.7},
		{name: "tie rounds to even below", ratings: []int64{4, 4, 4, 5}, want: 4.2},
		{name: "tie rounds to even above", ratings: []int64{4, 5, 5, 5}, want: 4.8},
		{name: "exact half", ratings: []int64{4, 5}, want: 4.5},
		{name: "tie at one", ratings: []int64{1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 2}, want: 1.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var s model.RatingStats
			for _, r := range tt.ratings {
				s.Sum += r
				s.Count++
			}
			assert.Equal(t, tt.want, RoundedMean(s))
		})
	}
}

func TestRatingService_GetCompanyRating(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name       string
		companyID  string
		setupMocks func(mRepo *repoMocks.MockReviewRepository)
		want       *model.CompanyRating
		wantErr    error
		wantErrMsg string
	}{
		{
			name:      "mean of reviews",
			companyID: "acme",
			setupMocks: func(mRepo *repoMocks.MockReviewRepository) {
				mRepo.On("RatingStats", mock.Anything, "acme").Return(model.RatingStats{Sum: 12, Count: 3}, nil)
			},
			want: &model.CompanyRating{Rating: 4.0, ReviewCount: 3},
		},
		{
			name:      "no reviews is not an error",
			companyID: "empty-co",
			setupMocks: func(mRepo *repoMocks.MockReviewRepository) {
				mRepo.On("RatingStats", mock.Anything, "empty-co").Return(model.RatingStats{}, nil)
			},
			want: &model.CompanyRating{Rating: 0, ReviewCount: 0, Message: NoReviewsMessage},
		},
		{
			name:       "empty company id",
			companyID:  " ",
			setupMocks: func(mRepo *repoMocks.MockReviewRepository) {},
			wantErr:    ErrInvalidArgument,
		},
		{
			name:      "repository error",
			companyID: "acme",
			setupMocks: func(mRepo *repoMocks.MockReviewRepository) {
				mRepo.On("RatingStats", mock.Anything, "acme").Return(model.RatingStats{}, errors.New("db down"))
			},
			wantErrMsg: "load rating stats: db down",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mRepo := new(repoMocks.MockReviewRepository)
			svc := NewRatingService(mRepo, cache.Noop{}, time.Minute, zerolog.Nop())
			tt.setupMocks(mRepo)

			got, err := svc.GetCompanyRating(ctx, tt.companyID)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, got)
			} else if tt.wantErrMsg != "" {
				assert.EqualError(t, err, tt.wantErrMsg)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.want, got)
			}
			mRepo.AssertExpectations(t)
		})
	}
}

func TestRatingService_ReadsThroughCache(t *testing.T) {
	ctx := context.Background()
	c, mr := newRedisCache(t)
	mRepo := new(repoMocks.MockReviewRepository)
	mRepo.On("RatingStats", mock.Anything, "acme").Return(model.RatingStats{Sum: 9, Count: 2}, nil).Once()

	svc := NewRatingService(mRepo, c, time.Minute, zerolog.Nop())

	first, err := svc.GetCompanyRating(ctx, "acme")
	require.NoError(t, err)
	second, err := svc.GetCompanyRating(ctx, "acme")
	require.NoError(t, err)

	assert.Equal(t, &model.CompanyRating{Rating: 4.5, ReviewCount: 2}, first)
	assert.Equal(t, first, second)
	assert.True(t, mr.Exists(RatingCacheKey("acme", 0)))
	assert.Equal(t, time.Minute, mr.TTL(RatingCacheKey("acme", 0)))
	mRepo.AssertExpectations(t)
}

func TestRatingService_WriteDuringLoadIsNotMasked(t *testing.T) {
	ctx := context.Background()
	c, mr := newRedisCache(t)
	mRepo := new(repoMocks.MockReviewRepository)

	// A review for acme commits while the first read is still aggregating.
	mRepo.On("RatingStats", mock.Anything, "acme").
		Run(func(mock.Arguments) {
			invalidateRatings(ctx, c, zerolog.Nop(), "acme")
		}).
		Return(model.RatingStats{Sum: 4, Count: 1}, nil).Once()
	mRepo.On("RatingStats", mock.Anything, "acme").
		Return(model.RatingStats{Sum: 9, Count: 2}, nil).Once()

	svc := NewRatingService(mRepo, c, time.Minute, zerolog.Nop())

	first, err := svc.GetCompanyRating(ctx, "acme")
	require.NoError(t, err)
	assert.Equal(t, &model.CompanyRating{Rating: 4, ReviewCount: 1}, first)

	second, err := svc.GetCompanyRating(ctx, "acme")
	require.NoError(t, err)
	assert.Equal(t, &model.CompanyRating{Rating: 4.5, ReviewCount: 2}, second)

	third, err := svc.GetCompanyRating(ctx, "acme")
	require.NoError(t, err)
	assert.Equal(t, second, third)
	assert.True(t, mr.Exists(RatingCacheKey("acme", 1)))
	mRepo.AssertExpectations(t)
}

func TestRatingService_CorruptVersionSkipsCache(t *testing.T) {
	ctx := context.Background()
	c, mr := newRedisCache(t)
	require.NoError(t, mr.Set(RatingVersionKey("acme"), "not-a-number"))

	mRepo := new(repoMocks.MockReviewRepository)
	mRepo.On("RatingStats", mock.Anything, "acme").Return(model.RatingStats{Sum: 3, Count: 1}, nil).Twice()

	svc := NewRatingService(mRepo, c, time.Minute, zerolog.Nop())
	for i := 0; i < 2; i++ {
		got, err := svc.GetCompanyRating(ctx, "acme")
		require.NoError(t, err)
		assert.Equal(t, &model.CompanyRating{Rating: 3, ReviewCount: 1}, got)
	}

	assert.False(t, mr.Exists(RatingCacheKey("acme", 0)))
	mRepo.AssertExpectations(t)
}

func TestRatingService_CacheDownFallsBackToRepository(t *testing.T) {
	ctx := context.Background()
	c, mr := newRedisCache(t)
	mr.Close()

	mRepo := new(repoMocks.MockReviewRepository)
	mRepo.On("RatingStats", mock.Anything, "acme").Return(model.RatingStats{Sum: 5, Count: 1}, nil)

	svc := NewRatingService(mRepo, c, time.Minute, zerolog.Nop())
	got, err := svc.GetCompanyRating(ctx, "acme")

	require.NoError(t, err)
	assert.Equal(t, &model.CompanyRating{Rating: 5, ReviewCount: 1}, got)
}

func TestInvalidateRatings(t *testing.T) {
	ctx := context.Background()
	c, mr := newRedisCache(t)
	require.NoError(t, mr.Set(RatingVersionKey("a"), "3"))

	invalidateRatings(ctx, c, zerolog.Nop(), "a", "b", "a", "")

	a, err := mr.Get(RatingVersionKey("a"))
	require.NoError(t, err)
	assert.Equal(t, "4", a)
	b, err := mr.Get(RatingVersionKey("b"))
	require.NoError(t, err)
	assert.Equal(t, "1", b)
	assert.False(t, mr.Exists(RatingVersionKey("c")))
}
