package mocks

import (
	"context"

	"reviewapi/internal/model"
	"reviewapi/internal/service"

	"github.com/stretchr/testify/mock"
)

type MockReviewService struct {
	mock.Mock
}

func (m *MockReviewService) CreateReview(ctx context.Context, p model.Principal, in service.ReviewInput, images []model.Upload) (*model.Review, error) {
	args := m.Called(ctx, p, in, images)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Review), args.Error(1)
}

func (m *MockReviewService) UpdateReview(ctx context.Context, p model.Principal, id string, in service.ReviewInput, images model.ImageUpdate) (*model.Review, error) {
	args := m.Called(ctx, p, id, in, images)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Review), args.Error(1)
}

func (m *MockReviewService) DeleteReview(ctx context.Context, p model.Principal, id string) error {
	args := m.Called(ctx, p, id)
	return args.Error(0)
}

func (m *MockReviewService) GetReviewsByCompany(ctx context.Context, companyID string) ([]model.Review, error) {
	args := m.Called(ctx, companyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Review), args.Error(1)
}

func (m *MockReviewService) GetReviewsByUser(ctx context.Context, p model.Principal) ([]model.Review, error) {
	args := m.Called(ctx, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Review), args.Error(1)
}
