package mocks

import (
	"context"

	"reviewapi/internal/model"

	"github.com/stretchr/testify/mock"
)

type MockRatingService struct {
	mock.Mock
}

func (m *MockRatingService) GetCompanyRating(ctx context.Context, companyID string) (*model.CompanyRating, error) {
	args := m.Called(ctx, companyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.CompanyRating), args.Error(1)
}
