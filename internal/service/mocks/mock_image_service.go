package mocks

import (
	"context"

	"reviewapi/internal/model"

	"github.com/stretchr/testify/mock"
)

type MockImageService struct {
	mock.Mock
}

func (m *MockImageService) UploadCompanyImage(ctx context.Context, p model.Principal, companyID string, file model.Upload) (*model.Image, error) {
	args := m.Called(ctx, p, companyID, file)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Image), args.Error(1)
}

func (m *MockImageService) DeleteCompanyImage(ctx context.Context, p model.Principal, id string) error {
	args := m.Called(ctx, p, id)
	return args.Error(0)
}

func (m *MockImageService) GetCompanyImages(ctx context.Context, companyID string) ([]model.Image, error) {
	args := m.Called(ctx, companyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Image), args.Error(1)
}
