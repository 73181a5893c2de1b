package mocks

import (
	"context"

	"reviewapi/internal/model"

	"github.com/stretchr/testify/mock"
)

type MockGateway struct {
	mock.Mock
}

func (m *MockGateway) Upload(ctx context.Context, u model.Upload) (string, error) {
	args := m.Called(ctx, u)
	return args.String(0), args.Error(1)
}

func (m *MockGateway) Release(ctx context.Context, ref string) error {
	args := m.Called(ctx, ref)
	return args.Error(0)
}
