package mocks

import (
	"context"
	"io"

	"reviewapi/internal/storage"

	"github.com/stretchr/testify/mock"
)

type MockObjectStore struct {
	mock.Mock
}

// PutObject accepts either a StoredObject or a func building one from the call.
func (m *MockObjectStore) PutObject(ctx context.Context, key string, r io.Reader, opt storage.PutOptions) (storage.StoredObject, error) {
	args := m.Called(ctx, key, r, opt)
	switch v := args.Get(0).(type) {
	case func(context.Context, string, io.Reader, storage.PutOptions) storage.StoredObject:
		return v(ctx, key, r, opt), args.Error(1)
	case storage.StoredObject:
		return v, args.Error(1)
	}
	return storage.StoredObject{}, args.Error(1)
}

func (m *MockObjectStore) RemoveObject(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}
