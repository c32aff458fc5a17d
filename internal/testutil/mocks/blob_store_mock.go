package mocks

import (
	"context"
	"io"

	"github.com/stretchr/testify/mock"
)

// MockBlobStore is a mock implementation of storage.BlobStore
type MockBlobStore struct {
	mock.Mock
}

func (m *MockBlobStore) Upload(ctx context.Context, path, contentType string, body io.Reader) error {
	args := m.Called(ctx, path, contentType, body)
	return args.Error(0)
}

func (m *MockBlobStore) PublicURL(path string) string {
	args := m.Called(path)
	return args.String(0)
}
