package mocks

import (
	"context"
	"io"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockObjectStore records uploads instead of sending them to S3. The body is
// drained so callers can assert on its size.
type MockObjectStore struct {
	mock.Mock
	Bodies map[string][]byte
}

func (m *MockObjectStore) Upload(ctx context.Context, key, contentType string, body io.Reader) (string, error) {
	data, err := io.ReadAll(body)
	if err != nil {
		return "", err
	}
	if m.Bodies == nil {
		m.Bodies = map[string][]byte{}
	}
	m.Bodies[key] = data

	args := m.Called(ctx, key, contentType)
	return args.String(0), args.Error(1)
}

// MockImageService is a mock implementation of the IImageService interface
type MockImageService struct {
	mock.Mock
}

func (m *MockImageService) UploadAvatar(ctx context.Context, userID uuid.UUID, file io.Reader) (string, error) {
	args := m.Called(ctx, userID)
	return args.String(0), args.Error(1)
}

func (m *MockImageService) UploadRecipeImage(ctx context.Context, recipeID uuid.UUID, contentType string, file io.Reader) (string, error) {
	args := m.Called(ctx, recipeID, contentType)
	return args.String(0), args.Error(1)
}
