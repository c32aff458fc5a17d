package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/vytor/skillswap/internal/models"
)

// MockAuthProvider is a mock implementation of session.AuthProvider
type MockAuthProvider struct {
	mock.Mock
}

func (m *MockAuthProvider) SendMagicLink(ctx context.Context, email, redirectTo, codeChallenge string) error {
	args := m.Called(ctx, email, redirectTo, codeChallenge)
	return args.Error(0)
}

func (m *MockAuthProvider) ExchangeCode(ctx context.Context, code, codeVerifier string) (*models.Session, error) {
	args := m.Called(ctx, code, codeVerifier)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Session), args.Error(1)
}

func (m *MockAuthProvider) Refresh(ctx context.Context, refreshToken string) (*models.Session, error) {
	args := m.Called(ctx, refreshToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Session), args.Error(1)
}

func (m *MockAuthProvider) GetUser(ctx context.Context, accessToken string) (*models.User, error) {
	args := m.Called(ctx, accessToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockAuthProvider) SignOut(ctx context.Context, accessToken string) error {
	args := m.Called(ctx, accessToken)
	return args.Error(0)
}
