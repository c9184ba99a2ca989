package provider

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockIdentityProvider is a mock implementation of IdentityProvider.
type MockIdentityProvider struct {
	mock.Mock
}

func (m *MockIdentityProvider) SendMagicLink(ctx context.Context, email, redirectTo string, createUser bool) error {
	args := m.Called(ctx, email, redirectTo, createUser)
	return args.Error(0)
}

func (m *MockIdentityProvider) GetUser(ctx context.Context, accessToken string) (*User, error) {
	args := m.Called(ctx, accessToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*User), args.Error(1)
}

func (m *MockIdentityProvider) SignOut(ctx context.Context, accessToken string) error {
	args := m.Called(ctx, accessToken)
	return args.Error(0)
}
