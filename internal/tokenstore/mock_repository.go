package tokenstore

import (
	"context"

	tokendb "github.com/Gkemhcs/socialbridge-backend/internal/tokenstore/gen"
	"github.com/stretchr/testify/mock"
)

// MockTokenRepository is a mock implementation of the tokendb.Querier interface
type MockTokenRepository struct {
	mock.Mock
}

// UpsertProviderToken mocks the UpsertProviderToken method
func (m *MockTokenRepository) UpsertProviderToken(ctx context.Context, arg tokendb.UpsertProviderTokenParams) (tokendb.ProviderToken, error) {
	args := m.Called(ctx, arg)
	if args.Get(0) == nil {
		return tokendb.ProviderToken{}, args.Error(1)
	}
	if fn, ok := args.Get(0).(func(context.Context, tokendb.UpsertProviderTokenParams) tokendb.ProviderToken); ok {
		return fn(ctx, arg), args.Error(1)
	}
	return args.Get(0).(tokendb.ProviderToken), args.Error(1)
}

// GetProviderToken mocks the GetProviderToken method
func (m *MockTokenRepository) GetProviderToken(ctx context.Context, arg tokendb.GetProviderTokenParams) (tokendb.ProviderToken, error) {
	args := m.Called(ctx, arg)
	if args.Get(0) == nil {
		return tokendb.ProviderToken{}, args.Error(1)
	}
	return args.Get(0).(tokendb.ProviderToken), args.Error(1)
}

// UpdateProviderAccessToken mocks the UpdateProviderAccessToken method
func (m *MockTokenRepository) UpdateProviderAccessToken(ctx context.Context, arg tokendb.UpdateProviderAccessTokenParams) (tokendb.ProviderToken, error) {
	args := m.Called(ctx, arg)
	if args.Get(0) == nil {
		return tokendb.ProviderToken{}, args.Error(1)
	}
	return args.Get(0).(tokendb.ProviderToken), args.Error(1)
}

// DeleteProviderToken mocks the DeleteProviderToken method
func (m *MockTokenRepository) DeleteProviderToken(ctx context.Context, arg tokendb.DeleteProviderTokenParams) (int64, error) {
	args := m.Called(ctx, arg)
	return args.Get(0).(int64), args.Error(1)
}
