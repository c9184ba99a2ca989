package pending

import (
	"context"
	"time"

	pendingdb "github.com/Gkemhcs/socialbridge-backend/internal/oauth/pending/gen"
	"github.com/stretchr/testify/mock"
)

// MockPendingRepository is a mock implementation of the pendingdb.Querier interface
type MockPendingRepository struct {
	mock.Mock
}

// CreatePendingAuthorization mocks the CreatePendingAuthorization method
func (m *MockPendingRepository) CreatePendingAuthorization(ctx context.Context, arg pendingdb.CreatePendingAuthorizationParams) error {
	args := m.Called(ctx, arg)
	return args.Error(0)
}

// ConsumePendingAuthorization mocks the ConsumePendingAuthorization method
func (m *MockPendingRepository) ConsumePendingAuthorization(ctx context.Context, correlationKey string) (pendingdb.PendingAuthorization, error) {
	args := m.Called(ctx, correlationKey)
	if args.Get(0) == nil {
		return pendingdb.PendingAuthorization{}, args.Error(1)
	}
	return args.Get(0).(pendingdb.PendingAuthorization), args.Error(1)
}

// DeleteExpiredPendingAuthorizations mocks the DeleteExpiredPendingAuthorizations method
func (m *MockPendingRepository) DeleteExpiredPendingAuthorizations(ctx context.Context, expiresAt time.Time) (int64, error) {
	args := m.Called(ctx, expiresAt)
	return args.Get(0).(int64), args.Error(1)
}
