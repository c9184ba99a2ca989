package tokenstore

import (
	"context"
	"sync"
	"time"

	appErrors "github.com/Gkemhcs/socialbridge-backend/internal/errors"
)

type tokenKey struct {
	userID   string
	provider string
}

// MemoryStore keeps tokens in process memory. Used for development and tests.
type MemoryStore struct {
	mu     sync.RWMutex
	tokens map[tokenKey]ProviderToken
	now    func() time.Time
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		tokens: make(map[tokenKey]ProviderToken),
		now:    time.Now,
	}
}

func (s *MemoryStore) Upsert(_ context.Context, token ProviderToken) (*ProviderToken, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := tokenKey{userID: token.UserID, provider: token.Provider}
	now := s.now()
	token.CreatedAt = now
	if prev, ok := s.tokens[key]; ok {
		token.CreatedAt = prev.CreatedAt
	}
	token.UpdatedAt = now
	s.tokens[key] = token
	return &token, nil
}

func (s *MemoryStore) Get(_ context.Context, userID, provider string) (*ProviderToken, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	token, ok := s.tokens[tokenKey{userID: userID, provider: provider}]
	if !ok {
		return nil, appErrors.ErrTokenNotFound
	}
	return &token, nil
}

func (s *MemoryStore) UpdateAccessToken(_ context.Context, userID, provider string, update TokenUpdate) (*ProviderToken, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := tokenKey{userID: userID, provider: provider}
	token, ok := s.tokens[key]
	if !ok {
		return nil, appErrors.ErrTokenNotFound
	}
	token.AccessToken = update.AccessToken
	if update.RefreshToken != "" {
		token.RefreshToken = update.RefreshToken
	}
	token.ExpiresAt = update.ExpiresAt
	token.UpdatedAt = s.now()
	s.tokens[key] = token
	return &token, nil
}

func (s *MemoryStore) Delete(_ context.Context, userID, provider string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := tokenKey{userID: userID, provider: provider}
	if _, ok := s.tokens[key]; !ok {
		return appErrors.ErrTokenNotFound
	}
	delete(s.tokens, key)
	return nil
}
