package pending

import (
	"context"
	"sync"
	"time"

	appErrors "github.com/Gkemhcs/socialbridge-backend/internal/errors"
)

// MemoryStore is a single-instance Store. Expired entries are swept on Save; a live key is never overwritten.
type MemoryStore struct {
	mu      sync.Mutex
	records map[string]Record
	ttl     time.Duration
	now     func() time.Time
}

// NewMemoryStore creates a MemoryStore; a non-positive ttl falls back to DefaultTTL.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &MemoryStore{
		records: make(map[string]Record),
		ttl:     ttl,
		now:     time.Now,
	}
}

func (s *MemoryStore) Save(_ context.Context, rec Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for key, r := range s.records {
		if r.Expired(now) {
			delete(s.records, key)
		}
	}

	if _, exists := s.records[rec.Key]; exists {
		return appErrors.NewProviderError(appErrors.ErrPendingStoreFailed, rec.Provider, "correlation key collision", nil)
	}

	rec.CreatedAt = now
	rec.ExpiresAt = now.Add(s.ttl)
	s.records[rec.Key] = rec
	return nil
}

func (s *MemoryStore) Consume(_ context.Context, key string) (*Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[key]
	if !ok {
		return nil, appErrors.ErrInvalidFlowState
	}
	delete(s.records, key)
	if rec.Expired(s.now()) {
		return nil, appErrors.ErrInvalidFlowState
	}
	return &rec, nil
}

// Len reports how many records are held, expired ones included.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records)
}
