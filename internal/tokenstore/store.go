package tokenstore

import (
	"context"
	"time"
)

// ProviderToken is the credential a user holds for one provider.
// AccessTokenSecret is only set for OAuth1 providers.
type ProviderToken struct {
	UserID            string
	Provider          string
	AccessToken       string
	AccessTokenSecret string
	RefreshToken      string
	ProviderAccountID string
	ExpiresAt         time.Time
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// HasRefreshToken reports whether the token can be renewed without the user.
func (t *ProviderToken) HasRefreshToken() bool {
	return t.RefreshToken != ""
}

// ExpiresWithin reports whether the access token expires before now+skew.
// A token with no known expiry never reports as expiring.
func (t *ProviderToken) ExpiresWithin(now time.Time, skew time.Duration) bool {
	if t.ExpiresAt.IsZero() {
		return false
	}
	return !now.Add(skew).Before(t.ExpiresAt)
}

// TokenUpdate carries the result of a refresh. An empty RefreshToken keeps the stored one.
type TokenUpdate struct {
	AccessToken  string
	RefreshToken string
	ExpiresAt    time.Time
}

// Store persists at most one ProviderToken per (user, provider).
// Get, UpdateAccessToken and Delete return errors.ErrTokenNotFound when no row exists.
type Store interface {
	Upsert(ctx context.Context, token ProviderToken) (*ProviderToken, error)
	Get(ctx context.Context, userID, provider string) (*ProviderToken, error)
	UpdateAccessToken(ctx context.Context, userID, provider string, update TokenUpdate) (*ProviderToken, error)
	Delete(ctx context.Context, userID, provider string) error
}
