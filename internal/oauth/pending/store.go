// Package pending holds flow state between the redirect to a provider and
// the callback from it. Records are consumed exactly once and expire after a TTL.
package pending

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"time"
)

// DefaultTTL bounds how long an abandoned flow may linger.
const DefaultTTL = 10 * time.Minute

// KeySize is the number of random bytes behind every generated key.
const KeySize = 32

// Record is one in-flight authorization.
// Key is the OAuth2 state or the OAuth1 request token. Secret is the PKCE
// verifier, the request-token secret, or empty.
type Record struct {
	Key       string
	Provider  string
	UserID    string
	Secret    string
	CreatedAt time.Time
	ExpiresAt time.Time
}

// Expired reports whether the record is past its lifetime at now.
func (r *Record) Expired(now time.Time) bool {
	return !now.Before(r.ExpiresAt)
}

// Store is shared by every adapter. Consume deletes the record before
// returning it, so a replayed callback finds nothing.
// Consume returns errors.ErrInvalidFlowState for unknown, reused or expired keys.
type Store interface {
	Save(ctx context.Context, rec Record) error
	Consume(ctx context.Context, key string) (*Record, error)
}

// NewKey returns a URL-safe random key of KeySize bytes.
func NewKey() (string, error) {
	return RandomString(KeySize)
}

// RandomString returns n random bytes encoded as unpadded base64url.
func RandomString(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to read random bytes: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
