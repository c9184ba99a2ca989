package jwt

import (
	"errors"
	"strings"
	"time"

	jwtx "github.com/golang-jwt/jwt/v4"
)

var (
	errMissingSubject = errors.New("token has no subject")
	errMissingExpiry  = errors.New("token has no expiry")
)

// Manager verifies internal credentials with the shared identity-service secret.
type Manager struct {
	secretKey     string
	tokenDuration time.Duration
	now           func() time.Time
}

// NewManager creates a new JWT Manager with the given secret key and token duration.
func NewManager(secretKey string, tokenDuration time.Duration) *Manager {
	return &Manager{
		secretKey:     secretKey,
		tokenDuration: tokenDuration,
		now:           time.Now,
	}
}

// Generate creates a signed JWT token string using the provided parameters.
func (m *Manager) Generate(params CreateJwtParams) (string, error) {
	now := m.now()
	claims := &Claims{
		Email: params.Email,
		Role:  params.Role,
		RegisteredClaims: jwtx.RegisteredClaims{
			Subject:   params.UserID,
			ExpiresAt: jwtx.NewNumericDate(now.Add(m.tokenDuration)),
			IssuedAt:  jwtx.NewNumericDate(now),
		},
	}
	token := jwtx.NewWithClaims(jwtx.SigningMethodHS256, claims)
	return token.SignedString([]byte(m.secretKey))
}

// Verify parses and validates a JWT token string, returning the claims if valid.
// Only HMAC-signed tokens are accepted.
func (m *Manager) Verify(tokenStr string) (*Claims, error) {
	token, err := jwtx.ParseWithClaims(tokenStr, &Claims{}, func(token *jwtx.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwtx.SigningMethodHMAC); !ok {
			return nil, jwtx.ErrTokenSignatureInvalid
		}
		return []byte(m.secretKey), nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, jwtx.ErrTokenInvalidClaims
	}
	if strings.TrimSpace(claims.Subject) == "" {
		return nil, errMissingSubject
	}
	// jwt/v4 treats exp as optional
	if claims.ExpiresAt == nil {
		return nil, errMissingExpiry
	}
	return claims, nil
}

// Resolve returns the user id a credential represents. Malformed, tampered or
// expired credentials resolve to no user; it never reports an error.
func (m *Manager) Resolve(credential string) (string, bool) {
	credential = strings.TrimSpace(credential)
	if credential == "" || m.secretKey == "" {
		return "", false
	}
	claims, err := m.Verify(credential)
	if err != nil {
		return "", false
	}
	return claims.Subject, true
}
