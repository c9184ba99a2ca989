package jwt

import (
	jwtx "github.com/golang-jwt/jwt/v4"
)

// Claims is the subset of the identity service's access-token claims this service reads.
// The internal user id travels in the standard "sub" claim.
type Claims struct {
	Email                 string `json:"email,omitempty"` // User email address
	Role                  string `json:"role,omitempty"`  // Identity-service role, e.g. "authenticated"
	jwtx.RegisteredClaims        // Embedded standard JWT claims
}

// CreateJwtParams contains the parameters required to mint a credential (tests and tooling only;
// production credentials are issued by the identity service).
type CreateJwtParams struct {
	UserID string // Becomes the "sub" claim
	Email  string // User email address
	Role   string // Identity-service role
}
