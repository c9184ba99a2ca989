// Package provider talks to the hosted identity service that issues the
// internal credentials accepted by the rest of the API.
package provider

import (
	"context"
)

// IdentityProvider defines the identity service operations the API delegates to.
type IdentityProvider interface {
	// SendMagicLink emails a one-time sign-in link. createUser controls whether unknown emails sign up.
	SendMagicLink(ctx context.Context, email, redirectTo string, createUser bool) error
	// GetUser returns the user owning accessToken.
	GetUser(ctx context.Context, accessToken string) (*User, error)
	// SignOut revokes the session behind accessToken.
	SignOut(ctx context.Context, accessToken string) error
}
