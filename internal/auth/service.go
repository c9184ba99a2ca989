package auth

import (
	"context"
	"errors"
	"net/http"

	"github.com/Gkemhcs/socialbridge-backend/internal/auth/provider"
	appErrors "github.com/Gkemhcs/socialbridge-backend/internal/errors"
	"github.com/sirupsen/logrus"
)

// AuthService delegates account flows to the identity service.
// Sign-in itself happens in the identity service; this API only consumes the
// credentials it issues.
type AuthService struct {
	provider          provider.IdentityProvider
	signupRedirectURL string
	signinRedirectURL string
	logger            *logrus.Logger
}

// NewAuthService creates a new AuthService.
func NewAuthService(p provider.IdentityProvider, signupRedirectURL, signinRedirectURL string, logger *logrus.Logger) *AuthService {
	return &AuthService{
		provider:          p,
		signupRedirectURL: signupRedirectURL,
		signinRedirectURL: signinRedirectURL,
		logger:            logger,
	}
}

// Signup emails a magic link that creates the account on first use.
func (s *AuthService) Signup(ctx context.Context, email string) error {
	if err := s.provider.SendMagicLink(ctx, email, s.signupRedirectURL, true); err != nil {
		s.logger.WithFields(logrus.Fields{"method": "Signup", "error": err.Error()}).Error("magic link request failed")
		return identityError(err, http.StatusBadRequest)
	}
	return nil
}

// Signin emails a magic link for an existing account only.
func (s *AuthService) Signin(ctx context.Context, email string) error {
	if err := s.provider.SendMagicLink(ctx, email, s.signinRedirectURL, false); err != nil {
		s.logger.WithFields(logrus.Fields{"method": "Signin", "error": err.Error()}).Error("magic link request failed")
		return identityError(err, http.StatusBadRequest)
	}
	return nil
}

// Signout revokes the caller's session. Without a credential there is nothing to revoke.
func (s *AuthService) Signout(ctx context.Context, accessToken string) error {
	if accessToken == "" {
		return nil
	}
	if err := s.provider.SignOut(ctx, accessToken); err != nil {
		s.logger.WithFields(logrus.Fields{"method": "Signout", "error": err.Error()}).Error("sign out failed")
		return identityError(err, http.StatusBadRequest)
	}
	return nil
}

// GetUser returns the identity service's user for accessToken.
func (s *AuthService) GetUser(ctx context.Context, accessToken string) (*provider.User, error) {
	if accessToken == "" {
		return nil, appErrors.ErrIdentityTokenRequired
	}
	user, err := s.provider.GetUser(ctx, accessToken)
	if err != nil {
		s.logger.WithFields(logrus.Fields{"method": "GetUser", "error": err.Error()}).Warn("user lookup failed")
		return nil, identityError(err, http.StatusUnauthorized)
	}
	if user == nil {
		return nil, appErrors.ErrIdentityUserNotFound
	}
	return user, nil
}

// identityError renders a rejection by the identity service with rejectedStatus and
// anything else (transport failures, 5xx) as a server error.
func identityError(err error, rejectedStatus int) error {
	var perr *provider.Error
	if errors.As(err, &perr) && perr.StatusCode < http.StatusInternalServerError {
		return appErrors.NewAPIError(appErrors.ErrIdentityServiceFailed.Code, perr.Message, rejectedStatus)
	}
	return appErrors.ErrIdentityServiceFailed
}
