package oauth

import (
	"context"

	"github.com/Gkemhcs/socialbridge-backend/internal/config"
	appErrors "github.com/Gkemhcs/socialbridge-backend/internal/errors"
	"github.com/Gkemhcs/socialbridge-backend/internal/oauth/pending"
	"github.com/Gkemhcs/socialbridge-backend/internal/tokenstore"
	"golang.org/x/oauth2"
)

// PKCEAdapter runs the OAuth 2.0 authorization-code flow with an S256 code challenge.
// Only the challenge and state leave the process; the verifier and user id stay in the pending record.
type PKCEAdapter struct {
	oauth2Base
}

// NewPKCEAdapter creates an adapter for a PKCE provider such as Twitter OAuth 2.0.
func NewPKCEAdapter(cfg config.ProviderConfig, deps Deps) *PKCEAdapter {
	return &PKCEAdapter{oauth2Base: newOAuth2Base(cfg, deps)}
}

// BeginAuthorization generates state and verifier, records them and returns the authorization URL.
func (a *PKCEAdapter) BeginAuthorization(ctx context.Context, credential string) (*Authorization, error) {
	userID, err := a.resolve(credential)
	if err != nil {
		return nil, err
	}

	state, err := pending.NewKey()
	if err != nil {
		return nil, appErrors.Wrapf(appErrors.ErrInternalServer, a.Name(), err, "generate state")
	}
	verifier := oauth2.GenerateVerifier()

	err = a.pending.Save(ctx, pending.Record{
		Key:      state,
		Provider: a.Name(),
		UserID:   userID,
		Secret:   verifier,
	})
	if err != nil {
		return nil, err
	}

	opts := append(a.authParams(), oauth2.S256ChallengeOption(verifier))
	return &Authorization{
		AuthURL: a.oauth.AuthCodeURL(state, opts...),
		State:   state,
		UserID:  userID,
	}, nil
}

// HandleCallback consumes the pending record for state and redeems the code with its verifier.
func (a *PKCEAdapter) HandleCallback(ctx context.Context, cb Callback) (*tokenstore.ProviderToken, error) {
	rec, err := a.consume(ctx, cb.State)
	if cb.Error != "" && cb.State != "" {
		return nil, callbackError(a.Name(), cb)
	}
	if err != nil {
		return nil, err
	}
	if cb.Code == "" {
		return nil, appErrors.ErrMissingParameters
	}

	result, err := a.exchange(ctx, cb.Code, oauth2.VerifierOption(rec.Secret))
	if err != nil {
		return nil, err
	}

	a.log("PKCEAdapter.HandleCallback").WithField("user_id", rec.UserID).Info("authorization code exchanged")
	return a.upsert(ctx, rec.UserID, result)
}
