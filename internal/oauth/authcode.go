package oauth

import (
	"context"
	"net/url"

	"github.com/Gkemhcs/socialbridge-backend/internal/config"
	appErrors "github.com/Gkemhcs/socialbridge-backend/internal/errors"
	"github.com/Gkemhcs/socialbridge-backend/internal/oauth/pending"
	"github.com/Gkemhcs/socialbridge-backend/internal/tokenstore"
)

// AuthCodeAdapter runs the OAuth 2.0 authorization-code flow with a client secret.
//
// With the nonce state binding, state is a random key whose pending record holds
// the user id. With the credential binding, state is the caller's own credential
// and is resolved again on the way back; this exists for clients built against
// earlier deployments.
type AuthCodeAdapter struct {
	oauth2Base
}

// NewAuthCodeAdapter creates an adapter for YouTube, LinkedIn, Instagram and similar providers.
func NewAuthCodeAdapter(cfg config.ProviderConfig, deps Deps) *AuthCodeAdapter {
	return &AuthCodeAdapter{oauth2Base: newOAuth2Base(cfg, deps)}
}

// BeginAuthorization builds the provider's authorization URL for the caller.
func (a *AuthCodeAdapter) BeginAuthorization(ctx context.Context, credential string) (*Authorization, error) {
	userID, err := a.resolve(credential)
	if err != nil {
		return nil, err
	}

	state := credential
	if a.cfg.StateBinding != config.StateBindingCredential {
		state, err = pending.NewKey()
		if err != nil {
			return nil, appErrors.Wrapf(appErrors.ErrInternalServer, a.Name(), err, "generate state")
		}
		err = a.pending.Save(ctx, pending.Record{Key: state, Provider: a.Name(), UserID: userID})
		if err != nil {
			return nil, err
		}
	}

	return &Authorization{
		AuthURL: a.oauth.AuthCodeURL(state, a.authParams()...),
		State:   state,
		UserID:  userID,
	}, nil
}

// HandleCallback binds the callback to a user, exchanges the code and stores the token.
// In nonce mode the pending record is consumed before anything else is checked.
func (a *AuthCodeAdapter) HandleCallback(ctx context.Context, cb Callback) (*tokenstore.ProviderToken, error) {
	userID, bindErr := a.bindState(ctx, cb.State)
	if cb.Error != "" {
		return nil, callbackError(a.Name(), cb)
	}
	if cb.Code == "" {
		return nil, appErrors.ErrMissingParameters
	}
	if bindErr != nil {
		return nil, bindErr
	}

	result, err := a.exchange(ctx, cb.Code)
	if err != nil {
		return nil, err
	}

	a.log("AuthCodeAdapter.HandleCallback").WithField("user_id", userID).Info("authorization code exchanged")
	return a.upsert(ctx, userID, result)
}

func (a *AuthCodeAdapter) bindState(ctx context.Context, state string) (string, error) {
	if a.cfg.StateBinding == config.StateBindingCredential {
		if state == "" {
			return "", appErrors.ErrMissingParameters
		}
		credential, err := url.QueryUnescape(state)
		if err != nil {
			return "", appErrors.ErrUnauthenticated
		}
		return a.resolve(credential)
	}

	rec, err := a.consume(ctx, state)
	if err != nil {
		return "", err
	}
	return rec.UserID, nil
}
