package oauth

import (
	"context"
	"net/http"

	"github.com/Gkemhcs/socialbridge-backend/internal/config"
	appErrors "github.com/Gkemhcs/socialbridge-backend/internal/errors"
	"github.com/Gkemhcs/socialbridge-backend/internal/oauth/pending"
	"github.com/Gkemhcs/socialbridge-backend/internal/tokenstore"
	"github.com/dghubble/oauth1"
)

// OAuth1Adapter runs the three-legged OAuth 1.0a handshake.
// The request token is the correlation key; its secret and the user id stay server-side.
type OAuth1Adapter struct {
	base
	config *oauth1.Config
}

// NewOAuth1Adapter creates an adapter for an OAuth 1.0a provider such as Twitter.
func NewOAuth1Adapter(cfg config.ProviderConfig, deps Deps) *OAuth1Adapter {
	b := newBase(cfg, deps)
	return &OAuth1Adapter{
		base: b,
		config: &oauth1.Config{
			ConsumerKey:    cfg.ClientID,
			ConsumerSecret: cfg.ClientSecret,
			CallbackURL:    cfg.RedirectURL,
			Endpoint: oauth1.Endpoint{
				RequestTokenURL: cfg.RequestTokenURL,
				AuthorizeURL:    cfg.AuthURL,
				AccessTokenURL:  cfg.AccessTokenURL,
			},
			HTTPClient: b.httpClient,
		},
	}
}

// BeginAuthorization obtains a request token and returns the provider's authorize URL for it.
func (a *OAuth1Adapter) BeginAuthorization(ctx context.Context, credential string) (*Authorization, error) {
	userID, err := a.resolve(credential)
	if err != nil {
		return nil, err
	}

	requestToken, requestSecret, err := a.config.RequestToken()
	if err != nil {
		a.log("OAuth1Adapter.BeginAuthorization").WithError(err).Error("request token call failed")
		return nil, appErrors.NewProviderError(appErrors.ErrProviderExchangeFailed, a.Name(), err.Error(), err)
	}
	if requestToken == "" || requestSecret == "" {
		return nil, appErrors.NewProviderError(appErrors.ErrProviderExchangeFailed, a.Name(), "empty request token", nil)
	}

	err = a.pending.Save(ctx, pending.Record{
		Key:      requestToken,
		Provider: a.Name(),
		UserID:   userID,
		Secret:   requestSecret,
	})
	if err != nil {
		return nil, err
	}

	authURL, err := a.config.AuthorizationURL(requestToken)
	if err != nil {
		return nil, appErrors.NewProviderError(appErrors.ErrProviderExchangeFailed, a.Name(), "invalid authorize URL", err)
	}

	a.log("OAuth1Adapter.BeginAuthorization").WithField("user_id", userID).Info("request token obtained")
	return &Authorization{
		AuthURL:      authURL.String(),
		State:        requestToken,
		RequestToken: requestToken,
		UserID:       userID,
	}, nil
}

// HandleCallback exchanges the verified request token for an access token and secret.
// A denied authorization still consumes the pending record.
func (a *OAuth1Adapter) HandleCallback(ctx context.Context, cb Callback) (*tokenstore.ProviderToken, error) {
	if cb.Error != "" {
		if cb.RequestToken != "" {
			_, _ = a.consume(ctx, cb.RequestToken)
		}
		return nil, callbackError(a.Name(), cb)
	}
	if cb.RequestToken == "" || cb.Verifier == "" {
		return nil, appErrors.ErrMissingParameters
	}

	rec, err := a.consume(ctx, cb.RequestToken)
	if err != nil {
		return nil, err
	}

	accessToken, accessSecret, err := a.config.AccessToken(cb.RequestToken, rec.Secret, cb.Verifier)
	if err != nil {
		a.log("OAuth1Adapter.HandleCallback").WithField("user_id", rec.UserID).WithError(err).Error("access token call failed")
		return nil, appErrors.NewProviderError(appErrors.ErrProviderExchangeFailed, a.Name(), err.Error(), err)
	}

	result := OAuth1Result{AccessToken: accessToken, AccessTokenSecret: accessSecret}
	if err := result.Validate(a.Name()); err != nil {
		return nil, err
	}

	return a.tokens.Upsert(ctx, tokenstore.ProviderToken{
		UserID:            rec.UserID,
		Provider:          a.Name(),
		AccessToken:       result.AccessToken,
		AccessTokenSecret: result.AccessTokenSecret,
	})
}

// SignedClient returns a client that signs every request with the user's access token.
func (a *OAuth1Adapter) SignedClient(ctx context.Context, token *tokenstore.ProviderToken) *http.Client {
	ctx = context.WithValue(ctx, oauth1.HTTPClient, a.httpClient)
	return a.config.Client(ctx, oauth1.NewToken(token.AccessToken, token.AccessTokenSecret))
}
