// Package oauth implements the three authorization protocols spoken by the
// supported social providers: OAuth 1.0a, OAuth 2.0 authorization code, and
// OAuth 2.0 authorization code with PKCE.
package oauth

import (
	"context"
	"net/http"
	"time"

	"github.com/Gkemhcs/socialbridge-backend/internal/config"
	appErrors "github.com/Gkemhcs/socialbridge-backend/internal/errors"
	"github.com/Gkemhcs/socialbridge-backend/internal/oauth/pending"
	"github.com/Gkemhcs/socialbridge-backend/internal/tokenstore"
	"github.com/sirupsen/logrus"
)

// IdentityResolver maps an internal bearer credential to a user id.
type IdentityResolver interface {
	Resolve(credential string) (string, bool)
}

// Authorization is the outcome of starting a flow.
type Authorization struct {
	AuthURL      string // Where the user agent must be sent
	State        string // Correlation value carried through the provider
	RequestToken string // OAuth1 only
	UserID       string
}

// Callback carries every parameter a provider may send back.
type Callback struct {
	Code             string
	State            string
	RequestToken     string // oauth_token
	Verifier         string // oauth_verifier
	Error            string
	ErrorDescription string
}

// Adapter is one provider's variant of the OAuth protocol.
type Adapter interface {
	Name() string
	Protocol() config.Protocol
	// BeginAuthorization resolves the caller and prepares the redirect to the provider.
	BeginAuthorization(ctx context.Context, credential string) (*Authorization, error)
	// HandleCallback completes the exchange and stores the resulting token.
	HandleCallback(ctx context.Context, cb Callback) (*tokenstore.ProviderToken, error)
}

// Refresher is implemented by adapters whose tokens can be renewed.
type Refresher interface {
	Refresh(ctx context.Context, userID string) (*tokenstore.ProviderToken, error)
}

// OAuth1Result is what an OAuth 1.0a access-token exchange yields.
type OAuth1Result struct {
	AccessToken       string
	AccessTokenSecret string
}

// Validate rejects a result missing either credential.
func (r OAuth1Result) Validate(provider string) error {
	if r.AccessToken == "" || r.AccessTokenSecret == "" {
		return appErrors.NewProviderError(appErrors.ErrProviderExchangeFailed, provider, "response is missing oauth_token or oauth_token_secret", nil)
	}
	return nil
}

// OAuth2Result is what an OAuth 2.0 code exchange yields.
type OAuth2Result struct {
	AccessToken       string
	RefreshToken      string
	Expiry            time.Time
	ProviderAccountID string
}

// Validate rejects a result without an access token.
func (r OAuth2Result) Validate(provider string) error {
	if r.AccessToken == "" {
		return appErrors.NewProviderError(appErrors.ErrProviderExchangeFailed, provider, "response is missing access_token", nil)
	}
	return nil
}

// Deps are the collaborators shared by every adapter.
type Deps struct {
	Resolver   IdentityResolver
	Pending    pending.Store
	Tokens     tokenstore.Store
	HTTPClient *http.Client
	Logger     *logrus.Logger
}

type base struct {
	cfg        config.ProviderConfig
	resolver   IdentityResolver
	pending    pending.Store
	tokens     tokenstore.Store
	httpClient *http.Client
	logger     *logrus.Logger
}

func newBase(cfg config.ProviderConfig, deps Deps) base {
	client := deps.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}
	return base{
		cfg:        cfg,
		resolver:   deps.Resolver,
		pending:    deps.Pending,
		tokens:     deps.Tokens,
		httpClient: client,
		logger:     deps.Logger,
	}
}

func (b *base) Name() string { return b.cfg.Name }

func (b *base) Protocol() config.Protocol { return b.cfg.Protocol }

// resolve fails closed: an empty or unverifiable credential is Unauthenticated.
func (b *base) resolve(credential string) (string, error) {
	if credential == "" {
		return "", appErrors.ErrUnauthenticated
	}
	userID, ok := b.resolver.Resolve(credential)
	if !ok {
		return "", appErrors.ErrUnauthenticated
	}
	return userID, nil
}

// consume takes the pending record for key and checks it belongs to this provider.
func (b *base) consume(ctx context.Context, key string) (*pending.Record, error) {
	if key == "" {
		return nil, appErrors.ErrInvalidFlowState
	}
	rec, err := b.pending.Consume(ctx, key)
	if err != nil {
		return nil, err
	}
	if rec.Provider != b.cfg.Name {
		b.logger.WithFields(logrus.Fields{
			"provider":         b.cfg.Name,
			"pending_provider": rec.Provider,
		}).Warn("pending authorization belongs to another provider")
		return nil, appErrors.ErrInvalidFlowState
	}
	return rec, nil
}

func (b *base) log(method string) *logrus.Entry {
	return b.logger.WithFields(logrus.Fields{
		"method":   method,
		"provider": b.cfg.Name,
	})
}
