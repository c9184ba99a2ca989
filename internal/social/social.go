// Package social posts comments to providers on a user's behalf with the
// token stored for that user, refreshing it first when it is about to expire.
package social

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/Gkemhcs/socialbridge-backend/internal/config"
	appErrors "github.com/Gkemhcs/socialbridge-backend/internal/errors"
	"github.com/Gkemhcs/socialbridge-backend/internal/oauth"
	"github.com/Gkemhcs/socialbridge-backend/internal/tokenstore"
	"github.com/sirupsen/logrus"
)

// RefreshSkew is how close to expiry a token may get before it is refreshed.
const RefreshSkew = 60 * time.Second

// CommentRequest is a comment to publish. PostID may be a bare id or a post URL.
type CommentRequest struct {
	PostID           string
	Comment          string
	InReplyToTweetID string
}

// Poster publishes a comment with one provider's API.
type Poster interface {
	Comment(ctx context.Context, token *tokenstore.ProviderToken, req CommentRequest) (json.RawMessage, error)
}

// AdapterSource looks up the adapter used to refresh a provider's tokens.
type AdapterSource interface {
	Get(name string) (oauth.Adapter, error)
}

// Dispatcher routes comments to the poster of each provider.
type Dispatcher struct {
	tokens   tokenstore.Store
	adapters AdapterSource
	posters  map[string]Poster
	skew     time.Duration
	now      func() time.Time
	logger   *logrus.Logger
}

// NewDispatcher creates a Dispatcher with no posters registered.
func NewDispatcher(tokens tokenstore.Store, adapters AdapterSource, logger *logrus.Logger) *Dispatcher {
	return &Dispatcher{
		tokens:   tokens,
		adapters: adapters,
		posters:  make(map[string]Poster),
		skew:     RefreshSkew,
		now:      time.Now,
		logger:   logger,
	}
}

// Register installs the poster for a provider.
func (d *Dispatcher) Register(provider string, p Poster) {
	d.posters[provider] = p
}

// RegisterDefaults installs the built-in poster for every configured provider that has an adapter.
func (d *Dispatcher) RegisterDefaults(providers []config.ProviderConfig, httpClient *http.Client) {
	for _, p := range providers {
		adapter, err := d.adapters.Get(p.Name)
		if err != nil {
			continue
		}
		switch p.Name {
		case "twitter":
			if signer, ok := adapter.(RequestSigner); ok {
				d.Register(p.Name, NewTwitterPoster(p.APIBaseURL, signer))
			}
		case "twitter2":
			d.Register(p.Name, NewTwitter2Poster(p.APIBaseURL, httpClient))
		case "youtube":
			d.Register(p.Name, NewYouTubePoster(p.APIBaseURL, httpClient))
		case "linkedin":
			d.Register(p.Name, NewLinkedInPoster(p.APIBaseURL, httpClient))
		case "instagram":
			d.Register(p.Name, NewInstagramPoster(p.APIBaseURL, httpClient))
		default:
			d.logger.WithField("provider", p.Name).Warn("no comment poster for provider")
		}
	}
}

// Comment publishes req for userID on provider and returns the provider's response.
// An access token close to expiry is refreshed first; a failed refresh fails the call.
func (d *Dispatcher) Comment(ctx context.Context, userID, provider string, req CommentRequest) (json.RawMessage, error) {
	poster, ok := d.posters[provider]
	if !ok {
		return nil, appErrors.ErrUnsupportedOperation
	}

	req = normalize(provider, req)
	if err := validate(provider, req); err != nil {
		return nil, err
	}

	token, err := d.tokens.Get(ctx, userID, provider)
	if err != nil {
		return nil, err
	}

	if token.ExpiresWithin(d.now(), d.skew) {
		token, err = d.refresh(ctx, userID, provider)
		if err != nil {
			return nil, err
		}
	}

	resp, err := poster.Comment(ctx, token, req)
	if err != nil {
		d.logger.WithFields(logrus.Fields{
			"method":   "Dispatcher.Comment",
			"provider": provider,
			"user_id":  userID,
			"error":    err.Error(),
		}).Error("provider rejected comment")
		return nil, err
	}
	return resp, nil
}

func (d *Dispatcher) refresh(ctx context.Context, userID, provider string) (*tokenstore.ProviderToken, error) {
	adapter, err := d.adapters.Get(provider)
	if err != nil {
		return nil, err
	}
	refresher, ok := adapter.(oauth.Refresher)
	if !ok {
		return nil, appErrors.NewProviderError(appErrors.ErrRefreshFailed, provider, "provider tokens cannot be refreshed", nil)
	}
	d.logger.WithFields(logrus.Fields{
		"provider": provider,
		"user_id":  userID,
	}).Debug("access token near expiry, refreshing before use")
	return refresher.Refresh(ctx, userID)
}

func normalize(provider string, req CommentRequest) CommentRequest {
	req.PostID = NormalizePostID(provider, req.PostID)
	req.InReplyToTweetID = NormalizePostID(provider, req.InReplyToTweetID)
	req.Comment = strings.TrimSpace(req.Comment)
	return req
}

// validate requires a comment everywhere and a post id everywhere but twitter2,
// where an absent reply target publishes a standalone tweet.
func validate(provider string, req CommentRequest) error {
	if req.Comment == "" {
		return appErrors.ErrMissingParameters
	}
	if req.PostID == "" && provider != "twitter2" {
		return appErrors.ErrMissingParameters
	}
	return nil
}
