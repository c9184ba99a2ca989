// Package provider exposes the OAuth flows and provider actions of every configured
// social provider over HTTP.
package provider

import (
	"context"
	"encoding/json"

	appErrors "github.com/Gkemhcs/socialbridge-backend/internal/errors"
	"github.com/Gkemhcs/socialbridge-backend/internal/oauth"
	"github.com/Gkemhcs/socialbridge-backend/internal/observability/metrics"
	"github.com/Gkemhcs/socialbridge-backend/internal/social"
	"github.com/Gkemhcs/socialbridge-backend/internal/tokenstore"
	"github.com/sirupsen/logrus"
)

// AdapterRegistry looks up the adapter of a configured provider.
type AdapterRegistry interface {
	Get(name string) (oauth.Adapter, error)
	Names() []string
}

// Commenter publishes comments with a user's stored token.
type Commenter interface {
	Comment(ctx context.Context, userID, provider string, req social.CommentRequest) (json.RawMessage, error)
}

// ProviderService orchestrates adapters, the token store and the comment dispatcher.
type ProviderService struct {
	adapters   AdapterRegistry
	tokens     tokenstore.Store
	dispatcher Commenter
	metrics    *metrics.OAuthMetrics
	logger     *logrus.Logger
}

// NewProviderService creates a new ProviderService instance. m may be nil.
func NewProviderService(adapters AdapterRegistry, tokens tokenstore.Store, dispatcher Commenter, m *metrics.OAuthMetrics, logger *logrus.Logger) *ProviderService {
	return &ProviderService{
		adapters:   adapters,
		tokens:     tokens,
		dispatcher: dispatcher,
		metrics:    m,
		logger:     logger,
	}
}

// Providers lists the configured providers.
func (s *ProviderService) Providers() []ProviderSummary {
	names := s.adapters.Names()
	out := make([]ProviderSummary, 0, len(names))
	for _, name := range names {
		adapter, err := s.adapters.Get(name)
		if err != nil {
			continue
		}
		_, refreshing := adapter.(oauth.Refresher)
		out = append(out, ProviderSummary{Name: name, Protocol: adapter.Protocol(), Refreshing: refreshing})
	}
	return out
}

// Begin starts an authorization flow for the holder of credential.
func (s *ProviderService) Begin(ctx context.Context, provider, credential string) (auth *oauth.Authorization, err error) {
	defer func() { s.metrics.Observe(provider, metrics.OpBegin, err) }()

	adapter, err := s.adapters.Get(provider)
	if err != nil {
		return nil, err
	}

	auth, err = adapter.BeginAuthorization(ctx, credential)
	if err != nil {
		s.logFailure("Begin", provider, "", err)
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"method":   "Begin",
		"provider": provider,
		"user_id":  auth.UserID,
	}).Info("authorization started")
	return auth, nil
}

// Callback completes an authorization flow and returns the stored connection.
func (s *ProviderService) Callback(ctx context.Context, provider string, cb oauth.Callback) (conn *ConnectionResponse, err error) {
	defer func() { s.metrics.Observe(provider, metrics.OpCallback, err) }()

	adapter, err := s.adapters.Get(provider)
	if err != nil {
		return nil, err
	}

	token, err := adapter.HandleCallback(ctx, cb)
	if err != nil {
		s.logFailure("Callback", provider, "", err)
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"method":   "Callback",
		"provider": provider,
		"user_id":  token.UserID,
	}).Info("provider connected")
	return toConnectionResponse(token), nil
}

// Refresh renews the user's access token. Providers without refresh support are UnsupportedOperation.
func (s *ProviderService) Refresh(ctx context.Context, userID, provider string) (conn *ConnectionResponse, err error) {
	defer func() { s.metrics.Observe(provider, metrics.OpRefresh, err) }()

	adapter, err := s.adapters.Get(provider)
	if err != nil {
		return nil, err
	}
	refresher, ok := adapter.(oauth.Refresher)
	if !ok {
		return nil, appErrors.ErrUnsupportedOperation
	}

	token, err := refresher.Refresh(ctx, userID)
	if err != nil {
		s.logFailure("Refresh", provider, userID, err)
		return nil, err
	}
	return toConnectionResponse(token), nil
}

// Comment publishes a comment on the user's behalf and returns the provider's response.
func (s *ProviderService) Comment(ctx context.Context, userID, provider string, req CommentRequest) (resp json.RawMessage, err error) {
	defer func() { s.metrics.Observe(provider, metrics.OpComment, err) }()

	if _, err = s.adapters.Get(provider); err != nil {
		return nil, err
	}

	resp, err = s.dispatcher.Comment(ctx, userID, provider, social.CommentRequest{
		PostID:           req.PostID,
		Comment:          req.Comment,
		InReplyToTweetID: req.InReplyToTweetID,
	})
	if err != nil {
		s.logFailure("Comment", provider, userID, err)
		return nil, err
	}
	return resp, nil
}

// Connection reports the user's stored connection to provider.
func (s *ProviderService) Connection(ctx context.Context, userID, provider string) (*ConnectionResponse, error) {
	if _, err := s.adapters.Get(provider); err != nil {
		return nil, err
	}
	token, err := s.tokens.Get(ctx, userID, provider)
	if err != nil {
		return nil, err
	}
	return toConnectionResponse(token), nil
}

// Disconnect deletes the user's stored token for provider.
func (s *ProviderService) Disconnect(ctx context.Context, userID, provider string) (err error) {
	defer func() { s.metrics.Observe(provider, metrics.OpDisconnect, err) }()

	if _, err = s.adapters.Get(provider); err != nil {
		return err
	}
	if err = s.tokens.Delete(ctx, userID, provider); err != nil {
		return err
	}

	s.logger.WithFields(logrus.Fields{
		"method":   "Disconnect",
		"provider": provider,
		"user_id":  userID,
	}).Info("provider disconnected")
	return nil
}

func (s *ProviderService) logFailure(method, provider, userID string, err error) {
	fields := logrus.Fields{
		"method":   method,
		"provider": provider,
		"error":    err.Error(),
	}
	if userID != "" {
		fields["user_id"] = userID
	}
	s.logger.WithFields(fields).Error("provider operation failed")
}
