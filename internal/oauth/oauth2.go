package oauth

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strconv"

	"github.com/Gkemhcs/socialbridge-backend/internal/config"
	appErrors "github.com/Gkemhcs/socialbridge-backend/internal/errors"
	"github.com/Gkemhcs/socialbridge-backend/internal/tokenstore"
	"github.com/sirupsen/logrus"
	"golang.org/x/oauth2"
)

// oauth2Base holds what the authorization-code and PKCE adapters share:
// the client configuration, token-response handling and refresh.
type oauth2Base struct {
	base
	oauth *oauth2.Config
}

func newOAuth2Base(cfg config.ProviderConfig, deps Deps) oauth2Base {
	style := oauth2.AuthStyleInParams
	if cfg.AuthStyle == config.AuthStyleHeader {
		style = oauth2.AuthStyleInHeader
	}
	return oauth2Base{
		base: newBase(cfg, deps),
		oauth: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes:       cfg.Scopes,
			Endpoint: oauth2.Endpoint{
				AuthURL:   cfg.AuthURL,
				TokenURL:  cfg.TokenURL,
				AuthStyle: style,
			},
		},
	}
}

// clientContext makes x/oauth2 use the injected HTTP client.
func (b *oauth2Base) clientContext(ctx context.Context) context.Context {
	return context.WithValue(ctx, oauth2.HTTPClient, b.httpClient)
}

// authParams returns the provider's extra authorization URL parameters in a stable order.
func (b *oauth2Base) authParams() []oauth2.AuthCodeOption {
	keys := make([]string, 0, len(b.cfg.AuthParams))
	for k := range b.cfg.AuthParams {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	opts := make([]oauth2.AuthCodeOption, 0, len(keys))
	for _, k := range keys {
		opts = append(opts, oauth2.SetAuthURLParam(k, b.cfg.AuthParams[k]))
	}
	return opts
}

// exchange trades code for a token and turns the response into an OAuth2Result.
func (b *oauth2Base) exchange(ctx context.Context, code string, opts ...oauth2.AuthCodeOption) (*OAuth2Result, error) {
	ctx = b.clientContext(ctx)

	tok, err := b.oauth.Exchange(ctx, code, opts...)
	if err != nil {
		b.log("exchange").WithError(err).Error("code exchange failed")
		return nil, providerFailure(appErrors.ErrProviderExchangeFailed, b.Name(), err)
	}

	result := &OAuth2Result{
		AccessToken:  tok.AccessToken,
		RefreshToken: tok.RefreshToken,
		Expiry:       tok.Expiry,
	}
	if err := result.Validate(b.Name()); err != nil {
		return nil, err
	}

	if b.cfg.ProfileURL != "" {
		accountID, err := b.lookupAccountID(ctx, tok)
		if err != nil {
			return nil, err
		}
		result.ProviderAccountID = accountID
	} else {
		result.ProviderAccountID = extraString(tok.Extra("user_id"))
	}
	return result, nil
}

// lookupAccountID calls the provider's "who am I" endpoint with the fresh token.
func (b *oauth2Base) lookupAccountID(ctx context.Context, tok *oauth2.Token) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, b.cfg.ProfileURL, nil)
	if err != nil {
		return "", appErrors.NewProviderError(appErrors.ErrProviderExchangeFailed, b.Name(), "invalid profile URL", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := b.oauth.Client(ctx, tok).Do(req)
	if err != nil {
		return "", appErrors.NewProviderError(appErrors.ErrProviderExchangeFailed, b.Name(), "profile lookup: "+err.Error(), err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", appErrors.NewProviderError(appErrors.ErrProviderExchangeFailed, b.Name(), "profile lookup: "+err.Error(), err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", appErrors.Wrapf(appErrors.ErrProviderExchangeFailed, b.Name(), nil, "profile lookup status %d: %s", resp.StatusCode, body)
	}

	field := b.cfg.ProfileIDField
	if field == "" {
		field = "id"
	}
	id, err := jsonField(body, field)
	if err != nil {
		return "", appErrors.Wrapf(appErrors.ErrProviderExchangeFailed, b.Name(), err, "profile lookup: %v", err)
	}
	return id, nil
}

// Refresh renews the stored access token with the stored refresh token.
// The refresh token is replaced only when the provider rotates it.
func (b *oauth2Base) Refresh(ctx context.Context, userID string) (*tokenstore.ProviderToken, error) {
	stored, err := b.tokens.Get(ctx, userID, b.Name())
	if err != nil {
		return nil, err
	}
	if !stored.HasRefreshToken() {
		return nil, appErrors.NewProviderError(appErrors.ErrNoRefreshToken, b.Name(), "", nil)
	}

	src := b.oauth.TokenSource(b.clientContext(ctx), &oauth2.Token{RefreshToken: stored.RefreshToken})
	tok, err := src.Token()
	if err != nil {
		b.log("Refresh").WithField("user_id", userID).WithError(err).Error("token refresh failed")
		return nil, providerFailure(appErrors.ErrRefreshFailed, b.Name(), err)
	}
	if tok.AccessToken == "" {
		return nil, appErrors.NewProviderError(appErrors.ErrRefreshFailed, b.Name(), "response is missing access_token", nil)
	}

	update := tokenstore.TokenUpdate{
		AccessToken: tok.AccessToken,
		ExpiresAt:   tok.Expiry,
	}
	if tok.RefreshToken != "" && tok.RefreshToken != stored.RefreshToken {
		update.RefreshToken = tok.RefreshToken
	}

	b.log("Refresh").WithFields(logrus.Fields{
		"user_id": userID,
		"rotated": update.RefreshToken != "",
	}).Info("provider token refreshed")
	return b.tokens.UpdateAccessToken(ctx, userID, b.Name(), update)
}

func (b *oauth2Base) upsert(ctx context.Context, userID string, result *OAuth2Result) (*tokenstore.ProviderToken, error) {
	return b.tokens.Upsert(ctx, tokenstore.ProviderToken{
		UserID:            userID,
		Provider:          b.Name(),
		AccessToken:       result.AccessToken,
		RefreshToken:      result.RefreshToken,
		ProviderAccountID: result.ProviderAccountID,
		ExpiresAt:         result.Expiry,
	})
}

// providerFailure surfaces the provider's own error body when there is one.
func providerFailure(kind *appErrors.APIError, provider string, err error) error {
	var rerr *oauth2.RetrieveError
	if errors.As(err, &rerr) {
		detail := string(rerr.Body)
		if rerr.Response != nil {
			detail = fmt.Sprintf("status %d: %s", rerr.Response.StatusCode, rerr.Body)
		}
		return appErrors.NewProviderError(kind, provider, detail, err)
	}
	return appErrors.NewProviderError(kind, provider, err.Error(), err)
}

// callbackError reports the error a provider sent back instead of a code.
func callbackError(provider string, cb Callback) error {
	detail := cb.Error
	if cb.ErrorDescription != "" {
		detail += ": " + cb.ErrorDescription
	}
	return appErrors.NewProviderError(appErrors.ErrProviderExchangeFailed, provider, detail, nil)
}

func jsonField(body []byte, field string) (string, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	var doc map[string]interface{}
	if err := dec.Decode(&doc); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	id := extraString(doc[field])
	if id == "" {
		return "", fmt.Errorf("response has no %q field", field)
	}
	return id, nil
}

// extraString renders an id that may arrive as a JSON string or number.
func extraString(v interface{}) string {
	switch id := v.(type) {
	case string:
		return id
	case json.Number:
		return id.String()
	case float64:
		return strconv.FormatFloat(id, 'f', -1, 64)
	case int64:
		return strconv.FormatInt(id, 10)
	default:
		return ""
	}
}
