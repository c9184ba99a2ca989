package oauth

import (
	"context"
	"net/http"
	"net/url"
	"testing"
	"time"

	"github.com/Gkemhcs/socialbridge-backend/internal/config"
	appErrors "github.com/Gkemhcs/socialbridge-backend/internal/errors"
	"github.com/Gkemhcs/socialbridge-backend/internal/tokenstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func authCodeConfig(f *fakeOAuth2Provider, name, binding string) config.ProviderConfig {
	return config.ProviderConfig{
		Name:         name,
		Protocol:     config.ProtocolOAuth2,
		ClientID:     f.clientID,
		ClientSecret: f.clientSecret,
		RedirectURL:  "http://localhost:8080/api/" + name + "/callback",
		AuthURL:      "https://provider.example/authorize",
		TokenURL:     f.URL + "/token",
		Scopes:       []string{"scope.a", "scope.b"},
		AuthParams:   map[string]string{"access_type": "offline", "prompt": "consent"},
		AuthStyle:    config.AuthStyleParams,
		StateBinding: binding,
	}
}

func TestAuthCodeBeginNonceBinding(t *testing.T) {
	fake := newFakeOAuth2Provider(t, false)
	deps, pend, _ := newTestDeps(t)
	adapter := NewAuthCodeAdapter(authCodeConfig(fake, "youtube", config.StateBindingNonce), deps)

	auth, err := adapter.BeginAuthorization(context.Background(), "cred-alice")
	require.NoError(t, err)

	u, err := url.Parse(auth.AuthURL)
	require.NoError(t, err)
	q := u.Query()
	assert.Equal(t, "client-id", q.Get("client_id"))
	assert.Equal(t, "code", q.Get("response_type"))
	assert.Equal(t, "http://localhost:8080/api/youtube/callback", q.Get("redirect_uri"))
	assert.Equal(t, "scope.a scope.b", q.Get("scope"))
	assert.Equal(t, "offline", q.Get("access_type"))
	assert.Equal(t, "consent", q.Get("prompt"))
	assert.Equal(t, auth.State, q.Get("state"))
	assert.Len(t, auth.State, 43)
	assert.NotContains(t, auth.AuthURL, "cred-alice")
	assert.Equal(t, 1, pend.Len())
}

func TestAuthCodeNonceCallbackStoresToken(t *testing.T) {
	ctx := context.Background()
	fake := newFakeOAuth2Provider(t, false)
	deps, pend, tokens := newTestDeps(t)
	adapter := NewAuthCodeAdapter(authCodeConfig(fake, "youtube", config.StateBindingNonce), deps)

	auth, err := adapter.BeginAuthorization(ctx, "cred-alice")
	require.NoError(t, err)

	before := time.Now()
	stored, err := adapter.HandleCallback(ctx, Callback{Code: "abc", State: auth.State})
	require.NoError(t, err)
	assert.Equal(t, "alice", stored.UserID)
	assert.Equal(t, "A", stored.AccessToken)
	assert.Equal(t, "R", stored.RefreshToken)
	assert.WithinDuration(t, before.Add(time.Hour), stored.ExpiresAt, 5*time.Second)

	assert.Equal(t, "authorization_code", fake.form().Get("grant_type"))
	assert.Equal(t, "abc", fake.form().Get("code"))
	assert.Equal(t, "http://localhost:8080/api/youtube/callback", fake.form().Get("redirect_uri"))
	assert.Equal(t, 0, pend.Len())

	_, err = adapter.HandleCallback(ctx, Callback{Code: "abc", State: auth.State})
	assert.ErrorIs(t, err, appErrors.ErrInvalidFlowState)

	got, err := tokens.Get(ctx, "alice", "youtube")
	require.NoError(t, err)
	assert.Equal(t, "A", got.AccessToken)
}

func TestAuthCodeCredentialBinding(t *testing.T) {
	ctx := context.Background()
	fake := newFakeOAuth2Provider(t, false)
	deps, pend, tokens := newTestDeps(t)
	adapter := NewAuthCodeAdapter(authCodeConfig(fake, "youtube", config.StateBindingCredential), deps)

	auth, err := adapter.BeginAuthorization(ctx, "cred-alice")
	require.NoError(t, err)
	assert.Equal(t, "cred-alice", auth.State)
	assert.Equal(t, 0, pend.Len(), "credential binding keeps no server-side state")

	_, err = adapter.HandleCallback(ctx, Callback{Code: "abc", State: url.QueryEscape("cred-alice")})
	require.NoError(t, err)

	got, err := tokens.Get(ctx, "alice", "youtube")
	require.NoError(t, err)
	assert.Equal(t, "A", got.AccessToken)
	assert.Equal(t, "R", got.RefreshToken)

	_, err = adapter.HandleCallback(ctx, Callback{Code: "abc", State: "cred-mallory"})
	assert.ErrorIs(t, err, appErrors.ErrUnauthenticated)

	_, err = adapter.HandleCallback(ctx, Callback{Code: "abc"})
	assert.ErrorIs(t, err, appErrors.ErrMissingParameters)
}

func TestAuthCodeCallbackErrors(t *testing.T) {
	ctx := context.Background()
	fake := newFakeOAuth2Provider(t, false)
	deps, pend, tokens := newTestDeps(t)
	adapter := NewAuthCodeAdapter(authCodeConfig(fake, "linkedin", config.StateBindingNonce), deps)

	t.Run("provider error consumes pending record", func(t *testing.T) {
		auth, err := adapter.BeginAuthorization(ctx, "cred-alice")
		require.NoError(t, err)

		_, err = adapter.HandleCallback(ctx, Callback{State: auth.State, Error: "access_denied", ErrorDescription: "user cancelled"})
		assert.ErrorIs(t, err, appErrors.ErrProviderExchangeFailed)
		assert.Contains(t, err.Error(), "access_denied")
		assert.Equal(t, 0, pend.Len())
	})

	t.Run("missing code", func(t *testing.T) {
		auth, err := adapter.BeginAuthorization(ctx, "cred-alice")
		require.NoError(t, err)

		_, err = adapter.HandleCallback(ctx, Callback{State: auth.State})
		assert.ErrorIs(t, err, appErrors.ErrMissingParameters)
		assert.Equal(t, 0, pend.Len())
	})

	t.Run("unknown state", func(t *testing.T) {
		_, err := adapter.HandleCallback(ctx, Callback{Code: "abc", State: "forged"})
		assert.ErrorIs(t, err, appErrors.ErrInvalidFlowState)
		assert.Equal(t, 0, fake.calls())
	})

	t.Run("token endpoint rejects code", func(t *testing.T) {
		fake.respondWith(http.StatusBadRequest, map[string]interface{}{"error": "invalid_grant", "error_description": "Bad code"})
		auth, err := adapter.BeginAuthorization(ctx, "cred-alice")
		require.NoError(t, err)

		_, err = adapter.HandleCallback(ctx, Callback{Code: "abc", State: auth.State})
		assert.ErrorIs(t, err, appErrors.ErrProviderExchangeFailed)
		assert.Contains(t, err.Error(), "invalid_grant")
		assert.NotContains(t, err.Error(), "client-secret")
	})

	_, err := tokens.Get(ctx, "alice", "linkedin")
	assert.ErrorIs(t, err, appErrors.ErrTokenNotFound)
}

func TestAuthCodeProfileLookupCapturesAccountID(t *testing.T) {
	ctx := context.Background()
	fake := newFakeOAuth2Provider(t, false)
	deps, _, _ := newTestDeps(t)
	cfg := authCodeConfig(fake, "linkedin", config.StateBindingNonce)
	cfg.ProfileURL = fake.URL + "/me"
	cfg.ProfileIDField = "id"
	adapter := NewAuthCodeAdapter(cfg, deps)

	auth, err := adapter.BeginAuthorization(ctx, "cred-alice")
	require.NoError(t, err)
	stored, err := adapter.HandleCallback(ctx, Callback{Code: "abc", State: auth.State})
	require.NoError(t, err)
	assert.Equal(t, "li-123", stored.ProviderAccountID)

	fake.setProfile(`{"id":17841400000000001}`)
	auth, err = adapter.BeginAuthorization(ctx, "cred-alice")
	require.NoError(t, err)
	stored, err = adapter.HandleCallback(ctx, Callback{Code: "abc", State: auth.State})
	require.NoError(t, err)
	assert.Equal(t, "17841400000000001", stored.ProviderAccountID, "numeric ids keep every digit")

	fake.setProfile(`{"localizedFirstName":"Alice"}`)
	auth, err = adapter.BeginAuthorization(ctx, "cred-alice")
	require.NoError(t, err)
	_, err = adapter.HandleCallback(ctx, Callback{Code: "abc", State: auth.State})
	assert.ErrorIs(t, err, appErrors.ErrProviderExchangeFailed)
}

func TestAuthCodeAccountIDFromTokenResponse(t *testing.T) {
	ctx := context.Background()
	fake := newFakeOAuth2Provider(t, false)
	fake.respondWith(http.StatusOK, map[string]interface{}{"access_token": "IG", "user_id": 12345})
	deps, _, _ := newTestDeps(t)
	adapter := NewAuthCodeAdapter(authCodeConfig(fake, "instagram", config.StateBindingNonce), deps)

	auth, err := adapter.BeginAuthorization(ctx, "cred-bob")
	require.NoError(t, err)
	stored, err := adapter.HandleCallback(ctx, Callback{Code: "abc", State: auth.State})
	require.NoError(t, err)
	assert.Equal(t, "bob", stored.UserID)
	assert.Equal(t, "IG", stored.AccessToken)
	assert.Equal(t, "12345", stored.ProviderAccountID)
	assert.Empty(t, stored.RefreshToken)
	assert.True(t, stored.ExpiresAt.IsZero())
}

func TestAuthCodeResponseWithoutAccessToken(t *testing.T) {
	ctx := context.Background()
	fake := newFakeOAuth2Provider(t, false)
	fake.respondWith(http.StatusOK, map[string]interface{}{"refresh_token": "R"})
	deps, _, tokens := newTestDeps(t)
	adapter := NewAuthCodeAdapter(authCodeConfig(fake, "youtube", config.StateBindingNonce), deps)

	auth, err := adapter.BeginAuthorization(ctx, "cred-alice")
	require.NoError(t, err)
	_, err = adapter.HandleCallback(ctx, Callback{Code: "abc", State: auth.State})
	assert.ErrorIs(t, err, appErrors.ErrProviderExchangeFailed)

	_, err = tokens.Get(ctx, "alice", "youtube")
	assert.ErrorIs(t, err, appErrors.ErrTokenNotFound)
}

func TestRefresh(t *testing.T) {
	ctx := context.Background()
	seed := func(t *testing.T, tokens *tokenstore.MemoryStore, refresh string) {
		t.Helper()
		_, err := tokens.Upsert(ctx, tokenstore.ProviderToken{
			UserID:            "alice",
			Provider:          "youtube",
			AccessToken:       "stale",
			RefreshToken:      refresh,
			ProviderAccountID: "UC1",
			ExpiresAt:         time.Now().Add(-time.Minute),
		})
		require.NoError(t, err)
	}

	t.Run("keeps refresh token when not rotated", func(t *testing.T) {
		fake := newFakeOAuth2Provider(t, false)
		fake.respondWith(http.StatusOK, map[string]interface{}{"access_token": "fresh", "expires_in": 3600})
		deps, _, tokens := newTestDeps(t)
		seed(t, tokens, "R1")
		adapter := NewAuthCodeAdapter(authCodeConfig(fake, "youtube", config.StateBindingNonce), deps)

		got, err := adapter.Refresh(ctx, "alice")
		require.NoError(t, err)
		assert.Equal(t, "fresh", got.AccessToken)
		assert.Equal(t, "R1", got.RefreshToken)
		assert.Equal(t, "UC1", got.ProviderAccountID)
		assert.True(t, got.ExpiresAt.After(time.Now()))
		assert.Equal(t, "refresh_token", fake.form().Get("grant_type"))
		assert.Equal(t, "R1", fake.form().Get("refresh_token"))
	})

	t.Run("overwrites rotated refresh token", func(t *testing.T) {
		fake := newFakeOAuth2Provider(t, false)
		fake.respondWith(http.StatusOK, map[string]interface{}{"access_token": "fresh", "refresh_token": "R2"})
		deps, _, tokens := newTestDeps(t)
		seed(t, tokens, "R1")
		adapter := NewAuthCodeAdapter(authCodeConfig(fake, "youtube", config.StateBindingNonce), deps)

		got, err := adapter.Refresh(ctx, "alice")
		require.NoError(t, err)
		assert.Equal(t, "R2", got.RefreshToken)
	})

	t.Run("no refresh token leaves store untouched", func(t *testing.T) {
		fake := newFakeOAuth2Provider(t, false)
		deps, _, tokens := newTestDeps(t)
		seed(t, tokens, "")
		adapter := NewAuthCodeAdapter(authCodeConfig(fake, "youtube", config.StateBindingNonce), deps)

		_, err := adapter.Refresh(ctx, "alice")
		assert.ErrorIs(t, err, appErrors.ErrNoRefreshToken)
		assert.Equal(t, 0, fake.calls())

		got, err := tokens.Get(ctx, "alice", "youtube")
		require.NoError(t, err)
		assert.Equal(t, "stale", got.AccessToken)
	})

	t.Run("provider failure is a refresh failure", func(t *testing.T) {
		fake := newFakeOAuth2Provider(t, false)
		fake.respondWith(http.StatusBadRequest, map[string]interface{}{"error": "invalid_grant"})
		deps, _, tokens := newTestDeps(t)
		seed(t, tokens, "R1")
		adapter := NewAuthCodeAdapter(authCodeConfig(fake, "youtube", config.StateBindingNonce), deps)

		_, err := adapter.Refresh(ctx, "alice")
		assert.ErrorIs(t, err, appErrors.ErrRefreshFailed)
		assert.NotErrorIs(t, err, appErrors.ErrProviderExchangeFailed)

		got, err := tokens.Get(ctx, "alice", "youtube")
		require.NoError(t, err)
		assert.Equal(t, "stale", got.AccessToken)
		assert.Equal(t, "R1", got.RefreshToken)
	})

	t.Run("no stored token", func(t *testing.T) {
		fake := newFakeOAuth2Provider(t, false)
		deps, _, _ := newTestDeps(t)
		adapter := NewAuthCodeAdapter(authCodeConfig(fake, "youtube", config.StateBindingNonce), deps)

		_, err := adapter.Refresh(ctx, "alice")
		assert.ErrorIs(t, err, appErrors.ErrTokenNotFound)
	})
}
