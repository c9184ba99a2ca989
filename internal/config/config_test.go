package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resetViper(t *testing.T) {
	t.Helper()
	viper.Reset()
	t.Cleanup(viper.Reset)
}

func TestLoadDefaults(t *testing.T) {
	resetViper(t)
	t.Setenv("SUPABASE_JWT_SECRET", "secret")
	t.Setenv("TOKEN_STORE", "memory")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "secret", cfg.IdentityJWTSecret)
	assert.Equal(t, "memory", cfg.TokenStoreDriver)
	assert.Equal(t, "memory", cfg.PendingStoreDriver)
	assert.Equal(t, 10*time.Minute, cfg.PendingTTL)
	assert.False(t, cfg.UsesPostgres())
	assert.Len(t, cfg.Providers, 5)

	yt, ok := cfg.Provider("youtube")
	require.True(t, ok)
	assert.Equal(t, ProtocolOAuth2, yt.Protocol)
	assert.Equal(t, "offline", yt.AuthParams["access_type"])
	assert.False(t, yt.Enabled())
}

func TestLoadProviderAliases(t *testing.T) {
	resetViper(t)
	t.Setenv("IDENTITY_JWT_SECRET", "secret")
	t.Setenv("TOKEN_STORE", "memory")
	t.Setenv("TWITTER_API_KEY", "consumer-key")
	t.Setenv("TWITTER_API_SECRET_KEY", "consumer-secret")
	t.Setenv("TWITTER_REDIRECT_URI", "https://example.test/api/twitter2/callback")
	t.Setenv("TWITTER2_CLIENT_ID", "pkce-client")
	t.Setenv("LINKEDIN_SCOPES", "openid profile w_member_social")
	t.Setenv("YOUTUBE_STATE_BINDING", "nonce")

	cfg, err := Load()
	require.NoError(t, err)

	tw, _ := cfg.Provider("twitter")
	assert.Equal(t, "consumer-key", tw.ClientID)
	assert.Equal(t, "consumer-secret", tw.ClientSecret)
	assert.True(t, tw.Enabled())

	tw2, _ := cfg.Provider("twitter2")
	assert.Equal(t, "pkce-client", tw2.ClientID, "explicit key wins over alias")
	assert.Equal(t, "consumer-secret", tw2.ClientSecret)
	assert.Equal(t, "https://example.test/api/twitter2/callback", tw2.RedirectURL)

	li, _ := cfg.Provider("linkedin")
	assert.Equal(t, []string{"openid", "profile", "w_member_social"}, li.Scopes)

	yt, _ := cfg.Provider("youtube")
	assert.Equal(t, StateBindingNonce, yt.StateBinding)
}

func TestLoadDefaultStateBindings(t *testing.T) {
	resetViper(t)
	t.Setenv("IDENTITY_JWT_SECRET", "secret")
	t.Setenv("TOKEN_STORE", "memory")
	t.Setenv("YOUTUBE_CLIENT_ID", "yt-client")
	t.Setenv("YOUTUBE_CLIENT_SECRET", "yt-secret")

	cfg, err := Load()
	require.NoError(t, err)

	want := map[string]string{
		"twitter":   StateBindingNonce,
		"twitter2":  StateBindingNonce,
		"youtube":   StateBindingCredential,
		"linkedin":  StateBindingCredential,
		"instagram": StateBindingCredential,
	}
	for name, binding := range want {
		p, ok := cfg.Provider(name)
		require.True(t, ok, name)
		assert.Equal(t, binding, p.StateBinding, name)
	}
}

func TestLoadValidation(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{name: "missing jwt secret", env: map[string]string{"TOKEN_STORE": "memory"}},
		{name: "postgres without encryption key", env: map[string]string{"IDENTITY_JWT_SECRET": "s", "TOKEN_STORE": "postgres"}},
		{name: "unknown token store", env: map[string]string{"IDENTITY_JWT_SECRET": "s", "TOKEN_STORE": "redis"}},
		{name: "bad state binding", env: map[string]string{"IDENTITY_JWT_SECRET": "s", "TOKEN_STORE": "memory", "LINKEDIN_STATE_BINDING": "cookie"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			resetViper(t)
			for k, v := range tc.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			assert.Error(t, err)
		})
	}
}
