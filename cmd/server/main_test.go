package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Gkemhcs/socialbridge-backend/internal/config"
	"github.com/Gkemhcs/socialbridge-backend/internal/oauth/pending"
	"github.com/Gkemhcs/socialbridge-backend/internal/tokenstore"
	"github.com/Gkemhcs/socialbridge-backend/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func memoryConfig() *config.Config {
	return &config.Config{
		Port:               "0",
		Env:                "test",
		IdentityJWTSecret:  "secret",
		TokenStoreDriver:   "memory",
		PendingStoreDriver: "memory",
		PendingTTL:         time.Minute,
		HTTPClientTimeout:  time.Second,
		CORSAllowedOrigins: []string{"*"},
		Providers: []config.ProviderConfig{
			{Name: "youtube", Protocol: config.ProtocolOAuth2, ClientID: "id", ClientSecret: "secret"},
			{Name: "linkedin", Protocol: config.ProtocolOAuth2},
		},
	}
}

func TestRootCommandHasSubcommands(t *testing.T) {
	root := newRootCmd()

	for _, name := range []string{"serve", "migrate"} {
		cmd, _, err := root.Find([]string{name})
		require.NoError(t, err)
		assert.Equal(t, name, cmd.Name())
	}
}

func TestBuildStoresInMemory(t *testing.T) {
	tokens, pendingStore, err := buildStores(memoryConfig(), nil, utils.NewDiscardLogger())
	require.NoError(t, err)

	assert.IsType(t, &tokenstore.MemoryStore{}, tokens)
	assert.IsType(t, &pending.MemoryStore{}, pendingStore)
}

func TestBuildStoresRejectsBadKey(t *testing.T) {
	cfg := memoryConfig()
	cfg.TokenEncryptionKey = "not-base64!"

	_, _, err := buildStores(cfg, nil, utils.NewDiscardLogger())
	assert.Error(t, err)
}

func TestBuildAppMountsEnabledProviders(t *testing.T) {
	a, err := buildApp(context.Background(), memoryConfig(), utils.NewDiscardLogger())
	require.NoError(t, err)
	defer a.Close()

	handler := a.server.Handler()

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/youtube/request-token", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/linkedin/request-token", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}
