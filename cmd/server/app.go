package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"time"

	"github.com/Gkemhcs/socialbridge-backend/internal/auth"
	"github.com/Gkemhcs/socialbridge-backend/internal/auth/jwt"
	authprovider "github.com/Gkemhcs/socialbridge-backend/internal/auth/provider"
	"github.com/Gkemhcs/socialbridge-backend/internal/config"
	"github.com/Gkemhcs/socialbridge-backend/internal/db"
	"github.com/Gkemhcs/socialbridge-backend/internal/oauth"
	"github.com/Gkemhcs/socialbridge-backend/internal/oauth/pending"
	pendingdb "github.com/Gkemhcs/socialbridge-backend/internal/oauth/pending/gen"
	"github.com/Gkemhcs/socialbridge-backend/internal/observability/metrics"
	"github.com/Gkemhcs/socialbridge-backend/internal/provider"
	"github.com/Gkemhcs/socialbridge-backend/internal/server"
	"github.com/Gkemhcs/socialbridge-backend/internal/social"
	"github.com/Gkemhcs/socialbridge-backend/internal/tokenstore"
	tokendb "github.com/Gkemhcs/socialbridge-backend/internal/tokenstore/gen"
	"github.com/Gkemhcs/socialbridge-backend/internal/utils"
	"github.com/sirupsen/logrus"
)

// The manager only verifies credentials issued by the identity service.
const identityTokenDuration = time.Hour

type app struct {
	server *server.Server
	conn   *sql.DB
}

func (a *app) Close() {
	if a.conn != nil {
		_ = a.conn.Close()
	}
}

// buildApp wires stores, adapters, the comment dispatcher and the HTTP handlers.
func buildApp(ctx context.Context, cfg *config.Config, logger *logrus.Logger) (*app, error) {
	registry := metrics.NewRegistry()

	var conn *sql.DB
	if cfg.UsesPostgres() {
		var err error
		conn, err = db.InitDB(ctx, logger, cfg)
		if err != nil {
			return nil, err
		}
		metrics.RegisterDBStats(registry, conn)
	}
	a := &app{conn: conn}

	tokens, pendingStore, err := buildStores(cfg, conn, logger)
	if err != nil {
		a.Close()
		return nil, err
	}

	httpClient := &http.Client{Timeout: cfg.HTTPClientTimeout}
	jwter := jwt.NewManager(cfg.IdentityJWTSecret, identityTokenDuration)

	adapters, err := oauth.NewRegistry(cfg.Providers, oauth.Deps{
		Resolver:   jwter,
		Pending:    pendingStore,
		Tokens:     tokens,
		HTTPClient: httpClient,
		Logger:     logger,
	})
	if err != nil {
		a.Close()
		return nil, err
	}

	dispatcher := social.NewDispatcher(tokens, adapters, logger)
	dispatcher.RegisterDefaults(cfg.Providers, httpClient)

	providerService := provider.NewProviderService(adapters, tokens, dispatcher, metrics.NewOAuthMetrics(registry), logger)
	providerHandler := provider.NewProviderHandler(providerService, cfg.Providers, cfg.AppRedirectURL, logger)

	identity := authprovider.NewGoTrueProvider(cfg.SupabaseURL, cfg.SupabaseKey, httpClient)
	authService := auth.NewAuthService(identity, cfg.SignupRedirectURL, cfg.SigninRedirectURL, logger)
	authHandler := auth.NewAuthHandler(authService, logger)

	a.server = server.New(cfg, logger, conn, registry)
	a.server.SetupRoutes(authHandler, providerHandler, jwter)

	logger.WithFields(logrus.Fields{
		"providers":     adapters.Names(),
		"token_store":   cfg.TokenStoreDriver,
		"pending_store": cfg.PendingStoreDriver,
	}).Info("server initialised")
	return a, nil
}

func buildStores(cfg *config.Config, conn *sql.DB, logger *logrus.Logger) (tokenstore.Store, pending.Store, error) {
	var enc *utils.Encryptor
	if cfg.TokenEncryptionKey != "" {
		var err error
		enc, err = utils.NewEncryptor(cfg.TokenEncryptionKey)
		if err != nil {
			return nil, nil, fmt.Errorf("token encryption key: %w", err)
		}
	}

	var tokens tokenstore.Store
	switch cfg.TokenStoreDriver {
	case "postgres":
		tokens = tokenstore.NewPostgresStore(tokendb.New(conn), enc, logger)
	default:
		logger.Warn("token store runs in memory; connections are lost on restart")
		tokens = tokenstore.NewMemoryStore()
	}

	var pendingStore pending.Store
	switch cfg.PendingStoreDriver {
	case "postgres":
		pendingStore = pending.NewPostgresStore(pendingdb.New(conn), enc, cfg.PendingTTL, logger)
	default:
		pendingStore = pending.NewMemoryStore(cfg.PendingTTL)
	}
	return tokens, pendingStore, nil
}
