package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/Gkemhcs/socialbridge-backend/internal/auth"
	"github.com/Gkemhcs/socialbridge-backend/internal/config"
	"github.com/Gkemhcs/socialbridge-backend/internal/db"
	"github.com/Gkemhcs/socialbridge-backend/internal/middleware"
	"github.com/Gkemhcs/socialbridge-backend/internal/observability/metrics"
	"github.com/Gkemhcs/socialbridge-backend/internal/provider"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
)

const shutdownTimeout = 10 * time.Second

// Server represents the HTTP server for the socialbridge API.
type Server struct {
	cfg      *config.Config
	log      *logrus.Logger
	engine   *gin.Engine
	db       *sql.DB // nil when both stores run in memory
	registry *prometheus.Registry
}

// New creates a new Server instance. db and registry may be nil.
func New(cfg *config.Config, log *logrus.Logger, conn *sql.DB, registry *prometheus.Registry) *Server {
	if cfg.Env != "development" {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(metrics.HTTPMetricsMiddleware(registry))
	engine.Use(middleware.CORS(cfg.CORSAllowedOrigins))

	s := &Server{
		cfg:      cfg,
		log:      log,
		engine:   engine,
		db:       conn,
		registry: registry,
	}
	s.routes()
	return s
}

// SetupRoutes registers all API routes.
// Identity endpoints are public; provider flow endpoints resolve the credential
// themselves and the remaining provider endpoints sit behind the JWT middleware.
func (s *Server) SetupRoutes(authHandler *auth.AuthHandler, providerHandler *provider.ProviderHandler, resolver middleware.IdentityResolver) {
	api := s.engine.Group("/api")

	auth.RegisterAuthRoutes(authHandler, api)
	provider.RegisterProviderRoutes(providerHandler, api, middleware.JWTAuthMiddleware(resolver))
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// routes registers health check and other non-API routes.
func (s *Server) routes() {
	s.engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "socialbridge backend is healthy",
		})
	})

	// Detailed health check with database connection pool stats
	s.engine.GET("/healthz/detailed", func(c *gin.Context) {
		database := gin.H{"status": "not_configured"}
		if s.db != nil {
			if err := s.db.PingContext(c.Request.Context()); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{
					"status":  "error",
					"message": "Database connection failed",
					"error":   err.Error(),
				})
				return
			}
			database = gin.H{
				"status": "connected",
				"pool":   db.GetConnectionStats(s.db),
			}
		}

		c.JSON(http.StatusOK, gin.H{
			"status":      "ok",
			"message":     "socialbridge backend is healthy",
			"database":    database,
			"server_time": time.Now().UTC().Format(time.RFC3339),
		})
	})

	if s.registry != nil {
		s.engine.GET("/metrics", metrics.Handler(s.registry))
	}
}

// Start runs the HTTP server on the configured port until ctx is cancelled,
// then drains in-flight requests.
func (s *Server) Start(ctx context.Context) error {
	addr := fmt.Sprintf(":%s", s.cfg.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Infof("starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.log.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
