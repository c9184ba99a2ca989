package db

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"time"

	"github.com/Gkemhcs/socialbridge-backend/internal/config"
	_ "github.com/lib/pq"

	"github.com/sirupsen/logrus"
)

const pingTimeout = 5 * time.Second

// DSN builds the PostgreSQL connection URL from config values.
// The credentials are URL-encoded so special characters survive.
func DSN(cfg *config.Config) string {
	u := url.URL{
		Scheme:   "postgresql",
		User:     url.UserPassword(cfg.DBUser, cfg.DBPassword),
		Host:     fmt.Sprintf("%s:%s", cfg.DBHost, cfg.DBPort),
		Path:     "/" + cfg.DBName,
		RawQuery: "sslmode=disable",
	}
	return u.String()
}

// InitDB opens the PostgreSQL pool used by the token and pending stores and
// verifies it with a ping before returning.
func InitDB(ctx context.Context, logger *logrus.Logger, cfg *config.Config) (*sql.DB, error) {
	conn, err := sql.Open("postgres", DSN(cfg))
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	configureConnectionPool(conn, cfg, logger)

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := conn.PingContext(pingCtx); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	logger.WithFields(logrus.Fields{
		"host":               cfg.DBHost,
		"database":           cfg.DBName,
		"max_open_conns":     cfg.DBMaxOpenConns,
		"max_idle_conns":     cfg.DBMaxIdleConns,
		"conn_max_lifetime":  fmt.Sprintf("%dm", cfg.DBConnMaxLifetime),
		"conn_max_idle_time": fmt.Sprintf("%dm", cfg.DBConnMaxIdleTime),
	}).Info("Database connection pool configured")

	return conn, nil
}

func configureConnectionPool(db *sql.DB, cfg *config.Config, logger *logrus.Logger) {
	db.SetMaxOpenConns(cfg.DBMaxOpenConns)
	db.SetMaxIdleConns(cfg.DBMaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.DBConnMaxLifetime) * time.Minute)
	db.SetConnMaxIdleTime(time.Duration(cfg.DBConnMaxIdleTime) * time.Minute)

	logger.WithField("environment", cfg.Env).Debug("Database connection pool settings applied")
}

// GetConnectionStats returns current connection pool statistics for the detailed health check.
func GetConnectionStats(db *sql.DB) map[string]interface{} {
	stats := db.Stats()
	return map[string]interface{}{
		"max_open_connections": stats.MaxOpenConnections,
		"open_connections":     stats.OpenConnections,
		"in_use":               stats.InUse,
		"idle":                 stats.Idle,
		"wait_count":           stats.WaitCount,
		"wait_duration":        stats.WaitDuration.String(),
		"max_idle_closed":      stats.MaxIdleClosed,
		"max_lifetime_closed":  stats.MaxLifetimeClosed,
	}
}
