package utils

import (
	"io"
	"os"

	"github.com/Gkemhcs/socialbridge-backend/internal/config"
	"github.com/sirupsen/logrus"
)

// New creates a logrus.Logger writing JSON to stdout.
// Development runs log at debug level, everything else at info.
func New(cfg *config.Config) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(os.Stdout)
	log.SetFormatter(&logrus.JSONFormatter{})

	if cfg.Env == "development" {
		log.SetLevel(logrus.DebugLevel)
	} else {
		log.SetLevel(logrus.InfoLevel)
	}

	return log
}

// NewDiscardLogger returns a logger that drops everything. Used by tests.
func NewDiscardLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}
