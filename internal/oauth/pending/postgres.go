package pending

import (
	"context"
	"database/sql"
	"errors"
	"time"

	appErrors "github.com/Gkemhcs/socialbridge-backend/internal/errors"
	pendingdb "github.com/Gkemhcs/socialbridge-backend/internal/oauth/pending/gen"
	"github.com/Gkemhcs/socialbridge-backend/internal/utils"
	"github.com/sirupsen/logrus"
)

// PostgresStore shares pending records between instances.
// Consume is a single DELETE ... RETURNING so two callbacks cannot both win.
type PostgresStore struct {
	repo      pendingdb.Querier
	encryptor *utils.Encryptor
	ttl       time.Duration
	logger    *logrus.Logger
	now       func() time.Time
}

// NewPostgresStore creates a PostgresStore; a non-positive ttl falls back to DefaultTTL.
func NewPostgresStore(repo pendingdb.Querier, encryptor *utils.Encryptor, ttl time.Duration, logger *logrus.Logger) *PostgresStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &PostgresStore{repo: repo, encryptor: encryptor, ttl: ttl, logger: logger, now: time.Now}
}

func (s *PostgresStore) Save(ctx context.Context, rec Record) error {
	now := s.now().UTC()

	if n, err := s.repo.DeleteExpiredPendingAuthorizations(ctx, now); err != nil {
		s.logger.WithFields(logrus.Fields{
			"method": "PostgresStore.Save",
			"error":  err.Error(),
		}).Warn("failed to sweep expired pending authorizations")
	} else if n > 0 {
		s.logger.WithField("count", n).Debug("swept expired pending authorizations")
	}

	secret, err := s.encryptor.EncryptString(rec.Secret)
	if err != nil {
		return appErrors.Wrapf(appErrors.ErrPendingStoreFailed, rec.Provider, err, "seal secret")
	}

	err = s.repo.CreatePendingAuthorization(ctx, pendingdb.CreatePendingAuthorizationParams{
		CorrelationKey: rec.Key,
		Provider:       rec.Provider,
		UserID:         rec.UserID,
		Secret:         utils.DerefString(secret),
		CreatedAt:      now,
		ExpiresAt:      now.Add(s.ttl),
	})
	if err != nil {
		s.logger.WithFields(logrus.Fields{
			"method":   "PostgresStore.Save",
			"provider": rec.Provider,
			"error":    err.Error(),
		}).Error("failed to save pending authorization")
		if appErrors.IsUniqueViolation(err) {
			return appErrors.Wrapf(appErrors.ErrPendingStoreFailed, rec.Provider, err, "correlation key collision")
		}
		return appErrors.Wrapf(appErrors.ErrPendingStoreFailed, rec.Provider, err, "save")
	}
	return nil
}

func (s *PostgresStore) Consume(ctx context.Context, key string) (*Record, error) {
	row, err := s.repo.ConsumePendingAuthorization(ctx, key)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrInvalidFlowState
		}
		s.logger.WithFields(logrus.Fields{
			"method": "PostgresStore.Consume",
			"error":  err.Error(),
		}).Error("failed to consume pending authorization")
		return nil, appErrors.Wrapf(appErrors.ErrPendingStoreFailed, "", err, "consume")
	}

	rec := &Record{
		Key:       row.CorrelationKey,
		Provider:  row.Provider,
		UserID:    row.UserID,
		CreatedAt: row.CreatedAt,
		ExpiresAt: row.ExpiresAt,
	}
	if rec.Expired(s.now()) {
		return nil, appErrors.ErrInvalidFlowState
	}

	secret, err := s.encryptor.DecryptString(row.Secret.String)
	if err != nil {
		return nil, appErrors.Wrapf(appErrors.ErrPendingStoreFailed, row.Provider, err, "open secret")
	}
	rec.Secret = secret
	return rec, nil
}
