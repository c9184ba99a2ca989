package tokenstore

import (
	"context"
	"database/sql"
	"errors"

	appErrors "github.com/Gkemhcs/socialbridge-backend/internal/errors"
	tokendb "github.com/Gkemhcs/socialbridge-backend/internal/tokenstore/gen"
	"github.com/Gkemhcs/socialbridge-backend/internal/utils"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// PostgresStore persists tokens in the provider_tokens table.
// Access tokens, secrets and refresh tokens are sealed with the Encryptor before they are written.
type PostgresStore struct {
	repo      tokendb.Querier
	encryptor *utils.Encryptor
	logger    *logrus.Logger
}

// NewPostgresStore creates a PostgresStore backed by repo.
func NewPostgresStore(repo tokendb.Querier, encryptor *utils.Encryptor, logger *logrus.Logger) *PostgresStore {
	return &PostgresStore{repo: repo, encryptor: encryptor, logger: logger}
}

func (s *PostgresStore) Upsert(ctx context.Context, token ProviderToken) (*ProviderToken, error) {
	userID, err := parseUserID(token.Provider, token.UserID)
	if err != nil {
		return nil, err
	}

	access, err := s.seal(token.Provider, token.AccessToken)
	if err != nil {
		return nil, err
	}
	secret, err := s.seal(token.Provider, token.AccessTokenSecret)
	if err != nil {
		return nil, err
	}
	refresh, err := s.seal(token.Provider, token.RefreshToken)
	if err != nil {
		return nil, err
	}

	row, err := s.repo.UpsertProviderToken(ctx, tokendb.UpsertProviderTokenParams{
		UserID:            userID,
		Provider:          token.Provider,
		AccessToken:       access,
		AccessTokenSecret: utils.DerefString(secret),
		RefreshToken:      utils.DerefString(refresh),
		ProviderAccountID: utils.DerefString(token.ProviderAccountID),
		ExpiresAt:         utils.DerefTime(token.ExpiresAt),
	})
	if err != nil {
		s.logger.WithFields(logrus.Fields{
			"provider": token.Provider,
			"user_id":  token.UserID,
			"error":    err.Error(),
		}).Error("failed to upsert provider token")
		return nil, appErrors.Wrapf(appErrors.ErrTokenStoreFailed, token.Provider, err, "upsert")
	}
	return s.open(row)
}

func (s *PostgresStore) Get(ctx context.Context, userID, provider string) (*ProviderToken, error) {
	uid, err := parseUserID(provider, userID)
	if err != nil {
		return nil, err
	}

	row, err := s.repo.GetProviderToken(ctx, tokendb.GetProviderTokenParams{UserID: uid, Provider: provider})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrTokenNotFound
		}
		s.logger.WithFields(logrus.Fields{
			"provider": provider,
			"user_id":  userID,
			"error":    err.Error(),
		}).Error("failed to fetch provider token")
		return nil, appErrors.Wrapf(appErrors.ErrTokenStoreFailed, provider, err, "get")
	}
	return s.open(row)
}

func (s *PostgresStore) UpdateAccessToken(ctx context.Context, userID, provider string, update TokenUpdate) (*ProviderToken, error) {
	uid, err := parseUserID(provider, userID)
	if err != nil {
		return nil, err
	}

	access, err := s.seal(provider, update.AccessToken)
	if err != nil {
		return nil, err
	}
	refresh, err := s.seal(provider, update.RefreshToken)
	if err != nil {
		return nil, err
	}

	row, err := s.repo.UpdateProviderAccessToken(ctx, tokendb.UpdateProviderAccessTokenParams{
		UserID:       uid,
		Provider:     provider,
		AccessToken:  access,
		RefreshToken: utils.DerefString(refresh),
		ExpiresAt:    utils.DerefTime(update.ExpiresAt),
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrTokenNotFound
		}
		s.logger.WithFields(logrus.Fields{
			"provider": provider,
			"user_id":  userID,
			"error":    err.Error(),
		}).Error("failed to update provider access token")
		return nil, appErrors.Wrapf(appErrors.ErrTokenStoreFailed, provider, err, "update")
	}
	return s.open(row)
}

func (s *PostgresStore) Delete(ctx context.Context, userID, provider string) error {
	uid, err := parseUserID(provider, userID)
	if err != nil {
		return err
	}

	n, err := s.repo.DeleteProviderToken(ctx, tokendb.DeleteProviderTokenParams{UserID: uid, Provider: provider})
	if err != nil {
		s.logger.WithFields(logrus.Fields{
			"provider": provider,
			"user_id":  userID,
			"error":    err.Error(),
		}).Error("failed to delete provider token")
		return appErrors.Wrapf(appErrors.ErrTokenStoreFailed, provider, err, "delete")
	}
	if n == 0 {
		return appErrors.ErrTokenNotFound
	}
	return nil
}

func (s *PostgresStore) seal(provider, value string) (string, error) {
	sealed, err := s.encryptor.EncryptString(value)
	if err != nil {
		return "", appErrors.Wrapf(appErrors.ErrTokenEncryptionFailed, provider, err, "seal")
	}
	return sealed, nil
}

func (s *PostgresStore) open(row tokendb.ProviderToken) (*ProviderToken, error) {
	access, err := s.encryptor.DecryptString(row.AccessToken)
	if err != nil {
		return nil, appErrors.Wrapf(appErrors.ErrTokenEncryptionFailed, row.Provider, err, "open access token")
	}
	secret, err := s.encryptor.DecryptString(row.AccessTokenSecret.String)
	if err != nil {
		return nil, appErrors.Wrapf(appErrors.ErrTokenEncryptionFailed, row.Provider, err, "open token secret")
	}
	refresh, err := s.encryptor.DecryptString(row.RefreshToken.String)
	if err != nil {
		return nil, appErrors.Wrapf(appErrors.ErrTokenEncryptionFailed, row.Provider, err, "open refresh token")
	}

	return &ProviderToken{
		UserID:            row.UserID.String(),
		Provider:          row.Provider,
		AccessToken:       access,
		AccessTokenSecret: secret,
		RefreshToken:      refresh,
		ProviderAccountID: row.ProviderAccountID.String,
		ExpiresAt:         utils.NullTimeValue(row.ExpiresAt),
		CreatedAt:         row.CreatedAt,
		UpdatedAt:         row.UpdatedAt,
	}, nil
}

func parseUserID(provider, userID string) (uuid.UUID, error) {
	uid, err := uuid.Parse(userID)
	if err != nil {
		return uuid.Nil, appErrors.Wrapf(appErrors.ErrTokenStoreFailed, provider, err, "user id %q is not a uuid", userID)
	}
	return uid, nil
}
