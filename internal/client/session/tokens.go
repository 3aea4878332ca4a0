package session

import (
	"context"
	"database/sql"
	"errors"

	"github.com/dmitrijs2005/afteryou/internal/client/models"
	"github.com/dmitrijs2005/afteryou/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/afteryou/internal/common"
	"github.com/dmitrijs2005/afteryou/internal/dbx"
)

// TokenStore keeps the access and refresh tokens in the local database.
// It is the only state the client persists.
type TokenStore struct {
	db *sql.DB
}

func NewTokenStore(db *sql.DB) *TokenStore {
	return &TokenStore{db: db}
}

// Tokens returns the stored pair. Missing keys come back as empty strings.
func (s *TokenStore) Tokens(ctx context.Context) (models.Tokens, error) {
	repo := metadata.NewSQLiteRepository(s.db)

	access, err := getOptional(ctx, repo, common.AccessTokenKey)
	if err != nil {
		return models.Tokens{}, err
	}
	refresh, err := getOptional(ctx, repo, common.RefreshTokenKey)
	if err != nil {
		return models.Tokens{}, err
	}
	return models.Tokens{Access: access, Refresh: refresh}, nil
}

// SaveTokens writes both tokens in one transaction.
func (s *TokenStore) SaveTokens(ctx context.Context, t models.Tokens) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := metadata.NewSQLiteRepository(tx)
		if err := repo.Set(ctx, common.AccessTokenKey, t.Access); err != nil {
			return err
		}
		if t.Refresh == "" {
			return repo.Delete(ctx, common.RefreshTokenKey)
		}
		return repo.Set(ctx, common.RefreshTokenKey, t.Refresh)
	})
}

func (s *TokenStore) ClearTokens(ctx context.Context) error {
	return metadata.NewSQLiteRepository(s.db).Delete(ctx, common.AccessTokenKey, common.RefreshTokenKey)
}

func getOptional(ctx context.Context, repo metadata.Repository, key string) (string, error) {
	v, err := repo.Get(ctx, key)
	if errors.Is(err, common.ErrorNotFound) {
		return "", nil
	}
	return v, err
}
