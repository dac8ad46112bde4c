package token

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"lexsync/internal/registry/models"
	"lexsync/pkg/sentinel"
)

// PostgresStore persists the current token in the registry_tokens table.
// The table is a single logical row; Replace rewrites it transactionally.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Current(ctx context.Context) (models.AccessToken, error) {
	var tok models.AccessToken
	err := s.db.QueryRowContext(ctx, `
		SELECT value, expires_at
		FROM registry_tokens
		ORDER BY expires_at DESC
		LIMIT 1
	`).Scan(&tok.Value, &tok.ExpiresAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.AccessToken{}, sentinel.ErrNotFound
		}
		return models.AccessToken{}, fmt.Errorf("load current token: %w", err)
	}
	return tok, nil
}

func (s *PostgresStore) Replace(ctx context.Context, tok models.AccessToken) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin token replace: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM registry_tokens`); err != nil {
		return fmt.Errorf("delete stale tokens: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO registry_tokens (value, expires_at) VALUES ($1, $2)
	`, tok.Value, tok.ExpiresAt); err != nil {
		return fmt.Errorf("insert token: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit token replace: %w", err)
	}
	return nil
}
