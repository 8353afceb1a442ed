package verification

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound indicates no verification record matches the given token, or
// that the (user, token) pair vanished between lookup and write.
var ErrNotFound = errors.New("verification record not found")

// Store persists verification records.
type Store interface {
	// FindByToken resolves the user linked to a one-time token.
	FindByToken(ctx context.Context, token string) (string, error)
	// RecordOutcome atomically updates public_key, verified and verified_at
	// for the row matching both userID and token. Concurrent re-submission
	// of the same token races here; last write wins by design.
	RecordOutcome(ctx context.Context, userID, token, publicKey string, verified bool) error
}

// PostgresStore implements Store using PostgreSQL.
type PostgresStore struct {
	db *pgxpool.Pool
}

// NewPostgresStore builds a Postgres-backed verification store.
func NewPostgresStore(db *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{db: db}
}

// FindByToken fetches the user id linked to token.
func (s *PostgresStore) FindByToken(ctx context.Context, token string) (string, error) {
	row := s.db.QueryRow(ctx, `SELECT user_id FROM verifications WHERE token = $1`, token)
	var userID string
	if err := row.Scan(&userID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("find verification: %w", err)
	}
	return userID, nil
}

// RecordOutcome writes the verification result. verified_at is assigned by
// the database so the pair is always updated together.
func (s *PostgresStore) RecordOutcome(ctx context.Context, userID, token, publicKey string, verified bool) error {
	cmd, err := s.db.Exec(ctx, `UPDATE verifications
        SET public_key = $1, verified = $2, verified_at = CURRENT_TIMESTAMP
        WHERE user_id = $3 AND token = $4`, publicKey, verified, userID, token)
	if err != nil {
		return fmt.Errorf("record outcome: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
