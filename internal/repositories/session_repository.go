package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/reelbase/backend/internal/auth"
	"github.com/reelbase/backend/internal/db"
)

// PostgresSessionStore persists issued sessions to PostgreSQL.
type PostgresSessionStore struct {
	pool db.Pool
}

// NewPostgresSessionStore constructs a session store backed by PostgreSQL.
func NewPostgresSessionStore(pool db.Pool) *PostgresSessionStore {
	return &PostgresSessionStore{pool: pool}
}

// Save stores or updates a session record.
func (s *PostgresSessionStore) Save(ctx context.Context, session auth.Session) error {
	conn, err := s.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	_, err = conn.Exec(ctx, `
        INSERT INTO sessions (refresh_token, access_token, user_id, access_expires_at, refresh_expires_at)
        VALUES ($1, $2, $3, $4, $5)
        ON CONFLICT (refresh_token)
        DO UPDATE SET access_token = EXCLUDED.access_token,
                      user_id = EXCLUDED.user_id,
                      access_expires_at = EXCLUDED.access_expires_at,
                      refresh_expires_at = EXCLUDED.refresh_expires_at
    `, session.RefreshToken, session.AccessToken, session.UserID,
		session.AccessExpiresAt.UTC(), session.RefreshExpiresAt.UTC())
	if err != nil {
		return fmt.Errorf("upsert session: %w", err)
	}

	return nil
}

// FindByRefresh loads a session by its refresh token.
func (s *PostgresSessionStore) FindByRefresh(ctx context.Context, refreshToken string) (auth.Session, error) {
	return s.find(ctx, `
        SELECT refresh_token, access_token, user_id, access_expires_at, refresh_expires_at
        FROM sessions
        WHERE refresh_token = $1
    `, refreshToken)
}

// FindByAccess loads a session by its access token.
func (s *PostgresSessionStore) FindByAccess(ctx context.Context, accessToken string) (auth.Session, error) {
	return s.find(ctx, `
        SELECT refresh_token, access_token, user_id, access_expires_at, refresh_expires_at
        FROM sessions
        WHERE access_token = $1
    `, accessToken)
}

func (s *PostgresSessionStore) find(ctx context.Context, query, token string) (auth.Session, error) {
	conn, err := s.pool.Acquire(ctx)
	if err != nil {
		return auth.Session{}, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	row := conn.QueryRow(ctx, query, token)

	var session auth.Session
	var accessExpiresAt, refreshExpiresAt time.Time
	if err := row.Scan(&session.RefreshToken, &session.AccessToken, &session.UserID,
		&accessExpiresAt, &refreshExpiresAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return auth.Session{}, auth.ErrSessionNotFound
		}
		return auth.Session{}, fmt.Errorf("select session: %w", err)
	}

	session.AccessExpiresAt = accessExpiresAt.UTC()
	session.RefreshExpiresAt = refreshExpiresAt.UTC()
	return session, nil
}

// Delete removes a session by its refresh token.
func (s *PostgresSessionStore) Delete(ctx context.Context, refreshToken string) error {
	conn, err := s.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	tag, err := conn.Exec(ctx, `
        DELETE FROM sessions
        WHERE refresh_token = $1
    `, refreshToken)
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return auth.ErrSessionNotFound
	}

	return nil
}
