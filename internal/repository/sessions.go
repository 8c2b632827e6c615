package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// SessionsRepository manages the singleton active-session row.
type SessionsRepository struct {
	pool *pgxpool.Pool
}

// Active returns the logged-in email, or "" when nobody is logged in.
func (r *SessionsRepository) Active(ctx context.Context) (string, error) {
	const query = `SELECT email FROM active_session WHERE id`

	var email string
	if err := r.pool.QueryRow(ctx, query).Scan(&email); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", nil
		}
		return "", fmt.Errorf("get active session: %w", err)
	}
	return email, nil
}

// SetActive marks email as the active session.
func (r *SessionsRepository) SetActive(ctx context.Context, email string) error {
	const query = `
        INSERT INTO active_session (id, email)
        VALUES (TRUE, $1)
        ON CONFLICT (id)
        DO UPDATE SET email = EXCLUDED.email, updated_at = now()
    `
	if _, err := r.pool.Exec(ctx, query, email); err != nil {
		return fmt.Errorf("set active session: %w", err)
	}
	return nil
}

// Clear removes the active-session row.
func (r *SessionsRepository) Clear(ctx context.Context) error {
	if _, err := r.pool.Exec(ctx, `DELETE FROM active_session`); err != nil {
		return fmt.Errorf("clear active session: %w", err)
	}
	return nil
}
