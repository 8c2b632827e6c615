package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/goccy/go-json"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Clark-Hu/movie-vault/internal/domain"
)

// AccountsRepository stores whole user records as JSONB keyed by email.
type AccountsRepository struct {
	pool *pgxpool.Pool
}

// Get loads the record stored for email.
func (r *AccountsRepository) Get(ctx context.Context, email string) (domain.UserRecord, error) {
	const query = `SELECT record FROM accounts WHERE email = $1`

	var payload []byte
	if err := r.pool.QueryRow(ctx, query, email).Scan(&payload); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.UserRecord{}, ErrNotFound
		}
		return domain.UserRecord{}, fmt.Errorf("get account: %w", err)
	}

	var rec domain.UserRecord
	if err := json.Unmarshal(payload, &rec); err != nil {
		return domain.UserRecord{}, fmt.Errorf("decode account %s: %w", email, err)
	}
	return rec, nil
}

// Put replaces the stored record for rec.Email, inserting it when absent.
func (r *AccountsRepository) Put(ctx context.Context, rec domain.UserRecord) error {
	const query = `
        INSERT INTO accounts (email, record)
        VALUES ($1, $2)
        ON CONFLICT (email)
        DO UPDATE SET record = EXCLUDED.record, updated_at = now()
    `

	payload, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode account: %w", err)
	}
	if _, err := r.pool.Exec(ctx, query, rec.Email, payload); err != nil {
		return fmt.Errorf("upsert account: %w", err)
	}
	return nil
}
