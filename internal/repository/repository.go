package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Clark-Hu/movie-vault/internal/domain"
	"github.com/Clark-Hu/movie-vault/internal/store"
)

// ErrNotFound indicates the requested entity does not exist.
var ErrNotFound = domain.ErrNotFound

// Repository aggregates the account and session repositories and satisfies
// the vault storage contract.
type Repository struct {
	Accounts *AccountsRepository
	Sessions *SessionsRepository
}

// New constructs a Repository backed by the provided store.
func New(st *store.Store) *Repository {
	return NewWithPool(st.Pool())
}

// NewWithPool allows constructing repositories directly from a pgx pool.
func NewWithPool(pool *pgxpool.Pool) *Repository {
	return &Repository{
		Accounts: &AccountsRepository{pool: pool},
		Sessions: &SessionsRepository{pool: pool},
	}
}

func (r *Repository) LoadAccount(ctx context.Context, email string) (domain.UserRecord, error) {
	return r.Accounts.Get(ctx, email)
}

func (r *Repository) SaveAccount(ctx context.Context, rec domain.UserRecord) error {
	return r.Accounts.Put(ctx, rec)
}

func (r *Repository) ActiveSession(ctx context.Context) (string, error) {
	return r.Sessions.Active(ctx)
}

func (r *Repository) SetActiveSession(ctx context.Context, email string) error {
	return r.Sessions.SetActive(ctx, email)
}

func (r *Repository) ClearActiveSession(ctx context.Context) error {
	return r.Sessions.Clear(ctx)
}
