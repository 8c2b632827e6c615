package vault

import (
	"context"
	"fmt"
	"sync"

	"github.com/goccy/go-json"

	"github.com/Clark-Hu/movie-vault/internal/domain"
)

// Store is the durable storage contract: whole user records keyed by email and
// a single key holding the active session's email.
type Store interface {
	// LoadAccount returns domain.ErrNotFound when no record exists for email.
	LoadAccount(ctx context.Context, email string) (domain.UserRecord, error)
	SaveAccount(ctx context.Context, rec domain.UserRecord) error
	// ActiveSession returns "" when logged out.
	ActiveSession(ctx context.Context) (string, error)
	SetActiveSession(ctx context.Context, email string) error
	ClearActiveSession(ctx context.Context) error
}

// MemoryStore keeps encoded records in process memory. Values are stored as
// JSON so callers never share state with the store.
type MemoryStore struct {
	mu       sync.RWMutex
	accounts map[string][]byte
	active   string
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{accounts: make(map[string][]byte)}
}

func (m *MemoryStore) LoadAccount(_ context.Context, email string) (domain.UserRecord, error) {
	m.mu.RLock()
	raw, ok := m.accounts[email]
	m.mu.RUnlock()
	if !ok {
		return domain.UserRecord{}, domain.ErrNotFound
	}

	var rec domain.UserRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		return domain.UserRecord{}, fmt.Errorf("decode account %s: %w", email, err)
	}
	return rec, nil
}

func (m *MemoryStore) SaveAccount(_ context.Context, rec domain.UserRecord) error {
	raw, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode account %s: %w", rec.Email, err)
	}
	m.mu.Lock()
	m.accounts[rec.Email] = raw
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) ActiveSession(context.Context) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.active, nil
}

func (m *MemoryStore) SetActiveSession(_ context.Context, email string) error {
	m.mu.Lock()
	m.active = email
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) ClearActiveSession(context.Context) error {
	m.mu.Lock()
	m.active = ""
	m.mu.Unlock()
	return nil
}
