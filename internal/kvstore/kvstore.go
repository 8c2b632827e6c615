// Package kvstore persists vault accounts in an embedded BadgerDB.
package kvstore

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/Clark-Hu/movie-vault/internal/domain"
)

// Key layout.
const (
	accountKeyPrefix = "account:"
	activeSessionKey = "session:active"
)

// Store implements the vault storage contract on BadgerDB.
type Store struct {
	db *badger.DB
}

// Open opens (or creates) a BadgerDB in dir.
func Open(dir string, logger zerolog.Logger) (*Store, error) {
	opts := badger.DefaultOptions(dir).WithLogger(badgerLogger{logger})
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger db at %s: %w", dir, err)
	}
	return &Store{db: db}, nil
}

// OpenInMemory opens a BadgerDB that lives only in memory.
func OpenInMemory() (*Store, error) {
	opts := badger.DefaultOptions("").WithInMemory(true).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open in-memory badger db: %w", err)
	}
	return &Store{db: db}, nil
}

// Close flushes and closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// HealthCheck fails once the database has been closed.
func (s *Store) HealthCheck(context.Context) error {
	if s.db.IsClosed() {
		return errors.New("badger db is closed")
	}
	return nil
}

func accountKey(email string) []byte {
	return []byte(accountKeyPrefix + email)
}

func (s *Store) LoadAccount(_ context.Context, email string) (domain.UserRecord, error) {
	var rec domain.UserRecord
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(accountKey(email))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return domain.ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("get account: %w", err)
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &rec)
		})
	})
	if err != nil {
		return domain.UserRecord{}, err
	}
	return rec, nil
}

func (s *Store) SaveAccount(_ context.Context, rec domain.UserRecord) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal account: %w", err)
	}
	return s.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set(accountKey(rec.Email), data); err != nil {
			return fmt.Errorf("set account: %w", err)
		}
		return nil
	})
}

func (s *Store) ActiveSession(context.Context) (string, error) {
	var email string
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(activeSessionKey))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("get active session: %w", err)
		}
		return item.Value(func(val []byte) error {
			email = string(val)
			return nil
		})
	})
	return email, err
}

func (s *Store) SetActiveSession(_ context.Context, email string) error {
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(activeSessionKey), []byte(email))
	})
}

func (s *Store) ClearActiveSession(context.Context) error {
	return s.db.Update(func(txn *badger.Txn) error {
		if err := txn.Delete([]byte(activeSessionKey)); err != nil && !errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("delete active session: %w", err)
		}
		return nil
	})
}

// badgerLogger routes badger's internal logging through zerolog. Badger's info
// chatter is demoted to debug.
type badgerLogger struct {
	log zerolog.Logger
}

func (l badgerLogger) Errorf(format string, args ...interface{}) {
	l.log.Error().Msgf(strings.TrimSpace(format), args...)
}

func (l badgerLogger) Warningf(format string, args ...interface{}) {
	l.log.Warn().Msgf(strings.TrimSpace(format), args...)
}

func (l badgerLogger) Infof(format string, args ...interface{}) {
	l.log.Debug().Msgf(strings.TrimSpace(format), args...)
}

func (l badgerLogger) Debugf(format string, args ...interface{}) {
	l.log.Trace().Msgf(strings.TrimSpace(format), args...)
}
