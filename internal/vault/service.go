// Package vault is the session layer: account signup and login, the single
// active session and write-through collection operations.
package vault

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"github.com/Clark-Hu/movie-vault/internal/catalog"
	"github.com/Clark-Hu/movie-vault/internal/domain"
	"github.com/Clark-Hu/movie-vault/internal/metrics"
)

const minNameLength = 2

// Reasons attached to failed AuthResults.
var (
	ErrInvalidName     = errors.New("vault: name too short")
	ErrConflict        = errors.New("vault: account already exists")
	ErrAccountNotFound = errors.New("vault: account not found")
	ErrBadCredentials  = errors.New("vault: incorrect password")
)

// Reasons attached to failed AddResults.
var (
	ErrAlreadyOwned = errors.New("vault: movie already in collection")
	ErrCatalogMiss  = errors.New("vault: movie details unavailable")
)

// ErrSessionEnded is returned by Session mutators once the session is no
// longer the service's current one, after Logout or another Signup/Login.
var ErrSessionEnded = errors.New("vault: session ended")

// AuthResult is the soft outcome of Signup and Login. Session is set on success
// and Reason on failure.
type AuthResult struct {
	domain.Result
	Reason  error    `json:"-"`
	Session *Session `json:"-"`
}

func authFailure(reason error, message string) AuthResult {
	return AuthResult{Result: domain.Result{Message: message}, Reason: reason}
}

// Service owns the store, the catalog gateway and the active session. All
// state changes are serialized by one mutex; catalog calls run outside it.
type Service struct {
	mu       sync.Mutex
	store    Store
	catalog  catalog.Client
	trending *catalog.Trending
	logger   zerolog.Logger
	current  *Session
}

// NewService wires a Service. trending may be nil when the dashboard is unused.
func NewService(store Store, client catalog.Client, trending *catalog.Trending, logger zerolog.Logger) *Service {
	return &Service{
		store:    store,
		catalog:  client,
		trending: trending,
		logger:   logger,
	}
}

// Signup creates an account, persists it and makes it the active session.
func (s *Service) Signup(ctx context.Context, name, email, password string) (AuthResult, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)
	if utf8.RuneCountInString(name) < minNameLength {
		mutation("signup", "invalid")
		return authFailure(ErrInvalidName, "Name must be at least 2 characters."), nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.store.LoadAccount(ctx, email); err == nil {
		mutation("signup", "rejected")
		return authFailure(ErrConflict, "An account with this email already exists."), nil
	} else if !errors.Is(err, domain.ErrNotFound) {
		return AuthResult{}, fmt.Errorf("load account %s: %w", email, err)
	}

	sess := s.newSession(domain.NewUser(name, email, password))
	if err := sess.persist(ctx); err != nil {
		return AuthResult{}, err
	}
	s.current = sess
	mutation("signup", "success")
	s.logger.Info().Str("email", email).Msg("account created")
	return AuthResult{Result: domain.Result{Success: true, Message: fmt.Sprintf("Welcome, %s", name)}, Session: sess}, nil
}

// Login verifies credentials, loads the stored user and marks it active.
func (s *Service) Login(ctx context.Context, email, password string) (AuthResult, error) {
	email = strings.TrimSpace(email)

	s.mu.Lock()
	defer s.mu.Unlock()

	rec, err := s.store.LoadAccount(ctx, email)
	if errors.Is(err, domain.ErrNotFound) {
		mutation("login", "rejected")
		return authFailure(ErrAccountNotFound, "No account found with this email."), nil
	}
	if err != nil {
		return AuthResult{}, fmt.Errorf("load account %s: %w", email, err)
	}
	if rec.Password != password {
		mutation("login", "rejected")
		return authFailure(ErrBadCredentials, "Incorrect password."), nil
	}

	user, err := domain.UserFromRecord(rec)
	if err != nil {
		return AuthResult{}, fmt.Errorf("restore account %s: %w", email, err)
	}
	if err := s.store.SetActiveSession(ctx, email); err != nil {
		return AuthResult{}, fmt.Errorf("set active session: %w", err)
	}
	sess := s.newSession(user)
	s.current = sess
	mutation("login", "success")
	s.logger.Info().Str("email", email).Msg("logged in")
	return AuthResult{Result: domain.Result{Success: true, Message: fmt.Sprintf("Welcome, %s", user.Name)}, Session: sess}, nil
}

// Restore resumes the persisted active session. It returns nil when nobody is
// logged in or the active account record no longer exists.
func (s *Service) Restore(ctx context.Context) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	email, err := s.store.ActiveSession(ctx)
	if err != nil {
		return nil, fmt.Errorf("read active session: %w", err)
	}
	if email == "" {
		s.current = nil
		return nil, nil
	}

	rec, err := s.store.LoadAccount(ctx, email)
	if errors.Is(err, domain.ErrNotFound) {
		s.logger.Warn().Str("email", email).Msg("active session points at a missing account")
		s.current = nil
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load account %s: %w", email, err)
	}
	user, err := domain.UserFromRecord(rec)
	if err != nil {
		return nil, fmt.Errorf("restore account %s: %w", email, err)
	}
	s.current = s.newSession(user)
	return s.current, nil
}

// Logout clears the active-session key. Stored account data is untouched.
func (s *Service) Logout(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.ClearActiveSession(ctx); err != nil {
		return fmt.Errorf("clear active session: %w", err)
	}
	if s.current != nil {
		s.logger.Info().Str("email", s.current.user.Email()).Msg("logged out")
	}
	s.current = nil
	return nil
}

// Current returns the active session, or nil when logged out.
func (s *Service) Current() *Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Search looks up titles in the catalog and hydrates each hit into a movie.
func (s *Service) Search(ctx context.Context, query string) []*domain.Movie {
	return catalog.SearchMovies(ctx, s.catalog, query)
}

// Lookup fetches one catalog movie, or nil when the catalog has no data.
func (s *Service) Lookup(ctx context.Context, catalogID string) *domain.Movie {
	md := s.catalog.GetByID(ctx, catalogID)
	if md == nil {
		return nil
	}
	return domain.NewMovieFromMetadata(*md)
}

func (s *Service) newSession(user *domain.User) *Session {
	return &Session{
		svc:    s,
		user:   user,
		filter: domain.AllGenres,
		logger: s.logger.With().Str("email", user.Email()).Logger(),
	}
}

func mutation(op, outcome string) {
	metrics.CollectionMutations.WithLabelValues(op, outcome).Inc()
}
