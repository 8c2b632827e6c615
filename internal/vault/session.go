package vault

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/Clark-Hu/movie-vault/internal/domain"
	"github.com/Clark-Hu/movie-vault/internal/metrics"
)

const (
	msgCatalogMiss  = "Could not load movie details. Please try again."
	msgNotInVault   = "Movie not found in your collection."
	msgEmptyReview  = "Please write your review before submitting."
	msgMissingStars = "Please select a star rating."
)

// Session is the logged-in user's context: the user, the current genre filter
// and the cached trending list. Mutators persist the whole user record before
// returning.
type Session struct {
	svc    *Service
	user   *domain.User
	filter string
	logger zerolog.Logger

	trending       []*domain.Movie
	trendingLoaded bool
}

// AddResult is the soft outcome of adding a movie. Reason is set on failure.
type AddResult struct {
	domain.Result
	Reason error `json:"-"`
}

// Email returns the session's account key.
func (s *Session) Email() string { return s.user.Email() }

// View runs fn with the session's user while holding the service lock. fn must
// not retain the user or call back into the session.
func (s *Session) View(fn func(u *domain.User)) {
	s.svc.mu.Lock()
	defer s.svc.mu.Unlock()
	fn(s.user)
}

// InCollection reports whether catalogID is already owned.
func (s *Session) InCollection(catalogID string) bool {
	s.svc.mu.Lock()
	defer s.svc.mu.Unlock()
	return s.user.HasMovie(catalogID)
}

// live returns ErrSessionEnded unless s is still the service's current
// session. The caller holds the service lock.
func (s *Session) live(op string) error {
	if s.svc.current != s {
		mutation(op, "ended")
		return ErrSessionEnded
	}
	return nil
}

// AddMovie adds movie to the collection and persists on success. A non-nil
// error means the in-memory change was kept but the write failed, or the
// session has ended and nothing changed.
func (s *Session) AddMovie(ctx context.Context, movie *domain.Movie) (AddResult, error) {
	s.svc.mu.Lock()
	defer s.svc.mu.Unlock()

	if err := s.live("add_movie"); err != nil {
		return AddResult{}, err
	}
	res := s.user.AddMovie(movie)
	if !res.Success {
		mutation("add_movie", "rejected")
		return AddResult{Result: res, Reason: ErrAlreadyOwned}, nil
	}
	mutation("add_movie", "success")
	return AddResult{Result: res}, s.persist(ctx)
}

// AddFromCatalog fetches catalogID and adds the resulting movie.
func (s *Session) AddFromCatalog(ctx context.Context, catalogID string) (AddResult, error) {
	s.svc.mu.Lock()
	err := s.live("add_movie")
	s.svc.mu.Unlock()
	if err != nil {
		return AddResult{}, err
	}

	movie := s.svc.Lookup(ctx, catalogID)
	if movie == nil {
		mutation("add_movie", "rejected")
		return AddResult{Result: domain.Result{Message: msgCatalogMiss}, Reason: ErrCatalogMiss}, nil
	}
	return s.AddMovie(ctx, movie)
}

// RemoveMovie drops catalogID from the collection and persists on success.
func (s *Session) RemoveMovie(ctx context.Context, catalogID string) (domain.Result, error) {
	s.svc.mu.Lock()
	defer s.svc.mu.Unlock()

	if err := s.live("remove_movie"); err != nil {
		return domain.Result{}, err
	}
	res := s.user.RemoveMovie(catalogID)
	if !res.Success {
		mutation("remove_movie", "rejected")
		return res, nil
	}
	mutation("remove_movie", "success")
	return res, s.persist(ctx)
}

// AddReview attaches a review by the session user to an owned movie. The
// rating is rounded half up to whole stars. Empty text and out-of-range
// ratings are *domain.ValidationError; a missing movie is a soft failure.
func (s *Session) AddReview(ctx context.Context, catalogID, text string, rating float64) (domain.Result, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		mutation("add_review", "invalid")
		return domain.Result{}, &domain.ValidationError{Field: "text", Message: msgEmptyReview}
	}
	if rating == 0 {
		mutation("add_review", "invalid")
		return domain.Result{}, &domain.ValidationError{Field: "rating", Message: msgMissingStars}
	}
	stars, err := domain.ReviewStars(rating)
	if err != nil {
		mutation("add_review", "invalid")
		return domain.Result{}, err
	}

	s.svc.mu.Lock()
	defer s.svc.mu.Unlock()

	if err := s.live("add_review"); err != nil {
		return domain.Result{}, err
	}
	movie, ok := s.user.Movie(catalogID)
	if !ok {
		mutation("add_review", "rejected")
		return domain.Result{Message: msgNotInVault}, nil
	}
	review, err := domain.NewReview(catalogID, s.user.Name, text, stars)
	if err != nil {
		mutation("add_review", "invalid")
		return domain.Result{}, err
	}
	movie.AddReview(review)
	mutation("add_review", "success")
	res := domain.Result{Success: true, Message: fmt.Sprintf("Review added to \"%s\".", movie.Title)}
	return res, s.persist(ctx)
}

// SetRating overrides an owned movie's aggregate rating.
func (s *Session) SetRating(ctx context.Context, catalogID string, value float64) (domain.Result, error) {
	s.svc.mu.Lock()
	defer s.svc.mu.Unlock()

	if err := s.live("set_rating"); err != nil {
		return domain.Result{}, err
	}
	movie, ok := s.user.Movie(catalogID)
	if !ok {
		mutation("set_rating", "rejected")
		return domain.Result{Message: msgNotInVault}, nil
	}
	if err := movie.SetRating(value); err != nil {
		mutation("set_rating", "invalid")
		return domain.Result{}, err
	}
	mutation("set_rating", "success")
	res := domain.Result{Success: true, Message: fmt.Sprintf("\"%s\" rated %d.", movie.Title, movie.Rating())}
	return res, s.persist(ctx)
}

// SetFilter selects the genre filter; "" resets to all genres.
func (s *Session) SetFilter(genre string) {
	genre = strings.TrimSpace(genre)
	if genre == "" {
		genre = domain.AllGenres
	}
	s.svc.mu.Lock()
	s.filter = genre
	s.svc.mu.Unlock()
}

// Filter returns the current genre filter.
func (s *Session) Filter() string {
	s.svc.mu.Lock()
	defer s.svc.mu.Unlock()
	return s.filter
}

// FilteredCollection applies the current filter to the collection.
func (s *Session) FilteredCollection() []*domain.Movie {
	s.svc.mu.Lock()
	defer s.svc.mu.Unlock()
	return s.user.FilterByGenre(s.filter)
}

// Trending returns the cached trending list, loading it on first use or when
// refresh is set. The list is not filtered.
func (s *Session) Trending(ctx context.Context, refresh bool) []*domain.Movie {
	s.svc.mu.Lock()
	if s.trendingLoaded && !refresh {
		cached := append([]*domain.Movie(nil), s.trending...)
		s.svc.mu.Unlock()
		return cached
	}
	s.svc.mu.Unlock()

	if s.svc.trending == nil {
		return []*domain.Movie{}
	}
	movies := s.svc.trending.Load(ctx)

	s.svc.mu.Lock()
	defer s.svc.mu.Unlock()
	s.trending = movies
	s.trendingLoaded = len(movies) > 0
	return append([]*domain.Movie{}, movies...)
}

// persist writes the whole user record and re-marks the session active. The
// caller holds the service lock.
func (s *Session) persist(ctx context.Context) error {
	rec := s.user.Record()
	if err := s.svc.store.SaveAccount(ctx, rec); err != nil {
		return s.persistFailed("save account", err)
	}
	if err := s.svc.store.SetActiveSession(ctx, rec.Email); err != nil {
		return s.persistFailed("set active session", err)
	}
	return nil
}

func (s *Session) persistFailed(step string, err error) error {
	metrics.PersistFailures.Inc()
	s.logger.Error().Err(err).Str("step", step).Msg("write-through failed; in-memory state kept")
	return fmt.Errorf("%s: %w", step, err)
}
