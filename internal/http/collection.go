package httpserver

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/Clark-Hu/movie-vault/internal/domain"
	"github.com/Clark-Hu/movie-vault/internal/vault"
)

const msgNotInCollection = "Movie not found in your collection."

type addMovieRequest struct {
	CatalogID string `json:"catalogId" validate:"required"`
}

type reviewRequest struct {
	Text   string  `json:"text" validate:"max=5000"`
	Rating float64 `json:"rating"`
}

type ratingRequest struct {
	Rating *float64 `json:"rating" validate:"required"`
}

type movieResponse struct {
	domain.Result
	Movie *movieView `json:"movie,omitempty"`
}

func alwaysOwned(string) bool { return true }

func (s *Server) handleListCollection(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.requireSession(w)
	if !ok {
		return
	}
	if genre, set := r.URL.Query()["genre"]; set {
		sess.SetFilter(genre[0])
	}

	filter := sess.Filter()
	var items []movieView
	sess.View(func(u *domain.User) {
		items = toMovieViews(u.FilterByGenre(filter), alwaysOwned)
	})
	s.respondJSON(w, http.StatusOK, listResponse{Filter: filter, Items: items})
}

func (s *Server) handleAddMovie(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.requireSession(w)
	if !ok {
		return
	}
	var req addMovieRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		s.respondDecodeError(w, err)
		return
	}
	if msg := validateRequest(&req); msg != "" {
		s.respondError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", msg)
		return
	}

	id := strings.TrimSpace(req.CatalogID)
	res, err := sess.AddFromCatalog(r.Context(), id)
	if err != nil {
		s.respondMutationError(w, "add_movie", err)
		return
	}
	failStatus := http.StatusNotFound
	if errors.Is(res.Reason, vault.ErrAlreadyOwned) {
		failStatus = http.StatusConflict
	}
	s.respondResult(w, res.Result, http.StatusCreated, failStatus)
}

func (s *Server) handleGetMovie(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.requireSession(w)
	if !ok {
		return
	}
	view := ownedMovieView(sess, chi.URLParam(r, "catalogID"))
	if view == nil {
		s.respondResult(w, domain.Result{Message: msgNotInCollection}, http.StatusOK, http.StatusNotFound)
		return
	}
	s.respondJSON(w, http.StatusOK, view)
}

func (s *Server) handleRemoveMovie(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.requireSession(w)
	if !ok {
		return
	}
	res, err := sess.RemoveMovie(r.Context(), chi.URLParam(r, "catalogID"))
	if err != nil {
		s.respondMutationError(w, "remove_movie", err)
		return
	}
	s.respondResult(w, res, http.StatusOK, http.StatusNotFound)
}

func (s *Server) handleAddReview(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.requireSession(w)
	if !ok {
		return
	}
	var req reviewRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		s.respondDecodeError(w, err)
		return
	}
	if msg := validateRequest(&req); msg != "" {
		s.respondError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", msg)
		return
	}

	id := chi.URLParam(r, "catalogID")
	res, err := sess.AddReview(r.Context(), id, req.Text, req.Rating)
	if err != nil {
		s.respondMutationError(w, "add_review", err)
		return
	}
	if !res.Success {
		s.respondResult(w, res, http.StatusCreated, http.StatusNotFound)
		return
	}
	s.respondJSON(w, http.StatusCreated, movieResponse{Result: res, Movie: ownedMovieView(sess, id)})
}

func (s *Server) handleSetRating(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.requireSession(w)
	if !ok {
		return
	}
	var req ratingRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		s.respondDecodeError(w, err)
		return
	}
	if msg := validateRequest(&req); msg != "" {
		s.respondError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", msg)
		return
	}

	id := chi.URLParam(r, "catalogID")
	res, err := sess.SetRating(r.Context(), id, *req.Rating)
	if err != nil {
		s.respondMutationError(w, "set_rating", err)
		return
	}
	if !res.Success {
		s.respondResult(w, res, http.StatusOK, http.StatusNotFound)
		return
	}
	s.respondJSON(w, http.StatusOK, movieResponse{Result: res, Movie: ownedMovieView(sess, id)})
}

// ownedMovieView renders an owned movie with its reviews, or nil.
func ownedMovieView(sess *vault.Session, id string) *movieView {
	var out *movieView
	sess.View(func(u *domain.User) {
		if m, found := u.Movie(id); found {
			v := toMovieView(m, true, true)
			out = &v
		}
	})
	return out
}
