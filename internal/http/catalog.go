package httpserver

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/Clark-Hu/movie-vault/internal/domain"
)

const (
	msgNoSearchResults = "No movies found. Try a different title."
	msgTrendingFailed  = "Could not load trending movies. Try searching above!"
)

// ownership reports collection membership for the active session, if any.
func (s *Server) ownership() func(id string) bool {
	sess := s.vault.Current()
	if sess == nil {
		return func(string) bool { return false }
	}
	return sess.InCollection
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if query == "" {
		s.respondJSON(w, http.StatusOK, listResponse{Items: []movieView{}})
		return
	}

	movies := s.vault.Search(r.Context(), query)
	resp := listResponse{Items: toMovieViews(movies, s.ownership())}
	if len(movies) == 0 {
		resp.Message = msgNoSearchResults
	}
	s.respondJSON(w, http.StatusOK, resp)
}

func (s *Server) handleLookup(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "catalogID")
	movie := s.vault.Lookup(r.Context(), id)
	if movie == nil {
		s.respondError(w, http.StatusNotFound, "NOT_FOUND", "Movie not found")
		return
	}
	s.respondJSON(w, http.StatusOK, toMovieView(movie, s.ownership()(id), false))
}

func (s *Server) handleTrending(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.requireSession(w)
	if !ok {
		return
	}
	refresh := false
	if raw := r.URL.Query().Get("refresh"); raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			s.respondError(w, http.StatusBadRequest, "BAD_REQUEST", "refresh must be a boolean")
			return
		}
		refresh = parsed
	}

	movies := sess.Trending(r.Context(), refresh)
	filter := sess.Filter()
	filtered := domain.FilterMovies(movies, filter)

	resp := listResponse{Filter: filter, Items: toMovieViews(filtered, sess.InCollection)}
	switch {
	case len(movies) == 0:
		resp.Message = msgTrendingFailed
	case len(filtered) == 0:
		resp.Message = fmt.Sprintf("No %s movies in trending right now.", filter)
	}
	s.respondJSON(w, http.StatusOK, resp)
}
