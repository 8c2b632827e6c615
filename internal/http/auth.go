package httpserver

import (
	"errors"
	"net/http"

	"github.com/Clark-Hu/movie-vault/internal/domain"
	"github.com/Clark-Hu/movie-vault/internal/vault"
)

type signupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		s.respondDecodeError(w, err)
		return
	}
	if msg := validateRequest(&req); msg != "" {
		s.respondError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", msg)
		return
	}

	res, err := s.vault.Signup(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		s.logger.Error().Err(err).Msg("signup failed")
		s.respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to create account")
		return
	}
	s.respondAuth(w, res, http.StatusCreated)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		s.respondDecodeError(w, err)
		return
	}
	if msg := validateRequest(&req); msg != "" {
		s.respondError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", msg)
		return
	}

	res, err := s.vault.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		s.logger.Error().Err(err).Msg("login failed")
		s.respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to log in")
		return
	}
	s.respondAuth(w, res, http.StatusOK)
}

func (s *Server) respondAuth(w http.ResponseWriter, res vault.AuthResult, okStatus int) {
	if !res.Success {
		s.respondJSON(w, authFailureStatus(res.Reason), authResponse{Result: res.Result})
		return
	}
	var profile profileResponse
	res.Session.View(func(u *domain.User) { profile = toProfile(u) })
	s.respondJSON(w, okStatus, authResponse{Result: res.Result, Profile: &profile})
}

func authFailureStatus(reason error) int {
	switch {
	case errors.Is(reason, vault.ErrConflict):
		return http.StatusConflict
	case errors.Is(reason, vault.ErrAccountNotFound):
		return http.StatusNotFound
	case errors.Is(reason, vault.ErrBadCredentials):
		return http.StatusUnauthorized
	default:
		return http.StatusUnprocessableEntity
	}
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if err := s.vault.Logout(r.Context()); err != nil {
		s.logger.Error().Err(err).Msg("logout failed")
		s.respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to log out")
		return
	}
	s.respondJSON(w, http.StatusOK, domain.Result{Success: true, Message: "Logged out."})
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.requireSession(w)
	if !ok {
		return
	}
	var profile profileResponse
	sess.View(func(u *domain.User) { profile = toProfile(u) })
	s.respondJSON(w, http.StatusOK, profile)
}

// requireSession returns the active session or writes 401.
func (s *Server) requireSession(w http.ResponseWriter) (*vault.Session, bool) {
	sess := s.vault.Current()
	if sess == nil {
		s.respondError(w, http.StatusUnauthorized, "UNAUTHORIZED", msgLoginRequired)
		return nil, false
	}
	return sess, true
}
