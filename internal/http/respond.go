package httpserver

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/goccy/go-json"

	"github.com/Clark-Hu/movie-vault/internal/domain"
	"github.com/Clark-Hu/movie-vault/internal/vault"
)

const (
	maxRequestBody = 1 << 20 // 1 MiB

	msgLoginRequired = "Please log in first"
)

type errorResponse struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

func decodeJSONBody(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBody)
	defer r.Body.Close()
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		if err := json.NewEncoder(w).Encode(payload); err != nil {
			s.logger.Error().Err(err).Msg("failed to encode response")
		}
	}
}

func (s *Server) respondError(w http.ResponseWriter, status int, code, message string) {
	s.respondJSON(w, status, errorResponse{
		Code:    code,
		Message: message,
	})
}

// respondResult writes a soft outcome with okStatus or failStatus.
func (s *Server) respondResult(w http.ResponseWriter, res domain.Result, okStatus, failStatus int) {
	status := okStatus
	if !res.Success {
		status = failStatus
	}
	s.respondJSON(w, status, res)
}

func (s *Server) respondDecodeError(w http.ResponseWriter, err error) {
	var syntaxError *json.SyntaxError
	var typeError *json.UnmarshalTypeError
	switch {
	case errors.As(err, &syntaxError):
		s.respondError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "Malformed JSON payload")
	case errors.As(err, &typeError):
		s.respondError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", fmt.Sprintf("Invalid value for field %s", typeError.Field))
	case errors.Is(err, io.EOF):
		s.respondError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "Request body cannot be empty")
	default:
		s.respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Unable to parse request body")
	}
}

// respondMutationError maps errors returned next to a soft result: domain
// validation failures are 422, an ended session is 401, anything else is a
// storage failure.
func (s *Server) respondMutationError(w http.ResponseWriter, op string, err error) {
	if errors.Is(err, vault.ErrSessionEnded) {
		s.respondError(w, http.StatusUnauthorized, "UNAUTHORIZED", msgLoginRequired)
		return
	}
	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		s.respondError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", verr.Message)
		return
	}
	s.logger.Error().Err(err).Str("op", op).Msg("mutation failed to persist")
	s.respondError(w, http.StatusInternalServerError, "PERSIST_FAILED", "Your change was applied but could not be saved")
}
