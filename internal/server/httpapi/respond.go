package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/chdeepakkumar/portfolio/internal/common"
)

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) writeErrorMessage(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, map[string]string{"error": msg})
}

// writeError maps the error taxonomy onto HTTP statuses. Internal failures
// are logged with full context but surfaced without detail.
func (s *Server) writeError(ctx context.Context, w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, common.ErrValidation), errors.Is(err, common.ErrLimitExceeded):
		s.writeErrorMessage(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, common.ErrOTPUsed):
		s.writeErrorMessage(w, http.StatusUnauthorized, "OTP has already been used")
	case errors.Is(err, common.ErrOTPExpired):
		s.writeErrorMessage(w, http.StatusUnauthorized, "OTP has expired")
	case errors.Is(err, common.ErrTokenExpired), errors.Is(err, common.ErrInvalidToken):
		s.writeErrorMessage(w, http.StatusUnauthorized, "invalid or expired token")
	case errors.Is(err, common.ErrUnauthorized):
		s.writeErrorMessage(w, http.StatusUnauthorized, "unauthorized")
	case errors.Is(err, common.ErrNotFound):
		s.writeErrorMessage(w, http.StatusNotFound, "not found")
	case errors.Is(err, common.ErrConfig):
		s.logger.Error(ctx, "configuration error", "error", err)
		s.writeErrorMessage(w, http.StatusInternalServerError, "server configuration error")
	default:
		s.logger.Error(ctx, "internal error", "error", err)
		s.writeErrorMessage(w, http.StatusInternalServerError, "internal server error")
	}
}

// decodeJSON reads a size-capped JSON body into v.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return errors.Join(common.ErrValidation, errors.New("request payload too large"))
		}
		return errors.Join(common.ErrValidation, errors.New("invalid request body"))
	}
	return nil
}
