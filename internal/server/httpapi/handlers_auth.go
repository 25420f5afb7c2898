package httpapi

import (
	"net/http"

	"github.com/chdeepakkumar/portfolio/internal/server/models"
)

type requestOTPRequest struct {
	Password string `json:"password"`
}

type loginRequest struct {
	OTP string `json:"otp"`
}

type loginResponse struct {
	AccessToken  string              `json:"accessToken"`
	RefreshToken string              `json:"refreshToken"`
	User         *models.UserAccount `json:"user"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

func (s *Server) handleRequestOTP(w http.ResponseWriter, r *http.Request) {
	var req requestOTPRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(r.Context(), w, err)
		return
	}
	if err := s.users.RequestOTP(r.Context(), req.Password); err != nil {
		s.writeError(r.Context(), w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"message": "OTP sent to admin email"})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(r.Context(), w, err)
		return
	}
	if req.OTP == "" {
		s.writeErrorMessage(w, http.StatusBadRequest, "otp is required")
		return
	}
	pair, user, err := s.users.Login(r.Context(), req.OTP)
	if err != nil {
		s.writeError(r.Context(), w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, loginResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		User:         user,
	})
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(r.Context(), w, err)
		return
	}
	if req.RefreshToken == "" {
		s.writeErrorMessage(w, http.StatusBadRequest, "refreshToken is required")
		return
	}
	access, err := s.users.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		s.writeError(r.Context(), w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"accessToken": access})
}
