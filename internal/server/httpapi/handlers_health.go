package httpapi

import (
	"net/http"
	"time"
)

var startedAt = time.Now()

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"uptime": time.Since(startedAt).Round(time.Second).String(),
	})
}

// handleHealthAdmin additionally reports storage reachability; it sits behind
// auth so probe results are not public.
func (s *Server) handleHealthAdmin(w http.ResponseWriter, r *http.Request) {
	storageOK := true
	if _, err := s.portfolio.GetAdmin(r.Context()); err != nil {
		storageOK = false
	}
	claims := claimsFrom(r.Context())
	s.writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"uptime":  time.Since(startedAt).Round(time.Second).String(),
		"storage": storageOK,
		"user":    claims.Username,
	})
}
