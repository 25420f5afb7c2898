package httpapi

import (
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/chdeepakkumar/portfolio/internal/common"
)

func (s *Server) handleListKnowledge(w http.ResponseWriter, r *http.Request) {
	files, err := s.knowledge.List(r.Context())
	if err != nil {
		s.writeError(r.Context(), w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"files": files})
}

func (s *Server) handleGetKnowledge(w http.ResponseWriter, r *http.Request) {
	data, err := s.knowledge.Get(r.Context(), chi.URLParam(r, "filename"))
	if err != nil {
		s.writeError(r.Context(), w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, data)
}

// handleUploadKnowledge accepts either a multipart form with a "file" part or
// a raw JSON body with the filename in the X-Filename header.
func (s *Server) handleUploadKnowledge(w http.ResponseWriter, r *http.Request) {
	filename, content, err := readUpload(r, "file")
	if err != nil {
		s.writeError(r.Context(), w, err)
		return
	}
	info, err := s.knowledge.Upload(r.Context(), filename, content)
	if err != nil {
		s.writeError(r.Context(), w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, map[string]any{
		"message": "file uploaded",
		"file":    info,
	})
}

func (s *Server) handleDeleteKnowledge(w http.ResponseWriter, r *http.Request) {
	filename := chi.URLParam(r, "filename")
	if err := s.knowledge.Delete(r.Context(), filename); err != nil {
		s.writeError(r.Context(), w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{
		"message":  "file deleted",
		"filename": filename,
	})
}

// readUpload extracts an uploaded file from a multipart form, falling back to
// the raw request body for non-multipart content types. The body is capped at
// maxBodyBytes either way.
func readUpload(r *http.Request, field string) (string, []byte, error) {
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		if err := r.ParseMultipartForm(maxBodyBytes); err != nil {
			return "", nil, fmt.Errorf("%w: invalid multipart form", common.ErrValidation)
		}
		file, header, err := r.FormFile(field)
		if err != nil {
			return "", nil, fmt.Errorf("%w: missing %q field", common.ErrValidation, field)
		}
		defer file.Close()
		content, err := io.ReadAll(io.LimitReader(file, maxBodyBytes+1))
		if err != nil {
			return "", nil, fmt.Errorf("%w: reading upload", common.ErrValidation)
		}
		return header.Filename, content, nil
	}

	content, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes+1))
	if err != nil {
		return "", nil, fmt.Errorf("%w: reading upload", common.ErrValidation)
	}
	return r.Header.Get("X-Filename"), content, nil
}
