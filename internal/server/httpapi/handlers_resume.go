package httpapi

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/chdeepakkumar/portfolio/internal/pdfgen"
)

func (s *Server) handleListResumes(w http.ResponseWriter, r *http.Request) {
	files, err := s.resumes.List(r.Context())
	if err != nil {
		s.writeError(r.Context(), w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"resumes": files})
}

func (s *Server) handleUploadResume(w http.ResponseWriter, r *http.Request) {
	filename, content, err := readUpload(r, "resume")
	if err != nil {
		s.writeError(r.Context(), w, err)
		return
	}
	file, err := s.resumes.Upload(r.Context(), filename, content)
	if err != nil {
		s.writeError(r.Context(), w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, map[string]any{
		"message": "resume uploaded",
		"resume":  file,
	})
}

func (s *Server) handleActivateResume(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Filename string `json:"filename"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(r.Context(), w, err)
		return
	}
	if err := s.resumes.Activate(r.Context(), req.Filename); err != nil {
		s.writeError(r.Context(), w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{
		"message":      "active resume updated",
		"activeResume": req.Filename,
	})
}

func (s *Server) handleDeleteResume(w http.ResponseWriter, r *http.Request) {
	active, err := s.resumes.Delete(r.Context(), chi.URLParam(r, "filename"))
	if err != nil {
		s.writeError(r.Context(), w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{
		"message":      "resume deleted",
		"activeResume": active,
	})
}

func (s *Server) handleDownloadResume(w http.ResponseWriter, r *http.Request) {
	filename := chi.URLParam(r, "filename")
	data, err := s.resumes.Download(r.Context(), filename)
	if err != nil {
		s.writeError(r.Context(), w, err)
		return
	}
	servePDF(w, filename, data)
}

func (s *Server) handleDownloadActiveResume(w http.ResponseWriter, r *http.Request) {
	active, err := s.resumes.ResolveActive(r.Context())
	if err != nil {
		s.writeError(r.Context(), w, err)
		return
	}
	if active == nil {
		s.writeErrorMessage(w, http.StatusNotFound, "no resume available")
		return
	}
	data, err := s.resumes.Download(r.Context(), active.Filename)
	if err != nil {
		s.writeError(r.Context(), w, err)
		return
	}
	servePDF(w, active.Filename, data)
}

// handleGenerateResume renders a PDF from the current visible portfolio
// content instead of serving a stored upload.
func (s *Server) handleGenerateResume(w http.ResponseWriter, r *http.Request) {
	doc, err := s.portfolio.GetAdmin(r.Context())
	if err != nil {
		s.writeError(r.Context(), w, err)
		return
	}
	data, err := pdfgen.Render(doc)
	if err != nil {
		s.writeError(r.Context(), w, err)
		return
	}
	servePDF(w, pdfgen.Filename(doc), data)
}

func servePDF(w http.ResponseWriter, filename string, data []byte) {
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.Header().Set("Content-Disposition",
		fmt.Sprintf(`attachment; filename="%s"; filename*=UTF-8''%s`, filename, url.PathEscape(filename)))
	_, _ = w.Write(data)
}
