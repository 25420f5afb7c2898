package httpapi

import (
	"net/http"

	"github.com/chdeepakkumar/portfolio/internal/server/models"
	"github.com/chdeepakkumar/portfolio/internal/server/portfolio"
)

type portfolioResponse struct {
	Sections     map[string]models.Section `json:"sections"`
	SectionOrder []string                  `json:"sectionOrder"`
}

func toPortfolioResponse(doc *models.PortfolioDocument) portfolioResponse {
	return portfolioResponse{Sections: doc.Sections, SectionOrder: doc.SectionOrder}
}

func (s *Server) handleGetPortfolio(w http.ResponseWriter, r *http.Request) {
	doc, err := s.portfolio.Get(r.Context())
	if err != nil {
		s.writeError(r.Context(), w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, toPortfolioResponse(doc))
}

func (s *Server) handleGetAdminPortfolio(w http.ResponseWriter, r *http.Request) {
	doc, err := s.portfolio.GetAdmin(r.Context())
	if err != nil {
		s.writeError(r.Context(), w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, toPortfolioResponse(doc))
}

func (s *Server) handleGetSectionOrder(w http.ResponseWriter, r *http.Request) {
	order, err := s.portfolio.SectionOrder(r.Context())
	if err != nil {
		s.writeError(r.Context(), w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string][]string{"sectionOrder": order})
}

func (s *Server) handleUpdatePortfolio(w http.ResponseWriter, r *http.Request) {
	var upd portfolio.UpdatePayload
	if err := decodeJSON(w, r, &upd); err != nil {
		s.writeError(r.Context(), w, err)
		return
	}
	if len(upd.Sections) == 0 && upd.SectionOrder == nil {
		s.writeErrorMessage(w, http.StatusBadRequest, "nothing to update")
		return
	}
	doc, err := s.portfolio.Update(r.Context(), upd)
	if err != nil {
		s.writeError(r.Context(), w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{
		"message":   "portfolio updated",
		"portfolio": toPortfolioResponse(doc),
	})
}

func (s *Server) handleUpdateSectionOrder(w http.ResponseWriter, r *http.Request) {
	var req struct {
		SectionOrder []string `json:"sectionOrder"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(r.Context(), w, err)
		return
	}
	if req.SectionOrder == nil {
		s.writeErrorMessage(w, http.StatusBadRequest, "sectionOrder is required")
		return
	}
	if err := s.portfolio.UpdateSectionOrder(r.Context(), req.SectionOrder); err != nil {
		s.writeError(r.Context(), w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{
		"message":      "section order updated",
		"sectionOrder": req.SectionOrder,
	})
}
