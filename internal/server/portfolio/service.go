package portfolio

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/chdeepakkumar/portfolio/internal/common"
	"github.com/chdeepakkumar/portfolio/internal/logging"
	"github.com/chdeepakkumar/portfolio/internal/server/models"
	"github.com/chdeepakkumar/portfolio/internal/server/repository"
)

// UpdatePayload is a partial update: only the named sections are touched, and
// SectionOrder, when present, replaces the stored order wholesale.
type UpdatePayload struct {
	Sections     map[string]models.Section `json:"sections"`
	SectionOrder []string                  `json:"sectionOrder"`
}

// Service owns reads and updates of the portfolio document.
//
// Known limitation: updates are read-merge-write cycles without cross-process
// transactions. The mutex below serializes writers within this process, but
// two server instances sharing a remote backend can still lose an update to
// a concurrent writer (last writer wins at document granularity). Accepted
// for the single-admin usage pattern.
type Service struct {
	repo   *repository.Repository
	logger logging.Logger

	mu sync.Mutex
}

func NewService(repo *repository.Repository, logger logging.Logger) *Service {
	return &Service{repo: repo, logger: logger.With("component", "portfolio")}
}

// Get returns the public view: visible sections plus their display order.
func (s *Service) Get(ctx context.Context) (*models.PortfolioDocument, error) {
	doc, err := s.repo.ReadPortfolio(ctx)
	if err != nil {
		return nil, err
	}
	return doc.VisibleView(), nil
}

// GetAdmin returns all sections regardless of visibility.
func (s *Service) GetAdmin(ctx context.Context) (*models.PortfolioDocument, error) {
	return s.repo.ReadPortfolio(ctx)
}

// SectionOrder returns the stored display order.
func (s *Service) SectionOrder(ctx context.Context) ([]string, error) {
	doc, err := s.repo.ReadPortfolio(ctx)
	if err != nil {
		return nil, err
	}
	return doc.SectionOrder, nil
}

// Update deep-merges the payload into the stored document and returns the
// result. Sections absent from the payload are untouched; a named section not
// previously present is adopted wholesale (this is how hero is first
// customized).
func (s *Service) Update(ctx context.Context, upd UpdatePayload) (*models.PortfolioDocument, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.repo.ReadPortfolio(ctx)
	if err != nil {
		return nil, err
	}

	for id, section := range upd.Sections {
		if existing, ok := doc.Sections[id]; ok {
			doc.Sections[id] = models.Section(Merge(existing, section))
		} else {
			doc.Sections[id] = section
		}
	}

	if upd.SectionOrder != nil {
		if err := validateOrder(upd.SectionOrder, doc.Sections); err != nil {
			return nil, err
		}
		doc.SectionOrder = stripHero(upd.SectionOrder)
	}

	if err := s.repo.WritePortfolio(ctx, doc); err != nil {
		return nil, err
	}
	s.logger.Info(ctx, "portfolio updated", "sections", len(upd.Sections))
	return doc, nil
}

// UpdateSectionOrder replaces the display order wholesale after checking that
// every id (except hero) names an existing section.
func (s *Service) UpdateSectionOrder(ctx context.Context, order []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.repo.ReadPortfolio(ctx)
	if err != nil {
		return err
	}
	if err := validateOrder(order, doc.Sections); err != nil {
		return err
	}
	doc.SectionOrder = stripHero(order)
	return s.repo.WritePortfolio(ctx, doc)
}

// stripHero drops hero from a submitted order: hero is rendered first
// unconditionally and never listed.
func stripHero(order []string) []string {
	out := make([]string, 0, len(order))
	for _, id := range order {
		if id == "hero" {
			continue
		}
		out = append(out, id)
	}
	return out
}

func validateOrder(order []string, sections map[string]models.Section) error {
	var unknown []string
	for _, id := range order {
		if id == "hero" {
			continue
		}
		if _, ok := sections[id]; !ok {
			unknown = append(unknown, id)
		}
	}
	if len(unknown) > 0 {
		return fmt.Errorf("%w: invalid section ids in order: %s",
			common.ErrValidation, strings.Join(unknown, ", "))
	}
	return nil
}
