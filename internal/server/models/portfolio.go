// Package models defines the document entities persisted through the storage
// backend: the portfolio content tree, the admin user document, and the
// resume metadata.
package models

// Section is one named, independently visible unit of portfolio content.
//
// It is deliberately schema-loose: editors own the content shape, and partial
// updates must preserve fields this server knows nothing about, so a section
// is a raw keyed map rather than a struct. Well-known keys are "visible"
// (bool, default true), "order" (legacy integer, authoritative order lives in
// PortfolioDocument.SectionOrder), and "content" (arbitrary mapping).
type Section map[string]any

// IsVisible reports whether the section is shown to unauthenticated readers.
// A missing or non-boolean visible flag counts as visible.
func (s Section) IsVisible() bool {
	v, ok := s["visible"].(bool)
	if !ok {
		return true
	}
	return v
}

// PortfolioDocument is the root content entity.
//
// The hero section, if present, is always implicitly visible and never listed
// in SectionOrder.
type PortfolioDocument struct {
	Sections     map[string]Section `json:"sections"`
	SectionOrder []string           `json:"sectionOrder"`
}

// Normalize ensures the document's collections are non-nil so a partially
// populated or empty document never differs in shape from a full one.
func (d *PortfolioDocument) Normalize() {
	if d.Sections == nil {
		d.Sections = map[string]Section{}
	}
	if d.SectionOrder == nil {
		d.SectionOrder = []string{}
	}
}

// VisibleView returns a copy of the document containing only what an
// unauthenticated reader may see: the hero section plus every ordered section
// whose visible flag is set. Order ids pointing at missing or hidden sections
// are dropped, not rejected.
func (d *PortfolioDocument) VisibleView() *PortfolioDocument {
	view := &PortfolioDocument{
		Sections:     map[string]Section{},
		SectionOrder: []string{},
	}
	if hero, ok := d.Sections["hero"]; ok {
		view.Sections["hero"] = hero
	}
	for _, id := range d.SectionOrder {
		sec, ok := d.Sections[id]
		if !ok || !sec.IsVisible() {
			continue
		}
		view.Sections[id] = sec
		view.SectionOrder = append(view.SectionOrder, id)
	}
	return view
}
