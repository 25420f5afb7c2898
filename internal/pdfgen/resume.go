// Package pdfgen renders a resume PDF from the visible portfolio sections.
package pdfgen

import (
	"bytes"
	"fmt"
	"sort"
	"strings"

	"github.com/go-pdf/fpdf"

	"github.com/chdeepakkumar/portfolio/internal/server/models"
)

// Filename derives the download filename from the hero name:
// "Jane Doe" becomes "JaneDoeResume.pdf".
func Filename(doc *models.PortfolioDocument) string {
	if hero, ok := doc.Sections["hero"]; ok {
		if content, ok := hero["content"].(map[string]any); ok {
			if n, ok := content["name"].(string); ok && n != "" {
				return strings.ReplaceAll(n, " ", "") + "Resume.pdf"
			}
		}
	}
	return "Resume.pdf"
}

// Render produces a PDF from the hero section plus the visible sections in
// display order. Section content is schema-loose; unknown shapes are skipped
// rather than failing the whole render.
func Render(doc *models.PortfolioDocument) ([]byte, error) {
	view := doc.VisibleView()

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.SetAutoPageBreak(true, 15)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	r := renderer{pdf: pdf, tr: tr}
	if hero, ok := view.Sections["hero"]; ok {
		r.hero(hero)
	}
	for _, id := range view.SectionOrder {
		r.section(id, view.Sections[id])
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("rendering resume pdf: %w", err)
	}
	return buf.Bytes(), nil
}

type renderer struct {
	pdf *fpdf.Fpdf
	tr  func(string) string
}

func (r *renderer) heading(text string) {
	r.pdf.Ln(4)
	r.pdf.SetFont("Helvetica", "B", 14)
	r.pdf.CellFormat(0, 8, r.tr(text), "B", 1, "L", false, 0, "")
	r.pdf.Ln(2)
}

func (r *renderer) body(text string) {
	r.pdf.SetFont("Helvetica", "", 10)
	r.pdf.MultiCell(0, 5, r.tr(text), "", "L", false)
}

func (r *renderer) bullet(text string) {
	r.pdf.SetFont("Helvetica", "", 10)
	r.pdf.SetX(20)
	r.pdf.MultiCell(0, 5, r.tr("- "+text), "", "L", false)
}

func (r *renderer) hero(sec models.Section) {
	content, _ := sec["content"].(map[string]any)
	r.pdf.SetFont("Helvetica", "B", 22)
	r.pdf.CellFormat(0, 12, r.tr(str(content, "name")), "", 1, "L", false, 0, "")
	r.pdf.SetFont("Helvetica", "", 13)
	r.pdf.CellFormat(0, 7, r.tr(str(content, "title")), "", 1, "L", false, 0, "")
	if d := str(content, "description"); d != "" {
		r.body(d)
	}
}

func (r *renderer) section(id string, sec models.Section) {
	content, _ := sec["content"].(map[string]any)
	if content == nil {
		return
	}
	r.heading(titleFor(id))

	switch id {
	case "about":
		for _, p := range items(content, "paragraphs") {
			if s, ok := p.(string); ok {
				r.body(s)
				r.pdf.Ln(1)
			}
		}
	case "skills":
		r.skills(content)
	case "experience":
		for _, e := range items(content, "experiences") {
			r.experience(e)
		}
	case "education":
		for _, e := range items(content, "items") {
			if m, ok := e.(map[string]any); ok {
				r.pdf.SetFont("Helvetica", "B", 11)
				r.pdf.CellFormat(0, 6, r.tr(str(m, "degree")), "", 1, "L", false, 0, "")
				r.body(joinNonEmpty(str(m, "institution"), str(m, "location"), str(m, "period")))
			}
		}
	case "achievements":
		for _, a := range items(content, "items") {
			if m, ok := a.(map[string]any); ok {
				r.bullet(joinNonEmpty(str(m, "title"), str(m, "value"), str(m, "description")))
			}
		}
	case "contact":
		if d := str(content, "description"); d != "" {
			r.body(d)
		}
		for _, l := range items(content, "links") {
			if m, ok := l.(map[string]any); ok {
				r.bullet(joinNonEmpty(str(m, "name"), str(m, "url")))
			}
		}
	default:
		// Unknown section kind: render string fields so custom sections are
		// not silently dropped.
		for _, k := range sortedKeys(content) {
			if s, ok := content[k].(string); ok {
				r.body(s)
			}
		}
	}
}

func (r *renderer) skills(content map[string]any) {
	categories, _ := content["categories"].(map[string]any)
	for _, cat := range sortedKeys(categories) {
		names := make([]string, 0)
		if list, ok := categories[cat].([]any); ok {
			for _, v := range list {
				if s, ok := v.(string); ok {
					names = append(names, s)
				}
			}
		}
		r.pdf.SetFont("Helvetica", "B", 10)
		r.pdf.CellFormat(0, 5, r.tr(cat), "", 1, "L", false, 0, "")
		r.body(strings.Join(names, ", "))
		r.pdf.Ln(1)
	}
}

func (r *renderer) experience(e any) {
	m, ok := e.(map[string]any)
	if !ok {
		return
	}
	r.pdf.SetFont("Helvetica", "B", 11)
	r.pdf.CellFormat(0, 6, r.tr(joinNonEmpty(str(m, "role"), str(m, "company"))), "", 1, "L", false, 0, "")
	r.pdf.SetFont("Helvetica", "I", 9)
	r.pdf.CellFormat(0, 5, r.tr(joinNonEmpty(str(m, "location"), str(m, "period"))), "", 1, "L", false, 0, "")
	if d := str(m, "description"); d != "" {
		r.body(d)
	}
	for _, a := range items(m, "achievements") {
		if s, ok := a.(string); ok {
			r.bullet(s)
		}
	}
	r.pdf.Ln(2)
}

func str(m map[string]any, key string) string {
	if m == nil {
		return ""
	}
	s, _ := m[key].(string)
	return s
}

func items(m map[string]any, key string) []any {
	if m == nil {
		return nil
	}
	list, _ := m[key].([]any)
	return list
}

func joinNonEmpty(parts ...string) string {
	kept := parts[:0]
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, " | ")
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func titleFor(id string) string {
	if id == "" {
		return id
	}
	return strings.ToUpper(id[:1]) + id[1:]
}
