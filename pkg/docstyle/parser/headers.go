package parser

import (
	"strings"

	"github.com/ukaji3/docstyle-go/pkg/docstyle/models"
	"github.com/ukaji3/docstyle-go/pkg/docstyle/ooxml"
)

// extractHeadersFooters returns the headers and footers each section
// references explicitly. Whitespace-only parts are omitted.
func extractHeadersFooters(r *resolver, doc *ooxml.Document) (headers, footers []models.HeaderFooter) {
	for i, sec := range doc.Sections {
		for _, ref := range sec.Headers {
			if hf, ok := r.headerFooter(doc.Parts[ref.RelID], i, ref.Type); ok {
				headers = append(headers, hf)
			}
		}
		for _, ref := range sec.Footers {
			if hf, ok := r.headerFooter(doc.Parts[ref.RelID], i, ref.Type); ok {
				footers = append(footers, hf)
			}
		}
	}
	return headers, footers
}

func (r *resolver) headerFooter(part *ooxml.Part, section int, typ string) (models.HeaderFooter, bool) {
	if part == nil {
		return models.HeaderFooter{}, false
	}
	if typ == "" {
		typ = "default"
	}
	hf := models.HeaderFooter{Section: section, Type: typ}
	for i := range part.Paragraphs {
		p := &part.Paragraphs[i]
		if strings.TrimSpace(p.Text()) == "" {
			continue
		}
		hp := models.HeaderParagraph{Alignment: r.paragraphFormat(p).Alignment}
		for _, run := range p.Runs {
			if run.Text == "" {
				continue
			}
			hp.Runs = append(hp.Runs, models.TextRun{Text: run.Text, Font: r.singleRunFont(p, run)})
		}
		hf.Paragraphs = append(hf.Paragraphs, hp)
	}
	return hf, len(hf.Paragraphs) > 0
}
