package parser

import (
	"sort"
	"strings"

	"github.com/ukaji3/docstyle-go/pkg/docstyle/models"
	"github.com/ukaji3/docstyle-go/pkg/docstyle/ooxml"
)

// extractPageLayout reads the body section page setup and records explicit
// page breaks. Breaks come from hard page-break runs, pageBreakBefore and
// section boundaries that start a new page.
func extractPageLayout(doc *ooxml.Document) models.PageLayout {
	layout := models.DefaultPageLayout()
	layout.SectionCount = max(1, len(doc.Sections))

	if sec := doc.BodySection(); sec != nil {
		if sec.PageWidth != nil && *sec.PageWidth > 0 {
			layout.Width = *sec.PageWidth
		}
		if sec.PageHeight != nil && *sec.PageHeight > 0 {
			layout.Height = *sec.PageHeight
		}
		if sec.Margins != nil {
			layout.Margins = models.Margins{
				Top:    sec.Margins.Top,
				Bottom: sec.Margins.Bottom,
				Left:   sec.Margins.Left,
				Right:  sec.Margins.Right,
			}
		}
		switch {
		case sec.Orientation == "landscape":
			layout.Orientation = models.Landscape
		case sec.Orientation == "" && layout.Width > layout.Height:
			layout.Orientation = models.Landscape
		}
	}

	breaks := make(map[int]bool)
	textParagraphs := 0
	for i, p := range doc.Paragraphs() {
		if strings.TrimSpace(p.Text()) != "" {
			textParagraphs++
		}
		if p.HasPageBreak() || p.Props.PageBreakBefore {
			breaks[i] = true
		}
	}
	for i, sec := range doc.Sections {
		if i == len(doc.Sections)-1 || sec.EndParagraph < 0 {
			continue
		}
		if sec.Type == "continuous" {
			continue
		}
		breaks[sec.EndParagraph] = true
	}

	for idx := range breaks {
		layout.PageBreaks = append(layout.PageBreaks, idx)
	}
	sort.Ints(layout.PageBreaks)

	if n := len(layout.PageBreaks); n > 0 && textParagraphs > 0 {
		layout.ParagraphsPerPage = float64(textParagraphs) / float64(n+1)
	}
	return layout
}
