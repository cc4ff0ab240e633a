package normalize

import "github.com/ukaji3/docstyle-go/pkg/docstyle/ooxml"

// Defaults for converted documents.
const (
	defaultPageWidth  = 612.0
	defaultPageHeight = 792.0
	defaultFontName   = "Calibri"
	defaultFontSize   = 11.0
	headingStyleID    = "Heading1"
)

// newConvertedDocument returns an empty document with a Normal and a
// Heading1 style and one body section of the given size.
func newConvertedDocument(width, height float64) *ooxml.Document {
	doc := &ooxml.Document{Parts: make(map[string]*ooxml.Part)}
	doc.Styles.Add(&ooxml.Style{ID: "Normal", Name: "Normal", Type: "paragraph", Default: true})
	doc.Styles.Add(&ooxml.Style{
		ID:      headingStyleID,
		Name:    "heading 1",
		Type:    "paragraph",
		BasedOn: "Normal",
		PPr:     ooxml.ParagraphProps{Spacing: ooxml.Spacing{Before: floatPtr(12), After: floatPtr(6)}},
		RPr:     ooxml.RunProps{Bold: boolPtr(true)},
	})

	sec := ooxml.Section{
		PageWidth:    floatPtr(width),
		PageHeight:   floatPtr(height),
		Margins:      &ooxml.Margins{Top: 72, Bottom: 72, Left: 72, Right: 72, Header: 36, Footer: 36},
		EndParagraph: -1,
	}
	if width > height {
		sec.Orientation = "landscape"
	}
	doc.Sections = []ooxml.Section{sec}
	return doc
}

func strPtr(s string) *string     { return &s }
func floatPtr(f float64) *float64 { return &f }
func boolPtr(b bool) *bool        { return &b }
