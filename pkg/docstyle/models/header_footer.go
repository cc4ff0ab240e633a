package models

import "strings"

// TextRun is a run of text with its resolved font.
type TextRun struct {
	Text string    `json:"text" yaml:"text"`
	Font FontStyle `json:"font" yaml:"font"`
}

// HeaderParagraph is one paragraph of a header or footer.
type HeaderParagraph struct {
	Alignment Alignment `json:"alignment" yaml:"alignment"`
	Runs      []TextRun `json:"runs" yaml:"runs"`
}

// HeaderFooter is one header or footer bound to a source section.
type HeaderFooter struct {
	// Section is the zero-based source section index.
	Section int `json:"section" yaml:"section"`
	// Type is default, first or even.
	Type string `json:"type" yaml:"type"`
	// Paragraphs holds the non-empty paragraphs in order.
	Paragraphs []HeaderParagraph `json:"paragraphs" yaml:"paragraphs"`
}

// Text returns the paragraph texts joined by newlines.
func (h HeaderFooter) Text() string {
	lines := make([]string, 0, len(h.Paragraphs))
	for _, p := range h.Paragraphs {
		var sb strings.Builder
		for _, r := range p.Runs {
			sb.WriteString(r.Text)
		}
		lines = append(lines, sb.String())
	}
	return strings.Join(lines, "\n")
}
