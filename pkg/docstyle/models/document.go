package models

// BlockKind identifies a rendered block.
type BlockKind string

const (
	BlockParagraph BlockKind = "paragraph"
	BlockTable     BlockKind = "table"
	// BlockSectionBreak ends the current output section; the next block
	// starts on a new page.
	BlockSectionBreak BlockKind = "section_break"
)

// Block is one element of a StyledDocument.
type Block struct {
	Kind BlockKind `json:"kind"`
	// Section is the output section the block belongs to.
	Section   int              `json:"section"`
	Paragraph *StyledParagraph `json:"paragraph,omitempty"`
	Table     *StyledTable     `json:"table,omitempty"`
}

// StyledParagraph is a paragraph bound to a paragraph role.
type StyledParagraph struct {
	// Role references a ParagraphStyle of the document.
	Role string `json:"role"`
	// Prefix is the role label rendered ahead of the text, empty for none.
	Prefix string `json:"prefix,omitempty"`
	// Text is the paragraph text.
	Text string `json:"text"`
}

// StyledTable is tabular content laid out with a table template.
type StyledTable struct {
	// Template is the index of the TableStyle in the source profile.
	Template int        `json:"template"`
	Style    TableStyle `json:"style"`
	// Role is the paragraph role used for the caption.
	Role string `json:"role"`
	// Caption is the role label of the unit the table came from.
	Caption string     `json:"caption,omitempty"`
	Rows    [][]string `json:"rows"`
}

// SectionBinding attaches headers and footers to an output section.
type SectionBinding struct {
	Section int            `json:"section"`
	Headers []HeaderFooter `json:"headers,omitempty"`
	Footers []HeaderFooter `json:"footers,omitempty"`
}

// StyledDocument is styled output that has not been serialized yet.
type StyledDocument struct {
	Blocks   []Block          `json:"blocks"`
	Sections []SectionBinding `json:"sections"`
	// PageLayout is the page setup applied to every section.
	PageLayout PageLayout `json:"page_layout"`
	// Fonts holds every font role referenced by the document.
	Fonts map[string]FontStyle `json:"fonts"`
	// ParagraphStyles holds the roles used by paragraph blocks.
	ParagraphStyles []ParagraphStyle `json:"paragraph_styles"`
}

// Paragraphs returns the paragraph blocks in order.
func (d *StyledDocument) Paragraphs() []*StyledParagraph {
	var out []*StyledParagraph
	for _, b := range d.Blocks {
		if b.Kind == BlockParagraph && b.Paragraph != nil {
			out = append(out, b.Paragraph)
		}
	}
	return out
}

// CountBlocks returns the number of blocks of the given kind.
func (d *StyledDocument) CountBlocks(kind BlockKind) int {
	n := 0
	for _, b := range d.Blocks {
		if b.Kind == kind {
			n++
		}
	}
	return n
}
