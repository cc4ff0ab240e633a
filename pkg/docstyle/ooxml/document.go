package ooxml

// Document is the in-memory form of a .docx package.
//
// Optional properties are pointers: nil means "not set at this level", which
// lets callers walk the direct -> style -> default inheritance chain.
type Document struct {
	// Body holds top-level paragraphs and tables in document order.
	Body []BodyElement
	// Sections lists section properties in order. The last entry is the
	// body-level w:sectPr.
	Sections []Section
	// Styles holds docDefaults and named styles from word/styles.xml.
	Styles Styles
	// Parts maps relationship IDs to header and footer parts.
	Parts map[string]*Part
	// Theme holds major/minor latin typefaces from the theme part.
	Theme Theme
}

// BodyElement is either a paragraph or a table.
type BodyElement struct {
	Paragraph *Paragraph
	Table     *Table
}

// Paragraph is a w:p element.
type Paragraph struct {
	Props ParagraphProps
	Runs  []Run
}

// Text returns the concatenated text of all runs.
func (p *Paragraph) Text() string {
	var n int
	for _, r := range p.Runs {
		n += len(r.Text)
	}
	buf := make([]byte, 0, n)
	for _, r := range p.Runs {
		buf = append(buf, r.Text...)
	}
	return string(buf)
}

// HasPageBreak reports whether any run carries a hard page break.
func (p *Paragraph) HasPageBreak() bool {
	for _, r := range p.Runs {
		if r.PageBreak {
			return true
		}
	}
	return false
}

// ParagraphProps is w:pPr.
type ParagraphProps struct {
	StyleID         string
	Align           string
	Spacing         Spacing
	Indent          Indent
	PageBreakBefore bool
	// Section is set when this paragraph closes a section (w:pPr/w:sectPr).
	Section *Section
}

// Spacing is w:spacing in points. Line is a multiple when LineRule is
// "auto" and points otherwise.
type Spacing struct {
	Before   *float64
	After    *float64
	Line     *float64
	LineRule string
}

// Indent is w:ind in points.
type Indent struct {
	Left      *float64
	Right     *float64
	FirstLine *float64
	Hanging   *float64
}

// Run is a w:r element. Tabs and soft line breaks are folded into Text.
type Run struct {
	Props     RunProps
	Text      string
	PageBreak bool
}

// RunProps is w:rPr.
type RunProps struct {
	StyleID   string
	Font      *string
	FontTheme string
	Size      *float64
	Color     *string
	Bold      *bool
	Italic    *bool
	Underline *bool
}

// Table is a w:tbl element.
type Table struct {
	StyleID string
	Borders *Border
	Grid    []float64
	Rows    []TableRow
}

// Border is a uniform table border.
type Border struct {
	Style string
	Size  float64
	Color string
}

// TableRow is a w:tr element.
type TableRow struct {
	Header bool
	Cells  []TableCell
}

// TableCell is a w:tc element.
type TableCell struct {
	Width      *float64
	Shading    string
	Paragraphs []Paragraph
}

// Section is w:sectPr.
type Section struct {
	Type        string
	PageWidth   *float64
	PageHeight  *float64
	Orientation string
	Margins     *Margins
	TitlePage   bool
	Headers     []PartRef
	Footers     []PartRef
	// EndParagraph is the index of the last top-level paragraph belonging to
	// the section, or -1 for the body section.
	EndParagraph int
}

// Margins holds page margins in points.
type Margins struct {
	Top    float64
	Bottom float64
	Left   float64
	Right  float64
	Header float64
	Footer float64
}

// PartRef links a section to a header or footer part.
type PartRef struct {
	Type  string // default, first, even
	RelID string
}

// PartKind distinguishes headers from footers.
type PartKind string

const (
	PartHeader PartKind = "header"
	PartFooter PartKind = "footer"
)

// Part is a header or footer part.
type Part struct {
	Kind       PartKind
	Name       string
	Paragraphs []Paragraph
}

// Styles is word/styles.xml.
type Styles struct {
	DefaultRun       RunProps
	DefaultParagraph ParagraphProps
	// ByID maps styleId to style.
	ByID map[string]*Style
	// Order preserves declaration order for encoding.
	Order []string
}

// Style is a w:style element.
type Style struct {
	ID      string
	Name    string
	Type    string // paragraph, character, table, numbering
	BasedOn string
	Default bool
	PPr     ParagraphProps
	RPr     RunProps
}

// Theme holds theme font typefaces.
type Theme struct {
	MajorLatin string
	MinorLatin string
}

// Add registers a style, keeping declaration order.
func (s *Styles) Add(st *Style) {
	if s.ByID == nil {
		s.ByID = make(map[string]*Style)
	}
	if _, ok := s.ByID[st.ID]; !ok {
		s.Order = append(s.Order, st.ID)
	}
	s.ByID[st.ID] = st
}

// Lookup returns the style with the given ID, or nil.
func (s *Styles) Lookup(id string) *Style {
	if s.ByID == nil {
		return nil
	}
	return s.ByID[id]
}

// DefaultParagraphStyle returns the paragraph style flagged w:default="1".
func (s *Styles) DefaultParagraphStyle() *Style {
	for _, id := range s.Order {
		st := s.ByID[id]
		if st.Type == "paragraph" && st.Default {
			return st
		}
	}
	return nil
}

// Paragraphs returns the top-level paragraphs in body order.
func (d *Document) Paragraphs() []*Paragraph {
	var out []*Paragraph
	for _, el := range d.Body {
		if el.Paragraph != nil {
			out = append(out, el.Paragraph)
		}
	}
	return out
}

// Tables returns the top-level tables in body order.
func (d *Document) Tables() []*Table {
	var out []*Table
	for _, el := range d.Body {
		if el.Table != nil {
			out = append(out, el.Table)
		}
	}
	return out
}

// BodySection returns the final section, or nil if the document has none.
func (d *Document) BodySection() *Section {
	if len(d.Sections) == 0 {
		return nil
	}
	return &d.Sections[len(d.Sections)-1]
}
