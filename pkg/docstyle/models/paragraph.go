package models

// Alignment is a paragraph's horizontal alignment.
type Alignment string

const (
	AlignLeft    Alignment = "left"
	AlignCenter  Alignment = "center"
	AlignRight   Alignment = "right"
	AlignJustify Alignment = "justify"
)

// LineRule tells how LineSpacing.Value is interpreted.
type LineRule string

const (
	// LineMultiple treats the value as a multiple of single spacing.
	LineMultiple LineRule = "multiple"
	// LineExact treats the value as a fixed height in points.
	LineExact LineRule = "exact"
	// LineAtLeast treats the value as a minimum height in points.
	LineAtLeast LineRule = "atLeast"
)

// LineSpacing is a positive multiplier or a fixed height.
type LineSpacing struct {
	Value float64  `json:"value" yaml:"value"`
	Rule  LineRule `json:"rule" yaml:"rule"`
}

// Indentation holds signed offsets in points.
type Indentation struct {
	FirstLine float64 `json:"first_line" yaml:"first_line"`
	Hanging   float64 `json:"hanging" yaml:"hanging"`
	Left      float64 `json:"left" yaml:"left"`
	Right     float64 `json:"right" yaml:"right"`
}

// RoleKind classifies a paragraph role.
type RoleKind string

const (
	KindBody    RoleKind = "body"
	KindHeading RoleKind = "heading"
	KindTitle   RoleKind = "title"
	KindQuote   RoleKind = "quote"
	KindList    RoleKind = "list"
)

// ParagraphStyle is one paragraph role.
type ParagraphStyle struct {
	// Role is the unique role key, e.g. "body", "body-2", "heading-1".
	Role string `json:"role" yaml:"role"`
	// Kind is the structural kind the role was derived from.
	Kind RoleKind `json:"kind" yaml:"kind"`
	// Level is the heading level for KindHeading, 0 otherwise.
	Level int `json:"level,omitempty" yaml:"level,omitempty"`
	// Alignment is the horizontal alignment.
	Alignment Alignment `json:"alignment" yaml:"alignment"`
	// LineSpacing is the line spacing.
	LineSpacing LineSpacing `json:"line_spacing" yaml:"line_spacing"`
	// Indentation holds the paragraph indents.
	Indentation Indentation `json:"indentation" yaml:"indentation"`
	// SpaceBefore is the space above the paragraph in points.
	SpaceBefore float64 `json:"space_before" yaml:"space_before"`
	// SpaceAfter is the space below the paragraph in points.
	SpaceAfter float64 `json:"space_after" yaml:"space_after"`
	// FontRole references a key of StyleProfile.Fonts.
	FontRole string `json:"font_role" yaml:"font_role"`
}

// DefaultParagraphStyle returns the role synthesized when a document yields none.
func DefaultParagraphStyle() ParagraphStyle {
	return ParagraphStyle{
		Role:        string(KindBody),
		Kind:        KindBody,
		Alignment:   AlignLeft,
		LineSpacing: LineSpacing{Value: 1, Rule: LineMultiple},
		FontRole:    DefaultFontRole,
	}
}
