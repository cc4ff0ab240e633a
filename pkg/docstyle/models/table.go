package models

// BorderSpec describes a uniform table border.
type BorderSpec struct {
	// Style is the OOXML border style (single, double, none...).
	Style string `json:"style" yaml:"style"`
	// Size is the line width in points.
	Size float64 `json:"size" yaml:"size"`
	// Color is an RRGGBB hex value or "inherit".
	Color string `json:"color" yaml:"color"`
}

// CellStyle is the representative style of a table cell.
type CellStyle struct {
	// FontRole references a key of StyleProfile.Fonts.
	FontRole string `json:"font_role" yaml:"font_role"`
	// Shading is an RRGGBB fill, empty for none.
	Shading string `json:"shading,omitempty" yaml:"shading,omitempty"`
	// Alignment is the cell paragraph alignment.
	Alignment Alignment `json:"alignment" yaml:"alignment"`
}

// TableStyle is a reusable table template. It carries no cell content.
type TableStyle struct {
	// Rows is the source row count.
	Rows int `json:"rows" yaml:"rows"`
	// Cols is the source column count.
	Cols int `json:"cols" yaml:"cols"`
	// Border is the table border.
	Border BorderSpec `json:"border" yaml:"border"`
	// Cell is the first cell's style, applied to every cell.
	Cell CellStyle `json:"cell" yaml:"cell"`
	// HeaderRow is true when the first row repeats as a header.
	HeaderRow bool `json:"header_row" yaml:"header_row"`
	// ColumnWidths holds grid column widths in points.
	ColumnWidths []float64 `json:"column_widths,omitempty" yaml:"column_widths,omitempty"`
}
