// Package models defines data structures for style extraction and reapplication.
package models

// ColorInherit marks a font color that is taken from the surrounding context.
const ColorInherit = "inherit"

// Default font attributes substituted when a document does not define them.
const (
	DefaultFontName = "Calibri"
	DefaultFontSize = 11.0
)

// DefaultFontRole is the font role key that is always present in a profile.
const DefaultFontRole = "default"

// FontStyle describes character formatting.
type FontStyle struct {
	// Name is the typeface name.
	Name string `json:"name" yaml:"name"`
	// Size is the font size in points (always > 0).
	Size float64 `json:"size" yaml:"size"`
	// Color is an RRGGBB hex value or "inherit".
	Color string `json:"color" yaml:"color"`
	// Bold is true for bold text.
	Bold bool `json:"bold" yaml:"bold"`
	// Italic is true for italic text.
	Italic bool `json:"italic" yaml:"italic"`
	// Underline is true for underlined text.
	Underline bool `json:"underline" yaml:"underline"`
}

// DefaultFont returns the font used when a document defines none.
func DefaultFont() FontStyle {
	return FontStyle{
		Name:  DefaultFontName,
		Size:  DefaultFontSize,
		Color: ColorInherit,
	}
}
