package models

import "fmt"

// StyleProfile is the normalized styling extracted from one document.
// It is built once by the extractor and treated as read-only afterwards.
type StyleProfile struct {
	// Source is the input format the profile was extracted from.
	Source string `json:"source" yaml:"source"`
	// Fonts maps a font role key to its font. "default" is always present.
	Fonts map[string]FontStyle `json:"fonts" yaml:"fonts"`
	// ParagraphStyles lists paragraph roles in first-seen order.
	ParagraphStyles []ParagraphStyle `json:"paragraph_styles" yaml:"paragraph_styles"`
	// PageLayout is the page setup.
	PageLayout PageLayout `json:"page_layout" yaml:"page_layout"`
	// Headers lists headers by section. Empty when the source has none.
	Headers []HeaderFooter `json:"headers,omitempty" yaml:"headers,omitempty"`
	// Footers lists footers by section. Empty when the source has none.
	Footers []HeaderFooter `json:"footers,omitempty" yaml:"footers,omitempty"`
	// Tables lists table templates in document order.
	Tables []TableStyle `json:"tables,omitempty" yaml:"tables,omitempty"`
}

// Font returns the font for a role, falling back to the default font.
func (p *StyleProfile) Font(role string) FontStyle {
	if f, ok := p.Fonts[role]; ok {
		return f
	}
	if f, ok := p.Fonts[DefaultFontRole]; ok {
		return f
	}
	return DefaultFont()
}

// ParagraphStyle returns the paragraph role with the given key.
func (p *StyleProfile) ParagraphStyle(role string) (ParagraphStyle, bool) {
	for _, ps := range p.ParagraphStyles {
		if ps.Role == role {
			return ps, true
		}
	}
	return ParagraphStyle{}, false
}

// Validate checks the profile invariants: a default font exists, every
// paragraph and table font role resolves, and font sizes are positive.
func (p *StyleProfile) Validate() error {
	if _, ok := p.Fonts[DefaultFontRole]; !ok {
		return fmt.Errorf("profile has no %q font", DefaultFontRole)
	}
	for role, f := range p.Fonts {
		if f.Size <= 0 {
			return fmt.Errorf("font %q has non-positive size %v", role, f.Size)
		}
	}
	seen := make(map[string]bool, len(p.ParagraphStyles))
	for _, ps := range p.ParagraphStyles {
		if seen[ps.Role] {
			return fmt.Errorf("duplicate paragraph role %q", ps.Role)
		}
		seen[ps.Role] = true
		if _, ok := p.Fonts[ps.FontRole]; !ok {
			return fmt.Errorf("paragraph role %q references missing font %q", ps.Role, ps.FontRole)
		}
		if ps.LineSpacing.Value <= 0 {
			return fmt.Errorf("paragraph role %q has non-positive line spacing", ps.Role)
		}
	}
	for i, t := range p.Tables {
		if _, ok := p.Fonts[t.Cell.FontRole]; !ok {
			return fmt.Errorf("table %d references missing font %q", i, t.Cell.FontRole)
		}
	}
	return nil
}
