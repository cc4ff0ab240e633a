package parser

import (
	"github.com/ukaji3/docstyle-go/pkg/docstyle/models"
	"github.com/ukaji3/docstyle-go/pkg/docstyle/ooxml"
)

// maxStyleDepth bounds basedOn chains so cyclic style definitions terminate.
const maxStyleDepth = 16

// FontOverride is a partially specified font. Nil fields are unset.
type FontOverride struct {
	Name      *string
	Size      *float64
	Color     *string
	Bold      *bool
	Italic    *bool
	Underline *bool
}

// Merge returns o with unset attributes taken from fallback.
func (o FontOverride) Merge(fallback FontOverride) FontOverride {
	if o.Name == nil {
		o.Name = fallback.Name
	}
	if o.Size == nil {
		o.Size = fallback.Size
	}
	if o.Color == nil {
		o.Color = fallback.Color
	}
	if o.Bold == nil {
		o.Bold = fallback.Bold
	}
	if o.Italic == nil {
		o.Italic = fallback.Italic
	}
	if o.Underline == nil {
		o.Underline = fallback.Underline
	}
	return o
}

// ResolveFont resolves each attribute independently from the run level, then
// the paragraph style, then the document default. Attributes unset at every
// level take the built-in default font's value.
func ResolveFont(run, style, document FontOverride) models.FontStyle {
	merged := run.Merge(style).Merge(document)
	font := models.DefaultFont()
	if merged.Name != nil && *merged.Name != "" {
		font.Name = *merged.Name
	}
	if merged.Size != nil && *merged.Size > 0 {
		font.Size = *merged.Size
	}
	if merged.Color != nil && *merged.Color != "" {
		font.Color = *merged.Color
	}
	if merged.Bold != nil {
		font.Bold = *merged.Bold
	}
	if merged.Italic != nil {
		font.Italic = *merged.Italic
	}
	if merged.Underline != nil {
		font.Underline = *merged.Underline
	}
	return font
}

// resolver walks the style inheritance chains of one document.
type resolver struct {
	doc *ooxml.Document
}

func newResolver(doc *ooxml.Document) *resolver {
	return &resolver{doc: doc}
}

// override converts run properties, resolving theme font references.
func (r *resolver) override(rp ooxml.RunProps) FontOverride {
	o := FontOverride{
		Name:      rp.Font,
		Size:      rp.Size,
		Color:     rp.Color,
		Bold:      rp.Bold,
		Italic:    rp.Italic,
		Underline: rp.Underline,
	}
	if o.Name == nil && rp.FontTheme != "" {
		if name := r.doc.Theme.ResolveThemeFont(rp.FontTheme); name != "" {
			o.Name = &name
		}
	}
	return o
}

// documentFont is the docDefaults run formatting.
func (r *resolver) documentFont() FontOverride {
	return r.override(r.doc.Styles.DefaultRun)
}

func (r *resolver) defaultFont() models.FontStyle {
	return ResolveFont(FontOverride{}, FontOverride{}, r.documentFont())
}

// paragraphStyle returns the effective paragraph style ID, falling back to
// the style flagged as default.
func (r *resolver) paragraphStyle(id string) *ooxml.Style {
	if id != "" {
		if st := r.doc.Styles.Lookup(id); st != nil {
			return st
		}
	}
	return r.doc.Styles.DefaultParagraphStyle()
}

// chain returns st followed by its basedOn ancestors.
func (r *resolver) chain(st *ooxml.Style) []*ooxml.Style {
	var out []*ooxml.Style
	seen := make(map[string]bool)
	for st != nil && len(out) < maxStyleDepth && !seen[st.ID] {
		seen[st.ID] = true
		out = append(out, st)
		if st.BasedOn == "" {
			break
		}
		st = r.doc.Styles.Lookup(st.BasedOn)
	}
	return out
}

// styleFont merges run formatting along a paragraph style's chain.
func (r *resolver) styleFont(st *ooxml.Style) FontOverride {
	var o FontOverride
	for _, s := range r.chain(st) {
		o = o.Merge(r.override(s.RPr))
	}
	return o
}

// runFont takes each attribute from the first non-empty run that sets it.
func (r *resolver) runFont(runs []ooxml.Run) FontOverride {
	var o FontOverride
	for _, run := range runs {
		if run.Text == "" {
			continue
		}
		o = o.Merge(r.override(run.Props))
	}
	return o
}

// paragraphFont resolves the font of a paragraph.
func (r *resolver) paragraphFont(p *ooxml.Paragraph) models.FontStyle {
	st := r.paragraphStyle(p.Props.StyleID)
	return ResolveFont(r.runFont(p.Runs), r.styleFont(st), r.documentFont())
}

// singleRunFont resolves the font of one run inside a paragraph.
func (r *resolver) singleRunFont(p *ooxml.Paragraph, run ooxml.Run) models.FontStyle {
	st := r.paragraphStyle(p.Props.StyleID)
	return ResolveFont(r.override(run.Props), r.styleFont(st), r.documentFont())
}

// styleName returns the display name of the paragraph's style.
func (r *resolver) styleName(p *ooxml.Paragraph) (string, string) {
	st := r.paragraphStyle(p.Props.StyleID)
	if st == nil {
		return "", ""
	}
	return st.ID, st.Name
}
