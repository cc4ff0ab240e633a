// Package render serializes styled documents to .docx.
package render

import (
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/ukaji3/docstyle-go/pkg/docstyle/logger"
	"github.com/ukaji3/docstyle-go/pkg/docstyle/models"
	"github.com/ukaji3/docstyle-go/pkg/docstyle/ooxml"
)

// ErrSerialization indicates the output package could not be produced.
var ErrSerialization = errors.New("serialization error")

// Style IDs written to every output document.
const (
	NormalStyleID    = "Normal"
	RoleLabelStyleID = "RoleLabel"
	rolePrefix       = "ds-"
	cellPrefix       = "ds-cell-"
)

// Default header and footer distances from the page edge, in points.
const (
	headerDistance = 36
	footerDistance = 36
)

// Renderer turns StyledDocuments into .docx bytes.
type Renderer struct {
	log logger.Logger
}

// New creates a Renderer.
func New(log logger.Logger) *Renderer {
	return &Renderer{log: logger.OrDiscard(log)}
}

// Render builds and encodes doc. The bytes are returned only once the whole
// package has been written.
func (r *Renderer) Render(doc *models.StyledDocument) ([]byte, error) {
	wdoc, err := Build(doc)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerialization, err)
	}
	data, err := ooxml.Encode(wdoc)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerialization, err)
	}
	logger.OrDiscard(r.log).Debug("rendered document",
		"bytes", len(data),
		"blocks", len(doc.Blocks),
		"sections", len(wdoc.Sections),
	)
	return data, nil
}

// RenderTo renders doc and writes the complete package to w in one call.
func (r *Renderer) RenderTo(w io.Writer, doc *models.StyledDocument) error {
	data, err := r.Render(doc)
	if err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("%w: %w", ErrSerialization, err)
	}
	return nil
}

// RoleStyleID returns the paragraph style ID used for a role.
func RoleStyleID(role string) string {
	return rolePrefix + role
}

// Build converts a StyledDocument into the WordprocessingML model.
func Build(doc *models.StyledDocument) (*ooxml.Document, error) {
	if doc == nil {
		return nil, errors.New("nil document")
	}
	b := &docBuilder{
		src:   doc,
		out:   &ooxml.Document{Parts: make(map[string]*ooxml.Part)},
		roles: make(map[string]bool),
	}
	b.buildStyles()
	b.buildParts()
	if err := b.buildBody(); err != nil {
		return nil, err
	}
	return b.out, nil
}

type docBuilder struct {
	src   *models.StyledDocument
	out   *ooxml.Document
	roles map[string]bool

	headerRefs []ooxml.PartRef
	footerRefs []ooxml.PartRef
	titlePage  bool
	paraCount  int
}

func (b *docBuilder) font(role string) models.FontStyle {
	if f, ok := b.src.Fonts[role]; ok {
		return f
	}
	if f, ok := b.src.Fonts[models.DefaultFontRole]; ok {
		return f
	}
	return models.DefaultFont()
}

func (b *docBuilder) buildStyles() {
	s := &b.out.Styles
	s.DefaultRun = runProps(b.font(models.DefaultFontRole))
	s.Add(&ooxml.Style{ID: NormalStyleID, Name: "Normal", Type: "paragraph", Default: true})
	s.Add(&ooxml.Style{
		ID:   RoleLabelStyleID,
		Name: "Role Label",
		Type: "character",
		RPr:  ooxml.RunProps{Bold: boolPtr(true)},
	})
	for _, ps := range b.src.ParagraphStyles {
		b.addRoleStyle(ps)
	}
}

func (b *docBuilder) addRoleStyle(ps models.ParagraphStyle) {
	if b.roles[ps.Role] {
		return
	}
	b.roles[ps.Role] = true
	b.out.Styles.Add(&ooxml.Style{
		ID:      RoleStyleID(ps.Role),
		Name:    styleName(ps),
		Type:    "paragraph",
		BasedOn: NormalStyleID,
		PPr:     paragraphProps(ps),
		RPr:     runProps(b.font(ps.FontRole)),
	})
}

// ensureRole registers a style for a role referenced by a block but missing
// from ParagraphStyles.
func (b *docBuilder) ensureRole(role string) string {
	if !b.roles[role] {
		ps := models.DefaultParagraphStyle()
		ps.Role = role
		if _, ok := b.src.Fonts[role]; ok {
			ps.FontRole = role
		}
		b.addRoleStyle(ps)
	}
	return RoleStyleID(role)
}

// ensureCellStyle registers the paragraph style for a table font role.
func (b *docBuilder) ensureCellStyle(fontRole string) string {
	id := cellPrefix + fontRole
	if b.out.Styles.Lookup(id) == nil {
		b.out.Styles.Add(&ooxml.Style{
			ID:      id,
			Name:    "cell " + fontRole,
			Type:    "paragraph",
			BasedOn: NormalStyleID,
			RPr:     runProps(b.font(fontRole)),
		})
	}
	return id
}

// styleName names role styles so that Word and the extractor recognize
// their kind.
func styleName(ps models.ParagraphStyle) string {
	switch {
	case ps.Kind == models.KindHeading && ps.Role == "heading-"+strconv.Itoa(ps.Level):
		return "heading " + strconv.Itoa(ps.Level)
	case ps.Kind == models.KindTitle && ps.Role == string(models.KindTitle):
		return "Title"
	}
	return ps.Role
}

// buildParts creates one header/footer part per entry of the first section
// binding. Every output section references the same parts.
func (b *docBuilder) buildParts() {
	if len(b.src.Sections) == 0 {
		return
	}
	binding := b.src.Sections[0]
	for i, hf := range binding.Headers {
		id := "rIdHeader" + strconv.Itoa(i+1)
		b.out.Parts[id] = headerFooterPart(ooxml.PartHeader, hf)
		b.headerRefs = append(b.headerRefs, ooxml.PartRef{Type: hf.Type, RelID: id})
		b.titlePage = b.titlePage || hf.Type == "first"
	}
	for i, hf := range binding.Footers {
		id := "rIdFooter" + strconv.Itoa(i+1)
		b.out.Parts[id] = headerFooterPart(ooxml.PartFooter, hf)
		b.footerRefs = append(b.footerRefs, ooxml.PartRef{Type: hf.Type, RelID: id})
		b.titlePage = b.titlePage || hf.Type == "first"
	}
}

func headerFooterPart(kind ooxml.PartKind, hf models.HeaderFooter) *ooxml.Part {
	part := &ooxml.Part{Kind: kind}
	for _, hp := range hf.Paragraphs {
		p := ooxml.Paragraph{Props: ooxml.ParagraphProps{Align: alignValue(hp.Alignment)}}
		for _, run := range hp.Runs {
			p.Runs = append(p.Runs, ooxml.Run{Props: runProps(run.Font), Text: run.Text})
		}
		part.Paragraphs = append(part.Paragraphs, p)
	}
	return part
}

// section returns the page setup shared by every output section.
func (b *docBuilder) section(typ string, end int) ooxml.Section {
	layout := b.src.PageLayout
	if layout.Width <= 0 || layout.Height <= 0 {
		def := models.DefaultPageLayout()
		layout.Width, layout.Height = def.Width, def.Height
		if layout.Margins == (models.Margins{}) {
			layout.Margins = def.Margins
		}
	}
	sec := ooxml.Section{
		Type:       typ,
		PageWidth:  floatPtr(layout.Width),
		PageHeight: floatPtr(layout.Height),
		Margins: &ooxml.Margins{
			Top:    layout.Margins.Top,
			Bottom: layout.Margins.Bottom,
			Left:   layout.Margins.Left,
			Right:  layout.Margins.Right,
			Header: headerDistance,
			Footer: footerDistance,
		},
		TitlePage:    b.titlePage,
		Headers:      b.headerRefs,
		Footers:      b.footerRefs,
		EndParagraph: end,
	}
	if layout.Orientation == models.Landscape {
		sec.Orientation = "landscape"
	}
	return sec
}

func (b *docBuilder) addParagraph(p *ooxml.Paragraph) {
	b.out.Body = append(b.out.Body, ooxml.BodyElement{Paragraph: p})
	b.paraCount++
}

func (b *docBuilder) buildBody() error {
	for i, block := range b.src.Blocks {
		switch block.Kind {
		case models.BlockParagraph:
			if block.Paragraph == nil {
				return fmt.Errorf("block %d: paragraph block without paragraph", i)
			}
			b.addParagraph(b.paragraph(block.Paragraph.Role, block.Paragraph.Prefix, block.Paragraph.Text))
		case models.BlockTable:
			if block.Table == nil {
				return fmt.Errorf("block %d: table block without table", i)
			}
			if block.Table.Caption != "" {
				b.addParagraph(b.paragraph(block.Table.Role, block.Table.Caption, ""))
			}
			b.out.Body = append(b.out.Body, ooxml.BodyElement{Table: b.table(block.Table)})
		case models.BlockSectionBreak:
			b.addParagraph(&ooxml.Paragraph{})
			b.out.Sections = append(b.out.Sections, b.section("nextPage", b.paraCount-1))
		default:
			return fmt.Errorf("block %d: unknown kind %q", i, block.Kind)
		}
	}
	b.out.Sections = append(b.out.Sections, b.section("", -1))
	return nil
}

func (b *docBuilder) paragraph(role, prefix, text string) *ooxml.Paragraph {
	p := &ooxml.Paragraph{Props: ooxml.ParagraphProps{StyleID: b.ensureRole(role)}}
	if prefix != "" {
		p.Runs = append(p.Runs, ooxml.Run{Props: ooxml.RunProps{StyleID: RoleLabelStyleID}, Text: prefix})
	}
	if text != "" {
		p.Runs = append(p.Runs, ooxml.Run{Text: text})
	}
	return p
}

func (b *docBuilder) table(t *models.StyledTable) *ooxml.Table {
	cols := 0
	for _, row := range t.Rows {
		cols = max(cols, len(row))
	}
	out := &ooxml.Table{Grid: b.columnWidths(t.Style.ColumnWidths, cols)}
	if t.Style.Border.Style != "" {
		out.Borders = &ooxml.Border{Style: t.Style.Border.Style, Size: t.Style.Border.Size}
		if t.Style.Border.Color != models.ColorInherit {
			out.Borders.Color = t.Style.Border.Color
		}
	}

	fontRole := t.Style.Cell.FontRole
	if fontRole == "" {
		fontRole = models.DefaultFontRole
	}
	styleID := b.ensureCellStyle(fontRole)
	for r, row := range t.Rows {
		tr := ooxml.TableRow{Header: r == 0 && t.Style.HeaderRow}
		for c := 0; c < cols; c++ {
			text := ""
			if c < len(row) {
				text = row[c]
			}
			p := ooxml.Paragraph{Props: ooxml.ParagraphProps{StyleID: styleID, Align: alignValue(t.Style.Cell.Alignment)}}
			if text != "" {
				p.Runs = []ooxml.Run{{Text: text}}
			}
			tr.Cells = append(tr.Cells, ooxml.TableCell{
				Width:      floatPtr(out.Grid[c]),
				Shading:    t.Style.Cell.Shading,
				Paragraphs: []ooxml.Paragraph{p},
			})
		}
		out.Rows = append(out.Rows, tr)
	}
	return out
}

// columnWidths uses the template widths when they match the column count and
// splits the text area evenly otherwise.
func (b *docBuilder) columnWidths(template []float64, cols int) []float64 {
	if len(template) == cols {
		return append([]float64(nil), template...)
	}
	layout := b.src.PageLayout
	width := layout.Width - layout.Margins.Left - layout.Margins.Right
	if width <= 0 {
		def := models.DefaultPageLayout()
		width = def.Width - def.Margins.Left - def.Margins.Right
	}
	grid := make([]float64, cols)
	for i := range grid {
		grid[i] = width / float64(cols)
	}
	return grid
}

func paragraphProps(ps models.ParagraphStyle) ooxml.ParagraphProps {
	pp := ooxml.ParagraphProps{Align: alignValue(ps.Alignment)}
	pp.Spacing.Before = floatPtr(ps.SpaceBefore)
	pp.Spacing.After = floatPtr(ps.SpaceAfter)
	if ps.LineSpacing.Value > 0 {
		pp.Spacing.Line = floatPtr(ps.LineSpacing.Value)
		pp.Spacing.LineRule = lineRuleValue(ps.LineSpacing.Rule)
	}
	ind := ps.Indentation
	if ind != (models.Indentation{}) {
		pp.Indent = ooxml.Indent{
			Left:      floatPtr(ind.Left),
			Right:     floatPtr(ind.Right),
			FirstLine: floatPtr(ind.FirstLine),
			Hanging:   floatPtr(ind.Hanging),
		}
	}
	return pp
}

// runProps writes every font attribute explicitly.
func runProps(f models.FontStyle) ooxml.RunProps {
	rp := ooxml.RunProps{
		Font:      strPtr(f.Name),
		Size:      floatPtr(f.Size),
		Bold:      boolPtr(f.Bold),
		Italic:    boolPtr(f.Italic),
		Underline: boolPtr(f.Underline),
	}
	if f.Color != "" && f.Color != models.ColorInherit {
		rp.Color = strPtr(f.Color)
	}
	return rp
}

func alignValue(a models.Alignment) string {
	switch a {
	case models.AlignCenter:
		return "center"
	case models.AlignRight:
		return "right"
	case models.AlignJustify:
		return "both"
	}
	return "left"
}

func lineRuleValue(r models.LineRule) string {
	switch r {
	case models.LineExact:
		return "exact"
	case models.LineAtLeast:
		return "atLeast"
	}
	return "auto"
}

func strPtr(s string) *string     { return &s }
func floatPtr(f float64) *float64 { return &f }
func boolPtr(b bool) *bool        { return &b }
