package ooxml

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"math"
	"path"
	"sort"
	"strings"
)

const xmlHeader = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\n"

// Encode serializes doc into a .docx package. The archive is assembled in
// memory; nothing is returned unless every part was written.
func Encode(doc *Document) ([]byte, error) {
	names := assignPartNames(doc)

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	entries := []struct {
		name    string
		content string
	}{
		{"[Content_Types].xml", contentTypesXML(doc, names)},
		{"_rels/.rels", packageRelsXML()},
		{DocumentPart, documentXML(doc)},
		{"word/styles.xml", stylesXML(&doc.Styles)},
		{relsPathFor(DocumentPart), documentRelsXML(doc, names)},
	}
	for _, e := range entries {
		if err := writeEntry(zw, e.name, e.content); err != nil {
			return nil, err
		}
	}

	for _, id := range sortedPartIDs(doc) {
		part := doc.Parts[id]
		if err := writeEntry(zw, names[id], partXML(part)); err != nil {
			return nil, err
		}
	}

	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("close package: %w", err)
	}
	return buf.Bytes(), nil
}

func writeEntry(zw *zip.Writer, name, content string) error {
	w, err := zw.Create(name)
	if err != nil {
		return fmt.Errorf("create %s: %w", name, err)
	}
	if _, err := w.Write([]byte(content)); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	return nil
}

// assignPartNames gives every header/footer a part name under word/.
func assignPartNames(doc *Document) map[string]string {
	names := make(map[string]string, len(doc.Parts))
	counters := map[PartKind]int{}
	for _, id := range sortedPartIDs(doc) {
		part := doc.Parts[id]
		counters[part.Kind]++
		names[id] = fmt.Sprintf("word/%s%d.xml", part.Kind, counters[part.Kind])
	}
	return names
}

func sortedPartIDs(doc *Document) []string {
	ids := make([]string, 0, len(doc.Parts))
	for id := range doc.Parts {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func contentTypesXML(doc *Document, names map[string]string) string {
	var b strings.Builder
	b.WriteString(xmlHeader)
	fmt.Fprintf(&b, `<Types xmlns="%s">`, nsCT)
	fmt.Fprintf(&b, `<Default Extension="rels" ContentType="%s"/>`, ctRels)
	b.WriteString(`<Default Extension="xml" ContentType="application/xml"/>`)
	fmt.Fprintf(&b, `<Override PartName="/%s" ContentType="%s"/>`, DocumentPart, ctDocument)
	fmt.Fprintf(&b, `<Override PartName="/word/styles.xml" ContentType="%s"/>`, ctStyles)
	for _, id := range sortedPartIDs(doc) {
		ct := ctHeader
		if doc.Parts[id].Kind == PartFooter {
			ct = ctFooter
		}
		fmt.Fprintf(&b, `<Override PartName="/%s" ContentType="%s"/>`, names[id], ct)
	}
	b.WriteString(`</Types>`)
	return b.String()
}

func packageRelsXML() string {
	var b strings.Builder
	b.WriteString(xmlHeader)
	fmt.Fprintf(&b, `<Relationships xmlns="%s">`, nsPkg)
	fmt.Fprintf(&b, `<Relationship Id="rId1" Type="%s" Target="%s"/>`, relOfficeDocument, DocumentPart)
	b.WriteString(`</Relationships>`)
	return b.String()
}

func documentRelsXML(doc *Document, names map[string]string) string {
	stylesID := "rIdStyles"
	for doc.Parts[stylesID] != nil {
		stylesID += "x"
	}

	var b strings.Builder
	b.WriteString(xmlHeader)
	fmt.Fprintf(&b, `<Relationships xmlns="%s">`, nsPkg)
	fmt.Fprintf(&b, `<Relationship Id="%s" Type="%s" Target="styles.xml"/>`, stylesID, relStyles)
	for _, id := range sortedPartIDs(doc) {
		relType := relHeader
		if doc.Parts[id].Kind == PartFooter {
			relType = relFooter
		}
		fmt.Fprintf(&b, `<Relationship Id="%s" Type="%s" Target="%s"/>`,
			escapeAttr(id), relType, path.Base(names[id]))
	}
	b.WriteString(`</Relationships>`)
	return b.String()
}

func documentXML(doc *Document) string {
	var b strings.Builder
	b.WriteString(xmlHeader)
	fmt.Fprintf(&b, `<w:document xmlns:w="%s" xmlns:r="%s"><w:body>`, nsW, nsR)

	paraIdx := 0
	var bodySection *Section
	for i := range doc.Sections {
		if doc.Sections[i].EndParagraph < 0 {
			bodySection = &doc.Sections[i]
		}
	}
	inline := make(map[int]*Section)
	for i := range doc.Sections {
		if doc.Sections[i].EndParagraph >= 0 {
			inline[doc.Sections[i].EndParagraph] = &doc.Sections[i]
		}
	}

	for _, el := range doc.Body {
		switch {
		case el.Paragraph != nil:
			p := *el.Paragraph
			if sec, ok := inline[paraIdx]; ok {
				p.Props.Section = sec
			} else {
				p.Props.Section = nil
			}
			writeParagraph(&b, &p)
			paraIdx++
		case el.Table != nil:
			writeTable(&b, el.Table)
		}
	}
	if bodySection != nil {
		writeSection(&b, bodySection)
	}
	b.WriteString(`</w:body></w:document>`)
	return b.String()
}

func partXML(part *Part) string {
	root := "w:hdr"
	if part.Kind == PartFooter {
		root = "w:ftr"
	}
	var b strings.Builder
	b.WriteString(xmlHeader)
	fmt.Fprintf(&b, `<%s xmlns:w="%s" xmlns:r="%s">`, root, nsW, nsR)
	if len(part.Paragraphs) == 0 {
		b.WriteString(`<w:p/>`)
	}
	for i := range part.Paragraphs {
		writeParagraph(&b, &part.Paragraphs[i])
	}
	fmt.Fprintf(&b, `</%s>`, root)
	return b.String()
}

func stylesXML(s *Styles) string {
	var b strings.Builder
	b.WriteString(xmlHeader)
	fmt.Fprintf(&b, `<w:styles xmlns:w="%s" xmlns:r="%s">`, nsW, nsR)
	b.WriteString(`<w:docDefaults><w:rPrDefault>`)
	writeRunProps(&b, &s.DefaultRun)
	b.WriteString(`</w:rPrDefault><w:pPrDefault>`)
	writeParagraphProps(&b, &s.DefaultParagraph)
	b.WriteString(`</w:pPrDefault></w:docDefaults>`)

	for _, id := range s.Order {
		st := s.ByID[id]
		fmt.Fprintf(&b, `<w:style w:type="%s"`, escapeAttr(st.Type))
		if st.Default {
			b.WriteString(` w:default="1"`)
		}
		fmt.Fprintf(&b, ` w:styleId="%s">`, escapeAttr(st.ID))
		name := st.Name
		if name == "" {
			name = st.ID
		}
		fmt.Fprintf(&b, `<w:name w:val="%s"/>`, escapeAttr(name))
		if st.BasedOn != "" {
			fmt.Fprintf(&b, `<w:basedOn w:val="%s"/>`, escapeAttr(st.BasedOn))
		}
		b.WriteString(`<w:qFormat/>`)
		if st.Type == "paragraph" {
			writeParagraphProps(&b, &st.PPr)
		}
		writeRunProps(&b, &st.RPr)
		b.WriteString(`</w:style>`)
	}
	b.WriteString(`</w:styles>`)
	return b.String()
}

func writeParagraph(b *strings.Builder, p *Paragraph) {
	b.WriteString(`<w:p>`)
	writeParagraphProps(b, &p.Props)
	for i := range p.Runs {
		writeRun(b, &p.Runs[i])
	}
	b.WriteString(`</w:p>`)
}

func writeParagraphProps(b *strings.Builder, pp *ParagraphProps) {
	var inner strings.Builder
	if pp.StyleID != "" {
		fmt.Fprintf(&inner, `<w:pStyle w:val="%s"/>`, escapeAttr(pp.StyleID))
	}
	if pp.PageBreakBefore {
		inner.WriteString(`<w:pageBreakBefore/>`)
	}
	sp := pp.Spacing
	if sp.Before != nil || sp.After != nil || sp.Line != nil {
		inner.WriteString(`<w:spacing`)
		if sp.Before != nil {
			fmt.Fprintf(&inner, ` w:before="%d"`, PointsToTwips(*sp.Before))
		}
		if sp.After != nil {
			fmt.Fprintf(&inner, ` w:after="%d"`, PointsToTwips(*sp.After))
		}
		if sp.Line != nil {
			rule := sp.LineRule
			if rule == "" {
				rule = "auto"
			}
			line := PointsToTwips(*sp.Line)
			if rule == "auto" {
				line = int64(math.Round(*sp.Line * LineUnitsPerMultiple))
			}
			fmt.Fprintf(&inner, ` w:line="%d" w:lineRule="%s"`, line, escapeAttr(rule))
		}
		inner.WriteString(`/>`)
	}
	ind := pp.Indent
	if ind.Left != nil || ind.Right != nil || ind.FirstLine != nil || ind.Hanging != nil {
		inner.WriteString(`<w:ind`)
		writeTwipsAttr(&inner, "w:left", ind.Left)
		writeTwipsAttr(&inner, "w:right", ind.Right)
		writeTwipsAttr(&inner, "w:firstLine", ind.FirstLine)
		writeTwipsAttr(&inner, "w:hanging", ind.Hanging)
		inner.WriteString(`/>`)
	}
	if pp.Align != "" {
		fmt.Fprintf(&inner, `<w:jc w:val="%s"/>`, escapeAttr(pp.Align))
	}
	if pp.Section != nil {
		writeSection(&inner, pp.Section)
	}
	if inner.Len() > 0 {
		b.WriteString(`<w:pPr>`)
		b.WriteString(inner.String())
		b.WriteString(`</w:pPr>`)
	}
}

func writeTwipsAttr(b *strings.Builder, name string, v *float64) {
	if v != nil {
		fmt.Fprintf(b, ` %s="%d"`, name, PointsToTwips(*v))
	}
}

func writeRunProps(b *strings.Builder, rp *RunProps) {
	var inner strings.Builder
	if rp.StyleID != "" {
		fmt.Fprintf(&inner, `<w:rStyle w:val="%s"/>`, escapeAttr(rp.StyleID))
	}
	if rp.Font != nil {
		f := escapeAttr(*rp.Font)
		fmt.Fprintf(&inner, `<w:rFonts w:ascii="%s" w:hAnsi="%s" w:cs="%s"/>`, f, f, f)
	} else if rp.FontTheme != "" {
		t := escapeAttr(rp.FontTheme)
		fmt.Fprintf(&inner, `<w:rFonts w:asciiTheme="%s" w:hAnsiTheme="%s"/>`, t, t)
	}
	writeOnOff(&inner, "w:b", rp.Bold)
	writeOnOff(&inner, "w:i", rp.Italic)
	if rp.Color != nil {
		fmt.Fprintf(&inner, `<w:color w:val="%s"/>`, escapeAttr(*rp.Color))
	}
	if rp.Size != nil {
		fmt.Fprintf(&inner, `<w:sz w:val="%d"/>`, PointsToHalfPoints(*rp.Size))
	}
	if rp.Underline != nil {
		if *rp.Underline {
			inner.WriteString(`<w:u w:val="single"/>`)
		} else {
			inner.WriteString(`<w:u w:val="none"/>`)
		}
	}
	if inner.Len() > 0 {
		b.WriteString(`<w:rPr>`)
		b.WriteString(inner.String())
		b.WriteString(`</w:rPr>`)
	}
}

func writeOnOff(b *strings.Builder, name string, v *bool) {
	if v == nil {
		return
	}
	if *v {
		fmt.Fprintf(b, `<%s/>`, name)
	} else {
		fmt.Fprintf(b, `<%s w:val="0"/>`, name)
	}
}

func writeRun(b *strings.Builder, r *Run) {
	b.WriteString(`<w:r>`)
	writeRunProps(b, &r.Props)
	if r.PageBreak {
		b.WriteString(`<w:br w:type="page"/>`)
	}
	var chunk strings.Builder
	flush := func() {
		if chunk.Len() == 0 {
			return
		}
		b.WriteString(`<w:t xml:space="preserve">`)
		b.WriteString(escapeText(chunk.String()))
		b.WriteString(`</w:t>`)
		chunk.Reset()
	}
	for _, c := range r.Text {
		switch c {
		case '\t':
			flush()
			b.WriteString(`<w:tab/>`)
		case '\n':
			flush()
			b.WriteString(`<w:br/>`)
		default:
			chunk.WriteRune(c)
		}
	}
	flush()
	b.WriteString(`</w:r>`)
}

func writeTable(b *strings.Builder, t *Table) {
	b.WriteString(`<w:tbl><w:tblPr>`)
	if t.StyleID != "" {
		fmt.Fprintf(b, `<w:tblStyle w:val="%s"/>`, escapeAttr(t.StyleID))
	}
	b.WriteString(`<w:tblW w:w="0" w:type="auto"/>`)
	if t.Borders != nil {
		b.WriteString(`<w:tblBorders>`)
		for _, side := range []string{"top", "left", "bottom", "right", "insideH", "insideV"} {
			fmt.Fprintf(b, `<w:%s w:val="%s" w:sz="%d" w:space="0"`, side,
				escapeAttr(borderStyle(t.Borders.Style)), PointsToEighths(t.Borders.Size))
			if t.Borders.Color != "" {
				fmt.Fprintf(b, ` w:color="%s"`, escapeAttr(t.Borders.Color))
			}
			b.WriteString(`/>`)
		}
		b.WriteString(`</w:tblBorders>`)
	}
	b.WriteString(`</w:tblPr><w:tblGrid>`)
	for _, w := range t.Grid {
		fmt.Fprintf(b, `<w:gridCol w:w="%d"/>`, PointsToTwips(w))
	}
	b.WriteString(`</w:tblGrid>`)

	for _, row := range t.Rows {
		b.WriteString(`<w:tr>`)
		if row.Header {
			b.WriteString(`<w:trPr><w:tblHeader/></w:trPr>`)
		}
		for _, cell := range row.Cells {
			b.WriteString(`<w:tc>`)
			if cell.Width != nil || cell.Shading != "" {
				b.WriteString(`<w:tcPr>`)
				if cell.Width != nil {
					fmt.Fprintf(b, `<w:tcW w:w="%d" w:type="dxa"/>`, PointsToTwips(*cell.Width))
				}
				if cell.Shading != "" {
					fmt.Fprintf(b, `<w:shd w:val="clear" w:color="auto" w:fill="%s"/>`, escapeAttr(cell.Shading))
				}
				b.WriteString(`</w:tcPr>`)
			}
			if len(cell.Paragraphs) == 0 {
				b.WriteString(`<w:p/>`)
			}
			for i := range cell.Paragraphs {
				writeParagraph(b, &cell.Paragraphs[i])
			}
			b.WriteString(`</w:tc>`)
		}
		b.WriteString(`</w:tr>`)
	}
	b.WriteString(`</w:tbl>`)
}

func borderStyle(s string) string {
	if s == "" {
		return "single"
	}
	return s
}

func writeSection(b *strings.Builder, sec *Section) {
	b.WriteString(`<w:sectPr>`)
	for _, ref := range sec.Headers {
		fmt.Fprintf(b, `<w:headerReference w:type="%s" r:id="%s"/>`, escapeAttr(refType(ref.Type)), escapeAttr(ref.RelID))
	}
	for _, ref := range sec.Footers {
		fmt.Fprintf(b, `<w:footerReference w:type="%s" r:id="%s"/>`, escapeAttr(refType(ref.Type)), escapeAttr(ref.RelID))
	}
	if sec.Type != "" {
		fmt.Fprintf(b, `<w:type w:val="%s"/>`, escapeAttr(sec.Type))
	}
	if sec.PageWidth != nil && sec.PageHeight != nil {
		fmt.Fprintf(b, `<w:pgSz w:w="%d" w:h="%d"`, PointsToTwips(*sec.PageWidth), PointsToTwips(*sec.PageHeight))
		if sec.Orientation != "" {
			fmt.Fprintf(b, ` w:orient="%s"`, escapeAttr(sec.Orientation))
		}
		b.WriteString(`/>`)
	}
	if m := sec.Margins; m != nil {
		fmt.Fprintf(b, `<w:pgMar w:top="%d" w:right="%d" w:bottom="%d" w:left="%d" w:header="%d" w:footer="%d" w:gutter="0"/>`,
			PointsToTwips(m.Top), PointsToTwips(m.Right), PointsToTwips(m.Bottom),
			PointsToTwips(m.Left), PointsToTwips(m.Header), PointsToTwips(m.Footer))
	}
	if sec.TitlePage {
		b.WriteString(`<w:titlePg/>`)
	}
	b.WriteString(`</w:sectPr>`)
}

func refType(t string) string {
	if t == "" {
		return "default"
	}
	return t
}

func escapeText(s string) string {
	var b bytes.Buffer
	_ = xml.EscapeText(&b, []byte(s))
	return b.String()
}

func escapeAttr(s string) string {
	return escapeText(s)
}
