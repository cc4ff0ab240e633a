package ooxml

import (
	"archive/zip"
	"bytes"
	"errors"
	"strings"
	"testing"
)

const testDocumentXML = `<?xml version="1.0" encoding="UTF-8"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main" xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships">
<w:body>
<w:p><w:pPr><w:pStyle w:val="Heading1"/><w:jc w:val="center"/></w:pPr><w:r><w:t>Title</w:t></w:r></w:p>
<w:p>
  <w:pPr><w:spacing w:before="120" w:after="240" w:line="360" w:lineRule="auto"/><w:ind w:left="720" w:firstLine="360"/></w:pPr>
  <w:r><w:rPr><w:rFonts w:ascii="Georgia" w:hAnsi="Georgia"/><w:b/><w:sz w:val="24"/><w:color w:val="1f2937"/></w:rPr><w:t xml:space="preserve">Hello </w:t></w:r>
  <w:hyperlink r:id="rId9"><w:r><w:t>link</w:t></w:r></w:hyperlink>
  <w:r><w:tab/><w:t>tail</w:t></w:r>
</w:p>
<w:p><w:r><w:br w:type="page"/></w:r></w:p>
<w:tbl>
  <w:tblPr><w:tblStyle w:val="TableGrid"/><w:tblBorders><w:top w:val="single" w:sz="8" w:color="auto"/></w:tblBorders></w:tblPr>
  <w:tblGrid><w:gridCol w:w="2880"/><w:gridCol w:w="2880"/></w:tblGrid>
  <w:tr><w:trPr><w:tblHeader/></w:trPr>
    <w:tc><w:tcPr><w:tcW w:w="2880" w:type="dxa"/><w:shd w:val="clear" w:fill="d9e2f3"/></w:tcPr><w:p><w:r><w:t>A</w:t></w:r></w:p></w:tc>
    <w:tc><w:p><w:r><w:t>B</w:t></w:r></w:p></w:tc>
  </w:tr>
</w:tbl>
<w:sectPr>
  <w:headerReference w:type="default" r:id="rId7"/>
  <w:pgSz w:w="16838" w:h="11906" w:orient="landscape"/>
  <w:pgMar w:top="1440" w:right="1080" w:bottom="1440" w:left="1080" w:header="708" w:footer="708" w:gutter="0"/>
</w:sectPr>
</w:body>
</w:document>`

const testStylesXML = `<?xml version="1.0" encoding="UTF-8"?>
<w:styles xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
<w:docDefaults>
  <w:rPrDefault><w:rPr><w:rFonts w:asciiTheme="minorHAnsi" w:hAnsiTheme="minorHAnsi"/><w:sz w:val="22"/></w:rPr></w:rPrDefault>
  <w:pPrDefault><w:pPr><w:spacing w:after="160" w:line="259" w:lineRule="auto"/></w:pPr></w:pPrDefault>
</w:docDefaults>
<w:style w:type="paragraph" w:default="1" w:styleId="Normal"><w:name w:val="Normal"/></w:style>
<w:style w:type="paragraph" w:styleId="Heading1"><w:name w:val="heading 1"/><w:basedOn w:val="Normal"/><w:rPr><w:b/><w:sz w:val="32"/></w:rPr></w:style>
</w:styles>`

const testRelsXML = `<?xml version="1.0" encoding="UTF-8"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/styles" Target="styles.xml"/>
<Relationship Id="rId7" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/header" Target="header1.xml"/>
<Relationship Id="rId8" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/theme" Target="theme/theme1.xml"/>
</Relationships>`

const testHeaderXML = `<?xml version="1.0" encoding="UTF-8"?>
<w:hdr xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
<w:p><w:pPr><w:jc w:val="right"/></w:pPr><w:r><w:rPr><w:i/></w:rPr><w:t>Confidential</w:t></w:r></w:p>
</w:hdr>`

const testThemeXML = `<?xml version="1.0" encoding="UTF-8"?>
<a:theme xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main"><a:themeElements><a:fontScheme name="Office">
<a:majorFont><a:latin typeface="Calibri Light"/></a:majorFont>
<a:minorFont><a:latin typeface="Calibri"/></a:minorFont>
</a:fontScheme></a:themeElements></a:theme>`

func buildTestPackage(t *testing.T, files map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for name, content := range files {
		fw, err := w.Create(name)
		if err != nil {
			t.Fatalf("Failed to create %s: %v", name, err)
		}
		if _, err := fw.Write([]byte(content)); err != nil {
			t.Fatalf("Failed to write %s: %v", name, err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Failed to close zip: %v", err)
	}
	return buf.Bytes()
}

func TestDecode(t *testing.T) {
	data := buildTestPackage(t, map[string]string{
		"word/document.xml":            testDocumentXML,
		"word/styles.xml":              testStylesXML,
		"word/_rels/document.xml.rels": testRelsXML,
		"word/header1.xml":             testHeaderXML,
		"word/theme/theme1.xml":        testThemeXML,
	})

	doc, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}

	paras := doc.Paragraphs()
	if len(paras) != 3 {
		t.Fatalf("Expected 3 paragraphs, got %d", len(paras))
	}
	if paras[0].Props.StyleID != "Heading1" || paras[0].Props.Align != "center" {
		t.Errorf("Unexpected heading props: %+v", paras[0].Props)
	}

	body := paras[1]
	if got := body.Text(); got != "Hello link\ttail" {
		t.Errorf("Expected text %q, got %q", "Hello link\ttail", got)
	}
	if body.Props.Spacing.Before == nil || *body.Props.Spacing.Before != 6 {
		t.Errorf("Expected spacing before 6pt, got %v", body.Props.Spacing.Before)
	}
	if body.Props.Spacing.Line == nil || *body.Props.Spacing.Line != 1.5 {
		t.Errorf("Expected line multiple 1.5, got %v", body.Props.Spacing.Line)
	}
	if body.Props.Indent.Left == nil || *body.Props.Indent.Left != 36 {
		t.Errorf("Expected left indent 36pt, got %v", body.Props.Indent.Left)
	}
	rp := body.Runs[0].Props
	if rp.Font == nil || *rp.Font != "Georgia" {
		t.Errorf("Expected Georgia, got %v", rp.Font)
	}
	if rp.Size == nil || *rp.Size != 12 {
		t.Errorf("Expected 12pt, got %v", rp.Size)
	}
	if rp.Color == nil || *rp.Color != "1F2937" {
		t.Errorf("Expected color 1F2937, got %v", rp.Color)
	}
	if rp.Bold == nil || !*rp.Bold {
		t.Errorf("Expected bold run")
	}

	if !paras[2].HasPageBreak() {
		t.Errorf("Expected page break in third paragraph")
	}

	tables := doc.Tables()
	if len(tables) != 1 {
		t.Fatalf("Expected 1 table, got %d", len(tables))
	}
	tbl := tables[0]
	if len(tbl.Rows) != 1 || len(tbl.Rows[0].Cells) != 2 {
		t.Fatalf("Unexpected table shape: %+v", tbl.Rows)
	}
	if !tbl.Rows[0].Header {
		t.Errorf("Expected header row")
	}
	if tbl.Borders == nil || tbl.Borders.Size != 1 || tbl.Borders.Style != "single" {
		t.Errorf("Unexpected borders: %+v", tbl.Borders)
	}
	if tbl.Rows[0].Cells[0].Shading != "D9E2F3" {
		t.Errorf("Expected shading D9E2F3, got %q", tbl.Rows[0].Cells[0].Shading)
	}
	if len(tbl.Grid) != 2 || tbl.Grid[0] != 144 {
		t.Errorf("Unexpected grid: %v", tbl.Grid)
	}

	sec := doc.BodySection()
	if sec == nil {
		t.Fatal("Expected body section")
	}
	if sec.Orientation != "landscape" || sec.Margins == nil || sec.Margins.Left != 54 {
		t.Errorf("Unexpected section: %+v", sec)
	}
	if len(sec.Headers) != 1 || sec.Headers[0].RelID != "rId7" {
		t.Errorf("Unexpected header refs: %+v", sec.Headers)
	}

	part := doc.Parts["rId7"]
	if part == nil || part.Kind != PartHeader {
		t.Fatalf("Expected header part for rId7, got %+v", part)
	}
	if part.Paragraphs[0].Text() != "Confidential" {
		t.Errorf("Expected header text Confidential, got %q", part.Paragraphs[0].Text())
	}

	if doc.Theme.MinorLatin != "Calibri" || doc.Theme.MajorLatin != "Calibri Light" {
		t.Errorf("Unexpected theme: %+v", doc.Theme)
	}
	if doc.Styles.DefaultRun.FontTheme != "minorHAnsi" {
		t.Errorf("Expected minorHAnsi default font theme, got %q", doc.Styles.DefaultRun.FontTheme)
	}
	if st := doc.Styles.DefaultParagraphStyle(); st == nil || st.ID != "Normal" {
		t.Errorf("Expected Normal default paragraph style, got %+v", st)
	}
	if h := doc.Styles.Lookup("Heading1"); h == nil || h.BasedOn != "Normal" || h.RPr.Size == nil || *h.RPr.Size != 16 {
		t.Errorf("Unexpected Heading1 style: %+v", h)
	}
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"not a zip", []byte("plain text")},
		{"no document part", buildTestPackage(t, map[string]string{"word/styles.xml": testStylesXML})},
		{"broken xml", buildTestPackage(t, map[string]string{"word/document.xml": "<w:document><w:body><w:p>"})},
		{"no body", buildTestPackage(t, map[string]string{"word/document.xml": "<w:document/>"})},
	}

	for _, tt := range tests {
		if _, err := Decode(tt.data); err == nil {
			t.Errorf("%s: expected error, got nil", tt.name)
		}
	}
}

func TestDecodeLimit(t *testing.T) {
	padded := testStylesXML + "<!--" + strings.Repeat(" ", 1<<20) + "-->"
	data := buildTestPackage(t, map[string]string{
		"word/document.xml": testDocumentXML,
		"word/styles.xml":   padded,
	})

	if _, err := DecodeLimit(data, 64<<10); !errors.Is(err, ErrPartTooLarge) {
		t.Errorf("DecodeLimit() error = %v, expected ErrPartTooLarge", err)
	}
	doc, err := DecodeLimit(data, 4<<20)
	if err != nil {
		t.Fatalf("DecodeLimit() error = %v", err)
	}
	if doc.Styles.Lookup("Heading1") == nil {
		t.Error("Expected styles to be decoded under the limit")
	}
}

func TestPartLimit(t *testing.T) {
	if got := PartLimit(0); got != DefaultMaxPartSize {
		t.Errorf("PartLimit(0) = %d, expected %d", got, DefaultMaxPartSize)
	}
	if got := PartLimit(1 << 20); got != 10<<20 {
		t.Errorf("PartLimit(1 MiB) = %d, expected %d", got, 10<<20)
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	font := "Garamond"
	size := 13.0
	bold := true
	after := 8.0
	line := 1.15
	width, height := 612.0, 792.0

	doc := &Document{
		Body: []BodyElement{
			{Paragraph: &Paragraph{
				Props: ParagraphProps{StyleID: "Body", Align: "both", Spacing: Spacing{After: &after, Line: &line, LineRule: "auto"}},
				Runs: []Run{
					{Props: RunProps{StyleID: "RoleLabel"}, Text: "Alice: "},
					{Text: "a < b & c\nnext"},
				},
			}},
			{Paragraph: &Paragraph{Runs: []Run{{PageBreak: true}}}},
			{Table: &Table{
				Borders: &Border{Style: "single", Size: 0.5, Color: "000000"},
				Grid:    []float64{100, 100},
				Rows: []TableRow{{Cells: []TableCell{
					{Shading: "EEEEEE", Paragraphs: []Paragraph{{Runs: []Run{{Text: "x"}}}}},
					{},
				}}},
			}},
		},
		Sections: []Section{{
			PageWidth:    &width,
			PageHeight:   &height,
			Margins:      &Margins{Top: 72, Bottom: 72, Left: 90, Right: 90, Header: 36, Footer: 36},
			Headers:      []PartRef{{Type: "default", RelID: "rIdHeader1"}},
			EndParagraph: -1,
		}},
		Parts: map[string]*Part{
			"rIdHeader1": {Kind: PartHeader, Paragraphs: []Paragraph{{Runs: []Run{{Text: "Confidential"}}}}},
		},
	}
	doc.Styles.DefaultRun = RunProps{Font: &font, Size: &size}
	doc.Styles.Add(&Style{ID: "Body", Type: "paragraph", RPr: RunProps{Bold: &bold}})

	data, err := Encode(doc)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	if !IsWordPackage(data) {
		t.Fatal("Encoded output is not recognised as a word package")
	}

	got, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}

	paras := got.Paragraphs()
	if len(paras) != 2 {
		t.Fatalf("Expected 2 paragraphs, got %d", len(paras))
	}
	if paras[0].Text() != "Alice: a < b & c\nnext" {
		t.Errorf("Unexpected text %q", paras[0].Text())
	}
	if paras[0].Runs[0].Props.StyleID != "RoleLabel" {
		t.Errorf("Expected RoleLabel run style, got %q", paras[0].Runs[0].Props.StyleID)
	}
	if l := paras[0].Props.Spacing.Line; l == nil || *l != 1.15 {
		t.Errorf("Expected line 1.15, got %v", l)
	}
	if !paras[1].HasPageBreak() {
		t.Error("Expected page break paragraph")
	}
	if tbl := got.Tables(); len(tbl) != 1 || tbl[0].Rows[0].Cells[0].Shading != "EEEEEE" || tbl[0].Borders.Size != 0.5 {
		t.Errorf("Unexpected tables: %+v", tbl)
	}
	if got.Styles.DefaultRun.Font == nil || *got.Styles.DefaultRun.Font != "Garamond" {
		t.Errorf("Expected default font Garamond")
	}
	if st := got.Styles.Lookup("Body"); st == nil || st.RPr.Bold == nil || !*st.RPr.Bold {
		t.Errorf("Expected bold Body style, got %+v", st)
	}
	sec := got.BodySection()
	if sec == nil || sec.Margins == nil || sec.Margins.Left != 90 || *sec.PageHeight != 792 {
		t.Errorf("Unexpected section: %+v", sec)
	}
	part := got.Parts["rIdHeader1"]
	if part == nil || part.Paragraphs[0].Text() != "Confidential" {
		t.Errorf("Expected Confidential header, got %+v", part)
	}
}

func TestResolveRelativePath(t *testing.T) {
	tests := []struct {
		target   string
		baseDir  string
		expected string
	}{
		{"header1.xml", "word", "word/header1.xml"},
		{"../customXml/item1.xml", "word", "customXml/item1.xml"},
		{"/word/footer2.xml", "word", "word/footer2.xml"},
		{"word/document.xml", "", "word/document.xml"},
	}

	for _, tt := range tests {
		result := resolveRelativePath(tt.target, tt.baseDir)
		if result != tt.expected {
			t.Errorf("resolveRelativePath(%q, %q) = %q, expected %q",
				tt.target, tt.baseDir, result, tt.expected)
		}
	}
}

func TestOnOff(t *testing.T) {
	tests := []struct {
		val      string
		expected bool
	}{
		{"", true},
		{"1", true},
		{"true", true},
		{"on", true},
		{"0", false},
		{"false", false},
		{"off", false},
	}

	for _, tt := range tests {
		if result := onOff(tt.val); result != tt.expected {
			t.Errorf("onOff(%q) = %v, expected %v", tt.val, result, tt.expected)
		}
	}
}

func TestUnitConversions(t *testing.T) {
	if got := TwipsToPoints(1440); got != 72 {
		t.Errorf("TwipsToPoints(1440) = %v, expected 72", got)
	}
	if got := PointsToTwips(72); got != 1440 {
		t.Errorf("PointsToTwips(72) = %v, expected 1440", got)
	}
	if got := HalfPointsToPoints(22); got != 11 {
		t.Errorf("HalfPointsToPoints(22) = %v, expected 11", got)
	}
	if got := PointsToHalfPoints(10.5); got != 21 {
		t.Errorf("PointsToHalfPoints(10.5) = %v, expected 21", got)
	}
	if got := EighthsToPoints(4); got != 0.5 {
		t.Errorf("EighthsToPoints(4) = %v, expected 0.5", got)
	}
}
