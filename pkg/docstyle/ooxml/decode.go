package ooxml

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
)

// ErrNotWordDocument indicates the package has no main document part.
var ErrNotWordDocument = errors.New("package has no word/document.xml")

// Decode parses a .docx package with parts limited to DefaultMaxPartSize.
func Decode(data []byte) (*Document, error) {
	return DecodeLimit(data, DefaultMaxPartSize)
}

// DecodeLimit parses a .docx package. Any part that inflates past maxPart
// bytes fails with ErrPartTooLarge; zero or less means no limit.
func DecodeLimit(data []byte, maxPart int64) (*Document, error) {
	r, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("open package: %w", err)
	}

	mainPart := findMainDocument(r, maxPart)
	docXML, err := readZipFile(r, mainPart, maxPart)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", mainPart, err)
	}
	if docXML == nil {
		return nil, ErrNotWordDocument
	}

	doc := &Document{Parts: make(map[string]*Part)}
	doc.Body, doc.Sections, err = parseDocumentXML(docXML)
	if err != nil {
		return nil, err
	}

	baseDir := path.Dir(mainPart)
	var rels []relationship
	relsXML, err := readZipFile(r, relsPathFor(mainPart), maxPart)
	if errors.Is(err, ErrPartTooLarge) {
		return nil, err
	}
	if err == nil && relsXML != nil {
		rels = parseRels(relsXML)
	}

	stylesPart := baseDir + "/styles.xml"
	for _, rel := range rels {
		target := resolveRelativePath(rel.Target, baseDir)
		switch {
		case rel.Type == relStyles:
			stylesPart = target
		case rel.Type == relHeader, rel.Type == relFooter:
			kind := PartHeader
			if rel.Type == relFooter {
				kind = PartFooter
			}
			partXML, err := readZipFile(r, target, maxPart)
			if errors.Is(err, ErrPartTooLarge) {
				return nil, err
			}
			if err != nil || partXML == nil {
				// Dangling reference: the section keeps the ref, the part is absent.
				continue
			}
			paras, err := parsePartXML(partXML)
			if err != nil {
				return nil, fmt.Errorf("parse %s: %w", target, err)
			}
			doc.Parts[rel.ID] = &Part{Kind: kind, Name: target, Paragraphs: paras}
		case strings.HasSuffix(rel.Type, "/theme"):
			themeXML, err := readZipFile(r, target, maxPart)
			if errors.Is(err, ErrPartTooLarge) {
				return nil, err
			}
			if err == nil && themeXML != nil {
				doc.Theme = parseThemeXML(themeXML)
			}
		}
	}

	stylesXML, err := readZipFile(r, stylesPart, maxPart)
	if errors.Is(err, ErrPartTooLarge) {
		return nil, err
	}
	if err == nil && stylesXML != nil {
		styles, err := parseStylesXML(stylesXML)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", stylesPart, err)
		}
		doc.Styles = styles
	}

	return doc, nil
}

// IsWordPackage reports whether data is a zip archive holding a main
// document part.
func IsWordPackage(data []byte) bool {
	r, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return false
	}
	return hasZipFile(r, findMainDocument(r, DefaultMaxPartSize))
}

// parseDocumentXML walks w:body and returns its blocks and sections.
func parseDocumentXML(data []byte) ([]BodyElement, []Section, error) {
	var body []BodyElement
	var sections []Section
	var sawBody bool
	paraIdx := 0

	decoder := xml.NewDecoder(bytes.NewReader(data))
	for {
		token, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("parse document: %w", err)
		}

		se, ok := token.(xml.StartElement)
		if !ok {
			continue
		}
		switch se.Name.Local {
		case "body":
			sawBody = true
		case "p":
			if !sawBody {
				continue
			}
			p, err := parseParagraph(decoder)
			if err != nil {
				return nil, nil, err
			}
			body = append(body, BodyElement{Paragraph: p})
			if p.Props.Section != nil {
				sec := *p.Props.Section
				sec.EndParagraph = paraIdx
				sections = append(sections, sec)
			}
			paraIdx++
		case "tbl":
			if !sawBody {
				continue
			}
			t, err := parseTable(decoder)
			if err != nil {
				return nil, nil, err
			}
			body = append(body, BodyElement{Table: t})
		case "sectPr":
			if !sawBody {
				continue
			}
			var x xmlSectPr
			if err := decoder.DecodeElement(&x, &se); err != nil {
				return nil, nil, fmt.Errorf("parse sectPr: %w", err)
			}
			sections = append(sections, x.toSection())
		}
	}

	if !sawBody {
		return nil, nil, errors.New("parse document: missing w:body")
	}
	return body, sections, nil
}

// parsePartXML walks a header or footer part.
func parsePartXML(data []byte) ([]Paragraph, error) {
	var paras []Paragraph
	decoder := xml.NewDecoder(bytes.NewReader(data))
	for {
		token, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		se, ok := token.(xml.StartElement)
		if !ok {
			continue
		}
		switch se.Name.Local {
		case "p":
			p, err := parseParagraph(decoder)
			if err != nil {
				return nil, err
			}
			paras = append(paras, *p)
		case "tbl":
			// Header tables contribute their paragraphs in reading order.
			t, err := parseTable(decoder)
			if err != nil {
				return nil, err
			}
			for _, row := range t.Rows {
				for _, cell := range row.Cells {
					paras = append(paras, cell.Paragraphs...)
				}
			}
		}
	}
	return paras, nil
}

// parseParagraph consumes a w:p element whose start tag has been read.
func parseParagraph(decoder *xml.Decoder) (*Paragraph, error) {
	p := &Paragraph{}
	depth := 1
	for depth > 0 {
		token, err := decoder.Token()
		if err != nil {
			return nil, fmt.Errorf("parse paragraph: %w", err)
		}
		switch t := token.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "pPr":
				var x xmlPPr
				if err := decoder.DecodeElement(&x, &t); err != nil {
					return nil, fmt.Errorf("parse pPr: %w", err)
				}
				p.Props = x.toProps()
			case "r":
				run, err := parseRun(decoder)
				if err != nil {
					return nil, err
				}
				p.Runs = append(p.Runs, run)
			case "hyperlink", "ins", "smartTag", "fldSimple", "customXml", "sdt", "sdtContent":
				depth++
			default:
				if err := decoder.Skip(); err != nil {
					return nil, err
				}
			}
		case xml.EndElement:
			depth--
		}
	}
	return p, nil
}

// parseRun consumes a w:r element whose start tag has been read.
func parseRun(decoder *xml.Decoder) (Run, error) {
	var run Run
	var text strings.Builder
	for {
		token, err := decoder.Token()
		if err != nil {
			return run, fmt.Errorf("parse run: %w", err)
		}
		switch t := token.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "rPr":
				var x xmlRPr
				if err := decoder.DecodeElement(&x, &t); err != nil {
					return run, fmt.Errorf("parse rPr: %w", err)
				}
				run.Props = x.toProps()
			case "t":
				s, err := readElementText(decoder)
				if err != nil {
					return run, err
				}
				text.WriteString(s)
			case "tab":
				text.WriteByte('\t')
				if err := decoder.Skip(); err != nil {
					return run, err
				}
			case "br", "cr":
				isPage := false
				for _, attr := range t.Attr {
					if attr.Name.Local == "type" && attr.Value == "page" {
						isPage = true
					}
				}
				if isPage {
					run.PageBreak = true
				} else {
					text.WriteByte('\n')
				}
				if err := decoder.Skip(); err != nil {
					return run, err
				}
			default:
				if err := decoder.Skip(); err != nil {
					return run, err
				}
			}
		case xml.EndElement:
			run.Text = text.String()
			return run, nil
		}
	}
}

// parseTable consumes a w:tbl element whose start tag has been read.
func parseTable(decoder *xml.Decoder) (*Table, error) {
	t := &Table{}
	for {
		token, err := decoder.Token()
		if err != nil {
			return nil, fmt.Errorf("parse table: %w", err)
		}
		switch tok := token.(type) {
		case xml.StartElement:
			switch tok.Name.Local {
			case "tblPr":
				var x xmlTblPr
				if err := decoder.DecodeElement(&x, &tok); err != nil {
					return nil, fmt.Errorf("parse tblPr: %w", err)
				}
				if x.TblStyle != nil {
					t.StyleID = x.TblStyle.Val
				}
				t.Borders = x.TblBorders.toBorder()
			case "tblGrid":
				var x xmlTblGrid
				if err := decoder.DecodeElement(&x, &tok); err != nil {
					return nil, fmt.Errorf("parse tblGrid: %w", err)
				}
				for _, col := range x.Cols {
					t.Grid = append(t.Grid, twipsValue(col.W))
				}
			case "tr":
				row, err := parseTableRow(decoder)
				if err != nil {
					return nil, err
				}
				t.Rows = append(t.Rows, row)
			default:
				if err := decoder.Skip(); err != nil {
					return nil, err
				}
			}
		case xml.EndElement:
			return t, nil
		}
	}
}

func parseTableRow(decoder *xml.Decoder) (TableRow, error) {
	var row TableRow
	for {
		token, err := decoder.Token()
		if err != nil {
			return row, fmt.Errorf("parse table row: %w", err)
		}
		switch t := token.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "trPr":
				var x xmlTrPr
				if err := decoder.DecodeElement(&x, &t); err != nil {
					return row, err
				}
				row.Header = x.TblHeader != nil && onOff(x.TblHeader.Val)
			case "tc":
				cell, err := parseTableCell(decoder)
				if err != nil {
					return row, err
				}
				row.Cells = append(row.Cells, cell)
			default:
				if err := decoder.Skip(); err != nil {
					return row, err
				}
			}
		case xml.EndElement:
			return row, nil
		}
	}
}

func parseTableCell(decoder *xml.Decoder) (TableCell, error) {
	var cell TableCell
	for {
		token, err := decoder.Token()
		if err != nil {
			return cell, fmt.Errorf("parse table cell: %w", err)
		}
		switch t := token.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "tcPr":
				var x xmlTcPr
				if err := decoder.DecodeElement(&x, &t); err != nil {
					return cell, err
				}
				if x.TcW != nil && (x.TcW.Type == "" || x.TcW.Type == "dxa") {
					cell.Width = twipsAttr(x.TcW.W)
				}
				if x.Shd != nil && x.Shd.Fill != "" && !strings.EqualFold(x.Shd.Fill, "auto") {
					cell.Shading = strings.ToUpper(x.Shd.Fill)
				}
			case "p":
				p, err := parseParagraph(decoder)
				if err != nil {
					return cell, err
				}
				cell.Paragraphs = append(cell.Paragraphs, *p)
			default:
				if err := decoder.Skip(); err != nil {
					return cell, err
				}
			}
		case xml.EndElement:
			return cell, nil
		}
	}
}

// parseStylesXML parses word/styles.xml.
func parseStylesXML(data []byte) (Styles, error) {
	var x xmlStyles
	if err := xml.Unmarshal(data, &x); err != nil {
		return Styles{}, err
	}

	styles := Styles{
		DefaultRun:       x.DocDefaults.RPrDefault.RPr.toProps(),
		DefaultParagraph: x.DocDefaults.PPrDefault.PPr.toProps(),
	}
	for _, xs := range x.Styles {
		if xs.ID == "" {
			continue
		}
		st := &Style{
			ID:      xs.ID,
			Type:    xs.Type,
			Default: xs.Default != "" && onOff(xs.Default),
			PPr:     xs.PPr.toProps(),
			RPr:     xs.RPr.toProps(),
		}
		if xs.Name != nil {
			st.Name = xs.Name.Val
		}
		if xs.BasedOn != nil {
			st.BasedOn = xs.BasedOn.Val
		}
		styles.Add(st)
	}
	return styles, nil
}

// parseThemeXML reads the latin typefaces of the theme font scheme.
func parseThemeXML(data []byte) Theme {
	var theme Theme
	var scheme string
	decoder := xml.NewDecoder(bytes.NewReader(data))
	for {
		token, err := decoder.Token()
		if err != nil {
			break
		}
		switch t := token.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "majorFont", "minorFont":
				scheme = t.Name.Local
			case "latin":
				for _, attr := range t.Attr {
					if attr.Name.Local != "typeface" {
						continue
					}
					switch scheme {
					case "majorFont":
						theme.MajorLatin = attr.Value
					case "minorFont":
						theme.MinorLatin = attr.Value
					}
				}
			}
		case xml.EndElement:
			if t.Name.Local == "majorFont" || t.Name.Local == "minorFont" {
				scheme = ""
			}
		}
	}
	return theme
}

// readElementText reads the character data of the current element.
func readElementText(decoder *xml.Decoder) (string, error) {
	var text strings.Builder
	depth := 1
	for depth > 0 {
		token, err := decoder.Token()
		if err != nil {
			return text.String(), err
		}
		switch t := token.(type) {
		case xml.CharData:
			text.Write(t)
		case xml.StartElement:
			depth++
		case xml.EndElement:
			depth--
		}
	}
	return text.String(), nil
}

// ResolveThemeFont maps an rFonts theme reference to a typeface.
func (t Theme) ResolveThemeFont(ref string) string {
	switch {
	case strings.HasPrefix(ref, "major"):
		return t.MajorLatin
	case strings.HasPrefix(ref, "minor"):
		return t.MinorLatin
	}
	return ""
}
