package normalize

import (
	"context"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/ukaji3/docstyle-go/pkg/docstyle/ooxml"
)

// pointsPerCharWidth converts Excel column widths (in characters of the
// default font) to points.
const pointsPerCharWidth = 5.25

// convertXLSX lays each non-empty sheet out as a heading followed by a
// table. Sheets after the first start on a new page. Workbook parts are
// held to the same decompression limit as Word packages.
func (n *Normalizer) convertXLSX(ctx context.Context, path string) (*ooxml.Document, error) {
	limit := ooxml.PartLimit(n.maxSize)
	f, err := excelize.OpenFile(path, excelize.Options{UnzipSizeLimit: limit, UnzipXMLSizeLimit: limit})
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	doc := newConvertedDocument(defaultPageWidth, defaultPageHeight)
	fontName := defaultFontName
	if name, err := f.GetDefaultFont(); err == nil && name != "" {
		fontName = name
	}
	doc.Styles.DefaultRun = ooxml.RunProps{Font: strPtr(fontName), Size: floatPtr(defaultFontSize)}

	for _, sheetName := range f.GetSheetList() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		rows, err := f.GetRows(sheetName)
		if err != nil {
			return nil, fmt.Errorf("read sheet %q: %w", sheetName, err)
		}
		minRow, maxRow, minCol, maxCol := findDataBounds(rows)
		if minRow < 0 {
			continue
		}

		heading := &ooxml.Paragraph{
			Props: ooxml.ParagraphProps{StyleID: headingStyleID, PageBreakBefore: len(doc.Body) > 0},
			Runs:  []ooxml.Run{{Text: sheetName}},
		}
		doc.Body = append(doc.Body, ooxml.BodyElement{Paragraph: heading})

		table := sheetTable(f, sheetName, rows, minRow, maxRow, minCol, maxCol)
		doc.Body = append(doc.Body, ooxml.BodyElement{Table: table})
	}
	return doc, nil
}

// sheetTable converts the bounded cell range to a table. The style of the
// top-left cell is applied to every cell.
func sheetTable(f *excelize.File, sheet string, rows [][]string, minRow, maxRow, minCol, maxCol int) *ooxml.Table {
	t := &ooxml.Table{}
	for col := minCol; col <= maxCol; col++ {
		name, _ := excelize.ColumnNumberToName(col + 1)
		width, err := f.GetColWidth(sheet, name)
		if err != nil || width <= 0 {
			width = 8.43
		}
		t.Grid = append(t.Grid, width*pointsPerCharWidth)
	}

	cellStyle := firstCellStyle(f, sheet, minRow, minCol)
	if cellStyle.border != nil {
		t.Borders = cellStyle.border
	}

	for r := minRow; r <= maxRow; r++ {
		var row []string
		if r < len(rows) {
			row = rows[r]
		}
		tr := ooxml.TableRow{Header: r == minRow && cellStyle.bold}
		for c := minCol; c <= maxCol; c++ {
			text := ""
			if c < len(row) {
				text = row[c]
			}
			p := ooxml.Paragraph{Props: ooxml.ParagraphProps{Align: cellStyle.align}}
			if text != "" {
				p.Runs = []ooxml.Run{{Props: cellStyle.run, Text: text}}
			}
			tr.Cells = append(tr.Cells, ooxml.TableCell{
				Width:      floatPtr(t.Grid[c-minCol]),
				Shading:    cellStyle.fill,
				Paragraphs: []ooxml.Paragraph{p},
			})
		}
		t.Rows = append(t.Rows, tr)
	}
	return t
}

// xlsxCellStyle is the subset of a cell style carried into the table.
type xlsxCellStyle struct {
	run    ooxml.RunProps
	fill   string
	align  string
	bold   bool
	border *ooxml.Border
}

func firstCellStyle(f *excelize.File, sheet string, row, col int) xlsxCellStyle {
	var out xlsxCellStyle
	cell, err := excelize.CoordinatesToCellName(col+1, row+1)
	if err != nil {
		return out
	}
	idx, err := f.GetCellStyle(sheet, cell)
	if err != nil {
		return out
	}
	style, err := f.GetStyle(idx)
	if err != nil || style == nil {
		return out
	}

	if font := style.Font; font != nil {
		if font.Family != "" {
			out.run.Font = strPtr(font.Family)
		}
		if font.Size > 0 {
			out.run.Size = floatPtr(font.Size)
		}
		if font.Bold {
			out.run.Bold = boolPtr(true)
			out.bold = true
		}
		if font.Italic {
			out.run.Italic = boolPtr(true)
		}
		if font.Underline != "" && font.Underline != "none" {
			out.run.Underline = boolPtr(true)
		}
		if c := normalizeColor(font.Color); c != "" {
			out.run.Color = strPtr(c)
		}
	}
	if style.Fill.Pattern == 1 && len(style.Fill.Color) > 0 {
		out.fill = normalizeColor(style.Fill.Color[0])
	}
	if style.Alignment != nil {
		switch style.Alignment.Horizontal {
		case "center", "centerContinuous":
			out.align = "center"
		case "right":
			out.align = "right"
		case "justify", "distributed":
			out.align = "both"
		}
	}
	for _, b := range style.Border {
		if b.Style > 0 {
			out.border = &ooxml.Border{Style: "single", Size: 0.5, Color: normalizeColor(b.Color)}
			break
		}
	}
	return out
}

// normalizeColor converts "#RRGGBB" or "FFRRGGBB" to RRGGBB.
func normalizeColor(c string) string {
	c = strings.ToUpper(strings.TrimPrefix(c, "#"))
	if len(c) == 8 {
		c = c[2:]
	}
	if len(c) != 6 {
		return ""
	}
	return c
}

// findDataBounds finds the bounding box of non-empty cells.
func findDataBounds(rows [][]string) (minRow, maxRow, minCol, maxCol int) {
	minRow, maxRow = -1, -1
	minCol, maxCol = -1, -1

	for rowIdx, row := range rows {
		for colIdx, cell := range row {
			if strings.TrimSpace(cell) != "" {
				if minRow < 0 || rowIdx < minRow {
					minRow = rowIdx
				}
				if maxRow < 0 || rowIdx > maxRow {
					maxRow = rowIdx
				}
				if minCol < 0 || colIdx < minCol {
					minCol = colIdx
				}
				if maxCol < 0 || colIdx > maxCol {
					maxCol = colIdx
				}
			}
		}
	}

	return
}
