package parser

import (
	"strconv"

	"github.com/ukaji3/docstyle-go/pkg/docstyle/models"
	"github.com/ukaji3/docstyle-go/pkg/docstyle/ooxml"
)

// Border used when a table declares no tblBorders of its own.
const (
	defaultBorderStyle = "single"
	defaultBorderSize  = 0.5
)

// extractTableTemplates builds one template per top-level table. The font
// of each table's first cell is registered as "table-N".
func extractTableTemplates(r *resolver, doc *ooxml.Document, fonts map[string]models.FontStyle) []models.TableStyle {
	var templates []models.TableStyle
	for _, t := range doc.Tables() {
		if len(t.Rows) == 0 {
			continue
		}
		ts := models.TableStyle{
			Rows:         len(t.Rows),
			Cols:         tableCols(t),
			Border:       models.BorderSpec{Style: defaultBorderStyle, Size: defaultBorderSize, Color: models.ColorInherit},
			HeaderRow:    t.Rows[0].Header,
			ColumnWidths: append([]float64(nil), t.Grid...),
		}
		if t.Borders != nil {
			ts.Border.Style = t.Borders.Style
			ts.Border.Size = t.Borders.Size
			if t.Borders.Color != "" {
				ts.Border.Color = t.Borders.Color
			}
		}

		role := "table-" + strconv.Itoa(len(templates)+1)
		ts.Cell = models.CellStyle{FontRole: role, Alignment: models.AlignLeft}
		fonts[role] = r.defaultFont()
		if cells := t.Rows[0].Cells; len(cells) > 0 {
			cell := cells[0]
			ts.Cell.Shading = cell.Shading
			if len(cell.Paragraphs) > 0 {
				p := &cell.Paragraphs[0]
				ts.Cell.Alignment = r.paragraphFormat(p).Alignment
				fonts[role] = r.paragraphFont(p)
			}
		}
		templates = append(templates, ts)
	}
	return templates
}

func tableCols(t *ooxml.Table) int {
	cols := len(t.Grid)
	for _, row := range t.Rows {
		cols = max(cols, len(row.Cells))
	}
	return cols
}
