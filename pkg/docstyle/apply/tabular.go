package apply

import (
	"regexp"
	"strings"
)

// TableDetectionParams holds parameters for tabular content detection.
type TableDetectionParams struct {
	// DensityMin is the minimum share of non-empty cells in the grid.
	DensityMin float64
	// CoverageMin is the minimum share of rows having the modal column count.
	CoverageMin float64
	// MinNonemptyCells is the minimum number of non-empty cells.
	MinNonemptyCells int
}

// DefaultTableParams returns default table detection parameters.
func DefaultTableParams() TableDetectionParams {
	return TableDetectionParams{
		DensityMin:       0.5,
		CoverageMin:      0.8,
		MinNonemptyCells: 3,
	}
}

var separatorCell = regexp.MustCompile(`^:?-{3,}:?$`)

// IsTabular reports whether text is a pipe- or tab-delimited grid with at
// least two rows and two consistent columns.
func IsTabular(text string) bool {
	_, ok := DetectGrid(text, DefaultTableParams())
	return ok
}

// DetectGrid parses text as a delimited grid. Markdown separator rows are
// dropped and short rows are padded to the widest row.
func DetectGrid(text string, params TableDetectionParams) ([][]string, bool) {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	if len(lines) < 2 {
		return nil, false
	}

	delim := detectDelimiter(lines)
	if delim == "" {
		return nil, false
	}

	var rows [][]string
	for _, line := range lines {
		cells := splitRow(line, delim)
		if isSeparatorRow(cells) {
			continue
		}
		rows = append(rows, cells)
	}
	if len(rows) < 2 {
		return nil, false
	}

	cols, coverage := modalColumns(rows)
	if cols < 2 || coverage < params.CoverageMin {
		return nil, false
	}

	width := 0
	for _, row := range rows {
		width = max(width, len(row))
	}
	for i, row := range rows {
		for len(row) < width {
			row = append(row, "")
		}
		rows[i] = row
	}

	nonEmpty := countNonEmptyCells(rows)
	if nonEmpty < params.MinNonemptyCells {
		return nil, false
	}
	density := float64(nonEmpty) / float64(len(rows)*width)
	if density < params.DensityMin {
		return nil, false
	}
	return rows, true
}

// detectDelimiter returns "|" or "\t" when every line contains it.
func detectDelimiter(lines []string) string {
	for _, delim := range []string{"|", "\t"} {
		all := true
		for _, line := range lines {
			if !strings.Contains(line, delim) {
				all = false
				break
			}
		}
		if all {
			return delim
		}
	}
	return ""
}

func splitRow(line, delim string) []string {
	if delim == "|" {
		line = strings.TrimPrefix(line, "|")
		line = strings.TrimSuffix(line, "|")
	}
	cells := strings.Split(line, delim)
	for i := range cells {
		cells[i] = strings.TrimSpace(cells[i])
	}
	return cells
}

func isSeparatorRow(cells []string) bool {
	for _, c := range cells {
		if !separatorCell.MatchString(c) {
			return false
		}
	}
	return len(cells) > 0
}

// modalColumns returns the most common row width and the share of rows
// having it. Ties go to the wider grid.
func modalColumns(rows [][]string) (int, float64) {
	counts := make(map[int]int)
	for _, row := range rows {
		counts[len(row)]++
	}
	best, bestCount := 0, 0
	for cols, n := range counts {
		if n > bestCount || (n == bestCount && cols > best) {
			best, bestCount = cols, n
		}
	}
	return best, float64(bestCount) / float64(len(rows))
}

// countNonEmptyCells counts non-empty cells in the grid.
func countNonEmptyCells(rows [][]string) int {
	count := 0
	for _, row := range rows {
		for _, cell := range row {
			if cell != "" {
				count++
			}
		}
	}
	return count
}
