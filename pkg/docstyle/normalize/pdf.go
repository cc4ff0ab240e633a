package normalize

import (
	"context"
	"fmt"
	"math"
	"os"
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/ukaji3/docstyle-go/pkg/docstyle/ooxml"
)

// Layout heuristics for text recovered from PDF content streams.
const (
	// lineTolerance groups glyphs whose baselines differ by less than this
	// share of the font size.
	lineTolerance = 0.5
	// paragraphGap splits paragraphs when the baseline gap exceeds this
	// multiple of the font size.
	paragraphGap = 1.6
	// headingRatio marks paragraphs at least this much larger than the body
	// size as headings.
	headingRatio = 1.25
	// centerTolerance is the share of the page width within which a line's
	// midpoint counts as centered.
	centerTolerance = 0.04
)

// pdfLine is one baseline of text.
type pdfLine struct {
	text  string
	font  string
	size  float64
	x, y  float64
	right float64
}

// pdfParagraph is a run of adjacent lines sharing a font.
type pdfParagraph struct {
	text     string
	font     string
	size     float64
	centered bool
	page     int
}

// convertPDF validates the file with pdfcpu and rebuilds its text flow
// from the ledongthuc/pdf content reader.
func convertPDF(ctx context.Context, path string) (*ooxml.Document, error) {
	width, height, err := validatePDF(path)
	if err != nil {
		return nil, err
	}

	f, r, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open pdf: %w", err)
	}
	defer f.Close()

	var paras []pdfParagraph
	var minX, minY, maxRight, maxTop = math.MaxFloat64, math.MaxFloat64, 0.0, 0.0
	for pageNum := 1; pageNum <= r.NumPage(); pageNum++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		page := r.Page(pageNum)
		if page.V.IsNull() {
			continue
		}
		lines := pageLines(page.Content().Text)
		for _, l := range lines {
			minX = math.Min(minX, l.x)
			minY = math.Min(minY, l.y)
			maxRight = math.Max(maxRight, l.right)
			maxTop = math.Max(maxTop, l.y+l.size)
		}
		paras = append(paras, groupParagraphs(lines, pageNum, width)...)
	}

	doc := newConvertedDocument(width, height)
	if len(paras) > 0 {
		doc.Sections[0].Margins = &ooxml.Margins{
			Top:    clampMargin(height - maxTop),
			Bottom: clampMargin(minY),
			Left:   clampMargin(minX),
			Right:  clampMargin(width - maxRight),
			Header: 36,
			Footer: 36,
		}
	}

	bodyFont, bodySize := dominantFont(paras)
	doc.Styles.DefaultRun = ooxml.RunProps{Font: strPtr(bodyFont), Size: floatPtr(bodySize)}

	prevPage := 0
	for _, p := range paras {
		name, bold, italic := splitFontName(p.font)
		para := &ooxml.Paragraph{}
		if p.size >= bodySize*headingRatio {
			para.Props.StyleID = headingStyleID
		}
		if p.centered {
			para.Props.Align = "center"
		}
		if prevPage != 0 && p.page != prevPage {
			para.Props.PageBreakBefore = true
		}
		prevPage = p.page

		rp := ooxml.RunProps{Size: floatPtr(p.size)}
		if name != "" {
			rp.Font = strPtr(name)
		}
		if bold {
			rp.Bold = boolPtr(true)
		}
		if italic {
			rp.Italic = boolPtr(true)
		}
		para.Runs = []ooxml.Run{{Props: rp, Text: p.text}}
		doc.Body = append(doc.Body, ooxml.BodyElement{Paragraph: para})
	}
	return doc, nil
}

// validatePDF rejects encrypted or corrupt files and returns the first
// page's dimensions in points.
func validatePDF(path string) (float64, float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, 0, err
	}
	defer f.Close()

	conf := model.NewDefaultConfiguration()
	pctx, err := api.ReadValidateAndOptimize(f, conf)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: pdf rejected: %w", ErrUnsupportedInput, err)
	}
	if pctx.PageCount == 0 {
		return 0, 0, fmt.Errorf("%w: pdf has no pages", ErrUnsupportedInput)
	}

	width, height := defaultPageWidth, defaultPageHeight
	if dims, err := pctx.PageDims(); err == nil && len(dims) > 0 && dims[0].Width > 0 && dims[0].Height > 0 {
		width, height = dims[0].Width, dims[0].Height
	}
	return width, height, nil
}

// pageLines groups positioned glyphs into baselines, top to bottom.
func pageLines(texts []pdf.Text) []pdfLine {
	glyphs := make([]pdf.Text, 0, len(texts))
	for _, t := range texts {
		if t.S != "" {
			glyphs = append(glyphs, t)
		}
	}
	sort.SliceStable(glyphs, func(i, j int) bool {
		if math.Abs(glyphs[i].Y-glyphs[j].Y) > lineTolerance*math.Max(glyphs[i].FontSize, 1) {
			return glyphs[i].Y > glyphs[j].Y
		}
		return glyphs[i].X < glyphs[j].X
	})

	var lines []pdfLine
	var sb strings.Builder
	var cur *pdfLine
	flush := func() {
		if cur == nil {
			return
		}
		cur.text = strings.Join(strings.Fields(sb.String()), " ")
		if cur.text != "" {
			lines = append(lines, *cur)
		}
		cur = nil
		sb.Reset()
	}
	for _, g := range glyphs {
		if cur != nil && math.Abs(g.Y-cur.y) > lineTolerance*math.Max(cur.size, 1) {
			flush()
		}
		if cur == nil {
			cur = &pdfLine{font: g.Font, size: g.FontSize, x: g.X, y: g.Y, right: g.X + g.W}
		} else if g.X-cur.right > 0.2*math.Max(g.FontSize, 1) {
			sb.WriteByte(' ')
		}
		sb.WriteString(g.S)
		cur.right = math.Max(cur.right, g.X+g.W)
		cur.size = math.Max(cur.size, g.FontSize)
	}
	flush()
	return lines
}

// groupParagraphs joins consecutive lines sharing a font and size whose
// baselines are close together.
func groupParagraphs(lines []pdfLine, page int, pageWidth float64) []pdfParagraph {
	var out []pdfParagraph
	for i, l := range lines {
		centered := l.x > pageWidth*0.15 &&
			math.Abs((l.x+l.right)/2-pageWidth/2) < pageWidth*centerTolerance
		if i > 0 && len(out) > 0 {
			prev := lines[i-1]
			last := &out[len(out)-1]
			sameStyle := l.font == last.font && math.Abs(l.size-last.size) < 0.5
			if sameStyle && prev.y-l.y <= paragraphGap*l.size && centered == last.centered {
				last.text += " " + l.text
				continue
			}
		}
		out = append(out, pdfParagraph{
			text:     l.text,
			font:     l.font,
			size:     roundHalf(l.size),
			centered: centered,
			page:     page,
		})
	}
	return out
}

// dominantFont returns the font and size covering the most characters.
func dominantFont(paras []pdfParagraph) (string, float64) {
	type key struct {
		font string
		size float64
	}
	weight := make(map[key]int)
	best, bestWeight := key{font: defaultFontName, size: defaultFontSize}, 0
	for _, p := range paras {
		name, _, _ := splitFontName(p.font)
		if name == "" {
			name = defaultFontName
		}
		k := key{font: name, size: p.size}
		weight[k] += len(p.text)
		if weight[k] > bestWeight {
			best, bestWeight = k, weight[k]
		}
	}
	if best.size <= 0 {
		best.size = defaultFontSize
	}
	return best.font, best.size
}

// splitFontName strips subset tags ("ABCDEF+") and style suffixes from a
// PDF base font name, e.g. "ABCDEF+Arial-BoldItalicMT" -> Arial, bold, italic.
func splitFontName(base string) (name string, bold, italic bool) {
	if i := strings.IndexByte(base, '+'); i == 6 {
		base = base[i+1:]
	}
	lower := strings.ToLower(base)
	bold = strings.Contains(lower, "bold") || strings.Contains(lower, "black") || strings.Contains(lower, "heavy")
	italic = strings.Contains(lower, "italic") || strings.Contains(lower, "oblique")
	name = base
	if i := strings.IndexAny(name, "-,"); i > 0 {
		name = name[:i]
	}
	name = strings.TrimSuffix(name, "MT")
	name = strings.TrimSuffix(name, "PS")
	return name, bold, italic
}

func roundHalf(v float64) float64 {
	return math.Round(v*2) / 2
}

func clampMargin(v float64) float64 {
	return math.Min(math.Max(v, 18), 144)
}
