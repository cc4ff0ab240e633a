// Package apply lays content units out with the styling of a profile.
package apply

import (
	"errors"
	"math"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/ukaji3/docstyle-go/pkg/docstyle/logger"
	"github.com/ukaji3/docstyle-go/pkg/docstyle/models"
)

// ErrEmptyProfile indicates a profile without paragraph roles.
var ErrEmptyProfile = errors.New("empty profile")

// Options configures an Applier.
type Options struct {
	// RolePrefix renders each unit's role label ahead of its first paragraph.
	RolePrefix bool
	// PageBreaks reinserts page breaks at the source paragraph density.
	PageBreaks bool
	// Table holds the thresholds used to recognize tabular content.
	Table TableDetectionParams
}

// DefaultOptions returns options with prefixes and density breaks enabled.
func DefaultOptions() Options {
	return Options{RolePrefix: true, PageBreaks: true, Table: DefaultTableParams()}
}

// Applier binds content units to the roles, templates and layout of a profile.
type Applier struct {
	opts  Options
	log   logger.Logger
	title cases.Caser
}

// New creates an Applier.
func New(opts Options, log logger.Logger) *Applier {
	if opts.Table == (TableDetectionParams{}) {
		opts.Table = DefaultTableParams()
	}
	return &Applier{
		opts:  opts,
		log:   logger.OrDiscard(log),
		title: cases.Title(language.Und),
	}
}

// Apply builds a styled document. Unit order is preserved. The profile is
// only read.
func (a *Applier) Apply(profile *models.StyleProfile, units []models.ContentUnit) (*models.StyledDocument, error) {
	if profile == nil || len(profile.ParagraphStyles) == 0 {
		return nil, ErrEmptyProfile
	}

	assign := newRoleAssigner(profile.ParagraphStyles)
	perPage := a.paragraphsPerPage(profile.PageLayout)

	doc := &models.StyledDocument{
		PageLayout: profile.PageLayout,
		Fonts:      make(map[string]models.FontStyle, len(profile.Fonts)),
	}
	for role, f := range profile.Fonts {
		doc.Fonts[role] = f
	}

	b := &builder{doc: doc, perPage: perPage}
	for _, u := range units {
		role := assign.roleFor(u.Role)
		prefix := ""
		if a.opts.RolePrefix {
			prefix = a.title.String(u.Role) + ": "
		}

		if len(profile.Tables) > 0 {
			if grid, ok := DetectGrid(u.Text, a.opts.Table); ok {
				idx := selectTemplate(profile.Tables, len(grid[0]))
				b.addTable(&models.StyledTable{
					Template: idx,
					Style:    profile.Tables[idx],
					Role:     role.Role,
					Caption:  strings.TrimSpace(prefix),
					Rows:     grid,
				})
				continue
			}
		}

		first := true
		for _, line := range strings.Split(u.Text, "\n") {
			line = strings.TrimSpace(line)
			if line == "" {
				continue
			}
			p := &models.StyledParagraph{Role: role.Role, Text: line}
			if first {
				p.Prefix = prefix
				first = false
			}
			b.addParagraph(p)
		}
	}

	doc.ParagraphStyles = assign.used()
	bindSections(doc, profile)

	a.log.Debug("applied style profile",
		"units", len(units),
		"paragraphs", doc.CountBlocks(models.BlockParagraph),
		"tables", doc.CountBlocks(models.BlockTable),
		"sections", len(doc.Sections),
	)
	return doc, nil
}

// paragraphsPerPage returns the break interval, 0 for none.
func (a *Applier) paragraphsPerPage(layout models.PageLayout) int {
	if !a.opts.PageBreaks || layout.ParagraphsPerPage <= 0 {
		return 0
	}
	return max(1, int(math.Round(layout.ParagraphsPerPage)))
}

// builder appends blocks and starts a new section every perPage paragraphs.
type builder struct {
	doc     *models.StyledDocument
	perPage int
	section int
	onPage  int
}

func (b *builder) breakIfFull() {
	if b.perPage == 0 || b.onPage < b.perPage {
		return
	}
	b.doc.Blocks = append(b.doc.Blocks, models.Block{Kind: models.BlockSectionBreak, Section: b.section})
	b.section++
	b.onPage = 0
}

func (b *builder) addParagraph(p *models.StyledParagraph) {
	b.breakIfFull()
	b.doc.Blocks = append(b.doc.Blocks, models.Block{Kind: models.BlockParagraph, Section: b.section, Paragraph: p})
	b.onPage++
}

func (b *builder) addTable(t *models.StyledTable) {
	b.breakIfFull()
	b.doc.Blocks = append(b.doc.Blocks, models.Block{Kind: models.BlockTable, Section: b.section, Table: t})
}

// selectTemplate returns the first template wide enough for cols columns,
// else the first template.
func selectTemplate(templates []models.TableStyle, cols int) int {
	for i, t := range templates {
		if t.Cols >= cols {
			return i
		}
	}
	return 0
}

// bindSections attaches the same header and footer set to every output
// section.
func bindSections(doc *models.StyledDocument, profile *models.StyleProfile) {
	headers := latestByType(profile.Headers)
	footers := latestByType(profile.Footers)
	sections := 1
	if n := len(doc.Blocks); n > 0 {
		sections = doc.Blocks[n-1].Section + 1
	}
	for i := 0; i < sections; i++ {
		doc.Sections = append(doc.Sections, models.SectionBinding{Section: i, Headers: headers, Footers: footers})
	}
}

// latestByType keeps, per type, the header or footer of the last source
// section that defines one.
func latestByType(hfs []models.HeaderFooter) []models.HeaderFooter {
	var out []models.HeaderFooter
	index := make(map[string]int)
	for _, hf := range hfs {
		if i, ok := index[hf.Type]; ok {
			out[i] = hf
			continue
		}
		index[hf.Type] = len(out)
		out = append(out, hf)
	}
	return out
}
