package docstyle

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/ukaji3/docstyle-go/pkg/docstyle/apply"
	"github.com/ukaji3/docstyle-go/pkg/docstyle/logger"
	"github.com/ukaji3/docstyle-go/pkg/docstyle/models"
	"github.com/ukaji3/docstyle-go/pkg/docstyle/normalize"
	"github.com/ukaji3/docstyle-go/pkg/docstyle/ooxml"
	"github.com/ukaji3/docstyle-go/pkg/docstyle/parser"
	"github.com/ukaji3/docstyle-go/pkg/docstyle/render"
	"github.com/ukaji3/docstyle-go/pkg/docstyle/segment"
)

// Entry is one chat message.
type Entry = segment.Entry

// Input is a style document plus the content to restyle.
type Input struct {
	// Filename is the style document's name. Its extension is used as the
	// format hint when Format is empty.
	Filename string
	// Format optionally declares the style document's format.
	Format string
	// Data holds the style document bytes.
	Data []byte
	// Entries is the chat content in order.
	Entries []Entry
}

// Output is a restyled document.
type Output struct {
	Data     []byte
	Filename string
	MIMEType string
	// Profile is the style profile extracted from the input document.
	Profile *models.StyleProfile
	// Status is the host-facing report.
	Status Result
}

// Restyle extracts the styling of in.Data and applies it to in.Entries.
// Errors are *StageError values wrapping one of the package sentinels.
func Restyle(ctx context.Context, in Input, opts Options) (*Output, error) {
	log := logger.OrDiscard(opts.Logger).With("file", in.Filename)

	profile, err := extractProfile(ctx, in.Data, declaredFormat(in), opts, log)
	if err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, NewStageError(StageSegment, err)
	}
	units, err := segment.New(opts.ShouldStripMarkup(), log).Segment(in.Entries)
	if err != nil {
		return nil, NewStageError(StageSegment, err)
	}

	if err := ctx.Err(); err != nil {
		return nil, NewStageError(StageApply, err)
	}
	applier := apply.New(apply.Options{
		RolePrefix: opts.ShouldPrefixRoles(),
		PageBreaks: opts.ShouldInsertPageBreaks(),
		Table:      apply.DefaultTableParams(),
	}, log)
	source := profile
	if !opts.ShouldIncludeHeaderFooter() {
		trimmed := *profile
		trimmed.Headers, trimmed.Footers = nil, nil
		source = &trimmed
	}
	styled, err := applier.Apply(source, units)
	if err != nil {
		return nil, NewStageError(StageApply, err)
	}

	if err := ctx.Err(); err != nil {
		return nil, NewStageError(StageRender, err)
	}
	data, err := render.New(log).Render(styled)
	if err != nil {
		return nil, NewStageError(StageRender, err)
	}

	log.Info("restyled document",
		"units", len(units),
		"roles", len(profile.ParagraphStyles),
		"bytes", len(data),
	)
	return &Output{
		Data:     data,
		Filename: opts.outputFilename(),
		MIMEType: ooxml.MIMEType,
		Profile:  profile,
		Status:   Report(nil),
	}, nil
}

// ExtractProfile normalizes a document and extracts its style profile.
func ExtractProfile(ctx context.Context, data []byte, format string, opts Options) (*models.StyleProfile, error) {
	return extractProfile(ctx, data, normalize.ParseFormat(format), opts, logger.OrDiscard(opts.Logger))
}

// ExtractProfileFile reads a document from disk and extracts its profile.
func ExtractProfileFile(ctx context.Context, path string, opts Options) (*models.StyleProfile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	log := logger.OrDiscard(opts.Logger).With("file", filepath.Base(path))
	return extractProfile(ctx, data, normalize.FormatFromFilename(path), opts, log)
}

func extractProfile(ctx context.Context, data []byte, format normalize.Format, opts Options, log logger.Logger) (*models.StyleProfile, error) {
	if err := ctx.Err(); err != nil {
		return nil, NewStageError(StageNormalize, err)
	}
	n := normalize.New(normalize.Config{
		TempDir:      opts.TempDir,
		MaxInputSize: opts.MaxInputSize,
		Logger:       log,
	})
	docx, err := n.Normalize(ctx, data, format)
	if err != nil {
		return nil, NewStageError(StageNormalize, err)
	}

	if err := ctx.Err(); err != nil {
		return nil, NewStageError(StageExtract, err)
	}
	extractor := parser.NewExtractor(log)
	extractor.MaxPartSize = ooxml.PartLimit(opts.MaxInputSize)
	profile, err := extractor.ExtractBytes(docx)
	if err != nil {
		return nil, NewStageError(StageExtract, err)
	}
	if format != normalize.FormatUnknown && format != normalize.FormatDOCX {
		profile.Source = string(format)
	}
	if opts.DefaultFont != nil {
		overrideFonts(profile, *opts.DefaultFont)
	}
	return profile, nil
}

// overrideFonts applies the set attributes of f to every font in the
// profile: the document default, each paragraph and table role, and the
// runs of headers and footers.
func overrideFonts(p *models.StyleProfile, f models.FontStyle) {
	if p.Fonts == nil {
		p.Fonts = make(map[string]models.FontStyle)
	}
	if _, ok := p.Fonts[models.DefaultFontRole]; !ok {
		p.Fonts[models.DefaultFontRole] = models.DefaultFont()
	}
	for role, font := range p.Fonts {
		p.Fonts[role] = overrideFont(font, f)
	}
	for _, hfs := range [][]models.HeaderFooter{p.Headers, p.Footers} {
		for i := range hfs {
			for j := range hfs[i].Paragraphs {
				runs := hfs[i].Paragraphs[j].Runs
				for k := range runs {
					runs[k].Font = overrideFont(runs[k].Font, f)
				}
			}
		}
	}
}

func overrideFont(font, f models.FontStyle) models.FontStyle {
	if f.Name != "" {
		font.Name = f.Name
	}
	if f.Size > 0 {
		font.Size = f.Size
	}
	if f.Color != "" {
		font.Color = strings.ToUpper(f.Color)
	}
	return font
}

func declaredFormat(in Input) normalize.Format {
	if f := normalize.ParseFormat(in.Format); f != normalize.FormatUnknown {
		return f
	}
	return normalize.FormatFromFilename(in.Filename)
}

