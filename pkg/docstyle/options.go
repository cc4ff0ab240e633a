// Package docstyle extracts the styling of a reference document and
// applies it to chat content, producing a new .docx.
package docstyle

import (
	"github.com/ukaji3/docstyle-go/pkg/docstyle/config"
	"github.com/ukaji3/docstyle-go/pkg/docstyle/logger"
	"github.com/ukaji3/docstyle-go/pkg/docstyle/models"
)

// PageBreakPolicy selects how page breaks are placed in the output.
type PageBreakPolicy string

const (
	// PageBreaksDensity starts a new page at the source paragraph density.
	PageBreaksDensity PageBreakPolicy = config.PageBreaksDensity
	// PageBreaksNone never inserts page breaks.
	PageBreaksNone PageBreakPolicy = config.PageBreaksNone
)

// Options configures restyling behavior.
type Options struct {
	// PageBreaks selects the page-break policy. Empty means density.
	PageBreaks PageBreakPolicy
	// RolePrefix specifies whether role labels prefix each message.
	// If nil, defaults to true.
	RolePrefix *bool
	// StripMarkup specifies whether HTML markup is removed from content.
	// If nil, defaults to true.
	StripMarkup *bool
	// IncludeHeaderFooter specifies whether source headers and footers are
	// carried over. If nil, defaults to true.
	IncludeHeaderFooter *bool
	// DefaultFont overrides every extracted font when set. Zero fields
	// keep the extracted value.
	DefaultFont *models.FontStyle
	// TempDir holds transient conversion artifacts.
	TempDir string
	// MaxInputSize rejects larger documents. Zero means the normalizer default.
	MaxInputSize int64
	// OutputFilename names the produced document.
	OutputFilename string
	// Logger receives diagnostics. Nil discards them.
	Logger logger.Logger
}

// DefaultOptions returns default restyling options.
func DefaultOptions() Options {
	return Options{
		PageBreaks:     PageBreaksDensity,
		OutputFilename: config.DefaultOutputFilename,
	}
}

// OptionsFromConfig maps a loaded configuration onto Options.
func OptionsFromConfig(cfg *config.Config, log logger.Logger) Options {
	opts := DefaultOptions()
	if cfg == nil {
		opts.Logger = log
		return opts
	}
	rolePrefix := cfg.RolePrefix()
	stripMarkup := cfg.StripMarkup()
	opts.PageBreaks = PageBreakPolicy(cfg.Output.PageBreaks)
	opts.RolePrefix = &rolePrefix
	opts.StripMarkup = &stripMarkup
	opts.TempDir = cfg.Input.TempDir
	opts.MaxInputSize = cfg.Input.MaxSize
	opts.OutputFilename = cfg.Output.Filename
	opts.Logger = log
	if f := cfg.Style.DefaultFont; f != nil {
		opts.DefaultFont = &models.FontStyle{Name: f.Name, Size: f.Size, Color: f.Color}
	}
	return opts
}

// ShouldPrefixRoles returns whether role labels prefix each message.
func (o Options) ShouldPrefixRoles() bool {
	if o.RolePrefix != nil {
		return *o.RolePrefix
	}
	return true
}

// ShouldStripMarkup returns whether HTML markup is removed from content.
func (o Options) ShouldStripMarkup() bool {
	if o.StripMarkup != nil {
		return *o.StripMarkup
	}
	return true
}

// ShouldIncludeHeaderFooter returns whether source headers and footers are kept.
func (o Options) ShouldIncludeHeaderFooter() bool {
	if o.IncludeHeaderFooter != nil {
		return *o.IncludeHeaderFooter
	}
	return true
}

// ShouldInsertPageBreaks returns whether density page breaks are inserted.
func (o Options) ShouldInsertPageBreaks() bool {
	return o.PageBreaks != PageBreaksNone
}

// outputFilename returns the configured output name or the default.
func (o Options) outputFilename() string {
	if o.OutputFilename != "" {
		return o.OutputFilename
	}
	return config.DefaultOutputFilename
}
