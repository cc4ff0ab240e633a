// Package parser extracts a StyleProfile from a decoded Word document.
package parser

import (
	"errors"
	"fmt"

	"github.com/ukaji3/docstyle-go/pkg/docstyle/logger"
	"github.com/ukaji3/docstyle-go/pkg/docstyle/models"
	"github.com/ukaji3/docstyle-go/pkg/docstyle/ooxml"
)

// ErrMalformedDocument indicates the input is not a readable Word package.
var ErrMalformedDocument = errors.New("malformed document")

// Extractor builds style profiles. The zero value is usable and logs nothing.
type Extractor struct {
	// MaxPartSize limits the decompressed size of each package part.
	// Zero means ooxml.DefaultMaxPartSize.
	MaxPartSize int64

	log logger.Logger
}

// NewExtractor creates an Extractor that logs to log.
func NewExtractor(log logger.Logger) *Extractor {
	return &Extractor{log: logger.OrDiscard(log)}
}

// ExtractBytes decodes a .docx package and extracts its profile.
func (e *Extractor) ExtractBytes(data []byte) (*models.StyleProfile, error) {
	limit := e.MaxPartSize
	if limit <= 0 {
		limit = ooxml.DefaultMaxPartSize
	}
	doc, err := ooxml.DecodeLimit(data, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedDocument, err)
	}
	return e.Extract(doc)
}

// Extract builds the profile of a decoded document. The result always has a
// "default" font and at least one paragraph role.
func (e *Extractor) Extract(doc *ooxml.Document) (*models.StyleProfile, error) {
	if doc == nil {
		return nil, fmt.Errorf("%w: nil document", ErrMalformedDocument)
	}
	log := logger.OrDiscard(e.log)

	r := newResolver(doc)
	profile := &models.StyleProfile{
		Source: "docx",
		Fonts:  map[string]models.FontStyle{models.DefaultFontRole: r.defaultFont()},
	}

	profile.ParagraphStyles = extractParagraphRoles(r, doc, profile.Fonts)
	profile.PageLayout = extractPageLayout(doc)
	profile.Headers, profile.Footers = extractHeadersFooters(r, doc)
	profile.Tables = extractTableTemplates(r, doc, profile.Fonts)

	if err := profile.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedDocument, err)
	}

	log.Debug("extracted style profile",
		"roles", len(profile.ParagraphStyles),
		"fonts", len(profile.Fonts),
		"tables", len(profile.Tables),
		"headers", len(profile.Headers),
		"footers", len(profile.Footers),
		"page_breaks", len(profile.PageLayout.PageBreaks),
	)
	return profile, nil
}
