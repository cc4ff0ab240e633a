// Package segment turns raw chat entries into ordered content units.
package segment

import (
	"errors"
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"

	"github.com/ukaji3/docstyle-go/pkg/docstyle/logger"
	"github.com/ukaji3/docstyle-go/pkg/docstyle/models"
)

// ErrNoContent indicates that no entry had any text left after trimming.
var ErrNoContent = errors.New("no content")

// DefaultRole is the label given to entries without one.
const DefaultRole = "user"

// Entry is one raw message.
type Entry struct {
	Role string `json:"role"`
	Text string `json:"text"`
}

// Segmenter converts entries into content units.
type Segmenter struct {
	// StripMarkup removes HTML tags and unescapes entities before trimming.
	StripMarkup bool

	policy *bluemonday.Policy
	log    logger.Logger
}

// New creates a Segmenter.
func New(stripMarkup bool, log logger.Logger) *Segmenter {
	return &Segmenter{
		StripMarkup: stripMarkup,
		policy:      bluemonday.StrictPolicy(),
		log:         logger.OrDiscard(log),
	}
}

// Segment trims each entry and drops empty ones. Each unit keeps the index of
// its entry in the input. It fails with ErrNoContent when nothing remains.
func (s *Segmenter) Segment(entries []Entry) ([]models.ContentUnit, error) {
	units := make([]models.ContentUnit, 0, len(entries))
	for i, e := range entries {
		text := s.cleanText(e.Text)
		if text == "" {
			continue
		}
		units = append(units, models.ContentUnit{
			Index: i,
			Role:  NormalizeRole(e.Role),
			Text:  text,
		})
	}

	logger.OrDiscard(s.log).Debug("segmented content", "entries", len(entries), "units", len(units))
	if len(units) == 0 {
		return nil, ErrNoContent
	}
	return units, nil
}

// Segment is a convenience wrapper using a Segmenter without markup stripping.
func Segment(entries []Entry) ([]models.ContentUnit, error) {
	return New(false, nil).Segment(entries)
}

func (s *Segmenter) cleanText(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	if s.StripMarkup {
		policy := s.policy
		if policy == nil {
			policy = bluemonday.StrictPolicy()
		}
		text = html.UnescapeString(policy.Sanitize(text))
	}
	return strings.TrimSpace(text)
}

// NormalizeRole trims a role label, defaulting to DefaultRole.
func NormalizeRole(role string) string {
	role = strings.Join(strings.Fields(role), " ")
	if role == "" {
		return DefaultRole
	}
	return role
}
