package models

// Orientation is the page orientation.
type Orientation string

const (
	Portrait  Orientation = "portrait"
	Landscape Orientation = "landscape"
)

// Margins holds page margins in points.
type Margins struct {
	Top    float64 `json:"top" yaml:"top"`
	Bottom float64 `json:"bottom" yaml:"bottom"`
	Left   float64 `json:"left" yaml:"left"`
	Right  float64 `json:"right" yaml:"right"`
}

// PageLayout is the document-level page setup.
type PageLayout struct {
	// Margins are the body section margins.
	Margins Margins `json:"margins" yaml:"margins"`
	// Orientation is portrait or landscape.
	Orientation Orientation `json:"orientation" yaml:"orientation"`
	// Width is the page width in points.
	Width float64 `json:"width" yaml:"width"`
	// Height is the page height in points.
	Height float64 `json:"height" yaml:"height"`
	// PageBreaks lists the paragraph indexes at which explicit breaks occur.
	PageBreaks []int `json:"page_breaks,omitempty" yaml:"page_breaks,omitempty"`
	// SectionCount is the number of sections in the source.
	SectionCount int `json:"section_count" yaml:"section_count"`
	// ParagraphsPerPage is the observed paragraph density, 0 when unknown.
	ParagraphsPerPage float64 `json:"paragraphs_per_page" yaml:"paragraphs_per_page"`
}

// DefaultPageLayout returns US Letter portrait with one-inch margins.
func DefaultPageLayout() PageLayout {
	return PageLayout{
		Margins:      Margins{Top: 72, Bottom: 72, Left: 72, Right: 72},
		Orientation:  Portrait,
		Width:        612,
		Height:       792,
		SectionCount: 1,
	}
}
