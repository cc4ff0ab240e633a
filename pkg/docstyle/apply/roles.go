package apply

import "github.com/ukaji3/docstyle-go/pkg/docstyle/models"

// roleAssigner maps content role labels onto paragraph roles.
type roleAssigner struct {
	candidates []models.ParagraphStyle
	byLabel    map[string]models.ParagraphStyle
	order      []string
}

func newRoleAssigner(styles []models.ParagraphStyle) *roleAssigner {
	return &roleAssigner{
		candidates: candidateRoles(styles),
		byLabel:    make(map[string]models.ParagraphStyle),
	}
}

// candidateRoles orders roles body-kind first, then quote and list, then
// title and headings. Document order is kept within each group.
func candidateRoles(styles []models.ParagraphStyle) []models.ParagraphStyle {
	groups := [3][]models.ParagraphStyle{}
	for _, ps := range styles {
		switch ps.Kind {
		case models.KindQuote, models.KindList:
			groups[1] = append(groups[1], ps)
		case models.KindTitle, models.KindHeading:
			groups[2] = append(groups[2], ps)
		default:
			groups[0] = append(groups[0], ps)
		}
	}
	out := make([]models.ParagraphStyle, 0, len(styles))
	for _, g := range groups {
		out = append(out, g...)
	}
	return out
}

// roleFor returns the role for a label. Labels take candidates round-robin
// in first-seen order; a single-role profile maps everything to that role.
func (r *roleAssigner) roleFor(label string) models.ParagraphStyle {
	if ps, ok := r.byLabel[label]; ok {
		return ps
	}
	ps := r.candidates[0]
	if len(r.candidates) >= 2 {
		ps = r.candidates[len(r.order)%len(r.candidates)]
	}
	r.byLabel[label] = ps
	r.order = append(r.order, label)
	return ps
}

// used returns the distinct assigned roles in first-assignment order.
func (r *roleAssigner) used() []models.ParagraphStyle {
	var out []models.ParagraphStyle
	seen := make(map[string]bool)
	for _, label := range r.order {
		ps := r.byLabel[label]
		if seen[ps.Role] {
			continue
		}
		seen[ps.Role] = true
		out = append(out, ps)
	}
	return out
}
