package parser

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ukaji3/docstyle-go/pkg/docstyle/models"
	"github.com/ukaji3/docstyle-go/pkg/docstyle/ooxml"
)

// roleKey identifies a distinct paragraph role by its look. Style names do
// not take part.
type roleKey struct {
	font   models.FontStyle
	align  models.Alignment
	indent models.Indentation
}

// extractParagraphRoles clusters non-empty top-level paragraphs into roles.
// The first paragraph of each cluster supplies spacing and kind. Fonts are added to
// fonts under the role key. A "body" role is synthesized from the default
// font when the document has no text paragraphs.
func extractParagraphRoles(r *resolver, doc *ooxml.Document, fonts map[string]models.FontStyle) []models.ParagraphStyle {
	var roles []models.ParagraphStyle
	seen := make(map[roleKey]bool)
	kindCount := make(map[string]int)

	for _, p := range doc.Paragraphs() {
		if strings.TrimSpace(p.Text()) == "" {
			continue
		}
		ps := r.paragraphFormat(p)
		font := r.paragraphFont(p)

		key := roleKey{font: font, align: ps.Alignment, indent: ps.Indentation}
		if seen[key] {
			continue
		}
		seen[key] = true
		kind, level := r.paragraphKind(p)

		base := roleBase(kind, level)
		kindCount[base]++
		role := base
		if n := kindCount[base]; n > 1 {
			role = base + "-" + strconv.Itoa(n)
		}

		ps.Role = role
		ps.Kind = kind
		ps.Level = level
		ps.FontRole = role
		fonts[role] = font
		roles = append(roles, ps)
	}

	if len(roles) == 0 {
		roles = append(roles, models.DefaultParagraphStyle())
	}
	return roles
}

func roleBase(kind models.RoleKind, level int) string {
	if kind == models.KindHeading {
		return fmt.Sprintf("heading-%d", level)
	}
	return string(kind)
}

// paragraphKind classifies a paragraph from its style ID and name.
func (r *resolver) paragraphKind(p *ooxml.Paragraph) (models.RoleKind, int) {
	id, name := r.styleName(p)
	for _, candidate := range []string{name, id} {
		if kind, level, ok := classifyStyleName(candidate); ok {
			return kind, level
		}
	}
	return models.KindBody, 0
}

// headingPrefixes are localized style name prefixes for headings.
var headingPrefixes = []string{"heading", "titre", "überschrift"}

// classifyStyleName maps a style name such as "heading 2", "Title" or
// "Intense Quote" to a role kind.
func classifyStyleName(name string) (models.RoleKind, int, bool) {
	lower := strings.ToLower(strings.TrimSpace(name))
	if lower == "" {
		return "", 0, false
	}
	for _, prefix := range headingPrefixes {
		if !strings.HasPrefix(lower, prefix) {
			continue
		}
		fields := strings.FieldsFunc(strings.TrimPrefix(lower, prefix), func(c rune) bool {
			return c == ' ' || c == '-'
		})
		if len(fields) == 0 {
			continue
		}
		if level, err := strconv.Atoi(fields[0]); err == nil && level >= 1 && level <= 9 {
			return models.KindHeading, level, true
		}
	}
	switch {
	case lower == "title" || lower == "subtitle" || strings.HasPrefix(lower, "title-"):
		return models.KindTitle, 0, true
	case strings.Contains(lower, "quote"):
		return models.KindQuote, 0, true
	case strings.HasPrefix(lower, "list"):
		return models.KindList, 0, true
	}
	return "", 0, false
}

// paragraphFormat resolves alignment, spacing and indentation from the
// paragraph, its style chain and the document defaults.
func (r *resolver) paragraphFormat(p *ooxml.Paragraph) models.ParagraphStyle {
	levels := []ooxml.ParagraphProps{p.Props}
	for _, st := range r.chain(r.paragraphStyle(p.Props.StyleID)) {
		levels = append(levels, st.PPr)
	}
	levels = append(levels, r.doc.Styles.DefaultParagraph)

	ps := models.ParagraphStyle{
		Alignment:   models.AlignLeft,
		LineSpacing: models.LineSpacing{Value: 1, Rule: models.LineMultiple},
	}
	var alignSet, lineSet, beforeSet, afterSet bool
	var firstSet, hangSet, leftSet, rightSet bool
	for _, pp := range levels {
		if !alignSet && pp.Align != "" {
			ps.Alignment = mapAlignment(pp.Align)
			alignSet = true
		}
		if !lineSet && pp.Spacing.Line != nil && *pp.Spacing.Line > 0 {
			ps.LineSpacing = models.LineSpacing{Value: *pp.Spacing.Line, Rule: mapLineRule(pp.Spacing.LineRule)}
			lineSet = true
		}
		setFloat(&ps.SpaceBefore, &beforeSet, pp.Spacing.Before)
		setFloat(&ps.SpaceAfter, &afterSet, pp.Spacing.After)
		setFloat(&ps.Indentation.FirstLine, &firstSet, pp.Indent.FirstLine)
		setFloat(&ps.Indentation.Hanging, &hangSet, pp.Indent.Hanging)
		setFloat(&ps.Indentation.Left, &leftSet, pp.Indent.Left)
		setFloat(&ps.Indentation.Right, &rightSet, pp.Indent.Right)
	}
	return ps
}

func setFloat(dst *float64, set *bool, v *float64) {
	if *set || v == nil {
		return
	}
	*dst = *v
	*set = true
}

// mapAlignment converts an ST_Jc value.
func mapAlignment(jc string) models.Alignment {
	switch jc {
	case "center":
		return models.AlignCenter
	case "right", "end":
		return models.AlignRight
	case "both", "distribute", "justify":
		return models.AlignJustify
	}
	return models.AlignLeft
}

// mapLineRule converts an ST_LineSpacingRule value.
func mapLineRule(rule string) models.LineRule {
	switch rule {
	case "exact":
		return models.LineExact
	case "atLeast":
		return models.LineAtLeast
	}
	return models.LineMultiple
}
