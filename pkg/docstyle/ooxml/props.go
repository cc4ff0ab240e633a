package ooxml

import (
	"strconv"
	"strings"
)

// The xml* types mirror the WordprocessingML property elements. Field tags
// carry no namespace so elements and attributes match on local name.

type xmlVal struct {
	Val string `xml:"val,attr"`
}

type xmlPPr struct {
	PStyle          *xmlVal     `xml:"pStyle"`
	Jc              *xmlVal     `xml:"jc"`
	Spacing         *xmlSpacing `xml:"spacing"`
	Ind             *xmlInd     `xml:"ind"`
	PageBreakBefore *xmlVal     `xml:"pageBreakBefore"`
	SectPr          *xmlSectPr  `xml:"sectPr"`
}

type xmlSpacing struct {
	Before   string `xml:"before,attr"`
	After    string `xml:"after,attr"`
	Line     string `xml:"line,attr"`
	LineRule string `xml:"lineRule,attr"`
}

type xmlInd struct {
	Left      string `xml:"left,attr"`
	Start     string `xml:"start,attr"`
	Right     string `xml:"right,attr"`
	End       string `xml:"end,attr"`
	FirstLine string `xml:"firstLine,attr"`
	Hanging   string `xml:"hanging,attr"`
}

type xmlRPr struct {
	RStyle *xmlVal   `xml:"rStyle"`
	RFonts *xmlFonts `xml:"rFonts"`
	B      *xmlVal   `xml:"b"`
	I      *xmlVal   `xml:"i"`
	U      *xmlVal   `xml:"u"`
	Sz     *xmlVal   `xml:"sz"`
	Color  *xmlVal   `xml:"color"`
}

type xmlFonts struct {
	ASCII      string `xml:"ascii,attr"`
	HAnsi      string `xml:"hAnsi,attr"`
	ASCIITheme string `xml:"asciiTheme,attr"`
	HAnsiTheme string `xml:"hAnsiTheme,attr"`
}

type xmlSectPr struct {
	HeaderRefs []xmlPartRef `xml:"headerReference"`
	FooterRefs []xmlPartRef `xml:"footerReference"`
	Type       *xmlVal      `xml:"type"`
	PgSz       *xmlPgSz     `xml:"pgSz"`
	PgMar      *xmlPgMar    `xml:"pgMar"`
	TitlePg    *xmlVal      `xml:"titlePg"`
}

type xmlPartRef struct {
	Type string `xml:"type,attr"`
	ID   string `xml:"id,attr"`
}

type xmlPgSz struct {
	W      string `xml:"w,attr"`
	H      string `xml:"h,attr"`
	Orient string `xml:"orient,attr"`
}

type xmlPgMar struct {
	Top    string `xml:"top,attr"`
	Bottom string `xml:"bottom,attr"`
	Left   string `xml:"left,attr"`
	Right  string `xml:"right,attr"`
	Header string `xml:"header,attr"`
	Footer string `xml:"footer,attr"`
}

type xmlTblPr struct {
	TblStyle   *xmlVal        `xml:"tblStyle"`
	TblBorders *xmlTblBorders `xml:"tblBorders"`
}

type xmlTblBorders struct {
	Top     *xmlBorder `xml:"top"`
	Left    *xmlBorder `xml:"left"`
	Bottom  *xmlBorder `xml:"bottom"`
	Right   *xmlBorder `xml:"right"`
	InsideH *xmlBorder `xml:"insideH"`
	InsideV *xmlBorder `xml:"insideV"`
}

type xmlBorder struct {
	Val   string `xml:"val,attr"`
	Sz    string `xml:"sz,attr"`
	Color string `xml:"color,attr"`
}

type xmlTblGrid struct {
	Cols []xmlGridCol `xml:"gridCol"`
}

type xmlGridCol struct {
	W string `xml:"w,attr"`
}

type xmlTrPr struct {
	TblHeader *xmlVal `xml:"tblHeader"`
}

type xmlTcPr struct {
	TcW *xmlTcW `xml:"tcW"`
	Shd *xmlShd `xml:"shd"`
}

type xmlTcW struct {
	W    string `xml:"w,attr"`
	Type string `xml:"type,attr"`
}

type xmlShd struct {
	Fill string `xml:"fill,attr"`
}

type xmlStyles struct {
	DocDefaults struct {
		RPrDefault struct {
			RPr *xmlRPr `xml:"rPr"`
		} `xml:"rPrDefault"`
		PPrDefault struct {
			PPr *xmlPPr `xml:"pPr"`
		} `xml:"pPrDefault"`
	} `xml:"docDefaults"`
	Styles []xmlStyle `xml:"style"`
}

type xmlStyle struct {
	Type    string  `xml:"type,attr"`
	ID      string  `xml:"styleId,attr"`
	Default string  `xml:"default,attr"`
	Name    *xmlVal `xml:"name"`
	BasedOn *xmlVal `xml:"basedOn"`
	PPr     *xmlPPr `xml:"pPr"`
	RPr     *xmlRPr `xml:"rPr"`
}

func (x *xmlPPr) toProps() ParagraphProps {
	var p ParagraphProps
	if x == nil {
		return p
	}
	if x.PStyle != nil {
		p.StyleID = x.PStyle.Val
	}
	if x.Jc != nil {
		p.Align = x.Jc.Val
	}
	if x.Spacing != nil {
		p.Spacing.Before = twipsAttr(x.Spacing.Before)
		p.Spacing.After = twipsAttr(x.Spacing.After)
		if x.Spacing.Line != "" {
			rule := x.Spacing.LineRule
			if rule == "" {
				rule = "auto"
			}
			if v, ok := parseNumber(x.Spacing.Line); ok {
				if rule == "auto" {
					v = v / LineUnitsPerMultiple
				} else {
					v = TwipsToPoints(v)
				}
				p.Spacing.Line = &v
				p.Spacing.LineRule = rule
			}
		}
	}
	if x.Ind != nil {
		p.Indent.Left = twipsAttr(firstNonEmpty(x.Ind.Left, x.Ind.Start))
		p.Indent.Right = twipsAttr(firstNonEmpty(x.Ind.Right, x.Ind.End))
		p.Indent.FirstLine = twipsAttr(x.Ind.FirstLine)
		p.Indent.Hanging = twipsAttr(x.Ind.Hanging)
	}
	if x.PageBreakBefore != nil {
		p.PageBreakBefore = onOff(x.PageBreakBefore.Val)
	}
	if x.SectPr != nil {
		sec := x.SectPr.toSection()
		p.Section = &sec
	}
	return p
}

func (x *xmlRPr) toProps() RunProps {
	var r RunProps
	if x == nil {
		return r
	}
	if x.RStyle != nil {
		r.StyleID = x.RStyle.Val
	}
	if x.RFonts != nil {
		if name := firstNonEmpty(x.RFonts.ASCII, x.RFonts.HAnsi); name != "" {
			r.Font = &name
		} else {
			r.FontTheme = firstNonEmpty(x.RFonts.ASCIITheme, x.RFonts.HAnsiTheme)
		}
	}
	if x.B != nil {
		b := onOff(x.B.Val)
		r.Bold = &b
	}
	if x.I != nil {
		i := onOff(x.I.Val)
		r.Italic = &i
	}
	if x.U != nil {
		u := x.U.Val != "none" && onOff(x.U.Val)
		r.Underline = &u
	}
	if x.Sz != nil {
		if v, ok := parseNumber(x.Sz.Val); ok && v > 0 {
			pt := HalfPointsToPoints(v)
			r.Size = &pt
		}
	}
	if x.Color != nil && x.Color.Val != "" && !strings.EqualFold(x.Color.Val, "auto") {
		c := strings.ToUpper(x.Color.Val)
		r.Color = &c
	}
	return r
}

func (x *xmlSectPr) toSection() Section {
	sec := Section{EndParagraph: -1}
	if x.Type != nil {
		sec.Type = x.Type.Val
	}
	if x.PgSz != nil {
		sec.PageWidth = twipsAttr(x.PgSz.W)
		sec.PageHeight = twipsAttr(x.PgSz.H)
		sec.Orientation = x.PgSz.Orient
	}
	if x.PgMar != nil {
		sec.Margins = &Margins{
			Top:    twipsValue(x.PgMar.Top),
			Bottom: twipsValue(x.PgMar.Bottom),
			Left:   twipsValue(x.PgMar.Left),
			Right:  twipsValue(x.PgMar.Right),
			Header: twipsValue(x.PgMar.Header),
			Footer: twipsValue(x.PgMar.Footer),
		}
	}
	if x.TitlePg != nil {
		sec.TitlePage = onOff(x.TitlePg.Val)
	}
	for _, ref := range x.HeaderRefs {
		sec.Headers = append(sec.Headers, PartRef{Type: ref.Type, RelID: ref.ID})
	}
	for _, ref := range x.FooterRefs {
		sec.Footers = append(sec.Footers, PartRef{Type: ref.Type, RelID: ref.ID})
	}
	return sec
}

func (x *xmlTblBorders) toBorder() *Border {
	if x == nil {
		return nil
	}
	for _, b := range []*xmlBorder{x.Top, x.Left, x.Bottom, x.Right, x.InsideH, x.InsideV} {
		if b == nil {
			continue
		}
		border := &Border{Style: b.Val}
		if v, ok := parseNumber(b.Sz); ok {
			border.Size = EighthsToPoints(v)
		}
		if b.Color != "" && !strings.EqualFold(b.Color, "auto") {
			border.Color = strings.ToUpper(b.Color)
		}
		return border
	}
	return nil
}

// onOff interprets an ST_OnOff value. An absent attribute means "on".
func onOff(val string) bool {
	switch strings.ToLower(val) {
	case "0", "false", "off", "none":
		return false
	}
	return true
}

func parseNumber(s string) (float64, bool) {
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func twipsAttr(s string) *float64 {
	v, ok := parseNumber(s)
	if !ok {
		return nil
	}
	pt := TwipsToPoints(v)
	return &pt
}

func twipsValue(s string) float64 {
	v, _ := parseNumber(s)
	return TwipsToPoints(v)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
