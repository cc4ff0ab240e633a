// Package ooxml reads and writes the subset of WordprocessingML used for style
// extraction and re-rendering.
package ooxml

import "math"

// TwipsPerPoint is the number of twentieths of a point in one point.
// Margins, indentation and spacing are stored in twips in document.xml.
const TwipsPerPoint = 20

// TwipsToPoints converts a twips value to points.
func TwipsToPoints(twips float64) float64 {
	return twips / TwipsPerPoint
}

// PointsToTwips converts points to the nearest whole twip.
func PointsToTwips(pt float64) int64 {
	return int64(math.Round(pt * TwipsPerPoint))
}

// HalfPointsToPoints converts a w:sz value (half-points) to points.
func HalfPointsToPoints(hp float64) float64 {
	return hp / 2
}

// PointsToHalfPoints converts points to the nearest half-point.
func PointsToHalfPoints(pt float64) int64 {
	return int64(math.Round(pt * 2))
}

// EighthsToPoints converts a border width (eighths of a point) to points.
func EighthsToPoints(v float64) float64 {
	return v / 8
}

// PointsToEighths converts points to eighths of a point.
func PointsToEighths(pt float64) int64 {
	return int64(math.Round(pt * 8))
}

// LineUnitsPerMultiple is the w:spacing/@w:line value for single spacing when
// lineRule is "auto".
const LineUnitsPerMultiple = 240
