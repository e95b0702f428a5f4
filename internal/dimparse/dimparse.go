// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package dimparse extracts physical dimensions from unstructured text
// such as product descriptions and encyclopedia infobox cells. It finds
// either an "A × B × C unit" triplet or a single "value unit" pair and
// normalizes the values to millimeters.
package dimparse

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/gridfab/dimension-engine/internal/units"
	"github.com/gridfab/dimension-engine/pkg/types"
)

// unitVocab is the unit alternation shared by both patterns. Longer
// alternatives come first so the regexp engine does not stop at a prefix.
const unitVocab = `millimetres?|millimeters?|centimetres?|centimeters?|metres?|meters?|inches|inch|mm|cm|m|in|″|"|feet|foot|ft|′`

// tripletRE matches three numbers joined by multiplication-like
// separators with an optional trailing unit, e.g. "152 × 106 × 60 mm".
// Both "." and "," are accepted as decimal separators.
var tripletRE = regexp.MustCompile(
	`(?i)(\d{1,4}(?:[.,]\d{1,3})?)\s*[×xX*]\s*(\d{1,4}(?:[.,]\d{1,3})?)\s*[×xX*]\s*(\d{1,4}(?:[.,]\d{1,3})?)\s*(` + unitVocab + `)?`)

// singleRE matches a lone "number unit" pair, e.g. "45 mm". The unit is
// mandatory here: a bare number in running text is almost never a
// dimension.
var singleRE = regexp.MustCompile(
	`(?i)(\d{1,4}(?:[.,]\d{1,3})?)\s*(` + unitVocab + `)`)

// parseNumber converts a matched numeric token, accepting "," as a
// decimal separator.
func parseNumber(s string) (float64, error) {
	return strconv.ParseFloat(strings.ReplaceAll(s, ",", "."), 64)
}

// ParseTriplet extracts the first dimension triplet from text. The unit
// is empty when the text carried none. ok is false when no triplet
// pattern matches.
func ParseTriplet(text string) (a, b, c float64, unit string, ok bool) {
	m := tripletRE.FindStringSubmatch(text)
	if m == nil {
		return 0, 0, 0, "", false
	}
	var err error
	if a, err = parseNumber(m[1]); err != nil {
		return 0, 0, 0, "", false
	}
	if b, err = parseNumber(m[2]); err != nil {
		return 0, 0, 0, "", false
	}
	if c, err = parseNumber(m[3]); err != nil {
		return 0, 0, 0, "", false
	}
	return a, b, c, m[4], true
}

// ParseSingle extracts the first "value unit" pair from text. Used for
// diameter- or thickness-only sources that never print a triplet.
func ParseSingle(text string) (v float64, unit string, ok bool) {
	m := singleRE.FindStringSubmatch(text)
	if m == nil {
		return 0, "", false
	}
	v, err := parseNumber(m[1])
	if err != nil {
		return 0, "", false
	}
	return v, m[2], true
}

// Normalize parses common dimension strings like "152 × 106 × 60 mm"
// into a millimeter DimensionSet. A triplet maps positionally to L, W, H
// in source order; that matches the dominant length×width×height
// convention but is not guaranteed by the sources (some print W×D×H), so
// treat the assignment as best effort. A single "value unit" match maps
// to L and the caller re-maps it (to DIAMETER, THICKNESS) from context.
//
// defaultUnit is applied when a triplet carries no unit token. An empty
// or unrecognized defaultUnit leaves such values untouched (treated as
// already millimeters).
func Normalize(text, defaultUnit string) (types.DimensionSet, bool) {
	if a, b, c, unit, ok := ParseTriplet(text); ok {
		factor := factorFor(unit, defaultUnit)
		return types.DimensionSet{
			types.AxisL: a * factor,
			types.AxisW: b * factor,
			types.AxisH: c * factor,
		}, true
	}
	if v, unit, ok := ParseSingle(text); ok {
		factor := factorFor(unit, defaultUnit)
		return types.DimensionSet{types.AxisL: v * factor}, true
	}
	return nil, false
}

// factorFor resolves the millimeter factor for a parsed unit token,
// falling back to defaultUnit and finally to 1.0.
func factorFor(unit, defaultUnit string) float64 {
	if unit == "" {
		unit = defaultUnit
	}
	if f, ok := units.ToMillimeters(1, unit); ok {
		return f
	}
	return 1.0
}
