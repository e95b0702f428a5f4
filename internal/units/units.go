// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package units converts measured lengths in heterogeneous unit notations
// to millimeters. It recognizes Wikidata unit-entity URIs, UN/CEFACT
// common codes, and human unit symbols or words.
package units

import "strings"

// wikidataUnitToMM maps Wikidata unit entity URIs to millimeter factors.
var wikidataUnitToMM = map[string]float64{
	"http://www.wikidata.org/entity/Q174789": 1.0,    // millimetre
	"http://www.wikidata.org/entity/Q174728": 10.0,   // centimetre
	"http://www.wikidata.org/entity/Q200323": 100.0,  // decimetre
	"http://www.wikidata.org/entity/Q11573":  1000.0, // metre
	"http://www.wikidata.org/entity/Q828224": 1.0e6,  // kilometre
	"http://www.wikidata.org/entity/Q218593": 25.4,   // inch
	"http://www.wikidata.org/entity/Q3710":   304.8,  // foot
	"http://www.wikidata.org/entity/Q482798": 914.4,  // yard
}

// cefactToMM maps UN/CEFACT common codes to millimeter factors.
var cefactToMM = map[string]float64{
	"MMT": 1.0,
	"CMT": 10.0,
	"DMT": 100.0,
	"MTR": 1000.0,
	"KMT": 1.0e6,
	"INH": 25.4,
	"FOT": 304.8,
	"YRD": 914.4,
}

// symbolToMM maps lowercased unit symbols and words to millimeter factors.
// Plural word forms are handled by ToMillimeters, not listed here.
var symbolToMM = map[string]float64{
	"mm":         1.0,
	"millimetre": 1.0,
	"millimeter": 1.0,
	"cm":         10.0,
	"centimetre": 10.0,
	"centimeter": 10.0,
	"dm":         100.0,
	"m":          1000.0,
	"metre":      1000.0,
	"meter":      1000.0,
	"km":         1.0e6,
	"kilometre":  1.0e6,
	"kilometer":  1.0e6,
	"in":         25.4,
	"inch":       25.4,
	"inches":     25.4,
	`"`:          25.4,
	"″":          25.4,
	"ft":         304.8,
	"foot":       304.8,
	"feet":       304.8,
	"′":          304.8,
	"yd":         914.4,
	"yard":       914.4,
}

// ToMillimeters converts amount expressed in unit to millimeters. The unit
// may be a Wikidata unit URI, a UN/CEFACT code, or a free-text symbol or
// word (case-insensitive, plural tolerant); the tables are consulted in
// that order. ok is false when the unit is unrecognized — callers must
// treat that as "cannot normalize this field", never as zero.
func ToMillimeters(amount float64, unit string) (mm float64, ok bool) {
	unit = strings.TrimSpace(unit)
	if unit == "" {
		return 0, false
	}

	if f, ok := wikidataUnitToMM[unit]; ok {
		return amount * f, true
	}
	if f, ok := cefactToMM[strings.ToUpper(unit)]; ok {
		return amount * f, true
	}

	sym := strings.ToLower(unit)
	if f, ok := symbolToMM[sym]; ok {
		return amount * f, true
	}
	// "meters", "yards", "cms" and friends.
	if trimmed, found := strings.CutSuffix(sym, "s"); found {
		if f, ok := symbolToMM[trimmed]; ok {
			return amount * f, true
		}
	}
	return 0, false
}

// Known reports whether unit would be accepted by ToMillimeters.
func Known(unit string) bool {
	_, ok := ToMillimeters(1, unit)
	return ok
}
