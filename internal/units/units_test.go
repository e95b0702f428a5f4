// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package units

import (
	"math"
	"testing"
)

func TestToMillimetersURIs(t *testing.T) {
	tests := []struct {
		uri    string
		factor float64
	}{
		{"http://www.wikidata.org/entity/Q174789", 1.0},
		{"http://www.wikidata.org/entity/Q174728", 10.0},
		{"http://www.wikidata.org/entity/Q11573", 1000.0},
		{"http://www.wikidata.org/entity/Q218593", 25.4},
		{"http://www.wikidata.org/entity/Q3710", 304.8},
	}
	for _, tt := range tests {
		got, ok := ToMillimeters(2.5, tt.uri)
		if !ok {
			t.Errorf("ToMillimeters(2.5, %q) not ok", tt.uri)
			continue
		}
		if want := 2.5 * tt.factor; math.Abs(got-want) > 1e-9 {
			t.Errorf("ToMillimeters(2.5, %q) = %f, want %f", tt.uri, got, want)
		}
	}
}

func TestToMillimetersCodes(t *testing.T) {
	tests := []struct {
		code   string
		factor float64
	}{
		{"MMT", 1.0},
		{"CMT", 10.0},
		{"MTR", 1000.0},
		{"INH", 25.4},
		{"FOT", 304.8},
		{"mtr", 1000.0}, // codes are matched case-insensitively
	}
	for _, tt := range tests {
		got, ok := ToMillimeters(1, tt.code)
		if !ok {
			t.Errorf("ToMillimeters(1, %q) not ok", tt.code)
			continue
		}
		if math.Abs(got-tt.factor) > 1e-9 {
			t.Errorf("ToMillimeters(1, %q) = %f, want %f", tt.code, got, tt.factor)
		}
	}
}

func TestToMillimetersSymbols(t *testing.T) {
	tests := []struct {
		name   string
		unit   string
		factor float64
	}{
		{"mm", "mm", 1.0},
		{"cm upper", "CM", 10.0},
		{"metre word", "metre", 1000.0},
		{"meters plural", "meters", 1000.0},
		{"inch word", "inch", 25.4},
		{"double prime", "″", 25.4},
		{"straight quote", `"`, 25.4},
		{"feet", "feet", 304.8},
		{"prime", "′", 304.8},
		{"yards plural", "yards", 914.4},
		{"padded", " mm ", 1.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ToMillimeters(3, tt.unit)
			if !ok {
				t.Fatalf("ToMillimeters(3, %q) not ok", tt.unit)
			}
			if want := 3 * tt.factor; math.Abs(got-want) > 1e-9 {
				t.Errorf("ToMillimeters(3, %q) = %f, want %f", tt.unit, got, want)
			}
		})
	}
}

func TestToMillimetersUnknown(t *testing.T) {
	for _, unit := range []string{"", "furlong", "kg", "http://www.wikidata.org/entity/Q999999", "XYZ"} {
		if got, ok := ToMillimeters(5, unit); ok {
			t.Errorf("ToMillimeters(5, %q) = %f, want not ok", unit, got)
		}
	}
}

func TestKnown(t *testing.T) {
	if !Known("cm") {
		t.Error("Known(cm) = false, want true")
	}
	if Known("parsec") {
		t.Error("Known(parsec) = true, want false")
	}
}
