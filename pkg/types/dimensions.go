// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the dimension-engine
// resolution pipeline: the canonical axis set, the millimeter-normalized
// dimension map, the per-provider result record, and provider inputs.
package types

import (
	"fmt"
	"sort"
	"strings"
)

// Axis is a semantic dimension key. Values are always millimeters by the
// time they are stored under an Axis.
type Axis string

const (
	AxisL         Axis = "L"
	AxisW         Axis = "W"
	AxisH         Axis = "H"
	AxisThickness Axis = "THICKNESS"
	AxisDiameter  Axis = "DIAMETER"
)

// DimensionSet maps axes to millimeter values. Keys are independent and
// optional: a result may carry only DIAMETER, only L, or a full L/W/H
// triplet. No raw (unconverted) unit ever enters a DimensionSet.
type DimensionSet map[Axis]float64

// SetIfAbsent stores mm under axis only when the axis is not already set.
// Duplicate or contradictory source rows keep their first occurrence.
func (d DimensionSet) SetIfAbsent(axis Axis, mm float64) {
	if _, ok := d[axis]; !ok {
		d[axis] = mm
	}
}

// HasTriplet reports whether L, W, and H are all present.
func (d DimensionSet) HasTriplet() bool {
	_, l := d[AxisL]
	_, w := d[AxisW]
	_, h := d[AxisH]
	return l && w && h
}

// Clone returns an independent copy of the set.
func (d DimensionSet) Clone() DimensionSet {
	out := make(DimensionSet, len(d))
	for k, v := range d {
		out[k] = v
	}
	return out
}

// Axes returns the present axes in a fixed order (L, W, H, THICKNESS,
// DIAMETER) for deterministic display.
func (d DimensionSet) Axes() []Axis {
	order := map[Axis]int{AxisL: 0, AxisW: 1, AxisH: 2, AxisThickness: 3, AxisDiameter: 4}
	axes := make([]Axis, 0, len(d))
	for a := range d {
		axes = append(axes, a)
	}
	sort.Slice(axes, func(i, j int) bool { return order[axes[i]] < order[axes[j]] })
	return axes
}

// String renders the set as "L=152.0mm W=106.0mm H=60.0mm".
func (d DimensionSet) String() string {
	parts := make([]string, 0, len(d))
	for _, a := range d.Axes() {
		parts = append(parts, fmt.Sprintf("%s=%.1fmm", a, d[a]))
	}
	return strings.Join(parts, " ")
}

// DimensionResult is the canonical output of every provider and of the
// merge fold. A provider constructs one on a successful fetch+parse and
// never mutates it afterward; merging produces a new value.
type DimensionResult struct {
	// ItemID is the resolved knowledge-base identifier (e.g. a Wikidata QID).
	ItemID string `json:"id,omitempty" yaml:"id,omitempty"`

	// Name is a human-readable label for the item.
	Name string `json:"name,omitempty" yaml:"name,omitempty"`

	// Dims holds the millimeter-normalized axis values.
	Dims DimensionSet `json:"dims_mm" yaml:"dims_mm"`

	// Source identifies which provider produced this result (e.g. "wikidata").
	Source string `json:"source" yaml:"source"`

	// SourceURL points at the page or record the values came from.
	SourceURL string `json:"source_url,omitempty" yaml:"source_url,omitempty"`

	// Confidence is a value in [0,1] used as a total order for merge
	// precedence. It is not a probability.
	Confidence float64 `json:"confidence" yaml:"confidence"`

	// Evidence lists human-readable justification snippets, in the order
	// they were gathered. Merges concatenate, never deduplicate.
	Evidence []string `json:"evidence,omitempty" yaml:"evidence,omitempty"`

	// Raw keeps the provider's payload for auditing. Never interpreted
	// downstream.
	Raw any `json:"-" yaml:"-"`
}

// ProviderQuery is the input contract to a provider. Providers must
// tolerate any subset of the fields being empty.
type ProviderQuery struct {
	// ItemID is a resolved knowledge-base identifier, if known.
	ItemID string

	// Label is a free-text name for the item, if known.
	Label string

	// URLs lists candidate pages to mine for embedded product metadata.
	URLs []string
}
