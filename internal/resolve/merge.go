// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package resolve

import "github.com/gridfab/dimension-engine/pkg/types"

// Merge combines two provider results into a new one. The
// higher-confidence side's axis values take precedence; axes absent there
// are filled from the other side. A lower-confidence value never
// overwrites a present higher-confidence one. Ties favor primary.
//
// Source and SourceURL come from the winning side. Confidence is the
// maximum of the two: merging fills gaps, it does not average away
// certainty. Evidence concatenates primary-first regardless of which side
// won. Neither input is mutated.
func Merge(primary, secondary types.DimensionResult) types.DimensionResult {
	winner, loser := primary, secondary
	if secondary.Confidence > primary.Confidence {
		winner, loser = secondary, primary
	}

	dims := winner.Dims.Clone()
	for axis, mm := range loser.Dims {
		dims.SetIfAbsent(axis, mm)
	}

	merged := types.DimensionResult{
		ItemID:     winner.ItemID,
		Name:       winner.Name,
		Dims:       dims,
		Source:     winner.Source,
		SourceURL:  winner.SourceURL,
		Confidence: winner.Confidence,
		Raw:        map[string]any{"primary": primary.Raw, "secondary": secondary.Raw},
	}
	if merged.ItemID == "" {
		merged.ItemID = loser.ItemID
	}
	if merged.Name == "" {
		merged.Name = loser.Name
	}
	if merged.SourceURL == "" {
		merged.SourceURL = loser.SourceURL
	}

	merged.Evidence = make([]string, 0, len(primary.Evidence)+len(secondary.Evidence))
	merged.Evidence = append(merged.Evidence, primary.Evidence...)
	merged.Evidence = append(merged.Evidence, secondary.Evidence...)

	return merged
}

// Fold reduces an ordered list of provider results pairwise, left to
// right, skipping nils. The order expresses the trust hierarchy between
// provider tiers; Merge itself settles conflicts by confidence. Returns
// nil when every element is nil.
func Fold(results []*types.DimensionResult) *types.DimensionResult {
	var acc *types.DimensionResult
	for _, r := range results {
		if r == nil {
			continue
		}
		if acc == nil {
			copied := *r
			acc = &copied
			continue
		}
		merged := Merge(*acc, *r)
		acc = &merged
	}
	return acc
}
