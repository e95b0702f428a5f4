// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package provider implements the per-source dimension providers: the
// Wikidata structured-quantity provider and entity resolver, the
// schema.org embedded-metadata provider, the Wikipedia infobox provider,
// and the local catalog fallback. Each provider fetches from exactly one
// source and yields a millimeter-normalized DimensionResult, or nothing.
package provider

import (
	"context"

	"github.com/gridfab/dimension-engine/pkg/types"
)

// Provider fetches dimensions from a single external source. Each source
// implements this interface per the Strategy pattern; providers are
// stateless and safe for concurrent use.
//
// A nil result with a nil error means the source had no usable data
// (nothing matched, or nothing parsed). An error means the source was
// unavailable (network failure, timeout, bad HTTP status). The caller
// treats both as "this provider contributed nothing".
type Provider interface {
	Name() string
	Fetch(ctx context.Context, q types.ProviderQuery) (*types.DimensionResult, error)
}
