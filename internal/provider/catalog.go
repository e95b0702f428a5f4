// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package provider

import (
	"context"

	"github.com/gridfab/dimension-engine/internal/catalog"
	"github.com/gridfab/dimension-engine/pkg/types"
)

// CatalogProvider serves dimensions from the local catalog store. It
// answers by knowledge-base id first, then by exact name, so seeded and
// previously resolved objects work without any network access.
type CatalogProvider struct {
	Store *catalog.Store
}

// Name returns the provider identifier.
func (p *CatalogProvider) Name() string { return "catalog" }

// Fetch implements Provider.
func (p *CatalogProvider) Fetch(ctx context.Context, q types.ProviderQuery) (*types.DimensionResult, error) {
	if q.ItemID != "" {
		r, err := p.Store.Get(ctx, q.ItemID)
		if err != nil || r != nil {
			return r, err
		}
	}
	if q.Label != "" {
		return p.Store.GetByName(ctx, q.Label)
	}
	return nil, nil
}
