// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package resolve orchestrates the dimension providers: it resolves the
// queried entity, fans out to the enabled providers concurrently, and
// folds their results into one best-effort answer with an evidence trail.
package resolve

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"golang.org/x/sync/errgroup"

	"github.com/gridfab/dimension-engine/internal/catalog"
	"github.com/gridfab/dimension-engine/internal/provider"
	"github.com/gridfab/dimension-engine/pkg/types"
)

// Resolver runs resolution requests. Construct with NewResolver.
type Resolver struct {
	cfg types.ResolveConfig

	// store is the optional catalog cache; nil disables it regardless of
	// cfg.EnableCatalog.
	store *catalog.Store

	// warn receives per-provider failure notices. Provider failures
	// degrade that provider to "nothing", they never abort the request.
	warn io.Writer

	wikidata  *provider.WikidataProvider
	schemaOrg *provider.SchemaOrgProvider
	wikipedia *provider.WikipediaProvider
	wdClient  *http.Client
}

// NewResolver wires the providers from cfg. store may be nil; warn may be
// nil to discard warnings.
func NewResolver(cfg types.ResolveConfig, store *catalog.Store, warn io.Writer) *Resolver {
	if warn == nil {
		warn = io.Discard
	}
	wdClient := &http.Client{Timeout: cfg.Wikidata.Timeout}
	return &Resolver{
		cfg:   cfg,
		store: store,
		warn:  warn,
		wikidata: &provider.WikidataProvider{
			Client: wdClient,
			Cfg:    cfg.Wikidata,
			Warn:   warn,
		},
		schemaOrg: &provider.SchemaOrgProvider{
			Client:      &http.Client{Timeout: cfg.SchemaOrg.Timeout},
			Cfg:         cfg.SchemaOrg,
			DefaultUnit: cfg.Parser.DefaultUnit,
		},
		wikipedia: &provider.WikipediaProvider{
			Client:      &http.Client{Timeout: cfg.Wikipedia.Timeout},
			Cfg:         cfg.Wikipedia,
			DefaultUnit: cfg.Parser.DefaultUnit,
		},
		wdClient: wdClient,
	}
}

// Resolve answers a dimension query from whatever combination of inputs
// the caller has: a knowledge-base id, a free-text query, and candidate
// product-page URLs. At least one must be non-empty. It returns the
// merged result (nil when every provider came up empty) and the resolved
// id, which is useful to the caller even on a miss.
func (r *Resolver) Resolve(ctx context.Context, id, query string, urls []string) (*types.DimensionResult, string, error) {
	if id == "" && query == "" && len(urls) == 0 {
		return nil, "", fmt.Errorf("resolve: provide an id, a query, or candidate URLs")
	}

	qid := ""
	label := query
	if id != "" {
		if provider.IsQID(id) {
			qid = id
		} else {
			fmt.Fprintf(r.warn, "warning: %q is not a valid item id, ignoring\n", id)
		}
	}

	// Entity resolution: free text → canonical id. An unresolved query is
	// not an error; resolution continues with the URL-based providers.
	if qid == "" && query != "" && r.cfg.EnableWikidata {
		resolvedID, resolvedLabel, err := provider.ResolveEntity(ctx, r.wdClient, query, r.cfg.Wikidata)
		switch {
		case err != nil:
			fmt.Fprintf(r.warn, "warning: entity resolution failed: %v\n", err)
		case resolvedID == "":
			fmt.Fprintf(r.warn, "warning: no entity match for %q\n", query)
		default:
			qid = resolvedID
			if resolvedLabel != "" {
				label = resolvedLabel
			}
		}
	}

	// Cache check. A previously resolved answer is returned as-is; seed
	// entries keep their catalog provenance and short-circuit the same way.
	if cached := r.catalogLookup(ctx, qid, label); cached != nil {
		return cached, qid, nil
	}

	// Fan out the independent network providers. Each job writes its own
	// slot so the fold below sees results in priority order, not arrival
	// order.
	var (
		g           errgroup.Group
		wdResult    *types.DimensionResult
		officialURL string
		urlResults  = make([]*types.DimensionResult, len(urls))
	)

	if qid != "" && r.cfg.EnableWikidata {
		g.Go(func() error {
			result, official, err := r.wikidata.FetchItem(ctx, qid)
			if err != nil {
				fmt.Fprintf(r.warn, "warning: provider wikidata failed: %v\n", err)
				return nil
			}
			wdResult, officialURL = result, official
			return nil
		})
	}
	if r.cfg.EnableSchemaOrg {
		for i, u := range urls {
			i, u := i, u
			g.Go(func() error {
				result, err := r.schemaOrg.FetchURL(ctx, u)
				if err != nil {
					fmt.Fprintf(r.warn, "warning: provider schema_org failed for %s: %v\n", u, err)
					return nil
				}
				urlResults[i] = result
				return nil
			})
		}
	}
	g.Wait()

	ordered := []*types.DimensionResult{wdResult}
	ordered = append(ordered, urlResults...)

	// Wikidata may have surfaced the item's official website; mine it too
	// unless the caller already supplied it.
	if officialURL != "" && r.cfg.EnableSchemaOrg && !containsURL(urls, officialURL) {
		result, err := r.schemaOrg.FetchURL(ctx, officialURL)
		if err != nil {
			fmt.Fprintf(r.warn, "warning: provider schema_org failed for %s: %v\n", officialURL, err)
		} else {
			ordered = append(ordered, result)
		}
	}

	if wdResult != nil && wdResult.Name != "" {
		label = wdResult.Name
	}

	// Encyclopedia fallback only when the structured sources left the
	// L/W/H triplet incomplete and we have a page title to try.
	if label != "" && r.cfg.EnableWikipedia && !foldedTripletComplete(ordered) {
		result, err := r.wikipedia.FetchTitle(ctx, label)
		if err != nil {
			fmt.Fprintf(r.warn, "warning: provider wikipedia failed: %v\n", err)
		} else {
			ordered = append(ordered, result)
		}
	}

	final := Fold(ordered)
	if final == nil {
		return nil, qid, nil
	}
	if final.ItemID == "" {
		final.ItemID = qid
	}
	if final.Name == "" {
		final.Name = label
	}

	// Best-effort cache write; a failure is a warning, not a result error.
	if r.store != nil && r.cfg.EnableCatalog {
		if err := r.store.Put(ctx, *final); err != nil {
			fmt.Fprintf(r.warn, "warning: catalog write failed: %v\n", err)
		}
	}

	return final, qid, nil
}

// catalogLookup consults the local catalog by id, then by name. Failures
// degrade to a miss.
func (r *Resolver) catalogLookup(ctx context.Context, qid, label string) *types.DimensionResult {
	if r.store == nil || !r.cfg.EnableCatalog {
		return nil
	}
	cat := &provider.CatalogProvider{Store: r.store}
	result, err := cat.Fetch(ctx, types.ProviderQuery{ItemID: qid, Label: label})
	if err != nil {
		fmt.Fprintf(r.warn, "warning: catalog lookup failed: %v\n", err)
		return nil
	}
	return result
}

// foldedTripletComplete reports whether the union of axes across the
// collected results already covers L, W, and H.
func foldedTripletComplete(results []*types.DimensionResult) bool {
	union := make(types.DimensionSet)
	for _, r := range results {
		if r == nil {
			continue
		}
		for axis, mm := range r.Dims {
			union.SetIfAbsent(axis, mm)
		}
	}
	return union.HasTriplet()
}

func containsURL(urls []string, u string) bool {
	for _, candidate := range urls {
		if candidate == u {
			return true
		}
	}
	return false
}
