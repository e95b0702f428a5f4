// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package resolve

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gridfab/dimension-engine/internal/catalog"
	"github.com/gridfab/dimension-engine/pkg/types"
)

// offlineCfg disables every provider; tests enable what they exercise.
func offlineCfg() types.ResolveConfig {
	cfg := types.DefaultResolveConfig()
	cfg.EnableWikidata = false
	cfg.EnableSchemaOrg = false
	cfg.EnableWikipedia = false
	cfg.EnableCatalog = false
	cfg.SchemaOrg.Timeout = 2 * time.Second
	return cfg
}

func TestResolveRequiresSomeInput(t *testing.T) {
	r := NewResolver(offlineCfg(), nil, nil)
	_, _, err := r.Resolve(context.Background(), "", "", nil)
	if err == nil {
		t.Fatal("expected error when id, query, and urls are all empty")
	}
}

func TestResolveAllProvidersFail(t *testing.T) {
	// A dead URL: the server is closed before the request is made. Every
	// provider contributes nothing; Resolve reports a miss, not an error.
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {}))
	deadURL := ts.URL
	ts.Close()

	cfg := offlineCfg()
	cfg.EnableSchemaOrg = true

	var warnings bytes.Buffer
	r := NewResolver(cfg, nil, &warnings)

	result, resolvedID, err := r.Resolve(context.Background(), "", "", []string{deadURL})
	if err != nil {
		t.Fatalf("Resolve error: %v", err)
	}
	if result != nil {
		t.Errorf("result = %+v, want nil (total failure)", result)
	}
	if resolvedID != "" {
		t.Errorf("resolvedID = %q, want empty", resolvedID)
	}
	if !strings.Contains(warnings.String(), "schema_org") {
		t.Errorf("warnings = %q, want a schema_org failure notice", warnings.String())
	}
}

func TestResolveFromCatalogByID(t *testing.T) {
	store, err := catalog.NewStore(types.CatalogConfig{CatalogDir: t.TempDir()})
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	defer store.Close()

	seeded := types.DimensionResult{
		ItemID:     "Q99045413",
		Name:       "Nintendo Switch Pro Controller",
		Dims:       types.DimensionSet{types.AxisL: 152, types.AxisW: 106, types.AxisH: 60},
		Source:     "catalog",
		Confidence: catalog.SeedConfidence,
	}
	if err := store.Put(context.Background(), seeded); err != nil {
		t.Fatalf("Put: %v", err)
	}

	cfg := offlineCfg()
	cfg.EnableCatalog = true
	r := NewResolver(cfg, store, nil)

	result, resolvedID, err := r.Resolve(context.Background(), "Q99045413", "", nil)
	if err != nil {
		t.Fatalf("Resolve error: %v", err)
	}
	if result == nil {
		t.Fatal("result = nil, want catalog hit")
	}
	if result.Dims[types.AxisL] != 152 {
		t.Errorf("L = %g, want 152", result.Dims[types.AxisL])
	}
	if result.Source != "catalog" {
		t.Errorf("source = %q, want catalog", result.Source)
	}
	if resolvedID != "Q99045413" {
		t.Errorf("resolvedID = %q", resolvedID)
	}
}

func TestResolveFromCatalogByName(t *testing.T) {
	store, err := catalog.NewStore(types.CatalogConfig{CatalogDir: t.TempDir()})
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	defer store.Close()

	seeded := types.DimensionResult{
		Name:       "Nintendo Switch Pro Controller",
		Dims:       types.DimensionSet{types.AxisL: 152, types.AxisW: 106, types.AxisH: 60},
		Source:     "catalog",
		Confidence: catalog.SeedConfidence,
	}
	if err := store.Put(context.Background(), seeded); err != nil {
		t.Fatalf("Put: %v", err)
	}

	cfg := offlineCfg()
	cfg.EnableCatalog = true
	r := NewResolver(cfg, store, nil)

	// Wikidata is disabled, so the query is used directly as the label.
	result, _, err := r.Resolve(context.Background(), "", "nintendo switch PRO controller", nil)
	if err != nil {
		t.Fatalf("Resolve error: %v", err)
	}
	if result == nil {
		t.Fatal("result = nil, want catalog hit by name")
	}
	if result.Dims[types.AxisH] != 60 {
		t.Errorf("H = %g, want 60", result.Dims[types.AxisH])
	}
}

func TestResolveMergesPageIntoAnswer(t *testing.T) {
	page := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(`<html><body><script type="application/ld+json">
			{"@type":"Product",
			 "depth":{"@type":"QuantitativeValue","value":150,"unitCode":"MMT"},
			 "width":{"@type":"QuantitativeValue","value":100,"unitCode":"MMT"}}
			</script></body></html>`))
	}))
	defer page.Close()

	cfg := offlineCfg()
	cfg.EnableSchemaOrg = true
	r := NewResolver(cfg, nil, nil)

	result, _, err := r.Resolve(context.Background(), "", "", []string{page.URL})
	if err != nil {
		t.Fatalf("Resolve error: %v", err)
	}
	if result == nil {
		t.Fatal("result = nil, want schema.org hit")
	}
	if result.Dims[types.AxisL] != 150 || result.Dims[types.AxisW] != 100 {
		t.Errorf("dims = %v, want L=150 W=100", result.Dims)
	}
	if result.Confidence != 0.9 {
		t.Errorf("confidence = %g, want 0.9", result.Confidence)
	}
}

func TestResolveIgnoresMalformedID(t *testing.T) {
	var warnings bytes.Buffer
	r := NewResolver(offlineCfg(), nil, &warnings)

	result, resolvedID, err := r.Resolve(context.Background(), "not-a-qid", "", nil)
	if err != nil {
		t.Fatalf("Resolve error: %v", err)
	}
	if result != nil {
		t.Errorf("result = %+v, want nil", result)
	}
	if resolvedID != "" {
		t.Errorf("resolvedID = %q, want empty", resolvedID)
	}
	if !strings.Contains(warnings.String(), "not a valid item id") {
		t.Errorf("warnings = %q, want malformed-id notice", warnings.String())
	}
}
