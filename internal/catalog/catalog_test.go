// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package catalog

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/gridfab/dimension-engine/pkg/types"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(types.CatalogConfig{CatalogDir: t.TempDir()})
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestPutGetRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	in := types.DimensionResult{
		ItemID:     "Q12345",
		Name:       "Test Widget",
		Dims:       types.DimensionSet{types.AxisL: 152, types.AxisW: 106, types.AxisH: 60},
		Source:     "wikidata",
		SourceURL:  "https://www.wikidata.org/wiki/Q12345",
		Confidence: 0.9,
		Evidence:   []string{"SPARQL rows=3 refs_total=2"},
	}
	if err := store.Put(ctx, in); err != nil {
		t.Fatalf("Put: %v", err)
	}

	out, err := store.Get(ctx, "Q12345")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if out == nil {
		t.Fatal("Get returned nil")
	}
	if out.ItemID != in.ItemID || out.Name != in.Name || out.Source != in.Source {
		t.Errorf("identity fields = %q %q %q", out.ItemID, out.Name, out.Source)
	}
	if out.Confidence != 0.9 {
		t.Errorf("confidence = %g, want 0.9", out.Confidence)
	}
	for axis, mm := range in.Dims {
		if out.Dims[axis] != mm {
			t.Errorf("%s = %g, want %g", axis, out.Dims[axis], mm)
		}
	}
	if len(out.Evidence) != 1 || out.Evidence[0] != in.Evidence[0] {
		t.Errorf("evidence = %v", out.Evidence)
	}
}

func TestPutUpsertsOnSameID(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	first := types.DimensionResult{
		ItemID:     "Q1",
		Name:       "Thing",
		Dims:       types.DimensionSet{types.AxisL: 10},
		Source:     "wikidata",
		Confidence: 0.8,
	}
	if err := store.Put(ctx, first); err != nil {
		t.Fatalf("Put: %v", err)
	}

	first.Dims = types.DimensionSet{types.AxisL: 20}
	first.Confidence = 0.9
	first.Source = "schema.org"
	if err := store.Put(ctx, first); err != nil {
		t.Fatalf("Put (update): %v", err)
	}

	out, err := store.Get(ctx, "Q1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if out.Dims[types.AxisL] != 20 {
		t.Errorf("L = %g, want updated 20", out.Dims[types.AxisL])
	}
	if out.Confidence != 0.9 || out.Source != "schema.org" {
		t.Errorf("confidence/source = %g/%q, want 0.9/schema.org", out.Confidence, out.Source)
	}
}

func TestGetMissingReturnsNil(t *testing.T) {
	store := newTestStore(t)

	out, err := store.Get(context.Background(), "Q404")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if out != nil {
		t.Errorf("out = %+v, want nil", out)
	}
}

func TestGetByNameNormalizes(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	in := types.DimensionResult{
		Name:       "Nintendo Switch Pro Controller",
		Dims:       types.DimensionSet{types.AxisL: 152},
		Source:     "catalog",
		Confidence: SeedConfidence,
	}
	if err := store.Put(ctx, in); err != nil {
		t.Fatalf("Put: %v", err)
	}

	out, err := store.GetByName(ctx, "  nintendo   switch PRO controller ")
	if err != nil {
		t.Fatalf("GetByName: %v", err)
	}
	if out == nil {
		t.Fatal("GetByName returned nil")
	}
	if out.Name != in.Name {
		t.Errorf("name = %q", out.Name)
	}
	// Name-keyed rows carry no knowledge-base id.
	if out.ItemID != "" {
		t.Errorf("ItemID = %q, want empty", out.ItemID)
	}
}

func TestPutIgnoresKeylessResult(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if err := store.Put(ctx, types.DimensionResult{Dims: types.DimensionSet{types.AxisL: 1}}); err != nil {
		t.Fatalf("Put: %v", err)
	}
	items, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(items) != 0 {
		t.Errorf("items = %v, want none", items)
	}
}

func TestList(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	for _, r := range []types.DimensionResult{
		{ItemID: "Q2", Name: "Beta", Dims: types.DimensionSet{types.AxisL: 2}, Source: "wikidata", Confidence: 0.8},
		{ItemID: "Q1", Name: "Alpha", Dims: types.DimensionSet{types.AxisL: 1}, Source: "wikidata", Confidence: 0.8},
	} {
		if err := store.Put(ctx, r); err != nil {
			t.Fatalf("Put: %v", err)
		}
	}

	items, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("len(items) = %d, want 2", len(items))
	}
	if items[0].Name != "Alpha" || items[1].Name != "Beta" {
		t.Errorf("order = %q, %q, want Alpha, Beta", items[0].Name, items[1].Name)
	}
}

const seedYAML = `
- id: Q99045413
  name: Nintendo Switch Pro Controller
  dims_mm:
    L: 152
    W: 106
    H: 60
  source_url: https://www.nintendo.com/
- name: US Letter Paper
  dims_mm:
    L: 279.4
    W: 215.9
    THICKNESS: 0.1
`

func writeSeed(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "seed.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing seed file: %v", err)
	}
	return path
}

func TestSeedFromYAML(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	inserted, err := store.SeedFromYAML(ctx, writeSeed(t, seedYAML))
	if err != nil {
		t.Fatalf("SeedFromYAML: %v", err)
	}
	if inserted != 2 {
		t.Errorf("inserted = %d, want 2", inserted)
	}

	byID, err := store.Get(ctx, "Q99045413")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if byID == nil {
		t.Fatal("seeded item missing by id")
	}
	if byID.Confidence != SeedConfidence {
		t.Errorf("confidence = %g, want %g", byID.Confidence, SeedConfidence)
	}
	if byID.Source != "catalog" {
		t.Errorf("source = %q, want catalog", byID.Source)
	}

	byName, err := store.GetByName(ctx, "us letter paper")
	if err != nil {
		t.Fatalf("GetByName: %v", err)
	}
	if byName == nil {
		t.Fatal("seeded item missing by name")
	}
	if byName.Dims[types.AxisThickness] != 0.1 {
		t.Errorf("THICKNESS = %g, want 0.1", byName.Dims[types.AxisThickness])
	}
}

func TestSeedDoesNotOverwriteResolved(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	resolved := types.DimensionResult{
		ItemID:     "Q99045413",
		Name:       "Nintendo Switch Pro Controller",
		Dims:       types.DimensionSet{types.AxisL: 152.1},
		Source:     "wikidata",
		Confidence: 0.9,
	}
	if err := store.Put(ctx, resolved); err != nil {
		t.Fatalf("Put: %v", err)
	}

	inserted, err := store.SeedFromYAML(ctx, writeSeed(t, seedYAML))
	if err != nil {
		t.Fatalf("SeedFromYAML: %v", err)
	}
	if inserted != 1 {
		t.Errorf("inserted = %d, want 1 (existing row ignored)", inserted)
	}

	out, err := store.Get(ctx, "Q99045413")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if out.Source != "wikidata" || out.Dims[types.AxisL] != 152.1 {
		t.Errorf("resolved row was overwritten: %+v", out)
	}
}

func TestSeedRejectsUnknownAxis(t *testing.T) {
	store := newTestStore(t)

	_, err := store.SeedFromYAML(context.Background(), writeSeed(t, `
- name: Bad Entry
  dims_mm:
    DEPTH: 10
`))
	if err == nil {
		t.Fatal("expected error for unknown axis key")
	}
}

func TestSeedRejectsNonPositive(t *testing.T) {
	store := newTestStore(t)

	_, err := store.SeedFromYAML(context.Background(), writeSeed(t, `
- name: Bad Entry
  dims_mm:
    L: 0
`))
	if err == nil {
		t.Fatal("expected error for non-positive dimension")
	}
}
