// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"golang.org/x/net/html"

	"github.com/gridfab/dimension-engine/internal/dimparse"
	"github.com/gridfab/dimension-engine/internal/units"
	"github.com/gridfab/dimension-engine/pkg/types"
)

// SchemaOrgProvider mines product pages for embedded schema.org metadata.
// Manufacturer and marketplace pages commonly ship a JSON-LD Product
// record whose depth/width/height quantities are the most precise source
// of dimensions available.
type SchemaOrgProvider struct {
	Client *http.Client
	Cfg    types.SchemaOrgConfig
	// DefaultUnit is applied to unitless free-text dimension fields.
	DefaultUnit string
}

// Name returns the provider identifier.
func (p *SchemaOrgProvider) Name() string { return "schema_org" }

// Fetch implements Provider. It reads the first candidate URL; the
// orchestrator fans out one call per URL so every candidate is fetched
// concurrently and merged in input order.
func (p *SchemaOrgProvider) Fetch(ctx context.Context, q types.ProviderQuery) (*types.DimensionResult, error) {
	if len(q.URLs) == 0 {
		return nil, nil
	}
	return p.FetchURL(ctx, q.URLs[0])
}

// FetchURL downloads the page at rawURL and extracts dimensions from its
// Product records. A page without usable Product data yields nil.
func (p *SchemaOrgProvider) FetchURL(ctx context.Context, rawURL string) (*types.DimensionResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", p.Cfg.UserAgent)

	resp, err := p.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("fetching %s: HTTP %d", rawURL, resp.StatusCode)
	}

	doc, err := html.Parse(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parsing HTML from %s: %w", rawURL, err)
	}

	products := collectProducts(jsonLDBlocks(doc))
	if len(products) == 0 {
		return nil, nil
	}

	dims := make(types.DimensionSet)
	for _, product := range products {
		// Last writer per axis wins across blocks; within-page records
		// are assumed internally consistent.
		for axis, mm := range p.extractProduct(product) {
			dims[axis] = mm
		}
	}
	if len(dims) == 0 {
		return nil, nil
	}

	confidence := 0.85
	if rawURL != "" {
		confidence = 0.9
	}

	return &types.DimensionResult{
		Dims:       dims,
		Source:     "schema.org",
		SourceURL:  rawURL,
		Confidence: confidence,
		Evidence:   []string{fmt.Sprintf("schema.org Product fields from %s", rawURL)},
		Raw:        products,
	}, nil
}

// jsonLDBlocks walks the document and decodes every
// <script type="application/ld+json"> payload.
func jsonLDBlocks(doc *html.Node) []any {
	var blocks []any
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "script" {
			for _, attr := range n.Attr {
				if attr.Key == "type" && strings.EqualFold(attr.Val, "application/ld+json") {
					if n.FirstChild != nil && n.FirstChild.Type == html.TextNode {
						var payload any
						if err := json.Unmarshal([]byte(n.FirstChild.Data), &payload); err == nil {
							blocks = append(blocks, payload)
						}
					}
				}
			}
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return blocks
}

// collectProducts flattens JSON-LD payloads (single objects, arrays, and
// @graph containers) and keeps the Product-typed records.
func collectProducts(blocks []any) []map[string]any {
	var products []map[string]any
	var collect func(any)
	collect = func(v any) {
		switch node := v.(type) {
		case []any:
			for _, item := range node {
				collect(item)
			}
		case map[string]any:
			if isProductType(node["@type"]) {
				products = append(products, node)
			}
			if graph, ok := node["@graph"]; ok {
				collect(graph)
			}
		}
	}
	for _, b := range blocks {
		collect(b)
	}
	return products
}

// isProductType handles both "@type": "Product" and list-valued types.
func isProductType(t any) bool {
	switch v := t.(type) {
	case string:
		return v == "Product"
	case []any:
		for _, item := range v {
			if s, ok := item.(string); ok && s == "Product" {
				return true
			}
		}
	}
	return false
}

// extractProduct pulls dimensions from one Product record. Three shapes
// are read in precedence order; later shapes only fill axes the earlier
// ones left empty:
//
//  1. depth/width/height QuantitativeValue fields, normalized directly;
//  2. a free-text "size" field, run through the dimension parser;
//  3. additionalProperty name/value entries whose value parses as a
//     dimension string, with DIAMETER/THICKNESS remapped from the name.
func (p *SchemaOrgProvider) extractProduct(product map[string]any) types.DimensionSet {
	dims := make(types.DimensionSet)

	quantityFields := []struct {
		key  string
		axis types.Axis
	}{
		{"height", types.AxisH},
		{"width", types.AxisW},
		{"depth", types.AxisL},
	}
	for _, f := range quantityFields {
		qv, ok := product[f.key].(map[string]any)
		if !ok {
			continue
		}
		if mm, ok := quantityToMM(qv); ok {
			dims[f.axis] = mm
		}
	}

	switch size := product["size"].(type) {
	case map[string]any:
		if mm, ok := quantityToMM(size); ok {
			dims.SetIfAbsent(types.AxisL, mm)
		}
	case string:
		if parsed, ok := dimparse.Normalize(size, p.DefaultUnit); ok {
			for axis, mm := range parsed {
				dims.SetIfAbsent(axis, mm)
			}
		}
	}

	for _, ap := range additionalProperties(product) {
		name, _ := ap["name"].(string)
		value := ap["value"]
		if value == nil {
			continue
		}
		parsed, ok := dimparse.Normalize(fmt.Sprint(value), p.DefaultUnit)
		if !ok {
			continue
		}
		// A single parsed value lands on L; the property name tells us
		// when it is really a diameter or thickness.
		if v, only := soleValue(parsed); only {
			lower := strings.ToLower(name)
			switch {
			case strings.Contains(lower, "diameter"):
				parsed = types.DimensionSet{types.AxisDiameter: v}
			case strings.Contains(lower, "thickness"):
				parsed = types.DimensionSet{types.AxisThickness: v}
			}
		}
		for axis, mm := range parsed {
			dims.SetIfAbsent(axis, mm)
		}
	}

	return dims
}

// additionalProperties normalizes the additionalProperty field, which may
// be a single object or a list.
func additionalProperties(product map[string]any) []map[string]any {
	switch v := product["additionalProperty"].(type) {
	case map[string]any:
		return []map[string]any{v}
	case []any:
		var props []map[string]any
		for _, item := range v {
			if m, ok := item.(map[string]any); ok {
				props = append(props, m)
			}
		}
		return props
	}
	return nil
}

// quantityToMM converts a schema.org QuantitativeValue to millimeters.
// The unit may be a UN/CEFACT unitCode or a free-text unitText.
func quantityToMM(qv map[string]any) (float64, bool) {
	var amount float64
	switch v := qv["value"].(type) {
	case float64:
		amount = v
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, false
		}
		amount = f
	default:
		return 0, false
	}

	unit, _ := qv["unitCode"].(string)
	if unit == "" {
		unit, _ = qv["unitText"].(string)
	}
	return units.ToMillimeters(amount, unit)
}

// soleValue returns the single value of a one-axis set.
func soleValue(d types.DimensionSet) (float64, bool) {
	if len(d) != 1 {
		return 0, false
	}
	for _, v := range d {
		return v, true
	}
	return 0, false
}
