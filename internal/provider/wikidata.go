// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strconv"

	"github.com/gridfab/dimension-engine/internal/httputil"
	"github.com/gridfab/dimension-engine/internal/units"
	"github.com/gridfab/dimension-engine/pkg/types"
)

// Wikidata endpoints. Declared as vars so tests can substitute httptest
// servers.
var (
	wikidataSPARQLBase = "https://query.wikidata.org/sparql"
	wikidataSearchBase = "https://www.wikidata.org/w/api.php"
	wikidataEntityBase = "https://www.wikidata.org/wiki/"
)

// qidPattern matches Wikidata item identifiers: "Q12345".
var qidPattern = regexp.MustCompile(`^Q\d+$`)

// IsQID reports whether s has the syntactic shape of a Wikidata item
// identifier.
func IsQID(s string) bool {
	return qidPattern.MatchString(s)
}

// ResolveEntity maps a free-text query to a Wikidata item via the
// wbsearchentities API, taking the top match. An empty id with a nil
// error means the query matched nothing; callers proceed without
// identifier-based providers.
func ResolveEntity(ctx context.Context, client *http.Client, query string, cfg types.WikidataConfig) (id, label string, err error) {
	params := url.Values{
		"action":   {"wbsearchentities"},
		"search":   {query},
		"language": {"en"},
		"type":     {"item"},
		"format":   {"json"},
		"limit":    {"5"},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, wikidataSearchBase+"?"+params.Encode(), nil)
	if err != nil {
		return "", "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", cfg.UserAgent)

	resp, err := client.Do(req)
	if err != nil {
		return "", "", fmt.Errorf("Wikidata entity search: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", "", fmt.Errorf("Wikidata entity search returned HTTP %d", resp.StatusCode)
	}

	var sr struct {
		Search []struct {
			ID    string `json:"id"`
			Label string `json:"label"`
		} `json:"search"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return "", "", fmt.Errorf("parsing entity search response: %w", err)
	}

	if len(sr.Search) == 0 {
		return "", "", nil
	}
	return sr.Search[0].ID, sr.Search[0].Label, nil
}

// WikidataProvider queries the Wikidata SPARQL endpoint for canonical
// physical-quantity statements on an item.
type WikidataProvider struct {
	Client *http.Client
	Cfg    types.WikidataConfig
	// Warn receives rate-limit notices; nil discards them.
	Warn io.Writer
}

// Name returns the provider identifier.
func (p *WikidataProvider) Name() string { return "wikidata" }

// Fetch implements Provider. It requires q.ItemID; without one the
// provider contributes nothing.
func (p *WikidataProvider) Fetch(ctx context.Context, q types.ProviderQuery) (*types.DimensionResult, error) {
	result, _, err := p.FetchItem(ctx, q.ItemID)
	return result, err
}

// FetchItem queries height, width, length, depth, thickness, and diameter
// statements for qid, each with its unit and reference count, and returns
// the normalized result plus the item's official website when one is
// declared. The official site is a candidate page for the embedded-metadata
// provider.
func (p *WikidataProvider) FetchItem(ctx context.Context, qid string) (*types.DimensionResult, string, error) {
	if !IsQID(qid) {
		return nil, "", nil
	}

	params := url.Values{
		"query":  {sparqlForItem(qid)},
		"format": {"json"},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, wikidataSPARQLBase+"?"+params.Encode(), nil)
	if err != nil {
		return nil, "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", p.Cfg.UserAgent)
	req.Header.Set("Accept", "application/sparql-results+json")

	resp, err := httputil.DoWithRetry(ctx, p.Client, req, p.Cfg.MaxRetries, p.Warn)
	if err != nil {
		return nil, "", fmt.Errorf("Wikidata SPARQL request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("Wikidata SPARQL returned HTTP %d", resp.StatusCode)
	}

	var sr sparqlResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return nil, "", fmt.Errorf("parsing SPARQL response: %w", err)
	}

	rows := sr.Results.Bindings
	if len(rows) == 0 {
		return nil, "", nil
	}

	dims := make(types.DimensionSet)
	refsTotal := 0
	official := ""
	label := ""
	for _, b := range rows {
		amount, err := strconv.ParseFloat(b.Amount.Value, 64)
		if err != nil {
			continue
		}
		// A row whose unit fails normalization is skipped, not fatal.
		mm, ok := units.ToMillimeters(amount, b.Unit.Value)
		if !ok {
			continue
		}

		switch b.Prop.Value {
		case "height":
			dims[types.AxisH] = mm
		case "width":
			dims[types.AxisW] = mm
		case "length", "depth":
			// Both properties map to L; keep the first occurrence so a
			// length statement is not clobbered by a depth statement.
			dims.SetIfAbsent(types.AxisL, mm)
		case "thickness":
			dims[types.AxisThickness] = mm
		case "diameter":
			dims[types.AxisDiameter] = mm
		}

		if b.Refs.Value != "" {
			if n, err := strconv.Atoi(b.Refs.Value); err == nil {
				refsTotal += n
			}
		}
		if b.Official.Value != "" {
			official = b.Official.Value
		}
		if b.Label.Value != "" {
			label = b.Label.Value
		}
	}

	if len(dims) == 0 {
		return nil, official, nil
	}

	confidence := 0.8
	if refsTotal > 0 {
		confidence += 0.1
	}
	if confidence > 0.95 {
		confidence = 0.95
	}

	return &types.DimensionResult{
		ItemID:     qid,
		Name:       label,
		Dims:       dims,
		Source:     "wikidata",
		SourceURL:  wikidataEntityBase + qid,
		Confidence: confidence,
		Evidence:   []string{fmt.Sprintf("SPARQL rows=%d refs_total=%d", len(rows), refsTotal)},
		Raw:        rows,
	}, official, nil
}

// sparqlForItem builds the quantity query for one item. Each VALUES row
// pairs a property with the axis name the binding loop switches on.
func sparqlForItem(qid string) string {
	return fmt.Sprintf(`SELECT ?prop ?amount ?unit (COUNT(?ref) AS ?refs) ?label ?official WHERE {
  VALUES (?p ?psv ?prop) {
    (p:P2048 psv:P2048 "height")
    (p:P2049 psv:P2049 "width")
    (p:P2043 psv:P2043 "length")
    (p:P4511 psv:P4511 "depth")
    (p:P2610 psv:P2610 "thickness")
    (p:P2386 psv:P2386 "diameter")
  }
  wd:%s ?p ?st .
  ?st ?psv ?vn .
  ?vn wikibase:quantityAmount ?amount ;
      wikibase:quantityUnit ?unit .
  OPTIONAL { ?st prov:wasDerivedFrom ?ref . }
  OPTIONAL { wd:%s rdfs:label ?label . FILTER(LANG(?label) = "en") }
  OPTIONAL { wd:%s wdt:P856 ?official . }
}
GROUP BY ?prop ?amount ?unit ?label ?official`, qid, qid, qid)
}

// SPARQL results JSON structures. Only the fields the binding loop reads
// are declared.
type sparqlResponse struct {
	Results struct {
		Bindings []sparqlBinding `json:"bindings"`
	} `json:"results"`
}

type sparqlBinding struct {
	Prop     sparqlValue `json:"prop"`
	Amount   sparqlValue `json:"amount"`
	Unit     sparqlValue `json:"unit"`
	Refs     sparqlValue `json:"refs"`
	Label    sparqlValue `json:"label"`
	Official sparqlValue `json:"official"`
}

type sparqlValue struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}
