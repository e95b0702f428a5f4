// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package provider

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"golang.org/x/net/html"

	"github.com/gridfab/dimension-engine/internal/dimparse"
	"github.com/gridfab/dimension-engine/pkg/types"
)

// wikipediaPageBase is the article URL prefix. Declared as a var so tests
// can substitute an httptest server. English Wikipedia only for now.
var wikipediaPageBase = "https://en.wikipedia.org/wiki/"

// WikipediaProvider reads the "Dimensions" infobox row of an encyclopedia
// article. It is the lowest-trust source: free text scraped out of
// presentation markup.
type WikipediaProvider struct {
	Client *http.Client
	Cfg    types.WikipediaConfig
	// DefaultUnit is applied when the infobox cell carries no unit token.
	DefaultUnit string
}

// Name returns the provider identifier.
func (p *WikipediaProvider) Name() string { return "wikipedia" }

// Fetch implements Provider. It requires q.Label, used as the article
// title.
func (p *WikipediaProvider) Fetch(ctx context.Context, q types.ProviderQuery) (*types.DimensionResult, error) {
	if q.Label == "" {
		return nil, nil
	}
	return p.FetchTitle(ctx, q.Label)
}

// FetchTitle downloads the article for title and parses its infobox
// "Dimensions" cell. A missing article, missing row, or unparseable cell
// yields nil.
func (p *WikipediaProvider) FetchTitle(ctx context.Context, title string) (*types.DimensionResult, error) {
	pageURL := wikipediaPageBase + strings.ReplaceAll(title, " ", "_")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", p.Cfg.UserAgent)

	resp, err := p.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", pageURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, nil
	}

	doc, err := html.Parse(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parsing HTML from %s: %w", pageURL, err)
	}

	cell := dimensionsCell(doc)
	if cell == "" {
		return nil, nil
	}

	dims, ok := dimparse.Normalize(cell, p.DefaultUnit)
	if !ok {
		return nil, nil
	}

	return &types.DimensionResult{
		Dims:       dims,
		Source:     "wikipedia_infobox",
		SourceURL:  pageURL,
		Confidence: 0.6,
		Evidence:   []string{"Infobox cell: " + cell},
		Raw:        cell,
	}, nil
}

// dimensionsCell returns the collapsed text of the data cell in the first
// table row whose header cell reads "Dimensions" (case-insensitive), or
// "" when no such row exists.
func dimensionsCell(doc *html.Node) string {
	var cell string
	var walk func(*html.Node) bool
	walk = func(n *html.Node) bool {
		if n.Type == html.ElementNode && n.Data == "tr" {
			if td := dimensionsRowData(n); td != nil {
				cell = collapseText(td)
				return true
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if walk(c) {
				return true
			}
		}
		return false
	}
	walk(doc)
	return cell
}

// dimensionsRowData returns the <td> of a row whose <th> text equals
// "dimensions", or nil.
func dimensionsRowData(tr *html.Node) *html.Node {
	var th, td *html.Node
	for c := tr.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode {
			continue
		}
		switch c.Data {
		case "th":
			if th == nil {
				th = c
			}
		case "td":
			if td == nil {
				td = c
			}
		}
	}
	if th == nil || td == nil {
		return nil
	}
	if !strings.EqualFold(collapseText(th), "dimensions") {
		return nil
	}
	return td
}

// collapseText strips all markup under n and collapses runs of
// whitespace to single spaces.
func collapseText(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
			b.WriteString(" ")
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.Join(strings.Fields(b.String()), " ")
}
