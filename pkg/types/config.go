// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// DefaultUserAgent identifies the engine to the public APIs it queries.
const DefaultUserAgent = "dimension-engine/0.1"

// HTTPConfig holds shared HTTP settings used by providers that make
// network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "dimension-engine/0.1"). Wikimedia APIs ask for a contact
	// address here; see internal/secrets.
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// ParserConfig holds settings for free-text dimension parsing.
type ParserConfig struct {
	// DefaultUnit is assumed when a dimension string carries numbers but
	// no unit token (default "mm"). Data-dependent: sources that print
	// bare centimeter triplets need this overridden, otherwise every
	// value is silently wrong by a factor of ten.
	DefaultUnit string `json:"default_unit" yaml:"default_unit"`
}

// WikidataConfig holds settings for the Wikidata entity resolver and
// structured-quantity provider.
type WikidataConfig struct {
	HTTPConfig `yaml:",inline"`

	// MaxRetries bounds 429 retries on the SPARQL endpoint (0 = default).
	MaxRetries int `json:"max_retries" yaml:"max_retries"`
}

// SchemaOrgConfig holds settings for the embedded-metadata provider.
type SchemaOrgConfig struct {
	HTTPConfig `yaml:",inline"`
}

// WikipediaConfig holds settings for the encyclopedia infobox provider.
type WikipediaConfig struct {
	HTTPConfig `yaml:",inline"`
}

// CatalogConfig holds settings for the local catalog store.
type CatalogConfig struct {
	// CatalogDir is the directory holding the SQLite database (contains
	// catalog.db).
	CatalogDir string `json:"catalog_dir" yaml:"catalog_dir"`

	// SeedFile is an optional YAML file of known objects loaded into the
	// catalog so resolution works offline.
	SeedFile string `json:"seed_file,omitempty" yaml:"seed_file,omitempty"`
}

// ResolveConfig groups all settings for a resolution request.
type ResolveConfig struct {
	Parser    ParserConfig    `json:"parser" yaml:"parser"`
	Wikidata  WikidataConfig  `json:"wikidata" yaml:"wikidata"`
	SchemaOrg SchemaOrgConfig `json:"schema_org" yaml:"schema_org"`
	Wikipedia WikipediaConfig `json:"wikipedia" yaml:"wikipedia"`
	Catalog   CatalogConfig   `json:"catalog" yaml:"catalog"`

	// EnableWikidata controls the structured knowledge provider.
	EnableWikidata bool `json:"enable_wikidata" yaml:"enable_wikidata"`

	// EnableSchemaOrg controls the embedded-metadata provider.
	EnableSchemaOrg bool `json:"enable_schema_org" yaml:"enable_schema_org"`

	// EnableWikipedia controls the encyclopedia fallback provider.
	EnableWikipedia bool `json:"enable_wikipedia" yaml:"enable_wikipedia"`

	// EnableCatalog controls the local catalog cache and offline fallback.
	EnableCatalog bool `json:"enable_catalog" yaml:"enable_catalog"`
}

// DefaultResolveConfig returns the settings used when no config file
// overrides them.
func DefaultResolveConfig() ResolveConfig {
	return ResolveConfig{
		Parser: ParserConfig{DefaultUnit: "mm"},
		Wikidata: WikidataConfig{
			HTTPConfig: HTTPConfig{Timeout: 20 * time.Second, UserAgent: DefaultUserAgent},
		},
		SchemaOrg: SchemaOrgConfig{
			HTTPConfig: HTTPConfig{Timeout: 20 * time.Second, UserAgent: DefaultUserAgent},
		},
		Wikipedia: WikipediaConfig{
			HTTPConfig: HTTPConfig{Timeout: 15 * time.Second, UserAgent: DefaultUserAgent},
		},
		Catalog:         CatalogConfig{CatalogDir: "catalog"},
		EnableWikidata:  true,
		EnableSchemaOrg: true,
		EnableWikipedia: true,
		EnableCatalog:   true,
	}
}
