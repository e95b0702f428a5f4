// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/gridfab/dimension-engine/internal/catalog"
	"github.com/gridfab/dimension-engine/internal/resolve"
	"github.com/gridfab/dimension-engine/internal/secrets"
	"github.com/gridfab/dimension-engine/pkg/types"
)

var resolveCmd = &cobra.Command{
	Use:   "resolve",
	Short: "Resolve an object's dimensions from all available sources",
	Long: `Resolve answers a dimension query from any combination of a knowledge-base
id (a Wikidata QID), a free-text name, and candidate product-page URLs.
Sources are queried concurrently and merged by confidence; the result is
cached in the local catalog.

Examples:
  dimension-engine resolve --query "Nintendo Switch Pro Controller"
  dimension-engine resolve --id Q99045413 --json
  dimension-engine resolve --url https://example.com/product/widget`,
	RunE: runResolve,
}

func init() {
	resolveCmd.Flags().String("id", "", "knowledge-base item id (e.g. Q99045413)")
	resolveCmd.Flags().String("query", "", "free-text object name")
	resolveCmd.Flags().StringSlice("url", nil, "candidate product-page URL (repeatable)")
	resolveCmd.Flags().String("default-unit", "", "unit assumed for bare numeric dimensions (default mm)")
	resolveCmd.Flags().Duration("timeout", 0, "HTTP request timeout for all providers (default per-provider)")
	resolveCmd.Flags().String("catalog-dir", "", "directory for the catalog database (default catalog)")
	resolveCmd.Flags().Bool("no-catalog", false, "skip the catalog cache and offline fallback")
	resolveCmd.Flags().Bool("no-wikipedia", false, "skip the encyclopedia infobox fallback")
	resolveCmd.Flags().Bool("json", false, "output the result as JSON")

	rootCmd.AddCommand(resolveCmd)
}

// resolveConfig assembles the request config: built-in defaults, then the
// config file, then flags.
func resolveConfig(cmd *cobra.Command) types.ResolveConfig {
	cfg := types.DefaultResolveConfig()

	if v := viper.GetString("parser.default_unit"); v != "" {
		cfg.Parser.DefaultUnit = v
	}
	if v := viper.GetString("catalog.catalog_dir"); v != "" {
		cfg.Catalog.CatalogDir = v
	}
	if v := viper.GetString("catalog.seed_file"); v != "" {
		cfg.Catalog.SeedFile = v
	}

	if v, _ := cmd.Flags().GetString("default-unit"); v != "" {
		cfg.Parser.DefaultUnit = v
	}
	if v, _ := cmd.Flags().GetString("catalog-dir"); v != "" {
		cfg.Catalog.CatalogDir = v
	}
	if timeout, _ := cmd.Flags().GetDuration("timeout"); timeout != 0 {
		cfg.Wikidata.Timeout = timeout
		cfg.SchemaOrg.Timeout = timeout
		cfg.Wikipedia.Timeout = timeout
	}
	if noCatalog, _ := cmd.Flags().GetBool("no-catalog"); noCatalog {
		cfg.EnableCatalog = false
	}
	if noWikipedia, _ := cmd.Flags().GetBool("no-wikipedia"); noWikipedia {
		cfg.EnableWikipedia = false
	}

	ua := secrets.UserAgent(types.DefaultUserAgent, loadedSecrets)
	cfg.Wikidata.UserAgent = ua
	cfg.SchemaOrg.UserAgent = ua
	cfg.Wikipedia.UserAgent = ua

	return cfg
}

func runResolve(cmd *cobra.Command, args []string) error {
	id, _ := cmd.Flags().GetString("id")
	query, _ := cmd.Flags().GetString("query")
	urls, _ := cmd.Flags().GetStringSlice("url")
	if id == "" && query == "" && len(urls) == 0 && len(args) > 0 {
		query = strings.Join(args, " ")
	}

	cfg := resolveConfig(cmd)

	var store *catalog.Store
	if cfg.EnableCatalog {
		s, err := catalog.NewStore(cfg.Catalog)
		if err != nil {
			return err
		}
		defer s.Close()
		if cfg.Catalog.SeedFile != "" {
			if _, err := s.SeedFromYAML(cmd.Context(), cfg.Catalog.SeedFile); err != nil {
				return err
			}
		}
		store = s
	}

	resolver := resolve.NewResolver(cfg, store, os.Stderr)

	ctx, cancel := context.WithTimeout(cmd.Context(), 2*time.Minute)
	defer cancel()

	result, resolvedID, err := resolver.Resolve(ctx, id, query, urls)
	if err != nil {
		return err
	}
	if result == nil {
		if resolvedID != "" {
			return fmt.Errorf("no dimensions found for %s", resolvedID)
		}
		return fmt.Errorf("no dimensions found")
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	return formatResolveOutput(result, jsonOutput)
}

func formatResolveOutput(result *types.DimensionResult, jsonOutput bool) error {
	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}

	if result.Name != "" {
		fmt.Fprintf(os.Stdout, "Name:       %s\n", result.Name)
	}
	if result.ItemID != "" {
		fmt.Fprintf(os.Stdout, "Item:       %s\n", result.ItemID)
	}
	fmt.Fprintf(os.Stdout, "Dimensions: %s\n", result.Dims)
	fmt.Fprintf(os.Stdout, "Source:     %s (confidence %.2f)\n", result.Source, result.Confidence)
	if result.SourceURL != "" {
		fmt.Fprintf(os.Stdout, "URL:        %s\n", result.SourceURL)
	}
	for _, e := range result.Evidence {
		fmt.Fprintf(os.Stdout, "Evidence:   %s\n", e)
	}
	return nil
}
