// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the dimension-engine CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/gridfab/dimension-engine/internal/secrets"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds values loaded from .secrets/ at startup. The only
// secret the engine uses is contact-email, folded into the User-Agent
// for the Wikimedia APIs.
var loadedSecrets map[string]string

// rootCmd is the base command for the dimension-engine CLI.
var rootCmd = &cobra.Command{
	Use:   "dimension-engine",
	Short: "Resolve physical dimensions of real-world objects",
	Long: `dimension-engine resolves the physical dimensions (length, width, height,
thickness, diameter) of real-world objects by combining structured knowledge
bases, embedded product metadata, and encyclopedia infoboxes. All values are
normalized to millimeters and merged by source confidence.

Resolved objects are cached in a local SQLite catalog, which can also be
seeded from a YAML file of known objects for offline use.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		s, err := secrets.Load(".secrets/")
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			keys := make([]string, 0, len(s))
			for k := range s {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			fmt.Fprintf(os.Stderr, "Loaded secrets: %v\n", keys)
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./dimension-engine.yaml or ~/.config/dimension-engine/config.yaml)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("dimension-engine")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "dimension-engine"))
		}
	}

	viper.SetEnvPrefix("DIMENSION_ENGINE")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
