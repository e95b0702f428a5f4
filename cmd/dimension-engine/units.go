package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/gridfab/dimension-engine/internal/units"
)

var unitsCmd = &cobra.Command{
	Use:   "units",
	Short: "Inspect the unit conversion table",
}

var unitsConvertCmd = &cobra.Command{
	Use:   "convert AMOUNT UNIT",
	Short: "Convert a length to millimeters",
	Long: `Convert normalizes a length to millimeters. UNIT accepts the same forms
the providers see in the wild: unit symbols (cm, in, ft), UN/CEFACT codes
(CMT, INH), and knowledge-base unit URIs.

Example:
  dimension-engine units convert 10.6 cm`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		amount, err := strconv.ParseFloat(args[0], 64)
		if err != nil {
			return fmt.Errorf("invalid amount %q: %w", args[0], err)
		}
		mm, ok := units.ToMillimeters(amount, args[1])
		if !ok {
			return fmt.Errorf("unknown unit %q", args[1])
		}
		fmt.Printf("%g mm\n", mm)
		return nil
	},
}

func init() {
	unitsCmd.AddCommand(unitsConvertCmd)
	rootCmd.AddCommand(unitsCmd)
}
