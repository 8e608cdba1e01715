package main

import (
	"github.com/spf13/cobra"

	"pkg.jsn.cam/synthgen/internal/datasets"
)

var batchCmd = &cobra.Command{
	Use:   "batch [dataset...]",
	Short: "Write oil-and-gas CSV datasets",
	Long: `Write oil-and-gas CSV datasets to the output directory. Without arguments
the wellbore, geophysical, characterization, seismic and production datasets
are generated. Rerunning overwrites earlier files.`,
	Example: "  synthgen batch\n  synthgen batch wellbore seismic --seed 42",
	RunE: func(cmd *cobra.Command, args []string) error {
		return generateFiles(cmd, orDefault(args, datasets.BatchSets))
	},
}

var sqlCmd = &cobra.Command{
	Use:   "sql [dataset...]",
	Short: "Write CREATE TABLE and INSERT scripts",
	Long: `Write wellbore and geophysical records as SQL scripts into the SQL
directory, one CREATE TABLE statement followed by one INSERT per record.`,
	Example: "  synthgen sql\n  synthgen sql wellbore-sql",
	RunE: func(cmd *cobra.Command, args []string) error {
		return generateFiles(cmd, orDefault(args, datasets.SQLSets))
	},
}

var placesCmd = &cobra.Command{
	Use:   "places",
	Short: "Write the location-tagged wellbore CSV",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return generateFiles(cmd, []string{"places"})
	},
}

func orDefault(args, defaults []string) []string {
	if len(args) > 0 {
		return args
	}
	return defaults
}
