package main

import (
	"fmt"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	"pkg.jsn.cam/synthgen/internal/datasets"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the available datasets",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

func runList(cmd *cobra.Command, _ []string) error {
	t := table.NewWriter()
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Dataset", "Format", "Output", "Rows", "Description"})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 4, Align: text.AlignRight},
		{Number: 5, WidthMax: 60},
	})

	for _, name := range datasets.List() {
		gen, err := datasets.Build(name, seed, cfg.Datasets)
		if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}

		output, rows := "stdout", "unbounded"
		if gen.FileName() != "" {
			output = filepath.Join(outputDir(gen), gen.FileName())
		}
		if n := gen.Count(); n != datasets.Unbounded {
			rows = humanize.Comma(n)
		}
		t.AppendRow(table.Row{name, gen.Format(), output, rows, gen.Description()})
	}

	fmt.Fprintln(cmd.OutOrStdout(), t.Render())
	return nil
}
