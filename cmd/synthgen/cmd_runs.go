package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	"pkg.jsn.cam/synthgen/internal/ledger"
)

var runsFlags struct {
	limit int
	prune int
}

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Show the history of generation runs",
	Args:  cobra.NoArgs,
	RunE:  runRuns,
}

func init() {
	f := runsCmd.Flags()
	f.IntVar(&runsFlags.limit, "limit", 20, "show at most this many runs; 0 shows all")
	f.IntVar(&runsFlags.prune, "prune", -1, "delete all but the newest N runs first")
}

func runRuns(cmd *cobra.Command, _ []string) error {
	path := cfg.LedgerPath()
	if path == "" {
		return errors.New("run ledger is disabled")
	}
	l, err := ledger.OpenFile(path, logger)
	if err != nil {
		return err
	}
	defer l.Close()

	out := cmd.OutOrStdout()
	if runsFlags.prune >= 0 {
		removed, err := l.Prune(runsFlags.prune)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Pruned %d runs\n", removed)
	}

	runs, err := l.List()
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Fprintln(out, "No runs recorded")
		return nil
	}
	total := len(runs)
	if runsFlags.limit > 0 && len(runs) > runsFlags.limit {
		runs = runs[:runsFlags.limit]
	}

	t := table.NewWriter()
	t.SetStyle(table.StyleLight)
	t.Style().Format.Footer = text.FormatDefault
	t.AppendHeader(table.Row{"Run", "Dataset", "Rows", "Size", "Defects", "Seed", "Started", "Took", ""})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 3, Align: text.AlignRight},
		{Number: 4, Align: text.AlignRight},
		{Number: 5, Align: text.AlignRight},
	})
	for _, run := range runs {
		size := "-"
		if run.Bytes > 0 {
			size = humanize.Bytes(uint64(run.Bytes))
		}
		status := ""
		if run.Interrupted {
			status = "interrupted"
		}
		t.AppendRow(table.Row{
			shortID(run.ID),
			run.Dataset,
			humanize.Comma(run.Rows),
			size,
			humanize.Comma(run.Corrupted()),
			run.Seed,
			humanize.Time(run.StartedAt),
			run.Duration().Round(time.Millisecond),
			status,
		})
	}
	t.AppendFooter(table.Row{"", fmt.Sprintf("%d of %d runs", len(runs), total)})

	fmt.Fprintln(out, t.Render())
	return nil
}

// shortID is the trailing random segment of a run id. Version 7 ids lead with
// a timestamp, so runs started together share their prefix.
func shortID(id uuid.UUID) string {
	s := id.String()
	return s[len(s)-12:]
}
