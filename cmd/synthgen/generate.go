package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"pkg.jsn.cam/synthgen/internal/datasets"
	"pkg.jsn.cam/synthgen/internal/ledger"
	"pkg.jsn.cam/synthgen/internal/runner"
	"pkg.jsn.cam/synthgen/pkg/sink"
)

var errStreamOnly = errors.New("dataset streams to stdout; use the stream command")

// outputDir is where a dataset's file goes.
func outputDir(gen datasets.Generator) string {
	if gen.Format() == sink.FormatSQL {
		return cfg.SQLPath()
	}
	return cfg.OutputDir
}

// progress is the progress bar destination, nil when hidden.
func progress(cmd *cobra.Command) io.Writer {
	if rootFlags.quiet {
		return nil
	}
	return cmd.ErrOrStderr()
}

// openLedger returns nil when the ledger is off or cannot be opened. Run
// history is best effort and never blocks generation.
func openLedger() *ledger.Ledger {
	path := cfg.LedgerPath()
	if path == "" {
		return nil
	}
	l, err := ledger.OpenFile(path, logger)
	if err != nil {
		logger.Warn("run ledger unavailable", zap.String("path", path), zap.Error(err))
		return nil
	}
	return l
}

func recordRun(l *ledger.Ledger, run *ledger.Run) {
	if l == nil {
		return
	}
	if err := l.Record(run); err != nil {
		logger.Warn("failed to record run", zap.Stringer("run", run.ID), zap.Error(err))
	}
}

// generateFiles writes each named dataset to its own file, in order. It stops
// at the first failure or when interrupted.
func generateFiles(cmd *cobra.Command, names []string) error {
	for _, name := range names {
		if _, err := datasets.Get(name); err != nil {
			return err
		}
	}

	ctx, stop := signalContext(cmd)
	defer stop()

	l := openLedger()
	if l != nil {
		defer l.Close()
	}

	out := cmd.OutOrStdout()
	for _, name := range names {
		run, err := generateFile(ctx, cmd, name)
		if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		recordRun(l, run)

		logger.Info("dataset generated",
			zap.String("dataset", name),
			zap.String("path", run.Path),
			zap.Int64("rows", run.Rows),
			zap.String("size", humanize.Bytes(uint64(run.Bytes))),
			zap.Int64("defects", run.Corrupted()),
			zap.Duration("took", run.Duration()),
			zap.Stringer("run", run.ID))
		fmt.Fprintf(out, "%s: %s rows, %s, %s defects -> %s\n",
			name, humanize.Comma(run.Rows), humanize.Bytes(uint64(run.Bytes)),
			humanize.Comma(run.Corrupted()), run.Path)

		if run.Interrupted {
			return fmt.Errorf("%s: interrupted after %s rows", name, humanize.Comma(run.Rows))
		}
	}
	return nil
}

// generateFile runs one dataset into its output file, replacing any file
// left by an earlier run.
func generateFile(ctx context.Context, cmd *cobra.Command, name string) (*ledger.Run, error) {
	gen, err := datasets.Build(name, seed, cfg.Datasets)
	if err != nil {
		return nil, err
	}
	if gen.FileName() == "" {
		return nil, errStreamOnly
	}

	path := filepath.Join(outputDir(gen), gen.FileName())
	f, err := sink.Create(path)
	if err != nil {
		return nil, err
	}
	w, err := sink.New(gen.Format(), f, gen.Schema())
	if err != nil {
		f.Close()
		return nil, err
	}

	run := ledger.NewRun(name, gen.Format(), path, seed)
	logger.Debug("generating dataset",
		zap.String("dataset", name),
		zap.String("path", path),
		zap.Int64("rows", gen.Count()),
		zap.Stringer("run", run.ID))

	sum, runErr := runner.Run(ctx, gen, w, runner.Options{
		Progress: progress(cmd),
		Logger:   logger,
	})
	closeErr := errors.Join(w.Close(), f.Close())
	if runErr != nil {
		return nil, runErr
	}
	if closeErr != nil {
		return nil, closeErr
	}

	run.Finish(sum.Rows, f.Bytes(), gen.Tally())
	run.Interrupted = sum.Interrupted
	return run, nil
}
