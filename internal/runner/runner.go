// Package runner drives one generation run: it pulls records from a dataset
// generator and hands them to a sink until the generator is exhausted, the
// limit is reached or the context is cancelled.
package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/schollz/progressbar/v3"
	"go.uber.org/zap"

	"pkg.jsn.cam/synthgen/internal/datasets"
	"pkg.jsn.cam/synthgen/pkg/sink"
)

// Options controls a run.
type Options struct {
	// Limit caps the number of records. Zero or negative means the
	// generator's own count.
	Limit int64
	// Interval is the pause between consecutive records.
	Interval time.Duration
	// Progress receives a progress bar when non-nil.
	Progress io.Writer
	Logger   *zap.Logger
}

// Summary reports what a run produced.
type Summary struct {
	Rows      int64
	Corrupted int64
	Duration  time.Duration
	// Interrupted is set when the context ended the run early.
	Interrupted bool
}

// Run generates records from gen into w. The generator must already be
// initialized. Cancellation is not an error: the records written so far are
// kept and the summary is marked interrupted. The caller closes w.
func Run(ctx context.Context, gen datasets.Generator, w sink.Writer, opts Options) (Summary, error) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.Named("runner")

	limit := gen.Count()
	if opts.Limit > 0 && (limit == datasets.Unbounded || opts.Limit < limit) {
		limit = opts.Limit
	}

	bar := newBar(opts.Progress, limit, gen.Description())
	defer bar.Finish()

	var timer *time.Timer
	if opts.Interval > 0 {
		timer = time.NewTimer(opts.Interval)
		timer.Stop()
		defer timer.Stop()
	}

	start := time.Now()
	var sum Summary
	finish := func() Summary {
		sum.Duration = time.Since(start)
		if t := gen.Tally(); t != nil {
			sum.Corrupted = t.Corrupted()
		}
		return sum
	}

	for limit == datasets.Unbounded || sum.Rows < limit {
		if ctx.Err() != nil {
			sum.Interrupted = true
			break
		}

		rec, err := gen.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return finish(), fmt.Errorf("failed to generate record %d: %w", sum.Rows+1, err)
		}
		if err := w.Write(rec); err != nil {
			return finish(), err
		}
		sum.Rows++
		bar.Add64(1)

		if timer == nil || (limit != datasets.Unbounded && sum.Rows == limit) {
			continue
		}
		timer.Reset(opts.Interval)
		select {
		case <-ctx.Done():
			sum.Interrupted = true
		case <-timer.C:
		}
		if sum.Interrupted {
			break
		}
	}

	finish()
	logger.Debug("run finished",
		zap.String("dataset", gen.Schema().Name()),
		zap.Int64("rows", sum.Rows),
		zap.Int64("defects", sum.Corrupted),
		zap.Duration("took", sum.Duration),
		zap.Bool("interrupted", sum.Interrupted))
	return sum, nil
}

func newBar(w io.Writer, max int64, description string) *progressbar.ProgressBar {
	if w == nil {
		return progressbar.DefaultSilent(max)
	}
	return progressbar.NewOptions64(max,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription(description),
		progressbar.OptionShowCount(),
		progressbar.OptionSetItsString("rows"),
		progressbar.OptionShowIts(),
		progressbar.OptionThrottle(100*time.Millisecond),
		progressbar.OptionSetWidth(30),
		progressbar.OptionOnCompletion(func() { fmt.Fprintln(w) }),
	)
}
