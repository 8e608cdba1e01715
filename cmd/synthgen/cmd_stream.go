package main

import (
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"pkg.jsn.cam/synthgen/internal/datasets"
	"pkg.jsn.cam/synthgen/internal/ledger"
	"pkg.jsn.cam/synthgen/internal/runner"
	"pkg.jsn.cam/synthgen/pkg/sink"
)

var streamFlags struct {
	count    int64
	interval time.Duration
	model    string
}

var streamCmd = &cobra.Command{
	Use:   "stream",
	Short: "Stream vehicle telemetry as JSON lines on stdout",
	Long: `Stream simulated vehicle telemetry, one JSON object per line, until
interrupted or until --count records were written. Speed, rpm and throttle
readings are occasionally corrupted.`,
	Args: cobra.NoArgs,
	RunE: runStream,
}

func init() {
	f := streamCmd.Flags()
	f.Int64VarP(&streamFlags.count, "count", "n", 0, "stop after this many records; 0 streams until interrupted")
	f.DurationVar(&streamFlags.interval, "interval", time.Second, "pause between records")
	f.StringVar(&streamFlags.model, "model", "", "vehicle model reported in every record")
}

func runStream(cmd *cobra.Command, _ []string) error {
	if cmd.Flags().Changed("interval") {
		cfg.Interval = streamFlags.interval
	}
	if cmd.Flags().Changed("model") {
		cfg.Datasets.Telemetry.Model = streamFlags.model
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	gen, err := datasets.Build("telemetry", seed, cfg.Datasets)
	if err != nil {
		return err
	}

	ctx, stop := signalContext(cmd)
	defer stop()

	run := ledger.NewRun("telemetry", gen.Format(), "", seed)
	logger.Info("streaming telemetry",
		zap.String("model", cfg.Datasets.Telemetry.Model),
		zap.Duration("interval", cfg.Interval),
		zap.Uint64("seed", seed),
		zap.Stringer("run", run.ID))

	sum, err := runner.Run(ctx, gen, sink.NewJSONLines(cmd.OutOrStdout()), runner.Options{
		Limit:    streamFlags.count,
		Interval: cfg.Interval,
		Logger:   logger,
	})
	if err != nil {
		return err
	}
	run.Finish(sum.Rows, 0, gen.Tally())
	run.Interrupted = sum.Interrupted

	if l := openLedger(); l != nil {
		recordRun(l, run)
		l.Close()
	}
	logger.Info("stream stopped",
		zap.Int64("rows", sum.Rows),
		zap.Int64("defects", sum.Corrupted),
		zap.Duration("took", sum.Duration))
	return nil
}
