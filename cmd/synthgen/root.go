package main

import (
	"context"
	"fmt"
	"math/rand/v2"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"pkg.jsn.cam/synthgen/internal/config"
	"pkg.jsn.cam/synthgen/internal/logging"
)

// version is set at build time via -ldflags.
var version = "dev"

var rootFlags struct {
	config  string
	seed    uint64
	out     string
	verbose bool
	quiet   bool
}

// Set up by the root command before any subcommand runs.
var (
	cfg    *config.Config
	seed   uint64
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "synthgen",
	Short: "Synthetic data generators with defect injection",
	Long: `synthgen produces synthetic datasets with deliberate data-quality defects:
a vehicle telemetry stream, oil-and-gas CSV batches and SQL insert scripts.
Every value is sampled clean first and then, with a configured probability,
replaced by a missing value, a wrong-typed token or an outlier.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	CompletionOptions: cobra.CompletionOptions{
		HiddenDefaultCmd: true,
	},
}

func init() {
	f := rootCmd.PersistentFlags()
	f.StringVarP(&rootFlags.config, "config", "c", "synthgen.yaml", "config file; a missing file means defaults")
	f.Uint64Var(&rootFlags.seed, "seed", 0, "random seed; 0 picks a new one per invocation")
	f.StringVarP(&rootFlags.out, "out", "o", "", "output directory")
	f.BoolVarP(&rootFlags.verbose, "verbose", "v", false, "enable debug logging")
	f.BoolVarP(&rootFlags.quiet, "quiet", "q", false, "hide progress bars")

	rootCmd.AddCommand(streamCmd)
	rootCmd.AddCommand(batchCmd)
	rootCmd.AddCommand(sqlCmd)
	rootCmd.AddCommand(placesCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(runsCmd)
	rootCmd.Version = version
}

// setup loads the configuration, applies flag overrides and builds the logger.
func setup(cmd *cobra.Command, _ []string) error {
	c, err := config.Load(rootFlags.config)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("seed") {
		c.Seed = rootFlags.seed
	}
	if flags.Changed("out") {
		c.OutputDir = rootFlags.out
	}
	if rootFlags.verbose {
		c.Log.Level = "debug"
	}
	if err := c.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	l, err := logging.New(logging.Options{Level: c.Log.Level, Format: c.Log.Format})
	if err != nil {
		return err
	}

	cfg, logger = c, l
	seed = c.Seed
	if seed == 0 {
		seed = rand.Uint64()
	}
	logger.Debug("configuration loaded",
		zap.String("config", rootFlags.config),
		zap.String("out", cfg.OutputDir),
		zap.Uint64("seed", seed))
	return nil
}

// signalContext is cancelled on SIGINT or SIGTERM.
func signalContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
