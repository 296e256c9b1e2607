// Package cli implements the goroots command line.
package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/njchilds90/goroots/internal/config"
	"github.com/njchilds90/goroots/internal/history"
	"github.com/njchilds90/goroots/internal/logging"
)

var (
	// version is set at build time
	version = "dev"

	// Global flags
	cfgFile string
	verbose bool

	// Loaded by the root command before any subcommand runs
	cfg    *config.Config
	logger = zap.NewNop()
)

var rootCmd = &cobra.Command{
	Use:   "goroots",
	Short: "Find roots of single-variable functions",
	Long: `goroots finds a root of f(x) = 0 by bisection, secant or Newton-Raphson
and shows every iteration.

Examples:
  goroots solve "x^2 - 2" --method bisection --a 0 --b 2
  goroots solve "cos(x) - x" --method newton --a 1 --json
  goroots diff "exp(-x) * sin(x)"
  goroots mcp serve`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	PersistentPostRun: func(*cobra.Command, []string) {
		_ = logger.Sync()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default ./goroots.yaml or ~/.goroots/goroots.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

// Execute runs the CLI.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func setup(_ *cobra.Command, _ []string) error {
	loaded, err := config.Load(cfgFile)
	if err != nil {
		return err
	}
	if verbose {
		loaded.Log.Level = "debug"
	}
	l, err := logging.New(loaded.Log)
	if err != nil {
		return err
	}
	cfg, logger = loaded, l
	logger.Debug("config loaded",
		zap.Float64("tolerance", cfg.Solver.Tolerance),
		zap.Int("max_iter", cfg.Solver.MaxIter),
		zap.Bool("history", cfg.History.Enabled))
	return nil
}

// openHistory opens the store in the configured directory. Callers close it.
func openHistory() (*history.Store, error) {
	store, err := history.NewStore(cfg.History.Dir)
	if err != nil {
		return nil, fmt.Errorf("opening history: %w", err)
	}
	return store, nil
}
