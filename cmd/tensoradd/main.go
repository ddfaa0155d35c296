// Command tensoradd inspects and benchmarks the block-sparse add engine.
//
// Usage:
//
//	tensoradd kernels
//	tensoradd bench [flags]
//
// Examples:
//
//	tensoradd kernels --force-generic
//	tensoradd bench --strategy trace --dense 8 --indexed 6 --density 0.5
//	tensoradd bench --config engine.toml --type complex128 --repeat 10
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/cwbudde/algo-tensor/ops"
)

type globalFlags struct {
	config       string
	workers      int
	forceGeneric bool
	logLevel     string
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var g globalFlags

	root := &cobra.Command{
		Use:           "tensoradd",
		Short:         "inspect and benchmark the block-sparse add engine",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	pf := root.PersistentFlags()
	pf.StringVar(&g.config, "config", "", "TOML engine config file")
	pf.IntVar(&g.workers, "workers", 0, "worker team size (0: config value or GOMAXPROCS)")
	pf.BoolVar(&g.forceGeneric, "force-generic", false, "use the pure Go kernels only")
	pf.StringVar(&g.logLevel, "log-level", "warn", "log level (debug, info, warn, error)")

	root.AddCommand(newKernelsCmd(&g), newBenchCmd(&g))
	return root
}

// engineConfig merges the config file with command-line overrides.
func (g *globalFlags) engineConfig() (ops.Config, error) {
	var cfg ops.Config
	if g.config != "" {
		var err error
		if cfg, err = ops.LoadConfig(g.config); err != nil {
			return ops.Config{}, err
		}
	}
	if g.workers > 0 {
		cfg.Workers = g.workers
	}
	if g.forceGeneric {
		cfg.ForceGeneric = true
	}
	return cfg, nil
}

func (g *globalFlags) logger() (*zap.Logger, error) {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(g.logLevel)); err != nil {
		return nil, err
	}
	cfg := zap.NewProductionConfig()
	if level == zapcore.DebugLevel {
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.Level = zap.NewAtomicLevelAt(level)
	return cfg.Build()
}
