// Package cli wires the daybook command line.
package cli

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// RootOptions carries global flag values shared by subcommands.
type RootOptions struct {
	ConfigPath string
	DBPath     string
	LogLevel   string

	Log *zap.Logger
}

func NewRootCmd() *cobra.Command {
	ro := &RootOptions{}

	cmd := &cobra.Command{
		Use:           "daybook",
		Short:         "Daybook — daily-bar backtesting with tax-lot accounting",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&ro.ConfigPath, "config", "", "Path to run config file (YAML or JSON)")
	cmd.PersistentFlags().StringVar(&ro.DBPath, "db", "", "Override journal SQLite database path")
	cmd.PersistentFlags().StringVar(&ro.LogLevel, "log-level", "info", "Log level: debug|info|warn|error")

	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		// .env is optional; flags and config still win.
		_ = godotenv.Load()

		log, err := newLogger(ro.LogLevel)
		if err != nil {
			return err
		}
		ro.Log = log
		return nil
	}

	cmd.AddCommand(
		newBacktestCmd(ro),
		newInitCmd(),
	)

	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println("daybook (dev)")
		},
	})

	return cmd
}

func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newLogger(level string) (*zap.Logger, error) {
	var lvl zapcore.Level
	if err := lvl.Set(level); err != nil {
		return nil, fmt.Errorf("bad log level %q: %w", level, err)
	}

	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	return cfg.Build()
}
