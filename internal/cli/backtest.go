package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rustyeddy/daybook/backtest"
	"github.com/rustyeddy/daybook/broker"
	"github.com/rustyeddy/daybook/config"
	"github.com/rustyeddy/daybook/journal"
	"github.com/rustyeddy/daybook/market"
	"github.com/rustyeddy/daybook/market/data"
	"github.com/rustyeddy/daybook/pkg/id"
	"github.com/rustyeddy/daybook/strategies"
)

func newBacktestCmd(ro *RootOptions) *cobra.Command {
	var orgPath string

	cmd := &cobra.Command{
		Use:   "backtest",
		Short: "Run a backtest described by --config",
		RunE: func(cmd *cobra.Command, args []string) error {
			if ro.ConfigPath == "" {
				return fmt.Errorf("--config is required")
			}
			cfg, err := config.LoadFromFile(ro.ConfigPath)
			if err != nil {
				return err
			}
			if ro.DBPath != "" {
				cfg.Journal.Type = "sqlite"
				cfg.Journal.DBPath = ro.DBPath
			}
			return runBacktest(cmd, cfg, ro.Log, orgPath)
		},
	}

	cmd.Flags().StringVar(&orgPath, "org", "", "Append an org-mode run report to this file")
	return cmd
}

func runBacktest(cmd *cobra.Command, cfg *config.Config, log *zap.Logger, orgPath string) error {
	start, end, err := cfg.Dates()
	if err != nil {
		return err
	}

	assets := make(map[string]*market.Asset, len(cfg.Data.Symbols))
	for _, sym := range cfg.Data.Symbols {
		path, err := dataFile(cfg.Data.Dir, sym)
		if err != nil {
			return err
		}
		asset, err := data.LoadAsset(sym, path)
		if err != nil {
			return err
		}
		assets[sym] = asset
		log.Debug("loaded asset", zap.String("symbol", sym), zap.Int("sessions", len(asset.Sessions())))
	}

	policy, err := broker.PolicyByName(cfg.Commission.Policy, cfg.Commission.Rate)
	if err != nil {
		return err
	}

	strat, err := strategies.ByName(cfg.Strategy.Name, strategies.Params{
		Symbol: cfg.Strategy.Symbol,
		Size:   cfg.Strategy.Size,
		Limit:  cfg.Strategy.Limit,
		Fast:   cfg.Strategy.Fast,
		Slow:   cfg.Strategy.Slow,
	})
	if err != nil {
		return err
	}

	b := broker.New(cfg.Account.Cash, assets, broker.WithPolicy(policy))
	runner := &backtest.Runner{
		Broker:   b,
		Strategy: strat,
		Start:    start,
		End:      end,
		Log:      log,
	}

	result, err := runner.Run(cmd.Context())
	if err != nil {
		return err
	}
	result.Print(cmd.OutOrStdout())

	run := journal.Run{
		RunID:        id.New(),
		Created:      time.Now(),
		Strategy:     cfg.Strategy.Name,
		Start:        result.Start,
		End:          result.End,
		Sessions:     result.Sessions,
		Trades:       result.Trades,
		Gains:        result.Gains,
		StartCash:    result.StartCash,
		EndCash:      result.EndCash,
		RealizedGain: result.RealizedGain,
		Commissions:  result.Commissions,
	}

	if err := record(cfg, run, b); err != nil {
		return err
	}

	if orgPath != "" {
		report, err := journal.FormatRunOrg(run)
		if err != nil {
			return err
		}
		f, err := os.OpenFile(orgPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			return err
		}
		defer f.Close()
		if _, err := f.WriteString(report); err != nil {
			return err
		}
	}

	log.Info("run recorded", zap.String("run_id", run.RunID))
	return nil
}

// dataFile resolves a symbol's bar file, preferring the plain CSV over the
// xz-compressed one.
func dataFile(dir, sym string) (string, error) {
	plain := filepath.Join(dir, sym+".csv")
	for _, path := range []string{plain, plain + ".xz"} {
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}
	return "", fmt.Errorf("no data file for %s: tried %s and %s.xz", sym, plain, plain)
}

func record(cfg *config.Config, run journal.Run, b *broker.Broker) error {
	var (
		j   journal.Journal
		err error
	)
	switch cfg.Journal.Type {
	case "sqlite":
		j, err = journal.NewSQLite(cfg.Journal.DBPath)
	case "csv":
		j, err = journal.NewCSV(cfg.Journal.Dir)
	default:
		return nil
	}
	if err != nil {
		return err
	}

	if err := journal.RecordBroker(j, run.RunID, b); err != nil {
		j.Close()
		return err
	}
	if err := j.RecordRun(run); err != nil {
		j.Close()
		return err
	}
	// The CSV backend flushes on Close; its error matters.
	return j.Close()
}

func newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init [path]",
		Short: "Write a default run config",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "daybook.yaml"
			if len(args) == 1 {
				path = args[0]
			}
			if err := config.Default().SaveToFile(path); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "wrote", path)
			return nil
		},
	}
}
