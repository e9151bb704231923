// Package backtest drives a strategy through trading sessions, two phases
// per session: the strategy is called before the open and before the close,
// and the queued orders are resolved against the corresponding auction price
// after each callback returns.
package backtest

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/rustyeddy/daybook/broker"
	"github.com/rustyeddy/daybook/market"
)

// Strategy is the decision callback. Both hooks are required; trades and
// commissions carry everything executed since the previous hook ran (the
// pre-close call therefore sees the fills of the same session's opening
// auction). A returned error aborts the run.
type Strategy interface {
	PreOpen(ctx context.Context, date time.Time, b broker.Client, trades []market.Trade, comms []broker.Commission) error
	PreClose(ctx context.Context, date time.Time, b broker.Client, trades []market.Trade, comms []broker.Commission) error
}

// Runner executes one simulation between Start and End (inclusive). The
// session calendar is the union of the universe's trading dates in range.
type Runner struct {
	Broker   *broker.Broker
	Strategy Strategy
	Start    time.Time
	End      time.Time

	// Log is optional; nil means no logging.
	Log *zap.Logger
}

// Run steps sessions strictly in order. Every error is terminal: there is no
// per-session retry, and the broker's accumulated state stays inspectable
// for diagnosis after a failure.
func (r *Runner) Run(ctx context.Context) (*Result, error) {
	if r.Broker == nil {
		return nil, fmt.Errorf("backtest: Broker is required")
	}
	if r.Strategy == nil {
		return nil, fmt.Errorf("backtest: Strategy is required")
	}
	if r.End.Before(r.Start) {
		return nil, fmt.Errorf("backtest: end %s before start %s",
			r.End.Format("2006-01-02"), r.Start.Format("2006-01-02"))
	}

	log := r.Log
	if log == nil {
		log = zap.NewNop()
	}

	sessions := r.Broker.Sessions(r.Start, r.End)
	if len(sessions) == 0 {
		return nil, fmt.Errorf("backtest: no sessions between %s and %s",
			r.Start.Format("2006-01-02"), r.End.Format("2006-01-02"))
	}

	startCash := r.Broker.Cash()

	for _, date := range sessions {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		if err := r.Broker.BeginSession(date); err != nil {
			return nil, err
		}

		trades, comms := r.Broker.Unreported()
		if err := r.Strategy.PreOpen(ctx, date, r.Broker, trades, comms); err != nil {
			return nil, fmt.Errorf("pre-open %s: %w", date.Format("2006-01-02"), err)
		}
		if err := r.Broker.ResolveOpen(); err != nil {
			return nil, err
		}

		trades, comms = r.Broker.Unreported()
		if err := r.Strategy.PreClose(ctx, date, r.Broker, trades, comms); err != nil {
			return nil, fmt.Errorf("pre-close %s: %w", date.Format("2006-01-02"), err)
		}
		if err := r.Broker.ResolveClose(); err != nil {
			return nil, err
		}

		log.Debug("session complete",
			zap.String("date", date.Format("2006-01-02")),
			zap.Float64("cash", r.Broker.Cash()),
			zap.Int("trades", len(r.Broker.Trades())),
		)
	}

	res := summarize(r.Broker, sessions, startCash)
	log.Info("backtest complete",
		zap.Int("sessions", res.Sessions),
		zap.Int("trades", res.Trades),
		zap.Float64("realized_gain", res.RealizedGain),
		zap.Float64("end_cash", res.EndCash),
	)
	return res, nil
}
