package strategies

import (
	"context"
	"time"

	"github.com/rustyeddy/daybook/broker"
	"github.com/rustyeddy/daybook/indicators"
	"github.com/rustyeddy/daybook/market"
)

// SMACross trades a fast/slow simple-moving-average crossover on daily
// closes. Decisions use only bars strictly before the current session, so
// the signal is computable in the pre-open phase without peeking at the
// session's own prices; orders go to the opening auction with a limit band
// around the last known close.
type SMACross struct {
	Symbol string
	Size   float64
	Fast   int
	Slow   int

	// Band widens the limit around the prior close so ordinary overnight
	// gaps still fill. Defaults to 5%.
	Band float64
}

func (s *SMACross) PreOpen(ctx context.Context, date time.Time, b broker.Client, trades []market.Trade, comms []broker.Commission) error {
	history, _, err := b.History(s.Symbol, true)
	if err != nil {
		return err
	}
	if len(history) < s.Slow {
		return nil // warming up
	}

	fast, err := indicators.SMA(history, s.Fast)
	if err != nil {
		return err
	}
	slow, err := indicators.SMA(history, s.Slow)
	if err != nil {
		return err
	}

	band := s.Band
	if band <= 0 {
		band = 0.05
	}
	last := history[len(history)-1].Close
	held := b.Quantity(s.Symbol)

	switch {
	case fast > slow && held == 0:
		return b.LimitOnOpen(s.Symbol, last*(1+band), s.Size, true, market.Meta{"signal": "golden-cross"})
	case fast < slow && held > 0:
		return b.LimitOnOpen(s.Symbol, last*(1-band), held, false, market.Meta{"signal": "death-cross"})
	}
	return nil
}

func (s *SMACross) PreClose(ctx context.Context, date time.Time, b broker.Client, trades []market.Trade, comms []broker.Commission) error {
	return nil
}
