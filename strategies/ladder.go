package strategies

import (
	"context"
	"time"

	"github.com/rustyeddy/daybook/broker"
	"github.com/rustyeddy/daybook/market"
)

// Ladder buys an increasing number of units at every open and sells one
// fewer at every close, alternating a "pair" metadata tag between two
// values so that the realized-gain report can be grouped by pair. It is the
// walkthrough strategy: deterministic, exercises both auctions, both order
// sides and metadata propagation.
type Ladder struct {
	Symbol    string
	BuyLimit  float64 // generous cap so opens always fill
	SellLimit float64 // generous floor so closes always fill
	MaxRungs  int     // sells stop after this many sessions

	rung int
}

func NewLadder(symbol string) *Ladder {
	return &Ladder{
		Symbol:    symbol,
		BuyLimit:  100,
		SellLimit: 10,
		MaxRungs:  4,
		rung:      1,
	}
}

func (s *Ladder) PreOpen(ctx context.Context, date time.Time, b broker.Client, trades []market.Trade, comms []broker.Commission) error {
	meta := market.Meta{"pair": s.rung % 2}
	return b.LimitOnOpen(s.Symbol, s.BuyLimit, float64(s.rung), true, meta)
}

func (s *Ladder) PreClose(ctx context.Context, date time.Time, b broker.Client, trades []market.Trade, comms []broker.Commission) error {
	defer func() { s.rung++ }()

	if s.rung <= 1 || s.rung > s.MaxRungs {
		return nil
	}
	meta := market.Meta{"pair": s.rung % 2}
	return b.LimitOnClose(s.Symbol, s.SellLimit, float64(s.rung-1), false, meta)
}
