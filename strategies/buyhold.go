package strategies

import (
	"context"
	"time"

	"github.com/rustyeddy/daybook/broker"
	"github.com/rustyeddy/daybook/market"
)

// BuyHold submits a single buy at the first opening auction and then holds.
// Limit defaults to a value high enough to behave like a market-on-open
// order; set it lower to make the entry price-sensitive.
type BuyHold struct {
	Symbol string
	Size   float64
	Limit  float64
}

func (s *BuyHold) PreOpen(ctx context.Context, date time.Time, b broker.Client, trades []market.Trade, comms []broker.Commission) error {
	// Resubmit each open until a fill shows up as held quantity.
	if b.Quantity(s.Symbol) > 0 {
		return nil
	}

	limit := s.Limit
	if limit <= 0 {
		limit = 1e9
	}
	return b.LimitOnOpen(s.Symbol, limit, s.Size, true, nil)
}

func (s *BuyHold) PreClose(ctx context.Context, date time.Time, b broker.Client, trades []market.Trade, comms []broker.Commission) error {
	return nil
}
