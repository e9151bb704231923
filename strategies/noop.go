package strategies

import (
	"context"
	"time"

	"github.com/rustyeddy/daybook/broker"
	"github.com/rustyeddy/daybook/market"
)

// Noop never trades.
type Noop struct{}

func (Noop) PreOpen(ctx context.Context, date time.Time, b broker.Client, trades []market.Trade, comms []broker.Commission) error {
	return nil
}

func (Noop) PreClose(ctx context.Context, date time.Time, b broker.Client, trades []market.Trade, comms []broker.Commission) error {
	return nil
}
