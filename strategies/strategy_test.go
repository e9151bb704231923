package strategies

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/daybook/broker"
	"github.com/rustyeddy/daybook/ledger"
	"github.com/rustyeddy/daybook/market"
)

// fakeClient records submissions and serves canned history.
type fakeClient struct {
	orders  []fakeOrder
	history []market.Bar
	held    float64
}

type fakeOrder struct {
	symbol  string
	limit   float64
	size    float64
	buy     bool
	atClose bool
	meta    market.Meta
}

func (f *fakeClient) LimitOnOpen(symbol string, limit, size float64, buy bool, meta market.Meta) error {
	f.orders = append(f.orders, fakeOrder{symbol, limit, size, buy, false, meta})
	return nil
}

func (f *fakeClient) LimitOnClose(symbol string, limit, size float64, buy bool, meta market.Meta) error {
	f.orders = append(f.orders, fakeOrder{symbol, limit, size, buy, true, meta})
	return nil
}

func (f *fakeClient) History(symbol string, afterOpen bool) ([]market.Bar, float64, error) {
	var ref float64
	if n := len(f.history); n > 0 {
		ref = f.history[n-1].Close
	}
	return f.history, ref, nil
}

func (f *fakeClient) Cash() float64                  { return 0 }
func (f *fakeClient) Quantity(symbol string) float64 { return f.held }
func (f *fakeClient) Positions() []ledger.Position   { return nil }

func closes(vals ...float64) []market.Bar {
	bars := make([]market.Bar, len(vals))
	base := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, v := range vals {
		bars[i] = market.Bar{Date: base.AddDate(0, 0, i), Close: v, SplitFactor: 1}
	}
	return bars
}

func TestByName(t *testing.T) {
	t.Parallel()

	strat, err := ByName("noop", Params{})
	require.NoError(t, err)
	assert.IsType(t, Noop{}, strat)

	strat, err = ByName("Ladder", Params{Symbol: "acc"})
	require.NoError(t, err)
	assert.IsType(t, &Ladder{}, strat)

	strat, err = ByName("buy-hold", Params{Symbol: "acc", Size: 10})
	require.NoError(t, err)
	assert.IsType(t, &BuyHold{}, strat)

	strat, err = ByName("sma-cross", Params{Symbol: "acc", Size: 10, Fast: 5, Slow: 20})
	require.NoError(t, err)
	assert.IsType(t, &SMACross{}, strat)

	_, err = ByName("ladder", Params{})
	assert.ErrorContains(t, err, "symbol required")
	_, err = ByName("buy-hold", Params{Symbol: "acc"})
	assert.Error(t, err)
	_, err = ByName("sma-cross", Params{Symbol: "acc", Size: 10, Fast: 20, Slow: 5})
	assert.ErrorContains(t, err, "fast")
	_, err = ByName("mystery", Params{})
	assert.ErrorContains(t, err, "unknown strategy")
}

func TestRegistry(t *testing.T) {
	Register("custom", Noop{})
	strat, err := ByName("Custom", Params{})
	require.NoError(t, err)
	assert.IsType(t, Noop{}, strat)
}

func TestLadderSequence(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := NewLadder("acc")
	c := &fakeClient{}
	now := time.Date(2004, 8, 12, 0, 0, 0, 0, time.UTC)

	for i := 0; i < 5; i++ {
		require.NoError(t, s.PreOpen(ctx, now.AddDate(0, 0, i), c, nil, nil))
		require.NoError(t, s.PreClose(ctx, now.AddDate(0, 0, i), c, nil, nil))
	}

	var buys, sells []float64
	for _, o := range c.orders {
		if o.buy {
			assert.False(t, o.atClose)
			buys = append(buys, o.size)
		} else {
			assert.True(t, o.atClose)
			sells = append(sells, o.size)
		}
	}
	assert.Equal(t, []float64{1, 2, 3, 4, 5}, buys)
	assert.Equal(t, []float64{1, 2, 3}, sells, "sells lag buys by one and stop at the rung cap")

	// The pair tag alternates between 0 and 1.
	assert.Equal(t, 1, c.orders[0].meta["pair"])
	assert.Equal(t, 0, c.orders[1].meta["pair"])
}

func TestBuyHoldResubmitsUntilFilled(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := &BuyHold{Symbol: "acc", Size: 10}
	c := &fakeClient{}
	now := time.Date(2020, 1, 6, 0, 0, 0, 0, time.UTC)

	require.NoError(t, s.PreOpen(ctx, now, c, nil, nil))
	require.NoError(t, s.PreOpen(ctx, now.AddDate(0, 0, 1), c, nil, nil))
	require.Len(t, c.orders, 2, "unfilled entries are resubmitted")

	c.held = 10
	require.NoError(t, s.PreOpen(ctx, now.AddDate(0, 0, 2), c, nil, nil))
	assert.Len(t, c.orders, 2, "no more entries once holding")
	assert.Equal(t, 1e9, c.orders[0].limit, "default limit behaves like market-on-open")
}

func TestSMACrossSignals(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	now := time.Date(2020, 3, 2, 0, 0, 0, 0, time.UTC)

	t.Run("warming up", func(t *testing.T) {
		t.Parallel()
		s := &SMACross{Symbol: "acc", Size: 10, Fast: 2, Slow: 4}
		c := &fakeClient{history: closes(10, 11)}
		require.NoError(t, s.PreOpen(ctx, now, c, nil, nil))
		assert.Empty(t, c.orders)
	})

	t.Run("golden cross buys", func(t *testing.T) {
		t.Parallel()
		s := &SMACross{Symbol: "acc", Size: 10, Fast: 2, Slow: 4}
		c := &fakeClient{history: closes(10, 10, 11, 13)}
		require.NoError(t, s.PreOpen(ctx, now, c, nil, nil))
		require.Len(t, c.orders, 1)
		o := c.orders[0]
		assert.True(t, o.buy)
		assert.Equal(t, 10.0, o.size)
		assert.InDelta(t, 13*1.05, o.limit, 1e-9)
		assert.Equal(t, "golden-cross", o.meta["signal"])
	})

	t.Run("death cross sells the whole position", func(t *testing.T) {
		t.Parallel()
		s := &SMACross{Symbol: "acc", Size: 10, Fast: 2, Slow: 4}
		c := &fakeClient{history: closes(13, 13, 11, 10), held: 25}
		require.NoError(t, s.PreOpen(ctx, now, c, nil, nil))
		require.Len(t, c.orders, 1)
		o := c.orders[0]
		assert.False(t, o.buy)
		assert.Equal(t, 25.0, o.size)
		assert.InDelta(t, 10*0.95, o.limit, 1e-9)
		assert.Equal(t, "death-cross", o.meta["signal"])
	})

	t.Run("no trade when already positioned", func(t *testing.T) {
		t.Parallel()
		s := &SMACross{Symbol: "acc", Size: 10, Fast: 2, Slow: 4}
		c := &fakeClient{history: closes(10, 10, 11, 13), held: 10}
		require.NoError(t, s.PreOpen(ctx, now, c, nil, nil))
		assert.Empty(t, c.orders)
	})
}

var _ broker.Client = (*fakeClient)(nil)
