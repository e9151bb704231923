package indicators

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/daybook/market"
)

func closes(vals ...float64) []market.Bar {
	bars := make([]market.Bar, len(vals))
	base := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, v := range vals {
		bars[i] = market.Bar{Date: base.AddDate(0, 0, i), Close: v, SplitFactor: 1}
	}
	return bars
}

func TestSMA(t *testing.T) {
	t.Parallel()

	got, err := SMA(closes(1, 2, 3, 4, 5), 3)
	require.NoError(t, err)
	assert.InDelta(t, 4.0, got, 1e-9, "averages the last period closes only")

	got, err = SMA(closes(10, 20), 2)
	require.NoError(t, err)
	assert.InDelta(t, 15.0, got, 1e-9)

	_, err = SMA(closes(1, 2), 3)
	assert.ErrorContains(t, err, "not enough bars")
	_, err = SMA(closes(1, 2), 0)
	assert.ErrorContains(t, err, "period")
}

func TestEMA(t *testing.T) {
	t.Parallel()

	// Seeded with SMA(1,2,3)=2, multiplier 0.5:
	// then 4 -> 3, then 5 -> 4.
	got, err := EMA(closes(1, 2, 3, 4, 5), 3)
	require.NoError(t, err)
	assert.InDelta(t, 4.0, got, 1e-9)

	// With exactly period bars the EMA is the seed SMA.
	got, err = EMA(closes(1, 2, 3), 3)
	require.NoError(t, err)
	assert.InDelta(t, 2.0, got, 1e-9)

	_, err = EMA(closes(1, 2), 3)
	assert.Error(t, err)
}

func TestEMALeansRecent(t *testing.T) {
	t.Parallel()

	bars := closes(10, 10, 10, 10, 10, 20, 30)
	ema, err := EMA(bars, 5)
	require.NoError(t, err)
	sma, err := SMA(bars, 5)
	require.NoError(t, err)
	assert.Greater(t, ema, sma, "EMA weights the recent ramp harder than the SMA window")
}
