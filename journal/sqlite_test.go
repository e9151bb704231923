package journal

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/daybook/market"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func openSQLite(t *testing.T) *SQLite {
	t.Helper()
	j, err := NewSQLite(filepath.Join(t.TempDir(), "journal.db"))
	require.NoError(t, err)
	t.Cleanup(func() { j.Close() })
	return j
}

func TestSQLiteRoundTrip(t *testing.T) {
	t.Parallel()

	j := openSQLite(t)

	run := Run{
		RunID:        "run-1",
		Created:      day(2004, 8, 19),
		Strategy:     "ladder",
		Start:        day(2004, 8, 12),
		End:          day(2004, 8, 18),
		Sessions:     5,
		Trades:       8,
		Gains:        3,
		StartCash:    10_000,
		EndCash:      9840.107,
		RealizedGain: -0.59,
		Commissions:  3.653,
	}
	require.NoError(t, j.RecordRun(run))

	require.NoError(t, j.RecordTrade(TradeRow{
		RunID: "run-1", Symbol: "acc", TradeID: 0,
		Size: 1, Price: 17.50, Time: day(2004, 8, 12),
		Meta: market.Meta{"pair": 1},
	}))
	require.NoError(t, j.RecordTrade(TradeRow{
		RunID: "run-1", Symbol: "acc", TradeID: 1,
		Size: -1, Price: 17.51, Time: day(2004, 8, 13),
	}))

	require.NoError(t, j.RecordCommission(CommissionRow{
		RunID: "run-1", Symbol: "acc", TradeID: 0,
		Price: 17.50, Size: 1, Time: day(2004, 8, 12), Amount: 0.175,
	}))

	require.NoError(t, j.RecordGain(GainRow{
		RunID: "run-1", Symbol: "acc", Size: 1,
		OpenTradeID: 0, OpenPrice: 17.50, OpenTime: day(2004, 8, 12),
		OpenMeta:     market.Meta{"pair": 1},
		CloseTradeID: 1, ClosePrice: 17.51, CloseTime: day(2004, 8, 13),
		LongTerm: false,
	}))

	got, err := j.GetRun("run-1")
	require.NoError(t, err)
	assert.Equal(t, run.Strategy, got.Strategy)
	assert.Equal(t, run.Sessions, got.Sessions)
	assert.InDelta(t, run.EndCash, got.EndCash, 1e-9)

	trades, err := j.ListTrades("run-1")
	require.NoError(t, err)
	require.Len(t, trades, 2)
	assert.Equal(t, 0, trades[0].TradeID)
	assert.InDelta(t, 17.50, trades[0].Price, 1e-9)
	// JSON round-trips numeric meta values as float64.
	assert.EqualValues(t, 1, trades[0].Meta["pair"])
	assert.Nil(t, trades[1].Meta)

	gains, err := j.ListGains("run-1")
	require.NoError(t, err)
	require.Len(t, gains, 1)
	assert.InDelta(t, 17.50, gains[0].OpenPrice, 1e-9)
	assert.InDelta(t, 17.51, gains[0].ClosePrice, 1e-9)
	assert.EqualValues(t, 1, gains[0].OpenMeta["pair"])
	assert.False(t, gains[0].LongTerm)
}

func TestSQLiteGetRunMissing(t *testing.T) {
	t.Parallel()

	j := openSQLite(t)
	_, err := j.GetRun("nope")
	assert.ErrorContains(t, err, "not found")
}

func TestGainSummary(t *testing.T) {
	t.Parallel()

	j := openSQLite(t)

	rows := []GainRow{
		{RunID: "r", Symbol: "acc", Size: 1, OpenPrice: 17.50, ClosePrice: 17.51,
			OpenTime: day(2004, 8, 12), CloseTime: day(2004, 8, 13)},
		{RunID: "r", Symbol: "acc", Size: 2, OpenPrice: 17.50, ClosePrice: 17.50,
			OpenTime: day(2004, 8, 13), CloseTime: day(2004, 8, 16)},
		{RunID: "r", Symbol: "acc", Size: 3, OpenPrice: 17.54, ClosePrice: 17.34,
			OpenTime: day(2004, 8, 16), CloseTime: day(2004, 8, 17)},
		{RunID: "r", Symbol: "old", Size: 10, OpenPrice: 10, ClosePrice: 15,
			OpenTime: day(2003, 1, 2), CloseTime: day(2004, 8, 17), LongTerm: true},
	}
	for _, g := range rows {
		require.NoError(t, j.RecordGain(g))
	}

	total, longTerm, shortTerm, err := j.GainSummary("r")
	require.NoError(t, err)
	assert.InDelta(t, -0.59+50, total, 1e-9)
	assert.Equal(t, 1, longTerm)
	assert.Equal(t, 3, shortTerm)

	// Other runs are invisible.
	total, longTerm, shortTerm, err = j.GainSummary("other")
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Zero(t, longTerm)
	assert.Zero(t, shortTerm)
}

func TestSQLiteEnforcesTradeKey(t *testing.T) {
	t.Parallel()

	j := openSQLite(t)
	row := TradeRow{RunID: "r", Symbol: "acc", TradeID: 0, Size: 1, Price: 17.50, Time: day(2004, 8, 12)}
	require.NoError(t, j.RecordTrade(row))
	assert.Error(t, j.RecordTrade(row), "duplicate (run, symbol, trade) must be rejected")
}
