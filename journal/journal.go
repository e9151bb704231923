// Package journal persists run artifacts — trades, commissions, capital
// gains and a per-run summary row — to SQLite or CSV.
package journal

import (
	"time"

	"github.com/rustyeddy/daybook/broker"
	"github.com/rustyeddy/daybook/ledger"
	"github.com/rustyeddy/daybook/market"
)

// TradeRow mirrors the trades table.
type TradeRow struct {
	RunID   string
	Symbol  string
	TradeID int
	Size    float64
	Price   float64
	Time    time.Time
	Meta    market.Meta
}

// CommissionRow mirrors the commissions table.
type CommissionRow struct {
	RunID   string
	Symbol  string
	TradeID int
	Price   float64
	Size    float64
	Time    time.Time
	Amount  float64
}

// GainRow mirrors the capital_gains table.
type GainRow struct {
	RunID  string
	Symbol string
	Size   float64

	OpenTradeID int
	OpenPrice   float64
	OpenTime    time.Time
	OpenMeta    market.Meta

	CloseTradeID int
	ClosePrice   float64
	CloseTime    time.Time
	CloseMeta    market.Meta

	LongTerm bool
}

// Run mirrors the runs table: one summary row per backtest run.
type Run struct {
	RunID    string
	Created  time.Time
	Strategy string

	Start    time.Time
	End      time.Time
	Sessions int

	Trades int
	Gains  int

	StartCash    float64
	EndCash      float64
	RealizedGain float64
	Commissions  float64
}

type Journal interface {
	RecordTrade(TradeRow) error
	RecordCommission(CommissionRow) error
	RecordGain(GainRow) error
	RecordRun(Run) error
	Close() error
}

func TradeRowFrom(runID string, t market.Trade) TradeRow {
	return TradeRow{
		RunID:   runID,
		Symbol:  t.Symbol,
		TradeID: t.ID,
		Size:    t.Size,
		Price:   t.Price,
		Time:    t.Time,
		Meta:    t.Meta,
	}
}

func CommissionRowFrom(runID string, c broker.Commission) CommissionRow {
	return CommissionRow{
		RunID:   runID,
		Symbol:  c.Symbol,
		TradeID: c.TradeID,
		Price:   c.Price,
		Size:    c.Size,
		Time:    c.Time,
		Amount:  c.Amount,
	}
}

func GainRowFrom(runID string, g ledger.CapitalGain) GainRow {
	return GainRow{
		RunID:        runID,
		Symbol:       g.Symbol,
		Size:         g.Size,
		OpenTradeID:  g.OpenTradeID,
		OpenPrice:    g.OpenPrice,
		OpenTime:     g.OpenTime,
		OpenMeta:     g.OpenMeta,
		CloseTradeID: g.CloseTradeID,
		ClosePrice:   g.ClosePrice,
		CloseTime:    g.CloseTime,
		CloseMeta:    g.CloseMeta,
		LongTerm:     g.LongTerm,
	}
}

// RecordBroker writes everything a completed run accumulated in the broker.
func RecordBroker(j Journal, runID string, b *broker.Broker) error {
	for _, t := range b.Trades() {
		if err := j.RecordTrade(TradeRowFrom(runID, t)); err != nil {
			return err
		}
	}
	for _, c := range b.Commissions() {
		if err := j.RecordCommission(CommissionRowFrom(runID, c)); err != nil {
			return err
		}
	}
	for _, g := range b.CapitalGains() {
		if err := j.RecordGain(GainRowFrom(runID, g)); err != nil {
			return err
		}
	}
	return nil
}
