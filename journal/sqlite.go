package journal

import (
	"database/sql"
	"encoding/json"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/rustyeddy/daybook/market"
)

type SQLite struct {
	db *sql.DB
}

func NewSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(Schema); err != nil {
		db.Close()
		return nil, err
	}

	return &SQLite{db: db}, nil
}

func (j *SQLite) RecordTrade(t TradeRow) error {
	meta, err := encodeMeta(t.Meta)
	if err != nil {
		return err
	}
	_, err = j.db.Exec(`
		INSERT INTO trades
		(run_id, symbol, trade_id, size, price, time, meta)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		t.RunID, t.Symbol, t.TradeID, t.Size, t.Price, t.Time, meta,
	)
	return err
}

func (j *SQLite) RecordCommission(c CommissionRow) error {
	_, err := j.db.Exec(`
		INSERT INTO commissions
		(run_id, symbol, trade_id, price, size, time, amount)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		c.RunID, c.Symbol, c.TradeID, c.Price, c.Size, c.Time, c.Amount,
	)
	return err
}

func (j *SQLite) RecordGain(g GainRow) error {
	openMeta, err := encodeMeta(g.OpenMeta)
	if err != nil {
		return err
	}
	closeMeta, err := encodeMeta(g.CloseMeta)
	if err != nil {
		return err
	}
	_, err = j.db.Exec(`
		INSERT INTO capital_gains
		(run_id, symbol, size,
		 open_trade_id, open_price, open_time, open_meta,
		 close_trade_id, close_price, close_time, close_meta,
		 long_term)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		g.RunID, g.Symbol, g.Size,
		g.OpenTradeID, g.OpenPrice, g.OpenTime, openMeta,
		g.CloseTradeID, g.ClosePrice, g.CloseTime, closeMeta,
		g.LongTerm,
	)
	return err
}

func (j *SQLite) RecordRun(r Run) error {
	_, err := j.db.Exec(`
		INSERT INTO runs
		(run_id, created, strategy, start, end, sessions, trades, gains,
		 start_cash, end_cash, realized_gain, commissions)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.RunID, r.Created, r.Strategy, r.Start, r.End, r.Sessions,
		r.Trades, r.Gains, r.StartCash, r.EndCash, r.RealizedGain, r.Commissions,
	)
	return err
}

func (j *SQLite) Close() error {
	return j.db.Close()
}

func encodeMeta(m market.Meta) (string, error) {
	if len(m) == 0 {
		return "{}", nil
	}
	data, err := json.Marshal(m)
	if err != nil {
		return "", fmt.Errorf("encode meta: %w", err)
	}
	return string(data), nil
}

func decodeMeta(s string) (market.Meta, error) {
	if s == "" || s == "{}" {
		return nil, nil
	}
	var m market.Meta
	if err := json.Unmarshal([]byte(s), &m); err != nil {
		return nil, fmt.Errorf("decode meta: %w", err)
	}
	return m, nil
}
