package journal

import (
	"database/sql"
	"fmt"
)

// GetRun returns a single run summary row.
func (j *SQLite) GetRun(runID string) (Run, error) {
	var r Run

	row := j.db.QueryRow(`
		SELECT run_id, created, strategy, start, end, sessions, trades, gains,
		       start_cash, end_cash, realized_gain, commissions
		FROM runs
		WHERE run_id = ?`, runID)

	err := row.Scan(
		&r.RunID, &r.Created, &r.Strategy, &r.Start, &r.End, &r.Sessions,
		&r.Trades, &r.Gains, &r.StartCash, &r.EndCash, &r.RealizedGain, &r.Commissions,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return Run{}, fmt.Errorf("run %q not found", runID)
		}
		return Run{}, err
	}
	return r, nil
}

// ListTrades returns a run's trades ordered by execution time.
func (j *SQLite) ListTrades(runID string) ([]TradeRow, error) {
	rows, err := j.db.Query(`
		SELECT run_id, symbol, trade_id, size, price, time, meta
		FROM trades
		WHERE run_id = ?
		ORDER BY time ASC, symbol ASC, trade_id ASC`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []TradeRow
	for rows.Next() {
		var (
			rec  TradeRow
			meta string
		)
		if err := rows.Scan(&rec.RunID, &rec.Symbol, &rec.TradeID, &rec.Size, &rec.Price, &rec.Time, &meta); err != nil {
			return nil, err
		}
		if rec.Meta, err = decodeMeta(meta); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// ListGains returns a run's capital gains in matching order.
func (j *SQLite) ListGains(runID string) ([]GainRow, error) {
	rows, err := j.db.Query(`
		SELECT run_id, symbol, size,
		       open_trade_id, open_price, open_time, open_meta,
		       close_trade_id, close_price, close_time, close_meta,
		       long_term
		FROM capital_gains
		WHERE run_id = ?
		ORDER BY close_time ASC, rowid ASC`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []GainRow
	for rows.Next() {
		var (
			rec                 GainRow
			openMeta, closeMeta string
		)
		if err := rows.Scan(
			&rec.RunID, &rec.Symbol, &rec.Size,
			&rec.OpenTradeID, &rec.OpenPrice, &rec.OpenTime, &openMeta,
			&rec.CloseTradeID, &rec.ClosePrice, &rec.CloseTime, &closeMeta,
			&rec.LongTerm,
		); err != nil {
			return nil, err
		}
		if rec.OpenMeta, err = decodeMeta(openMeta); err != nil {
			return nil, err
		}
		if rec.CloseMeta, err = decodeMeta(closeMeta); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// GainSummary aggregates a run's realized gains by holding-period class.
func (j *SQLite) GainSummary(runID string) (total float64, longTerm, shortTerm int, err error) {
	rows, err := j.db.Query(`
		SELECT (close_price - open_price) * size, long_term
		FROM capital_gains
		WHERE run_id = ?`, runID)
	if err != nil {
		return 0, 0, 0, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			gain float64
			lt   bool
		)
		if err := rows.Scan(&gain, &lt); err != nil {
			return 0, 0, 0, err
		}
		total += gain
		if lt {
			longTerm++
		} else {
			shortTerm++
		}
	}
	return total, longTerm, shortTerm, rows.Err()
}
