package journal

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/rustyeddy/daybook/market"
)

// CSV writes one file per record kind into a directory: trades.csv,
// commissions.csv, gains.csv and runs.csv. Because metadata is an open key
// set, trade and gain rows are buffered and flattened into columns when
// Close is called: trade metadata keys become bare columns, gain metadata
// becomes open_<key> / close_<key> columns.
type CSV struct {
	dir string

	trades []TradeRow
	comms  []CommissionRow
	gains  []GainRow
	runs   []Run
}

func NewCSV(dir string) (*CSV, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}
	return &CSV{dir: dir}, nil
}

func (j *CSV) RecordTrade(t TradeRow) error {
	j.trades = append(j.trades, t)
	return nil
}

func (j *CSV) RecordCommission(c CommissionRow) error {
	j.comms = append(j.comms, c)
	return nil
}

func (j *CSV) RecordGain(g GainRow) error {
	j.gains = append(j.gains, g)
	return nil
}

func (j *CSV) RecordRun(r Run) error {
	j.runs = append(j.runs, r)
	return nil
}

// Close flushes every buffered record to its file.
func (j *CSV) Close() error {
	if err := j.writeTrades(); err != nil {
		return err
	}
	if err := j.writeCommissions(); err != nil {
		return err
	}
	if err := j.writeGains(); err != nil {
		return err
	}
	return j.writeRuns()
}

func (j *CSV) writeTrades() error {
	var metas []market.Meta
	for _, t := range j.trades {
		metas = append(metas, t.Meta)
	}
	keys := metaKeys(metas)

	header := append([]string{"run_id", "symbol", "trade_id", "size", "price", "time"}, keys...)
	rows := make([][]string, 0, len(j.trades))
	for _, t := range j.trades {
		row := []string{t.RunID, t.Symbol, strconv.Itoa(t.TradeID), f(t.Size), f(t.Price), ts(t.Time)}
		row = append(row, metaValues(t.Meta, keys)...)
		rows = append(rows, row)
	}
	return writeCSV(filepath.Join(j.dir, "trades.csv"), header, rows)
}

func (j *CSV) writeCommissions() error {
	header := []string{"run_id", "symbol", "trade_id", "price", "size", "time", "commission"}
	rows := make([][]string, 0, len(j.comms))
	for _, c := range j.comms {
		rows = append(rows, []string{
			c.RunID, c.Symbol, strconv.Itoa(c.TradeID), f(c.Price), f(c.Size), ts(c.Time), f(c.Amount),
		})
	}
	return writeCSV(filepath.Join(j.dir, "commissions.csv"), header, rows)
}

func (j *CSV) writeGains() error {
	var openMetas, closeMetas []market.Meta
	for _, g := range j.gains {
		openMetas = append(openMetas, g.OpenMeta)
		closeMetas = append(closeMetas, g.CloseMeta)
	}
	openKeys := metaKeys(openMetas)
	closeKeys := metaKeys(closeMetas)

	header := []string{
		"run_id", "symbol", "size",
		"open_trade_id", "open_price", "open_time",
		"close_trade_id", "close_price", "close_time",
		"long_term",
	}
	for _, k := range openKeys {
		header = append(header, "open_"+k)
	}
	for _, k := range closeKeys {
		header = append(header, "close_"+k)
	}

	rows := make([][]string, 0, len(j.gains))
	for _, g := range j.gains {
		row := []string{
			g.RunID, g.Symbol, f(g.Size),
			strconv.Itoa(g.OpenTradeID), f(g.OpenPrice), ts(g.OpenTime),
			strconv.Itoa(g.CloseTradeID), f(g.ClosePrice), ts(g.CloseTime),
			strconv.FormatBool(g.LongTerm),
		}
		row = append(row, metaValues(g.OpenMeta, openKeys)...)
		row = append(row, metaValues(g.CloseMeta, closeKeys)...)
		rows = append(rows, row)
	}
	return writeCSV(filepath.Join(j.dir, "gains.csv"), header, rows)
}

func (j *CSV) writeRuns() error {
	header := []string{
		"run_id", "created", "strategy", "start", "end", "sessions",
		"trades", "gains", "start_cash", "end_cash", "realized_gain", "commissions",
	}
	rows := make([][]string, 0, len(j.runs))
	for _, r := range j.runs {
		rows = append(rows, []string{
			r.RunID, ts(r.Created), r.Strategy, ts(r.Start), ts(r.End), strconv.Itoa(r.Sessions),
			strconv.Itoa(r.Trades), strconv.Itoa(r.Gains),
			f(r.StartCash), f(r.EndCash), f(r.RealizedGain), f(r.Commissions),
		})
	}
	return writeCSV(filepath.Join(j.dir, "runs.csv"), header, rows)
}

func writeCSV(path string, header []string, rows [][]string) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	w := csv.NewWriter(file)
	if err := w.Write(header); err != nil {
		return err
	}
	for _, row := range rows {
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// metaKeys is the sorted union of keys across all rows.
func metaKeys(metas []market.Meta) []string {
	seen := make(map[string]bool)
	var keys []string
	for _, m := range metas {
		for k := range m {
			if !seen[k] {
				seen[k] = true
				keys = append(keys, k)
			}
		}
	}
	sort.Strings(keys)
	return keys
}

// metaValues renders one row's values in key order; absent keys are empty.
func metaValues(m market.Meta, keys []string) []string {
	out := make([]string, len(keys))
	for i, k := range keys {
		if v, ok := m[k]; ok {
			out[i] = fmt.Sprint(v)
		}
	}
	return out
}

func f(x float64) string {
	return strconv.FormatFloat(x, 'f', -1, 64)
}

func ts(t time.Time) string {
	return t.Format(time.RFC3339)
}
