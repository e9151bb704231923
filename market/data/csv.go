// Package data loads daily bar series from CSV files.
//
// The canonical row format is
//
//	date,open,high,low,close,volume,divCash,splitFactor
//
// where date is 2006-01-02 (RFC3339 also accepted). The divCash and
// splitFactor columns are optional and default to 0 and 1. Files ending in
// .xz are decompressed on the fly.
package data

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rustyeddy/daybook/market"
	"github.com/ulikunitz/xz"
)

// LoadAsset reads a bar CSV and wraps it in an Asset.
func LoadAsset(symbol, path string, opts ...market.AssetOption) (*market.Asset, error) {
	bars, err := LoadBars(path)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", symbol, err)
	}
	return market.NewAsset(symbol, bars, opts...)
}

// LoadBars reads bars from a plain or xz-compressed CSV file.
func LoadBars(path string) ([]market.Bar, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var r io.Reader = f
	if strings.HasSuffix(path, ".xz") {
		xr, err := xz.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("%s: xz: %w", path, err)
		}
		r = xr
	}

	bars, err := ReadBars(r)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return bars, nil
}

// ReadBars parses bar CSV rows. A single header row is allowed. Empty rows
// are skipped.
func ReadBars(r io.Reader) ([]market.Bar, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	var (
		bars     []market.Bar
		sawFirst bool
	)
	for {
		row, err := cr.Read()
		if err == io.EOF {
			return bars, nil
		}
		if err != nil {
			return nil, err
		}
		if len(row) == 0 {
			continue
		}

		if !sawFirst {
			sawFirst = true
			if strings.EqualFold(strings.TrimSpace(row[0]), "date") {
				continue
			}
		}

		b, err := parseBarRow(row)
		if err != nil {
			return nil, err
		}
		bars = append(bars, b)
	}
}

func parseBarRow(row []string) (market.Bar, error) {
	if len(row) < 6 {
		return market.Bar{}, fmt.Errorf("bar row needs at least 6 fields, got %d", len(row))
	}

	date, err := parseDate(strings.TrimSpace(row[0]))
	if err != nil {
		return market.Bar{}, err
	}

	vals := make([]float64, 0, 7)
	for _, s := range row[1:] {
		v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return market.Bar{}, fmt.Errorf("bar row %s: %w", row[0], err)
		}
		vals = append(vals, v)
	}

	b := market.Bar{
		Date:        date,
		Open:        vals[0],
		High:        vals[1],
		Low:         vals[2],
		Close:       vals[3],
		Volume:      vals[4],
		SplitFactor: 1,
	}
	if len(vals) > 5 {
		b.DivCash = vals[5]
	}
	if len(vals) > 6 {
		b.SplitFactor = vals[6]
	}
	return b, nil
}

func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("bad date %q: %w", s, err)
	}
	return market.DateOf(t), nil
}
