package market

import (
	"errors"
	"fmt"
	"sort"
	"time"
)

// ErrNoBar is returned when a symbol has no bar for the requested session.
var ErrNoBar = errors.New("no bar for session")

// Default NYSE auction times.
const (
	DefaultOpenOffset  = 9*time.Hour + 30*time.Minute
	DefaultCloseOffset = 16 * time.Hour
)

var defaultLocation = func() *time.Location {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		return time.UTC
	}
	return loc
}()

// Asset holds one symbol's daily bar series and answers "what was knowable
// as of session D". The bar slice is owned by the Asset and never mutated
// after construction, so reads are safe from any goroutine.
type Asset struct {
	symbol string
	bars   []Bar
	index  map[time.Time]int

	loc         *time.Location
	openOffset  time.Duration
	closeOffset time.Duration
}

type AssetOption func(*Asset)

// WithAuctionTimes overrides the open/close auction clock offsets from
// midnight exchange-local time.
func WithAuctionTimes(open, close time.Duration) AssetOption {
	return func(a *Asset) {
		a.openOffset = open
		a.closeOffset = close
	}
}

// WithLocation sets the exchange time zone used for auction timestamps.
func WithLocation(loc *time.Location) AssetOption {
	return func(a *Asset) { a.loc = loc }
}

// NewAsset validates and indexes the bar series. Bars may arrive in any
// order; they are sorted chronologically. Duplicate dates and non-positive
// split factors are rejected.
func NewAsset(symbol string, bars []Bar, opts ...AssetOption) (*Asset, error) {
	if symbol == "" {
		return nil, fmt.Errorf("asset: symbol is required")
	}
	if len(bars) == 0 {
		return nil, fmt.Errorf("asset %s: no bars", symbol)
	}

	a := &Asset{
		symbol:      symbol,
		bars:        make([]Bar, len(bars)),
		index:       make(map[time.Time]int, len(bars)),
		loc:         defaultLocation,
		openOffset:  DefaultOpenOffset,
		closeOffset: DefaultCloseOffset,
	}
	for _, opt := range opts {
		opt(a)
	}

	copy(a.bars, bars)
	for i := range a.bars {
		a.bars[i].Date = DateOf(a.bars[i].Date)
	}
	sort.Slice(a.bars, func(i, j int) bool { return a.bars[i].Date.Before(a.bars[j].Date) })

	for i, b := range a.bars {
		if _, dup := a.index[b.Date]; dup {
			return nil, fmt.Errorf("asset %s: duplicate bar for %s", symbol, b.Date.Format("2006-01-02"))
		}
		if b.SplitFactor <= 0 {
			return nil, fmt.Errorf("asset %s: bar %s: split factor must be positive, got %v",
				symbol, b.Date.Format("2006-01-02"), b.SplitFactor)
		}
		a.index[b.Date] = i
	}
	return a, nil
}

func (a *Asset) Symbol() string { return a.symbol }

// Sessions returns the dates this symbol traded, in chronological order.
func (a *Asset) Sessions() []time.Time {
	out := make([]time.Time, len(a.bars))
	for i, b := range a.bars {
		out[i] = b.Date
	}
	return out
}

// Bar returns the bar for the given session date.
func (a *Asset) Bar(date time.Time) (Bar, error) {
	i, ok := a.index[DateOf(date)]
	if !ok {
		return Bar{}, fmt.Errorf("asset %s: %s: %w", a.symbol, DateOf(date).Format("2006-01-02"), ErrNoBar)
	}
	return a.bars[i], nil
}

// Censored returns every bar strictly before asOf plus the session's
// reference price: the open when afterOpen is true, the close otherwise.
// The current session's own bar is never part of the history, which is the
// anti-lookahead guarantee the rest of the engine relies on. Asking about a
// session the symbol did not trade is an error.
func (a *Asset) Censored(asOf time.Time, afterOpen bool) ([]Bar, float64, error) {
	i, ok := a.index[DateOf(asOf)]
	if !ok {
		return nil, 0, fmt.Errorf("asset %s: %s: %w", a.symbol, DateOf(asOf).Format("2006-01-02"), ErrNoBar)
	}

	history := make([]Bar, i)
	copy(history, a.bars[:i])

	ref := a.bars[i].Close
	if afterOpen {
		ref = a.bars[i].Open
	}
	return history, ref, nil
}

// OpenAt returns the opening auction timestamp for a session date.
func (a *Asset) OpenAt(date time.Time) time.Time {
	return a.auctionAt(date, a.openOffset)
}

// CloseAt returns the closing auction timestamp for a session date.
func (a *Asset) CloseAt(date time.Time) time.Time {
	return a.auctionAt(date, a.closeOffset)
}

func (a *Asset) auctionAt(date time.Time, offset time.Duration) time.Time {
	d := DateOf(date)
	return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, a.loc).Add(offset)
}
