// Package ledger tracks per-symbol tax-lot inventory and computes realized
// capital gains when sells consume open lots.
package ledger

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/rustyeddy/daybook/market"
)

// ErrInsufficientLots is returned when a sell exceeds the open-lot quantity
// for its symbol. The book is left untouched in that case; partial matching
// would silently corrupt the gains ledger.
var ErrInsufficientLots = errors.New("sell exceeds open lot quantity")

// DefaultLongTermAfter is the holding period beyond which a gain is
// classified long-term. The comparison is strict (held > 365 days).
const DefaultLongTermAfter = 365 * 24 * time.Hour

// Book owns the ordered open-lot sequences for every symbol and the realized
// capital gains accumulated so far. It is not safe for concurrent mutation;
// the simulation owns it for the duration of a run.
type Book struct {
	sel           Selector
	longTermAfter time.Duration

	lots    map[string][]Lot
	symbols []string // insertion order, for stable reporting
	gains   []CapitalGain
}

type BookOption func(*Book)

// WithSelector substitutes the lot-matching order. Default is FIFO.
func WithSelector(sel Selector) BookOption {
	return func(b *Book) { b.sel = sel }
}

// WithLongTermAfter overrides the long-term holding-period threshold.
func WithLongTermAfter(d time.Duration) BookOption {
	return func(b *Book) { b.longTermAfter = d }
}

func NewBook(opts ...BookOption) *Book {
	b := &Book{
		sel:           FIFO{},
		longTermAfter: DefaultLongTermAfter,
		lots:          make(map[string][]Lot),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Record applies a trade to the book. Buys append a lot at the tail; sells
// consume lots in Selector order and return the capital gains they realize.
func (b *Book) Record(t market.Trade) ([]CapitalGain, error) {
	switch {
	case t.Size > 0:
		b.buy(t)
		return nil, nil
	case t.Size < 0:
		return b.sell(t)
	default:
		return nil, fmt.Errorf("ledger %s: zero-size trade %d", t.Symbol, t.ID)
	}
}

func (b *Book) buy(t market.Trade) {
	if _, seen := b.lots[t.Symbol]; !seen {
		b.symbols = append(b.symbols, t.Symbol)
	}
	b.lots[t.Symbol] = append(b.lots[t.Symbol], Lot{
		TradeID: t.ID,
		Symbol:  t.Symbol,
		Size:    t.Size,
		Price:   t.Price,
		Time:    t.Time,
		Meta:    t.Meta.Clone(),
	})
}

func (b *Book) sell(t market.Trade) ([]CapitalGain, error) {
	want := -t.Size
	if b.Quantity(t.Symbol) < want {
		return nil, fmt.Errorf("ledger %s: trade %d sells %v of %v held: %w",
			t.Symbol, t.ID, want, b.Quantity(t.Symbol), ErrInsufficientLots)
	}

	var realized []CapitalGain
	lots := b.lots[t.Symbol]
	for want > 0 {
		i := b.sel.Pick(lots)
		lot := &lots[i]

		matched := want
		if lot.Size < matched {
			matched = lot.Size
		}

		realized = append(realized, CapitalGain{
			Symbol:       t.Symbol,
			Size:         matched,
			OpenTradeID:  lot.TradeID,
			OpenPrice:    lot.Price,
			OpenTime:     lot.Time,
			OpenMeta:     lot.Meta.Clone(),
			CloseTradeID: t.ID,
			ClosePrice:   t.Price,
			CloseTime:    t.Time,
			CloseMeta:    t.Meta.Clone(),
			// Held period compares calendar dates so the auction's
			// time of day cannot tip the classification.
			LongTerm: market.DateOf(t.Time).Sub(market.DateOf(lot.Time)) > b.longTermAfter,
		})

		want -= matched
		lot.Size -= matched
		if lot.Size == 0 {
			lots = append(lots[:i], lots[i+1:]...)
		}
	}
	b.lots[t.Symbol] = lots
	b.gains = append(b.gains, realized...)
	return realized, nil
}

// ApplySplit rescales a symbol's open lots for a split factor f: quantity
// multiplies by f, cost price divides by f, so basis value is conserved.
func (b *Book) ApplySplit(symbol string, factor float64) error {
	if factor <= 0 {
		return fmt.Errorf("ledger %s: split factor must be positive, got %v", symbol, factor)
	}
	lots := b.lots[symbol]
	for i := range lots {
		lots[i].Size *= factor
		lots[i].Price /= factor
	}
	return nil
}

// Quantity is the total remaining lot size for a symbol.
func (b *Book) Quantity(symbol string) float64 {
	var total float64
	for _, lot := range b.lots[symbol] {
		total += lot.Size
	}
	return total
}

// Lots returns a copy of a symbol's open lots, oldest first.
func (b *Book) Lots(symbol string) []Lot {
	lots := b.lots[symbol]
	if len(lots) == 0 {
		return nil
	}
	out := make([]Lot, len(lots))
	copy(out, lots)
	return out
}

// Position summarizes one symbol: total quantity with the oldest lot's cost
// basis. ok is false when nothing is held.
func (b *Book) Position(symbol string) (Position, bool) {
	lots := b.lots[symbol]
	if len(lots) == 0 {
		return Position{}, false
	}
	pos := Position{
		Symbol:  symbol,
		Price:   lots[0].Price,
		TradeID: lots[0].TradeID,
		Time:    lots[0].Time,
	}
	for _, lot := range lots {
		pos.Size += lot.Size
	}
	return pos, true
}

// Positions returns every non-empty position, sorted by symbol.
func (b *Book) Positions() []Position {
	var out []Position
	for _, sym := range b.symbols {
		if pos, ok := b.Position(sym); ok {
			out = append(out, pos)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Symbol < out[j].Symbol })
	return out
}

// Gains returns all realized capital gains in the order they were matched.
func (b *Book) Gains() []CapitalGain {
	out := make([]CapitalGain, len(b.gains))
	copy(out, b.gains)
	return out
}
