// Package broker simulates an equities broker over daily open/close
// auctions: it queues limit orders, resolves them against auction reference
// prices, keeps the tax-lot book and cash balance current, and exposes the
// read-only reporting surface for the end of a run.
package broker

import (
	"fmt"
	"sort"
	"time"

	"github.com/rustyeddy/daybook/ledger"
	"github.com/rustyeddy/daybook/market"
)

// Client is the narrow surface a strategy sees. Orders queue here and are
// resolved by the runner after the callback returns; a non-nil error from a
// submit call means the order was rejected, never silently dropped.
type Client interface {
	LimitOnOpen(symbol string, limit, size float64, buy bool, meta market.Meta) error
	LimitOnClose(symbol string, limit, size float64, buy bool, meta market.Meta) error

	// History returns bars strictly before the current session plus the
	// session's reference price (open when afterOpen, close otherwise).
	History(symbol string, afterOpen bool) ([]market.Bar, float64, error)

	Cash() float64
	Quantity(symbol string) float64
	Positions() []ledger.Position
}

// Dividend is one cash dividend credited to one open lot on its ex-date.
type Dividend struct {
	Symbol   string
	ExDate   market.Timestamp
	PerShare float64
	Shares   float64
	Amount   float64
	Acquired market.Timestamp
	TradeID  int
}

// CashPoint is the cash balance after a session completed.
type CashPoint struct {
	Date market.Timestamp
	Cash float64
}

type phase int

const (
	phaseIdle phase = iota
	phasePreOpen
	phasePreClose
)

// Broker owns all mutable simulation state. It is driven one session at a
// time: BeginSession, ResolveOpen, ResolveClose. Mutation is single-threaded
// by design; reporting getters return copies.
type Broker struct {
	cash   float64
	assets map[string]*market.Asset
	book   *ledger.Book
	policy Policy

	phase   phase
	session time.Time
	pending []OrderRequest

	trades      []market.Trade
	commissions []Commission
	dividends   []Dividend
	cashCurve   []CashPoint
	nextID      map[string]int

	reportedTrades int
	reportedComms  int
}

type Option func(*Broker)

// WithPolicy sets the commission schedule. Default is the notional-rate
// reference policy.
func WithPolicy(p Policy) Option {
	return func(b *Broker) { b.policy = p }
}

// WithBook substitutes the tax-lot book, e.g. to change the long-term
// threshold or the lot selector.
func WithBook(book *ledger.Book) Option {
	return func(b *Broker) { b.book = book }
}

// New builds a broker over the given universe with an initial cash balance.
func New(cash float64, assets map[string]*market.Asset, opts ...Option) *Broker {
	b := &Broker{
		cash:   cash,
		assets: assets,
		book:   ledger.NewBook(),
		policy: NotionalRate{Rate: DefaultRate},
		nextID: make(map[string]int),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// --- order submission -------------------------------------------------

// LimitOnOpen queues a limit order against the current session's opening
// auction. Valid only during the pre-open phase.
func (b *Broker) LimitOnOpen(symbol string, limit, size float64, buy bool, meta market.Meta) error {
	if b.phase != phasePreOpen {
		return fmt.Errorf("limit-on-open %s: the open auction has passed: %w", symbol, ErrOrderPhase)
	}
	return b.submit(OrderRequest{Symbol: symbol, Limit: limit, Size: size, Buy: buy, Timing: AtOpen, Meta: meta})
}

// LimitOnClose queues a limit order against the current session's closing
// auction. Valid only during the pre-close phase.
func (b *Broker) LimitOnClose(symbol string, limit, size float64, buy bool, meta market.Meta) error {
	if b.phase != phasePreClose {
		return fmt.Errorf("limit-on-close %s: not accepted before the open auction: %w", symbol, ErrOrderPhase)
	}
	return b.submit(OrderRequest{Symbol: symbol, Limit: limit, Size: size, Buy: buy, Timing: AtClose, Meta: meta})
}

func (b *Broker) submit(req OrderRequest) error {
	if err := req.validate(); err != nil {
		return fmt.Errorf("%s: %w", req.Symbol, err)
	}
	if _, ok := b.assets[req.Symbol]; !ok {
		return fmt.Errorf("%s: %w", req.Symbol, ErrUnknownSymbol)
	}
	req.Meta = req.Meta.Clone()
	b.pending = append(b.pending, req)
	return nil
}

// --- session lifecycle ------------------------------------------------

// BeginSession enters a session's pre-open phase. Corporate actions take
// effect here: split factors rescale open lots, and cash dividends are
// credited per lot on their ex-date.
func (b *Broker) BeginSession(date time.Time) error {
	b.session = market.DateOf(date)
	b.phase = phasePreOpen
	b.pending = b.pending[:0]

	for _, pos := range b.book.Positions() {
		asset := b.assets[pos.Symbol]
		bar, err := asset.Bar(b.session)
		if err != nil {
			// Symbol not trading this session; nothing to apply.
			continue
		}
		if bar.SplitFactor != 1 {
			if err := b.book.ApplySplit(pos.Symbol, bar.SplitFactor); err != nil {
				return err
			}
		}
		if bar.DivCash != 0 {
			b.creditDividend(pos.Symbol, bar.DivCash)
		}
	}
	return nil
}

func (b *Broker) creditDividend(symbol string, perShare float64) {
	for _, lot := range b.book.Lots(symbol) {
		amount := perShare * lot.Size
		b.cash += amount
		b.dividends = append(b.dividends, Dividend{
			Symbol:   symbol,
			ExDate:   b.session,
			PerShare: perShare,
			Shares:   lot.Size,
			Amount:   amount,
			Acquired: lot.Time,
			TradeID:  lot.TradeID,
		})
	}
}

// ResolveOpen runs the opening auction for every queued on-open order and
// moves the session into its pre-close phase.
func (b *Broker) ResolveOpen() error {
	if b.phase != phasePreOpen {
		return fmt.Errorf("resolve open: session %s not in pre-open phase", b.session.Format("2006-01-02"))
	}
	if err := b.resolve(AtOpen); err != nil {
		return err
	}
	b.phase = phasePreClose
	return nil
}

// ResolveClose runs the closing auction, drops whatever did not fill, and
// ends the session, recording a cash curve point.
func (b *Broker) ResolveClose() error {
	if b.phase != phasePreClose {
		return fmt.Errorf("resolve close: session %s not in pre-close phase", b.session.Format("2006-01-02"))
	}
	if err := b.resolve(AtClose); err != nil {
		return err
	}
	b.phase = phaseIdle
	b.pending = b.pending[:0]
	b.cashCurve = append(b.cashCurve, CashPoint{Date: b.session, Cash: b.cash})
	return nil
}

// resolve fills eligible orders of one timing at the session's reference
// price. Ineligible orders are the normal no-trade outcome and expire; a
// missing bar or an over-sell is an error that aborts the run.
func (b *Broker) resolve(timing Timing) error {
	var rest []OrderRequest
	for _, req := range b.pending {
		if req.Timing != timing {
			rest = append(rest, req)
			continue
		}

		asset := b.assets[req.Symbol]
		bar, err := asset.Bar(b.session)
		if err != nil {
			return fmt.Errorf("resolve %s auction: %w", timing, err)
		}

		ref := bar.Open
		at := asset.OpenAt(b.session)
		if timing == AtClose {
			ref = bar.Close
			at = asset.CloseAt(b.session)
		}

		if !req.fills(ref) {
			continue
		}
		if err := b.execute(req, ref, at); err != nil {
			return fmt.Errorf("resolve %s auction: %w", timing, err)
		}
	}
	b.pending = rest
	return nil
}

func (b *Broker) execute(req OrderRequest, price float64, at time.Time) error {
	trade := market.Trade{
		ID:     b.nextID[req.Symbol],
		Symbol: req.Symbol,
		Size:   req.SignedSize(),
		Price:  price,
		Time:   at,
		Meta:   req.Meta,
	}

	if _, err := b.book.Record(trade); err != nil {
		return err
	}
	b.nextID[req.Symbol]++

	b.cash -= trade.Notional()
	b.trades = append(b.trades, trade)

	amount := b.policy.Charge(price, trade.Size)
	b.cash -= amount
	b.commissions = append(b.commissions, Commission{
		Symbol:  trade.Symbol,
		TradeID: trade.ID,
		Price:   trade.Price,
		Size:    trade.Size,
		Time:    trade.Time,
		Amount:  amount,
	})
	return nil
}

// Unreported returns the trades and commissions generated since the last
// call and advances the cursor. The runner hands these to the strategy at
// each phase boundary.
func (b *Broker) Unreported() ([]market.Trade, []Commission) {
	trades := b.trades[b.reportedTrades:]
	comms := b.commissions[b.reportedComms:]
	b.reportedTrades = len(b.trades)
	b.reportedComms = len(b.commissions)
	return trades, comms
}

// Sessions returns the union of the universe's trading dates within
// [start, end], in chronological order.
func (b *Broker) Sessions(start, end time.Time) []time.Time {
	start, end = market.DateOf(start), market.DateOf(end)
	seen := make(map[time.Time]bool)
	var out []time.Time
	for _, asset := range b.assets {
		for _, d := range asset.Sessions() {
			if d.Before(start) || d.After(end) || seen[d] {
				continue
			}
			seen[d] = true
			out = append(out, d)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Before(out[j]) })
	return out
}

// --- market data ------------------------------------------------------

// Censored exposes the anti-lookahead view for an arbitrary session date.
func (b *Broker) Censored(symbol string, asOf time.Time, afterOpen bool) ([]market.Bar, float64, error) {
	asset, ok := b.assets[symbol]
	if !ok {
		return nil, 0, fmt.Errorf("%s: %w", symbol, ErrUnknownSymbol)
	}
	return asset.Censored(asOf, afterOpen)
}

// History is Censored at the current session.
func (b *Broker) History(symbol string, afterOpen bool) ([]market.Bar, float64, error) {
	return b.Censored(symbol, b.session, afterOpen)
}

// --- reporting --------------------------------------------------------

func (b *Broker) Cash() float64 { return b.cash }

func (b *Broker) Quantity(symbol string) float64 { return b.book.Quantity(symbol) }

func (b *Broker) Positions() []ledger.Position { return b.book.Positions() }

func (b *Broker) Lots(symbol string) []ledger.Lot { return b.book.Lots(symbol) }

func (b *Broker) CapitalGains() []ledger.CapitalGain { return b.book.Gains() }

func (b *Broker) Trades() []market.Trade {
	out := make([]market.Trade, len(b.trades))
	copy(out, b.trades)
	return out
}

func (b *Broker) Commissions() []Commission {
	out := make([]Commission, len(b.commissions))
	copy(out, b.commissions)
	return out
}

func (b *Broker) Dividends() []Dividend {
	out := make([]Dividend, len(b.dividends))
	copy(out, b.dividends)
	return out
}

func (b *Broker) CashCurve() []CashPoint {
	out := make([]CashPoint, len(b.cashCurve))
	copy(out, b.cashCurve)
	return out
}
