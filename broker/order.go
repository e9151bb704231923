package broker

import (
	"errors"
	"fmt"

	"github.com/rustyeddy/daybook/market"
)

var (
	// ErrInvalidOrder flags bad order parameters at submission time.
	ErrInvalidOrder = errors.New("invalid order")
	// ErrUnknownSymbol flags orders for symbols outside the universe.
	ErrUnknownSymbol = errors.New("unknown symbol")
	// ErrOrderPhase flags an order submitted in the wrong session phase,
	// e.g. a limit-on-open after the open auction already ran.
	ErrOrderPhase = errors.New("order not valid in current phase")
)

// Timing selects which auction resolves an order.
type Timing int

const (
	AtOpen Timing = iota
	AtClose
)

func (t Timing) String() string {
	if t == AtOpen {
		return "open"
	}
	return "close"
}

// OrderRequest is an ephemeral limit order against one session's auction.
// Unfilled requests expire with the auction; they are never carried to a
// later session.
type OrderRequest struct {
	Symbol string
	Limit  float64
	Size   float64 // positive count
	Buy    bool
	Timing Timing
	Meta   market.Meta
}

// SignedSize is positive for buys, negative for sells.
func (r OrderRequest) SignedSize() float64 {
	if r.Buy {
		return r.Size
	}
	return -r.Size
}

func (r OrderRequest) validate() error {
	if r.Size <= 0 {
		return fmt.Errorf("%w: size must be positive, got %v", ErrInvalidOrder, r.Size)
	}
	if r.Limit <= 0 {
		return fmt.Errorf("%w: limit price must be positive, got %v", ErrInvalidOrder, r.Limit)
	}
	return nil
}

// fills reports whether the limit allows execution at the reference price:
// buys need ref <= limit, sells need ref >= limit. The limit only gates
// eligibility; fills always execute at the reference price.
func (r OrderRequest) fills(ref float64) bool {
	if r.Buy {
		return ref <= r.Limit
	}
	return ref >= r.Limit
}
