package market

import "math"

// Trade is an immutable execution record. ID is assigned by the broker,
// sequential per symbol starting at 0. Size is signed: positive for buys,
// negative for sells. Time is the session's open or close timestamp
// depending on which auction filled the order.
type Trade struct {
	ID     int
	Symbol string
	Size   float64
	Price  float64
	Time   Timestamp
	Meta   Meta
}

// Notional is the signed cash value of the trade, before commission.
func (t Trade) Notional() float64 {
	return t.Price * t.Size
}

// IsBuy reports whether the trade added to inventory.
func (t Trade) IsBuy() bool { return t.Size > 0 }

// Quantity is the unsigned size.
func (t Trade) Quantity() float64 { return math.Abs(t.Size) }
