package broker

import (
	"fmt"
	"math"
	"strings"

	"github.com/rustyeddy/daybook/market"
)

// Policy maps an execution to a non-negative commission charge. Policies are
// stateless per call; the broker injects one at construction so schedules
// swap without touching execution.
type Policy interface {
	Charge(price, size float64) float64
}

// Commission is one charge, recorded per trade.
type Commission struct {
	Symbol  string
	TradeID int
	Price   float64
	Size    float64 // signed, as executed
	Time    market.Timestamp
	Amount  float64
}

// DefaultRate is the reference notional commission rate.
const DefaultRate = 0.01

// NotionalRate charges rate * |size| * price. This is the reference
// schedule.
type NotionalRate struct {
	Rate float64
}

func (p NotionalRate) Charge(price, size float64) float64 {
	return p.Rate * math.Abs(size) * price
}

// PerShareMin is an Interactive-Brokers-Pro-like schedule: a per-share
// charge with a floor, capped at a fraction of notional.
type PerShareMin struct {
	PerShare    float64 // e.g. 0.005
	Min         float64 // e.g. 1.00
	NotionalCap float64 // e.g. 0.01
}

func (p PerShareMin) Charge(price, size float64) float64 {
	qty := math.Abs(size)
	return math.Min(math.Max(p.Min, p.PerShare*qty), p.NotionalCap*qty*price)
}

// Free charges nothing.
type Free struct{}

func (Free) Charge(price, size float64) float64 { return 0 }

// PolicyByName resolves a commission schedule for config wiring.
func PolicyByName(name string, rate float64) (Policy, error) {
	if rate == 0 {
		rate = DefaultRate
	}
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "notional":
		return NotionalRate{Rate: rate}, nil
	case "ibpro", "per-share":
		return PerShareMin{PerShare: 0.005, Min: 1.0, NotionalCap: rate}, nil
	case "free", "none":
		return Free{}, nil
	default:
		return nil, fmt.Errorf("unknown commission policy %q (supported: notional, ibpro, free)", name)
	}
}
