// Package strategies collects reference strategies and a small registry for
// resolving them by name from config or CLI flags.
package strategies

import (
	"fmt"
	"strings"

	"github.com/rustyeddy/daybook/backtest"
)

var registry = make(map[string]backtest.Strategy)

// Register adds a strategy under a name. Later registrations win.
func Register(name string, strat backtest.Strategy) {
	registry[strings.ToLower(name)] = strat
}

// Get returns a registered strategy, or nil.
func Get(name string) backtest.Strategy {
	return registry[strings.ToLower(name)]
}

// Params carries the knobs the built-in strategies understand. Strategies
// ignore what they don't use.
type Params struct {
	Symbol string
	Size   float64
	Limit  float64
	Fast   int
	Slow   int
}

// ByName builds one of the built-in strategies, falling back to the
// registry for externally registered names.
func ByName(name string, p Params) (backtest.Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "noop", "none":
		return Noop{}, nil

	case "buy-hold", "buyhold":
		if p.Symbol == "" || p.Size <= 0 {
			return nil, fmt.Errorf("buy-hold: symbol and positive size required")
		}
		return &BuyHold{Symbol: p.Symbol, Size: p.Size, Limit: p.Limit}, nil

	case "ladder":
		if p.Symbol == "" {
			return nil, fmt.Errorf("ladder: symbol required")
		}
		return NewLadder(p.Symbol), nil

	case "sma-cross", "smacross":
		if p.Symbol == "" || p.Size <= 0 {
			return nil, fmt.Errorf("sma-cross: symbol and positive size required")
		}
		if p.Fast <= 0 || p.Slow <= p.Fast {
			return nil, fmt.Errorf("sma-cross: need 0 < fast < slow, got fast=%d slow=%d", p.Fast, p.Slow)
		}
		return &SMACross{Symbol: p.Symbol, Size: p.Size, Fast: p.Fast, Slow: p.Slow}, nil

	default:
		if strat := Get(name); strat != nil {
			return strat, nil
		}
		return nil, fmt.Errorf("unknown strategy %q (supported: noop, buy-hold, ladder, sma-cross)", name)
	}
}
