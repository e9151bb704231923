package ledger

import (
	"github.com/rustyeddy/daybook/market"
)

// Lot is a still-open quantity from one historical buy. Size shrinks as
// later sells consume the lot; cost price and acquisition time never change
// except under a split adjustment.
type Lot struct {
	TradeID int
	Symbol  string
	Size    float64
	Price   float64
	Time    market.Timestamp
	Meta    market.Meta
}

// CapitalGain is one matched (lot, sell) pair. A sell that spans several
// lots produces several records, one per lot consumed. Open fields come from
// the lot, close fields from the sell trade; metadata is copied verbatim
// from both sides.
type CapitalGain struct {
	Symbol string
	Size   float64

	OpenTradeID int
	OpenPrice   float64
	OpenTime    market.Timestamp
	OpenMeta    market.Meta

	CloseTradeID int
	ClosePrice   float64
	CloseTime    market.Timestamp
	CloseMeta    market.Meta

	LongTerm bool
}

// Gain is the realized profit or loss, before commissions.
func (g CapitalGain) Gain() float64 {
	return (g.ClosePrice - g.OpenPrice) * g.Size
}

// Position is the derived per-symbol summary: total remaining quantity with
// the cost basis of the oldest open lot.
type Position struct {
	Symbol  string
	Size    float64
	Price   float64
	TradeID int
	Time    market.Timestamp
}
