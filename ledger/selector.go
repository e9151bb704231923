package ledger

// Selector decides which open lot a sell consumes next. It is the single
// decision point for lot-matching order: Pick is called repeatedly while a
// sell still has unexplained quantity and must return the index of the next
// lot to consume from the (non-empty) open-lot slice.
type Selector interface {
	Pick(lots []Lot) int
}

// FIFO consumes the oldest lot first. This is the default and currently the
// only shipped policy.
type FIFO struct{}

func (FIFO) Pick([]Lot) int { return 0 }
