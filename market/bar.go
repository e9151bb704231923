package market

import "time"

// Bar is one session's prices for one symbol. Date carries only the calendar
// day (normalized to midnight UTC); the open/close timestamps of the session
// come from the Asset's auction times.
type Bar struct {
	Date        time.Time
	Open        float64
	High        float64
	Low         float64
	Close       float64
	Volume      float64
	DivCash     float64
	SplitFactor float64
}

// DateOf normalizes t to its calendar day, midnight UTC. Bars, sessions and
// lookups all key on this form so that wall-clock timestamps and plain dates
// compare equal.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
