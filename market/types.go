package market

import "time"

// Timestamp and Cash document intent in record types without introducing
// conversion friction.
type (
	Timestamp = time.Time
	Cash      = float64
)
