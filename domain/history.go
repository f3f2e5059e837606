package domain

import "time"

// HistoryEntry is one saved estimate.
type HistoryEntry struct {
	ID        string
	CreatedAt time.Time
	Input     TaxInput
	Result    TaxResult
}
