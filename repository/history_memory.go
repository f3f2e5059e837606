package repository

import (
	"context"
	"sync"

	"tax-estimator/domain"
)

// MemoryHistory is an in-memory implementation of HistoryRepository that
// keeps only the newest capacity entries.
type MemoryHistory struct {
	mu       sync.RWMutex
	data     []domain.HistoryEntry
	capacity int
}

// NewMemoryHistory creates an empty in-memory history. A capacity of zero or
// less keeps every entry.
func NewMemoryHistory(capacity int) *MemoryHistory {
	return &MemoryHistory{
		data:     []domain.HistoryEntry{},
		capacity: capacity,
	}
}

// Save appends the entry, dropping the oldest ones past capacity.
func (r *MemoryHistory) Save(_ context.Context, entry domain.HistoryEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.data = append(r.data, entry)
	if r.capacity > 0 && len(r.data) > r.capacity {
		n := copy(r.data, r.data[len(r.data)-r.capacity:])
		clear(r.data[n:])
		r.data = r.data[:n]
	}
	return nil
}

func (r *MemoryHistory) Recent(_ context.Context, limit int) ([]domain.HistoryEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	n := len(r.data)
	if limit > 0 && limit < n {
		n = limit
	}
	out := make([]domain.HistoryEntry, 0, n)
	for i := len(r.data) - 1; i >= 0 && len(out) < n; i-- {
		out = append(out, r.data[i])
	}
	return out, nil
}

func (r *MemoryHistory) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.data)
}
