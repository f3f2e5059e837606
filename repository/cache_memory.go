package repository

import (
	"context"
	"sync"
	"time"
)

// sweepInterval is how often Set also drops every expired entry.
const sweepInterval = time.Minute

type memoryItem struct {
	value   string
	expires time.Time // zero: never
}

// MemoryCache is a process-local CacheRepository. Expired entries are
// removed when read, and in bulk by Set once per sweepInterval.
type MemoryCache struct {
	mu        sync.Mutex
	data      map[string]memoryItem
	now       func() time.Time
	lastSweep time.Time
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{
		data: make(map[string]memoryItem),
		now:  time.Now,
	}
}

func (m *MemoryCache) Get(_ context.Context, key string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	item, ok := m.data[key]
	if !ok {
		return "", false
	}
	if !item.expires.IsZero() && !m.now().Before(item.expires) {
		delete(m.data, key)
		return "", false
	}
	return item.value, true
}

func (m *MemoryCache) Set(_ context.Context, key string, value string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	if now.Sub(m.lastSweep) >= sweepInterval {
		m.sweep(now)
	}

	item := memoryItem{value: value}
	if ttl > 0 {
		item.expires = now.Add(ttl)
	}
	m.data[key] = item
	return nil
}

func (m *MemoryCache) sweep(now time.Time) {
	for key, item := range m.data {
		if !item.expires.IsZero() && !now.Before(item.expires) {
			delete(m.data, key)
		}
	}
	m.lastSweep = now
}

// Len reports the number of stored entries, expired or not.
func (m *MemoryCache) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.data)
}
