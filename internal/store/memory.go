package store

import "sync"

// DefaultCapacity is the number of delivered ids a [MemoryStore] retains
// when no explicit capacity is given.
const DefaultCapacity = 1024

// MemoryStore is an in-memory implementation of [Store].
//
// Delivered ids are retained up to a fixed capacity; beyond it the oldest
// ids are evicted first. An evicted id that shows up again is treated as
// unseen, which at worst re-delivers a very old question rather than
// growing memory without bound.
type MemoryStore struct {
	mu       sync.Mutex
	seen     map[int64]struct{}
	order    []int64 // insertion order, oldest first
	capacity int
}

// NewMemoryStore creates a [MemoryStore] retaining up to capacity ids.
// A capacity of zero or less uses [DefaultCapacity].
func NewMemoryStore(capacity int) *MemoryStore {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &MemoryStore{
		seen:     make(map[int64]struct{}, capacity),
		capacity: capacity,
	}
}

// FilterUnseen returns the ids not delivered before, preserving their
// order, and records them as delivered.
func (m *MemoryStore) FilterUnseen(ids []int64) []int64 {
	m.mu.Lock()
	defer m.mu.Unlock()

	unseen := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, exists := m.seen[id]; exists {
			continue
		}
		m.seen[id] = struct{}{}
		m.order = append(m.order, id)
		unseen = append(unseen, id)
	}

	for len(m.order) > m.capacity {
		oldest := m.order[0]
		m.order = m.order[1:]
		delete(m.seen, oldest)
	}

	return unseen
}

// Len reports how many ids are currently tracked.
func (m *MemoryStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.seen)
}
