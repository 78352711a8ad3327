// Package cache provides an in-memory keyed snapshot for lookups.
package cache

import "sync"

// Snapshot is a thread-safe keyed view of the last published data set.
// Entries live until the next Replace; nothing expires on its own.
// Keys pass through a key function before every read and write.
type Snapshot[T any] struct {
	mu    sync.RWMutex
	items map[string]T
	key   func(string) string
}

// New creates a snapshot that uses keys as given.
func New[T any]() *Snapshot[T] {
	return NewKeyed[T](nil)
}

// NewKeyed creates a snapshot whose keys are normalized by keyFn, so that
// lookups match regardless of how callers spell the key.
func NewKeyed[T any](keyFn func(string) string) *Snapshot[T] {
	if keyFn == nil {
		keyFn = func(k string) string { return k }
	}
	return &Snapshot[T]{
		items: make(map[string]T),
		key:   keyFn,
	}
}

// Get returns the value stored under key.
func (c *Snapshot[T]) Get(key string) (T, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	v, ok := c.items[c.key(key)]
	return v, ok
}

// Replace swaps the whole content for items in one step. Readers see either
// the old snapshot or the new one, never a mix. A nil map empties it.
func (c *Snapshot[T]) Replace(items map[string]T) {
	next := make(map[string]T, len(items))
	for k, v := range items {
		next[c.key(k)] = v
	}

	c.mu.Lock()
	c.items = next
	c.mu.Unlock()
}
