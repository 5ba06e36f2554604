// Package cache implements the keyed merge-on-reload collection used for
// contests, tasks and submissions. A reload carries existing entries over
// for keys that are still present, so lazily loaded state accumulated on an
// entry survives an unrelated listing refresh, and drops entries whose keys
// disappeared. The backing map is replaced by pointer swap; readers never
// observe a half-merged map.
package cache

import (
	"sync"
	"sync/atomic"
)

type Cache[K comparable, V any] struct {
	entries atomic.Pointer[map[K]V]
	loaded  atomic.Bool
	// mu serializes merges; reads go through the atomic pointer only.
	mu sync.Mutex
}

func New[K comparable, V any]() *Cache[K, V] {
	c := &Cache[K, V]{}
	empty := map[K]V{}
	c.entries.Store(&empty)
	return c
}

// Loaded reports whether a merge has completed since construction or the
// last Invalidate. It flips to true only after the merged map is published.
func (c *Cache[K, V]) Loaded() bool {
	return c.loaded.Load()
}

// Invalidate forces the next access to reload from the platform. The current
// snapshot stays readable in the meantime.
func (c *Cache[K, V]) Invalidate() {
	c.loaded.Store(false)
}

func (c *Cache[K, V]) Get(key K) (V, bool) {
	v, ok := (*c.entries.Load())[key]
	return v, ok
}

func (c *Cache[K, V]) Len() int {
	return len(*c.entries.Load())
}

// Snapshot returns the current backing map. It must be treated as read-only;
// it may be shared with concurrent readers.
func (c *Cache[K, V]) Snapshot() map[K]V {
	return *c.entries.Load()
}

// Values returns the current entries in unspecified order.
func (c *Cache[K, V]) Values() []V {
	snapshot := *c.entries.Load()
	values := make([]V, 0, len(snapshot))
	for _, v := range snapshot {
		values = append(values, v)
	}
	return values
}

// Merge rebuilds the cache from the authoritative key set of a fresh
// listing. Keys already present keep their existing entry (same instance);
// new keys get an entry from factory; stale keys are dropped. The new map is
// published atomically and the loaded flag flips afterwards.
func (c *Cache[K, V]) Merge(freshKeys []K, factory func(K) V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	old := *c.entries.Load()
	merged := make(map[K]V, len(freshKeys))
	for _, key := range freshKeys {
		if existing, ok := old[key]; ok {
			merged[key] = existing
			continue
		}
		merged[key] = factory(key)
	}

	c.entries.Store(&merged)
	c.loaded.Store(true)
}

// Replace publishes an already-built map, flipping the loaded flag after the
// swap. Used by bulk refreshes that assemble their result map elsewhere.
func (c *Cache[K, V]) Replace(entries map[K]V) {
	c.mu.Lock()
	defer c.mu.Unlock()
	copied := make(map[K]V, len(entries))
	for k, v := range entries {
		copied[k] = v
	}
	c.entries.Store(&copied)
	c.loaded.Store(true)
}

// Put inserts a single entry into a copy of the current map and publishes
// the copy. The loaded flag is left untouched: inserting a submission after
// a submit must not make an unloaded history cache look loaded.
func (c *Cache[K, V]) Put(key K, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()
	old := *c.entries.Load()
	updated := make(map[K]V, len(old)+1)
	for k, v := range old {
		updated[k] = v
	}
	updated[key] = value
	c.entries.Store(&updated)
}
