package cache

import (
	"slices"
	"sync"
)

// Cache is a generic thread-safe LRU cache with soft limit.
// When the cache exceeds softLimit, the least recently used quarter of the
// entries is evicted.
//
// Cache is safe for concurrent use.
// Cache must not be copied after creation (has mutex).
type Cache[K comparable, V any] struct {
	mu        sync.Mutex
	entries   map[K]*cacheEntry[V]
	softLimit int
	tick      int64 // Monotonic access counter
}

type cacheEntry[V any] struct {
	value V
	atime int64
}

// New creates a new cache with the given soft limit.
// A softLimit of 0 means unlimited.
func New[K comparable, V any](softLimit int) *Cache[K, V] {
	return &Cache[K, V]{
		entries:   make(map[K]*cacheEntry[V]),
		softLimit: softLimit,
	}
}

// Get retrieves a value from the cache.
// Returns (value, true) if found, (zero, false) otherwise.
func (c *Cache[K, V]) Get(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if !ok {
		var zero V
		return zero, false
	}
	c.tick++
	entry.atime = c.tick
	return entry.value, true
}

// Set stores a value in the cache.
func (c *Cache[K, V]) Set(key K, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.store(key, value)
}

// GetOrCreate returns the cached value for key, or calls create and caches
// its result. create runs under the cache lock, so concurrent callers never
// build the same key twice. A create error is returned and nothing is cached.
func (c *Cache[K, V]) GetOrCreate(key K, create func() (V, error)) (V, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if entry, ok := c.entries[key]; ok {
		c.tick++
		entry.atime = c.tick
		return entry.value, nil
	}

	value, err := create()
	if err != nil {
		var zero V
		return zero, err
	}
	c.store(key, value)
	return value, nil
}

// Clear removes all entries from the cache.
func (c *Cache[K, V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[K]*cacheEntry[V])
	c.tick = 0
}

// Len returns the number of entries in the cache.
func (c *Cache[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// store inserts value and evicts when over the soft limit.
// Caller must hold c.mu.
func (c *Cache[K, V]) store(key K, value V) {
	c.tick++
	c.entries[key] = &cacheEntry[V]{value: value, atime: c.tick}

	if c.softLimit > 0 && len(c.entries) > c.softLimit {
		c.evictOldest()
	}
}

// evictOldest removes the oldest entries until the cache holds three
// quarters of softLimit. Caller must hold c.mu.
func (c *Cache[K, V]) evictOldest() {
	targetSize := max(c.softLimit*3/4, 1)
	toEvict := len(c.entries) - targetSize
	if toEvict <= 0 {
		return
	}

	type aged struct {
		key   K
		atime int64
	}
	all := make([]aged, 0, len(c.entries))
	for key, e := range c.entries {
		all = append(all, aged{key: key, atime: e.atime})
	}
	slices.SortFunc(all, func(a, b aged) int {
		return int(a.atime - b.atime)
	})
	for _, e := range all[:toEvict] {
		delete(c.entries, e.key)
	}
}
