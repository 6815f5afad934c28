// Package cache provides a generic, thread-safe LRU cache.
//
// The cache uses a soft limit: once it is exceeded, the least recently used
// quarter of the entries is evicted in one pass.
//
//	c := cache.New[int, []uint32](8)
//	words, err := c.GetOrCreate(64, func() ([]uint32, error) {
//		return compile(64)
//	})
//
// Cache is safe for concurrent use and must not be copied after creation.
package cache
