package title

import (
	"io/fs"
	"sync"
	"time"
)

type cacheEntry struct {
	data []byte
	size int64
	mod  time.Time
}

func (e cacheEntry) matches(info fs.FileInfo) bool {
	return e.size == info.Size() && e.mod.Equal(info.ModTime())
}

// Cache holds file contents keyed by resolved path. Each entry remembers the
// size and modification time of the file it was read from.
type Cache struct {
	data map[string]cacheEntry
	mu   sync.RWMutex

	hits   int
	misses int
}

// NewCache creates an empty cache.
func NewCache() *Cache {
	return &Cache{
		data: make(map[string]cacheEntry),
	}
}

// Get retrieves an entry if it was stored for a file with the same size and
// modification time as info. A stale entry is dropped.
func (c *Cache) Get(key string, info fs.FileInfo) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.data[key]
	if ok && !e.matches(info) {
		delete(c.data, key)
		ok = false
	}
	if ok {
		c.hits++
	} else {
		c.misses++
	}
	return e.data, ok
}

// Set stores an entry read from a file described by info.
func (c *Cache) Set(key string, data []byte, info fs.FileInfo) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = cacheEntry{data: data, size: info.Size(), mod: info.ModTime()}
}

// Delete drops one entry.
func (c *Cache) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
}

// Len returns the number of cached entries.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.data)
}

// Clear empties the cache and resets its counters.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data = make(map[string]cacheEntry)
	c.hits = 0
	c.misses = 0
}

// Stats returns hit and miss counts since creation or the last Clear.
func (c *Cache) Stats() (hits, misses int) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.hits, c.misses
}
