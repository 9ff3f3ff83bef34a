package texture

import (
	"image"
	"sync"
)

// Cache is a concurrency-safe texture cache keyed by file path. Scenes
// rendered in parallel share environment maps through it.
type Cache struct {
	mu    sync.RWMutex
	items map[string]*cacheEntry
	load  func(string) (*image.NRGBA, error)
}

type cacheEntry struct {
	img *image.NRGBA
	err error
}

// NewCache creates an empty texture cache that decodes with Load.
func NewCache() *Cache {
	return &Cache{
		items: make(map[string]*cacheEntry),
		load:  Load,
	}
}

// Get returns the decoded image for path, loading it on first use. Load
// failures are cached too so a broken file is only read once.
func (c *Cache) Get(path string) (*image.NRGBA, error) {
	// Fast path: read lock
	c.mu.RLock()
	if entry, exists := c.items[path]; exists {
		c.mu.RUnlock()
		return entry.img, entry.err
	}
	c.mu.RUnlock()

	// Slow path: load from disk
	img, err := c.load(path)

	// Write lock with double-check
	c.mu.Lock()
	defer c.mu.Unlock()
	if entry, exists := c.items[path]; exists {
		return entry.img, entry.err
	}
	c.items[path] = &cacheEntry{img: img, err: err}
	return img, err
}

// Len returns the number of cached paths.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}
