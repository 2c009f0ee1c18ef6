package dictionary

import (
	"os"
	"sync"
	"time"
)

// Cache keeps loaded dictionaries keyed by path and reloads a dictionary
// when its file modification time changes. A missing file is cached as an
// empty dictionary until the file appears.
type Cache struct {
	mu      sync.Mutex
	entries map[string]cacheEntry
}

type cacheEntry struct {
	modTime time.Time
	missing bool
	dict    *Dictionary
}

func NewCache() *Cache {
	return &Cache{entries: make(map[string]cacheEntry)}
}

func (c *Cache) Get(path string) *Dictionary {
	var modTime time.Time
	info, err := os.Stat(path)
	missing := err != nil
	if !missing {
		modTime = info.ModTime()
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.entries[path]; ok && e.missing == missing && e.modTime.Equal(modTime) {
		return e.dict
	}
	d := Load(path)
	c.entries[path] = cacheEntry{modTime: modTime, missing: missing, dict: d}
	return d
}

// Invalidate drops the cached dictionary for path.
func (c *Cache) Invalidate(path string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, path)
}
