package images

import "sync"

// Tokener is the read side of the invalidation signal.
type Tokener interface {
	Token() string
}

// Cache holds loaded bytes per image name and drops everything when the
// signal token moves.
type Cache struct {
	mu      sync.Mutex
	store   *Store
	signal  Tokener
	seen    string
	entries map[string]cacheEntry
}

type cacheEntry struct {
	data []byte
	info Info
	ok   bool
}

func NewCache(store *Store, signal Tokener) *Cache {
	return &Cache{store: store, signal: signal, seen: signal.Token(), entries: map[string]cacheEntry{}}
}

// refresh must be called with mu held.
func (c *Cache) refresh() {
	if tok := c.signal.Token(); tok != c.seen {
		c.seen = tok
		c.entries = map[string]cacheEntry{}
	}
}

func (c *Cache) entry(name string) cacheEntry {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.refresh()
	if e, ok := c.entries[name]; ok {
		return e
	}
	var e cacheEntry
	e.data, e.ok = c.store.Load(name)
	if e.ok {
		e.info, _ = describe(e.data)
	}
	c.entries[name] = e
	return e
}

// Get returns bytes for name; false means render a placeholder.
func (c *Cache) Get(name string) ([]byte, bool) {
	e := c.entry(name)
	return e.data, e.ok
}

func (c *Cache) Info(name string) (Info, bool) {
	e := c.entry(name)
	return e.info, e.ok
}

// Token is the signal token the cached entries belong to.
func (c *Cache) Token() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.refresh()
	return c.seen
}

func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Thumbnail scales the cached bytes for name to width.
func (c *Cache) Thumbnail(name string, width int) ([]byte, bool) {
	b, ok := c.Get(name)
	if !ok {
		return nil, false
	}
	return thumbnail(b, width)
}
