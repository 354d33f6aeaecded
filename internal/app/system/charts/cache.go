package charts

import (
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
)

// Cache memoizes rendered chart HTML keyed by a hash of the chart input,
// so reloading an unchanged dashboard does not re-render every chart.
type Cache struct {
	ttl     time.Duration
	mu      sync.RWMutex
	entries map[uint64]cachedChart
	now     func() time.Time
}

type cachedChart struct {
	html    string
	expires time.Time
}

// NewCache builds a cache with the given TTL. A TTL of zero disables caching.
func NewCache(ttl time.Duration) *Cache {
	return &Cache{
		ttl:     ttl,
		entries: make(map[uint64]cachedChart),
		now:     time.Now,
	}
}

// Key hashes the parts that determine a chart's output.
func Key(parts ...string) uint64 {
	d := xxhash.New()
	for _, p := range parts {
		_, _ = d.WriteString(p)
		_, _ = d.Write([]byte{0})
	}
	return d.Sum64()
}

// GetOrRender returns the cached entry for key or renders and stores it.
func (c *Cache) GetOrRender(key uint64, render func() (string, error)) (string, error) {
	if html, ok := c.get(key); ok {
		return html, nil
	}
	html, err := render()
	if err != nil {
		return "", err
	}
	c.set(key, html)
	return html, nil
}

// Len reports the number of live entries.
func (c *Cache) Len() int {
	if c == nil {
		return 0
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Sweep drops expired entries and returns how many were removed.
func (c *Cache) Sweep() int {
	if c == nil {
		return 0
	}
	now := c.now()
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for k, e := range c.entries {
		if now.After(e.expires) {
			delete(c.entries, k)
			n++
		}
	}
	return n
}

func (c *Cache) get(key uint64) (string, bool) {
	if c == nil || c.ttl <= 0 {
		return "", false
	}
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok {
		return "", false
	}
	if c.now().After(entry.expires) {
		c.mu.Lock()
		delete(c.entries, key)
		c.mu.Unlock()
		return "", false
	}
	return entry.html, true
}

func (c *Cache) set(key uint64, html string) {
	if c == nil || c.ttl <= 0 {
		return
	}
	c.mu.Lock()
	c.entries[key] = cachedChart{html: html, expires: c.now().Add(c.ttl)}
	c.mu.Unlock()
}
