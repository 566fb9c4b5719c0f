package fooddata

import (
	"go.uber.org/atomic"

	"github.com/bububa/platelens/nutrition"
)

// Cache memoizes base (unscaled) nutrition records for the lifetime of the
// process, keyed by the exact search query. It is owned by whoever constructs
// the tool so tests can inject a fresh or pre-seeded instance. There is no
// eviction: growth is bounded by the distinct foods seen per run.
type Cache struct {
	records map[string]nutrition.Record
	hits    atomic.Int64
	misses  atomic.Int64
}

func NewCache() *Cache {
	return &Cache{
		records: make(map[string]nutrition.Record),
	}
}

func (c *Cache) Get(query string) (nutrition.Record, bool) {
	rec, ok := c.records[query]
	if ok {
		c.hits.Inc()
	} else {
		c.misses.Inc()
	}
	return rec, ok
}

func (c *Cache) Put(query string, rec nutrition.Record) {
	c.records[query] = rec
}

func (c *Cache) Len() int {
	return len(c.records)
}

// Stats returns cumulative hit and miss counts.
func (c *Cache) Stats() (hits, misses int64) {
	return c.hits.Load(), c.misses.Load()
}
