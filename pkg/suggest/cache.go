package suggest

import (
	"container/list"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

// resultCache memoizes scored suggestion lists per query key for a short
// window. Entries expire after ttl and the least recently accessed entry is
// evicted once maxEntries is reached. A lookup hit refreshes recency.
//
// A single mutex guards all operations: lookups also mutate the LRU order,
// so a read/write split buys nothing at this entry count.
type resultCache struct {
	mu         sync.Mutex
	entries    map[string]*list.Element
	lru        *list.List // front = most recently accessed
	maxEntries int
	ttl        time.Duration
	now        func() time.Time
}

type cacheEntry struct {
	key      string
	storedAt time.Time
	results  []Suggestion
}

func newResultCache(maxEntries int, ttl time.Duration, now func() time.Time) *resultCache {
	return &resultCache{
		entries:    make(map[string]*list.Element, maxEntries),
		lru:        list.New(),
		maxEntries: maxEntries,
		ttl:        ttl,
		now:        now,
	}
}

// lookup returns the cached results for key when a live entry exists.
// Entries at or past the TTL are treated as absent and dropped.
func (c *resultCache) lookup(key string) ([]Suggestion, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	entry := el.Value.(*cacheEntry)
	if c.now().Sub(entry.storedAt) >= c.ttl {
		c.lru.Remove(el)
		delete(c.entries, key)
		return nil, false
	}
	c.lru.MoveToFront(el)
	return entry.results, true
}

// store inserts or replaces the entry for key with a fresh timestamp,
// evicting the least recently accessed entry when at capacity.
func (c *resultCache) store(key string, results []Suggestion) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.entries[key]; ok {
		entry := el.Value.(*cacheEntry)
		entry.storedAt = c.now()
		entry.results = results
		c.lru.MoveToFront(el)
		return
	}

	if c.lru.Len() >= c.maxEntries {
		c.evictLRU()
	}
	c.entries[key] = c.lru.PushFront(&cacheEntry{
		key:      key,
		storedAt: c.now(),
		results:  results,
	})
}

// invalidateAll clears every entry. Wired to the store's mutation callbacks:
// any create, update, delete, cross-out or image change may shift matching,
// recency or frequency statistics, and a full clear is the simplest correct
// response at this result-set size.
func (c *resultCache) invalidateAll() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.entries) > 0 {
		log.Debugf("Invalidating %d cached suggestion sets", len(c.entries))
	}
	c.entries = make(map[string]*list.Element, c.maxEntries)
	c.lru.Init()
}

func (c *resultCache) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *resultCache) evictLRU() {
	back := c.lru.Back()
	if back == nil {
		return
	}
	entry := back.Value.(*cacheEntry)
	c.lru.Remove(back)
	delete(c.entries, entry.key)
}
