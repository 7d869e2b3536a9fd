package suggest

import (
	"fmt"
	"testing"
	"time"
)

// fixed-clock cache for TTL tests.
func testCache(maxEntries int, ttl time.Duration) (*resultCache, *time.Time) {
	now := time.Now()
	c := newResultCache(maxEntries, ttl, func() time.Time { return now })
	return c, &now
}

func TestCacheRoundTrip(t *testing.T) {
	c, _ := testCache(10, 5*time.Minute)
	stored := []Suggestion{{Title: "Milk", Score: 97}}

	c.store("k", stored)
	got, ok := c.lookup("k")
	if !ok {
		t.Fatal("Expected a hit immediately after store")
	}
	if len(got) != 1 || got[0].Title != "Milk" || got[0].Score != 97 {
		t.Errorf("Cached value changed: %+v", got)
	}
}

func TestCacheMiss(t *testing.T) {
	c, _ := testCache(10, 5*time.Minute)
	if _, ok := c.lookup("absent"); ok {
		t.Error("Expected a miss for an unknown key")
	}
}

func TestCacheTTLExpiry(t *testing.T) {
	c, now := testCache(10, 5*time.Minute)
	c.store("k", []Suggestion{{Title: "Milk"}})

	*now = now.Add(4 * time.Minute)
	if _, ok := c.lookup("k"); !ok {
		t.Error("Entry younger than the TTL should hit")
	}

	*now = now.Add(time.Minute) // exactly at the TTL counts as expired
	if _, ok := c.lookup("k"); ok {
		t.Error("Entry at the TTL should be treated as absent")
	}
	if c.len() != 0 {
		t.Errorf("Expired entry should be dropped, %d left", c.len())
	}
}

func TestCacheLRUEviction(t *testing.T) {
	c, _ := testCache(100, 5*time.Minute)
	for i := 0; i < 100; i++ {
		c.store(fmt.Sprintf("k%03d", i), nil)
	}

	// Touch the oldest entry so eviction has to skip it.
	if _, ok := c.lookup("k000"); !ok {
		t.Fatal("Expected k000 to be present")
	}

	c.store("k100", nil)
	if c.len() != 100 {
		t.Errorf("Expected the cache to stay at capacity, got %d", c.len())
	}
	if _, ok := c.lookup("k000"); !ok {
		t.Error("Recently accessed entry was evicted")
	}
	// k001 became the least recently accessed once k000 was touched.
	if _, ok := c.lookup("k001"); ok {
		t.Error("Expected the least recently accessed entry to be evicted")
	}
}

func TestCacheStoreReplaces(t *testing.T) {
	c, _ := testCache(10, 5*time.Minute)
	c.store("k", []Suggestion{{Title: "Old"}})
	c.store("k", []Suggestion{{Title: "New"}})

	got, ok := c.lookup("k")
	if !ok || len(got) != 1 || got[0].Title != "New" {
		t.Errorf("Store should replace in place, got %+v", got)
	}
	if c.len() != 1 {
		t.Errorf("Replace must not grow the cache, len = %d", c.len())
	}
}

func TestCacheInvalidateAll(t *testing.T) {
	c, _ := testCache(10, 5*time.Minute)
	for i := 0; i < 5; i++ {
		c.store(fmt.Sprintf("k%d", i), nil)
	}

	c.invalidateAll()
	if c.len() != 0 {
		t.Errorf("Expected an empty cache, got %d entries", c.len())
	}
	for i := 0; i < 5; i++ {
		if _, ok := c.lookup(fmt.Sprintf("k%d", i)); ok {
			t.Errorf("Key k%d survived invalidation", i)
		}
	}
}

func TestCacheKeyDistinct(t *testing.T) {
	testCases := []struct {
		name string
		a    string
		b    string
	}{
		{"scope differs", cacheKey("milk", Scope{}, ""), cacheKey("milk", Scope{ListID: "l1"}, "")},
		{"exclusion differs", cacheKey("milk", Scope{}, ""), cacheKey("milk", Scope{}, "item-1")},
		{"query differs", cacheKey("milk", Scope{}, ""), cacheKey("silk", Scope{}, "")},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if tc.a == tc.b {
				t.Errorf("Keys collide: %q", tc.a)
			}
		})
	}

	if cacheKey("milk", Scope{ListID: "l1"}, "x") != cacheKey("milk", Scope{ListID: "l1"}, "x") {
		t.Error("Identical queries must produce identical keys")
	}
}
