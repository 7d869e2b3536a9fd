package suggest

import (
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/chmc/listall/internal/utils"
)

// Engine computes ranked suggestions from a Source and memoizes results.
// Construct one at startup and hand it to whichever surface needs it; it
// registers its cache invalidation on the source at construction time.
type Engine struct {
	source Source
	params Params
	cache  *resultCache
	now    func() time.Time
}

// NewEngine creates an engine over source. Zero fields in params fall back
// to the defaults.
func NewEngine(source Source, params Params) *Engine {
	defaults := DefaultParams()
	if params.MaxResults <= 0 {
		params.MaxResults = defaults.MaxResults
	}
	if params.FuzzyThreshold <= 0 {
		params.FuzzyThreshold = defaults.FuzzyThreshold
	}
	if params.MatchWeight <= 0 && params.RecencyWeight <= 0 && params.FrequencyWeight <= 0 {
		params.MatchWeight = defaults.MatchWeight
		params.RecencyWeight = defaults.RecencyWeight
		params.FrequencyWeight = defaults.FrequencyWeight
	}
	if params.CacheTTL <= 0 {
		params.CacheTTL = defaults.CacheTTL
	}
	if params.CacheSize <= 0 {
		params.CacheSize = defaults.CacheSize
	}

	e := &Engine{
		source: source,
		params: params,
		cache:  newResultCache(params.CacheSize, params.CacheTTL, time.Now),
		now:    time.Now,
	}
	source.OnMutation(e.cache.invalidateAll)
	return e
}

// Suggest returns the ranked suggestions for a query within scope, at most
// MaxResults entries, best first. excludeID removes one item (typically the
// one being edited) from consideration entirely. An empty query ranks the
// whole scoped corpus by recency and frequency. Suggest never fails; an
// empty corpus or a query nothing resembles yields an empty slice.
func (e *Engine) Suggest(query string, scope Scope, excludeID string) []Suggestion {
	q := utils.NormalizeTitle(query)
	key := cacheKey(q, scope, excludeID)

	if results, ok := e.cache.lookup(key); ok {
		return append([]Suggestion(nil), results...)
	}

	items := e.source.Snapshot()
	cands, trie := collect(items, scope, excludeID)
	results := rank(cands, trie, q, e.now(), e.params)

	log.Debugf("Scored %d candidates for %q, kept %d", len(cands), q, len(results))
	e.cache.store(key, results)
	// Callers get their own slice; the cached one must stay pristine.
	return append([]Suggestion(nil), results...)
}

// Invalidate drops every cached result. The engine does this itself on
// store mutations; callers only need it after out-of-band data changes.
func (e *Engine) Invalidate() {
	e.cache.invalidateAll()
}

// Stats returns counters about the engine's cache.
func (e *Engine) Stats() map[string]int {
	return map[string]int{
		"cachedQueries": e.cache.len(),
		"maxEntries":    e.params.CacheSize,
		"maxResults":    e.params.MaxResults,
	}
}

// cacheKey builds the composite cache key. The unit separator keeps
// logically distinct queries from ever colliding.
func cacheKey(normQuery string, scope Scope, excludeID string) string {
	scopeKey := scope.ListID
	if scope.AllLists() {
		scopeKey = "*"
	}
	if excludeID == "" {
		excludeID = "-"
	}
	return strings.Join([]string{normQuery, scopeKey, excludeID}, "\x1f")
}
