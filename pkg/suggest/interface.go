// Package suggest is the core, computing ranked item suggestions from a
// store snapshot by blending text match quality, recency and usage frequency.
package suggest

import (
	"time"

	"github.com/chmc/listall/pkg/store"
)

// Source supplies item snapshots and mutation notifications to the engine.
// Stores from pkg/store satisfy it directly.
type Source interface {
	// Snapshot returns a consistent copy of every item across all lists.
	Snapshot() []store.Item

	// OnMutation registers a callback invoked after any item mutation.
	OnMutation(fn func())
}

// Scope selects which list suggestions are drawn from. The zero value means
// all lists. Frequency and recency statistics are always aggregated across
// all lists regardless of scope, so popular items are not under-counted on
// a single list.
type Scope struct {
	ListID string
}

// AllLists reports whether this scope spans the whole corpus.
func (s Scope) AllLists() bool { return s.ListID == "" }

// Suggestion is one ranked candidate. It carries enough of the
// representative item to prefill a creation form without further lookups.
type Suggestion struct {
	ItemID      string
	Title       string
	Description string
	Quantity    int
	ImageRefs   []string

	// Score is the composite 0-100 relevance, higher is better.
	Score          float64
	MatchScore     float64
	RecencyScore   float64
	FrequencyScore float64

	// Occurrences counts items sharing this title across all lists.
	Occurrences int
	LastUsed    time.Time

	// AvgGap is the mean duration between consecutive uses. Zero when
	// fewer than two occurrences exist.
	AvgGap time.Duration
}

// Params holds the tunable constants of the engine.
type Params struct {
	MaxResults      int
	FuzzyThreshold  float64
	MatchWeight     float64
	RecencyWeight   float64
	FrequencyWeight float64
	CacheTTL        time.Duration
	CacheSize       int
}

// Default engine constants. The weights and threshold are empirically tuned
// values; override them through Params rather than editing call sites.
const (
	DefaultMaxResults     = 10
	DefaultFuzzyThreshold = 0.6

	DefaultMatchWeight     = 0.3
	DefaultRecencyWeight   = 0.3
	DefaultFrequencyWeight = 0.4

	DefaultCacheTTL  = 5 * time.Minute
	DefaultCacheSize = 100
)

// DefaultParams returns the builtin engine parameters.
func DefaultParams() Params {
	return Params{
		MaxResults:      DefaultMaxResults,
		FuzzyThreshold:  DefaultFuzzyThreshold,
		MatchWeight:     DefaultMatchWeight,
		RecencyWeight:   DefaultRecencyWeight,
		FrequencyWeight: DefaultFrequencyWeight,
		CacheTTL:        DefaultCacheTTL,
		CacheSize:       DefaultCacheSize,
	}
}
