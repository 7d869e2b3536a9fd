package suggest

import (
	"sort"
	"time"

	"github.com/tchap/go-patricia/v2/patricia"

	"github.com/chmc/listall/internal/utils"
	"github.com/chmc/listall/pkg/store"
)

// candidate is one distinct item identity, grouped by normalized title,
// with statistics aggregated across every occurrence on every list.
type candidate struct {
	key      string     // normalized title
	rep      store.Item // most recently modified occurrence
	lastUsed time.Time
	count    int
	uses     []time.Time // creation timestamps, feeds the average-gap stat
}

// avgGap returns the mean duration between consecutive uses, or zero when
// fewer than two occurrences exist.
func (c *candidate) avgGap() time.Duration {
	if len(c.uses) < 2 {
		return 0
	}
	uses := append([]time.Time(nil), c.uses...)
	sort.Slice(uses, func(i, j int) bool { return uses[i].Before(uses[j]) })

	var total time.Duration
	for i := 1; i < len(uses); i++ {
		total += uses[i].Sub(uses[i-1])
	}
	return total / time.Duration(len(uses)-1)
}

// collect groups the snapshot by normalized title and returns the candidates
// visible under scope, sorted by key, plus a patricia trie over their keys
// holding each candidate's slice index. Scope restricts which titles are
// offered; counts, last-used and gap statistics always span all lists. The
// excluded item is removed from aggregation entirely, so an item being
// edited is never suggested as itself.
func collect(items []store.Item, scope Scope, excludeID string) ([]candidate, *patricia.Trie) {
	byKey := make(map[string]*candidate)
	inScope := make(map[string]bool)

	for _, it := range items {
		if excludeID != "" && it.ID == excludeID {
			continue
		}
		key := utils.NormalizeTitle(it.Title)
		if key == "" {
			continue
		}

		c, ok := byKey[key]
		if !ok {
			c = &candidate{key: key, rep: it, lastUsed: it.ModifiedAt}
			byKey[key] = c
		}
		c.count++
		c.uses = append(c.uses, it.CreatedAt)
		if it.ModifiedAt.After(c.lastUsed) {
			c.lastUsed = it.ModifiedAt
		}
		if it.ModifiedAt.After(c.rep.ModifiedAt) {
			c.rep = it
		}
		if scope.AllLists() || it.ListID == scope.ListID {
			inScope[key] = true
		}
	}

	keys := make([]string, 0, len(inScope))
	for key := range inScope {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	candidates := make([]candidate, 0, len(keys))
	trie := patricia.NewTrie()
	for i, key := range keys {
		candidates = append(candidates, *byKey[key])
		trie.Insert(patricia.Prefix(key), i)
	}
	return candidates, trie
}
