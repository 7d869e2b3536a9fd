package suggest

import (
	"fmt"
	"reflect"
	"testing"
	"time"

	"github.com/chmc/listall/pkg/store"
)

// newTestEngine pins the engine and cache clocks so scoring is reproducible.
func newTestEngine(src Source, now time.Time) *Engine {
	e := NewEngine(src, DefaultParams())
	e.now = func() time.Time { return now }
	e.cache.now = e.now
	return e
}

// the end-to-end corpus: bananas used a day ago and often, banana bread a
// few days ago and twice, bread long ago and once.
func scenarioSource(now time.Time) *fakeSource {
	var items []store.Item
	add := func(title string, ago time.Duration, count int) {
		for i := 0; i < count; i++ {
			ts := now.Add(-ago - time.Duration(i)*7*24*time.Hour)
			items = append(items, store.Item{
				ID:         fmt.Sprintf("%s-%d", title, i),
				Title:      title,
				Quantity:   1,
				ListID:     "groceries",
				CreatedAt:  ts,
				ModifiedAt: ts,
			})
		}
	}
	add("Bananas", 24*time.Hour, 5)
	add("Bread", 20*24*time.Hour, 1)
	add("Banana Bread", 3*24*time.Hour, 2)
	return &fakeSource{items: items}
}

func TestSuggestScenario(t *testing.T) {
	now := time.Now()
	e := newTestEngine(scenarioSource(now), now)

	got := e.Suggest("Banan", Scope{}, "")
	if len(got) != 2 {
		t.Fatalf("Expected 2 suggestions, got %d: %+v", len(got), got)
	}
	if got[0].Title != "Bananas" {
		t.Errorf("Expected 'Bananas' first on recency+frequency, got %q", got[0].Title)
	}
	if got[1].Title != "Banana Bread" {
		t.Errorf("Expected 'Banana Bread' second, got %q", got[1].Title)
	}
	// 'Bread' fails the fuzzy threshold against 'banan' and must not appear.
	for _, s := range got {
		if s.Title == "Bread" {
			t.Error("'Bread' should have been excluded")
		}
	}

	if got[0].Occurrences != 5 {
		t.Errorf("Expected occurrence count 5, got %d", got[0].Occurrences)
	}
	if got[0].AvgGap != 7*24*time.Hour {
		t.Errorf("Expected 7-day average gap, got %v", got[0].AvgGap)
	}
}

func TestSuggestEmptyQuery(t *testing.T) {
	now := time.Now()
	e := newTestEngine(scenarioSource(now), now)

	got := e.Suggest("", Scope{}, "")
	if len(got) != 3 {
		t.Fatalf("Expected all 3 candidates, got %d", len(got))
	}
	want := []string{"Bananas", "Banana Bread", "Bread"}
	for i, title := range want {
		if got[i].Title != title {
			t.Errorf("Position %d: expected %q, got %q", i, title, got[i].Title)
		}
	}
}

func TestSuggestExactMatchRanksFirst(t *testing.T) {
	now := time.Now()
	src := &fakeSource{items: itemsFromTitles(now, "Milk", "Milkshake", "Oat Milk")}
	e := newTestEngine(src, now)

	got := e.Suggest("Milk", Scope{}, "")
	if len(got) == 0 || got[0].Title != "Milk" {
		t.Fatalf("Expected the exact match first, got %+v", got)
	}
	if got[0].MatchScore != exactMatchScore {
		t.Errorf("Expected base match score %v, got %v", exactMatchScore, got[0].MatchScore)
	}
}

func TestSuggestExcludesItem(t *testing.T) {
	now := time.Now()
	src := &fakeSource{items: itemsFromTitles(now, "Milk", "Bread", "Eggs")}
	e := newTestEngine(src, now)

	for _, query := range []string{"", "milk", "egg"} {
		got := e.Suggest(query, Scope{}, "item-000") // the 'Milk' item
		for _, s := range got {
			if s.ItemID == "item-000" {
				t.Errorf("Query %q: excluded item came back", query)
			}
		}
	}
}

func TestSuggestBoundedOutput(t *testing.T) {
	now := time.Now()
	var titles []string
	for i := 0; i < 50; i++ {
		titles = append(titles, fmt.Sprintf("Thing %02d", i))
	}
	e := newTestEngine(&fakeSource{items: itemsFromTitles(now, titles...)}, now)

	if got := e.Suggest("thing", Scope{}, ""); len(got) > DefaultMaxResults {
		t.Errorf("Expected at most %d results, got %d", DefaultMaxResults, len(got))
	}
}

func TestSuggestFuzzyThresholdYieldsEmpty(t *testing.T) {
	now := time.Now()
	e := newTestEngine(&fakeSource{items: itemsFromTitles(now, "Milk", "Bread")}, now)

	if got := e.Suggest("zucchini", Scope{}, ""); len(got) != 0 {
		t.Errorf("Expected no suggestions, got %+v", got)
	}
}

func TestSuggestDeterministic(t *testing.T) {
	now := time.Now()
	src := scenarioSource(now)
	e := newTestEngine(src, now)

	first := e.Suggest("ban", Scope{}, "")
	e.Invalidate() // force a full recompute rather than a cache echo
	second := e.Suggest("ban", Scope{}, "")

	if !reflect.DeepEqual(first, second) {
		t.Errorf("Same inputs produced different results:\n%+v\n%+v", first, second)
	}
}

func TestSuggestServesFromCache(t *testing.T) {
	now := time.Now()
	src := &fakeSource{items: itemsFromTitles(now, "Milk")}
	e := newTestEngine(src, now)

	before := e.Suggest("milk", Scope{}, "")
	if len(before) != 1 {
		t.Fatalf("Expected 1 result, got %d", len(before))
	}

	// Swap the snapshot without firing mutation callbacks: the cached
	// result must still be served.
	src.items = itemsFromTitles(now, "Bread")
	cached := e.Suggest("milk", Scope{}, "")
	if len(cached) != 1 || cached[0].Title != "Milk" {
		t.Errorf("Expected the cached result, got %+v", cached)
	}

	// A mutation notification invalidates and the next call recomputes.
	src.mutate()
	after := e.Suggest("milk", Scope{}, "")
	if len(after) != 0 {
		t.Errorf("Expected recompute against the new snapshot, got %+v", after)
	}
}

func TestSuggestResultsAreCallerOwned(t *testing.T) {
	now := time.Now()
	e := newTestEngine(&fakeSource{items: itemsFromTitles(now, "Milk")}, now)

	first := e.Suggest("milk", Scope{}, "")
	if len(first) != 1 {
		t.Fatalf("Expected 1 result, got %d", len(first))
	}
	first[0].Title = "Tampered"
	first[0].Score = -99

	second := e.Suggest("milk", Scope{}, "")
	if len(second) != 1 || second[0].Title != "Milk" {
		t.Errorf("Mutating a returned slice leaked into the cache: %+v", second)
	}
	if second[0].Score < 0 {
		t.Errorf("Cached score was clobbered: %v", second[0].Score)
	}
}

func TestSuggestScopeSeparation(t *testing.T) {
	now := time.Now()
	items := []store.Item{
		{ID: "a", Title: "Milk", ListID: "groceries", Quantity: 1, CreatedAt: now, ModifiedAt: now},
		{ID: "b", Title: "Nails", ListID: "hardware", Quantity: 1, CreatedAt: now, ModifiedAt: now},
	}
	e := newTestEngine(&fakeSource{items: items}, now)

	all := e.Suggest("", Scope{}, "")
	if len(all) != 2 {
		t.Fatalf("All-lists scope: expected 2, got %d", len(all))
	}
	scoped := e.Suggest("", Scope{ListID: "groceries"}, "")
	if len(scoped) != 1 || scoped[0].Title != "Milk" {
		t.Errorf("Scoped query leaked across lists: %+v", scoped)
	}
}

func TestSuggestEmptyCorpus(t *testing.T) {
	now := time.Now()
	e := newTestEngine(&fakeSource{}, now)
	if got := e.Suggest("anything", Scope{}, ""); len(got) != 0 {
		t.Errorf("Expected no suggestions from an empty corpus, got %+v", got)
	}
}

func BenchmarkSuggest(b *testing.B) {
	now := time.Now()
	var titles []string
	for i := 0; i < 500; i++ {
		titles = append(titles, fmt.Sprintf("Pantry item %03d", i))
	}
	e := NewEngine(&fakeSource{items: itemsFromTitles(now, titles...)}, DefaultParams())

	queries := []string{"pan", "pantry item 25", "itm", "zz", ""}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		e.Invalidate()
		e.Suggest(queries[i%len(queries)], Scope{}, "")
	}
}
