package suggest

import (
	"fmt"
	"time"

	"github.com/chmc/listall/pkg/store"
)

// pair names a title and its modification time for corpus helpers.
type pair struct {
	title    string
	modified time.Time
}

// itemsFromTitles builds one item per title, all touched at now.
func itemsFromTitles(now time.Time, titles ...string) []store.Item {
	items := make([]store.Item, 0, len(titles))
	for i, title := range titles {
		items = append(items, store.Item{
			ID:         fmt.Sprintf("item-%03d", i),
			Title:      title,
			Quantity:   1,
			ListID:     "list-1",
			CreatedAt:  now,
			ModifiedAt: now,
		})
	}
	return items
}

// itemsWithTimes builds one item per pair with distinct IDs.
func itemsWithTimes(pairs ...pair) []store.Item {
	items := make([]store.Item, 0, len(pairs))
	for i, p := range pairs {
		items = append(items, store.Item{
			ID:         fmt.Sprintf("item-%03d", i),
			Title:      p.title,
			Quantity:   1,
			ListID:     "list-1",
			CreatedAt:  p.modified,
			ModifiedAt: p.modified,
		})
	}
	return items
}

// fakeSource is a storage-collaborator double: a fixed snapshot plus
// manually fired mutation callbacks.
type fakeSource struct {
	items     []store.Item
	observers []func()
}

func (f *fakeSource) Snapshot() []store.Item {
	return append([]store.Item(nil), f.items...)
}

func (f *fakeSource) OnMutation(fn func()) {
	f.observers = append(f.observers, fn)
}

// mutate fires the registered callbacks, as a store would after a write.
func (f *fakeSource) mutate() {
	for _, fn := range f.observers {
		fn()
	}
}
