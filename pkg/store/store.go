// Package store holds list items and notifies observers after every mutation.
//
// Two implementations are provided: an in-memory store for tests and CLI
// sessions, and a sqlite-backed store for persistent setups. Both invoke the
// registered mutation callbacks synchronously after each create, update,
// delete, cross-out or image change, so consumers (the suggestion engine's
// cache in particular) always observe a store that has already settled.
package store

import (
	"errors"
	"time"
)

// ErrNotFound is returned when an item ID does not exist in the store.
var ErrNotFound = errors.New("store: item not found")

// Item is a single entry on a list. Snapshots handed out by a Store are
// copies; mutating them has no effect on stored state.
type Item struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Quantity    int       `json:"quantity"`
	CrossedOut  bool      `json:"crossed_out"`
	ListID      string    `json:"list_id"`
	ImageRefs   []string  `json:"image_refs,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	ModifiedAt  time.Time `json:"modified_at"`
}

// Store is the storage collaborator for list items.
type Store interface {
	// Snapshot returns a consistent copy of every item across all lists.
	Snapshot() []Item

	// ListItems returns a copy of the items belonging to one list.
	ListItems(listID string) []Item

	// Get returns the item with the given ID, or ErrNotFound.
	Get(id string) (Item, error)

	// Put creates or updates an item. A missing ID is filled in, quantity
	// defaults to 1 and timestamps are maintained. The stored item is
	// returned.
	Put(item Item) (Item, error)

	// Delete removes an item by ID.
	Delete(id string) error

	// SetCrossed marks an item as crossed out or restores it.
	SetCrossed(id string, crossed bool) error

	// SetImageRefs replaces an item's image references.
	SetImageRefs(id string, refs []string) error

	// OnMutation registers a callback invoked synchronously after every
	// mutation. Callbacks registered once fire for the life of the store.
	OnMutation(fn func())
}
