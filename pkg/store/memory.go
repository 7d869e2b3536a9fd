package store

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStore keeps all items in a mutex-guarded map.
type MemoryStore struct {
	mu        sync.RWMutex
	items     map[string]Item
	observers []func()
	now       func() time.Time
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		items: make(map[string]Item),
		now:   time.Now,
	}
}

func (m *MemoryStore) Snapshot() []Item {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]Item, 0, len(m.items))
	for _, it := range m.items {
		out = append(out, cloneItem(it))
	}
	return out
}

func (m *MemoryStore) ListItems(listID string) []Item {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []Item
	for _, it := range m.items {
		if it.ListID == listID {
			out = append(out, cloneItem(it))
		}
	}
	return out
}

func (m *MemoryStore) Get(id string) (Item, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	it, ok := m.items[id]
	if !ok {
		return Item{}, ErrNotFound
	}
	return cloneItem(it), nil
}

func (m *MemoryStore) Put(item Item) (Item, error) {
	m.mu.Lock()
	now := m.now()
	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	if item.Quantity <= 0 {
		item.Quantity = 1
	}
	if prev, ok := m.items[item.ID]; ok {
		item.CreatedAt = prev.CreatedAt
	} else if item.CreatedAt.IsZero() {
		item.CreatedAt = now
	}
	if item.ModifiedAt.IsZero() || item.ModifiedAt.Before(item.CreatedAt) {
		item.ModifiedAt = now
	}
	m.items[item.ID] = cloneItem(item)
	m.mu.Unlock()

	m.notify()
	return item, nil
}

func (m *MemoryStore) Delete(id string) error {
	m.mu.Lock()
	_, ok := m.items[id]
	if ok {
		delete(m.items, id)
	}
	m.mu.Unlock()

	if !ok {
		return ErrNotFound
	}
	m.notify()
	return nil
}

func (m *MemoryStore) SetCrossed(id string, crossed bool) error {
	return m.mutate(id, func(it *Item) {
		it.CrossedOut = crossed
	})
}

func (m *MemoryStore) SetImageRefs(id string, refs []string) error {
	return m.mutate(id, func(it *Item) {
		it.ImageRefs = append([]string(nil), refs...)
	})
}

func (m *MemoryStore) OnMutation(fn func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.observers = append(m.observers, fn)
}

func (m *MemoryStore) mutate(id string, apply func(*Item)) error {
	m.mu.Lock()
	it, ok := m.items[id]
	if ok {
		apply(&it)
		it.ModifiedAt = m.now()
		m.items[id] = it
	}
	m.mu.Unlock()

	if !ok {
		return ErrNotFound
	}
	m.notify()
	return nil
}

// notify runs outside the item lock so a callback may re-enter the store.
func (m *MemoryStore) notify() {
	m.mu.RLock()
	obs := make([]func(), len(m.observers))
	copy(obs, m.observers)
	m.mu.RUnlock()

	for _, fn := range obs {
		fn()
	}
}

func cloneItem(it Item) Item {
	if it.ImageRefs != nil {
		it.ImageRefs = append([]string(nil), it.ImageRefs...)
	}
	return it
}
