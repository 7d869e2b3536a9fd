package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS items (
	id          TEXT PRIMARY KEY,
	title       TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	quantity    INTEGER NOT NULL DEFAULT 1,
	crossed_out INTEGER NOT NULL DEFAULT 0,
	list_id     TEXT NOT NULL,
	image_refs  TEXT NOT NULL DEFAULT '[]',
	created_at  INTEGER NOT NULL,
	modified_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_items_list ON items(list_id);
`

// SQLiteStore persists items in a sqlite database file.
type SQLiteStore struct {
	db *sql.DB

	mu        sync.Mutex
	observers []func()
	now       func() time.Time
}

// OpenSQLite opens (and if needed creates) the database at path and ensures
// the schema exists. Use ":memory:" for an ephemeral database.
func OpenSQLite(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite at %s: %w", path, err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &SQLiteStore{db: db, now: time.Now}, nil
}

// Close releases the underlying database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) Snapshot() []Item {
	return s.query("SELECT id, title, description, quantity, crossed_out, list_id, image_refs, created_at, modified_at FROM items")
}

func (s *SQLiteStore) ListItems(listID string) []Item {
	return s.query("SELECT id, title, description, quantity, crossed_out, list_id, image_refs, created_at, modified_at FROM items WHERE list_id = ?", listID)
}

func (s *SQLiteStore) Get(id string) (Item, error) {
	items := s.query("SELECT id, title, description, quantity, crossed_out, list_id, image_refs, created_at, modified_at FROM items WHERE id = ?", id)
	if len(items) == 0 {
		return Item{}, ErrNotFound
	}
	return items[0], nil
}

func (s *SQLiteStore) Put(item Item) (Item, error) {
	now := s.now()
	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	if item.Quantity <= 0 {
		item.Quantity = 1
	}
	if prev, err := s.Get(item.ID); err == nil {
		item.CreatedAt = prev.CreatedAt
	} else if item.CreatedAt.IsZero() {
		item.CreatedAt = now
	}
	if item.ModifiedAt.IsZero() || item.ModifiedAt.Before(item.CreatedAt) {
		item.ModifiedAt = now
	}

	refs, err := json.Marshal(item.ImageRefs)
	if err != nil {
		return Item{}, fmt.Errorf("encode image refs: %w", err)
	}
	crossed := 0
	if item.CrossedOut {
		crossed = 1
	}
	_, err = s.db.Exec(`INSERT INTO items (id, title, description, quantity, crossed_out, list_id, image_refs, created_at, modified_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			description = excluded.description,
			quantity = excluded.quantity,
			crossed_out = excluded.crossed_out,
			list_id = excluded.list_id,
			image_refs = excluded.image_refs,
			modified_at = excluded.modified_at`,
		item.ID, item.Title, item.Description, item.Quantity, crossed,
		item.ListID, string(refs), item.CreatedAt.UnixNano(), item.ModifiedAt.UnixNano())
	if err != nil {
		return Item{}, fmt.Errorf("put item %s: %w", item.ID, err)
	}

	s.notify()
	return item, nil
}

func (s *SQLiteStore) Delete(id string) error {
	res, err := s.db.Exec("DELETE FROM items WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete item %s: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	s.notify()
	return nil
}

func (s *SQLiteStore) SetCrossed(id string, crossed bool) error {
	val := 0
	if crossed {
		val = 1
	}
	return s.update(id, "UPDATE items SET crossed_out = ?, modified_at = ? WHERE id = ?", val)
}

func (s *SQLiteStore) SetImageRefs(id string, refs []string) error {
	encoded, err := json.Marshal(refs)
	if err != nil {
		return fmt.Errorf("encode image refs: %w", err)
	}
	return s.update(id, "UPDATE items SET image_refs = ?, modified_at = ? WHERE id = ?", string(encoded))
}

func (s *SQLiteStore) OnMutation(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.observers = append(s.observers, fn)
}

func (s *SQLiteStore) update(id, stmt string, val any) error {
	res, err := s.db.Exec(stmt, val, s.now().UnixNano(), id)
	if err != nil {
		return fmt.Errorf("update item %s: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	s.notify()
	return nil
}

func (s *SQLiteStore) query(stmt string, args ...any) []Item {
	rows, err := s.db.Query(stmt, args...)
	if err != nil {
		log.Errorf("Querying items: %v", err)
		return nil
	}
	defer rows.Close()

	var items []Item
	for rows.Next() {
		var it Item
		var refs string
		var crossed int
		var created, modified int64
		if err := rows.Scan(&it.ID, &it.Title, &it.Description, &it.Quantity,
			&crossed, &it.ListID, &refs, &created, &modified); err != nil {
			continue
		}
		it.CrossedOut = crossed != 0
		it.CreatedAt = time.Unix(0, created)
		it.ModifiedAt = time.Unix(0, modified)
		if refs != "" && refs != "null" {
			_ = json.Unmarshal([]byte(refs), &it.ImageRefs)
		}
		items = append(items, it)
	}
	return items
}

func (s *SQLiteStore) notify() {
	s.mu.Lock()
	obs := make([]func(), len(s.observers))
	copy(obs, s.observers)
	s.mu.Unlock()

	for _, fn := range obs {
		fn()
	}
}
