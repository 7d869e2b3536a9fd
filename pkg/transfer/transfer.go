// Package transfer moves list items in and out of a store as JSON, with
// selectable merge behavior on import.
package transfer

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"github.com/charmbracelet/log"

	"github.com/chmc/listall/pkg/store"
)

// Strategy controls how imported items reconcile with existing ones.
type Strategy int

const (
	// Replace wipes the store before loading the document.
	Replace Strategy = iota
	// Merge overwrites items whose IDs already exist and inserts the rest.
	Merge
	// KeepExisting inserts only items whose IDs are not present yet.
	KeepExisting
)

func (s Strategy) String() string {
	switch s {
	case Replace:
		return "replace"
	case Merge:
		return "merge"
	case KeepExisting:
		return "keep-existing"
	default:
		return "unknown"
	}
}

// ParseStrategy maps a config/CLI token onto a Strategy.
func ParseStrategy(s string) (Strategy, error) {
	switch s {
	case "replace":
		return Replace, nil
	case "merge":
		return Merge, nil
	case "keep-existing":
		return KeepExisting, nil
	default:
		return 0, fmt.Errorf("unknown import strategy %q", s)
	}
}

// Document is the on-disk export format.
type Document struct {
	Version int          `json:"version"`
	Items   []store.Item `json:"items"`
}

// DocumentVersion is written into every export.
const DocumentVersion = 1

// Result summarizes an import run.
type Result struct {
	Imported int
	Skipped  int
	Errors   []error
}

// Export writes every item in the store to w as an indented JSON document.
// Items are ordered by list then title then ID so exports diff cleanly.
func Export(s store.Store, w io.Writer) error {
	items := s.Snapshot()
	sort.Slice(items, func(i, j int) bool {
		if items[i].ListID != items[j].ListID {
			return items[i].ListID < items[j].ListID
		}
		if items[i].Title != items[j].Title {
			return items[i].Title < items[j].Title
		}
		return items[i].ID < items[j].ID
	})

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(Document{Version: DocumentVersion, Items: items}); err != nil {
		return fmt.Errorf("encode export: %w", err)
	}
	log.Debugf("Exported %d items", len(items))
	return nil
}

// Import reads a Document from r and loads it into the store using the
// given strategy. Malformed JSON fails the whole import; per-item store
// failures are collected in the Result and do not abort remaining items.
func Import(s store.Store, r io.Reader, strategy Strategy) (Result, error) {
	var doc Document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return Result{}, fmt.Errorf("decode import: %w", err)
	}

	var res Result

	if strategy == Replace {
		for _, it := range s.Snapshot() {
			if err := s.Delete(it.ID); err != nil {
				res.Errors = append(res.Errors, fmt.Errorf("clear item %s: %w", it.ID, err))
			}
		}
	}

	for _, it := range doc.Items {
		if strategy == KeepExisting && it.ID != "" {
			if _, err := s.Get(it.ID); err == nil {
				res.Skipped++
				continue
			}
		}
		if _, err := s.Put(it); err != nil {
			res.Errors = append(res.Errors, fmt.Errorf("import item %q: %w", it.Title, err))
			continue
		}
		res.Imported++
	}

	log.Debugf("Imported %d items (%d skipped, %d errors) with strategy %s",
		res.Imported, res.Skipped, len(res.Errors), strategy)
	return res, nil
}
