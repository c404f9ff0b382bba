// Package items owns the authoritative, ordered collection of things.
// Every mutation rewrites items.json before returning.
package items

import (
	"errors"
	"fmt"
	"sync"

	"github.com/labstack/gommon/log"

	"github.com/idilsaglam/mythings/internal/logging"
	"github.com/idilsaglam/mythings/internal/model"
	"github.com/idilsaglam/mythings/internal/store/jsonstore"
)

const FileName = "items.json"

// Store keeps items in insertion order. Memory is the source of truth: a
// failed write is logged and returned, but the mutation stays applied and
// the next successful write catches the file up.
type Store struct {
	mu      sync.Mutex
	path    string
	items   []model.Item
	lastErr error
	log     *log.Logger
}

// Open loads path. A missing or unreadable document yields an empty store.
func Open(path string, logger *log.Logger) *Store {
	s := &Store{path: path, log: logging.OrDiscard(logger, "items")}
	s.loadAll()
	return s
}

func (s *Store) loadAll() {
	var loaded []model.Item
	err := jsonstore.Load(s.path, &loaded)
	switch {
	case errors.Is(err, jsonstore.ErrNotFound):
		s.log.Debugf("no items yet at %s", s.path)
		loaded = nil
	case err != nil:
		s.log.Warnf("load items, starting empty: %v", err)
		loaded = nil
	}
	s.items = loaded
	s.log.Debugf("loaded %d items", len(s.items))
}

// All returns a copy of the collection.
func (s *Store) All() []model.Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Item, len(s.items))
	copy(out, s.items)
	return out
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

func (s *Store) Get(id string) (model.Item, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, it := range s.items {
		if it.ID == id {
			return it, true
		}
	}
	return model.Item{}, false
}

// Add appends item. The caller supplies a unique ID.
func (s *Store) Add(item model.Item) error {
	if item.ID == "" {
		return fmt.Errorf("add item: empty id")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, it := range s.items {
		if it.ID == item.ID {
			return fmt.Errorf("add item: duplicate id %s", item.ID)
		}
	}
	s.items = append(s.items, item)
	s.log.Debugf("added %s (%s)", item.ID, item.Name)
	return s.persist()
}

// Update replaces the item with the same ID. Unknown IDs are a silent
// no-op: nothing is inserted and nothing is written.
func (s *Store) Update(item model.Item) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.items {
		if s.items[i].ID == item.ID {
			s.items[i] = item
			s.log.Debugf("updated %s", item.ID)
			return true, s.persist()
		}
	}
	return false, nil
}

// Delete removes every item with id and reports how many went.
func (s *Store) Delete(id string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.items[:0]
	removed := 0
	for _, it := range s.items {
		if it.ID == id {
			removed++
			continue
		}
		kept = append(kept, it)
	}
	s.items = kept
	s.log.Debugf("deleted %d item(s) with id %s", removed, id)
	return removed, s.persist()
}

// DeleteAll empties the collection.
func (s *Store) DeleteAll() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = nil
	s.log.Infof("deleted all items")
	return s.persist()
}

// ReferencedImages is the set of image names still in use.
func (s *Store) ReferencedImages() map[string]struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	set := make(map[string]struct{}, len(s.items))
	for _, it := range s.items {
		if it.ImageName != "" {
			set[it.ImageName] = struct{}{}
		}
	}
	return set
}

// LastError is the most recent persistence failure, nil after a good write.
func (s *Store) LastError() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

// persist must be called with mu held.
func (s *Store) persist() error {
	out := s.items
	if out == nil {
		out = []model.Item{}
	}
	if err := jsonstore.Save(s.path, out); err != nil {
		s.log.Errorf("save items: %v", err)
		s.lastErr = fmt.Errorf("save items: %w", err)
		return s.lastErr
	}
	s.lastErr = nil
	return nil
}
