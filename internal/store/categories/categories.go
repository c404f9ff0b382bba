// Package categories keeps the user-editable category list in
// categories.json. Names are labels: duplicates are allowed and nothing
// cascades to items on rename or delete.
package categories

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/labstack/gommon/log"

	"github.com/idilsaglam/mythings/internal/logging"
	"github.com/idilsaglam/mythings/internal/model"
	"github.com/idilsaglam/mythings/internal/store/jsonstore"
)

const FileName = "categories.json"

var (
	ErrEmptyName  = errors.New("category name is empty")
	ErrOutOfRange = errors.New("category index out of range")
	ErrNotFound   = errors.New("category not found")
)

// Defaults is the seed list installed when the persisted list is empty.
var Defaults = []struct{ Name, Color string }{
	{"3C Device", "blue"},
	{"Furniture", "green"},
	{"Kitchen", "orange"},
	{"Clothes", "purple"},
	{"Shoes", "red"},
	{"Bags", "indigo"},
}

type Store struct {
	mu      sync.Mutex
	path    string
	list    []model.Category
	lastErr error
	log     *log.Logger
}

// Open loads path and seeds the defaults if nothing was loaded.
func Open(path string, logger *log.Logger) *Store {
	s := &Store{path: path, log: logging.OrDiscard(logger, "categories")}
	var loaded []model.Category
	if err := jsonstore.Load(path, &loaded); err != nil && !errors.Is(err, jsonstore.ErrNotFound) {
		s.log.Warnf("load categories, starting empty: %v", err)
		loaded = nil
	}
	s.list = loaded
	if len(s.list) == 0 {
		s.seed()
	}
	return s
}

func (s *Store) seed() {
	for _, d := range Defaults {
		s.list = append(s.list, model.Category{ID: uuid.NewString(), Name: d.Name, Color: d.Color})
	}
	s.log.Infof("seeded %d default categories", len(Defaults))
	_ = s.persist()
}

func (s *Store) All() []model.Category {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Category, len(s.list))
	copy(out, s.list)
	return out
}

// Names returns category names in list order.
func (s *Store) Names() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.list))
	for i, c := range s.list {
		out[i] = c.Name
	}
	return out
}

// Has reports whether some category carries name.
func (s *Store) Has(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.list {
		if c.Name == name {
			return true
		}
	}
	return false
}

// Add appends a new category. Unknown colors fall back to the default.
func (s *Store) Add(name, color string) (model.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return model.Category{}, ErrEmptyName
	}
	c := model.Category{ID: uuid.NewString(), Name: name, Color: normalizeColor(color)}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.list = append(s.list, c)
	return c, s.persist()
}

// Delete removes the category at index.
func (s *Store) Delete(index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.deleteLocked(index)
}

// DeleteByID removes the category with id.
func (s *Store) DeleteByID(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, c := range s.list {
		if c.ID == id {
			return s.deleteLocked(i)
		}
	}
	return ErrNotFound
}

// deleteLocked must be called with mu held.
func (s *Store) deleteLocked(index int) error {
	if index < 0 || index >= len(s.list) {
		return fmt.Errorf("%w: have %d, got %d", ErrOutOfRange, len(s.list), index)
	}
	s.list = append(s.list[:index], s.list[index+1:]...)
	return s.persist()
}

// Update replaces the category with the same ID; unknown IDs are a no-op.
func (s *Store) Update(c model.Category) (bool, error) {
	c.Name = strings.TrimSpace(c.Name)
	if c.Name == "" {
		return false, ErrEmptyName
	}
	c.Color = normalizeColor(c.Color)
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.list {
		if s.list[i].ID == c.ID {
			s.list[i] = c
			return true, s.persist()
		}
	}
	return false, nil
}

// ColorFor resolves a palette name; unknown names resolve to blue.
func (s *Store) ColorFor(name string) model.Color {
	return model.ColorFor(name)
}

func (s *Store) LastError() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

func normalizeColor(color string) string {
	color = strings.ToLower(strings.TrimSpace(color))
	if !model.IsPaletteColor(color) {
		return model.DefaultColor
	}
	return color
}

func (s *Store) persist() error {
	if err := jsonstore.Save(s.path, s.list); err != nil {
		s.log.Errorf("save categories: %v", err)
		s.lastErr = fmt.Errorf("save categories: %w", err)
		return s.lastErr
	}
	s.lastErr = nil
	return nil
}
