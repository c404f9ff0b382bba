// Package brands keeps the ordered, distinct brand suggestion list under a
// single preference key.
package brands

import (
	"fmt"
	"strings"
	"sync"

	"github.com/labstack/gommon/log"

	"github.com/idilsaglam/mythings/internal/logging"
	"github.com/idilsaglam/mythings/internal/store/prefs"
)

// Backend is the slice of the preference store brands need.
type Backend interface {
	Strings(key string) ([]string, error)
	SetStrings(key string, values []string) error
}

type Store struct {
	mu      sync.Mutex
	backend Backend
	list    []string
	lastErr error
	log     *log.Logger
}

func Open(backend Backend, logger *log.Logger) *Store {
	s := &Store{backend: backend, log: logging.OrDiscard(logger, "brands")}
	list, err := backend.Strings(prefs.KeyBrands)
	if err != nil {
		s.log.Warnf("load brands, starting empty: %v", err)
		list = nil
	}
	s.list = append([]string(nil), list...)
	return s
}

func (s *Store) All() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.list))
	copy(out, s.list)
	return out
}

// Add appends the trimmed value unless it is empty or already present
// (case-sensitive). It reports whether the list changed.
func (s *Store) Add(value string) (bool, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return false, nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, b := range s.list {
		if b == value {
			return false, nil
		}
	}
	s.list = append(s.list, value)
	return true, s.persist()
}

// Remove drops the first occurrence of value.
func (s *Store) Remove(value string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, b := range s.list {
		if b == value {
			s.list = append(s.list[:i], s.list[i+1:]...)
			return true, s.persist()
		}
	}
	return false, nil
}

func (s *Store) LastError() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

func (s *Store) persist() error {
	if err := s.backend.SetStrings(prefs.KeyBrands, s.list); err != nil {
		s.log.Errorf("save brands: %v", err)
		s.lastErr = fmt.Errorf("save brands: %w", err)
		return s.lastErr
	}
	s.lastErr = nil
	return nil
}
