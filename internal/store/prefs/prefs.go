// Package prefs is a small key-value preference store backed by SQLite.
package prefs

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

const FileName = "prefs.db"

// Well-known keys.
const (
	KeyBrands          = "SavedBrands"
	KeyTheme           = "theme"
	KeyDefaultCategory = "defaultCategory"
)

type Store struct {
	db *sql.DB
}

// Open creates the database and schema if needed.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open prefs: %w", err)
	}
	if err := initSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("init prefs schema: %w", err)
	}
	return &Store{db: db}, nil
}

func initSchema(db *sql.DB) error {
	_, err := db.Exec(`
	CREATE TABLE IF NOT EXISTS preferences (
		key   TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);`)
	return err
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) get(key string) (string, bool, error) {
	var v string
	err := s.db.QueryRow(`SELECT value FROM preferences WHERE key = ?`, key).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get %s: %w", key, err)
	}
	return v, true, nil
}

func (s *Store) set(key, value string) error {
	_, err := s.db.Exec(
		`INSERT INTO preferences(key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, value,
	)
	if err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}

// Strings returns the list stored under key, nil if the key is unset.
func (s *Store) Strings(key string) ([]string, error) {
	raw, ok, err := s.get(key)
	if err != nil || !ok {
		return nil, err
	}
	var out []string
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return nil, fmt.Errorf("decode %s: %w", key, err)
	}
	return out, nil
}

func (s *Store) SetStrings(key string, values []string) error {
	if values == nil {
		values = []string{}
	}
	b, err := json.Marshal(values)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	return s.set(key, string(b))
}

// String returns the scalar under key, or def when unset.
func (s *Store) String(key, def string) (string, error) {
	v, ok, err := s.get(key)
	if err != nil {
		return def, err
	}
	if !ok {
		return def, nil
	}
	return v, nil
}

func (s *Store) SetString(key, value string) error {
	return s.set(key, value)
}

func (s *Store) Delete(key string) error {
	if _, err := s.db.Exec(`DELETE FROM preferences WHERE key = ?`, key); err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}
