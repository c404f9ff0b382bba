// Package auth manages the bearer token that guards the HTTP API.
package auth

import (
	"crypto/subtle"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

const EnvToken = "MYTHINGS_TOKEN"

type TokenInfo struct {
	Token     string    `json:"token"`
	Source    string    `json:"source"`     // "env" | "file"
	CreatedAt time.Time `json:"created_at"` // when we saved to file
}

// Store reads and writes the credentials file at Path.
type Store struct {
	Path string
}

// Get returns the active token: the env var wins over the file.
// A nil result with nil error means no token is configured.
func (s Store) Get() (*TokenInfo, error) {
	if env := strings.TrimSpace(os.Getenv(EnvToken)); env != "" {
		return &TokenInfo{Token: stripBearer(env), Source: "env"}, nil
	}
	b, err := os.ReadFile(s.Path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read credentials: %w", err)
	}
	var ti TokenInfo
	if err := json.Unmarshal(b, &ti); err != nil {
		return nil, fmt.Errorf("parse credentials: %w", err)
	}
	ti.Token = stripBearer(ti.Token)
	if ti.Token == "" {
		return nil, nil
	}
	return &ti, nil
}

// Set stores token, or a freshly generated one when token is empty.
func (s Store) Set(token string) (*TokenInfo, error) {
	token = stripBearer(strings.TrimSpace(token))
	if token == "" {
		token = uuid.NewString()
	}
	if err := os.MkdirAll(filepath.Dir(s.Path), 0o700); err != nil {
		return nil, fmt.Errorf("mkdir: %w", err)
	}
	ti := TokenInfo{Token: token, Source: "file", CreatedAt: time.Now()}
	b, err := json.MarshalIndent(ti, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal: %w", err)
	}
	// write with 0600 (owner-only)
	if err := os.WriteFile(s.Path, b, 0o600); err != nil {
		return nil, fmt.Errorf("write: %w", err)
	}
	return &ti, nil
}

func (s Store) Clear() error {
	if err := os.Remove(s.Path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("remove: %w", err)
	}
	return nil
}

// Check compares a presented token in constant time.
func Check(want, got string) bool {
	got = stripBearer(strings.TrimSpace(got))
	return want != "" && subtle.ConstantTimeCompare([]byte(want), []byte(got)) == 1
}

func stripBearer(s string) string {
	if strings.HasPrefix(strings.ToLower(s), "bearer ") {
		return strings.TrimSpace(s[7:])
	}
	return s
}
