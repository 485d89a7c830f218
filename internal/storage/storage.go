// Package storage persists small pieces of client state as JSON files under
// a single state directory. It is the terminal-app equivalent of browser
// localStorage: synchronous reads on construction, synchronous writes on
// every mutation, last write wins.
package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

const (
	// File names mirror the localStorage keys used by the web client so a
	// reader can map one onto the other.
	TokenKey     = "token"
	FavoritesKey = "favorites"
	SettingsKey  = "userSettings"
)

// Store reads and writes JSON values keyed by file name.
type Store struct {
	dir string
}

// New returns a store rooted at dir, creating it if necessary.
func New(dir string) (*Store, error) {
	if dir == "" {
		return nil, errors.New("storage: state directory is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: create state dir: %w", err)
	}
	return &Store{dir: dir}, nil
}

// DefaultDir resolves the per-user state directory.
func DefaultDir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("storage: resolve config dir: %w", err)
	}
	return filepath.Join(base, "folio"), nil
}

// Dir reports the directory backing the store.
func (s *Store) Dir() string {
	return s.dir
}

// Read unmarshals the value stored under key into out. A missing key is
// reported as os.ErrNotExist so callers can fall back to zero values.
func (s *Store) Read(key string, out any) error {
	data, err := os.ReadFile(s.pathFor(key))
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("storage: decode %s: %w", key, err)
	}
	return nil
}

// Write marshals value and replaces the file under key. The write goes
// through a temp file and rename so a crash never leaves a torn value.
func (s *Store) Write(key string, value any) error {
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return fmt.Errorf("storage: encode %s: %w", key, err)
	}
	path := s.pathFor(key)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("storage: write %s: %w", key, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("storage: replace %s: %w", key, err)
	}
	return nil
}

// Delete removes the value stored under key. Deleting a missing key is a
// no-op.
func (s *Store) Delete(key string) error {
	err := os.Remove(s.pathFor(key))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("storage: delete %s: %w", key, err)
	}
	return nil
}

func (s *Store) pathFor(key string) string {
	return filepath.Join(s.dir, key+".json")
}
