package cart

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// FileStore persists the cart as a JSON array at a fixed path, the
// browser-local-storage analog for a process that restarts.
type FileStore struct {
	path string
}

// NewFileStore builds a store writing to the given path.
func NewFileStore(path string) (*FileStore, error) {
	if path == "" {
		return nil, fmt.Errorf("cart store path required")
	}
	return &FileStore{path: path}, nil
}

// Load reads the persisted entry list. A missing or unparseable file yields
// an empty list, never an error worth failing startup over.
func (s *FileStore) Load() ([]Entry, error) {
	raw, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var entries []Entry
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, nil
	}
	return entries, nil
}

// Save writes the full entry list, creating the parent directory on first use.
func (s *FileStore) Save(entries []Entry) error {
	if entries == nil {
		entries = []Entry{}
	}
	raw, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("encode cart: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create cart dir: %w", err)
	}
	if err := os.WriteFile(s.path, raw, 0o600); err != nil {
		return fmt.Errorf("write cart: %w", err)
	}
	return nil
}
