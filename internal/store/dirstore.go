package store

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// DirStore persists blobs as files under a root directory.
// Each key maps to a relative file path below the root.
type DirStore struct {
	root string
}

// NewDirStore creates a store rooted at dir, creating it if necessary.
func NewDirStore(dir string) (*DirStore, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("store: resolve root: %w", err)
	}
	if err := os.MkdirAll(abs, 0755); err != nil {
		return nil, fmt.Errorf("store: create root: %w", err)
	}
	return &DirStore{root: abs}, nil
}

// Root returns the absolute root directory of the store.
func (s *DirStore) Root() string {
	return s.root
}

// Save writes data under key, creating parent directories as needed.
func (s *DirStore) Save(key string, data []byte) error {
	if !ValidKey(key) {
		return fmt.Errorf("store: save %q: %w", key, ErrInvalidKey)
	}

	path := filepath.Join(s.root, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("store: save %q: %w", key, err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("store: save %q: %w", key, err)
	}
	return nil
}

// Load reads the blob stored under key.
func (s *DirStore) Load(key string) ([]byte, error) {
	if !ValidKey(key) {
		return nil, fmt.Errorf("store: load %q: %w", key, ErrInvalidKey)
	}

	data, err := os.ReadFile(filepath.Join(s.root, filepath.FromSlash(key)))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("store: load %q: %w", key, ErrNotFound)
		}
		return nil, fmt.Errorf("store: load %q: %w", key, err)
	}
	return data, nil
}

// List returns all keys with the given prefix, sorted.
func (s *DirStore) List(prefix string) ([]string, error) {
	var keys []string

	err := filepath.WalkDir(s.root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			// A vanished entry mid-walk is not fatal to listing.
			return nil
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(s.root, path)
		if err != nil {
			return nil
		}
		key := filepath.ToSlash(rel)
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("store: list %q: %w", prefix, err)
	}

	sort.Strings(keys)
	return keys, nil
}

// Delete removes the blob under key. Missing keys are ignored.
func (s *DirStore) Delete(key string) error {
	if !ValidKey(key) {
		return fmt.Errorf("store: delete %q: %w", key, ErrInvalidKey)
	}

	err := os.Remove(filepath.Join(s.root, filepath.FromSlash(key)))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("store: delete %q: %w", key, err)
	}
	return nil
}
