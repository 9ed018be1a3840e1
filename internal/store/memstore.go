package store

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// MemStore is an in-memory Store implementation.
// It is primarily used in tests as a stand-in for DirStore.
type MemStore struct {
	mu    sync.RWMutex
	blobs map[string][]byte

	// FailSaves forces Save to fail when set; used to exercise
	// storage-failure paths in tests.
	FailSaves bool
}

// NewMemStore creates an empty in-memory store.
func NewMemStore() *MemStore {
	return &MemStore{
		blobs: make(map[string][]byte),
	}
}

// Save stores a copy of data under key.
func (s *MemStore) Save(key string, data []byte) error {
	if !ValidKey(key) {
		return fmt.Errorf("store: save %q: %w", key, ErrInvalidKey)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.FailSaves {
		return fmt.Errorf("store: save %q: simulated failure", key)
	}

	cp := make([]byte, len(data))
	copy(cp, data)
	s.blobs[key] = cp
	return nil
}

// Load returns a copy of the blob stored under key.
func (s *MemStore) Load(key string) ([]byte, error) {
	if !ValidKey(key) {
		return nil, fmt.Errorf("store: load %q: %w", key, ErrInvalidKey)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	data, ok := s.blobs[key]
	if !ok {
		return nil, fmt.Errorf("store: load %q: %w", key, ErrNotFound)
	}

	cp := make([]byte, len(data))
	copy(cp, data)
	return cp, nil
}

// List returns all keys with the given prefix, sorted.
func (s *MemStore) List(prefix string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var keys []string
	for key := range s.blobs {
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
	}

	sort.Strings(keys)
	return keys, nil
}

// Delete removes the blob under key. Missing keys are ignored.
func (s *MemStore) Delete(key string) error {
	if !ValidKey(key) {
		return fmt.Errorf("store: delete %q: %w", key, ErrInvalidKey)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.blobs, key)
	return nil
}

// Len returns the number of stored blobs.
func (s *MemStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.blobs)
}
