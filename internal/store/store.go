// Package store provides keyed blob persistence for documents and templates.
//
// The Store interface allows swapping the underlying persistence
// implementation, enabling testing with in-memory stores and potential
// future support for remote backends.
package store

import (
	"errors"
	"strings"
)

// Errors returned by store operations.
var (
	ErrNotFound   = errors.New("key not found")
	ErrInvalidKey = errors.New("invalid key")
)

// Store is a keyed blob persistence abstraction.
// Keys are flat names; saving to an existing key overwrites.
type Store interface {
	// Save writes data under key, overwriting any existing blob.
	Save(key string, data []byte) error

	// Load reads the blob stored under key.
	// Returns ErrNotFound if no blob exists for the key.
	Load(key string) ([]byte, error)

	// List returns all keys with the given prefix, sorted.
	// An empty prefix matches every key.
	List(prefix string) ([]string, error)

	// Delete removes the blob under key.
	// Deleting a missing key is not an error.
	Delete(key string) error
}

// Key prefixes for the blob namespaces.
const (
	DocumentPrefix = "documents/"
	TemplatePrefix = "templates/"
	BookPrefix     = "books/"
)

// DocumentKey derives the storage key for a document title.
func DocumentKey(title string) string {
	return DocumentPrefix + sanitize(title) + ".json"
}

// TemplateKey derives the storage key for a template name within a category.
func TemplateKey(category, name string) string {
	return TemplatePrefix + sanitize(category) + "/" + sanitize(name) + ".json"
}

// BookKey derives the storage key for a book title.
func BookKey(title string) string {
	return BookPrefix + sanitize(title) + ".json"
}

// sanitize converts a display name into a path-safe key segment.
// Distinct titles may collide after sanitization; collisions overwrite,
// matching the name-derived file layout of the storage contract.
func sanitize(name string) string {
	name = strings.TrimSpace(strings.ToLower(name))
	if name == "" {
		return "untitled"
	}

	var b strings.Builder
	b.Grow(len(name))
	lastHyphen := false
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastHyphen = false
		case r == '.', r == '_', r == '-':
			b.WriteRune(r)
			lastHyphen = false
		default:
			if !lastHyphen {
				b.WriteByte('-')
				lastHyphen = true
			}
		}
	}

	out := strings.Trim(b.String(), "-")
	if out == "" {
		return "untitled"
	}
	return out
}

// ValidKey reports whether key is usable with a Store.
// Keys must be non-empty and must not escape the store root.
func ValidKey(key string) bool {
	if key == "" {
		return false
	}
	if strings.HasPrefix(key, "/") || strings.Contains(key, "..") {
		return false
	}
	return true
}
