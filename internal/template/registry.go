package template

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/dshills/inkwell/internal/store"
	"github.com/dshills/inkwell/internal/store/watcher"
)

// Registry holds the known templates, keyed by (name, category).
// Registrations survive in memory even when persistence fails; the
// store is best-effort durability, not the source of truth while the
// process lives.
type Registry struct {
	mu    sync.RWMutex
	store store.Store
	log   zerolog.Logger

	// templates preserves registration order. Re-adding an existing
	// (name, category) pair replaces in place.
	templates []*Template
}

// RegistryOption configures a Registry.
type RegistryOption func(*Registry)

// WithLogger sets the registry logger.
func WithLogger(log zerolog.Logger) RegistryOption {
	return func(r *Registry) {
		r.log = log
	}
}

// NewRegistry creates an empty registry backed by the given store.
func NewRegistry(st store.Store, opts ...RegistryOption) *Registry {
	r := &Registry{
		store: st,
		log:   zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Add registers a template. An empty category defaults to "general".
// Re-adding an existing (name, category) pair overwrites its content
// but keeps its original registration slot. The template is persisted
// through the store; persistence failures are logged and do not undo
// the registration.
func (r *Registry) Add(name, category string, style, layout map[string]any, description string) *Template {
	t := New(name, category)
	t.Description = description
	for k, v := range style {
		t.Style[k] = v
	}
	for k, v := range layout {
		t.Layout[k] = v
	}

	r.mu.Lock()
	if i := r.indexOf(t.Name, t.Category); i >= 0 {
		r.templates[i] = t
	} else {
		r.templates = append(r.templates, t)
	}
	r.mu.Unlock()

	r.persist(t)
	return t.Clone()
}

// Get returns the template with the given name, or nil when absent.
// When the name exists in several categories the earliest-registered
// one wins.
func (r *Registry) Get(name string) *Template {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, t := range r.templates {
		if t.Name == name {
			return t.Clone()
		}
	}
	return nil
}

// GetInCategory returns the template with the given name and category,
// or nil when absent.
func (r *Registry) GetInCategory(name, category string) *Template {
	if category == "" {
		category = DefaultCategory
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	if i := r.indexOf(name, category); i >= 0 {
		return r.templates[i].Clone()
	}
	return nil
}

// List returns template names in registration order. A non-empty
// category filters to that category. The result is never nil.
func (r *Registry) List(category string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.templates))
	for _, t := range r.templates {
		if category == "" || t.Category == category {
			names = append(names, t.Name)
		}
	}
	return names
}

// Search returns templates whose name or description contains query,
// case-insensitively, in registration order. An empty query matches
// every template. The result is never nil.
func (r *Registry) Search(query string) []*Template {
	query = strings.ToLower(query)

	r.mu.RLock()
	defer r.mu.RUnlock()

	results := make([]*Template, 0, len(r.templates))
	for _, t := range r.templates {
		if query == "" ||
			strings.Contains(strings.ToLower(t.Name), query) ||
			strings.Contains(strings.ToLower(t.Description), query) {
			results = append(results, t.Clone())
		}
	}
	return results
}

// Remove deletes a template and its stored blob. Returns false when no
// such template is registered.
func (r *Registry) Remove(name, category string) bool {
	if category == "" {
		category = DefaultCategory
	}

	r.mu.Lock()
	i := r.indexOf(name, category)
	if i < 0 {
		r.mu.Unlock()
		return false
	}
	r.templates = append(r.templates[:i], r.templates[i+1:]...)
	r.mu.Unlock()

	key := store.TemplateKey(category, name)
	if err := r.store.Delete(key); err != nil {
		r.log.Warn().Err(err).Str("key", key).Msg("template blob delete failed")
	}
	return true
}

// Categories returns the distinct categories in use, sorted.
func (r *Registry) Categories() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	seen := make(map[string]bool)
	cats := make([]string, 0)
	for _, t := range r.templates {
		if !seen[t.Category] {
			seen[t.Category] = true
			cats = append(cats, t.Category)
		}
	}
	sort.Strings(cats)
	return cats
}

// Len returns the number of registered templates.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.templates)
}

// LoadAll rebuilds the registry from stored template blobs. Corrupt
// blobs are skipped with a warning. Existing in-memory registrations
// are kept; stored blobs fill in around them.
func (r *Registry) LoadAll() error {
	keys, err := r.store.List(store.TemplatePrefix)
	if err != nil {
		return fmt.Errorf("list templates: %w", err)
	}

	for _, key := range keys {
		r.loadKey(key)
	}
	return nil
}

// WatchStore wires the registry to a store watcher so external edits
// to template blobs are reflected without a restart.
func (r *Registry) WatchStore(w *watcher.Watcher) {
	w.OnChange(func(ev watcher.Event) {
		if !strings.HasPrefix(ev.Key, store.TemplatePrefix) {
			return
		}
		switch ev.Op {
		case watcher.OpRemove:
			r.dropKey(ev.Key)
		default:
			r.loadKey(ev.Key)
		}
	})
}

// loadKey loads one stored blob into the registry, replacing any
// existing registration in place.
func (r *Registry) loadKey(key string) {
	data, err := r.store.Load(key)
	if err != nil {
		r.log.Warn().Err(err).Str("key", key).Msg("template load failed")
		return
	}

	t, err := Unmarshal(data)
	if err != nil {
		r.log.Warn().Err(err).Str("key", key).Msg("skipping corrupt template blob")
		return
	}

	r.mu.Lock()
	if i := r.indexOf(t.Name, t.Category); i >= 0 {
		r.templates[i] = t
	} else {
		r.templates = append(r.templates, t)
	}
	r.mu.Unlock()

	r.log.Debug().Str("name", t.Name).Str("category", t.Category).Msg("template loaded")
}

// dropKey removes the registration whose storage key matches.
func (r *Registry) dropKey(key string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, t := range r.templates {
		if store.TemplateKey(t.Category, t.Name) == key {
			r.templates = append(r.templates[:i], r.templates[i+1:]...)
			return
		}
	}
}

// persist writes one template through the store. Failures are logged;
// the in-memory registration stands either way.
func (r *Registry) persist(t *Template) {
	key := store.TemplateKey(t.Category, t.Name)

	data, err := t.Marshal()
	if err != nil {
		r.log.Warn().Err(err).Str("key", key).Msg("template marshal failed")
		return
	}
	if err := r.store.Save(key, data); err != nil {
		r.log.Warn().Err(err).Str("key", key).Msg("template persist failed")
		return
	}
	r.log.Debug().Str("key", key).Msg("template persisted")
}

// indexOf returns the slot of (name, category), or -1. Callers must
// hold r.mu.
func (r *Registry) indexOf(name, category string) int {
	for i, t := range r.templates {
		if t.Name == name && t.Category == category {
			return i
		}
	}
	return -1
}
