// Package library is the document shelf: title-addressed persistence
// of documents over the blob store, plus listing of what is shelved.
package library

import (
	"time"

	"github.com/rs/zerolog"
	"github.com/tidwall/gjson"

	"github.com/dshills/inkwell/internal/engine/document"
	"github.com/dshills/inkwell/internal/store"
)

// Info summarizes one shelved document without deserializing it.
type Info struct {
	Title     string
	UpdatedAt time.Time
	Key       string
}

// Library saves and loads documents by title.
type Library struct {
	store store.Store
	log   zerolog.Logger
}

// Option configures a Library.
type Option func(*Library)

// WithLogger sets the library logger.
func WithLogger(log zerolog.Logger) Option {
	return func(l *Library) {
		l.log = log
	}
}

// New creates a library over the given store.
func New(st store.Store, opts ...Option) *Library {
	l := &Library{
		store: st,
		log:   zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Save shelves a document under its title-derived key. Returns false
// when the document is nil or the write fails.
func (l *Library) Save(doc *document.Document) bool {
	if doc == nil {
		return false
	}

	key := store.DocumentKey(doc.Title())
	data, err := doc.Marshal()
	if err != nil {
		l.log.Warn().Err(err).Str("key", key).Msg("shelve failed: marshal")
		return false
	}
	if err := l.store.Save(key, data); err != nil {
		l.log.Warn().Err(err).Str("key", key).Msg("shelve failed: store")
		return false
	}
	return true
}

// Load retrieves a document by title. Returns nil when absent or the
// blob cannot be parsed.
func (l *Library) Load(title string) *document.Document {
	key := store.DocumentKey(title)

	data, err := l.store.Load(key)
	if err != nil {
		return nil
	}

	doc, err := document.Unmarshal(data)
	if err != nil {
		l.log.Warn().Err(err).Str("key", key).Msg("load failed: corrupt blob")
		return nil
	}
	return doc
}

// Delete removes a shelved document by title. Returns false when no
// such document is shelved.
func (l *Library) Delete(title string) bool {
	key := store.DocumentKey(title)

	if _, err := l.store.Load(key); err != nil {
		return false
	}
	if err := l.store.Delete(key); err != nil {
		l.log.Warn().Err(err).Str("key", key).Msg("delete failed")
		return false
	}
	return true
}

// List returns a summary of every shelved document, in key order.
// Blobs that are not valid documents are skipped. The title and
// timestamp are peeked out of the raw JSON without a full parse.
func (l *Library) List() []Info {
	keys, err := l.store.List(store.DocumentPrefix)
	if err != nil {
		l.log.Warn().Err(err).Msg("list failed")
		return []Info{}
	}

	infos := make([]Info, 0, len(keys))
	for _, key := range keys {
		data, err := l.store.Load(key)
		if err != nil {
			continue
		}
		if !gjson.ValidBytes(data) {
			l.log.Debug().Str("key", key).Msg("skipping corrupt blob")
			continue
		}

		title := gjson.GetBytes(data, "title")
		if !title.Exists() {
			l.log.Debug().Str("key", key).Msg("skipping blob without title")
			continue
		}

		info := Info{Title: title.String(), Key: key}
		if upd := gjson.GetBytes(data, "updated_at"); upd.Exists() {
			if ts, err := time.Parse(time.RFC3339Nano, upd.String()); err == nil {
				info.UpdatedAt = ts
			}
		}
		infos = append(infos, info)
	}
	return infos
}
