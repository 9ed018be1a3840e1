// Package document provides the core document entity for inkwell.
//
// A Document owns its text content, structural metadata, and an
// append-only revision history. All mutation goes through methods;
// every content mutation records a revision snapshot.
package document

import (
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Format specifies the document content format.
type Format uint8

const (
	FormatPlain Format = iota
	FormatMarkdown
)

// String returns the serialized format name.
func (f Format) String() string {
	switch f {
	case FormatMarkdown:
		return "markdown"
	default:
		return "plain"
	}
}

// ParseFormat converts a serialized format name to a Format.
// Unknown names fall back to FormatMarkdown, the authoring default.
func ParseFormat(s string) Format {
	switch s {
	case "plain":
		return FormatPlain
	case "markdown":
		return FormatMarkdown
	default:
		return FormatMarkdown
	}
}

// Revision is a content snapshot taken at a point in time.
type Revision struct {
	Content   string
	Timestamp time.Time
}

// Document is a single piece of written content plus its metadata and
// revision history. All methods are thread-safe.
//
// Every mutating method is total: any input, including the empty
// string, is accepted and never produces an error.
type Document struct {
	mu sync.RWMutex

	id        string
	title     string
	content   string
	metadata  map[string]any
	format    Format
	createdAt time.Time
	updatedAt time.Time
	history   []Revision
}

// newID generates a stable document identifier.
func newID() string {
	return uuid.New().String()
}

// New creates a document with the given title and author.
// The author is recorded in metadata. The initial (empty) content is
// captured as the creation revision.
func New(title, author string) *Document {
	now := time.Now().UTC()
	d := &Document{
		id:        newID(),
		title:     title,
		metadata:  make(map[string]any),
		format:    FormatMarkdown,
		createdAt: now,
		updatedAt: now,
		history:   []Revision{{Content: "", Timestamp: now}},
	}
	if author != "" {
		d.metadata["author"] = author
	}
	return d
}

// ID returns the document's stable identifier.
func (d *Document) ID() string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.id
}

// Title returns the document title.
func (d *Document) Title() string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.title
}

// Content returns the current content.
func (d *Document) Content() string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.content
}

// Len returns the length of the content in runes.
// Cursor and selection offsets are rune offsets into the content.
func (d *Document) Len() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len([]rune(d.content))
}

// Format returns the content format.
func (d *Document) Format() Format {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.format
}

// SetFormat sets the content format. Not a content mutation; the
// revision history is untouched.
func (d *Document) SetFormat(f Format) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.format = f
}

// CreatedAt returns the creation timestamp.
func (d *Document) CreatedAt() time.Time {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.createdAt
}

// UpdatedAt returns the last-modification timestamp.
func (d *Document) UpdatedAt() time.Time {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.updatedAt
}

// UpdateContent replaces the content wholesale and records a revision.
// Any string, including empty, is accepted.
func (d *Document) UpdateContent(text string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.applyContent(text)
}

// AppendContent concatenates text onto the existing content and
// records a revision.
func (d *Document) AppendContent(text string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.applyContent(d.content + text)
}

// ClearContent sets the content to the empty string, versioned like
// any other mutation.
func (d *Document) ClearContent() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.applyContent("")
}

// applyContent performs a content mutation while holding the lock.
// The new content is snapshotted so the most recent revision always
// equals the current content.
func (d *Document) applyContent(text string) {
	now := time.Now().UTC()
	if now.Before(d.updatedAt) {
		now = d.updatedAt
	}

	d.content = text
	d.updatedAt = now
	d.history = append(d.history, Revision{Content: text, Timestamp: now})
}

// SetMetadata upserts a metadata key. Metadata changes do not affect
// the revision history.
func (d *Document) SetMetadata(key string, value any) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.metadata[key] = value
}

// MetadataValue returns the value stored under key, if any.
func (d *Document) MetadataValue(key string) (any, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	v, ok := d.metadata[key]
	return v, ok
}

// Metadata returns a copy of the metadata mapping.
func (d *Document) Metadata() map[string]any {
	d.mu.RLock()
	defer d.mu.RUnlock()

	out := make(map[string]any, len(d.metadata))
	for k, v := range d.metadata {
		out[k] = v
	}
	return out
}

// History returns a copy of the revision history, oldest first.
func (d *Document) History() []Revision {
	d.mu.RLock()
	defer d.mu.RUnlock()

	out := make([]Revision, len(d.history))
	copy(out, d.history)
	return out
}

// WordCount returns the number of whitespace-separated words in the
// current content.
func (d *Document) WordCount() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(strings.Fields(d.content))
}
