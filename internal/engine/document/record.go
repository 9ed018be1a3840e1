package document

import (
	"encoding/json"
	"time"
)

// Record is the serialization-ready snapshot of a document.
// It carries the full persisted blob shape: title, content, metadata,
// format, timestamps, and revision history.
type Record struct {
	ID        string           `json:"id,omitempty"`
	Title     string           `json:"title"`
	Content   string           `json:"content"`
	Metadata  map[string]any   `json:"metadata"`
	Format    string           `json:"format"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
	History   []RevisionRecord `json:"history"`
}

// RevisionRecord is the serialized form of a Revision.
type RevisionRecord struct {
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// Record produces a serialization snapshot of the document.
// It is pure: the document is not modified.
func (d *Document) Record() Record {
	d.mu.RLock()
	defer d.mu.RUnlock()

	meta := make(map[string]any, len(d.metadata))
	for k, v := range d.metadata {
		meta[k] = v
	}

	hist := make([]RevisionRecord, len(d.history))
	for i, rev := range d.history {
		hist[i] = RevisionRecord{Content: rev.Content, Timestamp: rev.Timestamp}
	}

	return Record{
		ID:        d.id,
		Title:     d.title,
		Content:   d.content,
		Metadata:  meta,
		Format:    d.format.String(),
		CreatedAt: d.createdAt,
		UpdatedAt: d.updatedAt,
		History:   hist,
	}
}

// FromRecord reconstructs a document from a serialization snapshot.
// Missing fields are tolerated: a zero record yields a usable empty
// document. The round-trip law holds: FromRecord(r).Record() equals r
// for any record produced by Record().
func FromRecord(rec Record) *Document {
	d := &Document{
		id:        rec.ID,
		title:     rec.Title,
		content:   rec.Content,
		metadata:  make(map[string]any, len(rec.Metadata)),
		format:    ParseFormat(rec.Format),
		createdAt: rec.CreatedAt,
		updatedAt: rec.UpdatedAt,
	}

	for k, v := range rec.Metadata {
		d.metadata[k] = v
	}

	if d.id == "" {
		// Blobs written before IDs existed get one on load.
		d.id = newID()
	}

	if d.updatedAt.Before(d.createdAt) {
		d.updatedAt = d.createdAt
	}

	if len(rec.History) > 0 {
		d.history = make([]Revision, len(rec.History))
		for i, rev := range rec.History {
			d.history[i] = Revision{Content: rev.Content, Timestamp: rev.Timestamp}
		}
	} else {
		d.history = []Revision{{Content: d.content, Timestamp: d.createdAt}}
	}

	return d
}

// Marshal serializes the document record as indented JSON, the
// persisted blob format.
func (d *Document) Marshal() ([]byte, error) {
	return json.MarshalIndent(d.Record(), "", "  ")
}

// Unmarshal parses a persisted blob into a document.
func Unmarshal(data []byte) (*Document, error) {
	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, err
	}
	return FromRecord(rec), nil
}
