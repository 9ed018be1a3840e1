package book

import (
	"encoding/json"
	"time"

	"gopkg.in/yaml.v3"
)

// Record is the serialization snapshot of a book tree.
type Record struct {
	Title       string          `json:"title" yaml:"title"`
	Author      string          `json:"author" yaml:"author"`
	Description string          `json:"description,omitempty" yaml:"description,omitempty"`
	Metadata    map[string]any  `json:"metadata" yaml:"metadata,omitempty"`
	Chapters    []ChapterRecord `json:"chapters" yaml:"chapters"`
	CreatedAt   time.Time       `json:"created_at" yaml:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at" yaml:"updated_at"`
}

// ChapterRecord is one chapter in a Record.
type ChapterRecord struct {
	Title    string          `json:"title" yaml:"title"`
	Content  string          `json:"content" yaml:"content,omitempty"`
	Metadata map[string]any  `json:"metadata,omitempty" yaml:"metadata,omitempty"`
	Sections []SectionRecord `json:"sections,omitempty" yaml:"sections,omitempty"`
}

// SectionRecord is one section in a Record.
type SectionRecord struct {
	Title    string         `json:"title" yaml:"title"`
	Content  string         `json:"content" yaml:"content,omitempty"`
	Metadata map[string]any `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

// Record produces a detached snapshot of the book. Mutating the
// snapshot does not affect the book.
func (b *Book) Record() Record {
	rec := Record{
		Title:       b.title,
		Author:      b.author,
		Description: b.description,
		Metadata:    copyMeta(b.metadata),
		Chapters:    make([]ChapterRecord, 0, len(b.chapters)),
		CreatedAt:   b.createdAt,
		UpdatedAt:   b.updatedAt,
	}

	for _, ch := range b.chapters {
		cr := ChapterRecord{
			Title:   ch.title,
			Content: ch.content,
		}
		if len(ch.metadata) > 0 {
			cr.Metadata = copyMeta(ch.metadata)
		}
		for _, s := range ch.sections {
			sr := SectionRecord{
				Title:   s.title,
				Content: s.content,
			}
			if len(s.metadata) > 0 {
				sr.Metadata = copyMeta(s.metadata)
			}
			cr.Sections = append(cr.Sections, sr)
		}
		rec.Chapters = append(rec.Chapters, cr)
	}
	return rec
}

// FromRecord reconstructs a book from a snapshot. Missing timestamps
// are filled with the current time, and UpdatedAt is clamped to be no
// earlier than CreatedAt.
func FromRecord(rec Record) *Book {
	b := New(rec.Title, rec.Author)
	b.description = rec.Description

	for k, v := range rec.Metadata {
		b.metadata[k] = v
	}

	for _, cr := range rec.Chapters {
		ch := b.AddChapter(cr.Title, cr.Content)
		for k, v := range cr.Metadata {
			ch.metadata[k] = v
		}
		for _, sr := range cr.Sections {
			s := ch.AddSection(sr.Title, sr.Content)
			for k, v := range sr.Metadata {
				s.metadata[k] = v
			}
		}
	}

	if !rec.CreatedAt.IsZero() {
		b.createdAt = rec.CreatedAt
	}
	b.updatedAt = rec.UpdatedAt
	if b.updatedAt.Before(b.createdAt) {
		b.updatedAt = b.createdAt
	}
	return b
}

// Marshal serializes the book as indented JSON for storage.
func (b *Book) Marshal() ([]byte, error) {
	return json.MarshalIndent(b.Record(), "", "  ")
}

// Unmarshal deserializes a stored book blob.
func Unmarshal(data []byte) (*Book, error) {
	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, err
	}
	return FromRecord(rec), nil
}

// MarshalManifest serializes the book as a YAML manifest, the
// author-facing interchange format.
func (b *Book) MarshalManifest() ([]byte, error) {
	return yaml.Marshal(b.Record())
}

// UnmarshalManifest deserializes a YAML manifest.
func UnmarshalManifest(data []byte) (*Book, error) {
	var rec Record
	if err := yaml.Unmarshal(data, &rec); err != nil {
		return nil, err
	}
	return FromRecord(rec), nil
}
