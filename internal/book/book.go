// Package book models a book as an ordered tree of chapters and
// sections.
//
// All mutating operations are total: out-of-range indexes and
// unknown children are silent no-ops, never errors. The aggregate is
// mutated as a whole under one caller at a time; unlike the editing
// session it carries no internal locking.
package book

import "time"

// Section is a leaf of the book tree.
type Section struct {
	title    string
	content  string
	metadata map[string]any
}

// Chapter holds content of its own plus an ordered list of sections.
type Chapter struct {
	title    string
	content  string
	metadata map[string]any
	sections []*Section
}

// Book is the root aggregate.
type Book struct {
	title       string
	author      string
	description string
	metadata    map[string]any
	chapters    []*Chapter
	createdAt   time.Time
	updatedAt   time.Time
}

// New creates an empty book.
func New(title, author string) *Book {
	now := time.Now().UTC()
	return &Book{
		title:     title,
		author:    author,
		metadata:  make(map[string]any),
		createdAt: now,
		updatedAt: now,
	}
}

// Title returns the book title.
func (b *Book) Title() string { return b.title }

// Author returns the book author.
func (b *Book) Author() string { return b.author }

// Description returns the book description.
func (b *Book) Description() string { return b.description }

// SetDescription replaces the book description.
func (b *Book) SetDescription(d string) {
	b.description = d
	b.touch()
}

// CreatedAt returns the creation time.
func (b *Book) CreatedAt() time.Time { return b.createdAt }

// UpdatedAt returns the last modification time.
func (b *Book) UpdatedAt() time.Time { return b.updatedAt }

// SetMetadata upserts one book metadata entry.
func (b *Book) SetMetadata(key string, value any) {
	b.metadata[key] = value
	b.touch()
}

// Metadata returns a copy of the book metadata.
func (b *Book) Metadata() map[string]any { return copyMeta(b.metadata) }

// Chapters returns the chapters in order. The slice is a copy; the
// chapters themselves are shared.
func (b *Book) Chapters() []*Chapter {
	out := make([]*Chapter, len(b.chapters))
	copy(out, b.chapters)
	return out
}

// ChapterCount returns the number of chapters.
func (b *Book) ChapterCount() int { return len(b.chapters) }

// Chapter returns the chapter at index i, or nil when out of range.
func (b *Book) Chapter(i int) *Chapter {
	if i < 0 || i >= len(b.chapters) {
		return nil
	}
	return b.chapters[i]
}

// AddChapter appends a chapter and returns it.
func (b *Book) AddChapter(title, content string) *Chapter {
	ch := &Chapter{
		title:    title,
		content:  content,
		metadata: make(map[string]any),
	}
	b.chapters = append(b.chapters, ch)
	b.touch()
	return ch
}

// RemoveChapter removes the given chapter by identity. Removing a
// chapter the book does not hold is a no-op.
func (b *Book) RemoveChapter(ch *Chapter) {
	for i, c := range b.chapters {
		if c == ch {
			b.chapters = append(b.chapters[:i], b.chapters[i+1:]...)
			b.touch()
			return
		}
	}
}

// DeleteChapter removes the chapter at index i. Out-of-range indexes
// leave the sequence unchanged.
func (b *Book) DeleteChapter(i int) {
	if i < 0 || i >= len(b.chapters) {
		return
	}
	b.chapters = append(b.chapters[:i], b.chapters[i+1:]...)
	b.touch()
}

// UpdateChapter replaces the title and content of the chapter at index
// i. Out-of-range indexes are a no-op.
func (b *Book) UpdateChapter(i int, title, content string) {
	if i < 0 || i >= len(b.chapters) {
		return
	}
	b.chapters[i].title = title
	b.chapters[i].content = content
	b.touch()
}

func (b *Book) touch() {
	now := time.Now().UTC()
	if now.Before(b.updatedAt) {
		now = b.updatedAt
	}
	b.updatedAt = now
}

// Title returns the chapter title.
func (c *Chapter) Title() string { return c.title }

// Content returns the chapter's own content.
func (c *Chapter) Content() string { return c.content }

// UpdateContent replaces the chapter content.
func (c *Chapter) UpdateContent(text string) { c.content = text }

// AppendContent concatenates text onto the chapter content.
func (c *Chapter) AppendContent(text string) { c.content += text }

// ClearContent empties the chapter content.
func (c *Chapter) ClearContent() { c.content = "" }

// SetMetadata upserts one chapter metadata entry.
func (c *Chapter) SetMetadata(key string, value any) {
	c.metadata[key] = value
}

// Metadata returns a copy of the chapter metadata.
func (c *Chapter) Metadata() map[string]any { return copyMeta(c.metadata) }

// Sections returns the sections in order. The slice is a copy; the
// sections themselves are shared.
func (c *Chapter) Sections() []*Section {
	out := make([]*Section, len(c.sections))
	copy(out, c.sections)
	return out
}

// SectionCount returns the number of sections.
func (c *Chapter) SectionCount() int { return len(c.sections) }

// Section returns the section at index i, or nil when out of range.
func (c *Chapter) Section(i int) *Section {
	if i < 0 || i >= len(c.sections) {
		return nil
	}
	return c.sections[i]
}

// AddSection appends a section and returns it.
func (c *Chapter) AddSection(title, content string) *Section {
	s := &Section{
		title:    title,
		content:  content,
		metadata: make(map[string]any),
	}
	c.sections = append(c.sections, s)
	return s
}

// RemoveSection removes the given section by identity. Removing a
// section the chapter does not hold is a no-op.
func (c *Chapter) RemoveSection(s *Section) {
	for i, sec := range c.sections {
		if sec == s {
			c.sections = append(c.sections[:i], c.sections[i+1:]...)
			return
		}
	}
}

// DeleteSection removes the section at index i. Out-of-range indexes
// leave the sequence unchanged.
func (c *Chapter) DeleteSection(i int) {
	if i < 0 || i >= len(c.sections) {
		return
	}
	c.sections = append(c.sections[:i], c.sections[i+1:]...)
}

// UpdateSection replaces the title and content of the section at index
// i. Out-of-range indexes are a no-op.
func (c *Chapter) UpdateSection(i int, title, content string) {
	if i < 0 || i >= len(c.sections) {
		return
	}
	c.sections[i].title = title
	c.sections[i].content = content
}

// Title returns the section title.
func (s *Section) Title() string { return s.title }

// Content returns the section content.
func (s *Section) Content() string { return s.content }

// UpdateContent replaces the section content.
func (s *Section) UpdateContent(text string) { s.content = text }

// AppendContent concatenates text onto the section content.
func (s *Section) AppendContent(text string) { s.content += text }

// ClearContent empties the section content.
func (s *Section) ClearContent() { s.content = "" }

// SetMetadata upserts one section metadata entry.
func (s *Section) SetMetadata(key string, value any) {
	s.metadata[key] = value
}

// Metadata returns a copy of the section metadata.
func (s *Section) Metadata() map[string]any { return copyMeta(s.metadata) }

func copyMeta(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
