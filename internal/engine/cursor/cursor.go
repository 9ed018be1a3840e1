// Package cursor provides cursor and selection value types for an
// editing session.
//
// Offsets are rune offsets into the document content. All operations
// normalize rather than reject: out-of-range positions are clamped and
// inverted selections are swapped, never errors.
package cursor

import "fmt"

// ClampOffset normalizes a cursor position into [0, max].
func ClampOffset(pos, max int) int {
	if pos < 0 {
		return 0
	}
	if pos > max {
		return max
	}
	return pos
}

// Selection represents a range of selected text.
// Anchor is where the selection started; Head is the current cursor
// position. When Anchor == Head the selection is empty.
// Selection is an immutable value type.
type Selection struct {
	Anchor int
	Head   int
}

// New creates a selection from anchor to head.
func New(anchor, head int) Selection {
	return Selection{Anchor: anchor, Head: head}
}

// IsEmpty returns true if the selection has no extent.
func (s Selection) IsEmpty() bool {
	return s.Anchor == s.Head
}

// Start returns the lower bound of the selection.
func (s Selection) Start() int {
	if s.Anchor <= s.Head {
		return s.Anchor
	}
	return s.Head
}

// End returns the upper bound of the selection.
func (s Selection) End() int {
	if s.Anchor >= s.Head {
		return s.Anchor
	}
	return s.Head
}

// Len returns the length of the selection in runes.
func (s Selection) Len() int {
	return s.End() - s.Start()
}

// Normalize returns a forward selection (anchor <= head).
func (s Selection) Normalize() Selection {
	if s.Anchor <= s.Head {
		return s
	}
	return Selection{Anchor: s.Head, Head: s.Anchor}
}

// Clamp returns a selection with both ends clamped into [0, max].
func (s Selection) Clamp(max int) Selection {
	return Selection{
		Anchor: ClampOffset(s.Anchor, max),
		Head:   ClampOffset(s.Head, max),
	}
}

// Text returns the selected slice of content.
// The selection is normalized and clamped to the content first.
func (s Selection) Text(content string) string {
	runes := []rune(content)
	c := s.Clamp(len(runes)).Normalize()
	return string(runes[c.Start():c.End()])
}

// String returns a debug representation of the selection.
func (s Selection) String() string {
	if s.IsEmpty() {
		return fmt.Sprintf("Cursor(%d)", s.Head)
	}
	return fmt.Sprintf("Selection(%d-%d)", s.Anchor, s.Head)
}
