// Package session provides the editing session for inkwell.
//
// A Session owns at most one active Document and tracks the cursor,
// selection, and undo/redo state around it. Content edits flow through
// Edit, which snapshots the previous content for undo. Persistence
// goes through the injected blob store; storage failures surface as
// boolean or nil results, never as errors, so an interactive caller
// can always continue.
package session

import (
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/dshills/inkwell/internal/engine/cursor"
	"github.com/dshills/inkwell/internal/engine/document"
	"github.com/dshills/inkwell/internal/engine/history"
	"github.com/dshills/inkwell/internal/store"
)

// Session is the stateful controller for one active document.
// All methods are safe for concurrent use; the autosave goroutine
// shares the session with its caller.
type Session struct {
	mu sync.Mutex

	store store.Store
	log   zerolog.Logger

	doc          *document.Document
	cursorPos    int
	selection    cursor.Selection
	hasSelection bool
	hist         *history.History

	historyLimit     int
	autosaveInterval time.Duration
	autosave         *autosaver
}

// New creates a session backed by the given store.
func New(st store.Store, opts ...Option) *Session {
	s := &Session{
		store:            st,
		log:              zerolog.Nop(),
		historyLimit:     history.DefaultMaxEntries,
		autosaveInterval: DefaultAutosaveInterval,
	}

	for _, opt := range opts {
		opt(s)
	}

	s.hist = history.New(s.historyLimit)
	return s
}

// NewDocument creates a fresh document and makes it active.
// The cursor resets to 0, the selection is cleared, and the undo/redo
// stacks are emptied. Always succeeds.
func (s *Session) NewDocument(title, author string) *document.Document {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc := document.New(title, author)
	s.doc = doc
	s.resetEditingState()
	return doc
}

// ActiveDocument returns the active document, or nil when the session
// is empty.
func (s *Session) ActiveDocument() *document.Document {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.doc
}

// HasDocument returns true when a document is active.
func (s *Session) HasDocument() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.doc != nil
}

// SaveDocument serializes the active document and writes it through
// the store under key. An empty key derives one from the document
// title. Returns false, never an error, when there is no active
// document, the key is invalid, or the store write fails.
func (s *Session) SaveDocument(key string) bool {
	s.mu.Lock()
	doc := s.doc
	s.mu.Unlock()

	return s.saveDoc(doc, key)
}

// saveDoc performs the write without holding the session lock, so a
// slow store cannot stall cursor and edit traffic.
func (s *Session) saveDoc(doc *document.Document, key string) bool {
	if doc == nil {
		return false
	}

	if key == "" {
		key = store.DocumentKey(doc.Title())
	}
	if !store.ValidKey(key) {
		s.log.Warn().Str("key", key).Msg("save rejected: invalid key")
		return false
	}

	data, err := doc.Marshal()
	if err != nil {
		s.log.Warn().Err(err).Str("key", key).Msg("save failed: marshal")
		return false
	}

	if err := s.store.Save(key, data); err != nil {
		s.log.Warn().Err(err).Str("key", key).Msg("save failed: store")
		return false
	}

	s.log.Debug().Str("key", key).Str("title", doc.Title()).Msg("document saved")
	return true
}

// LoadDocument reads and deserializes a document from the store.
// On any storage or parse failure it returns nil and leaves the
// session state, including any previous active document, untouched.
// On success the loaded document becomes active and the editing state
// resets.
func (s *Session) LoadDocument(key string) *document.Document {
	if !store.ValidKey(key) {
		return nil
	}

	data, err := s.store.Load(key)
	if err != nil {
		s.log.Debug().Err(err).Str("key", key).Msg("load failed: store")
		return nil
	}

	doc, err := document.Unmarshal(data)
	if err != nil {
		s.log.Warn().Err(err).Str("key", key).Msg("load failed: corrupt blob")
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.doc = doc
	s.resetEditingState()
	return doc
}

// CloseDocument drops the active document and returns the session to
// the empty state. Unsaved changes are discarded.
func (s *Session) CloseDocument() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.doc = nil
	s.resetEditingState()
}

// Close ends the session: the autosave timer stops and the active
// document is released.
func (s *Session) Close() {
	s.DisableAutosave()
	s.CloseDocument()
}

// resetEditingState clears cursor, selection, and both history stacks.
// Callers must hold s.mu.
func (s *Session) resetEditingState() {
	s.cursorPos = 0
	s.hasSelection = false
	s.selection = cursor.Selection{}
	s.hist.Clear()
}

// contentLen returns the active content length in runes.
// Callers must hold s.mu.
func (s *Session) contentLen() int {
	if s.doc == nil {
		return 0
	}
	return s.doc.Len()
}

// SetCursor moves the cursor, clamping into [0, len(content)].
// Never leaves an out-of-range value.
func (s *Session) SetCursor(pos int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cursorPos = cursor.ClampOffset(pos, s.contentLen())
}

// Cursor returns the current cursor position.
func (s *Session) Cursor() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cursorPos
}

// SetSelection selects the range between start and end. Inverted
// input is swapped and both ends are clamped to the content bounds.
func (s *Session) SetSelection(start, end int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sel := cursor.New(start, end).Clamp(s.contentLen()).Normalize()
	s.selection = sel
	s.hasSelection = true
	s.cursorPos = sel.End()
}

// Selection returns the current selection bounds.
// ok is false when nothing is selected.
func (s *Session) Selection() (start, end int, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.hasSelection {
		return 0, 0, false
	}
	return s.selection.Start(), s.selection.End(), true
}

// SelectedText returns the selected slice of the active content,
// empty when nothing is selected.
func (s *Session) SelectedText() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.hasSelection || s.doc == nil {
		return ""
	}
	return s.selection.Text(s.doc.Content())
}

// ClearSelection removes the selection without moving the cursor.
func (s *Session) ClearSelection() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.hasSelection = false
	s.selection = cursor.Selection{}
}

// Edit replaces the active document's content. The previous content
// is pushed onto the undo stack (bounded, oldest evicted first), the
// redo stack is cleared, and the cursor and selection are re-clamped
// to the new bounds. A session with no active document ignores edits.
func (s *Session) Edit(newContent string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.doc == nil {
		return
	}

	s.hist.Push(s.doc.Content())
	s.doc.UpdateContent(newContent)
	s.reclampLocked()
}

// Undo restores the most recent undo snapshot, moving the replaced
// content to the redo stack. Returns false as a no-op when there is
// nothing to undo.
func (s *Session) Undo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.doc == nil {
		return false
	}

	snapshot, ok := s.hist.Undo(s.doc.Content())
	if !ok {
		return false
	}

	s.doc.UpdateContent(snapshot)
	s.reclampLocked()
	return true
}

// Redo is the symmetric inverse of Undo.
func (s *Session) Redo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.doc == nil {
		return false
	}

	snapshot, ok := s.hist.Redo(s.doc.Content())
	if !ok {
		return false
	}

	s.doc.UpdateContent(snapshot)
	s.reclampLocked()
	return true
}

// CanUndo returns true when an undo snapshot is available.
func (s *Session) CanUndo() bool {
	return s.hist.CanUndo()
}

// CanRedo returns true when a redo snapshot is available.
func (s *Session) CanRedo() bool {
	return s.hist.CanRedo()
}

// reclampLocked re-clamps cursor and selection after a content
// mutation. Callers must hold s.mu.
func (s *Session) reclampLocked() {
	max := s.contentLen()
	s.cursorPos = cursor.ClampOffset(s.cursorPos, max)
	if s.hasSelection {
		s.selection = s.selection.Clamp(max).Normalize()
	}
}
