// Package history provides bounded undo/redo snapshot stacks for an
// editing session.
//
// The stacks hold full content snapshots. Pushing a new snapshot
// clears the redo stack; undo and redo are mutually exclusive transfer
// paths, so a value popped from one side always pushes the inverse
// state onto the other.
package history

import "sync"

// DefaultMaxEntries bounds the undo stack when no limit is configured.
const DefaultMaxEntries = 100

// History manages undo/redo snapshots for a session.
type History struct {
	mu sync.Mutex

	undoStack []string
	redoStack []string

	maxEntries int
}

// New creates a history with the given undo bound.
// Non-positive bounds fall back to DefaultMaxEntries.
func New(maxEntries int) *History {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	return &History{maxEntries: maxEntries}
}

// Push records a snapshot as the newest undo entry and clears the
// redo stack. When the stack is full the oldest entry is evicted.
func (h *History) Push(snapshot string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.undoStack = append(h.undoStack, snapshot)
	h.redoStack = nil

	if len(h.undoStack) > h.maxEntries {
		excess := len(h.undoStack) - h.maxEntries
		h.undoStack = h.undoStack[excess:]
	}
}

// Undo pops the newest undo snapshot, pushing current onto the redo
// stack. Returns ok=false without changing anything when there is
// nothing to undo.
func (h *History) Undo(current string) (string, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if len(h.undoStack) == 0 {
		return "", false
	}

	snapshot := h.undoStack[len(h.undoStack)-1]
	h.undoStack = h.undoStack[:len(h.undoStack)-1]
	h.redoStack = append(h.redoStack, current)
	return snapshot, true
}

// Redo pops the newest redo snapshot, pushing current onto the undo
// stack. The undo bound is not enforced here: a redo entry always came
// off the undo stack, so the transfer cannot grow past the bound.
func (h *History) Redo(current string) (string, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if len(h.redoStack) == 0 {
		return "", false
	}

	snapshot := h.redoStack[len(h.redoStack)-1]
	h.redoStack = h.redoStack[:len(h.redoStack)-1]
	h.undoStack = append(h.undoStack, current)
	return snapshot, true
}

// CanUndo returns true if undo is available.
func (h *History) CanUndo() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.undoStack) > 0
}

// CanRedo returns true if redo is available.
func (h *History) CanRedo() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.redoStack) > 0
}

// UndoCount returns the number of undo snapshots available.
func (h *History) UndoCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.undoStack)
}

// RedoCount returns the number of redo snapshots available.
func (h *History) RedoCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.redoStack)
}

// Clear removes all undo and redo snapshots.
func (h *History) Clear() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.undoStack = nil
	h.redoStack = nil
}

// MaxEntries returns the undo stack bound.
func (h *History) MaxEntries() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.maxEntries
}
