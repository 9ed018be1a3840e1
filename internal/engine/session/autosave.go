package session

import (
	"sync/atomic"
	"time"
)

// autosaver periodically saves the session's active document.
// Modeled as a ticker goroutine with explicit stop/done channels.
type autosaver struct {
	session  *Session
	key      string
	interval time.Duration

	stop chan struct{}
	done chan struct{}

	// saving guards against overlapping saves: a tick that fires
	// while a save is still in flight is skipped, not queued.
	saving atomic.Bool
}

// EnableAutosave starts periodic saves of the active document under
// key (empty key derives from the document title at each tick).
// Enabling while already enabled restarts the timer with the new key.
func (s *Session) EnableAutosave(key string) {
	s.DisableAutosave()

	s.mu.Lock()
	a := &autosaver{
		session:  s,
		key:      key,
		interval: s.autosaveInterval,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
	s.autosave = a
	s.mu.Unlock()

	go a.run()
}

// DisableAutosave stops the autosave timer and waits for the loop to
// finish. Safe to call when autosave is not running.
func (s *Session) DisableAutosave() {
	s.mu.Lock()
	a := s.autosave
	s.autosave = nil
	s.mu.Unlock()

	if a == nil {
		return
	}

	close(a.stop)
	<-a.done
}

// AutosaveEnabled returns true while the autosave timer is running.
func (s *Session) AutosaveEnabled() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.autosave != nil
}

// run is the autosave loop.
func (a *autosaver) run() {
	defer close(a.done)

	ticker := time.NewTicker(a.interval)
	defer ticker.Stop()

	for {
		select {
		case <-a.stop:
			return
		case <-ticker.C:
			a.tick()
		}
	}
}

// tick performs one autosave attempt. Failures are logged and
// swallowed; an autosave must never take the session down. Ticks that
// arrive while a save is in flight are skipped.
func (a *autosaver) tick() {
	if !a.saving.CompareAndSwap(false, true) {
		return
	}
	defer a.saving.Store(false)

	s := a.session
	s.mu.Lock()
	doc := s.doc
	s.mu.Unlock()

	if doc == nil {
		return
	}

	if !s.saveDoc(doc, a.key) {
		s.log.Warn().Str("key", a.key).Msg("autosave failed")
	}
}
