// Package watcher detects external changes to a directory-backed store.
//
// It watches the store root with fsnotify and reports changed keys to
// registered handlers. Rapid event bursts for the same key are
// debounced into a single notification.
package watcher

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

// Op is the kind of change observed for a key.
type Op int

const (
	OpWrite Op = iota
	OpRemove
)

// String returns the operation name.
func (op Op) String() string {
	switch op {
	case OpWrite:
		return "write"
	case OpRemove:
		return "remove"
	default:
		return "unknown"
	}
}

// Event is a debounced change notification for one store key.
type Event struct {
	Key string
	Op  Op
}

// Handler receives change events. Handlers run on the watcher
// goroutine and should return quickly.
type Handler func(Event)

// DefaultDebounce is the settle window applied to bursts of events.
const DefaultDebounce = 200 * time.Millisecond

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce sets the settle window.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// WithLogger sets the watcher logger.
func WithLogger(log zerolog.Logger) Option {
	return func(w *Watcher) {
		w.log = log
	}
}

// Watcher watches a store root directory and emits key-level events.
type Watcher struct {
	root     string
	debounce time.Duration
	log      zerolog.Logger

	mu       sync.Mutex
	handlers []Handler
	pending  map[string]Event
	running  bool

	fsw  *fsnotify.Watcher
	stop chan struct{}
	done chan struct{}
}

// New creates a watcher for the given store root. The root must exist.
func New(root string, opts ...Option) (*Watcher, error) {
	w := &Watcher{
		root:     root,
		debounce: DefaultDebounce,
		log:      zerolog.Nop(),
		pending:  make(map[string]Event),
	}
	for _, opt := range opts {
		opt(w)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	w.fsw = fsw
	return w, nil
}

// OnChange registers a handler. Safe to call before or after Start.
func (w *Watcher) OnChange(h Handler) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.handlers = append(w.handlers, h)
}

// Start begins watching. The root and all existing subdirectories are
// added; directories created later are picked up as they appear.
func (w *Watcher) Start() error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = true
	w.stop = make(chan struct{})
	w.done = make(chan struct{})
	w.mu.Unlock()

	if err := w.addDirs(w.root); err != nil {
		w.mu.Lock()
		w.running = false
		w.mu.Unlock()
		return err
	}

	go w.run()
	return nil
}

// Stop halts watching and waits for the loop to exit. Safe to call
// when not running.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	w.running = false
	stop := w.stop
	done := w.done
	w.mu.Unlock()

	close(stop)
	<-done
}

// Close stops the watcher and releases the underlying fsnotify handle.
func (w *Watcher) Close() error {
	w.Stop()
	return w.fsw.Close()
}

// addDirs registers root and every directory under it.
func (w *Watcher) addDirs(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return w.fsw.Add(path)
		}
		return nil
	})
}

func (w *Watcher) run() {
	defer close(w.done)

	ticker := time.NewTicker(w.debounce)
	defer ticker.Stop()

	for {
		select {
		case <-w.stop:
			return
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			w.record(ev)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.log.Warn().Err(err).Msg("watch error")
		case <-ticker.C:
			w.flush()
		}
	}
}

// record converts one fsnotify event into a pending key event.
func (w *Watcher) record(ev fsnotify.Event) {
	// New directories are added to the watch; they carry no key.
	if ev.Op.Has(fsnotify.Create) {
		if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
			if err := w.fsw.Add(ev.Name); err != nil {
				w.log.Warn().Err(err).Str("dir", ev.Name).Msg("watch add failed")
			}
			return
		}
	}

	key, ok := w.keyFor(ev.Name)
	if !ok {
		return
	}

	op := OpWrite
	if ev.Op.Has(fsnotify.Remove) || ev.Op.Has(fsnotify.Rename) {
		op = OpRemove
	}

	w.mu.Lock()
	// Within one settle window the newest operation wins.
	w.pending[key] = Event{Key: key, Op: op}
	w.mu.Unlock()
}

// flush delivers all pending events to the handlers.
func (w *Watcher) flush() {
	w.mu.Lock()
	if len(w.pending) == 0 {
		w.mu.Unlock()
		return
	}
	events := make([]Event, 0, len(w.pending))
	for _, ev := range w.pending {
		events = append(events, ev)
	}
	w.pending = make(map[string]Event)
	handlers := make([]Handler, len(w.handlers))
	copy(handlers, w.handlers)
	w.mu.Unlock()

	for _, ev := range events {
		for _, h := range handlers {
			h(ev)
		}
	}
}

// keyFor maps an absolute path back to a store key.
func (w *Watcher) keyFor(path string) (string, bool) {
	rel, err := filepath.Rel(w.root, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return "", false
	}
	return filepath.ToSlash(rel), true
}
