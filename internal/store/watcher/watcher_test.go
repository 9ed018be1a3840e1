package watcher

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"
)

type eventCollector struct {
	mu     sync.Mutex
	events []Event
}

func (c *eventCollector) handle(ev Event) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, ev)
}

func (c *eventCollector) find(key string) (Event, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, ev := range c.events {
		if ev.Key == key {
			return ev, true
		}
	}
	return Event{}, false
}

func (c *eventCollector) count(key string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, ev := range c.events {
		if ev.Key == key {
			n++
		}
	}
	return n
}

func startWatcher(t *testing.T, root string) (*Watcher, *eventCollector) {
	t.Helper()

	w, err := New(root, WithDebounce(30*time.Millisecond))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { w.Close() })

	var c eventCollector
	w.OnChange(c.handle)

	if err := w.Start(); err != nil {
		t.Fatal(err)
	}
	return w, &c
}

func waitFor(t *testing.T, c *eventCollector, key string) Event {
	t.Helper()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if ev, ok := c.find(key); ok {
			return ev
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("no event for key %q", key)
	return Event{}
}

func TestWatcherReportsWrites(t *testing.T) {
	root := t.TempDir()
	_, c := startWatcher(t, root)

	if err := os.WriteFile(filepath.Join(root, "doc.json"), []byte("{}"), 0o644); err != nil {
		t.Fatal(err)
	}

	ev := waitFor(t, c, "doc.json")
	if ev.Op != OpWrite {
		t.Errorf("expected write, got %v", ev.Op)
	}
}

func TestWatcherReportsRemovals(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "gone.json")
	if err := os.WriteFile(path, []byte("{}"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, c := startWatcher(t, root)

	if err := os.Remove(path); err != nil {
		t.Fatal(err)
	}

	ev := waitFor(t, c, "gone.json")
	if ev.Op != OpRemove {
		t.Errorf("expected remove, got %v", ev.Op)
	}
}

func TestWatcherDebouncesBursts(t *testing.T) {
	root := t.TempDir()
	_, c := startWatcher(t, root)

	path := filepath.Join(root, "burst.json")
	for i := 0; i < 5; i++ {
		if err := os.WriteFile(path, []byte("{}"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	waitFor(t, c, "burst.json")
	// Give any trailing flushes a chance to fire before counting.
	time.Sleep(100 * time.Millisecond)

	if n := c.count("burst.json"); n > 3 {
		t.Errorf("expected burst to be debounced, got %d events", n)
	}
}

func TestWatcherSubdirectoryKeys(t *testing.T) {
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, "documents"), 0o755); err != nil {
		t.Fatal(err)
	}

	_, c := startWatcher(t, root)

	path := filepath.Join(root, "documents", "nested.json")
	if err := os.WriteFile(path, []byte("{}"), 0o644); err != nil {
		t.Fatal(err)
	}

	ev := waitFor(t, c, "documents/nested.json")
	if ev.Op != OpWrite {
		t.Errorf("expected write, got %v", ev.Op)
	}
}

func TestWatcherStopIdempotent(t *testing.T) {
	root := t.TempDir()
	w, _ := startWatcher(t, root)

	w.Stop()
	w.Stop()
}
