package store

import (
	"errors"
	"path/filepath"
	"testing"
)

func TestDocumentKey(t *testing.T) {
	tests := []struct {
		title string
		want  string
	}{
		{"Draft", "documents/draft.json"},
		{"My First Book", "documents/my-first-book.json"},
		{"  Spaced  ", "documents/spaced.json"},
		{"", "documents/untitled.json"},
		{"///", "documents/untitled.json"},
		{"notes_v1.2", "documents/notes_v1.2.json"},
	}

	for _, tt := range tests {
		if got := DocumentKey(tt.title); got != tt.want {
			t.Errorf("DocumentKey(%q) = %q, want %q", tt.title, got, tt.want)
		}
	}
}

func TestTemplateKey(t *testing.T) {
	got := TemplateKey("Book", "Vintage Style")
	want := "templates/book/vintage-style.json"
	if got != want {
		t.Errorf("TemplateKey = %q, want %q", got, want)
	}
}

func TestValidKey(t *testing.T) {
	valid := []string{"documents/a.json", "a", "templates/book/x.json"}
	invalid := []string{"", "/etc/passwd", "a/../b", ".."}

	for _, k := range valid {
		if !ValidKey(k) {
			t.Errorf("ValidKey(%q) = false, want true", k)
		}
	}
	for _, k := range invalid {
		if ValidKey(k) {
			t.Errorf("ValidKey(%q) = true, want false", k)
		}
	}
}

func TestMemStoreRoundTrip(t *testing.T) {
	s := NewMemStore()

	if err := s.Save("documents/a.json", []byte("hello")); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	data, err := s.Load("documents/a.json")
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if string(data) != "hello" {
		t.Errorf("expected %q, got %q", "hello", data)
	}
}

func TestMemStoreLoadMissing(t *testing.T) {
	s := NewMemStore()

	_, err := s.Load("missing")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestMemStoreOverwrite(t *testing.T) {
	s := NewMemStore()

	if err := s.Save("k", []byte("one")); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if err := s.Save("k", []byte("two")); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	data, err := s.Load("k")
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if string(data) != "two" {
		t.Errorf("expected overwrite to win, got %q", data)
	}
	if s.Len() != 1 {
		t.Errorf("expected 1 blob, got %d", s.Len())
	}
}

func TestMemStoreListPrefix(t *testing.T) {
	s := NewMemStore()
	keys := []string{"documents/b.json", "documents/a.json", "templates/x.json"}
	for _, k := range keys {
		if err := s.Save(k, []byte("{}")); err != nil {
			t.Fatalf("save failed: %v", err)
		}
	}

	got, err := s.List("documents/")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 keys, got %d", len(got))
	}
	if got[0] != "documents/a.json" || got[1] != "documents/b.json" {
		t.Errorf("expected sorted document keys, got %v", got)
	}

	all, err := s.List("")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(all) != 3 {
		t.Errorf("expected 3 keys for empty prefix, got %d", len(all))
	}
}

func TestMemStoreDeleteIdempotent(t *testing.T) {
	s := NewMemStore()
	if err := s.Save("k", []byte("x")); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	if err := s.Delete("k"); err != nil {
		t.Errorf("delete failed: %v", err)
	}
	if err := s.Delete("k"); err != nil {
		t.Errorf("second delete should be a no-op, got %v", err)
	}

	if _, err := s.Load("k"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestMemStoreInvalidKey(t *testing.T) {
	s := NewMemStore()

	if err := s.Save("../escape", []byte("x")); !errors.Is(err, ErrInvalidKey) {
		t.Errorf("expected ErrInvalidKey, got %v", err)
	}
}

func TestDirStoreRoundTrip(t *testing.T) {
	s, err := NewDirStore(t.TempDir())
	if err != nil {
		t.Fatalf("create store: %v", err)
	}

	key := DocumentKey("Draft")
	if err := s.Save(key, []byte(`{"title":"Draft"}`)); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	data, err := s.Load(key)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if string(data) != `{"title":"Draft"}` {
		t.Errorf("unexpected content: %q", data)
	}
}

func TestDirStoreLoadMissing(t *testing.T) {
	s, err := NewDirStore(t.TempDir())
	if err != nil {
		t.Fatalf("create store: %v", err)
	}

	if _, err := s.Load("documents/none.json"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestDirStoreListAndDelete(t *testing.T) {
	s, err := NewDirStore(t.TempDir())
	if err != nil {
		t.Fatalf("create store: %v", err)
	}

	for _, k := range []string{"documents/a.json", "documents/b.json", "templates/book/t.json"} {
		if err := s.Save(k, []byte("{}")); err != nil {
			t.Fatalf("save %s failed: %v", k, err)
		}
	}

	keys, err := s.List("templates/")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(keys) != 1 || keys[0] != "templates/book/t.json" {
		t.Errorf("unexpected keys: %v", keys)
	}

	if err := s.Delete("documents/a.json"); err != nil {
		t.Errorf("delete failed: %v", err)
	}
	if err := s.Delete("documents/a.json"); err != nil {
		t.Errorf("delete of missing key should succeed, got %v", err)
	}

	keys, err = s.List("documents/")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(keys) != 1 || keys[0] != "documents/b.json" {
		t.Errorf("unexpected keys after delete: %v", keys)
	}
}

func TestDirStoreCreatesRoot(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "root")

	s, err := NewDirStore(dir)
	if err != nil {
		t.Fatalf("create store: %v", err)
	}
	if s.Root() == "" {
		t.Error("expected non-empty root")
	}
}
