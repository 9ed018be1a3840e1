package document

import (
	"bytes"
	"encoding/json"
	"testing"
)

func TestNewDocument(t *testing.T) {
	d := New("Draft", "Jordan")

	if d.Title() != "Draft" {
		t.Errorf("expected title Draft, got %q", d.Title())
	}
	if d.Content() != "" {
		t.Errorf("expected empty content, got %q", d.Content())
	}
	if d.ID() == "" {
		t.Error("expected non-empty id")
	}
	if d.Format() != FormatMarkdown {
		t.Errorf("expected markdown default, got %v", d.Format())
	}

	author, ok := d.MetadataValue("author")
	if !ok || author != "Jordan" {
		t.Errorf("expected author metadata, got %v", author)
	}

	if len(d.History()) != 1 {
		t.Errorf("expected creation revision, got %d entries", len(d.History()))
	}
	if d.UpdatedAt().Before(d.CreatedAt()) {
		t.Error("updated_at must not precede created_at")
	}
}

func TestUpdateAndAppendContent(t *testing.T) {
	d := New("Draft", "")

	d.UpdateContent("Hello")
	d.AppendContent(" world")

	if d.Content() != "Hello world" {
		t.Errorf("expected 'Hello world', got %q", d.Content())
	}

	hist := d.History()
	// Creation revision plus one per mutation.
	if len(hist) != 3 {
		t.Fatalf("expected 3 revisions, got %d", len(hist))
	}
	if hist[1].Content != "Hello" {
		t.Errorf("expected first mutation snapshot 'Hello', got %q", hist[1].Content)
	}
	if hist[2].Content != "Hello world" {
		t.Errorf("expected latest snapshot to equal content, got %q", hist[2].Content)
	}
}

func TestLatestRevisionMatchesContent(t *testing.T) {
	d := New("Draft", "")

	for _, text := range []string{"a", "", "abc", "abc def"} {
		d.UpdateContent(text)
		hist := d.History()
		if hist[len(hist)-1].Content != d.Content() {
			t.Errorf("latest revision %q does not match content %q",
				hist[len(hist)-1].Content, d.Content())
		}
	}
}

func TestClearContent(t *testing.T) {
	d := New("Draft", "")
	d.UpdateContent("something")
	d.ClearContent()

	if d.Content() != "" {
		t.Errorf("expected empty content, got %q", d.Content())
	}
	hist := d.History()
	if hist[len(hist)-1].Content != "" {
		t.Error("clear must be versioned like any other mutation")
	}
}

func TestEmptyUpdateSucceeds(t *testing.T) {
	d := New("Draft", "")

	// Empty-string operations must succeed silently.
	d.UpdateContent("")
	d.AppendContent("")

	if d.Content() != "" {
		t.Errorf("expected empty content, got %q", d.Content())
	}
	if len(d.History()) != 3 {
		t.Errorf("expected 3 revisions, got %d", len(d.History()))
	}
}

func TestSetMetadataDoesNotVersion(t *testing.T) {
	d := New("Draft", "")
	before := len(d.History())

	d.SetMetadata("genre", "fiction")
	d.SetMetadata("genre", "poetry") // upsert

	if len(d.History()) != before {
		t.Error("metadata changes must not touch revision history")
	}

	v, ok := d.MetadataValue("genre")
	if !ok || v != "poetry" {
		t.Errorf("expected upserted value, got %v", v)
	}
}

func TestMetadataCopyIsDetached(t *testing.T) {
	d := New("Draft", "")
	d.SetMetadata("k", "v")

	m := d.Metadata()
	m["k"] = "mutated"

	v, _ := d.MetadataValue("k")
	if v != "v" {
		t.Error("Metadata() must return a detached copy")
	}
}

func TestWordCount(t *testing.T) {
	d := New("Draft", "")

	if d.WordCount() != 0 {
		t.Errorf("expected 0 words, got %d", d.WordCount())
	}

	d.UpdateContent("one two  three\nfour")
	if d.WordCount() != 4 {
		t.Errorf("expected 4 words, got %d", d.WordCount())
	}
}

func TestLenCountsRunes(t *testing.T) {
	d := New("Draft", "")
	d.UpdateContent("héllo")

	if d.Len() != 5 {
		t.Errorf("expected rune length 5, got %d", d.Len())
	}
}

func TestRecordRoundTrip(t *testing.T) {
	d := New("Draft", "Jordan")
	d.UpdateContent("Hello")
	d.AppendContent(" world")
	d.SetMetadata("genre", "fiction")
	d.SetFormat(FormatPlain)

	first, err := d.Marshal()
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	restored, err := Unmarshal(first)
	if err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}

	second, err := restored.Marshal()
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	if !bytes.Equal(first, second) {
		t.Errorf("round trip changed record:\nfirst:  %s\nsecond: %s", first, second)
	}
}

func TestRecordIsPure(t *testing.T) {
	d := New("Draft", "")
	d.UpdateContent("Hello")

	before := len(d.History())
	rec := d.Record()
	rec.Metadata["injected"] = true
	rec.History[0].Content = "tampered"

	if len(d.History()) != before {
		t.Error("Record must not mutate the document")
	}
	if _, ok := d.MetadataValue("injected"); ok {
		t.Error("record metadata must be a detached copy")
	}
	if d.History()[0].Content == "tampered" {
		t.Error("record history must be a detached copy")
	}
}

func TestFromRecordTolerant(t *testing.T) {
	d := FromRecord(Record{Title: "Bare"})

	if d.Title() != "Bare" {
		t.Errorf("expected title, got %q", d.Title())
	}
	if d.ID() == "" {
		t.Error("expected generated id for legacy blob")
	}
	if len(d.History()) != 1 {
		t.Errorf("expected synthesized creation revision, got %d", len(d.History()))
	}
	if d.UpdatedAt().Before(d.CreatedAt()) {
		t.Error("updated_at must not precede created_at")
	}
}

func TestUnmarshalCorrupt(t *testing.T) {
	if _, err := Unmarshal([]byte("{not json")); err == nil {
		t.Error("expected error for corrupt blob")
	}
}

func TestParseFormat(t *testing.T) {
	if ParseFormat("plain") != FormatPlain {
		t.Error("expected plain")
	}
	if ParseFormat("markdown") != FormatMarkdown {
		t.Error("expected markdown")
	}
	if ParseFormat("weird") != FormatMarkdown {
		t.Error("unknown formats fall back to markdown")
	}
}

func TestRecordJSONShape(t *testing.T) {
	d := New("Draft", "")
	d.UpdateContent("x")

	data, err := d.Marshal()
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}

	for _, field := range []string{"title", "content", "metadata", "format", "created_at", "updated_at", "history"} {
		if _, ok := m[field]; !ok {
			t.Errorf("blob missing field %q", field)
		}
	}
	if m["format"] != "markdown" {
		t.Errorf("expected format markdown, got %v", m["format"])
	}
}
