package render

import (
	"strings"
	"testing"

	"github.com/dshills/inkwell/internal/engine/document"
	"github.com/dshills/inkwell/internal/template"
)

func TestMarkdownHeadingsAndEmphasis(t *testing.T) {
	html, err := Markdown("# Test\n**Bold** text")
	if err != nil {
		t.Fatal(err)
	}

	if !strings.Contains(html, `<h1 id="test">`) {
		t.Errorf("expected heading with auto ID, got %q", html)
	}
	if !strings.Contains(html, "<strong>Bold</strong>") {
		t.Errorf("expected bold emphasis, got %q", html)
	}
}

func TestMarkdownCodeHighlighting(t *testing.T) {
	html, err := Markdown("```go\nfmt.Println(\"hi\")\n```")
	if err != nil {
		t.Fatal(err)
	}

	if !strings.Contains(html, "chroma") {
		t.Errorf("expected highlighted code block, got %q", html)
	}
}

func TestMarkdownTables(t *testing.T) {
	html, err := Markdown("| a | b |\n|---|---|\n| 1 | 2 |")
	if err != nil {
		t.Fatal(err)
	}

	if !strings.Contains(html, "<table>") {
		t.Errorf("expected table rendering, got %q", html)
	}
}

func TestHTMLMarkdownDocument(t *testing.T) {
	doc := document.New("Doc", "")
	doc.UpdateContent("# Title")

	html, err := HTML(doc)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(html, "<h1") {
		t.Errorf("expected rendered heading, got %q", html)
	}
}

func TestHTMLPlainDocumentEscapes(t *testing.T) {
	doc := document.New("Doc", "")
	doc.SetFormat(document.FormatPlain)
	doc.UpdateContent("a <b> & c")

	html, err := HTML(doc)
	if err != nil {
		t.Fatal(err)
	}

	if !strings.HasPrefix(html, "<pre>") || !strings.HasSuffix(html, "</pre>") {
		t.Errorf("expected pre wrapper, got %q", html)
	}
	if strings.Contains(html, "<b>") {
		t.Errorf("markup must be escaped in plain output, got %q", html)
	}
	if !strings.Contains(html, "&lt;b&gt;") || !strings.Contains(html, "&amp;") {
		t.Errorf("expected escaped entities, got %q", html)
	}
}

func TestHTMLNilDocument(t *testing.T) {
	html, err := HTML(nil)
	if err != nil {
		t.Fatal(err)
	}
	if html != "" {
		t.Errorf("expected empty output for nil document, got %q", html)
	}
}

func TestStylesheetCSS(t *testing.T) {
	css := StylesheetCSS()

	if !strings.Contains(css, ".document-body") {
		t.Error("expected base document styles")
	}
	if !strings.Contains(css, "background-color") {
		t.Error("expected chroma style definitions")
	}
}

func TestApplyTemplate(t *testing.T) {
	tpl := template.New("novel", "fiction")
	tpl.Style["font"] = "serif"
	tpl.Style["Text Color"] = "#222"

	out := ApplyTemplate("<p>body</p>", tpl)

	if !strings.Contains(out, `data-template="novel"`) {
		t.Errorf("expected template marker, got %q", out)
	}
	if !strings.Contains(out, "--font: serif") {
		t.Errorf("expected style custom property, got %q", out)
	}
	if !strings.Contains(out, "--text-color: #222") {
		t.Errorf("expected sanitized property name, got %q", out)
	}
	if !strings.Contains(out, "<p>body</p>") {
		t.Errorf("expected body preserved, got %q", out)
	}
}

func TestApplyTemplateNil(t *testing.T) {
	if out := ApplyTemplate("<p>x</p>", nil); out != "<p>x</p>" {
		t.Errorf("nil template must pass through, got %q", out)
	}
}
