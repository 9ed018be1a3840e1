// Package render converts documents to HTML for preview and export.
//
// Markdown content goes through goldmark with GFM extensions and
// fenced-code highlighting; plain content is escaped and wrapped in a
// pre block. Rendering never consults session or registry state, so a
// document renders the same wherever it came from.
package render

import (
	"bytes"
	"fmt"
	htmlesc "html"
	"sort"
	"strings"

	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/styles"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"

	"github.com/dshills/inkwell/internal/engine/document"
	"github.com/dshills/inkwell/internal/template"
)

// highlightStyle is the chroma style used for fenced code blocks and
// the generated stylesheet.
const highlightStyle = "monokai"

// md is the configured goldmark instance, reused across calls.
var md = goldmark.New(
	goldmark.WithExtensions(
		extension.GFM,
		highlighting.NewHighlighting(
			highlighting.WithStyle(highlightStyle),
			highlighting.WithFormatOptions(
				chromahtml.WithClasses(true),
			),
		),
	),
	goldmark.WithParserOptions(
		parser.WithAutoHeadingID(),
	),
	goldmark.WithRendererOptions(
		html.WithUnsafe(),
	),
)

// Markdown converts markdown source into HTML.
func Markdown(source string) (string, error) {
	var buf bytes.Buffer
	if err := md.Convert([]byte(source), &buf); err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}
	return buf.String(), nil
}

// HTML renders a document according to its format. Plain documents
// come back escaped inside a pre block.
func HTML(doc *document.Document) (string, error) {
	if doc == nil {
		return "", nil
	}

	switch doc.Format() {
	case document.FormatPlain:
		return "<pre>" + htmlesc.EscapeString(doc.Content()) + "</pre>", nil
	default:
		return Markdown(doc.Content())
	}
}

// StylesheetCSS returns the stylesheet for rendered output: chroma
// class definitions for the highlight style plus base document styles.
func StylesheetCSS() string {
	var buf bytes.Buffer

	formatter := chromahtml.New(chromahtml.WithClasses(true))
	if err := formatter.WriteCSS(&buf, styles.Get(highlightStyle)); err != nil {
		buf.Reset()
	}

	buf.WriteString(`
.document-body {
  font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Helvetica, Arial, sans-serif;
  font-size: 16px;
  line-height: 1.5;
  word-wrap: break-word;
}
`)
	return buf.String()
}

// ApplyTemplate wraps rendered HTML in a container styled from the
// template. Style entries become CSS custom properties on the
// container so the stylesheet can pick them up; a nil template returns
// the input unchanged.
func ApplyTemplate(rendered string, tpl *template.Template) string {
	if tpl == nil {
		return rendered
	}

	keys := make([]string, 0, len(tpl.Style))
	for k := range tpl.Style {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var sb strings.Builder
	sb.WriteString(`<div class="document-body" data-template="`)
	sb.WriteString(htmlesc.EscapeString(tpl.Name))
	sb.WriteString(`"`)

	if len(keys) > 0 {
		sb.WriteString(` style="`)
		for i, k := range keys {
			if i > 0 {
				sb.WriteString("; ")
			}
			fmt.Fprintf(&sb, "--%s: %v", cssIdent(k), tpl.Style[k])
		}
		sb.WriteString(`"`)
	}

	sb.WriteString(">")
	sb.WriteString(rendered)
	sb.WriteString("</div>")
	return sb.String()
}

// cssIdent reduces a style key to a safe CSS custom property name.
func cssIdent(key string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(key) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-':
			b.WriteRune(r)
		default:
			b.WriteByte('-')
		}
	}
	return b.String()
}
