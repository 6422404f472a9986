package markdown

import (
	"bytes"
	"context"
	"strings"
	"testing"
)

func render(t *testing.T, src string) string {
	t.Helper()
	var buf bytes.Buffer
	if err := Render(&buf, src); err != nil {
		t.Fatalf("Render(%q) failed: %v", src, err)
	}
	return buf.String()
}

func TestRenderInline(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"**bold**", "<strong>bold</strong>"},
		{"*italic*", "<em>italic</em>"},
		{"`code`", "<code>code</code>"},
		{"~~gone~~", "<del>gone</del>"},
		{"[link](https://example.com)", `<a href="https://example.com">link</a>`},
	}
	for _, tt := range tests {
		got := render(t, tt.input)
		if !strings.Contains(got, tt.expected) {
			t.Errorf("Render(%q) = %q, want substring %q", tt.input, got, tt.expected)
		}
	}
}

func TestRenderHeadingsGetIDs(t *testing.T) {
	got := render(t, "## Getting Started")
	if !strings.Contains(got, `<h2 id="getting-started">Getting Started</h2>`) {
		t.Errorf("heading missing id: %q", got)
	}
}

func TestRenderCodeBlockWithLanguage(t *testing.T) {
	got := render(t, "```go\nfmt.Println(\"hello\")\n```")
	if !strings.Contains(got, `class="language-go"`) {
		t.Errorf("code block should have language-go class: %q", got)
	}
}

func TestRenderTable(t *testing.T) {
	got := render(t, "| a | b |\n|---|---|\n| 1 | 2 |")
	if !strings.Contains(got, "<table>") || !strings.Contains(got, "<td>1</td>") {
		t.Errorf("table not rendered: %q", got)
	}
}

func TestRenderEscapesRawHTML(t *testing.T) {
	got := render(t, "<script>alert(1)</script>")
	if strings.Contains(got, "<script>") {
		t.Errorf("raw html should not pass through: %q", got)
	}
}

func TestRenderDropsJavascriptLinks(t *testing.T) {
	got := render(t, "[x](javascript:alert(1))")
	if strings.Contains(got, "javascript:") {
		t.Errorf("javascript: url should be dropped: %q", got)
	}
}

func TestMarkdownComponent(t *testing.T) {
	var buf bytes.Buffer
	if err := Markdown("# Title").Render(context.Background(), &buf); err != nil {
		t.Fatalf("component render failed: %v", err)
	}
	if !strings.Contains(buf.String(), "Title</h1>") {
		t.Errorf("component output = %q", buf.String())
	}
}
