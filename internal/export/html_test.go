package export

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/iksnae/cursor-chat-browser/internal"
)

func TestRenderHTML(t *testing.T) {
	tab := internal.CreateTestTabWithBubbles("h1", []internal.ChatBubble{
		{
			Type:       internal.BubbleTypeUser,
			Text:       "What does <script>alert(1)</script> do?",
			Selections: []internal.Selection{{Text: "x < y"}},
		},
	})

	got, err := RenderHTML(tab, time.UTC)
	if err != nil {
		t.Fatalf("RenderHTML() error = %v", err)
	}

	for _, want := range []string{
		"<h1>Test Conversation</h1>",
		"<h3>User</h3>",
		"<pre><code>x &lt; y\n</code></pre>",
		"<hr>",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("RenderHTML() missing %q\noutput:\n%s", want, got)
		}
	}
	if strings.Contains(got, "<script>") {
		t.Error("RenderHTML() passed raw HTML through")
	}
}

func TestRenderHTML_TagLikeProseIsOmitted(t *testing.T) {
	tab := internal.CreateTestTabWithBubbles("h2", []internal.ChatBubble{
		{
			Type:       internal.BubbleTypeUser,
			Text:       "Why does Vec<String> not implement Copy?",
			Selections: []internal.Selection{{Text: "let v: Vec<String> = Vec::new();"}},
		},
	})

	got, err := RenderHTML(tab, time.UTC)
	if err != nil {
		t.Fatalf("RenderHTML() error = %v", err)
	}

	if !strings.Contains(got, "<!-- raw HTML omitted -->") {
		t.Errorf("RenderHTML() should mark the omitted tag\noutput:\n%s", got)
	}
	if strings.Contains(got, "<String>") {
		t.Error("RenderHTML() passed a tag-like token through")
	}
	if !strings.Contains(got, "let v: Vec&lt;String&gt; = Vec::new();") {
		t.Errorf("RenderHTML() should keep escaped selection text\noutput:\n%s", got)
	}
}

func TestHTMLExporter_Export(t *testing.T) {
	tests := []struct {
		name      string
		exporter  Exporter
		wantPrint bool
	}{
		{name: "html page", exporter: &HTMLExporter{Location: time.UTC}},
		{name: "print page", exporter: &PrintExporter{Location: time.UTC}, wantPrint: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tab := internal.CreateTestTab("page")
			tab.Title = "Tom & Jerry"

			var buf bytes.Buffer
			if err := tt.exporter.Export(tab, &buf); err != nil {
				t.Fatalf("Export() error = %v", err)
			}
			output := buf.String()

			for _, want := range []string{
				"<!DOCTYPE html>",
				`<meta charset="utf-8">`,
				"<title>Tom &amp; Jerry</title>",
				"font-family: system-ui, sans-serif; max-width: 800px",
				"background: #f6f8fa",
				"<h3>AI (gpt-4)</h3>",
			} {
				if !strings.Contains(output, want) {
					t.Errorf("Export() missing %q\noutput:\n%s", want, output)
				}
			}

			if got := strings.Contains(output, "window.print()"); got != tt.wantPrint {
				t.Errorf("print script present = %v, want %v", got, tt.wantPrint)
			}
		})
	}
}
