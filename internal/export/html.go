package export

import (
	"bytes"
	"fmt"
	"html/template"
	"io"
	"time"

	"github.com/iksnae/cursor-chat-browser/internal"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

var markdownRenderer = goldmark.New(goldmark.WithExtensions(extension.GFM))

var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
body { font-family: system-ui, sans-serif; max-width: 800px; margin: 0 auto; padding: 2rem; }
pre { background: #f6f8fa; padding: 1rem; border-radius: 6px; overflow-x: auto; }
hr { border: 0; border-top: 1px solid #eaecef; margin: 2rem 0; }
</style>
</head>
<body>
{{.Body}}
{{- if .Print}}
<script>window.onload = function () { window.print(); };</script>
{{- end}}
</body>
</html>
`))

type page struct {
	Title string
	Body  template.HTML
	Print bool
}

// HTMLExporter exports chat tabs as a standalone HTML page
type HTMLExporter struct {
	Location *time.Location
}

// Export exports a chat tab to HTML format
func (e *HTMLExporter) Export(tab *internal.ChatTab, w io.Writer) error {
	return writePage(tab, e.Location, false, w)
}

// SetLocation implements Localizer
func (e *HTMLExporter) SetLocation(loc *time.Location) {
	e.Location = loc
}

// Extension returns the file extension for this format
func (e *HTMLExporter) Extension() string {
	return "html"
}

// ContentType returns the MIME type for this format
func (e *HTMLExporter) ContentType() string {
	return "text/html; charset=utf-8"
}

// PrintExporter exports a chat tab as an HTML page that opens the browser
// print dialog on load, so it can be saved as PDF.
type PrintExporter struct {
	Location *time.Location
}

// Export exports a chat tab to a print page
func (e *PrintExporter) Export(tab *internal.ChatTab, w io.Writer) error {
	return writePage(tab, e.Location, true, w)
}

// SetLocation implements Localizer
func (e *PrintExporter) SetLocation(loc *time.Location) {
	e.Location = loc
}

// Extension returns the file extension for this format
func (e *PrintExporter) Extension() string {
	return "html"
}

// ContentType returns the MIME type for this format
func (e *PrintExporter) ContentType() string {
	return "text/html; charset=utf-8"
}

// RenderHTML converts the Markdown of a chat tab to an HTML fragment. Raw
// HTML inside messages, including tag-like prose such as Vec<String>, is
// dropped and replaced with a "raw HTML omitted" comment. Text inside code
// blocks and selections is kept and escaped.
func RenderHTML(tab *internal.ChatTab, loc *time.Location) (string, error) {
	var buf bytes.Buffer
	if err := markdownRenderer.Convert([]byte(RenderMarkdown(tab, loc)), &buf); err != nil {
		return "", fmt.Errorf("failed to convert markdown: %w", err)
	}
	return buf.String(), nil
}

func writePage(tab *internal.ChatTab, loc *time.Location, printOnLoad bool, w io.Writer) error {
	body, err := RenderHTML(tab, loc)
	if err != nil {
		return err
	}
	return pageTemplate.Execute(w, page{
		Title: DocumentTitle(tab),
		Body:  template.HTML(body),
		Print: printOnLoad,
	})
}
