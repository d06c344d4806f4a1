package export

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/iksnae/cursor-chat-browser/internal"
)

// Exporter defines the interface for all export formats
type Exporter interface {
	Export(tab *internal.ChatTab, w io.Writer) error
	Extension() string
}

// ContentTyper is implemented by exporters that know their MIME type
type ContentTyper interface {
	ContentType() string
}

// Localizer is implemented by exporters that render dates
type Localizer interface {
	SetLocation(loc *time.Location)
}

// WithLocation sets the rendering time zone on exporters that print dates
func WithLocation(e Exporter, loc *time.Location) Exporter {
	if l, ok := e.(Localizer); ok {
		l.SetLocation(loc)
	}
	return e
}

// NewExporter creates a new exporter based on format
func NewExporter(format string) (Exporter, error) {
	switch strings.ToLower(format) {
	case "md", "markdown":
		return &MarkdownExporter{}, nil
	case "html":
		return &HTMLExporter{}, nil
	case "pdf", "print":
		return &PrintExporter{}, nil
	case "jsonl":
		return &JSONLExporter{}, nil
	case "yaml", "yml":
		return &YAMLExporter{}, nil
	case "json":
		return &JSONExporter{}, nil
	default:
		return nil, fmt.Errorf("unsupported format: %s (supported: md, html, pdf, json, yaml, jsonl)", format)
	}
}

// NewArchiveExporter creates the exporter used for archive entries. The print
// format has no file form, so archives fall back to Markdown for it.
func NewArchiveExporter(format string) (Exporter, error) {
	switch strings.ToLower(format) {
	case "pdf", "print":
		return &MarkdownExporter{}, nil
	}
	return NewExporter(format)
}

// ContentType returns the MIME type for an exporter's output
func ContentType(e Exporter) string {
	if ct, ok := e.(ContentTyper); ok {
		return ct.ContentType()
	}
	return "application/octet-stream"
}
