package export

import (
	"encoding/json"
	"io"

	"github.com/iksnae/cursor-chat-browser/internal"
)

// JSONExporter exports chat tabs in JSON format (pretty-printed)
type JSONExporter struct{}

// Export exports a chat tab to JSON format
func (e *JSONExporter) Export(tab *internal.ChatTab, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	return enc.Encode(tab)
}

// Extension returns the file extension for this format
func (e *JSONExporter) Extension() string {
	return "json"
}

// ContentType returns the MIME type for this format
func (e *JSONExporter) ContentType() string {
	return "application/json"
}
