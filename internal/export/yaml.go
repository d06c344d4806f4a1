package export

import (
	"io"

	"github.com/iksnae/cursor-chat-browser/internal"
	"gopkg.in/yaml.v3"
)

// YAMLExporter exports chat tabs in YAML format
type YAMLExporter struct{}

// Export exports a chat tab to YAML format
func (e *YAMLExporter) Export(tab *internal.ChatTab, w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	defer func() { _ = enc.Close() }()

	return enc.Encode(tab)
}

// Extension returns the file extension for this format
func (e *YAMLExporter) Extension() string {
	return "yaml"
}

// ContentType returns the MIME type for this format
func (e *YAMLExporter) ContentType() string {
	return "application/yaml"
}
