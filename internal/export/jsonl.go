package export

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/iksnae/cursor-chat-browser/internal"
)

// JSONLExporter exports chat tabs in JSONL format (one bubble per line)
type JSONLExporter struct{}

// Export exports a chat tab to JSONL format
func (e *JSONLExporter) Export(tab *internal.ChatTab, w io.Writer) error {
	enc := json.NewEncoder(w)

	for i, bubble := range tab.Bubbles {
		obj := map[string]interface{}{
			"tabId": tab.ID,
			"index": i,
			"type":  bubble.Type,
			"text":  bubble.Text,
		}

		if bubble.ModelType != "" {
			obj["modelType"] = bubble.ModelType
		}
		if len(bubble.Selections) > 0 {
			obj["selections"] = bubble.Selections
		}

		if err := enc.Encode(obj); err != nil {
			return fmt.Errorf("failed to encode bubble %d: %w", i, err)
		}
	}

	return nil
}

// Extension returns the file extension for this format
func (e *JSONLExporter) Extension() string {
	return "jsonl"
}

// ContentType returns the MIME type for this format
func (e *JSONLExporter) ContentType() string {
	return "application/x-ndjson"
}
