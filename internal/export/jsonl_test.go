package export

import (
	"bufio"
	"bytes"
	"encoding/json"
	"testing"

	"github.com/iksnae/cursor-chat-browser/internal"
)

func TestJSONLExporter_Export(t *testing.T) {
	tests := []struct {
		name      string
		tab       *internal.ChatTab
		wantLines int
	}{
		{
			name:      "tab without bubbles",
			tab:       internal.CreateTestTabWithBubbles("test1", []internal.ChatBubble{}),
			wantLines: 0,
		},
		{
			name:      "tab with bubbles",
			tab:       internal.CreateTestTab("test2"),
			wantLines: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := (&JSONLExporter{}).Export(tt.tab, &buf); err != nil {
				t.Fatalf("JSONLExporter.Export() error = %v", err)
			}

			lines := 0
			scanner := bufio.NewScanner(&buf)
			for scanner.Scan() {
				var obj map[string]interface{}
				if err := json.Unmarshal(scanner.Bytes(), &obj); err != nil {
					t.Fatalf("line %d is not valid JSON: %v", lines, err)
				}
				if obj["tabId"] != tt.tab.ID {
					t.Errorf("line %d tabId = %v, want %s", lines, obj["tabId"], tt.tab.ID)
				}
				if obj["index"] != float64(lines) {
					t.Errorf("line %d index = %v", lines, obj["index"])
				}
				lines++
			}
			if lines != tt.wantLines {
				t.Errorf("got %d lines, want %d", lines, tt.wantLines)
			}
		})
	}
}

func TestJSONLExporter_OptionalFields(t *testing.T) {
	tab := internal.CreateTestTabWithBubbles("opt", []internal.ChatBubble{
		{Type: internal.BubbleTypeUser, Text: "q", Selections: []internal.Selection{}},
		{Type: internal.BubbleTypeAI, Text: "a", ModelType: "gpt-4", Selections: []internal.Selection{{Text: "s"}}},
	})

	var buf bytes.Buffer
	if err := (&JSONLExporter{}).Export(tab, &buf); err != nil {
		t.Fatal(err)
	}

	var lines []map[string]interface{}
	dec := json.NewDecoder(&buf)
	for dec.More() {
		var obj map[string]interface{}
		if err := dec.Decode(&obj); err != nil {
			t.Fatal(err)
		}
		lines = append(lines, obj)
	}

	if _, ok := lines[0]["modelType"]; ok {
		t.Error("user line should not have modelType")
	}
	if _, ok := lines[0]["selections"]; ok {
		t.Error("empty selections should be omitted")
	}
	if lines[1]["modelType"] != "gpt-4" {
		t.Errorf("ai line modelType = %v", lines[1]["modelType"])
	}
	if _, ok := lines[1]["selections"]; !ok {
		t.Error("ai line should carry selections")
	}
}

func TestJSONLExporter_Extension(t *testing.T) {
	exporter := &JSONLExporter{}
	if got := exporter.Extension(); got != "jsonl" {
		t.Errorf("JSONLExporter.Extension() = %v, want jsonl", got)
	}
}
