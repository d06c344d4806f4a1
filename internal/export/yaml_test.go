package export

import (
	"bytes"
	"strings"
	"testing"

	"github.com/iksnae/cursor-chat-browser/internal"
	"gopkg.in/yaml.v3"
)

func TestYAMLExporter_Export(t *testing.T) {
	tab := internal.CreateTestTab("test1")

	var buf bytes.Buffer
	if err := (&YAMLExporter{}).Export(tab, &buf); err != nil {
		t.Fatalf("YAMLExporter.Export() error = %v", err)
	}
	output := buf.String()

	for _, want := range []string{
		"id: test1",
		"title: Test Conversation",
		"type: user",
		"model_type: gpt-4",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("output missing %q\n%s", want, output)
		}
	}

	var decoded internal.ChatTab
	if err := yaml.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("Output is not valid YAML: %v", err)
	}
	if decoded.ID != tab.ID || len(decoded.Bubbles) != 2 || decoded.Bubbles[1].ModelType != "gpt-4" {
		t.Errorf("decoded tab = %+v", decoded)
	}
}

func TestYAMLExporter_Extension(t *testing.T) {
	exporter := &YAMLExporter{}
	if got := exporter.Extension(); got != "yaml" {
		t.Errorf("YAMLExporter.Extension() = %v, want yaml", got)
	}
}
