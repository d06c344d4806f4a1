package internal

import (
	"testing"
)

func TestExtractTextFromRichText(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{
			name:  "empty string",
			input: "",
			want:  "",
		},
		{
			name:  "single paragraph",
			input: `{"root":{"children":[{"type":"paragraph","children":[{"type":"text","text":"Hello"}]}]}}`,
			want:  "Hello",
		},
		{
			name:  "multiple paragraphs",
			input: `{"root":{"children":[{"type":"paragraph","children":[{"type":"text","text":"Hello"}]},{"type":"paragraph","children":[{"type":"text","text":"World"}]}]}}`,
			want:  "Hello\nWorld",
		},
		{
			name:  "text nodes joined",
			input: `{"root":{"children":[{"type":"paragraph","children":[{"type":"text","text":"Hello"},{"type":"text","text":" World"}]}]}}`,
			want:  "Hello World",
		},
		{
			name:  "line break",
			input: `{"root":{"children":[{"type":"paragraph","children":[{"type":"text","text":"a"},{"type":"linebreak"},{"type":"text","text":"b"}]}]}}`,
			want:  "a\nb",
		},
		{
			name:  "code block",
			input: `{"root":{"children":[{"type":"code","children":[{"type":"text","text":"package main"}]}]}}`,
			want:  "```\npackage main\n```",
		},
		{
			name:    "invalid JSON",
			input:   `{invalid json}`,
			wantErr: true,
		},
		{
			name:    "no root",
			input:   `{"unknown":"format"}`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractTextFromRichText(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ExtractTextFromRichText() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if got != tt.want {
				t.Errorf("ExtractTextFromRichText() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPlainRichText(t *testing.T) {
	if got := plainRichText("not a document"); got != "not a document" {
		t.Errorf("plainRichText() = %q, want raw value", got)
	}
	doc := `{"root":{"children":[{"type":"paragraph","children":[{"type":"text","text":"hi"}]}]}}`
	if got := plainRichText(doc); got != "hi" {
		t.Errorf("plainRichText() = %q, want %q", got, "hi")
	}
}
