package internal

import (
	"encoding/json"
	"fmt"
	"strings"
)

// RichTextNode is a node of the editor document Cursor stores in richText
type RichTextNode struct {
	Type     string         `json:"type"`
	Text     string         `json:"text,omitempty"`
	Children []RichTextNode `json:"children,omitempty"`
}

// RichTextRoot is the top level of a richText document
type RichTextRoot struct {
	Root *RichTextNode `json:"root"`
}

// blockTypes end with a newline when rendered to plain text
var blockTypes = map[string]bool{
	"paragraph": true,
	"heading":   true,
	"quote":     true,
	"listitem":  true,
}

// ExtractTextFromRichText parses a richText document and returns its plain
// text. Code nodes are fenced so they survive the Markdown rendering.
func ExtractTextFromRichText(richTextJSON string) (string, error) {
	if richTextJSON == "" {
		return "", nil
	}

	var doc RichTextRoot
	if err := json.Unmarshal([]byte(richTextJSON), &doc); err != nil {
		return "", fmt.Errorf("failed to parse richText JSON: %w", err)
	}
	if doc.Root == nil {
		return "", fmt.Errorf("richText JSON has no root node")
	}

	var sb strings.Builder
	writeRichTextNodes(&sb, doc.Root.Children)
	return strings.TrimRight(sb.String(), "\n"), nil
}

func writeRichTextNodes(sb *strings.Builder, nodes []RichTextNode) {
	for _, node := range nodes {
		switch {
		case node.Type == "code":
			sb.WriteString("```\n")
			writeRichTextNodes(sb, node.Children)
			if !strings.HasSuffix(sb.String(), "\n") {
				sb.WriteString("\n")
			}
			sb.WriteString("```\n")
		case node.Type == "linebreak":
			sb.WriteString("\n")
		case node.Text != "":
			sb.WriteString(node.Text)
		default:
			writeRichTextNodes(sb, node.Children)
			if blockTypes[node.Type] {
				sb.WriteString("\n")
			}
		}
	}
}

// plainRichText returns the plain text of a richText value, or the value
// itself when it is not an editor document.
func plainRichText(value string) string {
	text, err := ExtractTextFromRichText(value)
	if err != nil || text == "" {
		return value
	}
	return text
}
