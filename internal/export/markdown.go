package export

import (
	"io"
	"strings"
	"time"

	"github.com/iksnae/cursor-chat-browser/internal"
)

// DateLayout formats the creation line like a browser's en-US locale string
const DateLayout = "1/2/2006, 3:04:05 PM"

// unknownModel is written in the AI heading when a bubble has no model label
const unknownModel = "unknown"

// MarkdownExporter exports chat tabs in Markdown format. A nil Location
// formats dates in the local time zone.
type MarkdownExporter struct {
	Location *time.Location
}

// Export exports a chat tab to Markdown format
func (e *MarkdownExporter) Export(tab *internal.ChatTab, w io.Writer) error {
	_, err := io.WriteString(w, RenderMarkdown(tab, e.Location))
	return err
}

// SetLocation implements Localizer
func (e *MarkdownExporter) SetLocation(loc *time.Location) {
	e.Location = loc
}

// Extension returns the file extension for this format
func (e *MarkdownExporter) Extension() string {
	return "md"
}

// ContentType returns the MIME type for this format
func (e *MarkdownExporter) ContentType() string {
	return "text/markdown; charset=utf-8"
}

// RenderMarkdown renders the canonical Markdown document of a chat tab. The
// output depends only on tab and loc.
func RenderMarkdown(tab *internal.ChatTab, loc *time.Location) string {
	if loc == nil {
		loc = time.Local
	}

	var sb strings.Builder
	sb.WriteString("# " + DocumentTitle(tab) + "\n\n")
	sb.WriteString("_Created: " + tab.Timestamp.In(loc).Format(DateLayout) + "_\n\n---\n\n")

	for _, bubble := range tab.Bubbles {
		if bubble.IsUser() {
			sb.WriteString("### User\n\n")
		} else {
			model := bubble.ModelType
			if model == "" {
				model = unknownModel
			}
			sb.WriteString("### AI (" + model + ")\n\n")
		}

		if len(bubble.Selections) > 0 {
			sb.WriteString("**Selected Code:**\n\n")
			for _, sel := range bubble.Selections {
				sb.WriteString("```\n" + sel.Text + "\n```\n\n")
			}
		}

		if bubble.Text != "" {
			sb.WriteString(bubble.Text + "\n\n")
		}

		sb.WriteString("---\n\n")
	}

	return sb.String()
}

// DocumentTitle is the heading of a rendered tab
func DocumentTitle(tab *internal.ChatTab) string {
	if tab.Title != "" {
		return tab.Title
	}
	return "Chat " + tab.ID
}
