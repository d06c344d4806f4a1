package cmd

import (
	"fmt"

	"github.com/charmbracelet/glamour"
	"github.com/iksnae/cursor-chat-browser/internal"
	"github.com/iksnae/cursor-chat-browser/internal/export"
	"github.com/spf13/cobra"
)

var (
	showRaw   bool
	showWidth int
)

// showCmd represents the show command
var showCmd = &cobra.Command{
	Use:   "show <workspace-id> <tab-id>",
	Short: "Show a chat in the terminal",
	Long: `Render one chat as Markdown in the terminal.

Use 'cursor-chat-browser tabs <workspace-id>' to see available tab IDs.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		resp, err := resolveWorkspace(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		tab, err := findTab(resp, args[1])
		if err != nil {
			return err
		}

		markdown := export.RenderMarkdown(tab, location())
		if showRaw {
			_, err = fmt.Fprint(cmd.OutOrStdout(), markdown)
			return err
		}

		_, err = fmt.Fprint(cmd.OutOrStdout(), renderTerminal(markdown, showWidth))
		return err
	},
}

// renderTerminal renders Markdown for the terminal, falling back to the
// plain Markdown when glamour cannot render it
func renderTerminal(markdown string, width int) string {
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		internal.LogDebug("Terminal renderer unavailable: %v", err)
		return markdown
	}

	rendered, err := renderer.Render(markdown)
	if err != nil {
		internal.LogDebug("Failed to render markdown: %v", err)
		return markdown
	}
	return rendered
}

func init() {
	showCmd.Flags().BoolVar(&showRaw, "raw", false, "Print the Markdown source instead of rendering it")
	showCmd.Flags().IntVar(&showWidth, "width", 80, "Word wrap width")
	rootCmd.AddCommand(showCmd)
}
