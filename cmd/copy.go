package cmd

import (
	"fmt"

	"github.com/atotto/clipboard"
	"github.com/iksnae/cursor-chat-browser/internal"
	"github.com/iksnae/cursor-chat-browser/internal/export"
	"github.com/spf13/cobra"
)

// writeClipboard is replaced in tests
var writeClipboard = clipboard.WriteAll

var copyCmd = &cobra.Command{
	Use:   "copy <workspace-id> <tab-id>",
	Short: "Copy a chat as Markdown to the clipboard",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		resp, err := resolveWorkspace(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		tab, err := findTab(resp, args[1])
		if err != nil {
			return err
		}

		if err := writeClipboard(export.RenderMarkdown(tab, location())); err != nil {
			return fmt.Errorf("could not copy to clipboard: %w", err)
		}

		internal.PrintSuccess("Chat copied to clipboard")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(copyCmd)
}
