package cmd

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/iksnae/cursor-chat-browser/internal"
	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"
)

var tabsCmd = &cobra.Command{
	Use:   "tabs <workspace-id>",
	Short: "List the chats of a workspace",
	Long: `List the chat tabs resolved for one workspace.

Use 'cursor-chat-browser workspaces' to see available workspace IDs.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		resp, err := resolveWorkspace(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		displayTabs(cmd.OutOrStdout(), args[0], resp.Tabs)
		return nil
	},
}

// resolveWorkspace resolves the tabs of one workspace with the configured stores
func resolveWorkspace(ctx context.Context, workspaceID string) (*internal.TabsResponse, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	paths, err := storagePaths()
	if err != nil {
		return nil, err
	}

	resp, err := newResolver(paths).Resolve(ctx, workspaceID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve workspace %s: %w", workspaceID, err)
	}
	return resp, nil
}

// findTab returns the tab with the given id
func findTab(resp *internal.TabsResponse, tabID string) (*internal.ChatTab, error) {
	for i := range resp.Tabs {
		if resp.Tabs[i].ID == tabID {
			return &resp.Tabs[i], nil
		}
	}
	return nil, fmt.Errorf("chat %s not found", tabID)
}

func displayTabs(out io.Writer, workspaceID string, tabs []internal.ChatTab) {
	if len(tabs) == 0 {
		fmt.Fprintln(out, headerStyle.Render("No chats found in workspace "+workspaceID))
		return
	}

	fmt.Fprintln(out, headerStyle.Render(fmt.Sprintf("Found %d chat(s)", len(tabs))))
	fmt.Fprintln(out)

	w := tabwriter.NewWriter(out, 0, 0, 3, ' ', 0)
	_, _ = fmt.Fprintln(w, titleStyle.Render("ID")+"\t"+titleStyle.Render("Title")+"\t"+titleStyle.Render("Messages")+"\t"+titleStyle.Render("Updated")+"\t")
	_, _ = fmt.Fprintln(w, strings.Repeat("─", 100))

	for _, tab := range tabs {
		title := runewidth.Truncate(tab.Title, 50, "...")
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t\n",
			idStyle.Render(tab.ID),
			title,
			countStyle.Render(strconv.Itoa(len(tab.Bubbles))),
			dateStyle.Render(tab.Timestamp.In(location()).Format(listDateLayout)),
		)
	}
	_ = w.Flush()
}

func init() {
	rootCmd.AddCommand(tabsCmd)
}
