package cmd

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"
	"github.com/iksnae/cursor-chat-browser/internal"
	"github.com/spf13/cobra"
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("62")).
			Padding(0, 1)

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("212"))

	idStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("240")).
		Italic(true)

	countStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Bold(true)

	dateStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))

	workspaceStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("135")).
			Italic(true)
)

const listDateLayout = "2006-01-02 15:04"

var workspacesCmd = &cobra.Command{
	Use:   "workspaces",
	Short: "List Cursor workspaces",
	Long:  `List the workspaces found in Cursor's workspaceStorage, most recently used first.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		paths, err := storagePaths()
		if err != nil {
			return err
		}

		if !paths.WorkspaceStorageExists() {
			internal.PrintWarning("workspaceStorage not found at " + paths.WorkspaceStorage)
		}

		workspaces, err := internal.DetectWorkspaces(paths.WorkspaceStorage)
		if err != nil {
			return fmt.Errorf("failed to list workspaces: %w", err)
		}

		displayWorkspaces(cmd.OutOrStdout(), workspaces)
		return nil
	},
}

func displayWorkspaces(out io.Writer, workspaces []internal.WorkspaceInfo) {
	if len(workspaces) == 0 {
		fmt.Fprintln(out, headerStyle.Render("No workspaces found"))
		return
	}

	fmt.Fprintln(out, headerStyle.Render(fmt.Sprintf("Found %d workspace(s)", len(workspaces))))
	fmt.Fprintln(out)

	w := tabwriter.NewWriter(out, 0, 0, 3, ' ', 0)
	_, _ = fmt.Fprintln(w, titleStyle.Render("ID")+"\t"+titleStyle.Render("Folder")+"\t"+titleStyle.Render("Last Modified")+"\t")
	_, _ = fmt.Fprintln(w, strings.Repeat("─", 80))

	for _, ws := range workspaces {
		folder := ws.Name
		if folder == "" {
			folder = "-"
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t\n",
			idStyle.Render(ws.ID),
			workspaceStyle.Render(folder),
			dateStyle.Render(ws.LastModified.In(location()).Format(listDateLayout)),
		)
	}
	_ = w.Flush()
}

func init() {
	rootCmd.AddCommand(workspacesCmd)
}
