package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/iksnae/cursor-chat-browser/internal"
	"github.com/iksnae/cursor-chat-browser/internal/export"
	"github.com/spf13/cobra"
)

var (
	format    string
	outputDir string
	tabID     string
)

// exportCmd represents the export command
var exportCmd = &cobra.Command{
	Use:   "export <workspace-id>",
	Short: "Export the chats of a workspace to files",
	Long: `Export the chats of one workspace to md, html, pdf, json, yaml or jsonl.

Files are written to <output>/<workspace-id>/<title>.<ext>. The pdf format
writes an HTML page that opens the print dialog when viewed in a browser.
With --tab and --output -, the single chat is written to stdout.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		workspaceID := args[0]

		exporter, err := export.NewExporter(exportFormat(format))
		if err != nil {
			return err
		}
		exporter = export.WithLocation(exporter, location())

		resp, err := resolveWorkspace(cmd.Context(), workspaceID)
		if err != nil {
			return err
		}

		tabs := resp.Tabs
		if tabID != "" {
			tab, err := findTab(resp, tabID)
			if err != nil {
				return fmt.Errorf("%w (use 'cursor-chat-browser tabs %s' to see available chats)", err, workspaceID)
			}
			tabs = []internal.ChatTab{*tab}

			if outputDir == "-" {
				return exporter.Export(tab, cmd.OutOrStdout())
			}
		}

		dir := exportOutputDir(outputDir)
		files := export.CollectWorkspaceFiles(workspaceID, tabs, exporter)
		if len(files) == 0 {
			internal.PrintWarning("No chats to export in workspace " + workspaceID)
			return nil
		}

		if err := writeFiles(dir, files); err != nil {
			return err
		}

		internal.PrintSuccess(fmt.Sprintf("Exported %d chat(s) to %s", len(files), filepath.Join(dir, workspaceID)))
		return nil
	},
}

// writeFiles writes named files below dir, creating folders as needed
func writeFiles(dir string, files []export.NamedFile) error {
	for _, file := range files {
		path := filepath.Join(dir, filepath.FromSlash(file.Name))
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return &internal.ExportError{Format: filepath.Ext(path), Path: path, Err: err}
		}
		if err := os.WriteFile(path, file.Data, 0644); err != nil {
			return &internal.ExportError{Format: filepath.Ext(path), Path: path, Err: err}
		}
		internal.LogDebug("Wrote %s", path)
	}
	return nil
}

func init() {
	exportCmd.Flags().StringVarP(&format, "format", "f", "", "Export format: md, html, pdf, json, yaml, jsonl (default from config, md)")
	exportCmd.Flags().StringVarP(&outputDir, "output", "o", "", "Output directory, or - for stdout with --tab (default from config, .)")
	exportCmd.Flags().StringVar(&tabID, "tab", "", "Export only the chat with this id")
	rootCmd.AddCommand(exportCmd)
}
