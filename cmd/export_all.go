package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/iksnae/cursor-chat-browser/internal"
	"github.com/iksnae/cursor-chat-browser/internal/export"
	"github.com/spf13/cobra"
)

var (
	archiveFormat    string
	archiveOutputDir string
)

var exportAllCmd = &cobra.Command{
	Use:   "export-all",
	Short: "Export every chat of every workspace into a zip archive",
	Long: `Export the chats of all workspaces into cursor-logs.<ext>.zip.

The archive holds one folder per workspace. Supported formats are markdown
and html; pdf falls back to markdown inside the archive.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		switch archiveFormat {
		case "markdown", "md", "html", "pdf":
		default:
			return fmt.Errorf("unsupported archive format: %s (supported: markdown, html, pdf)", archiveFormat)
		}

		exporter, err := export.NewArchiveExporter(archiveFormat)
		if err != nil {
			return err
		}
		exporter = export.WithLocation(exporter, location())

		paths, err := storagePaths()
		if err != nil {
			return err
		}
		if !paths.GlobalStorageExists() {
			internal.PrintInfo("globalStorage not found, only legacy chats can be exported")
		}

		var (
			ids     []string
			archive bytes.Buffer
			count   int
		)
		err = internal.ShowProgressWithSteps(cmd.Context(), []internal.ProgressStep{
			{
				Message: "Listing workspaces",
				Fn: func() error {
					workspaces, err := internal.DetectWorkspaces(paths.WorkspaceStorage)
					if err != nil {
						return err
					}
					for _, ws := range workspaces {
						ids = append(ids, ws.ID)
					}
					return nil
				},
			},
			{
				Message: "Exporting chats",
				Fn: func() error {
					var err error
					count, err = export.BatchExport(cmd.Context(), newResolver(paths), ids, exporter, &archive)
					return err
				},
			},
		})
		if errors.Is(err, export.ErrNoFiles) {
			internal.PrintWarning("No chats found, nothing was exported")
			return nil
		}
		if err != nil {
			return err
		}

		dir := exportOutputDir(archiveOutputDir)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
		path := filepath.Join(dir, export.ArchiveName(exporter))
		if err := os.WriteFile(path, archive.Bytes(), 0644); err != nil {
			return &internal.ExportError{Format: "zip", Path: path, Err: err}
		}

		internal.PrintSuccess(fmt.Sprintf("Exported %d chat(s) to %s", count, path))
		return nil
	},
}

func init() {
	exportAllCmd.Flags().StringVarP(&archiveFormat, "format", "f", "markdown", "Archive format: markdown, html or pdf")
	exportAllCmd.Flags().StringVarP(&archiveOutputDir, "output", "o", "", "Output directory (default from config, .)")
	rootCmd.AddCommand(exportAllCmd)
}
