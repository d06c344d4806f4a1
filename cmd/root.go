package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/iksnae/cursor-chat-browser/internal"
	"github.com/iksnae/cursor-chat-browser/internal/config"
	"github.com/spf13/cobra"
)

var (
	verbose           bool
	storagePath       string
	globalStoragePath string
	configPath        string
	version           string = "dev"
	commit            string = "unknown"
	date              string = "unknown"

	cfg = config.Default()
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "cursor-chat-browser",
	Short: "Browse and export Cursor IDE chat history",
	Long: `Browse and export the AI chat history Cursor keeps per workspace.

Conversations are read from Cursor's state.vscdb files, both the composer
format (conversation bodies in globalStorage) and the older chat-view
format, and rendered as Markdown, HTML, a print page, JSON, YAML or JSONL.

Quick Start:
  cursor-chat-browser workspaces                  # List workspaces
  cursor-chat-browser tabs <workspace-id>         # List chats of a workspace
  cursor-chat-browser show <workspace-id> <tab>   # Read a chat in the terminal
  cursor-chat-browser export-all -f html          # Zip every chat as HTML
  cursor-chat-browser serve                       # Serve the HTTP API`,
	Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load(configPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
		internal.SetVerbose(verbose || cfg.Verbose)
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		internal.PrintError(fmt.Sprintf("Error: %v", err))
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&storagePath, "storage", "", "Custom workspaceStorage directory (defaults to Cursor's, or WORKSPACE_PATH)")
	rootCmd.PersistentFlags().StringVar(&globalStoragePath, "global-storage", "", "Custom globalStorage directory (defaults to the sibling of workspaceStorage)")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default ~/"+config.DefaultFileName+")")

	rootCmd.SetVersionTemplate(`{{printf "%s\n" .Version}}`)
}

// storagePaths resolves the storage layout from flags, then config
func storagePaths() (internal.StoragePaths, error) {
	workspacePath := storagePath
	if workspacePath == "" {
		workspacePath = cfg.WorkspacePath
	}
	globalPath := globalStoragePath
	if globalPath == "" {
		globalPath = cfg.GlobalStoragePath
	}

	paths, err := internal.GetStoragePaths(workspacePath, globalPath)
	if err != nil {
		return internal.StoragePaths{}, fmt.Errorf("failed to get storage paths: %w", err)
	}
	internal.LogDebug("workspaceStorage: %s", paths.WorkspaceStorage)
	internal.LogDebug("globalStorage: %s", paths.GlobalStorage)
	return paths, nil
}

// newResolver creates a resolver reading the SQLite stores below paths
func newResolver(paths internal.StoragePaths) *internal.Resolver {
	return internal.NewResolver(
		internal.NewSQLiteOpener(paths),
		internal.WithQueryTimeout(cfg.QueryTimeout.Duration),
	)
}

// location returns the time zone used when rendering documents
func location() *time.Location {
	loc, err := cfg.Location()
	if err != nil {
		return time.Local
	}
	return loc
}

// exportFormat returns the flag value, or the configured default
func exportFormat(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	return cfg.Export.Format
}

// exportOutputDir returns the flag value, or the configured default
func exportOutputDir(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	return cfg.Export.OutputDir
}
