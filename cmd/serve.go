package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/iksnae/cursor-chat-browser/internal"
	"github.com/iksnae/cursor-chat-browser/internal/server"
	"github.com/spf13/cobra"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve chats over HTTP",
	Long: `Serve the workspace, chat and export endpoints over HTTP.

  GET /api/workspaces
  GET /api/workspaces/{id}/tabs
  GET /api/workspaces/{id}/tabs/{tabId}/export?format=md|html|pdf|json|yaml|jsonl
  GET /api/export?format=markdown|html
  GET /health`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		paths, err := storagePaths()
		if err != nil {
			return err
		}

		addr := serveAddr
		if addr == "" {
			addr = cfg.Server.Addr
		}

		srv := server.New(addr, newResolver(paths), func() ([]internal.WorkspaceInfo, error) {
			return internal.DetectWorkspaces(paths.WorkspaceStorage)
		}, server.WithLocation(location()))

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		internal.PrintInfo("Serving Cursor chats on http://" + addr + " (Ctrl+C to stop)")

		errCh := make(chan error, 1)
		go func() {
			errCh <- srv.Start()
		}()

		select {
		case err := <-errCh:
			return err
		case <-ctx.Done():
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (default from config or CURSOR_CHAT_ADDR, 127.0.0.1:3000)")
	rootCmd.AddCommand(serveCmd)
}
