package export

import (
	"context"
	"errors"
	"io"

	"github.com/iksnae/cursor-chat-browser/internal"
)

// ErrNoFiles is returned when a batch export collected nothing to archive
var ErrNoFiles = errors.New("no files were collected")

// TabResolver resolves the chat tabs of a workspace
type TabResolver interface {
	Resolve(ctx context.Context, workspaceID string) (*internal.TabsResponse, error)
}

// CollectFiles resolves every workspace in order and collects the exported
// files. Workspaces that fail to resolve or have no tabs are skipped.
func CollectFiles(ctx context.Context, resolver TabResolver, workspaceIDs []string, exporter Exporter) ([]NamedFile, error) {
	var files []NamedFile

	for i, workspaceID := range workspaceIDs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		internal.LogDebug("Processing workspace %d/%d: %s", i+1, len(workspaceIDs), workspaceID)
		resp, err := resolver.Resolve(ctx, workspaceID)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				if ctxErr := ctx.Err(); ctxErr != nil {
					return nil, ctxErr
				}
			}
			if errors.Is(err, internal.ErrNotFound) {
				internal.LogDebug("No chat logs found in workspace %s", workspaceID)
			} else {
				internal.LogWarn("Skipping workspace %s: %v", workspaceID, err)
			}
			continue
		}
		if len(resp.Tabs) == 0 {
			internal.LogDebug("No chat logs found in workspace %s", workspaceID)
			continue
		}

		files = append(files, CollectWorkspaceFiles(workspaceID, resp.Tabs, exporter)...)
	}

	return files, nil
}

// BatchExport collects the files of every workspace and writes them as a zip
// archive to w. It returns the number of archived files, or ErrNoFiles
// without writing anything when nothing was collected.
func BatchExport(ctx context.Context, resolver TabResolver, workspaceIDs []string, exporter Exporter, w io.Writer) (int, error) {
	files, err := CollectFiles(ctx, resolver, workspaceIDs, exporter)
	if err != nil {
		return 0, err
	}
	if len(files) == 0 {
		internal.LogWarn("No files were added to the archive")
		return 0, ErrNoFiles
	}
	if err := WriteArchive(w, files); err != nil {
		return 0, err
	}
	return len(files), nil
}
