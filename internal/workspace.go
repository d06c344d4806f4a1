package internal

import (
	"encoding/json"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"time"
)

// WorkspaceInfo describes one workspaceStorage entry
type WorkspaceInfo struct {
	ID           string    `json:"id" yaml:"id"`
	Folder       string    `json:"folder,omitempty" yaml:"folder,omitempty"`
	Name         string    `json:"name,omitempty" yaml:"name,omitempty"`
	LastModified time.Time `json:"lastModified" yaml:"last_modified"`
}

// DetectWorkspaces lists the workspaces below workspaceStorage that have a
// state.vscdb, most recently modified first. A missing directory yields an
// empty list.
func DetectWorkspaces(workspaceStorage string) ([]WorkspaceInfo, error) {
	entries, err := os.ReadDir(workspaceStorage)
	if err != nil {
		if os.IsNotExist(err) {
			return []WorkspaceInfo{}, nil
		}
		return nil, &StorageError{Path: workspaceStorage, Op: "list", Err: err}
	}

	workspaces := make([]WorkspaceInfo, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		id := entry.Name()
		dbInfo, err := os.Stat(filepath.Join(workspaceStorage, id, "state.vscdb"))
		if err != nil {
			continue
		}

		info := WorkspaceInfo{
			ID:           id,
			LastModified: dbInfo.ModTime(),
		}
		info.Folder = readWorkspaceFolder(filepath.Join(workspaceStorage, id, "workspace.json"))
		if info.Folder != "" {
			info.Name = folderName(info.Folder)
		}
		workspaces = append(workspaces, info)
	}

	sort.SliceStable(workspaces, func(i, j int) bool {
		if !workspaces[i].LastModified.Equal(workspaces[j].LastModified) {
			return workspaces[i].LastModified.After(workspaces[j].LastModified)
		}
		return workspaces[i].ID < workspaces[j].ID
	})
	return workspaces, nil
}

// readWorkspaceFolder returns the folder recorded in workspace.json, if any
func readWorkspaceFolder(path string) string {
	data, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	var workspaceData struct {
		Folder    string `json:"folder"`
		Workspace string `json:"workspace"`
	}
	if err := json.Unmarshal(data, &workspaceData); err != nil {
		LogDebug("Unreadable workspace.json %s: %v", path, err)
		return ""
	}
	if workspaceData.Folder != "" {
		return workspaceData.Folder
	}
	return workspaceData.Workspace
}

// folderName returns the last path element of a folder URI
func folderName(folder string) string {
	path := folder
	if u, err := url.Parse(folder); err == nil && u.Scheme != "" {
		path = u.Path
	}
	if unescaped, err := url.PathUnescape(path); err == nil {
		path = unescaped
	}
	return filepath.Base(filepath.FromSlash(path))
}
