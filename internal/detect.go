package internal

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

// StoragePaths holds the detected paths for Cursor storage
type StoragePaths struct {
	WorkspaceStorage string // workspaceStorage directory, one sub-directory per workspace
	GlobalStorage    string // globalStorage directory shared by all workspaces
	BasePath         string // Base Cursor User directory
}

// DetectStoragePaths detects the Cursor storage paths based on the operating system
func DetectStoragePaths() (StoragePaths, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return StoragePaths{}, fmt.Errorf("failed to get home directory: %w", err)
	}

	var basePath string
	switch runtime.GOOS {
	case "darwin":
		basePath = filepath.Join(home, "Library/Application Support/Cursor/User")
	case "linux":
		basePath = filepath.Join(home, ".config/Cursor/User")
	case "windows":
		appData := os.Getenv("APPDATA")
		if appData == "" {
			appData = filepath.Join(home, "AppData", "Roaming")
		}
		basePath = filepath.Join(appData, "Cursor", "User")
	default:
		return StoragePaths{}, fmt.Errorf("unsupported OS: %s (only macOS, Linux and Windows are supported)", runtime.GOOS)
	}

	return NewStoragePaths(basePath), nil
}

// NewStoragePaths returns the standard layout below a Cursor User directory
func NewStoragePaths(basePath string) StoragePaths {
	return StoragePaths{
		WorkspaceStorage: filepath.Join(basePath, "workspaceStorage"),
		GlobalStorage:    filepath.Join(basePath, "globalStorage"),
		BasePath:         basePath,
	}
}

// GetStoragePaths returns the storage paths for a custom workspaceStorage
// directory, or the detected defaults when workspacePath is empty. The
// global store is the globalStorage sibling of workspacePath unless
// globalPath is set.
func GetStoragePaths(workspacePath, globalPath string) (StoragePaths, error) {
	var paths StoragePaths
	if workspacePath == "" {
		detected, err := DetectStoragePaths()
		if err != nil {
			return StoragePaths{}, err
		}
		paths = detected
	} else {
		abs, err := filepath.Abs(workspacePath)
		if err != nil {
			return StoragePaths{}, fmt.Errorf("failed to resolve workspace path: %w", err)
		}
		paths = NewStoragePaths(filepath.Dir(abs))
		paths.WorkspaceStorage = abs
	}

	if globalPath != "" {
		paths.GlobalStorage = globalPath
	}
	return paths, nil
}

// GetWorkspaceDBPath returns the state.vscdb path of one workspace
func (sp StoragePaths) GetWorkspaceDBPath(workspaceID string) string {
	return filepath.Join(sp.WorkspaceStorage, workspaceID, "state.vscdb")
}

// GetGlobalStorageDBPath returns the path to the globalStorage state.vscdb file
func (sp StoragePaths) GetGlobalStorageDBPath() string {
	return filepath.Join(sp.GlobalStorage, "state.vscdb")
}

// GlobalStorageExists checks if the globalStorage database exists
func (sp StoragePaths) GlobalStorageExists() bool {
	_, err := os.Stat(sp.GetGlobalStorageDBPath())
	return err == nil
}

// WorkspaceStorageExists checks if the workspaceStorage directory exists
func (sp StoragePaths) WorkspaceStorageExists() bool {
	info, err := os.Stat(sp.WorkspaceStorage)
	return err == nil && info.IsDir()
}
