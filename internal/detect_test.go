package internal

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/iksnae/cursor-chat-browser/testutil"
)

func TestDetectStoragePaths(t *testing.T) {
	paths, err := DetectStoragePaths()
	if err != nil {
		t.Fatalf("DetectStoragePaths() error = %v", err)
	}

	if paths.BasePath == "" {
		t.Error("BasePath should not be empty")
	}

	home, _ := os.UserHomeDir()
	switch runtime.GOOS {
	case "darwin":
		expected := filepath.Join(home, "Library/Application Support/Cursor/User")
		if paths.BasePath != expected {
			t.Errorf("BasePath = %v, want %v", paths.BasePath, expected)
		}
	case "linux":
		expected := filepath.Join(home, ".config/Cursor/User")
		if paths.BasePath != expected {
			t.Errorf("BasePath = %v, want %v", paths.BasePath, expected)
		}
	}

	if paths.GlobalStorage != filepath.Join(paths.BasePath, "globalStorage") {
		t.Errorf("GlobalStorage = %v, want sibling of workspaceStorage", paths.GlobalStorage)
	}
	if paths.WorkspaceStorage != filepath.Join(paths.BasePath, "workspaceStorage") {
		t.Errorf("WorkspaceStorage = %v", paths.WorkspaceStorage)
	}
}

func TestGetStoragePaths_Custom(t *testing.T) {
	layout := testutil.CreateStorageLayout(t)

	paths, err := GetStoragePaths(layout.WorkspaceStorage, "")
	if err != nil {
		t.Fatalf("GetStoragePaths() error = %v", err)
	}
	if paths.WorkspaceStorage != layout.WorkspaceStorage {
		t.Errorf("WorkspaceStorage = %v, want %v", paths.WorkspaceStorage, layout.WorkspaceStorage)
	}
	if paths.GlobalStorage != layout.GlobalStorage {
		t.Errorf("GlobalStorage = %v, want %v", paths.GlobalStorage, layout.GlobalStorage)
	}
	if !paths.WorkspaceStorageExists() {
		t.Error("WorkspaceStorageExists() = false, want true")
	}
	if paths.GlobalStorageExists() {
		t.Error("GlobalStorageExists() = true before the database was created")
	}

	testutil.CreateGlobalDB(t, layout, nil)
	if !paths.GlobalStorageExists() {
		t.Error("GlobalStorageExists() = false after the database was created")
	}
}

func TestGetStoragePaths_GlobalOverride(t *testing.T) {
	layout := testutil.CreateStorageLayout(t)
	override := filepath.Join(layout.Root, "elsewhere")

	paths, err := GetStoragePaths(layout.WorkspaceStorage, override)
	if err != nil {
		t.Fatalf("GetStoragePaths() error = %v", err)
	}
	if paths.GlobalStorage != override {
		t.Errorf("GlobalStorage = %v, want %v", paths.GlobalStorage, override)
	}
	if got := paths.GetGlobalStorageDBPath(); got != filepath.Join(override, "state.vscdb") {
		t.Errorf("GetGlobalStorageDBPath() = %v", got)
	}
}

func TestGetWorkspaceDBPath(t *testing.T) {
	paths := NewStoragePaths("/base")
	want := filepath.Join("/base", "workspaceStorage", "abc123", "state.vscdb")
	if got := paths.GetWorkspaceDBPath("abc123"); got != want {
		t.Errorf("GetWorkspaceDBPath() = %v, want %v", got, want)
	}
}
