package testutil

import (
	"database/sql"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	_ "modernc.org/sqlite"
)

// Table names used by Cursor's state.vscdb files
const (
	ItemTable    = "ItemTable"
	CursorDiskKV = "cursorDiskKV"
)

// StorageLayout is a fake Cursor User directory
type StorageLayout struct {
	Root             string
	WorkspaceStorage string
	GlobalStorage    string
}

// CreateStorageLayout creates empty workspaceStorage and globalStorage directories
func CreateStorageLayout(t *testing.T) StorageLayout {
	t.Helper()
	root := CreateTempDir(t)
	layout := StorageLayout{
		Root:             root,
		WorkspaceStorage: filepath.Join(root, "workspaceStorage"),
		GlobalStorage:    filepath.Join(root, "globalStorage"),
	}
	for _, dir := range []string{layout.WorkspaceStorage, layout.GlobalStorage} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			t.Fatalf("Failed to create %s: %v", dir, err)
		}
	}
	return layout
}

// CreateKVDatabase creates a SQLite file with a Cursor-style key-value table
// and inserts the given values. The handle is closed before returning.
func CreateKVDatabase(t *testing.T, dbPath, table string, values map[string]string) {
	t.Helper()
	db := OpenKVDatabase(t, dbPath, table)
	for key, value := range values {
		InsertValue(t, db, table, key, value)
	}
	if err := db.Close(); err != nil {
		t.Fatalf("Failed to close database: %v", err)
	}
}

// OpenKVDatabase creates (if needed) and opens a writable SQLite file with a
// Cursor-style key-value table. The caller closes the handle.
func OpenKVDatabase(t *testing.T, dbPath, table string) *sql.DB {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		t.Fatalf("Failed to create fixture directory: %v", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}

	createTableSQL := `CREATE TABLE IF NOT EXISTS ` + table + ` (
		[key] TEXT UNIQUE ON CONFLICT REPLACE,
		value BLOB
	)`
	if _, err := db.Exec(createTableSQL); err != nil {
		db.Close()
		t.Fatalf("Failed to create table %s: %v", table, err)
	}
	return db
}

// InsertValue inserts a key-value row. A nil value stores NULL.
func InsertValue(t *testing.T, db *sql.DB, table, key string, value interface{}) {
	t.Helper()
	insertSQL := "INSERT INTO " + table + " ([key], value) VALUES (?, ?)"
	if _, err := db.Exec(insertSQL, key, value); err != nil {
		t.Fatalf("Failed to insert %s: %v", key, err)
	}
}

// CreateWorkspaceDB creates workspaceStorage/<id>/state.vscdb with an ItemTable
// and a workspace.json pointing at folder.
func CreateWorkspaceDB(t *testing.T, layout StorageLayout, workspaceID, folder string, items map[string]string) string {
	t.Helper()
	workspaceDir := filepath.Join(layout.WorkspaceStorage, workspaceID)
	dbPath := filepath.Join(workspaceDir, "state.vscdb")
	CreateKVDatabase(t, dbPath, ItemTable, items)

	if folder != "" {
		data, _ := json.Marshal(map[string]string{"folder": folder})
		if err := os.WriteFile(filepath.Join(workspaceDir, "workspace.json"), data, 0644); err != nil {
			t.Fatalf("Failed to write workspace.json: %v", err)
		}
	}
	return dbPath
}

// CreateGlobalDB creates globalStorage/state.vscdb with a cursorDiskKV table
func CreateGlobalDB(t *testing.T, layout StorageLayout, values map[string]string) string {
	t.Helper()
	dbPath := filepath.Join(layout.GlobalStorage, "state.vscdb")
	CreateKVDatabase(t, dbPath, CursorDiskKV, values)
	return dbPath
}
