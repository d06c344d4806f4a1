package internal

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"strings"
)

// Store is a read-only key-value store backed by one state.vscdb table
type Store interface {
	Get(ctx context.Context, key string) (string, bool, error)
	BatchGet(ctx context.Context, keys []string) ([]KeyValuePair, error)
	Close() error
}

// StoreOpener opens the workspace-scoped store and the global store
type StoreOpener interface {
	OpenWorkspace(ctx context.Context, workspaceID string) (Store, error)
	OpenGlobal(ctx context.Context) (Store, error)
}

// SQLiteStore implements Store over a SQLite key-value table
type SQLiteStore struct {
	db    *sql.DB
	table string
	path  string
}

// OpenSQLiteStore opens the database at path read-only and reads from table
func OpenSQLiteStore(ctx context.Context, path, table string) (*SQLiteStore, error) {
	db, err := OpenDatabase(ctx, path)
	if err != nil {
		return nil, &StorageError{Path: path, Op: "open", Err: err}
	}
	return &SQLiteStore{db: db, table: table, path: path}, nil
}

// Get reads one key
func (s *SQLiteStore) Get(ctx context.Context, key string) (string, bool, error) {
	value, ok, err := QueryValue(ctx, s.db, s.table, key)
	if err != nil {
		return "", false, &StorageError{Path: s.path, Op: "query", Err: err}
	}
	return value, ok, nil
}

// BatchGet reads many keys with a single IN query
func (s *SQLiteStore) BatchGet(ctx context.Context, keys []string) ([]KeyValuePair, error) {
	pairs, err := QueryValues(ctx, s.db, s.table, keys)
	if err != nil {
		return nil, &StorageError{Path: s.path, Op: "query", Err: err}
	}
	return pairs, nil
}

// Close releases the database handle
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// SQLiteOpener opens Cursor's state.vscdb files below StoragePaths
type SQLiteOpener struct {
	paths StoragePaths
}

// NewSQLiteOpener creates an opener for the given storage layout
func NewSQLiteOpener(paths StoragePaths) *SQLiteOpener {
	return &SQLiteOpener{paths: paths}
}

// OpenWorkspace opens workspaceStorage/<id>/state.vscdb (ItemTable)
func (o *SQLiteOpener) OpenWorkspace(ctx context.Context, workspaceID string) (Store, error) {
	if err := ValidateWorkspaceID(workspaceID); err != nil {
		return nil, &StorageError{Path: o.paths.WorkspaceStorage, Op: "open", Err: err}
	}
	return OpenSQLiteStore(ctx, o.paths.GetWorkspaceDBPath(workspaceID), ItemTable)
}

// OpenGlobal opens globalStorage/state.vscdb (cursorDiskKV)
func (o *SQLiteOpener) OpenGlobal(ctx context.Context) (Store, error) {
	return OpenSQLiteStore(ctx, o.paths.GetGlobalStorageDBPath(), CursorDiskKV)
}

// ValidateWorkspaceID rejects ids that would escape workspaceStorage
func ValidateWorkspaceID(workspaceID string) error {
	if workspaceID == "" || workspaceID == "." || workspaceID == ".." ||
		strings.ContainsAny(workspaceID, `/\`) || workspaceID != filepath.Base(workspaceID) {
		return fmt.Errorf("%w: %q", ErrInvalidWorkspaceID, workspaceID)
	}
	return nil
}
