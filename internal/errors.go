package internal

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when a workspace store holds neither the composer
// record nor the legacy chat-view record.
var ErrNotFound = errors.New("no chat data found")

// ErrInvalidWorkspaceID is returned for workspace ids that cannot name a
// directory inside workspaceStorage.
var ErrInvalidWorkspaceID = errors.New("invalid workspace id")

// StorageError represents errors accessing storage files
type StorageError struct {
	Path string
	Op   string // "open", "query"
	Err  error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage error: %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// ParseError represents a stored record that exists but does not have the
// expected shape
type ParseError struct {
	Source string // "workspaceStorage", "globalStorage"
	Key    string
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error [%s] %s: %v", e.Source, e.Key, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// ExportError represents errors during export
type ExportError struct {
	Format string
	Path   string
	Err    error
}

func (e *ExportError) Error() string {
	return fmt.Sprintf("export error [%s] %s: %v", e.Format, e.Path, e.Err)
}

func (e *ExportError) Unwrap() error {
	return e.Err
}
