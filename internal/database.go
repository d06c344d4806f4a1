package internal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"
)

// Tables holding key-value records in a state.vscdb file
const (
	ItemTable    = "ItemTable"
	CursorDiskKV = "cursorDiskKV"
)

// maxBatchKeys keeps IN (...) lists below SQLite's host parameter limit
const maxBatchKeys = 900

// OpenDatabase opens a SQLite database in read-only mode
func OpenDatabase(ctx context.Context, path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", readOnlyURI(path))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Test connection
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("database ping failed: %w", err)
	}

	return db, nil
}

// readOnlyURI builds a file: URI for path with mode=ro. The path is
// percent-encoded so '#', '?' and '%' in directory names stay part of it.
func readOnlyURI(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	p := filepath.ToSlash(path)
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	u := url.URL{Scheme: "file", Path: p, RawQuery: "mode=ro"}
	return u.String()
}

// QueryValue reads a single key from a key-value table. A missing row or a
// NULL value reports ok=false.
func QueryValue(ctx context.Context, db *sql.DB, table, key string) (string, bool, error) {
	query := fmt.Sprintf("SELECT value FROM %s WHERE [key] = ?", table)

	var value sql.NullString
	err := db.QueryRowContext(ctx, query, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("query failed: %w", err)
	}
	if !value.Valid {
		return "", false, nil
	}
	return value.String, true, nil
}

// QueryValues reads many keys from a key-value table. Rows with NULL values
// are skipped; keys without a row are simply absent from the result.
func QueryValues(ctx context.Context, db *sql.DB, table string, keys []string) ([]KeyValuePair, error) {
	var pairs []KeyValuePair
	for start := 0; start < len(keys); start += maxBatchKeys {
		end := start + maxBatchKeys
		if end > len(keys) {
			end = len(keys)
		}
		chunk, err := queryValuesChunk(ctx, db, table, keys[start:end])
		if err != nil {
			return nil, err
		}
		pairs = append(pairs, chunk...)
	}
	return pairs, nil
}

func queryValuesChunk(ctx context.Context, db *sql.DB, table string, keys []string) ([]KeyValuePair, error) {
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(keys)), ",")
	query := fmt.Sprintf("SELECT [key], value FROM %s WHERE [key] IN (%s)", table, placeholders)

	args := make([]interface{}, len(keys))
	for i, key := range keys {
		args[i] = key
	}

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	var pairs []KeyValuePair
	for rows.Next() {
		var pair KeyValuePair
		var value sql.NullString
		if err := rows.Scan(&pair.Key, &value); err != nil {
			return nil, fmt.Errorf("scan failed: %w", err)
		}
		if value.Valid {
			pair.Value = value.String
			pairs = append(pairs, pair)
		}
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return pairs, nil
}

// KeyValuePair represents a key-value row of a state.vscdb table
type KeyValuePair struct {
	Key   string
	Value string
}
