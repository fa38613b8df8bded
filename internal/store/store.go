// Package store keeps chart workbooks as SQLite files: one file per
// reporting window, one table per sheet.
package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
)

type Store struct {
	db   *sql.DB
	path string
}

// New opens the workbook at dbPath, creating it and its directory if needed.
func New(dbPath string) (*Store, error) {
	if dir := filepath.Dir(dbPath); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating workbook directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if err := createTables(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating tables: %w", err)
	}

	return &Store{db: db, path: dbPath}, nil
}

// Open opens an existing workbook for reading.
func Open(dbPath string) (*Store, error) {
	if _, err := os.Stat(dbPath); err != nil {
		return nil, fmt.Errorf("opening workbook: %w", err)
	}
	return New(dbPath)
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) Path() string {
	return s.path
}

func createTables(db *sql.DB) error {
	query := `
CREATE TABLE IF NOT EXISTS Workbook (
  key TEXT PRIMARY KEY,
  value TEXT
);
`
	if _, err := db.Exec(query); err != nil {
		return fmt.Errorf("creating workbook table: %w", err)
	}
	return nil
}

func tableExists(q querier, name string) (bool, error) {
	row := q.QueryRow("SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?", name)
	var found string
	err := row.Scan(&found)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("checking table %s: %w", name, err)
	}
	return true, nil
}

func columnExists(q querier, table, column string) (bool, error) {
	rows, err := q.Query(fmt.Sprintf("PRAGMA table_info(%s)", quote(table)))
	if err != nil {
		return false, err
	}
	defer rows.Close()

	for rows.Next() {
		var cid int
		var name string
		var ctype string
		var notnull int
		var dfltValue interface{}
		var pk int
		if err := rows.Scan(&cid, &name, &ctype, &notnull, &dfltValue, &pk); err != nil {
			return false, err
		}
		if name == column {
			return true, nil
		}
	}
	return false, rows.Err()
}

type querier interface {
	Query(query string, args ...any) (*sql.Rows, error)
	QueryRow(query string, args ...any) *sql.Row
}

// quote makes a sheet or column name usable as an SQL identifier. Metric
// columns such as 1001T_Supports start with a digit.
func quote(ident string) string {
	out := []byte{'"'}
	for i := 0; i < len(ident); i++ {
		if ident[i] == '"' {
			out = append(out, '"')
		}
		out = append(out, ident[i])
	}
	return string(append(out, '"'))
}
