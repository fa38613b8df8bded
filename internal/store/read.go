package store

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/ademuri/chart-tools/internal/catalog"
	"github.com/ademuri/chart-tools/internal/rank"
)

// ErrNoSheet is returned when a workbook lacks the requested sheet.
var ErrNoSheet = errors.New("no such sheet")

// ReadSheet returns a sheet's rows in their written order.
func (s *Store) ReadSheet(level Level, p rank.Profile) ([]rank.Row, error) {
	name := SheetName(level, p)
	exists, err := tableExists(s.db, name)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, fmt.Errorf("%s in %s: %w", name, s.path, ErrNoSheet)
	}

	cols := []string{"name", "artist", "label"}
	for _, m := range p.Metrics {
		ok, err := columnExists(s.db, name, string(m))
		if err != nil {
			return nil, fmt.Errorf("checking column %s.%s: %w", name, m, err)
		}
		if !ok {
			return nil, fmt.Errorf("sheet %s has no %s column", name, m)
		}
		cols = append(cols, quote(string(m)))
	}

	query := fmt.Sprintf("SELECT %s FROM %s ORDER BY position ASC", strings.Join(cols, ", "), quote(name))
	rows, err := s.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("querying sheet %s: %w", name, err)
	}
	defer rows.Close()

	var results []rank.Row
	for rows.Next() {
		var r rank.Row
		var artist, label sql.NullString
		values := make([]int64, len(p.Metrics))
		dest := []any{&r.Name, &artist, &label}
		for i := range values {
			dest = append(dest, &values[i])
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, err
		}
		r.Artist, r.Label = artist.String, label.String
		r.Counts = make(catalog.Counts, len(values))
		for i, m := range p.Metrics {
			r.Counts[m] = values[i]
		}
		results = append(results, r)
	}
	return results, rows.Err()
}

// Sheets lists the sheet names of the workbook, sorted.
func (s *Store) Sheets() ([]string, error) {
	rows, err := s.db.Query("SELECT name FROM sqlite_master WHERE type = 'table' AND name LIKE 'By\\_%' ESCAPE '\\' ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("listing sheets: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var n string
		if err := rows.Scan(&n); err != nil {
			return nil, err
		}
		names = append(names, n)
	}
	return names, rows.Err()
}

// WindowLabel returns the label of the window the workbook was written for.
func (s *Store) WindowLabel() (string, error) {
	row := s.db.QueryRow("SELECT value FROM Workbook WHERE key = 'window'")
	var label string
	err := row.Scan(&label)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("getting workbook window: %w", err)
	}
	return label, nil
}
