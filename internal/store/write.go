package store

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/ademuri/chart-tools/internal/window"
)

// WriteWorkbook replaces every given sheet in one transaction, so readers
// never see a half-written workbook.
func (s *Store) WriteWorkbook(w window.Window, sheets []Sheet) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	for _, sheet := range sheets {
		if err := writeSheet(tx, sheet); err != nil {
			return err
		}
	}
	if err := setWindow(tx, w); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// WriteSheet replaces a single sheet.
func (s *Store) WriteSheet(sheet Sheet) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if err := writeSheet(tx, sheet); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// Internal helper functions (private, taking *sql.Tx)

func writeSheet(tx *sql.Tx, sheet Sheet) error {
	name := sheet.Name()
	if _, err := tx.Exec("DROP TABLE IF EXISTS " + quote(name)); err != nil {
		return fmt.Errorf("dropping sheet %s: %w", name, err)
	}

	columns := []string{
		"position INTEGER PRIMARY KEY",
		"name TEXT NOT NULL",
		"artist TEXT",
		"label TEXT",
	}
	insertCols := []string{"position", "name", "artist", "label"}
	for _, m := range sheet.Profile.Metrics {
		columns = append(columns, quote(string(m))+" INTEGER NOT NULL DEFAULT 0")
		insertCols = append(insertCols, quote(string(m)))
	}

	create := fmt.Sprintf("CREATE TABLE %s (\n  %s\n)", quote(name), strings.Join(columns, ",\n  "))
	if _, err := tx.Exec(create); err != nil {
		return fmt.Errorf("creating sheet %s: %w", name, err)
	}

	insert := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		quote(name), strings.Join(insertCols, ", "),
		strings.TrimSuffix(strings.Repeat("?, ", len(insertCols)), ", "))
	stmt, err := tx.Prepare(insert)
	if err != nil {
		return fmt.Errorf("preparing insert into %s: %w", name, err)
	}
	defer stmt.Close()

	for i, row := range sheet.Rows {
		args := []any{i + 1, row.Name, nullable(row.Artist), nullable(row.Label)}
		for _, m := range sheet.Profile.Metrics {
			args = append(args, row.Counts.Get(m))
		}
		if _, err := stmt.Exec(args...); err != nil {
			return fmt.Errorf("inserting %q into %s: %w", row.Name, name, err)
		}
	}
	return nil
}

func setWindow(tx *sql.Tx, w window.Window) error {
	values := map[string]string{
		"window":     w.Label(),
		"start":      "",
		"end":        "",
		"written_at": time.Now().UTC().Format(time.RFC3339),
	}
	if w.Kind != window.KindAllTime {
		values["start"] = w.Start.Format(window.DayLayout)
		values["end"] = w.End.Format(window.DayLayout)
	}
	for k, v := range values {
		if _, err := tx.Exec("INSERT OR REPLACE INTO Workbook (key, value) VALUES (?, ?)", k, v); err != nil {
			return fmt.Errorf("setting workbook %s: %w", k, err)
		}
	}
	return nil
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
