package store

import (
	"fmt"
	"path/filepath"

	"github.com/ademuri/chart-tools/internal/rank"
	"github.com/ademuri/chart-tools/internal/window"
)

// Level is the entity a sheet ranks.
type Level string

const (
	Track  Level = "Track"
	Artist Level = "Artist"
	Label  Level = "Label"
)

// Levels lists the levels in export and notes order.
var Levels = []Level{Track, Artist, Label}

// Sheet is one ranked table of a workbook.
type Sheet struct {
	Level   Level
	Profile rank.Profile
	Rows    []rank.Row
}

func (s Sheet) Name() string {
	return SheetName(s.Level, s.Profile)
}

// SheetName is e.g. "By_Artist_1001Tracklists".
func SheetName(level Level, p rank.Profile) string {
	return fmt.Sprintf("By_%s_%s", level, p.Source)
}

// WorkbookPath places the workbook of a window under outDir.
func WorkbookPath(outDir string, year int, w window.Window) string {
	switch w.Kind {
	case window.KindWeek:
		return filepath.Join(outDir, "weekly_data", fmt.Sprintf("%d Charts Week %d.db", year, w.Number))
	case window.KindMonth:
		return filepath.Join(outDir, "monthly_data", fmt.Sprintf("%d Charts Month %d.db", year, w.Number))
	}
	return filepath.Join(outDir, fmt.Sprintf("%d Charts OUT All Time.db", year))
}
