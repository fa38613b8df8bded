package store

import (
	"errors"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/ademuri/chart-tools/internal/catalog"
	"github.com/ademuri/chart-tools/internal/rank"
	"github.com/ademuri/chart-tools/internal/window"
)

func createTestDb(t *testing.T) *Store {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "charts", "2021 Charts OUT All Time.db")

	store, err := New(dbPath)
	if err != nil {
		t.Fatalf("New(%s) error: %v", dbPath, err)
	}

	return store
}

func trackSheet() Sheet {
	return Sheet{
		Level:   Track,
		Profile: rank.Tracklists,
		Rows: []rank.Row{
			{Name: "B", Artist: "X, Y", Label: "L", Counts: catalog.Counts{catalog.Supports: 9, catalog.TracklistPlays: 3}},
			{Name: "A", Artist: "X", Counts: catalog.Counts{catalog.Supports: 2, catalog.TracklistPlays: 1}},
		},
	}
}

func TestWriteAndReadSheet(t *testing.T) {
	s := createTestDb(t)
	defer s.Close()

	sheet := trackSheet()
	if err := s.WriteWorkbook(window.AllTime(), []Sheet{sheet}); err != nil {
		t.Fatalf("WriteWorkbook: %v", err)
	}

	got, err := s.ReadSheet(Track, rank.Tracklists)
	if err != nil {
		t.Fatalf("ReadSheet: %v", err)
	}
	if !reflect.DeepEqual(got, sheet.Rows) {
		t.Errorf("ReadSheet() = %+v, want %+v", got, sheet.Rows)
	}

	label, err := s.WindowLabel()
	if err != nil {
		t.Fatalf("WindowLabel: %v", err)
	}
	if label != "All Time" {
		t.Errorf("WindowLabel() = %q, want %q", label, "All Time")
	}
}

func TestWriteSheetReplaces(t *testing.T) {
	s := createTestDb(t)
	defer s.Close()

	if err := s.WriteSheet(trackSheet()); err != nil {
		t.Fatalf("WriteSheet: %v", err)
	}
	replacement := Sheet{Level: Track, Profile: rank.Tracklists, Rows: []rank.Row{
		{Name: "C", Counts: catalog.Counts{catalog.Supports: 1, catalog.TracklistPlays: 1}},
	}}
	if err := s.WriteSheet(replacement); err != nil {
		t.Fatalf("WriteSheet (repeat): %v", err)
	}

	got, err := s.ReadSheet(Track, rank.Tracklists)
	if err != nil {
		t.Fatalf("ReadSheet: %v", err)
	}
	if len(got) != 1 || got[0].Name != "C" {
		t.Errorf("ReadSheet() = %+v, want only C", got)
	}
}

func TestReadMissingSheet(t *testing.T) {
	s := createTestDb(t)
	defer s.Close()

	_, err := s.ReadSheet(Label, rank.YouTube)
	if !errors.Is(err, ErrNoSheet) {
		t.Fatalf("ReadSheet() error = %v, want ErrNoSheet", err)
	}
}

func TestSheets(t *testing.T) {
	s := createTestDb(t)
	defer s.Close()

	var sheets []Sheet
	for _, level := range Levels {
		for _, p := range rank.Profiles {
			sheets = append(sheets, Sheet{Level: level, Profile: p})
		}
	}
	if err := s.WriteWorkbook(window.AllTime(), sheets); err != nil {
		t.Fatalf("WriteWorkbook: %v", err)
	}

	names, err := s.Sheets()
	if err != nil {
		t.Fatalf("Sheets: %v", err)
	}
	if len(names) != 9 {
		t.Fatalf("Sheets() = %v, want 9 sheets", names)
	}
	if names[0] != "By_Artist_1001Tracklists" {
		t.Errorf("Sheets()[0] = %q", names[0])
	}
}

func TestTop(t *testing.T) {
	s := createTestDb(t)
	defer s.Close()

	views := func(name string, n int64) rank.Row {
		return rank.Row{Name: name, Counts: catalog.Counts{catalog.YouTubeViews: n}}
	}
	sheet := Sheet{Level: Artist, Profile: rank.YouTube, Rows: []rank.Row{
		views("a", 9), views("b", 9), views("c", 5), views("d", 4), views("e", 1),
	}}
	if err := s.WriteSheet(sheet); err != nil {
		t.Fatalf("WriteSheet: %v", err)
	}

	top, err := s.Top(Artist, rank.YouTube, rank.DefaultGroups)
	if err != nil {
		t.Fatalf("Top: %v", err)
	}
	if len(top) != 4 {
		t.Errorf("Top() returned %d rows, want 4", len(top))
	}
}

func TestWorkbookPath(t *testing.T) {
	week, err := window.Week(3, time.Date(2021, 1, 18, 0, 0, 0, 0, time.UTC), time.Date(2021, 1, 24, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("Week: %v", err)
	}

	tests := []struct {
		w    window.Window
		want string
	}{
		{window.AllTime(), filepath.Join("out", "2021 Charts OUT All Time.db")},
		{week, filepath.Join("out", "weekly_data", "2021 Charts Week 3.db")},
		{window.Month(2021, time.May), filepath.Join("out", "monthly_data", "2021 Charts Month 5.db")},
	}
	for _, tc := range tests {
		if got := WorkbookPath("out", 2021, tc.w); got != tc.want {
			t.Errorf("WorkbookPath(%s) = %q, want %q", tc.w, got, tc.want)
		}
	}
}

func TestOpenMissing(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "nope.db"))
	if err == nil {
		t.Fatal("Open() on a missing workbook should fail")
	}
}
