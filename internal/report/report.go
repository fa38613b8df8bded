// Package report writes the weekly notes: the podium of every chart, for
// the week and for all time, ready to be turned into posts.
package report

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/olekukonko/tablewriter"

	"github.com/ademuri/chart-tools/internal/rank"
	"github.com/ademuri/chart-tools/internal/store"
)

const (
	PeriodWeek    = "WEEK"
	PeriodAllTime = "ALL TIME"
)

var levelHeadings = map[store.Level]string{
	store.Track:  "TRACKS",
	store.Artist: "ARTISTS",
	store.Label:  "LABELS",
}

// TopReader is satisfied by *store.Store.
type TopReader interface {
	Top(level store.Level, p rank.Profile, groups int) ([]rank.Row, error)
}

// Section is one quoted chart.
type Section struct {
	Level   store.Level
	Profile rank.Profile
	Period  string
	Rows    []rank.Row
}

type Notes struct {
	Week     int
	Sections []Section
}

// Build collects the quoted rows of every chart. Sections go level by
// level, then source by source, the week before all time.
func Build(week, allTime TopReader, weekNum, groups int) (Notes, error) {
	notes := Notes{Week: weekNum}
	for _, level := range store.Levels {
		for _, p := range rank.Profiles {
			for _, src := range []struct {
				period string
				r      TopReader
			}{{PeriodWeek, week}, {PeriodAllTime, allTime}} {
				rows, err := src.r.Top(level, p, groups)
				if err != nil {
					return Notes{}, fmt.Errorf("building %s notes: %w", strings.ToLower(src.period), err)
				}
				notes.Sections = append(notes.Sections, Section{
					Level:   level,
					Profile: p,
					Period:  src.period,
					Rows:    rows,
				})
			}
		}
	}
	return notes, nil
}

func (n Notes) Render(out io.Writer) error {
	var current store.Level
	for _, s := range n.Sections {
		if s.Level != current {
			fmt.Fprintf(out, "--- %s ---\n\n", levelHeadings[s.Level])
			current = s.Level
		}
		fmt.Fprintf(out, "/// %s /// %s\n\n", s.Period, s.Profile.Source)

		table := tablewriter.NewWriter(out)
		table.Header(header(s))
		for i, row := range s.Rows {
			if err := table.Append(cells(s, i, row)); err != nil {
				return fmt.Errorf("rendering %s: %w", store.SheetName(s.Level, s.Profile), err)
			}
		}
		if err := table.Render(); err != nil {
			return fmt.Errorf("rendering %s: %w", store.SheetName(s.Level, s.Profile), err)
		}
		fmt.Fprintf(out, "\n%s\n\n", strings.Repeat("/", 115))
	}
	return nil
}

func (n Notes) String() string {
	out := new(bytes.Buffer)
	if err := n.Render(out); err != nil {
		return fmt.Sprintf("Error rendering notes: %v", err)
	}
	return out.String()
}

func header(s Section) []string {
	h := []string{"#"}
	switch s.Level {
	case store.Track:
		h = append(h, "Track_Name", "Artist", "Label")
	default:
		h = append(h, string(s.Level))
	}
	for _, m := range s.Profile.Metrics {
		h = append(h, string(m))
	}
	return h
}

func cells(s Section, i int, row rank.Row) []string {
	c := []string{strconv.Itoa(i + 1), row.Name}
	if s.Level == store.Track {
		c = append(c, row.Artist, row.Label)
	}
	for _, m := range s.Profile.Metrics {
		c = append(c, humanize.Comma(row.Counts.Get(m)))
	}
	return c
}

// Path is where the notes of a week go.
func Path(outDir string, week int) string {
	return filepath.Join(outDir, "weekly_notes", fmt.Sprintf("W%d_Notes.txt", week))
}

// Write renders the notes to path, creating its directory.
func Write(path string, n Notes) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating notes directory: %w", err)
	}
	out := new(bytes.Buffer)
	if err := n.Render(out); err != nil {
		return err
	}
	if err := os.WriteFile(path, out.Bytes(), 0o644); err != nil {
		return fmt.Errorf("writing notes: %w", err)
	}
	return nil
}
