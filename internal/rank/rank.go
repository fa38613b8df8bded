// Package rank orders chart tables and picks how much of them to quote.
package rank

import (
	"sort"
	"strings"

	"github.com/ademuri/chart-tools/internal/catalog"
)

// Row is one line of a chart table: a track, an artist or a label.
type Row struct {
	// Name is the track name, artist name or label name. Ties on every sort
	// key are broken on it, ascending.
	Name string
	// Artist and Label are only set on track rows.
	Artist string
	Label  string
	Counts catalog.Counts
}

// SortKey is one metric column of an ordering. Columns sort descending
// unless Ascending is set.
type SortKey struct {
	Metric    catalog.Metric
	Ascending bool
}

// ByMetrics returns descending keys for the given columns, in order.
func ByMetrics(metrics ...catalog.Metric) []SortKey {
	keys := make([]SortKey, len(metrics))
	for i, m := range metrics {
		keys[i] = SortKey{Metric: m}
	}
	return keys
}

// Rank returns a sorted copy of rows. The order is total and does not
// depend on the input order: after the keys, rows compare on Name, then
// Artist, then Label.
func Rank(rows []Row, keys []SortKey) []Row {
	out := make([]Row, len(rows))
	copy(out, rows)

	sort.SliceStable(out, func(i, j int) bool {
		return less(out[i], out[j], keys)
	})
	return out
}

func less(a, b Row, keys []SortKey) bool {
	for _, k := range keys {
		av, bv := a.Counts.Get(k.Metric), b.Counts.Get(k.Metric)
		if av == bv {
			continue
		}
		if k.Ascending {
			return av < bv
		}
		return av > bv
	}
	if c := strings.Compare(a.Name, b.Name); c != 0 {
		return c < 0
	}
	if c := strings.Compare(a.Artist, b.Artist); c != 0 {
		return c < 0
	}
	return a.Label < b.Label
}

// TrackRows turns tracks into chart rows, joining their artist and label
// lists for display.
func TrackRows(tracks []catalog.Track) []Row {
	rows := make([]Row, len(tracks))
	for i, t := range tracks {
		rows[i] = Row{
			Name:   t.Name,
			Artist: catalog.JoinField(t.Artists),
			Label:  catalog.JoinField(t.Labels),
			Counts: t.Counts.Clone(),
		}
	}
	return rows
}
