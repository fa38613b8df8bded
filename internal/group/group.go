// Package group rolls track metrics up to artist and label totals.
package group

import (
	"sort"

	"github.com/ademuri/chart-tools/internal/catalog"
	"github.com/ademuri/chart-tools/internal/rank"
)

// Field selects the multi-valued track field to group on.
type Field int

const (
	Artist Field = iota
	Label
)

func (f Field) String() string {
	switch f {
	case Artist:
		return "artist"
	case Label:
		return "label"
	}
	return "unknown"
}

func (f Field) values(t catalog.Track) []string {
	switch f {
	case Artist:
		return t.Artists
	case Label:
		return t.Labels
	}
	return nil
}

// Totals maps a group name to its summed metrics.
type Totals map[string]catalog.Counts

// By sums metrics over tracks for every distinct value of field. A track
// with several artists or labels credits its full row to each of them, so
// totals across groups can exceed the track total. Tracks with an empty
// field fall under catalog.None; the None label is then dropped, while the
// None artist is kept. Nil metrics sums every metric in catalog.Metrics.
func By(tracks []catalog.Track, field Field, metrics []catalog.Metric) Totals {
	if metrics == nil {
		metrics = catalog.Metrics
	}

	totals := make(Totals)
	for _, t := range tracks {
		keys := dedupe(field.values(t))
		if len(keys) == 0 {
			keys = []string{catalog.None}
		}
		for _, k := range keys {
			sum, ok := totals[k]
			if !ok {
				sum = make(catalog.Counts, len(metrics))
				for _, m := range metrics {
					sum[m] = 0
				}
				totals[k] = sum
			}
			for _, m := range metrics {
				sum[m] += t.Counts.Get(m)
			}
		}
	}

	if field == Label {
		delete(totals, catalog.None)
	}
	return totals
}

func dedupe(values []string) []string {
	seen := make(map[string]bool, len(values))
	out := values[:0:0]
	for _, v := range values {
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}

// Names returns the group names in ascending order.
func (t Totals) Names() []string {
	names := make([]string, 0, len(t))
	for n := range t {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Rows converts the totals to chart rows, ordered by name.
func (t Totals) Rows() []rank.Row {
	rows := make([]rank.Row, 0, len(t))
	for _, n := range t.Names() {
		rows = append(rows, rank.Row{Name: n, Counts: t[n].Clone()})
	}
	return rows
}
