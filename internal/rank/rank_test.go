package rank

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ademuri/chart-tools/internal/catalog"
)

func views(name string, n int64) Row {
	return Row{Name: name, Counts: catalog.Counts{catalog.YouTubeViews: n}}
}

func names(rows []Row) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r.Name
	}
	return out
}

func TestRankMetricThenName(t *testing.T) {
	rows := []Row{views("B", 5), views("A", 5), views("C", 9)}

	got := Rank(rows, ByMetrics(catalog.YouTubeViews))
	assert.Equal(t, []string{"C", "A", "B"}, names(got))
	// Input untouched.
	assert.Equal(t, []string{"B", "A", "C"}, names(rows))
}

func TestRankSecondaryKey(t *testing.T) {
	row := func(name string, supports, plays int64) Row {
		return Row{Name: name, Counts: catalog.Counts{
			catalog.Supports:       supports,
			catalog.TracklistPlays: plays,
		}}
	}
	rows := []Row{row("X", 3, 1), row("Y", 3, 7), row("Z", 4, 0), row("W", 3, 7)}

	got := Rank(rows, Tracklists.Keys())
	assert.Equal(t, []string{"Z", "W", "Y", "X"}, names(got))
}

func TestRankAscendingKey(t *testing.T) {
	rows := []Row{views("A", 2), views("B", 1)}
	got := Rank(rows, []SortKey{{Metric: catalog.YouTubeViews, Ascending: true}})
	assert.Equal(t, []string{"B", "A"}, names(got))
}

func TestRankIndependentOfInputOrder(t *testing.T) {
	rows := []Row{
		views("a", 1), views("b", 1), views("c", 4), views("d", 0),
		views("e", 4), views("f", 2), views("g", 1),
		{Name: "a", Artist: "z", Counts: catalog.Counts{catalog.YouTubeViews: 1}},
	}
	want := Rank(rows, YouTube.Keys())

	r := rand.New(rand.NewSource(1))
	for i := 0; i < 20; i++ {
		shuffled := make([]Row, len(rows))
		copy(shuffled, rows)
		r.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })
		assert.Equal(t, want, Rank(shuffled, YouTube.Keys()))
	}
}

func TestRankEmpty(t *testing.T) {
	assert.Empty(t, Rank(nil, YouTube.Keys()))
}

func TestTrackRows(t *testing.T) {
	tracks := []catalog.Track{{
		Name:    "Song",
		Artists: []string{"A", "B"},
		Labels:  []string{"L"},
		Counts:  catalog.Counts{catalog.YouTubeViews: 4},
	}}
	rows := TrackRows(tracks)
	assert.Equal(t, []Row{{Name: "Song", Artist: "A, B", Label: "L", Counts: catalog.Counts{catalog.YouTubeViews: 4}}}, rows)

	rows[0].Counts[catalog.YouTubeViews] = 9
	assert.Equal(t, int64(4), tracks[0].Counts[catalog.YouTubeViews])
}

func TestTopCutoff(t *testing.T) {
	m := []catalog.Metric{catalog.YouTubeViews}
	tests := []struct {
		name   string
		values []int64
		groups int
		want   int
	}{
		{"distinct", []int64{9, 8, 7, 6, 5}, 3, 3},
		{"tie on top", []int64{9, 9, 8, 7, 6}, 3, 4},
		{"ties everywhere", []int64{9, 9, 8, 8, 7, 7, 6}, 3, 6},
		{"fewer groups than asked", []int64{5, 5, 4}, 3, 3},
		{"single group", []int64{1, 1, 1}, 3, 3},
		{"zero groups", []int64{1, 2}, 0, 0},
		{"empty", nil, 3, 0},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var rows []Row
			for i, v := range tc.values {
				rows = append(rows, views(string(rune('a'+i)), v))
			}
			assert.Equal(t, tc.want, TopCutoff(rows, m, tc.groups))
		})
	}
}

func TestTopCutoffTuples(t *testing.T) {
	row := func(supports, plays int64) Row {
		return Row{Counts: catalog.Counts{catalog.Supports: supports, catalog.TracklistPlays: plays}}
	}
	rows := []Row{row(5, 1), row(5, 2), row(5, 2), row(4, 9), row(3, 3)}

	// (5,2) x2, (5,1), (4,9).
	assert.Equal(t, 4, TopCutoff(rows, Tracklists.Metrics, 3))
}

func TestTopCutoffNegativeValues(t *testing.T) {
	rows := []Row{views("a", -1), views("b", 2), views("c", 0)}
	assert.Equal(t, 1, TopCutoff(rows, []catalog.Metric{catalog.YouTubeViews}, 1))
	assert.Equal(t, 2, TopCutoff(rows, []catalog.Metric{catalog.YouTubeViews}, 2))
}
