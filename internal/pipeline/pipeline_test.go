package pipeline

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ademuri/chart-tools/internal/alias"
	"github.com/ademuri/chart-tools/internal/catalog"
	"github.com/ademuri/chart-tools/internal/fanout"
	"github.com/ademuri/chart-tools/internal/logger"
	"github.com/ademuri/chart-tools/internal/rank"
	"github.com/ademuri/chart-tools/internal/store"
	"github.com/ademuri/chart-tools/internal/window"
)

type staticBatch map[string]int64

func (s staticBatch) MaxBatch() int { return 50 }

func (s staticBatch) FetchBatch(_ context.Context, ids []string) (map[string]catalog.Counts, error) {
	out := make(map[string]catalog.Counts)
	for _, id := range ids {
		if v, ok := s[id]; ok {
			out[id] = catalog.Counts{catalog.YouTubeViews: v}
		}
	}
	return out, nil
}

type failingItem struct{}

func (failingItem) FetchOne(_ context.Context, id string) (catalog.Counts, error) {
	return nil, fanout.Blocked("test", id, errors.New("blocked"))
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func testTracks() []catalog.Track {
	return []catalog.Track{
		{
			Key: 0, Name: "Alpha", Artists: []string{"Dj A"}, Labels: []string{"L1"},
			ReleaseDate: day(2021, 1, 20),
			IDs:         map[catalog.Slot]string{catalog.YouTubeID1: "y1", catalog.YouTubeID2: "y2"},
		},
		{
			Key: 1, Name: "Beta", Artists: []string{"B"},
			ReleaseDate: day(2021, 2, 1),
			IDs:         map[catalog.Slot]string{catalog.YouTubeID1: "y3"},
		},
		{
			Key: 2, Name: "Gamma", Artists: []string{"B", "Dj A"}, Labels: []string{"L1", "L2"},
			IDs: map[catalog.Slot]string{catalog.YouTubeID1: catalog.None},
		},
	}
}

func youtubeSource() fanout.Source {
	return fanout.Source{
		Name:    "YouTube",
		Slots:   []catalog.Slot{catalog.YouTubeID1, catalog.YouTubeID2},
		Metrics: []catalog.Metric{catalog.YouTubeViews},
		Batch:   staticBatch{"y1": 10, "y2": 20, "y3": 7},
	}
}

func TestRun(t *testing.T) {
	dir := t.TempDir()
	resolver := alias.New(alias.Table{Strong: map[string]alias.Names{"Dj A": {"A"}}})
	reducer := fanout.NewReducer(fanout.RetryPolicy{}, 0, logger.Discard())
	p := New(resolver, reducer, []fanout.Source{youtubeSource()}, logger.Discard())

	week, err := window.Week(3, day(2021, 1, 18), day(2021, 1, 24))
	require.NoError(t, err)
	cfg := Config{OutDir: dir, Year: 2021, Week: week, Months: window.Months(2021, 2)}

	report, err := p.Run(context.Background(), testTracks(), cfg)
	require.NoError(t, err)
	require.Len(t, report.Sources, 1)
	assert.Equal(t, 3, report.Sources[0].Identifiers)

	require.Len(t, report.Exports, 4)
	assert.Equal(t, []int{3, 1, 1, 1}, []int{
		report.Exports[0].Tracks, report.Exports[1].Tracks, report.Exports[2].Tracks, report.Exports[3].Tracks,
	})
	for _, e := range report.Exports {
		_, err := os.Stat(e.Path)
		assert.NoError(t, err, e.Path)
	}

	all, err := store.Open(store.WorkbookPath(dir, 2021, window.AllTime()))
	require.NoError(t, err)
	defer all.Close()

	tracks, err := all.ReadSheet(store.Track, rank.YouTube)
	require.NoError(t, err)
	require.Len(t, tracks, 3)
	assert.Equal(t, "Alpha", tracks[0].Name)
	assert.Equal(t, "Dj A, A", tracks[0].Artist)
	assert.Equal(t, int64(30), tracks[0].Counts[catalog.YouTubeViews])
	assert.Equal(t, "Gamma", tracks[2].Name)

	artists, err := all.ReadSheet(store.Artist, rank.YouTube)
	require.NoError(t, err)
	got := map[string]int64{}
	for _, r := range artists {
		got[r.Name] = r.Counts[catalog.YouTubeViews]
	}
	assert.Equal(t, map[string]int64{"Dj A": 30, "A": 30, "B": 7}, got)

	labels, err := all.ReadSheet(store.Label, rank.YouTube)
	require.NoError(t, err)
	for _, r := range labels {
		assert.NotEqual(t, catalog.None, r.Name)
	}
}

func TestRunStopsOnSourceFailure(t *testing.T) {
	dir := t.TempDir()
	reducer := fanout.NewReducer(fanout.RetryPolicy{Delay: time.Millisecond}, 0, logger.Discard())
	broken := fanout.Source{
		Name:    "1001Tracklists",
		Slots:   []catalog.Slot{catalog.TracklistsID},
		Metrics: []catalog.Metric{catalog.Supports},
		Item:    failingItem{},
	}
	p := New(alias.New(alias.Table{}), reducer, []fanout.Source{youtubeSource(), broken}, logger.Discard())

	tracks := testTracks()
	tracks[0].IDs[catalog.TracklistsID] = "t1"
	week, err := window.Week(3, day(2021, 1, 18), day(2021, 1, 24))
	require.NoError(t, err)

	report, err := p.Run(context.Background(), tracks, Config{OutDir: dir, Year: 2021, Week: week})
	require.Error(t, err)
	assert.ErrorIs(t, err, fanout.ErrBlocked)
	assert.Len(t, report.Sources, 1)
	assert.Empty(t, report.Exports)

	_, err = os.Stat(store.WorkbookPath(dir, 2021, window.AllTime()))
	assert.True(t, os.IsNotExist(err))
}

func TestSheets(t *testing.T) {
	tracks := []catalog.Track{
		{Name: "b", Artists: []string{"X"}, Counts: catalog.Counts{catalog.YouTubeViews: 5, catalog.Supports: 1}},
		{Name: "a", Artists: []string{"X"}, Counts: catalog.Counts{catalog.YouTubeViews: 5, catalog.Supports: 9}},
	}

	sheets := Sheets(tracks)
	require.Len(t, sheets, 9)
	assert.Equal(t, "By_Track_YouTube", sheets[0].Name())
	assert.Equal(t, "a", sheets[0].Rows[0].Name)
	assert.Equal(t, "By_Track_1001Tracklists", sheets[1].Name())
	assert.Equal(t, "a", sheets[1].Rows[0].Name)
	assert.Equal(t, "By_Label_Soundcloud", sheets[8].Name())
	assert.Empty(t, sheets[8].Rows)
}
