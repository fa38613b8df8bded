package window

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ademuri/chart-tools/internal/catalog"
)

func day(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := ParseDay(s)
	require.NoError(t, err)
	return d
}

func released(t *testing.T, name, s string) catalog.Track {
	tr := catalog.Track{Name: name}
	if s != "" {
		tr.ReleaseDate = day(t, s)
	}
	return tr
}

func trackNames(tracks []catalog.Track) []string {
	var out []string
	for _, tr := range tracks {
		out = append(out, tr.Name)
	}
	return out
}

func TestPartition(t *testing.T) {
	tracks := []catalog.Track{
		released(t, "a", "2021-01-20"),
		released(t, "b", "2021-02-01"),
		released(t, "c", "2021-01-18"),
		released(t, "d", "2021-01-24"),
		released(t, "e", ""),
	}
	week, err := Week(3, day(t, "2021-01-18"), day(t, "2021-01-24"))
	require.NoError(t, err)

	got := Partition(tracks, []Window{AllTime(), week, Month(2021, time.January), Month(2021, time.February)})

	assert.Equal(t, []string{"a", "b", "c", "d", "e"}, trackNames(got["All Time"]))
	assert.Equal(t, []string{"a", "c", "d"}, trackNames(got["Week 3"]))
	assert.Equal(t, []string{"a", "c", "d"}, trackNames(got["Month 1"]))
	assert.Equal(t, []string{"b"}, trackNames(got["Month 2"]))
}

func TestContainsIgnoresTimeOfDay(t *testing.T) {
	w := Month(2021, time.January)
	tr := catalog.Track{ReleaseDate: time.Date(2021, 1, 31, 23, 59, 0, 0, time.UTC)}
	assert.True(t, w.Contains(tr))
}

func TestMonthLeapYear(t *testing.T) {
	feb := Month(2021, time.February)
	assert.Equal(t, 28, feb.End.Day())

	leap := Month(2024, time.February)
	assert.Equal(t, 29, leap.End.Day())
	assert.True(t, leap.Contains(released(t, "x", "2024-02-29")))
	assert.False(t, leap.Contains(released(t, "x", "2024-03-01")))

	assert.Equal(t, 31, Month(2021, time.December).End.Day())
	assert.Equal(t, 2021, Month(2021, time.December).End.Year())
}

func TestMonths(t *testing.T) {
	ms := Months(2021, 3)
	require.Len(t, ms, 3)
	assert.Equal(t, "Month 1", ms[0].Label())
	assert.Equal(t, "Month 3", ms[2].Label())
	assert.Len(t, Months(2021, 14), 12)
	assert.Empty(t, Months(2021, 0))
}

func TestWeekRejectsInvertedRange(t *testing.T) {
	_, err := Week(1, day(t, "2021-01-24"), day(t, "2021-01-18"))
	assert.Error(t, err)
}

func TestUndatedOnlyInAllTime(t *testing.T) {
	tr := released(t, "x", "")
	assert.True(t, AllTime().Contains(tr))
	assert.False(t, Month(2021, time.January).Contains(tr))
}

func TestParse(t *testing.T) {
	d, err := Parse("2021")
	require.NoError(t, err)
	assert.True(t, d.Year)

	d, err = Parse("2021-03")
	require.NoError(t, err)
	assert.True(t, d.Month)

	_, err = Parse("2021-01-0123")
	assert.ErrorContains(t, err, "Invalid format")

	_, err = ParseDay("2021-01")
	assert.Error(t, err)
}

func TestImplicitRange(t *testing.T) {
	tests := []struct {
		in, start, end string
	}{
		{"2021", "2021-01-01", "2021-12-31"},
		{"2021-02", "2021-02-01", "2021-02-28"},
		{"2021-01-18", "2021-01-18", "2021-01-18"},
	}
	for _, tc := range tests {
		start, end, err := ImplicitRange(tc.in)
		require.NoError(t, err)
		assert.Equal(t, tc.start, start.Format(DayLayout), tc.in)
		assert.Equal(t, tc.end, end.Format(DayLayout), tc.in)
	}
}
