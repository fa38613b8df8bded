// Package window splits the catalogue into the reporting windows that each
// get their own workbook: all time, one week and the months of the year.
package window

import (
	"fmt"
	"time"

	"github.com/ademuri/chart-tools/internal/catalog"
)

type Kind int

const (
	KindAllTime Kind = iota
	KindWeek
	KindMonth
)

func (k Kind) String() string {
	switch k {
	case KindAllTime:
		return "all time"
	case KindWeek:
		return "week"
	case KindMonth:
		return "month"
	}
	return "unknown"
}

// Window is a closed range of release days. Start and End are midnight UTC
// and both days are included. The all-time window has zero bounds.
type Window struct {
	Kind   Kind
	Number int
	Start  time.Time
	End    time.Time
}

// AllTime contains every track, dated or not.
func AllTime() Window {
	return Window{Kind: KindAllTime}
}

// Week is the n-th reporting week of the year, from start to end inclusive.
// The caller owns the week numbering.
func Week(n int, start, end time.Time) (Window, error) {
	start, end = Day(start), Day(end)
	if end.Before(start) {
		return Window{}, fmt.Errorf("week %d ends %s before it starts %s", n, end.Format(DayLayout), start.Format(DayLayout))
	}
	return Window{Kind: KindWeek, Number: n, Start: start, End: end}, nil
}

// Month spans the calendar month, leap years included.
func Month(year int, month time.Month) Window {
	return Window{
		Kind:   KindMonth,
		Number: int(month),
		Start:  time.Date(year, month, 1, 0, 0, 0, 0, time.UTC),
		End:    time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC),
	}
}

// Months returns months 1 through `through` of year.
func Months(year, through int) []Window {
	if through > 12 {
		through = 12
	}
	var out []Window
	for m := 1; m <= through; m++ {
		out = append(out, Month(year, time.Month(m)))
	}
	return out
}

// Label names the window: "All Time", "Week 3", "Month 1".
func (w Window) Label() string {
	switch w.Kind {
	case KindWeek:
		return fmt.Sprintf("Week %d", w.Number)
	case KindMonth:
		return fmt.Sprintf("Month %d", w.Number)
	}
	return "All Time"
}

func (w Window) String() string {
	if w.Kind == KindAllTime {
		return w.Label()
	}
	return fmt.Sprintf("%s (%s to %s)", w.Label(), w.Start.Format(DayLayout), w.End.Format(DayLayout))
}

// Contains reports whether the track belongs in the window. Undated tracks
// only belong to all time.
func (w Window) Contains(t catalog.Track) bool {
	if w.Kind == KindAllTime {
		return true
	}
	if !t.HasReleaseDate() {
		return false
	}
	d := Day(t.ReleaseDate)
	return !d.Before(w.Start) && !d.After(w.End)
}

// Filter returns the tracks in the window, in input order.
func (w Window) Filter(tracks []catalog.Track) []catalog.Track {
	if w.Kind == KindAllTime {
		return tracks
	}
	var out []catalog.Track
	for _, t := range tracks {
		if w.Contains(t) {
			out = append(out, t)
		}
	}
	return out
}

// Partition filters tracks once per window, keyed by Label. Windows may
// overlap: a track can land in several of them.
func Partition(tracks []catalog.Track, windows []Window) map[string][]catalog.Track {
	out := make(map[string][]catalog.Track, len(windows))
	for _, w := range windows {
		out[w.Label()] = w.Filter(tracks)
	}
	return out
}

// Day truncates t to midnight UTC of its calendar day.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
