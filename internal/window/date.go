package window

import (
	"fmt"
	"regexp"
	"time"
)

const DayLayout = "2006-01-02"

var (
	yearPattern  = regexp.MustCompile(`^\d{4}$`)
	monthPattern = regexp.MustCompile(`^\d{4}-\d{2}$`)
	dayPattern   = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
)

// ParsedDate is a date string along with the precision it was given in.
type ParsedDate struct {
	Date  time.Time
	Year  bool
	Month bool
	Day   bool
}

// Parse reads "2021", "2021-01" or "2021-01-18".
func Parse(ds string) (date ParsedDate, err error) {
	switch {
	case yearPattern.MatchString(ds):
		date.Date, err = time.Parse("2006", ds)
		if err != nil {
			err = fmt.Errorf("Parsing datestring as year: %w", err)
			return
		}
		date.Year = true

	case monthPattern.MatchString(ds):
		date.Date, err = time.Parse("2006-01", ds)
		if err != nil {
			err = fmt.Errorf("Parsing datestring as month: %w", err)
			return
		}
		date.Month = true

	case dayPattern.MatchString(ds):
		date.Date, err = time.Parse(DayLayout, ds)
		if err != nil {
			err = fmt.Errorf("Parsing datestring as day: %w", err)
			return
		}
		date.Day = true

	default:
		err = fmt.Errorf("Invalid format: %q", ds)
	}
	return
}

// ParseDay reads a "2021-01-18" date.
func ParseDay(ds string) (time.Time, error) {
	date, err := Parse(ds)
	if err != nil {
		return time.Time{}, err
	}
	if !date.Day {
		return time.Time{}, fmt.Errorf("Invalid format: %q, want YYYY-MM-DD", ds)
	}
	return date.Date, nil
}

// ImplicitRange returns the inclusive first and last day covered by a date
// string: a whole year, a whole month or a single day.
func ImplicitRange(ds string) (start, end time.Time, err error) {
	date, err := Parse(ds)
	if err != nil {
		return
	}

	start = date.Date
	switch {
	case date.Year:
		end = start.AddDate(1, 0, -1)
	case date.Month:
		end = start.AddDate(0, 1, -1)
	default:
		end = start
	}
	return
}
