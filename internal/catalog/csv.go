package catalog

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"
)

const dateFormat = "2006-01-02"

var (
	ErrMissingReleaseDate = errors.New("missing release date")
	ErrUnsplittable       = errors.New("field has no usable tokens")
)

// DataShapeError reports a row that could not be read as-is. The row is still
// loaded, with the absent sentinel or a zero date in place of the bad field.
type DataShapeError struct {
	Row   int
	Field string
	Err   error
}

func (e *DataShapeError) Error() string {
	return fmt.Sprintf("row %d, %s: %v", e.Row, e.Field, e.Err)
}

func (e *DataShapeError) Unwrap() error {
	return e.Err
}

type LoadResult struct {
	Tracks   []Track
	Problems []*DataShapeError
}

// LoadFile reads a catalogue CSV export from disk.
func LoadFile(path string) (LoadResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return LoadResult{}, fmt.Errorf("opening catalogue: %w", err)
	}
	defer f.Close()

	return LoadCSV(f)
}

// LoadCSV reads a catalogue with a header row naming the columns Track_Name,
// Artist, Label, Release_Date and the identifier slots. Only Track_Name and
// Artist are required; missing identifier columns read as absent.
func LoadCSV(r io.Reader) (LoadResult, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return LoadResult{}, fmt.Errorf("reading header: %w", err)
	}
	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))] = i
	}
	for _, required := range []string{"Track_Name", "Artist"} {
		if _, ok := columns[required]; !ok {
			return LoadResult{}, fmt.Errorf("catalogue header is missing column %q", required)
		}
	}

	cell := func(record []string, name string) string {
		i, ok := columns[name]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	var result LoadResult
	for row := 0; ; row++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return LoadResult{}, fmt.Errorf("reading row %d: %w", row, err)
		}

		track := Track{
			Key:  row,
			Name: cell(record, "Track_Name"),
			IDs:  make(map[Slot]string),
		}

		rawArtist := cell(record, "Artist")
		track.Artists = SplitField(rawArtist)
		if rawArtist != "" && len(track.Artists) == 0 {
			result.Problems = append(result.Problems, &DataShapeError{Row: row, Field: "Artist", Err: ErrUnsplittable})
		}

		rawLabel := cell(record, "Label")
		track.Labels = SplitField(rawLabel)
		if rawLabel != "" && len(track.Labels) == 0 {
			result.Problems = append(result.Problems, &DataShapeError{Row: row, Field: "Label", Err: ErrUnsplittable})
		}

		date, err := parseReleaseDate(cell(record, "Release_Date"))
		if err != nil {
			result.Problems = append(result.Problems, &DataShapeError{Row: row, Field: "Release_Date", Err: err})
		}
		track.ReleaseDate = date

		for _, slot := range Slots {
			if v := cell(record, string(slot)); !IsAbsent(v) {
				track.IDs[slot] = v
			}
		}

		result.Tracks = append(result.Tracks, track)
	}

	return result, nil
}

// parseReleaseDate accepts yyyy-mm-dd, optionally followed by a time as
// spreadsheet exports write it.
func parseReleaseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, ErrMissingReleaseDate
	}
	if len(s) > len(dateFormat) {
		s = s[:len(dateFormat)]
	}
	t, err := time.Parse(dateFormat, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing release date %q: %w", s, err)
	}
	return t, nil
}
