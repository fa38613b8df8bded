// Package catalog holds the track records the chart pipeline works on and
// reads them from the catalogue spreadsheet export.
package catalog

import (
	"slices"
	"strings"
	"time"
)

// None is the sentinel category for an absent multi-valued field, and the
// fill value the spreadsheet uses for an absent identifier.
const None = "NONE"

// Metric names a metric column. The values double as sheet column names.
type Metric string

const (
	YouTubeViews    Metric = "YouTube_Views"
	Supports        Metric = "1001T_Supports"
	TracklistPlays  Metric = "1001T_TotPlays"
	SoundcloudPlays Metric = "Soundcloud_Plays"
)

// Metrics lists every metric column in export order.
var Metrics = []Metric{YouTubeViews, Supports, TracklistPlays, SoundcloudPlays}

// Counts maps a metric column to its value. A missing column reads as zero.
type Counts map[Metric]int64

func (c Counts) Get(m Metric) int64 {
	return c[m]
}

// Plus returns a new Counts holding c + o.
func (c Counts) Plus(o Counts) Counts {
	out := c.Clone()
	for m, v := range o {
		out[m] += v
	}
	return out
}

func (c Counts) Clone() Counts {
	out := make(Counts, len(c))
	for m, v := range c {
		out[m] = v
	}
	return out
}

// Slot names an identifier column of the catalogue.
type Slot string

const (
	YouTubeID1      Slot = "YouTube_ID1"
	YouTubeID2      Slot = "YouTube_ID2"
	YouTubeID3      Slot = "YouTube_ID3"
	YouTubeID4      Slot = "YouTube_ID4"
	TracklistsID    Slot = "1001Tracklists_ID"
	SoundcloudLink1 Slot = "Soundcloud_Link1"
	SoundcloudLink2 Slot = "Soundcloud_Link2"
)

// Slots lists every identifier column in catalogue order.
var Slots = []Slot{
	YouTubeID1, YouTubeID2, YouTubeID3, YouTubeID4,
	TracklistsID,
	SoundcloudLink1, SoundcloudLink2,
}

// Track is one catalogue row.
type Track struct {
	// Key is the zero-based catalogue row. Joins between tables use it.
	Key         int
	Name        string
	Artists     []string
	Labels      []string
	ReleaseDate time.Time
	IDs         map[Slot]string
	Counts      Counts
}

// ID returns the identifier held in a slot, or false when the slot is absent.
func (t Track) ID(s Slot) (string, bool) {
	v := t.IDs[s]
	if IsAbsent(v) {
		return "", false
	}
	return strings.TrimSpace(v), true
}

// HasReleaseDate reports whether the catalogue row carried a release date.
func (t Track) HasReleaseDate() bool {
	return !t.ReleaseDate.IsZero()
}

// Clone returns a deep copy, so transforms never share slices with their input.
func (t Track) Clone() Track {
	out := t
	out.Artists = slices.Clone(t.Artists)
	out.Labels = slices.Clone(t.Labels)
	if t.IDs != nil {
		out.IDs = make(map[Slot]string, len(t.IDs))
		for k, v := range t.IDs {
			out.IDs[k] = v
		}
	}
	if t.Counts != nil {
		out.Counts = t.Counts.Clone()
	}
	return out
}

// WithCounts returns a copy of t with the given columns set, keeping the others.
func (t Track) WithCounts(c Counts) Track {
	out := t.Clone()
	if out.Counts == nil {
		out.Counts = make(Counts, len(c))
	}
	for m, v := range c {
		out.Counts[m] = v
	}
	return out
}

// IsAbsent reports whether an identifier cell holds the absent placeholder.
func IsAbsent(v string) bool {
	v = strings.TrimSpace(v)
	return v == "" || v == None
}

// SplitField splits a comma-separated multi-valued cell into its tokens.
// Blank tokens are dropped.
func SplitField(s string) []string {
	var out []string
	for _, tok := range strings.Split(s, ",") {
		tok = strings.TrimSpace(tok)
		if tok != "" {
			out = append(out, tok)
		}
	}
	return out
}

// JoinField is the inverse of SplitField.
func JoinField(tokens []string) string {
	return strings.Join(tokens, ", ")
}
