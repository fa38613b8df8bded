package rank

import "github.com/ademuri/chart-tools/internal/catalog"

// Profile is how one source's charts are ordered.
type Profile struct {
	// Source names the sheet suffix and the notes heading.
	Source  string
	Metrics []catalog.Metric
}

// Keys returns the profile's metrics as descending sort keys.
func (p Profile) Keys() []SortKey {
	return ByMetrics(p.Metrics...)
}

var (
	YouTube = Profile{
		Source:  "YouTube",
		Metrics: []catalog.Metric{catalog.YouTubeViews},
	}
	Tracklists = Profile{
		Source:  "1001Tracklists",
		Metrics: []catalog.Metric{catalog.Supports, catalog.TracklistPlays},
	}
	SoundCloud = Profile{
		Source:  "Soundcloud",
		Metrics: []catalog.Metric{catalog.SoundcloudPlays},
	}
)

// Profiles lists every source profile in export order.
var Profiles = []Profile{YouTube, Tracklists, SoundCloud}
