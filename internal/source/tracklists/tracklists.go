// Package tracklists reads DJ support counts from 1001Tracklists track pages.
package tracklists

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/net/html"

	"github.com/ademuri/chart-tools/internal/catalog"
	"github.com/ademuri/chart-tools/internal/fanout"
	"github.com/ademuri/chart-tools/internal/source/scrape"
)

const (
	Name           = "1001Tracklists"
	DefaultBaseURL = "https://www.1001tracklists.com"

	supportsTitle = "total unique DJ supports"
	playsPrefix   = "Total Tracklist Plays:"
	blockedText   = "Your IP has been blocked due to abnormal use."
)

// Fetcher is a fanout.ItemFetcher over track pages.
type Fetcher struct {
	client  *scrape.Client
	baseURL string
}

func New(client *scrape.Client, baseURL string) *Fetcher {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Fetcher{client: client, baseURL: strings.TrimSuffix(baseURL, "/")}
}

// Source wires the fetcher into the reducer.
func (f *Fetcher) Source(skip []string) fanout.Source {
	return fanout.Source{
		Name:    Name,
		Slots:   []catalog.Slot{catalog.TracklistsID},
		Metrics: []catalog.Metric{catalog.Supports, catalog.TracklistPlays},
		Skip:    skip,
		Item:    f,
	}
}

func (f *Fetcher) FetchOne(ctx context.Context, id string) (catalog.Counts, error) {
	doc, body, err := f.client.Get(ctx, Name, id, fmt.Sprintf("%s/track/%s/", f.baseURL, id))
	if err != nil {
		return nil, err
	}
	if bytes.Contains(body, []byte(blockedText)) {
		return nil, fanout.Blocked(Name, id, errors.New("IP blocked"))
	}
	supports, plays := parseTrackPage(doc)
	return catalog.Counts{
		catalog.Supports:       supports,
		catalog.TracklistPlays: plays,
	}, nil
}

// parseTrackPage reads the support badge and the play count. A page with
// no badge has no supports; a page with no play row counts one play.
func parseTrackPage(doc *html.Node) (supports, plays int64) {
	plays = 1

	badge := scrape.Find(doc, func(n *html.Node) bool {
		return scrape.IsElement(n, "span") && scrape.HasClass(n, "badge") &&
			scrape.Attr(n, "title") == supportsTitle
	})
	if badge != nil {
		if v, ok := scrape.Digits(scrape.Text(badge)); ok {
			supports = v
		}
	}

	cell := scrape.Find(doc, func(n *html.Node) bool {
		return scrape.IsElement(n, "td") && scrape.Attr(n, "colspan") == "2" &&
			strings.HasPrefix(scrape.Text(n), playsPrefix)
	})
	if cell != nil {
		if v, ok := scrape.Digits(strings.TrimPrefix(scrape.Text(cell), playsPrefix)); ok {
			plays = v
		}
	}
	return supports, plays
}
