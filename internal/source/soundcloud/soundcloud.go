// Package soundcloud reads play counts from public SoundCloud track pages.
package soundcloud

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/net/html"

	"github.com/ademuri/chart-tools/internal/catalog"
	"github.com/ademuri/chart-tools/internal/fanout"
	"github.com/ademuri/chart-tools/internal/source/scrape"
)

const (
	Name           = "Soundcloud"
	DefaultBaseURL = "https://soundcloud.com"

	playCountProperty = "soundcloud:play_count"
)

// Fetcher is a fanout.ItemFetcher over track pages. Identifiers are either
// full links or "user/track" paths.
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

func (f *Fetcher) Source(skip []string) fanout.Source {
	return fanout.Source{
		Name:    Name,
		Slots:   []catalog.Slot{catalog.SoundcloudLink1, catalog.SoundcloudLink2},
		Metrics: []catalog.Metric{catalog.SoundcloudPlays},
		Skip:    skip,
		Item:    f,
	}
}

func (f *Fetcher) FetchOne(ctx context.Context, id string) (catalog.Counts, error) {
	doc, _, err := f.client.Get(ctx, Name, id, f.pageURL(id))
	if err != nil {
		return nil, err
	}
	plays, err := parsePlayCount(doc)
	if err != nil {
		return nil, fmt.Errorf("%s [%s]: %w", Name, id, err)
	}
	return catalog.Counts{catalog.SoundcloudPlays: plays}, nil
}

func (f *Fetcher) pageURL(id string) string {
	path := id
	for _, prefix := range []string{"https://soundcloud.com", "http://soundcloud.com", "https://www.soundcloud.com"} {
		path = strings.TrimPrefix(path, prefix)
	}
	return f.baseURL + "/" + strings.Trim(path, "/")
}

func parsePlayCount(doc *html.Node) (int64, error) {
	meta := scrape.Find(doc, func(n *html.Node) bool {
		return scrape.IsElement(n, "meta") && scrape.Attr(n, "property") == playCountProperty
	})
	if meta == nil {
		return 0, fmt.Errorf("no %s meta tag", playCountProperty)
	}
	v, ok := scrape.Digits(scrape.Attr(meta, "content"))
	if !ok {
		return 0, fmt.Errorf("bad play count %q", scrape.Attr(meta, "content"))
	}
	return v, nil
}
