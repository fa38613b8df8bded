// Package scrape fetches public pages for the metric sources that have no
// API and walks the parsed HTML.
package scrape

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"golang.org/x/net/html"

	"github.com/ademuri/chart-tools/internal/fanout"
)

const (
	defaultTimeout = 30 * time.Second
	userAgent      = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
)

// ErrNotFound is returned for pages that do not exist. It is not a
// retrieval failure: retrying or rotating will not bring the page back.
var ErrNotFound = errors.New("page not found")

// Client is a browser-like HTTP client shared by the scrapers.
type Client struct {
	HTTP   *http.Client
	logger *slog.Logger
}

func New(logger *slog.Logger) *Client {
	return &Client{
		HTTP:   &http.Client{Timeout: defaultTimeout},
		logger: logger,
	}
}

// Get fetches a page and parses it. Transport failures and 5xx answers
// become network retrieval errors; 403 and 429 become blocks.
func (c *Client) Get(ctx context.Context, source, id, pageURL string) (*html.Node, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	req.Header.Set("User-Agent", userAgent)

	c.logger.Debug("scrape request", "source", source, "url", pageURL)

	resp, err := c.HTTP.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, nil, ctx.Err()
		}
		return nil, nil, fanout.NetworkFailure(source, id, fmt.Errorf("execute request: %w", err))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, fanout.NetworkFailure(source, id, fmt.Errorf("read response: %w", err))
	}

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode == http.StatusNotFound:
		return nil, nil, fmt.Errorf("%s [%s]: %w", source, id, ErrNotFound)
	case resp.StatusCode == http.StatusForbidden, resp.StatusCode == http.StatusTooManyRequests:
		return nil, nil, fanout.Blocked(source, id, fmt.Errorf("status %d", resp.StatusCode))
	case resp.StatusCode >= 500:
		return nil, nil, fanout.NetworkFailure(source, id, fmt.Errorf("status %d", resp.StatusCode))
	default:
		return nil, nil, fmt.Errorf("%s [%s]: unexpected status %d", source, id, resp.StatusCode)
	}

	doc, err := html.Parse(bytes.NewReader(body))
	if err != nil {
		return nil, nil, fmt.Errorf("%s [%s]: parse HTML: %w", source, id, err)
	}
	return doc, body, nil
}

// HTML helpers

func IsElement(n *html.Node, tag string) bool {
	return n.Type == html.ElementNode && n.Data == tag
}

func HasClass(n *html.Node, class string) bool {
	for _, c := range strings.Fields(Attr(n, "class")) {
		if c == class {
			return true
		}
	}
	return false
}

func Attr(n *html.Node, key string) string {
	for _, attr := range n.Attr {
		if attr.Key == key {
			return attr.Val
		}
	}
	return ""
}

// Find returns the first node, depth first, that matches.
func Find(n *html.Node, match func(*html.Node) bool) *html.Node {
	if match(n) {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := Find(c, match); found != nil {
			return found
		}
	}
	return nil
}

// Text returns the concatenated, trimmed text under n.
func Text(n *html.Node) string {
	var buf strings.Builder
	var extract func(*html.Node)
	extract = func(node *html.Node) {
		if node.Type == html.TextNode {
			buf.WriteString(node.Data)
		}
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			extract(c)
		}
	}
	extract(n)
	return strings.TrimSpace(buf.String())
}

// Digits parses the first run of digits in s, ignoring thousands
// separators: "1,234 plays" reads as 1234.
func Digits(s string) (int64, bool) {
	var v int64
	seen := false
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
			v = v*10 + int64(r-'0')
			seen = true
		case r == ',' && seen:
		case seen:
			return v, true
		}
	}
	return v, seen
}
