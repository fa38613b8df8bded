// Package youtube reads video view counts from the YouTube Data API v3.
package youtube

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/ademuri/chart-tools/internal/catalog"
	"github.com/ademuri/chart-tools/internal/fanout"
)

const (
	Name           = "YouTube"
	DefaultBaseURL = "https://www.googleapis.com/youtube/v3"

	// MaxIDs is the most ids videos.list accepts per call.
	MaxIDs = 50

	defaultTimeout = 30 * time.Second
)

// ErrNoAPIKey is returned when the client is built without a key.
var ErrNoAPIKey = errors.New("youtube api key not set")

// Client is a fanout.BatchFetcher over videos.list.
type Client struct {
	HTTP    *http.Client
	apiKey  string
	baseURL string
	logger  *slog.Logger
}

func New(apiKey, baseURL string, logger *slog.Logger) (*Client, error) {
	if apiKey == "" {
		return nil, ErrNoAPIKey
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		HTTP:    &http.Client{Timeout: defaultTimeout},
		apiKey:  apiKey,
		baseURL: strings.TrimSuffix(baseURL, "/"),
		logger:  logger,
	}, nil
}

func (c *Client) Source(skip []string) fanout.Source {
	return fanout.Source{
		Name:    Name,
		Slots:   []catalog.Slot{catalog.YouTubeID1, catalog.YouTubeID2, catalog.YouTubeID3, catalog.YouTubeID4},
		Metrics: []catalog.Metric{catalog.YouTubeViews},
		Skip:    skip,
		Batch:   c,
	}
}

func (c *Client) MaxBatch() int {
	return MaxIDs
}

type videoListResponse struct {
	Items []struct {
		ID         string `json:"id"`
		Statistics struct {
			ViewCount string `json:"viewCount"`
		} `json:"statistics"`
	} `json:"items"`
}

type apiErrorResponse struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Errors  []struct {
			Reason string `json:"reason"`
		} `json:"errors"`
	} `json:"error"`
}

// FetchBatch returns the view counts of the given videos. Videos the API
// does not return (deleted, private) are left out.
func (c *Client) FetchBatch(ctx context.Context, ids []string) (map[string]catalog.Counts, error) {
	out := make(map[string]catalog.Counts, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	if len(ids) > MaxIDs {
		return nil, fmt.Errorf("%d ids in one videos.list call, max %d", len(ids), MaxIDs)
	}

	query := url.Values{}
	query.Set("part", "statistics")
	query.Set("id", strings.Join(ids, ","))
	query.Set("maxResults", strconv.Itoa(MaxIDs))
	query.Set("key", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/videos?"+query.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	c.logger.Debug("youtube request", "ids", len(ids))

	resp, err := c.HTTP.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fanout.NetworkFailure(Name, "", fmt.Errorf("execute request: %w", err))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fanout.NetworkFailure(Name, "", fmt.Errorf("read response: %w", err))
	}

	if resp.StatusCode != http.StatusOK {
		return nil, statusError(resp.StatusCode, body)
	}

	var list videoListResponse
	if err := json.Unmarshal(body, &list); err != nil {
		return nil, fmt.Errorf("decode videos.list response: %w", err)
	}
	for _, item := range list.Items {
		views, err := strconv.ParseInt(item.Statistics.ViewCount, 10, 64)
		if err != nil {
			// Hidden counts come back empty.
			views = 0
		}
		out[item.ID] = catalog.Counts{catalog.YouTubeViews: views}
	}
	return out, nil
}

func statusError(status int, body []byte) error {
	var apiErr apiErrorResponse
	msg := strings.TrimSpace(string(body))
	reason := ""
	if json.Unmarshal(body, &apiErr) == nil && apiErr.Error.Message != "" {
		msg = apiErr.Error.Message
		if len(apiErr.Error.Errors) > 0 {
			reason = apiErr.Error.Errors[0].Reason
		}
	}
	err := fmt.Errorf("status %d: %s", status, msg)
	if reason != "" {
		err = fmt.Errorf("status %d (%s): %s", status, reason, msg)
	}

	switch {
	case status == http.StatusForbidden, status == http.StatusTooManyRequests:
		return fanout.Blocked(Name, "", err)
	case status >= 500:
		return fanout.NetworkFailure(Name, "", err)
	}
	return err
}
