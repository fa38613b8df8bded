// Package fanout turns a track's external identifiers into metric totals:
// every identifier is fetched from its metric source, and the values are
// summed back onto the tracks that own them.
package fanout

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/time/rate"

	"github.com/ademuri/chart-tools/internal/catalog"
)

// BatchFetcher reads metrics for several identifiers per call. It may
// return the values it did get together with a *RetrievalError; those are
// kept and only the rest is retried.
type BatchFetcher interface {
	FetchBatch(ctx context.Context, ids []string) (map[string]catalog.Counts, error)
	MaxBatch() int
}

// ItemFetcher reads metrics for one identifier per call.
type ItemFetcher interface {
	FetchOne(ctx context.Context, id string) (catalog.Counts, error)
}

// Source describes one metric source. Exactly one of Batch and Item is set.
type Source struct {
	Name    string
	Slots   []catalog.Slot
	Metrics []catalog.Metric
	// Skip lists identifiers never fetched, e.g. pages known to be broken.
	Skip  []string
	Batch BatchFetcher
	Item  ItemFetcher
}

// Result summarizes one Reduce call.
type Result struct {
	Source      string
	Identifiers int
	Fetched     int
	Shared      []string
	Retries     int
	Elapsed     time.Duration
}

type Reducer struct {
	policy RetryPolicy
	pace   *rate.Limiter
	logger *slog.Logger
}

// NewReducer builds a Reducer. pace is the minimum gap between calls to an
// item source; zero disables pacing.
func NewReducer(policy RetryPolicy, pace time.Duration, logger *slog.Logger) *Reducer {
	limit := rate.Inf
	if pace > 0 {
		limit = rate.Every(pace)
	}
	return &Reducer{
		policy: policy,
		pace:   rate.NewLimiter(limit, 1),
		logger: logger,
	}
}

// Reduce fetches the source's metrics for every track and returns copies
// of tracks with the source's metric columns set. Tracks without
// identifiers get zeros. On error no track is updated.
func (r *Reducer) Reduce(ctx context.Context, tracks []catalog.Track, src Source) ([]catalog.Track, Result, error) {
	start := time.Now()
	logger := r.logger.With("source", src.Name)

	if (src.Batch == nil) == (src.Item == nil) {
		return nil, Result{}, fmt.Errorf("source %s: exactly one of Batch and Item must be set", src.Name)
	}

	index := BuildIndex(tracks, src.Slots, src.Skip)
	result := Result{
		Source:      src.Name,
		Identifiers: index.Len(),
		Shared:      index.Shared(),
	}
	for _, id := range result.Shared {
		logger.Warn("identifier shared by several tracks, each is credited in full",
			"id", id, "tracks", index.Owners(id))
	}

	logger.Info("fetching metrics", "identifiers", index.Len())

	var values map[string]catalog.Counts
	var err error
	if src.Batch != nil {
		values, result.Retries, err = r.fetchBatches(ctx, logger, src, index.IDs())
	} else {
		values, result.Retries, err = r.fetchItems(ctx, logger, src, index.IDs())
	}
	if err != nil {
		return nil, result, fmt.Errorf("fetching %s: %w", src.Name, err)
	}
	result.Fetched = len(values)

	totals := index.FanIn(values)
	zero := make(catalog.Counts, len(src.Metrics))
	for _, m := range src.Metrics {
		zero[m] = 0
	}

	out := make([]catalog.Track, len(tracks))
	for i, t := range tracks {
		out[i] = t.WithCounts(zero.Plus(totals[t.Key]))
	}

	result.Elapsed = time.Since(start)
	logger.Info("fetched metrics",
		"identifiers", result.Identifiers,
		"fetched", result.Fetched,
		"retries", result.Retries,
		"elapsed", result.Elapsed,
	)
	return out, result, nil
}

// ReduceAll runs Reduce for each source in turn.
func (r *Reducer) ReduceAll(ctx context.Context, tracks []catalog.Track, sources []Source) ([]catalog.Track, []Result, error) {
	results := make([]Result, 0, len(sources))
	for _, src := range sources {
		var res Result
		var err error
		tracks, res, err = r.Reduce(ctx, tracks, src)
		if err != nil {
			return nil, results, err
		}
		results = append(results, res)
	}
	return tracks, results, nil
}

func (r *Reducer) fetchBatches(ctx context.Context, logger *slog.Logger, src Source, ids []string) (map[string]catalog.Counts, int, error) {
	size := src.Batch.MaxBatch()
	if size <= 0 {
		size = len(ids)
	}

	got := make(map[string]catalog.Counts, len(ids))
	total := 0
	for start := 0; start < len(ids); start += size {
		end := min(start+size, len(ids))
		chunk := ids[start:end]

		retries, err := r.policy.do(ctx, logger, func() error {
			var pending []string
			for _, id := range chunk {
				if _, ok := got[id]; !ok {
					pending = append(pending, id)
				}
			}
			values, err := src.Batch.FetchBatch(ctx, pending)
			for id, v := range values {
				got[id] = v
			}
			return err
		})
		total += retries
		if err != nil {
			return nil, total, fmt.Errorf("batch %d-%d: %w", start, end, err)
		}
		logger.Debug("fetched batch", "from", start, "to", end)
	}
	return got, total, nil
}

func (r *Reducer) fetchItems(ctx context.Context, logger *slog.Logger, src Source, ids []string) (map[string]catalog.Counts, int, error) {
	got := make(map[string]catalog.Counts, len(ids))
	total := 0
	for i, id := range ids {
		if err := r.pace.Wait(ctx); err != nil {
			return nil, total, fmt.Errorf("waiting to fetch %q: %w", id, err)
		}

		retries, err := r.policy.do(ctx, logger, func() error {
			v, err := src.Item.FetchOne(ctx, id)
			if err != nil {
				return err
			}
			got[id] = v
			return nil
		})
		total += retries
		if err != nil {
			var rerr *RetrievalError
			if errors.As(err, &rerr) && rerr.ID == "" {
				rerr.ID = id
			}
			return nil, total, err
		}
		logger.Debug("fetched item", "id", id, "n", i+1, "of", len(ids))
	}
	return got, total, nil
}
