// Package pipeline runs a chart collection end to end: aliases, metric
// sources, windows, grouping, ranking and the workbook export.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ademuri/chart-tools/internal/alias"
	"github.com/ademuri/chart-tools/internal/catalog"
	"github.com/ademuri/chart-tools/internal/fanout"
	"github.com/ademuri/chart-tools/internal/group"
	"github.com/ademuri/chart-tools/internal/rank"
	"github.com/ademuri/chart-tools/internal/store"
	"github.com/ademuri/chart-tools/internal/window"
)

// Config describes one run.
type Config struct {
	OutDir string
	Year   int
	Week   window.Window
	// Months are exported after the week, in order.
	Months []window.Window
}

// Export is one written workbook.
type Export struct {
	Window window.Window
	Path   string
	Tracks int
}

type Report struct {
	Sources []fanout.Result
	Exports []Export
}

type Pipeline struct {
	resolver *alias.Resolver
	reducer  *fanout.Reducer
	sources  []fanout.Source
	logger   *slog.Logger
}

func New(resolver *alias.Resolver, reducer *fanout.Reducer, sources []fanout.Source, logger *slog.Logger) *Pipeline {
	return &Pipeline{
		resolver: resolver,
		reducer:  reducer,
		sources:  sources,
		logger:   logger,
	}
}

// Run collects metrics for tracks and writes the all-time workbook, then
// the week, then each month. A failed source stops the run before anything
// is written.
func (p *Pipeline) Run(ctx context.Context, tracks []catalog.Track, cfg Config) (Report, error) {
	var report Report

	tracks = p.resolver.ResolveAll(tracks)

	tracks, results, err := p.reducer.ReduceAll(ctx, tracks, p.sources)
	report.Sources = results
	if err != nil {
		return report, fmt.Errorf("collecting metrics: %w", err)
	}

	windows := append([]window.Window{window.AllTime(), cfg.Week}, cfg.Months...)
	parts := window.Partition(tracks, windows)
	for _, w := range windows {
		in := parts[w.Label()]
		path := store.WorkbookPath(cfg.OutDir, cfg.Year, w)
		if err := ExportWindow(path, w, in); err != nil {
			return report, fmt.Errorf("exporting %s: %w", w.Label(), err)
		}
		p.logger.Info("exported workbook", "window", w.String(), "tracks", len(in), "path", path)
		report.Exports = append(report.Exports, Export{Window: w, Path: path, Tracks: len(in)})
	}
	return report, nil
}

// Sheets ranks the tracks of a window into every sheet of its workbook.
func Sheets(tracks []catalog.Track) []store.Sheet {
	byLevel := map[store.Level][]rank.Row{
		store.Track:  rank.TrackRows(tracks),
		store.Artist: group.By(tracks, group.Artist, nil).Rows(),
		store.Label:  group.By(tracks, group.Label, nil).Rows(),
	}

	var sheets []store.Sheet
	for _, level := range store.Levels {
		for _, prof := range rank.Profiles {
			sheets = append(sheets, store.Sheet{
				Level:   level,
				Profile: prof,
				Rows:    rank.Rank(byLevel[level], prof.Keys()),
			})
		}
	}
	return sheets
}

// ExportWindow writes the workbook of one window.
func ExportWindow(path string, w window.Window, tracks []catalog.Track) error {
	s, err := store.New(path)
	if err != nil {
		return err
	}
	defer s.Close()

	return s.WriteWorkbook(w, Sheets(tracks))
}
