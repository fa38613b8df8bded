package store

import (
	"fmt"

	"github.com/ademuri/chart-tools/internal/rank"
)

// Top reads a sheet and keeps the rows in its `groups` best distinct
// scores.
func (s *Store) Top(level Level, p rank.Profile, groups int) ([]rank.Row, error) {
	rows, err := s.ReadSheet(level, p)
	if err != nil {
		return nil, fmt.Errorf("reading top of %s: %w", SheetName(level, p), err)
	}
	n := rank.TopCutoff(rows, p.Metrics, groups)
	return rows[:n], nil
}
