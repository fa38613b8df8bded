package rank

import (
	"sort"

	"github.com/ademuri/chart-tools/internal/catalog"
)

// DefaultGroups is how many distinct scores the notes quote.
const DefaultGroups = 3

// TopCutoff says how many leading rows of a ranked table to quote: rows are
// grouped by their values in metrics, and the cutoff is the number of rows
// in the `groups` best groups. Ties at a podium place are all quoted, so the
// result can exceed `groups`. With fewer distinct values than `groups`
// every row is quoted.
//
// This is a presentation heuristic, not an exact top-N.
func TopCutoff(rows []Row, metrics []catalog.Metric, groups int) int {
	if len(rows) == 0 || groups <= 0 {
		return 0
	}

	type group struct {
		values []int64
		count  int
	}
	byKey := make(map[string]*group)
	for _, r := range rows {
		values := make([]int64, len(metrics))
		for i, m := range metrics {
			values[i] = r.Counts.Get(m)
		}
		key := tupleKey(values)
		g, ok := byKey[key]
		if !ok {
			g = &group{values: values}
			byKey[key] = g
		}
		g.count++
	}

	all := make([]*group, 0, len(byKey))
	for _, g := range byKey {
		all = append(all, g)
	}
	sort.Slice(all, func(i, j int) bool {
		for k := range all[i].values {
			if all[i].values[k] != all[j].values[k] {
				return all[i].values[k] > all[j].values[k]
			}
		}
		return false
	})

	cutoff := 0
	for i := 0; i < len(all) && i < groups; i++ {
		cutoff += all[i].count
	}
	return cutoff
}

func tupleKey(values []int64) string {
	b := make([]byte, 0, 8*len(values))
	for _, v := range values {
		u := uint64(v)
		for s := 56; s >= 0; s -= 8 {
			b = append(b, byte(u>>uint(s)))
		}
	}
	return string(b)
}
