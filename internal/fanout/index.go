package fanout

import (
	"slices"
	"sort"

	"github.com/ademuri/chart-tools/internal/catalog"
)

// Index maps an external identifier to the keys of the tracks holding it.
type Index struct {
	owners map[string][]int
}

// BuildIndex fans tracks out over the given identifier slots. Absent slots
// and identifiers listed in skip are left out. A track holding the same
// identifier in two slots owns it once.
func BuildIndex(tracks []catalog.Track, slots []catalog.Slot, skip []string) Index {
	skipped := make(map[string]bool, len(skip))
	for _, id := range skip {
		skipped[id] = true
	}

	owners := make(map[string][]int)
	for _, t := range tracks {
		for _, slot := range slots {
			id, ok := t.ID(slot)
			if !ok || skipped[id] {
				continue
			}
			if !slices.Contains(owners[id], t.Key) {
				owners[id] = append(owners[id], t.Key)
			}
		}
	}
	return Index{owners: owners}
}

// IDs returns the distinct identifiers, sorted.
func (ix Index) IDs() []string {
	ids := make([]string, 0, len(ix.owners))
	for id := range ix.owners {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func (ix Index) Owners(id string) []int {
	return ix.owners[id]
}

func (ix Index) Len() int {
	return len(ix.owners)
}

// Shared returns identifiers owned by more than one track, sorted. Each
// owner is credited with the full value.
func (ix Index) Shared() []string {
	var shared []string
	for id, keys := range ix.owners {
		if len(keys) > 1 {
			shared = append(shared, id)
		}
	}
	sort.Strings(shared)
	return shared
}

// FanIn sums fetched values per owning track key. Identifiers without a
// fetched value contribute nothing.
func (ix Index) FanIn(values map[string]catalog.Counts) map[int]catalog.Counts {
	totals := make(map[int]catalog.Counts)
	for id, keys := range ix.owners {
		v, ok := values[id]
		if !ok {
			continue
		}
		for _, key := range keys {
			totals[key] = totals[key].Plus(v)
		}
	}
	return totals
}
