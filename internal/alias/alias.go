// Package alias expands artist names into every name a chart should credit:
// project names into their members, old names into current ones.
package alias

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/ademuri/chart-tools/internal/catalog"
)

// Names is one alias entry. In YAML it is either a single name or a list.
type Names []string

func (n *Names) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		var s string
		if err := value.Decode(&s); err != nil {
			return err
		}
		*n = Names{s}
		return nil
	case yaml.SequenceNode:
		var list []string
		if err := value.Decode(&list); err != nil {
			return err
		}
		*n = Names(list)
		return nil
	default:
		return fmt.Errorf("line %d: alias must be a name or a list of names", value.Line)
	}
}

// Table holds the two alias tiers. Strong entries win when both tiers know a
// name.
type Table struct {
	Strong map[string]Names `yaml:"strong"`
	Weak   map[string]Names `yaml:"weak"`
}

// LoadFile reads a Table from a YAML file with top-level keys "strong" and
// "weak".
func LoadFile(path string) (Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Table{}, fmt.Errorf("reading alias file: %w", err)
	}
	return Parse(data)
}

func Parse(data []byte) (Table, error) {
	var t Table
	if err := yaml.Unmarshal(data, &t); err != nil {
		return Table{}, fmt.Errorf("parsing alias file: %w", err)
	}
	return t, nil
}

func (t Table) lookup(name string) (Names, bool) {
	if names, ok := t.Strong[name]; ok {
		return names, true
	}
	names, ok := t.Weak[name]
	return names, ok
}

// Resolver applies a Table. It holds no mutable state and is safe to share.
type Resolver struct {
	table Table
}

func New(table Table) *Resolver {
	return &Resolver{table: table}
}

// Resolve returns the artist list followed by every alias it expands to, in
// order of first appearance and without duplicates. Names added by an
// expansion are expanded too, so Resolve(Resolve(x)) == Resolve(x) even when
// aliases chain. The input is not modified.
func (r *Resolver) Resolve(artists []string) []string {
	if len(artists) == 0 {
		return nil
	}

	out := make([]string, 0, len(artists))
	seen := make(map[string]bool, len(artists))
	add := func(name string) {
		if !seen[name] {
			seen[name] = true
			out = append(out, name)
		}
	}

	for _, name := range artists {
		add(name)
	}
	// out grows while we walk it; each name is expanded exactly once.
	for i := 0; i < len(out); i++ {
		names, ok := r.table.lookup(out[i])
		if !ok {
			continue
		}
		for _, alias := range names {
			add(alias)
		}
	}

	return out
}

// ResolveAll returns copies of tracks with their artist lists resolved.
func (r *Resolver) ResolveAll(tracks []catalog.Track) []catalog.Track {
	out := make([]catalog.Track, len(tracks))
	for i, t := range tracks {
		c := t.Clone()
		c.Artists = r.Resolve(t.Artists)
		out[i] = c
	}
	return out
}
