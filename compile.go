package sheetlive

import (
	"fmt"
	"sort"
)

// Settings maps an operation kind to the cells it reads and the descriptor for each cell.
//
//	Settings{
//		"string":  {"B2": "home-score", "C2": []any{"away-score", "away-score-small"}},
//		"counter": {"D4": []any{"pip-1", "pip-2", "pip-3"}},
//		"switch":  {"E1": map[string]any{"win": "banner-win", "lose": "banner-lose"}},
//	}
type Settings map[string]map[string]any

// Entry is one compiled settings row: a kind, a cell and what to do with its value.
type Entry struct {
	Kind       string
	Label      string // label as written in the settings
	Cell       CellRef
	Coord      RelativeCoord
	Descriptor any
}

type planKey struct {
	kind  string
	coord RelativeCoord
}

// Plan is the immutable result of compiling Settings: one request range and
// every entry keyed by its position relative to that range.
type Plan struct {
	Range   BoundingRange
	Entries []Entry

	index map[planKey]int
}

// Compile parses every cell label in settings, computes the covering range and
// rewrites each label as an offset from the range's top-left corner.
func Compile(settings Settings) (*Plan, error) {
	type parsed struct {
		kind, label string
		ref         CellRef
		desc        any
	}

	var cells []parsed
	for kind, byCell := range settings {
		seen := make(map[CellRef]string, len(byCell))
		for label, desc := range byCell {
			ref, err := ParseCellRef(label)
			if err != nil {
				return nil, fmt.Errorf("settings %q: %w", kind, err)
			}
			if other, dup := seen[ref]; dup {
				return nil, fmt.Errorf("settings %q: %w: %q and %q name the same cell", kind, ErrMalformedCellLabel, other, label)
			}
			seen[ref] = label
			cells = append(cells, parsed{kind: kind, label: label, ref: ref, desc: desc})
		}
	}

	refs := make([]CellRef, len(cells))
	for i, c := range cells {
		refs[i] = c.ref
	}
	rng, err := NewBoundingRange(refs)
	if err != nil {
		return nil, err
	}

	plan := &Plan{
		Range:   rng,
		Entries: make([]Entry, 0, len(cells)),
		index:   make(map[planKey]int, len(cells)),
	}
	for _, c := range cells {
		plan.Entries = append(plan.Entries, Entry{
			Kind:       c.kind,
			Label:      c.label,
			Cell:       c.ref,
			Coord:      rng.Relative(c.ref),
			Descriptor: c.desc,
		})
	}

	// Map iteration order is random; dispatch order must not be.
	sort.Slice(plan.Entries, func(i, j int) bool {
		a, b := plan.Entries[i], plan.Entries[j]
		if a.Kind != b.Kind {
			return a.Kind < b.Kind
		}
		if a.Coord.Col != b.Coord.Col {
			return a.Coord.Col < b.Coord.Col
		}
		return a.Coord.Row < b.Coord.Row
	})
	for i, e := range plan.Entries {
		plan.index[planKey{kind: e.Kind, coord: e.Coord}] = i
	}
	return plan, nil
}

// Lookup returns the entry for kind at coord.
func (p *Plan) Lookup(kind string, coord RelativeCoord) (Entry, bool) {
	i, ok := p.index[planKey{kind: kind, coord: coord}]
	if !ok {
		return Entry{}, false
	}
	return p.Entries[i], true
}

// Kinds returns the distinct operation kinds used by the plan, sorted.
func (p *Plan) Kinds() []string {
	var kinds []string
	for _, e := range p.Entries {
		if len(kinds) == 0 || kinds[len(kinds)-1] != e.Kind {
			kinds = append(kinds, e.Kind)
		}
	}
	return kinds
}
