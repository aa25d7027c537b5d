package sheetlive

import (
	"fmt"
	"sort"
	"strings"
)

// Describe returns a human-readable listing of the plan: the request range and
// every entry with its absolute cell, relative offset and descriptor.
// Useful for checking a settings file before going live.
func (p *Plan) Describe() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Range: %s (%dx%d)\n", p.Range, p.Range.Width(), p.Range.Height())

	for _, kind := range p.Kinds() {
		fmt.Fprintf(&b, "  %s:\n", kind)
		for _, e := range p.Entries {
			if e.Kind != kind {
				continue
			}
			fmt.Fprintf(&b, "    %-6s %-8s %s\n", e.Cell, e.Coord, describeDescriptor(e.Descriptor))
		}
	}
	return b.String()
}

// describeDescriptor formats a descriptor for display. Tables are printed with sorted keys.
func describeDescriptor(desc any) string {
	switch d := desc.(type) {
	case string:
		return d
	case []any, []string:
		items, _ := asList(d)
		parts := make([]string, len(items))
		for i, item := range items {
			parts[i] = describeDescriptor(item)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case map[string]any:
		keys := make([]string, 0, len(d))
		for k := range d {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, len(keys))
		for i, k := range keys {
			parts[i] = fmt.Sprintf("%q=%s", k, describeDescriptor(d[k]))
		}
		return "{" + strings.Join(parts, " ") + "}"
	case map[string]string:
		m := make(map[string]any, len(d))
		for k, v := range d {
			m[k] = v
		}
		return describeDescriptor(m)
	}
	return fmt.Sprintf("%v", desc)
}
