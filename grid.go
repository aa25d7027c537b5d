package sheetlive

// Grid holds the values of a BoundingRange in column-major order:
// grid[col][row], both relative to the range's top-left corner.
// Columns may be ragged; trailing empty cells are usually omitted by the source.
type Grid [][]string

// Value returns the cell at coord, or "" when it lies outside the grid.
func (g Grid) Value(coord RelativeCoord) string {
	if coord.Col < 0 || coord.Col >= len(g) {
		return ""
	}
	col := g[coord.Col]
	if coord.Row < 0 || coord.Row >= len(col) {
		return ""
	}
	return col[coord.Row]
}

// GridFromValues converts a decoded "values" array into a Grid.
// Cells that are not strings read as "" so one odd cell never stalls the overlay.
func GridFromValues(values [][]any) Grid {
	g := make(Grid, len(values))
	for c, col := range values {
		g[c] = make([]string, len(col))
		for r, v := range col {
			if s, ok := v.(string); ok {
				g[c][r] = s
			}
		}
	}
	return g
}

// GridFromCells projects named cells ("B7" → value) onto rng.
// Labels that are malformed or fall outside the range are skipped.
func GridFromCells(rng BoundingRange, cells map[string]string) Grid {
	g := make(Grid, rng.Width())
	for label, value := range cells {
		ref, err := ParseCellRef(label)
		if err != nil || !rng.Contains(ref) {
			continue
		}
		coord := rng.Relative(ref)
		col := g[coord.Col]
		if len(col) <= coord.Row {
			grown := make([]string, coord.Row+1)
			copy(grown, col)
			col = grown
		}
		col[coord.Row] = value
		g[coord.Col] = col
	}
	return g
}
