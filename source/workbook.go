package source

import (
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/javajack/sheetlive"
)

// Workbook reads the range from a local .xlsx file. The file is reopened on
// every fetch so edits show up on the next cycle once the file is saved.
type Workbook struct {
	path  string
	sheet string
}

// NewWorkbook creates a workbook source. An empty sheet means the first sheet.
func NewWorkbook(path, sheet string) *Workbook {
	return &Workbook{path: path, sheet: sheet}
}

// String names the workbook and worksheet, for logs.
func (w *Workbook) String() string {
	if w.sheet == "" {
		return w.path
	}
	return w.path + "[" + w.sheet + "]"
}

// Fetch reads every cell of rng as formatted text.
func (w *Workbook) Fetch(ctx context.Context, rng sheetlive.BoundingRange) (sheetlive.Grid, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", sheetlive.ErrFetchFailed, err)
	}

	f, err := excelize.OpenFile(w.path)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %v", sheetlive.ErrFetchFailed, w.path, err)
	}
	defer f.Close()

	sheet := w.sheet
	if sheet == "" {
		sheet = f.GetSheetName(0)
	}
	if idx, err := f.GetSheetIndex(sheet); err != nil || idx < 0 {
		return nil, fmt.Errorf("%w: worksheet %q not found in %s", sheetlive.ErrFetchFailed, sheet, w.path)
	}

	grid := make(sheetlive.Grid, rng.Width())
	for c := 0; c < rng.Width(); c++ {
		grid[c] = make([]string, rng.Height())
		for r := 0; r < rng.Height(); r++ {
			ref := rng.Absolute(sheetlive.RelativeCoord{Col: c, Row: r})
			name, err := excelize.CoordinatesToCellName(ref.Col, ref.Row)
			if err != nil {
				return nil, fmt.Errorf("%w: %v", sheetlive.ErrFetchFailed, err)
			}
			value, err := f.GetCellValue(sheet, name)
			if err != nil {
				return nil, fmt.Errorf("%w: read %s!%s: %v", sheetlive.ErrFetchFailed, sheet, name, err)
			}
			grid[c][r] = value
		}
	}
	return grid, nil
}
