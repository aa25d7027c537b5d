package sheetlive

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// CellRef is a single spreadsheet cell with 1-based column and row.
type CellRef struct {
	Col int
	Row int
}

// ParseCellRef parses a label like "B7" or "aa12" into a CellRef.
func ParseCellRef(label string) (CellRef, error) {
	colLabel, row, err := ParseCellLabel(label)
	if err != nil {
		return CellRef{}, err
	}
	col, err := ColumnLabelToIndex(colLabel)
	if err != nil {
		return CellRef{}, fmt.Errorf("%w: %q: %v", ErrMalformedCellLabel, label, err)
	}
	return CellRef{Col: col, Row: row}, nil
}

// String formats the CellRef as "B7".
func (c CellRef) String() string {
	name, err := IndexToColumnLabel(c.Col)
	if err != nil {
		return fmt.Sprintf("?%d", c.Row)
	}
	return name + strconv.Itoa(c.Row)
}

// ParseCellLabel splits a label into its leading letter run and its trailing row number.
// "AA12" → ("AA", 12). Each cell has exactly one label apart from letter case,
// so whitespace and rows with leading zeros ("A01") are rejected.
func ParseCellLabel(label string) (string, int, error) {
	i := 0
	for i < len(label) && isAlpha(label[i]) {
		i++
	}
	if i == 0 || i == len(label) {
		return "", 0, fmt.Errorf("%w: %q", ErrMalformedCellLabel, label)
	}

	digits := label[i:]
	if digits[0] == '0' {
		return "", 0, fmt.Errorf("%w: row must be a positive integer without leading zeros in %q", ErrMalformedCellLabel, label)
	}
	for j := 0; j < len(digits); j++ {
		if digits[j] < '0' || digits[j] > '9' {
			return "", 0, fmt.Errorf("%w: %q", ErrMalformedCellLabel, label)
		}
	}
	row, err := strconv.Atoi(digits)
	if err != nil || row < 1 {
		return "", 0, fmt.Errorf("%w: row must be a positive integer in %q", ErrMalformedCellLabel, label)
	}
	return strings.ToUpper(label[:i]), row, nil
}

func isAlpha(b byte) bool {
	return (b >= 'A' && b <= 'Z') || (b >= 'a' && b <= 'z')
}

// ColumnLabelToIndex converts a column label to its 1-based index.
// There is no zero digit: "A"→1, "Z"→26, "AA"→27, "AAA"→703.
func ColumnLabelToIndex(label string) (int, error) {
	if label == "" {
		return 0, fmt.Errorf("%w: empty column label", ErrInvalidLabel)
	}
	col := 0
	for i := 0; i < len(label); i++ {
		ch := label[i]
		if !isAlpha(ch) {
			return 0, fmt.Errorf("%w: %q", ErrInvalidLabel, label)
		}
		if ch >= 'a' {
			ch -= 'a' - 'A'
		}
		if col > (math.MaxInt-26)/26 {
			return 0, fmt.Errorf("%w: %q is out of range", ErrInvalidLabel, label)
		}
		col = col*26 + int(ch-'A') + 1
	}
	return col, nil
}

// IndexToColumnLabel converts a 1-based column index to its label.
// 1→"A", 26→"Z", 27→"AA".
func IndexToColumnLabel(index int) (string, error) {
	if index < 1 {
		return "", fmt.Errorf("%w: column index %d", ErrInvalidLabel, index)
	}
	var buf [16]byte
	pos := len(buf)
	for index > 0 {
		index-- // no zero digit
		pos--
		buf[pos] = byte('A' + index%26)
		index /= 26
	}
	return string(buf[pos:]), nil
}

// BoundingRange is the rectangle covering every cell the overlay needs.
// All bounds are 1-based and inclusive.
type BoundingRange struct {
	MinCol int
	MinRow int
	MaxCol int
	MaxRow int
}

// NewBoundingRange returns the smallest range covering all refs.
func NewBoundingRange(refs []CellRef) (BoundingRange, error) {
	if len(refs) == 0 {
		return BoundingRange{}, ErrEmptyConfiguration
	}
	r := BoundingRange{
		MinCol: refs[0].Col, MinRow: refs[0].Row,
		MaxCol: refs[0].Col, MaxRow: refs[0].Row,
	}
	for _, ref := range refs[1:] {
		r.MinCol = min(r.MinCol, ref.Col)
		r.MinRow = min(r.MinRow, ref.Row)
		r.MaxCol = max(r.MaxCol, ref.Col)
		r.MaxRow = max(r.MaxRow, ref.Row)
	}
	return r, nil
}

// ParseRange parses a range string like "A1:C3". A single cell ("B2") is a 1x1 range.
func ParseRange(s string) (BoundingRange, error) {
	first, last, found := strings.Cut(strings.TrimSpace(s), ":")
	if !found {
		last = first
	}
	a, err := ParseCellRef(first)
	if err != nil {
		return BoundingRange{}, err
	}
	b, err := ParseCellRef(last)
	if err != nil {
		return BoundingRange{}, err
	}
	return NewBoundingRange([]CellRef{a, b})
}

// String formats the range as "A1:C3", the form the values API expects.
func (r BoundingRange) String() string {
	return r.TopLeft().String() + ":" + r.BottomRight().String()
}

// TopLeft returns the first cell of the range.
func (r BoundingRange) TopLeft() CellRef {
	return CellRef{Col: r.MinCol, Row: r.MinRow}
}

// BottomRight returns the last cell of the range.
func (r BoundingRange) BottomRight() CellRef {
	return CellRef{Col: r.MaxCol, Row: r.MaxRow}
}

// Width is the number of columns in the range.
func (r BoundingRange) Width() int {
	return r.MaxCol - r.MinCol + 1
}

// Height is the number of rows in the range.
func (r BoundingRange) Height() int {
	return r.MaxRow - r.MinRow + 1
}

// Contains reports whether ref lies inside the range.
func (r BoundingRange) Contains(ref CellRef) bool {
	return ref.Col >= r.MinCol && ref.Col <= r.MaxCol &&
		ref.Row >= r.MinRow && ref.Row <= r.MaxRow
}

// Relative returns ref as an offset from the top-left corner of the range.
func (r BoundingRange) Relative(ref CellRef) RelativeCoord {
	return RelativeCoord{Col: ref.Col - r.MinCol, Row: ref.Row - r.MinRow}
}

// Absolute is the inverse of Relative.
func (r BoundingRange) Absolute(c RelativeCoord) CellRef {
	return CellRef{Col: c.Col + r.MinCol, Row: c.Row + r.MinRow}
}

// RelativeCoord is a 0-based (column, row) offset inside a BoundingRange.
type RelativeCoord struct {
	Col int
	Row int
}

// String formats the coordinate as "(col,row)".
func (c RelativeCoord) String() string {
	return fmt.Sprintf("(%d,%d)", c.Col, c.Row)
}
