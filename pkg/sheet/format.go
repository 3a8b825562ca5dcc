package sheet

import (
	"sort"
	"strings"

	"github.com/mattn/go-runewidth"
)

// Column width bounds applied by AutoFitColumn.
const (
	MinColumnWidth = 3
	MaxColumnWidth = 60
)

// ColumnWidth returns the display width of col.
func (s *Sheet) ColumnWidth(col int) int {
	if col < 0 || col >= s.Cols() {
		return DefaultColumnWidth
	}
	return s.widths[col]
}

// SetColumnWidth sets the display width of col, clamped to the bounds.
func (s *Sheet) SetColumnWidth(col, width int) {
	if col < 0 || col >= s.Cols() {
		return
	}
	s.widths[col] = min(max(width, MinColumnWidth), MaxColumnWidth)
	s.invalidate()
}

// AutoFitColumn sizes col to its widest cell text or its header name.
func (s *Sheet) AutoFitColumn(col int) {
	if col < 0 || col >= s.Cols() {
		return
	}
	w := runewidth.StringWidth(ColumnName(col))
	for r := 0; r < s.Rows(); r++ {
		w = max(w, runewidth.StringWidth(s.Text(r, col)))
	}
	s.SetColumnWidth(col, w)
}

// SortRange reorders the rows of rng by the values in column by, which is
// an absolute column index inside rng. Empty cells always sort last; numbers
// come before text and text compares case-insensitively. The sort is stable.
func (s *Sheet) SortRange(rng Range, by int, ascending bool) {
	rng = s.clip(rng)
	if rng.Empty() || by < rng.Col || by >= rng.Col+rng.Cols {
		return
	}
	rows := make([][]Cell, rng.Rows)
	for i := range rows {
		rows[i] = append([]Cell(nil), s.cells[rng.Row+i][rng.Col:rng.Col+rng.Cols]...)
	}
	key := by - rng.Col
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i][key].Value, rows[j][key].Value
		if a == nil || b == nil {
			return a != nil && b == nil
		}
		if ascending {
			return compareValues(a, b) < 0
		}
		return compareValues(a, b) > 0
	})
	for i, row := range rows {
		for j, cell := range row {
			s.cells[rng.Row+i][rng.Col+j].Value = cell.Value
		}
	}
	s.invalidate()
}

func compareValues(a, b any) int {
	af, aNum := a.(float64)
	bf, bNum := b.(float64)
	switch {
	case aNum && bNum:
		switch {
		case af < bf:
			return -1
		case af > bf:
			return 1
		}
		return 0
	case aNum:
		return -1
	case bNum:
		return 1
	}
	return strings.Compare(strings.ToLower(FormatValue(a)), strings.ToLower(FormatValue(b)))
}
