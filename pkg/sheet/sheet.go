// Package sheet provides an in-memory spreadsheet that serves as a keytip
// host surface: a grid of typed cells with a selection, an edit mode that can
// be vetoed before it starts, and paint suspension for batched writes.
package sheet

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/oakwood-commons/keytips/pkg/keytip"
)

// ErrOutOfRange is returned for coordinates outside the grid.
var ErrOutOfRange = errors.New("cell out of range")

// Border is a bit set of cell edges.
type Border uint8

const (
	BorderTop Border = 1 << iota
	BorderBottom
	BorderLeft
	BorderRight
)

// Has reports whether b includes every edge in o.
func (b Border) Has(o Border) bool { return b&o == o }

// Cell holds one value and its borders. Value is nil, float64 or string.
type Cell struct {
	Value  any
	Border Border
}

// Pos is a zero-based cell coordinate.
type Pos struct {
	Row, Col int
}

// Range is a rectangular block of cells.
type Range struct {
	Row, Col   int
	Rows, Cols int
}

// Contains reports whether p lies inside r.
func (r Range) Contains(p Pos) bool {
	return p.Row >= r.Row && p.Row < r.Row+r.Rows && p.Col >= r.Col && p.Col < r.Col+r.Cols
}

// Empty reports whether r covers no cells.
func (r Range) Empty() bool { return r.Rows <= 0 || r.Cols <= 0 }

func (r Range) String() string {
	if r.Rows == 1 && r.Cols == 1 {
		return CellName(r.Row, r.Col)
	}
	return CellName(r.Row, r.Col) + ":" + CellName(r.Row+r.Rows-1, r.Col+r.Cols-1)
}

// DefaultColumnWidth is the width of a column that has never been sized.
const DefaultColumnWidth = 10

// Sheet is a grid of cells. It is not safe for concurrent use.
type Sheet struct {
	cells  [][]Cell
	widths []int

	cursor Pos
	anchor Pos

	editing bool
	edit    Pos
	buffer  string

	hooks  map[int]func(*keytip.EditStartingEvent)
	nextID int

	suspended int
	dirty     bool
	paints    int
	onPaint   func()
}

// New returns an empty sheet of rows x cols cells.
func New(rows, cols int) *Sheet {
	if rows < 1 {
		rows = 1
	}
	if cols < 1 {
		cols = 1
	}
	s := &Sheet{
		cells:  make([][]Cell, rows),
		widths: make([]int, cols),
		hooks:  map[int]func(*keytip.EditStartingEvent){},
	}
	for r := range s.cells {
		s.cells[r] = make([]Cell, cols)
	}
	for c := range s.widths {
		s.widths[c] = DefaultColumnWidth
	}
	return s
}

// FromRows builds a sheet at least minRows x minCols large holding data.
// Values are stored through Normalize.
func FromRows(data [][]any, minRows, minCols int) *Sheet {
	rows, cols := max(len(data), minRows), minCols
	for _, r := range data {
		cols = max(cols, len(r))
	}
	s := New(rows, cols)
	for r, row := range data {
		for c, v := range row {
			s.cells[r][c].Value = Normalize(v)
		}
	}
	return s
}

// Rows returns the row count.
func (s *Sheet) Rows() int { return len(s.cells) }

// Cols returns the column count.
func (s *Sheet) Cols() int { return len(s.widths) }

func (s *Sheet) inRange(row, col int) bool {
	return row >= 0 && row < s.Rows() && col >= 0 && col < s.Cols()
}

// Value returns the value at row, col or nil when out of range.
func (s *Sheet) Value(row, col int) any {
	if !s.inRange(row, col) {
		return nil
	}
	return s.cells[row][col].Value
}

// Text returns the display text of a cell.
func (s *Sheet) Text(row, col int) string {
	return FormatValue(s.Value(row, col))
}

// Cell returns a copy of the cell at row, col.
func (s *Sheet) Cell(row, col int) (Cell, bool) {
	if !s.inRange(row, col) {
		return Cell{}, false
	}
	return s.cells[row][col], true
}

// SetValue stores v at row, col. Writes outside the grid are ignored and
// reported as ErrOutOfRange.
func (s *Sheet) SetValue(row, col int, v any) error {
	if !s.inRange(row, col) {
		return fmt.Errorf("set %s: %w", CellName(row, col), ErrOutOfRange)
	}
	s.cells[row][col].Value = Normalize(v)
	s.invalidate()
	return nil
}

// SetBorder adds edges to the outside of rng: BorderTop marks the first row,
// BorderBottom the last row, BorderLeft the first column and BorderRight the
// last column.
func (s *Sheet) SetBorder(rng Range, b Border) {
	rng = s.clip(rng)
	if rng.Empty() {
		return
	}
	last := Pos{Row: rng.Row + rng.Rows - 1, Col: rng.Col + rng.Cols - 1}
	for r := rng.Row; r <= last.Row; r++ {
		for c := rng.Col; c <= last.Col; c++ {
			cell := &s.cells[r][c]
			if b.Has(BorderTop) && r == rng.Row {
				cell.Border |= BorderTop
			}
			if b.Has(BorderBottom) && r == last.Row {
				cell.Border |= BorderBottom
			}
			if b.Has(BorderLeft) && c == rng.Col {
				cell.Border |= BorderLeft
			}
			if b.Has(BorderRight) && c == last.Col {
				cell.Border |= BorderRight
			}
		}
	}
	s.invalidate()
}

// ClearBorders removes every edge from the cells in rng.
func (s *Sheet) ClearBorders(rng Range) {
	rng = s.clip(rng)
	for r := rng.Row; r < rng.Row+rng.Rows; r++ {
		for c := rng.Col; c < rng.Col+rng.Cols; c++ {
			s.cells[r][c].Border = 0
		}
	}
	s.invalidate()
}

func (s *Sheet) clip(rng Range) Range {
	r0, c0 := max(rng.Row, 0), max(rng.Col, 0)
	r1, c1 := min(rng.Row+rng.Rows, s.Rows()), min(rng.Col+rng.Cols, s.Cols())
	if r1 <= r0 || c1 <= c0 {
		return Range{}
	}
	return Range{Row: r0, Col: c0, Rows: r1 - r0, Cols: c1 - c0}
}

// SuspendPaint defers repaint notifications until the matching ResumePaint.
// Calls nest.
func (s *Sheet) SuspendPaint() { s.suspended++ }

// ResumePaint ends one suspension and repaints once if anything changed.
func (s *Sheet) ResumePaint() {
	if s.suspended == 0 {
		return
	}
	s.suspended--
	if s.suspended == 0 && s.dirty {
		s.paint()
	}
}

// PaintSuspended reports whether painting is currently deferred.
func (s *Sheet) PaintSuspended() bool { return s.suspended > 0 }

// Paints returns how many repaints have been issued.
func (s *Sheet) Paints() int { return s.paints }

// OnPaint sets a callback invoked on every repaint.
func (s *Sheet) OnPaint(fn func()) { s.onPaint = fn }

func (s *Sheet) invalidate() {
	if s.suspended > 0 {
		s.dirty = true
		return
	}
	s.paint()
}

func (s *Sheet) paint() {
	s.dirty = false
	s.paints++
	if s.onPaint != nil {
		s.onPaint()
	}
}

// Normalize coerces v to one of the stored types: nil, float64 or string.
func Normalize(v any) any {
	switch x := v.(type) {
	case nil:
		return nil
	case float64:
		return x
	case float32:
		return float64(x)
	case int:
		return float64(x)
	case int64:
		return float64(x)
	case int32:
		return float64(x)
	case uint:
		return float64(x)
	case uint64:
		return float64(x)
	case uint32:
		return float64(x)
	case bool:
		if x {
			return "TRUE"
		}
		return "FALSE"
	case string:
		return x
	case fmt.Stringer:
		return x.String()
	default:
		return fmt.Sprint(x)
	}
}

// ParseValue converts raw cell text: the empty string is nil, anything that
// reads as a number is a float64 and everything else stays text.
func ParseValue(raw string) any {
	if raw == "" {
		return nil
	}
	if f, ok := parseNumber(raw); ok {
		return f
	}
	return raw
}

func parseNumber(raw string) (float64, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		// whitespace-only text reads as zero
		return 0, true
	}
	switch s {
	case "Infinity", "+Infinity":
		return math.Inf(1), true
	case "-Infinity":
		return math.Inf(-1), true
	}
	if len(s) > 2 && s[0] == '0' && strings.ContainsRune("xXoObB", rune(s[1])) {
		if n, err := strconv.ParseUint(s, 0, 64); err == nil {
			return float64(n), true
		}
		return 0, false
	}
	if strings.ContainsAny(s, "_xXpPnN") || strings.ContainsAny(strings.ToLower(s), "i") {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// FormatValue renders a stored value for display.
func FormatValue(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case string:
		return x
	default:
		return fmt.Sprint(x)
	}
}

// ColumnName returns the spreadsheet letter name of a zero-based column.
func ColumnName(col int) string {
	if col < 0 {
		return "?"
	}
	name := ""
	for col >= 0 {
		name = string(rune('A'+col%26)) + name
		col = col/26 - 1
	}
	return name
}

// CellName returns the A1 style name of a cell.
func CellName(row, col int) string {
	return ColumnName(col) + strconv.Itoa(row+1)
}
