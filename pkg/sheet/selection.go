package sheet

import (
	"github.com/oakwood-commons/keytips/pkg/keytip"
)

var _ keytip.Surface = (*Sheet)(nil)

// Cursor returns the active cell.
func (s *Sheet) Cursor() Pos { return s.cursor }

// ActiveSelection returns the block spanned by the anchor and the cursor.
func (s *Sheet) ActiveSelection() Range {
	r0, r1 := min(s.anchor.Row, s.cursor.Row), max(s.anchor.Row, s.cursor.Row)
	c0, c1 := min(s.anchor.Col, s.cursor.Col), max(s.anchor.Col, s.cursor.Col)
	return Range{Row: r0, Col: c0, Rows: r1 - r0 + 1, Cols: c1 - c0 + 1}
}

// Select makes rng the selection with the cursor at its top-left cell.
func (s *Sheet) Select(rng Range) {
	rng = s.clip(rng)
	if rng.Empty() {
		return
	}
	s.anchor = Pos{Row: rng.Row + rng.Rows - 1, Col: rng.Col + rng.Cols - 1}
	s.cursor = Pos{Row: rng.Row, Col: rng.Col}
}

// MoveCursor moves the cursor by dr, dc and collapses the selection onto it.
func (s *Sheet) MoveCursor(dr, dc int) {
	s.cursor = s.clamp(Pos{Row: s.cursor.Row + dr, Col: s.cursor.Col + dc})
	s.anchor = s.cursor
}

// SetCursor places the cursor at row, col and collapses the selection.
func (s *Sheet) SetCursor(row, col int) {
	s.cursor = s.clamp(Pos{Row: row, Col: col})
	s.anchor = s.cursor
}

// ExtendSelection moves the cursor while keeping the anchor.
func (s *Sheet) ExtendSelection(dr, dc int) {
	s.cursor = s.clamp(Pos{Row: s.cursor.Row + dr, Col: s.cursor.Col + dc})
}

// SelectAll selects the whole grid.
func (s *Sheet) SelectAll() {
	s.Select(Range{Rows: s.Rows(), Cols: s.Cols()})
}

func (s *Sheet) clamp(p Pos) Pos {
	p.Row = min(max(p.Row, 0), s.Rows()-1)
	p.Col = min(max(p.Col, 0), s.Cols()-1)
	return p
}

// ClearRange sets every value in rng to nil.
func (s *Sheet) ClearRange(rng Range) {
	rng = s.clip(rng)
	s.SuspendPaint()
	for r := rng.Row; r < rng.Row+rng.Rows; r++ {
		for c := rng.Col; c < rng.Col+rng.Cols; c++ {
			_ = s.SetValue(r, c, nil)
		}
	}
	s.ResumePaint()
}

// CopyText renders rng as tab separated rows, the format paste expects.
func (s *Sheet) CopyText(rng Range) string {
	rng = s.clip(rng)
	var b []byte
	for r := rng.Row; r < rng.Row+rng.Rows; r++ {
		for c := rng.Col; c < rng.Col+rng.Cols; c++ {
			if c > rng.Col {
				b = append(b, '\t')
			}
			b = append(b, s.Text(r, c)...)
		}
		b = append(b, '\r', '\n')
	}
	return string(b)
}

// OnEditStarting registers fn to run before every edit begins. Setting
// Cancel on the event vetoes the edit.
func (s *Sheet) OnEditStarting(fn func(*keytip.EditStartingEvent)) func() {
	id := s.nextID
	s.nextID++
	s.hooks[id] = fn
	return func() { delete(s.hooks, id) }
}

// EditHooks returns the number of registered edit-starting hooks.
func (s *Sheet) EditHooks() int { return len(s.hooks) }

// StartEdit enters edit mode on the cursor cell unless a hook vetoes it.
func (s *Sheet) StartEdit() bool {
	if s.editing {
		return true
	}
	ev := &keytip.EditStartingEvent{Row: s.cursor.Row, Col: s.cursor.Col}
	for _, fn := range s.hooks {
		fn(ev)
	}
	if ev.Cancel {
		return false
	}
	s.editing = true
	s.edit = s.cursor
	s.buffer = s.Text(s.cursor.Row, s.cursor.Col)
	return true
}

// Editing reports whether a cell edit is in progress.
func (s *Sheet) Editing() bool { return s.editing }

// EditCell returns the cell being edited.
func (s *Sheet) EditCell() Pos { return s.edit }

// EditBuffer returns the pending edit text.
func (s *Sheet) EditBuffer() string { return s.buffer }

// SetEditBuffer replaces the pending edit text.
func (s *Sheet) SetEditBuffer(text string) {
	if s.editing {
		s.buffer = text
	}
}

// EndEdit commits the pending edit, if any.
func (s *Sheet) EndEdit() {
	if !s.editing {
		return
	}
	s.editing = false
	_ = s.SetValue(s.edit.Row, s.edit.Col, ParseValue(s.buffer))
	s.buffer = ""
}

// CancelEdit discards the pending edit.
func (s *Sheet) CancelEdit() {
	s.editing = false
	s.buffer = ""
}
