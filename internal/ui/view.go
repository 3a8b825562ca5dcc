package ui

import (
	"fmt"
	"strconv"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"

	"github.com/oakwood-commons/keytips/pkg/keytip"
	"github.com/oakwood-commons/keytips/pkg/sheet"
)

const (
	defaultWidth  = 80
	defaultHeight = 24

	// gridTop is the screen row of the first data row: a title line and the
	// column header come first.
	gridTop = 2

	debugLines = 5
	pathSep    = " › "
)

func (m *Model) View() tea.View {
	if m.quitting {
		return tea.NewView("")
	}
	v := tea.NewView(m.Render())
	v.AltScreen = true
	v.MouseMode = tea.MouseModeCellMotion
	v.ReportFocus = true
	v.KeyboardEnhancements.ReportEventTypes = true
	return v
}

// Render draws the full screen as a string.
func (m *Model) Render() string {
	lines := []string{m.renderTitle(), m.renderHeader()}
	lines = append(lines, m.renderRows()...)
	if overlay := m.renderOverlay(); overlay != "" {
		lines = append(lines, m.zones.Mark(overlayZone, overlay))
	}
	if m.debugVisible {
		lines = append(lines, m.renderDebug()...)
	}
	lines = append(lines, m.renderStatus(), m.renderFooter())
	return m.zones.Scan(strings.Join(lines, "\n"))
}

func (m *Model) screenWidth() int {
	if m.width > 0 {
		return m.width
	}
	return defaultWidth
}

func (m *Model) screenHeight() int {
	if m.height > 0 {
		return m.height
	}
	return defaultHeight
}

// gridHeight is the number of data rows that fit under the chrome.
func (m *Model) gridHeight() int {
	chrome := gridTop + 2 // status and footer
	if overlay := m.renderOverlay(); overlay != "" {
		chrome += lipgloss.Height(overlay)
	}
	if m.debugVisible {
		chrome += debugLines + 1
	}
	return max(m.screenHeight()-chrome, 1)
}

func (m *Model) rowLabelWidth() int {
	return len(strconv.Itoa(m.sheet.Rows()))
}

// visibleCols returns the columns that fit starting at colOffset.
func (m *Model) visibleCols() []int {
	avail := m.screenWidth() - m.rowLabelWidth()
	var cols []int
	for c := m.colOffset; c < m.sheet.Cols(); c++ {
		w := m.sheet.ColumnWidth(c) + 1
		if len(cols) > 0 && w > avail {
			break
		}
		cols = append(cols, c)
		avail -= w
	}
	return cols
}

func (m *Model) scrollToCursor() {
	cur := m.sheet.Cursor()
	h := m.gridHeight()
	if cur.Row < m.rowOffset {
		m.rowOffset = cur.Row
	}
	if cur.Row >= m.rowOffset+h {
		m.rowOffset = cur.Row - h + 1
	}
	if cur.Col < m.colOffset {
		m.colOffset = cur.Col
	}
	for m.colOffset < cur.Col {
		cols := m.visibleCols()
		if len(cols) > 0 && cols[len(cols)-1] >= cur.Col {
			break
		}
		m.colOffset++
	}
}

// cellAt maps a screen position to a grid cell.
func (m *Model) cellAt(x, y int) (row, col int, ok bool) {
	row = m.rowOffset + y - gridTop
	if y < gridTop || y-gridTop >= m.gridHeight() || row >= m.sheet.Rows() {
		return 0, 0, false
	}
	left := m.rowLabelWidth()
	for _, c := range m.visibleCols() {
		right := left + 1 + m.sheet.ColumnWidth(c)
		if x > left && x < right {
			return row, c, true
		}
		left = right
	}
	return 0, 0, false
}

func (m *Model) renderTitle() string {
	cur := m.sheet.Cursor()
	name := m.cfg.App.About.Name
	if name == "" {
		name = "keytips"
	}
	content := m.sheet.Text(cur.Row, cur.Col)
	if m.sheet.Editing() {
		content = m.input.Value()
	}
	ref := sheet.CellName(cur.Row, cur.Col)
	if sel := m.sheet.ActiveSelection(); sel.Rows > 1 || sel.Cols > 1 {
		ref = sel.String()
	}
	line := m.styles.title.Render(name) + "  " + m.styles.key.Render(ref) + "  " + content
	return ansi.Truncate(line, m.screenWidth(), "…")
}

func (m *Model) renderHeader() string {
	var b strings.Builder
	b.WriteString(strings.Repeat(" ", m.rowLabelWidth()))
	for _, c := range m.visibleCols() {
		b.WriteByte(' ')
		w := m.sheet.ColumnWidth(c)
		style := m.styles.header
		if cell, ok := m.sheet.Cell(0, c); ok && cell.Border.Has(sheet.BorderTop) {
			style = style.Underline(true)
		}
		b.WriteString(style.Render(center(sheet.ColumnName(c), w)))
	}
	return b.String()
}

func (m *Model) renderRows() []string {
	h := m.gridHeight()
	cols := m.visibleCols()
	digits := m.rowLabelWidth()
	lines := make([]string, 0, h)
	for i := 0; i < h; i++ {
		r := m.rowOffset + i
		if r >= m.sheet.Rows() {
			lines = append(lines, "")
			continue
		}
		var b strings.Builder
		b.WriteString(m.styles.header.Render(fmt.Sprintf("%*d", digits, r+1)))
		for _, c := range cols {
			b.WriteString(m.renderGap(r, c))
			b.WriteString(m.renderCell(r, c))
		}
		lines = append(lines, b.String())
	}
	return lines
}

// renderGap draws the separator left of (r, c); it shows a vertical rule
// when either neighbor has a border on that side.
func (m *Model) renderGap(r, c int) string {
	cell, _ := m.sheet.Cell(r, c)
	prev, _ := m.sheet.Cell(r, c-1)
	if cell.Border.Has(sheet.BorderLeft) || prev.Border.Has(sheet.BorderRight) {
		return m.styles.border.Render("│")
	}
	return " "
}

func (m *Model) renderCell(r, c int) string {
	w := m.sheet.ColumnWidth(c)
	pos := sheet.Pos{Row: r, Col: c}
	editing := m.sheet.Editing() && m.sheet.EditCell() == pos

	text := m.sheet.Text(r, c)
	if editing {
		text = m.input.Value() + "▏"
	}
	text = ansi.Truncate(text, w, "…")
	pad := strings.Repeat(" ", max(w-ansi.StringWidth(text), 0))
	if _, isNum := m.sheet.Value(r, c).(float64); isNum && !editing {
		text = pad + text
	} else {
		text += pad
	}

	style := m.styles.cell
	switch {
	case editing:
		style = m.styles.editing
	case m.sheet.Cursor() == pos:
		style = m.styles.cursor
	case m.sheet.ActiveSelection().Contains(pos):
		style = m.styles.selection
	}
	cell, _ := m.sheet.Cell(r, c)
	below, _ := m.sheet.Cell(r+1, c)
	if cell.Border.Has(sheet.BorderBottom) || below.Border.Has(sheet.BorderTop) {
		style = style.Underline(true)
	}
	return style.Render(text)
}

// renderOverlay draws the key tip panel: the activation label and path,
// a divider, one line per available key and the cancel hint.
func (m *Model) renderOverlay() string {
	snap := m.controller.Snapshot()
	if !snap.Active {
		return ""
	}
	return renderKeyTips(snap, m.styles)
}

func renderKeyTips(snap keytip.Snapshot, st styles) string {
	title := strings.Join(append([]string{snap.Prefix}, snap.Path...), pathSep)
	body := make([]string, 0, len(snap.Options))
	width := ansi.StringWidth(title)
	for _, opt := range snap.Options {
		line := st.key.Render(opt.Key) + "  " + opt.Caption
		width = max(width, ansi.StringWidth(line))
		body = append(body, line)
	}
	hint := "Esc to cancel"
	width = max(width, len(hint))

	lines := []string{st.title.Render(title), st.muted.Render(strings.Repeat("─", width))}
	lines = append(lines, body...)
	lines = append(lines, st.muted.Render(hint))
	return st.overlay.Render(strings.Join(lines, "\n"))
}

func (m *Model) renderDebug() []string {
	events := m.events.tail(debugLines)
	lines := []string{m.styles.muted.Render(fmt.Sprintf("events (%d)", m.events.len()))}
	for _, e := range events {
		lines = append(lines, m.styles.muted.Render("  "+e))
	}
	for len(lines) < debugLines+1 {
		lines = append(lines, "")
	}
	return lines
}

func (m *Model) renderStatus() string {
	if m.status != "" {
		if m.statusErr {
			return m.styles.key.Render(m.status)
		}
		return m.styles.status.Render(m.status)
	}
	if m.controller.Active() {
		return ""
	}
	hint := fmt.Sprintf("tap %s for key tips", m.controller.Platform().Label)
	if m.keys.Toggle.Enabled() && !m.sawModifierRelease {
		hint += fmt.Sprintf(", or press %s", m.keys.Toggle.Help().Key)
	}
	return m.styles.muted.Render(hint)
}

func (m *Model) renderFooter() string {
	parts := make([]string, 0, 6)
	for _, b := range m.keys.FooterBindings() {
		h := b.Help()
		parts = append(parts, h.Key+" "+h.Desc)
	}
	return m.styles.muted.Render(ansi.Truncate(strings.Join(parts, " · "), m.screenWidth(), "…"))
}

func center(s string, w int) string {
	s = ansi.Truncate(s, w, "")
	gap := w - ansi.StringWidth(s)
	left := gap / 2
	return strings.Repeat(" ", left) + s + strings.Repeat(" ", gap-left)
}
