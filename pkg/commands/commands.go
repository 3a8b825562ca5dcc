// Package commands holds the keytip command catalog for the spreadsheet host.
package commands

import (
	"regexp"
	"strings"

	"github.com/oakwood-commons/keytips/pkg/keytip"
	"github.com/oakwood-commons/keytips/pkg/sheet"
)

// SheetEffect adapts a sheet operation to keytip.Effect. Hosts that are not
// a *sheet.Sheet are ignored.
type SheetEffect func(s *sheet.Sheet)

// Apply runs f when host is a sheet.
func (f SheetEffect) Apply(host keytip.Surface) {
	if s, ok := host.(*sheet.Sheet); ok && s != nil {
		f(s)
	}
}

// Capture remembers the most recent text the host copied or cut.
type Capture struct {
	text string
}

// Observe records text from a copy or cut. Empty text is ignored.
func (c *Capture) Observe(text string) {
	if text != "" {
		c.text = text
	}
}

// Text returns the captured text and whether anything was captured.
func (c *Capture) Text() (string, bool) {
	if c == nil || c.text == "" {
		return "", false
	}
	return c.text, true
}

// Default returns the built-in catalog. Paste reads from capture.
func Default(capture *Capture) []keytip.Command {
	return []keytip.Command{
		{
			Keys:        []string{"H", "V", "V"},
			Labels:      []string{"Home", "Paste", "Values"},
			Description: "Paste values",
			Effect:      PasteValues(capture),
		},
		{
			Keys:        []string{"H", "B", "B"},
			Labels:      []string{"Home", "Borders", "Bottom"},
			Description: "Add bottom border to selected cells",
			Effect:      AddBorder(sheet.BorderBottom),
		},
		{
			Keys:        []string{"H", "B", "T"},
			Labels:      []string{"Home", "Borders", "Top"},
			Description: "Add top border to selected cells",
			Effect:      AddBorder(sheet.BorderTop),
		},
		{
			Keys:        []string{"H", "B", "N"},
			Labels:      []string{"Home", "Borders", "No Border"},
			Description: "Remove borders from selected cells",
			Effect:      ClearBorders(),
		},
		{
			Keys:        []string{"H", "O", "I"},
			Labels:      []string{"Home", "Format", "AutoFit Width"},
			Description: "Adjust column width to fit content",
			Effect:      AutoFit(),
		},
		{
			Keys:        []string{"A", "S"},
			Labels:      []string{"Data", "Sort Descending"},
			Description: "Sort selected cells in descending order",
			Effect:      Sort(false),
		},
		{
			Keys:        []string{"A", "A"},
			Labels:      []string{"Data", "Sort Ascending"},
			Description: "Sort selected cells in ascending order",
			Effect:      Sort(true),
		},
	}
}

var lineBreak = regexp.MustCompile(`\r?\n`)

// SplitClipboard turns tab separated text into rows of raw cell strings.
// One trailing line break is dropped.
func SplitClipboard(text string) [][]string {
	if strings.HasSuffix(text, "\r\n") {
		text = text[:len(text)-2]
	} else {
		text = strings.TrimSuffix(text, "\n")
	}
	lines := lineBreak.Split(text, -1)
	rows := make([][]string, len(lines))
	for i, line := range lines {
		rows[i] = strings.Split(line, "\t")
	}
	return rows
}

// PasteValues writes the captured text into the sheet starting at the
// selection's top-left cell. Numbers are stored as numbers, empty fields
// clear the cell and cells past the grid edge are dropped.
func PasteValues(capture *Capture) keytip.Effect {
	return SheetEffect(func(s *sheet.Sheet) {
		text, ok := capture.Text()
		if !ok {
			return
		}
		sel := s.ActiveSelection()
		if sel.Empty() {
			return
		}
		s.SuspendPaint()
		defer s.ResumePaint()
		for r, row := range SplitClipboard(text) {
			for c, raw := range row {
				_ = s.SetValue(sel.Row+r, sel.Col+c, sheet.ParseValue(raw))
			}
		}
	})
}

// AddBorder draws edges around the selection.
func AddBorder(b sheet.Border) keytip.Effect {
	return SheetEffect(func(s *sheet.Sheet) {
		if sel := s.ActiveSelection(); !sel.Empty() {
			s.SetBorder(sel, b)
		}
	})
}

// ClearBorders removes all edges inside the selection.
func ClearBorders() keytip.Effect {
	return SheetEffect(func(s *sheet.Sheet) {
		if sel := s.ActiveSelection(); !sel.Empty() {
			s.ClearBorders(sel)
		}
	})
}

// AutoFit sizes every selected column to its content.
func AutoFit() keytip.Effect {
	return SheetEffect(func(s *sheet.Sheet) {
		sel := s.ActiveSelection()
		for c := sel.Col; c < sel.Col+sel.Cols; c++ {
			s.AutoFitColumn(c)
		}
	})
}

// Sort orders the selected rows by the selection's first column.
func Sort(ascending bool) keytip.Effect {
	return SheetEffect(func(s *sheet.Sheet) {
		sel := s.ActiveSelection()
		if sel.Empty() {
			return
		}
		s.SortRange(sel, sel.Col, ascending)
	})
}
