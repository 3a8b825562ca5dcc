package formatter

import (
	"sort"
	"strconv"
	"strings"

	"github.com/mattn/go-runewidth"
)

// ColumnHint provides display hints for one column.
type ColumnHint struct {
	// MaxWidth caps the column width in display cells. 0 = no cap.
	MaxWidth int
	// Priority controls column importance when shrinking. Lower values
	// shrink first.
	Priority int
	// Align is "right" or "left" (default).
	Align string
}

// ColumnarOptions configures columnar table rendering.
type ColumnarOptions struct {
	NoColor bool

	// TotalWidth is the total available width. If 0, uses terminal width.
	TotalWidth int

	// RowNumberStyle controls how row numbers are displayed:
	//   "numbered" - 1, 2, 3
	//   "index"    - [0], [1], [2]
	//   "none"     - no row number column (default)
	RowNumberStyle string

	// ColumnHints is keyed by column header.
	ColumnHints map[string]ColumnHint
}

const (
	sepWidth    = 2
	minColWidth = 3
	maxColWidth = 48
)

// RenderColumnarTable renders rows under a header line and a rule. Each
// row holds one value per column.
func RenderColumnarTable(columns []string, rows [][]string, opts ColumnarOptions) string {
	if len(columns) == 0 {
		return ""
	}

	totalWidth := opts.TotalWidth
	if totalWidth <= 0 {
		totalWidth = getTerminalWidth()
	}

	showRowNum := opts.RowNumberStyle == "numbered" || opts.RowNumberStyle == "index"
	rowNumWidth := 0
	if showRowNum {
		rowNumWidth = len(strconv.Itoa(len(rows))) + 2
	}
	available := totalWidth
	if showRowNum {
		available -= rowNumWidth + sepWidth
	}

	hints := make([]ColumnHint, len(columns))
	for i, col := range columns {
		hints[i] = opts.ColumnHints[col]
	}
	widths := calculateColumnWidths(columns, rows, available, hints)
	sep := strings.Repeat(" ", sepWidth)

	var b strings.Builder

	header := make([]string, 0, len(columns)+1)
	if showRowNum {
		header = append(header, padRight("#", rowNumWidth))
	}
	for i, col := range columns {
		header = append(header, padRight(col, widths[i]))
	}
	line := strings.TrimRight(strings.Join(header, sep), " ")
	if !opts.NoColor {
		line = headerStyle.Render(line)
	}
	b.WriteString(line + "\n")

	ruleWidth := 0
	for _, w := range widths {
		ruleWidth += w
	}
	ruleWidth += sepWidth * (len(widths) - 1)
	if showRowNum {
		ruleWidth += rowNumWidth + sepWidth
	}
	rule := strings.Repeat("─", ruleWidth)
	if !opts.NoColor {
		rule = separatorStyle.Render(rule)
	}
	b.WriteString(rule + "\n")

	for r, row := range rows {
		parts := make([]string, 0, len(columns)+1)
		if showRowNum {
			num := strconv.Itoa(r + 1)
			if opts.RowNumberStyle == "index" {
				num = "[" + strconv.Itoa(r) + "]"
			}
			parts = append(parts, padRight(num, rowNumWidth))
		}
		for i := range columns {
			var val string
			if i < len(row) {
				val = row[i]
			}
			if hints[i].Align == "right" {
				val = padLeft(val, widths[i])
			} else {
				val = padRight(val, widths[i])
			}
			// The first column holds the key sequence.
			if i == 0 && !opts.NoColor {
				val = keyStyle.Render(val)
			}
			parts = append(parts, val)
		}
		b.WriteString(strings.TrimRight(strings.Join(parts, sep), " ") + "\n")
	}

	return b.String()
}

func calculateColumnWidths(columns []string, rows [][]string, available int, hints []ColumnHint) []int {
	widths := make([]int, len(columns))
	for i, col := range columns {
		widths[i] = runewidth.StringWidth(col)
	}
	for _, row := range rows {
		for i := 0; i < len(row) && i < len(widths); i++ {
			if w := runewidth.StringWidth(row[i]); w > widths[i] {
				widths[i] = w
			}
		}
	}
	for i := range widths {
		if limit := hints[i].MaxWidth; limit > 0 && widths[i] > limit {
			widths[i] = limit
		}
	}

	usable := available - sepWidth*(len(columns)-1)
	if usable <= 0 || sum(widths) <= usable {
		return widths
	}
	for i := range widths {
		widths[i] = min(widths[i], maxColWidth)
	}
	return shrinkByPriority(widths, usable, hints)
}

// shrinkByPriority reduces column widths to fit within usableWidth by shrinking
// lowest-priority columns first. Higher Priority values mean the column is more
// important and will be shrunk last.
func shrinkByPriority(widths []int, usableWidth int, hints []ColumnHint) []int {
	excess := sum(widths) - usableWidth
	if excess <= 0 {
		return widths
	}

	order := make([]int, len(widths))
	for i := range order {
		order[i] = i
	}
	// Among equal priorities the rightmost column goes first.
	sort.SliceStable(order, func(a, b int) bool {
		pa, pb := hints[order[a]].Priority, hints[order[b]].Priority
		if pa != pb {
			return pa < pb
		}
		return order[a] > order[b]
	})

	for _, idx := range order {
		if excess <= 0 {
			break
		}
		shrinkable := widths[idx] - minColWidth
		if shrinkable <= 0 {
			continue
		}
		shrink := min(shrinkable, excess)
		widths[idx] -= shrink
		excess -= shrink
	}
	return widths
}

func sum(ws []int) int {
	total := 0
	for _, w := range ws {
		total += w
	}
	return total
}
