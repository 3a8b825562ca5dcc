package formatter

import (
	"image/color"
	"os"

	"charm.land/lipgloss/v2"
	"github.com/mattn/go-runewidth"
	"golang.org/x/term"
)

var (
	defaultHeaderFG  = lipgloss.Color("12")
	defaultKeyColor  = lipgloss.Color("14")
	defaultSeparator = lipgloss.Color("240")

	headerStyle    lipgloss.Style
	keyStyle       lipgloss.Style
	separatorStyle lipgloss.Style
)

// TableColors controls the rendered colors for listing tables.
// Empty fields fall back to ANSI 256 defaults.
type TableColors struct {
	HeaderFG       color.Color
	KeyColor       color.Color
	SeparatorColor color.Color
}

func applyTableTheme(tc TableColors) {
	hfg, kc, sep := tc.HeaderFG, tc.KeyColor, tc.SeparatorColor
	if hfg == nil {
		hfg = defaultHeaderFG
	}
	if kc == nil {
		kc = defaultKeyColor
	}
	if sep == nil {
		sep = defaultSeparator
	}
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(hfg)
	keyStyle = lipgloss.NewStyle().Foreground(kc).Bold(true)
	separatorStyle = lipgloss.NewStyle().Foreground(sep)
}

// SetTableTheme overrides the table styles. Zero-valued fields fall back to
// the defaults.
func SetTableTheme(tc TableColors) {
	applyTableTheme(tc)
}

//nolint:gochecknoinits // initialize default table theme for package consumers
func init() {
	applyTableTheme(TableColors{})
}

// truncate shortens s to maxLen display cells, ending in "..." when there is
// room for it.
func truncate(s string, maxLen int) string {
	if maxLen <= 0 || runewidth.StringWidth(s) <= maxLen {
		return s
	}
	if maxLen < 3 {
		return runewidth.Truncate(s, maxLen, "")
	}
	return runewidth.Truncate(s, maxLen, "...")
}

// padRight left-aligns s in a field of width display cells.
func padRight(s string, width int) string {
	return runewidth.FillRight(truncate(s, width), width)
}

// padLeft right-aligns s in a field of width display cells.
func padLeft(s string, width int) string {
	return runewidth.FillLeft(truncate(s, width), width)
}

// getTerminalWidth returns the terminal width, or a default if detection fails
func getTerminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return 120
	}
	return width
}
