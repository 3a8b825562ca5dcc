package ui

import (
	"image/color"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/oakwood-commons/keytips/internal/config"
)

// Theme holds the colors used by the grid, the key tip overlay and the
// footer.
type Theme struct {
	HeaderFG    color.Color // column letters and row numbers
	CursorBG    color.Color // cell under the cursor
	SelectionBG color.Color // other selected cells
	BorderFG    color.Color // cell borders
	OverlayBG   color.Color // key tip panel background
	KeyFG       color.Color // key badges in the overlay
	MutedFG     color.Color // footer, hints, dividers
}

// fallbackTheme is used for colors the configuration leaves empty.
func fallbackTheme() Theme {
	return Theme{
		HeaderFG:    lipgloss.Color("81"),
		CursorBG:    lipgloss.Color("178"),
		SelectionBG: lipgloss.Color("24"),
		BorderFG:    lipgloss.Color("252"),
		OverlayBG:   lipgloss.Color("236"),
		KeyFG:       lipgloss.Color("203"),
		MutedFG:     lipgloss.Color("244"),
	}
}

// ThemeFromConfig builds a theme from configured color tokens (hex or ANSI
// numbers).
func ThemeFromConfig(cfg config.ThemeConfig) Theme {
	th := fallbackTheme()
	set := func(dst *color.Color, token string) {
		if token = strings.TrimSpace(token); token != "" {
			*dst = lipgloss.Color(token)
		}
	}
	set(&th.HeaderFG, cfg.Header)
	set(&th.CursorBG, cfg.Cursor)
	set(&th.SelectionBG, cfg.Selection)
	set(&th.BorderFG, cfg.Border)
	set(&th.OverlayBG, cfg.Overlay)
	set(&th.KeyFG, cfg.Key)
	set(&th.MutedFG, cfg.Muted)
	return th
}

// styles are the lipgloss styles derived from a Theme. With NoColor every
// style falls back to reverse video or plain text.
type styles struct {
	header    lipgloss.Style
	cell      lipgloss.Style
	cursor    lipgloss.Style
	selection lipgloss.Style
	border    lipgloss.Style
	editing   lipgloss.Style
	overlay   lipgloss.Style
	key       lipgloss.Style
	muted     lipgloss.Style
	status    lipgloss.Style
	title     lipgloss.Style
}

func newStyles(th Theme, noColor bool) styles {
	base := lipgloss.NewStyle()
	if noColor {
		return styles{
			header:    base.Bold(true),
			cell:      base,
			cursor:    base.Reverse(true),
			selection: base.Underline(true),
			border:    base,
			editing:   base.Reverse(true).Bold(true),
			overlay:   base.Border(lipgloss.NormalBorder()).Padding(0, 1),
			key:       base.Bold(true),
			muted:     base,
			status:    base,
			title:     base.Bold(true),
		}
	}
	return styles{
		header:    base.Foreground(th.HeaderFG).Bold(true),
		cell:      base,
		cursor:    base.Background(th.CursorBG).Foreground(lipgloss.Color("0")),
		selection: base.Background(th.SelectionBG),
		border:    base.Foreground(th.BorderFG),
		editing:   base.Background(th.CursorBG).Foreground(lipgloss.Color("0")).Bold(true),
		overlay: base.Background(th.OverlayBG).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(th.HeaderFG).
			Padding(0, 1),
		key:    base.Foreground(th.KeyFG).Bold(true),
		muted:  base.Foreground(th.MutedFG),
		status: base.Foreground(th.HeaderFG),
		title:  base.Foreground(th.HeaderFG).Bold(true),
	}
}
