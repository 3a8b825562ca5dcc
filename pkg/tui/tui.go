package tui

import (
	"context"
	"io"
	"os"
	"strconv"

	tea "charm.land/bubbletea/v2"
	"golang.org/x/term"

	"github.com/oakwood-commons/keytips/internal/ui"
)

// defaultFallbackTermWidth is used when terminal size cannot be detected.
const defaultFallbackTermWidth = 120

// DetectTerminalSize returns the best-effort terminal width and height by probing
// stdout, stderr, and stdin, then falling back to the COLUMNS environment variable.
// If detection fails completely, returns (120, 24) so snapshots rendered in CI
// still have a usable size.
func DetectTerminalSize() (width int, height int) {
	fds := []uintptr{os.Stdout.Fd(), os.Stderr.Fd(), os.Stdin.Fd()}
	for _, fd := range fds {
		if w, h, err := term.GetSize(int(fd)); err == nil && (w > 0 || h > 0) {
			return w, h
		}
	}
	if col := os.Getenv("COLUMNS"); col != "" {
		if w, err := strconv.Atoi(col); err == nil && w > 0 {
			return w, 0
		}
	}
	return defaultFallbackTermWidth, 24
}

func (c Config) options() ui.Options {
	return ui.Options{
		Config:   c.Settings,
		Rows:     c.Rows,
		Modifier: c.Modifier,
		NoColor:  c.NoColor,
		Debug:    c.Debug,
		Logger:   c.Logger,
		Width:    c.Width,
		Height:   c.Height,
	}
}

// Run starts the Bubble Tea program and blocks until the user quits or ctx
// is cancelled. Host applications can pass tea.ProgramOption values to
// control IO (see WithIO).
func Run(ctx context.Context, cfg Config, opts ...tea.ProgramOption) error {
	return ui.Run(ctx, ui.RunOptions{
		Options:        cfg.options(),
		StartKeys:      cfg.StartKeys,
		ConfigPath:     cfg.SettingsPath,
		ProgramOptions: opts,
	})
}

// RenderSnapshot renders a single frame after applying cfg.StartKeys and
// returns it as a string. Zero width or height is filled in from
// DetectTerminalSize.
func RenderSnapshot(cfg Config) (string, error) {
	if cfg.Width <= 0 || cfg.Height <= 0 {
		w, h := DetectTerminalSize()
		if cfg.Width <= 0 {
			cfg.Width = w
		}
		if cfg.Height <= 0 {
			cfg.Height = h
		}
		if cfg.Height <= 0 {
			cfg.Height = 24
		}
	}
	return ui.RenderSnapshot(ui.SnapshotOptions{
		Options:   cfg.options(),
		StartKeys: cfg.StartKeys,
	})
}

// WithIO returns tea.ProgramOptions to set custom input/output.
func WithIO(in io.Reader, out io.Writer) []tea.ProgramOption {
	opts := []tea.ProgramOption{}
	if in != nil {
		opts = append(opts, tea.WithInput(in))
	}
	if out != nil {
		opts = append(opts, tea.WithOutput(out))
	}
	return opts
}
