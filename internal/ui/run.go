package ui

import (
	"context"
	"errors"

	tea "charm.land/bubbletea/v2"

	"github.com/oakwood-commons/keytips/internal/config"
)

// RunOptions configures an interactive session.
type RunOptions struct {
	Options
	// StartKeys are applied before the first frame.
	StartKeys []string
	// ConfigPath is watched for changes when non-empty; a change rebuilds
	// the command registry.
	ConfigPath     string
	ProgramOptions []tea.ProgramOption
}

// Run starts the Bubble Tea program and blocks until it exits.
func Run(ctx context.Context, opts RunOptions) error {
	m, err := NewModel(opts.Options)
	if err != nil {
		return err
	}
	defer m.Close()
	ApplyStartupKeys(m, opts.StartKeys)

	progOpts := append([]tea.ProgramOption{tea.WithContext(ctx)}, opts.ProgramOptions...)
	if opts.Width > 0 && opts.Height > 0 {
		progOpts = append(progOpts, tea.WithWindowSize(opts.Width, opts.Height))
	}
	p := tea.NewProgram(m, progOpts...)

	if opts.ConfigPath != "" {
		stop, err := watchConfig(ctx, opts.ConfigPath, p.Send)
		if err != nil {
			m.log.Info("config file will not be watched", "path", opts.ConfigPath, "error", err.Error())
		} else {
			defer stop()
		}
	}

	_, err = p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}

// watchConfig forwards config file changes into the program. The reload
// itself runs on the UI goroutine when the message is handled.
func watchConfig(ctx context.Context, path string, send func(tea.Msg)) (stop func(), err error) {
	w, err := config.NewWatcher(path, func(changed string) {
		send(ConfigChangedMsg{Path: changed})
	})
	if err != nil {
		return nil, err
	}
	wctx, cancel := context.WithCancel(ctx)
	go func() { _ = w.Run(wctx) }()
	return func() {
		cancel()
		_ = w.Close()
	}, nil
}

// SnapshotOptions configures a single rendered frame.
type SnapshotOptions struct {
	Options
	StartKeys []string
}

// RenderSnapshot renders one frame after applying the start keys. It is
// used for --snapshot and in tests.
func RenderSnapshot(opts SnapshotOptions) (string, error) {
	m, err := NewModel(opts.Options)
	if err != nil {
		return "", err
	}
	defer m.Close()
	ApplyStartupKeys(m, opts.StartKeys)
	return m.Render(), nil
}
