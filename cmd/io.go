package cmd

import (
	"errors"
	"io"
	"os"
	"runtime"

	tea "charm.land/bubbletea/v2"

	"github.com/oakwood-commons/keytips/pkg/loader"
)

var (
	stdinIsPiped     = func() bool { stat, _ := os.Stdin.Stat(); return (stat.Mode() & os.ModeCharDevice) == 0 }
	openTerminalIOFn = openTerminalIO
)

// loadRows reads the grid contents from the file argument or, when stdin is
// piped, from stdin. No input yields an empty grid.
func loadRows(in io.Reader, args []string) ([][]any, error) {
	var (
		rows [][]any
		err  error
	)
	switch {
	case len(args) > 0:
		rows, err = loader.LoadFile(args[0])
	case in != nil && in != os.Stdin:
		rows, err = loader.LoadReader(in, loader.FormatAuto)
	case stdinIsPiped():
		rows, err = loader.LoadReader(os.Stdin, loader.FormatAuto)
	default:
		return nil, nil
	}
	if errors.Is(err, loader.ErrEmptyInput) {
		return nil, nil
	}
	return rows, err
}

// getProgramOptions points the program at the real terminal when stdin
// carried the data, so keys still reach the grid.
func getProgramOptions() ([]tea.ProgramOption, func()) {
	cleanup := func() {}
	if !stdinIsPiped() {
		return nil, cleanup
	}

	ttyIn, ttyOut, err := openTerminalIOFn()
	if err != nil {
		// No controlling terminal (CI); the program reads the drained stdin.
		return nil, cleanup
	}
	cleanup = func() {
		_ = ttyIn.Close()
		if ttyOut != nil && ttyOut != ttyIn {
			_ = ttyOut.Close()
		}
	}

	opts := []tea.ProgramOption{tea.WithInput(ttyIn)}
	if ttyOut != nil {
		opts = append(opts, tea.WithOutput(ttyOut))
	}
	return opts, cleanup
}

func openTerminalIO() (*os.File, *os.File, error) {
	in, out := terminalDeviceNames(runtime.GOOS)

	input, err := os.OpenFile(in, os.O_RDWR, 0)
	if err != nil {
		return nil, nil, err
	}

	if out == "" || out == in {
		return input, input, nil
	}

	output, err := os.OpenFile(out, os.O_RDWR, 0)
	if err != nil {
		return input, nil, err
	}

	return input, output, nil
}

func terminalDeviceNames(goos string) (input string, output string) {
	if goos == "windows" {
		return "CONIN$", "CONOUT$"
	}

	return "/dev/tty", "/dev/tty"
}
