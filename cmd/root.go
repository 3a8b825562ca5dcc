package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/oakwood-commons/keytips/internal/config"
	"github.com/oakwood-commons/keytips/internal/limiter"
	"github.com/oakwood-commons/keytips/pkg/logger"
	"github.com/oakwood-commons/keytips/pkg/settings"
	"github.com/oakwood-commons/keytips/pkg/tui"
)

// rootOptions holds the flags shared by every subcommand plus the ones
// only the grid uses.
type rootOptions struct {
	configFile string
	debug      bool
	logFile    string
	modifier   modifierValue

	press    []string
	snapshot bool
	width    int
	height   int
	noColor  bool
	rows     int
	cols     int
	limits   limiter.Config
}

// NewRootCommand builds the keytips command tree.
func NewRootCommand() *cobra.Command {
	o := &rootOptions{}
	cmd := &cobra.Command{
		Use:   settings.CliBinaryName + " [file]",
		Short: "Spreadsheet grid driven by modifier-activated key sequences",
		Long: `keytips opens a CSV, TSV, JSON, YAML or TOML file (or piped data) in a
terminal grid. Tap the activation modifier (Alt, or Meta on macOS) on its own
to show key tips, then type a sequence such as H V V to paste values.

Terminals that cannot report key releases toggle key tips with the fallback
key (F10 by default).`,
		Example: `  keytips data.csv
  cat data.json | keytips
  keytips data.csv --snapshot --press "<Alt>H"
  keytips commands -o tree`,
		Args:              cobra.MaximumNArgs(1),
		Version:           versionString(),
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: o.setup,
		RunE:              o.run,
	}
	cmd.SetVersionTemplate("{{.Version}}\n")

	pf := cmd.PersistentFlags()
	pf.StringVar(&o.configFile, "config-file", "", "path to a YAML config file (default $XDG_CONFIG_HOME/keytips/config.yaml)")
	pf.BoolVar(&o.debug, "debug", false, "debug logging and the key tip event panel")
	pf.StringVar(&o.logFile, "log-file", "", "write logs to this file (the grid discards logs otherwise)")
	pf.Var(&o.modifier, "modifier", "activation modifier: auto|alt|meta (default from config)")

	f := cmd.Flags()
	f.StringArrayVar(&o.press, "press", nil, "simulate keys on startup. <Alt> and <Meta> tap the modifier, <A-x> holds it. Example: --press \"<Alt>HVV\"")
	f.BoolVar(&o.snapshot, "snapshot", false, "render a single frame and exit; honors --width/--height")
	f.IntVar(&o.width, "width", 0, "screen width in columns (default: terminal width)")
	f.IntVar(&o.height, "height", 0, "screen height in rows (default: terminal height)")
	f.BoolVar(&o.noColor, "no-color", false, "disable color output")
	f.IntVar(&o.rows, "rows", 0, "minimum grid rows (default from config)")
	f.IntVar(&o.cols, "cols", 0, "minimum grid columns (default from config)")
	f.IntVar(&o.limits.Limit, "limit", 0, "load only the first N input rows")
	f.IntVar(&o.limits.Offset, "offset", 0, "skip the first N input rows")
	f.IntVar(&o.limits.Tail, "tail", 0, "load only the last N input rows (excludes --limit)")
	f.BoolVar(&o.limits.Header, "header", false, "keep the first input row when limiting")

	cmd.AddCommand(
		newCommandsCmd(o),
		newDocsCmd(o),
		newConfigCmd(o),
		newVersionCmd(),
	)
	return cmd
}

// Execute runs the root command.
func Execute() error {
	return NewRootCommand().ExecuteContext(context.Background())
}

// setup initializes logging and stores the run settings in the context.
func (o *rootOptions) setup(cmd *cobra.Command, _ []string) error {
	run := settings.NewCliParams()
	run.ConfigPath = config.ResolvePath(o.configFile)
	run.Modifier = o.modifier.String()
	run.LogFile = o.logFile
	run.NoColor = o.noColor
	if o.debug {
		run.MinLogLevel = -1
	}

	switch {
	case o.logFile != "":
		if err := logger.SetOutputPath(o.logFile); err != nil {
			return err
		}
	case cmd.Root() == cmd && !o.snapshot:
		// The grid owns the terminal.
		logger.SetOutput(io.Discard)
	}

	lgr := logger.WithValues(logger.Get(run.MinLogLevel), logger.RootCommandKey, cmd.Root().Name(), logger.SubCommandKey, cmd.Name())
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = logger.WithLogger(ctx, lgr)
	ctx = settings.IntoContext(ctx, run)
	cmd.SetContext(ctx)
	return nil
}

// loadConfig loads the merged config for this run.
func loadConfig(ctx context.Context) (config.Config, error) {
	run, ok := settings.FromContext(ctx)
	if !ok {
		return config.Default()
	}
	return config.Load(run.ConfigPath)
}

func (o *rootOptions) run(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	lgr := logger.FromContext(ctx)
	run, _ := settings.FromContext(ctx)

	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}
	if o.rows > 0 {
		cfg.UI.Grid.Rows = o.rows
	}
	if o.cols > 0 {
		cfg.UI.Grid.Cols = o.cols
	}

	if err := o.limits.Validate(); err != nil {
		return err
	}
	rows, err := loadRows(cmd.InOrStdin(), args)
	if err != nil {
		return err
	}
	rows = limiter.Apply(o.limits, rows)
	lgr.V(1).Info("input loaded", "rows", len(rows), "config", run.ConfigPath)

	tcfg := tui.Config{
		Settings:     cfg,
		SettingsPath: run.ConfigPath,
		Rows:         rows,
		Modifier:     run.Modifier,
		Width:        o.width,
		Height:       o.height,
		NoColor:      o.noColor,
		Debug:        o.debug,
		StartKeys:    o.press,
		Logger:       *lgr,
	}

	if o.snapshot {
		out, err := tui.RenderSnapshot(tcfg)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), out)
		return nil
	}

	progOpts, cleanup := getProgramOptions()
	defer cleanup()
	return tui.Run(ctx, tcfg, progOpts...)
}
