package cmd

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"

	"github.com/oakwood-commons/keytips/internal/config"
	"github.com/oakwood-commons/keytips/internal/formatter"
	"github.com/oakwood-commons/keytips/pkg/commands"
	"github.com/oakwood-commons/keytips/pkg/keytip"
)

const (
	sourceBuiltin = "builtin"
	sourceConfig  = "config"
)

// commandEntry is one row of the command listing.
type commandEntry struct {
	Keys        string   `json:"keys" yaml:"keys" toml:"keys"`
	Path        []string `json:"path" yaml:"path" toml:"path"`
	Description string   `json:"description,omitempty" yaml:"description,omitempty" toml:"description,omitempty"`
	Source      string   `json:"source" yaml:"source" toml:"source"`
	Expr        string   `json:"expr,omitempty" yaml:"expr,omitempty" toml:"expr,omitempty"`
}

// commandListing is the document written for structured formats. TOML
// cannot encode a top-level array.
type commandListing struct {
	Commands []commandEntry `json:"commands" yaml:"commands" toml:"commands"`
}

// buildListing builds the registry exactly as the grid does and describes
// every command, sorted by key sequence.
func buildListing(cfg config.Config) ([]commandEntry, *keytip.Node, error) {
	cmds, err := commands.Build(&commands.Capture{}, cfg.RegistryOptions())
	if err != nil {
		return nil, nil, err
	}
	root, err := keytip.Compile(cmds)
	if err != nil {
		return nil, nil, err
	}

	exprs := make(map[string]string, len(cfg.KeyTips.Commands))
	for _, ec := range cfg.KeyTips.Commands {
		exprs[keytip.Command{Keys: keytip.ParseSequence(ec.Keys)}.Sequence()] = ec.Expr
	}

	entries := make([]commandEntry, 0, len(cmds))
	seen := make(map[string]int, len(cmds))
	for _, c := range cmds {
		seq := c.Sequence()
		e := commandEntry{Keys: seq, Description: c.Description, Source: sourceBuiltin}
		if expr, ok := exprs[seq]; ok {
			e.Source = sourceConfig
			e.Expr = expr
		}
		node := root
		for _, k := range c.Keys {
			node, _ = node.Child(k)
			e.Path = append(e.Path, node.Label())
		}
		// A later duplicate replaces the earlier command.
		if i, ok := seen[seq]; ok {
			entries[i] = e
			continue
		}
		seen[seq] = len(entries)
		entries = append(entries, e)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Keys < entries[j].Keys })
	return entries, root, nil
}

func newCommandsCmd(_ *rootOptions) *cobra.Command {
	var (
		output    string
		depth     int
		direction string
		width     int
		noColor   bool
	)
	cmd := &cobra.Command{
		Use:   "commands",
		Short: "List the registered key sequences",
		Long: `List every key sequence the grid registers: the built-in catalog minus
keytips.disabled, plus expression commands from keytips.commands.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd.Context())
			if err != nil {
				return err
			}
			entries, root, err := buildListing(cfg)
			if err != nil {
				return err
			}
			formatter.SetTableTheme(tableColors(cfg.UI.Theme))
			out, err := renderListing(entries, root, listingOptions{
				format:    output,
				depth:     depth,
				direction: direction,
				width:     width,
				noColor:   noColor || cfg.NoColor(),
				title:     cfg.App.About.Name,
			})
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), out)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "table", "output format: table|tree|mermaid|markdown|yaml|json|toml")
	cmd.Flags().IntVar(&depth, "tree-depth", 0, "limit tree depth (0 = unlimited)")
	cmd.Flags().StringVar(&direction, "mermaid-direction", "LR", "Mermaid diagram direction: TD, LR, BT, RL")
	cmd.Flags().IntVar(&width, "width", 0, "table width in columns (default: terminal width)")
	cmd.Flags().BoolVar(&noColor, "no-color", false, "disable color output")
	return cmd
}

// tableColors reuses the grid theme for listings. Unset colors keep the
// formatter defaults.
func tableColors(th config.ThemeConfig) formatter.TableColors {
	var tc formatter.TableColors
	if th.Header != "" {
		tc.HeaderFG = lipgloss.Color(th.Header)
	}
	if th.Key != "" {
		tc.KeyColor = lipgloss.Color(th.Key)
	}
	if th.Muted != "" {
		tc.SeparatorColor = lipgloss.Color(th.Muted)
	}
	return tc
}

type listingOptions struct {
	format    string
	depth     int
	direction string
	width     int
	noColor   bool
	title     string
}

func renderListing(entries []commandEntry, root *keytip.Node, opts listingOptions) (string, error) {
	switch strings.ToLower(opts.format) {
	case "", "table":
		rows := make([][]string, len(entries))
		for i, e := range entries {
			rows[i] = []string{e.Keys, strings.Join(e.Path, " › "), e.Description, e.Source}
		}
		return formatter.RenderColumnarTable([]string{"KEYS", "PATH", "DESCRIPTION", "SOURCE"}, rows, formatter.ColumnarOptions{
			NoColor:    opts.noColor,
			TotalWidth: opts.width,
			ColumnHints: map[string]formatter.ColumnHint{
				"KEYS":        {Priority: 10},
				"PATH":        {Priority: 5},
				"DESCRIPTION": {Priority: 1},
				"SOURCE":      {Priority: 0, MaxWidth: 8},
			},
		}), nil
	case "tree":
		return formatter.FormatKeyTree(root, formatter.TreeOptions{MaxDepth: opts.depth}), nil
	case "mermaid":
		return formatter.FormatKeyMermaid(root, formatter.MermaidOptions{Direction: strings.ToUpper(opts.direction)}), nil
	case "markdown", "md":
		return renderMarkdown(entries, opts.title), nil
	case "yaml", "yml":
		return formatter.FormatYAML(commandListing{Commands: entries}, formatter.YAMLFormatOptions{LiteralBlockStrings: true})
	case "json":
		b, err := json.MarshalIndent(commandListing{Commands: entries}, "", "  ")
		if err != nil {
			return "", err
		}
		return string(b) + "\n", nil
	case "toml":
		b, err := toml.Marshal(commandListing{Commands: entries})
		if err != nil {
			return "", err
		}
		return string(b), nil
	default:
		return "", fmt.Errorf("unknown output format %q: want table, tree, mermaid, markdown, yaml, json or toml", opts.format)
	}
}
