package cmd

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"

	"github.com/oakwood-commons/keytips/internal/config"
	"github.com/oakwood-commons/keytips/pkg/settings"
)

// newConfigCmd groups configuration subcommands. Without a subcommand it
// prints the merged configuration.
func newConfigCmd(_ *rootOptions) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show the merged keytips configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd.Context())
			if err != nil {
				return err
			}
			out, err := marshalConfig(cfg, output)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), out)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "yaml", "output format: yaml|json|toml")

	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Print the config file in use",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			run, _ := settings.FromContext(cmd.Context())
			if run == nil || run.ConfigPath == "" {
				fmt.Fprintln(cmd.OutOrStdout(), "(embedded defaults)")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), run.ConfigPath)
			return nil
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "default",
		Short: "Print the embedded default config, a starting point for your own",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := cmd.OutOrStdout().Write(config.DefaultConfigYAML())
			return err
		},
	})
	return cmd
}

func marshalConfig(cfg config.Config, format string) (string, error) {
	switch strings.ToLower(format) {
	case "", "yaml", "yml":
		b, err := config.Marshal(cfg)
		return string(b), err
	case "json":
		b, err := json.MarshalIndent(cfg, "", "  ")
		if err != nil {
			return "", err
		}
		return string(b) + "\n", nil
	case "toml":
		b, err := toml.Marshal(cfg)
		return string(b), err
	default:
		return "", fmt.Errorf("unknown output format %q: want yaml, json or toml", format)
	}
}
