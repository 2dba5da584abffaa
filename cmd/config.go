package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/oakwood-commons/combox/internal/config"
)

func newConfigCmd(o *rootOptions) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Show the merged configuration",
		Long: `Print the embedded defaults overlaid with the config file and the command
line overrides. With -o raw the embedded defaults are printed verbatim.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return renderOrRaw(cmd.OutOrStdout(), o.cfg, string(config.DefaultConfigYAML()), o.output)
		},
	}

	configCmd.AddCommand(
		&cobra.Command{
			Use:   "themes",
			Short: "List available themes",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				var b strings.Builder
				for _, name := range o.cfg.ThemeNames() {
					marker := "  "
					if name == o.cfg.UI.Theme {
						marker = "* "
					}
					b.WriteString(marker + name + "\n")
				}
				_, err := fmt.Fprint(cmd.OutOrStdout(), b.String())
				return err
			},
		},
		&cobra.Command{
			Use:   "path",
			Short: "Print the config file in use",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				path := config.ResolvePath(o.configFile)
				if path == "" {
					path = "(embedded defaults)"
				}
				_, err := fmt.Fprintln(cmd.OutOrStdout(), path)
				return err
			},
		},
		&cobra.Command{
			Use:   "validate",
			Short: "Check the merged configuration",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				if err := o.cfg.Validate(); err != nil {
					return fmt.Errorf("invalid configuration: %w", err)
				}
				_, err := fmt.Fprintf(cmd.OutOrStdout(), "ok: %d field(s)\n", len(o.cfg.Fields))
				return err
			},
		},
	)
	return configCmd
}
