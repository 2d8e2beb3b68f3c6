package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/rohits-web03/webfile/internal/config"
)

func newConfigCommand(s *state) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Print the configuration as YAML",
		Long: `Print the default configuration as YAML.

With --effective the loaded configuration (files, .env and environment)
is printed instead, with credentials masked.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			effective, _ := cmd.Flags().GetBool("effective")
			output, _ := cmd.Flags().GetString("output")

			cfg := config.Default()
			if effective {
				loaded, err := s.load()
				if err != nil {
					return err
				}
				cfg = loaded.Redacted()
			}

			data, err := yaml.Marshal(cfg)
			if err != nil {
				return fmt.Errorf("failed to marshal config: %w", err)
			}

			if output == "" {
				_, err = cmd.OutOrStdout().Write(data)
				return err
			}
			if err := os.WriteFile(output, data, 0o644); err != nil {
				return fmt.Errorf("failed to write config file %s: %w", output, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Generated %s\n", output)
			return nil
		},
	}

	cmd.Flags().Bool("effective", false, "print the loaded configuration instead of the defaults")
	cmd.Flags().StringP("output", "o", "", "write to this file instead of stdout")

	return cmd
}
