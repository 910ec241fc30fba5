package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/mmcdole/boxoffice/internal/config"
	"github.com/spf13/cobra"
)

func newConfigCommand(root *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := root.cfg
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "api.base_url:        %s\n", cfg.API.BaseURL)
			fmt.Fprintf(out, "api.timeout:         %s\n", cfg.API.Timeout)
			fmt.Fprintf(out, "storage.backend:     %s\n", cfg.Storage.Backend)
			fmt.Fprintf(out, "storage.path:        %s\n", cfg.Storage.Path)
			fmt.Fprintf(out, "storage.session_ttl: %s\n", cfg.Storage.SessionTTL)
			fmt.Fprintf(out, "ui.default_search:   %s\n", cfg.UI.DefaultSearch)
			fmt.Fprintf(out, "logging.file:        %s\n", cfg.Logging.File)
			fmt.Fprintf(out, "logging.level:       %s\n", cfg.Logging.Level)
			return nil
		},
	}

	cmd.AddCommand(newConfigInitCommand(root))
	return cmd
}

func newConfigInitCommand(root *RootOptions) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:         "init",
		Short:       "Write the effective configuration to the config file",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{configOptional: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			path := root.ConfigPath
			if path == "" {
				path = filepath.Join(config.DefaultConfigPath(), "config.yaml")
			}
			if !force {
				if _, err := os.Stat(path); err == nil {
					return fmt.Errorf("%s already exists (use --force to overwrite)", path)
				}
			}

			written, err := config.SaveConfig(root.cfg, path)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Configuration saved to %s\n", written)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite an existing file")
	return cmd
}
