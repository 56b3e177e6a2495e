package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/adamancini/binfetch/internal/config"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or change binfetch settings",
	}

	cmd.AddCommand(newConfigShowCmd())
	cmd.AddCommand(newConfigSetCmd())
	cmd.AddCommand(newConfigPathCmd())

	return cmd
}

func newConfigShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show current settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			w, err := newOutputWriter()
			if err != nil {
				return err
			}
			return w.Write(settingsReport{
				InstallDir:         cfg.Settings.InstallDir,
				InstallDirExpanded: cfg.InstallDir(),
				Tools:              len(cfg.Tools),
			})
		},
	}
}

func newConfigSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a configuration key (install_dir)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, value := args[0], args[1]
			if key != "install_dir" {
				return fmt.Errorf("unknown configuration key %q (supported: install_dir)", key)
			}

			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			cfg.Settings.InstallDir = value
			if err := cfg.Save(); err != nil {
				return err
			}
			if !quiet {
				fmt.Printf("install_dir = %s\n", value)
			}
			return nil
		},
	}
}

func newConfigPathCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the registry file location",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := config.Path(configPath)
			if err != nil {
				return err
			}
			fmt.Println(path)
			return nil
		},
	}
}

type settingsReport struct {
	InstallDir         string `json:"install_dir" yaml:"install_dir"`
	InstallDirExpanded string `json:"install_dir_expanded" yaml:"install_dir_expanded"`
	Tools              int    `json:"tools" yaml:"tools"`
}

func (r settingsReport) Text() string {
	return fmt.Sprintf("install_dir: %s (%s)\ntools:       %d", r.InstallDir, r.InstallDirExpanded, r.Tools)
}
