package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/adamancini/binfetch/internal/config"
)

// toolStatus is one row of the list output: the registry entry plus its
// on-disk state.
type toolStatus struct {
	config.Tool `yaml:",inline"`
	Installed   bool   `json:"installed" yaml:"installed"`
	InstallPath string `json:"install_path" yaml:"install_path"`
}

func newListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List registered tools",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			rows := toolStatuses(cfg)
			w, err := newOutputWriter()
			if err != nil {
				return err
			}
			return w.Write(listReport(rows))
		},
	}

	return cmd
}

// toolStatuses joins the registry with the install directory contents.
func toolStatuses(cfg *config.Config) []toolStatus {
	installDir := cfg.InstallDir()
	tools := cfg.List()
	rows := make([]toolStatus, 0, len(tools))
	for _, t := range tools {
		path := filepath.Join(installDir, t.Binary())
		_, err := os.Stat(path)
		rows = append(rows, toolStatus{
			Tool:        t,
			Installed:   err == nil,
			InstallPath: path,
		})
	}
	return rows
}

type listReport []toolStatus

func (r listReport) Text() string {
	if len(r) == 0 {
		return "No tools registered. Add one with: binfetch add <owner/repo>"
	}
	lines := make([]string, 0, len(r))
	for _, row := range r {
		version := row.Version
		if version == "" {
			version = "-"
		}
		state := "installed"
		if !row.Installed {
			state = "missing"
		}
		lines = append(lines, fmt.Sprintf("%-20s %-30s %-12s %s", row.Name, row.Repo, version, state))
	}
	return strings.Join(lines, "\n")
}
