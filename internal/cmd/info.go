package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/adamancini/binfetch/internal/config"
)

func newInfoCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "info <name>",
		Short: "Show one tool's registry entry and install state",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			tool, ok := cfg.Get(args[0])
			if !ok {
				return &config.UnknownToolError{Name: args[0]}
			}

			path := filepath.Join(cfg.InstallDir(), tool.Binary())
			_, statErr := os.Stat(path)
			row := toolStatus{
				Tool:        tool,
				Installed:   statErr == nil,
				InstallPath: path,
			}

			w, err := newOutputWriter()
			if err != nil {
				return err
			}
			return w.Write(infoReport(row))
		},
	}

	return cmd
}

type infoReport toolStatus

func (r infoReport) Text() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Name:     %s\n", r.Name)
	fmt.Fprintf(&b, "Repo:     %s\n", r.Repo)
	if r.BinaryName != "" {
		fmt.Fprintf(&b, "Binary:   %s\n", r.BinaryName)
	}
	if r.AssetPattern != "" {
		fmt.Fprintf(&b, "Pattern:  %s\n", r.AssetPattern)
	}
	if r.Version != "" {
		fmt.Fprintf(&b, "Version:  %s\n", r.Version)
	} else {
		fmt.Fprintf(&b, "Version:  (never installed)\n")
	}
	state := "missing"
	if r.Installed {
		state = "installed"
	}
	fmt.Fprintf(&b, "Path:     %s (%s)", r.InstallPath, state)
	return b.String()
}
