package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/adamancini/binfetch/internal/update"
)

func newCheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Report which tools have newer releases",
		Long:  `Resolve the latest release of every registered tool and report which ones are outdated. Nothing is downloaded or installed.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			infos := newPipeline(cfg).Check(cmd.Context())

			w, err := newOutputWriter()
			if err != nil {
				return err
			}
			if err := w.Write(checkReport(infos)); err != nil {
				return err
			}

			failed := 0
			for _, info := range infos {
				if info.Err != nil {
					failed++
				}
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d checks failed", failed, len(infos))
			}
			return nil
		},
	}

	return cmd
}

type checkReport []update.CheckInfo

func (r checkReport) Text() string {
	if len(r) == 0 {
		return "No tools registered."
	}
	lines := make([]string, 0, len(r))
	for _, info := range r {
		switch {
		case info.Err != nil:
			lines = append(lines, fmt.Sprintf("%-20s check failed: %v", info.Tool, info.Err))
		case info.Outdated:
			current := info.Current
			if current == "" {
				current = "(not installed)"
			}
			lines = append(lines, fmt.Sprintf("%-20s %s -> %s", info.Tool, current, info.Latest))
		default:
			lines = append(lines, fmt.Sprintf("%-20s up to date (%s)", info.Tool, info.Current))
		}
	}
	return strings.Join(lines, "\n")
}
