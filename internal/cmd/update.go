package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/adamancini/binfetch/internal/update"
)

func newUpdateCmd() *cobra.Command {
	var all, force bool
	var tag string

	cmd := &cobra.Command{
		Use:   "update [name]",
		Short: "Update one tool or all of them",
		Long: `Update a registered tool to its latest release. With --all (or no name),
every registered tool is updated; failures are reported per tool and do not
stop the rest.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			pipeline := newPipeline(cfg)
			opts := update.UpdateOptions{Force: force, Tag: tag}

			if all || len(args) == 0 {
				if tag != "" {
					return fmt.Errorf("--tag requires a single tool name")
				}
				results := pipeline.UpdateAll(cmd.Context(), opts)
				if err := writeResults(results...); err != nil {
					return err
				}
				failed := 0
				for _, r := range results {
					if r.Err != nil {
						failed++
					}
				}
				if failed > 0 {
					return fmt.Errorf("%d of %d tools failed", failed, len(results))
				}
				return nil
			}

			result := pipeline.Update(cmd.Context(), args[0], opts)
			if err := writeResults(result); err != nil {
				return err
			}
			if result.Err != nil {
				return fmt.Errorf("update failed")
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&all, "all", "a", false, "Update all registered tools")
	cmd.Flags().BoolVarP(&force, "force", "f", false, "Reinstall even if already up to date")
	cmd.Flags().StringVarP(&tag, "tag", "t", "", "Update to a specific release tag")

	return cmd
}
