package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/adamancini/binfetch/internal/interactive"
)

func newRemoveCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:     "remove <name>",
		Aliases: []string{"rm"},
		Short:   "Remove a tool and its installed binary",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]

			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			if !yes && interactive.StdinIsTerminal() {
				prompter := interactive.NewPrompter(os.Stdin, os.Stdout)
				ok, err := prompter.Confirm(fmt.Sprintf("Remove %s and delete its binary?", name))
				if err != nil {
					return err
				}
				if !ok {
					return nil
				}
			}

			result := newPipeline(cfg).Remove(name)
			if err := writeResults(result); err != nil {
				return err
			}
			if result.Err != nil {
				return fmt.Errorf("remove failed")
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")

	return cmd
}
