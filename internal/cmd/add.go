package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/adamancini/binfetch/internal/config"
	"github.com/adamancini/binfetch/internal/update"
)

func newAddCmd() *cobra.Command {
	var name, binary, pattern, tag string
	var force bool

	cmd := &cobra.Command{
		Use:   "add <owner/repo>",
		Short: "Register a tool and install it",
		Long: `Register a GitHub repository as a managed tool and install its latest
release. The repository may be given as owner/repo or as a full GitHub URL.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, err := config.ParseRepo(args[0])
			if err != nil {
				return err
			}

			toolName := name
			if toolName == "" {
				toolName = binary
			}
			if toolName == "" {
				toolName = config.RepoBase(repo)
			}

			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			tool := config.Tool{
				Name:         toolName,
				Repo:         repo,
				BinaryName:   binary,
				AssetPattern: pattern,
			}

			verbosef("adding %s (%s)", toolName, repo)
			result := newPipeline(cfg).Add(cmd.Context(), tool, update.UpdateOptions{Force: force, Tag: tag})
			if err := writeResults(result); err != nil {
				return err
			}
			if result.Err != nil {
				return fmt.Errorf("add failed")
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&name, "name", "n", "", "Name for the tool (defaults to the repo name)")
	cmd.Flags().StringVarP(&binary, "binary", "b", "", "Binary name inside the release archive")
	cmd.Flags().StringVarP(&pattern, "pattern", "p", "", "Substring to disambiguate release assets")
	cmd.Flags().StringVarP(&tag, "tag", "t", "", "Install a specific release tag instead of latest")
	cmd.Flags().BoolVar(&force, "force", false, "Install even if already up to date")

	return cmd
}

// resultReport renders pipeline results as text and carries them for
// structured output.
type resultReport []update.Result

func (r resultReport) Text() string {
	lines := make([]string, 0, len(r))
	for _, res := range r {
		switch res.Status {
		case update.StatusUpdated:
			if res.OldVersion == "" {
				lines = append(lines, fmt.Sprintf("%s: installed %s -> %s", res.Tool, res.NewVersion, res.InstallPath))
			} else {
				lines = append(lines, fmt.Sprintf("%s: updated %s -> %s", res.Tool, res.OldVersion, res.NewVersion))
			}
		case update.StatusUpToDate:
			lines = append(lines, fmt.Sprintf("%s: already up to date (%s)", res.Tool, res.NewVersion))
		case update.StatusRemoved:
			lines = append(lines, fmt.Sprintf("%s: removed", res.Tool))
		default:
			lines = append(lines, fmt.Sprintf("%s: failed: %v", res.Tool, res.Err))
		}
	}
	return strings.Join(lines, "\n")
}

// writeResults emits one or more pipeline results on the selected output
// format.
func writeResults(results ...update.Result) error {
	w, err := newOutputWriter()
	if err != nil {
		return err
	}
	return w.Write(resultReport(results))
}
