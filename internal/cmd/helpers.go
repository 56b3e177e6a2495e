package cmd

import (
	"fmt"
	"os"

	"github.com/adamancini/binfetch/internal/config"
	"github.com/adamancini/binfetch/internal/github"
	"github.com/adamancini/binfetch/internal/output"
	"github.com/adamancini/binfetch/internal/update"
)

// loadConfig resolves the registry location and loads it.
func loadConfig() (*config.Config, error) {
	path, err := config.Path(configPath)
	if err != nil {
		return nil, err
	}
	return config.Load(path)
}

// newPipeline builds the update pipeline around the loaded registry. The
// github client serves as both release source and downloader.
func newPipeline(cfg *config.Config) *update.Pipeline {
	client := github.NewClient()
	return update.New(client, client, cfg, cfg.InstallDir())
}

// newOutputWriter builds a writer honoring the global --output flag.
func newOutputWriter() (*output.Writer, error) {
	format, err := output.ParseFormat(outputFormat)
	if err != nil {
		return nil, err
	}
	return output.NewWriter(os.Stdout, format), nil
}

// verbosef prints progress chatter unless suppressed.
func verbosef(format string, args ...interface{}) {
	if verbose && !quiet {
		fmt.Printf(format+"\n", args...)
	}
}
