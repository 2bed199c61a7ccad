// Package commands implements the carson CLI.
package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/carsonhq/carson-bot/internal/core/config"
	"github.com/carsonhq/carson-bot/internal/integrations/github"
)

// Version is set at build time with -ldflags.
var Version = "dev"

var (
	cfgFile string
	verbose bool
	dryRun  bool
)

var rootCmd = &cobra.Command{
	Use:   "carson",
	Short: "Carson - review status bot for GitHub issues",
	Long: `Carson keeps a "Status: ..." label on every issue and pull request.

Comments containing a line such as "Status: Code reviewed" move the issue to
that status, new pull requests start as "Needs Review", and issues labeled as
bugs are put up for review unless they already have a status.`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.Version = Version
	rootCmd.SetVersionTemplate("{{.Name}} {{.Version}}\n")

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is .github/carson.yaml)")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "enable verbose output")
	rootCmd.PersistentFlags().BoolVar(&dryRun, "dry-run", false, "log status changes instead of writing them")
}

// loadConfig finds and loads the config file, resolving 'extends' through the
// GitHub API. A missing file yields the defaults.
func loadConfig(ctx context.Context, token string) (*config.Config, error) {
	path := config.FindConfigPath(cfgFile)
	if path == "" {
		if cfgFile != "" {
			return nil, fmt.Errorf("config file not found: %s", cfgFile)
		}
		if verbose {
			fmt.Fprintln(os.Stderr, "No configuration file found. Using defaults.")
		}
		return config.Default(), nil
	}

	fetcher := func(ref string) ([]byte, error) {
		org, repo, branch, filePath, err := config.ParseExtendsRef(ref)
		if err != nil {
			return nil, err
		}
		if token == "" {
			return nil, fmt.Errorf("GITHUB_TOKEN required to fetch remote config %s", ref)
		}
		gh, err := newGitHubClient(ctx, token, os.Getenv("GITHUB_API_URL"))
		if err != nil {
			return nil, err
		}
		return gh.GetFileContent(ctx, org, repo, filePath, branch)
	}

	cfg, err := config.LoadWithInheritance(path, fetcher)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}

	if verbose {
		fmt.Fprintln(os.Stderr, "Using config file:", path)
	}
	return cfg, nil
}

// newGitHubClient returns a client for api.github.com, or for apiURL when set.
func newGitHubClient(ctx context.Context, token, apiURL string) (*github.Client, error) {
	if apiURL == "" {
		return github.NewClient(ctx, token), nil
	}
	return github.NewClientWithBaseURL(ctx, token, apiURL)
}
