package cli

import (
	"context"
	"fmt"

	"github.com/google/go-github/v60/github"
	"github.com/mikematt33/gitgrade/internal/config"
	"github.com/spf13/cobra"
)

var userCmd = &cobra.Command{
	Use:   "user [username]",
	Short: "Grade all public repositories of a user",
	Long: `Grade all active public repositories owned by a GitHub user.
Useful for portfolio reviews: the summary shows the average score and the level distribution.`,
	Example: `  gitgrade user octocat
  gitgrade user octocat --skip-forks --updated-within 180d
  gitgrade user octocat --quiet --format=json`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runOwnerAnalysis(cmd, "user", "user", args[0], getUserRepositories)
	},
}

var getUserRepositories repoLister = func(ctx context.Context, username string) ([]*github.Repository, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("error loading config: %w", err)
	}

	return newGitHubClient(cfg, nil).ListUserRepositories(ctx, username, nil)
}

func init() {
	rootCmd.AddCommand(userCmd)
	registerAnalysisFlags(userCmd)
	registerFilterFlags(userCmd)
}
