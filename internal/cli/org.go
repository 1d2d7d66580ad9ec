package cli

import (
	"context"
	"fmt"

	"github.com/google/go-github/v60/github"
	"github.com/mikematt33/gitgrade/internal/config"
	"github.com/mikematt33/gitgrade/internal/report"
	"github.com/spf13/cobra"
)

// Filter flags shared by org and user
var (
	flagFilterName      string
	flagFilterLanguage  []string
	flagFilterTopics    []string
	flagFilterUpdated   string
	flagFilterSkipForks bool
)

type repoLister func(ctx context.Context, owner string) ([]*github.Repository, error)

var getOrgRepositories repoLister = func(ctx context.Context, orgName string) ([]*github.Repository, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("error loading config: %w", err)
	}

	// nil options make the client follow every page
	return newGitHubClient(cfg, nil).ListRepositories(ctx, orgName, nil)
}

var orgCmd = &cobra.Command{
	Use:   "org [organization]",
	Short: "Grade every repository of a GitHub organization",
	Long: `Grade all active repositories in a GitHub organization.
Fetches the organization's repositories, drops archived ones, applies the optional filters and grades the rest.`,
	Example: `  gitgrade org my-org
  gitgrade org my-org --language go --skip-forks
  gitgrade org my-org --updated-within 90d --fail-under=60`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runOwnerAnalysis(cmd, "org", "organization", args[0], getOrgRepositories)
	},
}

func init() {
	rootCmd.AddCommand(orgCmd)
	registerAnalysisFlags(orgCmd)
	registerFilterFlags(orgCmd)
}

func registerFilterFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&flagFilterName, "name", "", "Only repositories whose name matches this regular expression")
	cmd.Flags().StringSliceVar(&flagFilterLanguage, "language", nil, "Only repositories with one of these primary languages")
	cmd.Flags().StringSliceVar(&flagFilterTopics, "topic", nil, "Only repositories carrying all of these topics")
	cmd.Flags().StringVar(&flagFilterUpdated, "updated-within", "", "Only repositories updated within this window (e.g. 30d, 720h)")
	cmd.Flags().BoolVar(&flagFilterSkipForks, "skip-forks", false, "Leave out forked repositories")
}

// runOwnerAnalysis lists the repositories of an organization or user,
// filters them and grades the rest.
func runOwnerAnalysis(cmd *cobra.Command, command, kind, owner string, list repoLister) error {
	format, err := report.ParseFormat(flagFormat)
	if err != nil {
		return err
	}
	filter, err := NewRepoFilter()
	if err != nil {
		return err
	}

	stderr := cmd.ErrOrStderr()
	if shouldPrintInfo() {
		fmt.Fprintf(stderr, "Fetching repositories for %s '%s'...\n", kind, owner)
	}

	repos, err := list(cmd.Context(), owner)
	if err != nil {
		return fmt.Errorf("error listing repositories: %w", err)
	}

	targetRepos, stats := FilterRepositories(repos, filter)
	if shouldPrintInfo() {
		fmt.Fprintf(stderr, "found %d total repositories\n", stats.Total)
		fmt.Fprintf(stderr, "analyzing %d repositories (%d archived, %d forks, %d filtered out)\n",
			stats.Passed, stats.Archived, stats.Forks,
			stats.NameFiltered+stats.LangFiltered+stats.TopicFiltered+stats.DateFiltered)
	}

	if len(targetRepos) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No active repositories found to analyze.")
		return nil
	}

	fullReport, err := pipelineRunner(cmd.Context(), AnalysisOptions{
		Repos:   targetRepos,
		Command: command,
		NoAI:    flagNoAI,
	})
	if err != nil {
		return fmt.Errorf("error running analysis: %w", err)
	}

	return renderReport(cmd, fullReport, report.NewRenderer(format))
}
