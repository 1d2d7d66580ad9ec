// Package signals gathers the repository facts that feed the scoring engine.
package signals

import (
	"context"
	"log/slog"

	"github.com/google/go-github/v60/github"
	"github.com/mikematt33/gitgrade/internal/analysis"
	"github.com/mikematt33/gitgrade/pkg/models"
	"golang.org/x/sync/errgroup"
)

// Fetcher assembles RepositorySignals from independent GitHub sub-queries.
// Only the repository metadata lookup is fatal; every other facet falls back
// to its empty value when its query fails.
type Fetcher struct {
	concurrency int
	logger      *slog.Logger
}

// NewFetcher creates a Fetcher issuing at most concurrency sub-queries at once.
func NewFetcher(concurrency int, logger *slog.Logger) *Fetcher {
	if concurrency < 1 {
		concurrency = 1
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Fetcher{concurrency: concurrency, logger: logger}
}

// facet is one degradable sub-query. It writes only to its own fields of
// the signals record.
type facet struct {
	name string
	run  func(ctx context.Context, client analysis.Client, target analysis.TargetRepository, s *models.RepositorySignals) error
}

// Fetch loads every signal for target. The returned error, if any, is an
// *analysis.FetchError from the metadata lookup.
func (f *Fetcher) Fetch(ctx context.Context, client analysis.Client, target analysis.TargetRepository) (models.RepositorySignals, error) {
	repo, err := client.GetRepository(ctx, target.Owner, target.Name)
	if err != nil {
		return models.RepositorySignals{}, analysis.ClassifyFetchError(target.FullName(), err)
	}

	s := fromRepository(repo)
	defaultBranch := repo.GetDefaultBranch()
	if defaultBranch == "" {
		defaultBranch = "HEAD"
	}

	facets := []facet{
		{"languages", fetchLanguages},
		{"readme", fetchReadme},
		{"tree", treeFacet(defaultBranch)},
		{"commits", fetchCommits},
		{"branches", fetchBranches},
		{"pull_requests", fetchPullRequests},
		{"workflows", fetchWorkflows},
		{"contributors", fetchContributors},
	}

	// Each facet fills a private copy which is merged after the join so
	// that a failing facet leaves nothing half-written.
	partials := make([]models.RepositorySignals, len(facets))
	failed := make([]bool, len(facets))

	var g errgroup.Group
	g.SetLimit(f.concurrency)
	for i, fc := range facets {
		g.Go(func() error {
			if err := fc.run(ctx, client, target, &partials[i]); err != nil {
				failed[i] = true
				f.logger.Debug("signal degraded", "repo", target.FullName(), "facet", fc.name, "error", err)
			}
			return nil
		})
	}
	_ = g.Wait()

	for i, fc := range facets {
		if failed[i] {
			applyDefault(fc.name, &s)
			continue
		}
		merge(fc.name, &s, &partials[i])
	}
	normalize(&s)
	return s, nil
}

func fromRepository(repo *github.Repository) models.RepositorySignals {
	return models.RepositorySignals{
		Name:            repo.GetName(),
		FullName:        repo.GetFullName(),
		Description:     repo.GetDescription(),
		PrimaryLanguage: repo.GetLanguage(),
		StarCount:       repo.GetStargazersCount(),
		ForkCount:       repo.GetForksCount(),
		OpenIssueCount:  repo.GetOpenIssuesCount(),
		CreatedAt:       repo.GetCreatedAt().Time,
		UpdatedAt:       repo.GetUpdatedAt().Time,
	}
}

// applyDefault records the absent value for a failed facet.
func applyDefault(name string, s *models.RepositorySignals) {
	if name == "contributors" {
		// Even an empty repository has its owner.
		s.ContributorCount = 1
	}
}

func merge(name string, dst, src *models.RepositorySignals) {
	switch name {
	case "languages":
		dst.LanguageByteCounts = src.LanguageByteCounts
	case "readme":
		dst.HasReadme = src.HasReadme
		dst.ReadmeText = src.ReadmeText
	case "tree":
		dst.FileCount = src.FileCount
		dst.TopLevelFolders = src.TopLevelFolders
		dst.TestFilePaths = src.TestFilePaths
	case "commits":
		dst.CommitCount = src.CommitCount
	case "branches":
		dst.BranchNames = src.BranchNames
	case "pull_requests":
		dst.PullRequestCount = src.PullRequestCount
	case "workflows":
		dst.HasContinuousIntegration = src.HasContinuousIntegration
	case "contributors":
		dst.ContributorCount = src.ContributorCount
	}
}

// normalize enforces the record invariants: non-nil collections,
// non-negative counts and flags that agree with their collections.
func normalize(s *models.RepositorySignals) {
	if s.LanguageByteCounts == nil {
		s.LanguageByteCounts = map[string]int{}
	}
	if s.TopLevelFolders == nil {
		s.TopLevelFolders = []string{}
	}
	if s.TestFilePaths == nil {
		s.TestFilePaths = []string{}
	}
	if s.BranchNames == nil {
		s.BranchNames = []string{}
	}
	for _, n := range []*int{&s.FileCount, &s.CommitCount, &s.PullRequestCount, &s.StarCount, &s.ForkCount, &s.OpenIssueCount, &s.ContributorCount} {
		if *n < 0 {
			*n = 0
		}
	}
	s.HasTests = len(s.TestFilePaths) > 0
	s.HasPullRequests = s.PullRequestCount > 0
}
