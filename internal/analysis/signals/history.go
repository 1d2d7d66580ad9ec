package signals

import (
	"context"

	"github.com/google/go-github/v60/github"
	"github.com/mikematt33/gitgrade/internal/analysis"
	"github.com/mikematt33/gitgrade/pkg/models"
)

const (
	commitPageSize = 30
	branchPageSize = 100
)

// paginatedCount estimates a collection size from a single page. When the
// response advertises a last page the estimate is lastPage*perPage, which
// overcounts whenever the final page is not full.
func paginatedCount(resp *github.Response, pageLen, perPage int) int {
	if resp != nil && resp.LastPage > 0 {
		return resp.LastPage * perPage
	}
	return pageLen
}

func fetchCommits(ctx context.Context, client analysis.Client, target analysis.TargetRepository, s *models.RepositorySignals) error {
	opts := &github.CommitsListOptions{ListOptions: github.ListOptions{PerPage: commitPageSize}}
	commits, resp, err := client.ListCommits(ctx, target.Owner, target.Name, opts)
	if err != nil {
		return err
	}
	s.CommitCount = paginatedCount(resp, len(commits), commitPageSize)
	return nil
}

func fetchBranches(ctx context.Context, client analysis.Client, target analysis.TargetRepository, s *models.RepositorySignals) error {
	opts := &github.BranchListOptions{ListOptions: github.ListOptions{PerPage: branchPageSize}}
	branches, err := client.ListBranches(ctx, target.Owner, target.Name, opts)
	if err != nil {
		return err
	}
	s.BranchNames = make([]string, 0, len(branches))
	for _, b := range branches {
		s.BranchNames = append(s.BranchNames, b.GetName())
	}
	return nil
}

// fetchPullRequests lists one pull request per page so the last page
// number equals the total.
func fetchPullRequests(ctx context.Context, client analysis.Client, target analysis.TargetRepository, s *models.RepositorySignals) error {
	opts := &github.PullRequestListOptions{
		State:       "all",
		ListOptions: github.ListOptions{PerPage: 1},
	}
	prs, resp, err := client.GetPullRequests(ctx, target.Owner, target.Name, opts)
	if err != nil {
		return err
	}
	s.PullRequestCount = paginatedCount(resp, len(prs), 1)
	return nil
}

func fetchContributors(ctx context.Context, client analysis.Client, target analysis.TargetRepository, s *models.RepositorySignals) error {
	opts := &github.ListContributorsOptions{ListOptions: github.ListOptions{PerPage: 1}}
	contributors, resp, err := client.ListContributors(ctx, target.Owner, target.Name, opts)
	if err != nil {
		return err
	}
	s.ContributorCount = paginatedCount(resp, len(contributors), 1)
	return nil
}
