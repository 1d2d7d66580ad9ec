package github

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/google/go-github/v60/github"
	"github.com/mikematt33/gitgrade/internal/analysis"
)

// Ensure ClientWrapper satisfies the interface
var _ analysis.Client = (*ClientWrapper)(nil)

const defaultHTTPTimeout = 30 * time.Second

// ClientWrapper adapts the google/go-github client to the analysis.Client interface.
type ClientWrapper struct {
	client *github.Client
	logger *slog.Logger
}

// ResolveToken attempts to find a GitHub token from:
// 1. Config file (if passed)
// 2. "gh auth token" command
// 3. GITHUB_TOKEN environment variable
func ResolveToken(configToken string) string {
	if configToken != "" {
		return configToken
	}

	cmd := exec.Command("gh", "auth", "token")
	out, err := cmd.Output()
	if err == nil {
		token := strings.TrimSpace(string(out))
		if token != "" {
			return token
		}
	}

	return os.Getenv("GITHUB_TOKEN")
}

// NewClient creates a new GitHub client wrapper. An empty token yields an
// unauthenticated client, which only sees public repositories and has a
// much lower rate limit.
func NewClient(token string, logger *slog.Logger) *ClientWrapper {
	ghClient := github.NewClient(&http.Client{Timeout: defaultHTTPTimeout})
	if token != "" {
		ghClient = ghClient.WithAuthToken(token)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &ClientWrapper{client: ghClient, logger: logger}
}

// checkRateLimit inspects the response for rate limit headers
func (c *ClientWrapper) checkRateLimit(resp *github.Response) {
	if resp == nil || resp.Rate.Limit == 0 {
		return
	}
	if resp.Rate.Remaining < 50 {
		c.logger.Warn("GitHub rate limit low",
			"remaining", resp.Rate.Remaining,
			"limit", resp.Rate.Limit,
			"reset", resp.Rate.Reset.Time)
	}
}

// GetRateLimit returns the current core rate limit status
func (c *ClientWrapper) GetRateLimit(ctx context.Context) (*github.Rate, error) {
	rates, _, err := c.client.RateLimit.Get(ctx)
	if err != nil {
		return nil, err
	}
	return rates.Core, nil
}

func (c *ClientWrapper) GetRepository(ctx context.Context, owner, repo string) (*github.Repository, error) {
	r, resp, err := c.client.Repositories.Get(ctx, owner, repo)
	c.checkRateLimit(resp)
	return r, err
}

func (c *ClientWrapper) ListLanguages(ctx context.Context, owner, repo string) (map[string]int, error) {
	langs, resp, err := c.client.Repositories.ListLanguages(ctx, owner, repo)
	c.checkRateLimit(resp)
	return langs, err
}

// GetReadme returns the decoded text of the repository's preferred README.
func (c *ClientWrapper) GetReadme(ctx context.Context, owner, repo string) (string, error) {
	content, resp, err := c.client.Repositories.GetReadme(ctx, owner, repo, nil)
	c.checkRateLimit(resp)
	if err != nil {
		return "", err
	}
	return content.GetContent()
}

// GetTree gets a git tree (efficient for listing every file at once)
func (c *ClientWrapper) GetTree(ctx context.Context, owner, repo, sha string, recursive bool) (*github.Tree, error) {
	tree, resp, err := c.client.Git.GetTree(ctx, owner, repo, sha, recursive)
	c.checkRateLimit(resp)
	return tree, err
}

// ListCommits returns a single page of commits together with the response,
// whose pagination links callers use to estimate totals.
func (c *ClientWrapper) ListCommits(ctx context.Context, owner, repo string, opts *github.CommitsListOptions) ([]*github.RepositoryCommit, *github.Response, error) {
	commits, resp, err := c.client.Repositories.ListCommits(ctx, owner, repo, opts)
	c.checkRateLimit(resp)
	return commits, resp, err
}

func (c *ClientWrapper) ListBranches(ctx context.Context, owner, repo string, opts *github.BranchListOptions) ([]*github.Branch, error) {
	branches, resp, err := c.client.Repositories.ListBranches(ctx, owner, repo, opts)
	c.checkRateLimit(resp)
	return branches, err
}

// GetPullRequests returns a single page of pull requests - callers should handle pagination if needed
func (c *ClientWrapper) GetPullRequests(ctx context.Context, owner, repo string, opts *github.PullRequestListOptions) ([]*github.PullRequest, *github.Response, error) {
	prs, resp, err := c.client.PullRequests.List(ctx, owner, repo, opts)
	c.checkRateLimit(resp)
	return prs, resp, err
}

func (c *ClientWrapper) ListWorkflows(ctx context.Context, owner, repo string) (*github.Workflows, error) {
	workflows, resp, err := c.client.Actions.ListWorkflows(ctx, owner, repo, &github.ListOptions{PerPage: 1})
	c.checkRateLimit(resp)
	return workflows, err
}

func (c *ClientWrapper) ListContributors(ctx context.Context, owner, repo string, opts *github.ListContributorsOptions) ([]*github.Contributor, *github.Response, error) {
	contributors, resp, err := c.client.Repositories.ListContributors(ctx, owner, repo, opts)
	c.checkRateLimit(resp)
	return contributors, resp, err
}

// ListRepositories returns every repository of an organization, following
// pagination unless the caller asked for a specific page.
func (c *ClientWrapper) ListRepositories(ctx context.Context, org string, opts *github.RepositoryListByOrgOptions) ([]*github.Repository, error) {
	if opts == nil {
		opts = &github.RepositoryListByOrgOptions{ListOptions: github.ListOptions{PerPage: 100}}
	}
	single := opts.Page != 0

	var allRepos []*github.Repository
	for {
		repos, resp, err := c.client.Repositories.ListByOrg(ctx, org, opts)
		if err != nil {
			return nil, err
		}
		c.checkRateLimit(resp)
		allRepos = append(allRepos, repos...)

		if single || resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}
	return allRepos, nil
}

// ListUserRepositories returns every public repository owned by a user,
// following pagination unless the caller asked for a specific page.
func (c *ClientWrapper) ListUserRepositories(ctx context.Context, user string, opts *github.RepositoryListByUserOptions) ([]*github.Repository, error) {
	if opts == nil {
		opts = &github.RepositoryListByUserOptions{Type: "owner", ListOptions: github.ListOptions{PerPage: 100}}
	}
	single := opts.Page != 0

	var allRepos []*github.Repository
	for {
		repos, resp, err := c.client.Repositories.ListByUser(ctx, user, opts)
		if err != nil {
			return nil, err
		}
		c.checkRateLimit(resp)
		allRepos = append(allRepos, repos...)

		if single || resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}
	return allRepos, nil
}
