package analysis

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/google/go-github/v60/github"
)

// TargetRepository contains the minimal context needed to locate a repo.
type TargetRepository struct {
	Owner string
	Name  string
}

// FullName returns the owner/name form.
func (t TargetRepository) FullName() string {
	return t.Owner + "/" + t.Name
}

// URL returns the github.com web URL of the repository.
func (t TargetRepository) URL() string {
	return fmt.Sprintf("https://github.com/%s/%s", t.Owner, t.Name)
}

var (
	repoURLPattern = regexp.MustCompile(`^https?://github\.com/([\w\-.]+)/([\w\-.]+)`)
	segmentPattern = regexp.MustCompile(`^[A-Za-z0-9_.-]+$`)
)

// validOwner reports whether seg can be a GitHub login. Logins never
// start with a dot.
func validOwner(seg string) bool {
	return !strings.HasPrefix(seg, ".") && segmentPattern.MatchString(seg)
}

// validName rejects dot segments, which the API client would collapse
// into a different endpoint. Names such as ".github" are allowed.
func validName(seg string) bool {
	return seg != "." && seg != ".." && segmentPattern.MatchString(seg)
}

// ParseTarget resolves "owner/repo", "github.com/owner/repo" or a full
// https://github.com URL into a TargetRepository.
func ParseTarget(raw string) (TargetRepository, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return TargetRepository{}, fmt.Errorf("repository is required")
	}
	if strings.HasPrefix(s, "github.com/") {
		s = "https://" + s
	}

	var owner, name string
	if strings.Contains(s, "://") {
		m := repoURLPattern.FindStringSubmatch(s)
		if m == nil {
			return TargetRepository{}, fmt.Errorf("invalid GitHub repository URL: %s", raw)
		}
		owner, name = m[1], m[2]
	} else {
		parts := strings.Split(s, "/")
		if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
			return TargetRepository{}, fmt.Errorf("invalid repository format: %s (expected owner/repo)", raw)
		}
		owner, name = parts[0], parts[1]
	}

	name = strings.TrimSuffix(name, ".git")
	if !validOwner(owner) {
		return TargetRepository{}, fmt.Errorf("invalid repository owner in %s", raw)
	}
	if !validName(name) {
		return TargetRepository{}, fmt.Errorf("invalid repository name in %s", raw)
	}
	return TargetRepository{Owner: owner, Name: name}, nil
}

// Client defines the subset of GitHub API methods needed to gather signals.
// List methods return the raw response so callers can read pagination links.
type Client interface {
	GetRepository(ctx context.Context, owner, repo string) (*github.Repository, error)
	ListLanguages(ctx context.Context, owner, repo string) (map[string]int, error)
	GetReadme(ctx context.Context, owner, repo string) (string, error)
	GetTree(ctx context.Context, owner, repo, sha string, recursive bool) (*github.Tree, error)
	ListCommits(ctx context.Context, owner, repo string, opts *github.CommitsListOptions) ([]*github.RepositoryCommit, *github.Response, error)
	ListBranches(ctx context.Context, owner, repo string, opts *github.BranchListOptions) ([]*github.Branch, error)
	GetPullRequests(ctx context.Context, owner, repo string, opts *github.PullRequestListOptions) ([]*github.PullRequest, *github.Response, error)
	ListWorkflows(ctx context.Context, owner, repo string) (*github.Workflows, error)
	ListContributors(ctx context.Context, owner, repo string, opts *github.ListContributorsOptions) ([]*github.Contributor, *github.Response, error)

	// Org level
	ListRepositories(ctx context.Context, org string, opts *github.RepositoryListByOrgOptions) ([]*github.Repository, error)
	GetRateLimit(ctx context.Context) (*github.Rate, error)
}
