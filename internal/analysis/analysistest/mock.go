// Package analysistest provides an in-memory analysis.Client for tests.
package analysistest

import (
	"context"
	"errors"
	"net/http"
	"net/url"

	"github.com/google/go-github/v60/github"
	"github.com/mikematt33/gitgrade/internal/analysis"
)

var _ analysis.Client = (*MockClient)(nil)

// ErrUnavailable is returned by MockClient endpoints that are set to fail.
var ErrUnavailable = errors.New("mock: endpoint unavailable")

// MockClient implements analysis.Client from canned values.
// Each list endpoint reports LastPage through its *LastPage field.
type MockClient struct {
	Repository *github.Repository
	RepoErr    error

	Languages map[string]int
	Readme    *string // nil means the repository has no README
	Tree      *github.Tree
	Branches  []*github.Branch
	Workflows *github.Workflows

	Commits         []*github.RepositoryCommit
	CommitsLastPage int

	PullRequests  []*github.PullRequest
	PullsLastPage int

	Contributors         []*github.Contributor
	ContributorsLastPage int

	OrgRepositories []*github.Repository

	// FailAll makes every endpoint except GetRepository fail.
	FailAll bool
	// TreeRef records the ref requested from GetTree.
	TreeRef string
}

func (m *MockClient) fail() error {
	if m.FailAll {
		return ErrUnavailable
	}
	return nil
}

func page(lastPage int) *github.Response {
	return &github.Response{LastPage: lastPage}
}

func (m *MockClient) GetRepository(ctx context.Context, owner, repo string) (*github.Repository, error) {
	if m.RepoErr != nil {
		return nil, m.RepoErr
	}
	return m.Repository, nil
}

func (m *MockClient) ListLanguages(ctx context.Context, owner, repo string) (map[string]int, error) {
	if err := m.fail(); err != nil {
		return nil, err
	}
	return m.Languages, nil
}

func (m *MockClient) GetReadme(ctx context.Context, owner, repo string) (string, error) {
	if err := m.fail(); err != nil {
		return "", err
	}
	if m.Readme == nil {
		return "", ErrUnavailable
	}
	return *m.Readme, nil
}

func (m *MockClient) GetTree(ctx context.Context, owner, repo, sha string, recursive bool) (*github.Tree, error) {
	m.TreeRef = sha
	if err := m.fail(); err != nil {
		return nil, err
	}
	if m.Tree == nil {
		return &github.Tree{}, nil
	}
	return m.Tree, nil
}

func (m *MockClient) ListCommits(ctx context.Context, owner, repo string, opts *github.CommitsListOptions) ([]*github.RepositoryCommit, *github.Response, error) {
	if err := m.fail(); err != nil {
		return nil, nil, err
	}
	return m.Commits, page(m.CommitsLastPage), nil
}

func (m *MockClient) ListBranches(ctx context.Context, owner, repo string, opts *github.BranchListOptions) ([]*github.Branch, error) {
	if err := m.fail(); err != nil {
		return nil, err
	}
	return m.Branches, nil
}

func (m *MockClient) GetPullRequests(ctx context.Context, owner, repo string, opts *github.PullRequestListOptions) ([]*github.PullRequest, *github.Response, error) {
	if err := m.fail(); err != nil {
		return nil, nil, err
	}
	return m.PullRequests, page(m.PullsLastPage), nil
}

func (m *MockClient) ListWorkflows(ctx context.Context, owner, repo string) (*github.Workflows, error) {
	if err := m.fail(); err != nil {
		return nil, err
	}
	if m.Workflows == nil {
		return &github.Workflows{TotalCount: github.Int(0)}, nil
	}
	return m.Workflows, nil
}

func (m *MockClient) ListContributors(ctx context.Context, owner, repo string, opts *github.ListContributorsOptions) ([]*github.Contributor, *github.Response, error) {
	if err := m.fail(); err != nil {
		return nil, nil, err
	}
	return m.Contributors, page(m.ContributorsLastPage), nil
}

func (m *MockClient) ListRepositories(ctx context.Context, org string, opts *github.RepositoryListByOrgOptions) ([]*github.Repository, error) {
	if err := m.fail(); err != nil {
		return nil, err
	}
	return m.OrgRepositories, nil
}

func (m *MockClient) GetRateLimit(ctx context.Context) (*github.Rate, error) {
	return &github.Rate{Limit: 5000, Remaining: 5000}, nil
}

// StatusError builds the error go-github returns for a non-2xx response.
func StatusError(status int) error {
	return &github.ErrorResponse{
		Response: &http.Response{
			StatusCode: status,
			Request:    &http.Request{Method: http.MethodGet, URL: &url.URL{Path: "/repos/owner/repo"}},
		},
		Message: http.StatusText(status),
	}
}

// RateLimited builds the error go-github returns once the quota is exhausted.
func RateLimited() error {
	resp := StatusError(http.StatusForbidden).(*github.ErrorResponse).Response
	return &github.RateLimitError{Response: resp, Message: "API rate limit exceeded"}
}
