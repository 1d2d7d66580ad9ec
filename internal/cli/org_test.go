package cli

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-github/v60/github"
	"github.com/mikematt33/gitgrade/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mockOrg(t *testing.T, repos []*github.Repository, err error) {
	t.Helper()
	original := getOrgRepositories
	t.Cleanup(func() {
		getOrgRepositories = original
		flagFilterName, flagFilterUpdated = "", ""
		flagFilterLanguage, flagFilterTopics = nil, nil
		flagFilterSkipForks = false
	})
	getOrgRepositories = func(ctx context.Context, orgName string) ([]*github.Repository, error) {
		assert.Equal(t, "my-org", orgName)
		return repos, err
	}
}

func TestOrgCmd(t *testing.T) {
	out := isolate(t)
	mockOrg(t, []*github.Repository{
		{Name: github.String("repo1"), FullName: github.String("my-org/repo1"), Language: github.String("Go")},
		{Name: github.String("repo2"), FullName: github.String("my-org/repo2"), Language: github.String("Python")},
		{Name: github.String("old"), FullName: github.String("my-org/old"), Archived: github.Bool(true)},
	}, nil)

	var got AnalysisOptions
	mockRunner(t, &got, result("my-org/repo1", 70, models.LevelIntermediate))

	rootCmd.SetArgs([]string{"org", "my-org", "--language", "go"})
	require.NoError(t, rootCmd.Execute())

	assert.Equal(t, []string{"my-org/repo1"}, got.Repos)
	assert.Equal(t, "org", got.Command)
	assert.Contains(t, out.String(), "REPORT FOR: my-org/repo1")
}

func TestOrgCmd_NothingToAnalyze(t *testing.T) {
	out := isolate(t)
	mockOrg(t, []*github.Repository{
		{Name: github.String("old"), FullName: github.String("my-org/old"), Archived: github.Bool(true)},
	}, nil)
	pipelineRunner = func(ctx context.Context, opts AnalysisOptions) (*models.Report, error) {
		t.Fatal("pipeline should not run")
		return nil, nil
	}

	rootCmd.SetArgs([]string{"org", "my-org"})
	require.NoError(t, rootCmd.Execute())
	assert.Contains(t, out.String(), "No active repositories")
}

func TestOrgCmd_ListError(t *testing.T) {
	isolate(t)
	mockOrg(t, nil, errors.New("boom"))

	rootCmd.SetArgs([]string{"org", "my-org"})
	err := rootCmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error listing repositories")
}

func TestOrgCmd_InvalidFilter(t *testing.T) {
	isolate(t)
	mockOrg(t, nil, nil)

	rootCmd.SetArgs([]string{"org", "my-org", "--name", "(unclosed"})
	assert.Error(t, rootCmd.Execute())
}
