package cli

import (
	"regexp"
	"testing"
	"time"

	"github.com/google/go-github/v60/github"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDuration(t *testing.T) {
	tests := []struct {
		input    string
		expected time.Duration
		wantErr  bool
	}{
		{"30d", 30 * 24 * time.Hour, false},
		{"1d", 24 * time.Hour, false},
		{"72h", 72 * time.Hour, false},
		{"30m", 30 * time.Minute, false},
		{"abc", 0, true},
		{"xd", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := parseDuration(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func createTestRepo(name, language string, topics []string, archived, fork bool, updatedAt time.Time) *github.Repository {
	return &github.Repository{
		Name:      github.String(name),
		FullName:  github.String("owner/" + name),
		Language:  github.String(language),
		Topics:    topics,
		Archived:  github.Bool(archived),
		Fork:      github.Bool(fork),
		UpdatedAt: &github.Timestamp{Time: updatedAt},
	}
}

func TestRepoFilterMatches(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }

	tests := []struct {
		name   string
		filter *RepoFilter
		repo   *github.Repository
		want   bool
	}{
		{"no filters", &RepoFilter{}, createTestRepo("test-repo", "Go", nil, false, false, now), true},
		{"archived", &RepoFilter{}, createTestRepo("old", "Go", nil, true, false, now), false},
		{"fork skipped", &RepoFilter{SkipForks: true}, createTestRepo("fork", "Go", nil, false, true, now), false},
		{"fork kept", &RepoFilter{}, createTestRepo("fork", "Go", nil, false, true, now), true},
		{"name match", &RepoFilter{NamePattern: regexp.MustCompile("^api-")}, createTestRepo("api-gateway", "Go", nil, false, false, now), true},
		{"name mismatch", &RepoFilter{NamePattern: regexp.MustCompile("^api-")}, createTestRepo("web", "Go", nil, false, false, now), false},
		{"language case insensitive", &RepoFilter{Languages: []string{"go"}}, createTestRepo("svc", "Go", nil, false, false, now), true},
		{"language mismatch", &RepoFilter{Languages: []string{"Rust", "Python"}}, createTestRepo("svc", "Go", nil, false, false, now), false},
		{"all topics present", &RepoFilter{Topics: []string{"CLI", "tool"}}, createTestRepo("t", "Go", []string{"cli", "tool", "go"}, false, false, now), true},
		{"topic missing", &RepoFilter{Topics: []string{"cli", "web"}}, createTestRepo("t", "Go", []string{"cli"}, false, false, now), false},
		{"recent", &RepoFilter{UpdatedWithin: 7 * 24 * time.Hour, now: clock}, createTestRepo("r", "Go", nil, false, false, now.Add(-48*time.Hour)), true},
		{"too old", &RepoFilter{UpdatedWithin: 7 * 24 * time.Hour, now: clock}, createTestRepo("r", "Go", nil, false, false, now.Add(-30*24*time.Hour)), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.filter.Matches(tt.repo))
		})
	}
}

func TestFilterRepositories(t *testing.T) {
	now := time.Now()

	repos := []*github.Repository{
		createTestRepo("active-go-repo", "Go", []string{"cli"}, false, false, now),
		createTestRepo("active-python-repo", "Python", []string{"web"}, false, false, now),
		createTestRepo("archived-repo", "Go", nil, true, false, now),
		createTestRepo("forked-repo", "Go", nil, false, true, now),
		createTestRepo("old-repo", "Go", nil, false, false, now.Add(-100*24*time.Hour)),
		createTestRepo("test-go-cli", "Go", []string{"cli", "tool"}, false, false, now),
	}

	t.Run("no filters", func(t *testing.T) {
		results, stats := FilterRepositories(repos, &RepoFilter{})
		assert.Equal(t, 6, stats.Total)
		assert.Equal(t, 1, stats.Archived)
		assert.Equal(t, 1, stats.Forks)
		assert.Equal(t, 5, stats.Passed)
		assert.Len(t, results, 5)
	})

	t.Run("skip forks", func(t *testing.T) {
		results, stats := FilterRepositories(repos, &RepoFilter{SkipForks: true})
		assert.Equal(t, 1, stats.Forks)
		assert.Equal(t, 4, stats.Passed)
		assert.NotContains(t, results, "owner/forked-repo")
	})

	t.Run("name pattern", func(t *testing.T) {
		results, stats := FilterRepositories(repos, &RepoFilter{NamePattern: regexp.MustCompile("^test-")})
		assert.Equal(t, 4, stats.NameFiltered)
		assert.Equal(t, []string{"owner/test-go-cli"}, results)
	})

	t.Run("combined", func(t *testing.T) {
		results, stats := FilterRepositories(repos, &RepoFilter{
			Languages:     []string{"Go"},
			Topics:        []string{"cli"},
			UpdatedWithin: 30 * 24 * time.Hour,
		})
		assert.Equal(t, []string{"owner/active-go-repo", "owner/test-go-cli"}, results)
		assert.Equal(t, 1, stats.LangFiltered)
		assert.Equal(t, 2, stats.TopicFiltered, "forked-repo and old-repo lack the topic")
	})

	t.Run("first failing criterion is counted", func(t *testing.T) {
		_, stats := FilterRepositories(repos, &RepoFilter{
			Languages:     []string{"Go"},
			UpdatedWithin: 30 * 24 * time.Hour,
		})
		assert.Equal(t, 1, stats.LangFiltered)
		assert.Equal(t, 1, stats.DateFiltered)
		assert.Equal(t, 3, stats.Passed)
	})
}

func TestFilterRepositories_SparseAndNil(t *testing.T) {
	repos := []*github.Repository{
		nil,
		{Name: github.String("test"), FullName: github.String("owner/test")},
	}
	results, stats := FilterRepositories(repos, &RepoFilter{})
	assert.Equal(t, 2, stats.Total)
	assert.Equal(t, []string{"owner/test"}, results)
}

func TestNewRepoFilter(t *testing.T) {
	t.Cleanup(func() {
		flagFilterName, flagFilterUpdated = "", ""
	})

	flagFilterName = "(unclosed"
	_, err := NewRepoFilter()
	assert.Error(t, err)

	flagFilterName = "^svc-"
	flagFilterUpdated = "14d"
	f, err := NewRepoFilter()
	require.NoError(t, err)
	assert.True(t, f.NamePattern.MatchString("svc-users"))
	assert.Equal(t, 14*24*time.Hour, f.UpdatedWithin)
}
