package cli

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/go-github/v60/github"
)

// parseDuration parses a duration string like "30d" or "720h"
func parseDuration(s string) (time.Duration, error) {
	if strings.HasSuffix(s, "d") {
		daysStr := strings.TrimSuffix(s, "d")
		var days int
		_, err := fmt.Sscanf(daysStr, "%d", &days)
		if err != nil {
			return 0, fmt.Errorf("invalid day format: %s", s)
		}
		return time.Duration(days) * 24 * time.Hour, nil
	}
	return time.ParseDuration(s)
}

// RepoFilter selects which organization repositories get graded.
// Archived repositories never pass.
type RepoFilter struct {
	NamePattern   *regexp.Regexp
	Languages     []string
	Topics        []string // all of them must be present
	UpdatedWithin time.Duration
	SkipForks     bool

	now func() time.Time
}

// NewRepoFilter creates a filter from the org command flags.
func NewRepoFilter() (*RepoFilter, error) {
	filter := &RepoFilter{
		Languages: flagFilterLanguage,
		Topics:    flagFilterTopics,
		SkipForks: flagFilterSkipForks,
	}

	if flagFilterName != "" {
		pattern, err := regexp.Compile(flagFilterName)
		if err != nil {
			return nil, fmt.Errorf("invalid --name pattern: %w", err)
		}
		filter.NamePattern = pattern
	}

	if flagFilterUpdated != "" {
		duration, err := parseDuration(flagFilterUpdated)
		if err != nil {
			return nil, fmt.Errorf("invalid --updated-within value: %w", err)
		}
		filter.UpdatedWithin = duration
	}

	return filter, nil
}

// rejection names the first criterion a repository fails, or "" if it passes.
type rejection string

const (
	rejectArchived rejection = "archived"
	rejectFork     rejection = "fork"
	rejectName     rejection = "name"
	rejectLanguage rejection = "language"
	rejectTopic    rejection = "topic"
	rejectDate     rejection = "date"
)

func (f *RepoFilter) check(repo *github.Repository) rejection {
	if repo.GetArchived() {
		return rejectArchived
	}
	if f.SkipForks && repo.GetFork() {
		return rejectFork
	}
	if f.NamePattern != nil && !f.NamePattern.MatchString(repo.GetName()) {
		return rejectName
	}
	if len(f.Languages) > 0 && !containsFold(f.Languages, repo.GetLanguage()) {
		return rejectLanguage
	}
	for _, required := range f.Topics {
		if !containsFold(repo.Topics, required) {
			return rejectTopic
		}
	}
	if f.UpdatedWithin > 0 {
		now := time.Now
		if f.now != nil {
			now = f.now
		}
		if repo.GetUpdatedAt().Before(now().Add(-f.UpdatedWithin)) {
			return rejectDate
		}
	}
	return ""
}

// Matches returns true if the repository passes all filter criteria
func (f *RepoFilter) Matches(repo *github.Repository) bool {
	return f.check(repo) == ""
}

func containsFold(list []string, s string) bool {
	for _, v := range list {
		if strings.EqualFold(v, s) {
			return true
		}
	}
	return false
}

// FilterStats counts why repositories were left out.
type FilterStats struct {
	Total         int
	Archived      int
	Forks         int // forks seen, whether skipped or not
	NameFiltered  int
	LangFiltered  int
	TopicFiltered int
	DateFiltered  int
	Passed        int
}

// FilterRepositories applies filters and returns matching repository names with statistics
func FilterRepositories(repos []*github.Repository, filter *RepoFilter) ([]string, *FilterStats) {
	stats := &FilterStats{Total: len(repos)}
	var targetRepos []string

	for _, r := range repos {
		if r == nil {
			continue
		}
		if r.GetFork() && !r.GetArchived() {
			stats.Forks++
		}

		switch filter.check(r) {
		case rejectArchived:
			stats.Archived++
		case rejectFork:
		case rejectName:
			stats.NameFiltered++
		case rejectLanguage:
			stats.LangFiltered++
		case rejectTopic:
			stats.TopicFiltered++
		case rejectDate:
			stats.DateFiltered++
		default:
			stats.Passed++
			targetRepos = append(targetRepos, r.GetFullName())
		}
	}

	return targetRepos, stats
}
