package scoring

import (
	"strings"
	"unicode/utf8"

	"github.com/mikematt33/gitgrade/pkg/models"
)

type predicate = func(s *models.RepositorySignals) bool

func fileCountAbove(n int) predicate {
	return func(s *models.RepositorySignals) bool { return s.FileCount > n }
}

func foldersAbove(n int) predicate {
	return func(s *models.RepositorySignals) bool { return len(s.TopLevelFolders) > n }
}

func starsAbove(n int) predicate {
	return func(s *models.RepositorySignals) bool { return s.StarCount > n }
}

func commitsAbove(n int) predicate {
	return func(s *models.RepositorySignals) bool { return s.CommitCount > n }
}

func testFilesAbove(n int) predicate {
	return func(s *models.RepositorySignals) bool { return len(s.TestFilePaths) > n }
}

func readmeLongerThan(n int) predicate {
	return func(s *models.RepositorySignals) bool { return utf8.RuneCountInString(s.ReadmeText) > n }
}

func readmeContains(sub string) predicate {
	return func(s *models.RepositorySignals) bool { return strings.Contains(s.ReadmeText, sub) }
}

func descriptionLongerThan(n int) predicate {
	return func(s *models.RepositorySignals) bool { return utf8.RuneCountInString(s.Description) > n }
}

// folderNamed matches when any top-level folder contains one of the
// fragments, case-insensitively.
func folderNamed(fragments ...string) predicate {
	return func(s *models.RepositorySignals) bool {
		for _, f := range s.TopLevelFolders {
			lower := strings.ToLower(f)
			for _, frag := range fragments {
				if strings.Contains(lower, frag) {
					return true
				}
			}
		}
		return false
	}
}

var categories = []Category{
	{
		Key:           "codeQuality",
		Name:          "Code Quality",
		WeightPercent: 25,
		get:           func(d *models.AnalysisDetails) *int { return &d.CodeQuality },
		Rules: []Rule{
			{"primary language detected", 20, func(s *models.RepositorySignals) bool { return s.PrimaryLanguage != "" }},
			{"more than 10 files", 20, fileCountAbove(10)},
			{"more than 50 files", 10, fileCountAbove(50)},
			{"language breakdown available", 15, func(s *models.RepositorySignals) bool { return len(s.LanguageByteCounts) > 0 }},
			{"more than 2 top-level folders", 15, foldersAbove(2)},
			{"more than 5 top-level folders", 10, foldersAbove(5)},
			{"starred", 5, starsAbove(0)},
			{"more than 10 stars", 5, starsAbove(10)},
		},
	},
	{
		Key:           "documentation",
		Name:          "Documentation",
		WeightPercent: 20,
		get:           func(d *models.AnalysisDetails) *int { return &d.Documentation },
		Rules: []Rule{
			{"has a README", 40, func(s *models.RepositorySignals) bool { return s.HasReadme }},
			{"README longer than 500 characters", 20, readmeLongerThan(500)},
			{"README longer than 1000 characters", 15, readmeLongerThan(1000)},
			{"README has sections", 10, readmeContains("##")},
			{"README has code examples", 10, readmeContains("```")},
			{"README explains installation", 5, func(s *models.RepositorySignals) bool {
				return strings.Contains(strings.ToLower(s.ReadmeText), "install")
			}},
			{"description longer than 20 characters", 10, descriptionLongerThan(20)},
		},
	},
	{
		Key:           "gitPractices",
		Name:          "Git Practices",
		WeightPercent: 15,
		get:           func(d *models.AnalysisDetails) *int { return &d.GitPractices },
		Rules: []Rule{
			{"more than 5 commits", 20, commitsAbove(5)},
			{"more than 20 commits", 20, commitsAbove(20)},
			{"more than 50 commits", 10, commitsAbove(50)},
			{"more than one branch", 15, func(s *models.RepositorySignals) bool { return len(s.BranchNames) > 1 }},
			{"uses pull requests", 20, func(s *models.RepositorySignals) bool { return s.HasPullRequests }},
			{"pull requests recorded", 10, func(s *models.RepositorySignals) bool { return s.PullRequestCount > 0 }},
			{"continuous integration configured", 15, func(s *models.RepositorySignals) bool { return s.HasContinuousIntegration }},
		},
	},
	{
		Key:           "structure",
		Name:          "Structure",
		WeightPercent: 15,
		get:           func(d *models.AnalysisDetails) *int { return &d.Structure },
		Rules: []Rule{
			{"has top-level folders", 20, foldersAbove(0)},
			{"more than 3 top-level folders", 20, foldersAbove(3)},
			{"more than 5 top-level folders", 15, foldersAbove(5)},
			{"more than 5 files", 15, fileCountAbove(5)},
			{"more than 20 files", 15, fileCountAbove(20)},
			{"more than 50 files", 10, fileCountAbove(50)},
			{"src folder", 5, folderNamed("src")},
			{"components folder", 5, folderNamed("component")},
			{"utility or library folder", 5, folderNamed("util", "lib")},
		},
	},
	{
		Key:           "tests",
		Name:          "Tests",
		WeightPercent: 15,
		get:           func(d *models.AnalysisDetails) *int { return &d.Tests },
		Rules: []Rule{
			{"has tests", 50, func(s *models.RepositorySignals) bool { return s.HasTests }},
			{"test files present", 20, testFilesAbove(0)},
			{"more than 3 test files", 15, testFilesAbove(3)},
			{"more than 10 test files", 15, testFilesAbove(10)},
		},
	},
	{
		Key:           "realWorldRelevance",
		Name:          "Real-World Relevance",
		WeightPercent: 10,
		get:           func(d *models.AnalysisDetails) *int { return &d.RealWorldRelevance },
		Rules: []Rule{
			{"description longer than 10 characters", 15, descriptionLongerThan(10)},
			{"starred", 20, starsAbove(0)},
			{"more than 10 stars", 15, starsAbove(10)},
			{"forked", 15, func(s *models.RepositorySignals) bool { return s.ForkCount > 0 }},
			{"more than one contributor", 15, func(s *models.RepositorySignals) bool { return s.ContributorCount > 1 }},
			{"has open issues", 10, func(s *models.RepositorySignals) bool { return s.OpenIssueCount > 0 }},
			{"README longer than 500 characters", 10, func(s *models.RepositorySignals) bool {
				return s.HasReadme && utf8.RuneCountInString(s.ReadmeText) > 500
			}},
		},
	},
}
