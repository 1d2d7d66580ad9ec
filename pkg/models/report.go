package models

import (
	"time"
)

// Level is the three-tier label derived from the overall score.
type Level string

const (
	LevelBeginner     Level = "Beginner"
	LevelIntermediate Level = "Intermediate"
	LevelAdvanced     Level = "Advanced"
)

// RepositorySignals is the normalized set of facts gathered about a repository.
// It is produced once per analysis and never mutated afterwards.
type RepositorySignals struct {
	Name            string `json:"name"`
	FullName        string `json:"fullName"`
	Description     string `json:"description"`
	PrimaryLanguage string `json:"primaryLanguage"`

	LanguageByteCounts map[string]int `json:"languageByteCounts"`
	FileCount          int            `json:"fileCount"`
	TopLevelFolders    []string       `json:"topLevelFolders"` // distinct first path segments

	HasReadme  bool   `json:"hasReadme"`
	ReadmeText string `json:"readmeText"`

	HasTests      bool     `json:"hasTests"`
	TestFilePaths []string `json:"testFilePaths"`

	CommitCount      int      `json:"commitCount"` // approximate, see signals.paginatedCount
	BranchNames      []string `json:"branchNames"`
	PullRequestCount int      `json:"pullRequestCount"`
	HasPullRequests  bool     `json:"hasPullRequests"`

	HasContinuousIntegration bool `json:"hasContinuousIntegration"`

	StarCount        int `json:"starCount"`
	ForkCount        int `json:"forkCount"`
	OpenIssueCount   int `json:"openIssueCount"`
	ContributorCount int `json:"contributorCount"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// AnalysisDetails holds the six category sub-scores, each in [0,100].
type AnalysisDetails struct {
	CodeQuality        int `json:"codeQuality"`
	Documentation      int `json:"documentation"`
	GitPractices       int `json:"gitPractices"`
	Structure          int `json:"structure"`
	Tests              int `json:"tests"`
	RealWorldRelevance int `json:"realWorldRelevance"`
}

// Narrative is the prose part of an analysis.
type Narrative struct {
	Summary string   `json:"summary"`
	Roadmap []string `json:"roadmap"` // 5 to 7 entries
}

// RepoInfo identifies the analyzed repository in a result.
type RepoInfo struct {
	Name        string `json:"name"` // owner/repo
	Description string `json:"description"`
	Language    string `json:"language"`
	Stars       int    `json:"stars"`
}

// AnalysisResult is the complete answer for one repository.
type AnalysisResult struct {
	Score      int             `json:"score"`
	Level      Level           `json:"level"`
	Summary    string          `json:"summary"`
	Roadmap    []string        `json:"roadmap"`
	Details    AnalysisDetails `json:"details"`
	Repository RepoInfo        `json:"repoInfo"`
}

// Report is the top-level output structure of a CLI run.
// It aggregates analysis results from one or more repositories.
type Report struct {
	Meta         ReportMeta    `json:"meta"`
	Repositories []RepoResult  `json:"repositories"`
	Summary      GlobalSummary `json:"summary"`
}

// ReportMeta contains metadata about the execution of the CLI.
type ReportMeta struct {
	RunID       string    `json:"run_id"`
	GeneratedAt time.Time `json:"generated_at"`
	CLIVersion  string    `json:"cli_version"`
	Command     string    `json:"command"`  // e.g. "analyze"
	Duration    string    `json:"duration"` // Execution duration
}

// RepoResult is the outcome for a single repository. Exactly one of
// Result and Error is set.
type RepoResult struct {
	Name      string              `json:"name"` // owner/repo
	URL       string              `json:"url"`
	Result    *AnalysisResult     `json:"result,omitempty"`
	Breakdown []CategoryBreakdown `json:"breakdown,omitempty"`
	Error     string              `json:"error,omitempty"`
}

// CategoryBreakdown explains one sub-score.
type CategoryBreakdown struct {
	Key    string      `json:"key"`
	Name   string      `json:"name"`
	Weight int         `json:"weight"` // percent of the overall score
	Score  int         `json:"score"`
	Rules  []RuleAward `json:"rules"`
}

// RuleAward is one rule that contributed points.
type RuleAward struct {
	Description string `json:"description"`
	Points      int    `json:"points"`
}

// GlobalSummary holds aggregated data useful for multi-repo runs.
type GlobalSummary struct {
	TotalReposAnalyzed int           `json:"total_repos_analyzed"`
	Failed             int           `json:"failed"`
	AvgScore           float64       `json:"avg_score"`
	Levels             map[Level]int `json:"levels,omitempty"`
}

// Summarize recomputes the global summary from the repository results.
func (r *Report) Summarize() {
	s := GlobalSummary{Levels: make(map[Level]int)}
	var sum int
	for _, repo := range r.Repositories {
		if repo.Result == nil {
			s.Failed++
			continue
		}
		s.TotalReposAnalyzed++
		sum += repo.Result.Score
		s.Levels[repo.Result.Level]++
	}
	if s.TotalReposAnalyzed > 0 {
		s.AvgScore = float64(sum) / float64(s.TotalReposAnalyzed)
	}
	r.Summary = s
}
