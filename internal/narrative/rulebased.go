package narrative

import (
	"context"
	"strings"

	"github.com/mikematt33/gitgrade/pkg/models"
)

const (
	stepReadme        = "Add a comprehensive README.md with project overview, setup instructions, and usage examples"
	stepStructure     = "Improve folder structure by organizing code into logical directories (src, components, utils, etc.)"
	stepTests         = "Add unit tests and integration tests to improve code reliability"
	stepGit           = "Follow Git best practices: use meaningful commit messages, create branches for features, and use pull requests"
	stepRefactor      = "Refactor code for better readability and maintainability"
	stepCI            = "Add CI/CD pipeline using GitHub Actions for automated testing and deployment"
	stepRealWorld     = "Enhance project with real-world features and better user documentation"
	stepKeepImproving = "Continue improving code quality and following best practices"

	genericSummary = "This is a basic repository that needs development across multiple areas."
)

// RuleBased derives the narrative from the sub-scores alone. It is
// deterministic and never fails.
type RuleBased struct{}

func (RuleBased) Generate(_ context.Context, in Input) (models.Narrative, error) {
	return models.Narrative{
		Summary: summarize(in.Details),
		Roadmap: roadmap(in.Details),
	}, nil
}

// clause classifies a sub-score as a strength, a weakness or neither.
type clause struct {
	score     int
	strongAt  int // strength when score >= strongAt
	weakBelow int // weakness when score < weakBelow
	strength  string
	weakness  string
}

func summarize(d models.AnalysisDetails) string {
	clauses := []clause{
		{d.CodeQuality, 70, 50, "strong code quality", "code quality needs improvement"},
		{d.Documentation, 70, 50, "good documentation", "documentation is lacking"},
		{d.Structure, 70, 50, "well-organized structure", "project structure needs work"},
		{d.Tests, 50, 50, "test coverage present", "missing test coverage"},
		{d.GitPractices, 60, 40, "good Git practices", "Git practices need improvement"},
	}

	var strengths, weaknesses []string
	for _, c := range clauses {
		switch {
		case c.score >= c.strongAt:
			strengths = append(strengths, c.strength)
		case c.score < c.weakBelow:
			weaknesses = append(weaknesses, c.weakness)
		}
	}

	var parts []string
	if len(strengths) > 0 {
		parts = append(parts, "The repository shows "+strings.Join(strengths, ", ")+".")
	}
	if len(weaknesses) > 0 {
		parts = append(parts, "However, "+strings.Join(weaknesses, ", ")+".")
	}
	if len(parts) == 0 {
		return genericSummary
	}
	return strings.Join(parts, " ")
}

func roadmap(d models.AnalysisDetails) []string {
	var steps []string
	add := func(below bool, step string) {
		if below {
			steps = append(steps, step)
		}
	}
	add(d.Documentation < 70, stepReadme)
	add(d.Structure < 60, stepStructure)
	add(d.Tests < 50, stepTests)
	add(d.GitPractices < 60, stepGit)
	add(d.CodeQuality < 60, stepRefactor)
	add(true, stepCI)
	add(d.RealWorldRelevance < 60, stepRealWorld)
	return normalizeRoadmap(steps)
}
