// Package scoring turns repository signals into category sub-scores, a
// weighted overall score and a level.
//
// Every category is a table of independent rules. A rule awards its points
// when its predicate holds; thresholds are cumulative, so crossing a higher
// threshold also banks the lower ones. A category total is clamped to 100
// once, after all rules have been evaluated.
package scoring

import (
	"github.com/mikematt33/gitgrade/pkg/models"
)

const maxScore = 100

// Rule awards Points when Applies holds for the signals.
type Rule struct {
	Description string
	Points      int
	Applies     func(s *models.RepositorySignals) bool
}

// Category is one named sub-score with its weight in the overall score.
type Category struct {
	Key           string
	Name          string
	WeightPercent int
	Rules         []Rule

	get func(d *models.AnalysisDetails) *int
}

// CategoryScore is the evaluation of one category.
type CategoryScore struct {
	Key           string
	Name          string
	WeightPercent int
	Score         int
	Fired         []Rule // rules that awarded points, in table order
}

// Breakdown converts category scores into their report form.
func Breakdown(scores []CategoryScore) []models.CategoryBreakdown {
	out := make([]models.CategoryBreakdown, 0, len(scores))
	for _, cs := range scores {
		b := models.CategoryBreakdown{Key: cs.Key, Name: cs.Name, Weight: cs.WeightPercent, Score: cs.Score, Rules: []models.RuleAward{}}
		for _, r := range cs.Fired {
			b.Rules = append(b.Rules, models.RuleAward{Description: r.Description, Points: r.Points})
		}
		out = append(out, b)
	}
	return out
}

// Result is the full scoring outcome for one repository.
type Result struct {
	Details    models.AnalysisDetails
	Score      int
	Level      models.Level
	Categories []CategoryScore
}

// Categories returns the rule tables in display order.
func Categories() []Category {
	return append([]Category(nil), categories...)
}

// Evaluate scores the signals. It is pure: equal inputs give equal results.
func Evaluate(s models.RepositorySignals) Result {
	var res Result
	for _, c := range categories {
		cs := c.evaluate(&s)
		*c.get(&res.Details) = cs.Score
		res.Categories = append(res.Categories, cs)
	}
	res.Score = Overall(res.Details)
	res.Level = LevelFor(res.Score)
	return res
}

// Details returns only the six sub-scores for the signals.
func Details(s models.RepositorySignals) models.AnalysisDetails {
	return Evaluate(s).Details
}

// Explain returns each category's score together with the rules that fired.
func Explain(s models.RepositorySignals) []CategoryScore {
	return Evaluate(s).Categories
}

func (c Category) evaluate(s *models.RepositorySignals) CategoryScore {
	cs := CategoryScore{Key: c.Key, Name: c.Name, WeightPercent: c.WeightPercent}
	for _, r := range c.Rules {
		if r.Applies(s) {
			cs.Score += r.Points
			cs.Fired = append(cs.Fired, r)
		}
	}
	cs.Score = clamp(cs.Score)
	return cs
}

// Overall combines the sub-scores with the category weights and rounds
// half up. Weights are whole percentages so the sum is exact.
func Overall(d models.AnalysisDetails) int {
	var weighted int
	for _, c := range categories {
		weighted += clamp(*c.get(&d)) * c.WeightPercent
	}
	return clamp((weighted + 50) / 100)
}

// LevelFor maps an overall score onto its level.
func LevelFor(score int) models.Level {
	switch {
	case score >= 80:
		return models.LevelAdvanced
	case score >= 60:
		return models.LevelIntermediate
	default:
		return models.LevelBeginner
	}
}

func clamp(v int) int {
	if v < 0 {
		return 0
	}
	if v > maxScore {
		return maxScore
	}
	return v
}
