package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReport_Summarize(t *testing.T) {
	r := &Report{Repositories: []RepoResult{
		{Name: "a/one", Result: &AnalysisResult{Score: 85, Level: LevelAdvanced}},
		{Name: "a/two", Result: &AnalysisResult{Score: 60, Level: LevelIntermediate}},
		{Name: "a/three", Result: &AnalysisResult{Score: 62, Level: LevelIntermediate}},
		{Name: "a/gone", Error: "repository a/gone not found"},
	}}

	r.Summarize()

	assert.Equal(t, 3, r.Summary.TotalReposAnalyzed)
	assert.Equal(t, 1, r.Summary.Failed)
	assert.InDelta(t, 69.0, r.Summary.AvgScore, 0.001)
	assert.Equal(t, map[Level]int{LevelAdvanced: 1, LevelIntermediate: 2}, r.Summary.Levels)
}

func TestReport_SummarizeEmpty(t *testing.T) {
	r := &Report{Summary: GlobalSummary{TotalReposAnalyzed: 9}}
	r.Summarize()

	assert.Zero(t, r.Summary.TotalReposAnalyzed)
	assert.Zero(t, r.Summary.AvgScore)
	assert.Empty(t, r.Summary.Levels)
}
