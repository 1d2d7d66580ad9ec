// Package pipeline runs one repository analysis end to end: signal
// fetching, scoring and narrative generation.
package pipeline

import (
	"context"
	"log/slog"

	"github.com/mikematt33/gitgrade/internal/analysis"
	"github.com/mikematt33/gitgrade/internal/analysis/scoring"
	"github.com/mikematt33/gitgrade/internal/analysis/signals"
	"github.com/mikematt33/gitgrade/internal/narrative"
	"github.com/mikematt33/gitgrade/pkg/models"
)

// Analyzer is safe for concurrent use; every call works on its own data.
type Analyzer struct {
	client   analysis.Client
	fetcher  *signals.Fetcher
	narrator narrative.Generator
	logger   *slog.Logger
}

// New creates an Analyzer. A nil narrator selects the rule-based narrative.
func New(client analysis.Client, fetcher *signals.Fetcher, narrator narrative.Generator, logger *slog.Logger) *Analyzer {
	if logger == nil {
		logger = slog.Default()
	}
	if fetcher == nil {
		fetcher = signals.NewFetcher(1, logger)
	}
	if narrator == nil {
		narrator = narrative.WithFallback(nil, logger)
	}
	return &Analyzer{client: client, fetcher: fetcher, narrator: narrator, logger: logger}
}

// Analyze grades target. Fetch errors are returned unchanged and are
// *analysis.FetchError values; there is no retry.
func (a *Analyzer) Analyze(ctx context.Context, target analysis.TargetRepository) (*models.AnalysisResult, error) {
	res, _, err := a.AnalyzeDetailed(ctx, target)
	return res, err
}

// AnalyzeDetailed is Analyze that also returns the per-category rule
// breakdown.
func (a *Analyzer) AnalyzeDetailed(ctx context.Context, target analysis.TargetRepository) (*models.AnalysisResult, []models.CategoryBreakdown, error) {
	s, err := a.fetcher.Fetch(ctx, a.client, target)
	if err != nil {
		return nil, nil, err
	}

	scored := scoring.Evaluate(s)
	a.logger.Debug("repository scored", "repo", target.FullName(), "score", scored.Score, "level", scored.Level)

	n, err := a.narrator.Generate(ctx, narrative.Input{Signals: s, Details: scored.Details, Score: scored.Score})
	if err != nil {
		// Only a narrator without fallback can fail.
		a.logger.Warn("narrative failed, using rule-based text", "repo", target.FullName(), "error", err)
		n, _ = narrative.RuleBased{}.Generate(ctx, narrative.Input{Signals: s, Details: scored.Details, Score: scored.Score})
	}

	return &models.AnalysisResult{
		Score:   scored.Score,
		Level:   scored.Level,
		Summary: n.Summary,
		Roadmap: n.Roadmap,
		Details: scored.Details,
		Repository: models.RepoInfo{
			Name:        s.FullName,
			Description: s.Description,
			Language:    s.PrimaryLanguage,
			Stars:       s.StarCount,
		},
	}, scoring.Breakdown(scored.Categories), nil
}
