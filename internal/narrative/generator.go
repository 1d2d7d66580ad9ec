// Package narrative produces the prose summary and improvement roadmap
// for an analysed repository.
//
// Two implementations satisfy Generator: LLM asks a generative backend
// through a Completer, RuleBased builds the text from fixed thresholds.
// WithFallback combines them so callers always receive a usable Narrative.
package narrative

import (
	"context"
	"errors"
	"log/slog"

	"github.com/mikematt33/gitgrade/pkg/models"
)

const (
	MinRoadmapSteps = 5
	MaxRoadmapSteps = 7
)

// ErrBackend reports a generative backend failure: a transport error, a
// timeout, empty content or a reply without the expected JSON shape.
var ErrBackend = errors.New("narrative backend failed")

// Input is everything a generator may draw on.
type Input struct {
	Signals models.RepositorySignals
	Details models.AnalysisDetails
	Score   int
}

// Generator produces a Narrative for one analysis.
type Generator interface {
	Generate(ctx context.Context, in Input) (models.Narrative, error)
}

type fallback struct {
	primary Generator
	logger  *slog.Logger
}

// WithFallback returns a Generator that tries primary and answers with the
// rule-based narrative when primary is nil or fails. It never returns an error.
func WithFallback(primary Generator, logger *slog.Logger) Generator {
	if logger == nil {
		logger = slog.Default()
	}
	return &fallback{primary: primary, logger: logger}
}

func (f *fallback) Generate(ctx context.Context, in Input) (models.Narrative, error) {
	if f.primary != nil {
		n, err := f.primary.Generate(ctx, in)
		if err == nil {
			return n, nil
		}
		f.logger.Warn("narrative backend unavailable, using rule-based text", "repo", in.Signals.FullName, "error", err)
	}
	return RuleBased{}.Generate(ctx, in)
}

// normalizeRoadmap pads with the generic step and truncates so the result
// always has between MinRoadmapSteps and MaxRoadmapSteps entries.
func normalizeRoadmap(steps []string) []string {
	out := make([]string, 0, MaxRoadmapSteps)
	out = append(out, steps...)
	for len(out) < MinRoadmapSteps {
		out = append(out, stepKeepImproving)
	}
	if len(out) > MaxRoadmapSteps {
		out = out[:MaxRoadmapSteps]
	}
	return out
}
