package narrative

import (
	"context"
	"fmt"
	"log/slog"
)

// Provider names accepted in configuration.
const (
	ProviderAuto       = "auto"
	ProviderOpenRouter = "openrouter"
	ProviderGemini     = "gemini"
	ProviderNone       = "none"
)

// Options selects and configures the generative backend. Provider must be
// resolved already; ProviderAuto is not accepted here.
type Options struct {
	Provider string
	Model    string
	APIKey   string
	BaseURL  string
	Params   Params
}

// New builds the narrative generator for opts. The result always falls back
// to the rule-based narrative; with ProviderNone or no API key it is purely
// rule-based.
func New(ctx context.Context, opts Options, logger *slog.Logger) (Generator, error) {
	if opts.Provider == "" || opts.Provider == ProviderNone || opts.APIKey == "" {
		return WithFallback(nil, logger), nil
	}

	var c Completer
	switch opts.Provider {
	case ProviderOpenRouter:
		c = NewOpenRouter(opts.APIKey, opts.Model, opts.BaseURL)
	case ProviderGemini:
		g, err := NewGemini(ctx, opts.APIKey, opts.Model)
		if err != nil {
			return nil, err
		}
		c = g
	default:
		return nil, fmt.Errorf("unknown narrative provider %q", opts.Provider)
	}
	return WithFallback(NewLLM(c, opts.Params), logger), nil
}
