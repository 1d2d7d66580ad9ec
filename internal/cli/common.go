package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/mikematt33/gitgrade/internal/analysis"
	"github.com/mikematt33/gitgrade/internal/analysis/signals"
	"github.com/mikematt33/gitgrade/internal/config"
	ghclient "github.com/mikematt33/gitgrade/internal/github"
	"github.com/mikematt33/gitgrade/internal/narrative"
	"github.com/mikematt33/gitgrade/internal/pipeline"
	"github.com/mikematt33/gitgrade/internal/report"
	"github.com/mikematt33/gitgrade/pkg/models"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// requestsPerRepo is the number of GitHub API calls one analysis makes.
const requestsPerRepo = 9

// AnalysisOptions contains the configuration for running repository analysis.
type AnalysisOptions struct {
	Repos   []string // owner/repo or GitHub URLs
	Command string
	NoAI    bool
}

var pipelineRunner = RunAnalysisPipeline

// newGitHubClient resolves a token from config, gh CLI or GITHUB_TOKEN.
// Without one the client is unauthenticated, which is enough for public
// repositories but has a much lower rate limit.
func newGitHubClient(cfg *config.Config, logger *slog.Logger) *ghclient.ClientWrapper {
	token := ghclient.ResolveToken(cfg.Global.GitHubToken)
	if token == "" && shouldPrintInfo() {
		fmt.Fprintln(os.Stderr, "⚠️  No GitHub token found. Using unauthenticated requests (60 per hour).")
		fmt.Fprintln(os.Stderr, "   Run 'gitgrade config set-token <token>' or set GITHUB_TOKEN to raise the limit.")
	}
	return ghclient.NewClient(token, logger)
}

// newNarrator builds the narrative generator from the narrative config.
func newNarrator(ctx context.Context, cfg *config.Config, noAI bool, logger *slog.Logger) (narrative.Generator, error) {
	if noAI {
		return narrative.WithFallback(nil, logger), nil
	}

	provider, apiKey := cfg.Narrative.ResolveProvider(os.Getenv)
	timeout, err := cfg.Narrative.RequestTimeout()
	if err != nil {
		return nil, err
	}
	logger.Debug("narrative backend selected", "provider", provider)

	return narrative.New(ctx, narrative.Options{
		Provider: provider,
		Model:    cfg.Narrative.Model,
		APIKey:   apiKey,
		BaseURL:  cfg.Narrative.BaseURL,
		Params: narrative.Params{
			MaxTokens:   cfg.Narrative.MaxTokens,
			Temperature: narrative.Float64(cfg.Narrative.Temperature),
			Timeout:     timeout,
		},
	}, logger)
}

// newAnalyzer wires the GitHub client, the signal fetcher and the narrator.
func newAnalyzer(ctx context.Context, cfg *config.Config, noAI bool) (*pipeline.Analyzer, *ghclient.ClientWrapper, error) {
	logger := slog.Default()
	client := newGitHubClient(cfg, logger)

	narrator, err := newNarrator(ctx, cfg, noAI, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("error configuring narrative backend: %w", err)
	}

	fetcher := signals.NewFetcher(cfg.Global.Concurrency, logger)
	return pipeline.New(client, fetcher, narrator, logger), client, nil
}

// RunAnalysisPipeline grades every repository in opts.Repos concurrently and
// returns the results in argument order. A failure of one repository is
// recorded in its RepoResult and does not stop the others.
func RunAnalysisPipeline(ctx context.Context, opts AnalysisOptions) (*models.Report, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("error loading config: %w", err)
	}

	repoTimeout, err := cfg.Global.RepoTimeout()
	if err != nil {
		return nil, err
	}

	analyzer, client, err := newAnalyzer(ctx, cfg, opts.NoAI)
	if err != nil {
		return nil, err
	}

	// Pre-flight check for rate limits
	limits, err := client.GetRateLimit(ctx)
	if err != nil {
		// Warning only - don't fail
		slog.Warn("could not check rate limit", "error", err)
	} else if totalCost := requestsPerRepo * len(opts.Repos); limits.Remaining < totalCost {
		fmt.Fprintf(os.Stderr, "⚠️  WARNING: Analysis may exhaust rate limit. Estimated ~%d requests needed, %d remaining.\n", totalCost, limits.Remaining)
	}

	start := time.Now()

	// Setup context with cancellation support
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Handle interrupt signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)
	go func() {
		select {
		case <-sigChan:
			fmt.Fprintln(os.Stderr, "\n⚠️  Received interrupt signal. Cancelling analysis...")
			cancel()
		case <-ctx.Done():
		}
	}()

	// Concurrency control
	maxworkers := cfg.Global.Concurrency
	if maxworkers < 1 {
		maxworkers = 1
	}
	sem := make(chan struct{}, maxworkers)
	var wg sync.WaitGroup
	var mu sync.Mutex

	var completed int
	totalRepos := len(opts.Repos)

	var bar *progressbar.ProgressBar
	if shouldPrintInfo() && totalRepos > 1 && term.IsTerminal(int(os.Stderr.Fd())) {
		bar = progressbar.NewOptions(totalRepos,
			progressbar.OptionSetWriter(os.Stderr),
			progressbar.OptionSetDescription("Analyzing repositories"),
			progressbar.OptionSetWidth(40),
			progressbar.OptionShowCount(),
			progressbar.OptionShowIts(),
			progressbar.OptionSetItsString("repos"),
			progressbar.OptionThrottle(100*time.Millisecond),
			progressbar.OptionClearOnFinish(),
		)
	}

	if shouldPrintVerbose() {
		fmt.Fprintf(os.Stderr, "Queueing %d repositories (concurrency: %d)...\n", totalRepos, maxworkers)
	}

	results := make([]models.RepoResult, totalRepos)

	for i, repoArg := range opts.Repos {
		wg.Add(1)
		go func(i int, arg string) {
			defer wg.Done()

			select {
			case <-ctx.Done():
				results[i] = models.RepoResult{Name: arg, Error: "analysis cancelled"}
				return
			case sem <- struct{}{}:
			}
			defer func() { <-sem }()

			results[i] = analyzeOne(ctx, analyzer, arg, repoTimeout)

			mu.Lock()
			completed++
			if bar != nil {
				_ = bar.Add(1)
			} else if shouldPrintVerbose() {
				fmt.Fprintf(os.Stderr, "✓ Completed %s (%d/%d repositories)\n", results[i].Name, completed, totalRepos)
			}
			mu.Unlock()
		}(i, repoArg)
	}

	wg.Wait()

	if bar != nil {
		_ = bar.Finish()
	}

	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("analysis cancelled by user")
	default:
	}

	fullReport := &models.Report{
		Meta: models.ReportMeta{
			RunID:       uuid.NewString(),
			GeneratedAt: start,
			CLIVersion:  Version,
			Command:     opts.Command,
			Duration:    time.Since(start).Round(time.Millisecond).String(),
		},
		Repositories: results,
	}
	fullReport.Summarize()
	return fullReport, nil
}

func analyzeOne(ctx context.Context, analyzer *pipeline.Analyzer, arg string, timeout time.Duration) models.RepoResult {
	target, err := analysis.ParseTarget(arg)
	if err != nil {
		return models.RepoResult{Name: arg, Error: err.Error()}
	}

	out := models.RepoResult{Name: target.FullName(), URL: target.URL()}
	if shouldPrintVerbose() {
		fmt.Fprintf(os.Stderr, "Analyzing %s...\n", out.Name)
	}

	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	res, breakdown, err := analyzer.AnalyzeDetailed(ctx, target)
	if err != nil {
		slog.Debug("analysis failed", "repo", out.Name, "error", err)
		out.Error = err.Error()
		return out
	}
	out.Result = res
	out.Breakdown = breakdown
	return out
}

// colorEnabled reports whether w is a terminal that should get colored output.
func colorEnabled(w io.Writer) bool {
	if flagNoColor || color.NoColor {
		return false
	}
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// renderReport writes the report to the command's output and applies
// --fail-under. A run in which every repository failed is an error.
func renderReport(cmd *cobra.Command, fullReport *models.Report, renderer report.Renderer) error {
	out := cmd.OutOrStdout()
	opts := report.RenderOptions{ShowExplanation: flagExplain, Color: colorEnabled(out)}
	if err := renderer.RenderWithOptions(fullReport, out, opts); err != nil {
		return fmt.Errorf("error rendering report: %w", err)
	}

	s := fullReport.Summary
	if s.TotalReposAnalyzed == 0 && s.Failed > 0 {
		return fmt.Errorf("all %d repositories failed to analyze", s.Failed)
	}
	if flagFail > 0 && s.AvgScore < float64(flagFail) {
		return fmt.Errorf("average score (%.1f) is below threshold (%d)", s.AvgScore, flagFail)
	}
	return nil
}
