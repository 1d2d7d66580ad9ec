package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/go-github/v60/github"
	"github.com/mikematt33/gitgrade/internal/config"
	ghclient "github.com/mikematt33/gitgrade/internal/github"
	"github.com/spf13/cobra"
)

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Inspect GitHub authentication",
	Long: `gitgrade reads public repositories and works without credentials, but unauthenticated
requests are limited to 60 per hour. A token is picked up from, in order:
1. global.github_token in the configuration file ('gitgrade config set-token')
2. the GitHub CLI ('gh auth token')
3. the GITHUB_TOKEN environment variable`,
}

var authStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Check authentication status",
	Long:  "Display where the GitHub token comes from and the remaining API rate limit.",
	Args:  cobra.NoArgs,
	RunE:  runAuthStatus,
}

func init() {
	rootCmd.AddCommand(authCmd)
	authCmd.AddCommand(authStatusCmd)
}

var fetchRateLimit = func(ctx context.Context, token string) (*github.Rate, error) {
	return ghclient.NewClient(token, nil).GetRateLimit(ctx)
}

// isValidToken checks if a token string is valid (non-empty and has expected format).
func isValidToken(token string) bool {
	// Classic PATs are 40 chars with a ghp_ prefix, fine-grained ones start with github_pat_.
	return len(token) >= 20
}

// tokenSource names where ResolveToken found the token.
func tokenSource(cfg *config.Config, token string) string {
	switch {
	case token == "":
		return "none (unauthenticated)"
	case cfg.Global.GitHubToken != "":
		return "config file"
	case os.Getenv("GITHUB_TOKEN") == token:
		return "GITHUB_TOKEN environment variable"
	default:
		return "GitHub CLI (gh auth token)"
	}
}

func runAuthStatus(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "GitHub Authentication Status")
	fmt.Fprintln(out, "----------------------------")

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}

	token := ghclient.ResolveToken(cfg.Global.GitHubToken)
	if token == "" {
		fmt.Fprintln(out, "⚠️  Not authenticated. Public repositories can still be graded.")
	}
	fmt.Fprintf(out, "   Token source: %s\n", tokenSource(cfg, token))

	limits, err := fetchRateLimit(cmd.Context(), token)
	if err != nil {
		if token != "" {
			return fmt.Errorf("token is invalid or expired: %w", err)
		}
		fmt.Fprintf(out, "   Could not fetch rate limit info: %v\n", err)
		return nil
	}

	if token != "" {
		fmt.Fprintln(out, "✅ Authenticated")
	}
	printRateLimit(out, limits, time.Now())
	return nil
}

func printRateLimit(w io.Writer, limits *github.Rate, now time.Time) {
	fmt.Fprintf(w, "   Rate limit: %d/%d remaining\n", limits.Remaining, limits.Limit)
	if limits.Reset.IsZero() {
		return
	}

	timeUntilReset := limits.Reset.Time.Sub(now)
	var humanReadable string
	switch {
	case timeUntilReset < time.Minute:
		humanReadable = fmt.Sprintf("in %d seconds", int(timeUntilReset.Seconds()))
	case timeUntilReset < time.Hour:
		humanReadable = fmt.Sprintf("in %d minutes", int(timeUntilReset.Minutes()))
	default:
		humanReadable = fmt.Sprintf("in %.1f hours", timeUntilReset.Hours())
	}
	fmt.Fprintf(w, "   Resets at: %s (%s)\n", limits.Reset.Format(time.RFC3339), humanReadable)
}
