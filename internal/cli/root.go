package cli

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/fatih/color"
	"github.com/mikematt33/gitgrade/internal/config"
	"github.com/mikematt33/gitgrade/internal/report"
	"github.com/spf13/cobra"
)

// Version can be set via build flags: -ldflags "-X 'github.com/mikematt33/gitgrade/internal/cli.Version=v1.0.0'"
var Version = "dev"

var (
	rootCmd = &cobra.Command{
		Use:   "gitgrade",
		Short: "Grade GitHub repositories and get an improvement roadmap",
		Long: `gitgrade scores public GitHub repositories on code quality, documentation,
git practices, structure, tests and real-world relevance.
Each analysis yields an overall score out of 100, a level, a short summary and a roadmap of next steps.`,
		Version:           Version,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: setup,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}

	analyzeCmd = &cobra.Command{
		Use:     "analyze [repos...]",
		Aliases: []string{"run"},
		Short:   "Grade one or more repositories (owner/repo or GitHub URL)",
		Long: `Analyze one or more GitHub repositories.
Signals are fetched from the GitHub API, scored against fixed rules, and summarized.
When an OpenRouter or Gemini API key is configured the summary and roadmap are written by an LLM;
otherwise a rule-based narrative is used.`,
		Example: `  gitgrade analyze owner/repo
  gitgrade analyze https://github.com/owner/repo --explain
  gitgrade analyze owner/repo1 owner/repo2 --format=json > report.json`,
		Args: cobra.MinimumNArgs(1),
		RunE: runAnalysis,
	}
)

// Global flags
var (
	flagVerbose bool
	flagQuiet   bool
	flagNoColor bool
)

// Analysis flags
var (
	flagFormat  string
	flagExplain bool
	flagNoAI    bool
	flagFail    int
)

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "❌ %v\n", err)
		os.Exit(1)
	}
}

func shouldPrintInfo() bool {
	return !flagQuiet
}

func shouldPrintVerbose() bool {
	return flagVerbose && !flagQuiet
}

// setup runs before every command: logging, colors, .env and the config file.
func setup(cmd *cobra.Command, args []string) error {
	level := slog.LevelWarn
	switch {
	case flagQuiet:
		level = slog.LevelError
	case flagVerbose:
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	if flagNoColor {
		color.NoColor = true
	}

	if err := config.LoadEnv(); err != nil {
		slog.Warn("could not load .env", "error", err)
	}

	checkAndInitConfig(cmd)
	return nil
}

func checkAndInitConfig(cmd *cobra.Command) {
	top := cmd
	for top.HasParent() && top.Parent().HasParent() {
		top = top.Parent()
	}
	// mcp owns stdout for the protocol and must not be interrupted.
	switch top.Name() {
	case "init", "config", "auth", "mcp", "completion", "help", "__complete":
		return
	}

	configPath, err := config.GetConfigPath()
	if err != nil {
		// Can't resolve path, probably can't save either. Ignore.
		return
	}

	if _, err := os.Stat(configPath); errors.Is(err, os.ErrNotExist) {
		w := cmd.ErrOrStderr()
		if shouldPrintInfo() {
			fmt.Fprintf(w, "ℹ️  Config not found at %s. Initializing default configuration...\n", configPath)
		}
		if err := createDefaultConfig(configPath); err != nil {
			fmt.Fprintf(w, "⚠️  Failed to auto-create config: %v\n", err)
		} else if shouldPrintInfo() {
			fmt.Fprintln(w, "✅ Config created.")
		}
	}
}

func completeFormats(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	return report.Formats, cobra.ShellCompDirectiveNoFileComp
}

// registerAnalysisFlags adds the flags shared by every command that grades repositories.
func registerAnalysisFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&flagFormat, "format", "f", "text", "Output format (text, json, markdown)")
	_ = cmd.RegisterFlagCompletionFunc("format", completeFormats)
	cmd.Flags().BoolVar(&flagExplain, "explain", false, "Show which scoring rules awarded points")
	cmd.Flags().BoolVar(&flagNoAI, "no-ai", false, "Use the rule-based summary and roadmap even when an LLM key is configured")
	cmd.Flags().IntVar(&flagFail, "fail-under", 0, "Exit with error code 1 if the average score is below this value")
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Print debug logs and per-repository progress")
	rootCmd.PersistentFlags().BoolVarP(&flagQuiet, "quiet", "q", false, "Only print the report and errors")
	rootCmd.PersistentFlags().BoolVar(&flagNoColor, "no-color", false, "Disable colored output")

	rootCmd.AddCommand(analyzeCmd)
	registerAnalysisFlags(analyzeCmd)
}

func runAnalysis(cmd *cobra.Command, args []string) error {
	format, err := report.ParseFormat(flagFormat)
	if err != nil {
		return err
	}

	fullReport, err := pipelineRunner(cmd.Context(), AnalysisOptions{
		Repos:   args,
		Command: "analyze",
		NoAI:    flagNoAI,
	})
	if err != nil {
		return fmt.Errorf("error running analysis: %w", err)
	}

	return renderReport(cmd, fullReport, report.NewRenderer(format))
}
