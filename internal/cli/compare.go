package cli

import (
	"fmt"

	"github.com/mikematt33/gitgrade/internal/report"
	"github.com/spf13/cobra"
)

var compareCmd = &cobra.Command{
	Use:   "compare [repos...]",
	Short: "Compare multiple repositories side-by-side",
	Long: `Grade several repositories and display their scores in one comparison table.
Useful for benchmarking your own projects against each other or against well-known open source repositories.

Minimum 2 repositories required. Supports --quiet and --verbose flags.`,
	Example: `  gitgrade compare owner/repo1 owner/repo2
  gitgrade compare owner/repo1 owner/repo2 owner/repo3
  gitgrade compare owner/repo1 owner/repo2 --format=json`,
	Args: cobra.MinimumNArgs(2),
	RunE: runComparison,
}

func init() {
	rootCmd.AddCommand(compareCmd)
	registerAnalysisFlags(compareCmd)
}

func runComparison(cmd *cobra.Command, args []string) error {
	format, err := report.ParseFormat(flagFormat)
	if err != nil {
		return err
	}

	fullReport, err := pipelineRunner(cmd.Context(), AnalysisOptions{
		Repos:   args,
		Command: "compare",
		NoAI:    flagNoAI,
	})
	if err != nil {
		return fmt.Errorf("error running analysis: %w", err)
	}

	// Text output is a table rather than one section per repository.
	var renderer report.Renderer = &report.ComparisonTextRenderer{}
	if format != report.FormatText {
		renderer = report.NewRenderer(format)
	}
	return renderReport(cmd, fullReport, renderer)
}
