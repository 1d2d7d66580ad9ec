package report

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/mikematt33/gitgrade/pkg/models"
)

// ComparisonTextRenderer prints the repositories side by side, one column each.
type ComparisonTextRenderer struct{}

func (r *ComparisonTextRenderer) Render(report *models.Report, w io.Writer) error {
	return r.RenderWithOptions(report, w, RenderOptions{})
}

// RenderWithOptions only uses opts.Color, for the highlight line. Escape
// codes inside the table would break the column alignment.
func (r *ComparisonTextRenderer) RenderWithOptions(report *models.Report, w io.Writer, opts RenderOptions) error {
	if len(report.Repositories) == 0 {
		_, _ = fmt.Fprintln(w, "No repositories to compare.")
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 0, 3, ' ', 0)

	_, _ = fmt.Fprint(tw, "METRIC\t")
	for _, repo := range report.Repositories {
		name := repo.Name
		if len(name) > 20 {
			name = "..." + name[len(name)-17:]
		}
		_, _ = fmt.Fprintf(tw, "%s\t", name)
	}
	_, _ = fmt.Fprintln(tw, "")

	_, _ = fmt.Fprint(tw, "------\t")
	for range report.Repositories {
		_, _ = fmt.Fprint(tw, "------\t")
	}
	_, _ = fmt.Fprintln(tw, "")

	row := func(label string, value func(res *models.AnalysisResult) string) {
		_, _ = fmt.Fprintf(tw, "%s\t", label)
		for _, repo := range report.Repositories {
			val := "-"
			if repo.Result != nil {
				val = value(repo.Result)
			}
			_, _ = fmt.Fprintf(tw, "%s\t", val)
		}
		_, _ = fmt.Fprintln(tw, "")
	}

	row("Score", func(res *models.AnalysisResult) string { return fmt.Sprintf("%d", res.Score) })
	row("Level", func(res *models.AnalysisResult) string { return string(res.Level) })
	for i, s := range subScores(models.AnalysisDetails{}) {
		row("  "+s.Name, func(res *models.AnalysisResult) string {
			return fmt.Sprintf("%d", subScores(res.Details)[i].Score)
		})
	}
	row("Language", func(res *models.AnalysisResult) string { return languageOrUnknown(res.Repository.Language) })
	row("Stars", func(res *models.AnalysisResult) string { return fmt.Sprintf("%d", res.Repository.Stars) })

	if err := tw.Flush(); err != nil {
		return err
	}

	for _, repo := range report.Repositories {
		if repo.Result == nil {
			_, _ = fmt.Fprintf(w, "\n❌ %s: %s\n", repo.Name, repo.Error)
		}
	}

	if best := bestRepository(report); best != "" {
		_, _ = fmt.Fprintf(w, "\n🏆 Highest score: %s\n", paint(advancedColor, opts.Color, best))
	}
	return nil
}

// bestRepository names the highest scoring repository; ties go to the first.
func bestRepository(report *models.Report) string {
	best, bestScore := "", -1
	for _, repo := range report.Repositories {
		if repo.Result != nil && repo.Result.Score > bestScore {
			best, bestScore = repo.Name, repo.Result.Score
		}
	}
	return best
}
