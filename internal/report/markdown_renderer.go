package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/mikematt33/gitgrade/pkg/models"
)

// MarkdownRenderer renders reports in Markdown format suitable for GitHub Actions and PR comments
type MarkdownRenderer struct{}

func (r *MarkdownRenderer) Render(report *models.Report, w io.Writer) error {
	return r.RenderWithOptions(report, w, RenderOptions{})
}

func (r *MarkdownRenderer) RenderWithOptions(report *models.Report, w io.Writer, opts RenderOptions) error {
	if len(report.Repositories) == 0 {
		_, _ = fmt.Fprintln(w, "## 📊 Repository Grades")
		_, _ = fmt.Fprintln(w, "")
		_, _ = fmt.Fprintln(w, "No repositories analyzed.")
		return nil
	}

	_, _ = fmt.Fprintln(w, "## 📊 Repository Grades")
	_, _ = fmt.Fprintln(w, "")

	for _, repo := range report.Repositories {
		if repo.Result == nil {
			_, _ = fmt.Fprintf(w, "### ❌ %s\n\n", repo.Name)
			_, _ = fmt.Fprintf(w, "Analysis failed: %s\n\n", repo.Error)
			_, _ = fmt.Fprintln(w, "---")
			_, _ = fmt.Fprintln(w, "")
			continue
		}
		res := repo.Result

		_, _ = fmt.Fprintf(w, "### %s [%s](%s)\n", getScoreEmoji(res.Score), repo.Name, repo.URL)
		_, _ = fmt.Fprintf(w, "**Score: %d/100 (%s)**\n\n", res.Score, res.Level)
		if res.Repository.Description != "" {
			_, _ = fmt.Fprintf(w, "> %s\n\n", escapeCell(res.Repository.Description))
		}
		_, _ = fmt.Fprintf(w, "Language: %s · ⭐ %d\n\n", languageOrUnknown(res.Repository.Language), res.Repository.Stars)

		_, _ = fmt.Fprintln(w, "| Category | Score |")
		_, _ = fmt.Fprintln(w, "|----------|-------|")
		for _, s := range subScores(res.Details) {
			_, _ = fmt.Fprintf(w, "| %s | %s %d/100 |\n", s.Name, getScoreEmoji(s.Score), s.Score)
		}
		_, _ = fmt.Fprintln(w, "")

		if opts.ShowExplanation && len(repo.Breakdown) > 0 {
			r.renderScoreBreakdown(repo.Breakdown, w)
		}

		_, _ = fmt.Fprintln(w, "#### 📝 Summary")
		_, _ = fmt.Fprintln(w, "")
		_, _ = fmt.Fprintln(w, res.Summary)
		_, _ = fmt.Fprintln(w, "")

		_, _ = fmt.Fprintln(w, "#### 🗺️ Roadmap")
		_, _ = fmt.Fprintln(w, "")
		for i, step := range res.Roadmap {
			_, _ = fmt.Fprintf(w, "%d. %s\n", i+1, step)
		}
		_, _ = fmt.Fprintln(w, "")
		_, _ = fmt.Fprintln(w, "---")
		_, _ = fmt.Fprintln(w, "")
	}

	if len(report.Repositories) > 1 {
		_, _ = fmt.Fprintln(w, "### 📊 Summary")
		_, _ = fmt.Fprintln(w, "")
		_, _ = fmt.Fprintln(w, "| Metric | Value |")
		_, _ = fmt.Fprintln(w, "|--------|-------|")
		_, _ = fmt.Fprintf(w, "| Repositories Analyzed | %d |\n", report.Summary.TotalReposAnalyzed)
		if report.Summary.Failed > 0 {
			_, _ = fmt.Fprintf(w, "| Failed | %d |\n", report.Summary.Failed)
		}
		if report.Summary.TotalReposAnalyzed > 0 {
			_, _ = fmt.Fprintf(w, "| Average Score | %.1f/100 |\n", report.Summary.AvgScore)
		}
		_, _ = fmt.Fprintln(w, "")
	}

	// Footer
	_, _ = fmt.Fprintf(w, "<sub>Generated by [gitgrade](https://github.com/mikematt33/gitgrade) at %s</sub>\n",
		report.Meta.GeneratedAt.Format("2006-01-02 15:04:05"))

	return nil
}

func (r *MarkdownRenderer) renderScoreBreakdown(breakdown []models.CategoryBreakdown, w io.Writer) {
	_, _ = fmt.Fprintln(w, "<details>")
	_, _ = fmt.Fprintln(w, "<summary><b>📊 Score Breakdown</b></summary>")
	_, _ = fmt.Fprintln(w, "")
	_, _ = fmt.Fprintln(w, "| Category | Weight | Score | Rules matched |")
	_, _ = fmt.Fprintln(w, "|----------|--------|-------|---------------|")

	for _, b := range breakdown {
		rules := make([]string, 0, len(b.Rules))
		for _, rule := range b.Rules {
			rules = append(rules, fmt.Sprintf("+%d %s", rule.Points, rule.Description))
		}
		matched := "-"
		if len(rules) > 0 {
			matched = strings.Join(rules, "<br>")
		}
		_, _ = fmt.Fprintf(w, "| %s | %d%% | %d | %s |\n", b.Name, b.Weight, b.Score, matched)
	}

	_, _ = fmt.Fprintln(w, "</details>")
	_, _ = fmt.Fprintln(w, "")
}

func escapeCell(s string) string {
	return strings.ReplaceAll(strings.ReplaceAll(s, "|", `\|`), "\n", " ")
}

func getScoreEmoji(score int) string {
	switch {
	case score >= 80:
		return "🟢"
	case score >= 60:
		return "🟡"
	default:
		return "🔴"
	}
}
