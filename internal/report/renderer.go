package report

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/mikematt33/gitgrade/pkg/models"
)

type Format string

const (
	FormatJSON     Format = "json"
	FormatText     Format = "text"
	FormatMarkdown Format = "markdown"
)

// Formats lists the accepted --format values.
var Formats = []string{string(FormatText), string(FormatJSON), string(FormatMarkdown)}

// RenderOptions contains options for rendering reports
type RenderOptions struct {
	ShowExplanation bool
	Color           bool
}

type Renderer interface {
	Render(report *models.Report, w io.Writer) error
	RenderWithOptions(report *models.Report, w io.Writer, opts RenderOptions) error
}

func NewRenderer(f Format) Renderer {
	switch f {
	case FormatJSON:
		return &JSONRenderer{}
	case FormatMarkdown:
		return &MarkdownRenderer{}
	default:
		return &TextRenderer{}
	}
}

// ParseFormat validates a --format value.
func ParseFormat(s string) (Format, error) {
	for _, f := range Formats {
		if s == f {
			return Format(s), nil
		}
	}
	return "", fmt.Errorf("unknown format %q (use text, json or markdown)", s)
}

type JSONRenderer struct{}

func (r *JSONRenderer) Render(report *models.Report, w io.Writer) error {
	return r.RenderWithOptions(report, w, RenderOptions{})
}

// RenderWithOptions omits the rule breakdown unless an explanation was asked for.
func (r *JSONRenderer) RenderWithOptions(report *models.Report, w io.Writer, opts RenderOptions) error {
	out := *report
	if !opts.ShowExplanation {
		out.Repositories = make([]models.RepoResult, len(report.Repositories))
		for i, repo := range report.Repositories {
			repo.Breakdown = nil
			out.Repositories[i] = repo
		}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

var (
	advancedColor     = color.New(color.FgGreen, color.Bold)
	intermediateColor = color.New(color.FgYellow, color.Bold)
	beginnerColor     = color.New(color.FgRed, color.Bold)
	errorColor        = color.New(color.FgRed)
)

// scoreColor follows the level thresholds.
func scoreColor(score int) *color.Color {
	switch {
	case score >= 80:
		return advancedColor
	case score >= 60:
		return intermediateColor
	default:
		return beginnerColor
	}
}

func paint(c *color.Color, enabled bool, s string) string {
	if !enabled {
		return s
	}
	return c.Sprint(s)
}

type namedScore struct {
	Name  string
	Score int
}

// subScores lists the six sub-scores in display order.
func subScores(d models.AnalysisDetails) []namedScore {
	return []namedScore{
		{"Code Quality", d.CodeQuality},
		{"Documentation", d.Documentation},
		{"Git Practices", d.GitPractices},
		{"Structure", d.Structure},
		{"Tests", d.Tests},
		{"Real-World Relevance", d.RealWorldRelevance},
	}
}

func languageOrUnknown(lang string) string {
	if lang == "" {
		return "Unknown"
	}
	return lang
}

type TextRenderer struct{}

func (r *TextRenderer) Render(report *models.Report, w io.Writer) error {
	return r.RenderWithOptions(report, w, RenderOptions{})
}

func (r *TextRenderer) RenderWithOptions(report *models.Report, w io.Writer, opts RenderOptions) error {
	if len(report.Repositories) == 0 {
		_, _ = fmt.Fprintln(w, "No repositories analyzed.")
		return nil
	}

	for _, repo := range report.Repositories {
		_, _ = fmt.Fprintf(w, "\n🔎 REPORT FOR: %s (%s)\n", repo.Name, repo.URL)
		_, _ = fmt.Fprintln(w, "==================================================")

		if repo.Result == nil {
			_, _ = fmt.Fprintf(w, "  %s\n", paint(errorColor, opts.Color, "❌ Analysis failed: "+repo.Error))
			_, _ = fmt.Fprintln(w, "--------------------------------------------------")
			continue
		}
		res := repo.Result

		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		if res.Repository.Description != "" {
			_, _ = fmt.Fprintf(tw, "  Description:\t%s\n", res.Repository.Description)
		}
		_, _ = fmt.Fprintf(tw, "  Language:\t%s\n", languageOrUnknown(res.Repository.Language))
		_, _ = fmt.Fprintf(tw, "  Stars:\t%d\n", res.Repository.Stars)
		scoreLine := fmt.Sprintf("%d/100 (%s)", res.Score, res.Level)
		_, _ = fmt.Fprintf(tw, "  Score:\t%s\n", paint(scoreColor(res.Score), opts.Color, scoreLine))
		_ = tw.Flush()

		_, _ = fmt.Fprintln(w, "\n[ sub-scores ]")
		tw = tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		for _, s := range subScores(res.Details) {
			_, _ = fmt.Fprintf(tw, "  %s:\t%s\n", s.Name, paint(scoreColor(s.Score), opts.Color, fmt.Sprintf("%d/100", s.Score)))
		}
		_ = tw.Flush()

		if opts.ShowExplanation && len(repo.Breakdown) > 0 {
			_, _ = fmt.Fprintln(w, "\n[ score breakdown ]")
			for _, b := range repo.Breakdown {
				_, _ = fmt.Fprintf(w, "  • %s: %d/100 (weight %d%%)\n", b.Name, b.Score, b.Weight)
				if len(b.Rules) == 0 {
					_, _ = fmt.Fprintln(w, "      no rule matched")
				}
				for _, rule := range b.Rules {
					_, _ = fmt.Fprintf(w, "      +%-3d %s\n", rule.Points, rule.Description)
				}
			}
		}

		_, _ = fmt.Fprintln(w, "\n[ summary ]")
		_, _ = fmt.Fprintf(w, "  %s\n", res.Summary)

		_, _ = fmt.Fprintln(w, "\n[ roadmap ]")
		for i, step := range res.Roadmap {
			_, _ = fmt.Fprintf(w, "  %d. %s\n", i+1, step)
		}
		_, _ = fmt.Fprintln(w, "--------------------------------------------------")
	}

	if len(report.Repositories) < 2 {
		return nil
	}

	_, _ = fmt.Fprintln(w, "")
	_, _ = fmt.Fprintln(w, "📊 SUMMARY")
	_, _ = fmt.Fprintln(w, "==================================================")

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintf(tw, "Repositories Analyzed:\t%d\n", report.Summary.TotalReposAnalyzed)
	if report.Summary.Failed > 0 {
		_, _ = fmt.Fprintf(tw, "Failed:\t%d\n", report.Summary.Failed)
	}
	if report.Summary.TotalReposAnalyzed > 0 {
		_, _ = fmt.Fprintf(tw, "Avg Score:\t%.1f/100\n", report.Summary.AvgScore)
	}
	for _, level := range []models.Level{models.LevelAdvanced, models.LevelIntermediate, models.LevelBeginner} {
		if n := report.Summary.Levels[level]; n > 0 {
			_, _ = fmt.Fprintf(tw, "%s:\t%d\n", level, n)
		}
	}
	_ = tw.Flush()
	_, _ = fmt.Fprintln(w, "--------------------------------------------------")

	return nil
}
