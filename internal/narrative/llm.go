package narrative

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/mikematt33/gitgrade/pkg/models"
)

const (
	DefaultMaxTokens   = 1000
	DefaultTemperature = 0.7
	DefaultTimeout     = 30 * time.Second
)

const systemPrompt = "You are an expert code reviewer. Provide honest, actionable feedback in JSON format."

// Message is one role-tagged entry of a chat conversation.
type Message struct {
	Role    string // "system" or "user"
	Content string
}

// Params bounds a single completion. A nil Temperature selects
// DefaultTemperature; zero is a valid temperature.
type Params struct {
	MaxTokens   int
	Temperature *float64
	Timeout     time.Duration
}

// Float64 returns a pointer to v.
func Float64(v float64) *float64 { return &v }

// DefaultParams returns the generation parameters used when none are configured.
func DefaultParams() Params {
	return Params{MaxTokens: DefaultMaxTokens, Temperature: Float64(DefaultTemperature), Timeout: DefaultTimeout}
}

// Completer is a generative text backend.
type Completer interface {
	Complete(ctx context.Context, messages []Message, p Params) (string, error)
}

// LLM generates narratives through a Completer. Every failure is reported
// as ErrBackend so that WithFallback can take over.
type LLM struct {
	completer Completer
	params    Params
}

// NewLLM creates an LLM generator. Unset fields of p take their defaults.
func NewLLM(c Completer, p Params) *LLM {
	def := DefaultParams()
	if p.MaxTokens <= 0 {
		p.MaxTokens = def.MaxTokens
	}
	if p.Temperature == nil || *p.Temperature < 0 {
		p.Temperature = def.Temperature
	}
	if p.Timeout <= 0 {
		p.Timeout = def.Timeout
	}
	return &LLM{completer: c, params: p}
}

func (l *LLM) Generate(ctx context.Context, in Input) (models.Narrative, error) {
	ctx, cancel := context.WithTimeout(ctx, l.params.Timeout)
	defer cancel()

	messages := []Message{
		{Role: "system", Content: systemPrompt},
		{Role: "user", Content: buildPrompt(in)},
	}
	content, err := l.completer.Complete(ctx, messages, l.params)
	if err != nil {
		return models.Narrative{}, fmt.Errorf("%w: %v", ErrBackend, err)
	}
	return parseNarrative(content)
}

func buildPrompt(in Input) string {
	s, d := in.Signals, in.Details

	description := s.Description
	if description == "" {
		description = "No description"
	}
	language := s.PrimaryLanguage
	if language == "" {
		language = "Unknown"
	}

	var sb strings.Builder
	sb.WriteString("You are an expert code reviewer and mentor. Analyze this GitHub repository and provide:\n\n")
	sb.WriteString("Repository Info:\n")
	fmt.Fprintf(&sb, "- Name: %s\n", s.FullName)
	fmt.Fprintf(&sb, "- Description: %s\n", description)
	fmt.Fprintf(&sb, "- Language: %s\n", language)
	fmt.Fprintf(&sb, "- Stars: %d\n", s.StarCount)
	fmt.Fprintf(&sb, "- Forks: %d\n", s.ForkCount)
	fmt.Fprintf(&sb, "- Open Issues: %d\n", s.OpenIssueCount)
	fmt.Fprintf(&sb, "- Contributors: %d\n", s.ContributorCount)
	fmt.Fprintf(&sb, "- Files: %d\n", s.FileCount)
	fmt.Fprintf(&sb, "- Top-level Folders: %s\n", strings.Join(s.TopLevelFolders, ", "))
	fmt.Fprintf(&sb, "- Has README: %t\n", s.HasReadme)
	fmt.Fprintf(&sb, "- Has Tests: %t (%d test files)\n", s.HasTests, len(s.TestFilePaths))
	fmt.Fprintf(&sb, "- Commit Count: %d\n", s.CommitCount)
	fmt.Fprintf(&sb, "- Branches: %d\n", len(s.BranchNames))
	fmt.Fprintf(&sb, "- Has PRs: %t\n", s.HasPullRequests)
	fmt.Fprintf(&sb, "- Has CI/CD: %t\n", s.HasContinuousIntegration)

	sb.WriteString("\nAnalysis Scores:\n")
	fmt.Fprintf(&sb, "- Code Quality: %d/100\n", d.CodeQuality)
	fmt.Fprintf(&sb, "- Documentation: %d/100\n", d.Documentation)
	fmt.Fprintf(&sb, "- Git Practices: %d/100\n", d.GitPractices)
	fmt.Fprintf(&sb, "- Structure: %d/100\n", d.Structure)
	fmt.Fprintf(&sb, "- Tests: %d/100\n", d.Tests)
	fmt.Fprintf(&sb, "- Real-World Relevance: %d/100\n", d.RealWorldRelevance)
	fmt.Fprintf(&sb, "- Overall Score: %d/100\n", in.Score)

	sb.WriteString(`
Provide:
1. A concise summary (2-3 sentences) highlighting strengths and weaknesses
2. A personalized roadmap with 5-7 actionable improvement steps

Format your response as JSON:
{
  "summary": "Your summary here",
  "roadmap": ["Step 1", "Step 2", "Step 3", ...]
}`)
	return sb.String()
}

// parseNarrative decodes the first JSON object in content. The reply is
// accepted only with a non-empty summary string and a roadmap array of
// strings holding at least one step.
func parseNarrative(content string) (models.Narrative, error) {
	start := strings.IndexByte(content, '{')
	if start < 0 {
		return models.Narrative{}, fmt.Errorf("%w: no JSON object in reply", ErrBackend)
	}

	var fields map[string]json.RawMessage
	if err := json.NewDecoder(strings.NewReader(content[start:])).Decode(&fields); err != nil {
		return models.Narrative{}, fmt.Errorf("%w: decoding reply: %v", ErrBackend, err)
	}

	var summary string
	if err := json.Unmarshal(fields["summary"], &summary); err != nil || strings.TrimSpace(summary) == "" {
		return models.Narrative{}, fmt.Errorf("%w: reply has no summary", ErrBackend)
	}

	var raw []string
	if err := json.Unmarshal(fields["roadmap"], &raw); err != nil {
		return models.Narrative{}, fmt.Errorf("%w: roadmap is not a list of strings", ErrBackend)
	}
	steps := make([]string, 0, len(raw))
	for _, step := range raw {
		if step = strings.TrimSpace(step); step != "" {
			steps = append(steps, step)
		}
	}
	if len(steps) == 0 {
		return models.Narrative{}, fmt.Errorf("%w: roadmap is empty", ErrBackend)
	}

	return models.Narrative{
		Summary: strings.TrimSpace(summary),
		Roadmap: normalizeRoadmap(steps),
	}, nil
}
