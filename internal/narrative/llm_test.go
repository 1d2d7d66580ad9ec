package narrative

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/mikematt33/gitgrade/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCompleter struct {
	reply string
	err   error

	messages []Message
	params   Params
	deadline bool
}

func (f *fakeCompleter) Complete(ctx context.Context, messages []Message, p Params) (string, error) {
	f.messages = messages
	f.params = p
	_, f.deadline = ctx.Deadline()
	return f.reply, f.err
}

func sampleInput() Input {
	return Input{
		Signals: models.RepositorySignals{
			FullName:        "octo/demo",
			PrimaryLanguage: "Go",
			StarCount:       42,
			BranchNames:     []string{"main", "dev"},
			HasReadme:       true,
		},
		Details: models.AnalysisDetails{CodeQuality: 55, Documentation: 80, Tests: 20},
		Score:   47,
	}
}

func TestLLM_ValidReply(t *testing.T) {
	fc := &fakeCompleter{reply: "Sure! Here you go:\n```json\n{\"summary\": \" Solid start. \", \"roadmap\": [\"Add tests\", \"Set up CI\"]}\n```\nGood luck {not json}"}
	n, err := NewLLM(fc, Params{}).Generate(context.Background(), sampleInput())
	require.NoError(t, err)

	assert.Equal(t, "Solid start.", n.Summary)
	assert.Equal(t, []string{"Add tests", "Set up CI", stepKeepImproving, stepKeepImproving, stepKeepImproving}, n.Roadmap)

	require.Len(t, fc.messages, 2)
	assert.Equal(t, "system", fc.messages[0].Role)
	assert.Equal(t, "user", fc.messages[1].Role)
	assert.Contains(t, fc.messages[1].Content, "- Name: octo/demo")
	assert.Contains(t, fc.messages[1].Content, "- Branches: 2")
	assert.Contains(t, fc.messages[1].Content, "- Documentation: 80/100")
	assert.Contains(t, fc.messages[1].Content, "- Overall Score: 47/100")
	assert.Contains(t, fc.messages[1].Content, "- Description: No description")

	assert.Equal(t, DefaultParams(), fc.params)
	assert.True(t, fc.deadline, "completion must be time-bounded")
}

func TestLLM_TruncatesLongRoadmap(t *testing.T) {
	steps := make([]string, 10)
	for i := range steps {
		steps[i] = "step"
	}
	fc := &fakeCompleter{reply: `{"summary":"ok","roadmap":["` + strings.Join(steps, `","`) + `"]}`}
	n, err := NewLLM(fc, Params{MaxTokens: 200, Temperature: Float64(0.2), Timeout: time.Second}).Generate(context.Background(), sampleInput())
	require.NoError(t, err)
	assert.Len(t, n.Roadmap, MaxRoadmapSteps)
	assert.Equal(t, Params{MaxTokens: 200, Temperature: Float64(0.2), Timeout: time.Second}, fc.params)
}

func TestLLM_RejectsBadReplies(t *testing.T) {
	tests := []struct {
		name  string
		reply string
		err   error
	}{
		{"backend error", "", errors.New("connection reset")},
		{"timeout", "", context.DeadlineExceeded},
		{"empty", "", nil},
		{"no json", "I cannot help with that.", nil},
		{"malformed json", `{"summary": "x", "roadmap": [`, nil},
		{"roadmap not a list", `{"summary": "x", "roadmap": "do better"}`, nil},
		{"roadmap of numbers", `{"summary": "x", "roadmap": [1, 2]}`, nil},
		{"empty roadmap", `{"summary": "x", "roadmap": ["  "]}`, nil},
		{"missing summary", `{"roadmap": ["a"]}`, nil},
		{"summary not a string", `{"summary": 3, "roadmap": ["a"]}`, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fc := &fakeCompleter{reply: tt.reply, err: tt.err}
			_, err := NewLLM(fc, Params{}).Generate(context.Background(), sampleInput())
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrBackend)
		})
	}
}

func TestWithFallback(t *testing.T) {
	in := sampleInput()
	want, err := RuleBased{}.Generate(context.Background(), in)
	require.NoError(t, err)

	t.Run("nil primary", func(t *testing.T) {
		n, err := WithFallback(nil, nil).Generate(context.Background(), in)
		require.NoError(t, err)
		assert.Equal(t, want, n)
	})

	t.Run("failing primary", func(t *testing.T) {
		g := WithFallback(NewLLM(&fakeCompleter{reply: "nope"}, Params{}), nil)
		n, err := g.Generate(context.Background(), in)
		require.NoError(t, err)
		assert.Equal(t, want, n)
	})

	t.Run("working primary", func(t *testing.T) {
		g := WithFallback(NewLLM(&fakeCompleter{reply: `{"summary":"llm","roadmap":["a","b","c","d","e","f"]}`}, Params{}), nil)
		n, err := g.Generate(context.Background(), in)
		require.NoError(t, err)
		assert.Equal(t, "llm", n.Summary)
		assert.Len(t, n.Roadmap, 6)
	})
}

func TestNew_SelectsBackend(t *testing.T) {
	ctx := context.Background()

	g, err := New(ctx, Options{Provider: ProviderNone, APIKey: "k"}, nil)
	require.NoError(t, err)
	assert.Nil(t, g.(*fallback).primary)

	g, err = New(ctx, Options{Provider: ProviderOpenRouter}, nil)
	require.NoError(t, err)
	assert.Nil(t, g.(*fallback).primary, "no key means rule-based only")

	g, err = New(ctx, Options{Provider: ProviderOpenRouter, APIKey: "k"}, nil)
	require.NoError(t, err)
	llm, ok := g.(*fallback).primary.(*LLM)
	require.True(t, ok)
	assert.IsType(t, &OpenRouter{}, llm.completer)
	assert.Equal(t, DefaultParams(), llm.params)

	_, err = New(ctx, Options{Provider: "palm", APIKey: "k"}, nil)
	assert.Error(t, err)
}

func TestLLM_Temperature(t *testing.T) {
	tests := []struct {
		name string
		in   *float64
		want float64
	}{
		{"unset uses default", nil, DefaultTemperature},
		{"zero is kept", Float64(0), 0},
		{"negative uses default", Float64(-1), DefaultTemperature},
		{"explicit", Float64(1.3), 1.3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fc := &fakeCompleter{reply: `{"summary":"ok","roadmap":["a"]}`}
			_, err := NewLLM(fc, Params{Temperature: tt.in}).Generate(context.Background(), sampleInput())
			require.NoError(t, err)
			require.NotNil(t, fc.params.Temperature)
			assert.InDelta(t, tt.want, *fc.params.Temperature, 1e-9)
		})
	}
}
