// Package mcpserver exposes repository grading as Model Context Protocol tools.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/mikematt33/gitgrade/internal/analysis"
	"github.com/mikematt33/gitgrade/internal/analysis/scoring"
	"github.com/mikematt33/gitgrade/pkg/models"
)

// Analyzer grades one repository.
type Analyzer interface {
	Analyze(ctx context.Context, target analysis.TargetRepository) (*models.AnalysisResult, error)
}

type toolHandler struct {
	analyzer Analyzer
}

// NewMCPServer configures the server without starting it.
func NewMCPServer(analyzer Analyzer, version string) *server.MCPServer {
	s := server.NewMCPServer(
		"gitgrade",
		version,
		server.WithLogging(),
	)

	h := &toolHandler{analyzer: analyzer}

	s.AddTool(mcp.NewTool("analyze_repository",
		mcp.WithDescription("Grade a public GitHub repository: overall score, level, six sub-scores, a summary and an improvement roadmap."),
		mcp.WithString("repo", mcp.Description("Repository as owner/repo or a https://github.com URL."), mcp.Required()),
	), h.handleAnalyze)

	s.AddTool(mcp.NewTool("list_scoring_rules",
		mcp.WithDescription("List the scoring categories, their weights and the rules that award points."),
	), h.handleListRules)

	return s
}

// Serve runs the server on stdin/stdout until the client disconnects.
func Serve(analyzer Analyzer, version string) error {
	return server.ServeStdio(NewMCPServer(analyzer, version))
}

func (h *toolHandler) handleAnalyze(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	raw := request.GetString("repo", "")
	target, err := analysis.ParseTarget(raw)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	res, err := h.analyzer.Analyze(ctx, target)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("analysis failed: %v", err)), nil
	}

	jsonData, _ := json.MarshalIndent(res, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

type ruleView struct {
	Description string `json:"description"`
	Points      int    `json:"points"`
}

type categoryView struct {
	Key    string     `json:"key"`
	Name   string     `json:"name"`
	Weight int        `json:"weight"`
	Rules  []ruleView `json:"rules"`
}

func (h *toolHandler) handleListRules(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var out []categoryView
	for _, c := range scoring.Categories() {
		cv := categoryView{Key: c.Key, Name: c.Name, Weight: c.WeightPercent}
		for _, r := range c.Rules {
			cv.Rules = append(cv.Rules, ruleView{Description: r.Description, Points: r.Points})
		}
		out = append(out, cv)
	}
	jsonData, _ := json.MarshalIndent(out, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}
