// Package server exposes repository analysis over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/mikematt33/gitgrade/internal/analysis"
	"github.com/mikematt33/gitgrade/pkg/models"
)

const maxBodyBytes = 1 << 16

// Analyzer grades one repository.
type Analyzer interface {
	Analyze(ctx context.Context, target analysis.TargetRepository) (*models.AnalysisResult, error)
}

// Server serves POST /api/analyze and GET /healthz.
type Server struct {
	analyzer Analyzer
	timeout  time.Duration
	logger   *slog.Logger
	mux      *http.ServeMux
}

// New creates a Server. A positive timeout bounds each analysis.
func New(analyzer Analyzer, timeout time.Duration, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{analyzer: analyzer, timeout: timeout, logger: logger, mux: http.NewServeMux()}
	s.mux.HandleFunc("POST /api/analyze", s.handleAnalyze)
	s.mux.HandleFunc("GET /healthz", s.handleHealth)
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

type analyzeRequest struct {
	RepoURL string `json:"repoUrl"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	requestID := uuid.NewString()
	log := s.logger.With("request_id", requestID)
	w.Header().Set("X-Request-Id", requestID)

	var req analyzeRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Invalid JSON body"})
		return
	}
	if req.RepoURL == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Repository URL is required"})
		return
	}
	target, err := analysis.ParseTarget(req.RepoURL)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Invalid GitHub repository URL"})
		return
	}

	ctx := r.Context()
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	start := time.Now()
	res, err := s.analyzer.Analyze(ctx, target)
	if err != nil {
		status := statusFor(err)
		log.Warn("analysis failed", "repo", target.FullName(), "status", status, "error", err)
		writeJSON(w, status, errorResponse{Error: err.Error()})
		return
	}

	log.Info("analysis complete", "repo", target.FullName(), "score", res.Score, "duration", time.Since(start))
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// statusFor maps fatal analysis errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, analysis.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, analysis.ErrRateLimited):
		return http.StatusTooManyRequests
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusBadGateway
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
