package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/mikematt33/gitgrade/internal/config"
	"github.com/mikematt33/gitgrade/internal/server"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 10 * time.Second

var flagAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the analysis over HTTP",
	Long: `Start an HTTP server exposing the analysis as a JSON API.

  POST /api/analyze   {"repoUrl": "https://github.com/owner/repo"}
  GET  /healthz`,
	Example: `  gitgrade serve
  gitgrade serve --addr 127.0.0.1:9000 --no-ai`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&flagAddr, "addr", ":8080", "Address to listen on")
	serveCmd.Flags().BoolVar(&flagNoAI, "no-ai", false, "Use the rule-based summary and roadmap even when an LLM key is configured")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	repoTimeout, err := cfg.Global.RepoTimeout()
	if err != nil {
		return err
	}

	analyzer, _, err := newAnalyzer(ctx, cfg, flagNoAI)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              flagAddr,
		Handler:           server.New(analyzer, repoTimeout, slog.Default()),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("starting gitgrade server", "addr", flagAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	if shouldPrintInfo() {
		fmt.Fprintf(cmd.ErrOrStderr(), "🚀 Listening on %s (Ctrl+C to stop)\n", flagAddr)
	}

	select {
	case err := <-errCh:
		return fmt.Errorf("listen: %w", err)
	case <-ctx.Done():
	}

	slog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
