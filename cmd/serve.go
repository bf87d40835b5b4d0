package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vishal-mourya/Dynamic-Test-Identifier-And-Runner/internal/api"
	"github.com/vishal-mourya/Dynamic-Test-Identifier-And-Runner/internal/contract"
)

// serveCmd runs the HTTP API.
var serveCmd = &cobra.Command{
	Use:   "serve [repo-path]",
	Short: "Serve the analysis engine over HTTP",
	Long: `Start an HTTP API for CI jobs and the browser extension.

Endpoints:
  GET  /healthz               - liveness probe
  GET  /api/v1/languages      - known language profiles
  POST /api/v1/analyze        - analyze a change document
  POST /api/v1/templates      - render a test skeleton
  POST /api/v1/trigger        - analyze and queue tests in CI (?dryRun=true)

Request bodies use the change document format printed by 'testid schema'.
Browser clients need their origin listed in --allowed-origins.

Examples:
  # Local API for the browser extension
  testid serve --addr 127.0.0.1:8080 --allowed-origins chrome-extension://abcdef

  # Shared API that can reach Jenkins
  TESTID_CI_TOKEN=... testid serve --addr :8080 --ci-url https://ci.example.com --ci-job pr-tests`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: serverSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		ctx, stop := signal.NotifyContext(rootCtx, os.Interrupt, syscall.SIGTERM)
		defer stop()
		if err := api.NewServer(cfg, cacheManager).ListenAndServe(ctx); err != nil {
			contract.LogFatal("HTTP server failed", err)
		}
	},
}
