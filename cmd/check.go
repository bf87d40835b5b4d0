package cmd

import (
	"github.com/spf13/cobra"

	"github.com/vishal-mourya/Dynamic-Test-Identifier-And-Runner/core"
	"github.com/vishal-mourya/Dynamic-Test-Identifier-And-Runner/internal/contract"
)

// checkCmd focused on CI/CD policy enforcement.
var checkCmd = &cobra.Command{
	Use:   "check [repo-path]",
	Short: "Enforce coverage and risk thresholds for CI/CD pipelines (fails build on violations)",
	Long: `Analyze the changed files and enforce the coverage and risk policy.

Designed for pull request gates: exits with a non-zero code when the coverage
estimate drops below --min-coverage or the risk score rises above --max-risk.
The uncovered source files are listed so authors know which tests to add.

Default thresholds: --min-coverage 0, --max-risk 100 (nothing fails)

Examples:
  # Require that at least 80% of changed sources have tests
  testid check --base-ref origin/main --min-coverage 80

  # Block risky pull requests described by a change document
  testid check --input changes.json --max-risk 60`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteCheck(rootCtx, cfg, cacheManager); err != nil {
			contract.LogFatal("Policy check failed", err)
		}
	},
}
