package cmd

import (
	"github.com/spf13/cobra"

	"github.com/vishal-mourya/Dynamic-Test-Identifier-And-Runner/core"
	"github.com/vishal-mourya/Dynamic-Test-Identifier-And-Runner/internal/contract"
)

// analyzeCmd identifies the tests relevant to a change set.
var analyzeCmd = &cobra.Command{
	Use:   "analyze [repo-path]",
	Short: "Identify the tests relevant to a set of changed files",
	Long: `Map every changed file to the tests most likely to exercise it.

Changes come from one of three sources:
- Git refs (--base-ref, --target-ref) compared with merge-base semantics
- A change document (--input) in JSON or YAML, validated against 'testid schema'
- A unified diff (--diff), for example the output of 'git diff' or a CI patch file

Each changed source file is matched against the repository listing using the
naming conventions of its language. Matches are ranked by relevance, and source
files without any test get a suggested path plus a recommendation.

Output formats:
- text  - colored tables for humans (default)
- csv   - one row per identified test
- json  - the full analysis with coverage, risk and recommendations
- paths - newline separated test paths, ready for xargs or a test runner

Examples:
  # Tests touched by the current branch
  testid analyze --base-ref origin/main

  # Analyze a change document exported from a PR
  testid analyze --input changes.json --output json

  # Feed a test runner directly
  testid analyze --diff pr.patch --output paths | xargs go test`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteAnalyze(rootCtx, cfg, cacheManager); err != nil {
			contract.LogFatal("Cannot run analysis", err)
		}
	},
}
