package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/vishal-mourya/Dynamic-Test-Identifier-And-Runner/core"
	"github.com/vishal-mourya/Dynamic-Test-Identifier-And-Runner/internal/citrigger"
	"github.com/vishal-mourya/Dynamic-Test-Identifier-And-Runner/internal/contract"
)

// triggerCmd queues the identified tests in CI.
var triggerCmd = &cobra.Command{
	Use:   "trigger [repo-path]",
	Short: "Run the identified tests in CI",
	Long: `Analyze the changed files and queue a CI build that runs only the identified tests.

The build receives these parameters:
- TESTS      - comma separated test paths
- PR_NUMBER  - pull request number, when known
- BRANCH     - source branch of the change
- TESTID_RUN - unique id of this run, also stored in the history

Suggested tests that do not exist yet are left out unless --include-suggested is set.
When no test is identified, nothing is sent.

Examples:
  # Queue tests on Jenkins (token read from TESTID_CI_TOKEN)
  testid trigger --base-ref origin/main --ci-url https://ci.example.com --ci-job team/pr-tests --ci-user bot

  # Print the request instead of sending it
  testid trigger --input changes.json --ci-dry-run`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		trigger, err := citrigger.New(cfg, os.Stderr)
		if err != nil {
			contract.LogFatal("Cannot configure CI trigger", err)
		}
		if err := core.ExecuteTrigger(rootCtx, cfg, cacheManager, trigger); err != nil {
			contract.LogFatal("Cannot trigger tests", err)
		}
	},
}
