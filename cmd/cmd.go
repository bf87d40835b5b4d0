// Package cmd defines the command-line interface for testid.
package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/vishal-mourya/Dynamic-Test-Identifier-And-Runner/core/recommend"
	"github.com/vishal-mourya/Dynamic-Test-Identifier-And-Runner/core/registry"
	"github.com/vishal-mourya/Dynamic-Test-Identifier-And-Runner/internal/contract"
	"github.com/vishal-mourya/Dynamic-Test-Identifier-And-Runner/schema"
)

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	// Add primary subcommands to the root command
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(triggerCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(mcpCmd)
	rootCmd.AddCommand(languagesCmd)
	rootCmd.AddCommand(templateCmd)
	rootCmd.AddCommand(schemaCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(cacheCmd)
	rootCmd.AddCommand(historyCmd)

	// Add the cache subcommands to the parent cache command
	cacheCmd.AddCommand(cacheClearCmd)
	cacheCmd.AddCommand(cacheStatusCmd)

	// Add the history subcommands to the parent history command
	historyCmd.AddCommand(historyClearCmd)
	historyCmd.AddCommand(historyStatusCmd)
	historyCmd.AddCommand(historyExportCmd)
	historyCmd.AddCommand(historyMigrateCmd)

	// Bind all persistent flags of rootCmd to Viper
	rootCmd.PersistentFlags().String("base-ref", "", "Base Git reference, usually the target branch of the pull request")
	rootCmd.PersistentFlags().String("target-ref", "", "Git reference holding the changes (default HEAD)")
	rootCmd.PersistentFlags().String("input", "", "JSON or YAML change document to analyze instead of Git refs ('-' for stdin)")
	rootCmd.PersistentFlags().String("diff", "", "Unified diff to analyze instead of Git refs ('-' for stdin)")
	rootCmd.PersistentFlags().String("index-file", "", "Newline separated repository listing used instead of the Git tree")
	rootCmd.PersistentFlags().Bool("no-index", false, "Skip the repository listing and match changed files against each other")
	rootCmd.PersistentFlags().Float64("min-relevance", contract.DefaultMinRelevance, "Minimum relevance (0-1, exclusive) for heuristic matches")
	rootCmd.PersistentFlags().String("exclude", "", "Comma-separated list of path prefixes or patterns to ignore")
	rootCmd.PersistentFlags().Bool("include-suggested", false, "Include suggested tests that do not exist yet in paths output and CI triggers")
	rootCmd.PersistentFlags().IntP("limit", "l", contract.DefaultResultLimit, "Number of tests to report")
	rootCmd.PersistentFlags().String("output", string(schema.TextOut), "Output format: text or csv or json or paths")
	rootCmd.PersistentFlags().String("output-file", "", "Optional path to write output to")
	rootCmd.PersistentFlags().Int("precision", contract.DefaultPrecision, "Decimal precision for numeric columns")
	rootCmd.PersistentFlags().Int("width", 0, "Terminal width override (0 = auto-detect)")
	rootCmd.PersistentFlags().String("profile", "", "Enable profiling and write profiles to files with this prefix")
	rootCmd.PersistentFlags().String("cache-backend", string(schema.SQLiteBackend), "Index cache backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("cache-db-connect", "", "Database connection string for mysql/postgresql (e.g., user:pass@tcp(host:port)/dbname)")
	rootCmd.PersistentFlags().String("analysis-backend", "", "History backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("analysis-db-connect", "", "Database connection string for history (must differ from cache-db-connect)")
	rootCmd.PersistentFlags().String("color", "yes", "Enable colored labels in output (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().String("emoji", "no", "Prefix section headers with emojis (yes/no)")
	rootCmd.PersistentFlags().String("log-level", contract.DefaultLogLevel, "Log level: debug or info or warn or error")
	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding root flags", err)
	}

	// Bind all flags of checkCmd to Viper
	checkCmd.Flags().Int("min-coverage", contract.DefaultMinCoverage, "Fail when the coverage estimate is below this percentage")
	checkCmd.Flags().Int("max-risk", contract.DefaultMaxRisk, "Fail when the risk score is above this value (0-100)")
	if err := viper.BindPFlags(checkCmd.Flags()); err != nil {
		contract.LogFatal("Error binding check flags", err)
	}

	// CI flags are shared by trigger and serve
	for _, c := range []*cobra.Command{triggerCmd, serveCmd} {
		c.Flags().String("ci-provider", contract.JenkinsProvider, "CI provider: jenkins or dry-run")
		c.Flags().String("ci-url", "", "Base URL of the CI server")
		c.Flags().String("ci-job", "", "CI job to run; use slashes for folders (e.g. team/pr-tests)")
		c.Flags().String("ci-user", "", "CI user for basic auth")
		c.Flags().String("ci-token", "", "CI API token (prefer TESTID_CI_TOKEN)")
		c.Flags().String("ci-timeout", contract.DefaultCITimeout.String(), "Timeout for the CI request")
		c.Flags().Bool("ci-dry-run", false, "Print the CI request instead of sending it")
	}
	triggerCmd.Flags().String("branch", "", "Branch name passed to CI (defaults to the change document)")
	triggerCmd.Flags().String("pr-number", "", "Pull request number passed to CI")
	if err := viper.BindPFlags(triggerCmd.Flags()); err != nil {
		contract.LogFatal("Error binding trigger flags", err)
	}

	// Bind all flags of serveCmd to Viper
	serveCmd.Flags().String("addr", contract.DefaultServeAddr, "Address for the HTTP API")
	serveCmd.Flags().String("allowed-origins", "", "Comma-separated CORS origins (e.g. chrome-extension://<id>)")
	if err := viper.BindPFlags(serveCmd.Flags()); err != nil {
		contract.LogFatal("Error binding serve flags", err)
	}

	templateCmd.Flags().String("language", "", fmt.Sprintf(
		"Language id or extension of the skeleton: %s (default: inferred from the name's extension)",
		strings.Join(recommend.SupportedLanguages(registry.Default()), ", ")))

	// Bind all flags of historyMigrateCmd to Viper
	historyMigrateCmd.Flags().Int("target-version", -1, "Target migration version (-1 means latest, 0 means rollback to initial state)")
	if err := viper.BindPFlags(historyMigrateCmd.Flags()); err != nil {
		contract.LogFatal("Error binding history migrate flags", err)
	}
}
