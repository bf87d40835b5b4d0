package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/vishal-mourya/Dynamic-Test-Identifier-And-Runner/internal/contract"
	"github.com/vishal-mourya/Dynamic-Test-Identifier-And-Runner/internal/outwriter"
	"github.com/vishal-mourya/Dynamic-Test-Identifier-And-Runner/schema"
)

// ErrCheckFailed is returned when the change set breaks at least one policy.
var ErrCheckFailed = errors.New("policy check failed")

// maxUncoveredShown bounds the uncovered sources listed on failure.
const maxUncoveredShown = 5

// ExecuteCheck runs the check command for CI/CD gating.
// It analyzes the change set, compares coverage and risk against the configured
// thresholds, and returns an error wrapping ErrCheckFailed on any violation.
func ExecuteCheck(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
	return executeCheck(ctx, cfg, contract.NewLocalGitClient(), mgr)
}

func executeCheck(ctx context.Context, cfg *contract.Config, client contract.GitClient, mgr contract.CacheManager) error {
	start := time.Now()

	builder := newCheckResultBuilder(WithSuppressHeader(ctx), cfg, client, mgr)

	// Validate prerequisites
	_, err := builder.ValidatePrerequisites()
	if err != nil {
		return err
	}
	if result := builder.GetResult(); result == nil {
		// Run analysis
		if _, err := builder.RunAnalysis(); err != nil {
			return err
		}
		builder.ComputeMetrics().BuildResult()
	}

	result := builder.GetResult()
	if err := writeCheckResult(result, cfg, time.Since(start)); err != nil {
		return err
	}
	if !result.Passed {
		return fmt.Errorf("%w: %d violation(s) found", ErrCheckFailed, len(result.Violations))
	}
	return nil
}

// writeCheckResult prints the text report or delegates structured formats.
func writeCheckResult(result *schema.CheckResult, cfg *contract.Config, duration time.Duration) error {
	if cfg.Output == schema.JSONOut {
		return outwriter.NewOutWriter().WriteCheck(result, cfg)
	}
	printCheckResult(result, duration)
	return nil
}

// printCheckResult prints the check result in a concise format suitable for CI/CD.
func printCheckResult(result *schema.CheckResult, duration time.Duration) {
	printCheckHeader(result, duration)

	if result.Passed {
		printCheckSuccess(result)
	} else {
		printCheckFailure(result)
	}
}

// printCheckHeader prints the common header information for check results.
func printCheckHeader(result *schema.CheckResult, duration time.Duration) {
	fmt.Println("Policy Check Results:")

	var labels []string
	var values []any
	if result.BaseRef != "" {
		labels = append(labels, "Base:", "Target:")
		values = append(values, result.BaseRef, result.TargetRef)
	}
	labels = append(labels, "Thresholds:")
	values = append(values, fmt.Sprintf("coverage>=%d%%, risk<=%d", result.MinCoverage, result.MaxRisk))

	// Find the longest label for consistent padding
	maxLabelLen := 0
	for _, label := range labels {
		if len(label) > maxLabelLen {
			maxLabelLen = len(label)
		}
	}

	for i, label := range labels {
		fmt.Printf("  %-*s %v\n", maxLabelLen+1, label, values[i])
	}
	fmt.Println()

	fmt.Printf("Checked %d files in %v\n\n", result.TotalFiles, duration)
}

// printCheckSuccess prints the success case output.
func printCheckSuccess(result *schema.CheckResult) {
	fmt.Printf("✅ All policy checks passed\n\n")
	fmt.Println("Estimates observed:")
	fmt.Printf("  coverage: %d%% (min %d%%)\n", result.CoveragePercent, result.MinCoverage)
	fmt.Printf("  risk: %d (max %d)\n", result.RiskScore, result.MaxRisk)
	fmt.Printf("  tests identified: %d\n", result.IdentifiedTests)
}

// printCheckFailure prints the failure case output.
func printCheckFailure(result *schema.CheckResult) {
	fmt.Printf("❌ Policy check failed: %d violation(s) found across %d files\n\n", len(result.Violations), result.TotalFiles)

	for _, v := range result.Violations {
		switch v.Rule {
		case RuleMinCoverage:
			fmt.Printf("  - coverage %d%% is below minimum %d%%\n", v.Observed, v.Threshold)
		case RuleMaxRisk:
			fmt.Printf("  - risk %d exceeds maximum %d\n", v.Observed, v.Threshold)
		default:
			fmt.Printf("  - %s (observed: %d, threshold: %d)\n", v.Rule, v.Observed, v.Threshold)
		}
	}
	fmt.Println()

	if len(result.Uncovered) == 0 {
		return
	}
	fmt.Printf("Uncovered sources (%d):\n", len(result.Uncovered))
	for i, rec := range result.Uncovered {
		if i >= maxUncoveredShown {
			fmt.Printf("  ... and %d more\n", len(result.Uncovered)-i)
			break
		}
		fmt.Printf("  - %s [%s] → %s\n", rec.SourcePath, rec.Severity, rec.SuggestedTestPath)
	}
	fmt.Println()
}
