package core

import (
	"context"

	"github.com/vishal-mourya/Dynamic-Test-Identifier-And-Runner/internal/contract"
	"github.com/vishal-mourya/Dynamic-Test-Identifier-And-Runner/schema"
)

// Policy rules evaluated by the check command.
const (
	RuleMinCoverage = "min-coverage"
	RuleMaxRisk     = "max-risk"
)

// CheckResultBuilder builds the check result using a builder pattern.
type CheckResultBuilder struct {
	cfg        *contract.Config
	client     contract.GitClient
	mgr        contract.CacheManager
	ctx        context.Context
	changes    *ChangeSet
	analysis   *schema.AnalysisResult
	violations []schema.CheckViolation
	result     *schema.CheckResult
}

// NewCheckResultBuilder creates a new builder for check results.
func NewCheckResultBuilder(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) *CheckResultBuilder {
	return newCheckResultBuilder(ctx, cfg, contract.NewLocalGitClient(), mgr)
}

func newCheckResultBuilder(ctx context.Context, cfg *contract.Config, client contract.GitClient, mgr contract.CacheManager) *CheckResultBuilder {
	return &CheckResultBuilder{
		cfg:    cfg,
		client: client,
		mgr:    mgr,
		ctx:    ctx,
	}
}

// ValidatePrerequisites loads the change set. When nothing relevant changed
// the result is final and the check passes.
func (b *CheckResultBuilder) ValidatePrerequisites() (*CheckResultBuilder, error) {
	changes, err := loadChangeSet(b.ctx, b.cfg, b.client)
	if err != nil {
		return nil, err
	}

	kept, _ := contract.FilterExcluded(changes.Files, b.cfg.Excludes)
	if len(kept) == 0 {
		b.result = &schema.CheckResult{
			Passed:          true,
			Violations:      []schema.CheckViolation{},
			BaseRef:         b.cfg.BaseRef,
			TargetRef:       b.cfg.TargetRef,
			CoveragePercent: 100,
			MinCoverage:     b.cfg.MinCoverage,
			MaxRisk:         b.cfg.MaxRisk,
			Uncovered:       []schema.Recommendation{},
		}
		return b, nil
	}

	b.changes = changes
	return b, nil
}

// RunAnalysis runs the relevance engine over the change set.
func (b *CheckResultBuilder) RunAnalysis() (*CheckResultBuilder, error) {
	result, err := AnalyzeChangeSet(b.ctx, b.cfg, b.changes, b.client, b.mgr)
	if err != nil {
		return nil, err
	}
	b.analysis = result
	return b, nil
}

// ComputeMetrics compares the estimates against the configured thresholds.
func (b *CheckResultBuilder) ComputeMetrics() *CheckResultBuilder {
	b.violations = []schema.CheckViolation{}
	if b.analysis.CoverageEstimatePercent < b.cfg.MinCoverage {
		b.violations = append(b.violations, schema.CheckViolation{
			Rule:      RuleMinCoverage,
			Observed:  b.analysis.CoverageEstimatePercent,
			Threshold: b.cfg.MinCoverage,
		})
	}
	if b.analysis.RiskScore > b.cfg.MaxRisk {
		b.violations = append(b.violations, schema.CheckViolation{
			Rule:      RuleMaxRisk,
			Observed:  b.analysis.RiskScore,
			Threshold: b.cfg.MaxRisk,
		})
	}
	return b
}

// BuildResult constructs the final CheckResult.
func (b *CheckResultBuilder) BuildResult() *CheckResultBuilder {
	b.result = &schema.CheckResult{
		Passed:          len(b.violations) == 0,
		Violations:      b.violations,
		TotalFiles:      b.analysis.TotalChangedFiles,
		BaseRef:         b.cfg.BaseRef,
		TargetRef:       b.cfg.TargetRef,
		CoveragePercent: b.analysis.CoverageEstimatePercent,
		RiskScore:       b.analysis.RiskScore,
		MinCoverage:     b.cfg.MinCoverage,
		MaxRisk:         b.cfg.MaxRisk,
		IdentifiedTests: len(b.analysis.IdentifiedTests),
		Uncovered:       b.analysis.Recommendations,
		Sources:         b.analysis.SourceFiles,
	}
	return b
}

// GetResult returns the built CheckResult.
func (b *CheckResultBuilder) GetResult() *schema.CheckResult {
	return b.result
}
