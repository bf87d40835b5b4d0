package core

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/vishal-mourya/Dynamic-Test-Identifier-And-Runner/internal/contract"
	"github.com/vishal-mourya/Dynamic-Test-Identifier-And-Runner/schema"
)

func checkConfig(minCoverage, maxRisk int) *contract.Config {
	cfg := gitConfig()
	cfg.Output = schema.TextOut
	cfg.NoIndex = true
	cfg.MinCoverage = minCoverage
	cfg.MaxRisk = maxRisk
	cfg.Excludes = contract.DefaultExcludes
	return cfg
}

func TestCheckResultBuilder(t *testing.T) {
	changes := []schema.ChangedFile{
		{Path: "lib/a.py", Status: schema.StatusModified, Additions: 80},
		{Path: "src/b.js", Status: schema.StatusModified, Additions: 5},
		{Path: "src/b.test.js", Status: schema.StatusModified, Additions: 5},
	}

	tests := []struct {
		name           string
		minCoverage    int
		maxRisk        int
		wantPassed     bool
		wantViolations []string
	}{
		{"within thresholds", 0, 100, true, nil},
		{"coverage too low", 80, 100, false, []string{RuleMinCoverage}},
		{"risk too high", 0, 10, false, []string{RuleMaxRisk}},
		{"both", 80, 10, false, []string{RuleMinCoverage, RuleMaxRisk}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := &contract.MockGitClient{}
			client.On("GetChangedFiles", mock.Anything, "/test/repo", "main", "HEAD").Return(changes, nil)

			builder := newCheckResultBuilder(context.Background(), checkConfig(tt.minCoverage, tt.maxRisk), client, noStores())
			_, err := builder.ValidatePrerequisites()
			require.NoError(t, err)
			require.Nil(t, builder.GetResult())

			_, err = builder.RunAnalysis()
			require.NoError(t, err)
			result := builder.ComputeMetrics().BuildResult().GetResult()

			require.NotNil(t, result)
			assert.Equal(t, tt.wantPassed, result.Passed)
			var rules []string
			for _, v := range result.Violations {
				rules = append(rules, v.Rule)
			}
			assert.Equal(t, tt.wantViolations, rules)
			assert.Equal(t, 3, result.TotalFiles)
			assert.Equal(t, 50, result.CoveragePercent)
			assert.Len(t, result.Uncovered, 1)
			assert.Equal(t, "lib/a.py", result.Uncovered[0].SourcePath)
		})
	}
}

func TestCheckResultBuilderNothingToCheck(t *testing.T) {
	client := &contract.MockGitClient{}
	client.On("GetChangedFiles", mock.Anything, "/test/repo", "main", "HEAD").Return([]schema.ChangedFile{
		{Path: "docs/logo.png", Status: schema.StatusAdded},
	}, nil)

	builder := newCheckResultBuilder(context.Background(), checkConfig(90, 0), client, noStores())
	_, err := builder.ValidatePrerequisites()
	require.NoError(t, err)

	result := builder.GetResult()
	require.NotNil(t, result)
	assert.True(t, result.Passed)
	assert.Equal(t, 100, result.CoveragePercent)
	assert.Empty(t, result.Violations)
}

func TestExecuteCheck(t *testing.T) {
	changes := []schema.ChangedFile{{Path: "src/a.js", Status: schema.StatusModified, Additions: 80}}

	t.Run("fails", func(t *testing.T) {
		client := &contract.MockGitClient{}
		client.On("GetChangedFiles", mock.Anything, "/test/repo", "main", "HEAD").Return(changes, nil)

		err := executeCheck(context.Background(), checkConfig(50, 100), client, noStores())
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrCheckFailed))
		assert.Contains(t, err.Error(), "1 violation(s) found")
	})

	t.Run("passes", func(t *testing.T) {
		client := &contract.MockGitClient{}
		client.On("GetChangedFiles", mock.Anything, "/test/repo", "main", "HEAD").Return(changes, nil)

		err := executeCheck(context.Background(), checkConfig(0, 100), client, noStores())
		assert.NoError(t, err)
	})

	t.Run("git error", func(t *testing.T) {
		client := &contract.MockGitClient{}
		client.On("GetChangedFiles", mock.Anything, "/test/repo", "main", "HEAD").Return(nil, assert.AnError)

		err := executeCheck(context.Background(), checkConfig(0, 100), client, noStores())
		require.Error(t, err)
		assert.False(t, errors.Is(err, ErrCheckFailed))
	})
}

func TestPrintCheckResult(t *testing.T) {
	// Test that printCheckResult doesn't panic with various inputs
	tests := []struct {
		name   string
		result schema.CheckResult
	}{
		{
			name: "passed",
			result: schema.CheckResult{
				Passed:          true,
				TotalFiles:      3,
				BaseRef:         "main",
				TargetRef:       "HEAD",
				CoveragePercent: 100,
				RiskScore:       10,
				MaxRisk:         50,
				IdentifiedTests: 3,
			},
		},
		{
			name: "failed with many uncovered",
			result: schema.CheckResult{
				Passed: false,
				Violations: []schema.CheckViolation{
					{Rule: RuleMinCoverage, Observed: 20, Threshold: 80},
					{Rule: RuleMaxRisk, Observed: 70, Threshold: 50},
					{Rule: "custom", Observed: 1, Threshold: 0},
				},
				TotalFiles: 8,
				Uncovered: []schema.Recommendation{
					{SourcePath: "a.js", Severity: schema.SeverityHigh, SuggestedTestPath: "a.test.js"},
					{SourcePath: "b.js", Severity: schema.SeverityMedium, SuggestedTestPath: "b.test.js"},
					{SourcePath: "c.js", Severity: schema.SeverityMedium, SuggestedTestPath: "c.test.js"},
					{SourcePath: "d.js", Severity: schema.SeverityMedium, SuggestedTestPath: "d.test.js"},
					{SourcePath: "e.js", Severity: schema.SeverityMedium, SuggestedTestPath: "e.test.js"},
					{SourcePath: "f.js", Severity: schema.SeverityMedium, SuggestedTestPath: "f.test.js"},
				},
			},
		},
		{
			name:   "document input without refs",
			result: schema.CheckResult{Passed: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			printCheckResult(&tt.result, 150*time.Millisecond)
		})
	}
}
