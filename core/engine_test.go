package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vishal-mourya/Dynamic-Test-Identifier-And-Runner/schema"
)

func TestAnalyzeEmptyInput(t *testing.T) {
	result := Analyze(nil, nil, AnalyzeOptions{})
	assert.NotNil(t, result.IdentifiedTests)
	assert.Empty(t, result.IdentifiedTests)
	assert.NotNil(t, result.SourceFiles)
	assert.Empty(t, result.SourceFiles)
	assert.Equal(t, 100, result.CoverageEstimatePercent)
	assert.Equal(t, 0, result.RiskScore)
	assert.NotNil(t, result.Recommendations)
	assert.Empty(t, result.Recommendations)
	assert.Equal(t, schema.HeuristicMode, result.Mode)
}

func TestAnalyzeExistingTestInIndex(t *testing.T) {
	changes := []schema.ChangedFile{{Path: "src/user.js", Status: schema.StatusModified, Additions: 10, Deletions: 2}}
	index := schema.NewFileIndex([]string{"src/user.js", "src/user.test.js", "README.md"})

	result := Analyze(changes, index, AnalyzeOptions{RunID: "run-1"})

	require.Len(t, result.IdentifiedTests, 1)
	c := result.IdentifiedTests[0]
	assert.Equal(t, "src/user.test.js", c.TestPath)
	assert.Equal(t, "src/user.js", c.SourcePath)
	assert.Equal(t, schema.OriginExisting, c.Origin)
	assert.InDelta(t, 0.90, c.Confidence, 1e-9)
	assert.Equal(t, schema.IndexMode, result.Mode)
	assert.Equal(t, 100, result.CoverageEstimatePercent)
	assert.Equal(t, 10, result.RiskScore)
	assert.Empty(t, result.Recommendations)
	assert.Equal(t, "run-1", result.RunID)
	assert.Equal(t, 1, result.TotalChangedFiles)
}

func TestAnalyzeMissingTestRecommendation(t *testing.T) {
	changes := []schema.ChangedFile{
		{Path: "src/a.js", Status: schema.StatusModified, Additions: 80},
		{Path: "README.md", Status: schema.StatusModified, Additions: 3},
	}

	result := Analyze(changes, nil, AnalyzeOptions{})

	require.Len(t, result.Recommendations, 1)
	rec := result.Recommendations[0]
	assert.Equal(t, "src/a.js", rec.SourcePath)
	assert.Equal(t, schema.SeverityHigh, rec.Severity)
	assert.Equal(t, "src/a.test.js", rec.SuggestedTestPath)

	require.Len(t, result.IdentifiedTests, 1)
	assert.Equal(t, schema.OriginSuggested, result.IdentifiedTests[0].Origin)
	assert.Equal(t, 0, result.CoverageEstimatePercent)
	assert.Equal(t, 30, result.RiskScore)
	require.Len(t, result.SourceFiles, 1)
}

func TestAnalyzeFullCoverageIsNotCapped(t *testing.T) {
	changes := []schema.ChangedFile{
		{Path: "src/a.js", Additions: 5},
		{Path: "src/b.js", Additions: 5},
		{Path: "src/c.js", Additions: 5},
	}
	index := schema.NewFileIndex([]string{"src/a.test.js", "src/b.test.js", "src/c.test.js"})

	result := Analyze(changes, index, AnalyzeOptions{})
	assert.Len(t, result.IdentifiedTests, 3)
	assert.Equal(t, 100, result.CoverageEstimatePercent)
	assert.Empty(t, result.Recommendations)
}

func TestAnalyzeVendoredPathIgnored(t *testing.T) {
	changes := []schema.ChangedFile{{Path: "vendor/lib/test_helper.js", Additions: 4}}

	result := Analyze(changes, nil, AnalyzeOptions{})
	assert.Empty(t, result.IdentifiedTests)
	assert.Empty(t, result.SourceFiles)
	assert.Equal(t, 100, result.CoverageEstimatePercent)
	assert.Empty(t, result.Languages)
	assert.Equal(t, []string{"vendor/lib/test_helper.js"}, result.IgnoredPaths)
}

func TestAnalyzeReportsFallback(t *testing.T) {
	changes := []schema.ChangedFile{
		{Path: "lib/parser.go", Additions: 3},
		{Path: "Test/parser_check.go", Additions: 3},
	}

	result := Analyze(changes, nil, AnalyzeOptions{})
	assert.True(t, result.FallbackApplied)
	assert.Empty(t, result.IgnoredPaths)

	strict := Analyze([]schema.ChangedFile{{Path: "pkg/a.go"}, {Path: "pkg/a_test.go"}}, nil, AnalyzeOptions{})
	assert.False(t, strict.FallbackApplied)
}

func TestAnalyzeRejectedPaths(t *testing.T) {
	changes := []schema.ChangedFile{
		{Path: "/etc/passwd"},
		{Path: "../escape.go"},
		{Path: "ok.go", Additions: 1},
	}
	result := Analyze(changes, nil, AnalyzeOptions{})
	assert.Equal(t, []string{"/etc/passwd", "../escape.go"}, result.RejectedPaths)
	assert.Equal(t, 3, result.TotalChangedFiles)
	require.Len(t, result.SourceFiles, 1)
}

func TestAnalyzeLanguageSummary(t *testing.T) {
	changes := []schema.ChangedFile{
		{Path: "src/user.js", Additions: 3},
		{Path: "src/user.test.js", Additions: 3, DiffText: "+const fn = jest.fn();\n"},
		{Path: "app/models.py", Additions: 1},
	}
	result := Analyze(changes, nil, AnalyzeOptions{})

	require.Len(t, result.Languages, 2)
	js := result.Languages[0]
	assert.Equal(t, "javascript", js.Language)
	assert.Equal(t, 1, js.SourceFiles)
	assert.Equal(t, 1, js.TestFiles)
	assert.True(t, js.Detected)
	assert.Equal(t, []string{"Jest"}, js.Frameworks)

	py := result.Languages[1]
	assert.Equal(t, "python", py.Language)
	assert.False(t, py.Detected)
	assert.Equal(t, []string{"pytest", "unittest"}, py.Frameworks)
}

func TestAnalyzeIsDeterministic(t *testing.T) {
	changes := []schema.ChangedFile{
		{Path: "src/user.js", Additions: 20},
		{Path: "src/user.test.js", Additions: 5},
		{Path: "lib/order.py", Additions: 60},
	}
	first := Analyze(changes, nil, AnalyzeOptions{})
	second := Analyze(changes, nil, AnalyzeOptions{})
	assert.Equal(t, first, second)
}
