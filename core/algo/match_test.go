package algo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vishal-mourya/Dynamic-Test-Identifier-And-Runner/core/classify"
	"github.com/vishal-mourya/Dynamic-Test-Identifier-And-Runner/core/registry"
	"github.com/vishal-mourya/Dynamic-Test-Identifier-And-Runner/schema"
)

func batchOf(files ...schema.ChangedFile) classify.Batch {
	return classify.ClassifyBatch(files, registry.Default())
}

func TestMatchIndexModeConventionHit(t *testing.T) {
	batch := batchOf(schema.ChangedFile{Path: "src/user.js", Additions: 10, Deletions: 2})
	index := schema.NewFileIndex([]string{"src/user.js", "src/user.test.js", "README.md"})

	res := Match(batch, index, registry.Default(), MatchOptions{})

	assert.Equal(t, schema.IndexMode, res.Mode)
	require.Len(t, res.Candidates, 1)
	c := res.Candidates[0]
	assert.Equal(t, "src/user.test.js", c.TestPath)
	assert.Equal(t, "src/user.js", c.SourcePath)
	assert.Equal(t, schema.OriginExisting, c.Origin)
	assert.InDelta(t, ExistingConfidence, c.Confidence, 1e-9)
}

func TestMatchIndexModeNonTestLocationPenalized(t *testing.T) {
	// A Go file under test/ is not a test by any strict glob.
	batch := batchOf(schema.ChangedFile{Path: "lib/parser.go"})
	index := schema.NewFileIndex([]string{"lib/test/parser.go"})

	res := Match(batch, index, registry.Default(), MatchOptions{})

	require.Len(t, res.Candidates, 1)
	assert.Equal(t, "lib/test/parser.go", res.Candidates[0].TestPath)
	assert.InDelta(t, FallbackConfidence, res.Candidates[0].Confidence, 1e-9)
	assert.Equal(t, schema.OriginExisting, res.Candidates[0].Origin)
}

func TestMatchIndexModeSuggestsWhenMissing(t *testing.T) {
	batch := batchOf(schema.ChangedFile{Path: "src/a.js", Additions: 80})
	res := Match(batch, schema.NewFileIndex([]string{"src/a.js"}), registry.Default(), MatchOptions{})

	require.Len(t, res.Candidates, 1)
	c := res.Candidates[0]
	assert.Equal(t, "src/a.test.js", c.TestPath)
	assert.Equal(t, schema.OriginSuggested, c.Origin)
	assert.InDelta(t, SuggestedConfidence, c.Confidence, 1e-9)
	assert.Equal(t, reasonSuggested, c.Reason)
}

func TestMatchChangedTestIsDirect(t *testing.T) {
	batch := batchOf(
		schema.ChangedFile{Path: "src/user.js"},
		schema.ChangedFile{Path: "src/user.test.js"},
	)
	// The index predates the new test file.
	res := Match(batch, schema.NewFileIndex([]string{"src/user.js"}), registry.Default(), MatchOptions{})

	require.Len(t, res.Candidates, 1)
	c := res.Candidates[0]
	assert.Equal(t, "src/user.test.js", c.TestPath)
	assert.InDelta(t, DirectConfidence, c.Confidence, 1e-9)
	assert.Equal(t, reasonDirect, c.Reason)

	// The source is still linked to the test for coverage purposes.
	assert.Contains(t, CoveredSources(res.Links), "src/user.js")
}

func TestMatchDeletedFiles(t *testing.T) {
	batch := batchOf(
		schema.ChangedFile{Path: "src/old.js", Status: schema.StatusDeleted},
		schema.ChangedFile{Path: "src/old.test.js", Status: schema.StatusDeleted},
	)
	res := Match(batch, nil, registry.Default(), MatchOptions{})
	assert.Empty(t, res.Candidates)
}

func TestMatchHeuristicMode(t *testing.T) {
	batch := batchOf(
		schema.ChangedFile{Path: "src/user.js"},
		schema.ChangedFile{Path: "test/user.test.js"},
		schema.ChangedFile{Path: "src/billing/invoice.js"},
	)
	res := Match(batch, nil, registry.Default(), MatchOptions{})

	assert.Equal(t, schema.HeuristicMode, res.Mode)
	paths := make(map[string]schema.TestCandidate)
	for _, c := range res.Candidates {
		paths[c.TestPath] = c
	}
	require.Contains(t, paths, "test/user.test.js")
	assert.InDelta(t, DirectConfidence, paths["test/user.test.js"].Confidence, 1e-9)

	// invoice.js has no related changed test and gets a suggestion.
	require.Contains(t, paths, "src/billing/invoice.test.js")
	assert.Equal(t, schema.OriginSuggested, paths["src/billing/invoice.test.js"].Origin)

	covered := CoveredSources(res.Links)
	assert.Contains(t, covered, "src/user.js")
	assert.NotContains(t, covered, "src/billing/invoice.js")
}

func TestMatchHeuristicThresholdDiscardsCoincidence(t *testing.T) {
	// Same directory only: 30 points, which is not above the threshold.
	batch := batchOf(
		schema.ChangedFile{Path: "alpha.go"},
		schema.ChangedFile{Path: "beta.spec.ts"},
	)
	res := Match(batch, nil, registry.Default(), MatchOptions{})
	assert.NotContains(t, CoveredSources(res.Links), "alpha.go")
}

func TestMatchHeuristicSameDirectoryTokens(t *testing.T) {
	// Names differ, but the directory and the src and js tokens add up to 70.
	batch := batchOf(
		schema.ChangedFile{Path: "src/a.js"},
		schema.ChangedFile{Path: "src/b.test.js"},
	)
	res := Match(batch, nil, registry.Default(), MatchOptions{})

	var link *schema.TestCandidate
	for i := range res.Links {
		if res.Links[i].SourcePath == "src/a.js" {
			link = &res.Links[i]
		}
	}
	require.NotNil(t, link)
	assert.Equal(t, "src/b.test.js", link.TestPath)
	assert.Equal(t, schema.OriginExisting, link.Origin)
	assert.InDelta(t, 0.70, link.Confidence, 1e-9)
	assert.Contains(t, CoveredSources(res.Links), "src/a.js")

	for _, c := range res.Candidates {
		assert.NotEqual(t, schema.OriginSuggested, c.Origin, c.TestPath)
	}
}

func TestMatchFallbackSelfCandidate(t *testing.T) {
	batch := batchOf(
		schema.ChangedFile{Path: "lib/parser.go"},
		schema.ChangedFile{Path: "Test/parser_check.go"},
	)
	require.True(t, batch.FallbackApplied)
	res := Match(batch, nil, registry.Default(), MatchOptions{})

	var self *schema.TestCandidate
	for i := range res.Candidates {
		if res.Candidates[i].TestPath == "Test/parser_check.go" {
			self = &res.Candidates[i]
		}
	}
	require.NotNil(t, self)
	assert.InDelta(t, FallbackConfidence, self.Confidence, 1e-9)
}

func TestMatchOrderingAndTruncation(t *testing.T) {
	batch := batchOf(
		schema.ChangedFile{Path: "src/a.js"},
		schema.ChangedFile{Path: "src/b.js"},
		schema.ChangedFile{Path: "src/c.js"},
		schema.ChangedFile{Path: "src/d.test.js"},
	)
	index := schema.NewFileIndex([]string{"src/b.test.js"})

	res := Match(batch, index, registry.Default(), MatchOptions{})
	require.Len(t, res.Candidates, 4)
	assert.Equal(t, "src/d.test.js", res.Candidates[0].TestPath)
	assert.Equal(t, "src/b.test.js", res.Candidates[1].TestPath)
	assert.Equal(t, "src/a.test.js", res.Candidates[2].TestPath)
	assert.Equal(t, "src/c.test.js", res.Candidates[3].TestPath)

	limited := Match(batch, index, registry.Default(), MatchOptions{MaxResults: 2})
	assert.Len(t, limited.Candidates, 2)
	assert.Equal(t, res.Candidates[:2], limited.Candidates)
}

func TestMatchIdempotent(t *testing.T) {
	batch := batchOf(
		schema.ChangedFile{Path: "src/a.js"},
		schema.ChangedFile{Path: "src/a.test.js"},
		schema.ChangedFile{Path: "src/b.py"},
	)
	index := schema.NewFileIndex([]string{"src/b.test.py"})
	first := Match(batch, index, registry.Default(), MatchOptions{})
	second := Match(batch, index, registry.Default(), MatchOptions{})
	assert.Equal(t, first, second)
}

func TestMatchDedupInvariant(t *testing.T) {
	batch := batchOf(
		schema.ChangedFile{Path: "src/a.js"},
		schema.ChangedFile{Path: "src/__tests__/a.js"},
	)
	index := schema.NewFileIndex([]string{"src/a.test.js", "src/__tests__/a.js"})
	res := Match(batch, index, registry.Default(), MatchOptions{})

	seen := make(map[string]bool)
	for _, c := range res.Candidates {
		assert.False(t, seen[c.TestPath], "duplicate %s", c.TestPath)
		seen[c.TestPath] = true
	}
}

func TestMatchEmpty(t *testing.T) {
	res := Match(batchOf(), nil, registry.Default(), MatchOptions{})
	assert.NotNil(t, res.Candidates)
	assert.Empty(t, res.Candidates)
	assert.Empty(t, res.Links)
}
