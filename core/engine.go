package core

import (
	"slices"

	"github.com/vishal-mourya/Dynamic-Test-Identifier-And-Runner/core/algo"
	"github.com/vishal-mourya/Dynamic-Test-Identifier-And-Runner/core/classify"
	"github.com/vishal-mourya/Dynamic-Test-Identifier-And-Runner/core/recommend"
	"github.com/vishal-mourya/Dynamic-Test-Identifier-And-Runner/core/registry"
	"github.com/vishal-mourya/Dynamic-Test-Identifier-And-Runner/schema"
)

// AnalyzeOptions tunes a single analysis.
type AnalyzeOptions struct {
	Registry     *registry.Registry // nil means registry.Default()
	MaxResults   int
	MinRelevance float64
	RunID        string
}

// Analyze runs the engine over one change set. A nil index selects the
// heuristic matcher. The function has no side effects, so independent
// change sets may be analyzed concurrently.
func Analyze(changes []schema.ChangedFile, index schema.FileIndex, opts AnalyzeOptions) schema.AnalysisResult {
	reg := opts.Registry
	if reg == nil {
		reg = registry.Default()
	}

	batch := classify.ClassifyBatch(changes, reg)
	match := algo.Match(batch, index, reg, algo.MatchOptions{
		MaxResults:   opts.MaxResults,
		MinRelevance: opts.MinRelevance,
	})
	sources := batch.Sources()
	estimate := algo.Estimate(sources, match.Links)

	identified := match.Candidates
	if identified == nil {
		identified = []schema.TestCandidate{}
	}
	if sources == nil {
		sources = []schema.ClassifiedChange{}
	}

	return schema.AnalysisResult{
		RunID:                   opts.RunID,
		Mode:                    match.Mode,
		IdentifiedTests:         identified,
		SourceFiles:             sources,
		CoverageEstimatePercent: estimate.CoveragePercent,
		RiskScore:               estimate.RiskScore,
		Recommendations:         recommend.Build(sources, match.Links),
		Languages:               summarizeLanguages(batch, reg),
		RejectedPaths:           batch.Rejected,
		IgnoredPaths:            ignoredPaths(batch),
		FallbackApplied:         batch.FallbackApplied,
		TotalChangedFiles:       len(changes),
	}
}

func ignoredPaths(batch classify.Batch) []string {
	var out []string
	for _, f := range batch.Ignored() {
		out = append(out, f.Path)
	}
	return out
}

// summarizeLanguages counts sources and tests per language and reports the
// frameworks revealed by the diffs. Languages appear in registry order.
func summarizeLanguages(batch classify.Batch, reg *registry.Registry) []schema.LanguageSummary {
	type tally struct {
		sources, tests int
		frameworks     []string
	}
	byLang := make(map[string]*tally)
	for _, f := range batch.Files {
		if f.Language == schema.UnknownLanguage || f.Role == schema.RoleIgnored {
			continue
		}
		t, ok := byLang[f.Language]
		if !ok {
			t = &tally{}
			byLang[f.Language] = t
		}
		if f.Role == schema.RoleTest {
			t.tests++
		} else {
			t.sources++
		}
		for _, fw := range reg.DetectFrameworks(f.Language, f.DiffText) {
			if !slices.Contains(t.frameworks, fw) {
				t.frameworks = append(t.frameworks, fw)
			}
		}
	}

	var out []schema.LanguageSummary
	for _, prof := range reg.AllProfiles() {
		t, ok := byLang[prof.ID]
		if !ok {
			continue
		}
		summary := schema.LanguageSummary{
			Language:    prof.ID,
			SourceFiles: t.sources,
			TestFiles:   t.tests,
			Frameworks:  t.frameworks,
			Detected:    len(t.frameworks) > 0,
		}
		if !summary.Detected {
			summary.Frameworks = slices.Clone(prof.Frameworks)
		}
		out = append(out, summary)
	}
	return out
}
