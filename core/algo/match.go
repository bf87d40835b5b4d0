// Package algo holds the matching, ranking, and estimation rules of the engine.
package algo

import (
	"fmt"
	"math"

	"github.com/vishal-mourya/Dynamic-Test-Identifier-And-Runner/core/classify"
	"github.com/vishal-mourya/Dynamic-Test-Identifier-And-Runner/core/pathgen"
	"github.com/vishal-mourya/Dynamic-Test-Identifier-And-Runner/core/registry"
	"github.com/vishal-mourya/Dynamic-Test-Identifier-And-Runner/schema"
)

// Confidence levels assigned by the matcher.
const (
	DirectConfidence    = 1.0
	ExistingConfidence  = 0.90
	FallbackConfidence  = 0.60
	SuggestedConfidence = 0.60
)

// Defaults for MatchOptions.
const (
	DefaultMaxResults   = 50
	DefaultMinRelevance = 0.30
)

const (
	reasonDirect         = "direct test file modification"
	reasonDirectFallback = "direct test file modification (detected by heuristic)"
	reasonSuggested      = "suggested — no existing test detected"
)

// MatchOptions tunes the matcher.
type MatchOptions struct {
	MaxResults   int     // zero means DefaultMaxResults
	MinRelevance float64 // zero means DefaultMinRelevance
}

// MatchResult holds the ranked candidates and every association found.
type MatchResult struct {
	Mode       schema.MatchMode
	Candidates []schema.TestCandidate
	// Links are all source to test associations before deduplication.
	Links []schema.TestCandidate
}

// Match maps the classified change set to relevant tests. With a repository
// index it probes conventional locations, otherwise it scores pairs of
// changed sources and changed tests.
func Match(batch classify.Batch, index schema.FileIndex, reg *registry.Registry, opts MatchOptions) MatchResult {
	if opts.MaxResults <= 0 {
		opts.MaxResults = DefaultMaxResults
	}
	if opts.MinRelevance <= 0 {
		opts.MinRelevance = DefaultMinRelevance
	}
	mode := schema.HeuristicMode
	if index != nil {
		mode = schema.IndexMode
	}

	changedTests := make(map[string]struct{})
	var tests []schema.ClassifiedChange
	for _, f := range batch.Files {
		if f.Role == schema.RoleTest && !f.Deleted() {
			changedTests[f.Path] = struct{}{}
			tests = append(tests, f)
		}
	}

	var links []schema.TestCandidate
	var uncovered []schema.ClassifiedChange
	for _, f := range batch.Files {
		switch {
		case f.Role == schema.RoleTest && !f.Deleted():
			links = append(links, selfCandidate(f))
		case f.Role == schema.RoleSource:
			var found []schema.TestCandidate
			if mode == schema.IndexMode {
				found = indexCandidates(f, index, changedTests, reg)
			} else {
				found = pairCandidates(f, tests, opts.MinRelevance)
			}
			if len(found) == 0 {
				uncovered = append(uncovered, f)
			}
			links = append(links, found...)
		}
	}

	for _, f := range uncovered {
		if f.Deleted() {
			continue
		}
		if first := pathgen.FirstCandidate(f.Path); first != "" {
			links = append(links, schema.TestCandidate{
				TestPath:   first,
				SourcePath: f.Path,
				Origin:     schema.OriginSuggested,
				Confidence: SuggestedConfidence,
				Reason:     reasonSuggested,
			})
		}
	}

	return MatchResult{
		Mode:       mode,
		Candidates: RankCandidates(Dedupe(links), opts.MaxResults),
		Links:      links,
	}
}

func selfCandidate(f schema.ClassifiedChange) schema.TestCandidate {
	c := schema.TestCandidate{
		TestPath:   f.Path,
		SourcePath: f.Path,
		Origin:     schema.OriginExisting,
		Confidence: DirectConfidence,
		Reason:     reasonDirect,
	}
	if f.ViaFallback {
		c.Confidence = FallbackConfidence
		c.Reason = reasonDirectFallback
	}
	return c
}

// indexCandidates probes the conventional test paths of a source in the index.
// Changed tests count as present even when the listing predates them.
func indexCandidates(src schema.ClassifiedChange, index schema.FileIndex, changedTests map[string]struct{}, reg *registry.Registry) []schema.TestCandidate {
	var out []schema.TestCandidate
	for _, p := range pathgen.CandidatePaths(src.Path) {
		_, changed := changedTests[p]
		if !changed && !index.Has(p) {
			continue
		}
		c := schema.TestCandidate{
			TestPath:   p,
			SourcePath: src.Path,
			Origin:     schema.OriginExisting,
			Confidence: ExistingConfidence,
			Reason:     fmt.Sprintf("existing test follows naming convention for %s", src.Path),
		}
		if _, strict := reg.MatchTest(p); !strict {
			c.Confidence = FallbackConfidence
			c.Reason = fmt.Sprintf("existing file at conventional test location for %s", src.Path)
		}
		out = append(out, c)
	}
	return out
}

// pairCandidates scores a source against every changed test.
func pairCandidates(src schema.ClassifiedChange, tests []schema.ClassifiedChange, minRelevance float64) []schema.TestCandidate {
	threshold := int(math.Round(minRelevance * 100))
	var out []schema.TestCandidate
	for _, t := range tests {
		points := pairPoints(src.Path, t.Path)
		if points <= threshold {
			continue
		}
		out = append(out, schema.TestCandidate{
			TestPath:   t.Path,
			SourcePath: src.Path,
			Origin:     schema.OriginExisting,
			Confidence: float64(points) / 100,
			Reason:     fmt.Sprintf("name and location match %s (score %d/100)", src.Path, points),
		})
	}
	return out
}
