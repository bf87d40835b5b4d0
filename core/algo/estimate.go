package algo

import (
	"math"

	"github.com/vishal-mourya/Dynamic-Test-Identifier-And-Runner/schema"
)

// Coverage bonus tuning.
const (
	bonusPerExtraTest = 5
	maxBonus          = 20
	maxBoostedCover   = 95
)

// Estimate derives the coverage and risk numbers for a change set.
// Deleted sources are left out of both figures.
func Estimate(sources []schema.ClassifiedChange, links []schema.TestCandidate) schema.Estimate {
	return schema.Estimate{
		CoveragePercent: Coverage(sources, links),
		RiskScore:       Risk(sources, links),
	}
}

// Coverage returns the share of changed sources with at least one existing test.
func Coverage(sources []schema.ClassifiedChange, links []schema.TestCandidate) int {
	active := activeSources(sources)
	if len(active) == 0 {
		return 100
	}
	covered := CoveredSources(links)
	n := 0
	for _, s := range active {
		if _, ok := covered[s.Path]; ok {
			n++
		}
	}
	cov := int(math.Round(float64(n) / float64(len(active)) * 100))

	testCount := distinctExistingTests(links)
	if testCount > len(active) && cov < 100 {
		bonus := min(maxBonus, (testCount-len(active))*bonusPerExtraTest)
		if boosted := min(maxBoostedCover, cov+bonus); boosted > cov {
			cov = boosted
		}
	}
	return clampPercent(cov)
}

// Risk averages the per-file risk of the changed sources.
func Risk(sources []schema.ClassifiedChange, links []schema.TestCandidate) int {
	active := activeSources(sources)
	if len(active) == 0 {
		return 0
	}
	covered := CoveredSources(links)
	sum := 0
	for _, s := range active {
		sum += BaseRisk(s.ChangedLines())
		if _, ok := covered[s.Path]; !ok {
			sum += 10
		}
	}
	return clampPercent(int(math.Round(float64(sum) / float64(len(active)))))
}

// BaseRisk grades a file by the number of lines it changed.
func BaseRisk(changedLines int) int {
	switch {
	case changedLines > 100:
		return 30
	case changedLines > 50:
		return 20
	case changedLines > 10:
		return 10
	default:
		return 0
	}
}

// CoveredSources returns the source paths linked to an existing test other than themselves.
func CoveredSources(links []schema.TestCandidate) map[string]struct{} {
	covered := make(map[string]struct{})
	for _, l := range links {
		if l.Origin == schema.OriginExisting && l.SourcePath != "" && l.SourcePath != l.TestPath {
			covered[l.SourcePath] = struct{}{}
		}
	}
	return covered
}

func distinctExistingTests(links []schema.TestCandidate) int {
	seen := make(map[string]struct{})
	for _, l := range links {
		if l.Origin == schema.OriginExisting {
			seen[l.TestPath] = struct{}{}
		}
	}
	return len(seen)
}

func activeSources(sources []schema.ClassifiedChange) []schema.ClassifiedChange {
	out := make([]schema.ClassifiedChange, 0, len(sources))
	for _, s := range sources {
		if s.Role == schema.RoleSource && !s.Deleted() {
			out = append(out, s)
		}
	}
	return out
}

func clampPercent(v int) int {
	return max(0, min(100, v))
}
