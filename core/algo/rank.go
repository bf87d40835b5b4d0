package algo

import (
	"sort"

	"github.com/vishal-mourya/Dynamic-Test-Identifier-And-Runner/schema"
)

// Dedupe keeps one candidate per test path. The highest confidence wins and
// existing beats suggested on a tie. Each survivor keeps the position of the
// first candidate seen for its path.
func Dedupe(candidates []schema.TestCandidate) []schema.TestCandidate {
	pos := make(map[string]int, len(candidates))
	out := make([]schema.TestCandidate, 0, len(candidates))
	for _, c := range candidates {
		i, seen := pos[c.TestPath]
		if !seen {
			pos[c.TestPath] = len(out)
			out = append(out, c)
			continue
		}
		if preferred(c, out[i]) {
			out[i] = c
		}
	}
	return out
}

func preferred(a, b schema.TestCandidate) bool {
	if a.Confidence != b.Confidence {
		return a.Confidence > b.Confidence
	}
	return a.Origin == schema.OriginExisting && b.Origin != schema.OriginExisting
}

// RankCandidates sorts candidates by confidence in descending order, existing
// before suggested at equal confidence, and returns the top 'limit' ones.
// The sort is stable so discovery order breaks the remaining ties.
func RankCandidates(candidates []schema.TestCandidate, limit int) []schema.TestCandidate {
	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].Confidence != candidates[j].Confidence {
			return candidates[i].Confidence > candidates[j].Confidence
		}
		return candidates[i].Origin == schema.OriginExisting && candidates[j].Origin != schema.OriginExisting
	})
	if limit > 0 && len(candidates) > limit {
		return candidates[:limit]
	}
	return candidates
}
