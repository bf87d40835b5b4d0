// Package recommend turns uncovered source files into actionable suggestions.
package recommend

import (
	"fmt"

	"github.com/vishal-mourya/Dynamic-Test-Identifier-And-Runner/core/algo"
	"github.com/vishal-mourya/Dynamic-Test-Identifier-And-Runner/core/pathgen"
	"github.com/vishal-mourya/Dynamic-Test-Identifier-And-Runner/schema"
)

// HighSeverityLines is the changed-line count above which a gap is urgent.
const HighSeverityLines = 50

// Build returns one recommendation per changed source without an existing test.
// Deleted sources need no test and are skipped.
func Build(sources []schema.ClassifiedChange, links []schema.TestCandidate) []schema.Recommendation {
	covered := algo.CoveredSources(links)
	recs := make([]schema.Recommendation, 0)
	for _, s := range sources {
		if s.Role != schema.RoleSource || s.Deleted() {
			continue
		}
		if _, ok := covered[s.Path]; ok {
			continue
		}
		suggested := pathgen.FirstCandidate(s.Path)
		if suggested == "" {
			continue
		}
		lines := s.ChangedLines()
		severity := schema.SeverityMedium
		if lines > HighSeverityLines {
			severity = schema.SeverityHigh
		}
		recs = append(recs, schema.Recommendation{
			SourcePath:        s.Path,
			Severity:          severity,
			Message:           fmt.Sprintf("No existing test found for %s (%d lines changed); add one at %s", s.Path, lines, suggested),
			SuggestedTestPath: suggested,
		})
	}
	return recs
}
