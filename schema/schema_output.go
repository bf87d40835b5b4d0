package schema

// Confidence labels used for presentation.
const (
	ConfidenceHigh   = "High"
	ConfidenceMedium = "Medium"
	ConfidenceLow    = "Low"
)

// EnrichedCandidate adds presentation data to a TestCandidate.
type EnrichedCandidate struct {
	Rank  int    `json:"rank"`
	Label string `json:"label"`
	TestCandidate
}

// GetConfidenceLabel returns a plain text label for a confidence value.
func GetConfidenceLabel(confidence float64) string {
	switch {
	case confidence >= 0.9:
		return ConfidenceHigh
	case confidence >= 0.6:
		return ConfidenceMedium
	default:
		return ConfidenceLow
	}
}

// EnrichCandidates adds rank and label to a list of candidates.
func EnrichCandidates(candidates []TestCandidate) []EnrichedCandidate {
	output := make([]EnrichedCandidate, len(candidates))
	for i, c := range candidates {
		output[i] = EnrichedCandidate{
			Rank:          i + 1,
			Label:         GetConfidenceLabel(c.Confidence),
			TestCandidate: c,
		}
	}
	return output
}

// EnrichedAnalysisResult is an analysis whose candidates carry rank and label.
// It is the shape served to machine consumers.
type EnrichedAnalysisResult struct {
	AnalysisResult
	IdentifiedTests []EnrichedCandidate `json:"identifiedTests"`
}

// EnrichAnalysis ranks and labels the candidates of an analysis.
func EnrichAnalysis(r AnalysisResult) EnrichedAnalysisResult {
	return EnrichedAnalysisResult{
		AnalysisResult:  r,
		IdentifiedTests: EnrichCandidates(r.IdentifiedTests),
	}
}
