package schema

import "time"

// RunSummary holds the completion data of an analysis run.
type RunSummary struct {
	Mode            MatchMode
	TotalFiles      int
	CoveragePercent int
	RiskScore       int
}

// AnalysisRunRecord represents a row from the testid_analysis_runs table.
type AnalysisRunRecord struct {
	AnalysisID      int64
	RunUUID         string
	StartTime       time.Time
	EndTime         *time.Time
	RunDurationMs   *int32
	MatchMode       *string
	TotalFiles      int32
	CoveragePercent *int32
	RiskScore       *int32
	ConfigParams    *string
}

// CandidateRecord represents a row from the testid_test_candidates table.
type CandidateRecord struct {
	AnalysisID int64
	TestPath   string
	SourcePath string
	Origin     string
	Confidence float64
	Reason     string
}

// RecommendationRecord represents a row from the testid_recommendations table.
type RecommendationRecord struct {
	AnalysisID        int64
	SourcePath        string
	Severity          string
	Message           string
	SuggestedTestPath string
}
