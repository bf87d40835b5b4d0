// Package parquet provides data structures and functions for exporting analysis
// history to Parquet files using github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"os"
	"time"

	"github.com/parquet-go/parquet-go"

	"github.com/vishal-mourya/Dynamic-Test-Identifier-And-Runner/schema"
)

// AnalysisRun represents a single analysis run with its outcome.
// This struct maps to the testid_analysis_runs database table.
type AnalysisRun struct {
	// AnalysisID is the unique identifier for this analysis run
	AnalysisID int64 `parquet:"analysis_id,snappy"`

	// RunUUID is the identifier reported to callers and CI systems
	RunUUID string `parquet:"run_uuid,snappy"`

	// StartTime is when the analysis began
	StartTime time.Time `parquet:"start_time,snappy"`

	// EndTime is when the analysis completed (nullable)
	EndTime *time.Time `parquet:"end_time,optional,snappy"`

	// RunDurationMs is the duration of the analysis run in milliseconds (nullable)
	RunDurationMs *int32 `parquet:"run_duration_ms,optional,snappy"`

	// MatchMode is index or heuristic (nullable until the run ends)
	MatchMode *string `parquet:"match_mode,optional,snappy"`

	// TotalFiles is the number of changed files in this run
	TotalFiles int32 `parquet:"total_files,snappy"`

	CoveragePercent *int32 `parquet:"coverage_percent,optional,snappy"`
	RiskScore       *int32 `parquet:"risk_score,optional,snappy"`

	// ConfigParams contains the JSON-encoded configuration parameters (nullable)
	ConfigParams *string `parquet:"config_params,optional,snappy"`
}

// TestCandidate represents one identified test of an analysis run.
// This struct maps to the testid_test_candidates database table.
type TestCandidate struct {
	AnalysisID int64   `parquet:"analysis_id,snappy"`
	TestPath   string  `parquet:"test_path,snappy"`
	SourcePath string  `parquet:"source_path,snappy"`
	Origin     string  `parquet:"origin,dict,snappy"`
	Confidence float64 `parquet:"confidence,snappy"`
	Reason     string  `parquet:"reason,dict,snappy"`
}

// writeParquet writes rows to a new file, inferring the schema from T's struct tags.
func writeParquet[T any](data []T, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	writer := parquet.NewGenericWriter[T](file)
	if _, err := writer.Write(data); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize parquet file: %w", err)
	}
	return nil
}

// WriteAnalysisRunsParquet writes a slice of AnalysisRun structs to a Parquet file.
func WriteAnalysisRunsParquet(data []AnalysisRun, outputPath string) error {
	return writeParquet(data, outputPath)
}

// WriteTestCandidatesParquet writes a slice of TestCandidate structs to a Parquet file.
func WriteTestCandidatesParquet(data []TestCandidate, outputPath string) error {
	return writeParquet(data, outputPath)
}

// ConvertAnalysisRunRecords converts schema.AnalysisRunRecord to AnalysisRun for Parquet export.
func ConvertAnalysisRunRecords(records []schema.AnalysisRunRecord) []AnalysisRun {
	result := make([]AnalysisRun, len(records))
	for i, record := range records {
		result[i] = AnalysisRun{
			AnalysisID:      record.AnalysisID,
			RunUUID:         record.RunUUID,
			StartTime:       record.StartTime,
			EndTime:         record.EndTime,
			RunDurationMs:   record.RunDurationMs,
			MatchMode:       record.MatchMode,
			TotalFiles:      record.TotalFiles,
			CoveragePercent: record.CoveragePercent,
			RiskScore:       record.RiskScore,
			ConfigParams:    record.ConfigParams,
		}
	}
	return result
}

// ConvertCandidateRecords converts schema.CandidateRecord to TestCandidate for Parquet export.
func ConvertCandidateRecords(records []schema.CandidateRecord) []TestCandidate {
	result := make([]TestCandidate, len(records))
	for i, record := range records {
		result[i] = TestCandidate(record)
	}
	return result
}
