package iocache

import (
	"errors"
	"fmt"

	"github.com/vishal-mourya/Dynamic-Test-Identifier-And-Runner/internal/contract"
	"github.com/vishal-mourya/Dynamic-Test-Identifier-And-Runner/internal/parquet"
)

// ExecuteAnalysisExport writes the analysis history to two Parquet files
// named after outputFile: one for runs and one for test candidates.
func ExecuteAnalysisExport(store contract.AnalysisStore, outputFile string) error {
	if outputFile == "" {
		return errors.New("--output-file is required for export command")
	}
	if store == nil {
		return errors.New("analysis tracking is not configured")
	}

	status, err := store.GetStatus()
	if err != nil {
		return fmt.Errorf("failed to get analysis status: %w", err)
	}
	if status.TotalRuns == 0 {
		return errors.New("no analysis data found to export")
	}

	fmt.Printf("Exporting data from %s backend...\n", status.Backend)
	fmt.Printf("Total analysis runs: %d\n", status.TotalRuns)
	fmt.Printf("Total candidate records: %d\n", status.TotalCandidates)

	analysisRuns, err := store.GetAllAnalysisRuns()
	if err != nil {
		return fmt.Errorf("failed to retrieve analysis runs: %w", err)
	}
	candidates, err := store.GetAllCandidates()
	if err != nil {
		return fmt.Errorf("failed to retrieve test candidates: %w", err)
	}

	runsFile := outputFile + ".analysis_runs.parquet"
	parquetRuns := parquet.ConvertAnalysisRunRecords(analysisRuns)
	if err := parquet.WriteAnalysisRunsParquet(parquetRuns, runsFile); err != nil {
		return fmt.Errorf("failed to write analysis runs: %w", err)
	}
	fmt.Printf("Exported %d analysis runs to: %s\n", len(parquetRuns), runsFile)

	candidatesFile := outputFile + ".test_candidates.parquet"
	parquetCandidates := parquet.ConvertCandidateRecords(candidates)
	if err := parquet.WriteTestCandidatesParquet(parquetCandidates, candidatesFile); err != nil {
		return fmt.Errorf("failed to write test candidates: %w", err)
	}
	fmt.Printf("Exported %d test candidates to: %s\n", len(parquetCandidates), candidatesFile)

	return nil
}
