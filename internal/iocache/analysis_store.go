package iocache

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/vishal-mourya/Dynamic-Test-Identifier-And-Runner/internal/contract"
	"github.com/vishal-mourya/Dynamic-Test-Identifier-And-Runner/schema"
)

// Table names for analysis tracking.
const (
	analysisRunsTable    = "testid_analysis_runs"
	testCandidatesTable  = "testid_test_candidates"
	recommendationsTable = "testid_recommendations"
)

// analysisTables lists the history tables in creation order.
var analysisTables = []string{analysisRunsTable, testCandidatesTable, recommendationsTable}

// AnalysisStoreImpl implements the AnalysisStore interface.
type AnalysisStoreImpl struct {
	db      *sql.DB
	backend schema.DatabaseBackend
}

var _ contract.AnalysisStore = &AnalysisStoreImpl{} // Compile-time check

// NewAnalysisStore creates a new AnalysisStore with the specified backend
// and migrates its schema to the latest version.
func NewAnalysisStore(backend schema.DatabaseBackend, connStr string) (contract.AnalysisStore, error) {
	if backend == schema.NoneBackend {
		// Return a no-op store for disabled tracking
		return &AnalysisStoreImpl{backend: backend}, nil
	}

	db, err := openDatabase(backend, connStr, GetAnalysisDBFilePath())
	if err != nil {
		return nil, err
	}

	if err := applyMigrations(db, backend); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create analysis tables: %w", err)
	}

	return &AnalysisStoreImpl{db: db, backend: backend}, nil
}

func (as *AnalysisStoreImpl) disabled() bool {
	return as.backend == schema.NoneBackend || as.db == nil
}

// BeginAnalysis creates a new analysis run and returns its unique ID.
func (as *AnalysisStoreImpl) BeginAnalysis(runUUID string, startTime time.Time, configParams map[string]any) (int64, error) {
	if as.disabled() {
		return 0, nil
	}

	configJSON, err := json.Marshal(configParams)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal config params: %w", err)
	}

	quotedTableName := quoteTableName(analysisRunsTable, as.backend)

	var analysisID int64
	switch as.backend {
	case schema.PostgreSQLBackend:
		query := fmt.Sprintf(`INSERT INTO %s (run_uuid, start_time, config_params) VALUES ($1, $2, $3) RETURNING analysis_id`, quotedTableName)
		err = as.db.QueryRow(query, runUUID, startTime, string(configJSON)).Scan(&analysisID)
	default: // SQLite and MySQL
		query := fmt.Sprintf(`INSERT INTO %s (run_uuid, start_time, config_params) VALUES (?, ?, ?)`, quotedTableName)
		var result sql.Result
		result, err = as.db.Exec(query, runUUID, formatTime(startTime, as.backend), string(configJSON))
		if err == nil {
			analysisID, err = result.LastInsertId()
		}
	}

	if err != nil {
		return 0, fmt.Errorf("failed to insert analysis run: %w", err)
	}
	return analysisID, nil
}

// EndAnalysis updates the analysis run with completion data.
func (as *AnalysisStoreImpl) EndAnalysis(analysisID int64, endTime time.Time, summary schema.RunSummary) error {
	if as.disabled() {
		return nil
	}

	quotedTableName := quoteTableName(analysisRunsTable, as.backend)
	query := fmt.Sprintf(`SELECT start_time FROM %s WHERE analysis_id = %s`, quotedTableName, placeholder(as.backend, 1))
	row := as.db.QueryRow(query, analysisID)

	var startTime time.Time
	switch as.backend {
	case schema.SQLiteBackend:
		var startTimeStr string
		if err := row.Scan(&startTimeStr); err != nil {
			return fmt.Errorf("failed to get start_time for analysis %d: %w", analysisID, err)
		}
		var err error
		if startTime, err = parseTime(startTimeStr); err != nil {
			return fmt.Errorf("failed to parse start_time: %w", err)
		}
	default: // MySQL and PostgreSQL store as native datetime
		if err := row.Scan(&startTime); err != nil {
			return fmt.Errorf("failed to get start_time for analysis %d: %w", analysisID, err)
		}
	}

	durationMs := endTime.Sub(startTime).Milliseconds()

	updateQuery := fmt.Sprintf(`UPDATE %s SET end_time = %s, run_duration_ms = %s, match_mode = %s, total_files = %s, coverage_percent = %s, risk_score = %s WHERE analysis_id = %s`,
		quotedTableName,
		placeholder(as.backend, 1), placeholder(as.backend, 2), placeholder(as.backend, 3),
		placeholder(as.backend, 4), placeholder(as.backend, 5), placeholder(as.backend, 6),
		placeholder(as.backend, 7))
	args := []any{
		formatTime(endTime, as.backend), durationMs, string(summary.Mode),
		summary.TotalFiles, summary.CoveragePercent, summary.RiskScore, analysisID,
	}

	if _, err := as.db.Exec(updateQuery, args...); err != nil {
		return fmt.Errorf("failed to update analysis run: %w", err)
	}
	return nil
}

// RecordCandidates stores the identified tests of a run in one transaction.
func (as *AnalysisStoreImpl) RecordCandidates(analysisID int64, candidates []schema.TestCandidate) error {
	if as.disabled() || len(candidates) == 0 {
		return nil
	}

	query := fmt.Sprintf(`INSERT INTO %s (analysis_id, test_path, source_path, origin, confidence, reason) VALUES (%s, %s, %s, %s, %s, %s)`,
		quoteTableName(testCandidatesTable, as.backend),
		placeholder(as.backend, 1), placeholder(as.backend, 2), placeholder(as.backend, 3),
		placeholder(as.backend, 4), placeholder(as.backend, 5), placeholder(as.backend, 6))

	return as.inTx(query, func(stmt *sql.Stmt) error {
		for _, c := range candidates {
			if _, err := stmt.Exec(analysisID, c.TestPath, c.SourcePath, string(c.Origin), c.Confidence, c.Reason); err != nil {
				return fmt.Errorf("failed to insert candidate %s: %w", c.TestPath, err)
			}
		}
		return nil
	})
}

// RecordRecommendations stores the recommendations of a run in one transaction.
func (as *AnalysisStoreImpl) RecordRecommendations(analysisID int64, recs []schema.Recommendation) error {
	if as.disabled() || len(recs) == 0 {
		return nil
	}

	query := fmt.Sprintf(`INSERT INTO %s (analysis_id, source_path, severity, message, suggested_test_path) VALUES (%s, %s, %s, %s, %s)`,
		quoteTableName(recommendationsTable, as.backend),
		placeholder(as.backend, 1), placeholder(as.backend, 2), placeholder(as.backend, 3),
		placeholder(as.backend, 4), placeholder(as.backend, 5))

	return as.inTx(query, func(stmt *sql.Stmt) error {
		for _, r := range recs {
			if _, err := stmt.Exec(analysisID, r.SourcePath, string(r.Severity), r.Message, r.SuggestedTestPath); err != nil {
				return fmt.Errorf("failed to insert recommendation for %s: %w", r.SourcePath, err)
			}
		}
		return nil
	})
}

// inTx prepares query inside a transaction and commits when fn succeeds.
func (as *AnalysisStoreImpl) inTx(query string, fn func(stmt *sql.Stmt) error) error {
	tx, err := as.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	stmt, err := tx.Prepare(query)
	if err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	if err := fn(stmt); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

// Close closes the underlying connection.
func (as *AnalysisStoreImpl) Close() error {
	if as.db != nil {
		return as.db.Close()
	}
	return nil
}

// GetStatus returns status information about the analysis store.
func (as *AnalysisStoreImpl) GetStatus() (schema.AnalysisStatus, error) {
	status := schema.AnalysisStatus{
		Backend:    string(as.backend),
		Connected:  as.db != nil,
		TableSizes: make(map[string]int64),
	}

	if as.disabled() {
		return status, nil
	}

	runsTable := quoteTableName(analysisRunsTable, as.backend)
	if err := as.db.QueryRow(fmt.Sprintf("SELECT COUNT(*) FROM %s", runsTable)).Scan(&status.TotalRuns); err != nil {
		return status, fmt.Errorf("failed to get total runs: %w", err)
	}

	if status.TotalRuns > 0 {
		lastRunQuery := fmt.Sprintf("SELECT analysis_id, start_time FROM %s ORDER BY analysis_id DESC LIMIT 1", runsTable)
		lastID, lastTime, err := as.scanIDAndTime(as.db.QueryRow(lastRunQuery))
		if err != nil {
			return status, fmt.Errorf("failed to get last run info: %w", err)
		}
		status.LastRunID = lastID
		status.LastRunTime = lastTime

		oldestRunQuery := fmt.Sprintf("SELECT analysis_id, start_time FROM %s ORDER BY analysis_id ASC LIMIT 1", runsTable)
		_, oldestTime, err := as.scanIDAndTime(as.db.QueryRow(oldestRunQuery))
		if err != nil {
			return status, fmt.Errorf("failed to get oldest run time: %w", err)
		}
		status.OldestRunTime = oldestTime

		filesQuery := fmt.Sprintf("SELECT COALESCE(SUM(total_files), 0) FROM %s", runsTable)
		if err := as.db.QueryRow(filesQuery).Scan(&status.TotalFilesAnalyzed); err != nil {
			return status, fmt.Errorf("failed to get total files analyzed: %w", err)
		}
	}

	for _, table := range analysisTables {
		countQuery := fmt.Sprintf("SELECT COUNT(*) FROM %s", quoteTableName(table, as.backend))
		var count int64
		if err := as.db.QueryRow(countQuery).Scan(&count); err != nil {
			return status, fmt.Errorf("failed to get count for table %s: %w", table, err)
		}
		status.TableSizes[table] = count
	}
	status.TotalCandidates = int(status.TableSizes[testCandidatesTable])

	return status, nil
}

// scanIDAndTime reads an (analysis_id, start_time) row for any backend.
func (as *AnalysisStoreImpl) scanIDAndTime(row *sql.Row) (int64, time.Time, error) {
	var id int64
	if as.backend == schema.SQLiteBackend {
		var ts string
		if err := row.Scan(&id, &ts); err != nil {
			return 0, time.Time{}, err
		}
		t, err := parseTime(ts)
		return id, t, err
	}
	var t time.Time
	err := row.Scan(&id, &t)
	return id, t, err
}

// GetAllAnalysisRuns retrieves all analysis runs from the store, newest first.
func (as *AnalysisStoreImpl) GetAllAnalysisRuns() ([]schema.AnalysisRunRecord, error) {
	if as.disabled() {
		return nil, nil
	}

	query := fmt.Sprintf(`SELECT analysis_id, run_uuid, start_time, end_time, run_duration_ms, match_mode,
		total_files, coverage_percent, risk_score, config_params FROM %s ORDER BY analysis_id DESC`,
		quoteTableName(analysisRunsTable, as.backend))

	rows, err := as.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query analysis runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.AnalysisRunRecord
	for rows.Next() {
		var record schema.AnalysisRunRecord

		switch as.backend {
		case schema.SQLiteBackend:
			var startTimeStr string
			var endTimeStr *string
			if err := rows.Scan(&record.AnalysisID, &record.RunUUID, &startTimeStr, &endTimeStr, &record.RunDurationMs,
				&record.MatchMode, &record.TotalFiles, &record.CoveragePercent, &record.RiskScore, &record.ConfigParams); err != nil {
				return nil, fmt.Errorf("failed to scan analysis run: %w", err)
			}
			if record.StartTime, err = parseTime(startTimeStr); err != nil {
				return nil, fmt.Errorf("failed to parse start_time: %w", err)
			}
			if endTimeStr != nil {
				endTime, err := parseTime(*endTimeStr)
				if err != nil {
					return nil, fmt.Errorf("failed to parse end_time: %w", err)
				}
				record.EndTime = &endTime
			}
		default: // MySQL and PostgreSQL
			if err := rows.Scan(&record.AnalysisID, &record.RunUUID, &record.StartTime, &record.EndTime, &record.RunDurationMs,
				&record.MatchMode, &record.TotalFiles, &record.CoveragePercent, &record.RiskScore, &record.ConfigParams); err != nil {
				return nil, fmt.Errorf("failed to scan analysis run: %w", err)
			}
		}

		results = append(results, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating analysis runs: %w", err)
	}
	return results, nil
}

// GetAllCandidates retrieves every recorded test candidate.
func (as *AnalysisStoreImpl) GetAllCandidates() ([]schema.CandidateRecord, error) {
	if as.disabled() {
		return nil, nil
	}

	query := fmt.Sprintf(`SELECT analysis_id, test_path, source_path, origin, confidence, reason
		FROM %s ORDER BY analysis_id, test_path`, quoteTableName(testCandidatesTable, as.backend))

	rows, err := as.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query test candidates: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.CandidateRecord
	for rows.Next() {
		var record schema.CandidateRecord
		if err := rows.Scan(&record.AnalysisID, &record.TestPath, &record.SourcePath,
			&record.Origin, &record.Confidence, &record.Reason); err != nil {
			return nil, fmt.Errorf("failed to scan test candidate: %w", err)
		}
		results = append(results, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating test candidates: %w", err)
	}
	return results, nil
}
