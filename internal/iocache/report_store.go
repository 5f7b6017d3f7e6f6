package iocache

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/huangsam/finscore/internal/contract"
	"github.com/huangsam/finscore/schema"
)

// Table names for report tracking.
const (
	reportRunsTable    = "report_runs"
	companyScoresTable = "company_scores"
)

// ReportStoreImpl implements the ReportStore interface.
type ReportStoreImpl struct {
	db      *sql.DB
	backend schema.DatabaseBackend
}

var _ contract.ReportStore = &ReportStoreImpl{} // Compile-time check

// NewReportStore opens the report database and migrates it to the latest version.
func NewReportStore(backend schema.DatabaseBackend, connStr string) (contract.ReportStore, error) {
	if backend == schema.NoneBackend {
		return &ReportStoreImpl{backend: backend}, nil
	}
	db, err := openDB(backend, connStr, contract.GetReportDBFilePath())
	if err != nil {
		return nil, fmt.Errorf("reports: %w", err)
	}
	if err := migrateUp(db, backend, ReportMigrations); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &ReportStoreImpl{db: db, backend: backend}, nil
}

func (rs *ReportStoreImpl) table(name string) string {
	return quoteTableName(name, rs.backend)
}

// BeginRun creates a new run and returns its unique ID.
func (rs *ReportStoreImpl) BeginRun(kind string, startTime time.Time, configParams map[string]any) (string, error) {
	if rs.db == nil {
		return "", nil
	}
	configJSON, err := json.Marshal(configParams)
	if err != nil {
		return "", fmt.Errorf("failed to marshal config params: %w", err)
	}
	runID := uuid.NewString()
	query := rebind(fmt.Sprintf(`INSERT INTO %s (run_id, kind, start_time, config_params) VALUES (?, ?, ?, ?)`,
		rs.table(reportRunsTable)), rs.backend)
	if _, err := rs.db.Exec(query, runID, kind, formatTime(startTime, rs.backend), string(configJSON)); err != nil {
		return "", fmt.Errorf("failed to insert report run: %w", err)
	}
	return runID, nil
}

// EndRun updates the run with its end time and duration.
func (rs *ReportStoreImpl) EndRun(runID string, endTime time.Time) error {
	if rs.db == nil {
		return nil
	}
	var start timeScanner
	query := rebind(fmt.Sprintf(`SELECT start_time FROM %s WHERE run_id = ?`, rs.table(reportRunsTable)), rs.backend)
	if err := rs.db.QueryRow(query, runID).Scan(&start); err != nil {
		return fmt.Errorf("failed to get start_time for run %s: %w", runID, err)
	}

	durationMs := endTime.Sub(start.Time).Milliseconds()
	update := rebind(fmt.Sprintf(`UPDATE %s SET end_time = ?, run_duration_ms = ? WHERE run_id = ?`,
		rs.table(reportRunsTable)), rs.backend)
	if _, err := rs.db.Exec(update, formatTime(endTime, rs.backend), durationMs, runID); err != nil {
		return fmt.Errorf("failed to update report run: %w", err)
	}
	return nil
}

// RecordCompanyScore stores the scores of one company for a run.
func (rs *ReportStoreImpl) RecordCompanyScore(r schema.CompanyScoreRecord) error {
	if rs.db == nil {
		return nil
	}
	query := rebind(fmt.Sprintf(`
		INSERT INTO %s (run_id, tax_id, fiscal_year, company_name,
		                score_operational, score_financial, score_future, score_ai_digital, score_esg, score_innovation,
		                overall_score, tier, recorded_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, rs.table(companyScoresTable)), rs.backend)
	_, err := rs.db.Exec(query, r.RunID, r.TaxID, r.FiscalYear, r.CompanyName,
		r.ScoreOperational, r.ScoreFinancial, r.ScoreFuture, r.ScoreAIDigital, r.ScoreESG, r.ScoreInnovation,
		r.OverallScore, r.Tier, formatTime(r.RecordedAt, rs.backend))
	if err != nil {
		return fmt.Errorf("failed to insert company score: %w", err)
	}
	return nil
}

// Close closes the underlying connection.
func (rs *ReportStoreImpl) Close() error {
	if rs.db != nil {
		return rs.db.Close()
	}
	return nil
}

// GetStatus returns status information about the report store.
func (rs *ReportStoreImpl) GetStatus() (schema.ReportStatus, error) {
	status := schema.ReportStatus{
		Backend:    string(rs.backend),
		Connected:  rs.db != nil,
		TableSizes: make(map[string]int64),
	}
	if rs.db == nil {
		return status, nil
	}

	row := rs.db.QueryRow(fmt.Sprintf("SELECT COUNT(*) FROM %s", rs.table(reportRunsTable)))
	if err := row.Scan(&status.TotalRuns); err != nil {
		return status, fmt.Errorf("failed to get total runs: %w", err)
	}

	if status.TotalRuns > 0 {
		var last, oldest timeScanner
		row = rs.db.QueryRow(fmt.Sprintf("SELECT run_id, start_time FROM %s ORDER BY start_time DESC LIMIT 1", rs.table(reportRunsTable)))
		if err := row.Scan(&status.LastRunID, &last); err != nil {
			return status, fmt.Errorf("failed to get last run info: %w", err)
		}
		status.LastRunTime = last.Time

		row = rs.db.QueryRow(fmt.Sprintf("SELECT start_time FROM %s ORDER BY start_time ASC LIMIT 1", rs.table(reportRunsTable)))
		if err := row.Scan(&oldest); err != nil {
			return status, fmt.Errorf("failed to get oldest run time: %w", err)
		}
		status.OldestRunTime = oldest.Time
	}

	for _, table := range []string{reportRunsTable, companyScoresTable} {
		var count int64
		if err := rs.db.QueryRow(fmt.Sprintf("SELECT COUNT(*) FROM %s", rs.table(table))).Scan(&count); err != nil {
			return status, fmt.Errorf("failed to get count for table %s: %w", table, err)
		}
		status.TableSizes[table] = count
	}
	return status, nil
}

// GetAllRuns retrieves all report runs, oldest first.
func (rs *ReportStoreImpl) GetAllRuns() ([]schema.ReportRunRecord, error) {
	if rs.db == nil {
		return nil, nil
	}
	query := fmt.Sprintf("SELECT run_id, kind, start_time, end_time, run_duration_ms, config_params FROM %s ORDER BY start_time, run_id",
		rs.table(reportRunsTable))
	rows, err := rs.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query report runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.ReportRunRecord
	for rows.Next() {
		var (
			record     schema.ReportRunRecord
			start, end timeScanner
		)
		if err := rows.Scan(&record.RunID, &record.Kind, &start, &end, &record.DurationMs, &record.ConfigParams); err != nil {
			return nil, fmt.Errorf("failed to scan report run: %w", err)
		}
		record.StartTime = start.Time
		if end.Valid {
			t := end.Time
			record.EndTime = &t
		}
		results = append(results, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating report runs: %w", err)
	}
	return results, nil
}

// GetAllCompanyScores retrieves all company scores, oldest first.
func (rs *ReportStoreImpl) GetAllCompanyScores() ([]schema.CompanyScoreRecord, error) {
	if rs.db == nil {
		return nil, nil
	}
	query := fmt.Sprintf(`SELECT run_id, tax_id, fiscal_year, company_name,
		score_operational, score_financial, score_future, score_ai_digital, score_esg, score_innovation,
		overall_score, tier, recorded_at
		FROM %s ORDER BY recorded_at, run_id, tax_id`, rs.table(companyScoresTable))
	rows, err := rs.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query company scores: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.CompanyScoreRecord
	for rows.Next() {
		var (
			r          schema.CompanyScoreRecord
			recordedAt timeScanner
		)
		if err := rows.Scan(&r.RunID, &r.TaxID, &r.FiscalYear, &r.CompanyName,
			&r.ScoreOperational, &r.ScoreFinancial, &r.ScoreFuture, &r.ScoreAIDigital, &r.ScoreESG, &r.ScoreInnovation,
			&r.OverallScore, &r.Tier, &recordedAt); err != nil {
			return nil, fmt.Errorf("failed to scan company score: %w", err)
		}
		r.RecordedAt = recordedAt.Time
		results = append(results, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating company scores: %w", err)
	}
	return results, nil
}
