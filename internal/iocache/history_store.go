package iocache

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/huangsam/depshield/internal/contract"
	"github.com/huangsam/depshield/schema"
)

// Table names for scan history.
const (
	scanRunsTable      = "depshield_scan_runs"
	packageScoresTable = "depshield_package_scores"
)

// historyTables lists the history tables in creation order.
var historyTables = []string{scanRunsTable, packageScoresTable}

// HistoryStoreImpl implements the HistoryStore interface.
type HistoryStoreImpl struct {
	db      *sql.DB
	backend schema.DatabaseBackend
}

var _ contract.HistoryStore = &HistoryStoreImpl{} // Compile-time check

// NewHistoryStore creates a new HistoryStore with the specified backend.
func NewHistoryStore(backend schema.DatabaseBackend, connStr string) (contract.HistoryStore, error) {
	if backend == schema.NoneBackend {
		// Return a no-op store for disabled tracking
		return &HistoryStoreImpl{backend: backend}, nil
	}

	db, err := openDatabase(backend, connStr, GetHistoryDBFilePath())
	if err != nil {
		return nil, err
	}

	if err := createHistoryTables(db, backend); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create history tables: %w", err)
	}

	return &HistoryStoreImpl{db: db, backend: backend}, nil
}

// createHistoryTables creates the scan history tables.
func createHistoryTables(db *sql.DB, backend schema.DatabaseBackend) error {
	for _, table := range historyTables {
		if _, err := db.Exec(getCreateHistoryQuery(table, backend)); err != nil {
			return fmt.Errorf("failed to create table %s: %w", table, err)
		}
	}
	return nil
}

// getCreateHistoryQuery returns the CREATE TABLE query of a history table.
func getCreateHistoryQuery(table string, backend schema.DatabaseBackend) string {
	quoted := quoteTableName(table, backend)

	// Column types per backend: identifier, timestamp, text, boolean.
	idType, timeType, textType, boolType := "TEXT", "TEXT", "TEXT", "INTEGER"
	switch backend {
	case schema.MySQLBackend:
		idType, timeType, textType, boolType = "VARCHAR(36)", "DATETIME(6)", "VARCHAR(255)", "BOOLEAN"
	case schema.PostgreSQLBackend:
		idType, timeType, textType, boolType = "VARCHAR(36)", "TIMESTAMPTZ", "TEXT", "BOOLEAN"
	}

	if table == scanRunsTable {
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id %s PRIMARY KEY,
				target %s NOT NULL,
				start_time %s NOT NULL,
				end_time %s,
				run_duration_ms INTEGER,
				total_packages INTEGER NOT NULL DEFAULT 0,
				overall_score INTEGER,
				overall_grade VARCHAR(2),
				config_params TEXT
			);
		`, quoted, idType, textType, timeType, timeType)
	}

	return fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			run_id %s NOT NULL,
			package_name %s NOT NULL,
			package_version VARCHAR(128) NOT NULL,
			analysis_time %s NOT NULL,
			health_score INTEGER NOT NULL,
			health_grade VARCHAR(2) NOT NULL,
			risk_level VARCHAR(16) NOT NULL,
			maintainer_score INTEGER NOT NULL,
			takeover_score INTEGER NOT NULL,
			slopsquat_score INTEGER NOT NULL,
			license_score INTEGER NOT NULL,
			bus_factor INTEGER NOT NULL,
			last_commit_days_ago INTEGER NOT NULL,
			current_license VARCHAR(128) NOT NULL,
			alert_count INTEGER NOT NULL,
			is_direct %s NOT NULL,
			fallback %s NOT NULL,
			PRIMARY KEY (run_id, package_name)
		);
	`, quoted, idType, textType, timeType, boolType, boolType)
}

// BeginScan creates a new scan run and returns its unique ID.
// The ID is empty when history is disabled.
func (hs *HistoryStoreImpl) BeginScan(target string, startTime time.Time, configParams map[string]any) (string, error) {
	if hs.db == nil {
		return "", nil
	}

	configJSON, err := json.Marshal(configParams)
	if err != nil {
		return "", fmt.Errorf("failed to marshal config params: %w", err)
	}

	runID := uuid.NewString()
	query := fmt.Sprintf(`INSERT INTO %s (run_id, target, start_time, config_params) VALUES (%s)`,
		quoteTableName(scanRunsTable, hs.backend), placeholders(hs.backend, 1, 4))
	if _, err := hs.db.Exec(query, runID, target, formatTime(startTime, hs.backend), string(configJSON)); err != nil {
		return "", fmt.Errorf("failed to insert scan run: %w", err)
	}
	return runID, nil
}

// EndScan updates the scan run with completion data.
func (hs *HistoryStoreImpl) EndScan(runID string, endTime time.Time, totalPackages int, overallScore int, overallGrade schema.Grade) error {
	if hs.db == nil {
		return nil
	}

	quoted := quoteTableName(scanRunsTable, hs.backend)
	selectQuery := fmt.Sprintf(`SELECT start_time FROM %s WHERE run_id = %s`, quoted, placeholders(hs.backend, 1, 1))
	startTime, err := hs.scanTime(hs.db.QueryRow(selectQuery, runID))
	if err != nil {
		return fmt.Errorf("failed to get start_time for scan %s: %w", runID, err)
	}

	var updateQuery string
	if hs.backend == schema.PostgreSQLBackend {
		updateQuery = fmt.Sprintf(`UPDATE %s SET end_time = $1, run_duration_ms = $2, total_packages = $3, overall_score = $4, overall_grade = $5 WHERE run_id = $6`, quoted)
	} else {
		updateQuery = fmt.Sprintf(`UPDATE %s SET end_time = ?, run_duration_ms = ?, total_packages = ?, overall_score = ?, overall_grade = ? WHERE run_id = ?`, quoted)
	}

	durationMs := endTime.Sub(startTime).Milliseconds()
	if _, err := hs.db.Exec(updateQuery, formatTime(endTime, hs.backend), durationMs, totalPackages, overallScore, string(overallGrade), runID); err != nil {
		return fmt.Errorf("failed to update scan run: %w", err)
	}
	return nil
}

// RecordPackageScore stores the scores of one package for a run.
func (hs *HistoryStoreImpl) RecordPackageScore(runID string, record schema.PackageScoreRecord) error {
	if hs.db == nil {
		return nil
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (run_id, package_name, package_version, analysis_time, health_score, health_grade,
		                risk_level, maintainer_score, takeover_score, slopsquat_score, license_score,
		                bus_factor, last_commit_days_ago, current_license, alert_count, is_direct, fallback)
		VALUES (%s)
	`, quoteTableName(packageScoresTable, hs.backend), placeholders(hs.backend, 1, 17))

	_, err := hs.db.Exec(query,
		runID, record.PackageName, record.PackageVersion, formatTime(record.AnalysisTime, hs.backend),
		record.HealthScore, record.HealthGrade, record.RiskLevel,
		record.MaintainerScore, record.TakeoverScore, record.SlopsquatScore, record.LicenseScore,
		record.BusFactor, record.LastCommitDaysAgo, record.CurrentLicense, record.AlertCount,
		record.IsDirect, record.Fallback,
	)
	if err != nil {
		return fmt.Errorf("failed to insert package score for %s: %w", record.PackageName, err)
	}
	return nil
}

// Close closes the underlying connection.
func (hs *HistoryStoreImpl) Close() error {
	if hs.db != nil {
		return hs.db.Close()
	}
	return nil
}

// GetStatus returns status information about the history store.
func (hs *HistoryStoreImpl) GetStatus() (schema.HistoryStatus, error) {
	status := schema.HistoryStatus{
		Backend:    string(hs.backend),
		Connected:  hs.db != nil,
		TableSizes: make(map[string]int64),
	}
	if hs.db == nil {
		return status, nil
	}

	for _, table := range historyTables {
		var count int64
		countQuery := fmt.Sprintf("SELECT COUNT(*) FROM %s", quoteTableName(table, hs.backend))
		if err := hs.db.QueryRow(countQuery).Scan(&count); err != nil {
			return status, fmt.Errorf("failed to get count for table %s: %w", table, err)
		}
		status.TableSizes[table] = count
	}
	status.TotalRuns = int(status.TableSizes[scanRunsTable])
	status.TotalPackageScores = int(status.TableSizes[packageScoresTable])
	if status.TotalRuns == 0 {
		return status, nil
	}

	quoted := quoteTableName(scanRunsTable, hs.backend)
	row := hs.db.QueryRow(fmt.Sprintf("SELECT run_id, start_time FROM %s ORDER BY start_time DESC LIMIT 1", quoted))
	lastRunID, lastRunTime, err := hs.scanIDAndTime(row)
	if err != nil {
		return status, fmt.Errorf("failed to get last run info: %w", err)
	}
	status.LastRunID = lastRunID
	status.LastRunTime = lastRunTime

	oldest, err := hs.scanTime(hs.db.QueryRow(fmt.Sprintf("SELECT start_time FROM %s ORDER BY start_time ASC LIMIT 1", quoted)))
	if err != nil {
		return status, fmt.Errorf("failed to get oldest run time: %w", err)
	}
	status.OldestRunTime = oldest
	return status, nil
}

// GetAllScanRuns retrieves all scan runs ordered by start time.
func (hs *HistoryStoreImpl) GetAllScanRuns() ([]schema.ScanRunRecord, error) {
	if hs.db == nil {
		return nil, nil
	}

	query := fmt.Sprintf(`SELECT run_id, target, start_time, end_time, run_duration_ms, total_packages,
		overall_score, overall_grade, config_params FROM %s ORDER BY start_time, run_id`,
		quoteTableName(scanRunsTable, hs.backend))
	rows, err := hs.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query scan runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.ScanRunRecord
	for rows.Next() {
		var record schema.ScanRunRecord
		if hs.backend == schema.SQLiteBackend {
			var startStr string
			var endStr *string
			if err := rows.Scan(&record.RunID, &record.Target, &startStr, &endStr, &record.RunDurationMs,
				&record.TotalPackages, &record.OverallScore, &record.OverallGrade, &record.ConfigParams); err != nil {
				return nil, fmt.Errorf("failed to scan scan run: %w", err)
			}
			if record.StartTime, err = parseTime(startStr); err != nil {
				return nil, fmt.Errorf("failed to parse start_time: %w", err)
			}
			if endStr != nil {
				endTime, err := parseTime(*endStr)
				if err != nil {
					return nil, fmt.Errorf("failed to parse end_time: %w", err)
				}
				record.EndTime = &endTime
			}
		} else if err := rows.Scan(&record.RunID, &record.Target, &record.StartTime, &record.EndTime, &record.RunDurationMs,
			&record.TotalPackages, &record.OverallScore, &record.OverallGrade, &record.ConfigParams); err != nil {
			return nil, fmt.Errorf("failed to scan scan run: %w", err)
		}
		results = append(results, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating scan runs: %w", err)
	}
	return results, nil
}

// GetAllPackageScores retrieves all package score rows.
func (hs *HistoryStoreImpl) GetAllPackageScores() ([]schema.PackageScoreRecord, error) {
	if hs.db == nil {
		return nil, nil
	}

	query := fmt.Sprintf(`SELECT run_id, package_name, package_version, analysis_time, health_score, health_grade,
		risk_level, maintainer_score, takeover_score, slopsquat_score, license_score, bus_factor,
		last_commit_days_ago, current_license, alert_count, is_direct, fallback
		FROM %s ORDER BY run_id, package_name`, quoteTableName(packageScoresTable, hs.backend))
	rows, err := hs.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query package scores: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.PackageScoreRecord
	for rows.Next() {
		var r schema.PackageScoreRecord
		var analysisTime any = &r.AnalysisTime
		var analysisTimeStr string
		if hs.backend == schema.SQLiteBackend {
			analysisTime = &analysisTimeStr
		}
		if err := rows.Scan(&r.RunID, &r.PackageName, &r.PackageVersion, analysisTime, &r.HealthScore, &r.HealthGrade,
			&r.RiskLevel, &r.MaintainerScore, &r.TakeoverScore, &r.SlopsquatScore, &r.LicenseScore, &r.BusFactor,
			&r.LastCommitDaysAgo, &r.CurrentLicense, &r.AlertCount, &r.IsDirect, &r.Fallback); err != nil {
			return nil, fmt.Errorf("failed to scan package score: %w", err)
		}
		if hs.backend == schema.SQLiteBackend {
			if r.AnalysisTime, err = parseTime(analysisTimeStr); err != nil {
				return nil, fmt.Errorf("failed to parse analysis_time: %w", err)
			}
		}
		results = append(results, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating package scores: %w", err)
	}
	return results, nil
}

// scanTime reads a single timestamp column, handling the SQLite text format.
func (hs *HistoryStoreImpl) scanTime(row *sql.Row) (time.Time, error) {
	if hs.backend == schema.SQLiteBackend {
		var s string
		if err := row.Scan(&s); err != nil {
			return time.Time{}, err
		}
		return parseTime(s)
	}
	var t time.Time
	err := row.Scan(&t)
	return t, err
}

// scanIDAndTime reads a (run_id, timestamp) row.
func (hs *HistoryStoreImpl) scanIDAndTime(row *sql.Row) (string, time.Time, error) {
	var id string
	if hs.backend == schema.SQLiteBackend {
		var s string
		if err := row.Scan(&id, &s); err != nil {
			return "", time.Time{}, err
		}
		t, err := parseTime(s)
		return id, t, err
	}
	var t time.Time
	err := row.Scan(&id, &t)
	return id, t, err
}
