// Package parquet provides data structures and functions for exporting depshield
// scan data to Parquet files using github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"os"
	"time"

	"github.com/huangsam/depshield/schema"
	"github.com/parquet-go/parquet-go"
)

// ScanRun represents a single scan with its outcome.
// This struct maps to the depshield_scan_runs database table.
type ScanRun struct {
	// RunID is the UUID of the scan run
	RunID string `parquet:"run_id,snappy"`

	// Target is the package.json path, package name or repository that was scanned
	Target string `parquet:"target,snappy"`

	// StartTime is when the scan began
	StartTime time.Time `parquet:"start_time,snappy"`

	// EndTime is when the scan completed (nullable)
	EndTime *time.Time `parquet:"end_time,optional,snappy"`

	RunDurationMs *int32 `parquet:"run_duration_ms,optional,snappy"`
	TotalPackages int32  `parquet:"total_packages,snappy"`

	// OverallScore and OverallGrade are unset for scans that did not finish
	OverallScore *int32  `parquet:"overall_score,optional,snappy"`
	OverallGrade *string `parquet:"overall_grade,optional,snappy"`

	// ConfigParams contains the JSON-encoded configuration parameters (nullable)
	ConfigParams *string `parquet:"config_params,optional,snappy"`
}

// PackageScore represents the scores of one package within a scan run.
// This struct maps to the depshield_package_scores database table.
type PackageScore struct {
	RunID             string    `parquet:"run_id,snappy"`
	PackageName       string    `parquet:"package_name,snappy"`
	PackageVersion    string    `parquet:"package_version,snappy"`
	AnalysisTime      time.Time `parquet:"analysis_time,snappy"`
	HealthScore       int32     `parquet:"health_score,snappy"`
	HealthGrade       string    `parquet:"health_grade,snappy"`
	RiskLevel         string    `parquet:"risk_level,snappy"`
	MaintainerScore   int32     `parquet:"maintainer_score,snappy"`
	TakeoverScore     int32     `parquet:"takeover_score,snappy"`
	SlopsquatScore    int32     `parquet:"slopsquat_score,snappy"`
	LicenseScore      int32     `parquet:"license_score,snappy"`
	BusFactor         int32     `parquet:"bus_factor,snappy"`
	LastCommitDaysAgo int32     `parquet:"last_commit_days_ago,snappy"`
	CurrentLicense    string    `parquet:"current_license,snappy"`
	AlertCount        int32     `parquet:"alert_count,snappy"`
	IsDirect          bool      `parquet:"is_direct,snappy"`
	Fallback          bool      `parquet:"fallback,snappy"`
}

// DependencyRow is the flat Parquet view of one dependency of a live scan.
type DependencyRow struct {
	Rank            int32  `parquet:"rank,snappy"`
	Name            string `parquet:"name,snappy"`
	Version         string `parquet:"version,snappy"`
	HealthScore     int32  `parquet:"health_score,snappy"`
	HealthGrade     string `parquet:"health_grade,snappy"`
	RiskLevel       string `parquet:"risk_level,snappy"`
	License         string `parquet:"license,snappy"`
	WeeklyDownloads int64  `parquet:"weekly_downloads,snappy"`
	BusFactor       int32  `parquet:"bus_factor,snappy"`
	TakeoverScore   int32  `parquet:"takeover_score,snappy"`
	SlopsquatScore  int32  `parquet:"slopsquat_score,snappy"`
	AlertCount      int32  `parquet:"alert_count,snappy"`
	IsDirect        bool   `parquet:"is_direct,snappy"`
	Fallback        bool   `parquet:"fallback,snappy"`
}

// writeRows writes rows to a new Parquet file whose schema is derived from T.
func writeRows[T any](data []T, outputPath string) error {
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

// WriteScanRunsParquet writes scan runs to a Parquet file.
func WriteScanRunsParquet(data []ScanRun, outputPath string) error {
	return writeRows(data, outputPath)
}

// WritePackageScoresParquet writes package scores to a Parquet file.
func WritePackageScoresParquet(data []PackageScore, outputPath string) error {
	return writeRows(data, outputPath)
}

// WriteDependenciesParquet writes the dependency rows of a scan to a Parquet file.
func WriteDependenciesParquet(data []DependencyRow, outputPath string) error {
	return writeRows(data, outputPath)
}

// ConvertScanRunRecords converts schema.ScanRunRecord to ScanRun for Parquet export.
func ConvertScanRunRecords(records []schema.ScanRunRecord) []ScanRun {
	result := make([]ScanRun, len(records))
	for i, record := range records {
		result[i] = ScanRun{
			RunID:         record.RunID,
			Target:        record.Target,
			StartTime:     record.StartTime,
			EndTime:       record.EndTime,
			RunDurationMs: record.RunDurationMs,
			TotalPackages: record.TotalPackages,
			OverallScore:  record.OverallScore,
			OverallGrade:  record.OverallGrade,
			ConfigParams:  record.ConfigParams,
		}
	}
	return result
}

// ConvertPackageScoreRecords converts schema.PackageScoreRecord to PackageScore for Parquet export.
func ConvertPackageScoreRecords(records []schema.PackageScoreRecord) []PackageScore {
	result := make([]PackageScore, len(records))
	for i, r := range records {
		result[i] = PackageScore(r)
	}
	return result
}

// ConvertDependencyReports flattens ranked dependency reports into rows.
func ConvertDependencyReports(reports []schema.DependencyReport) []DependencyRow {
	result := make([]DependencyRow, len(reports))
	for i, r := range reports {
		result[i] = DependencyRow{
			Rank:            int32(i + 1),
			Name:            r.Name,
			Version:         r.Version,
			HealthScore:     int32(r.Health.Score),
			HealthGrade:     string(r.Health.Grade),
			RiskLevel:       string(r.Health.RiskLevel),
			License:         r.Metadata.License,
			WeeklyDownloads: int64(r.Metadata.WeeklyDownloads),
			BusFactor:       int32(r.MaintainerHealth.BusFactor),
			TakeoverScore:   int32(r.TakeoverRisk.Score),
			SlopsquatScore:  int32(r.Slopsquatting.Score),
			AlertCount:      int32(len(r.Alerts)),
			IsDirect:        r.IsDirect,
			Fallback:        r.Fallback,
		}
	}
	return result
}
