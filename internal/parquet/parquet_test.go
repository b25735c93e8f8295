package parquet

import (
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/huangsam/depshield/schema"
	"github.com/parquet-go/parquet-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readAll[T any](t *testing.T, path string) []T {
	t.Helper()
	file, err := os.Open(path)
	require.NoError(t, err)
	defer func() { _ = file.Close() }()

	reader := parquet.NewGenericReader[T](file)
	defer func() { _ = reader.Close() }()

	rows := make([]T, reader.NumRows())
	n, err := reader.Read(rows)
	if err != nil && err != io.EOF {
		require.NoError(t, err)
	}
	return rows[:n]
}

func TestStructTags(t *testing.T) {
	tests := []struct {
		name    string
		model   any
		columns []string
	}{
		{"scan runs", new(ScanRun), []string{
			"run_id", "target", "start_time", "end_time", "run_duration_ms",
			"total_packages", "overall_score", "overall_grade", "config_params",
		}},
		{"package scores", new(PackageScore), []string{
			"run_id", "package_name", "package_version", "analysis_time", "health_score",
			"health_grade", "risk_level", "maintainer_score", "takeover_score", "slopsquat_score",
			"license_score", "bus_factor", "last_commit_days_ago", "current_license",
			"alert_count", "is_direct", "fallback",
		}},
		{"dependency rows", new(DependencyRow), []string{
			"rank", "name", "version", "health_score", "health_grade", "risk_level", "license",
			"weekly_downloads", "bus_factor", "takeover_score", "slopsquat_score", "alert_count",
			"is_direct", "fallback",
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := parquet.SchemaOf(tt.model)
			require.NotNil(t, s)
			for _, col := range tt.columns {
				_, ok := s.Lookup(col)
				assert.True(t, ok, "column %s should exist", col)
			}
		})
	}
}

func TestWriteScanRunsParquet(t *testing.T) {
	outputPath := filepath.Join(t.TempDir(), "scan_runs.parquet")

	now := time.Date(2026, 3, 1, 12, 0, 0, 123456789, time.UTC)
	end := now.Add(4 * time.Second)
	duration := int32(4000)
	score := int32(72)
	grade := "C"
	config := `{"concurrency":5}`

	data := []ScanRun{
		{RunID: "run-1", Target: "package.json", StartTime: now, EndTime: &end, RunDurationMs: &duration,
			TotalPackages: 12, OverallScore: &score, OverallGrade: &grade, ConfigParams: &config},
		{RunID: "run-2", Target: "express", StartTime: now},
	}
	require.NoError(t, WriteScanRunsParquet(data, outputPath))

	rows := readAll[ScanRun](t, outputPath)
	require.Len(t, rows, 2)

	assert.Equal(t, "run-1", rows[0].RunID)
	assert.Equal(t, int32(12), rows[0].TotalPackages)
	assert.WithinDuration(t, now, rows[0].StartTime, time.Nanosecond)
	require.NotNil(t, rows[0].EndTime)
	assert.WithinDuration(t, end, *rows[0].EndTime, time.Nanosecond)
	require.NotNil(t, rows[0].OverallGrade)
	assert.Equal(t, "C", *rows[0].OverallGrade)

	assert.Nil(t, rows[1].EndTime)
	assert.Nil(t, rows[1].RunDurationMs)
	assert.Nil(t, rows[1].OverallScore)
	assert.Nil(t, rows[1].ConfigParams)
}

func TestWritePackageScoresParquet(t *testing.T) {
	outputPath := filepath.Join(t.TempDir(), "package_scores.parquet")
	records := []schema.PackageScoreRecord{
		{RunID: "run-1", PackageName: "lodash", PackageVersion: "4.17.21", AnalysisTime: time.Now().UTC(),
			HealthScore: 81, HealthGrade: "B", RiskLevel: "low", BusFactor: 1, LastCommitDaysAgo: 400,
			CurrentLicense: "MIT", AlertCount: 2, IsDirect: true},
		{RunID: "run-1", PackageName: "ghost", HealthScore: 50, HealthGrade: "D", RiskLevel: "medium", Fallback: true},
	}

	require.NoError(t, WritePackageScoresParquet(ConvertPackageScoreRecords(records), outputPath))

	rows := readAll[PackageScore](t, outputPath)
	require.Len(t, rows, 2)
	assert.Equal(t, "lodash", rows[0].PackageName)
	assert.Equal(t, int32(81), rows[0].HealthScore)
	assert.True(t, rows[0].IsDirect)
	assert.True(t, rows[1].Fallback)
}

func TestConvertScanRunRecords(t *testing.T) {
	score := int32(90)
	records := []schema.ScanRunRecord{{RunID: "r", Target: "t", TotalPackages: 3, OverallScore: &score}}
	converted := ConvertScanRunRecords(records)
	require.Len(t, converted, 1)
	assert.Equal(t, "r", converted[0].RunID)
	assert.Equal(t, &score, converted[0].OverallScore)
}

func TestConvertDependencyReports(t *testing.T) {
	reports := []schema.DependencyReport{
		{Name: "left-pad", Version: "1.3.0", IsDirect: true, Metadata: schema.PackageSummary{License: "WTFPL", WeeklyDownloads: 1_000_000},
			AnalysisBundle: schema.AnalysisBundle{
				Health:           schema.CompositeHealth{Score: 42, Grade: schema.GradeD, RiskLevel: schema.RiskMedium},
				MaintainerHealth: schema.MaintainerHealthResult{BusFactor: 1},
				Alerts:           []schema.RiskAlert{{ID: "a"}, {ID: "b"}},
			}},
		{Name: "ghost", Fallback: true},
	}

	rows := ConvertDependencyReports(reports)
	require.Len(t, rows, 2)
	assert.Equal(t, int32(1), rows[0].Rank)
	assert.Equal(t, int32(42), rows[0].HealthScore)
	assert.Equal(t, "D", rows[0].HealthGrade)
	assert.Equal(t, int64(1_000_000), rows[0].WeeklyDownloads)
	assert.Equal(t, int32(2), rows[0].AlertCount)
	assert.Equal(t, int32(2), rows[1].Rank)
	assert.True(t, rows[1].Fallback)

	outputPath := filepath.Join(t.TempDir(), "deps.parquet")
	require.NoError(t, WriteDependenciesParquet(rows, outputPath))
	assert.Len(t, readAll[DependencyRow](t, outputPath), 2)
}

func TestWriteParquetEdgeCases(t *testing.T) {
	t.Run("empty data keeps schema", func(t *testing.T) {
		outputPath := filepath.Join(t.TempDir(), "empty.parquet")
		require.NoError(t, WriteScanRunsParquet([]ScanRun{}, outputPath))
		info, err := os.Stat(outputPath)
		require.NoError(t, err)
		assert.Greater(t, info.Size(), int64(0))
	})

	t.Run("invalid path", func(t *testing.T) {
		err := WritePackageScoresParquet(nil, "/nonexistent/directory/output.parquet")
		assert.Error(t, err)
	})
}
