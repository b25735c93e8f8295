package iocache

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/huangsam/depshield/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testNow() time.Time {
	return time.Date(2026, 6, 1, 8, 30, 0, 0, time.UTC)
}

func TestExecuteHistoryExport(t *testing.T) {
	t.Run("requires output file", func(t *testing.T) {
		assert.ErrorContains(t, ExecuteHistoryExport(""), "--output-file is required")
	})

	t.Run("requires store", func(t *testing.T) {
		resetGlobals()
		assert.ErrorContains(t, ExecuteHistoryExport("out"), "not initialized")
	})

	t.Run("empty history", func(t *testing.T) {
		resetGlobals()
		dir := t.TempDir()
		require.NoError(t, InitCaching("", "", schema.SQLiteBackend, filepath.Join(dir, "h.db")))
		defer CloseCaching()

		assert.ErrorContains(t, ExecuteHistoryExport(filepath.Join(dir, "out")), "no scan history")
	})

	t.Run("writes both files", func(t *testing.T) {
		resetGlobals()
		dir := t.TempDir()
		require.NoError(t, InitCaching("", "", schema.SQLiteBackend, filepath.Join(dir, "h.db")))
		defer CloseCaching()

		store := Manager.GetHistoryStore()
		runID, err := store.BeginScan("express", testNow(), nil)
		require.NoError(t, err)
		require.NoError(t, store.RecordPackageScore(runID, schema.PackageScoreRecord{
			PackageName: "express", PackageVersion: "4.21.0", AnalysisTime: testNow(),
			HealthScore: 90, HealthGrade: "A", RiskLevel: "low",
		}))
		require.NoError(t, store.EndScan(runID, testNow().Add(time.Second), 1, 90, schema.GradeA))

		out := filepath.Join(dir, "history")
		require.NoError(t, ExecuteHistoryExport(out))

		for _, suffix := range []string{".scan_runs.parquet", ".package_scores.parquet"} {
			info, err := os.Stat(out + suffix)
			require.NoError(t, err)
			assert.Positive(t, info.Size())
		}
	})
}
