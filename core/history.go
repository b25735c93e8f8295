package core

import (
	"context"
	"fmt"
	"time"

	"github.com/huangsam/depshield/internal/contract"
	"github.com/huangsam/depshield/schema"
)

// scanTracker records one scan run in the history store. A nil tracker is a no-op.
type scanTracker struct {
	store contract.HistoryStore
	runID string
}

// beginScanTracking opens a history run when a history store is configured.
// The returned context carries the run ID.
func beginScanTracking(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager, target string) (context.Context, *scanTracker) {
	if mgr == nil {
		return ctx, nil
	}
	store := mgr.GetHistoryStore()
	if store == nil {
		return ctx, nil
	}

	configParams := map[string]any{
		"concurrency": cfg.Concurrency,
		"timeout":     cfg.Timeout.String(),
		"include_dev": cfg.IncludeDev,
		"weights":     cfg.Weights,
	}
	runID, err := store.BeginScan(target, time.Now(), configParams)
	if err != nil {
		contract.LogWarn("Scan tracking initialization failed", err)
		return ctx, nil
	}
	return withRunID(ctx, runID), &scanTracker{store: store, runID: runID}
}

// RunID returns the tracked run ID, or "" when untracked.
func (t *scanTracker) RunID() string {
	if t == nil {
		return ""
	}
	return t.runID
}

// recordReports stores one score row per report.
func (t *scanTracker) recordReports(reports []schema.DependencyReport, at time.Time) {
	if t == nil {
		return
	}
	for _, r := range reports {
		if err := t.store.RecordPackageScore(t.runID, ToPackageScoreRecord(t.runID, r, at)); err != nil {
			logTrackingError("RecordPackageScore", r.Name, err)
		}
	}
}

// end finalizes the run with the scan outcome.
func (t *scanTracker) end(result schema.ScanResult) {
	if t == nil {
		return
	}
	if err := t.store.EndScan(t.runID, time.Now(), result.TotalDependencies, result.OverallScore, result.OverallGrade); err != nil {
		contract.LogWarn("Failed to finalize scan tracking", err)
	}
}

// ToPackageScoreRecord flattens a report into a history row.
func ToPackageScoreRecord(runID string, r schema.DependencyReport, at time.Time) schema.PackageScoreRecord {
	return schema.PackageScoreRecord{
		RunID:             runID,
		PackageName:       r.Name,
		PackageVersion:    r.Version,
		AnalysisTime:      at,
		HealthScore:       int32(r.Health.Score),
		HealthGrade:       string(r.Health.Grade),
		RiskLevel:         string(r.Health.RiskLevel),
		MaintainerScore:   int32(r.MaintainerHealth.Score),
		TakeoverScore:     int32(r.TakeoverRisk.Score),
		SlopsquatScore:    int32(r.Slopsquatting.Score),
		LicenseScore:      int32(r.LicenseMutation.Score),
		BusFactor:         int32(r.MaintainerHealth.BusFactor),
		LastCommitDaysAgo: int32(min(r.MaintainerHealth.LastCommitDaysAgo, schema.DaysUnknown)),
		CurrentLicense:    r.LicenseMutation.CurrentLicense,
		AlertCount:        int32(len(r.Alerts)),
		IsDirect:          r.IsDirect,
		Fallback:          r.Fallback,
	}
}

// logTrackingError logs history tracking errors without disrupting the scan.
func logTrackingError(operation, name string, err error) {
	contract.LogWarn(fmt.Sprintf("Scan tracking failed for %s on %s", operation, name), err)
}
