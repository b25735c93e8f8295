package iocache

import (
	"errors"
	"fmt"

	"github.com/huangsam/depshield/internal/parquet"
)

// ExecuteHistoryExport exports the scan history to Parquet files named
// <outputFile>.scan_runs.parquet and <outputFile>.package_scores.parquet.
func ExecuteHistoryExport(outputFile string) error {
	if outputFile == "" {
		return errors.New("--output-file is required for export command")
	}

	store := Manager.GetHistoryStore()
	if store == nil {
		return errors.New("history store is not initialized")
	}

	status, err := store.GetStatus()
	if err != nil {
		return fmt.Errorf("failed to get history status: %w", err)
	}
	if status.TotalRuns == 0 {
		return errors.New("no scan history found to export")
	}

	fmt.Printf("Exporting data from %s backend...\n", status.Backend)
	fmt.Printf("Total scan runs: %d\n", status.TotalRuns)
	fmt.Printf("Total package records: %d\n", status.TotalPackageScores)

	runs, err := store.GetAllScanRuns()
	if err != nil {
		return fmt.Errorf("failed to retrieve scan runs: %w", err)
	}
	scores, err := store.GetAllPackageScores()
	if err != nil {
		return fmt.Errorf("failed to retrieve package scores: %w", err)
	}

	runsFile := outputFile + ".scan_runs.parquet"
	if err := parquet.WriteScanRunsParquet(parquet.ConvertScanRunRecords(runs), runsFile); err != nil {
		return fmt.Errorf("failed to write scan runs: %w", err)
	}
	fmt.Printf("Exported %d scan runs to: %s\n", len(runs), runsFile)

	scoresFile := outputFile + ".package_scores.parquet"
	if err := parquet.WritePackageScoresParquet(parquet.ConvertPackageScoreRecords(scores), scoresFile); err != nil {
		return fmt.Errorf("failed to write package scores: %w", err)
	}
	fmt.Printf("Exported %d package score records to: %s\n", len(scores), scoresFile)

	return nil
}
