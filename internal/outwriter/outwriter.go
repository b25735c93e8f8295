// Package outwriter has output and writer logic.
package outwriter

import (
	"time"

	"github.com/huangsam/depshield/core/algo"
	"github.com/huangsam/depshield/internal/contract"
	"github.com/huangsam/depshield/schema"
)

// OutWriter provides a unified interface for all output operations.
// It encapsulates the various output formats and provides a clean API for the core logic.
type OutWriter struct{}

// NewOutWriter creates a new instance of the output writer.
func NewOutWriter() *OutWriter {
	return &OutWriter{}
}

// WriteScan prints a repository-level scan using the configured output format.
func (ow *OutWriter) WriteScan(result schema.ScanResult, cfg *contract.Config, duration time.Duration) error {
	return PrintScanResult(result, cfg, duration)
}

// WritePackage prints the detailed report of a single package.
func (ow *OutWriter) WritePackage(report schema.DependencyReport, cfg *contract.Config, duration time.Duration) error {
	return PrintPackageReport(report, cfg, duration)
}

// WriteCheck prints the outcome of a CI policy check.
func (ow *OutWriter) WriteCheck(result schema.CheckResult, cfg *contract.Config, duration time.Duration) error {
	return PrintCheckResult(result, cfg, duration)
}

// WriteAlternatives prints the curated alternatives table, optionally for a single package.
func (ow *OutWriter) WriteAlternatives(table algo.AlternativesTable, name string, cfg *contract.Config) error {
	return PrintAlternatives(table, name, cfg)
}

// WriteScoringModel prints the dimension weights and thresholds of the composite score.
func (ow *OutWriter) WriteScoringModel(weights map[schema.DimensionKey]float64, cfg *contract.Config) error {
	return PrintScoringModel(weights, cfg)
}
