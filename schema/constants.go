package schema

import "math"

// Custom string types for type safety.
type (
	// OutputMode represents the format of the output.
	OutputMode string

	// DatabaseBackend represents the database backend for caching and history.
	DatabaseBackend string

	// Severity represents how urgent a risk alert is.
	Severity string

	// RiskLevel represents the overall risk bucket of a package.
	RiskLevel string

	// Grade represents the letter grade of a package.
	Grade string

	// AlertType represents the category of a risk alert.
	AlertType string

	// Effort represents the estimated cost of a migration.
	Effort string

	// DimensionKey represents one dimension of the composite health score.
	DimensionKey string

	// ScanStep identifies a stage of the scan pipeline for progress reporting.
	ScanStep string
)

// DaysUnknown stands in for "infinitely long ago" when no timestamp exists.
const DaysUnknown = math.MaxInt32

// All output modes supported.
const (
	CSVOut     OutputMode = "csv"
	TextOut    OutputMode = "text" // default
	JSONOut    OutputMode = "json"
	ParquetOut OutputMode = "parquet"
)

// All database backends supported.
const (
	SQLiteBackend     DatabaseBackend = "sqlite" // default
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
	NoneBackend       DatabaseBackend = "none"
)

// Alert severities, from most to least urgent.
const (
	SeverityCritical Severity = "critical"
	SeverityHigh     Severity = "high"
	SeverityMedium   Severity = "medium"
	SeverityLow      Severity = "low"
	SeverityInfo     Severity = "info"
)

// Risk levels, from most to least risky.
const (
	RiskCritical RiskLevel = "critical"
	RiskHigh     RiskLevel = "high"
	RiskMedium   RiskLevel = "medium"
	RiskLow      RiskLevel = "low"
	RiskInfo     RiskLevel = "info"
)

// Letter grades.
const (
	GradeA Grade = "A"
	GradeB Grade = "B"
	GradeC Grade = "C"
	GradeD Grade = "D"
	GradeF Grade = "F"
)

// Alert types.
const (
	AlertMaintainerBurnout AlertType = "maintainer_burnout"
	AlertBusFactor         AlertType = "bus_factor"
	AlertTakeoverRisk      AlertType = "takeover_risk"
	AlertSlopsquatting     AlertType = "slopsquatting"
	AlertLicenseChange     AlertType = "license_change"
	AlertStalePackage      AlertType = "stale_package"
	AlertNoRepository      AlertType = "no_repository"
	AlertDownloadAnomaly   AlertType = "download_anomaly"
	AlertDeprecated        AlertType = "deprecated"
	AlertSingleMaintainer  AlertType = "single_maintainer"
)

// Migration effort estimates.
const (
	EffortLow    Effort = "low"
	EffortMedium Effort = "medium"
	EffortHigh   Effort = "high"
)

// Dimensions of the composite health score.
const (
	DimensionMaintainer DimensionKey = "maintainer"
	DimensionSecurity   DimensionKey = "security"
	DimensionCommunity  DimensionKey = "community"
	DimensionFreshness  DimensionKey = "freshness"
)

// Scan pipeline steps in the order they are reported.
const (
	StepParse       ScanStep = "parse"
	StepMetadata    ScanStep = "metadata"
	StepMaintainers ScanStep = "maintainers"
	StepTakeover    ScanStep = "takeover"
	StepSlopsquat   ScanStep = "slopsquat"
	StepLicense     ScanStep = "license"
	StepReport      ScanStep = "report"
)

// AllDimensions lists the dimensions in display order.
var AllDimensions = []DimensionKey{DimensionMaintainer, DimensionSecurity, DimensionCommunity, DimensionFreshness}

// AllScanSteps lists the pipeline steps in order.
var AllScanSteps = []ScanStep{StepParse, StepMetadata, StepMaintainers, StepTakeover, StepSlopsquat, StepLicense, StepReport}

// SeverityOrder lists severities from most to least urgent.
var SeverityOrder = []Severity{SeverityCritical, SeverityHigh, SeverityMedium, SeverityLow, SeverityInfo}

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	CSVOut:     {},
	TextOut:    {},
	JSONOut:    {},
	ParquetOut: {},
}

// ValidDatabaseBackends lists all valid database backends.
var ValidDatabaseBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	NoneBackend:       {},
}

// ValidSeverities lists all valid severities.
var ValidSeverities = map[Severity]struct{}{
	SeverityCritical: {},
	SeverityHigh:     {},
	SeverityMedium:   {},
	SeverityLow:      {},
	SeverityInfo:     {},
}

// GetDefaultWeights returns the default weight map for the composite score.
func GetDefaultWeights() map[DimensionKey]float64 {
	return map[DimensionKey]float64{
		DimensionMaintainer: 0.30,
		DimensionSecurity:   0.25,
		DimensionCommunity:  0.25,
		DimensionFreshness:  0.20,
	}
}

// SeverityRank returns the position of a severity in SeverityOrder.
// Unknown severities sort after info.
func SeverityRank(s Severity) int {
	for i, sev := range SeverityOrder {
		if sev == s {
			return i
		}
	}
	return len(SeverityOrder)
}

// AtOrAbove reports whether s is at least as urgent as threshold.
func (s Severity) AtOrAbove(threshold Severity) bool {
	return SeverityRank(s) <= SeverityRank(threshold)
}
