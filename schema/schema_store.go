package schema

import "time"

// ScanRunRecord represents a row from the depshield_scan_runs table.
type ScanRunRecord struct {
	RunID         string
	Target        string
	StartTime     time.Time
	EndTime       *time.Time
	RunDurationMs *int32
	TotalPackages int32
	OverallScore  *int32
	OverallGrade  *string
	ConfigParams  *string
}

// PackageScoreRecord represents a row from the depshield_package_scores table.
type PackageScoreRecord struct {
	RunID             string
	PackageName       string
	PackageVersion    string
	AnalysisTime      time.Time
	HealthScore       int32
	HealthGrade       string
	RiskLevel         string
	MaintainerScore   int32
	TakeoverScore     int32
	SlopsquatScore    int32
	LicenseScore      int32
	BusFactor         int32
	LastCommitDaysAgo int32
	CurrentLicense    string
	AlertCount        int32
	IsDirect          bool
	Fallback          bool
}
