package schema

import "time"

// NormalizedMetadata is the clean view of a package produced by the normalizer.
type NormalizedMetadata struct {
	Name          string              `json:"name"`
	LatestVersion string              `json:"latestVersion"`
	Description   string              `json:"description"`
	Homepage      string              `json:"homepage"`
	License       string              `json:"license"`
	RepositoryURL string              `json:"repositoryUrl"`
	Maintainers   []Person            `json:"maintainers"`
	CreatedAt     time.Time           `json:"createdAt"`
	ModifiedAt    time.Time           `json:"modifiedAt"`
	Versions      []NormalizedVersion `json:"versions"`
	Deprecated    string              `json:"deprecated,omitempty"`
	Dependencies  map[string]string   `json:"dependencies,omitempty"`
	// HasAnyRepository is true when the root or any version declares a repository.
	HasAnyRepository bool `json:"hasAnyRepository"`
}

// NormalizedVersion is one entry of the chronologically sorted version history.
type NormalizedVersion struct {
	Version       string   `json:"version"`
	License       string   `json:"license"`
	Maintainers   []Person `json:"maintainers"`
	Publisher     string   `json:"publisher"`
	RepositoryURL string   `json:"repositoryUrl"`
	PublishedAtMs int64    `json:"publishedAtMs"`
}

// MaintainerHealthResult scores maintenance activity and bus factor.
type MaintainerHealthResult struct {
	Score                 int      `json:"score"`
	LastCommitDaysAgo     int      `json:"lastCommitDaysAgo"`
	CommitFrequency       float64  `json:"commitFrequency"`
	IssueResponseTimeDays int      `json:"issueResponseTimeDays"`
	BusFactor             int      `json:"busFactor"`
	ActiveMaintainers     int      `json:"activeMaintainers"`
	TotalMaintainers      int      `json:"totalMaintainers"`
	Signals               []string `json:"signals"`

	// BusFactorUnknown and OpenIssuesUnknown mark values that had no VCS data
	// behind them. A zero BusFactor is only meaningful when BusFactorUnknown is false.
	BusFactorUnknown  bool `json:"busFactorUnknown,omitempty"`
	OpenIssuesUnknown bool `json:"openIssuesUnknown,omitempty"`
}

// MaintainerProfile describes a suspicious newly added maintainer.
// AccountAgeDays is a rough proxy; the registry does not expose account age.
type MaintainerProfile struct {
	Name           string `json:"name"`
	Email          string `json:"email"`
	PackageCount   int    `json:"npmPackageCount"`
	AccountAgeDays int    `json:"npmAccountAge"`
	IsNew          bool   `json:"isNewMaintainer"`
}

// TakeoverRiskResult scores ownership-change patterns across releases.
type TakeoverRiskResult struct {
	Score                 int                 `json:"score"`
	NewMaintainerAdded    bool                `json:"newMaintainerAdded"`
	MaintainerRemoved     bool                `json:"maintainerRemoved"`
	PublisherChanged      bool                `json:"publisherChanged"`
	RepositoryURLChanged  bool                `json:"repositoryUrlChanged"`
	SuspiciousMaintainers []MaintainerProfile `json:"suspiciousMaintainers"`
	Signals               []string            `json:"signals"`
}

// SimilarPackage is a popular package whose name is close to the candidate.
type SimilarPackage struct {
	Name      string `json:"name"`
	Distance  int    `json:"distance"`
	Downloads int    `json:"downloads"`
}

// SlopsquattingResult scores the likelihood of a fabricated or typosquatted name.
type SlopsquattingResult struct {
	Score           int              `json:"score"`
	IsSuspected     bool             `json:"isSuspected"`
	SimilarPackages []SimilarPackage `json:"similarPackages"`
	PackageAge      int              `json:"packageAge"`
	WeeklyDownloads int              `json:"weeklyDownloads"`
	HasRepository   bool             `json:"hasRepository"`
	SingleVersion   bool             `json:"singleVersion"`
	Signals         []string         `json:"signals"`
}

// LicenseEntry is the license of one historical version.
type LicenseEntry struct {
	Version string `json:"version"`
	License string `json:"license"`
}

// LicenseMutationResult scores license drift across the version history.
type LicenseMutationResult struct {
	Score            int            `json:"score"`
	CurrentLicense   string         `json:"currentLicense"`
	PreviousLicenses []LicenseEntry `json:"previousLicenses"`
	HasChanged       bool           `json:"hasChanged"`
	IsRestrictive    bool           `json:"isRestrictive"`
	Signals          []string       `json:"signals"`
}

// CompositeHealth is the weighted overall health of a package.
type CompositeHealth struct {
	Score      int                      `json:"score"`
	Grade      Grade                    `json:"grade"`
	RiskLevel  RiskLevel                `json:"riskLevel"`
	Dimensions map[DimensionKey]float64 `json:"dimensions,omitempty"`
}

// MigrationSuggestion is a curated alternative for a weak package.
type MigrationSuggestion struct {
	From            string `json:"from"`
	To              string `json:"to"`
	ToDescription   string `json:"toDescription"`
	WeeklyDownloads int    `json:"weeklyDownloads"`
	HealthGrade     Grade  `json:"healthGrade"`
	Effort          Effort `json:"effort"`
	Reason          string `json:"reason"`
}

// Alternative is one entry of the curated alternatives table.
type Alternative struct {
	Name            string `json:"name" yaml:"name"`
	Description     string `json:"description" yaml:"description"`
	WeeklyDownloads int    `json:"weeklyDownloads" yaml:"weekly_downloads"`
	HealthGrade     Grade  `json:"healthGrade" yaml:"health_grade"`
	Effort          Effort `json:"effort" yaml:"effort"`
	Reason          string `json:"reason" yaml:"reason"`
}

// RiskAlert is a severity-tagged, evidence-carrying finding.
type RiskAlert struct {
	ID             string    `json:"id"`
	Type           AlertType `json:"type"`
	Severity       Severity  `json:"severity"`
	Title          string    `json:"title"`
	Description    string    `json:"description"`
	PackageName    string    `json:"packageName"`
	Evidence       string    `json:"evidence"`
	Recommendation string    `json:"recommendation,omitempty"`
}

// AnalysisBundle is everything the engine derives for one package.
type AnalysisBundle struct {
	MaintainerHealth     MaintainerHealthResult `json:"maintainerHealth"`
	TakeoverRisk         TakeoverRiskResult     `json:"takeoverRisk"`
	Slopsquatting        SlopsquattingResult    `json:"slopsquatting"`
	LicenseMutation      LicenseMutationResult  `json:"licenseMutation"`
	Health               CompositeHealth        `json:"health"`
	MigrationSuggestions []MigrationSuggestion  `json:"migrationSuggestions"`
	Alerts               []RiskAlert            `json:"alerts"`
}
