package schema

import "time"

// PackageSummary holds presentation facts about a scanned package.
type PackageSummary struct {
	Name            string   `json:"name"`
	Version         string   `json:"version"`
	Description     string   `json:"description"`
	License         string   `json:"license"`
	Homepage        string   `json:"homepage,omitempty"`
	Repository      string   `json:"repository,omitempty"`
	WeeklyDownloads int      `json:"weeklyDownloads"`
	LastPublish     string   `json:"lastPublish"`
	CreatedAt       string   `json:"createdAt"`
	Maintainers     []Person `json:"maintainers"`
	DependentsCount int      `json:"dependentsCount"`
	StarsCount      int      `json:"starsCount"`
}

// DependencyReport is the per-package node of a scan.
type DependencyReport struct {
	Name             string         `json:"name"`
	Version          string         `json:"version"`
	RequestedVersion string         `json:"requestedVersion,omitempty"`
	IsDirect         bool           `json:"isDirectDependency"`
	DependencyCount  int            `json:"dependencyCount"`
	Fallback         bool           `json:"fallback,omitempty"`
	Metadata         PackageSummary `json:"metadata"`
	AnalysisBundle
}

// GraphNode is a node of the dependency graph.
type GraphNode struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	HealthScore     int       `json:"healthScore"`
	HealthGrade     Grade     `json:"healthGrade"`
	RiskLevel       RiskLevel `json:"riskLevel"`
	AlertCount      int       `json:"alertCount"`
	IsDirect        bool      `json:"isDirectDependency"`
	WeeklyDownloads int       `json:"weeklyDownloads"`
	Val             float64   `json:"val"`
	Color           string    `json:"color"`
}

// GraphLink is an edge of the dependency graph.
type GraphLink struct {
	Source string `json:"source"`
	Target string `json:"target"`
}

// GraphData is the dependency graph of a scan.
type GraphData struct {
	Nodes []GraphNode `json:"nodes"`
	Links []GraphLink `json:"links"`
}

// ScanResult is the aggregated outcome of a repository-level scan.
type ScanResult struct {
	ScanID            string             `json:"scanId"`
	RepoName          string             `json:"repoName"`
	ScannedAt         time.Time          `json:"scannedAt"`
	OverallGrade      Grade              `json:"overallGrade"`
	OverallScore      int                `json:"overallScore"`
	TotalDependencies int                `json:"totalDependencies"`
	DirectDeps        int                `json:"directDependencies"`
	CriticalAlerts    int                `json:"criticalAlerts"`
	HighAlerts        int                `json:"highAlerts"`
	MediumAlerts      int                `json:"mediumAlerts"`
	LowAlerts         int                `json:"lowAlerts"`
	BusFactorWarnings int                `json:"busFactorWarnings"`
	Partial           bool               `json:"partial,omitempty"`
	Dependencies      []DependencyReport `json:"dependencies"`
	Alerts            []RiskAlert        `json:"alerts"`
	GraphData         GraphData          `json:"graphData"`
}

// ScanProgress is emitted after each completed batch of a scan.
type ScanProgress struct {
	Step              ScanStep `json:"step"`
	PackagesProcessed int      `json:"packagesProcessed"`
	TotalPackages     int      `json:"totalPackages"`
}

// RiskColors maps risk levels to graph colors.
var RiskColors = map[RiskLevel]string{
	RiskCritical: "#EF4444",
	RiskHigh:     "#F97316",
	RiskMedium:   "#FACC15",
	RiskLow:      "#22D3EE",
	RiskInfo:     "#10B981",
}

// RootNodeColor is the color of the scanned project's node.
const RootNodeColor = "#6366F1"
