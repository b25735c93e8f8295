package core

import (
	"math"
	"time"

	"github.com/huangsam/depshield/core/algo"
	"github.com/huangsam/depshield/schema"
)

// rootNodePrefix prefixes the id of the scanned project's graph node.
const rootNodePrefix = "__root__"

// BuildScanResult aggregates per-package reports into a scan summary.
// The overall score is the rounded mean of the package scores, or 100 when
// there are none.
func BuildScanResult(scanID, repoName string, reports []schema.DependencyReport, scannedAt time.Time) schema.ScanResult {
	result := schema.ScanResult{
		ScanID:            scanID,
		RepoName:          repoName,
		ScannedAt:         scannedAt,
		OverallScore:      100,
		TotalDependencies: len(reports),
		Dependencies:      reports,
		Alerts:            []schema.RiskAlert{},
	}

	sum := 0
	for _, r := range reports {
		sum += r.Health.Score
		if r.IsDirect {
			result.DirectDeps++
		}
		if r.MaintainerHealth.BusFactor <= 1 && !r.MaintainerHealth.BusFactorUnknown {
			result.BusFactorWarnings++
		}
		result.Alerts = append(result.Alerts, r.Alerts...)
	}
	if len(reports) > 0 {
		result.OverallScore = int(math.Round(float64(sum) / float64(len(reports))))
	}
	result.OverallGrade = algo.ScoreToGrade(result.OverallScore)

	algo.SortAlerts(result.Alerts)
	for _, a := range result.Alerts {
		switch a.Severity {
		case schema.SeverityCritical:
			result.CriticalAlerts++
		case schema.SeverityHigh:
			result.HighAlerts++
		case schema.SeverityMedium:
			result.MediumAlerts++
		case schema.SeverityLow:
			result.LowAlerts++
		}
	}

	result.GraphData = BuildGraph(repoName, reports)
	return result
}

// BuildGraph links the project root to every direct dependency.
func BuildGraph(repoName string, reports []schema.DependencyReport) schema.GraphData {
	rootID := rootNodePrefix + repoName
	graph := schema.GraphData{
		Nodes: []schema.GraphNode{{
			ID:          rootID,
			Name:        repoName,
			HealthScore: 100,
			HealthGrade: schema.GradeA,
			RiskLevel:   schema.RiskInfo,
			IsDirect:    true,
			Val:         10,
			Color:       schema.RootNodeColor,
		}},
		Links: []schema.GraphLink{},
	}

	for _, r := range reports {
		downloads := r.Metadata.WeeklyDownloads
		graph.Nodes = append(graph.Nodes, schema.GraphNode{
			ID:              r.Name,
			Name:            r.Name,
			HealthScore:     r.Health.Score,
			HealthGrade:     r.Health.Grade,
			RiskLevel:       r.Health.RiskLevel,
			AlertCount:      len(r.Alerts),
			IsDirect:        r.IsDirect,
			WeeklyDownloads: downloads,
			Val:             nodeSize(downloads),
			Color:           schema.RiskColors[r.Health.RiskLevel],
		})
		if r.IsDirect {
			graph.Links = append(graph.Links, schema.GraphLink{Source: rootID, Target: r.Name})
		}
	}
	return graph
}

// nodeSize scales a node with the log of its weekly downloads, clamped to 3..12.
func nodeSize(weeklyDownloads int) float64 {
	v := math.Log10(float64(weeklyDownloads)+1) * 1.5
	return math.Max(3, math.Min(12, v))
}
