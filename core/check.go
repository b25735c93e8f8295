package core

import (
	"errors"

	"github.com/huangsam/depshield/schema"
)

// ErrCheckFailed is returned by ExecuteCheck when the policy is violated.
var ErrCheckFailed = errors.New("dependency policy check failed")

// BuildCheckResult evaluates a scan against the CI policy. The check fails
// when any alert is at or above failOn or the overall score is below minScore.
func BuildCheckResult(scan schema.ScanResult, target string, failOn schema.Severity, minScore int) schema.CheckResult {
	result := schema.CheckResult{
		Target:        target,
		FailOn:        failOn,
		MinScore:      minScore,
		OverallScore:  scan.OverallScore,
		OverallGrade:  scan.OverallGrade,
		TotalPackages: scan.TotalDependencies,
		Violations:    []schema.RiskAlert{},
		CountBySev:    make(map[schema.Severity]int, len(schema.SeverityOrder)),
	}

	for _, alert := range scan.Alerts {
		result.CountBySev[alert.Severity]++
		if alert.Severity.AtOrAbove(failOn) {
			result.Violations = append(result.Violations, alert)
		}
	}
	result.ScoreFailed = scan.OverallScore < minScore
	result.Passed = len(result.Violations) == 0 && !result.ScoreFailed
	return result
}
