package core

import (
	"testing"

	"github.com/huangsam/depshield/schema"
	"github.com/stretchr/testify/assert"
)

func TestBuildCheckResult(t *testing.T) {
	alerts := []schema.RiskAlert{
		{ID: "a", Severity: schema.SeverityHigh},
		{ID: "b", Severity: schema.SeverityMedium},
		{ID: "c", Severity: schema.SeverityLow},
	}
	scan := schema.ScanResult{OverallScore: 72, OverallGrade: schema.GradeC, TotalDependencies: 4, Alerts: alerts}

	tests := []struct {
		name        string
		failOn      schema.Severity
		minScore    int
		passed      bool
		violations  int
		scoreFailed bool
	}{
		{"critical threshold passes", schema.SeverityCritical, 0, true, 0, false},
		{"high threshold fails", schema.SeverityHigh, 0, false, 1, false},
		{"medium threshold counts higher alerts", schema.SeverityMedium, 0, false, 2, false},
		{"score below minimum fails", schema.SeverityCritical, 80, false, 0, true},
		{"score at minimum passes", schema.SeverityCritical, 72, true, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := BuildCheckResult(scan, "package.json", tt.failOn, tt.minScore)
			assert.Equal(t, tt.passed, result.Passed)
			assert.Len(t, result.Violations, tt.violations)
			assert.Equal(t, tt.scoreFailed, result.ScoreFailed)
			assert.Equal(t, 1, result.CountBySev[schema.SeverityHigh])
			assert.Equal(t, 0, result.CountBySev[schema.SeverityCritical])
			assert.Equal(t, "package.json", result.Target)
			assert.Equal(t, 4, result.TotalPackages)
		})
	}
}
