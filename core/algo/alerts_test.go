package algo

import (
	"testing"

	"github.com/huangsam/depshield/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func healthyBundle() schema.AnalysisBundle {
	return schema.AnalysisBundle{
		MaintainerHealth: schema.MaintainerHealthResult{BusFactor: 3, LastCommitDaysAgo: 5, ActiveMaintainers: 2, TotalMaintainers: 2},
		LicenseMutation:  schema.LicenseMutationResult{CurrentLicense: "MIT"},
	}
}

func TestBuildAlertsHealthy(t *testing.T) {
	alerts := BuildAlerts("pkg", healthyBundle())
	assert.NotNil(t, alerts)
	assert.Empty(t, alerts)
}

func TestBuildAlertsConditions(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(b *schema.AnalysisBundle)
		id       string
		kind     schema.AlertType
		severity schema.Severity
	}{
		{"bus factor zero", func(b *schema.AnalysisBundle) { b.MaintainerHealth.BusFactor = 0 }, "pkg-bus-factor", schema.AlertBusFactor, schema.SeverityCritical},
		{"bus factor one", func(b *schema.AnalysisBundle) { b.MaintainerHealth.BusFactor = 1 }, "pkg-bus-factor", schema.AlertBusFactor, schema.SeverityHigh},
		{"takeover high", func(b *schema.AnalysisBundle) { b.TakeoverRisk.Score = 50 }, "pkg-takeover", schema.AlertTakeoverRisk, schema.SeverityHigh},
		{"takeover critical", func(b *schema.AnalysisBundle) { b.TakeoverRisk.Score = 70 }, "pkg-takeover", schema.AlertTakeoverRisk, schema.SeverityCritical},
		{"slopsquatting", func(b *schema.AnalysisBundle) { b.Slopsquatting.IsSuspected = true }, "pkg-slopsquat", schema.AlertSlopsquatting, schema.SeverityCritical},
		{"license permissive", func(b *schema.AnalysisBundle) { b.LicenseMutation.HasChanged = true }, "pkg-license", schema.AlertLicenseChange, schema.SeverityMedium},
		{"license restrictive", func(b *schema.AnalysisBundle) {
			b.LicenseMutation.HasChanged = true
			b.LicenseMutation.IsRestrictive = true
		}, "pkg-license", schema.AlertLicenseChange, schema.SeverityHigh},
		{"stale", func(b *schema.AnalysisBundle) { b.MaintainerHealth.LastCommitDaysAgo = 400 }, "pkg-stale", schema.AlertStalePackage, schema.SeverityMedium},
		{"very stale", func(b *schema.AnalysisBundle) { b.MaintainerHealth.LastCommitDaysAgo = 800 }, "pkg-stale", schema.AlertStalePackage, schema.SeverityHigh},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := healthyBundle()
			tt.mutate(&b)
			alerts := BuildAlerts("pkg", b)
			require.Len(t, alerts, 1)
			assert.Equal(t, tt.id, alerts[0].ID)
			assert.Equal(t, tt.kind, alerts[0].Type)
			assert.Equal(t, tt.severity, alerts[0].Severity)
			assert.Equal(t, "pkg", alerts[0].PackageName)
		})
	}
}

func TestBuildAlertsSkipsUnknownBusFactor(t *testing.T) {
	b := healthyBundle()
	b.MaintainerHealth.BusFactor = 0
	b.MaintainerHealth.BusFactorUnknown = true

	alerts := BuildAlerts("pkg", b)
	assert.Empty(t, alerts)
}

func TestBuildAlertsText(t *testing.T) {
	b := healthyBundle()
	b.MaintainerHealth = schema.MaintainerHealthResult{
		BusFactor: 1, ActiveMaintainers: 1, TotalMaintainers: 3, LastCommitDaysAgo: 800, CommitFrequency: 0.25,
	}
	b.TakeoverRisk = schema.TakeoverRiskResult{Score: 60, Signals: []string{"a", "b"}}
	b.Slopsquatting = schema.SlopsquattingResult{IsSuspected: true, Signals: []string{"x"}}
	b.LicenseMutation = schema.LicenseMutationResult{HasChanged: true, CurrentLicense: "ISC", Signals: []string{"changed"}}

	alerts := BuildAlerts("lib", b)
	require.Len(t, alerts, 5)

	byID := map[string]schema.RiskAlert{}
	for _, a := range alerts {
		byID[a.ID] = a
	}
	assert.Equal(t, "Bus factor of 1", byID["lib-bus-factor"].Title)
	assert.Equal(t, "lib has 1 active maintainer(s). If they become unavailable, the package may be unmaintained.", byID["lib-bus-factor"].Description)
	assert.Equal(t, "3 total maintainers, 1 active, last commit 800 days ago.", byID["lib-bus-factor"].Evidence)
	assert.Equal(t, "a. b", byID["lib-takeover"].Description)
	assert.Equal(t, "a | b", byID["lib-takeover"].Evidence)
	assert.Equal(t, "Remove this package immediately and replace with the legitimate version.", byID["lib-slopsquat"].Recommendation)
	assert.Equal(t, "Current: ISC. changed", byID["lib-license"].Evidence)
	assert.Equal(t, "No commits in 800 days. Commit frequency: 0.25/month.", byID["lib-stale"].Description)
	assert.Equal(t, "Last commit: 800 days ago.", byID["lib-stale"].Evidence)
}

func TestBuildAlertsUnknownRecency(t *testing.T) {
	b := healthyBundle()
	b.MaintainerHealth.LastCommitDaysAgo = schema.DaysUnknown
	alerts := BuildAlerts("pkg", b)
	require.Len(t, alerts, 1)
	assert.Equal(t, schema.SeverityHigh, alerts[0].Severity)
	assert.Equal(t, "No commit activity on record. Commit frequency: 0.00/month.", alerts[0].Description)
	assert.Equal(t, "Last commit: unknown.", alerts[0].Evidence)
}

func TestSortAlerts(t *testing.T) {
	alerts := []schema.RiskAlert{
		{ID: "1", Severity: schema.SeverityLow},
		{ID: "2", Severity: schema.SeverityCritical},
		{ID: "3", Severity: schema.SeverityMedium},
		{ID: "4", Severity: schema.SeverityCritical},
		{ID: "5", Severity: schema.SeverityInfo},
		{ID: "6", Severity: schema.SeverityHigh},
	}
	SortAlerts(alerts)

	ids := make([]string, len(alerts))
	for i, a := range alerts {
		ids[i] = a.ID
	}
	assert.Equal(t, []string{"2", "4", "6", "3", "1", "5"}, ids)
}
