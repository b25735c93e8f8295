package algo

import (
	"testing"

	"github.com/huangsam/depshield/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateWeights(t *testing.T) {
	tests := []struct {
		name    string
		weights map[schema.DimensionKey]float64
		errMsg  string
	}{
		{"defaults", schema.GetDefaultWeights(), ""},
		{
			name: "does not sum to one",
			weights: map[schema.DimensionKey]float64{
				schema.DimensionMaintainer: 0.5, schema.DimensionSecurity: 0.5,
				schema.DimensionCommunity: 0.5, schema.DimensionFreshness: 0.5,
			},
			errMsg: "weights must sum to 1.0, got 2.000",
		},
		{
			name: "missing dimension",
			weights: map[schema.DimensionKey]float64{
				schema.DimensionMaintainer: 0.5, schema.DimensionSecurity: 0.5,
			},
			errMsg: "missing weight for dimension 'community'",
		},
		{
			name: "negative weight",
			weights: map[schema.DimensionKey]float64{
				schema.DimensionMaintainer: 1.2, schema.DimensionSecurity: -0.2,
				schema.DimensionCommunity: 0, schema.DimensionFreshness: 0,
			},
			errMsg: "must be non-negative",
		},
		{
			name: "unknown dimension",
			weights: map[schema.DimensionKey]float64{
				schema.DimensionMaintainer: 0.25, schema.DimensionSecurity: 0.25,
				schema.DimensionCommunity: 0.25, schema.DimensionFreshness: 0.25, "license": 0,
			},
			errMsg: "unexpected dimensions",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateWeights(tt.weights)
			if tt.errMsg == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestScoreToGradeAndRisk(t *testing.T) {
	tests := []struct {
		score int
		grade schema.Grade
		risk  schema.RiskLevel
	}{
		{100, schema.GradeA, schema.RiskInfo},
		{90, schema.GradeA, schema.RiskInfo},
		{89, schema.GradeB, schema.RiskInfo},
		{80, schema.GradeB, schema.RiskInfo},
		{79, schema.GradeB, schema.RiskLow},
		{75, schema.GradeB, schema.RiskLow},
		{74, schema.GradeC, schema.RiskLow},
		{65, schema.GradeC, schema.RiskLow},
		{64, schema.GradeC, schema.RiskMedium},
		{60, schema.GradeC, schema.RiskMedium},
		{59, schema.GradeD, schema.RiskMedium},
		{45, schema.GradeD, schema.RiskMedium},
		{44, schema.GradeD, schema.RiskHigh},
		{40, schema.GradeD, schema.RiskHigh},
		{39, schema.GradeF, schema.RiskHigh},
		{25, schema.GradeF, schema.RiskHigh},
		{24, schema.GradeF, schema.RiskCritical},
		{0, schema.GradeF, schema.RiskCritical},
	}

	for _, tt := range tests {
		t.Run(string(tt.grade)+"/"+string(tt.risk), func(t *testing.T) {
			assert.Equal(t, tt.grade, ScoreToGrade(tt.score))
			assert.Equal(t, tt.risk, ScoreToRiskLevel(tt.score))
		})
	}
}

func TestCommunityDimension(t *testing.T) {
	tests := []struct {
		name     string
		signals  schema.CommunitySignals
		expected float64
	}{
		{"nothing", schema.CommunitySignals{}, 0},
		{"stars capped", schema.CommunitySignals{Stars: 20000, WeeklyDownloads: 500000}, 55},
		{"everything capped", schema.CommunitySignals{Stars: 1e6, Dependents: 1e6, WeeklyDownloads: 1e9}, 100},
		{"dependents only", schema.CommunitySignals{Dependents: 2500}, 15},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, CommunityDimension(tt.signals), 1e-9)
		})
	}
}

func TestFreshnessDimension(t *testing.T) {
	tests := []struct {
		days     int
		expected float64
	}{
		{0, 100}, {29, 100}, {30, 80}, {89, 80}, {90, 60}, {179, 60},
		{180, 40}, {364, 40}, {365, 20}, {729, 20}, {730, 0}, {schema.DaysUnknown, 0},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, FreshnessDimension(tt.days), "days=%d", tt.days)
	}
}

func TestComposeHealth(t *testing.T) {
	health := ComposeHealth(
		schema.GetDefaultWeights(),
		schema.MaintainerHealthResult{Score: 80},
		schema.TakeoverRiskResult{Score: 10},
		schema.SlopsquattingResult{Score: 40},
		schema.CommunitySignals{Stars: 10000, Dependents: 5000, WeeklyDownloads: 1_000_000},
		10,
	)

	assert.Equal(t, 84, health.Score)
	assert.Equal(t, schema.GradeB, health.Grade)
	assert.Equal(t, schema.RiskInfo, health.RiskLevel)
	assert.InDelta(t, 60.0, health.Dimensions[schema.DimensionSecurity], 1e-9)
	assert.InDelta(t, 100.0, health.Dimensions[schema.DimensionCommunity], 1e-9)
}

func FuzzComposeHealthBounded(f *testing.F) {
	f.Add(50, 0, 0, 0, 0, 0, 10)
	f.Add(-20, 500, 300, -1, 1_000_000, 99, 9999)
	f.Fuzz(func(t *testing.T, maintainer, takeover, slop, stars, downloads, dependents, days int) {
		health := ComposeHealth(
			schema.GetDefaultWeights(),
			schema.MaintainerHealthResult{Score: maintainer},
			schema.TakeoverRiskResult{Score: takeover},
			schema.SlopsquattingResult{Score: slop},
			schema.CommunitySignals{Stars: stars, Dependents: dependents, WeeklyDownloads: downloads},
			days,
		)
		assert.GreaterOrEqual(t, health.Score, 0)
		assert.LessOrEqual(t, health.Score, 100)
		assert.Equal(t, ScoreToGrade(health.Score), health.Grade)
	})
}
