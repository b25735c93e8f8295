package algo

import (
	"fmt"
	"math"

	"github.com/huangsam/depshield/schema"
)

// ValidateWeights checks that every dimension has a non-negative weight and
// that the weights sum to 1.0.
func ValidateWeights(weights map[schema.DimensionKey]float64) error {
	sum := 0.0
	for _, dim := range schema.AllDimensions {
		w, ok := weights[dim]
		if !ok {
			return fmt.Errorf("missing weight for dimension '%s'", dim)
		}
		if w < 0 {
			return fmt.Errorf("weight for dimension '%s' must be non-negative, got %.3f", dim, w)
		}
		sum += w
	}
	if len(weights) != len(schema.AllDimensions) {
		return fmt.Errorf("unexpected dimensions in weights: got %d, want %d", len(weights), len(schema.AllDimensions))
	}
	if sum < 0.999 || sum > 1.001 {
		return fmt.Errorf("weights must sum to 1.0, got %.3f", sum)
	}
	return nil
}

// CommunityDimension scores adoption from stars, dependents and downloads.
func CommunityDimension(c schema.CommunitySignals) float64 {
	stars := min(40, float64(c.Stars)/10000*40)
	dependents := min(30, float64(c.Dependents)/5000*30)
	downloads := min(30, float64(c.WeeklyDownloads)/1_000_000*30)
	return clamp(stars+dependents+downloads, 0, 100)
}

// FreshnessDimension is a step function of days since the last publish.
func FreshnessDimension(daysSinceLastPublish int) float64 {
	switch {
	case daysSinceLastPublish < 30:
		return 100
	case daysSinceLastPublish < 90:
		return 80
	case daysSinceLastPublish < 180:
		return 60
	case daysSinceLastPublish < 365:
		return 40
	case daysSinceLastPublish < 730:
		return 20
	default:
		return 0
	}
}

// ComposeHealth combines the dimensions into a weighted score, grade and risk level.
// The license mutation score deliberately stays out of the composite and only
// surfaces through alerts.
func ComposeHealth(
	weights map[schema.DimensionKey]float64,
	maintainer schema.MaintainerHealthResult,
	takeover schema.TakeoverRiskResult,
	slop schema.SlopsquattingResult,
	community schema.CommunitySignals,
	daysSinceLastPublish int,
) schema.CompositeHealth {
	dims := map[schema.DimensionKey]float64{
		schema.DimensionMaintainer: clamp(float64(maintainer.Score), 0, 100),
		schema.DimensionSecurity:   clamp(100-float64(max(takeover.Score, slop.Score)), 0, 100),
		schema.DimensionCommunity:  CommunityDimension(community),
		schema.DimensionFreshness:  FreshnessDimension(daysSinceLastPublish),
	}

	weighted := 0.0
	for _, dim := range schema.AllDimensions {
		weighted += dims[dim] * weights[dim]
	}
	score := int(clamp(math.Round(weighted), 0, 100))

	return schema.CompositeHealth{
		Score:      score,
		Grade:      ScoreToGrade(score),
		RiskLevel:  ScoreToRiskLevel(score),
		Dimensions: dims,
	}
}

// ScoreToGrade maps a composite score to a letter grade.
func ScoreToGrade(score int) schema.Grade {
	switch {
	case score >= 90:
		return schema.GradeA
	case score >= 75:
		return schema.GradeB
	case score >= 60:
		return schema.GradeC
	case score >= 40:
		return schema.GradeD
	default:
		return schema.GradeF
	}
}

// ScoreToRiskLevel maps a composite score to a risk level. The scale is
// independent of the grade thresholds.
func ScoreToRiskLevel(score int) schema.RiskLevel {
	switch {
	case score >= 80:
		return schema.RiskInfo
	case score >= 65:
		return schema.RiskLow
	case score >= 45:
		return schema.RiskMedium
	case score >= 25:
		return schema.RiskHigh
	default:
		return schema.RiskCritical
	}
}
