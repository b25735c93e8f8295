package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/huangsam/depshield/internal/contract"
	"github.com/huangsam/depshield/schema"
)

// dimensionDescriptions explains what feeds each composite dimension.
var dimensionDescriptions = map[schema.DimensionKey]string{
	schema.DimensionMaintainer: "Maintainer health: commit recency, frequency, bus factor, issue backlog",
	schema.DimensionSecurity:   "100 minus the worse of takeover risk and slopsquatting",
	schema.DimensionCommunity:  "Stars (max 40), dependents (max 30), weekly downloads (max 30)",
	schema.DimensionFreshness:  "Step function of days since the last publish",
}

// gradeThresholds lists the minimum score of each grade.
var gradeThresholds = []struct {
	Grade schema.Grade `json:"grade"`
	Min   int          `json:"minScore"`
}{
	{schema.GradeA, 90}, {schema.GradeB, 75}, {schema.GradeC, 60}, {schema.GradeD, 40}, {schema.GradeF, 0},
}

// riskThresholds lists the minimum score of each risk level.
var riskThresholds = []struct {
	Risk schema.RiskLevel `json:"riskLevel"`
	Min  int              `json:"minScore"`
}{
	{schema.RiskInfo, 80}, {schema.RiskLow, 65}, {schema.RiskMedium, 45}, {schema.RiskHigh, 25}, {schema.RiskCritical, 0},
}

// scoringModel is the JSON view of the composite scoring model.
type scoringModel struct {
	Formula    string                          `json:"formula"`
	Weights    map[schema.DimensionKey]float64 `json:"weights"`
	Grades     any                             `json:"grades"`
	RiskLevels any                             `json:"riskLevels"`
}

const scoringFormula = "score = round(sum(weight[d] * dimension[d])) clamped to 0..100"

// PrintScoringModel displays the weights and thresholds used for composite health.
func PrintScoringModel(weights map[schema.DimensionKey]float64, cfg *contract.Config) error {
	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, scoringModel{
				Formula:    scoringFormula,
				Weights:    weights,
				Grades:     gradeThresholds,
				RiskLevels: riskThresholds,
			})
		}, "Wrote JSON")
	case schema.CSVOut:
		fmtFloat := createFormatter(cfg.Precision)
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCSVWithHeader(w, []string{"dimension", "weight", "description"}, func(cw *csv.Writer) error {
				for _, dim := range schema.AllDimensions {
					if err := cw.Write([]string{string(dim), fmtFloat(weights[dim]), dimensionDescriptions[dim]}); err != nil {
						return fmt.Errorf("failed to write CSV row: %w", err)
					}
				}
				return nil
			})
		}, "Wrote CSV")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeScoringModelText(w, weights, cfg)
		}, "Wrote scoring model")
	}
}

func writeScoringModelText(w io.Writer, weights map[schema.DimensionKey]float64, cfg *contract.Config) error {
	fmtFloat := createFormatter(2)
	fmt.Fprintln(w, "Composite health")
	fmt.Fprintf(w, "  %s\n\n", scoringFormula)

	fmt.Fprintln(w, "Dimensions:")
	for _, dim := range schema.AllDimensions {
		fmt.Fprintf(w, "  %-11s %s  %s\n", dim, fmtFloat(weights[dim]), dimensionDescriptions[dim])
	}

	fmt.Fprintln(w, "\nGrades:")
	for _, g := range gradeThresholds {
		fmt.Fprintf(w, "  %s  >= %d\n", gradeLabel(g.Grade, cfg.UseColors), g.Min)
	}

	fmt.Fprintln(w, "\nRisk levels:")
	for _, r := range riskThresholds {
		fmt.Fprintf(w, "  %-10s >= %d\n", levelLabel(string(r.Risk), cfg.UseColors), r.Min)
	}

	fmt.Fprintln(w, "\nLicense mutation is reported separately and does not affect the composite score.")
	return nil
}
