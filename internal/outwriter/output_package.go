package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/huangsam/depshield/internal/contract"
	"github.com/huangsam/depshield/internal/parquet"
	"github.com/huangsam/depshield/schema"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// PrintPackageReport outputs the detailed analysis of one package.
func PrintPackageReport(report schema.DependencyReport, cfg *contract.Config, duration time.Duration) error {
	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, report)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writePackageCSV(w, report)
		}, "Wrote CSV")
	case schema.ParquetOut:
		if cfg.OutputFile == "" {
			return fmt.Errorf("parquet output requires --output-file")
		}
		rows := parquet.ConvertDependencyReports([]schema.DependencyReport{report})
		if err := parquet.WriteDependenciesParquet(rows, cfg.OutputFile); err != nil {
			return err
		}
		contract.Log.Infof("Wrote Parquet to %s", cfg.OutputFile)
		return nil
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writePackageText(w, report, cfg, duration)
		}, "Wrote report")
	}
}

// packageFields flattens the headline numbers of a report into ordered key/value pairs.
func packageFields(report schema.DependencyReport) [][2]string {
	return [][2]string{
		{"name", report.Name},
		{"version", report.Version},
		{"health_score", strconv.Itoa(report.Health.Score)},
		{"health_grade", string(report.Health.Grade)},
		{"risk_level", string(report.Health.RiskLevel)},
		{"maintainer_score", strconv.Itoa(report.MaintainerHealth.Score)},
		{"takeover_score", strconv.Itoa(report.TakeoverRisk.Score)},
		{"slopsquat_score", strconv.Itoa(report.Slopsquatting.Score)},
		{"license_score", strconv.Itoa(report.LicenseMutation.Score)},
		{"bus_factor", strconv.Itoa(report.MaintainerHealth.BusFactor)},
		{"license", report.Metadata.License},
		{"weekly_downloads", strconv.Itoa(report.Metadata.WeeklyDownloads)},
		{"alert_count", strconv.Itoa(len(report.Alerts))},
		{"fallback", strconv.FormatBool(report.Fallback)},
	}
}

func writePackageCSV(w io.Writer, report schema.DependencyReport) error {
	return writeCSVWithHeader(w, []string{"field", "value"}, func(cw *csv.Writer) error {
		for _, kv := range packageFields(report) {
			if err := cw.Write([]string{kv[0], kv[1]}); err != nil {
				return fmt.Errorf("failed to write CSV row: %w", err)
			}
		}
		return nil
	})
}

func writePackageText(w io.Writer, report schema.DependencyReport, cfg *contract.Config, duration time.Duration) error {
	meta := report.Metadata
	fmt.Fprintf(w, "%s@%s\n", report.Name, orDash(report.Version))
	if meta.Description != "" {
		fmt.Fprintf(w, "%s\n", contract.TruncateText(meta.Description, getMaxTextWidth(cfg, 0)))
	}
	fmt.Fprintf(w, "\nHealth: %d/100, grade %s, risk %s\n",
		report.Health.Score, gradeLabel(report.Health.Grade, cfg.UseColors),
		levelLabel(string(report.Health.RiskLevel), cfg.UseColors))
	fmt.Fprintf(w, "License: %s | Downloads/week: %d | Stars: %d | Dependencies: %d\n",
		orDash(meta.License), meta.WeeklyDownloads, meta.StarsCount, report.DependencyCount)
	if meta.Repository != "" {
		fmt.Fprintf(w, "Repository: %s\n", meta.Repository)
	}
	fmt.Fprintf(w, "Last publish: %s\n\n", orDash(meta.LastPublish))

	if err := writeDimensionTable(w, report, cfg); err != nil {
		return err
	}

	mh := report.MaintainerHealth
	fmt.Fprintf(w, "\nMaintainers: bus factor %s, %d/%d active, last commit %s, %.1f commits/month\n",
		busFactorLabel(mh), mh.ActiveMaintainers, mh.TotalMaintainers, formatDays(mh.LastCommitDaysAgo), mh.CommitFrequency)
	writeSignals(w, "Maintainer signals", mh.Signals)
	writeSignals(w, "Takeover signals", report.TakeoverRisk.Signals)
	writeSignals(w, "Slopsquatting signals", report.Slopsquatting.Signals)
	writeSignals(w, "License signals", report.LicenseMutation.Signals)

	if len(report.Alerts) > 0 {
		fmt.Fprintln(w, "\nAlerts:")
		for _, alert := range report.Alerts {
			fmt.Fprintf(w, "  [%s] %s\n", severityMarker(alert.Severity, cfg.UseEmojis), alert.Title)
			fmt.Fprintf(w, "      %s\n", alert.Evidence)
			if alert.Recommendation != "" {
				fmt.Fprintf(w, "      -> %s\n", alert.Recommendation)
			}
		}
	}

	if len(report.MigrationSuggestions) > 0 {
		fmt.Fprintln(w, "\nSuggested alternatives:")
		for _, s := range report.MigrationSuggestions {
			fmt.Fprintf(w, "  %s (grade %s, %s effort): %s\n", s.To, s.HealthGrade, s.Effort, s.Reason)
		}
	}

	fmt.Fprintf(w, "\nAnalyzed in %s\n", duration.Round(time.Millisecond))
	return nil
}

// writeDimensionTable renders the analyzer scores and composite dimensions side by side.
func writeDimensionTable(w io.Writer, report schema.DependencyReport, cfg *contract.Config) error {
	fmtFloat := createFormatter(cfg.Precision)
	table := tablewriter.NewWriter(w)
	table.Header([]string{"Analyzer", "Score"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	data := [][]string{
		{"Maintainer health", strconv.Itoa(report.MaintainerHealth.Score)},
		{"Takeover risk", strconv.Itoa(report.TakeoverRisk.Score)},
		{"Slopsquatting", strconv.Itoa(report.Slopsquatting.Score)},
		{"License mutation", strconv.Itoa(report.LicenseMutation.Score)},
	}
	for _, dim := range schema.AllDimensions {
		if v, ok := report.Health.Dimensions[dim]; ok {
			data = append(data, []string{"Dimension: " + string(dim), fmtFloat(v)})
		}
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}

func writeSignals(w io.Writer, title string, signals []string) {
	if len(signals) == 0 {
		return
	}
	fmt.Fprintf(w, "%s:\n  - %s\n", title, strings.Join(signals, "\n  - "))
}
