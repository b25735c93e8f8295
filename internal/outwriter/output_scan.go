package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/huangsam/depshield/core/algo"
	"github.com/huangsam/depshield/internal/contract"
	"github.com/huangsam/depshield/internal/parquet"
	"github.com/huangsam/depshield/schema"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// topAlertCount is how many alerts the text summary lists.
const topAlertCount = 10

var scanHeader = []string{"Rank", "Package", "Version", "Score", "Grade", "Risk", "Alerts", "Bus", "License"}

var scanCSVHeader = []string{
	"rank", "name", "version", "health_score", "health_grade", "risk_level", "alert_count",
	"bus_factor", "license", "weekly_downloads", "is_direct", "fallback",
}

// PrintScanResult outputs a scan in the format selected by cfg.Output.
func PrintScanResult(result schema.ScanResult, cfg *contract.Config, duration time.Duration) error {
	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, result)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeScanCSV(w, result, cfg)
		}, "Wrote CSV")
	case schema.ParquetOut:
		if cfg.OutputFile == "" {
			return fmt.Errorf("parquet output requires --output-file")
		}
		rows := parquet.ConvertDependencyReports(rankedDependencies(result, cfg.Limit))
		if err := parquet.WriteDependenciesParquet(rows, cfg.OutputFile); err != nil {
			return err
		}
		contract.Log.Infof("Wrote Parquet to %s", cfg.OutputFile)
		return nil
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeScanTable(w, result, cfg, duration)
		}, "Wrote table")
	}
}

// rankedDependencies returns a ranked copy of the scan's dependencies honoring cfg.Limit.
func rankedDependencies(result schema.ScanResult, limit int) []schema.DependencyReport {
	deps := append([]schema.DependencyReport(nil), result.Dependencies...)
	return algo.RankDependencies(deps, limit)
}

func writeScanCSV(w io.Writer, result schema.ScanResult, cfg *contract.Config) error {
	return writeCSVWithHeader(w, scanCSVHeader, func(cw *csv.Writer) error {
		for i, dep := range rankedDependencies(result, cfg.Limit) {
			row := []string{
				strconv.Itoa(i + 1),
				dep.Name,
				dep.Version,
				strconv.Itoa(dep.Health.Score),
				string(dep.Health.Grade),
				string(dep.Health.RiskLevel),
				strconv.Itoa(len(dep.Alerts)),
				strconv.Itoa(dep.MaintainerHealth.BusFactor),
				dep.Metadata.License,
				strconv.Itoa(dep.Metadata.WeeklyDownloads),
				strconv.FormatBool(dep.IsDirect),
				strconv.FormatBool(dep.Fallback),
			}
			if err := cw.Write(row); err != nil {
				return fmt.Errorf("failed to write CSV row: %w", err)
			}
		}
		return nil
	})
}

func writeScanTable(w io.Writer, result schema.ScanResult, cfg *contract.Config, duration time.Duration) error {
	nameWidth := getMaxNameWidth(cfg)

	data := [][]string{}
	for i, dep := range rankedDependencies(result, cfg.Limit) {
		name := dep.Name
		if dep.Fallback {
			name += " (?)"
		}
		data = append(data, []string{
			strconv.Itoa(i + 1),
			contract.TruncateText(name, nameWidth),
			orDash(dep.Version),
			strconv.Itoa(dep.Health.Score),
			gradeLabel(dep.Health.Grade, cfg.UseColors),
			levelLabel(string(dep.Health.RiskLevel), cfg.UseColors),
			strconv.Itoa(len(dep.Alerts)),
			busFactorLabel(dep.MaintainerHealth),
			contract.TruncateText(orDash(dep.Metadata.License), 14),
		})
	}

	table := tablewriter.NewWriter(w)
	table.Header(scanHeader)
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	writeScanSummary(w, result, cfg, duration)
	return nil
}

func writeScanSummary(w io.Writer, result schema.ScanResult, cfg *contract.Config, duration time.Duration) {
	fmt.Fprintf(w, "\n%s: grade %s, score %d/100\n",
		orDash(result.RepoName), gradeLabel(result.OverallGrade, cfg.UseColors), result.OverallScore)
	fmt.Fprintf(w, "Dependencies: %d (%d direct), bus factor warnings: %d\n",
		result.TotalDependencies, result.DirectDeps, result.BusFactorWarnings)
	fmt.Fprintf(w, "Alerts: %d critical, %d high, %d medium, %d low\n",
		result.CriticalAlerts, result.HighAlerts, result.MediumAlerts, result.LowAlerts)
	if result.Partial {
		fmt.Fprintln(w, "Scan was interrupted; results are partial.")
	}

	if len(result.Alerts) > 0 {
		fmt.Fprintln(w, "\nTop alerts:")
		textWidth := getMaxTextWidth(cfg, 30)
		for i, alert := range result.Alerts {
			if i == topAlertCount {
				fmt.Fprintf(w, "  ... and %d more\n", len(result.Alerts)-topAlertCount)
				break
			}
			fmt.Fprintf(w, "  [%s] %s: %s\n",
				severityMarker(alert.Severity, cfg.UseEmojis), alert.PackageName,
				contract.TruncateText(alert.Title, textWidth))
		}
	}
	fmt.Fprintf(w, "\nScanned at %s in %s\n", result.ScannedAt.Format(contract.DateTimeFormat), duration.Round(time.Millisecond))
}
