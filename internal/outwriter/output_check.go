package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/huangsam/depshield/internal/contract"
	"github.com/huangsam/depshield/schema"
)

// PrintCheckResult outputs a CI policy check. With cfg.Annotations set, each
// violation is also printed as a GitHub Actions workflow command.
func PrintCheckResult(result schema.CheckResult, cfg *contract.Config, duration time.Duration) error {
	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, result)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCheckCSV(w, result)
		}, "Wrote CSV")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCheckText(w, result, cfg, duration)
		}, "Wrote check")
	}
}

func writeCheckCSV(w io.Writer, result schema.CheckResult) error {
	header := []string{"package", "severity", "type", "title"}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for _, v := range result.Violations {
			if err := cw.Write([]string{v.PackageName, string(v.Severity), string(v.Type), v.Title}); err != nil {
				return fmt.Errorf("failed to write CSV row: %w", err)
			}
		}
		return nil
	})
}

func writeCheckText(w io.Writer, result schema.CheckResult, cfg *contract.Config, duration time.Duration) error {
	if cfg.Annotations {
		writeAnnotations(w, result)
	}

	status := "PASSED"
	if !result.Passed {
		status = "FAILED"
	}
	if cfg.UseEmojis {
		if result.Passed {
			status = "✅ " + status
		} else {
			status = "❌ " + status
		}
	}

	fmt.Fprintf(w, "Policy check %s for %s\n", status, orDash(result.Target))
	fmt.Fprintf(w, "Overall: %d/100 (grade %s) across %d packages\n",
		result.OverallScore, gradeLabel(result.OverallGrade, cfg.UseColors), result.TotalPackages)

	counts := make([]string, 0, len(schema.SeverityOrder))
	for _, sev := range schema.SeverityOrder {
		counts = append(counts, fmt.Sprintf("%s=%d", sev, result.CountBySev[sev]))
	}
	fmt.Fprintf(w, "Alerts: %s\n", strings.Join(counts, " "))

	if result.ScoreFailed {
		fmt.Fprintf(w, "Overall score %d is below the minimum of %d\n", result.OverallScore, result.MinScore)
	}
	if len(result.Violations) > 0 {
		fmt.Fprintf(w, "%d alert(s) at or above %s:\n", len(result.Violations), result.FailOn)
		for _, v := range result.Violations {
			fmt.Fprintf(w, "  [%s] %s: %s\n", levelLabel(string(v.Severity), cfg.UseColors), v.PackageName, v.Title)
		}
	}
	fmt.Fprintf(w, "Checked in %s\n", duration.Round(time.Millisecond))
	return nil
}

// writeAnnotations emits ::error:: for critical/high violations and ::warning:: otherwise.
func writeAnnotations(w io.Writer, result schema.CheckResult) {
	for _, v := range result.Violations {
		level := "warning"
		if v.Severity.AtOrAbove(schema.SeverityHigh) {
			level = "error"
		}
		fmt.Fprintf(w, "::%s title=%s::%s (%s)\n", level, escapeProperty(v.PackageName+": "+v.Title),
			escapeData(v.Description), v.Type)
	}
	if result.ScoreFailed {
		fmt.Fprintf(w, "::error title=depshield::Overall score %s is below the minimum of %s\n",
			strconv.Itoa(result.OverallScore), strconv.Itoa(result.MinScore))
	}
}

var (
	dataEscaper     = strings.NewReplacer("%", "%25", "\r", "%0D", "\n", "%0A")
	propertyEscaper = strings.NewReplacer("%", "%25", "\r", "%0D", "\n", "%0A", ":", "%3A", ",", "%2C")
)

// escapeData encodes a workflow command message.
func escapeData(s string) string { return dataEscaper.Replace(s) }

// escapeProperty encodes a workflow command property value.
func escapeProperty(s string) string { return propertyEscaper.Replace(s) }
