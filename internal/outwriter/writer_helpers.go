package outwriter

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/huangsam/depshield/internal/contract"
	"github.com/huangsam/depshield/schema"
)

// writeWithFile opens the configured output (stdout when empty), runs writer
// against it and reports where the output went.
func writeWithFile(outputFile string, writer func(io.Writer) error, successMsg string) error {
	file, err := contract.SelectOutputFile(outputFile)
	if err != nil {
		return err
	}
	// Only close if it's not stdout
	if file != os.Stdout {
		defer func() { _ = file.Close() }()
	}

	if err := writer(file); err != nil {
		return err
	}

	if file != os.Stdout {
		fmt.Fprintf(os.Stderr, "%s to %s\n", successMsg, outputFile)
	}
	return nil
}

// writeJSON encodes data with two-space indentation.
func writeJSON(w io.Writer, data any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(data); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}

// writeCSVWithHeader writes a header row followed by the rows produced by writeRows.
func writeCSVWithHeader(w io.Writer, header []string, writeRows func(*csv.Writer) error) error {
	csvWriter := csv.NewWriter(w)
	defer csvWriter.Flush()

	if err := csvWriter.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	return writeRows(csvWriter)
}

// createFormatter returns a float formatter for the configured precision.
func createFormatter(precision int) func(float64) string {
	return func(v float64) string {
		return fmt.Sprintf("%.*f", precision, v)
	}
}

// levelLabel renders a severity or risk level, colored when enabled.
func levelLabel(level string, useColors bool) string {
	if useColors {
		return contract.GetColorLabel(level)
	}
	return contract.GetPlainLabel(level)
}

// gradeLabel renders a grade, colored when enabled.
func gradeLabel(grade schema.Grade, useColors bool) string {
	if useColors {
		return contract.GetGradeColor(grade)
	}
	return string(grade)
}

// severityMarker is the short prefix used in alert listings.
func severityMarker(sev schema.Severity, useEmojis bool) string {
	if !useEmojis {
		return strings.ToUpper(string(sev))
	}
	switch sev {
	case schema.SeverityCritical:
		return "🔴 CRITICAL"
	case schema.SeverityHigh:
		return "🟠 HIGH"
	case schema.SeverityMedium:
		return "🟡 MEDIUM"
	case schema.SeverityLow:
		return "🔵 LOW"
	default:
		return "🟢 " + strings.ToUpper(string(sev))
	}
}

// orDash returns s, or "-" when s is blank.
func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}

// formatDays renders a day count, mapping the unknown sentinel to "never".
func formatDays(days int) string {
	if days >= schema.DaysUnknown {
		return "never"
	}
	return fmt.Sprintf("%dd", days)
}

// busFactorLabel renders the bus factor, or "-" when no contributor data was available.
func busFactorLabel(mh schema.MaintainerHealthResult) string {
	if mh.BusFactorUnknown {
		return "-"
	}
	return strconv.Itoa(mh.BusFactor)
}
