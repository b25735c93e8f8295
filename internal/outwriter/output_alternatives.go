package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/huangsam/depshield/core/algo"
	"github.com/huangsam/depshield/internal/contract"
	"github.com/huangsam/depshield/schema"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// alternativeRow is the flat view of one curated alternative.
type alternativeRow struct {
	From string `json:"from"`
	schema.Alternative
}

// PrintAlternatives outputs the curated alternatives table. A non-empty name
// restricts the output to that package's alternatives.
func PrintAlternatives(table algo.AlternativesTable, name string, cfg *contract.Config) error {
	rows := flattenAlternatives(table, name)
	if name != "" && len(rows) == 0 {
		return fmt.Errorf("no curated alternatives for %q", name)
	}

	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, rows)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeAlternativesCSV(w, rows)
		}, "Wrote CSV")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeAlternativesTable(w, rows, cfg)
		}, "Wrote table")
	}
}

func flattenAlternatives(table algo.AlternativesTable, name string) []alternativeRow {
	names := table.Names()
	if name != "" {
		names = []string{name}
	}
	rows := []alternativeRow{}
	for _, from := range names {
		for _, alt := range table.Lookup(from) {
			rows = append(rows, alternativeRow{From: from, Alternative: alt})
		}
	}
	return rows
}

func writeAlternativesCSV(w io.Writer, rows []alternativeRow) error {
	header := []string{"from", "to", "health_grade", "effort", "weekly_downloads", "reason"}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for _, r := range rows {
			record := []string{r.From, r.Name, string(r.HealthGrade), string(r.Effort), strconv.Itoa(r.WeeklyDownloads), r.Reason}
			if err := cw.Write(record); err != nil {
				return fmt.Errorf("failed to write CSV row: %w", err)
			}
		}
		return nil
	})
}

func writeAlternativesTable(w io.Writer, rows []alternativeRow, cfg *contract.Config) error {
	reasonWidth := getMaxTextWidth(cfg, 70)

	table := tablewriter.NewWriter(w)
	table.Header([]string{"From", "To", "Grade", "Effort", "Downloads", "Reason"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignLeft
	})

	data := make([][]string, 0, len(rows))
	for _, r := range rows {
		data = append(data, []string{
			r.From,
			r.Name,
			gradeLabel(r.HealthGrade, cfg.UseColors),
			string(r.Effort),
			strconv.Itoa(r.WeeklyDownloads),
			contract.TruncateText(r.Reason, reasonWidth),
		})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}
	fmt.Fprintf(w, "%d alternatives for %d packages\n", len(rows), countSources(rows))
	return nil
}

func countSources(rows []alternativeRow) int {
	seen := map[string]struct{}{}
	for _, r := range rows {
		seen[r.From] = struct{}{}
	}
	return len(seen)
}
