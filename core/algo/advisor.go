package algo

import (
	"fmt"
	"maps"
	"os"
	"slices"
	"strings"

	"github.com/huangsam/depshield/schema"
	"gopkg.in/yaml.v3"
)

// suggestionScoreThreshold is the composite score below which alternatives are offered.
const suggestionScoreThreshold = 60

// AlternativesTable maps lower-cased package names to curated alternatives.
type AlternativesTable map[string][]schema.Alternative

// Lookup returns a copy of the alternatives for name, case-insensitively.
func (t AlternativesTable) Lookup(name string) []schema.Alternative {
	return slices.Clone(t[strings.ToLower(strings.TrimSpace(name))])
}

// Names returns the sorted source package names in the table.
func (t AlternativesTable) Names() []string {
	return slices.Sorted(maps.Keys(t))
}

// Merge returns a new table where entries of other replace those of t.
func (t AlternativesTable) Merge(other AlternativesTable) AlternativesTable {
	out := make(AlternativesTable, len(t)+len(other))
	for k, v := range t {
		out[k] = slices.Clone(v)
	}
	for k, v := range other {
		out[strings.ToLower(k)] = slices.Clone(v)
	}
	return out
}

// LoadAlternativesFile reads a YAML mapping of package name to alternatives.
//
//	moment:
//	  - name: dayjs
//	    description: Tiny date library
//	    weekly_downloads: 18000000
//	    health_grade: A
//	    effort: low
//	    reason: Nearly identical API
func LoadAlternativesFile(path string) (AlternativesTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read alternatives file: %w", err)
	}
	var raw map[string][]schema.Alternative
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse alternatives file %s: %w", path, err)
	}
	table := make(AlternativesTable, len(raw))
	for name, alts := range raw {
		for i, a := range alts {
			if a.Name == "" {
				return nil, fmt.Errorf("alternative %d for '%s' has no name", i, name)
			}
			switch a.Effort {
			case schema.EffortLow, schema.EffortMedium, schema.EffortHigh:
			default:
				return nil, fmt.Errorf("alternative '%s' for '%s' has invalid effort '%s'", a.Name, name, a.Effort)
			}
		}
		table[strings.ToLower(name)] = alts
	}
	return table, nil
}

// Advisor suggests curated alternatives for weak packages.
type Advisor struct {
	table AlternativesTable
}

// NewAdvisor creates an advisor over a table.
func NewAdvisor(table AlternativesTable) *Advisor {
	return &Advisor{table: table}
}

// ShouldSuggest reports whether a package is weak enough to warrant alternatives.
func ShouldSuggest(score int, risk schema.RiskLevel) bool {
	return score < suggestionScoreThreshold || risk == schema.RiskCritical || risk == schema.RiskHigh
}

// Suggest returns migration suggestions for name, or an empty list when the
// package is healthy or has no curated alternatives.
func (a *Advisor) Suggest(name string, score int, risk schema.RiskLevel) []schema.MigrationSuggestion {
	suggestions := []schema.MigrationSuggestion{}
	alts := a.table.Lookup(name)
	if len(alts) == 0 || !ShouldSuggest(score, risk) {
		return suggestions
	}
	for _, alt := range alts {
		suggestions = append(suggestions, schema.MigrationSuggestion{
			From:            name,
			To:              alt.Name,
			ToDescription:   alt.Description,
			WeeklyDownloads: alt.WeeklyDownloads,
			HealthGrade:     alt.HealthGrade,
			Effort:          alt.Effort,
			Reason:          alt.Reason,
		})
	}
	return suggestions
}
