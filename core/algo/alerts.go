package algo

import (
	"fmt"
	"sort"
	"strings"

	"github.com/huangsam/depshield/schema"
)

// Alert thresholds.
const (
	takeoverAlertScore    = 50
	takeoverCriticalScore = 70
	staleDays             = 365
	veryStaleDays         = 730
)

// BuildAlerts projects analyzer results into one alert per triggered condition.
func BuildAlerts(name string, b schema.AnalysisBundle) []schema.RiskAlert {
	alerts := []schema.RiskAlert{}
	mh := b.MaintainerHealth

	if mh.BusFactor <= 1 && !mh.BusFactorUnknown {
		sev := schema.SeverityHigh
		if mh.BusFactor == 0 {
			sev = schema.SeverityCritical
		}
		alerts = append(alerts, schema.RiskAlert{
			ID:          name + "-bus-factor",
			Type:        schema.AlertBusFactor,
			Severity:    sev,
			Title:       fmt.Sprintf("Bus factor of %d", mh.BusFactor),
			Description: fmt.Sprintf("%s has %d active maintainer(s). If they become unavailable, the package may be unmaintained.", name, mh.ActiveMaintainers),
			PackageName: name,
			Evidence: fmt.Sprintf("%d total maintainers, %d active, last commit %s.",
				mh.TotalMaintainers, mh.ActiveMaintainers, formatDaysAgo(mh.LastCommitDaysAgo)),
		})
	}

	if tr := b.TakeoverRisk; tr.Score >= takeoverAlertScore {
		sev := schema.SeverityHigh
		if tr.Score >= takeoverCriticalScore {
			sev = schema.SeverityCritical
		}
		alerts = append(alerts, schema.RiskAlert{
			ID:          name + "-takeover",
			Type:        schema.AlertTakeoverRisk,
			Severity:    sev,
			Title:       "Suspicious maintainer changes detected",
			Description: strings.Join(tr.Signals, ". "),
			PackageName: name,
			Evidence:    strings.Join(tr.Signals, " | "),
		})
	}

	if sq := b.Slopsquatting; sq.IsSuspected {
		alerts = append(alerts, schema.RiskAlert{
			ID:             name + "-slopsquat",
			Type:           schema.AlertSlopsquatting,
			Severity:       schema.SeverityCritical,
			Title:          "Suspected AI-hallucinated package (slopsquatting)",
			Description:    strings.Join(sq.Signals, ". "),
			PackageName:    name,
			Evidence:       strings.Join(sq.Signals, " | "),
			Recommendation: "Remove this package immediately and replace with the legitimate version.",
		})
	}

	if lm := b.LicenseMutation; lm.HasChanged {
		sev := schema.SeverityMedium
		if lm.IsRestrictive {
			sev = schema.SeverityHigh
		}
		alerts = append(alerts, schema.RiskAlert{
			ID:          name + "-license",
			Type:        schema.AlertLicenseChange,
			Severity:    sev,
			Title:       "License mutation detected",
			Description: strings.Join(lm.Signals, ". "),
			PackageName: name,
			Evidence:    fmt.Sprintf("Current: %s. %s", lm.CurrentLicense, strings.Join(lm.Signals, " | ")),
		})
	}

	if mh.LastCommitDaysAgo > staleDays {
		sev := schema.SeverityMedium
		if mh.LastCommitDaysAgo > veryStaleDays {
			sev = schema.SeverityHigh
		}
		desc := fmt.Sprintf("No commits in %d days. Commit frequency: %.2f/month.", mh.LastCommitDaysAgo, mh.CommitFrequency)
		if mh.LastCommitDaysAgo == schema.DaysUnknown {
			desc = fmt.Sprintf("No commit activity on record. Commit frequency: %.2f/month.", mh.CommitFrequency)
		}
		alerts = append(alerts, schema.RiskAlert{
			ID:          name + "-stale",
			Type:        schema.AlertStalePackage,
			Severity:    sev,
			Title:       "Package appears stale",
			Description: desc,
			PackageName: name,
			Evidence:    fmt.Sprintf("Last commit: %s.", formatDaysAgo(mh.LastCommitDaysAgo)),
		})
	}

	return alerts
}

// DeprecationAlert reports a registry deprecation notice on the latest version.
func DeprecationAlert(name, message string) schema.RiskAlert {
	return schema.RiskAlert{
		ID:             name + "-deprecated",
		Type:           schema.AlertDeprecated,
		Severity:       schema.SeverityMedium,
		Title:          "Package is deprecated",
		Description:    fmt.Sprintf("The latest release of %s is marked deprecated by its maintainers.", name),
		PackageName:    name,
		Evidence:       message,
		Recommendation: "Check the deprecation notice for a recommended replacement.",
	}
}

// SortAlerts orders alerts from most to least severe, keeping the original
// order within a severity.
func SortAlerts(alerts []schema.RiskAlert) {
	sort.SliceStable(alerts, func(i, j int) bool {
		return schema.SeverityRank(alerts[i].Severity) < schema.SeverityRank(alerts[j].Severity)
	})
}

func formatDaysAgo(days int) string {
	if days == schema.DaysUnknown {
		return "unknown"
	}
	return fmt.Sprintf("%d days ago", days)
}
