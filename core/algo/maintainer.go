package algo

import (
	"fmt"
	"slices"
	"sort"
	"strings"
	"time"

	"github.com/huangsam/depshield/schema"
)

// recentWeeks is the trailing window used for commit frequency (about one quarter).
const recentWeeks = 12

// busFactorShare is the cumulative contribution share that defines the bus factor.
const busFactorShare = 0.8

// AnalyzeMaintainerHealth scores maintenance activity and bus factor.
// A nil activity means no VCS data; recency then falls back to the registry's
// last-modified timestamp and frequency is treated as zero commits. Bus factor
// and open issues without data are flagged unknown instead of scored as zero.
func AnalyzeMaintainerHealth(meta schema.NormalizedMetadata, activity *schema.CommitActivity, now time.Time) schema.MaintainerHealthResult {
	var weeks []schema.WeeklyCommits
	var contributors []schema.Contributor
	openIssues := 0
	issuesUnknown := activity == nil
	if activity != nil {
		weeks = slices.Clone(activity.Weeks)
		contributors = slices.Clone(activity.Contributors)
		openIssues = activity.OpenIssues
	}

	sort.SliceStable(weeks, func(i, j int) bool { return weeks[i].WeekStart < weeks[j].WeekStart })

	lastCommitDaysAgo := daysSince(now, meta.ModifiedAt)
	for i := len(weeks) - 1; i >= 0; i-- {
		if weeks[i].Total > 0 {
			lastCommitDaysAgo = daysSince(now, time.Unix(weeks[i].WeekStart, 0))
			break
		}
	}

	recent := weeks
	if len(recent) > recentWeeks {
		recent = recent[len(recent)-recentWeeks:]
	}
	recentCommits := 0
	for _, w := range recent {
		recentCommits += w.Total
	}
	commitFrequency := float64(recentCommits) / 3

	busFactor, totalContributions := computeBusFactor(contributors)
	busFactorUnknown := totalContributions == 0
	totalMaintainers := len(meta.Maintainers)
	activeMaintainers := inferActiveMaintainers(meta.Maintainers, contributors, recentCommits > 0)

	score := recencyScore(lastCommitDaysAgo) +
		frequencyScore(commitFrequency) +
		busFactorScore(busFactor) +
		issueBacklogScore(openIssues, issuesUnknown)

	signals := []string{}
	if lastCommitDaysAgo >= 365 {
		if lastCommitDaysAgo == schema.DaysUnknown {
			signals = append(signals, "No recent commit on record")
		} else {
			signals = append(signals, fmt.Sprintf("No recent commit in %d days", lastCommitDaysAgo))
		}
	}
	if commitFrequency < 0.5 {
		signals = append(signals, fmt.Sprintf("Low commit velocity (%.2f commits/month)", commitFrequency))
	}
	if busFactor <= 1 && !busFactorUnknown {
		signals = append(signals, "Critical bus factor: one contributor dominates over 80% of commits")
	} else if busFactor == 2 {
		signals = append(signals, "Bus factor warning: top two contributors control most commits")
	}
	if openIssues >= 200 {
		signals = append(signals, fmt.Sprintf("High open issue backlog (%d open issues)", openIssues))
	} else if openIssues >= 50 {
		signals = append(signals, fmt.Sprintf("Moderate open issue backlog (%d open issues)", openIssues))
	}
	if activeMaintainers <= 1 && totalMaintainers > 1 && !busFactorUnknown {
		signals = append(signals, fmt.Sprintf("Only %d active maintainer inferred from %d maintainers", activeMaintainers, totalMaintainers))
	}

	return schema.MaintainerHealthResult{
		Score:                 int(clamp(float64(score), 0, 100)),
		LastCommitDaysAgo:     lastCommitDaysAgo,
		CommitFrequency:       commitFrequency,
		IssueResponseTimeDays: issueResponseProxy(openIssues, issuesUnknown),
		BusFactor:             busFactor,
		ActiveMaintainers:     activeMaintainers,
		TotalMaintainers:      totalMaintainers,
		Signals:               signals,
		BusFactorUnknown:      busFactorUnknown,
		OpenIssuesUnknown:     issuesUnknown,
	}
}

// computeBusFactor returns the number of top contributors whose cumulative
// share first exceeds 80%, and the total contribution count.
func computeBusFactor(contributors []schema.Contributor) (int, int) {
	total := 0
	for _, c := range contributors {
		total += c.Contributions
	}
	if total == 0 {
		return 0, 0
	}
	sorted := slices.Clone(contributors)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Contributions > sorted[j].Contributions })

	share := 0.0
	factor := 0
	for _, c := range sorted {
		share += float64(c.Contributions) / float64(total)
		factor++
		if share > busFactorShare {
			break
		}
	}
	return factor, total
}

// inferActiveMaintainers matches registry maintainers to VCS logins by name or
// email local part. Recent commits guarantee at least one active maintainer.
func inferActiveMaintainers(maintainers []schema.Person, contributors []schema.Contributor, hasRecentCommits bool) int {
	logins := make(map[string]struct{}, len(contributors))
	for _, c := range contributors {
		logins[normalizeIdentity(c.Login)] = struct{}{}
	}

	matches := 0
	for _, m := range maintainers {
		local, _, _ := strings.Cut(m.Email, "@")
		_, byName := logins[normalizeIdentity(m.Name)]
		_, byEmail := logins[normalizeIdentity(local)]
		if byName || byEmail {
			matches++
		}
	}

	total := len(maintainers)
	floor := 0
	if hasRecentCommits && total > 0 {
		floor = 1
	}
	return min(total, max(matches, floor))
}

func recencyScore(days int) int {
	switch {
	case days < 30:
		return 30
	case days < 90:
		return 20
	case days < 365:
		return 10
	default:
		return 0
	}
}

func frequencyScore(perMonth float64) int {
	switch {
	case perMonth >= 4:
		return 25
	case perMonth >= 2:
		return 15
	case perMonth >= 0.5:
		return 5
	default:
		return 0
	}
}

func busFactorScore(bf int) int {
	switch {
	case bf >= 3:
		return 25
	case bf == 2:
		return 15
	case bf == 1:
		return 5
	default:
		return 0
	}
}

// issueBacklogScore gives an unknown backlog the middle band.
func issueBacklogScore(openIssues int, unknown bool) int {
	switch {
	case unknown:
		return 10
	case openIssues < 50:
		return 20
	case openIssues < 200:
		return 10
	default:
		return 0
	}
}

// issueResponseProxy maps the open issue backlog to a rough response time in days.
// It is 0 when the backlog is unknown.
func issueResponseProxy(openIssues int, unknown bool) int {
	switch {
	case unknown:
		return 0
	case openIssues < 50:
		return 3
	case openIssues < 200:
		return 14
	default:
		return 45
	}
}
