package algo

import (
	"testing"

	"github.com/huangsam/depshield/schema"
	"github.com/stretchr/testify/assert"
)

// weeklyBuckets returns 52 weekly buckets ending at fixedNow, all zero except
// the bucket starting activeDaysAgo days before fixedNow.
func weeklyBuckets(activeDaysAgo, commits int) []schema.WeeklyCommits {
	weeks := make([]schema.WeeklyCommits, 0, 52)
	for i := 51; i >= 0; i-- {
		weeks = append(weeks, schema.WeeklyCommits{WeekStart: daysAgo(i * 7).Unix()})
	}
	weeks = append(weeks, schema.WeeklyCommits{WeekStart: daysAgo(activeDaysAgo).Unix(), Total: commits})
	return weeks
}

func TestMaintainerHealthStaleSingleMaintainer(t *testing.T) {
	tests := []struct {
		name            string
		contributors    []schema.Contributor
		expectBusFactor int
		expectCritical  bool
		expectUnknown   bool
	}{
		{
			name:            "one dominant contributor",
			contributors:    []schema.Contributor{{Login: "alice", Contributions: 120}},
			expectBusFactor: 1,
			expectCritical:  true,
		},
		{
			name:            "no contributions recorded",
			contributors:    nil,
			expectBusFactor: 0,
			expectCritical:  false,
			expectUnknown:   true,
		},
	}

	meta := schema.NormalizedMetadata{Maintainers: []schema.Person{person("alice", "alice@example.com")}}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			activity := &schema.CommitActivity{Weeks: weeklyBuckets(240, 4), Contributors: tt.contributors}
			result := AnalyzeMaintainerHealth(meta, activity, fixedNow)

			assert.Equal(t, 240, result.LastCommitDaysAgo)
			assert.LessOrEqual(t, result.Score, 50)
			assert.Equal(t, tt.expectBusFactor, result.BusFactor)
			assert.Equal(t, 0.0, result.CommitFrequency)
			assert.Contains(t, result.Signals, "Low commit velocity (0.00 commits/month)")
			assert.Equal(t, tt.expectUnknown, result.BusFactorUnknown)
			assert.False(t, result.OpenIssuesUnknown)
			// Staleness is only signalled from 365 days on.
			for _, s := range result.Signals {
				assert.NotContains(t, s, "No recent commit")
			}
			if tt.expectCritical {
				assert.Contains(t, result.Signals, "Critical bus factor: one contributor dominates over 80% of commits")
			} else {
				assert.NotContains(t, result.Signals, "Critical bus factor: one contributor dominates over 80% of commits")
			}
		})
	}
}

func TestMaintainerHealthRecencyFallback(t *testing.T) {
	tests := []struct {
		name       string
		meta       schema.NormalizedMetadata
		activity   *schema.CommitActivity
		expected   int
		staleLabel string
	}{
		{
			name:     "no activity uses modified",
			meta:     schema.NormalizedMetadata{ModifiedAt: daysAgo(10)},
			expected: 10,
		},
		{
			name:     "all-zero buckets use modified",
			meta:     schema.NormalizedMetadata{ModifiedAt: daysAgo(400)},
			activity: &schema.CommitActivity{Weeks: []schema.WeeklyCommits{{WeekStart: daysAgo(7).Unix()}}},
			expected: 400,

			staleLabel: "No recent commit in 400 days",
		},
		{
			name:       "nothing known",
			meta:       schema.NormalizedMetadata{},
			expected:   schema.DaysUnknown,
			staleLabel: "No recent commit on record",
		},
		{
			name:     "future timestamps floor at zero",
			meta:     schema.NormalizedMetadata{ModifiedAt: fixedNow.AddDate(0, 0, 3)},
			expected: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := AnalyzeMaintainerHealth(tt.meta, tt.activity, fixedNow)
			assert.Equal(t, tt.expected, result.LastCommitDaysAgo)
			if tt.staleLabel != "" {
				assert.Equal(t, tt.staleLabel, result.Signals[0])
			}
		})
	}
}

func TestComputeBusFactor(t *testing.T) {
	tests := []struct {
		name          string
		contributions []int
		expected      int
	}{
		{"empty", nil, 0},
		{"all zero", []int{0, 0}, 0},
		{"single", []int{10}, 1},
		{"dominant", []int{90, 10}, 1},
		{"two needed", []int{60, 25, 15}, 2},
		{"three needed", []int{40, 30, 20, 10}, 3},
		{"unsorted input", []int{10, 20, 30, 40}, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var cs []schema.Contributor
			for i, c := range tt.contributions {
				cs = append(cs, schema.Contributor{Login: string(rune('a' + i)), Contributions: c})
			}
			bf, _ := computeBusFactor(cs)
			assert.Equal(t, tt.expected, bf)
		})
	}
}

func TestMaintainerHealthActiveMaintainers(t *testing.T) {
	meta := schema.NormalizedMetadata{
		Maintainers: []schema.Person{person("Alice", "alice@example.com"), person("bob", "Bobby@example.com")},
	}

	t.Run("matches email local part", func(t *testing.T) {
		activity := &schema.CommitActivity{
			Contributors: []schema.Contributor{{Login: "bobby", Contributions: 10}, {Login: "carol", Contributions: 5}},
		}
		result := AnalyzeMaintainerHealth(meta, activity, fixedNow)
		assert.Equal(t, 1, result.ActiveMaintainers)
		assert.Equal(t, 2, result.TotalMaintainers)
		assert.Contains(t, result.Signals, "Only 1 active maintainer inferred from 2 maintainers")
	})

	t.Run("matches name case-insensitively", func(t *testing.T) {
		activity := &schema.CommitActivity{
			Contributors: []schema.Contributor{{Login: "alice", Contributions: 10}, {Login: "BOBBY", Contributions: 5}},
		}
		result := AnalyzeMaintainerHealth(meta, activity, fixedNow)
		assert.Equal(t, 2, result.ActiveMaintainers)
	})

	t.Run("recent commits imply one active", func(t *testing.T) {
		activity := &schema.CommitActivity{Weeks: weeklyBuckets(3, 5)}
		result := AnalyzeMaintainerHealth(meta, activity, fixedNow)
		assert.Equal(t, 1, result.ActiveMaintainers)
	})

	t.Run("never exceeds total", func(t *testing.T) {
		activity := &schema.CommitActivity{Weeks: weeklyBuckets(3, 5)}
		result := AnalyzeMaintainerHealth(schema.NormalizedMetadata{}, activity, fixedNow)
		assert.Equal(t, 0, result.ActiveMaintainers)
	})
}

func TestMaintainerHealthIssueBacklog(t *testing.T) {
	tests := []struct {
		name         string
		openIssues   int
		responseDays int
		signal       string
	}{
		{"small backlog", 10, 3, ""},
		{"moderate backlog", 60, 14, "Moderate open issue backlog (60 open issues)"},
		{"high backlog", 250, 45, "High open issue backlog (250 open issues)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := AnalyzeMaintainerHealth(schema.NormalizedMetadata{}, &schema.CommitActivity{OpenIssues: tt.openIssues}, fixedNow)
			assert.Equal(t, tt.responseDays, result.IssueResponseTimeDays)
			if tt.signal != "" {
				assert.Contains(t, result.Signals, tt.signal)
			}
		})
	}
}

func TestMaintainerHealthWithoutActivity(t *testing.T) {
	meta := schema.NormalizedMetadata{
		Maintainers: []schema.Person{person("alice", "alice@example.com"), person("bob", "bob@example.com")},
		ModifiedAt:  daysAgo(10),
	}
	result := AnalyzeMaintainerHealth(meta, nil, fixedNow)

	assert.True(t, result.BusFactorUnknown)
	assert.True(t, result.OpenIssuesUnknown)
	assert.Equal(t, 0, result.BusFactor)
	assert.Equal(t, 0, result.IssueResponseTimeDays)
	// recency 30, frequency 0, bus factor 0, unknown backlog 10
	assert.Equal(t, 40, result.Score)
	assert.NotContains(t, result.Signals, "Critical bus factor: one contributor dominates over 80% of commits")
	assert.NotContains(t, result.Signals, "Only 0 active maintainer inferred from 2 maintainers")
}

func TestMaintainerHealthActiveProject(t *testing.T) {
	weeks := make([]schema.WeeklyCommits, 0, 12)
	for i := 11; i >= 0; i-- {
		weeks = append(weeks, schema.WeeklyCommits{WeekStart: daysAgo(i*7 + 2).Unix(), Total: 3})
	}
	activity := &schema.CommitActivity{
		Weeks: weeks,
		Contributors: []schema.Contributor{
			{Login: "a", Contributions: 40}, {Login: "b", Contributions: 30},
			{Login: "c", Contributions: 20}, {Login: "d", Contributions: 10},
		},
	}
	result := AnalyzeMaintainerHealth(schema.NormalizedMetadata{Maintainers: []schema.Person{person("a", "a@x.io")}}, activity, fixedNow)

	assert.Equal(t, 2, result.LastCommitDaysAgo)
	assert.InDelta(t, 12.0, result.CommitFrequency, 1e-9)
	assert.Equal(t, 3, result.BusFactor)
	assert.Equal(t, 100, result.Score)
	assert.Empty(t, result.Signals)
}
