package algo

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/agnivade/levenshtein"
	"github.com/huangsam/depshield/schema"
)

// Slopsquatting thresholds.
const (
	maxNameDistance     = 2
	suspiciousAgeDays   = 90
	suspiciousDownloads = 500
	suspicionThreshold  = 60
	maxCitedSimilar     = 3
)

// FindSimilarNames returns corpus entries within edit distance 2 of name,
// sorted by distance then name. An identical name is never reported.
func FindSimilarNames(name string, corpus Corpus) []schema.SimilarPackage {
	similar := []schema.SimilarPackage{}
	for _, candidate := range corpus.names {
		if candidate == name {
			continue
		}
		d := levenshtein.ComputeDistance(name, candidate)
		if d > maxNameDistance {
			continue
		}
		similar = append(similar, schema.SimilarPackage{
			Name:      candidate,
			Distance:  d,
			Downloads: corpus.referenceDownloads,
		})
	}
	sort.Slice(similar, func(i, j int) bool {
		if similar[i].Distance != similar[j].Distance {
			return similar[i].Distance < similar[j].Distance
		}
		return similar[i].Name < similar[j].Name
	})
	return similar
}

// AnalyzeSlopsquatting scores the conjunction of newness, low adoption,
// missing provenance, name collision and a single release.
func AnalyzeSlopsquatting(meta schema.NormalizedMetadata, weeklyDownloads int, corpus Corpus, now time.Time) schema.SlopsquattingResult {
	age := daysSince(now, meta.CreatedAt)
	singleVersion := len(meta.Versions) == 1
	similar := FindSimilarNames(meta.Name, corpus)

	score := 0
	signals := []string{}
	if age < suspiciousAgeDays {
		score += 30
		signals = append(signals, fmt.Sprintf("Recently published package (%d days old)", age))
	}
	if weeklyDownloads < suspiciousDownloads {
		score += 25
		signals = append(signals, fmt.Sprintf("Low adoption (%d weekly downloads)", weeklyDownloads))
	}
	if !meta.HasAnyRepository {
		score += 15
		signals = append(signals, "No repository URL provided")
	}
	if len(similar) > 0 {
		cited := similar[:min(maxCitedSimilar, len(similar))]
		parts := make([]string, len(cited))
		for i, s := range cited {
			parts[i] = fmt.Sprintf("%s (distance %d)", s.Name, s.Distance)
		}
		score += 20
		signals = append(signals, "Name closely resembles popular package(s): "+strings.Join(parts, ", "))
	}
	if singleVersion {
		score += 10
		signals = append(signals, "Only one version published")
	}
	score = min(100, score)

	return schema.SlopsquattingResult{
		Score:           score,
		IsSuspected:     score >= suspicionThreshold,
		SimilarPackages: similar,
		PackageAge:      age,
		WeeklyDownloads: weeklyDownloads,
		HasRepository:   meta.HasAnyRepository,
		SingleVersion:   singleVersion,
		Signals:         signals,
	}
}
