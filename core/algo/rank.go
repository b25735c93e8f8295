package algo

import (
	"sort"

	"github.com/huangsam/depshield/schema"
)

// RankDependencies sorts reports from least to most healthy (ties by name)
// and returns the first 'limit' entries. A limit <= 0 returns everything.
func RankDependencies(reports []schema.DependencyReport, limit int) []schema.DependencyReport {
	sort.SliceStable(reports, func(i, j int) bool {
		if reports[i].Health.Score != reports[j].Health.Score {
			return reports[i].Health.Score < reports[j].Health.Score
		}
		return reports[i].Name < reports[j].Name
	})
	if limit > 0 && len(reports) > limit {
		return reports[:limit]
	}
	return reports
}
