// Package algo is the deterministic risk-scoring engine. Every function here is
// pure given its inputs and an explicit "now".
package algo

import (
	"maps"
	"slices"
	"sort"
	"strings"
	"time"

	"github.com/huangsam/depshield/schema"
)

// UnknownLicense is the sentinel for absent or empty license metadata.
const UnknownLicense = "UNKNOWN"

const day = 24 * time.Hour

// Normalize produces the clean, chronologically sorted view of a raw registry record.
// Versions without a parsable publish timestamp sort first (epoch 0); ties are
// broken by the version string so the output is stable.
func Normalize(meta schema.PackageMetadata) schema.NormalizedMetadata {
	versions := make([]schema.NormalizedVersion, 0, len(meta.Versions))
	hasRepo := strings.TrimSpace(meta.Repository.URL) != ""
	for v, info := range meta.Versions {
		publisher := ""
		if info.NpmUser != nil {
			publisher = normalizeIdentity(info.NpmUser.Name)
		}
		if strings.TrimSpace(info.Repository.URL) != "" {
			hasRepo = true
		}
		versions = append(versions, schema.NormalizedVersion{
			Version:       v,
			License:       NormalizeLicense(info.License),
			Maintainers:   slices.Clone(info.Maintainers),
			Publisher:     publisher,
			RepositoryURL: NormalizeRepositoryURL(info.Repository.URL),
			PublishedAtMs: parseTimestampMs(meta.Time[v]),
		})
	}
	sort.Slice(versions, func(i, j int) bool {
		if versions[i].PublishedAtMs != versions[j].PublishedAtMs {
			return versions[i].PublishedAtMs < versions[j].PublishedAtMs
		}
		return versions[i].Version < versions[j].Version
	})

	latest := meta.DistTags["latest"]
	if _, ok := meta.Versions[latest]; !ok && len(versions) > 0 {
		latest = versions[len(versions)-1].Version
	}

	out := schema.NormalizedMetadata{
		Name:             meta.Name,
		LatestVersion:    latest,
		Description:      meta.Description,
		Homepage:         meta.Homepage,
		License:          NormalizeLicense(meta.License),
		RepositoryURL:    NormalizeRepositoryURL(meta.Repository.URL),
		Maintainers:      slices.Clone(meta.Maintainers),
		CreatedAt:        parseTimestamp(meta.Time["created"]),
		ModifiedAt:       parseTimestamp(meta.Time["modified"]),
		Versions:         versions,
		HasAnyRepository: hasRepo,
	}
	if info, ok := meta.Versions[latest]; ok {
		out.Deprecated = info.Deprecated.Message
		out.Dependencies = maps.Clone(info.Dependencies)
	}
	if out.ModifiedAt.IsZero() {
		out.ModifiedAt = parseTimestamp(meta.Time[latest])
	}
	return out
}

// NormalizeLicense trims the declared license and maps absent or empty values to UNKNOWN.
func NormalizeLicense(l schema.License) string {
	if !l.Set {
		return UnknownLicense
	}
	v := strings.TrimSpace(l.Value)
	if v == "" {
		return UnknownLicense
	}
	return v
}

// NormalizeRepositoryURL lower-cases a repository URL and strips the git+ prefix and .git suffix.
func NormalizeRepositoryURL(url string) string {
	u := strings.ToLower(strings.TrimSpace(url))
	u = strings.TrimPrefix(u, "git+")
	return strings.TrimSuffix(u, ".git")
}

func normalizeIdentity(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func parseTimestamp(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

func parseTimestampMs(s string) int64 {
	t := parseTimestamp(s)
	if t.IsZero() {
		return 0
	}
	return t.UnixMilli()
}

// daysSince returns whole days between t and now, floored at 0.
// A zero t yields schema.DaysUnknown.
func daysSince(now, t time.Time) int {
	if t.IsZero() {
		return schema.DaysUnknown
	}
	d := now.Sub(t)
	if d < 0 {
		return 0
	}
	return int(d / day)
}

func clamp(v, lo, hi float64) float64 {
	return max(lo, min(hi, v))
}
