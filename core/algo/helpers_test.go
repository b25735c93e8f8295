package algo

import (
	"time"

	"github.com/huangsam/depshield/schema"
)

// fixedNow is the reference time for all deterministic tests.
var fixedNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func daysAgo(n int) time.Time {
	return fixedNow.Add(-time.Duration(n) * 24 * time.Hour)
}

func iso(t time.Time) string {
	return t.Format(time.RFC3339Nano)
}

func person(name, email string) schema.Person {
	return schema.Person{Name: name, Email: email}
}

// versionSpec describes one release for buildMeta.
type versionSpec struct {
	version     string
	publishedAt time.Time
	license     string
	maintainers []schema.Person
	publisher   string
	repoURL     string
}

// buildMeta assembles a raw registry record from release specs.
func buildMeta(name string, specs ...versionSpec) schema.PackageMetadata {
	meta := schema.PackageMetadata{
		Name:     name,
		Versions: map[string]schema.VersionInfo{},
		Time:     schema.TimeMap{},
		DistTags: map[string]string{},
	}
	for _, s := range specs {
		info := schema.VersionInfo{
			Name:        name,
			Version:     s.version,
			Maintainers: s.maintainers,
			Repository:  schema.Repository{URL: s.repoURL},
		}
		if s.license != "" {
			info.License = schema.License{Value: s.license, Set: true}
		}
		if s.publisher != "" {
			info.NpmUser = &schema.Person{Name: s.publisher}
		}
		meta.Versions[s.version] = info
		if !s.publishedAt.IsZero() {
			meta.Time[s.version] = iso(s.publishedAt)
		}
		meta.DistTags["latest"] = s.version
	}
	return meta
}
