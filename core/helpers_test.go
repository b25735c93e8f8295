package core

import (
	"testing"
	"time"

	"github.com/huangsam/depshield/core/algo"
	"github.com/huangsam/depshield/schema"
	"github.com/stretchr/testify/require"
)

// fixedNow is the reference time for all deterministic tests.
var fixedNow = time.Date(2026, 6, 1, 8, 30, 0, 0, time.UTC)

func iso(t time.Time) string {
	return t.Format(time.RFC3339Nano)
}

func newTestEngine(t *testing.T) *algo.Engine {
	t.Helper()
	e, err := algo.NewEngine(algo.EngineConfig{Now: func() time.Time { return fixedNow }})
	require.NoError(t, err)
	return e
}

// packument builds a small registry document whose latest version depends on deps.
func packument(name, repoURL string, deps map[string]string) *schema.PackageMetadata {
	published := fixedNow.Add(-20 * 24 * time.Hour)
	return &schema.PackageMetadata{
		Name:        name,
		Description: name + " does things",
		DistTags:    map[string]string{"latest": "2.0.0"},
		Maintainers: []schema.Person{{Name: "alice", Email: "alice@example.com"}, {Name: "bob", Email: "bob@example.com"}},
		Repository:  schema.Repository{URL: repoURL},
		License:     schema.License{Value: "MIT", Set: true},
		Time: schema.TimeMap{
			"created":  iso(fixedNow.Add(-900 * 24 * time.Hour)),
			"modified": iso(published),
			"1.0.0":    iso(fixedNow.Add(-400 * 24 * time.Hour)),
			"2.0.0":    iso(published),
		},
		Versions: map[string]schema.VersionInfo{
			"1.0.0": {Name: name, Version: "1.0.0", License: schema.License{Value: "MIT", Set: true}},
			"2.0.0": {Name: name, Version: "2.0.0", License: schema.License{Value: "MIT", Set: true}, Dependencies: deps},
		},
	}
}
