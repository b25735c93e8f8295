package core

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/huangsam/depshield/internal/contract"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestParseTarget(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "package.json"), []byte(`{}`), 0o644))

	tests := []struct {
		name     string
		raw      string
		expected Target
		wantErr  error
	}{
		{"empty selects package.json", "", Target{Kind: TargetFile, Raw: "package.json", Path: "package.json"}, nil},
		{"json path", "./web/package.json", Target{Kind: TargetFile, Raw: "./web/package.json", Path: "./web/package.json"}, nil},
		{"directory with manifest", dir, Target{Kind: TargetFile, Raw: dir, Path: filepath.Join(dir, "package.json")}, nil},
		{"unscoped name", "express", Target{Kind: TargetPackage, Raw: "express", Name: "express"}, nil},
		{"scoped name", "@types/node", Target{Kind: TargetPackage, Raw: "@types/node", Name: "@types/node"}, nil},
		{"github url", "https://github.com/expressjs/express.git", Target{Kind: TargetGitHub, Raw: "https://github.com/expressjs/express.git", Owner: "expressjs", Repo: "express"}, nil},
		{"github host without scheme", "github.com/acme/web/", Target{Kind: TargetGitHub, Raw: "github.com/acme/web/", Owner: "acme", Repo: "web"}, nil},
		{"owner repo shorthand", "acme/web", Target{Kind: TargetGitHub, Raw: "acme/web", Owner: "acme", Repo: "web"}, nil},
		{"invalid", "not a package!", Target{}, ErrInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseTarget(tt.raw)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestTargetDisplayName(t *testing.T) {
	assert.Equal(t, "acme/web", Target{Kind: TargetGitHub, Owner: "acme", Repo: "web"}.DisplayName())
	assert.Equal(t, "express", Target{Kind: TargetPackage, Name: "express"}.DisplayName())
	assert.Equal(t, "a/package.json", Target{Kind: TargetFile, Path: "a/package.json"}.DisplayName())
}

func TestParseManifest(t *testing.T) {
	tests := []struct {
		name       string
		data       string
		includeDev bool
		wantName   string
		wantDeps   []string
		wantErr    error
	}{
		{
			name:     "document order",
			data:     `{"name":"web","dependencies":{"zod":"^3.0.0","axios":"^1.6.0"}}`,
			wantName: "web",
			wantDeps: []string{"zod", "axios"},
		},
		{
			name:       "dev dependencies appended without duplicates",
			data:       `{"dependencies":{"react":"18"},"devDependencies":{"jest":"29","react":"18"}}`,
			includeDev: true,
			wantDeps:   []string{"react", "jest"},
		},
		{
			name:    "dev dependencies ignored by default",
			data:    `{"devDependencies":{"jest":"29"}}`,
			wantErr: ErrNoDependencies,
		},
		{name: "invalid json", data: `{"dependencies":`, wantErr: ErrInvalidManifest},
		{name: "not an object", data: `["react"]`, wantErr: ErrInvalidManifest},
		{name: "empty", data: `{}`, wantErr: ErrNoDependencies},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			name, deps, err := ParseManifest([]byte(tt.data), tt.includeDev)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantName, name)
			got := make([]string, len(deps))
			for i, d := range deps {
				got[i] = d.Name
				assert.True(t, d.IsDirect)
			}
			assert.Equal(t, tt.wantDeps, got)
		})
	}
}

func TestResolveDependencies(t *testing.T) {
	ctx := context.Background()

	t.Run("local file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "package.json")
		require.NoError(t, os.WriteFile(path, []byte(`{"name":"web","dependencies":{"react":"^18.2.0"}}`), 0o644))

		name, deps, err := ResolveDependencies(ctx, Target{Kind: TargetFile, Path: path}, Sources{}, false)
		require.NoError(t, err)
		assert.Equal(t, "web", name)
		assert.Equal(t, []DependencyRequest{{Name: "react", Version: "^18.2.0", IsDirect: true}}, deps)
	})

	t.Run("missing file", func(t *testing.T) {
		_, _, err := ResolveDependencies(ctx, Target{Kind: TargetFile, Path: filepath.Join(t.TempDir(), "package.json")}, Sources{}, false)
		assert.ErrorIs(t, err, ErrManifestNotFound)
	})

	t.Run("github manifest", func(t *testing.T) {
		manifest := &contract.MockManifestSource{}
		manifest.On("FetchManifest", mock.Anything, "acme", "web").Return([]byte(`{"dependencies":{"lodash":"4"}}`), nil)

		name, deps, err := ResolveDependencies(ctx, Target{Kind: TargetGitHub, Owner: "acme", Repo: "web"}, Sources{Manifest: manifest}, false)
		require.NoError(t, err)
		assert.Equal(t, "acme/web", name)
		assert.Len(t, deps, 1)
		manifest.AssertExpectations(t)
	})

	t.Run("github manifest errors", func(t *testing.T) {
		tests := []struct {
			name     string
			fetchErr error
			want     error
			notWant  error
		}{
			{"missing package.json", fmt.Errorf("no package.json in acme/web: %w", contract.ErrManifestMissing), ErrManifestNotFound, ErrSourceUnavailable},
			{"host unreachable", errors.New("dial tcp: connection refused"), ErrSourceUnavailable, ErrManifestNotFound},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				manifest := &contract.MockManifestSource{}
				manifest.On("FetchManifest", mock.Anything, "acme", "web").Return(nil, tt.fetchErr)

				_, _, err := ResolveDependencies(ctx, Target{Kind: TargetGitHub, Owner: "acme", Repo: "web"}, Sources{Manifest: manifest}, false)
				assert.ErrorIs(t, err, tt.want)
				assert.NotErrorIs(t, err, tt.notWant)
			})
		}
	})

	t.Run("registry unreachable for package target", func(t *testing.T) {
		meta := &contract.MockMetadataSource{}
		meta.On("FetchPackage", mock.Anything, "express").Return(nil, errors.New("503 service unavailable"))

		_, _, err := ResolveDependencies(ctx, Target{Kind: TargetPackage, Name: "express"}, Sources{Metadata: meta}, false)
		assert.ErrorIs(t, err, ErrSourceUnavailable)
	})

	t.Run("package name expands to latest dependencies", func(t *testing.T) {
		meta := &contract.MockMetadataSource{}
		meta.On("FetchPackage", mock.Anything, "express").
			Return(packument("express", "", map[string]string{"qs": "6", "body-parser": "1"}), nil)

		name, deps, err := ResolveDependencies(ctx, Target{Kind: TargetPackage, Name: "express"}, Sources{Metadata: meta}, false)
		require.NoError(t, err)
		assert.Equal(t, "express", name)
		assert.Equal(t, []DependencyRequest{
			{Name: "express", Version: "2.0.0", IsDirect: true},
			{Name: "body-parser", Version: "1", IsDirect: true},
			{Name: "qs", Version: "6", IsDirect: true},
		}, deps)
	})

	t.Run("package not found", func(t *testing.T) {
		meta := &contract.MockMetadataSource{}
		meta.On("FetchPackage", mock.Anything, "ghost").Return(nil, contract.ErrPackageNotFound)

		_, _, err := ResolveDependencies(ctx, Target{Kind: TargetPackage, Name: "ghost"}, Sources{Metadata: meta}, false)
		assert.ErrorIs(t, err, contract.ErrPackageNotFound)
	})
}
