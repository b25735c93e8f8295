package core

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/huangsam/depshield/core/algo"
	"github.com/huangsam/depshield/internal/contract"
	"github.com/huangsam/depshield/internal/registry"
	"github.com/tidwall/gjson"
)

// Whole-scan errors.
var (
	ErrInvalidInput      = errors.New(`invalid input. Provide an npm package name (e.g. "express"), a GitHub URL or a path to package.json`)
	ErrManifestNotFound  = errors.New("could not find package.json. Make sure it exists at the repo root")
	ErrInvalidManifest   = errors.New("invalid package.json format")
	ErrNoDependencies    = errors.New("no dependencies found in package.json")
	ErrSourceUnavailable = errors.New("could not reach data source")
)

// DefaultManifest is scanned when no target is given.
const DefaultManifest = "package.json"

// TargetKind identifies how a scan target is resolved.
type TargetKind string

// All target kinds supported.
const (
	TargetFile    TargetKind = "file"
	TargetPackage TargetKind = "package"
	TargetGitHub  TargetKind = "github"
)

var (
	githubHostPattern   = regexp.MustCompile(`(?i)github\.com`)
	scopedNamePattern   = regexp.MustCompile(`(?i)^@[a-z0-9][\w.-]*/[a-z0-9][\w.-]*$`)
	unscopedNamePattern = regexp.MustCompile(`(?i)^[a-z0-9][\w.-]*$`)
	repoPrefixPattern   = regexp.MustCompile(`(?i)^(https?://)?(www\.)?(github\.com/)?`)
)

// Target is a parsed scan target.
type Target struct {
	Kind  TargetKind
	Raw   string
	Path  string // TargetFile
	Name  string // TargetPackage
	Owner string // TargetGitHub
	Repo  string // TargetGitHub
}

// DependencyRequest is one package to scan.
type DependencyRequest struct {
	Name     string
	Version  string
	IsDirect bool
}

// IsNpmPackageName reports whether s is a valid scoped or unscoped npm package name.
func IsNpmPackageName(s string) bool {
	return scopedNamePattern.MatchString(s) || unscopedNamePattern.MatchString(s)
}

// ParseTarget classifies raw as a local manifest, an npm package name or a
// GitHub repository. An empty target selects ./package.json.
func ParseTarget(raw string) (Target, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return Target{Kind: TargetFile, Raw: DefaultManifest, Path: DefaultManifest}, nil
	}

	isGitHub := githubHostPattern.MatchString(trimmed)
	if !isGitHub {
		if path, ok := localManifestPath(trimmed); ok {
			return Target{Kind: TargetFile, Raw: trimmed, Path: path}, nil
		}
		if IsNpmPackageName(trimmed) {
			return Target{Kind: TargetPackage, Raw: trimmed, Name: trimmed}, nil
		}
	}

	if isGitHub || strings.Contains(trimmed, "/") {
		shorthand := repoPrefixPattern.ReplaceAllString(trimmed, "")
		shorthand = strings.TrimSuffix(strings.TrimSuffix(shorthand, "/"), ".git")
		if owner, repo, ok := registry.ParseGitHubRepo(shorthand); ok {
			return Target{Kind: TargetGitHub, Raw: trimmed, Owner: owner, Repo: repo}, nil
		}
	}
	return Target{}, ErrInvalidInput
}

// localManifestPath returns the manifest path when s names a JSON file or a
// directory containing package.json.
func localManifestPath(s string) (string, bool) {
	if strings.HasSuffix(strings.ToLower(s), ".json") {
		return s, true
	}
	info, err := os.Stat(s)
	if err != nil || !info.IsDir() {
		return "", false
	}
	path := filepath.Join(s, DefaultManifest)
	if _, err := os.Stat(path); err != nil {
		return "", false
	}
	return path, true
}

// DisplayName returns the name under which the target is reported.
func (t Target) DisplayName() string {
	switch t.Kind {
	case TargetPackage:
		return t.Name
	case TargetGitHub:
		return t.Owner + "/" + t.Repo
	default:
		return t.Path
	}
}

// ResolveDependencies returns the project name and the packages to scan for target.
func ResolveDependencies(ctx context.Context, target Target, sources Sources, includeDev bool) (string, []DependencyRequest, error) {
	switch target.Kind {
	case TargetFile:
		data, err := os.ReadFile(target.Path)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return "", nil, fmt.Errorf("%w: %s", ErrManifestNotFound, target.Path)
			}
			return "", nil, fmt.Errorf("failed to read %s: %w", target.Path, err)
		}
		name, deps, err := ParseManifest(data, includeDev)
		if err != nil {
			return "", nil, err
		}
		if name == "" {
			name = filepath.Base(filepath.Dir(mustAbs(target.Path)))
		}
		return name, deps, nil

	case TargetGitHub:
		if sources.Manifest == nil {
			return "", nil, fmt.Errorf("%w: no repository host configured", ErrSourceUnavailable)
		}
		data, err := sources.Manifest.FetchManifest(ctx, target.Owner, target.Repo)
		if errors.Is(err, contract.ErrManifestMissing) {
			return "", nil, fmt.Errorf("%w: %v", ErrManifestNotFound, err)
		}
		if err != nil {
			return "", nil, fmt.Errorf("%w: %w", ErrSourceUnavailable, err)
		}
		_, deps, err := ParseManifest(data, includeDev)
		return target.DisplayName(), deps, err

	case TargetPackage:
		meta, err := sources.Metadata.FetchPackage(ctx, target.Name)
		if err != nil {
			if !errors.Is(err, contract.ErrPackageNotFound) {
				err = fmt.Errorf("%w: %w", ErrSourceUnavailable, err)
			}
			return "", nil, fmt.Errorf("could not fetch %s from the registry: %w", target.Name, err)
		}
		norm := algo.Normalize(*meta)
		version := norm.LatestVersion
		if version == "" {
			version = "latest"
		}
		deps := []DependencyRequest{{Name: target.Name, Version: version, IsDirect: true}}
		names := make([]string, 0, len(norm.Dependencies))
		for name := range norm.Dependencies {
			if name != target.Name {
				names = append(names, name)
			}
		}
		sort.Strings(names)
		for _, name := range names {
			deps = append(deps, DependencyRequest{Name: name, Version: norm.Dependencies[name], IsDirect: true})
		}
		return target.Name, deps, nil
	}
	return "", nil, ErrInvalidInput
}

// ParseManifest reads the project name and dependencies of a package.json in
// document order. devDependencies are appended when includeDev is set.
func ParseManifest(data []byte, includeDev bool) (string, []DependencyRequest, error) {
	if !gjson.ValidBytes(data) {
		return "", nil, ErrInvalidManifest
	}
	root := gjson.ParseBytes(data)
	if !root.IsObject() {
		return "", nil, ErrInvalidManifest
	}

	sections := []string{"dependencies"}
	if includeDev {
		sections = append(sections, "devDependencies")
	}

	seen := map[string]struct{}{}
	deps := []DependencyRequest{}
	for _, section := range sections {
		root.Get(section).ForEach(func(key, value gjson.Result) bool {
			name := key.String()
			if _, dup := seen[name]; dup || name == "" {
				return true
			}
			seen[name] = struct{}{}
			deps = append(deps, DependencyRequest{Name: name, Version: value.String(), IsDirect: true})
			return true
		})
	}
	if len(deps) == 0 {
		return "", nil, ErrNoDependencies
	}
	return root.Get("name").String(), deps, nil
}

func mustAbs(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	return abs
}
