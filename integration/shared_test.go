//go:build basic || database

// Package integration contains end-to-end tests that run the depshield binary.
// These tests are excluded from normal test runs due to build tags.
// To run these tests: go test -tags basic ./integration
// With database containers: go test -tags database ./integration
package integration

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

var (
	// sharedBinaryPath holds the path to a shared depshield binary built once for all tests.
	sharedBinaryPath string

	// buildOnce ensures we only build the binary once.
	buildOnce sync.Once

	// buildMutex protects the shared binary path.
	buildMutex sync.Mutex

	// tempDir holds the temp directory for cleanup.
	tempDir string
)

// TestMain handles setup and cleanup for all integration tests.
func TestMain(m *testing.M) {
	code := m.Run()

	// Cleanup the shared binary after all tests
	if tempDir != "" {
		_ = os.RemoveAll(tempDir)
	}

	os.Exit(code)
}

// getDepshieldBinary returns the path to the depshield binary, building it once if needed.
func getDepshieldBinary() string {
	buildMutex.Lock()
	defer buildMutex.Unlock()

	buildOnce.Do(func() {
		var err error
		tempDir, err = os.MkdirTemp("", "depshield-integration-*")
		if err != nil {
			panic(fmt.Sprintf("failed to create temp dir: %v", err))
		}

		binPath := filepath.Join(tempDir, "depshield")
		buildCmd := exec.Command("go", "build", "-o", binPath, ".")
		buildCmd.Dir = ".." // Build from parent directory (project root)
		if err := buildCmd.Run(); err != nil {
			panic(fmt.Sprintf("failed to build depshield: %v", err))
		}

		sharedBinaryPath = binPath
	})

	return sharedBinaryPath
}

// fakePackument returns a minimal registry document for name.
func fakePackument(name string) string {
	return fmt.Sprintf(`{
  "name": %q,
  "dist-tags": {"latest": "1.2.0"},
  "maintainers": [{"name": "alice", "email": "alice@example.com"}, {"name": "bob", "email": "bob@example.com"}],
  "license": "MIT",
  "time": {"created": "2019-01-01T00:00:00.000Z", "modified": "2025-11-01T00:00:00.000Z", "1.2.0": "2025-11-01T00:00:00.000Z"},
  "versions": {"1.2.0": {"name": %q, "version": "1.2.0", "license": "MIT"}}
}`, name, name)
}

// startFakeRegistry serves packuments and download counts for the known names.
func startFakeRegistry(t *testing.T, known ...string) *httptest.Server {
	t.Helper()
	names := make(map[string]bool, len(known))
	for _, n := range known {
		names[n] = true
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if name, ok := strings.CutPrefix(r.URL.Path, "/downloads/point/last-week/"); ok && names[name] {
			_, _ = fmt.Fprintf(w, `{"downloads": 50000, "package": %q}`, name)
			return
		}
		if name := strings.TrimPrefix(r.URL.Path, "/"); names[name] {
			_, _ = w.Write([]byte(fakePackument(name)))
			return
		}
		http.NotFound(w, r)
	}))
	t.Cleanup(server.Close)
	return server
}

// writeManifest writes a package.json with the given dependencies into a temp dir.
func writeManifest(t *testing.T, deps ...string) string {
	t.Helper()
	entries := make([]string, len(deps))
	for i, d := range deps {
		entries[i] = fmt.Sprintf("%q: %q", d, "^1.0.0")
	}
	content := fmt.Sprintf(`{"name": "integration-app", "dependencies": {%s}}`, strings.Join(entries, ", "))

	path := filepath.Join(t.TempDir(), "package.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// registryArgs points the CLI at the fake registry.
func registryArgs(server *httptest.Server) []string {
	return []string{
		"--registry-url", server.URL,
		"--downloads-url", server.URL,
		"--github-url", server.URL,
	}
}
