//go:build basic

package integration

import (
	"bytes"
	"encoding/json"
	"errors"
	"os/exec"
	"testing"

	"github.com/huangsam/depshield/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// runDepshield runs the binary and returns stdout and the exit code.
func runDepshield(t *testing.T, args ...string) (string, int) {
	t.Helper()
	cmd := exec.Command(getDepshieldBinary(), args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	var exitErr *exec.ExitError
	switch {
	case err == nil:
		return stdout.String(), 0
	case errors.As(err, &exitErr):
		t.Logf("stderr: %s", stderr.String())
		return stdout.String(), exitErr.ExitCode()
	default:
		require.NoError(t, err)
		return "", -1
	}
}

// TestScanVerification scans a manifest against a fake registry and verifies the JSON report.
func TestScanVerification(t *testing.T) {
	server := startFakeRegistry(t, "alpha-lib", "beta-lib")
	manifest := writeManifest(t, "alpha-lib", "beta-lib", "missing-lib")

	args := append([]string{"scan", manifest, "--output", "json", "--cache-backend", "none"}, registryArgs(server)...)
	out, code := runDepshield(t, args...)
	require.Equal(t, 0, code)

	var result schema.ScanResult
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, "integration-app", result.RepoName)
	assert.Equal(t, 3, result.TotalDependencies)
	assert.Equal(t, 3, result.DirectDeps)

	fallbacks := map[string]bool{}
	for _, d := range result.Dependencies {
		fallbacks[d.Name] = d.Fallback
	}
	assert.Equal(t, map[string]bool{"alpha-lib": false, "beta-lib": false, "missing-lib": true}, fallbacks)
}

// TestCheckExitCode verifies that policy violations exit with status 1.
func TestCheckExitCode(t *testing.T) {
	server := startFakeRegistry(t, "alpha-lib")
	manifest := writeManifest(t, "alpha-lib", "missing-lib")

	tests := []struct {
		name     string
		extra    []string
		expected int
	}{
		{"default policy passes", nil, 0},
		{"fallback alert fails medium policy", []string{"--fail-on", "medium"}, 1},
		{"unreachable minimum score", []string{"--min-score", "100"}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"check", manifest, "--cache-backend", "none"}, registryArgs(server)...)
			args = append(args, tt.extra...)
			out, code := runDepshield(t, args...)
			assert.Equal(t, tt.expected, code)
			assert.Contains(t, out, "Policy check")
		})
	}
}

// TestVersionCommand verifies the version banner.
func TestVersionCommand(t *testing.T) {
	out, code := runDepshield(t, "version")
	require.Equal(t, 0, code)
	assert.Contains(t, out, "depshield CLI")
}
