//go:build database

package integration

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// TestDepshieldWithMySQL tests the depshield CLI with a MySQL backend.
func TestDepshieldWithMySQL(t *testing.T) {
	ctx := context.Background()

	// Start MySQL container
	req := testcontainers.ContainerRequest{
		Image:        "mysql:8",
		ExposedPorts: []string{"3306/tcp"},
		Env: map[string]string{
			"MYSQL_ROOT_PASSWORD": "secret123",
			"MYSQL_DATABASE":      "depshield",
		},
		WaitingFor: wait.ForLog("port: 3306  MySQL Community Server").WithStartupTimeout(60 * time.Second),
	}
	mysqlC, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	defer func() { _ = mysqlC.Terminate(ctx) }()

	host, err := mysqlC.Host(ctx)
	require.NoError(t, err)
	port, err := mysqlC.MappedPort(ctx, "3306")
	require.NoError(t, err)

	connStr := fmt.Sprintf("root:secret123@tcp(%s:%s)/depshield?parseTime=true", host, port.Port())
	runBackendScenario(t, "mysql", connStr)
}

// TestDepshieldWithPostgres tests the depshield CLI with a PostgreSQL backend.
func TestDepshieldWithPostgres(t *testing.T) {
	ctx := context.Background()

	// Start Postgres container
	req := testcontainers.ContainerRequest{
		Image:        "postgres:18-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_HOST_AUTH_METHOD": "trust",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	}
	pgC, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	defer func() { _ = pgC.Terminate(ctx) }()

	host, err := pgC.Host(ctx)
	require.NoError(t, err)
	port, err := pgC.MappedPort(ctx, "5432")
	require.NoError(t, err)

	connStr := fmt.Sprintf("host=%s port=%s user=postgres dbname=postgres sslmode=disable", host, port.Port())
	runBackendScenario(t, "postgresql", connStr)
}

// runBackendScenario exercises the cache and history stores on one backend.
func runBackendScenario(t *testing.T, backend, connStr string) {
	server := startFakeRegistry(t, "alpha-lib", "beta-lib")
	manifest := writeManifest(t, "alpha-lib", "beta-lib")

	env := []string{
		"DEPSHIELD_CACHE_BACKEND=" + backend,
		"DEPSHIELD_CACHE_DB_CONNECT=" + connStr,
		"DEPSHIELD_HISTORY_BACKEND=" + backend,
		"DEPSHIELD_HISTORY_DB_CONNECT=" + connStr,
	}

	require.NoError(t, runWithEnv(t, env, "cache", "clear"))
	require.NoError(t, runWithEnv(t, env, "history", "clear"))

	scanArgs := append([]string{"scan", manifest, "--output", "json"}, registryArgs(server)...)
	require.NoError(t, runWithEnv(t, env, scanArgs...))
	// Second scan is served from the registry cache.
	require.NoError(t, runWithEnv(t, env, scanArgs...))

	require.NoError(t, runWithEnv(t, env, "cache", "status"))
	require.NoError(t, runWithEnv(t, env, "history", "status"))

	exportBase := filepath.Join(t.TempDir(), "history")
	require.NoError(t, runWithEnv(t, env, "history", "export", "--output-file", exportBase))
	for _, suffix := range []string{".scan_runs.parquet", ".package_scores.parquet"} {
		info, err := os.Stat(exportBase + suffix)
		require.NoError(t, err)
		assert.Greater(t, info.Size(), int64(0))
	}
}

func runWithEnv(t *testing.T, env []string, args ...string) error {
	cmd := exec.Command(getDepshieldBinary(), args...)
	cmd.Env = append(os.Environ(), env...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		t.Logf("Command failed: %s\nOutput: %s", cmd.String(), string(output))
		return err
	}
	return nil
}
