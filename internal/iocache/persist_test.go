package iocache

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/huangsam/depshield/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateTableName(t *testing.T) {
	tests := []struct {
		name      string
		tableName string
		wantErr   bool
	}{
		{"valid simple name", "registry_cache", false},
		{"valid name with numbers", "scan_runs_2", false},
		{"valid name starting with underscore", "_tmp", false},
		{"valid mixed case", "DepShield_Runs", false},
		{"empty name", "", true},
		{"starts with number", "123_table", true},
		{"contains dash", "test-table", true},
		{"contains space", "test table", true},
		{"sql injection attempt", "test'; DROP TABLE users; --", true},
		{"contains dot", "test.table", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateTableName(tt.tableName)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestQuoteTableName(t *testing.T) {
	tests := []struct {
		backend schema.DatabaseBackend
		want    string
	}{
		{schema.SQLiteBackend, `"t"`},
		{schema.MySQLBackend, "`t`"},
		{schema.PostgreSQLBackend, `"t"`},
		{schema.NoneBackend, `"t"`},
	}

	for _, tt := range tests {
		t.Run(string(tt.backend), func(t *testing.T) {
			assert.Equal(t, tt.want, quoteTableName("t", tt.backend))
		})
	}
}

func TestPlaceholders(t *testing.T) {
	assert.Equal(t, "?", placeholders(schema.SQLiteBackend, 1, 1))
	assert.Equal(t, "?, ?, ?", placeholders(schema.MySQLBackend, 1, 3))
	assert.Equal(t, "$1", placeholders(schema.PostgreSQLBackend, 1, 1))
	assert.Equal(t, "$3, $4", placeholders(schema.PostgreSQLBackend, 3, 2))
}

func TestOpenDatabaseUnsupported(t *testing.T) {
	_, err := openDatabase(schema.DatabaseBackend("redis"), "", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported backend: redis")
}

func TestClearDatabase(t *testing.T) {
	t.Run("sqlite removes file", func(t *testing.T) {
		dbPath := filepath.Join(t.TempDir(), "cache.db")
		store, err := NewCacheStore(registryTable, schema.SQLiteBackend, dbPath)
		require.NoError(t, err)
		require.NoError(t, store.Close())

		require.NoError(t, ClearCache(schema.SQLiteBackend, dbPath, ""))
		_, err = os.Stat(dbPath)
		assert.True(t, os.IsNotExist(err))
	})

	t.Run("sqlite missing file is fine", func(t *testing.T) {
		assert.NoError(t, ClearHistory(schema.SQLiteBackend, filepath.Join(t.TempDir(), "nope.db"), ""))
	})

	t.Run("sqlite requires path", func(t *testing.T) {
		assert.Error(t, ClearCache(schema.SQLiteBackend, "", ""))
	})

	t.Run("none is a no-op", func(t *testing.T) {
		assert.NoError(t, ClearHistory(schema.NoneBackend, "", ""))
	})

	t.Run("unsupported backend", func(t *testing.T) {
		assert.Error(t, ClearCache(schema.DatabaseBackend("redis"), "", ""))
	})
}

func TestFormatTime(t *testing.T) {
	ts := time.Date(2026, 3, 1, 12, 0, 0, 500, time.FixedZone("X", 3600))

	sqliteValue := formatTime(ts, schema.SQLiteBackend)
	assert.Equal(t, "2026-03-01T11:00:00.000000500Z", sqliteValue)
	parsed, err := parseTime(sqliteValue.(string))
	require.NoError(t, err)
	assert.True(t, ts.Equal(parsed))

	assert.Equal(t, ts, formatTime(ts, schema.PostgreSQLBackend))
}
