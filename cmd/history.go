package cmd

import (
	"errors"
	"fmt"

	"github.com/huangsam/depshield/internal/contract"
	"github.com/huangsam/depshield/internal/iocache"
	"github.com/huangsam/depshield/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// historyBackendFromConfig reads and validates the history backend settings.
// An empty backend means history tracking is disabled.
func historyBackendFromConfig() (schema.DatabaseBackend, string, error) {
	if err := loadConfigFile(); err != nil {
		return "", "", err
	}

	backend := schema.NoneBackend
	if b := viper.GetString("history-backend"); b != "" {
		backend = schema.DatabaseBackend(b)
	}
	connStr := viper.GetString("history-db-connect")

	// Basic validation for database backends
	if err := contract.ValidateDatabaseConnectionString(backend, connStr); err != nil {
		return "", "", err
	}
	return backend, connStr, nil
}

// historySetup loads minimal configuration needed for history operations.
func historySetup() error {
	backend, connStr, err := historyBackendFromConfig()
	if err != nil {
		return err
	}

	// Initialize stores with the loaded config (no registry cache for history commands)
	if err := iocache.InitCaching("", "", backend, connStr); err != nil {
		return fmt.Errorf("failed to initialize history: %w", err)
	}

	cfg.HistoryBackend = backend
	cfg.HistoryDBConnect = connStr
	cfg.OutputFile = viper.GetString("output-file")
	return nil
}

// historySetupWrapper wraps historySetup to provide PreRunE for history commands.
func historySetupWrapper(_ *cobra.Command, _ []string) error {
	return historySetup()
}

// historyMigrateSetup loads the configuration for migrations. It does NOT
// initialize stores or create tables, so migrations can run on a fresh database.
func historyMigrateSetup(_ *cobra.Command, _ []string) error {
	backend, connStr, err := historyBackendFromConfig()
	if err != nil {
		return err
	}

	// For SQLite backend with empty connection string, use default path
	if backend == schema.SQLiteBackend && connStr == "" {
		connStr = contract.GetHistoryDBFilePath()
	}

	cfg.HistoryBackend = backend
	cfg.HistoryDBConnect = connStr
	return nil
}

// historyCmd focused on scan history management.
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Manage scan history tracking and exports",
	Long: `Manage the history of scans used for trend tracking and reporting.

When --history-backend is set, every scan stores:
- Run metadata (target, timestamps, configuration, overall score)
- One score row per package (health, analyzer scores, bus factor, license)

Supported backends: SQLite, MySQL, PostgreSQL, or None (disabled)

Subcommands:
  status  - Show history statistics
  export  - Export data to Parquet for analytics
  clear   - Remove all history
  migrate - Run database schema migrations

Examples:
  # Check tracking status
  depshield history status --history-backend sqlite

  # Export for analysis in pandas/DuckDB
  depshield history export --history-backend sqlite --output-file depshield`,
}

// historyClearCmd clears the scan history.
var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all scan history",
	Long: `Delete all stored scan runs and package scores.

WARNING: This action cannot be undone. Consider exporting data first.

Examples:
  depshield history export --history-backend sqlite --output-file backup
  depshield history clear --history-backend sqlite`,
	PreRunE: historySetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := iocache.ClearHistory(cfg.HistoryBackend, contract.GetHistoryDBFilePath(), cfg.HistoryDBConnect); err != nil {
			contract.LogFatal("Failed to clear scan history", err)
		}
		fmt.Println("Scan history cleared successfully.")
	},
}

// historyStatusCmd shows history status.
var historyStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display scan history statistics and connection details",
	Long: `Show detailed information about scan history tracking.

Displays:
- Backend type and connection status
- Total number of scan runs and package scores
- Last and oldest scan timestamps`,
	PreRunE: historySetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		store := iocache.Manager.GetHistoryStore()
		if store == nil {
			contract.LogFatal("Failed to get history status", errors.New("history backend is not configured"))
		}
		status, err := store.GetStatus()
		if err != nil {
			contract.LogFatal("Failed to get history status", err)
		}
		iocache.PrintHistoryStatus(status)
	},
}

// historyExportCmd exports the history to Parquet.
var historyExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export scan history to Parquet files",
	Long: `Export all scan runs and package scores to two Parquet files:

  <output-file>.scan_runs.parquet
  <output-file>.package_scores.parquet

Examples:
  depshield history export --history-backend sqlite --output-file depshield`,
	PreRunE: historySetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := iocache.ExecuteHistoryExport(cfg.OutputFile); err != nil {
			contract.LogFatal("Failed to export scan history", err)
		}
	},
}

// historyMigrateCmd runs schema migrations.
var historyMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run scan history schema migrations",
	Long: `Apply or roll back the embedded SQL migrations of the history database.

Examples:
  # Migrate to the latest version
  depshield history migrate --history-backend sqlite

  # Roll back everything
  depshield history migrate --history-backend postgresql --target-version 0`,
	PreRunE: historyMigrateSetup,
	Run: func(_ *cobra.Command, _ []string) {
		if err := iocache.MigrateHistory(cfg.HistoryBackend, cfg.HistoryDBConnect, viper.GetInt("target-version")); err != nil {
			contract.LogFatal("Failed to migrate scan history", err)
		}
	},
}
