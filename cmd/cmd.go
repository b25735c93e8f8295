// Package cmd defines the command-line interface for depshield.
package cmd

import (
	"github.com/huangsam/depshield/internal/contract"
	"github.com/huangsam/depshield/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	// Add primary subcommands to the root command
	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(packageCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(alternativesCmd)
	rootCmd.AddCommand(metricsCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(cacheCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(mcpCmd)

	// Add the cache subcommands to the parent cache command
	cacheCmd.AddCommand(cacheClearCmd)
	cacheCmd.AddCommand(cacheStatusCmd)

	// Add the history subcommands to the parent history command
	historyCmd.AddCommand(historyClearCmd)
	historyCmd.AddCommand(historyStatusCmd)
	historyCmd.AddCommand(historyExportCmd)
	historyCmd.AddCommand(historyMigrateCmd)

	// Bind all persistent flags of rootCmd to Viper
	rootCmd.PersistentFlags().String("output", string(schema.TextOut), "Output format: text or csv or json or parquet")
	rootCmd.PersistentFlags().String("output-file", "", "Optional path to write output to")
	rootCmd.PersistentFlags().Int("precision", contract.DefaultPrecision, "Decimal precision for numeric columns")
	rootCmd.PersistentFlags().Int("width", 0, "Terminal width override (0 = auto-detect)")
	rootCmd.PersistentFlags().IntP("limit", "l", 0, "Number of dependencies to display (0 = all)")
	rootCmd.PersistentFlags().String("color", "yes", "Enable colored labels in output (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().String("emoji", "no", "Prefix alert severities with emoji markers (yes/no)")
	rootCmd.PersistentFlags().String("log-level", "warn", "Log level: debug or info or warn or error")
	rootCmd.PersistentFlags().Int("concurrency", contract.DefaultConcurrency, "Packages analyzed in parallel per batch")
	rootCmd.PersistentFlags().String("timeout", contract.DefaultTimeout.String(), "Per-package fetch timeout")
	rootCmd.PersistentFlags().Float64("rate-limit", contract.DefaultRateLimit, "Maximum upstream requests per second")
	rootCmd.PersistentFlags().String("registry-url", contract.DefaultRegistryURL, "npm registry base URL")
	rootCmd.PersistentFlags().String("downloads-url", contract.DefaultDownloadsURL, "npm downloads API base URL")
	rootCmd.PersistentFlags().String("github-url", contract.DefaultGitHubURL, "GitHub API base URL")
	rootCmd.PersistentFlags().String("github-token", "", "GitHub token (prefer DEPSHIELD_GITHUB_TOKEN or GITHUB_TOKEN)")
	rootCmd.PersistentFlags().String("cache-backend", string(schema.SQLiteBackend), "Cache backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("cache-db-connect", "", "Database connection string for mysql/postgresql (e.g., user:pass@tcp(host:port)/dbname)")
	rootCmd.PersistentFlags().String("cache-ttl", contract.DefaultCacheTTL.String(), "How long cached registry documents stay fresh")
	rootCmd.PersistentFlags().String("history-backend", "", "Scan history backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("history-db-connect", "", "Database connection string for scan history (must differ from cache-db-connect)")
	rootCmd.PersistentFlags().String("alternatives-file", "", "YAML file with extra curated alternatives")
	rootCmd.PersistentFlags().String("metrics-file", "", "Write Prometheus metrics for the scan to this textfile")
	rootCmd.PersistentFlags().Bool("include-dev", false, "Also scan devDependencies")
	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding root flags", err)
	}

	// Bind all flags of checkCmd to Viper
	checkCmd.Flags().String("fail-on", "", "Fail on alerts at or above this severity: critical or high or medium or low or info (default critical)")
	checkCmd.Flags().Int("min-score", 0, "Fail when the overall score is below this value")
	checkCmd.Flags().Bool("annotations", false, "Emit GitHub Actions ::error:: and ::warning:: annotations")
	if err := viper.BindPFlags(checkCmd.Flags()); err != nil {
		contract.LogFatal("Error binding check flags", err)
	}

	// Bind all flags of historyMigrateCmd to Viper
	historyMigrateCmd.Flags().Int("target-version", -1, "Target migration version (-1 means latest, 0 means rollback to initial state)")
	if err := viper.BindPFlags(historyMigrateCmd.Flags()); err != nil {
		contract.LogFatal("Error binding history migrate flags", err)
	}
}
