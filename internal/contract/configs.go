package contract

import (
	"fmt"
	"maps"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/huangsam/depshield/schema"
	"github.com/sirupsen/logrus"
)

// Default values for configuration.
const (
	DefaultConcurrency  = 5
	MaxConcurrency      = 50
	DefaultTimeout      = 10 * time.Second
	DefaultRateLimit    = 10.0
	DefaultCacheTTL     = time.Hour
	DefaultPrecision    = 1
	MaxResultLimit      = 1000
	DefaultRegistryURL  = "https://registry.npmjs.org"
	DefaultDownloadsURL = "https://api.npmjs.org"
	DefaultGitHubURL    = "https://api.github.com/"
)

// DateTimeFormat is the default date time representation.
var DateTimeFormat = time.RFC3339

// WeightsRawInput holds the custom composite weights from the YAML config file.
// Use float64 pointers so omitted dimensions keep their defaults.
type WeightsRawInput struct {
	Maintainer *float64 `mapstructure:"maintainer"`
	Security   *float64 `mapstructure:"security"`
	Community  *float64 `mapstructure:"community"`
	Freshness  *float64 `mapstructure:"freshness"`
}

// CheckRawInput holds the CI policy from the YAML config file.
type CheckRawInput struct {
	FailOn   string `mapstructure:"fail_on"`
	MinScore *int   `mapstructure:"min_score"`
}

// Config holds the runtime configuration for a scan.
// This struct remains the "final, validated" config.
type Config struct {
	Target     string
	Output     schema.OutputMode
	OutputFile string
	Precision  int
	Width      int // Terminal width override (0 = auto-detect)
	Limit      int // Max rows in table output (0 = all)
	UseColors  bool
	UseEmojis  bool
	LogLevel   string

	Concurrency int
	Timeout     time.Duration
	RateLimit   float64
	IncludeDev  bool

	RegistryURL  string
	DownloadsURL string
	GitHubURL    string
	GitHubToken  string // Please use env var as this is plaintext

	CacheBackend   schema.DatabaseBackend
	CacheDBConnect string // Please use env var as this is plaintext
	CacheTTL       time.Duration

	HistoryBackend   schema.DatabaseBackend
	HistoryDBConnect string // Please use env var as this is plaintext

	AlternativesFile string
	MetricsFile      string

	// Weights is the validated composite weight map (defaults + overrides).
	Weights map[schema.DimensionKey]float64

	FailOn      schema.Severity
	MinScore    int
	Annotations bool
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	// This is set manually from positional args, so no tag
	TargetStr string

	// --- Fields from rootCmd.PersistentFlags() ---
	Output           string  `mapstructure:"output"`
	OutputFile       string  `mapstructure:"output-file"`
	Precision        int     `mapstructure:"precision"`
	Width            int     `mapstructure:"width"`
	Limit            int     `mapstructure:"limit"`
	Color            string  `mapstructure:"color"`
	Emoji            string  `mapstructure:"emoji"`
	LogLevel         string  `mapstructure:"log-level"`
	Concurrency      int     `mapstructure:"concurrency"`
	Timeout          string  `mapstructure:"timeout"`
	RateLimit        float64 `mapstructure:"rate-limit"`
	RegistryURL      string  `mapstructure:"registry-url"`
	DownloadsURL     string  `mapstructure:"downloads-url"`
	GitHubURL        string  `mapstructure:"github-url"`
	GitHubToken      string  `mapstructure:"github-token"`
	CacheBackend     string  `mapstructure:"cache-backend"`
	CacheDBConnect   string  `mapstructure:"cache-db-connect"`
	CacheTTL         string  `mapstructure:"cache-ttl"`
	HistoryBackend   string  `mapstructure:"history-backend"`
	HistoryDBConnect string  `mapstructure:"history-db-connect"`
	AlternativesFile string  `mapstructure:"alternatives-file"`
	MetricsFile      string  `mapstructure:"metrics-file"`

	// --- Fields from scanCmd / checkCmd flags ---
	IncludeDev  bool   `mapstructure:"include-dev"`
	FailOn      string `mapstructure:"fail-on"`
	MinScore    int    `mapstructure:"min-score"`
	Annotations bool   `mapstructure:"annotations"`

	// --- Sections from the config file ---
	Weights WeightsRawInput `mapstructure:"weights"`
	Check   CheckRawInput   `mapstructure:"check"`
}

// Clone returns a deep copy of the Config struct.
func (c *Config) Clone() *Config {
	clone := *c
	if c.Weights != nil {
		clone.Weights = maps.Clone(c.Weights)
	}
	return &clone
}

// ProcessAndValidate performs all parsing and validation on the raw inputs
// and updates the final Config struct.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput) error {
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	if err := processNetworkInputs(cfg, input); err != nil {
		return err
	}
	if err := validateBackendConfigs(cfg, input); err != nil {
		return err
	}
	if err := processCustomWeights(cfg, input); err != nil {
		return err
	}
	return processCheckPolicy(cfg, input)
}

// ValidateDatabaseConnectionString validates the format of database connection strings
// for MySQL and PostgreSQL backends.
func ValidateDatabaseConnectionString(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend, schema.NoneBackend:
		return nil
	case schema.MySQLBackend:
		if connStr == "" {
			return fmt.Errorf("a connection string is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "@tcp(") {
			return fmt.Errorf("MySQL connection string must contain '@tcp(' for host:port specification")
		}
		if !strings.Contains(connStr, "/") {
			return fmt.Errorf("MySQL connection string must contain '/' followed by database name")
		}
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("a connection string is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "host=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'host=' parameter")
		}
		if !strings.Contains(connStr, "dbname=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'dbname=' parameter")
		}
	}
	return nil
}

// validateSimpleInputs processes and validates presentation and logging fields.
func validateSimpleInputs(cfg *Config, input *ConfigRawInput) error {
	cfg.Target = strings.TrimSpace(input.TargetStr)
	cfg.OutputFile = input.OutputFile
	cfg.Width = input.Width
	cfg.IncludeDev = input.IncludeDev
	cfg.AlternativesFile = input.AlternativesFile
	cfg.MetricsFile = input.MetricsFile
	cfg.Annotations = input.Annotations

	colors, err := ParseBoolString(input.Color)
	if err != nil {
		return fmt.Errorf("invalid --color value: %w", err)
	}
	cfg.UseColors = colors

	emojis, err := ParseBoolString(input.Emoji)
	if err != nil {
		return fmt.Errorf("invalid --emoji value: %w", err)
	}
	cfg.UseEmojis = emojis

	if input.Precision < 1 || input.Precision > 2 {
		return fmt.Errorf("precision must be 1 or 2 (received %d)", input.Precision)
	}
	cfg.Precision = input.Precision

	if input.Limit < 0 || input.Limit > MaxResultLimit {
		return fmt.Errorf("limit must be between 0 and %d (received %d)", MaxResultLimit, input.Limit)
	}
	cfg.Limit = input.Limit

	cfg.Output = schema.OutputMode(strings.ToLower(input.Output))
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return fmt.Errorf("invalid output format '%s'. must be text, csv, json, parquet", input.Output)
	}
	if cfg.Output == schema.ParquetOut && cfg.OutputFile == "" {
		return fmt.Errorf("--output-file is required for parquet output")
	}

	if input.LogLevel != "" {
		if _, err := logrus.ParseLevel(input.LogLevel); err != nil {
			return fmt.Errorf("invalid log level '%s': %w", input.LogLevel, err)
		}
	}
	cfg.LogLevel = input.LogLevel

	return nil
}

// processNetworkInputs validates concurrency, timeouts and upstream endpoints.
func processNetworkInputs(cfg *Config, input *ConfigRawInput) error {
	if input.Concurrency <= 0 || input.Concurrency > MaxConcurrency {
		return fmt.Errorf("concurrency must be between 1 and %d (received %d)", MaxConcurrency, input.Concurrency)
	}
	cfg.Concurrency = input.Concurrency

	timeout, err := parsePositiveDuration("timeout", input.Timeout, DefaultTimeout)
	if err != nil {
		return err
	}
	cfg.Timeout = timeout

	ttl, err := parsePositiveDuration("cache-ttl", input.CacheTTL, DefaultCacheTTL)
	if err != nil {
		return err
	}
	cfg.CacheTTL = ttl

	if input.RateLimit <= 0 {
		return fmt.Errorf("rate-limit must be greater than 0 (received %.2f)", input.RateLimit)
	}
	cfg.RateLimit = input.RateLimit

	endpoints := []struct {
		flag string
		raw  string
		def  string
		dst  *string
	}{
		{"registry-url", input.RegistryURL, DefaultRegistryURL, &cfg.RegistryURL},
		{"downloads-url", input.DownloadsURL, DefaultDownloadsURL, &cfg.DownloadsURL},
		{"github-url", input.GitHubURL, DefaultGitHubURL, &cfg.GitHubURL},
	}
	for _, ep := range endpoints {
		raw := strings.TrimSpace(ep.raw)
		if raw == "" {
			raw = ep.def
		}
		u, err := url.Parse(raw)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("invalid --%s '%s': must be an absolute http(s) URL", ep.flag, raw)
		}
		*ep.dst = raw
	}

	cfg.GitHubToken = input.GitHubToken
	if cfg.GitHubToken == "" {
		cfg.GitHubToken = os.Getenv("GITHUB_TOKEN")
	}
	return nil
}

// validateBackendConfigs validates cache and history backend configurations.
func validateBackendConfigs(cfg *Config, input *ConfigRawInput) error {
	// --- Cache Backend Validation ---
	cfg.CacheBackend = schema.DatabaseBackend(strings.ToLower(input.CacheBackend))
	if _, ok := schema.ValidDatabaseBackends[cfg.CacheBackend]; !ok {
		return fmt.Errorf("invalid cache backend '%s'. must be sqlite, mysql, postgresql, none", input.CacheBackend)
	}
	cfg.CacheDBConnect = input.CacheDBConnect
	if err := ValidateDatabaseConnectionString(cfg.CacheBackend, cfg.CacheDBConnect); err != nil {
		return err
	}

	// --- History Backend Validation ---
	cfg.HistoryBackend = schema.DatabaseBackend(strings.ToLower(input.HistoryBackend))
	if cfg.HistoryBackend == "" {
		return nil
	}
	if _, ok := schema.ValidDatabaseBackends[cfg.HistoryBackend]; !ok {
		return fmt.Errorf("invalid history backend '%s'. must be sqlite, mysql, postgresql, none", input.HistoryBackend)
	}
	cfg.HistoryDBConnect = input.HistoryDBConnect
	if err := ValidateDatabaseConnectionString(cfg.HistoryBackend, cfg.HistoryDBConnect); err != nil {
		return err
	}

	// For SQLite, resolve to actual file paths to catch default path conflicts
	if cfg.CacheBackend == schema.SQLiteBackend && cfg.HistoryBackend == schema.SQLiteBackend {
		cachePath := cfg.CacheDBConnect
		if cachePath == "" {
			cachePath = GetCacheDBFilePath()
		}
		historyPath := cfg.HistoryDBConnect
		if historyPath == "" {
			historyPath = GetHistoryDBFilePath()
		}
		if cachePath == historyPath {
			return fmt.Errorf("cache and history storage must use different SQLite database files. Both resolve to %q", cachePath)
		}
	}
	return nil
}

// ProcessWeightsRawInput merges custom weights over the defaults and validates
// that the result covers every dimension, is non-negative and sums to 1.0.
func ProcessWeightsRawInput(weights WeightsRawInput) (map[schema.DimensionKey]float64, error) {
	result := schema.GetDefaultWeights()
	overrides := map[schema.DimensionKey]*float64{
		schema.DimensionMaintainer: weights.Maintainer,
		schema.DimensionSecurity:   weights.Security,
		schema.DimensionCommunity:  weights.Community,
		schema.DimensionFreshness:  weights.Freshness,
	}
	for dim, w := range overrides {
		if w != nil {
			result[dim] = *w
		}
	}

	sum := 0.0
	for _, dim := range schema.AllDimensions {
		w := result[dim]
		if w < 0 {
			return nil, fmt.Errorf("weight for dimension '%s' must be non-negative, got %.3f", dim, w)
		}
		sum += w
	}
	if sum < 0.999 || sum > 1.001 {
		return nil, fmt.Errorf("custom weights must sum to 1.0, got %.3f", sum)
	}
	return result, nil
}

// processCustomWeights converts the raw input into the final cfg.Weights map.
func processCustomWeights(cfg *Config, input *ConfigRawInput) error {
	weights, err := ProcessWeightsRawInput(input.Weights)
	if err != nil {
		return err
	}
	cfg.Weights = weights
	return nil
}

// processCheckPolicy resolves the CI gate policy.
// Command-line flags take precedence over config file settings.
func processCheckPolicy(cfg *Config, input *ConfigRawInput) error {
	failOn := input.FailOn
	if failOn == "" {
		failOn = input.Check.FailOn
	}
	if failOn == "" {
		failOn = string(schema.SeverityCritical)
	}
	cfg.FailOn = schema.Severity(strings.ToLower(failOn))
	if _, ok := schema.ValidSeverities[cfg.FailOn]; !ok {
		return fmt.Errorf("invalid fail-on severity '%s'. must be critical, high, medium, low, info", failOn)
	}

	cfg.MinScore = input.MinScore
	if cfg.MinScore == 0 && input.Check.MinScore != nil {
		cfg.MinScore = *input.Check.MinScore
	}
	if cfg.MinScore < 0 || cfg.MinScore > 100 {
		return fmt.Errorf("min-score must be between 0 and 100 (received %d)", cfg.MinScore)
	}
	return nil
}

// parsePositiveDuration parses a Go duration string, using def when raw is empty.
func parsePositiveDuration(flag, raw string, def time.Duration) (time.Duration, error) {
	if strings.TrimSpace(raw) == "" {
		return def, nil
	}
	d, err := time.ParseDuration(strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("invalid --%s '%s': %w", flag, raw, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("--%s must be greater than 0 (received %s)", flag, raw)
	}
	return d, nil
}
