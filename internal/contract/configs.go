package contract

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/vishal-mourya/Dynamic-Test-Identifier-And-Runner/schema"
)

// Default values for configuration.
const (
	DefaultResultLimit  = 50
	MaxResultLimit      = 1000
	DefaultPrecision    = 2
	DefaultMinRelevance = 0.30
	DefaultMinCoverage  = 0
	DefaultMaxRisk      = 100
	DefaultServeAddr    = "127.0.0.1:8080"
	DefaultLogLevel     = "info"
	DefaultCITimeout    = 30 * time.Second
)

// IndexCacheVersion is bumped whenever the cached index encoding changes.
const IndexCacheVersion = 1

// IndexCacheTTL bounds how long a cached repository index stays valid.
const IndexCacheTTL = 7 * 24 * time.Hour

// DateTimeFormat is the default date time representation.
var DateTimeFormat = time.RFC3339

// CI providers supported.
const (
	JenkinsProvider = "jenkins"
	DryRunProvider  = "dry-run"
)

// ProfileConfig holds profiling settings.
type ProfileConfig struct {
	Enabled bool
	Prefix  string
}

// Config holds the runtime configuration for the analysis.
// This struct remains the "final, validated" config.
type Config struct {
	RepoPath string
	HasRepo  bool // false when a change file is analyzed outside a Git checkout

	// --- Change source ---
	BaseRef   string
	TargetRef string
	InputFile string // JSON or YAML change document
	DiffFile  string // unified diff, "-" for stdin
	IndexFile string // newline separated repository listing
	NoIndex   bool

	// --- Matching ---
	ResultLimit      int
	MinRelevance     float64
	Excludes         []string
	IncludeSuggested bool

	// --- Output ---
	Output     schema.OutputMode
	OutputFile string
	Precision  int
	Width      int // Terminal width override (0 = auto-detect)
	UseEmojis  bool
	UseColors  bool
	LogLevel   string

	// --- Check gating ---
	MinCoverage int
	MaxRisk     int

	// --- CI trigger ---
	CIProvider string
	CIURL      string
	CIJob      string
	CIUser     string
	CIToken    string // Please use env var as this is plaintext
	CITimeout  time.Duration
	Branch     string
	PRNumber   string

	// --- HTTP server ---
	ServeAddr      string
	AllowedOrigins []string

	CacheBackend   schema.DatabaseBackend
	CacheDBConnect string // Please use env var as this is plaintext

	AnalysisBackend   schema.DatabaseBackend
	AnalysisDBConnect string // Please use env var as this is plaintext
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	// This is set manually from positional args, so no tag
	RepoPathStr string

	// Set by serve and mcp, which receive change sets per request
	ServerMode bool

	// --- Fields from rootCmd.PersistentFlags() ---
	OutputFile        string `mapstructure:"output-file"`
	Limit             int    `mapstructure:"limit"`
	Exclude           string `mapstructure:"exclude"`
	Precision         int    `mapstructure:"precision"`
	Output            string `mapstructure:"output"`
	Width             int    `mapstructure:"width"`
	CacheBackend      string `mapstructure:"cache-backend"`
	CacheDBConnect    string `mapstructure:"cache-db-connect"`
	AnalysisBackend   string `mapstructure:"analysis-backend"`
	AnalysisDBConnect string `mapstructure:"analysis-db-connect"`
	Emoji             string `mapstructure:"emoji"`
	Color             string `mapstructure:"color"`
	LogLevel          string `mapstructure:"log-level"`

	// --- Change source flags shared by analyze, check, trigger ---
	BaseRef      string  `mapstructure:"base-ref"`
	TargetRef    string  `mapstructure:"target-ref"`
	Input        string  `mapstructure:"input"`
	Diff         string  `mapstructure:"diff"`
	IndexFile    string  `mapstructure:"index-file"`
	NoIndex      bool    `mapstructure:"no-index"`
	MinRelevance float64 `mapstructure:"min-relevance"`

	// --- Fields from checkCmd.Flags() ---
	MinCoverage int `mapstructure:"min-coverage"`
	MaxRisk     int `mapstructure:"max-risk"`

	// --- Fields from triggerCmd.Flags() ---
	CIProvider       string `mapstructure:"ci-provider"`
	CIURL            string `mapstructure:"ci-url"`
	CIJob            string `mapstructure:"ci-job"`
	CIUser           string `mapstructure:"ci-user"`
	CIToken          string `mapstructure:"ci-token"`
	CITimeout        string `mapstructure:"ci-timeout"`
	DryRun           bool   `mapstructure:"ci-dry-run"`
	Branch           string `mapstructure:"branch"`
	PRNumber         string `mapstructure:"pr-number"`
	IncludeSuggested bool   `mapstructure:"include-suggested"`

	// --- Fields from serveCmd.Flags() ---
	Addr           string `mapstructure:"addr"`
	AllowedOrigins string `mapstructure:"allowed-origins"`
}

// Clone returns a deep copy of the Config struct.
func (c *Config) Clone() *Config {
	clone := *c
	clone.Excludes = slices.Clone(c.Excludes)
	clone.AllowedOrigins = slices.Clone(c.AllowedOrigins)
	return &clone
}

// UsesGitRefs reports whether the change set comes from comparing two references.
func (c *Config) UsesGitRefs() bool {
	return c.InputFile == "" && c.DiffFile == ""
}

// ProcessAndValidate performs all complex parsing and validation on the raw inputs
// and updates the final Config struct.
func ProcessAndValidate(ctx context.Context, cfg *Config, client GitClient, input *ConfigRawInput) error {
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	if err := processChangeSource(cfg, input); err != nil {
		return err
	}
	if err := processCheckThresholds(cfg, input); err != nil {
		return err
	}
	if err := processCITrigger(cfg, input); err != nil {
		return err
	}
	processServer(cfg, input)
	if err := resolveGitPath(ctx, cfg, client, input); err != nil {
		return err
	}
	return nil
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

// validateBackendConfigs validates cache and analysis backend configurations.
func validateBackendConfigs(cfg *Config, input *ConfigRawInput) error {
	// --- Cache Backend Validation ---
	cfg.CacheBackend = schema.DatabaseBackend(strings.ToLower(input.CacheBackend))
	if _, ok := schema.ValidDatabaseBackends[cfg.CacheBackend]; !ok {
		return fmt.Errorf("invalid cache backend '%s'. must be sqlite, mysql, postgresql, none", input.CacheBackend)
	}
	cfg.CacheDBConnect = input.CacheDBConnect
	if err := ValidateDatabaseConnectionString(cfg.CacheBackend, cfg.CacheDBConnect); err != nil {
		return fmt.Errorf("cache-db-connect: %w", err)
	}

	// --- Analysis Backend Validation ---
	cfg.AnalysisBackend = schema.DatabaseBackend(strings.ToLower(input.AnalysisBackend))
	if cfg.AnalysisBackend == "" {
		return nil
	}
	if _, ok := schema.ValidDatabaseBackends[cfg.AnalysisBackend]; !ok {
		return fmt.Errorf("invalid analysis backend '%s'. must be sqlite, mysql, postgresql, none", input.AnalysisBackend)
	}
	cfg.AnalysisDBConnect = input.AnalysisDBConnect
	if err := ValidateDatabaseConnectionString(cfg.AnalysisBackend, cfg.AnalysisDBConnect); err != nil {
		return fmt.Errorf("analysis-db-connect: %w", err)
	}

	// For SQLite, resolve to actual file paths to catch default path conflicts
	if cfg.CacheBackend == schema.SQLiteBackend && cfg.AnalysisBackend == schema.SQLiteBackend {
		cacheDBPath := cfg.CacheDBConnect
		if cacheDBPath == "" {
			cacheDBPath = GetCacheDBFilePath()
		}
		analysisDBPath := cfg.AnalysisDBConnect
		if analysisDBPath == "" {
			analysisDBPath = GetAnalysisDBFilePath()
		}
		if cacheDBPath == analysisDBPath {
			return fmt.Errorf("cache and analysis storage must use different SQLite database files. Both resolve to %q", cacheDBPath)
		}
	}
	return nil
}

// DefaultExcludes are skipped before classification unless the user overrides them.
var DefaultExcludes = []string{
	".min.js", ".min.css",
	".jpg", ".jpeg", ".png", ".gif", ".svg", ".ico", ".mp4", ".mov", ".webm", ".mp3", ".ogg", ".pdf", ".webp",
	".DS_Store", ".gitignore",
}

// validateSimpleInputs processes and validates all non-path related fields.
func validateSimpleInputs(cfg *Config, input *ConfigRawInput) error {
	// --- 0. Transfer simple non-validated fields from input -> cfg ---
	cfg.OutputFile = input.OutputFile
	cfg.Width = input.Width
	cfg.IncludeSuggested = input.IncludeSuggested

	cfg.LogLevel = strings.ToLower(strings.TrimSpace(input.LogLevel))
	if cfg.LogLevel == "" {
		cfg.LogLevel = DefaultLogLevel
	}
	if err := SetLogLevel(cfg.LogLevel); err != nil {
		return err
	}

	emojis, err := parseBoolDefault(input.Emoji, false)
	if err != nil {
		return fmt.Errorf("invalid --emoji value: %w", err)
	}
	cfg.UseEmojis = emojis

	colors, err := parseBoolDefault(input.Color, true)
	if err != nil {
		return fmt.Errorf("invalid --color value: %w", err)
	}
	cfg.UseColors = colors

	// --- 1. ResultLimit Validation ---
	if input.Limit <= 0 || input.Limit > MaxResultLimit {
		return fmt.Errorf("limit must be greater than 0 and cannot exceed %d (received %d)", MaxResultLimit, input.Limit)
	}
	cfg.ResultLimit = input.Limit

	// --- 2. Relevance Validation ---
	if input.MinRelevance <= 0 || input.MinRelevance >= 1 {
		return fmt.Errorf("min-relevance must be between 0 and 1 exclusive (received %.2f)", input.MinRelevance)
	}
	cfg.MinRelevance = input.MinRelevance

	// --- 3. Precision and Output Validation ---
	if input.Precision < 1 || input.Precision > 2 {
		return fmt.Errorf("precision must be 1 or 2 (received %d)", input.Precision)
	}
	cfg.Precision = input.Precision

	cfg.Output = schema.OutputMode(strings.ToLower(input.Output))
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return fmt.Errorf("invalid output format '%s'. must be text, csv, json, paths", cfg.Output)
	}

	// --- 4. Backend Validation ---
	if err := validateBackendConfigs(cfg, input); err != nil {
		return err
	}

	// --- 5. Excludes Processing ---
	cfg.Excludes = slices.Clone(DefaultExcludes)
	if input.Exclude != "" {
		for p := range strings.SplitSeq(input.Exclude, ",") {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				cfg.Excludes = append(cfg.Excludes, trimmed)
			}
		}
	}
	return nil
}

// parseBoolDefault is ParseBoolString with a fallback for unset values.
func parseBoolDefault(s string, def bool) (bool, error) {
	if strings.TrimSpace(s) == "" {
		return def, nil
	}
	return ParseBoolString(s)
}

// processChangeSource decides where the change set comes from.
// A change document or diff file wins over Git references.
func processChangeSource(cfg *Config, input *ConfigRawInput) error {
	cfg.InputFile = strings.TrimSpace(input.Input)
	cfg.DiffFile = strings.TrimSpace(input.Diff)
	cfg.IndexFile = strings.TrimSpace(input.IndexFile)
	cfg.NoIndex = input.NoIndex
	cfg.BaseRef = strings.TrimSpace(input.BaseRef)
	cfg.TargetRef = strings.TrimSpace(input.TargetRef)

	if cfg.InputFile != "" && cfg.DiffFile != "" {
		return fmt.Errorf("--input and --diff cannot be used together")
	}
	if cfg.NoIndex && cfg.IndexFile != "" {
		return fmt.Errorf("--no-index and --index-file cannot be used together")
	}
	if cfg.UsesGitRefs() && !input.ServerMode {
		if cfg.BaseRef == "" {
			return fmt.Errorf("must specify --base-ref, --input, or --diff to describe the change set")
		}
		if cfg.TargetRef == "" {
			cfg.TargetRef = "HEAD"
		}
	}
	return nil
}

// processCheckThresholds validates the gating thresholds of the check command.
func processCheckThresholds(cfg *Config, input *ConfigRawInput) error {
	if input.MinCoverage < 0 || input.MinCoverage > 100 {
		return fmt.Errorf("min-coverage must be between 0 and 100 (received %d)", input.MinCoverage)
	}
	if input.MaxRisk < 0 || input.MaxRisk > 100 {
		return fmt.Errorf("max-risk must be between 0 and 100 (received %d)", input.MaxRisk)
	}
	cfg.MinCoverage = input.MinCoverage
	cfg.MaxRisk = input.MaxRisk
	return nil
}

// processCITrigger validates the CI provider settings.
func processCITrigger(cfg *Config, input *ConfigRawInput) error {
	cfg.CIURL = strings.TrimRight(strings.TrimSpace(input.CIURL), "/")
	cfg.CIJob = strings.TrimSpace(input.CIJob)
	cfg.CIUser = input.CIUser
	cfg.CIToken = input.CIToken
	cfg.Branch = strings.TrimSpace(input.Branch)
	cfg.PRNumber = strings.TrimSpace(input.PRNumber)

	cfg.CIProvider = strings.ToLower(strings.TrimSpace(input.CIProvider))
	if input.DryRun {
		cfg.CIProvider = DryRunProvider
	}
	switch cfg.CIProvider {
	case "", JenkinsProvider, DryRunProvider:
	default:
		return fmt.Errorf("invalid ci provider '%s'. must be jenkins, dry-run", input.CIProvider)
	}

	cfg.CITimeout = DefaultCITimeout
	if input.CITimeout != "" {
		d, err := time.ParseDuration(input.CITimeout)
		if err != nil || d <= 0 {
			return fmt.Errorf("invalid ci-timeout '%s'. must be a positive duration like 30s", input.CITimeout)
		}
		cfg.CITimeout = d
	}
	return nil
}

// processServer copies the HTTP server settings.
func processServer(cfg *Config, input *ConfigRawInput) {
	cfg.ServeAddr = strings.TrimSpace(input.Addr)
	if cfg.ServeAddr == "" {
		cfg.ServeAddr = DefaultServeAddr
	}
	cfg.AllowedOrigins = nil
	for o := range strings.SplitSeq(input.AllowedOrigins, ",") {
		if trimmed := strings.TrimSpace(o); trimmed != "" {
			cfg.AllowedOrigins = append(cfg.AllowedOrigins, trimmed)
		}
	}
}

// ProcessProfilingConfig handles the profiling flag and sets up profiling configuration.
func ProcessProfilingConfig(profile *ProfileConfig, profilePrefix string) error {
	if profilePrefix != "" {
		profile.Enabled = true
		profile.Prefix = profilePrefix
	}
	return nil
}

// resolveGitPath resolves the Git repository root. Change documents and diff
// files may be analyzed outside a checkout, in which case the given
// directory is used as is.
func resolveGitPath(ctx context.Context, cfg *Config, client GitClient, input *ConfigRawInput) error {
	searchPath := input.RepoPathStr
	if searchPath == "" {
		searchPath = "."
	}
	absSearchPath, err := filepath.Abs(searchPath)
	if err != nil {
		return err
	}
	absSearchPath = filepath.Clean(absSearchPath)

	gitContextPath := absSearchPath
	if info, statErr := os.Stat(absSearchPath); statErr == nil && !info.IsDir() {
		gitContextPath = filepath.Dir(absSearchPath)
	}

	gitRoot, err := client.GetRepoRoot(ctx, gitContextPath)
	if err != nil {
		if cfg.UsesGitRefs() && !input.ServerMode {
			return err
		}
		cfg.RepoPath = gitContextPath
		cfg.HasRepo = false
		return nil
	}
	cfg.RepoPath = gitRoot
	cfg.HasRepo = true
	return nil
}
