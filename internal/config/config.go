package config

import (
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"sheetdiff/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Database DatabaseConfig
	Server   ServerConfig
	Batch    BatchConfig
	Recalc   RecalcConfig
	Log      LogConfig
	// LayoutsFile optionally points at a YAML file of layout definitions
	// that extend or override the built-in ones.
	LayoutsFile string
}

// DatabaseConfig holds database connection settings. An empty URL keeps run
// history in memory.
type DatabaseConfig struct {
	URL             string
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
}

// ServerConfig holds viewer server settings
type ServerConfig struct {
	Addr    string
	GinMode string
}

// BatchConfig holds the batch folder convention and report settings
type BatchConfig struct {
	V1Dir     string
	V2Dir     string
	ResultDir string
	ReportDir string
	// ReportFormats lists the report writers to run after a batch.
	ReportFormats []string
}

// RecalcConfig selects how formulas are recalculated before comparison
type RecalcConfig struct {
	Mode    string
	Soffice string
	Timeout time.Duration
}

// LogConfig holds logging settings
type LogConfig struct {
	Level  string
	Format string
}

// Recognized values
var (
	RecalcModes   = []string{"none", "excelize", "libreoffice"}
	ReportFormats = []string{"markdown", "xlsx", "html"}
	LogFormats    = []string{"console", "json"}
)

// LoadEnv loads .env files into the process environment. Missing files are
// ignored; variables already set win.
func LoadEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, path := range paths {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if err := godotenv.Load(path); err != nil {
			return errors.Wrapf(errors.ConfigInvalid(err.Error()), "failed to load %s", path)
		}
	}
	return nil
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{
		Database:    *loadDatabaseConfig(),
		Server:      *loadServerConfig(),
		Batch:       *loadBatchConfig(),
		Recalc:      *loadRecalcConfig(),
		Log:         *loadLogConfig(),
		LayoutsFile: getEnvOrDefault("LAYOUTS_FILE", ""),
	}

	if err := config.Validate(); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}
	return config, nil
}

func loadDatabaseConfig() *DatabaseConfig {
	return &DatabaseConfig{
		URL:             getEnvOrDefault("DATABASE_URL", ""),
		MaxOpenConns:    getEnvIntOrDefault("DB_MAX_OPEN_CONNS", 5),
		ConnMaxLifetime: getEnvDurationOrDefault("DB_CONN_MAX_LIFETIME", 30*time.Minute),
	}
}

func loadServerConfig() *ServerConfig {
	return &ServerConfig{
		Addr:    getEnvOrDefault("UI_ADDR", ":8080"),
		GinMode: getEnvOrDefault("GIN_MODE", "release"),
	}
}

func loadBatchConfig() *BatchConfig {
	return &BatchConfig{
		V1Dir:         getEnvOrDefault("V1_DIR", "V1"),
		V2Dir:         getEnvOrDefault("V2_DIR", "V2"),
		ResultDir:     getEnvOrDefault("RESULT_DIR", "result"),
		ReportDir:     getEnvOrDefault("REPORT_DIR", ""),
		ReportFormats: getEnvListOrDefault("REPORT_FORMATS", []string{"markdown", "xlsx"}),
	}
}

func loadRecalcConfig() *RecalcConfig {
	return &RecalcConfig{
		Mode:    strings.ToLower(getEnvOrDefault("RECALC_MODE", "none")),
		Soffice: getEnvOrDefault("SOFFICE_PATH", "soffice"),
		Timeout: getEnvDurationOrDefault("RECALC_TIMEOUT", 2*time.Minute),
	}
}

func loadLogConfig() *LogConfig {
	return &LogConfig{
		Level:  getEnvOrDefault("LOG_LEVEL", "INFO"),
		Format: strings.ToLower(getEnvOrDefault("LOG_FORMAT", "console")),
	}
}

// Validate checks values that have a fixed set of choices
func (c *Config) Validate() error {
	if !slices.Contains(RecalcModes, c.Recalc.Mode) {
		return errors.ConfigInvalid(fmt.Sprintf("RECALC_MODE must be one of %s, got %q", strings.Join(RecalcModes, ", "), c.Recalc.Mode))
	}
	if c.Recalc.Timeout <= 0 {
		return errors.ConfigInvalid("RECALC_TIMEOUT must be positive")
	}
	for _, f := range c.Batch.ReportFormats {
		if !slices.Contains(ReportFormats, f) {
			return errors.ConfigInvalid(fmt.Sprintf("REPORT_FORMATS: unknown format %q", f))
		}
	}
	if c.Batch.V1Dir == "" || c.Batch.V2Dir == "" || c.Batch.ResultDir == "" {
		return errors.ConfigInvalid("V1_DIR, V2_DIR and RESULT_DIR must not be empty")
	}
	if c.Batch.V1Dir == c.Batch.V2Dir {
		return errors.ConfigInvalid("V1_DIR and V2_DIR must differ")
	}
	if !slices.Contains(LogFormats, c.Log.Format) {
		return errors.ConfigInvalid(fmt.Sprintf("LOG_FORMAT must be console or json, got %q", c.Log.Format))
	}
	if c.LayoutsFile != "" {
		if _, err := os.Stat(c.LayoutsFile); err != nil {
			return errors.Wrap(errors.ConfigInvalid(err.Error()), "LAYOUTS_FILE is not readable")
		}
	}
	return nil
}

// HasDatabase reports whether run history goes to Postgres
func (c *Config) HasDatabase() bool {
	return c.Database.URL != ""
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// getEnvListOrDefault splits a comma-separated value, dropping blanks
func getEnvListOrDefault(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.ToLower(strings.TrimSpace(item)); item != "" {
			out = append(out, item)
		}
	}
	return out
}
