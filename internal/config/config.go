// Package config loads synthgen settings from defaults, an optional YAML file,
// an optional .env file and SYNTHGEN_* environment variables, in that order.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"pkg.jsn.cam/synthgen/internal/datasets"
)

// LedgerOff disables the run ledger when used as the ledger path.
const LedgerOff = "off"

// Config holds all synthgen settings.
type Config struct {
	// Seed of the run. Zero picks a fresh seed per invocation.
	Seed uint64 `yaml:"seed"`

	OutputDir string `yaml:"output_dir"`
	// SQLDir is resolved against OutputDir when relative.
	SQLDir string `yaml:"sql_dir"`
	// Ledger is the run history file. Empty means <output_dir>/.synthgen.db.
	Ledger string `yaml:"ledger"`

	// Interval paces the telemetry stream.
	Interval time.Duration `yaml:"interval"`

	Log      LogConfig       `yaml:"log"`
	Datasets datasets.Params `yaml:"datasets"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// DefaultConfig writes next to the working directory with the stock dataset sizes.
func DefaultConfig() *Config {
	return &Config{
		OutputDir: ".",
		SQLDir:    "generated_big_data_sql_files",
		Interval:  time.Second,
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
		Datasets: datasets.DefaultParams(),
	}
}

// Load returns the defaults overlaid with the YAML file at path, then with
// the environment. A missing file, or an empty path, leaves the defaults.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("failed to read config: %w", err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config: %w", err)
			}
		}
	}

	if err := LoadDotEnv(".env"); err != nil {
		return nil, err
	}
	if err := cfg.applyEnvOverrides(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadDotEnv exports the variables of an env file without overriding ones
// already set. A missing file is not an error.
func LoadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

// Save writes the configuration as YAML.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

func (c *Config) applyEnvOverrides() error {
	if v := os.Getenv("SYNTHGEN_SEED"); v != "" {
		seed, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid SYNTHGEN_SEED %q: %w", v, err)
		}
		c.Seed = seed
	}
	c.OutputDir = getEnv("SYNTHGEN_OUTPUT_DIR", c.OutputDir)
	c.SQLDir = getEnv("SYNTHGEN_SQL_DIR", c.SQLDir)
	c.Ledger = getEnv("SYNTHGEN_LEDGER", c.Ledger)
	c.Log.Level = getEnv("SYNTHGEN_LOG_LEVEL", c.Log.Level)
	c.Log.Format = getEnv("SYNTHGEN_LOG_FORMAT", c.Log.Format)
	return nil
}

var (
	validLevels  = []string{"debug", "info", "warn", "error"}
	validFormats = []string{"console", "json"}
)

// Validate checks the configuration before any output is produced.
func (c *Config) Validate() error {
	if c.OutputDir == "" {
		return fmt.Errorf("output directory not configured")
	}
	if c.Interval < 0 {
		return fmt.Errorf("invalid interval %s: must not be negative", c.Interval)
	}
	if !slices.Contains(validLevels, strings.ToLower(c.Log.Level)) {
		return fmt.Errorf("invalid log level: %s (valid: %v)", c.Log.Level, validLevels)
	}
	if !slices.Contains(validFormats, strings.ToLower(c.Log.Format)) {
		return fmt.Errorf("invalid log format: %s (valid: %v)", c.Log.Format, validFormats)
	}
	return c.Datasets.Validate()
}

// SQLPath is the directory SQL datasets are written to.
func (c *Config) SQLPath() string {
	if filepath.IsAbs(c.SQLDir) {
		return c.SQLDir
	}
	return filepath.Join(c.OutputDir, c.SQLDir)
}

// LedgerPath is the run ledger file, or "" when the ledger is off.
func (c *Config) LedgerPath() string {
	switch c.Ledger {
	case LedgerOff:
		return ""
	case "":
		return filepath.Join(c.OutputDir, ".synthgen.db")
	default:
		return c.Ledger
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
