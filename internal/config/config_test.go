package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	require.NoError(t, cfg.Validate())
	assert.Equal(t, time.Second, cfg.Interval)
	assert.Equal(t, 5, cfg.Datasets.Batch.Wells)
	assert.Equal(t, 1000, cfg.Datasets.Batch.RecordsPerWell)
	assert.Equal(t, 0.40, cfg.Datasets.SQL.ErrorRate)
	assert.Equal(t, "BMW", cfg.Datasets.Telemetry.Model)
	assert.Equal(t, filepath.Join(".", "generated_big_data_sql_files"), cfg.SQLPath())
	assert.Equal(t, filepath.Join(".", ".synthgen.db"), cfg.LedgerPath())
}

func TestLoad_MissingFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)

	if diff := cmp.Diff(DefaultConfig(), cfg); diff != "" {
		t.Errorf("Load() of a missing file differs from defaults (-want +got):\n%s", diff)
	}
}

func TestLoad_YAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "synthgen.yaml")
	data := `
seed: 1234
output_dir: /tmp/out
interval: 250ms
log:
  level: debug
datasets:
  batch:
    wells: 2
    missing_rate: 0.1
  sql:
    error_rate: 0
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.EqualValues(t, 1234, cfg.Seed)
	assert.Equal(t, "/tmp/out", cfg.OutputDir)
	assert.Equal(t, 250*time.Millisecond, cfg.Interval)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format, "unset keys keep defaults")
	assert.Equal(t, 2, cfg.Datasets.Batch.Wells)
	assert.Equal(t, 1000, cfg.Datasets.Batch.RecordsPerWell)
	assert.Equal(t, 0.1, cfg.Datasets.Batch.MissingRate)
	assert.Zero(t, cfg.Datasets.SQL.ErrorRate)
	assert.Equal(t, "/tmp/out/generated_big_data_sql_files", cfg.SQLPath())
}

func TestLoad_BadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "synthgen.yaml")
	require.NoError(t, os.WriteFile(path, []byte("seed: [not, a, number"), 0644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("SYNTHGEN_SEED", "77")
	t.Setenv("SYNTHGEN_OUTPUT_DIR", "/data")
	t.Setenv("SYNTHGEN_SQL_DIR", "/sql")
	t.Setenv("SYNTHGEN_LEDGER", LedgerOff)
	t.Setenv("SYNTHGEN_LOG_LEVEL", "warn")
	t.Setenv("SYNTHGEN_LOG_FORMAT", "json")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.EqualValues(t, 77, cfg.Seed)
	assert.Equal(t, "/data", cfg.OutputDir)
	assert.Equal(t, "/sql", cfg.SQLPath())
	assert.Empty(t, cfg.LedgerPath())
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoad_InvalidSeed(t *testing.T) {
	t.Setenv("SYNTHGEN_SEED", "-1")

	_, err := Load("")
	assert.Error(t, err)
}

func TestLoadDotEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("SYNTHGEN_LOG_LEVEL=error\n"), 0644))
	t.Setenv("SYNTHGEN_LOG_LEVEL", "")
	os.Unsetenv("SYNTHGEN_LOG_LEVEL")

	require.NoError(t, LoadDotEnv(path))
	assert.Equal(t, "error", os.Getenv("SYNTHGEN_LOG_LEVEL"))

	assert.NoError(t, LoadDotEnv(filepath.Join(t.TempDir(), "missing.env")))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{"defaults", func(c *Config) {}, false},
		{"upper case level", func(c *Config) { c.Log.Level = "DEBUG" }, false},
		{"no output dir", func(c *Config) { c.OutputDir = "" }, true},
		{"negative interval", func(c *Config) { c.Interval = -time.Second }, true},
		{"bad level", func(c *Config) { c.Log.Level = "trace" }, true},
		{"bad format", func(c *Config) { c.Log.Format = "xml" }, true},
		{"bad dataset rate", func(c *Config) { c.Datasets.Telemetry.ErrorRate = 3 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "synthgen.yaml")

	cfg := DefaultConfig()
	cfg.Seed = 9
	cfg.Interval = 2 * time.Second
	cfg.Datasets.Places.MinWellsPerPlace = 10
	cfg.Datasets.Places.MaxWellsPerPlace = 20
	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	if diff := cmp.Diff(cfg, loaded); diff != "" {
		t.Errorf("Save/Load mismatch (-want +got):\n%s", diff)
	}
}
