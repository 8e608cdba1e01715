package main

import (
	"bufio"
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pkg.jsn.cam/synthgen/internal/datasets"
	"pkg.jsn.cam/synthgen/internal/ledger"
	"pkg.jsn.cam/synthgen/pkg/sink"
)

const testConfig = `
seed: 5
log:
  level: error
datasets:
  batch:
    wells: 2
    records_per_well: 5
  sql:
    wells: 3
    records_per_well: 4
  places:
    min_wells_per_place: 1
    max_wells_per_place: 2
`

// workspace writes a small config and returns its path and the output dir.
func workspace(t *testing.T) (string, string) {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "synthgen.yaml")
	require.NoError(t, os.WriteFile(path, []byte(testConfig), 0644))
	return path, filepath.Join(dir, "out")
}

// resetFlags restores every flag so commands can run again in one process.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.PersistentFlags().VisitAll(reset)
	cmd.Flags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(io.Discard)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestBatch(t *testing.T) {
	config, out := workspace(t)

	stdout, err := execute(t, "--config", config, "--out", out, "-q", "batch")
	require.NoError(t, err)

	for _, name := range []string{
		"wellbore_data.csv",
		"geophysical_logs.csv",
		"well_characterization.csv",
		"seismic_data.csv",
		"production_data.csv",
	} {
		data, err := os.ReadFile(filepath.Join(out, name))
		require.NoError(t, err, name)
		assert.Equal(t, 11, strings.Count(string(data), "\n"), "%s: header plus 2x5 rows", name)
	}
	assert.Contains(t, stdout, "wellbore: 10 rows")

	header, err := firstLine(filepath.Join(out, "wellbore_data.csv"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(header, "well_id,date,measured_depth_m,"), header)
}

func TestBatch_Selected(t *testing.T) {
	config, out := workspace(t)

	_, err := execute(t, "--config", config, "--out", out, "-q", "batch", "seismic")
	require.NoError(t, err)

	assert.FileExists(t, filepath.Join(out, "seismic_data.csv"))
	assert.NoFileExists(t, filepath.Join(out, "wellbore_data.csv"))
}

func TestBatch_Errors(t *testing.T) {
	config, out := workspace(t)

	_, err := execute(t, "--config", config, "--out", out, "-q", "batch", "nope")
	assert.ErrorIs(t, err, datasets.ErrUnknownDataset)

	_, err = execute(t, "--config", config, "--out", out, "-q", "batch", "telemetry")
	assert.ErrorIs(t, err, errStreamOnly)
}

func TestSQL(t *testing.T) {
	config, out := workspace(t)

	_, err := execute(t, "--config", config, "--out", out, "-q", "sql")
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(out, "generated_big_data_sql_files", "wellbore_data.sql"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "CREATE TABLE wellbore_data ("))
	assert.Equal(t, 8, strings.Count(string(data), "INSERT INTO wellbore_data VALUES ("), "WELL 1 and WELL 2 with 4 records each")

	assert.FileExists(t, filepath.Join(out, "generated_big_data_sql_files", "geophysical_logs.sql"))
}

func TestPlaces(t *testing.T) {
	config, out := workspace(t)

	_, err := execute(t, "--config", config, "--out", out, "-q", "places")
	require.NoError(t, err)

	header, err := firstLine(filepath.Join(out, "wellbore_data_with_places.csv"))
	require.NoError(t, err)
	assert.Contains(t, header, "PRESSURE_PSI")
}

func TestSeedReproducible(t *testing.T) {
	config, out := workspace(t)
	a, b := filepath.Join(out, "a"), filepath.Join(out, "b")

	_, err := execute(t, "--config", config, "--out", a, "-q", "--seed", "99", "batch", "production")
	require.NoError(t, err)
	_, err = execute(t, "--config", config, "--out", b, "-q", "--seed", "99", "batch", "production")
	require.NoError(t, err)

	first, err := os.ReadFile(filepath.Join(a, "production_data.csv"))
	require.NoError(t, err)
	second, err := os.ReadFile(filepath.Join(b, "production_data.csv"))
	require.NoError(t, err)
	assert.Equal(t, string(first), string(second))
}

func TestStream(t *testing.T) {
	config, out := workspace(t)

	stdout, err := execute(t, "--config", config, "--out", out, "stream", "--count", "3", "--interval", "0", "--model", "M3")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(stdout), "\n")
	require.Len(t, lines, 3)
	for _, line := range lines {
		var obj map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &obj), line)
		assert.Equal(t, "M3", obj["vehicle_model"])
		assert.Contains(t, obj, "tire_pressure_psi")
	}
}

func TestList(t *testing.T) {
	config, out := workspace(t)

	stdout, err := execute(t, "--config", config, "--out", out, "list")
	require.NoError(t, err)

	for _, name := range datasets.List() {
		assert.Contains(t, stdout, name)
	}
	assert.Contains(t, stdout, "unbounded")
}

func TestRuns(t *testing.T) {
	config, out := workspace(t)

	stdout, err := execute(t, "--config", config, "--out", out, "runs")
	require.NoError(t, err)
	assert.Contains(t, stdout, "No runs recorded")

	_, err = execute(t, "--config", config, "--out", out, "-q", "batch", "wellbore", "seismic")
	require.NoError(t, err)

	stdout, err = execute(t, "--config", config, "--out", out, "runs")
	require.NoError(t, err)
	assert.Contains(t, stdout, "wellbore")
	assert.Contains(t, stdout, "seismic")
	assert.Contains(t, stdout, "2 of 2 runs")

	l, err := ledger.OpenFile(filepath.Join(out, ".synthgen.db"), nil)
	require.NoError(t, err)
	runs, err := l.List()
	require.NoError(t, err)
	require.NoError(t, l.Close())
	require.Len(t, runs, 2)
	for _, run := range runs {
		assert.Contains(t, stdout, shortID(run.ID))
	}

	stdout, err = execute(t, "--config", config, "--out", out, "runs", "--prune", "0")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Pruned 2 runs")
	assert.Contains(t, stdout, "No runs recorded")
}

func TestShortID_Distinct(t *testing.T) {
	seen := map[string]bool{}
	for range 50 {
		id := shortID(ledger.NewRun("wellbore", sink.FormatCSV, "", 1).ID)
		assert.Len(t, id, 12)
		assert.False(t, seen[id], "duplicate short id %s", id)
		seen[id] = true
	}
}

func TestInvalidConfig(t *testing.T) {
	config, out := workspace(t)
	require.NoError(t, os.WriteFile(config, []byte("log:\n  format: xml\n"), 0644))

	_, err := execute(t, "--config", config, "--out", out, "list")
	assert.ErrorContains(t, err, "invalid configuration")
}

func firstLine(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()
	s := bufio.NewScanner(f)
	s.Scan()
	return s.Text(), s.Err()
}
