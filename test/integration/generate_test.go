package integration

import (
	"bufio"
	"context"
	"encoding/csv"
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"testing"
	"time"

	"pkg.jsn.cam/synthgen/internal/datasets"
	"pkg.jsn.cam/synthgen/internal/runner"
	"pkg.jsn.cam/synthgen/pkg/field"
	"pkg.jsn.cam/synthgen/pkg/sample"
	"pkg.jsn.cam/synthgen/pkg/sink"
)

const seed = 20240501

// generate writes one dataset to dir and returns the file path.
func generate(t *testing.T, dir, name string, p datasets.Params) string {
	t.Helper()

	gen, err := datasets.Build(name, seed, p)
	if err != nil {
		t.Fatalf("Build(%s) failed: %v", name, err)
	}
	path := filepath.Join(dir, gen.FileName())
	f, err := sink.Create(path)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	w, err := sink.New(gen.Format(), f, gen.Schema())
	if err != nil {
		t.Fatalf("sink.New failed: %v", err)
	}

	sum, err := runner.Run(context.Background(), gen, w, runner.Options{})
	if err != nil {
		t.Fatalf("Run(%s) failed: %v", name, err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close sink failed: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("Close file failed: %v", err)
	}
	if sum.Rows != gen.Count() {
		t.Fatalf("%s wrote %d rows, want %d", name, sum.Rows, gen.Count())
	}
	return path
}

func readCSV(t *testing.T, path string) ([]string, []map[string]string) {
	t.Helper()

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("ReadAll failed: %v", err)
	}
	if len(rows) == 0 {
		t.Fatal("CSV has no header")
	}
	header := rows[0]
	var out []map[string]string
	for _, row := range rows[1:] {
		m := make(map[string]string, len(header))
		for i, h := range header {
			m[h] = row[i]
		}
		out = append(out, m)
	}
	return header, out
}

// TestWellboreDepthProfile checks that without defects the measured depth of
// every well climbs steadily and stops at the well's total depth.
func TestWellboreDepthProfile(t *testing.T) {
	t.Parallel()

	p := datasets.DefaultParams()
	p.Batch.MissingRate, p.Batch.WrongTypeRate, p.Batch.OutlierRate = 0, 0, 0

	path := generate(t, t.TempDir(), "wellbore", p)
	_, rows := readCSV(t, path)
	if len(rows) != 5*1000 {
		t.Fatalf("got %d rows, want 5000", len(rows))
	}

	total := map[string]int64{}
	for _, w := range datasets.NewWells(sample.Derive(seed, "wells"), p.Batch.Wells) {
		total[w.ID] = w.TotalDepth
	}

	last := map[string]int64{}
	for i, row := range rows {
		id := row["well_id"]
		depth, err := strconv.ParseInt(row["measured_depth_m"], 10, 64)
		if err != nil {
			t.Fatalf("row %d: depth %q: %v", i, row["measured_depth_m"], err)
		}
		if prev, ok := last[id]; ok && depth < prev {
			t.Fatalf("row %d: %s depth went from %d to %d", i, id, prev, depth)
		}
		if depth > total[id] {
			t.Fatalf("row %d: %s depth %d exceeds total depth %d", i, id, depth, total[id])
		}
		last[id] = depth
	}

	for id, depth := range last {
		if depth != total[id] {
			t.Errorf("%s ended at %d, want total depth %d", id, depth, total[id])
		}
	}
}

// TestBatchDefects checks the first-hit chain leaves a visible mix of empty
// cells, sentinels and outliers at the configured rates.
func TestBatchDefects(t *testing.T) {
	t.Parallel()

	p := datasets.DefaultParams()
	path := generate(t, t.TempDir(), "geophysical", p)
	_, rows := readCSV(t, path)

	var missing, wrong, n int
	for _, row := range rows {
		v := row["gamma_ray_api"]
		n++
		switch {
		case v == "":
			missing++
		case slices.Contains([]string{"ERROR", "N/A", "NULL", "XYZ"}, v):
			wrong++
		}
	}

	// missing fires first at 5%, wrong type at 5% of the remainder.
	checkRate(t, "missing", missing, n, 0.05)
	checkRate(t, "wrong type", wrong, n, 0.95*0.05)
}

// TestPlacesDefects checks date and pressure corruption in the
// location-tagged dataset.
func TestPlacesDefects(t *testing.T) {
	t.Parallel()

	p := datasets.DefaultParams()
	p.Places.MinWellsPerPlace, p.Places.MaxWellsPerPlace = 300, 300

	path := generate(t, t.TempDir(), "places", p)
	header, rows := readCSV(t, path)
	if len(header) != 22 || header[0] != "CITY" {
		t.Fatalf("unexpected header %v", header)
	}
	if len(rows) != 3000 {
		t.Fatalf("got %d rows, want 3000", len(rows))
	}

	var badDates, badPressure int
	for i, row := range rows {
		if !strings.HasPrefix(row["WELL_ID"], "WELL-") {
			t.Fatalf("row %d: well id %q", i, row["WELL_ID"])
		}
		if _, err := time.Parse(field.DateLayout, row["DATE_LOGGED"]); err != nil {
			badDates++
		}

		pressure := row["PRESSURE_PSI"]
		if v, ok := strings.CutSuffix(pressure, " PSI"); ok {
			n, err := strconv.Atoi(v)
			if err != nil || n < 1000 || n > 15000 {
				t.Fatalf("row %d: clean pressure %q out of range", i, pressure)
			}
			continue
		}
		badPressure++
		if slices.Contains([]string{"NULL", "ERROR", "N/A"}, pressure) {
			continue
		}
		if n, err := strconv.Atoi(pressure); err != nil || n < 99999 {
			t.Fatalf("row %d: unexpected pressure %q", i, pressure)
		}
	}

	checkRate(t, "date", badDates, len(rows), p.Places.DateErrorRate)
	checkRate(t, "pressure", badPressure, len(rows), p.Places.PressureErrorRate)
}

// TestSQLScript checks the script layout and that a clean run has no NULL or
// N/A values.
func TestSQLScript(t *testing.T) {
	t.Parallel()

	p := datasets.DefaultParams()
	p.SQL.Wells, p.SQL.RecordsPerWell, p.SQL.ErrorRate = 11, 20, 0

	path := generate(t, t.TempDir(), "geophysical-sql", p)
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer f.Close()

	var inserts int
	s := bufio.NewScanner(f)
	s.Scan()
	if s.Text() != "CREATE TABLE geophysical_logs (" {
		t.Fatalf("first line = %q", s.Text())
	}
	for s.Scan() {
		line := s.Text()
		if !strings.HasPrefix(line, "INSERT INTO") {
			continue
		}
		inserts++
		if !strings.HasSuffix(line, ");") {
			t.Fatalf("unterminated statement %q", line)
		}
		for _, token := range []string{"NULL", "N/A"} {
			if strings.Contains(line, token) {
				t.Fatalf("clean statement contains %s: %q", token, line)
			}
		}
	}
	if err := s.Err(); err != nil {
		t.Fatalf("Scan failed: %v", err)
	}
	if inserts != 10*20 {
		t.Errorf("got %d inserts, want 200", inserts)
	}
}

// TestTelemetryStream checks every line is a standalone JSON object with
// rpm either in its normal band or in the corruption band.
func TestTelemetryStream(t *testing.T) {
	t.Parallel()

	gen, err := datasets.Build("telemetry", seed, datasets.DefaultParams())
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	path := filepath.Join(t.TempDir(), "telemetry.jsonl")
	f, err := sink.Create(path)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if _, err := runner.Run(context.Background(), gen, sink.NewJSONLines(f), runner.Options{Limit: 5000}); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	lines := strings.Split(strings.TrimSuffix(string(data), "\n"), "\n")
	if len(lines) != 5000 {
		t.Fatalf("got %d lines, want 5000", len(lines))
	}

	var corrupted int
	for i, line := range lines {
		var rec struct {
			RPM      float64            `json:"rpm"`
			Tires    map[string]float64 `json:"tire_pressure_psi"`
			Location map[string]float64 `json:"location"`
		}
		if err := json.Unmarshal([]byte(line), &rec); err != nil {
			t.Fatalf("line %d: %v", i, err)
		}
		switch {
		case rec.RPM >= 600 && rec.RPM <= 8000:
		case rec.RPM >= 9999 && rec.RPM <= 19999:
			corrupted++
		default:
			t.Fatalf("line %d: rpm %v outside both bands", i, rec.RPM)
		}
		if len(rec.Tires) != 4 || len(rec.Location) != 2 {
			t.Fatalf("line %d: nesting lost: %s", i, line)
		}
	}
	checkRate(t, "rpm", corrupted, len(lines), 0.03)
}

// checkRate fails when got/n is more than five standard deviations from p.
func checkRate(t *testing.T, what string, got, n int, p float64) {
	t.Helper()
	rate := float64(got) / float64(n)
	sigma := math.Sqrt(p * (1 - p) / float64(n))
	if math.Abs(rate-p) > 5*sigma {
		t.Errorf("%s rate %.4f, want %.4f ± %.4f", what, rate, p, 5*sigma)
	}
}
