// Package datasets holds the entity catalogs and every synthetic dataset:
// the vehicle telemetry stream, the oil and gas CSV batches, the SQL insert
// files and the location-tagged wellbore table.
package datasets

import (
	"errors"
	"fmt"
	"math/rand/v2"

	"pkg.jsn.cam/synthgen/pkg/defect"
	"pkg.jsn.cam/synthgen/pkg/record"
	"pkg.jsn.cam/synthgen/pkg/sink"
)

var (
	ErrUnknownDataset = errors.New("unknown dataset")
	ErrInvalidParams  = errors.New("invalid dataset parameters")
	ErrNotInitialized = errors.New("generator not initialized")
)

// Unbounded is the Count of a generator that never runs out.
const Unbounded int64 = -1

// Generator produces the records of one dataset.
type Generator interface {
	// Init builds the schema and the entity catalog, drawing from r. The
	// generator keeps r and uses it for every record.
	Init(r *rand.Rand, p Params) error

	// Next returns the next record, or io.EOF once the dataset is exhausted.
	Next() (*record.Record, error)

	Schema() *record.Schema
	Tally() *defect.Tally

	// Count is the number of records Next will return, or Unbounded.
	Count() int64

	Description() string
	Format() sink.Format

	// FileName is the output file name, relative to the directory of the
	// dataset's format. Stream datasets return "".
	FileName() string
}

// Params are the tunables of every dataset.
type Params struct {
	Telemetry TelemetryParams `yaml:"telemetry"`
	Batch     BatchParams     `yaml:"batch"`
	SQL       SQLParams       `yaml:"sql"`
	Places    PlacesParams    `yaml:"places"`
}

type TelemetryParams struct {
	Model     string  `yaml:"model"`
	ErrorRate float64 `yaml:"error_rate"`
}

type BatchParams struct {
	Wells          int     `yaml:"wells"`
	RecordsPerWell int     `yaml:"records_per_well"`
	MissingRate    float64 `yaml:"missing_rate"`
	WrongTypeRate  float64 `yaml:"wrong_type_rate"`
	OutlierRate    float64 `yaml:"outlier_rate"`
}

type SQLParams struct {
	Wells          int     `yaml:"wells"`
	RecordsPerWell int     `yaml:"records_per_well"`
	ErrorRate      float64 `yaml:"error_rate"`
}

type PlacesParams struct {
	MinWellsPerPlace  int     `yaml:"min_wells_per_place"`
	MaxWellsPerPlace  int     `yaml:"max_wells_per_place"`
	DateErrorRate     float64 `yaml:"date_error_rate"`
	PressureErrorRate float64 `yaml:"pressure_error_rate"`
}

// DefaultParams returns the stock sizes and defect rates.
func DefaultParams() Params {
	return Params{
		Telemetry: TelemetryParams{
			Model:     "BMW",
			ErrorRate: 0.03,
		},
		Batch: BatchParams{
			Wells:          5,
			RecordsPerWell: 1000,
			MissingRate:    0.05,
			WrongTypeRate:  0.05,
			OutlierRate:    0.05,
		},
		SQL: SQLParams{
			Wells:          10000,
			RecordsPerWell: 100,
			ErrorRate:      0.40,
		},
		Places: PlacesParams{
			MinWellsPerPlace:  2200,
			MaxWellsPerPlace:  2500,
			DateErrorRate:     0.25,
			PressureErrorRate: 0.10,
		},
	}
}

// Validate rejects negative sizes and probabilities outside [0, 1].
func (p Params) Validate() error {
	rates := map[string]float64{
		"telemetry.error_rate":       p.Telemetry.ErrorRate,
		"batch.missing_rate":         p.Batch.MissingRate,
		"batch.wrong_type_rate":      p.Batch.WrongTypeRate,
		"batch.outlier_rate":         p.Batch.OutlierRate,
		"sql.error_rate":             p.SQL.ErrorRate,
		"places.date_error_rate":     p.Places.DateErrorRate,
		"places.pressure_error_rate": p.Places.PressureErrorRate,
	}
	for name, rate := range rates {
		if rate < 0 || rate > 1 {
			return fmt.Errorf("%w: %s = %v, want a probability", ErrInvalidParams, name, rate)
		}
	}

	sizes := map[string]int{
		"batch.wells":                p.Batch.Wells,
		"batch.records_per_well":     p.Batch.RecordsPerWell,
		"sql.wells":                  p.SQL.Wells,
		"sql.records_per_well":       p.SQL.RecordsPerWell,
		"places.min_wells_per_place": p.Places.MinWellsPerPlace,
	}
	for name, n := range sizes {
		if n < 0 {
			return fmt.Errorf("%w: %s = %d", ErrInvalidParams, name, n)
		}
	}
	if p.Places.MaxWellsPerPlace < p.Places.MinWellsPerPlace {
		return fmt.Errorf("%w: places.max_wells_per_place %d below min %d",
			ErrInvalidParams, p.Places.MaxWellsPerPlace, p.Places.MinWellsPerPlace)
	}
	return nil
}

// base carries what every generator shares once initialized.
type base struct {
	asm *record.Assembler
}

func (b *base) init(r *rand.Rand, s *record.Schema) {
	b.asm = record.NewAssembler(s, r, nil)
}

func (b *base) Schema() *record.Schema {
	if b.asm == nil {
		return nil
	}
	return b.asm.Schema()
}

func (b *base) Tally() *defect.Tally {
	if b.asm == nil {
		return nil
	}
	return b.asm.Tally()
}

func (b *base) ready() error {
	if b.asm == nil {
		return ErrNotInitialized
	}
	return nil
}

// grid walks every (outer, inner) index pair in row-major order.
type grid struct {
	outer, inner   int
	nOuter, nInner int
}

func newGrid(nOuter, nInner int) grid {
	return grid{nOuter: nOuter, nInner: nInner}
}

func (g *grid) next() (outer, inner int, ok bool) {
	if g.nInner <= 0 || g.outer >= g.nOuter {
		return 0, 0, false
	}
	outer, inner = g.outer, g.inner
	g.inner++
	if g.inner == g.nInner {
		g.inner = 0
		g.outer++
	}
	return outer, inner, true
}

func (g *grid) total() int64 {
	if g.nInner <= 0 || g.nOuter <= 0 {
		return 0
	}
	return int64(g.nOuter) * int64(g.nInner)
}
