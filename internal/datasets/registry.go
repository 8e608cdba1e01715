package datasets

import (
	"fmt"
	"slices"

	"pkg.jsn.cam/synthgen/pkg/sample"
)

// Registry maps dataset names to generator factories.
var Registry = map[string]func() Generator{
	"telemetry":        NewTelemetry,
	"wellbore":         NewWellbore,
	"geophysical":      NewGeophysical,
	"characterization": NewCharacterization,
	"seismic":          NewSeismic,
	"production":       NewProduction,
	"wellbore-sql":     NewWellboreSQL,
	"geophysical-sql":  NewGeophysicalSQL,
	"places":           NewPlacesWells,
}

// Groups run together by the CLI, in write order.
var (
	BatchSets = []string{"wellbore", "geophysical", "characterization", "seismic", "production"}
	SQLSets   = []string{"wellbore-sql", "geophysical-sql"}
)

// Get returns a fresh, uninitialized generator by name.
func Get(name string) (Generator, error) {
	factory, exists := Registry[name]
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrUnknownDataset, name)
	}
	return factory(), nil
}

// List returns all dataset names, sorted.
func List() []string {
	names := make([]string, 0, len(Registry))
	for name := range Registry {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Build returns the named generator initialized for a run seeded with seed.
// Every dataset draws from its own stream derived from the seed and its name,
// and all per-well datasets of the same seed share one well catalog.
func Build(name string, seed uint64, p Params) (Generator, error) {
	g, err := Get(name)
	if err != nil {
		return nil, err
	}
	if wc, ok := g.(WellConsumer); ok {
		wc.UseWells(NewWells(sample.Derive(seed, "wells"), p.Batch.Wells))
	}
	if err := g.Init(sample.Derive(seed, name), p); err != nil {
		return nil, fmt.Errorf("init %s: %w", name, err)
	}
	return g, nil
}
