package record

import (
	"fmt"
	"math/rand/v2"

	"pkg.jsn.cam/synthgen/pkg/defect"
	"pkg.jsn.cam/synthgen/pkg/field"
	"pkg.jsn.cam/synthgen/pkg/sample"
)

// Record is one finished row: emitted values in schema order, plus the clean
// value each was derived from.
type Record struct {
	schema *Schema
	values []field.Value
	clean  []field.Value
}

func (r *Record) Schema() *Schema { return r.schema }

// Values returns emitted values in schema order. The slice must not be
// modified.
func (r *Record) Values() []field.Value { return r.values }

// At returns the emitted value of column i.
func (r *Record) At(i int) field.Value { return r.values[i] }

// CleanAt returns the clean value of column i.
func (r *Record) CleanAt(i int) field.Value { return r.clean[i] }

// Get returns the emitted value of the named column.
func (r *Record) Get(name string) (field.Value, bool) {
	i, ok := r.schema.Index(name)
	if !ok {
		return field.Value{}, false
	}
	return r.values[i], true
}

// Clean returns the clean value of the named column.
func (r *Record) Clean(name string) (field.Value, bool) {
	i, ok := r.schema.Index(name)
	if !ok {
		return field.Value{}, false
	}
	return r.clean[i], true
}

// Assembler builds records for one schema. It owns the random source shared
// by sampling and defect injection, and the tally of injected defects.
type Assembler struct {
	schema  *Schema
	rng     *rand.Rand
	sampler *sample.Sampler
	tally   *defect.Tally
}

// NewAssembler returns an assembler drawing from r. A nil tally gets a fresh
// one.
func NewAssembler(s *Schema, r *rand.Rand, t *defect.Tally) *Assembler {
	if t == nil {
		t = defect.NewTally()
	}
	return &Assembler{schema: s, rng: r, sampler: sample.New(r), tally: t}
}

func (a *Assembler) Schema() *Schema          { return a.schema }
func (a *Assembler) Sampler() *sample.Sampler { return a.sampler }
func (a *Assembler) Rand() *rand.Rand         { return a.rng }
func (a *Assembler) Tally() *defect.Tally     { return a.tally }

// Start begins a new row.
func (a *Assembler) Start() *Row {
	n := a.schema.Len()
	return &Row{
		a:      a,
		values: make([]field.Value, n),
		clean:  make([]field.Value, n),
		set:    make([]bool, n),
	}
}

// Row is a record under construction. Methods chain; the first error is kept
// and reported by Finish.
type Row struct {
	a      *Assembler
	values []field.Value
	clean  []field.Value
	set    []bool
	err    error
}

// Put stores a computed clean value for name and runs the column's policy
// over it.
func (r *Row) Put(name string, clean field.Value) *Row {
	if r.err != nil {
		return r
	}
	i, ok := r.a.schema.Index(name)
	if !ok {
		r.err = fmt.Errorf("%s: %w: %s", r.a.schema.Name(), ErrUnknownColumn, name)
		return r
	}
	col := r.a.schema.columns[i]
	out := defect.Apply(clean, col.Descriptor, col.Policy, r.a.rng)
	r.a.tally.Observe(name, out)

	r.clean[i] = out.Clean
	r.values[i] = out.Value
	r.set[i] = true
	return r
}

// Sample draws a clean value from the column's descriptor, then behaves like
// Put.
func (r *Row) Sample(names ...string) *Row {
	for _, name := range names {
		if r.err != nil {
			return r
		}
		col, ok := r.a.schema.Column(name)
		if !ok {
			r.err = fmt.Errorf("%s: %w: %s", r.a.schema.Name(), ErrUnknownColumn, name)
			return r
		}
		r.Put(name, r.a.sampler.Field(col.Descriptor))
	}
	return r
}

// SampleRest samples every column not yet set, in schema order.
func (r *Row) SampleRest() *Row {
	for i, c := range r.a.schema.columns {
		if r.err != nil {
			return r
		}
		if !r.set[i] {
			r.Put(c.Name, r.a.sampler.Field(c.Descriptor))
		}
	}
	return r
}

// Finish returns the record, or the first error met while building it.
func (r *Row) Finish() (*Record, error) {
	if r.err != nil {
		return nil, r.err
	}
	for i, ok := range r.set {
		if !ok {
			return nil, fmt.Errorf("%s: %w: %s not set", r.a.schema.Name(), ErrIncompleteRecord, r.a.schema.columns[i].Name)
		}
	}
	return &Record{schema: r.a.schema, values: r.values, clean: r.clean}, nil
}
