// Package sample draws clean field values from declared distributions using an
// explicitly owned random source.
package sample

import (
	"hash/fnv"
	"math/rand/v2"
	"time"

	"pkg.jsn.cam/synthgen/pkg/field"
)

// NewRand returns a PCG-backed source seeded with seed.
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// Derive returns a source for one named stream of a run, so that independent
// datasets generated from the same run seed do not share draws.
func Derive(seed uint64, stream string) *rand.Rand {
	h := fnv.New64a()
	h.Write([]byte(stream))
	return NewRand(seed ^ h.Sum64())
}

// Sampler produces clean values. It never corrupts anything.
type Sampler struct {
	r *rand.Rand
}

func New(r *rand.Rand) *Sampler {
	return &Sampler{r: r}
}

// Rand exposes the underlying source for callers that need raw draws.
func (s *Sampler) Rand() *rand.Rand {
	return s.r
}

// Float samples uniformly from [low, high] rounded to precision decimals.
func (s *Sampler) Float(low, high float64, precision int) field.Value {
	return field.Float(Uniform(s.r, low, high), precision)
}

// Int samples uniformly from [low, high], both inclusive.
func (s *Sampler) Int(low, high int64) field.Value {
	return field.Int(IntBetween(s.r, low, high))
}

// Choice picks one of values uniformly. An empty set yields null.
func (s *Sampler) Choice(values []string) field.Value {
	if len(values) == 0 {
		return field.Null()
	}
	return field.String(values[s.r.IntN(len(values))])
}

func (s *Sampler) Bool() field.Value {
	return field.Bool(s.r.IntN(2) == 1)
}

// Date samples a calendar day uniformly from [start, end].
func (s *Sampler) Date(start, end time.Time, layout string) field.Value {
	days := int64(end.Sub(start).Hours() / 24)
	if days < 0 {
		days = 0
	}
	return field.Date(start.AddDate(0, 0, int(IntBetween(s.r, 0, days))), layout)
}

// Field samples a clean value for d according to its type.
func (s *Sampler) Field(d field.Descriptor) field.Value {
	var v field.Value
	switch d.Type {
	case field.TypeInteger:
		v = s.Int(int64(d.Min), int64(d.Max))
	case field.TypeFloat:
		v = s.Float(d.Min, d.Max, d.Precision)
	case field.TypeCategorical:
		v = s.Choice(d.Choices)
	case field.TypeDate:
		v = s.Date(d.Start, d.End, d.DateLayout())
	case field.TypeBoolean:
		v = s.Bool()
	default:
		return field.Null()
	}
	if d.Unit != "" {
		v = v.WithUnit(d.Unit)
	}
	return v
}

// Uniform draws from [low, high]; reversed bounds are accepted.
func Uniform(r *rand.Rand, low, high float64) float64 {
	return low + (high-low)*r.Float64()
}

// IntBetween draws an integer from [low, high]; reversed bounds are swapped.
func IntBetween(r *rand.Rand, low, high int64) int64 {
	if high < low {
		low, high = high, low
	}
	return low + r.Int64N(high-low+1)
}
