package sample

import (
	"slices"
	"testing"
	"time"

	"pkg.jsn.cam/synthgen/pkg/field"
)

func TestNewRand_Deterministic(t *testing.T) {
	t.Parallel()

	a, b := NewRand(42), NewRand(42)
	for i := range 100 {
		if x, y := a.Uint64(), b.Uint64(); x != y {
			t.Fatalf("draw %d differs: %d != %d", i, x, y)
		}
	}
}

func TestDerive(t *testing.T) {
	t.Parallel()

	if Derive(1, "wellbore").Uint64() != Derive(1, "wellbore").Uint64() {
		t.Error("Derive is not reproducible")
	}
	if Derive(1, "wellbore").Uint64() == Derive(1, "production").Uint64() {
		t.Error("different streams should not share a sequence")
	}
	if Derive(1, "wellbore").Uint64() == Derive(2, "wellbore").Uint64() {
		t.Error("different seeds should not share a sequence")
	}
}

func TestSampler_Ranges(t *testing.T) {
	t.Parallel()

	s := New(NewRand(7))
	start, end := field.Day(2015, time.January, 1), field.Day(2015, time.January, 3)
	seenDays := map[string]bool{}
	seenInts := map[float64]bool{}

	for range 2000 {
		f, _ := s.Float(28, 35, 2).Number()
		if f < 28 || f > 35 || f != field.Round(f, 2) {
			t.Fatalf("Float = %v", f)
		}

		n, _ := s.Int(5, 7).Number()
		if n < 5 || n > 7 {
			t.Fatalf("Int = %v", n)
		}
		seenInts[n] = true

		d, ok := s.Date(start, end, "").Time()
		if !ok || d.Before(start) || d.After(end) {
			t.Fatalf("Date = %v", d)
		}
		seenDays[d.Format(field.DateLayout)] = true
	}

	if len(seenInts) != 3 {
		t.Errorf("Int bounds are inclusive; saw %v", seenInts)
	}
	if len(seenDays) != 3 {
		t.Errorf("Date bounds are inclusive; saw %v", seenDays)
	}
}

func TestSampler_Choice(t *testing.T) {
	t.Parallel()

	s := New(NewRand(3))
	gears := []string{"P", "R", "N", "D", "S"}
	for range 100 {
		v, _ := s.Choice(gears).Text()
		if !slices.Contains(gears, v) {
			t.Fatalf("Choice = %q", v)
		}
	}
	if !s.Choice(nil).IsNull() {
		t.Error("Choice over nothing should be null")
	}
}

func TestSampler_Field(t *testing.T) {
	t.Parallel()

	s := New(NewRand(11))
	pressure := field.IntRange("PRESSURE_PSI", 1000, 15000)
	pressure.Unit = " PSI"

	tests := []struct {
		desc field.Descriptor
		kind field.Kind
	}{
		{field.IntRange("rpm", 600, 8000), field.KindInt},
		{field.FloatRange("oil_level_liters", 2.5, 5, 2), field.KindFloat},
		{field.OneOf("bit_type", "PDC"), field.KindString},
		{field.DateRange("date", field.Day(2010, 1, 1), field.Day(2011, 1, 1)), field.KindDate},
		{field.Flag("seatbelt_fastened"), field.KindBool},
		{field.Text("well_id"), field.KindNull},
		{pressure, field.KindInt},
	}
	for _, tt := range tests {
		v := s.Field(tt.desc)
		if v.Kind() != tt.kind {
			t.Errorf("%s: kind %s, want %s", tt.desc.Name, v.Kind(), tt.kind)
		}
		if v.Unit() != tt.desc.Unit {
			t.Errorf("%s: unit %q, want %q", tt.desc.Name, v.Unit(), tt.desc.Unit)
		}
	}
}

func TestIntBetween_Reversed(t *testing.T) {
	t.Parallel()

	r := NewRand(5)
	for range 100 {
		if n := IntBetween(r, 10, 1); n < 1 || n > 10 {
			t.Fatalf("IntBetween(10, 1) = %d", n)
		}
	}
}
