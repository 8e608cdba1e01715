package defect

import (
	"fmt"
	"math"
	"math/rand/v2"
	"slices"
	"strings"
	"time"

	"pkg.jsn.cam/synthgen/pkg/field"
	"pkg.jsn.cam/synthgen/pkg/sample"
)

// Default token sets.
var (
	WrongTypeTokens   = []string{"ERROR", "N/A", "NULL", "XYZ"}
	CategoricalTokens = []string{"UNKNOWN", "ERROR"}
)

// Missing replaces the value with null.
type Missing struct{}

func (Missing) Name() string                { return "missing" }
func (Missing) AppliesTo(t field.Type) bool { return t != field.TypeUnknown }

func (Missing) Corrupt(field.Value, field.Descriptor, *rand.Rand) field.Value {
	return field.Null()
}

// WrongType replaces a number or date with a string sentinel.
type WrongType struct {
	Tokens []string
}

func (WrongType) Name() string { return "wrong_type" }

func (WrongType) AppliesTo(t field.Type) bool {
	return t.IsNumeric() || t == field.TypeDate
}

func (s WrongType) Corrupt(_ field.Value, _ field.Descriptor, r *rand.Rand) field.Value {
	tokens := s.Tokens
	if len(tokens) == 0 {
		tokens = WrongTypeTokens
	}
	return field.Sentinel(tokens[r.IntN(len(tokens))])
}

// LargeOffset adds a uniform offset of up to ±200% of the clean value.
type LargeOffset struct {
	Precision int
}

func (LargeOffset) Name() string                { return "large_offset" }
func (LargeOffset) AppliesTo(t field.Type) bool { return t.IsNumeric() }

func (s LargeOffset) Corrupt(clean field.Value, _ field.Descriptor, r *rand.Rand) field.Value {
	c, ok := clean.Number()
	if !ok {
		return clean
	}
	offset := sample.Uniform(r, -2*c, 2*c)
	return field.Float(c+offset, s.Precision).WithUnit(clean.Unit())
}

// HardRange replaces the value with a draw from a fixed band far outside any
// plausible domain, ignoring the field's own scale. A zero Precision yields an
// integer.
type HardRange struct {
	Low       float64
	High      float64
	Precision int
}

// DefaultHardRange is the 9999..19999 band used by the telemetry stream.
var DefaultHardRange = HardRange{Low: 9999, High: 19999, Precision: 2}

func (HardRange) Name() string                { return "hard_range" }
func (HardRange) AppliesTo(t field.Type) bool { return t.IsNumeric() }

// Validate rejects a band with no value in it. With a zero Precision the band
// must contain an integer.
func (s HardRange) Validate() error {
	if s.Low > s.High {
		return fmt.Errorf("%w: [%v, %v]", ErrEmptyBand, s.Low, s.High)
	}
	if s.Precision == 0 && math.Ceil(s.Low) > math.Floor(s.High) {
		return fmt.Errorf("%w: no integer in [%v, %v]", ErrEmptyBand, s.Low, s.High)
	}
	return nil
}

func (s HardRange) Corrupt(clean field.Value, _ field.Descriptor, r *rand.Rand) field.Value {
	if s.Precision == 0 {
		lo, hi := int64(math.Ceil(s.Low)), int64(math.Floor(s.High))
		return field.Int(sample.IntBetween(r, lo, hi))
	}
	v := field.Round(sample.Uniform(r, s.Low, s.High), s.Precision)
	return field.Float(max(s.Low, min(s.High, v)), -1)
}

// Scale multiplies the clean value by a uniform factor in [Min, Max].
// Integers stay integers; floats keep the field's precision.
type Scale struct {
	Min float64
	Max float64
}

// DefaultScale is the ×10..×1000 outlier of the batch datasets.
var DefaultScale = Scale{Min: 10, Max: 1000}

func (Scale) Name() string                { return "scale" }
func (Scale) AppliesTo(t field.Type) bool { return t.IsNumeric() }

func (s Scale) Corrupt(clean field.Value, d field.Descriptor, r *rand.Rand) field.Value {
	c, ok := clean.Number()
	if !ok {
		return clean
	}
	v := c * sample.Uniform(r, s.Min, s.Max)
	if clean.Kind() == field.KindInt {
		return field.Int(int64(math.Round(v))).WithUnit(clean.Unit())
	}
	return field.Float(v, d.Precision).WithUnit(clean.Unit())
}

// DateForm is one way of damaging a date.
type DateForm uint8

const (
	FormMonthFirst      DateForm = iota // 01/02/2006
	FormDayFirst                        // 02-01-2006
	FormSlashed                         // 2006/01/02
	FormLoose                           // 1/2/2006 with a trailing blank
	FormCalendarInvalid                 // day 31 of a month that has fewer days
	FormNullToken                       // NULL
	FormInvalidToken                    // INVALID_DATE
	FormBlank                           // a single blank
	FormYearDayMonth                    // 2006-2-1
	FormLiteral                         // MalformedDate.Literal, 31/02/2023 by default
)

// AllDateForms is used when MalformedDate has no forms configured.
var AllDateForms = []DateForm{
	FormMonthFirst, FormDayFirst, FormSlashed, FormLoose,
	FormCalendarInvalid, FormNullToken, FormInvalidToken, FormBlank,
	FormYearDayMonth, FormLiteral,
}

// DefaultDateLiteral is the fixed impossible date rendered by FormLiteral.
const DefaultDateLiteral = "31/02/2023"

var shortMonths = []time.Month{time.February, time.April, time.June, time.September, time.November}

// MalformedDate re-renders a valid date in an inconsistent format, replaces it
// with a calendar-invalid date, or with a missing-date sentinel.
type MalformedDate struct {
	Forms   []DateForm
	Literal string
}

func (MalformedDate) Name() string                { return "malformed_date" }
func (MalformedDate) AppliesTo(t field.Type) bool { return t == field.TypeDate }

func (s MalformedDate) Corrupt(clean field.Value, _ field.Descriptor, r *rand.Rand) field.Value {
	forms := s.Forms
	if len(forms) == 0 {
		forms = AllDateForms
	}
	form := forms[r.IntN(len(forms))]

	t, ok := clean.Time()
	if !ok {
		return field.Sentinel("INVALID_DATE")
	}

	switch form {
	case FormMonthFirst:
		return field.String(t.Format("01/02/2006"))
	case FormDayFirst:
		return field.String(t.Format("02-01-2006"))
	case FormSlashed:
		return field.String(t.Format("2006/01/02"))
	case FormLoose:
		return field.String(t.Format("1/2/2006") + " ")
	case FormCalendarInvalid:
		return field.String(calendarInvalid(t, r))
	case FormYearDayMonth:
		// With day == month the result is the ISO date itself.
		if t.Day() == int(t.Month()) {
			return field.String(t.Format("1/2/2006") + " ")
		}
		return field.String(fmt.Sprintf("%d-%d-%d", t.Year(), t.Day(), int(t.Month())))
	case FormLiteral:
		if s.Literal == "" {
			return field.String(DefaultDateLiteral)
		}
		return field.String(s.Literal)
	case FormNullToken:
		return field.Sentinel("NULL")
	case FormInvalidToken:
		return field.Sentinel("INVALID_DATE")
	default:
		return field.Sentinel(" ")
	}
}

// calendarInvalid keeps the year and, when possible, the month of t but names a
// day the month does not have.
func calendarInvalid(t time.Time, r *rand.Rand) string {
	month := t.Month()
	if !slices.Contains(shortMonths, month) {
		month = shortMonths[r.IntN(len(shortMonths))]
	}
	day := 31
	if month == time.February {
		day = 30
	}
	return fmt.Sprintf("%04d-%02d-%02d", t.Year(), int(month), day)
}

// Categorical substitutes a token outside the field's choice set.
type Categorical struct {
	Tokens []string
}

func (Categorical) Name() string { return "categorical" }

func (Categorical) AppliesTo(t field.Type) bool {
	return t == field.TypeCategorical || t == field.TypeText
}

func (s Categorical) Corrupt(_ field.Value, d field.Descriptor, r *rand.Rand) field.Value {
	tokens := s.Tokens
	if len(tokens) == 0 {
		tokens = CategoricalTokens
	}
	var outside []string
	for _, tok := range tokens {
		if !slices.Contains(d.Choices, tok) {
			outside = append(outside, tok)
		}
	}
	if len(outside) == 0 {
		return field.Sentinel("INVALID")
	}
	return field.Sentinel(outside[r.IntN(len(outside))])
}

// OneOf picks one member strategy uniformly and delegates to it.
type OneOf struct {
	Strategies []Strategy
}

func (s OneOf) Name() string {
	names := make([]string, len(s.Strategies))
	for i, st := range s.Strategies {
		names[i] = st.Name()
	}
	return "one_of(" + strings.Join(names, ",") + ")"
}

func (s OneOf) AppliesTo(t field.Type) bool {
	if len(s.Strategies) == 0 {
		return false
	}
	for _, st := range s.Strategies {
		if !st.AppliesTo(t) {
			return false
		}
	}
	return true
}

func (s OneOf) Validate() error {
	for _, st := range s.Strategies {
		if err := validateStrategy(st); err != nil {
			return err
		}
	}
	return nil
}

func (s OneOf) Corrupt(clean field.Value, d field.Descriptor, r *rand.Rand) field.Value {
	return s.Strategies[r.IntN(len(s.Strategies))].Corrupt(clean, d, r)
}
