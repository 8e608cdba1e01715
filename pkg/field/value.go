package field

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"
)

// Kind tags the variant held by a Value.
type Kind uint8

const (
	KindNull Kind = iota
	KindInt
	KindFloat
	KindString
	KindDate
	KindBool
	// KindSentinel is a reserved token ("NULL", "N/A", "ERROR", ...) standing
	// in for a missing or invalid value. Serializers emit it verbatim.
	KindSentinel
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	case KindDate:
		return "date"
	case KindBool:
		return "bool"
	case KindSentinel:
		return "sentinel"
	default:
		return "unknown"
	}
}

// Value is a tagged union of everything a field can emit, clean or corrupted.
// The zero Value is null.
type Value struct {
	kind Kind
	i    int64
	f    float64
	s    string
	t    time.Time
	b    bool
	unit string
}

func Null() Value { return Value{} }

func Int(n int64) Value { return Value{kind: KindInt, i: n} }

// Float rounds f to precision decimals. A negative precision keeps f as is.
func Float(f float64, precision int) Value {
	return Value{kind: KindFloat, f: Round(f, precision)}
}

func String(s string) Value { return Value{kind: KindString, s: s} }

// Date renders t with layout and keeps t so strategies can re-render it.
func Date(t time.Time, layout string) Value {
	if layout == "" {
		layout = DateLayout
	}
	return Value{kind: KindDate, s: t.Format(layout), t: t}
}

func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

func Sentinel(token string) Value { return Value{kind: KindSentinel, s: token} }

// WithUnit returns a copy of v rendered with unit appended.
func (v Value) WithUnit(unit string) Value {
	v.unit = unit
	return v
}

func (v Value) Kind() Kind   { return v.kind }
func (v Value) IsNull() bool { return v.kind == KindNull }
func (v Value) Unit() string { return v.unit }

// Number returns the numeric value of an int or float.
func (v Value) Number() (float64, bool) {
	switch v.kind {
	case KindInt:
		return float64(v.i), true
	case KindFloat:
		return v.f, true
	}
	return 0, false
}

// Time returns the date held by a date value.
func (v Value) Time() (time.Time, bool) {
	if v.kind != KindDate {
		return time.Time{}, false
	}
	return v.t, true
}

// Text returns the textual payload of string, date and sentinel values.
func (v Value) Text() (string, bool) {
	switch v.kind {
	case KindString, KindDate, KindSentinel:
		return v.s, true
	}
	return "", false
}

// String renders v the way it appears in a CSV cell. Null renders empty.
func (v Value) String() string {
	var s string
	switch v.kind {
	case KindNull:
		return ""
	case KindInt:
		s = strconv.FormatInt(v.i, 10)
	case KindFloat:
		s = formatFloat(v.f)
	case KindBool:
		s = strconv.FormatBool(v.b)
	default:
		s = v.s
	}
	return s + v.unit
}

// MarshalJSON encodes numbers and booleans natively, everything textual as a
// JSON string, and null as null. Values carrying a unit are strings.
func (v Value) MarshalJSON() ([]byte, error) {
	if v.unit != "" && v.kind != KindNull {
		return json.Marshal(v.String())
	}
	switch v.kind {
	case KindNull:
		return []byte("null"), nil
	case KindInt, KindFloat, KindBool:
		return []byte(v.String()), nil
	default:
		return json.Marshal(v.s)
	}
}

// Equal reports whether v and o hold the same variant and payload.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind || v.unit != o.unit {
		return false
	}
	switch v.kind {
	case KindNull:
		return true
	case KindInt:
		return v.i == o.i
	case KindFloat:
		return v.f == o.f
	case KindBool:
		return v.b == o.b
	case KindDate:
		return v.s == o.s && v.t.Equal(o.t)
	default:
		return v.s == o.s
	}
}

// Round rounds f half away from zero to precision decimals.
func Round(f float64, precision int) float64 {
	if precision < 0 || math.IsNaN(f) || math.IsInf(f, 0) {
		return f
	}
	pow := math.Pow10(precision)
	return math.Round(f*pow) / pow
}

// formatFloat always keeps a decimal point so floats stay recognisable in text
// output ("12.0", not "12").
func formatFloat(f float64) string {
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.ContainsAny(s, ".NI") {
		s += ".0"
	}
	return s
}
