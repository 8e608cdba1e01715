// Package field declares the semantic field types, the descriptors that bound
// them, and the tagged Value that flows from sampling through defect injection
// to serialization.
package field

import (
	"errors"
	"fmt"
	"time"
)

// DateLayout is the canonical rendering of a well-formed date.
const DateLayout = "2006-01-02"

var (
	ErrUnknownType       = errors.New("unknown field type")
	ErrInvalidDescriptor = errors.New("invalid field descriptor")
)

// Type is the semantic type of a field.
type Type uint8

const (
	TypeUnknown Type = iota
	TypeInteger
	TypeFloat
	TypeCategorical
	TypeText
	TypeDate
	TypeBoolean
)

func (t Type) String() string {
	switch t {
	case TypeInteger:
		return "integer"
	case TypeFloat:
		return "float"
	case TypeCategorical:
		return "categorical"
	case TypeText:
		return "text"
	case TypeDate:
		return "date"
	case TypeBoolean:
		return "boolean"
	default:
		return "unknown"
	}
}

// IsNumeric reports whether values of this type carry a number.
func (t Type) IsNumeric() bool {
	return t == TypeInteger || t == TypeFloat
}

// Descriptor is the static declaration of one field: its type and the domain
// clean values are sampled from. Descriptors are declared once per dataset and
// never mutated.
type Descriptor struct {
	Name string
	Type Type

	// Numeric bounds (inclusive) and rounding precision for floats.
	Min       float64
	Max       float64
	Precision int

	// Choice set for categorical fields.
	Choices []string

	// Date range (inclusive, day granularity) and rendering layout.
	Start  time.Time
	End    time.Time
	Layout string

	// Unit is appended to the rendered value, e.g. " PSI".
	Unit string
}

// DateLayout returns the layout used to render clean dates for this field.
func (d Descriptor) DateLayout() string {
	if d.Layout == "" {
		return DateLayout
	}
	return d.Layout
}

// Validate checks the descriptor is internally consistent. It is called when a
// schema is built so that misconfiguration fails before any record is made.
func (d Descriptor) Validate() error {
	if d.Name == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidDescriptor)
	}

	switch d.Type {
	case TypeInteger, TypeFloat:
		if d.Min > d.Max {
			return fmt.Errorf("%w: %s: min %v greater than max %v", ErrInvalidDescriptor, d.Name, d.Min, d.Max)
		}
	case TypeCategorical:
		if len(d.Choices) == 0 {
			return fmt.Errorf("%w: %s: categorical field needs choices", ErrInvalidDescriptor, d.Name)
		}
	case TypeDate:
		if !d.Start.IsZero() && !d.End.IsZero() && d.End.Before(d.Start) {
			return fmt.Errorf("%w: %s: date range ends before it starts", ErrInvalidDescriptor, d.Name)
		}
	case TypeText, TypeBoolean:
	default:
		return fmt.Errorf("%w: %s: %d", ErrUnknownType, d.Name, d.Type)
	}

	return nil
}

// Declaration helpers. They keep dataset schemas readable.

// FloatRange declares a float field sampled uniformly from [min, max].
func FloatRange(name string, min, max float64, precision int) Descriptor {
	return Descriptor{Name: name, Type: TypeFloat, Min: min, Max: max, Precision: precision}
}

// IntRange declares an integer field sampled uniformly from [min, max].
func IntRange(name string, min, max int64) Descriptor {
	return Descriptor{Name: name, Type: TypeInteger, Min: float64(min), Max: float64(max)}
}

// OneOf declares a categorical field.
func OneOf(name string, choices ...string) Descriptor {
	return Descriptor{Name: name, Type: TypeCategorical, Choices: choices}
}

// Text declares a free text field whose clean value is computed by the caller.
func Text(name string) Descriptor {
	return Descriptor{Name: name, Type: TypeText}
}

// DateRange declares a date field sampled uniformly between start and end.
func DateRange(name string, start, end time.Time) Descriptor {
	return Descriptor{Name: name, Type: TypeDate, Start: start, End: end}
}

// Flag declares a boolean field.
func Flag(name string) Descriptor {
	return Descriptor{Name: name, Type: TypeBoolean}
}

// Day returns midnight UTC of the given calendar day.
func Day(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}
