// Package record declares dataset schemas and assembles records from sampled,
// possibly corrupted, field values.
package record

import (
	"errors"
	"fmt"

	"pkg.jsn.cam/synthgen/pkg/defect"
	"pkg.jsn.cam/synthgen/pkg/field"
)

var (
	ErrUnknownColumn    = errors.New("unknown column")
	ErrDuplicateColumn  = errors.New("duplicate column")
	ErrIncompleteRecord = errors.New("incomplete record")
	ErrEmptySchema      = errors.New("schema has no columns")
)

// Column is a field descriptor plus how it is stored and how it is corrupted.
type Column struct {
	field.Descriptor
	SQLType string
	Policy  defect.Policy
}

// Col is shorthand for a Column literal.
func Col(d field.Descriptor, sqlType string, p defect.Policy) Column {
	return Column{Descriptor: d, SQLType: sqlType, Policy: p}
}

// Schema is the ordered, validated column list of a dataset.
type Schema struct {
	name    string
	columns []Column
	index   map[string]int
}

// NewSchema validates every descriptor and policy. Unknown field types and
// strategies that do not fit a column's type are rejected here, never at
// injection time.
func NewSchema(name string, columns ...Column) (*Schema, error) {
	if len(columns) == 0 {
		return nil, fmt.Errorf("%s: %w", name, ErrEmptySchema)
	}

	s := &Schema{
		name:    name,
		columns: make([]Column, len(columns)),
		index:   make(map[string]int, len(columns)),
	}
	for i, c := range columns {
		if err := c.Descriptor.Validate(); err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		if err := c.Policy.Validate(c.Descriptor); err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		if _, dup := s.index[c.Name]; dup {
			return nil, fmt.Errorf("%s: %w: %s", name, ErrDuplicateColumn, c.Name)
		}
		s.columns[i] = c
		s.index[c.Name] = i
	}
	return s, nil
}

func (s *Schema) Name() string { return s.name }
func (s *Schema) Len() int     { return len(s.columns) }

// Columns returns the columns in declared order. The slice must not be
// modified.
func (s *Schema) Columns() []Column { return s.columns }

// Header returns column names in declared order.
func (s *Schema) Header() []string {
	names := make([]string, len(s.columns))
	for i, c := range s.columns {
		names[i] = c.Name
	}
	return names
}

// Index returns the position of the named column.
func (s *Schema) Index(name string) (int, bool) {
	i, ok := s.index[name]
	return i, ok
}

// Column returns the named column.
func (s *Schema) Column(name string) (Column, bool) {
	i, ok := s.index[name]
	if !ok {
		return Column{}, false
	}
	return s.columns[i], true
}
