package sink

import (
	"encoding/csv"
	"fmt"
	"io"

	"pkg.jsn.cam/synthgen/pkg/record"
)

// CSV writes a header row followed by one row per record. Null values are
// empty cells.
type CSV struct {
	w   *csv.Writer
	row []string
}

// NewCSV writes the schema header immediately.
func NewCSV(w io.Writer, schema *record.Schema) (*CSV, error) {
	cw := csv.NewWriter(w)
	if err := cw.Write(schema.Header()); err != nil {
		return nil, fmt.Errorf("failed to write csv header: %w", err)
	}
	return &CSV{w: cw, row: make([]string, schema.Len())}, nil
}

func (c *CSV) Write(rec *record.Record) error {
	for i, v := range rec.Values() {
		c.row[i] = v.String()
	}
	if err := c.w.Write(c.row); err != nil {
		return fmt.Errorf("failed to write csv row: %w", err)
	}
	return nil
}

func (c *CSV) Close() error {
	c.w.Flush()
	return c.w.Error()
}
