package sink

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/lib/pq"

	"pkg.jsn.cam/synthgen/pkg/field"
	"pkg.jsn.cam/synthgen/pkg/record"
)

// SQL writes a CREATE TABLE statement for the schema followed by one INSERT
// statement per record.
type SQL struct {
	w      *bufio.Writer
	table  string
	values []string
}

// NewSQL writes the CREATE TABLE statement immediately. Columns without a
// declared SQL type default to TEXT.
func NewSQL(w io.Writer, schema *record.Schema) (*SQL, error) {
	bw := bufio.NewWriter(w)
	if _, err := bw.WriteString(CreateTable(schema)); err != nil {
		return nil, fmt.Errorf("failed to write create table: %w", err)
	}
	return &SQL{w: bw, table: schema.Name(), values: make([]string, schema.Len())}, nil
}

// CreateTable renders the DDL for schema.
func CreateTable(schema *record.Schema) string {
	defs := make([]string, schema.Len())
	for i, c := range schema.Columns() {
		typ := c.SQLType
		if typ == "" {
			typ = "TEXT"
		}
		defs[i] = c.Name + " " + typ
	}
	return fmt.Sprintf("CREATE TABLE %s (\n    %s\n)\n\n", schema.Name(), strings.Join(defs, ", "))
}

func (s *SQL) Write(rec *record.Record) error {
	for i, v := range rec.Values() {
		s.values[i] = Literal(v)
	}
	_, err := fmt.Fprintf(s.w, "INSERT INTO %s VALUES (%s);\n", s.table, strings.Join(s.values, ", "))
	if err != nil {
		return fmt.Errorf("failed to write insert: %w", err)
	}
	return nil
}

func (s *SQL) Close() error {
	return s.w.Flush()
}

// Literal renders v as a SQL value: text quoted and escaped, numbers bare,
// sentinels verbatim, null as NULL.
func Literal(v field.Value) string {
	if v.IsNull() {
		return "NULL"
	}
	if v.Unit() != "" {
		return pq.QuoteLiteral(v.String())
	}
	switch v.Kind() {
	case field.KindInt, field.KindFloat:
		return v.String()
	case field.KindBool:
		return strings.ToUpper(v.String())
	case field.KindSentinel:
		s, _ := v.Text()
		return s
	default:
		s, _ := v.Text()
		return pq.QuoteLiteral(s)
	}
}
