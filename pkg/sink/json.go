package sink

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"pkg.jsn.cam/synthgen/pkg/field"
	"pkg.jsn.cam/synthgen/pkg/record"
)

// JSONLines writes one JSON object per line. Keys follow schema order; a
// dotted column name such as "location.latitude" is nested under its prefix.
type JSONLines struct {
	w   io.Writer
	buf bytes.Buffer
}

func NewJSONLines(w io.Writer) *JSONLines {
	return &JSONLines{w: w}
}

func (j *JSONLines) Write(rec *record.Record) error {
	j.buf.Reset()
	if err := encodeObject(&j.buf, rec); err != nil {
		return err
	}
	j.buf.WriteByte('\n')
	if _, err := j.w.Write(j.buf.Bytes()); err != nil {
		return fmt.Errorf("failed to write record: %w", err)
	}
	return nil
}

func (j *JSONLines) Close() error { return nil }

// node is one level of the ordered object tree.
type node struct {
	key      string
	value    field.Value
	children []*node
}

func (n *node) child(key string) *node {
	for _, c := range n.children {
		if c.key == key {
			return c
		}
	}
	c := &node{key: key}
	n.children = append(n.children, c)
	return c
}

func encodeObject(buf *bytes.Buffer, rec *record.Record) error {
	root := &node{}
	for i, col := range rec.Schema().Columns() {
		n := root
		for _, part := range strings.Split(col.Name, ".") {
			n = n.child(part)
		}
		n.value = rec.At(i)
	}
	return writeNode(buf, root)
}

func writeNode(buf *bytes.Buffer, n *node) error {
	if len(n.children) == 0 {
		data, err := json.Marshal(n.value)
		if err != nil {
			return fmt.Errorf("failed to encode %s: %w", n.key, err)
		}
		buf.Write(data)
		return nil
	}

	buf.WriteByte('{')
	for i, c := range n.children {
		if i > 0 {
			buf.WriteString(", ")
		}
		key, _ := json.Marshal(c.key)
		buf.Write(key)
		buf.WriteString(": ")
		if err := writeNode(buf, c); err != nil {
			return err
		}
	}
	buf.WriteByte('}')
	return nil
}
