// Package sink serializes finished records. Sinks treat every value as opaque:
// they render what they receive and never validate or coerce it.
package sink

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"pkg.jsn.cam/synthgen/pkg/record"
)

// Format names an output encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
	FormatSQL  Format = "sql"
)

// Writer persists records one at a time.
type Writer interface {
	Write(rec *record.Record) error
	// Close flushes buffered output. It does not close the underlying
	// io.Writer unless the sink opened it.
	Close() error
}

// New returns the writer for format over w.
func New(format Format, w io.Writer, schema *record.Schema) (Writer, error) {
	switch format {
	case FormatJSON:
		return NewJSONLines(w), nil
	case FormatCSV:
		return NewCSV(w, schema)
	case FormatSQL:
		return NewSQL(w, schema)
	default:
		return nil, fmt.Errorf("unknown sink format: %q", format)
	}
}

// File is an output file opened for a sink. Writes are buffered.
type File struct {
	f     *os.File
	buf   *bufio.Writer
	count *countingWriter
}

// Create opens path for writing, creating parent directories and truncating
// any previous output.
func Create(path string) (*File, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create output file: %w", err)
	}
	cw := &countingWriter{w: f}
	return &File{f: f, count: cw, buf: bufio.NewWriterSize(cw, 64*1024)}, nil
}

func (f *File) Write(p []byte) (int, error) {
	return f.buf.Write(p)
}

// Path is the file's name as given to Create.
func (f *File) Path() string {
	return f.f.Name()
}

// Bytes is the number of bytes flushed to disk so far.
func (f *File) Bytes() int64 {
	return f.count.n
}

// Close flushes and closes the file.
func (f *File) Close() error {
	if err := f.buf.Flush(); err != nil {
		f.f.Close()
		return fmt.Errorf("failed to flush output file: %w", err)
	}
	return f.f.Close()
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}
