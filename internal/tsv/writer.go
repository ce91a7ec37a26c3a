package tsv

import (
	"bufio"
	"io"
	"strings"
)

// Writer writes records in a fixed column order.
// Record fields outside the declared columns are dropped.
type Writer struct {
	w       *bufio.Writer
	columns []string
}

// NewWriter creates a writer with the given column order.
func NewWriter(w io.Writer, columns []string) *Writer {
	return &Writer{
		w:       bufio.NewWriter(w),
		columns: columns,
	}
}

// WriteHeader writes the header line.
func (tw *Writer) WriteHeader() error {
	_, err := tw.w.WriteString(strings.Join(tw.columns, "\t") + "\n")
	return err
}

// Write writes a single record. Missing fields are written empty.
func (tw *Writer) Write(r *Record) error {
	values := make([]string, len(tw.columns))
	for i, col := range tw.columns {
		values[i] = r.Value(col)
	}
	_, err := tw.w.WriteString(strings.Join(values, "\t") + "\n")
	return err
}

// Flush flushes any buffered data to the underlying writer.
func (tw *Writer) Flush() error {
	return tw.w.Flush()
}
