package report

import (
	"encoding/csv"
	"fmt"
	"io"
)

// TSVWriter writes tab-separated records, one row per record.
type TSVWriter struct {
	w           *csv.Writer
	columns     []string
	wroteHeader bool
}

// NewTSVWriter creates a TSV writer with the given header columns.
func NewTSVWriter(w io.Writer, columns []string) *TSVWriter {
	cw := csv.NewWriter(w)
	cw.Comma = '\t'
	return &TSVWriter{w: cw, columns: columns}
}

// Write outputs one record. The record must implement Row.
func (t *TSVWriter) Write(record any) error {
	r, ok := record.(Row)
	if !ok {
		return fmt.Errorf("tsv: record type %T does not implement report.Row", record)
	}
	if !t.wroteHeader && len(t.columns) > 0 {
		if err := t.w.Write(t.columns); err != nil {
			return err
		}
		t.wroteHeader = true
	}
	return t.w.Write(r.Row())
}

// Flush writes any buffered rows.
func (t *TSVWriter) Flush() error {
	t.w.Flush()
	return t.w.Error()
}
