package report

import (
	"bufio"
	"encoding/json"
	"io"
)

// JSONLWriter writes newline-delimited JSON, one record per line.
type JSONLWriter struct {
	w *bufio.Writer
}

// NewJSONLWriter creates a JSONL writer.
func NewJSONLWriter(w io.Writer) *JSONLWriter {
	return &JSONLWriter{w: bufio.NewWriter(w)}
}

// Write outputs a single record as one JSON line.
func (j *JSONLWriter) Write(record any) error {
	data, err := json.Marshal(record)
	if err != nil {
		return err
	}
	if _, err := j.w.Write(data); err != nil {
		return err
	}
	return j.w.WriteByte('\n')
}

// Flush writes any buffered lines.
func (j *JSONLWriter) Flush() error {
	return j.w.Flush()
}
