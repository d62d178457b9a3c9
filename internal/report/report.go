// Package report handles serialization of the pipeline's bookkeeping
// artifacts: per-split cleaning reports and failed-download tables.
package report

import (
	"fmt"
	"io"
)

// Format represents report output format types.
type Format string

const (
	FormatTSV   Format = "tsv"
	FormatJSONL Format = "jsonl"
	FormatYAML  Format = "yaml"
)

// Writer handles report serialization.
type Writer interface {
	// Write outputs a single record.
	Write(record any) error

	// Flush ensures all data is written.
	Flush() error
}

// Row is implemented by records that can render themselves as a TSV row.
// The TSV writer requires it; the other writers marshal records directly.
type Row interface {
	Row() []string
}

// NewWriter creates a writer for the specified format. columns is used by
// the TSV writer as its header and ignored otherwise.
func NewWriter(w io.Writer, format Format, columns []string) (Writer, error) {
	switch format {
	case FormatTSV:
		return NewTSVWriter(w, columns), nil
	case FormatJSONL:
		return NewJSONLWriter(w), nil
	case FormatYAML:
		return NewYAMLWriter(w), nil
	default:
		return nil, fmt.Errorf("unsupported report format: %s", format)
	}
}
