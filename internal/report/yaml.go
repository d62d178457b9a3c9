package report

import (
	"bufio"
	"io"

	"gopkg.in/yaml.v3"
)

// YAMLWriter buffers records and writes them as one YAML document.
type YAMLWriter struct {
	w     *bufio.Writer
	items []any
}

// NewYAMLWriter creates a YAML writer.
func NewYAMLWriter(w io.Writer) *YAMLWriter {
	return &YAMLWriter{w: bufio.NewWriter(w)}
}

// Write buffers a single record.
func (y *YAMLWriter) Write(record any) error {
	y.items = append(y.items, record)
	return nil
}

// Flush writes the buffered records as YAML.
func (y *YAMLWriter) Flush() error {
	encoder := yaml.NewEncoder(y.w)
	encoder.SetIndent(2)

	var err error
	if len(y.items) == 1 {
		err = encoder.Encode(y.items[0])
	} else {
		err = encoder.Encode(y.items)
	}
	if err != nil {
		return err
	}
	if err := encoder.Close(); err != nil {
		return err
	}
	return y.w.Flush()
}
