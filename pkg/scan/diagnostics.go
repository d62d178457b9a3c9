package scan

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// Diagnostics is an append-only, tab-separated log of marker matches made
// while scanning one document. It exists for a human reviewing residual
// boilerplate and is never read back by the pipeline.
//
// A nil *Diagnostics is valid and records nothing. One Diagnostics belongs
// to one document and one goroutine; it is not safe for concurrent writers.
type Diagnostics struct {
	w      *bufio.Writer
	closer io.Closer
}

// NewDiagnostics writes the header and returns a sink backed by w. The
// writer stays owned by the caller; Close only flushes.
func NewDiagnostics(w io.Writer) *Diagnostics {
	d := &Diagnostics{w: bufio.NewWriter(w)}
	fmt.Fprint(d.w, "Line_id\tMarker\tLine\t\n")
	return d
}

// OpenDiagnostics creates (or truncates) a diagnostics file at path. The
// file is owned by the sink and closed by Close.
func OpenDiagnostics(path string) (*Diagnostics, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("open diagnostics log: %w", err)
	}
	d := NewDiagnostics(f)
	d.closer = f
	return d, nil
}

// Record appends one (lineIndex, matchedPattern, line) entry. The raw line
// is JSON-encoded so tabs and quotes survive the TSV format.
func (d *Diagnostics) Record(lineIndex int, pattern, line string) {
	if d == nil {
		return
	}
	encoded, err := json.Marshal(line)
	if err != nil {
		return
	}
	fmt.Fprintf(d.w, "%d\t%s\t%s\n", lineIndex, pattern, encoded)
}

// Close flushes buffered records and closes the underlying file, if any.
func (d *Diagnostics) Close() error {
	if d == nil {
		return nil
	}
	if err := d.w.Flush(); err != nil {
		return err
	}
	if d.closer != nil {
		return d.closer.Close()
	}
	return nil
}
