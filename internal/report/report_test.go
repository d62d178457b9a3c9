package report

import (
	"strings"
	"testing"
)

type testRecord struct {
	Doc    string `json:"doc" yaml:"doc"`
	BookID string `json:"book_id" yaml:"book_id"`
}

func (r testRecord) Row() []string {
	return []string{r.Doc, r.BookID}
}

func TestTSVWriter(t *testing.T) {
	var sb strings.Builder
	w := NewTSVWriter(&sb, []string{"doc", "book_id"})
	if err := w.Write(testRecord{Doc: "abc", BookID: "1342"}); err != nil {
		t.Fatal(err)
	}
	if err := w.Write(testRecord{Doc: "def", BookID: "844"}); err != nil {
		t.Fatal(err)
	}
	if err := w.Flush(); err != nil {
		t.Fatal(err)
	}

	lines := strings.Split(strings.TrimSpace(sb.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header + 2 rows, got %d lines", len(lines))
	}
	if lines[0] != "doc\tbook_id" {
		t.Errorf("header = %q", lines[0])
	}
	if lines[1] != "abc\t1342" {
		t.Errorf("row = %q", lines[1])
	}
}

func TestTSVWriterRejectsNonRow(t *testing.T) {
	w := NewTSVWriter(&strings.Builder{}, nil)
	if err := w.Write(42); err == nil {
		t.Error("expected error for record without Row()")
	}
}

func TestJSONLWriter(t *testing.T) {
	var sb strings.Builder
	w := NewJSONLWriter(&sb)
	if err := w.Write(testRecord{Doc: "abc", BookID: "1342"}); err != nil {
		t.Fatal(err)
	}
	if err := w.Flush(); err != nil {
		t.Fatal(err)
	}
	if got := sb.String(); got != `{"doc":"abc","book_id":"1342"}`+"\n" {
		t.Errorf("got %q", got)
	}
}

func TestYAMLWriter(t *testing.T) {
	var sb strings.Builder
	w := NewYAMLWriter(&sb)
	if err := w.Write(testRecord{Doc: "abc", BookID: "1342"}); err != nil {
		t.Fatal(err)
	}
	if err := w.Flush(); err != nil {
		t.Fatal(err)
	}
	out := sb.String()
	if !strings.Contains(out, "doc: abc") || !strings.Contains(out, `book_id: "1342"`) {
		t.Errorf("got %q", out)
	}
}

func TestNewWriterUnknownFormat(t *testing.T) {
	if _, err := NewWriter(&strings.Builder{}, Format("xml"), nil); err == nil {
		t.Error("expected error for unknown format")
	}
}
