package scan

import (
	"fmt"
	"strings"
	"testing"
)

const startLine = "*** START OF THE PROJECT GUTENBERG EBOOK EXAMPLE ***"

// the one start marker not containing skip vocabulary; canonical START lines
// carry "EBOOK" and are dropped by the primary skip set before the
// start-marker check, matching the catalog's original evaluation order
const bareStartLine = "while Coxeter and Mason write Novall alone in , and Novall Senior thereafter. I have not thought it worth while to note the variants of the several texts on this point."

func bodyLines(n int) []string {
	lines := make([]string, n)
	for i := range lines {
		lines[i] = fmt.Sprintf("Narrative line %d of the story.", i)
	}
	return lines
}

func TestScanConcreteScenario(t *testing.T) {
	lines := []string{
		"Title: Example",
		"CHAPTER 1",
		"It was a dark night.",
		"THE FULL PROJECT GUTENBERG LICENSE",
		"legal text",
	}
	res := Scan(lines, "test", nil)
	if want := "CHAPTER 1\nIt was a dark night."; res.Text != want {
		t.Errorf("got %q, want %q", res.Text, want)
	}
	if len(res.StartMarkerLines) != 1 || res.StartMarkerLines[0] != 0 {
		t.Errorf("start marker positions = %v, want [0]", res.StartMarkerLines)
	}
	if len(res.EndMarkerLines) != 1 || res.EndMarkerLines[0] != 3 {
		t.Errorf("end marker positions = %v, want [3]", res.EndMarkerLines)
	}
}

func TestScanNeverAddsLines(t *testing.T) {
	lines := append(bodyLines(10), "Title: Something", startLine)
	res := Scan(lines, "test", nil)
	got := 0
	if res.Text != "" {
		got = len(strings.Split(res.Text, "\n"))
	}
	if got > len(lines) {
		t.Errorf("output has %d lines, input had %d", got, len(lines))
	}
}

func TestScanRestartIdempotence(t *testing.T) {
	a, b, c := "First stray line.", "Second stray line.", "The story begins."
	full := Scan([]string{a, bareStartLine, b, bareStartLine, c}, "test", nil)
	short := Scan([]string{bareStartLine, c}, "test", nil)
	if full.Text != short.Text {
		t.Errorf("restart not idempotent: %q vs %q", full.Text, short.Text)
	}
	if full.Text != c {
		t.Errorf("got %q, want %q", full.Text, c)
	}
	if len(full.StartMarkerLines) != 2 {
		t.Errorf("start marker positions = %v, want two", full.StartMarkerLines)
	}
}

func TestScanCanonicalStartLineIsDropped(t *testing.T) {
	res := Scan([]string{startLine, "The story begins."}, "test", nil)
	if res.Text != "The story begins." {
		t.Errorf("got %q", res.Text)
	}
	// the skip set claims the line first, so it is not a restart point
	if len(res.StartMarkerLines) != 0 {
		t.Errorf("start marker positions = %v, want none", res.StartMarkerLines)
	}
}

func TestScanPrefaceLineRestartsAccumulation(t *testing.T) {
	lines := []string{
		"stray header residue",
		"Author: A. Nonymous",
		"The story begins.",
	}
	res := Scan(lines, "test", nil)
	if res.Text != "The story begins." {
		t.Errorf("got %q", res.Text)
	}
}

func TestScanTruncationMonotonicity(t *testing.T) {
	lines := bodyLines(20)
	lines[12] = "End of Project Gutenberg's Example, by A. Nonymous"
	res := Scan(lines, "test", nil)
	for _, kept := range strings.Split(res.Text, "\n") {
		for i := 12; i < 20; i++ {
			if kept == fmt.Sprintf("Narrative line %d of the story.", i) {
				t.Fatalf("line %d survived past truncation point", i)
			}
		}
	}
	if got := len(strings.Split(res.Text, "\n")); got != 12 {
		t.Errorf("kept %d lines, want 12", got)
	}
}

func TestScanStrictEndPositionPolicy(t *testing.T) {
	tests := []struct {
		name      string
		markerAt  int
		wantLines int
	}{
		// ratio < 0.5: a chapter named "Index" early on is a false positive
		{"early marker ignored", 40, 100},
		// 0.5 <= ratio < 0.85: truncate and flag for review
		{"ambiguous zone truncates", 60, 60},
		// ratio >= 0.85: clearly trailing matter
		{"late marker truncates", 90, 90},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lines := bodyLines(100)
			lines[tt.markerAt] = "Index"
			res := Scan(lines, "test", nil)
			got := len(strings.Split(res.Text, "\n"))
			if got != tt.wantLines {
				t.Errorf("kept %d lines, want %d", got, tt.wantLines)
			}
			if len(res.EndMarkerLines) != 1 || res.EndMarkerLines[0] != tt.markerAt {
				t.Errorf("end marker positions = %v, want [%d]", res.EndMarkerLines, tt.markerAt)
			}
		})
	}
}

func TestScanIgnoredStrictMarkerLineIsKept(t *testing.T) {
	lines := bodyLines(100)
	lines[40] = "Index"
	res := Scan(lines, "test", nil)
	if !strings.Contains(res.Text, "Index") {
		t.Error("ignored strict marker line should remain in the output")
	}
}

func TestScanLiteralEndBeatsPositionPolicy(t *testing.T) {
	// A literal end marker truncates even in the first half.
	lines := bodyLines(100)
	lines[10] = "End of the Project Gutenberg edition of Example"
	res := Scan(lines, "test", nil)
	if got := len(strings.Split(res.Text, "\n")); got != 10 {
		t.Errorf("kept %d lines, want 10", got)
	}
}

func TestScanSecondSkipAfterEndCheck(t *testing.T) {
	lines := []string{
		"The story begins.",
		"© 1923 The Publisher",
		"All Rights Reserved",
		"And continues here.",
	}
	res := Scan(lines, "test", nil)
	if want := "The story begins.\nAnd continues here."; res.Text != want {
		t.Errorf("got %q, want %q", res.Text, want)
	}
}

func TestScanSkipLines(t *testing.T) {
	lines := []string{
		"CONTENTS",
		"* * * * *",
		"This eBook was prepared by volunteers.",
		"A real narrative line.",
	}
	res := Scan(lines, "test", nil)
	if res.Text != "A real narrative line." {
		t.Errorf("got %q", res.Text)
	}
}

func TestScanEmptyInput(t *testing.T) {
	if res := Scan(nil, "test", nil); res.Text != "" {
		t.Errorf("got %q, want empty", res.Text)
	}
	if res := Scan([]string{"", "   ", "\t"}, "test", nil); res.Text != "" {
		t.Errorf("got %q, want empty", res.Text)
	}
}

func TestScanSecondPassIdempotent(t *testing.T) {
	lines := append([]string{
		"Title: Example",
		startLine,
	}, bodyLines(30)...)
	first := Scan(lines, "test", nil)
	second := Scan(strings.Split(first.Text, "\n"), "test", nil)
	if first.Text != second.Text {
		t.Errorf("second pass changed output:\n%q\nvs\n%q", first.Text, second.Text)
	}
}

func TestCleanDocumentPunctuation(t *testing.T) {
	in := "He paused -- then spoke.\n“Well,” she said, ‘why not?’"
	got := CleanDocument("test", in, true, nil)
	want := "He paused — then spoke.\n\"Well,\" she said, 'why not?'"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestNormalizePunctuationCollapsesHyphenRuns(t *testing.T) {
	if got := NormalizePunctuation("a----b"); got != "a—b" {
		t.Errorf("got %q", got)
	}
}

func TestDiagnosticsRecords(t *testing.T) {
	var sb strings.Builder
	d := NewDiagnostics(&sb)
	Scan([]string{"Title: Example", "Body line."}, "doc-1", d)
	if err := d.Close(); err != nil {
		t.Fatal(err)
	}

	out := sb.String()
	if !strings.HasPrefix(out, "Line_id\tMarker\tLine\t\n") {
		t.Errorf("missing header, got %q", out)
	}
	if !strings.Contains(out, "0\t") || !strings.Contains(out, `"Title: Example"`) {
		t.Errorf("missing record for preface line, got %q", out)
	}
	if strings.Contains(out, "Body line.") {
		t.Error("kept lines must not appear in diagnostics")
	}
}

func TestNilDiagnosticsIsSafe(t *testing.T) {
	var d *Diagnostics
	d.Record(0, "p", "line")
	if err := d.Close(); err != nil {
		t.Fatal(err)
	}
}
