package gutenclean

import (
	"bytes"
	"strings"
	"testing"

	"github.com/literaryqa/gutenclean/pkg/normalize"
)

const sampleHTML = `<html><body>
<p>Title: An Example Book</p>
<p>*** START OF THE PROJECT GUTENBERG EBOOK AN EXAMPLE BOOK ***</p>
<h1>CHAPTER I</h1>
<p>It was a dark and stormy night.</p>
<p>The rain fell in torrents<span class="pagenum">[Pg 12]</span>.</p>
<p>THE FULL PROJECT GUTENBERG LICENSE</p>
<p>Please read this before you distribute this work.</p>
</body></html>`

func TestCleanHTML(t *testing.T) {
	p := New()
	out := p.CleanHTML("book-1", []byte(sampleHTML))

	want := "CHAPTER I\nIt was a dark and stormy night.\nThe rain fell in torrents."
	if out.Text != want {
		t.Errorf("Text = %q, want %q", out.Text, want)
	}
	if out.Blocks == 0 {
		t.Error("Blocks should count the normalized blocks")
	}
	if len(out.StartMarkerLines) == 0 {
		t.Error("start marker position not recorded")
	}
	if len(out.EndMarkerLines) == 0 {
		t.Error("end marker position not recorded")
	}
	if len(out.Residue) != 0 {
		t.Errorf("unexpected residue %v", out.Residue)
	}
}

func TestCleanTextPunctuation(t *testing.T) {
	p := New()
	out := p.CleanText("doc", "“Stop--wait!” she said.")
	if want := `"Stop—wait!" she said.`; out.Text != want {
		t.Errorf("got %q, want %q", out.Text, want)
	}

	plain := New(WithPunctuationNormalization(false))
	out = plain.CleanText("doc", "“Stop--wait!”")
	if want := "“Stop--wait!”"; out.Text != want {
		t.Errorf("got %q, want %q", out.Text, want)
	}
}

func TestCleanHTMLWithNormalizeOptions(t *testing.T) {
	opts := normalize.DefaultOptions()
	opts.RemovePageNumbers = false
	p := New(WithNormalizeOptions(opts))

	out := p.CleanHTML("doc", []byte(`<html><body>
<p>The rain fell<span class="pagenum">[Pg 12]</span>.</p>
</body></html>`))
	if !strings.Contains(out.Text, "[Pg 12]") {
		t.Errorf("page number should survive when removal is off, got %q", out.Text)
	}
}

func TestCleanHTMLDiagnostics(t *testing.T) {
	var buf bytes.Buffer
	p := New(WithDiagnostics(&buf))
	p.CleanHTML("doc", []byte(sampleHTML))

	log := buf.String()
	if !strings.HasPrefix(log, "Line_id\tMarker\tLine\t\n") {
		t.Fatalf("missing header in %q", log)
	}
	if !strings.Contains(log, "*** START OF THE PROJECT GUTENBERG") {
		t.Errorf("start marker not logged: %q", log)
	}
}

func TestResidue(t *testing.T) {
	got := Residue("Visit www.gutenberg.org for this EBook.")
	if len(got) != 3 {
		t.Fatalf("got %v, want three markers", got)
	}
	for _, m := range []string{"www.gutenberg.org", "ebook", "gutenberg"} {
		found := false
		for _, g := range got {
			if g == m {
				found = true
			}
		}
		if !found {
			t.Errorf("marker %q missing from %v", m, got)
		}
	}
}

func TestResidueClean(t *testing.T) {
	if got := Residue("Nothing to see here."); got != nil {
		t.Errorf("clean text reported residue %v", got)
	}
}
