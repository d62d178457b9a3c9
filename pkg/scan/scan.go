// Package scan removes Project Gutenberg boilerplate from line-oriented
// text. It classifies every line against the ordered marker catalog and
// decides, strictly in order and without lookahead, whether to keep the
// line, restart accumulation, or truncate the document.
package scan

import (
	"regexp"
	"strings"

	"github.com/literaryqa/gutenclean/internal/logger"
	"github.com/literaryqa/gutenclean/pkg/markers"
)

// Result is the outcome of one scan: the retained lines joined by newlines,
// plus the indices where start and end markers were observed. The marker
// positions feed diagnostics and reports only.
type Result struct {
	Text             string
	StartMarkerLines []int
	EndMarkerLines   []int
}

// truncation thresholds for strict end markers found mid-document. These are
// tuned against the corpus and frozen: moving them changes truncation points
// and breaks dataset reproducibility.
const (
	ignoreBelowRatio = 0.5
	reviewBelowRatio = 0.85
)

// Scan runs the line-classification pass over lines. docID labels log
// records; diag, when non-nil, receives one record per marker match.
//
// For each line, in order: empty lines are dropped; primary skip patterns
// drop the line; start markers and header preface patterns clear everything
// accumulated so far (the real restart point is the last header-like line
// seen); literal end markers truncate immediately, while strict end-marker
// patterns truncate subject to the position policy; secondary skip patterns
// drop lines that survive the end check. Anything left is accumulated with
// its original content.
func Scan(lines []string, docID string, diag *Diagnostics) Result {
	numLines := len(lines)

	var kept []string
	var res Result

scanning:
	for i, raw := range lines {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}

		if p := matchAny(markers.SkipLinePatterns, line); p != "" {
			diag.Record(i, p, line)
			continue
		}

		// Start markers and header metadata both mean the narrative has not
		// begun yet: throw away whatever was gathered before this line.
		if m := containsAny(markers.StartMarkers, line); m != "" {
			kept = kept[:0]
			res.StartMarkerLines = append(res.StartMarkerLines, i)
			diag.Record(i, m, line)
			continue
		}
		if p := matchAny(markers.PrefacePatterns, line); p != "" {
			kept = kept[:0]
			res.StartMarkerLines = append(res.StartMarkerLines, i)
			diag.Record(i, p, line)
			continue
		}

		if m := containsAny(markers.EndMarkers, line); m != "" {
			res.EndMarkerLines = append(res.EndMarkerLines, i)
			diag.Record(i, m, line)
			break
		}
		if p := matchAny(markers.StrictEndPatterns, line); p != "" {
			res.EndMarkerLines = append(res.EndMarkerLines, i)
			diag.Record(i, p, line)

			ratio := float64(i) / float64(numLines)
			switch {
			case ratio < ignoreBelowRatio:
				// early in the body this is a chapter title, not an end
				logger.Info("end marker ignored",
					"doc", docID, "marker", p, "line", i, "of", numLines, "ratio", ratio)
			case ratio < reviewBelowRatio:
				logger.Info("end marker in ambiguous zone, truncating; check",
					"doc", docID, "marker", p, "line", i, "of", numLines, "ratio", ratio)
				break scanning
			default:
				break scanning
			}
		}

		// Checked after the end markers on purpose: some of these strings
		// also appear inside license text that must truncate first.
		if p := matchAny(markers.SecondSkipLinePatterns, line); p != "" {
			diag.Record(i, p, line)
			continue
		}

		kept = append(kept, raw)
	}

	res.Text = strings.Join(kept, "\n")
	return res
}

// CleanDocument scans rawText and, when normalizePunct is set, rewrites
// double hyphens to em-dashes and curly quotes to straight quotes.
func CleanDocument(docID, rawText string, normalizePunct bool, diag *Diagnostics) string {
	res := Scan(strings.Split(rawText, "\n"), docID, diag)
	text := res.Text
	if normalizePunct {
		text = NormalizePunctuation(text)
	}
	return text
}

var quoteReplacer = strings.NewReplacer(
	"“", `"`, // left double
	"”", `"`, // right double
	"‘", "'", // left single
	"’", "'", // right single
)

// NormalizePunctuation rewrites double hyphens to em-dashes and curly
// quotes to straight quotes. The hyphen rewrites run in sequence, so a run
// of four hyphens also collapses to a single em-dash.
func NormalizePunctuation(text string) string {
	text = strings.ReplaceAll(text, "--", "—")
	text = strings.ReplaceAll(text, "——", "—")
	return quoteReplacer.Replace(text)
}

// containsAny returns the first literal marker contained in line,
// case-insensitively, or "".
func containsAny(literals []string, line string) string {
	lower := strings.ToLower(line)
	for _, m := range literals {
		if strings.Contains(lower, strings.ToLower(m)) {
			return m
		}
	}
	return ""
}

// matchAny returns the pattern string of the first regexp matching line,
// or "". The pattern lists are ordered; evaluation is always top to bottom.
func matchAny(patterns []*regexp.Regexp, line string) string {
	for _, p := range patterns {
		if p.MatchString(line) {
			return p.String()
		}
	}
	return ""
}
