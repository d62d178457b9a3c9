// Package metrics scores predicted answers against references with the
// measures used for reading-comprehension datasets: exact match, token F1
// and ROUGE-L.
package metrics

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/clipperhouse/uax29/v2/words"
)

var (
	reArticles = regexp.MustCompile(`\b(a|an|the)\b`)
	reSpaces   = regexp.MustCompile(`\s+`)
)

// NormalizeAnswer lowercases, strips punctuation and English articles, and
// collapses whitespace. Both sides of every comparison go through it.
func NormalizeAnswer(s string) string {
	s = strings.ToLower(s)
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if unicode.IsPunct(r) {
			continue
		}
		b.WriteRune(r)
	}
	s = reArticles.ReplaceAllString(b.String(), " ")
	return strings.TrimSpace(reSpaces.ReplaceAllString(s, " "))
}

// ExactMatch reports whether prediction and reference are equal after
// normalization.
func ExactMatch(prediction, reference string) bool {
	return NormalizeAnswer(prediction) == NormalizeAnswer(reference)
}

// F1 returns the token-level F1 between a prediction and a reference.
// Yes/no/noanswer answers only score when both sides agree exactly.
func F1(prediction, reference string) float64 {
	pred := NormalizeAnswer(prediction)
	ref := NormalizeAnswer(reference)

	if isClosedClass(pred) || isClosedClass(ref) {
		if pred != ref {
			return 0
		}
	}

	predTokens := strings.Fields(pred)
	refTokens := strings.Fields(ref)
	if len(predTokens) == 0 || len(refTokens) == 0 {
		if len(predTokens) == len(refTokens) {
			return 1
		}
		return 0
	}

	counts := make(map[string]int, len(refTokens))
	for _, t := range refTokens {
		counts[t]++
	}
	common := 0
	for _, t := range predTokens {
		if counts[t] > 0 {
			counts[t]--
			common++
		}
	}
	if common == 0 {
		return 0
	}
	precision := float64(common) / float64(len(predTokens))
	recall := float64(common) / float64(len(refTokens))
	return 2 * precision * recall / (precision + recall)
}

func isClosedClass(s string) bool {
	switch s {
	case "yes", "no", "noanswer":
		return true
	}
	return false
}

// MaxOverReferences scores a prediction against each reference with score
// and returns the best value. Empty references yield zero.
func MaxOverReferences(score func(pred, ref string) float64, prediction string, references []string) float64 {
	best := 0.0
	for _, ref := range references {
		if s := score(prediction, ref); s > best {
			best = s
		}
	}
	return best
}

// RougeL returns the ROUGE-L F-measure between a prediction and a
// reference, computed over normalized word tokens.
func RougeL(prediction, reference string) float64 {
	pred := Tokenize(NormalizeAnswer(prediction))
	ref := Tokenize(NormalizeAnswer(reference))
	if len(pred) == 0 || len(ref) == 0 {
		return 0
	}
	lcs := lcsLength(pred, ref)
	if lcs == 0 {
		return 0
	}
	precision := float64(lcs) / float64(len(pred))
	recall := float64(lcs) / float64(len(ref))
	return 2 * precision * recall / (precision + recall)
}

// Tokenize splits text into word tokens using Unicode word segmentation,
// dropping whitespace and punctuation-only segments.
func Tokenize(text string) []string {
	var tokens []string
	iter := words.FromString(text)
	for iter.Next() {
		tok := iter.Value()
		if isWordlike(tok) {
			tokens = append(tokens, tok)
		}
	}
	return tokens
}

func isWordlike(tok string) bool {
	for _, r := range tok {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return true
		}
	}
	return false
}

// lcsLength computes the longest common subsequence length with a rolling
// single-row table.
func lcsLength(a, b []string) int {
	if len(a) < len(b) {
		a, b = b, a
	}
	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for i := 1; i <= len(a); i++ {
		for j := 1; j <= len(b); j++ {
			if a[i-1] == b[j-1] {
				curr[j] = prev[j-1] + 1
			} else if prev[j] >= curr[j-1] {
				curr[j] = prev[j]
			} else {
				curr[j] = curr[j-1]
			}
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}
