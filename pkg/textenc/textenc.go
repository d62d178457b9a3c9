// Package textenc decodes digitized-book files of unknown encoding into
// valid UTF-8 text. Detection is heuristic (charset sniffing plus a mojibake
// check), so the contract is best-effort: the output is always valid text,
// not always a perfect reconstruction.
package textenc

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/gogs/chardet"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/htmlindex"

	"github.com/literaryqa/gutenclean/internal/logger"
)

// mojibakePatterns are common artifacts of UTF-8 text read as a single-byte
// encoding: misdecoded accented letters and fancy punctuation.
var mojibakePatterns = []*regexp.Regexp{
	regexp.MustCompile(`Ã.`),
	regexp.MustCompile(`â€™`),
	regexp.MustCompile(`â€œ`),
	regexp.MustCompile(`â€`),
	regexp.MustCompile(`ðŸ`),
	regexp.MustCompile(`â€”`),
	regexp.MustCompile(`â€¦`),
	regexp.MustCompile(`â€“`),
	regexp.MustCompile(`â€˜`),
}

// chardet names that differ from the HTML encoding index.
var charsetAliases = map[string]string{
	"GB-18030": "gb18030",
}

// Decode converts raw bytes to a UTF-8 string using detected-charset
// decoding, then repairs mojibake if the result looks corrupted. It never
// fails; undetectable input falls back to a lossy UTF-8 interpretation.
func Decode(raw []byte) string {
	text := decodeDetected(raw)
	if IsCorrupted(text) {
		text = FixMojibake(text)
	}
	return text
}

func decodeDetected(raw []byte) string {
	detector := chardet.NewTextDetector()
	result, err := detector.DetectBest(raw)
	if err != nil || result == nil {
		return string(raw)
	}

	name := result.Charset
	if alias, ok := charsetAliases[name]; ok {
		name = alias
	}
	enc, err := htmlindex.Get(name)
	if err != nil {
		logger.Debug("unknown charset, falling back to utf-8", "charset", result.Charset)
		return string(raw)
	}

	decoded, err := enc.NewDecoder().Bytes(raw)
	if err != nil {
		return string(raw)
	}
	return string(decoded)
}

// IsCorrupted reports whether text likely contains mojibake. Texts of 100
// characters or fewer are never considered corrupted; above that, the
// threshold is 0.5% of the text matching known artifact patterns.
func IsCorrupted(text string) bool {
	if len(text) <= 100 {
		return false
	}
	matches := 0
	for _, p := range mojibakePatterns {
		matches += len(p.FindAllStringIndex(text, -1))
	}
	return float64(matches)/float64(len(text)) > 0.005
}

// FixMojibake attempts the classic repair for UTF-8 read as Windows-1252:
// re-encode the text as 1252 bytes and reinterpret them as UTF-8. The
// repaired text is kept only when it is valid UTF-8 and strictly reduces
// the artifact count; otherwise the input is returned unchanged.
func FixMojibake(text string) string {
	encoded, err := charmap.Windows1252.NewEncoder().String(text)
	if err != nil {
		return text
	}
	if !utf8.ValidString(encoded) {
		return text
	}
	if countArtifacts(encoded) >= countArtifacts(text) {
		return text
	}
	return encoded
}

func countArtifacts(text string) int {
	n := 0
	for _, p := range mojibakePatterns {
		n += len(p.FindAllStringIndex(text, -1))
	}
	// stray replacement characters also count against a candidate
	n += strings.Count(text, "�")
	return n
}
