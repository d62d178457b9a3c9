package gutenclean

import (
	"strings"

	"github.com/literaryqa/gutenclean/internal/logger"
	"github.com/literaryqa/gutenclean/pkg/markers"
	"github.com/literaryqa/gutenclean/pkg/normalize"
	"github.com/literaryqa/gutenclean/pkg/scan"
	"github.com/literaryqa/gutenclean/pkg/textenc"
)

// Output is the result of cleaning one document.
type Output struct {
	// Text is the cleaned narrative.
	Text string

	// Blocks is how many structural blocks the normalizer produced. Zero for
	// plain-text input.
	Blocks int

	// StartMarkerLines and EndMarkerLines are the line indices where the
	// scanner saw boilerplate markers.
	StartMarkerLines []int
	EndMarkerLines   []int

	// Residue lists leftover boilerplate vocabulary still present in Text,
	// lowercased, in catalog order.
	Residue []string
}

// Pipeline cleans digitized-book documents. It is safe for concurrent use.
type Pipeline struct {
	cfg Config
}

// New creates a Pipeline with the given options applied over DefaultConfig.
func New(opts ...Option) *Pipeline {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Pipeline{cfg: cfg}
}

// CleanHTML decodes, normalizes and scans an HTML document. docID labels
// log and diagnostic records.
func (p *Pipeline) CleanHTML(docID string, raw []byte) Output {
	markup := textenc.Decode(raw)

	blocks := normalize.Normalize(markup, p.cfg.Normalize)
	logger.Debug("structure normalized", "doc", docID, "blocks", len(blocks))

	out := p.clean(docID, normalize.Text(blocks))
	out.Blocks = len(blocks)
	return out
}

// CleanText scans already-linear text without structural normalization.
func (p *Pipeline) CleanText(docID, text string) Output {
	return p.clean(docID, text)
}

func (p *Pipeline) clean(docID, text string) Output {
	var diag *scan.Diagnostics
	if p.cfg.Diagnostics != nil {
		diag = scan.NewDiagnostics(p.cfg.Diagnostics)
		defer diag.Close()
	}

	res := scan.Scan(strings.Split(text, "\n"), docID, diag)
	cleaned := res.Text
	if p.cfg.NormalizePunctuation {
		cleaned = scan.NormalizePunctuation(cleaned)
	}

	out := Output{
		Text:             cleaned,
		StartMarkerLines: res.StartMarkerLines,
		EndMarkerLines:   res.EndMarkerLines,
		Residue:          Residue(cleaned),
	}
	if len(out.Residue) > 0 {
		logger.Warn("boilerplate residue after cleaning",
			"doc", docID, "markers", strings.Join(out.Residue, ","))
	}
	return out
}

// Residue reports which residual boilerplate markers still occur in text,
// case-insensitively, in catalog order.
func Residue(text string) []string {
	lower := strings.ToLower(text)
	var found []string
	for _, m := range markers.ResidualMarkers {
		if strings.Contains(lower, m) {
			found = append(found, m)
		}
	}
	return found
}
