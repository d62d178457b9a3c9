package normalize

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/literaryqa/gutenclean/pkg/markers"
)

const blockSelector = "h1, h2, h3, h4, h5, h6, p, pre"

var (
	rePgRef       = regexp.MustCompile(`(?i)\[(Pg|Page)\s*\d+\]`)
	rePNumRef     = regexp.MustCompile(`(?i)\[p\s*\d+\s*\]`)
	rePageLine    = regexp.MustCompile(`(?ims)^p\.\s+\d+:.*$`)
	reCitation    = regexp.MustCompile(`\[\d+\]`)
	reRomanNote   = regexp.MustCompile(`\[[ivxlcm]+\]`) // lowercase only
	reTransNote   = regexp.MustCompile(`(?is)\[transcriber.*s note.*\]`)
	reTransLead   = regexp.MustCompile(`(?im)^transcriber.*s note[s]?:?`)
	rePunctSpace  = regexp.MustCompile(`\s+([?!.,:;])`)
	reParenOpen   = regexp.MustCompile(`\(\s+`)
	reParenClose  = regexp.MustCompile(`\s+\)`)
	rePageResidue = regexp.MustCompile(`(?im)^p. \d+:`)
)

// linearize collects every heading, paragraph and preformatted node in
// document order and applies the per-block inline cleanup. Blocks that come
// out empty are dropped.
func linearize(doc *goquery.Document, opts Options) []Block {
	var blocks []Block
	doc.Find(blockSelector).Each(func(_ int, s *goquery.Selection) {
		n := s.Nodes[0]
		kind := kindOf(n)
		sep := " "
		if kind == KindPreformatted {
			// preserve the newlines inserted by poem/song rewrites
			sep = "\n"
		}
		text := cleanBlockText(extractText(n, sep), kind, opts)
		if text == "" {
			return
		}
		blocks = append(blocks, Block{Kind: kind, Text: text})
	})
	return blocks
}

func kindOf(n *html.Node) BlockKind {
	switch n.Data {
	case "pre":
		return KindPreformatted
	case "p":
		return KindParagraph
	}
	return KindHeading
}

// cleanBlockText applies the ordered inline stripping rules to one block:
// page references, citation and footnote markers, transcriber notes,
// whitespace normalization, then production credits. The order is fixed.
func cleanBlockText(text string, kind BlockKind, opts Options) string {
	if opts.RemovePageNumbers {
		text = rePgRef.ReplaceAllString(text, " ")
		text = rePNumRef.ReplaceAllString(text, " ")
		text = rePageLine.ReplaceAllString(text, " ")
	}
	if opts.RemoveCitations {
		text = reCitation.ReplaceAllString(text, " ")
	}
	if opts.RemoveInlineFootnotes {
		text = reRomanNote.ReplaceAllString(text, " ")
	}
	if opts.RemoveTranscriberNotes {
		text = reTransNote.ReplaceAllString(text, " ")
		text = reTransLead.ReplaceAllString(text, " ")
	}
	if opts.NormalizeWhitespace {
		text = rePunctSpace.ReplaceAllString(text, "$1")
		text = reParenOpen.ReplaceAllString(text, "(")
		text = reParenClose.ReplaceAllString(text, ")")
		text = strings.ReplaceAll(text, " ( ) ", "")
		if kind != KindPreformatted {
			text = strings.ReplaceAll(text, "\n", " ")
			text = strings.Join(strings.Fields(text), " ")
		}
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return ""
	}
	if opts.RemovePageNumbers && rePageResidue.MatchString(text) {
		return ""
	}

	if opts.StripProductionCredits {
		for _, p := range markers.ProductionPatterns {
			text = p.ReplaceAllString(text, "")
		}
	}
	return strings.TrimSpace(text)
}
