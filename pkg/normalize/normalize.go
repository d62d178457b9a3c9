// Package normalize turns digitized-book markup into a flat sequence of
// semantic text blocks. It applies a fixed, ordered set of content-preserving
// tree rewrites (images to captions, poem and song restructuring, sidebar
// flattening, footnote and page-number removal) and then linearizes the
// surviving heading/paragraph/preformatted nodes in reading order.
//
// The rewrite order matters: later rules rely on earlier ones having already
// run. Malformed input never aborts a document; a rewrite that cannot be
// applied to a node is skipped for that node.
package normalize

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// BlockKind classifies a linearized text block.
type BlockKind int

const (
	KindHeading BlockKind = iota
	KindParagraph
	KindPreformatted
)

func (k BlockKind) String() string {
	switch k {
	case KindHeading:
		return "heading"
	case KindParagraph:
		return "paragraph"
	case KindPreformatted:
		return "preformatted"
	}
	return "unknown"
}

// Block is one unit of linearized text. Preformatted blocks keep their
// internal line breaks; heading and paragraph blocks are single lines.
type Block struct {
	Kind BlockKind
	Text string
}

// Text joins blocks with a blank line between each, the on-disk form of a
// cleaned document.
func Text(blocks []Block) string {
	parts := make([]string, len(blocks))
	for i, b := range blocks {
		parts[i] = b.Text
	}
	return strings.Join(parts, "\n\n")
}

// sourceFixups patches known-bad tag sequences before parsing.
var sourceFixups = strings.NewReplacer(
	`<div class="stage-direction center">`, `<div class="stage-direction">`,
)

var marginLeftStyle = regexp.MustCompile(`margin-left:\s*[\d.]+em;`)

// Normalize parses markup, applies the ordered rewrite rules enabled in
// opts, and returns the document's text blocks in reading order. It never
// fails: unparseable input yields an empty sequence.
func Normalize(markup string, opts Options) []Block {
	markup = sourceFixups.Replace(markup)
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return nil
	}

	if opts.KeepImageText {
		keepImageText(doc)
	}
	if opts.RemoveNoteContainers {
		for _, class := range []string{"tnote", "transnote", "covernote"} {
			doc.Find("div." + class).Remove()
		}
	}
	if opts.RemoveFootnoteBlocks {
		for _, class := range []string{"footnote", "footnotes"} {
			doc.Find("div." + class).Remove()
		}
	}
	if opts.RemovePageNumbers {
		for _, class := range []string{"pagenum", "ns", "pageno"} {
			doc.Find("span." + class).Remove()
		}
	}
	if opts.RemoveCitations {
		doc.Find("a.citation").Remove()
	}
	if opts.RemoveLinks {
		// link text goes with the link
		doc.Find("a[href]").Remove()
	}
	if opts.FlattenSidebars {
		flattenSidebars(doc)
	}
	if opts.KeepDropCaps {
		eachNode(doc.Find("div.drop-cap"), func(n *html.Node) {
			retype(n, atom.P)
		})
		eachNode(doc.Find("div.center"), unwrap)
	}
	if opts.KeepMarginSpans {
		promoteMarginSpans(doc)
	}
	if opts.KeepPoems {
		restructurePoems(doc)
	}
	if opts.KeepStageDirections {
		eachNode(doc.Find("div.stage-direction"), func(n *html.Node) {
			retype(n, atom.P)
		})
	}
	if opts.KeepSceneDescriptions {
		eachNode(doc.Find("div.scene-description"), func(n *html.Node) {
			retype(n, atom.P)
		})
	}
	if opts.KeepSongs {
		restructureSongs(doc)
	}

	// residual note containers and hanging paragraphs, last
	for _, id := range []string{"notes", "footnotes", "linenotes"} {
		doc.Find("div#" + id).Remove()
	}
	doc.Find("p.hang").Remove()

	return linearize(doc, opts)
}

func eachNode(sel *goquery.Selection, fn func(*html.Node)) {
	for _, n := range sel.Nodes {
		fn(n)
	}
}

// keepImageText swaps every image for its caption, preferring the title
// attribute over alt, and merges the caption into a following text node.
func keepImageText(doc *goquery.Document) {
	doc.Find("img").Each(func(_ int, s *goquery.Selection) {
		caption := strings.TrimSpace(s.AttrOr("title", ""))
		if caption == "" {
			caption = strings.TrimSpace(s.AttrOr("alt", ""))
		}
		for _, n := range s.Nodes {
			replaceWithText(n, caption)
		}
	})
}

// flattenSidebars unwraps spans nested in sidebar paragraphs before
// unwrapping the sidebar container itself.
func flattenSidebars(doc *goquery.Document) {
	doc.Find("div.sidebar").Each(func(_ int, sidebar *goquery.Selection) {
		sidebar.Find("p").Each(func(_ int, p *goquery.Selection) {
			eachNode(p.Find("span"), unwrap)
		})
		eachNode(sidebar, unwrap)
	})
}

// promoteMarginSpans retypes spans styled with a left-margin indent into
// block-level paragraphs. The indent expressed a verse or quotation line,
// which only survives linearization as its own block.
func promoteMarginSpans(doc *goquery.Document) {
	doc.Find("span[style]").Each(func(_ int, s *goquery.Selection) {
		if !marginLeftStyle.MatchString(s.AttrOr("style", "")) {
			return
		}
		for _, n := range s.Nodes {
			retype(n, atom.P)
			removeAttr(n, "style")
		}
	})
}

// restructurePoems rewrites poem containers into preformatted blocks.
// Stanza-based poems have their spans unwrapped and <br> markers turned into
// newlines; paragraph-based poems get a break after each line before the
// paragraph is unwrapped. The container ends up as a classless <pre>.
func restructurePoems(doc *goquery.Document) {
	doc.Find("div.poem").Each(func(_ int, poem *goquery.Selection) {
		poem.Find("div.stanza").Each(func(_ int, stanza *goquery.Selection) {
			eachNode(stanza.Find("span"), unwrap)
			eachNode(stanza.Find("br"), func(n *html.Node) {
				replaceWithText(n, "\n")
			})
			eachNode(stanza, unwrap)
		})
		eachNode(poem.Find("p"), func(n *html.Node) {
			br := &html.Node{Type: html.ElementNode, Data: "br", DataAtom: atom.Br}
			insertAfter(br, n)
			unwrap(n)
		})
		for _, n := range poem.Nodes {
			retype(n, atom.Pre)
			removeAttr(n, "class")
		}
	})
}

// restructureSongs collapses each song container into one preformatted
// block, its lines separated by blank lines, then unwraps the outer songs
// wrapper.
func restructureSongs(doc *goquery.Document) {
	doc.Find("div#songs").Each(func(_ int, songs *goquery.Selection) {
		songs.Find("div.song").Each(func(_ int, song *goquery.Selection) {
			var lines []string
			for _, n := range song.Find("div.line").Nodes {
				lines = append(lines, extractText(n, ""))
			}
			pre := &html.Node{Type: html.ElementNode, Data: "pre", DataAtom: atom.Pre}
			pre.AppendChild(&html.Node{Type: html.TextNode, Data: strings.Join(lines, "\n\n")})
			for _, n := range song.Nodes {
				replaceNode(n, pre)
			}
		})
		eachNode(songs, unwrap)
	})
}
