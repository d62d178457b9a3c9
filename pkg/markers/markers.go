// Package markers holds the pattern catalog used to recognise Project
// Gutenberg boilerplate. The lists are ordered and the order is load-bearing:
// broad patterns must be tried before narrower overlapping ones, so none of
// them may be reordered or rebuilt into lookup structures.
//
// The catalog is pure data. All matching behaviour lives in pkg/scan and
// pkg/normalize.
package markers

import "regexp"

// StartMarkers are literal substrings that mark the true beginning of the
// narrative body. Matching is case-insensitive substring containment.
var StartMarkers = []string{
	"***START OF THIS PROJECT GUTENBERG EBOOK",
	"*** START OF THIS PROJECT GUTENBERG EBOOK",
	"***START OF THE PROJECT GUTENBERG EBOOK",
	"*** START OF THE PROJECT GUTENBERG EBOOK",
	// book 44015 opens its body right after this editorial note
	"while Coxeter and Mason write Novall alone in , and Novall Senior thereafter. I have not thought it worth while to note the variants of the several texts on this point.",
}

// EndMarkers are literal substrings that mark the end of the narrative body.
// A match truncates the document immediately. Matching is case-insensitive
// substring containment.
var EndMarkers = []string{
	"End of the Project Gutenberg",
	"END OF THIS PROJECT GUTENBERG",
	"End of Project Gutenberg",
	"*** START: FULL LICENSE",
	"THE FULL PROJECT GUTENBERG LICENSE",
	"NOW you can get ADVANCE COPIES of the best",                 // 50571
	"AN ALPHABETICAL LIST OF BOOKS CONTAINED IN BOHN'S LIBRARIES", // 50966
	"Brilliant New Novel from Award-Winning Author of",            // 20121
}

// StrictEndPatterns are candidate end markers that must match an entire
// stripped line. They are only trusted subject to the positional policy in
// pkg/scan, since words like "Index" also occur as chapter titles.
var StrictEndPatterns = compile("(?i)",
	`^addendum[.:;]?$`,
	`^books on nature study by$`,
	`^advertisements?[.:;]?$`,
	`^appendix`,
	`^index[.:;]?$`,
)

// PrefacePatterns match the metadata lines of a Gutenberg header
// (Title:, Author:, ...). Any match means the scan is still inside the
// header, so accumulation restarts at the following line.
var PrefacePatterns = compile("(?i)",
	`^The Project Gutenberg eBook of\s*.*$`,
	`^Title:\s*.*`,
	`^Author:\s*.*$`,
	`^Illustrator:\s*.*$`,
	`^Translator:\s*.*$`,
	`^Editor:\s*.*$`,
	`^Release Date:\s*.*$`,
	`^Language:\s*.*$`,
	`^Credits:\s*.*$`,
	`^Original publication:\s*.*$`,
	`^Character set encoding:\s*.*$`,
)

// SkipLinePatterns is the primary skip set: residual ebook/etext vocabulary,
// table-of-contents headers, transcriber notices, separator lines and
// archive/email/Google credits. Matched lines are dropped before any marker
// check runs.
var SkipLinePatterns = compile("(?i)",
	`\be-text\b`,
	`\betext\b`,
	`\be-book\b`,
	`\bebook\b`,
	`^(table of )?contents?[.:;]?$`,
	`hyphenation`,
	`typographical errors?`,
	`^list of illustrations$`,
	`^illustrations$`,
	`^footnotes?[.:;]?$`,
	`^linenotes?[.:;]?$`,
	`^[\*\t ]*$`,
	`^§ \d*$`,
	`\binternet archive\b`,
	`\bemail\b`,
	`\be-mail\b`,
	`http://www`,
	`book was produced from scanned images of public domain`,
	`\bGoogle\b`,
	`Inconsistencies in the author's use of hyphens and accent marks`,
	`\bcontent providers?\b`,
)

// SecondSkipLinePatterns is the secondary skip set, checked only after the
// end-marker check: some of these strings also occur inside legitimate
// license text that must still be evaluated for truncation first.
var SecondSkipLinePatterns = compile("(?i)",
	`©`,
	`Printed in U\.\s+S\.\s+A\.`,
	`^All Rights Reserved$`,
	`\btable of contents with hyperlinks\b`,
)

// ProductionPatterns strip OCR-volunteer credit blocks embedded inside
// paragraph text during linearization. The first, broadest distributed
// proofreading pattern must run before the narrower per-contributor
// patterns or multi-line credit blocks slip through.
var ProductionPatterns = compile("(?im)",
	`^produced by[\w\W\s]*online[\n ]*distributed[\n ]*proofreading[\n ]*team.*(\nfile was produced from images.*\nby.*\))?($\n?^.*https?://\S+.*$)?`,
	// the most frequent named contributors
	`^produced by.*(David Widger|Greg Weeks|Melissa Er-Raqabi|the PG Online|John Bickers|Dagny|Robert Cicconetti|David Garcia|Al Haines|Judith Boss|An Anonymous Volunteer|Distributed|Martin Pettit|Judy Boss|Nick Hodson of London|England|Eve Sobol|Les Bowler|John Hamm|David Reed|Martin Adamson\.|Malcolm Farmer|).*`,
	`^text file produced by.*(\nproofreaders team.*)?`,
	`^html file produced by david widger`,
	`^produced from scanned images.*$`,
	`^from the Google Print project.*$`,
)

// ResidualMarkers is the vocabulary scanned for when reporting leftover
// boilerplate in already-cleaned text. It plays no part in cleaning itself.
var ResidualMarkers = []string{
	"www.gutenberg.org",
	"etext",
	" e-text",
	"ebook",
	" e-book",
	"gutenberg",
	"projectgutenberg",
	"project-gutenberg",
}

func compile(flags string, exprs ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(exprs))
	for i, expr := range exprs {
		out[i] = regexp.MustCompile(flags + expr)
	}
	return out
}
