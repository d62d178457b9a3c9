package normalize

// Options toggles the individual rewrite rules. Each toggle is independent
// and enables exactly one rule; all rules are on by default. Disabling a
// toggle skips that rewrite only, it never changes the order of the rest.
type Options struct {
	// KeepImageText replaces <img> nodes with their title (or alt) text and
	// merges the result into an adjacent text node.
	KeepImageText bool

	// RemoveNoteContainers drops translator/transcriber note containers
	// (div.tnote, div.transnote, div.covernote) whole.
	RemoveNoteContainers bool

	// RemoveFootnoteBlocks drops footnote containers (div.footnote,
	// div.footnotes) whole.
	RemoveFootnoteBlocks bool

	// RemovePageNumbers drops page-number spans (span.pagenum, span.ns,
	// span.pageno) and strips inline [Pg 123] style references during
	// linearization.
	RemovePageNumbers bool

	// RemoveCitations drops citation links (a.citation) and strips inline
	// [557] style markers during linearization.
	RemoveCitations bool

	// RemoveLinks drops every remaining <a href> node, text included.
	RemoveLinks bool

	// FlattenSidebars unwraps spans nested in sidebar paragraphs, then the
	// sidebar container itself.
	FlattenSidebars bool

	// KeepDropCaps retypes drop-cap containers as paragraphs and unwraps
	// generic centered containers.
	KeepDropCaps bool

	// KeepMarginSpans promotes spans carrying a margin-left style to
	// block-level paragraphs.
	KeepMarginSpans bool

	// KeepPoems restructures poem containers into preformatted blocks with
	// one line per verse.
	KeepPoems bool

	// KeepStageDirections retypes stage-direction containers as paragraphs.
	KeepStageDirections bool

	// KeepSceneDescriptions retypes scene-description containers as
	// paragraphs.
	KeepSceneDescriptions bool

	// KeepSongs collapses each song container into a single preformatted
	// block, one stanza gap between lines.
	KeepSongs bool

	// RemoveInlineFootnotes strips [iv] style lowercase roman footnote
	// markers from block text.
	RemoveInlineFootnotes bool

	// RemoveTranscriberNotes strips bracketed or line-leading transcriber
	// notes from block text.
	RemoveTranscriberNotes bool

	// NormalizeWhitespace collapses runs of whitespace and fixes spacing
	// around punctuation. Preformatted blocks keep their newlines.
	NormalizeWhitespace bool

	// StripProductionCredits removes volunteer production-credit blocks
	// embedded in paragraph text (markers.ProductionPatterns).
	StripProductionCredits bool
}

// DefaultOptions enables every rewrite rule.
func DefaultOptions() Options {
	return Options{
		KeepImageText:          true,
		RemoveNoteContainers:   true,
		RemoveFootnoteBlocks:   true,
		RemovePageNumbers:      true,
		RemoveCitations:        true,
		RemoveLinks:            true,
		FlattenSidebars:        true,
		KeepDropCaps:           true,
		KeepMarginSpans:        true,
		KeepPoems:              true,
		KeepStageDirections:    true,
		KeepSceneDescriptions:  true,
		KeepSongs:              true,
		RemoveInlineFootnotes:  true,
		RemoveTranscriberNotes: true,
		NormalizeWhitespace:    true,
		StripProductionCredits: true,
	}
}
