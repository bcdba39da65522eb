// Package matcher finds keyword occurrences in page text.
//
// For every keyword, in keyword-set order, the page text is scanned left to
// right for non-overlapping occurrences. Each occurrence becomes a
// model.MatchRecord carrying a context window of up to ContextRadius
// characters on each side, with whitespace collapsed, and a highlighted copy
// of that window.
//
// Results are grouped by keyword, not sorted by absolute position: a match
// of the second keyword that precedes a match of the first keyword in the
// text still comes after it.
//
// Whole-word matching uses Unicode-aware boundaries: letters, digits,
// combining marks and underscore are word characters, so accented words
// such as "anunció" are bounded correctly. Offsets and context radii are
// counted in characters (code points), not bytes.
package matcher
