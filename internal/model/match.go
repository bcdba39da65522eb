package model

// MatchRecord is a single keyword occurrence found on a page.
type MatchRecord struct {
	// File is the base name of the document the match was found in.
	File string `json:"file"`

	// Page is the 1-based page number.
	Page int `json:"page"`

	// Keyword is the configured keyword that produced this match.
	Keyword string `json:"keyword"`

	// MatchedText is the literal text as it appears in the page, which may
	// differ in case from Keyword when the search is case-insensitive.
	MatchedText string `json:"matched_text"`

	// Context is the text surrounding the match with whitespace collapsed.
	Context string `json:"context"`

	// HighlightedContext is Context with every occurrence of MatchedText
	// wrapped in "**". Repeated literals inside the window are all wrapped.
	HighlightedContext string `json:"highlighted_context"`

	// Offset is the character (code point) offset of the match in the page text.
	Offset int `json:"position"`
}
