package matcher

import (
	"regexp"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/nao1215/pdfscan/internal/model"
)

// ContextRadius is the number of characters kept on each side of a match.
const ContextRadius = 50

// Options controls how keywords are searched.
type Options struct {
	// CaseSensitive disables case folding.
	CaseSensitive bool

	// WholeWord rejects occurrences adjacent to word characters.
	WholeWord bool
}

// Matcher searches page text for keywords.
// It caches compiled patterns, so a Matcher should be reused across pages.
// A Matcher is not safe for concurrent use.
type Matcher struct {
	patterns map[patternKey]*regexp.Regexp
}

type patternKey struct {
	keyword       string
	caseSensitive bool
}

// New creates a Matcher with an empty pattern cache.
func New() *Matcher {
	return &Matcher{
		patterns: make(map[patternKey]*regexp.Regexp),
	}
}

// Match searches text using the keywords and policies of set.
// file and page are copied into every returned record.
func (m *Matcher) Match(text string, set model.KeywordSet, file string, page int) []model.MatchRecord {
	return m.MatchWith(text, set.Keywords(), Options{
		CaseSensitive: set.CaseSensitive,
		WholeWord:     set.WholeWord,
	}, file, page)
}

// MatchWith searches text for every keyword with explicit options.
// Records are grouped by keyword in the given order, then ordered by
// position within each keyword. Whitespace-only text yields no records,
// and a keyword that is not valid UTF-8 yields none either.
func (m *Matcher) MatchWith(text string, keywords []string, opts Options, file string, page int) []model.MatchRecord {
	matches := make([]model.MatchRecord, 0)
	if strings.TrimSpace(text) == "" {
		return matches
	}

	idx := newRuneIndex(text)
	for _, keyword := range keywords {
		if keyword == "" {
			continue
		}
		re, err := m.pattern(keyword, opts.CaseSensitive)
		if err != nil {
			continue
		}
		for _, loc := range scan(text, re, opts.WholeWord) {
			matches = append(matches, buildRecord(text, idx, loc, keyword, file, page))
		}
	}
	return matches
}

// pattern returns the cached literal pattern for keyword.
// Keywords that cannot be compiled, such as invalid UTF-8, return an error
// and are not cached.
func (m *Matcher) pattern(keyword string, caseSensitive bool) (*regexp.Regexp, error) {
	key := patternKey{keyword: keyword, caseSensitive: caseSensitive}
	if re, ok := m.patterns[key]; ok {
		return re, nil
	}
	expr := regexp.QuoteMeta(keyword)
	if !caseSensitive {
		expr = "(?i)" + expr
	}
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, err
	}
	m.patterns[key] = re
	return re, nil
}

// scan returns the byte ranges of non-overlapping occurrences of re in text.
// In whole-word mode a candidate touching a word character on either side is
// rejected and the scan resumes one character after the candidate's start,
// so an occurrence overlapping a rejected candidate can still be found.
func scan(text string, re *regexp.Regexp, wholeWord bool) [][2]int {
	var locs [][2]int
	pos := 0
	for pos <= len(text) {
		loc := re.FindStringIndex(text[pos:])
		if loc == nil {
			break
		}
		start, end := pos+loc[0], pos+loc[1]
		if end == start {
			break
		}
		if wholeWord && !atWordBoundary(text, start, end) {
			_, size := utf8.DecodeRuneInString(text[start:])
			pos = start + size
			continue
		}
		locs = append(locs, [2]int{start, end})
		pos = end
	}
	return locs
}

// atWordBoundary reports whether text[start:end] is bounded by non-word
// characters or the ends of text. The first and last runes of the match are
// checked too, so a keyword starting or ending with punctuation needs a word
// character on the other side of that edge, the same as a regexp \b anchor.
func atWordBoundary(text string, start, end int) bool {
	first, _ := utf8.DecodeRuneInString(text[start:])
	last, _ := utf8.DecodeLastRuneInString(text[:end])

	before, after := rune(-1), rune(-1)
	if start > 0 {
		before, _ = utf8.DecodeLastRuneInString(text[:start])
	}
	if end < len(text) {
		after, _ = utf8.DecodeRuneInString(text[end:])
	}

	return isWordRune(first) != isWordRune(before) && isWordRune(last) != isWordRune(after)
}

func isWordRune(r rune) bool {
	if r < 0 {
		return false
	}
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.Is(unicode.Mn, r)
}

// buildRecord creates the record for the occurrence at loc.
func buildRecord(text string, idx runeIndex, loc [2]int, keyword, file string, page int) model.MatchRecord {
	matched := text[loc[0]:loc[1]]
	startRune := idx.runeAt(loc[0])
	endRune := idx.runeAt(loc[1])

	ctxStart := max(0, startRune-ContextRadius)
	ctxEnd := min(idx.len(), endRune+ContextRadius)
	context := collapseWhitespace(text[idx.byteAt(ctxStart):idx.byteAt(ctxEnd)])

	return model.MatchRecord{
		File:               file,
		Page:               page,
		Keyword:            keyword,
		MatchedText:        matched,
		Context:            context,
		HighlightedContext: Highlight(context, matched),
		Offset:             startRune,
	}
}

// Highlight wraps every occurrence of matched inside context with "**".
// It is a plain substring replacement: if the same literal appears more than
// once in the window, every copy is wrapped, not only the one at the match
// position.
func Highlight(context, matched string) string {
	if matched == "" {
		return context
	}
	return strings.ReplaceAll(context, matched, "**"+matched+"**")
}

// collapseWhitespace trims s and replaces every whitespace run with one space.
func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// runeIndex maps between byte offsets and character offsets of a string.
type runeIndex struct {
	starts []int // byte offset of every rune, followed by len(text)
}

func newRuneIndex(text string) runeIndex {
	starts := make([]int, 0, len(text)+1)
	for i := range text {
		starts = append(starts, i)
	}
	starts = append(starts, len(text))
	return runeIndex{starts: starts}
}

// len returns the number of characters.
func (ri runeIndex) len() int {
	return len(ri.starts) - 1
}

// runeAt converts a byte offset on a rune boundary to a character offset.
func (ri runeIndex) runeAt(byteOffset int) int {
	return sort.SearchInts(ri.starts, byteOffset)
}

// byteAt converts a character offset to a byte offset.
func (ri runeIndex) byteAt(runeOffset int) int {
	return ri.starts[runeOffset]
}
