package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

var (
	// ErrEmptyKeyword is returned when a blank keyword is added to a KeywordSet.
	ErrEmptyKeyword = errors.New("keyword must not be empty")

	// ErrDuplicateKeyword is returned when a keyword is already in the set.
	// Comparison is exact, independent of the case-sensitivity policy.
	ErrDuplicateKeyword = errors.New("keyword already in set")

	// ErrInvalidKeyword is returned when a keyword is not valid UTF-8.
	ErrInvalidKeyword = errors.New("keyword is not valid UTF-8")
)

// DefaultKeywords is the keyword list used when the operator configures none.
var DefaultKeywords = []string{
	"administración", "gobierno", "municipal", "público", "servicio",
	"ciudad", "urbano", "infraestructura", "desarrollo", "gestión",
}

// KeywordSet is an ordered sequence of unique keywords plus the policy flags
// that control how they are searched.
//
// The zero value is an empty, case-insensitive, substring-matching set.
// Use NewKeywordSet for the operator defaults (whole-word on).
type KeywordSet struct {
	keywords []string

	// CaseSensitive disables case folding during the search.
	CaseSensitive bool `json:"case_sensitive"`

	// WholeWord restricts matches to occurrences bounded by non-word characters.
	WholeWord bool `json:"whole_word"`
}

// NewKeywordSet creates a case-insensitive, whole-word KeywordSet and adds
// the given keywords, silently skipping blanks and duplicates.
func NewKeywordSet(keywords ...string) KeywordSet {
	ks := KeywordSet{WholeWord: true}
	ks.AddAll(keywords)
	return ks
}

// Add appends a keyword to the set after trimming surrounding whitespace.
// Duplicates are detected by exact string comparison, so "Gobierno" and
// "gobierno" are distinct entries even when the search is case-insensitive.
func (ks *KeywordSet) Add(keyword string) error {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return ErrEmptyKeyword
	}
	if !utf8.ValidString(keyword) {
		return fmt.Errorf("%w: %q", ErrInvalidKeyword, keyword)
	}
	if ks.Contains(keyword) {
		return fmt.Errorf("%w: %q", ErrDuplicateKeyword, keyword)
	}
	ks.keywords = append(ks.keywords, keyword)
	return nil
}

// AddAll adds every keyword, skipping blanks, invalid text and duplicates.
// It returns how many keywords were actually added.
func (ks *KeywordSet) AddAll(keywords []string) int {
	added := 0
	for _, k := range keywords {
		if err := ks.Add(k); err == nil {
			added++
		}
	}
	return added
}

// Contains reports whether the exact keyword is in the set.
func (ks KeywordSet) Contains(keyword string) bool {
	for _, k := range ks.keywords {
		if k == keyword {
			return true
		}
	}
	return false
}

// Keywords returns a copy of the keywords in insertion order.
func (ks KeywordSet) Keywords() []string {
	out := make([]string, len(ks.keywords))
	copy(out, ks.keywords)
	return out
}

// Len returns the number of keywords.
func (ks KeywordSet) Len() int {
	return len(ks.keywords)
}

// IsEmpty reports whether the set holds no keywords.
func (ks KeywordSet) IsEmpty() bool {
	return len(ks.keywords) == 0
}

// Freeze returns a copy that shares no storage with the receiver.
// A run captures the frozen copy so later edits cannot leak into it.
func (ks KeywordSet) Freeze() KeywordSet {
	return KeywordSet{
		keywords:      ks.Keywords(),
		CaseSensitive: ks.CaseSensitive,
		WholeWord:     ks.WholeWord,
	}
}

// MarshalJSON encodes the set as its keywords plus policy flags.
func (ks KeywordSet) MarshalJSON() ([]byte, error) {
	type wire struct {
		Keywords      []string `json:"keywords"`
		CaseSensitive bool     `json:"case_sensitive"`
		WholeWord     bool     `json:"whole_word"`
	}
	return json.Marshal(wire{
		Keywords:      ks.Keywords(),
		CaseSensitive: ks.CaseSensitive,
		WholeWord:     ks.WholeWord,
	})
}
