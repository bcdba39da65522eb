package model

import "sort"

// KeywordCount is the number of matches produced by one keyword.
type KeywordCount struct {
	Keyword string `json:"keyword"`
	Count   int    `json:"count"`
}

// RankKeywords sorts counts by descending Count and returns at most n entries.
// The sort is stable, so keywords with equal counts keep their input order.
// A non-positive n returns every entry. The input slice is not modified.
func RankKeywords(counts []KeywordCount, n int) []KeywordCount {
	ranked := make([]KeywordCount, len(counts))
	copy(ranked, counts)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Count > ranked[j].Count
	})
	if n > 0 && len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}
