package model

import (
	"path/filepath"
	"sort"
	"time"
)

// FileResult is the outcome of analyzing a single PDF document.
//
// FileResult values are built with NewFileResult or NewFailedFileResult so
// that TotalMatches and PagesProcessed are always derived from Matches.
type FileResult struct {
	// File is the base name of the document.
	File string `json:"file"`

	// Path is the path the document was opened from.
	Path string `json:"file_path"`

	// Matches holds the matches in page order, then keyword order within a page.
	Matches []MatchRecord `json:"matches"`

	// TotalMatches always equals len(Matches).
	TotalMatches int `json:"total_matches"`

	// PagesProcessed is the highest page number that produced a match,
	// or 0 when there are no matches. It is not the page count of the document.
	PagesProcessed int `json:"pages_processed"`

	// PageCount is the number of pages the document reported.
	PageCount int `json:"page_count"`

	// OCRPages counts the pages whose text came from optical recognition.
	OCRPages int `json:"ocr_pages"`

	// Error is the failure message when the document could not be processed.
	Error string `json:"error,omitempty"`
}

// NewFileResult creates a successful FileResult from the collected matches.
func NewFileResult(path string, matches []MatchRecord, pageCount, ocrPages int) FileResult {
	if matches == nil {
		matches = []MatchRecord{}
	}
	maxPage := 0
	for _, m := range matches {
		if m.Page > maxPage {
			maxPage = m.Page
		}
	}
	return FileResult{
		File:           filepath.Base(path),
		Path:           path,
		Matches:        matches,
		TotalMatches:   len(matches),
		PagesProcessed: maxPage,
		PageCount:      pageCount,
		OCRPages:       ocrPages,
	}
}

// NewFailedFileResult creates a FileResult for a document that could not be processed.
func NewFailedFileResult(path string, err error) FileResult {
	r := NewFileResult(path, nil, 0, 0)
	if err != nil {
		r.Error = "error processing " + r.File + ": " + err.Error()
	}
	return r
}

// Failed reports whether the document could not be processed.
func (r FileResult) Failed() bool {
	return r.Error != ""
}

// HasMatches reports whether the document produced at least one match.
func (r FileResult) HasMatches() bool {
	return r.TotalMatches > 0
}

// Status returns "Error" for failed documents and "Processed" otherwise.
func (r FileResult) Status() string {
	if r.Failed() {
		return "Error"
	}
	return "Processed"
}

// MatchesByPage groups the matches by page number.
// The returned page list is in ascending order.
func (r FileResult) MatchesByPage() ([]int, map[int][]MatchRecord) {
	byPage := make(map[int][]MatchRecord)
	pages := make([]int, 0)
	for _, m := range r.Matches {
		if _, ok := byPage[m.Page]; !ok {
			pages = append(pages, m.Page)
		}
		byPage[m.Page] = append(byPage[m.Page], m)
	}
	sort.Ints(pages)
	return pages, byPage
}

// BatchResult is the aggregated outcome of one analysis run.
type BatchResult struct {
	// RunID uniquely identifies the run.
	RunID string `json:"run_id"`

	// Project is the operator-chosen project name.
	Project string `json:"project"`

	// StartedAt is when the run began.
	StartedAt time.Time `json:"started_at"`

	// FinishedAt is when the last document was processed.
	FinishedAt time.Time `json:"finished_at"`

	// Keywords is the frozen keyword set the run searched for.
	Keywords KeywordSet `json:"keywords"`

	// Files holds one result per input document, in input order.
	Files []FileResult `json:"files"`
}

// TotalMatches returns the number of matches across all documents.
func (b BatchResult) TotalMatches() int {
	total := 0
	for _, f := range b.Files {
		total += f.TotalMatches
	}
	return total
}

// FilesWithMatches returns how many documents produced at least one match.
func (b BatchResult) FilesWithMatches() int {
	n := 0
	for _, f := range b.Files {
		if f.HasMatches() {
			n++
		}
	}
	return n
}

// FilesWithErrors returns how many documents failed.
func (b BatchResult) FilesWithErrors() int {
	n := 0
	for _, f := range b.Files {
		if f.Failed() {
			n++
		}
	}
	return n
}

// AverageMatches returns the mean number of matches per document.
// It returns 0 for an empty batch.
func (b BatchResult) AverageMatches() float64 {
	if len(b.Files) == 0 {
		return 0
	}
	return float64(b.TotalMatches()) / float64(len(b.Files))
}

// Frequencies returns the per-keyword match counts in first-seen order.
// Keywords from the set come first in set order; keywords that only appear
// in the matches (which should not happen) follow in the order encountered.
// Keywords with zero matches are omitted.
func (b BatchResult) Frequencies() []KeywordCount {
	counts := make(map[string]int)
	order := make([]string, 0, b.Keywords.Len())
	order = append(order, b.Keywords.Keywords()...)
	for _, f := range b.Files {
		for _, m := range f.Matches {
			if _, seen := counts[m.Keyword]; !seen && !b.Keywords.Contains(m.Keyword) {
				order = append(order, m.Keyword)
			}
			counts[m.Keyword]++
		}
	}

	out := make([]KeywordCount, 0, len(counts))
	for _, k := range order {
		if c := counts[k]; c > 0 {
			out = append(out, KeywordCount{Keyword: k, Count: c})
		}
	}
	return out
}
