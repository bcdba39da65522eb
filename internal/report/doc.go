// Package report writes the results of an analysis run.
//
// This package contains writers for different output formats:
//   - TextWriter: the detailed plain text report, always produced
//   - MarkdownWriter: tables and a keyword frequency chart for sharing
//   - JSONWriter: the full batch result for tool integration
//   - ExcelWriter: a two-sheet workbook (summary and match details)
//
// Builder decides which of these run for a batch and where their files go.
package report
