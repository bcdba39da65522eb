package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"

	"github.com/nao1215/pdfscan/internal/model"
)

// MarkdownWriter outputs reports in Markdown format.
// This format is designed for documentation and sharing.
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer, info RunInfo) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output, info),
	}
}

// Write outputs the full report in Markdown format.
func (w *MarkdownWriter) Write(result model.BatchResult) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, result)
	w.writeSummary(md, result)
	w.writeRanking(md, result)
	w.writeFiles(md, result)
	w.writeMatches(md, result)
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

// writeHeader writes the title and run settings table.
func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, result model.BatchResult) {
	md.H1("Keyword Analysis Report: " + result.Project)
	md.PlainText("")

	if w.info.Description != "" {
		md.PlainText(w.info.Description)
		md.PlainText("")
	}

	ocr := yesNo(w.info.OCREnabled)
	if w.info.OCREnabled && w.info.OCRLanguage != "" {
		ocr += " (`" + w.info.OCRLanguage + "`)"
	}

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Run ID", "`" + result.RunID + "`"},
			{"Finished", result.FinishedAt.Format("2006-01-02 15:04:05 MST")},
			{"Files", strconv.Itoa(len(result.Files))},
			{"Keywords", escapeCell(strings.Join(result.Keywords.Keywords(), ", "))},
			{"Case Sensitive", yesNo(result.Keywords.CaseSensitive)},
			{"Whole Words Only", yesNo(result.Keywords.WholeWord)},
			{"OCR", ocr},
		},
	})
	md.PlainText("")
}

// writeSummary writes the executive summary table and an alert.
func (w *MarkdownWriter) writeSummary(md *markdown.Markdown, result model.BatchResult) {
	md.H2("Executive Summary")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Metric", "Value"},
		Rows: [][]string{
			{"Total Matches", strconv.Itoa(result.TotalMatches())},
			{"Files With Matches", fmt.Sprintf("%d of %d", result.FilesWithMatches(), len(result.Files))},
			{"Files With Errors", strconv.Itoa(result.FilesWithErrors())},
			{"Average Matches per File", fmt.Sprintf("%.1f", result.AverageMatches())},
		},
	})
	md.PlainText("")

	switch {
	case result.FilesWithErrors() > 0:
		md.Warningf("%d file(s) could not be processed. See the file table for details.", result.FilesWithErrors())
	case result.TotalMatches() == 0:
		md.Note("No keyword was found in any document.")
	default:
		md.Tip("All documents were processed.")
	}
	md.PlainText("")
}

// writeRanking writes the most frequent keywords and their distribution.
func (w *MarkdownWriter) writeRanking(md *markdown.Markdown, result model.BatchResult) {
	freq := result.Frequencies()
	if len(freq) == 0 {
		return
	}

	md.H2("Most Frequent Keywords")
	md.PlainText("")

	ranking := model.RankKeywords(freq, RankingSize)
	rows := make([][]string, len(ranking))
	for i, kc := range ranking {
		rows[i] = []string{strconv.Itoa(i + 1), escapeCell(kc.Keyword), strconv.Itoa(kc.Count)}
	}
	md.Table(markdown.TableSet{
		Header: []string{"Rank", "Keyword", "Occurrences"},
		Rows:   rows,
	})
	md.PlainText("")

	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Keyword Frequency"),
		piechart.WithShowData(true),
	)
	for _, kc := range freq {
		chart.LabelAndIntValue(kc.Keyword, uint64(kc.Count)) //nolint:gosec // Counts are never negative
	}

	md.PlainText("")
	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}

// writeFiles writes the per-file summary table.
func (w *MarkdownWriter) writeFiles(md *markdown.Markdown, result model.BatchResult) {
	md.H2("Files")
	md.PlainText("")

	if len(result.Files) == 0 {
		md.PlainText("No files were analyzed.")
		md.PlainText("")
		return
	}

	rows := make([][]string, len(result.Files))
	for i, fr := range result.Files {
		note := "-"
		if fr.Failed() {
			note = escapeCell(fr.Error)
		}
		rows[i] = []string{
			escapeCell(fr.File),
			strconv.Itoa(fr.TotalMatches),
			strconv.Itoa(fr.PagesProcessed),
			fr.Status(),
			note,
		}
	}
	md.Table(markdown.TableSet{
		Header: []string{"File", "Total Matches", "Pages Processed", "Status", "Error"},
		Rows:   rows,
	})
	md.PlainText("")
}

// writeMatches writes one match table per file that produced matches.
func (w *MarkdownWriter) writeMatches(md *markdown.Markdown, result model.BatchResult) {
	md.H2("Match Details")
	md.PlainText("")

	written := false
	for _, fr := range result.Files {
		if !fr.HasMatches() {
			continue
		}
		written = true

		md.H3(fr.File)
		md.PlainText("")

		rows := make([][]string, 0, len(fr.Matches))
		pages, byPage := fr.MatchesByPage()
		for _, page := range pages {
			for _, m := range byPage[page] {
				rows = append(rows, []string{
					strconv.Itoa(m.Page),
					escapeCell(m.Keyword),
					escapeCell(m.MatchedText),
					escapeCell(m.HighlightedContext),
				})
			}
		}
		md.Table(markdown.TableSet{
			Header: []string{"Page", "Keyword", "Matched Text", "Context"},
			Rows:   rows,
		})
		md.PlainText("")
	}

	if !written {
		md.PlainText("No matches found.")
		md.PlainText("")
	}
}

// writeFooter writes the report footer.
func (w *MarkdownWriter) writeFooter(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("")
	if w.info.Version != "" {
		md.PlainTextf("*Report generated by pdfscan %s*", w.info.Version)
		return
	}
	md.PlainText("*Report generated by pdfscan*")
}

// escapeCell keeps table cells on one line and escapes column separators.
func escapeCell(s string) string {
	s = strings.ReplaceAll(s, "\n", " ")
	return strings.ReplaceAll(s, "|", `\|`)
}
