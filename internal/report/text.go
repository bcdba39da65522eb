package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/nao1215/pdfscan/internal/model"
)

const (
	wideRule   = 80
	narrowRule = 40
	matchRule  = 50
)

// TextWriter outputs the detailed plain text report.
type TextWriter struct {
	baseWriter

	// upper upper-cases the project name in the title.
	upper cases.Caser

	// now stamps the report date.
	now func() time.Time
}

// TextWriterOption configures a TextWriter.
type TextWriterOption func(*TextWriter)

// WithTitleLanguage sets the language used to upper-case the project name.
func WithTitleLanguage(tag language.Tag) TextWriterOption {
	return func(w *TextWriter) {
		w.upper = cases.Upper(tag)
	}
}

// WithClock sets the clock used for the report date.
func WithClock(now func() time.Time) TextWriterOption {
	return func(w *TextWriter) {
		w.now = now
	}
}

// NewTextWriter creates a TextWriter that outputs to the given writer.
func NewTextWriter(output io.Writer, info RunInfo, opts ...TextWriterOption) *TextWriter {
	w := &TextWriter{
		baseWriter: newBaseWriter(output, info),
		upper:      cases.Upper(language.Und),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Write outputs the full report.
func (w *TextWriter) Write(result model.BatchResult) (int, error) {
	var sb strings.Builder

	w.writeHeader(&sb, result)
	w.writeSummary(&sb, result)
	w.writeRanking(&sb, result)
	w.writeFiles(&sb, result)

	return io.WriteString(w.output, sb.String())
}

// writeHeader writes the title and run settings.
func (w *TextWriter) writeHeader(sb *strings.Builder, result model.BatchResult) {
	fmt.Fprintf(sb, "DETAILED KEYWORD ANALYSIS REPORT - %s\n", w.upper.String(result.Project))
	sb.WriteString(strings.Repeat("=", wideRule) + "\n")
	if w.info.Description != "" {
		fmt.Fprintf(sb, "Description: %s\n", w.info.Description)
	}
	fmt.Fprintf(sb, "Date: %s\n", w.now().Format("2006-01-02 15:04:05"))
	if result.RunID != "" {
		fmt.Fprintf(sb, "Run ID: %s\n", result.RunID)
	}
	fmt.Fprintf(sb, "Total files processed: %d\n", len(result.Files))
	fmt.Fprintf(sb, "Keywords searched: %s\n", strings.Join(result.Keywords.Keywords(), ", "))
	sb.WriteString("Settings:\n")
	fmt.Fprintf(sb, "  - Case sensitive: %s\n", yesNo(result.Keywords.CaseSensitive))
	fmt.Fprintf(sb, "  - Whole words only: %s\n", yesNo(result.Keywords.WholeWord))
	fmt.Fprintf(sb, "  - OCR enabled: %s\n", yesNo(w.info.OCREnabled))
	if w.info.OCREnabled && w.info.OCRLanguage != "" {
		fmt.Fprintf(sb, "  - OCR language: %s\n", w.info.OCRLanguage)
	}
	sb.WriteString("\n")
}

// writeSummary writes the executive summary.
func (w *TextWriter) writeSummary(sb *strings.Builder, result model.BatchResult) {
	sb.WriteString("EXECUTIVE SUMMARY:\n")
	sb.WriteString(strings.Repeat("-", narrowRule) + "\n")
	fmt.Fprintf(sb, "* Total matches found: %d\n", result.TotalMatches())
	fmt.Fprintf(sb, "* Files with matches: %d of %d\n", result.FilesWithMatches(), len(result.Files))
	fmt.Fprintf(sb, "* Files with errors: %d\n", result.FilesWithErrors())
	fmt.Fprintf(sb, "* Average matches per file: %.1f\n", result.AverageMatches())
	sb.WriteString("\n")
}

// writeRanking writes the most frequent keywords, omitted when nothing matched.
func (w *TextWriter) writeRanking(sb *strings.Builder, result model.BatchResult) {
	ranking := model.RankKeywords(result.Frequencies(), RankingSize)
	if len(ranking) == 0 {
		return
	}

	sb.WriteString("MOST FREQUENT KEYWORDS:\n")
	sb.WriteString(strings.Repeat("-", narrowRule) + "\n")
	for i, kc := range ranking {
		fmt.Fprintf(sb, "%2d. %s: %d occurrences\n", i+1, kc.Keyword, kc.Count)
	}
	sb.WriteString("\n")
}

// writeFiles writes the per-file detail.
func (w *TextWriter) writeFiles(sb *strings.Builder, result model.BatchResult) {
	sb.WriteString("DETAIL BY FILE:\n")
	sb.WriteString(strings.Repeat("=", wideRule) + "\n")

	for _, fr := range result.Files {
		fmt.Fprintf(sb, "\nFILE: %s\n", fr.File)
		fmt.Fprintf(sb, "   Path: %s\n", fr.Path)

		if fr.Failed() {
			fmt.Fprintf(sb, "   ERROR: %s\n", fr.Error)
			sb.WriteString("\n" + strings.Repeat("=", wideRule) + "\n")
			continue
		}

		fmt.Fprintf(sb, "   Total matches: %d\n", fr.TotalMatches)
		fmt.Fprintf(sb, "   Pages processed: %d\n", fr.PagesProcessed)
		if fr.OCRPages > 0 {
			fmt.Fprintf(sb, "   Pages recognized with OCR: %d\n", fr.OCRPages)
		}

		if fr.HasMatches() {
			w.writeMatches(sb, fr)
		} else {
			sb.WriteString("   No matches found in this file.\n")
		}
		sb.WriteString("\n" + strings.Repeat("=", wideRule) + "\n")
	}
}

// writeMatches writes the matches of one file grouped by page.
func (w *TextWriter) writeMatches(sb *strings.Builder, fr model.FileResult) {
	sb.WriteString("\n   DETAILED MATCHES:\n")
	fmt.Fprintf(sb, "   %s\n", strings.Repeat("-", matchRule))

	pages, byPage := fr.MatchesByPage()
	for _, page := range pages {
		fmt.Fprintf(sb, "\n   PAGE %d:\n", page)
		for j, m := range byPage[page] {
			fmt.Fprintf(sb, "      %d. Word: \"%s\"\n", j+1, m.MatchedText)
			fmt.Fprintf(sb, "         Keyword: %s\n", m.Keyword)
			fmt.Fprintf(sb, "         Context: ...%s...\n", m.Context)
			fmt.Fprintf(sb, "         %s\n", strings.Repeat("-", narrowRule))
		}
	}
}
