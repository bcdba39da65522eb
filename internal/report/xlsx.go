package report

import (
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"

	"github.com/nao1215/pdfscan/internal/model"
)

// Workbook sheet names.
const (
	SummarySheet = "Summary"
	DetailSheet  = "Match Details"
)

const (
	// maxColumnWidth caps automatic column widths.
	maxColumnWidth = 50
	// headerFill is the background color of header rows.
	headerFill = "CCCCCC"
	// defaultSheet is the sheet every new workbook starts with.
	defaultSheet = "Sheet1"
)

var (
	summaryHeader = []string{"File", "Total Matches", "Pages Processed", "Status"}
	detailHeader  = []string{"File", "Page", "Keyword", "Matched Text", "Context"}
)

// TabularWriter writes a batch result as a spreadsheet file.
type TabularWriter interface {
	// WriteFile writes result to path.
	WriteFile(path string, result model.BatchResult) error
	// Extension returns the file extension, including the dot.
	Extension() string
}

// ExcelWriter writes .xlsx workbooks with a summary sheet and a match detail sheet.
type ExcelWriter struct{}

// NewExcelWriter creates an ExcelWriter.
func NewExcelWriter() *ExcelWriter {
	return &ExcelWriter{}
}

// Extension returns ".xlsx".
func (w *ExcelWriter) Extension() string {
	return ".xlsx"
}

// WriteFile writes result to path as an Excel workbook.
func (w *ExcelWriter) WriteFile(path string, result model.BatchResult) (err error) {
	f := excelize.NewFile()
	defer func() {
		if cerr := f.Close(); cerr != nil {
			err = errors.Join(err, cerr)
		}
	}()

	header, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{headerFill}, Pattern: 1},
	})
	if err != nil {
		return fmt.Errorf("create header style: %w", err)
	}

	if err := f.SetSheetName(defaultSheet, SummarySheet); err != nil {
		return err
	}
	if _, err := f.NewSheet(DetailSheet); err != nil {
		return err
	}

	summary := make([][]any, 0, len(result.Files))
	details := make([][]any, 0, result.TotalMatches())
	for _, fr := range result.Files {
		summary = append(summary, []any{fr.File, fr.TotalMatches, fr.PagesProcessed, fr.Status()})
		for _, m := range fr.Matches {
			details = append(details, []any{fr.File, m.Page, m.Keyword, m.MatchedText, m.Context})
		}
	}

	if err := writeSheet(f, SummarySheet, header, summaryHeader, summary); err != nil {
		return err
	}
	if err := writeSheet(f, DetailSheet, header, detailHeader, details); err != nil {
		return err
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}
	return nil
}

// writeSheet writes a styled header row followed by rows, then sizes the columns.
func writeSheet(f *excelize.File, sheet string, style int, header []string, rows [][]any) error {
	widths := make([]int, len(header))
	headerRow := make([]any, len(header))
	for i, h := range header {
		headerRow[i] = h
		widths[i] = utf8.RuneCountInString(h)
	}

	if err := f.SetSheetRow(sheet, "A1", &headerRow); err != nil {
		return err
	}
	last, err := excelize.CoordinatesToCellName(len(header), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", last, style); err != nil {
		return err
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
		for col, v := range row {
			if n := utf8.RuneCountInString(fmt.Sprint(v)); n > widths[col] {
				widths[col] = n
			}
		}
	}

	for col, width := range widths {
		name, err := excelize.ColumnNumberToName(col + 1)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(sheet, name, name, float64(ColumnWidth(width))); err != nil {
			return err
		}
	}
	return nil
}

// ColumnWidth returns the display width for a column whose longest value
// has n characters.
func ColumnWidth(n int) int {
	return min(n+2, maxColumnWidth)
}
