package report

import (
	"encoding/json"
	"io"

	"github.com/nao1215/pdfscan/internal/model"
)

// JSONWriter outputs reports in JSON format.
// This format is designed for tool integration and programmatic processing.
type JSONWriter struct {
	baseWriter

	// indent enables pretty-printed JSON output.
	indent bool
}

// JSONWriterOption configures a JSONWriter.
type JSONWriterOption func(*JSONWriter)

// WithPrettyPrint enables pretty-printed JSON with two-space indentation.
func WithPrettyPrint() JSONWriterOption {
	return func(w *JSONWriter) {
		w.indent = true
	}
}

// NewJSONWriter creates a JSONWriter that outputs to the given writer.
func NewJSONWriter(output io.Writer, info RunInfo, opts ...JSONWriterOption) *JSONWriter {
	w := &JSONWriter{
		baseWriter: newBaseWriter(output, info),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// JSONReport is the document written by JSONWriter.
type JSONReport struct {
	// Version is the pdfscan version that generated this report.
	Version string `json:"version,omitempty"`

	// Description is the project description.
	Description string `json:"description,omitempty"`

	// OCREnabled and OCRLanguage describe the text acquisition settings.
	OCREnabled  bool   `json:"ocr_enabled"`
	OCRLanguage string `json:"ocr_language,omitempty"`

	// Summary holds the aggregates shown in the executive summary.
	Summary JSONSummary `json:"summary"`

	// Result is the full batch result.
	Result model.BatchResult `json:"result"`
}

// JSONSummary holds batch aggregates.
type JSONSummary struct {
	TotalMatches     int                  `json:"total_matches"`
	FilesWithMatches int                  `json:"files_with_matches"`
	FilesWithErrors  int                  `json:"files_with_errors"`
	AverageMatches   float64              `json:"average_matches"`
	Ranking          []model.KeywordCount `json:"ranking"`
}

// NewJSONReport builds the JSON document for result.
func NewJSONReport(result model.BatchResult, info RunInfo) JSONReport {
	return JSONReport{
		Version:     info.Version,
		Description: info.Description,
		OCREnabled:  info.OCREnabled,
		OCRLanguage: info.OCRLanguage,
		Summary: JSONSummary{
			TotalMatches:     result.TotalMatches(),
			FilesWithMatches: result.FilesWithMatches(),
			FilesWithErrors:  result.FilesWithErrors(),
			AverageMatches:   result.AverageMatches(),
			Ranking:          model.RankKeywords(result.Frequencies(), RankingSize),
		},
		Result: result,
	}
}

// Write outputs the report in JSON format.
func (w *JSONWriter) Write(result model.BatchResult) (int, error) {
	var (
		data []byte
		err  error
	)
	report := NewJSONReport(result, w.info)
	if w.indent {
		data, err = json.MarshalIndent(report, "", "  ")
	} else {
		data, err = json.Marshal(report)
	}
	if err != nil {
		return 0, err
	}

	// Add trailing newline for better terminal output
	data = append(data, '\n')

	return w.output.Write(data)
}
