package report

import (
	"io"

	"github.com/nao1215/pdfscan/internal/model"
)

// RankingSize is the number of keywords listed in frequency rankings.
const RankingSize = 10

// Writer defines the interface for report output.
// Implementations write a batch result in one format.
type Writer interface {
	// Write outputs the report to the configured destination.
	// Returns the number of bytes written and any error encountered.
	Write(result model.BatchResult) (int, error)
}

// RunInfo carries run settings that are not part of the batch result
// but are printed in report headers.
type RunInfo struct {
	// Description is the operator's free-form project description.
	Description string
	// OCREnabled reports whether scanned pages were recognized.
	OCREnabled bool
	// OCRLanguage is the recognition language.
	OCRLanguage string
	// Version is the pdfscan version that generated the report.
	Version string
}

// baseWriter provides common functionality for report writers.
type baseWriter struct {
	output io.Writer
	info   RunInfo
}

// newBaseWriter creates a baseWriter with the given output destination.
func newBaseWriter(output io.Writer, info RunInfo) baseWriter {
	return baseWriter{output: output, info: info}
}

// yesNo renders a flag for humans.
func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}
