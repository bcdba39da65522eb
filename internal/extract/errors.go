package extract

import (
	"errors"
	"fmt"
)

// ErrNotPDF is returned when a file does not start with the PDF header.
var ErrNotPDF = errors.New("not a PDF file")

// DocumentOpenError reports a document that is missing, unreadable or corrupt.
// It aborts the analysis of that document only.
type DocumentOpenError struct {
	Path string
	Err  error
}

func (e *DocumentOpenError) Error() string {
	return fmt.Sprintf("open document %s: %v", e.Path, e.Err)
}

func (e *DocumentOpenError) Unwrap() error { return e.Err }

// PageExtractionError reports a single page whose text could not be read.
// The page is skipped and contributes no matches.
type PageExtractionError struct {
	Page int
	Err  error
}

func (e *PageExtractionError) Error() string {
	return fmt.Sprintf("extract page %d: %v", e.Page, e.Err)
}

func (e *PageExtractionError) Unwrap() error { return e.Err }
