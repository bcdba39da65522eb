package extract

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/ledongthuc/pdf"
)

// Document is an opened PDF whose pages can be read one at a time.
type Document interface {
	// Path returns the file the document was opened from.
	Path() string

	// NumPage returns the number of pages.
	NumPage() int

	// PageText returns the embedded text of the 1-based page.
	PageText(page int) (string, error)

	// Close releases the underlying file.
	Close() error
}

// Opener opens a document by path.
type Opener func(path string) (Document, error)

// pdfHeader is the magic prefix of every PDF file.
var pdfHeader = []byte("%PDF-")

// pdfDocument is the ledongthuc/pdf-backed Document.
type pdfDocument struct {
	path   string
	file   *os.File
	reader *pdf.Reader
}

// readerFunc parses a PDF from an open file.
type readerFunc func(f io.ReaderAt, size int64) (*pdf.Reader, error)

// Open opens a PDF file for page-by-page text extraction.
// Every failure is reported as a *DocumentOpenError.
func Open(path string) (Document, error) {
	return openWith(path, pdf.NewReader)
}

func openWith(path string, newReader readerFunc) (doc Document, err error) {
	f, err := os.Open(path) //nolint:gosec // Operator-selected input file
	if err != nil {
		return nil, &DocumentOpenError{Path: path, Err: err}
	}

	// The parser panics on some malformed cross-reference tables.
	defer func() {
		if r := recover(); r != nil {
			_ = f.Close()
			doc = nil
			err = &DocumentOpenError{Path: path, Err: fmt.Errorf("malformed PDF: %v", r)}
		}
	}()

	info, err := f.Stat()
	if err == nil {
		err = checkHeader(f)
	}
	if err != nil {
		_ = f.Close()
		return nil, &DocumentOpenError{Path: path, Err: err}
	}

	r, err := newReader(f, info.Size())
	if err != nil {
		_ = f.Close()
		return nil, &DocumentOpenError{Path: path, Err: err}
	}
	return &pdfDocument{path: path, file: f, reader: r}, nil
}

// checkHeader rejects files that do not start with %PDF-.
func checkHeader(f io.ReaderAt) error {
	header := make([]byte, len(pdfHeader))
	if _, err := f.ReadAt(header, 0); err != nil {
		if errors.Is(err, io.EOF) {
			return ErrNotPDF
		}
		return err
	}
	if !bytes.Equal(header, pdfHeader) {
		return ErrNotPDF
	}
	return nil
}

func (d *pdfDocument) Path() string { return d.path }

func (d *pdfDocument) NumPage() int { return d.reader.NumPage() }

// PageText extracts the plain text of the page. Parser panics are recovered
// and reported as *PageExtractionError.
func (d *pdfDocument) PageText(page int) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			text = ""
			err = &PageExtractionError{Page: page, Err: fmt.Errorf("malformed page: %v", r)}
		}
	}()

	if page < 1 || page > d.reader.NumPage() {
		return "", &PageExtractionError{Page: page, Err: fmt.Errorf("page out of range 1..%d", d.reader.NumPage())}
	}
	p := d.reader.Page(page)
	if p.V.IsNull() {
		return "", &PageExtractionError{Page: page, Err: errors.New("page object missing")}
	}
	text, err = p.GetPlainText(nil)
	if err != nil {
		return "", &PageExtractionError{Page: page, Err: err}
	}
	return text, nil
}

func (d *pdfDocument) Close() error {
	return d.file.Close()
}
