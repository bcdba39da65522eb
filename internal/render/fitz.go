package render

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image/png"

	"github.com/gen2brain/go-fitz"
)

// ErrNoRenderer is returned by an empty Chain.
var ErrNoRenderer = errors.New("no page renderer configured")

// Fitz renders pages in-process with MuPDF.
// Each call opens the document, draws one page and closes it again, so no
// pixmap outlives the call.
type Fitz struct{}

// NewFitz creates a MuPDF-backed renderer.
func NewFitz() *Fitz {
	return &Fitz{}
}

// Check always succeeds: MuPDF is linked into the binary.
func (f *Fitz) Check() error {
	return nil
}

// RenderPage renders the 1-based page of pdfPath as PNG at dpi.
func (f *Fitz) RenderPage(ctx context.Context, pdfPath string, page, dpi int) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if page < 1 {
		return nil, fmt.Errorf("invalid page number %d", page)
	}
	if dpi <= 0 {
		dpi = DefaultDPI
	}

	doc, err := fitz.New(pdfPath)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", pdfPath, err)
	}
	defer doc.Close() //nolint:errcheck // Read-only document

	if n := doc.NumPage(); page > n {
		return nil, fmt.Errorf("render page %d: page out of range 1..%d", page, n)
	}

	img, err := doc.ImageDPI(page-1, float64(dpi))
	if err != nil {
		return nil, fmt.Errorf("render page %d: %w", page, err)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode page %d: %w", page, err)
	}
	return buf.Bytes(), nil
}

// Chain renders with the first renderer that succeeds.
type Chain []Renderer

// RenderPage tries each renderer in order. When all fail, the errors are
// joined. A cancelled context stops the chain.
func (c Chain) RenderPage(ctx context.Context, pdfPath string, page, dpi int) ([]byte, error) {
	if len(c) == 0 {
		return nil, ErrNoRenderer
	}
	var errs []error
	for _, r := range c {
		data, err := r.RenderPage(ctx, pdfPath, page, dpi)
		if err == nil {
			return data, nil
		}
		errs = append(errs, err)
		if ctx.Err() != nil {
			break
		}
	}
	return nil, errors.Join(errs...)
}
