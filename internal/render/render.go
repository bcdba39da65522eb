// Package render rasterizes single PDF pages to PNG images for optical recognition.
//
// Fitz renders in-process with MuPDF through go-fitz. Poppler shells out to
// pdftoppm, one page per call, into a private temporary directory that is
// removed before the call returns. Chain tries renderers in order, so
// pdftoppm can back up MuPDF on documents it cannot draw.
package render

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
)

// DefaultDPI is the resolution used for recognition.
const DefaultDPI = 300

// DefaultCommand is the poppler rasterizer binary.
const DefaultCommand = "pdftoppm"

// ErrRendererNotFound is returned when the rasterizer binary is not on PATH.
var ErrRendererNotFound = errors.New("pdftoppm not found in PATH (install poppler-utils)")

// Renderer renders one page of a PDF file to an encoded image.
type Renderer interface {
	RenderPage(ctx context.Context, pdfPath string, page, dpi int) ([]byte, error)
}

// Poppler renders pages with pdftoppm.
type Poppler struct {
	command string
	tempDir string
}

// Option configures a Poppler renderer.
type Option func(*Poppler)

// WithCommand overrides the pdftoppm binary name or path.
func WithCommand(command string) Option {
	return func(p *Poppler) {
		if command != "" {
			p.command = command
		}
	}
}

// WithTempDir sets the parent directory for per-page scratch directories.
func WithTempDir(dir string) Option {
	return func(p *Poppler) {
		p.tempDir = dir
	}
}

// NewPoppler creates a pdftoppm-backed renderer.
func NewPoppler(opts ...Option) *Poppler {
	p := &Poppler{command: DefaultCommand}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Check verifies that the rasterizer binary can be found.
func (p *Poppler) Check() error {
	if _, err := exec.LookPath(p.command); err != nil {
		return fmt.Errorf("%w: %v", ErrRendererNotFound, err)
	}
	return nil
}

// RenderPage renders the 1-based page of pdfPath as PNG at dpi.
func (p *Poppler) RenderPage(ctx context.Context, pdfPath string, page, dpi int) ([]byte, error) {
	if page < 1 {
		return nil, fmt.Errorf("invalid page number %d", page)
	}
	if dpi <= 0 {
		dpi = DefaultDPI
	}

	dir, err := os.MkdirTemp(p.tempDir, "pdfscan-page-")
	if err != nil {
		return nil, fmt.Errorf("create scratch directory: %w", err)
	}
	defer os.RemoveAll(dir) //nolint:errcheck // Best effort cleanup

	prefix := filepath.Join(dir, "page")
	args, err := popplerArgs(pdfPath, prefix, page, dpi)
	if err != nil {
		return nil, err
	}
	//nolint:gosec // Arguments are a page number, a DPI and the operator-selected file
	cmd := exec.CommandContext(ctx, p.command, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg != "" {
			return nil, fmt.Errorf("render page %d: %w: %s", page, err, msg)
		}
		return nil, fmt.Errorf("render page %d: %w", page, err)
	}

	data, err := os.ReadFile(prefix + ".png")
	if err != nil {
		return nil, fmt.Errorf("read rendered page %d: %w", page, err)
	}
	return data, nil
}

// popplerArgs builds the pdftoppm arguments for a single page. Both paths
// are made absolute so a file name starting with '-' is not read as an option.
func popplerArgs(pdfPath, prefix string, page, dpi int) ([]string, error) {
	src, err := filepath.Abs(pdfPath)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", pdfPath, err)
	}
	dst, err := filepath.Abs(prefix)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", prefix, err)
	}
	n := strconv.Itoa(page)
	return []string{
		"-f", n, "-l", n,
		"-r", strconv.Itoa(dpi),
		"-png", "-singlefile",
		src, dst,
	}, nil
}
