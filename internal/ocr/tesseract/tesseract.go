// Package tesseract implements ocr.Engine with the gosseract client.
package tesseract

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/otiai10/gosseract/v2"

	"github.com/nao1215/pdfscan/internal/ocr"
)

// Engine recognizes page images with Tesseract through gosseract.
// A new client is created per recognition and closed afterwards, so no
// image data is retained between pages.
type Engine struct {
	tessdataDir   string
	clientFactory func() *gosseract.Client
}

// Option configures an Engine.
type Option func(*Engine)

// WithTessdataDir sets the directory holding the *.traineddata files.
// When empty, Tesseract's compiled-in default is used.
func WithTessdataDir(dir string) Option {
	return func(e *Engine) {
		e.tessdataDir = dir
	}
}

// New creates a Tesseract engine.
func New(opts ...Option) *Engine {
	e := &Engine{clientFactory: gosseract.NewClient}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Name returns the engine name.
func (e *Engine) Name() string { return "tesseract" }

// TessdataDir returns the configured language data directory.
func (e *Engine) TessdataDir() string { return e.tessdataDir }

// Check verifies that the language data for language can be found.
// Without an explicit directory there is nothing to inspect and the check passes.
func (e *Engine) Check(language string) error {
	if e.tessdataDir == "" {
		return nil
	}
	for _, lang := range strings.Split(language, "+") {
		path := filepath.Join(e.tessdataDir, lang+".traineddata")
		if _, err := os.Stat(path); err != nil {
			return fmt.Errorf("%w: %s not found", ocr.ErrUnavailable, path)
		}
	}
	return nil
}

// Recognize runs Tesseract on the input image.
func (e *Engine) Recognize(ctx context.Context, in ocr.Input) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	c := e.clientFactory()
	defer c.Close()

	if e.tessdataDir != "" {
		c.SetTessdataPrefix(e.tessdataDir)
	}
	if in.Language != "" {
		if err := c.SetLanguage(strings.Split(in.Language, "+")...); err != nil {
			return "", fmt.Errorf("set language %s: %w", in.Language, err)
		}
	}
	if in.DPI > 0 {
		if err := c.SetVariable(gosseract.SettableVariable("user_defined_dpi"), fmt.Sprint(in.DPI)); err != nil {
			return "", fmt.Errorf("set dpi: %w", err)
		}
	}
	if err := c.SetImageFromBytes(in.Image); err != nil {
		return "", fmt.Errorf("set image: %w", err)
	}

	text, err := c.Text()
	if err != nil {
		return "", fmt.Errorf("recognize page %d: %w", in.Page, err)
	}
	return text, nil
}
