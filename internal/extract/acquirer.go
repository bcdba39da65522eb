package extract

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/nao1215/pdfscan/internal/ocr"
	"github.com/nao1215/pdfscan/internal/render"
)

// ScannedPageThreshold is the minimum number of non-blank-trimmed characters
// of embedded text for a page to be considered digitally authored.
const ScannedPageThreshold = 50

// DefaultLanguage is the recognition language used when none is configured.
const DefaultLanguage = "spa"

// Text acquisition methods reported in Result.Method.
const (
	// MethodEmbedded means the text came from the page content stream.
	MethodEmbedded = "embedded"
	// MethodOCR means the page was rendered and recognized.
	MethodOCR = "ocr"
	// MethodOCRFailed means recognition was attempted and failed; the text is empty.
	MethodOCRFailed = "ocr_failed"
)

// Result is the text acquired for one page.
type Result struct {
	Text   string
	Method string
}

// Acquirer extracts page text with an optical recognition fallback.
type Acquirer struct {
	renderer   render.Renderer
	engine     ocr.Engine
	ocrEnabled bool
	language   string
	dpi        int
	logger     *slog.Logger
}

// Option configures an Acquirer.
type Option func(*Acquirer)

// WithRenderer sets the page renderer used for the fallback.
func WithRenderer(r render.Renderer) Option {
	return func(a *Acquirer) {
		a.renderer = r
	}
}

// WithEngine sets the recognition engine used for the fallback.
func WithEngine(e ocr.Engine) Option {
	return func(a *Acquirer) {
		a.engine = e
	}
}

// WithOCR enables or disables the recognition fallback.
func WithOCR(enabled bool) Option {
	return func(a *Acquirer) {
		a.ocrEnabled = enabled
	}
}

// WithLanguage sets the recognition language.
func WithLanguage(lang string) Option {
	return func(a *Acquirer) {
		if lang != "" {
			a.language = lang
		}
	}
}

// WithDPI sets the rendering resolution.
func WithDPI(dpi int) Option {
	return func(a *Acquirer) {
		if dpi > 0 {
			a.dpi = dpi
		}
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(a *Acquirer) {
		a.logger = logger
	}
}

// NewAcquirer creates an Acquirer. OCR is enabled by default but only takes
// effect once both a renderer and an engine are configured.
func NewAcquirer(opts ...Option) *Acquirer {
	a := &Acquirer{
		ocrEnabled: true,
		language:   DefaultLanguage,
		dpi:        render.DefaultDPI,
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.logger == nil {
		a.logger = slog.Default()
	}
	return a
}

// OCRAvailable reports whether scanned pages will be recognized.
func (a *Acquirer) OCRAvailable() bool {
	return a.ocrEnabled && a.renderer != nil && a.engine != nil
}

// Extract returns the text of the 1-based page of doc.
// The only error it returns is a *PageExtractionError for a page that
// cannot be read at all; recognition failures yield empty text.
func (a *Acquirer) Extract(ctx context.Context, doc Document, page int) (Result, error) {
	text, err := doc.PageText(page)
	if err != nil {
		var pe *PageExtractionError
		if !errors.As(err, &pe) {
			err = &PageExtractionError{Page: page, Err: err}
		}
		return Result{}, err
	}

	if !IsScanned(text) {
		return Result{Text: text, Method: MethodEmbedded}, nil
	}
	if !a.OCRAvailable() {
		a.logger.Debug("page looks scanned but OCR is unavailable",
			"file", doc.Path(),
			"page", page,
		)
		return Result{Text: text, Method: MethodEmbedded}, nil
	}

	a.logger.Debug("using OCR for scanned page",
		"file", doc.Path(),
		"page", page,
		"engine", a.engine.Name(),
		"language", a.language,
		"dpi", a.dpi,
	)

	img, err := a.renderer.RenderPage(ctx, doc.Path(), page, a.dpi)
	if err != nil {
		a.logger.Warn("page rendering failed", "file", doc.Path(), "page", page, "error", err)
		return Result{Method: MethodOCRFailed}, nil
	}

	recognized, err := a.engine.Recognize(ctx, ocr.Input{
		Image:    img,
		Language: a.language,
		DPI:      a.dpi,
		Page:     page,
	})
	if err != nil {
		a.logger.Warn("OCR failed", "file", doc.Path(), "page", page, "error", err)
		return Result{Method: MethodOCRFailed}, nil
	}
	return Result{Text: recognized, Method: MethodOCR}, nil
}

// IsScanned reports whether embedded text is too short to be trusted.
func IsScanned(text string) bool {
	return utf8.RuneCountInString(strings.TrimSpace(text)) < ScannedPageThreshold
}
