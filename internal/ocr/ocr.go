package ocr

import (
	"context"
	"errors"
)

// ErrUnavailable is returned by Check when the engine cannot run on this host.
var ErrUnavailable = errors.New("ocr engine unavailable")

// Input is a rendered page image to recognize.
type Input struct {
	// Image is the encoded image (PNG).
	Image []byte

	// Language is the recognition language code, e.g. "spa" or "eng".
	Language string

	// DPI is the resolution the image was rendered at.
	DPI int

	// Page is the 1-based page number, used for logging only.
	Page int
}

// Engine turns a page image into text.
type Engine interface {
	// Name returns the engine name for logging.
	Name() string

	// Recognize returns the plain text found in the image.
	Recognize(ctx context.Context, in Input) (string, error)
}

// Checker is implemented by engines that can verify their runtime
// requirements (native library, language data) before a run.
type Checker interface {
	Check(language string) error
}

// Available reports whether engine is non-nil and, when it implements
// Checker, whether its check passes for language.
func Available(engine Engine, language string) error {
	if engine == nil {
		return ErrUnavailable
	}
	if c, ok := engine.(Checker); ok {
		return c.Check(language)
	}
	return nil
}
